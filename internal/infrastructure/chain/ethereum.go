package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/citizenwallet/brussels-pay-wallet/internal/domain"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

const erc20ABI = `[{"constant":true,"inputs":[{"name":"account","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"}]`

const cardManagerABI = `[{"inputs":[{"name":"id","type":"bytes32"},{"name":"hashedSerial","type":"bytes32"}],"name":"getCardAddress","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"}]`

// Caller is the read-only part of an RPC client.
type Caller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// EthChain reads token balances and card accounts over JSON-RPC.
type EthChain struct {
	caller      Caller
	cardManager common.Address
	instanceID  [32]byte

	erc20 abi.ABI
	cards abi.ABI
}

func Dial(ctx context.Context, rpcURL, cardManager, instance string) (*EthChain, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	return NewEthChain(client, cardManager, instance)
}

func NewEthChain(caller Caller, cardManager, instance string) (*EthChain, error) {
	erc20, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, err
	}
	cards, err := abi.JSON(strings.NewReader(cardManagerABI))
	if err != nil {
		return nil, err
	}
	if cardManager != "" && !common.IsHexAddress(cardManager) {
		return nil, fmt.Errorf("card manager: %w", domain.ErrInvalidAddress)
	}
	return &EthChain{
		caller:      caller,
		cardManager: common.HexToAddress(cardManager),
		instanceID:  crypto.Keccak256Hash([]byte(instance)),
		erc20:       erc20,
		cards:       cards,
	}, nil
}

func (c *EthChain) BalanceOf(ctx context.Context, token, account string) (*big.Int, error) {
	if !common.IsHexAddress(token) || !common.IsHexAddress(account) {
		return nil, domain.ErrInvalidAddress
	}
	data, err := c.erc20.Pack("balanceOf", common.HexToAddress(account))
	if err != nil {
		return nil, err
	}

	to := common.HexToAddress(token)
	out, err := c.caller.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("balanceOf: %w", err)
	}

	values, err := c.erc20.Unpack("balanceOf", out)
	if err != nil {
		return nil, fmt.Errorf("decode balanceOf: %w", err)
	}
	balance, ok := values[0].(*big.Int)
	if !ok {
		return nil, errors.New("decode balanceOf: unexpected type")
	}
	return balance, nil
}

// HashSerial is the card id registered on chain for a serial number.
func HashSerial(serial string) common.Hash {
	return crypto.Keccak256Hash([]byte(serial))
}

// CardAddress derives the account of a card from its serial number.
func (c *EthChain) CardAddress(ctx context.Context, serial string) (string, error) {
	if c.cardManager == (common.Address{}) {
		return "", errors.New("card manager is not configured")
	}
	data, err := c.cards.Pack("getCardAddress", c.instanceID, HashSerial(serial))
	if err != nil {
		return "", err
	}

	out, err := c.caller.CallContract(ctx, ethereum.CallMsg{To: &c.cardManager, Data: data}, nil)
	if err != nil {
		return "", fmt.Errorf("getCardAddress: %w", err)
	}

	values, err := c.cards.Unpack("getCardAddress", out)
	if err != nil {
		return "", fmt.Errorf("decode getCardAddress: %w", err)
	}
	addr, ok := values[0].(common.Address)
	if !ok || addr == (common.Address{}) {
		return "", domain.ErrCardNotFound
	}
	return addr.Hex(), nil
}
