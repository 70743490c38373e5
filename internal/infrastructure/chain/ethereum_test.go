package chain

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/citizenwallet/brussels-pay-wallet/internal/domain"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCaller struct {
	calls []ethereum.CallMsg
	out   []byte
	err   error
}

func (f *fakeCaller) CallContract(_ context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.calls = append(f.calls, call)
	return f.out, f.err
}

const (
	token       = "0x5815E61eF72c9E6107b5c5A05FD121F334f7a7f1"
	account     = "0x00000000000000000000000000000000000000aa"
	cardManager = "0xBA861e2DABd8316cf11Ae7CdA101d110CF581f28"
)

func TestBalanceOf(t *testing.T) {
	caller := &fakeCaller{out: common.LeftPadBytes(big.NewInt(12_345_678).Bytes(), 32)}
	c, err := NewEthChain(caller, cardManager, "cw-instance")
	require.NoError(t, err)

	balance, err := c.BalanceOf(context.Background(), token, account)
	require.NoError(t, err)
	assert.Equal(t, int64(12_345_678), balance.Int64())

	require.Len(t, caller.calls, 1)
	assert.Equal(t, common.HexToAddress(token), *caller.calls[0].To)
	// balanceOf(address) selector
	assert.Equal(t, []byte{0x70, 0xa0, 0x82, 0x31}, caller.calls[0].Data[:4])
}

func TestBalanceOfRejectsBadAddress(t *testing.T) {
	c, err := NewEthChain(&fakeCaller{}, "", "")
	require.NoError(t, err)

	_, err = c.BalanceOf(context.Background(), "nope", account)
	assert.ErrorIs(t, err, domain.ErrInvalidAddress)
}

func TestCardAddress(t *testing.T) {
	want := common.HexToAddress("0x00000000000000000000000000000000000000bb")
	caller := &fakeCaller{out: common.LeftPadBytes(want.Bytes(), 32)}
	c, err := NewEthChain(caller, cardManager, "cw-instance")
	require.NoError(t, err)

	addr, err := c.CardAddress(context.Background(), "04A1B2C3")
	require.NoError(t, err)
	assert.Equal(t, want.Hex(), addr)

	// id and hashed serial follow the selector
	data := caller.calls[0].Data
	require.Len(t, data, 4+64)
	assert.Equal(t, HashSerial("04A1B2C3").Bytes(), data[36:68])
}

func TestCardAddressUnknownCard(t *testing.T) {
	caller := &fakeCaller{out: make([]byte, 32)}
	c, err := NewEthChain(caller, cardManager, "cw-instance")
	require.NoError(t, err)

	_, err = c.CardAddress(context.Background(), "unknown")
	assert.ErrorIs(t, err, domain.ErrCardNotFound)
}

func TestCardAddressRPCError(t *testing.T) {
	c, err := NewEthChain(&fakeCaller{err: errors.New("rpc down")}, cardManager, "cw-instance")
	require.NoError(t, err)

	_, err = c.CardAddress(context.Background(), "x")
	assert.ErrorContains(t, err, "rpc down")
}

func TestCardAddressNeedsManager(t *testing.T) {
	c, err := NewEthChain(&fakeCaller{}, "", "")
	require.NoError(t, err)

	_, err = c.CardAddress(context.Background(), "x")
	assert.Error(t, err)

	_, err = NewEthChain(&fakeCaller{}, "not-an-address", "")
	assert.ErrorIs(t, err, domain.ErrInvalidAddress)
}
