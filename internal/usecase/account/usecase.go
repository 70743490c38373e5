package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/citizenwallet/brussels-pay-wallet/internal/domain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

type AccountUsecase interface {
	FetchBalance(ctx context.Context, account, token string) (*Balance, error)
	ResolveCard(ctx context.Context, serial string) (*CardAccount, error)
}

type Balance struct {
	Account   string       `json:"account"`
	Token     domain.Token `json:"token"`
	Raw       string       `json:"raw"`
	Formatted string       `json:"formatted"`
}

type CardAccount struct {
	Serial    string               `json:"serial"`
	Account   string               `json:"account"`
	Card      *domain.Card         `json:"card"`
	Challenge *domain.Challenge    `json:"challenge"`
	Status    int                  `json:"status"`
	Plugin    *domain.ActionPlugin `json:"plugin,omitempty"`
	Profile   *domain.Profile      `json:"profile"`
}

type DefaultAccountUsecase struct {
	Community domain.Community
	Chain     domain.Chain
	Checkout  domain.CheckoutClient
	// Profiles is optional; without it cards resolve with a nil profile.
	Profiles domain.ProfileReader
	Logger   *slog.Logger
}

func NewDefaultAccountUsecase(community domain.Community, chain domain.Chain, checkout domain.CheckoutClient) *DefaultAccountUsecase {
	return &DefaultAccountUsecase{
		Community: community,
		Chain:     chain,
		Checkout:  checkout,
		Logger:    slog.Default(),
	}
}

// FetchBalance reads the balance of account in token, the primary token
// when token is empty.
func (uc *DefaultAccountUsecase) FetchBalance(ctx context.Context, account, token string) (*Balance, error) {
	if !common.IsHexAddress(account) {
		return nil, domain.ErrInvalidAddress
	}
	cfg, err := uc.Community.GetToken(token)
	if err != nil {
		return nil, err
	}

	raw, err := uc.Chain.BalanceOf(ctx, cfg.Address, account)
	if err != nil {
		return nil, fmt.Errorf("fetch balance: %w", err)
	}
	return &Balance{
		Account:   common.HexToAddress(account).Hex(),
		Token:     cfg,
		Raw:       raw.String(),
		Formatted: FormatBalance(raw, cfg.Decimals),
	}, nil
}

// FormatBalance renders a raw token amount: whole units for tokens without
// decimals, two fraction digits otherwise.
func FormatBalance(raw *big.Int, decimals int32) string {
	if raw == nil {
		raw = new(big.Int)
	}
	amount := decimal.NewFromBigInt(raw, -decimals)
	if decimals == 0 {
		return amount.Truncate(0).StringFixed(0)
	}
	return amount.StringFixed(2)
}

// ResolveCard looks the card up on the checkout backend and derives its
// account from the serial number.
func (uc *DefaultAccountUsecase) ResolveCard(ctx context.Context, serial string) (*CardAccount, error) {
	lookup, err := uc.Checkout.GetCard(ctx, serial)
	if err != nil {
		return nil, err
	}

	address, err := uc.Chain.CardAddress(ctx, serial)
	if errors.Is(err, domain.ErrCardNotFound) {
		return nil, domain.ErrCardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve card %s: %w", serial, err)
	}

	result := &CardAccount{
		Serial:    serial,
		Account:   address,
		Card:      lookup.Card,
		Challenge: lookup.Challenge,
		Status:    lookup.Status,
	}
	if plugin, ok := uc.Community.GetActionPlugin(); ok {
		result.Plugin = &plugin
	}
	result.Profile = uc.profileOf(ctx, address)
	return result, nil
}

func (uc *DefaultAccountUsecase) profileOf(ctx context.Context, address string) *domain.Profile {
	if uc.Profiles == nil {
		return nil
	}
	profile, err := uc.Profiles.ProfileOf(ctx, address)
	if err != nil {
		uc.Logger.Warn("profile lookup failed", slog.String("account", address), slog.String("error", err.Error()))
		return nil
	}
	return profile
}
