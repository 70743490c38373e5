package domain

import (
	"context"
	"math/big"
)

type Token struct {
	Address  string `json:"address"`
	ChainID  int64  `json:"chain_id"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int32  `json:"decimals"`
	Standard string `json:"standard"`
}

type ActionPlugin struct {
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	URL    string `json:"url"`
	Action string `json:"action"`
}

// Community is the boundary over the community configuration. The wallet
// SDK's config object is reduced to the lookups the sync layer needs.
type Community interface {
	Alias() string
	GetToken(address string) (Token, error)
	GetActionPlugin() (ActionPlugin, bool)
	CardManagerAddress() string
	ProfileAddress() string
}

// Chain exposes the on-chain reads: token balances and card account
// derivation from the serial number.
type Chain interface {
	BalanceOf(ctx context.Context, token, account string) (*big.Int, error)
	CardAddress(ctx context.Context, serial string) (string, error)
}

// ProfileReader resolves the public profile of an account. A nil profile
// with a nil error means the account has none.
type ProfileReader interface {
	ProfileOf(ctx context.Context, account string) (*Profile, error)
}
