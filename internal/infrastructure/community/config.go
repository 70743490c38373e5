package community

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/citizenwallet/brussels-pay-wallet/internal/domain"
)

type ContractRef struct {
	Address string `json:"address"`
	ChainID int64  `json:"chain_id"`
}

type Info struct {
	Name               string       `json:"name"`
	Alias              string       `json:"alias"`
	Logo               string       `json:"logo"`
	PrimaryToken       ContractRef  `json:"primary_token"`
	PrimaryCardManager *ContractRef `json:"primary_card_manager"`
	Profile            *ContractRef `json:"profile"`
	Theme              *struct {
		Primary string `json:"primary"`
	} `json:"theme"`
}

// Config is a community configuration file as published for the wallet.
type Config struct {
	Community Info                    `json:"community"`
	Tokens    map[string]domain.Token `json:"tokens"`
	Plugins   []domain.ActionPlugin   `json:"plugins"`
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read community config: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse community config: %w", err)
	}
	if cfg.Community.Alias == "" {
		return nil, fmt.Errorf("%w: missing alias", domain.ErrCommunityNotFound)
	}
	if _, err := cfg.GetToken(""); err != nil {
		return nil, fmt.Errorf("primary token: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Alias() string {
	return c.Community.Alias
}

// GetToken returns the token with the given address, or the primary token
// when address is empty.
func (c *Config) GetToken(address string) (domain.Token, error) {
	if address == "" {
		address = c.Community.PrimaryToken.Address
	}
	for key, token := range c.Tokens {
		addr := token.Address
		if addr == "" {
			// keys are "<chain id>:<address>"
			if i := strings.LastIndex(key, ":"); i >= 0 {
				addr = key[i+1:]
			}
		}
		if strings.EqualFold(addr, address) {
			token.Address = addr
			return token, nil
		}
	}
	return domain.Token{}, fmt.Errorf("%w: %s", domain.ErrTokenNotFound, address)
}

// GetActionPlugin returns the first plugin that declares an action.
func (c *Config) GetActionPlugin() (domain.ActionPlugin, bool) {
	for _, p := range c.Plugins {
		if p.Action != "" {
			return p, true
		}
	}
	return domain.ActionPlugin{}, false
}

func (c *Config) CardManagerAddress() string {
	if c.Community.PrimaryCardManager == nil {
		return ""
	}
	return c.Community.PrimaryCardManager.Address
}

func (c *Config) ProfileAddress() string {
	if c.Community.Profile == nil {
		return ""
	}
	return c.Community.Profile.Address
}
