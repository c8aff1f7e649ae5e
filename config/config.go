package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"raiden-channel-tui/tokens"
)

// Page identifies the active view
type Page int

const (
	PageHome Page = iota
	PageOpenChannel
	PageTokens
	PageSettings
)

// DefaultRefresh is how often token metadata is re-read from the chain
const DefaultRefresh = 30 * time.Second

// Config represents the application configuration
type Config struct {
	RPCURLs        []RPCUrl     `json:"rpc_urls"`
	OwnAddress     string       `json:"own_address"`
	Tokens         []TokenEntry `json:"tokens"`
	SettleTimeout  int64        `json:"settle_timeout,omitempty"`
	RefreshSeconds int          `json:"refresh_seconds,omitempty"`
	Logger         bool         `json:"logger"`
}

// RPCUrl represents an RPC endpoint
type RPCUrl struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// TokenEntry is a token registered for channel opening. Name and symbol are
// fallbacks for when the chain cannot be queried.
type TokenEntry struct {
	Address   string `json:"address"`
	Name      string `json:"name,omitempty"`
	Symbol    string `json:"symbol,omitempty"`
	Decimals  uint8  `json:"decimals,omitempty"`
	Connected bool   `json:"connected"`
}

// Token converts the entry into a pipeline token
func (e TokenEntry) Token() tokens.Token {
	return tokens.Token{
		Address:   e.Address,
		Name:      e.Name,
		Symbol:    e.Symbol,
		Decimals:  e.Decimals,
		Connected: e.Connected,
	}
}

// TokenList converts all entries
func (c Config) TokenList() []tokens.Token {
	list := make([]tokens.Token, 0, len(c.Tokens))
	for _, e := range c.Tokens {
		list = append(list, e.Token())
	}
	return list
}

// ActiveRPC returns the URL of the active endpoint, or "" if none is active
func (c Config) ActiveRPC() string {
	for _, r := range c.RPCURLs {
		if r.Active {
			return r.URL
		}
	}
	return ""
}

// Refresh returns the token refresh interval
func (c Config) Refresh() time.Duration {
	if c.RefreshSeconds <= 0 {
		return DefaultRefresh
	}
	return time.Duration(c.RefreshSeconds) * time.Second
}

// AddToken appends an entry, rejecting duplicates by address (case-insensitive)
func (c *Config) AddToken(e TokenEntry) error {
	for _, t := range c.Tokens {
		if strings.EqualFold(t.Address, e.Address) {
			return fmt.Errorf("token %s already registered", e.Address)
		}
	}
	c.Tokens = append(c.Tokens, e)
	return nil
}

// Activate marks the RPC at idx active and all others inactive
func (c *Config) Activate(idx int) {
	for i := range c.RPCURLs {
		c.RPCURLs[i].Active = i == idx
	}
}

// DefaultPath returns the config location in the user's home directory
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".channel-tui-config.json")
}

// Load reads the config from the specified path
func Load(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}

	return cfg
}

// Save writes the config to the specified path
func Save(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// DefaultConfig returns a new configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		RPCURLs: []RPCUrl{
			{
				Name:   "Public Mainnet",
				URL:    "https://ethereum-rpc.publicnode.com",
				Active: true,
			},
		},
		Tokens: []TokenEntry{
			{Address: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", Name: "Wrapped Ether", Symbol: "WETH", Decimals: 18, Connected: true},
			{Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Name: "USD Coin", Symbol: "USDC", Decimals: 6, Connected: true},
			{Address: "0x6B175474E89094C44Da98b954EedeAC495271d0F", Name: "Dai Stablecoin", Symbol: "DAI", Decimals: 18, Connected: true},
			{Address: "0xdAC17F958D2ee523a2206206994597C13D831ec7", Name: "Tether USD", Symbol: "USDT", Decimals: 6, Connected: false},
		},
		SettleTimeout:  500,
		RefreshSeconds: int(DefaultRefresh / time.Second),
		Logger:         false,
	}
}

// LoadOrCreate loads config from path, or creates a default one if not found
func LoadOrCreate(path string) Config {
	// Try to read existing config
	data, err := os.ReadFile(path)
	if err != nil {
		// File doesn't exist, create default
		cfg := DefaultConfig()
		_ = Save(path, cfg)
		return cfg
	}

	// Parse existing config
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		// Invalid config, return default
		return DefaultConfig()
	}

	return cfg
}
