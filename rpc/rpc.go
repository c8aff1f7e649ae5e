package rpc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"raiden-channel-tui/tokens"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/sync/errgroup"
)

// Client wraps an Ethereum RPC client
type Client struct {
	*ethclient.Client
	URL string
}

// ConnectResult holds the result of an RPC connection attempt
type ConnectResult struct {
	Client *Client
	Error  error
}

// Connect attempts to connect to an Ethereum RPC endpoint
func Connect(url string) ConnectResult {
	return ConnectWithTimeout(url, 8*time.Second)
}

// ConnectWithTimeout attempts to connect with a custom timeout
func ConnectWithTimeout(url string, timeout time.Duration) ConnectResult {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return ConnectResult{Client: nil, Error: err}
	}

	return ConnectResult{
		Client: &Client{
			Client: client,
			URL:    url,
		},
		Error: nil,
	}
}

// Minimal ERC20 metadata ABI
const erc20ABI = `[
	{"constant":true,"inputs":[],"name":"name","outputs":[{"name":"","type":"string"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"type":"function"}
]`

var erc20 = mustParseABI(erc20ABI)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}

// LoadToken reads the metadata of the token contract at fallback.Address.
// Fields the contract does not answer keep the fallback values. The token is
// connected only if fallback is and contract code exists at the address.
func LoadToken(ctx context.Context, client *Client, fallback tokens.Token) (tokens.Token, error) {
	tok := fallback
	if client == nil || client.Client == nil {
		return tok, fmt.Errorf("no RPC client")
	}
	if !common.IsHexAddress(fallback.Address) {
		return tok, fmt.Errorf("invalid token address %q", fallback.Address)
	}
	addr := common.HexToAddress(fallback.Address)

	code, err := client.CodeAt(ctx, addr, nil)
	if err != nil {
		return tok, fmt.Errorf("code at %s: %w", addr.Hex(), err)
	}
	tok.Address = addr.Hex()
	tok.Connected = fallback.Connected && len(code) > 0
	if len(code) == 0 {
		return tok, nil
	}

	if name, err := callString(ctx, client.Client, addr, "name"); err == nil && name != "" {
		tok.Name = name
	}
	if symbol, err := callString(ctx, client.Client, addr, "symbol"); err == nil && symbol != "" {
		tok.Symbol = symbol
	}
	if out, err := call(ctx, client.Client, addr, "decimals"); err == nil {
		if d, ok := out[0].(uint8); ok {
			tok.Decimals = d
		}
	}
	return tok, nil
}

// LoadTokens loads every token concurrently, keeping the input order.
// Any failure fails the whole batch.
func LoadTokens(ctx context.Context, client *Client, list []tokens.Token) ([]tokens.Token, error) {
	out := make([]tokens.Token, len(list))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, t := range list {
		i, t := i, t
		g.Go(func() error {
			tok, err := LoadToken(gctx, client, t)
			if err != nil {
				return fmt.Errorf("load %s: %w", t.Address, err)
			}
			out[i] = tok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func call(ctx context.Context, client *ethclient.Client, token common.Address, method string) ([]interface{}, error) {
	data, err := erc20.Pack(method)
	if err != nil {
		return nil, err
	}
	msg := ethereum.CallMsg{
		To:   &token,
		Data: data,
	}
	out, err := client.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: empty response", method)
	}
	values, err := erc20.Unpack(method, out)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s: no values", method)
	}
	return values, nil
}

func callString(ctx context.Context, client *ethclient.Client, token common.Address, method string) (string, error) {
	values, err := call(ctx, client, token, method)
	if err != nil {
		return "", err
	}
	s, ok := values[0].(string)
	if !ok {
		return "", fmt.Errorf("%s: unexpected type %T", method, values[0])
	}
	return s, nil
}
