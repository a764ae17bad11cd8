package chain

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govctl/internal/actions"
)

// tokenCache memoizes ERC20 metadata, which never changes for a deployed token
type tokenCache struct {
	mu       sync.Mutex
	decimals map[common.Address]uint8
	symbols  map[common.Address]string
}

func (t *tokenCache) getDecimals(token common.Address) (uint8, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	d, ok := t.decimals[token]
	return d, ok
}

func (t *tokenCache) setDecimals(token common.Address, d uint8) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.decimals == nil {
		t.decimals = make(map[common.Address]uint8)
	}
	t.decimals[token] = d
}

func (t *tokenCache) getSymbol(token common.Address) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.symbols[token]
	return s, ok
}

func (t *tokenCache) setSymbol(token common.Address, s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.symbols == nil {
		t.symbols = make(map[common.Address]string)
	}
	t.symbols[token] = s
}

// Decimals returns the ERC20 decimals of token
func (c *Client) Decimals(ctx context.Context, token common.Address) (uint8, error) {
	if d, ok := c.tokens.getDecimals(token); ok {
		return d, nil
	}
	values, err := c.call(ctx, erc20ABI, token, "decimals")
	if err != nil {
		return 0, err
	}
	d := values[0].(uint8)
	c.tokens.setDecimals(token, d)
	return d, nil
}

// Symbol returns the ERC20 symbol of token
func (c *Client) Symbol(ctx context.Context, token common.Address) (string, error) {
	if s, ok := c.tokens.getSymbol(token); ok {
		return s, nil
	}
	values, err := c.call(ctx, erc20ABI, token, "symbol")
	if err != nil {
		return "", err
	}
	s := values[0].(string)
	c.tokens.setSymbol(token, s)
	return s, nil
}

var _ actions.TokenMetadata = (*Client)(nil)
