// Package explorer pages through asset transfers using the
// alchemy_getAssetTransfers JSON-RPC extension.
package explorer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/govctl/internal/domain"
	"github.com/trebuchet-org/govctl/internal/domain/config"
	"github.com/trebuchet-org/govctl/internal/usecase"
)

// ErrNoExplorer is returned when the network has no explorer endpoint
var ErrNoExplorer = errors.New("no explorer URL configured")

const transfersMethod = "alchemy_getAssetTransfers"

// Client queries transfer history
type Client struct {
	url string

	once    sync.Once
	rpc     *rpc.Client
	dialErr error
}

// NewClient creates a client for the given explorer endpoint
func NewClient(url string) *Client {
	return &Client{url: url}
}

// ProvideClient creates a client from the selected network
func ProvideClient(cfg *config.RuntimeConfig) *Client {
	if cfg.Network == nil {
		return NewClient("")
	}
	return NewClient(cfg.Network.ExplorerURL)
}

// Close releases the underlying connection
func (c *Client) Close() {
	if c.rpc != nil {
		c.rpc.Close()
	}
}

type transferParams struct {
	FromAddress      string   `json:"fromAddress,omitempty"`
	ToAddress        string   `json:"toAddress,omitempty"`
	Category         []string `json:"category"`
	PageKey          string   `json:"pageKey,omitempty"`
	MaxCount         string   `json:"maxCount,omitempty"`
	Order            string   `json:"order"`
	WithMetadata     bool     `json:"withMetadata"`
	ExcludeZeroValue bool     `json:"excludeZeroValue"`
}

type transferResponse struct {
	Transfers []struct {
		BlockNum string          `json:"blockNum"`
		Hash     string          `json:"hash"`
		From     string          `json:"from"`
		To       string          `json:"to"`
		Value    json.RawMessage `json:"value"`
		Asset    string          `json:"asset"`
		Category string          `json:"category"`
		Metadata struct {
			BlockTimestamp string `json:"blockTimestamp"`
		} `json:"metadata"`
	} `json:"transfers"`
	PageKey string `json:"pageKey"`
}

// Transfers returns one page of transfers into or out of query.Address
func (c *Client) Transfers(ctx context.Context, query domain.TransferQuery) (*domain.TransferPage, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	params := transferParams{
		PageKey:      query.PageKey,
		Order:        "desc",
		WithMetadata: true,
	}
	switch query.Direction {
	case domain.Deposits:
		params.ToAddress = query.Address
	case domain.Withdrawals:
		params.FromAddress = query.Address
	default:
		return nil, fmt.Errorf("unknown transfer direction %d", query.Direction)
	}
	if query.MaxCount > 0 {
		params.MaxCount = hexutil.EncodeUint64(uint64(query.MaxCount))
	}
	categories := query.Categories
	if len(categories) == 0 {
		categories = domain.AllTransferCategories()
	}
	for _, cat := range categories {
		params.Category = append(params.Category, string(cat))
	}
	params.ExcludeZeroValue = true

	var resp transferResponse
	if err := client.CallContext(ctx, &resp, transfersMethod, params); err != nil {
		return nil, domain.NetworkError(transfersMethod, err)
	}

	page := &domain.TransferPage{NextPageKey: resp.PageKey}
	for _, t := range resp.Transfers {
		transfer := domain.Transfer{
			Hash:     t.Hash,
			From:     t.From,
			To:       t.To,
			Asset:    t.Asset,
			Value:    decodeValue(t.Value),
			Category: domain.TransferCategory(t.Category),
		}
		if t.BlockNum != "" {
			n, err := hexutil.DecodeUint64(t.BlockNum)
			if err != nil {
				return nil, fmt.Errorf("invalid block number %q: %w", t.BlockNum, err)
			}
			transfer.BlockNum = n
		}
		if ts := t.Metadata.BlockTimestamp; ts != "" {
			parsed, err := time.Parse(time.RFC3339, ts)
			if err != nil {
				return nil, fmt.Errorf("invalid block timestamp %q: %w", ts, err)
			}
			transfer.Timestamp = parsed
		}
		page.Transfers = append(page.Transfers, transfer)
	}
	return page, nil
}

// decodeValue renders the decimal amount, which the API returns as a JSON
// number or null for NFTs.
func decodeValue(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	return strings.Trim(s, `"`)
}

func (c *Client) connect(ctx context.Context) (*rpc.Client, error) {
	c.once.Do(func() {
		if c.url == "" {
			c.dialErr = domain.PreconditionError("transfer history", ErrNoExplorer)
			return
		}
		client, err := rpc.DialContext(ctx, c.url)
		if err != nil {
			c.dialErr = domain.NetworkError("connect explorer", err)
			return
		}
		c.rpc = client
	})
	return c.rpc, c.dialErr
}

var _ usecase.TransferHistory = (*Client)(nil)
