// Package chain reads and writes DAO state over JSON-RPC.
package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/govctl/internal/domain"
	"github.com/trebuchet-org/govctl/internal/domain/config"
)

// Backend is the part of *ethclient.Client the adapter uses
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

var _ Backend = (*ethclient.Client)(nil)

// ErrNoNetwork is returned when no RPC endpoint is configured
var ErrNoNetwork = errors.New("no network configured")

// Client implements the governance reader and writer against the DAO diamond
type Client struct {
	network *config.Network
	dao     common.Address
	key     *ecdsa.PrivateKey
	log     *slog.Logger

	// PollInterval is how often receipts are polled while waiting.
	PollInterval time.Duration

	tokens tokenCache

	once    sync.Once
	backend Backend
	chainID *big.Int
	dialErr error
}

// NewClient creates a client over an already connected backend
func NewClient(backend Backend, dao common.Address, key *ecdsa.PrivateKey, log *slog.Logger) *Client {
	c := &Client{dao: dao, key: key, log: log, PollInterval: 2 * time.Second, backend: backend}
	c.once.Do(func() {})
	return c
}

// ProvideClient creates a client from the runtime configuration. The RPC
// connection is opened on first use.
func ProvideClient(cfg *config.RuntimeConfig, log *slog.Logger) (*Client, error) {
	c := &Client{network: cfg.Network, log: log, PollInterval: 2 * time.Second}
	if cfg.DAO != nil {
		c.dao = cfg.DAO.Address
	}
	if cfg.PrivateKey != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid private key: %w", err)
		}
		c.key = key
	}
	return c, nil
}

// connect dials the RPC endpoint and checks the chain ID
func (c *Client) connect(ctx context.Context) (Backend, error) {
	c.once.Do(func() {
		if c.network == nil || c.network.RPCURL == "" {
			c.dialErr = domain.PreconditionError("connect", ErrNoNetwork)
			return
		}
		client, err := ethclient.DialContext(ctx, c.network.RPCURL)
		if err != nil {
			c.dialErr = domain.NetworkError("connect", fmt.Errorf("failed to connect to RPC: %w", err))
			return
		}

		networkChainID, err := client.ChainID(ctx)
		if err != nil {
			c.dialErr = domain.NetworkError("connect", fmt.Errorf("failed to get chain ID: %w", err))
			return
		}
		if c.network.ChainID != 0 && networkChainID.Uint64() != c.network.ChainID {
			c.dialErr = domain.PreconditionError("connect",
				fmt.Errorf("chain ID mismatch: expected %d, got %d", c.network.ChainID, networkChainID.Uint64()))
			return
		}
		c.backend = client
		c.chainID = networkChainID
		c.log.Debug("connected", "network", c.network.Name, "chainId", networkChainID)
	})
	if c.dialErr != nil {
		return nil, c.dialErr
	}
	return c.backend, nil
}

func (c *Client) requireDAO() error {
	if c.dao == (common.Address{}) {
		return domain.PreconditionError("governance call", domain.ErrNoDAO)
	}
	return nil
}

// call runs a read-only method and returns its unpacked outputs
func (c *Client) call(ctx context.Context, contract abi.ABI, to common.Address, method string, args ...any) ([]any, error) {
	backend, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	data, err := contract.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}
	out, err := backend.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, domain.NetworkError(method, err)
	}
	values, err := contract.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", method, err)
	}
	return values, nil
}
