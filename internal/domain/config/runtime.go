package config

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/govctl/internal/domain"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string
	ConfigFile  string // empty when govctl.toml was not found

	// Context settings
	Network *Network // nil if not specified
	Account common.Address

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Timeout        time.Duration

	// Signing key, hex encoded. Never rendered.
	PrivateKey string

	// Resolved configurations
	DAO                 *DAOConfig
	VerifyAPIURL        string
	NotificationTimeout time.Duration
	Parameters          []domain.Parameter
}

// Network represents network configuration
type Network struct {
	ChainID      uint64 `json:"chainId"`
	Name         string `json:"name"`
	RPCURL       string `json:"rpcUrl"`
	ExplorerURL  string `json:"explorerUrl,omitempty"`
	NativeSymbol string `json:"nativeSymbol,omitempty"`
}

// DAOConfig holds the addresses of the governed DAO.
type DAOConfig struct {
	Address common.Address
	// Governance token minted by mint_tokens actions.
	Token common.Address
	// ERC20 tokens listed in the treasury overview.
	TreasuryTokens []common.Address
}

// HasAccount reports whether an account to act for is known.
func (c *RuntimeConfig) HasAccount() bool {
	return c.Account != (common.Address{})
}
