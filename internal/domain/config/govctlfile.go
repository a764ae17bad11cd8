package config

// GovctlFileConfig represents the govctl.toml configuration file
type GovctlFileConfig struct {
	VerifyAPIURL        string                   `toml:"verify_api_url,omitempty"`
	NotificationTimeout string                   `toml:"notification_timeout,omitempty"`
	DefaultNetwork      string                   `toml:"network,omitempty"`
	Networks            map[string]NetworkConfig `toml:"networks"`
	DAO                 DAOFileConfig            `toml:"dao"`
	Parameters          []ParameterConfig        `toml:"parameters"`
}

// NetworkConfig represents a [networks.<name>] section in govctl.toml
type NetworkConfig struct {
	ChainID      uint64 `toml:"chain_id"`
	RPCURL       string `toml:"rpc_url"`
	ExplorerURL  string `toml:"explorer_url,omitempty"`
	NativeSymbol string `toml:"native_symbol,omitempty"`
}

// DAOFileConfig represents the [dao] section in govctl.toml
type DAOFileConfig struct {
	Address        string   `toml:"address"`
	Token          string   `toml:"token,omitempty"`
	TreasuryTokens []string `toml:"treasury_tokens,omitempty"`
}

// ParameterConfig represents a [[parameters]] entry: one plugin setting
// that proposals may change.
type ParameterConfig struct {
	Plugin    string `toml:"plugin"`
	Name      string `toml:"name"`
	Type      string `toml:"type"`
	Interface string `toml:"interface"`
	Setter    string `toml:"setter"`
}
