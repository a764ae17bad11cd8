package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/trebuchet-org/govctl/internal/domain"
	"github.com/trebuchet-org/govctl/internal/domain/config"
)

// FileName is the project configuration file
const FileName = "govctl.toml"

// loadEnvFiles loads .env then .env.local from projectRoot. Variables
// already set in the environment win.
func loadEnvFiles(projectRoot string) {
	for _, name := range []string{".env", ".env.local"} {
		envFile := filepath.Join(projectRoot, name)
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
		}
	}
}

// loadGovctlFile parses govctl.toml. It returns (nil, nil) when the file does not exist.
func loadGovctlFile(path string) (*config.GovctlFileConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	var file config.GovctlFileConfig
	md, err := toml.DecodeFile(path, &file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := lo.Map(undecoded, func(k toml.Key, _ int) string { return k.String() })
		return nil, fmt.Errorf("unknown keys in %s: %s", FileName, strings.Join(keys, ", "))
	}

	file.VerifyAPIURL = os.ExpandEnv(file.VerifyAPIURL)
	for name, n := range file.Networks {
		n.RPCURL = os.ExpandEnv(n.RPCURL)
		n.ExplorerURL = os.ExpandEnv(n.ExplorerURL)
		file.Networks[name] = n
	}
	return &file, nil
}

// resolveNetwork looks name up in the [networks] table
func resolveNetwork(file *config.GovctlFileConfig, name string) (*config.Network, error) {
	var networks map[string]config.NetworkConfig
	if file != nil {
		networks = file.Networks
	}
	n, ok := networks[name]
	if !ok {
		available := lo.Keys(networks)
		slices.Sort(available)
		if len(available) == 0 {
			return nil, fmt.Errorf("network '%s' not found: %s has no [networks] entries", name, FileName)
		}
		return nil, fmt.Errorf("network '%s' not found in %s (available: %s)", name, FileName, strings.Join(available, ", "))
	}
	if n.RPCURL == "" {
		return nil, fmt.Errorf("network '%s' has no rpc_url", name)
	}
	symbol := n.NativeSymbol
	if symbol == "" {
		symbol = "ETH"
	}
	return &config.Network{
		ChainID:      n.ChainID,
		Name:         name,
		RPCURL:       n.RPCURL,
		ExplorerURL:  n.ExplorerURL,
		NativeSymbol: symbol,
	}, nil
}

// resolveDAO converts the [dao] section. It returns nil when no address is set.
func resolveDAO(section config.DAOFileConfig) (*config.DAOConfig, error) {
	if section.Address == "" {
		return nil, nil
	}
	parse := func(field, raw string) (common.Address, error) {
		raw = os.ExpandEnv(raw)
		if !common.IsHexAddress(raw) {
			return common.Address{}, fmt.Errorf("dao.%s: %w: %q", field, domain.ErrInvalidAddress, raw)
		}
		return common.HexToAddress(raw), nil
	}

	dao := &config.DAOConfig{}
	var err error
	if dao.Address, err = parse("address", section.Address); err != nil {
		return nil, err
	}
	if section.Token != "" {
		if dao.Token, err = parse("token", section.Token); err != nil {
			return nil, err
		}
	}
	for _, t := range section.TreasuryTokens {
		addr, err := parse("treasury_tokens", t)
		if err != nil {
			return nil, err
		}
		dao.TreasuryTokens = append(dao.TreasuryTokens, addr)
	}
	return dao, nil
}

func resolveParameters(entries []config.ParameterConfig) []domain.Parameter {
	return lo.Map(entries, func(p config.ParameterConfig, _ int) domain.Parameter {
		return domain.Parameter{
			Plugin:    p.Plugin,
			Name:      p.Name,
			Type:      p.Type,
			Interface: p.Interface,
			Setter:    p.Setter,
		}
	})
}
