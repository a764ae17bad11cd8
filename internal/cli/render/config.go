package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/govctl/internal/domain/config"
	"github.com/trebuchet-org/govctl/internal/usecase"
)

// ConfigRenderer renders config-related output
type ConfigRenderer struct {
	out io.Writer
}

// NewConfigRenderer creates a new config renderer
func NewConfigRenderer(out io.Writer) *ConfigRenderer {
	return &ConfigRenderer{
		out: out,
	}
}

// RenderConfig renders the configuration display
func (r *ConfigRenderer) RenderConfig(result *usecase.ShowConfigResult) error {
	if !result.Exists {
		fmt.Fprintf(r.out, "❌ No .govctl/config.local.json file found\n")
		fmt.Fprintf(r.out, "⚠️  Without config, commands use the default network from govctl.toml\n")
	} else {
		fmt.Fprintln(r.out, "📋 Current config:")
		fmt.Fprintf(r.out, "Network:   %s\n", notSet(result.Config.Network))
		fmt.Fprintf(r.out, "Account:   %s\n", notSet(result.Config.Account))
	}

	if rt := result.Runtime; rt != nil {
		fmt.Fprintln(r.out)
		if rt.ConfigFile != "" {
			fmt.Fprintf(r.out, "📦 Project file: %s\n", getRelativePath(rt.ConfigFile))
		}
		if rt.Network != nil {
			fmt.Fprintf(r.out, "🌐 Active network: %s (chain %d)\n", rt.Network.Name, rt.Network.ChainID)
		}
		if rt.DAO != nil {
			fmt.Fprintf(r.out, "🏛  DAO: %s\n", rt.DAO.Address.Hex())
		}
	}

	if result.Exists {
		fmt.Fprintf(r.out, "📁 config file: %s\n", getRelativePath(result.ConfigPath))
	}
	return nil
}

// RenderSet renders the result of setting a configuration value
func (r *ConfigRenderer) RenderSet(result *usecase.SetConfigResult) error {
	fmt.Fprintf(r.out, "✅ Set %s to: %s\n", result.Key, result.Value)
	fmt.Fprintf(r.out, "📁 config saved to: %s\n", getRelativePath(result.ConfigPath))
	return nil
}

// RenderRemove renders the result of removing a configuration value
func (r *ConfigRenderer) RenderRemove(result *usecase.RemoveConfigResult) error {
	switch result.Key {
	case config.ConfigKeyNetwork:
		fmt.Fprintf(r.out, "✅ Removed network from config (govctl.toml default applies)\n")
	case config.ConfigKeyAccount:
		fmt.Fprintf(r.out, "✅ Removed account from config (wallet address applies)\n")
	}

	fmt.Fprintf(r.out, "📁 config saved to: %s\n", getRelativePath(result.ConfigPath))
	return nil
}

func notSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
