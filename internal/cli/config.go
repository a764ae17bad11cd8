package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/govctl/internal/cli/render"
	"github.com/trebuchet-org/govctl/internal/usecase"
)

// NewConfigCmd creates the config command
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage govctl local config",
		Long: `Manage govctl local config stored in .govctl/config.local.json

The config defines default values for network and account
that are used when these flags are not explicitly provided.

Available subcommands:
  config           Show current config
  config set       Set a config value
  config remove    Remove a config value

When run without subcommands, displays the current config.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default action is to show config
			return showConfig(cmd)
		},
	}

	// Add subcommands
	cmd.AddCommand(NewConfigSetCmd())
	cmd.AddCommand(NewConfigRemoveCmd())

	return cmd
}

// NewConfigSetCmd creates the config set subcommand
func NewConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value",
		Long: `Set a config value in .govctl/config.local.json.
Available keys: network (net), account

Examples:
  govctl config set network sepolia
  govctl config set account 0x7a3b...`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.SetConfig.Run(cmd.Context(), usecase.SetConfigParams{
				Key:   args[0],
				Value: args[1],
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), result.UpdatedConfig)
			}
			return render.NewConfigRenderer(cmd.OutOrStdout()).RenderSet(result)
		},
	}
}

// NewConfigRemoveCmd creates the config remove subcommand
func NewConfigRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <key>",
		Short: "Remove a config value",
		Long: `Remove a config value from .govctl/config.local.json.
Removing network falls back to the network set in govctl.toml.
Removing account falls back to the wallet address.

Examples:
  govctl config remove network
  govctl config remove account`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.RemoveConfig.Run(cmd.Context(), usecase.RemoveConfigParams{
				Key: args[0],
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), result.UpdatedConfig)
			}
			return render.NewConfigRenderer(cmd.OutOrStdout()).RenderRemove(result)
		},
	}
}

// showConfig displays the current configuration
func showConfig(cmd *cobra.Command) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	result, err := app.ShowConfig.Run(cmd.Context())
	if err != nil {
		return err
	}

	if app.Config.JSON {
		return render.RenderJSON(cmd.OutOrStdout(), map[string]any{
			"config":  result.Config,
			"path":    result.ConfigPath,
			"exists":  result.Exists,
			"network": result.Runtime.Network,
		})
	}
	return render.NewConfigRenderer(cmd.OutOrStdout()).RenderConfig(result)
}
