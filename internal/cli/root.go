package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/govctl/internal/adapters/progress"
	"github.com/trebuchet-org/govctl/internal/app"
	"github.com/trebuchet-org/govctl/internal/config"
	"github.com/trebuchet-org/govctl/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"

	// noTimeoutAnnotation marks long-running commands that ignore --timeout
	noTimeoutAnnotation = "govctl/no-timeout"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "govctl",
		Short: "Identity verification and proposal tooling for DAO governance",
		Long: `govctl checks and records identity verification stamps against a DAO,
and builds, inspects and votes on governance proposals.

Project settings are read from govctl.toml in the current directory or
the nearest parent.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			// Set up viper
			v := config.SetupViper(config.FindProjectRoot(), cmd)

			appInstance, err := app.InitApp(v, newProgressSink(v))
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			// Outcome toasts go to stderr so stdout stays clean for --json
			var detach func()
			if !appInstance.Config.JSON {
				detach = progress.NewToastPrinter(cmd.ErrOrStderr()).Attach(appInstance.Notifications)
			}

			// Store app in context
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			// Add timeout if configured
			cancel := func() {}
			if appInstance.Config.Timeout > 0 && cmd.Annotations[noTimeoutAnnotation] == "" {
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
			}
			cmd.PostRun = func(cmd *cobra.Command, args []string) {
				cancel()
				if detach != nil {
					detach()
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (e.g., mainnet, sepolia)")
	rootCmd.PersistentFlags().StringP("account", "a", "", "Account to inspect instead of the wallet address")

	// Add command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "verification",
		Title: "Verification Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "governance",
		Title: "Governance Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	// Verification commands
	for _, cmd := range []*cobra.Command{NewStatusCmd(), NewPendingCmd(), NewVerifyCmd(), NewUnverifyCmd(), NewClaimCmd()} {
		cmd.GroupID = "verification"
		rootCmd.AddCommand(cmd)
	}

	// Governance commands
	for _, cmd := range []*cobra.Command{NewProposalCmd(), NewVoteCmd(), NewTreasuryCmd(), NewActionsCmd()} {
		cmd.GroupID = "governance"
		rootCmd.AddCommand(cmd)
	}

	// Management commands
	for _, cmd := range []*cobra.Command{NewConfigCmd(), NewTokenCmd(), NewServeCmd()} {
		cmd.GroupID = "management"
		rootCmd.AddCommand(cmd)
	}

	// Version command
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// newProgressSink picks a spinner for interactive terminals and a no-op
// sink when output must stay machine readable
func newProgressSink(v *viper.Viper) usecase.ProgressSink {
	if v.GetBool("json") || v.GetBool("non_interactive") {
		return progress.NewNopSink()
	}
	return progress.NewSpinnerProgressReporter()
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
