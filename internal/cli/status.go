package cli

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/govctl/internal/cli/render"
)

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [address]",
		Short: "Show the verification status of an account",
		Long: `Show the verification status of an account for every provider it
holds a stamp from, together with any verification started but not yet
recorded on-chain.

Without an address, --account or the configured wallet is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			account, err := parseAccountArg(args)
			if err != nil {
				return err
			}

			result, err := app.GetVerificationStatus.Run(cmd.Context(), account)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), map[string]any{
					"account":    result.Account.Hex(),
					"verified":   result.Verified(),
					"providers":  result.Providers,
					"pending":    result.Pending,
					"thresholds": result.Thresholds,
				})
			}
			return render.NewVerificationRenderer(cmd.OutOrStdout()).RenderStatus(result)
		},
	}
}

// NewPendingCmd creates the pending command
func NewPendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending [address]",
		Short: "List verifications started but not yet recorded",
		Long: `List verifications started with 'govctl verify start' that have not
been completed yet. Records older than one hour are pruned.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			account, err := parseAccountArg(args)
			if err != nil {
				return err
			}

			result, err := app.ListPending.Run(cmd.Context(), account)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), result.Pending)
			}
			return render.NewVerificationRenderer(cmd.OutOrStdout()).RenderPending(result, time.Now())
		},
	}
}
