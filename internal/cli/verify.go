package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/govctl/internal/cli/render"
	"github.com/trebuchet-org/govctl/internal/domain"
	"github.com/trebuchet-org/govctl/internal/usecase"
)

// NewVerifyCmd creates the verify command group
func NewVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify the wallet address with an identity provider",
		Long: `Verification takes two steps:

  govctl verify start [provider]       sign a request and open the provider flow
  govctl verify complete <callback>    record the returned attestation on-chain

Known providers: ` + strings.Join(domain.KnownProviders, ", "),
	}

	cmd.AddCommand(newVerifyStartCmd())
	cmd.AddCommand(newVerifyCompleteCmd())
	return cmd
}

func newVerifyStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "start [provider]",
		Short:     "Start a verification with a provider",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: domain.KnownProviders,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var provider string
			if len(args) == 1 {
				provider = args[0]
			}
			result, err := app.VerifyAccount.Start(cmd.Context(), provider)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), map[string]any{
					"provider": result.Pending.ProviderID,
					"url":      result.URL,
					"message":  result.Message,
					"replaced": result.Replaced,
				})
			}
			return render.NewVerificationRenderer(cmd.OutOrStdout()).RenderStart(result)
		},
	}
}

func newVerifyCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <callback-url>",
		Short: "Record a verifier attestation on-chain",
		Long: `Record the attestation carried by the URL the provider redirected to.
The URL must hold address, hash, timestamp, providerId and sig
query parameters.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.VerifyAccount.Complete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return renderTx(cmd, app.Config.JSON, result)
		},
	}
}

// NewUnverifyCmd creates the unverify command
func NewUnverifyCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:       "unverify <provider>",
		Short:     "Remove a provider stamp from the wallet address",
		Args:      cobra.ExactArgs(1),
		ValidArgs: domain.KnownProviders,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.UnverifyAccount.Run(cmd.Context(), usecase.UnverifyOptions{
				ProviderID: strings.ToLower(args[0]),
				Yes:        yes,
			})
			if err != nil {
				return err
			}
			return renderTx(cmd, app.Config.JSON, result)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}

// NewClaimCmd creates the claim command
func NewClaimCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "claim",
		Short: "Claim outstanding verification rewards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ClaimReward.Run(cmd.Context())
			if err != nil {
				return err
			}
			return renderTx(cmd, app.Config.JSON, result)
		},
	}
}

func renderTx(cmd *cobra.Command, asJSON bool, result *usecase.TxResult) error {
	if asJSON {
		return render.RenderJSON(cmd.OutOrStdout(), map[string]any{
			"label":  result.Label,
			"txHash": result.TxHash.Hex(),
			"state":  result.State.String(),
		})
	}
	return render.RenderTransaction(cmd.OutOrStdout(), result)
}
