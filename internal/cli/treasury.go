package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/govctl/internal/cli/render"
	"github.com/trebuchet-org/govctl/internal/domain"
	"github.com/trebuchet-org/govctl/internal/usecase"
)

// NewTreasuryCmd creates the treasury command
func NewTreasuryCmd() *cobra.Command {
	var (
		categories      []string
		limit           int
		depositsPage    string
		withdrawalsPage string
	)

	cmd := &cobra.Command{
		Use:   "treasury",
		Short: "Show DAO balances and recent transfers",
		Long: `Show the native and configured ERC20 balances of the DAO and the most
recent deposits and withdrawals. Transfer history needs an explorer_url
for the active network; balances load even when history does not.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			opts := usecase.TreasuryOptions{
				MaxCount:        limit,
				DepositsPage:    depositsPage,
				WithdrawalsPage: withdrawalsPage,
			}
			for _, c := range categories {
				category := domain.TransferCategory(c)
				if !slices.Contains(domain.AllTransferCategories(), category) {
					return domain.ValidationError("treasury", fmt.Errorf("unknown transfer category %q", c))
				}
				opts.Categories = append(opts.Categories, category)
			}

			result, err := app.TreasuryOverview.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), map[string]any{
					"balances":    resultJSON(result.Balances),
					"deposits":    resultJSON(result.Deposits),
					"withdrawals": resultJSON(result.Withdrawals),
				})
			}
			return render.NewTreasuryRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().StringSliceVar(&categories, "category", nil, "Transfer categories (external, erc20, erc721, erc1155)")
	cmd.Flags().IntVarP(&limit, "limit", "l", usecase.DefaultTransferPageSize, "Transfers per page")
	cmd.Flags().StringVar(&depositsPage, "deposits-page", "", "Page key for deposits")
	cmd.Flags().StringVar(&withdrawalsPage, "withdrawals-page", "", "Page key for withdrawals")
	return cmd
}

func resultJSON[T any](r domain.Result[T]) map[string]any {
	v, err := r.Get()
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return map[string]any{"value": v}
}
