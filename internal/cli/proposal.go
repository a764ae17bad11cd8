package cli

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/govctl/internal/actions"
	"github.com/trebuchet-org/govctl/internal/cli/render"
	"github.com/trebuchet-org/govctl/internal/domain"
	"github.com/trebuchet-org/govctl/internal/usecase"
)

// NewProposalCmd creates the proposal command group
func NewProposalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "proposal",
		Aliases: []string{"proposals"},
		Short:   "Create and inspect governance proposals",
	}

	cmd.AddCommand(newProposalCreateCmd())
	cmd.AddCommand(newProposalShowCmd())
	cmd.AddCommand(newProposalListCmd())
	cmd.AddCommand(newProposalEncodeCmd())
	cmd.AddCommand(newProposalTemplateCmd())
	return cmd
}

func newProposalCreateCmd() *cobra.Command {
	var (
		yes    bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "create <file>",
		Short: "Encode a proposal file and submit it",
		Long: `Encode every action of a YAML or JSON proposal file and submit the
proposal to the DAO. Use "-" to read the file from stdin.

Example file:

  title: Fund the grants program
  summary: Mint 1000 tokens to the grants multisig
  duration: 168h
  actions:
    - name: mint_tokens
      recipients:
        - to: "0x..."
          amount: "1000"

Run 'govctl proposal template <action>' for the form of each action.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			preview, err := app.CreateProposal.Prepare(cmd.Context(), data)
			if err != nil {
				return err
			}
			if !app.Config.JSON {
				if err := render.NewProposalRenderer(cmd.OutOrStdout()).RenderPreview(preview); err != nil {
					return err
				}
			}

			result, err := app.CreateProposal.Submit(cmd.Context(), preview, usecase.CreateProposalOptions{Yes: yes, DryRun: dryRun})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				out := map[string]any{
					"metadata":  preview.Draft.Metadata,
					"startDate": preview.Draft.StartDate,
					"endDate":   preview.Draft.EndDate,
					"actions":   rawActionsJSON(preview.Actions.Raw),
				}
				if result != nil {
					out["txHash"] = result.TxHash.Hex()
					out["state"] = result.State.String()
				}
				return render.RenderJSON(cmd.OutOrStdout(), out)
			}
			if result == nil {
				fmt.Fprintln(cmd.OutOrStdout(), render.FormatWarning("Dry run: proposal not submitted"))
				return nil
			}
			return render.RenderTransaction(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Encode and preview without submitting")
	return cmd
}

func newProposalShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a proposal and describe its actions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			id, err := parseProposalID(args[0])
			if err != nil {
				return err
			}

			view, err := app.ShowProposal.Run(cmd.Context(), id)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				described := make([]any, len(view.Actions))
				for i, a := range view.Actions {
					entry := map[string]any{"raw": rawActionsJSON([]domain.RawAction{a.Raw})[0]}
					if a.Description != nil {
						entry["description"] = a.Description
					}
					if a.Err != nil {
						entry["error"] = a.Err.Error()
					}
					described[i] = entry
				}
				return render.RenderJSON(cmd.OutOrStdout(), map[string]any{
					"proposal": view.Proposal,
					"actions":  described,
				})
			}
			return render.NewProposalRenderer(cmd.OutOrStdout()).RenderProposal(view, time.Now())
		},
	}
}

func newProposalListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent proposals, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			proposals, err := app.ListProposals.Run(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), proposals)
			}
			return render.NewProposalRenderer(cmd.OutOrStdout()).RenderProposalList(proposals, time.Now())
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum number of proposals to list (0 for all)")
	return cmd
}

func newProposalEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <file>",
		Short: "Encode an action list into raw proposal calls",
		Long: `Encode the actions of a YAML or JSON file into the (to, value, data)
calls a proposal carries, without submitting anything. The file holds an
"actions" list as in a proposal file. Use "-" to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			list, err := actions.ParseActionList(data, app.Codec.Registry())
			if err != nil {
				return err
			}
			encoded, err := app.CreateProposal.Encode(cmd.Context(), list)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), map[string]any{
					"actions":      rawActionsJSON(encoded.Raw),
					"descriptions": encoded.Descriptions,
				})
			}
			return render.NewProposalRenderer(cmd.OutOrStdout()).RenderEncoded(encoded)
		},
	}
}

func newProposalTemplateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "template <action>",
		Short: "Print the empty form of an action for a proposal file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			out, err := actions.Template(app.Codec.Registry(), domain.ActionName(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

// NewVoteCmd creates the vote command
func NewVoteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:       "vote <proposal-id> <yes|no|abstain>",
		Short:     "Vote on an open proposal",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"yes", "no", "abstain"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			id, err := parseProposalID(args[0])
			if err != nil {
				return err
			}
			option, ok := domain.ParseVoteOption(args[1])
			if !ok {
				return domain.ValidationError("vote", fmt.Errorf("invalid vote option %q (use yes, no or abstain)", args[1]))
			}

			result, err := app.VoteProposal.Run(cmd.Context(), usecase.VoteOptions{ProposalID: id, Option: option, Yes: yes})
			if err != nil {
				return err
			}
			return renderTx(cmd, app.Config.JSON, result)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}

// NewActionsCmd creates the actions command
func NewActionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List the action kinds a proposal can contain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			registry := app.Codec.Registry()
			if app.Config.JSON {
				return render.RenderJSON(cmd.OutOrStdout(), registry.Names())
			}
			return render.NewProposalRenderer(cmd.OutOrStdout()).RenderActionKinds(registry)
		},
	}
}

type rawActionJSON struct {
	To    string        `json:"to"`
	Value string        `json:"value"`
	Data  hexutil.Bytes `json:"data"`
}

func rawActionsJSON(raw []domain.RawAction) []rawActionJSON {
	out := make([]rawActionJSON, len(raw))
	for i, r := range raw {
		value := "0"
		if r.Value != nil {
			value = r.Value.String()
		}
		out[i] = rawActionJSON{To: r.To.Hex(), Value: value, Data: r.Data}
	}
	return out
}
