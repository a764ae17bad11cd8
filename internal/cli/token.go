package cli

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/govctl/internal/cli/render"
)

// NewTokenCmd creates the token command group
func NewTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage credentials used by action kinds",
	}
	cmd.AddCommand(newTokenSetGitHubCmd())
	return cmd
}

func newTokenSetGitHubCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-github [token]",
		Short: "Store the GitHub token used to resolve pull request commits",
		Long: `Store the GitHub token used by merge_pr actions to read the head commit
of pull requests in private repositories. Without an argument the token
is read from stdin. An empty token clears the stored one.

The token is kept in .govctl/priv/tokens.json, readable only by you.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var token string
			if len(args) == 1 {
				token = args[0]
			} else {
				scanner := bufio.NewScanner(cmd.InOrStdin())
				if scanner.Scan() {
					token = scanner.Text()
				}
				if err := scanner.Err(); err != nil {
					return fmt.Errorf("failed to read token: %w", err)
				}
			}

			if err := app.SetGitHubToken.Run(cmd.Context(), token); err != nil {
				return err
			}
			if token == "" {
				fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess("GitHub token cleared"))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess("GitHub token saved"))
			}
			return nil
		},
	}
}
