package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/loanflow/internal/adapters/render/markdown"
	"github.com/bnema/loanflow/internal/domain"
)

func newLetterCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "letter",
		Short: "Inspect issued sanction letters",
	}

	cmd.AddCommand(newLetterShowCmd(app))

	return cmd
}

func newLetterShowCmd(app *app) *cobra.Command {
	var raw bool
	var width int

	cmd := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show the sanction letter issued for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			document, err := app.issuer.Fetch(cmd.Context(), domain.SessionID(args[0]))
			if err != nil {
				return fmt.Errorf("fetch sanction letter: %w", err)
			}

			if raw {
				_, err = fmt.Fprint(cmd.OutOrStdout(), document.Body)
				return err
			}

			rendered, err := markdown.Render(document.Body, width)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the Markdown source")
	cmd.Flags().IntVar(&width, "width", markdown.DefaultWidth, "Wrap width for rendered output")

	return cmd
}
