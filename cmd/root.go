package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lf",
		Short:         "loanflow (lf): conversational loan origination with an audit trail",
		Long:          "lf walks an applicant through loan intake, identity verification and underwriting, issues a sanction letter on approval and records every step in an append-only audit log.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}
	rootCmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		app.close()
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newChatCmd(app),
		newServeCmd(app),
		newEMICmd(),
		newAuditCmd(app),
		newLetterCmd(app),
		newDirectoryCmd(app),
	)

	return rootCmd
}
