package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/loanflow/internal/domain"
)

const defaultDirectoryTokenRef = "directory/token"

type applicantOutput struct {
	CustomerID     string `json:"customer_id"`
	IdentityNumber string `json:"identity_number"`
	Name           string `json:"name"`
	EmploymentType string `json:"employment_type"`
	MonthlyIncome  int64  `json:"monthly_income"`
	CreditScore    int    `json:"credit_score"`
}

func newDirectoryCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "directory",
		Short: "Query and manage the applicant directory",
	}

	cmd.AddCommand(
		newDirectoryLookupCmd(app),
		newDirectoryMigrateCmd(app),
		newDirectoryTokenCmd(app),
	)

	return cmd
}

func newDirectoryLookupCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "lookup <identity-number>",
		Short: "Look an applicant up by identity number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.NormalizeIdentityNumber(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if timeout := app.cfg.GetDuration("directory.timeout"); timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			record, err := app.directory.FindByIdentity(ctx, id)
			if errors.Is(err, domain.ErrApplicantNotFound) {
				return fmt.Errorf("no applicant with identity number %s", id)
			}
			if err != nil {
				return fmt.Errorf("lookup applicant: %w", err)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(applicantOutput{
					CustomerID:     record.CustomerID,
					IdentityNumber: string(record.IdentityNumber),
					Name:           record.Name,
					EmploymentType: string(record.EmploymentType),
					MonthlyIncome:  record.MonthlyIncome,
					CreditScore:    record.CreditScore,
				})
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "customer: %s\n", record.CustomerID)
			_, _ = fmt.Fprintf(out, "name: %s\n", sanitizeForTerminal(record.Name))
			_, _ = fmt.Fprintf(out, "identity: %s\n", record.IdentityNumber)
			_, _ = fmt.Fprintf(out, "employment: %s\n", record.EmploymentType)
			_, _ = fmt.Fprintf(out, "monthly income: %s\n", domain.FormatRupees(record.MonthlyIncome))
			_, _ = fmt.Fprintf(out, "credit score: %d (grade %s)\n", record.CreditScore, domain.RiskGrade(record.CreditScore))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func newDirectoryMigrateCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the applicants table and load the seed records",
		Long:  "migrate works with the sqlite and postgres directory drivers. Records come from directory.seed, or the built-in table when it is unset.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			count, err := migrateDirectory(cmd.Context(), app.cfg)
			if err != nil {
				return fmt.Errorf("migrate directory: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Migrated %s directory (%d applicants)\n", app.cfg.GetString("directory.driver"), count)
			return nil
		},
	}
}

func newDirectoryTokenCmd(app *app) *cobra.Command {
	var key string
	var value string
	var clear bool

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Store the bearer token used by the remote directory driver",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if key == "" {
				key = app.cfg.GetString("directory.token_ref")
			}
			if key == "" {
				key = defaultDirectoryTokenRef
			}

			if clear {
				if err := app.credentials.Delete(cmd.Context(), key); err != nil {
					return fmt.Errorf("delete directory token: %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted directory token %s\n", key)
				return nil
			}

			if value == "" {
				return errors.New("--value is required unless --clear is set")
			}
			if err := app.credentials.Put(cmd.Context(), key, value); err != nil {
				return fmt.Errorf("store directory token: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Stored directory token %s\n", key)
			if app.cfg.GetString("directory.token_ref") != key {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set directory.token_ref = %q to send it with remote lookups.\n", key)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "Credential key (default directory.token_ref)")
	cmd.Flags().StringVar(&value, "value", "", "Token value")
	cmd.Flags().BoolVar(&clear, "clear", false, "Delete the stored token")

	return cmd
}
