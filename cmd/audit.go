package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/loanflow/internal/domain"
)

type auditRecordOutput struct {
	Sequence    int            `json:"sequence"`
	Timestamp   string         `json:"timestamp"`
	Event       string         `json:"event"`
	StageBefore string         `json:"stage_before,omitempty"`
	StageAfter  string         `json:"stage_after"`
	Payload     map[string]any `json:"payload"`
}

func newAuditCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the session audit log",
	}

	cmd.AddCommand(
		newAuditShowCmd(app),
		newAuditListCmd(app),
	)

	return cmd
}

func newAuditShowCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show the audit trail of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := domain.SessionID(args[0])
			records, err := app.audit.Trail(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("read audit trail: %w", err)
			}

			if asJSON {
				out := make([]auditRecordOutput, 0, len(records))
				for _, record := range records {
					out = append(out, auditRecordOutput{
						Sequence:    record.Sequence,
						Timestamp:   record.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
						Event:       string(record.Event),
						StageBefore: string(record.StageBefore),
						StageAfter:  string(record.StageAfter),
						Payload:     record.Payload,
					})
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			rendered, err := app.renderTrail(id, records)
			if err != nil {
				return fmt.Errorf("render audit trail: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func newAuditListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sessions that have an audit trail",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ids, err := app.audit.Sessions(cmd.Context())
			if err != nil {
				return fmt.Errorf("list audit sessions: %w", err)
			}

			if len(ids) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "sessions: none")
				return nil
			}
			for _, id := range ids {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}
