package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/bnema/loanflow/internal/application"
	"github.com/bnema/loanflow/internal/domain"
)

const (
	chatCommandQuit   = "/quit"
	chatCommandExit   = "/exit"
	chatCommandStatus = "/status"
	chatCommandAudit  = "/audit"
	chatCommandHelp   = "/help"
)

func newChatCmd(app *app) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive loan application session",
		Long:  "chat opens a new session and reads one message per line. Type /status, /audit, /help or /quit at any time.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChat(cmd, app, plain)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Disable the progress spinner")

	return cmd
}

func runChat(cmd *cobra.Command, app *app, plain bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	reply, err := app.orchestrator.CreateSession(ctx)
	if err != nil {
		return err
	}
	if err := writeReply(out, app, reply); err != nil {
		return err
	}

	id := reply.SessionID
	stage := reply.Stage
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		_, _ = fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			_, _ = fmt.Fprintln(out)
			break
		}

		line := strings.TrimSpace(sanitizeForTerminal(scanner.Text()))
		switch strings.ToLower(line) {
		case "":
			continue
		case chatCommandQuit, chatCommandExit:
			_, _ = fmt.Fprintf(out, "Session %s saved to the audit log.\n", id)
			return nil
		case chatCommandHelp:
			_, _ = fmt.Fprintln(out, "Commands: /status shows the session, /audit shows its audit trail, /quit leaves.")
			continue
		case chatCommandStatus:
			if err := writeSessionStatus(ctx, out, app, id); err != nil {
				return err
			}
			continue
		case chatCommandAudit:
			if err := writeTrail(ctx, out, app, id); err != nil {
				return err
			}
			continue
		}

		reply, err := sendMessage(cmd, app, id, stage, line, plain)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			// The session keeps its last committed stage, so the applicant can retry.
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			if session, getErr := app.orchestrator.GetSession(ctx, id); getErr == nil {
				stage = session.Stage
			}
			continue
		}
		if err := writeReply(out, app, reply); err != nil {
			return err
		}
		stage = reply.Stage
		if reply.Stage.Terminal() {
			_, _ = fmt.Fprintf(out, "Session %s finished at %s.\n", id, reply.Stage)
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read chat input: %w", err)
	}
	return nil
}

func sendMessage(cmd *cobra.Command, app *app, id domain.SessionID, stage domain.Stage, text string, plain bool) (application.Reply, error) {
	send := func(ctx context.Context) (application.Reply, error) {
		return app.orchestrator.HandleMessage(ctx, id, text)
	}

	if plain {
		return send(cmd.Context())
	}
	return awaitReply(cmd.Context(), cmd.ErrOrStderr(), stage, send)
}

func writeReply(out io.Writer, app *app, reply application.Reply) error {
	rendered, err := app.renderReply(reply)
	if err != nil {
		return fmt.Errorf("render reply: %w", err)
	}

	_, err = fmt.Fprintln(out, rendered)
	return err
}

func writeSessionStatus(ctx context.Context, out io.Writer, app *app, id domain.SessionID) error {
	session, err := app.orchestrator.GetSession(ctx, id)
	if err != nil {
		return err
	}

	rendered, err := app.renderStatus(session)
	if err != nil {
		return fmt.Errorf("render session: %w", err)
	}

	_, err = fmt.Fprintln(out, rendered)
	return err
}

func writeTrail(ctx context.Context, out io.Writer, app *app, id domain.SessionID) error {
	records, err := app.orchestrator.AuditTrail(ctx, id)
	if err != nil {
		return err
	}

	rendered, err := app.renderTrail(id, records)
	if err != nil {
		return fmt.Errorf("render audit trail: %w", err)
	}

	_, err = fmt.Fprintln(out, rendered)
	return err
}

func sanitizeForTerminal(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)
}
