package chat

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bnema/loanflow/internal/application"
	"github.com/bnema/loanflow/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const timeLayout = "2006-01-02 15:04:05"

func renderReply(reply application.Reply, s styles) string {
	lines := []string{
		s.stage.Render(fmt.Sprintf("[%s]", reply.Stage)) + " " + s.header.Render(string(reply.SessionID)),
		s.prompt.Render(reply.Prompt),
	}

	if reply.Decision != nil {
		lines = append(lines, s.section.Render(decisionLine(*reply.Decision, s)))
	}
	if reply.Document != nil {
		lines = append(lines, s.detail.Render(fmt.Sprintf("letter: %s (%s)", reply.Document.SanctionID, reply.Document.Path)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func decisionLine(decision domain.Decision, s styles) string {
	if !decision.Approved {
		return s.rejected.Render("REJECTED") + " " + s.detail.Render(string(decision.Reason))
	}

	return s.approved.Render("APPROVED") + " " + s.detail.Render(fmt.Sprintf(
		"rate %.2f%% | emi %s | grade %s",
		decision.Rate,
		domain.FormatRupeesExact(decision.EMI),
		decision.RiskGrade,
	))
}

func renderTrail(id domain.SessionID, records []domain.AuditRecord, s styles) string {
	lines := []string{
		s.title.Render("Audit trail"),
		s.header.Render(fmt.Sprintf("session: %s | records: %d", id, len(records))),
	}

	if len(records) == 0 {
		lines = append(lines, s.faint.Render("No audit records."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, record := range records {
		lines = append(lines, s.section.Render(recordLines(record, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func recordLines(record domain.AuditRecord, s styles) string {
	head := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.faint.Render(fmt.Sprintf("#%d", record.Sequence)),
		" ",
		s.event.Render(string(record.Event)),
		" ",
		s.stage.Render(stageArrow(record)),
		" ",
		s.header.Render(record.Timestamp.UTC().Format(timeLayout)),
	)

	payload := payloadLine(record.Payload)
	if payload == "" {
		return head
	}

	return lipgloss.JoinVertical(lipgloss.Left, head, s.detail.Render("  "+payload))
}

func stageArrow(record domain.AuditRecord) string {
	before := string(record.StageBefore)
	if before == "" {
		before = "-"
	}
	if record.StageBefore == record.StageAfter {
		return before
	}

	return before + " -> " + string(record.StageAfter)
}

func payloadLine(payload map[string]any) string {
	if len(payload) == 0 {
		return ""
	}

	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", key, payload[key]))
	}

	return strings.Join(parts, " ")
}

func formatWhen(t time.Time) string {
	if t.IsZero() {
		return "n/a"
	}
	return t.UTC().Format(timeLayout)
}

func renderSession(session domain.Session, s styles) string {
	lines := []string{
		s.title.Render("Session " + string(session.ID)),
		s.stage.Render(string(session.Stage)),
		s.detail.Render(fmt.Sprintf("created: %s | updated: %s | attempts: %d", formatWhen(session.CreatedAt), formatWhen(session.UpdatedAt), session.Attempts)),
	}

	if req := session.LoanRequest; req != nil {
		lines = append(lines, s.detail.Render(fmt.Sprintf("loan: %s for %d months", domain.FormatRupees(req.Principal), req.TenureMonths)))
	}
	if applicant := session.Applicant; applicant != nil {
		lines = append(lines, s.detail.Render(fmt.Sprintf("applicant: %s (%s, %s)", applicant.Name, applicant.IdentityNumber, applicant.EmploymentType)))
	}
	if session.Decision != nil {
		lines = append(lines, decisionLine(*session.Decision, s))
	}
	if doc := session.Document; doc != nil {
		lines = append(lines, s.detail.Render(fmt.Sprintf("letter: %s", doc.SanctionID)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
