package chat

import (
	"testing"
	"time"

	"github.com/bnema/loanflow/internal/application"
	"github.com/bnema/loanflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderReplyApproved(t *testing.T) {
	output, err := RenderReply(application.Reply{
		SessionID: "session-1",
		Stage:     domain.StageCompleted,
		Prompt:    "Congratulations! Your loan has been approved.",
		Decision: &domain.Decision{
			Approved:  true,
			Rate:      11,
			EMI:       16369.36,
			RiskGrade: "A",
		},
		Document: &domain.DocumentHandle{SanctionID: "SL20260301ABCDEF", Path: "/tmp/session-1.toml"},
	})

	require.NoError(t, err)
	assert.Contains(t, output, "[COMPLETED]")
	assert.Contains(t, output, "session-1")
	assert.Contains(t, output, "Congratulations")
	assert.Contains(t, output, "APPROVED")
	assert.Contains(t, output, "rate 11.00%")
	assert.Contains(t, output, "₹16,369.36")
	assert.Contains(t, output, "SL20260301ABCDEF")
}

func TestRenderReplyRejected(t *testing.T) {
	output, err := RenderReply(application.Reply{
		SessionID: "session-2",
		Stage:     domain.StageFailed,
		Prompt:    "We regret that your loan could not be approved.",
		Decision:  &domain.Decision{Reason: domain.ReasonCreditScoreBelowThreshold},
	})

	require.NoError(t, err)
	assert.Contains(t, output, "REJECTED")
	assert.Contains(t, output, "CREDIT_SCORE_BELOW_THRESHOLD")
	assert.NotContains(t, output, "letter:")
}

func TestRenderTrail(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	output, err := RenderTrail("session-1", []domain.AuditRecord{
		{Timestamp: at, SessionID: "session-1", Sequence: 1, StageAfter: domain.StageIntake, Event: domain.EventSessionCreated},
		{
			Timestamp:   at.Add(time.Minute),
			SessionID:   "session-1",
			Sequence:    2,
			StageBefore: domain.StageIntake,
			StageAfter:  domain.StageVerification,
			Event:       domain.EventLoanRequestCaptured,
			Payload:     map[string]any{"tenure_months": 36, "principal": 500000},
		},
	})

	require.NoError(t, err)
	assert.Contains(t, output, "records: 2")
	assert.Contains(t, output, "SESSION_CREATED")
	assert.Contains(t, output, "- -> INTAKE")
	assert.Contains(t, output, "INTAKE -> VERIFICATION")
	assert.Contains(t, output, "principal=500000 tenure_months=36")
	assert.Contains(t, output, "2026-03-01 09:01:00")
}

func TestRenderTrailEmpty(t *testing.T) {
	output, err := RenderTrail("session-1", nil)

	require.NoError(t, err)
	assert.Contains(t, output, "No audit records.")
}

func TestRenderSession(t *testing.T) {
	session := domain.NewSession("session-1", time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	session.Stage = domain.StageVerification
	session.LoanRequest = &domain.LoanRequest{Principal: 500000, TenureMonths: 36}
	session.Attempts = 1

	output, err := RenderSession(session)

	require.NoError(t, err)
	assert.Contains(t, output, "Session session-1")
	assert.Contains(t, output, "VERIFICATION")
	assert.Contains(t, output, "attempts: 1")
	assert.Contains(t, output, "loan: ₹5,00,000 for 36 months")
}
