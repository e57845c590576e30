package letter

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/loanflow/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	now time.Time
}

func (f fixedClock) Now() time.Time {
	return f.now
}

var issuedAt = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func newTestIssuer(t *testing.T, now time.Time) (*Issuer, string) {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "letters")
	config := viper.New()
	config.Set("letters.dir", dir)

	issuer, err := NewIssuer(config, fixedClock{now: now})
	require.NoError(t, err)
	return issuer, dir
}

func approvedSession() domain.Session {
	session := domain.NewSession("session-1", issuedAt)
	session.Stage = domain.StageUnderwriting
	session.LoanRequest = &domain.LoanRequest{Principal: 500000, TenureMonths: 36}
	session.Applicant = &domain.Applicant{
		Name:           "Priya Sharma",
		IdentityNumber: "FGHIJ5678K",
		EmploymentType: domain.EmploymentSalaried,
	}
	session.Decision = &domain.Decision{
		Approved:      true,
		Rate:          11,
		EMI:           16369.36,
		TotalInterest: 89296.96,
		CreditScore:   742,
		RiskGrade:     "A",
	}
	return session
}

func TestIssuerIssueAndFetch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	issuer, dir := newTestIssuer(t, issuedAt)

	handle, err := issuer.Issue(ctx, approvedSession())
	require.NoError(t, err)
	assert.Equal(t, domain.SessionID("session-1"), handle.SessionID)
	assert.Equal(t, SanctionID("session-1", issuedAt), handle.SanctionID)
	assert.Equal(t, filepath.Join(dir, "session-1.toml"), handle.Path)
	assert.FileExists(t, filepath.Join(dir, "session-1.md"))

	document, err := issuer.Fetch(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, handle.SanctionID, document.Handle.SanctionID)
	assert.True(t, issuedAt.Equal(document.Handle.IssuedAt))
	assert.True(t, issuedAt.AddDate(0, 0, 30).Equal(document.ValidUntil))
	assert.Equal(t, "Priya Sharma", document.ApplicantName)
	assert.Equal(t, int64(500000), document.Principal)
	assert.Equal(t, 16369.36, document.EMI)
	assert.Contains(t, document.Body, "# Loan Sanction Letter")
	assert.Contains(t, document.Body, "₹5,00,000")
	assert.Contains(t, document.Body, "₹16,369.36")
	assert.Contains(t, document.Body, "31 March 2026")
}

func TestIssuerIsIdempotentPerSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "letters")
	config := viper.New()
	config.Set("letters.dir", dir)

	first, err := NewIssuer(config, fixedClock{now: issuedAt})
	require.NoError(t, err)
	handle, err := first.Issue(ctx, approvedSession())
	require.NoError(t, err)

	later, err := NewIssuer(config, fixedClock{now: issuedAt.AddDate(0, 0, 2)})
	require.NoError(t, err)
	again, err := later.Issue(ctx, approvedSession())
	require.NoError(t, err)

	assert.Equal(t, handle.SanctionID, again.SanctionID)
	assert.True(t, handle.IssuedAt.Equal(again.IssuedAt))
}

func TestIssuerRejectsUnapprovedSession(t *testing.T) {
	t.Parallel()

	issuer, dir := newTestIssuer(t, issuedAt)
	session := approvedSession()
	session.Decision = &domain.Decision{Reason: domain.ReasonCreditScoreBelowThreshold}

	_, err := issuer.Issue(context.Background(), session)
	require.ErrorIs(t, err, domain.ErrNotApproved)

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestIssuerFetchUnknownSession(t *testing.T) {
	t.Parallel()

	issuer, _ := newTestIssuer(t, issuedAt)

	_, err := issuer.Fetch(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrDocumentNotFound)

	_, err = issuer.Fetch(context.Background(), "../escape")
	require.Error(t, err)
}

func TestSanctionIDDependsOnSessionAndDate(t *testing.T) {
	t.Parallel()

	id := SanctionID("session-1", issuedAt)
	assert.Len(t, id, 16)
	assert.Regexp(t, `^SL20260301[0-9A-F]{6}$`, id)
	assert.Equal(t, id, SanctionID("session-1", issuedAt.Add(time.Hour)))
	assert.NotEqual(t, id, SanctionID("session-2", issuedAt))
}
