package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func TestStageCanAdvanceTo(t *testing.T) {
	t.Parallel()

	assert.True(t, StageIntake.CanAdvanceTo(StageVerification))
	assert.True(t, StageVerification.CanAdvanceTo(StageUnderwriting))
	assert.True(t, StageUnderwriting.CanAdvanceTo(StageCompleted))
	assert.True(t, StageIntake.CanAdvanceTo(StageIntake))
	for _, stage := range []Stage{StageIntake, StageVerification, StageUnderwriting} {
		assert.True(t, stage.CanAdvanceTo(StageFailed), stage)
	}

	assert.False(t, StageIntake.CanAdvanceTo(StageUnderwriting))
	assert.False(t, StageVerification.CanAdvanceTo(StageIntake))
	assert.False(t, StageCompleted.CanAdvanceTo(StageFailed))
	assert.False(t, StageFailed.CanAdvanceTo(StageFailed))
	assert.False(t, StageIntake.CanAdvanceTo(Stage("SANCTION")))
}

func TestSessionTransitionRecordsHistory(t *testing.T) {
	t.Parallel()

	session := NewSession("sess-1", testNow)
	created, err := session.Created(testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, created.Sequence)
	assert.Equal(t, Stage(""), created.StageBefore)

	require.NoError(t, session.SetLoanRequest(LoanRequest{Principal: 500_000, TenureMonths: 36}))
	record, err := session.Transition(EventLoanRequestCaptured, StageVerification, map[string]any{"principal": int64(500_000)}, testNow.Add(time.Second))
	require.NoError(t, err)

	assert.Equal(t, 2, record.Sequence)
	assert.Equal(t, StageIntake, record.StageBefore)
	assert.Equal(t, StageVerification, record.StageAfter)
	assert.Equal(t, StageVerification, session.Stage)
	assert.Len(t, session.History, 2)
	assert.Equal(t, testNow.Add(time.Second), session.UpdatedAt)
}

func TestSessionRejectsBackwardTransition(t *testing.T) {
	t.Parallel()

	session := NewSession("sess-1", testNow)
	session.Stage = StageUnderwriting

	_, err := session.Transition(EventLoanRequestCaptured, StageVerification, nil, testNow)
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StageUnderwriting, session.Stage)
	assert.Empty(t, session.History)
}

func TestSessionFieldsAreSetOnce(t *testing.T) {
	t.Parallel()

	session := NewSession("sess-1", testNow)
	require.NoError(t, session.SetLoanRequest(LoanRequest{Principal: 100, TenureMonths: 1}))
	require.ErrorIs(t, session.SetLoanRequest(LoanRequest{Principal: 200, TenureMonths: 2}), ErrFieldAlreadySet)
	assert.Equal(t, int64(100), session.LoanRequest.Principal)

	session.Stage = StageVerification
	applicant := Applicant{Name: "Priya Sharma", IdentityNumber: "FGHIJ5678K", EmploymentType: EmploymentSalaried}
	require.NoError(t, session.SetApplicant(applicant))
	require.ErrorIs(t, session.SetApplicant(applicant), ErrFieldAlreadySet)

	require.ErrorIs(t, session.SetDecision(Decision{Approved: true}, &DocumentHandle{}), ErrInvalidTransition)
	session.Stage = StageUnderwriting
	require.ErrorIs(t, session.SetDecision(Decision{Approved: true}, nil), ErrInvalidTransition)
	require.NoError(t, session.SetDecision(Decision{Approved: true}, &DocumentHandle{SanctionID: "SL1"}))
	require.ErrorIs(t, session.SetDecision(Decision{Approved: false}, nil), ErrFieldAlreadySet)
}

func TestSessionCloneDoesNotAlias(t *testing.T) {
	t.Parallel()

	session := NewSession("sess-1", testNow)
	require.NoError(t, session.SetLoanRequest(LoanRequest{Principal: 100, TenureMonths: 1}))
	_, err := session.Created(testNow)
	require.NoError(t, err)

	clone := session.Clone()
	clone.LoanRequest.Principal = 999
	clone.History[0].Payload["leak"] = true
	clone.History = append(clone.History, AuditRecord{})

	assert.Equal(t, int64(100), session.LoanRequest.Principal)
	assert.NotContains(t, session.History[0].Payload, "leak")
	assert.Len(t, session.History, 1)
}

func TestApplicantRecordMatches(t *testing.T) {
	t.Parallel()

	record := priya()
	assert.True(t, record.Matches(Applicant{Name: "priya  sharma", EmploymentType: EmploymentSalaried}))
	assert.True(t, record.Matches(Applicant{Name: "Priya", EmploymentType: EmploymentSalaried}))
	assert.False(t, record.Matches(Applicant{Name: "Rahul Gupta", EmploymentType: EmploymentSalaried}))
	assert.False(t, record.Matches(Applicant{Name: "Priya Sharma", EmploymentType: EmploymentSelfEmployed}))
	assert.True(t, record.Matches(Applicant{Name: "Sharma", EmploymentType: EmploymentSalaried}))
	assert.True(t, record.Matches(Applicant{Name: "Dr Priya Sharma", EmploymentType: EmploymentSalaried}))
	assert.False(t, record.Matches(Applicant{Name: "riya", EmploymentType: EmploymentSalaried}))
	assert.False(t, record.Matches(Applicant{Name: "Priya Sharmaa", EmploymentType: EmploymentSalaried}))
	assert.False(t, record.Matches(Applicant{Name: "Sharma Priya", EmploymentType: EmploymentSalaried}))
}

func TestNormalizeIdentityNumber(t *testing.T) {
	t.Parallel()

	id, err := NormalizeIdentityNumber(" fghij5678k ")
	require.NoError(t, err)
	assert.Equal(t, IdentityNumber("FGHIJ5678K"), id)

	for _, raw := range []string{"FGHIJ567K", "FGHIJ56789K", "FGHI15678K", "FGHIJ5678", ""} {
		_, err := NormalizeIdentityNumber(raw)
		assert.Error(t, err, raw)
	}
}
