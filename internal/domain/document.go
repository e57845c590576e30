package domain

import "time"

const SanctionValidityDays = 30

type DocumentHandle struct {
	SessionID  SessionID
	SanctionID string
	Path       string
	IssuedAt   time.Time
}

// Document is an issued sanction letter. Every field except the handle's
// IssuedAt is derived from the session.
type Document struct {
	Handle         DocumentHandle
	ApplicantName  string
	IdentityNumber IdentityNumber
	EmploymentType EmploymentType
	Principal      int64
	TenureMonths   int
	Rate           float64
	EMI            float64
	TotalInterest  float64
	RiskGrade      string
	ValidUntil     time.Time
	Body           string
}
