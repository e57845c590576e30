package domain

import (
	"maps"
	"time"
)

type EventType string

const (
	EventSessionCreated       EventType = "SESSION_CREATED"
	EventLoanRequestCaptured  EventType = "LOAN_REQUEST_CAPTURED"
	EventExtractionFailed     EventType = "EXTRACTION_FAILED"
	EventDirectoryUnavailable EventType = "DIRECTORY_UNAVAILABLE"
	EventIdentityRejected     EventType = "IDENTITY_REJECTED"
	EventIdentityVerified     EventType = "IDENTITY_VERIFIED"
	EventDecisionRecorded     EventType = "DECISION_RECORDED"
)

// AuditRecord is one durable entry of a session's trail. Payload holds only
// validated, structured values.
type AuditRecord struct {
	Timestamp   time.Time
	SessionID   SessionID
	Sequence    int
	StageBefore Stage
	StageAfter  Stage
	Event       EventType
	Payload     map[string]any
}

func (r AuditRecord) IsTransition() bool {
	return r.StageBefore != r.StageAfter
}

func (r AuditRecord) clone() AuditRecord {
	r.Payload = maps.Clone(r.Payload)
	return r
}
