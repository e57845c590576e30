package domain

import (
	"fmt"
	"time"
)

type SessionID string

type Session struct {
	ID          SessionID
	Stage       Stage
	LoanRequest *LoanRequest
	Applicant   *Applicant
	Decision    *Decision
	Document    *DocumentHandle
	Attempts    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	History     []AuditRecord
}

func NewSession(id SessionID, now time.Time) Session {
	return Session{
		ID:        id,
		Stage:     StageIntake,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy so that callers never share pointers with the
// stored session.
func (s Session) Clone() Session {
	out := s
	if s.LoanRequest != nil {
		req := *s.LoanRequest
		out.LoanRequest = &req
	}
	if s.Applicant != nil {
		applicant := *s.Applicant
		out.Applicant = &applicant
	}
	if s.Decision != nil {
		decision := *s.Decision
		out.Decision = &decision
	}
	if s.Document != nil {
		doc := *s.Document
		out.Document = &doc
	}
	if s.History != nil {
		out.History = make([]AuditRecord, len(s.History))
		for i, record := range s.History {
			out.History[i] = record.clone()
		}
	}

	return out
}

func (s Session) Terminal() bool {
	return s.Stage.Terminal()
}

func (s *Session) SetLoanRequest(req LoanRequest) error {
	if s.LoanRequest != nil {
		return fmt.Errorf("loan request: %w", ErrFieldAlreadySet)
	}
	if s.Stage != StageIntake {
		return fmt.Errorf("%w: loan request can only be set in %s, session is %s", ErrInvalidTransition, StageIntake, s.Stage)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	s.LoanRequest = &req
	return nil
}

func (s *Session) SetApplicant(applicant Applicant) error {
	if s.Applicant != nil {
		return fmt.Errorf("applicant: %w", ErrFieldAlreadySet)
	}
	if s.Stage != StageVerification {
		return fmt.Errorf("%w: applicant can only be set in %s, session is %s", ErrInvalidTransition, StageVerification, s.Stage)
	}

	s.Applicant = &applicant
	return nil
}

// SetDecision stores the underwriting outcome. An approved decision needs a
// document handle and a session in UNDERWRITING.
func (s *Session) SetDecision(decision Decision, document *DocumentHandle) error {
	if s.Decision != nil {
		return fmt.Errorf("decision: %w", ErrFieldAlreadySet)
	}
	if s.Stage != StageUnderwriting && s.Stage != StageVerification {
		return fmt.Errorf("%w: decision cannot be set in %s", ErrInvalidTransition, s.Stage)
	}
	if decision.Approved {
		if s.Stage != StageUnderwriting {
			return fmt.Errorf("%w: approval requires %s, session is %s", ErrInvalidTransition, StageUnderwriting, s.Stage)
		}
		if document == nil {
			return fmt.Errorf("%w: approved decision without document", ErrInvalidTransition)
		}
		doc := *document
		s.Document = &doc
	}

	s.Decision = &decision
	return nil
}

// Transition builds the audit record for moving to next and applies it. The
// caller must persist the record before publishing the session.
func (s *Session) Transition(event EventType, next Stage, payload map[string]any, at time.Time) (AuditRecord, error) {
	if err := s.Stage.validateAdvance(next); err != nil {
		return AuditRecord{}, err
	}

	record := AuditRecord{
		Timestamp:   at,
		SessionID:   s.ID,
		Sequence:    len(s.History) + 1,
		StageBefore: s.Stage,
		StageAfter:  next,
		Event:       event,
		Payload:     payload,
	}

	if next != s.Stage {
		s.Attempts = 0
	}
	s.Stage = next
	s.UpdatedAt = at
	s.History = append(s.History, record)

	return record, nil
}

// Created records the opening event of a fresh session.
func (s *Session) Created(at time.Time) (AuditRecord, error) {
	if len(s.History) != 0 || s.Stage != StageIntake {
		return AuditRecord{}, fmt.Errorf("%w: session %s already started", ErrInvalidTransition, s.ID)
	}

	record := AuditRecord{
		Timestamp:  at,
		SessionID:  s.ID,
		Sequence:   1,
		StageAfter: StageIntake,
		Event:      EventSessionCreated,
		Payload:    map[string]any{},
	}
	s.UpdatedAt = at
	s.History = append(s.History, record)

	return record, nil
}
