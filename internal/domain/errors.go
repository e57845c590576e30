package domain

import "errors"

var (
	ErrSessionNotFound       = errors.New("session not found")
	ErrTerminalSession       = errors.New("session is terminal")
	ErrInvalidLoanParameters = errors.New("invalid loan parameters")
	ErrApplicantNotFound     = errors.New("applicant not found")
	ErrAuditWrite            = errors.New("audit write failed")
	ErrInvalidTransition     = errors.New("invalid stage transition")
	ErrFieldAlreadySet       = errors.New("field already set")
	ErrNotApproved           = errors.New("decision is not approved")
	ErrDocumentNotFound      = errors.New("document not found")
)
