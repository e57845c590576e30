package httpapi

import (
	"time"

	"github.com/bnema/loanflow/internal/application"
	"github.com/bnema/loanflow/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status         string `json:"status"`
	ActiveSessions int    `json:"active_sessions"`
	TotalSessions  int    `json:"total_sessions"`
}

type replyResponse struct {
	SessionID string            `json:"session_id"`
	Stage     string            `json:"stage"`
	Prompt    string            `json:"prompt"`
	Decision  *decisionResponse `json:"decision,omitempty"`
	Document  *documentResponse `json:"document,omitempty"`
}

type decisionResponse struct {
	Approved         bool    `json:"approved"`
	Reason           string  `json:"reason,omitempty"`
	CreditScore      int     `json:"credit_score"`
	RiskGrade        string  `json:"risk_grade,omitempty"`
	Rate             float64 `json:"rate,omitempty"`
	BaseRate         float64 `json:"base_rate,omitempty"`
	TenureAdjustment float64 `json:"tenure_adjustment,omitempty"`
	EMI              float64 `json:"emi,omitempty"`
	TotalInterest    float64 `json:"total_interest,omitempty"`
}

type documentResponse struct {
	SanctionID string    `json:"sanction_id"`
	Path       string    `json:"path"`
	IssuedAt   time.Time `json:"issued_at"`
}

type loanResponse struct {
	Principal    int64 `json:"principal"`
	TenureMonths int   `json:"tenure_months"`
}

type applicantResponse struct {
	Name           string `json:"name"`
	IdentityNumber string `json:"identity_number"`
	EmploymentType string `json:"employment_type"`
}

type sessionResponse struct {
	ID          string             `json:"id"`
	Stage       string             `json:"stage"`
	Attempts    int                `json:"attempts"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	LoanRequest *loanResponse      `json:"loan_request,omitempty"`
	Applicant   *applicantResponse `json:"applicant,omitempty"`
	Decision    *decisionResponse  `json:"decision,omitempty"`
	Document    *documentResponse  `json:"document,omitempty"`
}

type recordResponse struct {
	Sequence    int            `json:"sequence"`
	Timestamp   time.Time      `json:"timestamp"`
	Event       string         `json:"event"`
	StageBefore string         `json:"stage_before,omitempty"`
	StageAfter  string         `json:"stage_after"`
	Payload     map[string]any `json:"payload"`
}

type trailResponse struct {
	SessionID string           `json:"session_id"`
	Records   []recordResponse `json:"records"`
}

type letterResponse struct {
	SanctionID     string    `json:"sanction_id"`
	IssuedAt       time.Time `json:"issued_at"`
	ValidUntil     time.Time `json:"valid_until"`
	ApplicantName  string    `json:"applicant_name"`
	IdentityNumber string    `json:"identity_number"`
	Principal      int64     `json:"principal"`
	TenureMonths   int       `json:"tenure_months"`
	Rate           float64   `json:"rate"`
	EMI            float64   `json:"emi"`
	TotalInterest  float64   `json:"total_interest"`
	RiskGrade      string    `json:"risk_grade"`
	Body           string    `json:"body"`
}

func toReplyResponse(reply application.Reply) replyResponse {
	return replyResponse{
		SessionID: string(reply.SessionID),
		Stage:     string(reply.Stage),
		Prompt:    reply.Prompt,
		Decision:  toDecisionResponse(reply.Decision),
		Document:  toDocumentResponse(reply.Document),
	}
}

func toDecisionResponse(decision *domain.Decision) *decisionResponse {
	if decision == nil {
		return nil
	}

	return &decisionResponse{
		Approved:         decision.Approved,
		Reason:           string(decision.Reason),
		CreditScore:      decision.CreditScore,
		RiskGrade:        decision.RiskGrade,
		Rate:             decision.Rate,
		BaseRate:         decision.Components.Base,
		TenureAdjustment: decision.Components.TenureAdjustment,
		EMI:              decision.EMI,
		TotalInterest:    decision.TotalInterest,
	}
}

func toDocumentResponse(handle *domain.DocumentHandle) *documentResponse {
	if handle == nil {
		return nil
	}

	return &documentResponse{
		SanctionID: handle.SanctionID,
		Path:       handle.Path,
		IssuedAt:   handle.IssuedAt,
	}
}

func toSessionResponse(session domain.Session) sessionResponse {
	out := sessionResponse{
		ID:        string(session.ID),
		Stage:     string(session.Stage),
		Attempts:  session.Attempts,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
		Decision:  toDecisionResponse(session.Decision),
		Document:  toDocumentResponse(session.Document),
	}
	if session.LoanRequest != nil {
		out.LoanRequest = &loanResponse{
			Principal:    session.LoanRequest.Principal,
			TenureMonths: session.LoanRequest.TenureMonths,
		}
	}
	if session.Applicant != nil {
		out.Applicant = &applicantResponse{
			Name:           session.Applicant.Name,
			IdentityNumber: string(session.Applicant.IdentityNumber),
			EmploymentType: string(session.Applicant.EmploymentType),
		}
	}

	return out
}

func toTrailResponse(id domain.SessionID, records []domain.AuditRecord) trailResponse {
	out := trailResponse{
		SessionID: string(id),
		Records:   make([]recordResponse, 0, len(records)),
	}
	for _, record := range records {
		payload := record.Payload
		if payload == nil {
			payload = map[string]any{}
		}
		out.Records = append(out.Records, recordResponse{
			Sequence:    record.Sequence,
			Timestamp:   record.Timestamp,
			Event:       string(record.Event),
			StageBefore: string(record.StageBefore),
			StageAfter:  string(record.StageAfter),
			Payload:     payload,
		})
	}

	return out
}

func toLetterResponse(document domain.Document) letterResponse {
	return letterResponse{
		SanctionID:     document.Handle.SanctionID,
		IssuedAt:       document.Handle.IssuedAt,
		ValidUntil:     document.ValidUntil,
		ApplicantName:  document.ApplicantName,
		IdentityNumber: string(document.IdentityNumber),
		Principal:      document.Principal,
		TenureMonths:   document.TenureMonths,
		Rate:           document.Rate,
		EMI:            document.EMI,
		TotalInterest:  document.TotalInterest,
		RiskGrade:      document.RiskGrade,
		Body:           document.Body,
	}
}
