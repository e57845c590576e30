package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/loanflow/internal/application"
	"github.com/bnema/loanflow/internal/domain"
)

type stubService struct {
	createFn   func(ctx context.Context) (application.Reply, error)
	messageFn  func(ctx context.Context, id domain.SessionID, text string) (application.Reply, error)
	sessionFn  func(ctx context.Context, id domain.SessionID) (domain.Session, error)
	trailFn    func(ctx context.Context, id domain.SessionID) ([]domain.AuditRecord, error)
	documentFn func(ctx context.Context, id domain.SessionID) (domain.Document, error)
	healthFn   func(ctx context.Context) (application.Health, error)
}

func (s stubService) CreateSession(ctx context.Context) (application.Reply, error) {
	return s.createFn(ctx)
}

func (s stubService) HandleMessage(ctx context.Context, id domain.SessionID, text string) (application.Reply, error) {
	return s.messageFn(ctx, id, text)
}

func (s stubService) GetSession(ctx context.Context, id domain.SessionID) (domain.Session, error) {
	return s.sessionFn(ctx, id)
}

func (s stubService) AuditTrail(ctx context.Context, id domain.SessionID) ([]domain.AuditRecord, error) {
	return s.trailFn(ctx, id)
}

func (s stubService) Document(ctx context.Context, id domain.SessionID) (domain.Document, error) {
	return s.documentFn(ctx, id)
}

func (s stubService) Health(ctx context.Context) (application.Health, error) {
	return s.healthFn(ctx)
}

func newTestRouter(service Service) http.Handler {
	return NewRouter(service, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func serve(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCreateSessionReturnsOpeningPrompt(t *testing.T) {
	t.Parallel()

	router := newTestRouter(stubService{
		createFn: func(context.Context) (application.Reply, error) {
			return application.Reply{SessionID: "s-1", Stage: domain.StageIntake, Prompt: "Welcome"}, nil
		},
	})

	rec := serve(t, router, http.MethodPost, "/sessions", "")

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/sessions/s-1", rec.Header().Get("Location"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	got := decodeBody[replyResponse](t, rec)
	assert.Equal(t, "s-1", got.SessionID)
	assert.Equal(t, "INTAKE", got.Stage)
	assert.Equal(t, "Welcome", got.Prompt)
	assert.Nil(t, got.Decision)
}

func TestPostMessageForwardsTextAndDecision(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	var gotID domain.SessionID
	var gotText string
	router := newTestRouter(stubService{
		messageFn: func(_ context.Context, id domain.SessionID, text string) (application.Reply, error) {
			gotID, gotText = id, text
			return application.Reply{
				SessionID: id,
				Stage:     domain.StageCompleted,
				Prompt:    "Congratulations!",
				Decision: &domain.Decision{
					Approved:    true,
					Rate:        11.0,
					Components:  domain.RateComponents{Base: 11.0},
					EMI:         16369.36,
					CreditScore: 742,
					RiskGrade:   "B",
				},
				Document: &domain.DocumentHandle{SessionID: id, SanctionID: "SL20260301ABCDEF", Path: "/tmp/x.md", IssuedAt: issuedAt},
			}, nil
		},
	})

	rec := serve(t, router, http.MethodPost, "/sessions/abc/messages", `{"text":"Priya Sharma, PAN FGHIJ5678K, SALARIED"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.SessionID("abc"), gotID)
	assert.Equal(t, "Priya Sharma, PAN FGHIJ5678K, SALARIED", gotText)

	got := decodeBody[replyResponse](t, rec)
	assert.Equal(t, "COMPLETED", got.Stage)
	require.NotNil(t, got.Decision)
	assert.True(t, got.Decision.Approved)
	assert.InDelta(t, 16369.36, got.Decision.EMI, 0.001)
	assert.Equal(t, 742, got.Decision.CreditScore)
	require.NotNil(t, got.Document)
	assert.Equal(t, "SL20260301ABCDEF", got.Document.SanctionID)
	assert.True(t, issuedAt.Equal(got.Document.IssuedAt))
}

func TestPostMessageRejectsBadBodies(t *testing.T) {
	t.Parallel()

	router := newTestRouter(stubService{
		messageFn: func(context.Context, domain.SessionID, string) (application.Reply, error) {
			t.Fatal("service must not be called for a bad body")
			return application.Reply{}, nil
		},
	})

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "hello"},
		{name: "unknown field", body: `{"message":"hi"}`},
		{name: "blank text", body: `{"text":"   "}`},
		{name: "empty", body: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, router, http.MethodPost, "/sessions/abc/messages", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			got := decodeBody[errorResponse](t, rec)
			assert.NotEmpty(t, got.Error)
		})
	}
}

func TestErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "unknown session",
			err:        fmt.Errorf("session nope: %w", domain.ErrSessionNotFound),
			wantStatus: http.StatusNotFound,
			wantBody:   "session nope",
		},
		{
			name:       "terminal session",
			err:        fmt.Errorf("handle message: %w", domain.ErrTerminalSession),
			wantStatus: http.StatusConflict,
			wantBody:   "handle message",
		},
		{
			name:       "audit write failure hides detail",
			err:        fmt.Errorf("%w: append DECISION_RECORDED: disk full", domain.ErrAuditWrite),
			wantStatus: http.StatusInternalServerError,
			wantBody:   http.StatusText(http.StatusInternalServerError),
		},
		{
			name:       "caller gave up",
			err:        fmt.Errorf("lookup applicant: %w", context.DeadlineExceeded),
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   http.StatusText(http.StatusServiceUnavailable),
		},
		{
			name:       "anything else",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   http.StatusText(http.StatusInternalServerError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newTestRouter(stubService{
				messageFn: func(context.Context, domain.SessionID, string) (application.Reply, error) {
					return application.Reply{}, tt.err
				},
			})

			rec := serve(t, router, http.MethodPost, "/sessions/x/messages", `{"text":"hi"}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
			got := decodeBody[errorResponse](t, rec)
			assert.Contains(t, got.Error, tt.wantBody)
		})
	}
}

func TestGetSession(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	router := newTestRouter(stubService{
		sessionFn: func(_ context.Context, id domain.SessionID) (domain.Session, error) {
			if id != "abc" {
				return domain.Session{}, domain.ErrSessionNotFound
			}
			return domain.Session{
				ID:          id,
				Stage:       domain.StageVerification,
				LoanRequest: &domain.LoanRequest{Principal: 500000, TenureMonths: 36},
				Attempts:    1,
				CreatedAt:   created,
				UpdatedAt:   created.Add(time.Minute),
			}, nil
		},
	})

	rec := serve(t, router, http.MethodGet, "/sessions/abc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[sessionResponse](t, rec)
	assert.Equal(t, "VERIFICATION", got.Stage)
	assert.Equal(t, 1, got.Attempts)
	require.NotNil(t, got.LoanRequest)
	assert.Equal(t, int64(500000), got.LoanRequest.Principal)
	assert.Equal(t, 36, got.LoanRequest.TenureMonths)
	assert.Nil(t, got.Applicant)

	rec = serve(t, router, http.MethodGet, "/sessions/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuditTrail(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	router := newTestRouter(stubService{
		trailFn: func(_ context.Context, id domain.SessionID) ([]domain.AuditRecord, error) {
			return []domain.AuditRecord{
				{Timestamp: at, SessionID: id, Sequence: 1, StageAfter: domain.StageIntake, Event: domain.EventSessionCreated},
				{
					Timestamp:   at.Add(time.Second),
					SessionID:   id,
					Sequence:    2,
					StageBefore: domain.StageIntake,
					StageAfter:  domain.StageVerification,
					Event:       domain.EventLoanRequestCaptured,
					Payload:     map[string]any{"principal": 500000, "tenure_months": 36},
				},
			}, nil
		},
	})

	rec := serve(t, router, http.MethodGet, "/sessions/abc/audit", "")

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[trailResponse](t, rec)
	assert.Equal(t, "abc", got.SessionID)
	require.Len(t, got.Records, 2)
	assert.Equal(t, "SESSION_CREATED", got.Records[0].Event)
	assert.Empty(t, got.Records[0].StageBefore)
	assert.NotNil(t, got.Records[0].Payload)
	assert.Equal(t, "INTAKE", got.Records[1].StageBefore)
	assert.Equal(t, "VERIFICATION", got.Records[1].StageAfter)
	assert.InDelta(t, 500000, got.Records[1].Payload["principal"], 0)
}

func TestLetterNegotiatesMarkdown(t *testing.T) {
	t.Parallel()

	router := newTestRouter(stubService{
		documentFn: func(_ context.Context, id domain.SessionID) (domain.Document, error) {
			if id != "abc" {
				return domain.Document{}, fmt.Errorf("fetch sanction letter: %w", domain.ErrDocumentNotFound)
			}
			return domain.Document{
				Handle:        domain.DocumentHandle{SessionID: id, SanctionID: "SL20260301ABCDEF"},
				ApplicantName: "Priya Sharma",
				Principal:     500000,
				TenureMonths:  36,
				Body:          "# Sanction Letter\n",
			}, nil
		},
	})

	rec := serve(t, router, http.MethodGet, "/sessions/abc/letter", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[letterResponse](t, rec)
	assert.Equal(t, "SL20260301ABCDEF", got.SanctionID)
	assert.Equal(t, "Priya Sharma", got.ApplicantName)

	req := httptest.NewRequest(http.MethodGet, "/sessions/abc/letter", nil)
	req.Header.Set("Accept", "text/markdown")
	raw := httptest.NewRecorder()
	router.ServeHTTP(raw, req)
	require.Equal(t, http.StatusOK, raw.Code)
	assert.Equal(t, "text/markdown; charset=utf-8", raw.Header().Get("Content-Type"))
	assert.Equal(t, "# Sanction Letter\n", raw.Body.String())

	rec = serve(t, router, http.MethodGet, "/sessions/other/letter", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	router := newTestRouter(stubService{
		healthFn: func(context.Context) (application.Health, error) {
			return application.Health{ActiveSessions: 2, TotalSessions: 5}, nil
		},
	})

	rec := serve(t, router, http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[healthResponse](t, rec)
	assert.Equal(t, healthResponse{Status: "ok", ActiveSessions: 2, TotalSessions: 5}, got)
}

func TestRecovererTurnsPanicsIntoServerErrors(t *testing.T) {
	t.Parallel()

	router := newTestRouter(stubService{
		healthFn: func(context.Context) (application.Health, error) {
			panic("boom")
		},
	})

	rec := serve(t, router, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()

	rec := serve(t, newTestRouter(stubService{}), http.MethodGet, "/nope", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
