package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bnema/loanflow/internal/domain"
)

type handlers struct {
	service Service
	logger  *slog.Logger
}

type messageRequest struct {
	Text string `json:"text"`
}

func (h handlers) health(w http.ResponseWriter, r *http.Request) {
	health, err := h.service.Health(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	respondJSON(w, healthResponse{
		Status:         "ok",
		ActiveSessions: health.ActiveSessions,
		TotalSessions:  health.TotalSessions,
	}, http.StatusOK)
}

func (h handlers) createSession(w http.ResponseWriter, r *http.Request) {
	reply, err := h.service.CreateSession(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	w.Header().Set("Location", "/sessions/"+string(reply.SessionID))
	respondJSON(w, toReplyResponse(reply), http.StatusCreated)
}

func (h handlers) getSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.GetSession(r.Context(), sessionID(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	respondJSON(w, toSessionResponse(session), http.StatusOK)
}

func (h handlers) postMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		respondMessage(w, "invalid request body: expected {\"text\":\"...\"}", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondMessage(w, "text must not be empty", http.StatusBadRequest)
		return
	}

	reply, err := h.service.HandleMessage(r.Context(), sessionID(r), req.Text)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	respondJSON(w, toReplyResponse(reply), http.StatusOK)
}

func (h handlers) auditTrail(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	records, err := h.service.AuditTrail(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	respondJSON(w, toTrailResponse(id, records), http.StatusOK)
}

func (h handlers) letter(w http.ResponseWriter, r *http.Request) {
	document, err := h.service.Document(r.Context(), sessionID(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "text/markdown") {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, document.Body)
		return
	}

	respondJSON(w, toLetterResponse(document), http.StatusOK)
}

func sessionID(r *http.Request) domain.SessionID {
	return domain.SessionID(chi.URLParam(r, "id"))
}

func (h handlers) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "path", r.URL.Path, "status", status, "error", err)
		respondMessage(w, http.StatusText(status), status)
		return
	}

	respondMessage(w, err.Error(), status)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrTerminalSession):
		return http.StatusConflict
	case errors.Is(err, domain.ErrAuditWrite):
		return http.StatusInternalServerError
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondMessage(w http.ResponseWriter, message string, status int) {
	respondJSON(w, errorResponse{Error: message}, status)
}
