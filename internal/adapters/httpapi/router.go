package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bnema/loanflow/internal/application"
	"github.com/bnema/loanflow/internal/domain"
)

const maxBodyBytes = 64 << 10

// Service is the part of the orchestrator the HTTP API exposes.
type Service interface {
	CreateSession(ctx context.Context) (application.Reply, error)
	HandleMessage(ctx context.Context, id domain.SessionID, text string) (application.Reply, error)
	GetSession(ctx context.Context, id domain.SessionID) (domain.Session, error)
	AuditTrail(ctx context.Context, id domain.SessionID) ([]domain.AuditRecord, error)
	Document(ctx context.Context, id domain.SessionID) (domain.Document, error)
	Health(ctx context.Context) (application.Health, error)
}

func NewRouter(service Service, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	h := handlers{service: service, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.createSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getSession)
			r.Post("/messages", h.postMessage)
			r.Get("/audit", h.auditTrail)
			r.Get("/letter", h.letter)
		})
	})

	return r
}

// requestLogger logs one line per request. Bodies are never logged.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logger.Info("http request",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		})
	}
}
