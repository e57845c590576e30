package ports

import (
	"context"

	"github.com/bnema/loanflow/internal/domain"
)

// AuditLog is append-only. Append returns only once the record is durable.
type AuditLog interface {
	Append(ctx context.Context, record domain.AuditRecord) error
	Trail(ctx context.Context, id domain.SessionID) ([]domain.AuditRecord, error)
}
