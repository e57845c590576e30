package ports

import (
	"context"

	"github.com/bnema/loanflow/internal/domain"
)

type DocumentIssuer interface {
	Issue(ctx context.Context, session domain.Session) (domain.DocumentHandle, error)
	Fetch(ctx context.Context, id domain.SessionID) (domain.Document, error)
}
