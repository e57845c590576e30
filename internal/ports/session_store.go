package ports

import (
	"context"

	"github.com/bnema/loanflow/internal/domain"
)

type SessionStore interface {
	Insert(ctx context.Context, session domain.Session) error
	Get(ctx context.Context, id domain.SessionID) (domain.Session, error)
	Replace(ctx context.Context, session domain.Session) error
	Delete(ctx context.Context, id domain.SessionID) error
	List(ctx context.Context) ([]domain.Session, error)
}
