package application

import (
	"context"
	"sync"

	"github.com/bnema/loanflow/internal/domain"
)

// sessionLocks hands out one lock per session. The registry mutex is held
// only long enough to find or create the session's lock, so sessions never
// wait on each other.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[domain.SessionID]chan struct{}
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: map[domain.SessionID]chan struct{}{}}
}

func (l *sessionLocks) acquire(ctx context.Context, id domain.SessionID) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	lock, ok := l.locks[id]
	if !ok {
		lock = make(chan struct{}, 1)
		l.locks[id] = lock
	}
	l.mu.Unlock()

	select {
	case lock <- struct{}{}:
		return func() { <-lock }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// forget drops the lock of an evicted session. Callers must hold it.
func (l *sessionLocks) forget(id domain.SessionID) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.locks, id)
}
