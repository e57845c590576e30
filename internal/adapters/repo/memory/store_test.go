package memory

import (
	"context"
	"testing"
	"time"

	"github.com/bnema/loanflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStoreRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewSessionStore()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	first := domain.NewSession("s-1", now)
	second := domain.NewSession("s-2", now.Add(time.Minute))
	require.NoError(t, store.Insert(ctx, second))
	require.NoError(t, store.Insert(ctx, first))

	got, err := store.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, first, got)

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, domain.SessionID("s-1"), sessions[0].ID)
	assert.Equal(t, domain.SessionID("s-2"), sessions[1].ID)
}

func TestSessionStoreRejectsDuplicateInsert(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewSessionStore()
	session := domain.NewSession("s-1", time.Now())

	require.NoError(t, store.Insert(ctx, session))
	require.Error(t, store.Insert(ctx, session))
}

func TestSessionStoreReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewSessionStore()
	session := domain.NewSession("s-1", time.Now())
	require.NoError(t, session.SetLoanRequest(domain.LoanRequest{Principal: 500000, TenureMonths: 36}))
	require.NoError(t, store.Insert(ctx, session))

	got, err := store.Get(ctx, "s-1")
	require.NoError(t, err)
	got.LoanRequest.Principal = 1

	again, err := store.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, int64(500000), again.LoanRequest.Principal)
}

func TestSessionStoreMissingSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewSessionStore()

	_, err := store.Get(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)

	err = store.Replace(ctx, domain.NewSession("missing", time.Now()))
	require.ErrorIs(t, err, domain.ErrSessionNotFound)

	require.NoError(t, store.Delete(ctx, "missing"))
}
