package pass

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/loanflow/internal/adapters/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePutInsertsUnderPrefix(t *testing.T) {
	t.Parallel()

	called := false
	store := &Store{
		prefix: "loanflow",
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			called = true
			assert.Equal(t, []string{"insert", "-m", "-f", "loanflow/directory/token"}, args)
			assert.Equal(t, "s3cret\n", input)
			return "", "", nil
		},
	}

	err := store.Put(context.Background(), "directory/token", "Bearer s3cret")
	require.NoError(t, err)
	assert.True(t, called)
}

func TestStoreGetReturnsFirstLine(t *testing.T) {
	t.Parallel()

	store := &Store{
		prefix: "loanflow",
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			assert.Equal(t, []string{"show", "loanflow/directory/token"}, args)
			assert.Empty(t, input)
			return "s3cret\r\nurl: https://crm.example\n", "", nil
		},
	}

	value, err := store.Get(context.Background(), "directory/token")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", value)
}

func TestStoreDeleteWithoutPrefix(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			assert.Equal(t, []string{"rm", "-f", "directory/token"}, args)
			return "", "", nil
		},
	}

	require.NoError(t, store.Delete(context.Background(), "/directory/token/"))
}

func TestStoreRejectsTraversalKeys(t *testing.T) {
	t.Parallel()

	store := &Store{
		prefix: "loanflow",
		run: func(context.Context, string, ...string) (string, string, error) {
			t.Fatal("pass must not run for an invalid key")
			return "", "", nil
		},
	}

	_, err := store.Get(context.Background(), "../other")
	require.ErrorIs(t, err, credentials.ErrInvalidRef)

	err = store.Put(context.Background(), " ", "x")
	require.ErrorIs(t, err, credentials.ErrInvalidRef)

	err = store.Put(context.Background(), "directory/token", "two words")
	require.ErrorIs(t, err, credentials.ErrInvalidToken)
}

func TestStoreGetReturnsClearError(t *testing.T) {
	t.Parallel()

	store := &Store{
		prefix: "loanflow",
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			return "", "entry not found", errors.New("exit status 1")
		},
	}

	_, err := store.Get(context.Background(), "directory/token")
	require.Error(t, err)
	assert.ErrorContains(t, err, "pass get")
	assert.ErrorContains(t, err, "loanflow/directory/token")
	assert.ErrorContains(t, err, "entry not found")
}

func TestStoreGetMissingEntryIsNotFound(t *testing.T) {
	t.Parallel()

	store := &Store{
		prefix: "loanflow",
		run: func(context.Context, string, ...string) (string, string, error) {
			return "", "Error: loanflow/directory/token is not in the password store.", errors.New("exit status 1")
		},
	}

	_, err := store.Get(context.Background(), "directory/token")
	require.ErrorIs(t, err, credentials.ErrNotFound)
}

func TestStoreHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	store := &Store{run: func(context.Context, string, ...string) (string, string, error) {
		t.Fatal("pass must not run after cancellation")
		return "", "", nil
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Get(ctx, "directory/token")
	require.ErrorIs(t, err, context.Canceled)
}
