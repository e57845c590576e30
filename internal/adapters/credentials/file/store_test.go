package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/loanflow/internal/adapters/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRejectsInvalidRefs(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	for _, ref := range []string{"", "   ", "/etc/passwd/../shadow", "../escape", "Directory/Token"} {
		t.Run(ref, func(t *testing.T) {
			_, err := store.Get(context.Background(), ref)
			require.ErrorIs(t, err, credentials.ErrInvalidRef)
		})
	}
}

func TestStorePutGetDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	root := t.TempDir()
	store := NewStore(root)
	ref := "directory/token"

	require.NoError(t, store.Put(ctx, ref, "Bearer s3cret"))

	got, err := store.Get(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)

	path := filepath.Join(root, "directory", "token")
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(tokenMode), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")

	require.NoError(t, store.Delete(ctx, ref))
	require.NoError(t, store.Delete(ctx, ref))

	_, err = store.Get(ctx, ref)
	require.ErrorIs(t, err, credentials.ErrNotFound)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestStorePutRejectsInvalidToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	root := t.TempDir()
	store := NewStore(root)

	err := store.Put(ctx, "directory/token", "not a token")
	require.ErrorIs(t, err, credentials.ErrInvalidToken)

	_, statErr := os.Stat(filepath.Join(root, "directory", "token"))
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestStoreGetAcceptsHandEditedFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "directory"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(root, "directory", "token"), []byte("  abc.def\r\n"), 0o600))

	got, err := NewStore(root).Get(context.Background(), "/directory/token/")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", got)
}

func TestStoreGetRejectsCorruptFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "crm"), []byte("first\nsecond\n"), 0o600))

	_, err := NewStore(root).Get(context.Background(), "crm")
	require.ErrorIs(t, err, credentials.ErrInvalidToken)
}

func TestStoreHonorsCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewStore(t.TempDir())
	require.ErrorIs(t, store.Put(ctx, "directory/token", "abc"), context.Canceled)
	_, err := store.Get(ctx, "directory/token")
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, store.Delete(ctx, "directory/token"), context.Canceled)
}
