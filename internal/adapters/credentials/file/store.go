package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/loanflow/internal/adapters/credentials"
	"github.com/bnema/loanflow/internal/ports"
)

const (
	storeDirMode = 0o700
	tokenMode    = 0o600
)

// Store keeps each directory token in its own file under root, at the path
// named by its ref: "directory/token" lives at <root>/directory/token.
type Store struct {
	root string
	mu   sync.RWMutex
}

var _ ports.CredentialStore = (*Store)(nil)

func NewStore(root string) *Store {
	return &Store{root: filepath.Clean(root)}
}

// Put validates the token and replaces the file atomically, so a reader
// never sees a half written token.
func (s *Store) Put(ctx context.Context, ref string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.path(ref)
	if err != nil {
		return err
	}
	token, err := credentials.NormalizeToken(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, storeDirMode); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".token-*")
	if err != nil {
		return fmt.Errorf("create temp token file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if err := tmp.Chmod(tokenMode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp token file: %w", err)
	}
	if _, err := tmp.WriteString(token + "\n"); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write token %q: %w", ref, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp token file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace token %q: %w", ref, err)
	}

	return nil
}

// Get returns the stored token. Hand-edited files are accepted as long as
// they still hold a single valid token.
func (s *Store) Get(ctx context.Context, ref string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := s.path(ref)
	if err != nil {
		return "", err
	}

	s.mu.RLock()
	data, err := os.ReadFile(path)
	s.mu.RUnlock()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w %q: %w", credentials.ErrNotFound, ref, err)
		}
		return "", fmt.Errorf("read token %q: %w", ref, err)
	}

	token, err := credentials.NormalizeToken(string(data))
	if err != nil {
		return "", fmt.Errorf("token %q in %s: %w", ref, path, err)
	}

	return token, nil
}

func (s *Store) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.path(ref)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete token %q: %w", ref, err)
	}

	return nil
}

func (s *Store) path(ref string) (string, error) {
	clean, err := credentials.ParseRef(ref)
	if err != nil {
		return "", err
	}

	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}
