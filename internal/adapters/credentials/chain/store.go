package chain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bnema/loanflow/internal/adapters/credentials"
	filestore "github.com/bnema/loanflow/internal/adapters/credentials/file"
	passstore "github.com/bnema/loanflow/internal/adapters/credentials/pass"
	"github.com/bnema/loanflow/internal/ports"
)

// Backend is one place the directory token may live.
type Backend struct {
	Name  string
	Store ports.CredentialStore
}

// Store reads the directory token from the first backend that holds it and
// writes to the first backend that accepts it. Delete clears every backend,
// so a revoked token cannot resurface from a fallback copy.
type Store struct {
	backends []Backend
	logger   *slog.Logger
}

var _ ports.CredentialStore = (*Store)(nil)

var errNoBackends = errors.New("credential chain has no backends")

func NewStore(logger *slog.Logger, backends ...Backend) (*Store, error) {
	if len(backends) == 0 {
		return nil, errNoBackends
	}
	for i, backend := range backends {
		if backend.Store == nil {
			return nil, fmt.Errorf("credential backend %d (%q) is nil", i, backend.Name)
		}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Store{backends: backends, logger: logger}, nil
}

// NewPassFirstWithFileFallback prefers the password-store and keeps the
// token file under fileRoot as a fallback.
func NewPassFirstWithFileFallback(logger *slog.Logger, passPrefix, fileRoot string) (*Store, error) {
	return NewStore(logger,
		Backend{Name: "pass", Store: passstore.NewStore(passPrefix)},
		Backend{Name: "file", Store: filestore.NewStore(fileRoot)},
	)
}

func (s *Store) Put(ctx context.Context, ref string, value string) error {
	var errs []error
	for _, backend := range s.backends {
		err := backend.Store.Put(ctx, ref, value)
		if err == nil {
			s.logger.InfoContext(ctx, "directory token stored", "ref", ref, "backend", backend.Name)
			return nil
		}
		if stopsChain(err) {
			return err
		}
		s.logger.WarnContext(ctx, "credential backend rejected token", "ref", ref, "backend", backend.Name, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", backend.Name, err))
	}

	return fmt.Errorf("store token %q: %w", ref, errors.Join(errs...))
}

func (s *Store) Get(ctx context.Context, ref string) (string, error) {
	var errs []error
	allMissing := true
	for _, backend := range s.backends {
		token, err := backend.Store.Get(ctx, ref)
		if err == nil {
			s.logger.DebugContext(ctx, "directory token resolved", "ref", ref, "backend", backend.Name)
			return token, nil
		}
		if stopsChain(err) {
			return "", err
		}
		if !errors.Is(err, credentials.ErrNotFound) {
			allMissing = false
			s.logger.WarnContext(ctx, "credential backend failed", "ref", ref, "backend", backend.Name, "error", err)
		}
		errs = append(errs, fmt.Errorf("%s: %w", backend.Name, err))
	}

	if allMissing {
		return "", fmt.Errorf("%w %q in any backend", credentials.ErrNotFound, ref)
	}
	return "", fmt.Errorf("load token %q: %w", ref, errors.Join(errs...))
}

func (s *Store) Delete(ctx context.Context, ref string) error {
	var errs []error
	cleared := 0
	for _, backend := range s.backends {
		err := backend.Store.Delete(ctx, ref)
		if err == nil {
			cleared++
			continue
		}
		if stopsChain(err) {
			return err
		}
		s.logger.WarnContext(ctx, "credential backend delete failed", "ref", ref, "backend", backend.Name, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", backend.Name, err))
	}

	// An unavailable backend cannot hold the token, so one cleared backend is
	// enough unless every backend failed.
	if cleared == 0 {
		return fmt.Errorf("delete token %q: %w", ref, errors.Join(errs...))
	}
	return nil
}

func stopsChain(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, credentials.ErrInvalidRef) ||
		errors.Is(err, credentials.ErrInvalidToken)
}
