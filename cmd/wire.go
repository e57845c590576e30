package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/bnema/loanflow/internal/adapters/audit/jsonl"
	credchain "github.com/bnema/loanflow/internal/adapters/credentials/chain"
	credfile "github.com/bnema/loanflow/internal/adapters/credentials/file"
	credpass "github.com/bnema/loanflow/internal/adapters/credentials/pass"
	"github.com/bnema/loanflow/internal/adapters/directory"
	memorydirectory "github.com/bnema/loanflow/internal/adapters/directory/memory"
	"github.com/bnema/loanflow/internal/adapters/directory/remote"
	"github.com/bnema/loanflow/internal/adapters/directory/sqlstore"
	"github.com/bnema/loanflow/internal/adapters/document/letter"
	chatrender "github.com/bnema/loanflow/internal/adapters/render/chat"
	memoryrepo "github.com/bnema/loanflow/internal/adapters/repo/memory"
	"github.com/bnema/loanflow/internal/application"
	"github.com/bnema/loanflow/internal/domain"
	"github.com/bnema/loanflow/internal/ports"
)

const (
	credentialsBackendFile     = "file"
	credentialsBackendPass     = "pass"
	credentialsBackendPassFile = "pass-file"
)

const (
	directoryDriverMemory   = "memory"
	directoryDriverSQLite   = "sqlite"
	directoryDriverPostgres = "postgres"
	directoryDriverRemote   = "remote"
)

type app struct {
	cfg          *viper.Viper
	logger       *slog.Logger
	orchestrator *application.Orchestrator
	audit        *jsonl.Log
	issuer       *letter.Issuer
	directory    ports.ApplicantDirectory
	credentials  ports.CredentialStore
	renderReply  func(application.Reply) (string, error)
	renderTrail  func(domain.SessionID, []domain.AuditRecord) (string, error)
	renderStatus func(domain.Session) (string, error)
	closers      []func() error
	now          func() time.Time
}

func wireApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}

	clock := ports.SystemClock{}

	auditLog, err := jsonl.NewLog(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire audit log: %w", err)
	}

	issuer, err := letter.NewIssuer(cfg, clock)
	if err != nil {
		return nil, fmt.Errorf("wire letter issuer: %w", err)
	}

	credentials, err := wireCredentials(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("wire credential store: %w", err)
	}

	applicants, closeDirectory, err := wireDirectory(cfg, credentials)
	if err != nil {
		return nil, fmt.Errorf("wire applicant directory: %w", err)
	}

	orchestrator := application.NewOrchestrator(
		memoryrepo.NewSessionStore(),
		applicants,
		auditLog,
		issuer,
		clock,
		application.OrchestratorConfig{
			MaxAttempts:   cfg.GetInt("session.max_attempts"),
			LookupTimeout: cfg.GetDuration("directory.timeout"),
			Logger:        logger,
		},
	)

	a := &app{
		cfg:          cfg,
		logger:       logger,
		orchestrator: orchestrator,
		audit:        auditLog,
		issuer:       issuer,
		directory:    applicants,
		credentials:  credentials,
		renderReply:  chatrender.RenderReply,
		renderTrail:  chatrender.RenderTrail,
		renderStatus: chatrender.RenderSession,
		now:          time.Now,
	}
	if closeDirectory != nil {
		a.closers = append(a.closers, closeDirectory)
	}

	return a, nil
}

func (a *app) close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.logger.Warn("close resource", "error", err)
		}
	}
	a.closers = nil
}

func wireCredentials(cfg *viper.Viper, logger *slog.Logger) (ports.CredentialStore, error) {
	dir := cfg.GetString("credentials.dir")
	prefix := cfg.GetString("credentials.pass_prefix")

	switch backend := cfg.GetString("credentials.backend"); backend {
	case "", credentialsBackendFile:
		return credfile.NewStore(dir), nil
	case credentialsBackendPass:
		return credpass.NewStore(prefix), nil
	case credentialsBackendPassFile:
		return credchain.NewPassFirstWithFileFallback(logger, prefix, dir)
	default:
		return nil, fmt.Errorf("unsupported credentials.backend %q", backend)
	}
}

// wireDirectory picks the applicant directory named by directory.driver.
func wireDirectory(cfg *viper.Viper, credentials ports.CredentialStore) (ports.ApplicantDirectory, func() error, error) {
	switch driver := cfg.GetString("directory.driver"); driver {
	case "", directoryDriverMemory:
		records, err := seedRecords(cfg)
		if err != nil {
			return nil, nil, err
		}
		return memorydirectory.New(records), nil, nil
	case directoryDriverSQLite, directoryDriverPostgres:
		store, err := openSQLDirectory(cfg)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case directoryDriverRemote:
		baseURL := cfg.GetString("directory.url")
		if baseURL == "" {
			return nil, nil, fmt.Errorf("directory.url is required for the %s driver", driver)
		}
		return remote.Client{
			BaseURL:        baseURL,
			HTTPClient:     http.DefaultClient,
			RequestTimeout: cfg.GetDuration("directory.timeout"),
			Credentials:    credentials,
			TokenRef:       cfg.GetString("directory.token_ref"),
		}, nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported directory.driver %q", driver)
	}
}

func seedRecords(cfg *viper.Viper) ([]domain.ApplicantRecord, error) {
	path := cfg.GetString("directory.seed")
	if path == "" {
		return directory.Defaults(), nil
	}

	records, err := directory.LoadSeed(path)
	if err != nil {
		return nil, fmt.Errorf("load directory seed: %w", err)
	}
	return records, nil
}

func openSQLDirectory(cfg *viper.Viper) (*sqlstore.Store, error) {
	switch driver := cfg.GetString("directory.driver"); driver {
	case directoryDriverSQLite:
		dsn := cfg.GetString("directory.dsn")
		if dsn == "" {
			dataDir := cfg.GetString("data.dir")
			if err := os.MkdirAll(dataDir, 0o700); err != nil {
				return nil, fmt.Errorf("create data directory: %w", err)
			}
			dsn = filepath.Join(dataDir, "directory.db")
		}
		return sqlstore.Open(sqlstore.DriverSQLite, dsn)
	case directoryDriverPostgres:
		return sqlstore.Open(sqlstore.DriverPostgres, cfg.GetString("directory.dsn"))
	default:
		return nil, fmt.Errorf("directory.driver %q is not a SQL driver", driver)
	}
}

// migrateDirectory creates the applicants table and loads the seed records.
func migrateDirectory(ctx context.Context, cfg *viper.Viper) (int, error) {
	store, err := openSQLDirectory(cfg)
	if err != nil {
		return 0, err
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return 0, err
	}

	records, err := seedRecords(cfg)
	if err != nil {
		return 0, err
	}
	if err := store.Seed(ctx, records); err != nil {
		return 0, err
	}

	return len(records), nil
}
