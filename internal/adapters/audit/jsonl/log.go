package jsonl

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bnema/loanflow/internal/domain"
	"github.com/bnema/loanflow/internal/ports"
	"github.com/spf13/viper"
)

const (
	dirKey      = "audit.dir"
	dataDirKey  = "data.dir"
	defaultDir  = "audit"
	fileExt     = ".jsonl"
	dirMode     = 0o700
	fileMode    = 0o600
)

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.Mutex{}
)

// Log writes one JSON line per record to {dir}/{session_id}.jsonl and syncs
// the file before Append returns.
type Log struct {
	dir  string
	open func(path string) (appendFile, error)
}

// appendFile is the part of *os.File that Append uses.
type appendFile interface {
	io.Writer
	Stat() (fs.FileInfo, error)
	Sync() error
	Truncate(size int64) error
	Close() error
}

func openAppendFile(path string) (appendFile, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, fileMode)
}

var _ ports.AuditLog = (*Log)(nil)

type recordSchema struct {
	Timestamp   time.Time      `json:"timestamp"`
	SessionID   string         `json:"session_id"`
	Sequence    int            `json:"sequence"`
	StageBefore string         `json:"stage_before"`
	StageAfter  string         `json:"stage_after"`
	Event       string         `json:"event"`
	Payload     map[string]any `json:"payload"`
}

func NewLog(cfg *viper.Viper) (*Log, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	dir := cfg.GetString(dirKey)
	if dir == "" {
		base := cfg.GetString(dataDirKey)
		if base == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("resolve home directory: %w", err)
			}
			base = filepath.Join(homeDir, ".loanflow")
		}
		dir = filepath.Join(base, defaultDir)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve audit directory: %w", err)
	}

	return &Log{dir: filepath.Clean(absDir), open: openAppendFile}, nil
}

func (l *Log) Dir() string {
	return l.dir
}

func (l *Log) Append(ctx context.Context, record domain.AuditRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := l.pathForSession(record.SessionID)
	if err != nil {
		return err
	}

	line, err := json.Marshal(toSchema(record))
	if err != nil {
		return fmt.Errorf("encode audit record: %w", err)
	}
	line = append(line, '\n')

	mu := lockForPath(path)
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(l.dir, dirMode); err != nil {
		return fmt.Errorf("create audit directory: %w", err)
	}

	file, err := l.open(path)
	if err != nil {
		return fmt.Errorf("open audit file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		return errors.Join(fmt.Errorf("stat audit file: %w", err), file.Close())
	}
	// A failed write is cut back to here so the trail never ends in a torn line.
	offset := info.Size()

	if _, err := file.Write(line); err != nil {
		return errors.Join(fmt.Errorf("write audit record: %w", err), rollback(file, offset), file.Close())
	}
	if err := file.Sync(); err != nil {
		return errors.Join(fmt.Errorf("sync audit file: %w", err), rollback(file, offset), file.Close())
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close audit file: %w", err)
	}

	return nil
}

func rollback(file appendFile, offset int64) error {
	if err := file.Truncate(offset); err != nil {
		return fmt.Errorf("truncate torn audit record: %w", err)
	}
	return nil
}

// Trail returns the records of a session in the order they were appended.
// JSON numbers in payloads come back as float64. An unterminated last line
// that does not decode is a write cut short by a crash and is skipped.
func (l *Log) Trail(ctx context.Context, id domain.SessionID) ([]domain.AuditRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := l.pathForSession(id)
	if err != nil {
		return nil, err
	}

	mu := lockForPath(path)
	mu.Lock()
	defer mu.Unlock()

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("audit trail %s: %w", id, domain.ErrSessionNotFound)
		}
		return nil, fmt.Errorf("open audit file: %w", err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)

	var records []domain.AuditRecord
	for lineNo := 1; ; lineNo++ {
		line, readErr := reader.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("read audit file: %w", readErr)
		}
		terminated := readErr == nil

		if len(strings.TrimSpace(string(line))) > 0 {
			var entry recordSchema
			if err := json.Unmarshal(line, &entry); err != nil {
				if !terminated {
					break
				}
				return nil, fmt.Errorf("decode audit line %d: %w", lineNo, err)
			}
			records = append(records, fromSchema(entry))
		}

		if !terminated {
			break
		}
	}

	return records, nil
}

// Sessions lists the ids that have a trail on disk.
func (l *Log) Sessions(ctx context.Context) ([]domain.SessionID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read audit directory: %w", err)
	}

	ids := make([]domain.SessionID, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		ids = append(ids, domain.SessionID(strings.TrimSuffix(name, fileExt)))
	}

	return ids, nil
}

func (l *Log) pathForSession(id domain.SessionID) (string, error) {
	trimmed := strings.TrimSpace(string(id))
	if trimmed == "" {
		return "", errors.New("session id is empty")
	}
	if trimmed != filepath.Base(trimmed) || trimmed == "." || trimmed == ".." {
		return "", fmt.Errorf("invalid session id %q", id)
	}

	return filepath.Join(l.dir, trimmed+fileExt), nil
}

func lockForPath(path string) *sync.Mutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.Mutex{}
	pathLockMap[path] = mu
	return mu
}

func toSchema(record domain.AuditRecord) recordSchema {
	payload := record.Payload
	if payload == nil {
		payload = map[string]any{}
	}

	return recordSchema{
		Timestamp:   record.Timestamp.UTC(),
		SessionID:   string(record.SessionID),
		Sequence:    record.Sequence,
		StageBefore: string(record.StageBefore),
		StageAfter:  string(record.StageAfter),
		Event:       string(record.Event),
		Payload:     payload,
	}
}

func fromSchema(entry recordSchema) domain.AuditRecord {
	return domain.AuditRecord{
		Timestamp:   entry.Timestamp,
		SessionID:   domain.SessionID(entry.SessionID),
		Sequence:    entry.Sequence,
		StageBefore: domain.Stage(entry.StageBefore),
		StageAfter:  domain.Stage(entry.StageAfter),
		Event:       domain.EventType(entry.Event),
		Payload:     entry.Payload,
	}
}
