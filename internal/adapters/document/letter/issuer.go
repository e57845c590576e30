package letter

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bnema/loanflow/internal/domain"
	"github.com/bnema/loanflow/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	dirKey          = "letters.dir"
	dataDirKey      = "data.dir"
	defaultDir      = "letters"
	recordExt       = ".toml"
	bodyExt         = ".md"
	dirMode         = 0o700
	fileMode        = 0o600
	tempFilePattern = ".letter-*.tmp"
)

// Issuer writes sanction letters as a TOML record plus a Markdown body.
// Issuing twice for one session returns the first letter.
type Issuer struct {
	dir   string
	clock ports.Clock
	mu    sync.Mutex
}

var _ ports.DocumentIssuer = (*Issuer)(nil)

func NewIssuer(cfg *viper.Viper, clock ports.Clock) (*Issuer, error) {
	if cfg == nil {
		cfg = viper.New()
	}
	if clock == nil {
		clock = ports.SystemClock{}
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
		return nil, fmt.Errorf("resolve letters directory: %w", err)
	}

	return &Issuer{dir: filepath.Clean(absDir), clock: clock}, nil
}

func (i *Issuer) Issue(ctx context.Context, session domain.Session) (domain.DocumentHandle, error) {
	if err := ctx.Err(); err != nil {
		return domain.DocumentHandle{}, err
	}
	if session.Decision == nil || !session.Decision.Approved {
		return domain.DocumentHandle{}, fmt.Errorf("issue letter for %s: %w", session.ID, domain.ErrNotApproved)
	}
	if session.Applicant == nil || session.LoanRequest == nil {
		return domain.DocumentHandle{}, fmt.Errorf("issue letter for %s: missing applicant or loan request", session.ID)
	}

	recordPath, bodyPath, err := i.pathsForSession(session.ID)
	if err != nil {
		return domain.DocumentHandle{}, err
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	existing, err := readRecord(recordPath)
	switch {
	case err == nil:
		return existing.Handle, nil
	case !errors.Is(err, domain.ErrDocumentNotFound):
		return domain.DocumentHandle{}, err
	}

	issuedAt := i.clock.Now().UTC()
	document := domain.Document{
		Handle: domain.DocumentHandle{
			SessionID:  session.ID,
			SanctionID: SanctionID(session.ID, issuedAt),
			Path:       recordPath,
			IssuedAt:   issuedAt,
		},
		ApplicantName:  session.Applicant.Name,
		IdentityNumber: session.Applicant.IdentityNumber,
		EmploymentType: session.Applicant.EmploymentType,
		Principal:      session.LoanRequest.Principal,
		TenureMonths:   session.LoanRequest.TenureMonths,
		Rate:           session.Decision.Rate,
		EMI:            session.Decision.EMI,
		TotalInterest:  session.Decision.TotalInterest,
		RiskGrade:      session.Decision.RiskGrade,
		ValidUntil:     issuedAt.AddDate(0, 0, domain.SanctionValidityDays),
	}

	body, err := renderBody(document)
	if err != nil {
		return domain.DocumentHandle{}, err
	}

	if err := os.MkdirAll(i.dir, dirMode); err != nil {
		return domain.DocumentHandle{}, fmt.Errorf("create letters directory: %w", err)
	}
	if err := writeAtomic(bodyPath, []byte(body)); err != nil {
		return domain.DocumentHandle{}, fmt.Errorf("write letter body: %w", err)
	}

	data, err := toml.Marshal(toSchema(document, filepath.Base(bodyPath)))
	if err != nil {
		return domain.DocumentHandle{}, fmt.Errorf("encode letter record: %w", err)
	}
	// The record is written last; its presence marks the letter as issued.
	if err := writeAtomic(recordPath, data); err != nil {
		return domain.DocumentHandle{}, fmt.Errorf("write letter record: %w", err)
	}

	return document.Handle, nil
}

func (i *Issuer) Fetch(ctx context.Context, id domain.SessionID) (domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return domain.Document{}, err
	}

	recordPath, bodyPath, err := i.pathsForSession(id)
	if err != nil {
		return domain.Document{}, err
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	document, err := readRecord(recordPath)
	if err != nil {
		return domain.Document{}, err
	}

	body, err := os.ReadFile(bodyPath)
	if err != nil {
		return domain.Document{}, fmt.Errorf("read letter body: %w", err)
	}
	document.Body = string(body)

	return document, nil
}

// SanctionID is stable for a session: "SL", the issue date and a SHA-1
// prefix of the session id.
func SanctionID(id domain.SessionID, issuedAt time.Time) string {
	sum := sha1.Sum([]byte(id))
	return "SL" + issuedAt.UTC().Format("20060102") + strings.ToUpper(hex.EncodeToString(sum[:])[:6])
}

func (i *Issuer) pathsForSession(id domain.SessionID) (string, string, error) {
	trimmed := strings.TrimSpace(string(id))
	if trimmed == "" {
		return "", "", errors.New("session id is empty")
	}
	if trimmed != filepath.Base(trimmed) || trimmed == "." || trimmed == ".." {
		return "", "", fmt.Errorf("invalid session id %q", id)
	}

	base := filepath.Join(i.dir, trimmed)
	return base + recordExt, base + bodyExt, nil
}

func readRecord(path string) (domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Document{}, fmt.Errorf("letter %s: %w", filepath.Base(path), domain.ErrDocumentNotFound)
		}
		return domain.Document{}, fmt.Errorf("read letter record: %w", err)
	}

	var file letterSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return domain.Document{}, fmt.Errorf("decode letter record: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return domain.Document{}, err
	}

	return fromSchema(file, path), nil
}

func writeAtomic(path string, data []byte) error {
	tempFile, err := os.CreateTemp(filepath.Dir(path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := tempFile.Chmod(fileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("replace file: %w", err)
	}

	cleanup = false
	return nil
}
