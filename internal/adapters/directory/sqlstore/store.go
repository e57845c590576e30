package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bnema/loanflow/internal/domain"
	"github.com/bnema/loanflow/internal/ports"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

const schema = `
CREATE TABLE IF NOT EXISTS applicants (
	identity_number TEXT PRIMARY KEY,
	customer_id TEXT NOT NULL,
	name TEXT NOT NULL,
	employment_type TEXT NOT NULL,
	monthly_income BIGINT NOT NULL,
	credit_score INTEGER NOT NULL
)`

const selectByIdentity = `
SELECT identity_number, customer_id, name, employment_type, monthly_income, credit_score
FROM applicants
WHERE identity_number = ?`

const upsertApplicant = `
INSERT INTO applicants (identity_number, customer_id, name, employment_type, monthly_income, credit_score)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (identity_number) DO UPDATE SET
	customer_id = excluded.customer_id,
	name = excluded.name,
	employment_type = excluded.employment_type,
	monthly_income = excluded.monthly_income,
	credit_score = excluded.credit_score`

// Store looks applicants up in an "applicants" table over SQLite or
// Postgres.
type Store struct {
	db     *sql.DB
	driver string
}

var _ ports.ApplicantDirectory = (*Store)(nil)

func Open(driver, dsn string) (*Store, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported directory driver %q", driver)
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("directory dsn is empty")
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s directory: %w", driver, err)
	}

	return &Store{db: db, driver: driver}, nil
}

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create applicants table: %w", err)
	}

	return nil
}

// Seed inserts records, replacing rows with the same identity number.
func (s *Store) Seed(ctx context.Context, records []domain.ApplicantRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, s.rebind(upsertApplicant))
	if err != nil {
		return errors.Join(fmt.Errorf("prepare seed: %w", err), tx.Rollback())
	}
	defer stmt.Close()

	for _, record := range records {
		_, err := stmt.ExecContext(ctx,
			string(record.IdentityNumber),
			record.CustomerID,
			record.Name,
			string(record.EmploymentType),
			record.MonthlyIncome,
			record.CreditScore,
		)
		if err != nil {
			return errors.Join(fmt.Errorf("seed applicant %s: %w", record.IdentityNumber, err), tx.Rollback())
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}

	return nil
}

func (s *Store) FindByIdentity(ctx context.Context, id domain.IdentityNumber) (domain.ApplicantRecord, error) {
	var (
		record     domain.ApplicantRecord
		identity   string
		employment string
	)

	err := s.db.QueryRowContext(ctx, s.rebind(selectByIdentity), string(id)).Scan(
		&identity,
		&record.CustomerID,
		&record.Name,
		&employment,
		&record.MonthlyIncome,
		&record.CreditScore,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ApplicantRecord{}, fmt.Errorf("applicant %s: %w", id, domain.ErrApplicantNotFound)
	}
	if err != nil {
		return domain.ApplicantRecord{}, fmt.Errorf("query applicant %s: %w", id, err)
	}

	record.IdentityNumber = domain.IdentityNumber(identity)
	record.EmploymentType = domain.EmploymentType(employment)
	return record, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// rebind turns "?" placeholders into "$n" for Postgres.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}
