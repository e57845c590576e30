// Package directory holds what the applicant directory adapters share: the
// built-in applicant table and the TOML seed format.
package directory

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bnema/loanflow/internal/domain"
	toml "github.com/pelletier/go-toml/v2"
)

type seedFile struct {
	Applicants []seedApplicant `toml:"applicants"`
}

type seedApplicant struct {
	CustomerID     string `toml:"customer_id"`
	IdentityNumber string `toml:"identity_number"`
	Name           string `toml:"name"`
	EmploymentType string `toml:"employment_type"`
	MonthlyIncome  int64  `toml:"monthly_income"`
	CreditScore    int    `toml:"credit_score"`
}

var defaultRecords = []domain.ApplicantRecord{
	{CustomerID: "CUST001", IdentityNumber: "ABCDE1234F", Name: "Rajesh Kumar", EmploymentType: domain.EmploymentSalaried, MonthlyIncome: 75000, CreditScore: 672},
	{CustomerID: "CUST002", IdentityNumber: "FGHIJ5678K", Name: "Priya Sharma", EmploymentType: domain.EmploymentSalaried, MonthlyIncome: 95000, CreditScore: 742},
	{CustomerID: "CUST003", IdentityNumber: "KLMNO9012P", Name: "Amit Patel", EmploymentType: domain.EmploymentSelfEmployed, MonthlyIncome: 120000, CreditScore: 788},
	{CustomerID: "CUST004", IdentityNumber: "QRSTU3456V", Name: "Sneha Reddy", EmploymentType: domain.EmploymentSalaried, MonthlyIncome: 55000, CreditScore: 672},
	{CustomerID: "CUST006", IdentityNumber: "BCDEF2345G", Name: "Anita Desai", EmploymentType: domain.EmploymentSalaried, MonthlyIncome: 45000, CreditScore: 672},
	{CustomerID: "CUST007", IdentityNumber: "GHIJK6789L", Name: "Karan Mehta", EmploymentType: domain.EmploymentSalaried, MonthlyIncome: 85000, CreditScore: 662},
	{CustomerID: "CUST008", IdentityNumber: "MNOPQ0123R", Name: "Deepa Iyer", EmploymentType: domain.EmploymentSelfEmployed, MonthlyIncome: 65000, CreditScore: 831},
	{CustomerID: "CUST009", IdentityNumber: "STUVW4567X", Name: "Rahul Gupta", EmploymentType: domain.EmploymentSalaried, MonthlyIncome: 110000, CreditScore: 765},
	{CustomerID: "CUST010", IdentityNumber: "YZABC8901D", Name: "Meera Nair", EmploymentType: domain.EmploymentSalaried, MonthlyIncome: 20000, CreditScore: 640},
}

// Defaults returns a copy of the built-in applicant table.
func Defaults() []domain.ApplicantRecord {
	return append([]domain.ApplicantRecord(nil), defaultRecords...)
}

// LoadSeed reads applicant records from a TOML file with one
// [[applicants]] table per record.
func LoadSeed(path string) ([]domain.ApplicantRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read directory seed: %w", err)
	}

	return ParseSeed(data)
}

func ParseSeed(data []byte) ([]domain.ApplicantRecord, error) {
	var file seedFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode directory seed: %w", err)
	}

	records := make([]domain.ApplicantRecord, 0, len(file.Applicants))
	seen := make(map[domain.IdentityNumber]struct{}, len(file.Applicants))
	var errs []error
	for i, entry := range file.Applicants {
		record, err := entry.toRecord()
		if err != nil {
			errs = append(errs, fmt.Errorf("applicant %d: %w", i+1, err))
			continue
		}
		if _, dup := seen[record.IdentityNumber]; dup {
			errs = append(errs, fmt.Errorf("applicant %d: duplicate identity number %s", i+1, record.IdentityNumber))
			continue
		}
		seen[record.IdentityNumber] = struct{}{}
		records = append(records, record)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid directory seed: %w", err)
	}

	return records, nil
}

func (a seedApplicant) toRecord() (domain.ApplicantRecord, error) {
	identity, err := domain.NormalizeIdentityNumber(a.IdentityNumber)
	if err != nil {
		return domain.ApplicantRecord{}, err
	}

	employment := domain.EmploymentType(strings.ToUpper(strings.TrimSpace(a.EmploymentType)))
	if !employment.Valid() {
		return domain.ApplicantRecord{}, fmt.Errorf("unknown employment type %q", a.EmploymentType)
	}
	if strings.TrimSpace(a.Name) == "" {
		return domain.ApplicantRecord{}, errors.New("name is empty")
	}
	if a.MonthlyIncome < 0 {
		return domain.ApplicantRecord{}, fmt.Errorf("negative monthly income %d", a.MonthlyIncome)
	}

	return domain.ApplicantRecord{
		CustomerID:     strings.TrimSpace(a.CustomerID),
		IdentityNumber: identity,
		Name:           strings.TrimSpace(a.Name),
		EmploymentType: employment,
		MonthlyIncome:  a.MonthlyIncome,
		CreditScore:    a.CreditScore,
	}, nil
}
