package letter

import (
	"fmt"
	"time"

	"github.com/bnema/loanflow/internal/domain"
)

const currentSchemaVersion = 1

type letterSchema struct {
	Version int             `toml:"version"`
	Letter  letterRecord    `toml:"letter"`
	Loan    loanRecord      `toml:"loan"`
	Holder  applicantRecord `toml:"applicant"`
}

type letterRecord struct {
	SessionID  string    `toml:"session_id"`
	SanctionID string    `toml:"sanction_id"`
	IssuedAt   time.Time `toml:"issued_at"`
	ValidUntil time.Time `toml:"valid_until"`
	BodyFile   string    `toml:"body_file"`
}

type loanRecord struct {
	Principal     int64   `toml:"principal"`
	TenureMonths  int     `toml:"tenure_months"`
	Rate          float64 `toml:"rate"`
	EMI           float64 `toml:"emi"`
	TotalInterest float64 `toml:"total_interest"`
	RiskGrade     string  `toml:"risk_grade"`
}

type applicantRecord struct {
	Name           string `toml:"name"`
	IdentityNumber string `toml:"identity_number"`
	EmploymentType string `toml:"employment_type"`
}

func (s letterSchema) validateVersion() error {
	if s.Version != currentSchemaVersion {
		return fmt.Errorf("unsupported letter schema version %d", s.Version)
	}

	return nil
}

func toSchema(document domain.Document, bodyFile string) letterSchema {
	return letterSchema{
		Version: currentSchemaVersion,
		Letter: letterRecord{
			SessionID:  string(document.Handle.SessionID),
			SanctionID: document.Handle.SanctionID,
			IssuedAt:   document.Handle.IssuedAt.UTC(),
			ValidUntil: document.ValidUntil.UTC(),
			BodyFile:   bodyFile,
		},
		Loan: loanRecord{
			Principal:     document.Principal,
			TenureMonths:  document.TenureMonths,
			Rate:          document.Rate,
			EMI:           document.EMI,
			TotalInterest: document.TotalInterest,
			RiskGrade:     document.RiskGrade,
		},
		Holder: applicantRecord{
			Name:           document.ApplicantName,
			IdentityNumber: string(document.IdentityNumber),
			EmploymentType: string(document.EmploymentType),
		},
	}
}

func fromSchema(file letterSchema, path string) domain.Document {
	return domain.Document{
		Handle: domain.DocumentHandle{
			SessionID:  domain.SessionID(file.Letter.SessionID),
			SanctionID: file.Letter.SanctionID,
			Path:       path,
			IssuedAt:   file.Letter.IssuedAt,
		},
		ApplicantName:  file.Holder.Name,
		IdentityNumber: domain.IdentityNumber(file.Holder.IdentityNumber),
		EmploymentType: domain.EmploymentType(file.Holder.EmploymentType),
		Principal:      file.Loan.Principal,
		TenureMonths:   file.Loan.TenureMonths,
		Rate:           file.Loan.Rate,
		EMI:            file.Loan.EMI,
		TotalInterest:  file.Loan.TotalInterest,
		RiskGrade:      file.Loan.RiskGrade,
		ValidUntil:     file.Letter.ValidUntil,
	}
}
