package ports

import (
	"context"

	"github.com/bnema/loanflow/internal/domain"
)

// ApplicantDirectory is a read-only lookup. A missing applicant is reported
// as domain.ErrApplicantNotFound.
type ApplicantDirectory interface {
	FindByIdentity(ctx context.Context, id domain.IdentityNumber) (domain.ApplicantRecord, error)
}
