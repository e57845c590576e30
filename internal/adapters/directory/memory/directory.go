package memory

import (
	"context"
	"fmt"

	"github.com/bnema/loanflow/internal/domain"
	"github.com/bnema/loanflow/internal/ports"
)

// Directory is a read-only applicant table held in memory.
type Directory struct {
	records map[domain.IdentityNumber]domain.ApplicantRecord
}

var _ ports.ApplicantDirectory = (*Directory)(nil)

func New(records []domain.ApplicantRecord) *Directory {
	byID := make(map[domain.IdentityNumber]domain.ApplicantRecord, len(records))
	for _, record := range records {
		byID[record.IdentityNumber] = record
	}

	return &Directory{records: byID}
}

func (d *Directory) FindByIdentity(ctx context.Context, id domain.IdentityNumber) (domain.ApplicantRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.ApplicantRecord{}, err
	}

	record, ok := d.records[id]
	if !ok {
		return domain.ApplicantRecord{}, fmt.Errorf("applicant %s: %w", id, domain.ErrApplicantNotFound)
	}

	return record, nil
}

func (d *Directory) Len() int {
	return len(d.records)
}
