package extract

import (
	"fmt"
	"strings"
)

const (
	FieldPrincipal      = "principal"
	FieldTenureMonths   = "tenure_months"
	FieldName           = "name"
	FieldIdentityNumber = "identity_number"
	FieldEmploymentType = "employment_type"
)

// Failure reports why an utterance could not be turned into fields. Missing
// fields were not found at all; malformed fields were found but invalid.
type Failure struct {
	Missing   []string
	Malformed []string
}

func (f *Failure) Error() string {
	parts := make([]string, 0, 2)
	if len(f.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(f.Missing, ", "))
	}
	if len(f.Malformed) > 0 {
		parts = append(parts, "malformed "+strings.Join(f.Malformed, ", "))
	}

	return fmt.Sprintf("extraction failed: %s", strings.Join(parts, "; "))
}

func (f *Failure) missing(field string) {
	f.Missing = append(f.Missing, field)
}

func (f *Failure) malformed(field string) {
	f.Malformed = append(f.Malformed, field)
}

func (f *Failure) empty() bool {
	return len(f.Missing) == 0 && len(f.Malformed) == 0
}
