package domain

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

type IdentityNumber string

type EmploymentType string

const (
	EmploymentSalaried     EmploymentType = "SALARIED"
	EmploymentSelfEmployed EmploymentType = "SELF_EMPLOYED"
)

var identityPattern = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

// NormalizeIdentityNumber upper-cases raw and checks the 5 letters, 4 digits,
// 1 letter layout.
func NormalizeIdentityNumber(raw string) (IdentityNumber, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	if !identityPattern.MatchString(normalized) {
		return "", fmt.Errorf("malformed identity number %q", raw)
	}

	return IdentityNumber(normalized), nil
}

func (t EmploymentType) Valid() bool {
	switch t {
	case EmploymentSalaried, EmploymentSelfEmployed:
		return true
	default:
		return false
	}
}

// Applicant is what the applicant told us about themselves.
type Applicant struct {
	Name           string
	IdentityNumber IdentityNumber
	EmploymentType EmploymentType
}

// ApplicantRecord is what the directory knows about an applicant.
type ApplicantRecord struct {
	CustomerID     string
	IdentityNumber IdentityNumber
	Name           string
	EmploymentType EmploymentType
	MonthlyIncome  int64
	CreditScore    int
}

// Matches cross-checks a claimed identity against the directory record. Names
// match when the words of one appear as a run of whole words in the other,
// ignoring case.
func (r ApplicantRecord) Matches(a Applicant) bool {
	claimed := strings.Fields(strings.ToLower(a.Name))
	known := strings.Fields(strings.ToLower(r.Name))
	if len(claimed) == 0 || len(known) == 0 {
		return false
	}

	nameMatch := containsWords(known, claimed) || containsWords(claimed, known)
	return nameMatch && r.EmploymentType == a.EmploymentType
}

func containsWords(words, run []string) bool {
	for start := 0; start+len(run) <= len(words); start++ {
		if slices.Equal(words[start:start+len(run)], run) {
			return true
		}
	}

	return false
}
