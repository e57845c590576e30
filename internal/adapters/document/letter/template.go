package letter

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"github.com/bnema/loanflow/internal/domain"
)

const dateLayout = "02 January 2006"

var bodyTemplate = template.Must(template.New("letter").Funcs(template.FuncMap{
	"rupees":      domain.FormatRupees,
	"rupeesExact": domain.FormatRupeesExact,
	"date":        func(t time.Time) string { return t.Format(dateLayout) },
	"years": func(months int) int { return months / 12 },
}).Parse(`# Loan Sanction Letter

**Sanction ID:** {{ .Handle.SanctionID }}
**Date:** {{ date .Handle.IssuedAt }}
**Valid until:** {{ date .ValidUntil }}

Dear {{ .ApplicantName }},

We are pleased to inform you that your personal loan application has been **approved**. The loan details are below.

| | |
|---|---|
| Loan amount | {{ rupees .Principal }} |
| Interest rate | {{ .Rate }}% per annum |
| Tenure | {{ .TenureMonths }} months ({{ years .TenureMonths }} years) |
| Monthly EMI | {{ rupeesExact .EMI }} |
| Total interest | {{ rupeesExact .TotalInterest }} |
| Risk grade | {{ .RiskGrade }} |
| PAN | {{ .IdentityNumber }} |
| Employment | {{ .EmploymentType }} |

## Terms and conditions

1. This sanction is valid for {{ .ValidityDays }} days from the date of issue.
2. The loan is subject to submission of required documents and verification.
3. A processing fee of 1% of the loan amount (minimum ₹1,000) applies.
4. Prepayment within 12 months is charged at 2% of the outstanding principal.
5. Late payments are charged ₹500 per instance plus 2% per month on the overdue amount.
6. The bank may modify or withdraw this sanction at any time before disbursal.

Please contact our loan officer to proceed with documentation.

Sincerely,
Loan Origination Department
`))

type bodyData struct {
	domain.Document
	ValidityDays int
}

func renderBody(document domain.Document) (string, error) {
	var buf bytes.Buffer
	if err := bodyTemplate.Execute(&buf, bodyData{Document: document, ValidityDays: domain.SanctionValidityDays}); err != nil {
		return "", fmt.Errorf("render letter body: %w", err)
	}

	return buf.String(), nil
}
