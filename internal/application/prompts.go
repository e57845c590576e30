package application

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bnema/loanflow/internal/adapters/extract"
	"github.com/bnema/loanflow/internal/domain"
)

const (
	openingPrompt = "Welcome! I can help you apply for a personal loan.\n" +
		"Tell me how much you need and for how long, for example \"5 lakhs for 3 years\"."

	loanExamplePrompt     = "Please tell me the loan amount and tenure together, for example \"5 lakhs for 3 years\" or \"750000 for 48 months\"."
	identityExamplePrompt = "Please send your full name, PAN and employment type (SALARIED or SELF_EMPLOYED) in one line, for example \"Priya Sharma, PAN ABCDE1234F, SALARIED\"."
)

var fieldLabels = map[string]string{
	extract.FieldPrincipal:      "loan amount",
	extract.FieldTenureMonths:   "tenure",
	extract.FieldName:           "full name",
	extract.FieldIdentityNumber: "PAN (5 letters, 4 digits, 1 letter)",
	extract.FieldEmploymentType: "employment type (SALARIED or SELF_EMPLOYED)",
}

func verificationPrompt(request domain.LoanRequest, band domain.RateBand, lowEMI, highEMI float64) string {
	return fmt.Sprintf(
		"Great! For %s over %s, your EMI would be roughly %s to %s at an indicative rate of %s.\n\n%s",
		domain.FormatRupees(request.Principal),
		formatTenure(request.TenureMonths),
		domain.FormatRupeesExact(lowEMI),
		domain.FormatRupeesExact(highEMI),
		band,
		identityExamplePrompt,
	)
}

func retryPrompt(stage domain.Stage, failure *extract.Failure, remaining int) string {
	var b strings.Builder
	if len(failure.Missing) > 0 {
		fmt.Fprintf(&b, "I could not find your %s. ", joinLabels(failure.Missing))
	}
	if len(failure.Malformed) > 0 {
		fmt.Fprintf(&b, "Your %s does not look right. ", joinLabels(failure.Malformed))
	}

	switch stage {
	case domain.StageIntake:
		b.WriteString(loanExamplePrompt)
	default:
		b.WriteString(identityExamplePrompt)
	}

	if remaining == 1 {
		b.WriteString(" This is your last attempt.")
	}

	return b.String()
}

func retriesExhaustedPrompt(maxAttempts int) string {
	return fmt.Sprintf("I could not understand your details after %d attempts, so this application has been closed. Please start a new application.", maxAttempts)
}

func directoryUnavailablePrompt() string {
	return "I could not reach our records system to verify you right now. Please send your details again in a moment."
}

func identityRejectedPrompt(reason domain.RejectionReason) string {
	switch reason {
	case domain.ReasonApplicantUnknown:
		return "I'm sorry, we could not find a customer record for that PAN, so we cannot continue this application. Please contact our support team."
	default:
		return "I'm sorry, the details you provided do not match our records, so we cannot continue this application. Please contact our support team."
	}
}

func decisionPrompt(applicant domain.Applicant, request domain.LoanRequest, decision domain.Decision, document *domain.DocumentHandle, minScore int) string {
	if !decision.Approved {
		return rejectionPrompt(decision, minScore)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Thank you %s, your details are verified.\n\n", firstName(applicant.Name))
	b.WriteString("Congratulations! Your loan has been approved.\n")
	fmt.Fprintf(&b, "Credit score: %d (risk grade %s)\n", decision.CreditScore, decision.RiskGrade)
	fmt.Fprintf(&b, "Approved amount: %s for %s\n", domain.FormatRupees(request.Principal), formatTenure(request.TenureMonths))
	fmt.Fprintf(&b, "Interest rate: %s%% per annum (base %s%%", formatRate(decision.Rate), formatRate(decision.Components.Base))
	if decision.Components.TenureAdjustment != 0 {
		fmt.Fprintf(&b, " + %s%% tenure adjustment", formatRate(decision.Components.TenureAdjustment))
	}
	b.WriteString(")\n")
	fmt.Fprintf(&b, "Monthly EMI: %s\n", domain.FormatRupeesExact(decision.EMI))
	if document != nil {
		fmt.Fprintf(&b, "\nYour sanction letter %s is ready and valid for %d days.", document.SanctionID, domain.SanctionValidityDays)
	}

	return b.String()
}

func rejectionPrompt(decision domain.Decision, minScore int) string {
	switch decision.Reason {
	case domain.ReasonCreditScoreBelowThreshold:
		return fmt.Sprintf("We regret that your loan could not be approved: your credit score of %d is below our minimum of %d.", decision.CreditScore, minScore)
	case domain.ReasonAffordabilityExceeded:
		return fmt.Sprintf("We regret that your loan could not be approved: the monthly EMI of %s would exceed half of your monthly income.", domain.FormatRupeesExact(decision.EMI))
	case domain.ReasonApplicantUnknown, domain.ReasonIdentityMismatch:
		return identityRejectedPrompt(decision.Reason)
	default:
		return "We regret that your loan could not be approved. Please contact our support team for more information."
	}
}

func joinLabels(fields []string) string {
	labels := make([]string, 0, len(fields))
	for _, field := range fields {
		if label, ok := fieldLabels[field]; ok {
			labels = append(labels, label)
			continue
		}
		labels = append(labels, field)
	}

	switch len(labels) {
	case 0:
		return ""
	case 1:
		return labels[0]
	default:
		return strings.Join(labels[:len(labels)-1], ", ") + " and " + labels[len(labels)-1]
	}
}

func firstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "there"
	}

	return fields[0]
}

func formatTenure(months int) string {
	if months%12 == 0 {
		years := months / 12
		if years == 1 {
			return "1 year"
		}
		return fmt.Sprintf("%d years", years)
	}
	if months == 1 {
		return "1 month"
	}

	return fmt.Sprintf("%d months", months)
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64)
}
