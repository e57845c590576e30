package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/bnema/loanflow/internal/domain"
)

var (
	tenurePattern = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(years?|yrs?|months?|mths?|mos?)\b`)
	amountPattern = regexp.MustCompile(`(?i)(\d[\d,]*(?:\.\d+)?)\s*(lakhs?|lacs?|crores?|cr|thousand|k|l)?\b`)
)

var magnitudes = map[string]float64{
	"lakh":     100_000,
	"lakhs":    100_000,
	"lac":      100_000,
	"lacs":     100_000,
	"l":        100_000,
	"crore":    10_000_000,
	"crores":   10_000_000,
	"cr":       10_000_000,
	"thousand": 1_000,
	"k":        1_000,
}

// LoanIntent pulls a principal and a tenure out of utterances such as
// "5 lakhs for 3 years" or "₹7,50,000 over 48 months".
func LoanIntent(text string) (domain.LoanRequest, error) {
	failure := &Failure{}
	remaining := text

	var tenureMonths int
	tenures := tenurePattern.FindAllStringSubmatch(remaining, -1)
	switch len(tenures) {
	case 0:
		failure.missing(FieldTenureMonths)
	case 1:
		months, ok := normalizeTenure(tenures[0][1], strings.ToLower(tenures[0][2]))
		if ok {
			tenureMonths = months
		} else {
			failure.malformed(FieldTenureMonths)
		}
	default:
		// "3 years and 2 months" is ambiguous; ask again instead of adding.
		failure.malformed(FieldTenureMonths)
	}
	remaining = tenurePattern.ReplaceAllString(remaining, " ")

	var principal int64
	if match := amountPattern.FindStringSubmatch(remaining); match != nil {
		amount, ok := normalizeAmount(match[1], strings.ToLower(match[2]))
		if ok {
			principal = amount
		} else {
			failure.malformed(FieldPrincipal)
		}
	} else {
		failure.missing(FieldPrincipal)
	}

	if !failure.empty() {
		return domain.LoanRequest{}, failure
	}

	return domain.LoanRequest{Principal: principal, TenureMonths: tenureMonths}, nil
}

func normalizeTenure(raw, unit string) (int, bool) {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	if strings.HasPrefix(unit, "y") {
		value *= 12
	}

	months, ok := wholeNumber(value)
	if !ok || months > domain.MaxTenureMonths {
		return 0, false
	}

	return months, true
}

func normalizeAmount(raw, unit string) (int64, bool) {
	digits := strings.ReplaceAll(raw, ",", "")
	digits = strings.TrimSuffix(digits, ".")
	value, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, false
	}
	if multiplier, ok := magnitudes[unit]; ok {
		value *= multiplier
	}

	amount, ok := wholeNumber(value)
	return int64(amount), ok
}

const maxWholeNumber = 1e13

// wholeNumber accepts only positive values that are integral after scaling.
func wholeNumber(value float64) (int, bool) {
	rounded := math.Round(value)
	if rounded <= 0 || rounded > maxWholeNumber || math.Abs(value-rounded) > 1e-6 {
		return 0, false
	}

	return int(rounded), true
}
