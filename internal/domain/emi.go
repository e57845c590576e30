package domain

import (
	"fmt"
	"math"
)

const (
	MinInterestRate = 9.5
	MaxInterestRate = 18.0
)

type RateBand struct {
	Min float64
	Max float64
}

// ComputeEMI returns the equated monthly installment of an amortizing loan.
// The result is not rounded.
func ComputeEMI(principal int64, annualRatePercent float64, tenureMonths int) (float64, error) {
	if principal <= 0 || tenureMonths <= 0 || annualRatePercent < 0 || math.IsNaN(annualRatePercent) || math.IsInf(annualRatePercent, 0) {
		return 0, fmt.Errorf("%w: principal=%d rate=%v tenure=%d", ErrInvalidLoanParameters, principal, annualRatePercent, tenureMonths)
	}

	p := float64(principal)
	n := float64(tenureMonths)
	r := annualRatePercent / 1200
	if r == 0 {
		return p / n, nil
	}

	// 1 - (1+r)^-n stays in (0, 1] for any tenure.
	emi := p * r / -math.Expm1(-n*math.Log1p(r))
	if math.IsNaN(emi) || math.IsInf(emi, 0) {
		return 0, fmt.Errorf("%w: principal=%d rate=%v tenure=%d", ErrInvalidLoanParameters, principal, annualRatePercent, tenureMonths)
	}

	return emi, nil
}

func TotalInterest(emi float64, tenureMonths int, principal int64) float64 {
	return RoundCurrency(emi*float64(tenureMonths) - float64(principal))
}

// RoundCurrency rounds to two decimal places.
func RoundCurrency(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// ProposeRateBand returns the indicative band shown before underwriting. It
// never binds the final decision.
func ProposeRateBand(principal int64, tenureMonths int) (RateBand, error) {
	if err := (LoanRequest{Principal: principal, TenureMonths: tenureMonths}).Validate(); err != nil {
		return RateBand{}, err
	}

	var band RateBand
	switch {
	case principal < 300_000:
		band = RateBand{Min: 13.0, Max: 15.0}
	case principal <= 1_000_000:
		band = RateBand{Min: 11.5, Max: 14.0}
	default:
		band = RateBand{Min: 10.5, Max: 13.0}
	}

	return RateBand{Min: clampRate(band.Min), Max: clampRate(band.Max)}, nil
}

func clampRate(rate float64) float64 {
	return math.Max(MinInterestRate, math.Min(MaxInterestRate, rate))
}

func (b RateBand) String() string {
	return fmt.Sprintf("%.1f%% - %.1f%%", b.Min, b.Max)
}
