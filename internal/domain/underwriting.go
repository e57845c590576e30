package domain

import "math"

type RejectionReason string

const (
	ReasonCreditScoreBelowThreshold RejectionReason = "CREDIT_SCORE_BELOW_THRESHOLD"
	ReasonAffordabilityExceeded     RejectionReason = "AFFORDABILITY_EXCEEDED"
	ReasonApplicantUnknown          RejectionReason = "APPLICANT_UNKNOWN"
	ReasonIdentityMismatch          RejectionReason = "IDENTITY_MISMATCH"
	ReasonInvalidLoanRequest        RejectionReason = "INVALID_LOAN_REQUEST"
)

type RateStep struct {
	MinScore int
	Rate     float64
}

type RateComponents struct {
	Base             float64
	TenureAdjustment float64
}

type Decision struct {
	Approved      bool
	Reason        RejectionReason
	Rate          float64
	Components    RateComponents
	EMI           float64
	TotalInterest float64
	CreditScore   int
	RiskGrade     string
}

// RatePolicy is the underwriting policy table. Steps must be sorted by
// MinScore, highest first.
type RatePolicy struct {
	MinCreditScore    int
	MaxIncomeShare    float64
	Steps             []RateStep
	TenureFreeYears   int
	TenureStepPerYear float64
	FloorRate         float64
	CapRate           float64
}

var DefaultRatePolicy = RatePolicy{
	MinCreditScore: 700,
	MaxIncomeShare: 0.5,
	Steps: []RateStep{
		{MinScore: 850, Rate: 9.5},
		{MinScore: 800, Rate: 10.0},
		{MinScore: 750, Rate: 10.5},
		{MinScore: 700, Rate: 11.0},
		{MinScore: 650, Rate: 14.0},
		{MinScore: 0, Rate: 18.0},
	},
	TenureFreeYears:   3,
	TenureStepPerYear: 0.2,
	FloorRate:         MinInterestRate,
	CapRate:           MaxInterestRate,
}

// Decide applies DefaultRatePolicy.
func Decide(record ApplicantRecord, request LoanRequest) Decision {
	return DefaultRatePolicy.Decide(record, request)
}

// Decide evaluates the credit gate, then the affordability gate. The first
// failing gate is reported. The result depends only on the arguments.
func (p RatePolicy) Decide(record ApplicantRecord, request LoanRequest) Decision {
	decision := Decision{
		CreditScore: record.CreditScore,
		RiskGrade:   RiskGrade(record.CreditScore),
	}

	if record.CreditScore < p.MinCreditScore {
		decision.Reason = ReasonCreditScoreBelowThreshold
		return decision
	}

	components := p.RateComponents(record.CreditScore, request.TenureMonths)
	decision.Components = components
	decision.Rate = p.clamp(components.Base + components.TenureAdjustment)

	emi, err := ComputeEMI(request.Principal, decision.Rate, request.TenureMonths)
	if err != nil {
		decision.Reason = ReasonInvalidLoanRequest
		return decision
	}
	decision.EMI = RoundCurrency(emi)

	if emi > p.MaxIncomeShare*float64(record.MonthlyIncome) {
		decision.Reason = ReasonAffordabilityExceeded
		return decision
	}

	decision.Approved = true
	decision.TotalInterest = TotalInterest(decision.EMI, request.TenureMonths, request.Principal)
	return decision
}

func (p RatePolicy) RateComponents(creditScore, tenureMonths int) RateComponents {
	base := p.CapRate
	for _, step := range p.Steps {
		if creditScore >= step.MinScore {
			base = step.Rate
			break
		}
	}

	extraYears := float64(tenureMonths)/12 - float64(p.TenureFreeYears)
	adjustment := 0.0
	if extraYears > 0 {
		adjustment = round2(p.TenureStepPerYear * extraYears)
	}

	return RateComponents{Base: base, TenureAdjustment: adjustment}
}

func (p RatePolicy) clamp(rate float64) float64 {
	return round2(math.Max(p.FloorRate, math.Min(p.CapRate, rate)))
}

func RiskGrade(creditScore int) string {
	switch {
	case creditScore >= 750:
		return "A+"
	case creditScore >= 725:
		return "A"
	case creditScore >= 700:
		return "B+"
	case creditScore >= 675:
		return "B"
	default:
		return "C+"
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
