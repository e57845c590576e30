package domain

import "fmt"

// MaxTenureMonths caps the repayment term at 40 years.
const MaxTenureMonths = 480

type LoanRequest struct {
	Principal    int64
	TenureMonths int
}

func (r LoanRequest) Validate() error {
	if r.Principal <= 0 {
		return fmt.Errorf("%w: principal must be positive, got %d", ErrInvalidLoanParameters, r.Principal)
	}
	if r.TenureMonths <= 0 {
		return fmt.Errorf("%w: tenure must be positive, got %d months", ErrInvalidLoanParameters, r.TenureMonths)
	}
	if r.TenureMonths > MaxTenureMonths {
		return fmt.Errorf("%w: tenure exceeds %d months, got %d", ErrInvalidLoanParameters, MaxTenureMonths, r.TenureMonths)
	}

	return nil
}
