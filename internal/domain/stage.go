package domain

import "fmt"

type Stage string

const (
	StageIntake       Stage = "INTAKE"
	StageVerification Stage = "VERIFICATION"
	StageUnderwriting Stage = "UNDERWRITING"
	StageCompleted    Stage = "COMPLETED"
	StageFailed       Stage = "FAILED"
)

// Rank orders the non-failed stages. FAILED ranks above everything so a
// history ending in FAILED is still non-decreasing.
func (s Stage) Rank() int {
	switch s {
	case StageIntake:
		return 1
	case StageVerification:
		return 2
	case StageUnderwriting:
		return 3
	case StageCompleted:
		return 4
	case StageFailed:
		return 5
	default:
		return 0
	}
}

func (s Stage) Valid() bool {
	return s.Rank() > 0
}

func (s Stage) Terminal() bool {
	return s == StageCompleted || s == StageFailed
}

// CanAdvanceTo reports whether next directly follows s. Staying in the same
// non-terminal stage is allowed so that retries can be recorded.
func (s Stage) CanAdvanceTo(next Stage) bool {
	if s.Terminal() || !next.Valid() {
		return false
	}
	if next == s || next == StageFailed {
		return true
	}

	return next.Rank() == s.Rank()+1
}

func (s Stage) validateAdvance(next Stage) error {
	if !s.CanAdvanceTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, next)
	}

	return nil
}
