package domain

import (
	"errors"
	"fmt"
)

// ErrInvariantViolation is the sentinel behind InvariantViolation.
var ErrInvariantViolation = errors.New("invariant violation")

// InvariantViolation reports a state the simulation cannot continue from,
// such as a second purchase or gross pay below the mandatory deduction.
type InvariantViolation struct {
	Op     string
	Detail string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation in %s: %s", e.Op, e.Detail)
}

func (e *InvariantViolation) Unwrap() error { return ErrInvariantViolation }

// Violation builds an InvariantViolation with a formatted detail
func Violation(op, format string, args ...any) error {
	return &InvariantViolation{Op: op, Detail: fmt.Sprintf(format, args...)}
}
