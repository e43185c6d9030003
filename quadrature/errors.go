package quadrature

import (
	"errors"
	"fmt"
)

var ErrIllConditionedRecurrence = errors.New("ill-conditioned recurrence")

// RecurrenceError reports a Jacobi matrix that could not be diagonalized:
// an invalid recurrence coefficient or an exhausted QL iteration budget.
type RecurrenceError struct {
	Family string
	Index  int
	Reason string
}

func (e *RecurrenceError) Error() string {
	return fmt.Sprintf("%s: %s at index %d: %s", ErrIllConditionedRecurrence, e.Family, e.Index, e.Reason)
}

func (e *RecurrenceError) Unwrap() error { return ErrIllConditionedRecurrence }
