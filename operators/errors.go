package operators

import (
	"errors"
	"fmt"
)

var (
	ErrNonSymmetricOperator = errors.New("non symmetric operator")
	ErrIndefiniteMass       = errors.New("mass matrix is not positive definite")
)

// OperatorError identifies the element and operator that failed the
// construction checks.
type OperatorError struct {
	Element   int
	Operator  string
	Asymmetry float64
	Err       error
}

func (e *OperatorError) Error() string {
	return fmt.Sprintf("%s: element %d, %s, relative asymmetry %.3g", e.Err, e.Element, e.Operator, e.Asymmetry)
}

func (e *OperatorError) Unwrap() error { return e.Err }
