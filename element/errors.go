package element

import (
	"errors"
	"fmt"
)

var ErrSingularVandermonde = errors.New("singular Vandermonde matrix")

// VandermondeError reports a node set whose Vandermonde matrix is too close
// to singular: its reciprocal condition number is below the tolerance.
type VandermondeError struct {
	Dim, N     int
	RCond, Tol float64
}

func (e *VandermondeError) Error() string {
	return fmt.Sprintf("%s: dim %d degree %d, reciprocal condition %.3g below %.3g",
		ErrSingularVandermonde, e.Dim, e.N, e.RCond, e.Tol)
}

func (e *VandermondeError) Unwrap() error { return ErrSingularVandermonde }
