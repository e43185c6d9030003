package flux

import (
	"fmt"
	"strings"
)

type BCKind uint8

const (
	Dirichlet BCKind = iota
	Neumann
)

func (k BCKind) String() string {
	switch k {
	case Dirichlet:
		return "dirichlet"
	case Neumann:
		return "neumann"
	}
	return fmt.Sprintf("BCKind(%d)", uint8(k))
}

func ParseBCKind(name string) (BCKind, error) {
	switch strings.ToLower(name) {
	case "dirichlet", "wall":
		return Dirichlet, nil
	case "neumann", "outflow":
		return Neumann, nil
	}
	return 0, fmt.Errorf("unknown boundary condition kind %q", name)
}

// BoundaryCondition prescribes u (Dirichlet) or ∂u/∂n (Neumann) on a
// tagged boundary.
type BoundaryCondition struct {
	Kind  BCKind
	Value float64
}

// BoundaryState writes the exterior trace used in place of a neighbor.
// Dirichlet data enter through the average of the traces, so the central
// schemes mirror the interior value about it.
func (s Scheme) BoundaryState(bc BoundaryCondition, minus, n, plus []float64) {
	copy(plus, minus)
	switch s.Family {
	case Advection:
		if bc.Kind == Dirichlet {
			plus[0] = bc.Value
		}
	case Wave:
		switch bc.Kind {
		case Dirichlet:
			plus[0] = 2*bc.Value - minus[0]
		case Neumann:
			vn := dot(minus[1:], n)
			for nu := 0; nu < s.Dim; nu++ {
				plus[1+nu] = minus[1+nu] - 2*vn*n[nu]
			}
		}
	case Heat:
		switch bc.Kind {
		case Dirichlet:
			plus[0] = 2*bc.Value - minus[0]
		case Neumann:
			if len(minus) > 1 {
				qn := dot(minus[1:], n)
				for nu := 0; nu < s.Dim; nu++ {
					plus[1+nu] = minus[1+nu] + 2*(bc.Value-qn)*n[nu]
				}
			}
		}
	}
}
