package flux

import (
	"fmt"
	"math"
	"strings"
)

// Family tags the PDE a Scheme discretizes.
type Family uint8

const (
	Advection Family = iota
	Wave
	Heat
)

func (f Family) String() string {
	switch f {
	case Advection:
		return "advection"
	case Wave:
		return "wave"
	case Heat:
		return "heat"
	}
	return fmt.Sprintf("Family(%d)", uint8(f))
}

func ParseFamily(name string) (Family, error) {
	switch strings.ToLower(name) {
	case "advection":
		return Advection, nil
	case "wave":
		return Wave, nil
	case "heat", "diffusion":
		return Heat, nil
	}
	return 0, fmt.Errorf("unknown PDE family %q", name)
}

// Scheme is a tagged variant over the supported conservation laws
// U_t + ∇·F(U) = 0:
//
//	Advection  U = u            F_μ = a_μ u                 upwind
//	Wave       U = (u, v_1..d)  u_t = c ∇·v, v_t = c ∇u     central
//	Heat       U = u            u_t = κ ∇·q, q = ∇u         central
//
// Only the fields of the tagged family are meaningful.
type Scheme struct {
	Family      Family
	Dim         int
	Advection   []float64
	Speed       float64
	Diffusivity float64
}

func NewAdvection(a []float64) Scheme {
	return Scheme{Family: Advection, Dim: len(a), Advection: a}
}

func NewWave(dim int, speed float64) Scheme {
	return Scheme{Family: Wave, Dim: dim, Speed: speed}
}

func NewHeat(dim int, diffusivity float64) Scheme {
	return Scheme{Family: Heat, Dim: dim, Diffusivity: diffusivity}
}

func (s Scheme) Validate() error {
	if s.Dim < 1 || s.Dim > 3 {
		return fmt.Errorf("%s scheme: dimension must be 1, 2 or 3, have %d", s.Family, s.Dim)
	}
	switch s.Family {
	case Advection:
		if len(s.Advection) != s.Dim {
			return fmt.Errorf("advection coefficient has %d components, dimension is %d",
				len(s.Advection), s.Dim)
		}
	case Wave:
		if s.Speed <= 0 {
			return fmt.Errorf("wave speed must be positive, have %g", s.Speed)
		}
	case Heat:
		if s.Diffusivity < 0 {
			return fmt.Errorf("diffusivity must be non negative, have %g", s.Diffusivity)
		}
	default:
		return fmt.Errorf("unknown PDE family %s", s.Family)
	}
	return nil
}

// NumFields is the number of time evolved fields.
func (s Scheme) NumFields() int {
	if s.Family == Wave {
		return 1 + s.Dim
	}
	return 1
}

// NumTraceFields is the length of the state vectors handed to the flux
// functions. Heat carries its auxiliary gradient after u.
func (s Scheme) NumTraceFields() int {
	if s.Family == Heat {
		return 1 + s.Dim
	}
	return s.NumFields()
}

// MaxSpeed bounds the characteristic speed for time step selection.
func (s Scheme) MaxSpeed() float64 {
	switch s.Family {
	case Advection:
		var a2 float64
		for _, a := range s.Advection {
			a2 += a * a
		}
		return math.Sqrt(a2)
	case Wave:
		return s.Speed
	}
	return 0
}

// Flux writes F_μ(U) for every evolved equation.
func (s Scheme) Flux(state []float64, mu int, out []float64) {
	switch s.Family {
	case Advection:
		out[0] = s.Advection[mu] * state[0]
	case Wave:
		out[0] = -s.Speed * state[1+mu]
		for nu := 0; nu < s.Dim; nu++ {
			out[1+nu] = 0
		}
		out[1+mu] = -s.Speed * state[0]
	case Heat:
		out[0] = -s.Diffusivity * state[1+mu]
	}
}

// NormalFlux writes F(U)·n.
func (s Scheme) NormalFlux(state, n, out []float64) {
	switch s.Family {
	case Advection:
		out[0] = dot(s.Advection, n) * state[0]
	case Wave:
		out[0] = -s.Speed * dot(state[1:], n)
		for nu := 0; nu < s.Dim; nu++ {
			out[1+nu] = -s.Speed * n[nu] * state[0]
		}
	case Heat:
		out[0] = -s.Diffusivity * dot(state[1:], n)
	}
}

// NumericalFlux writes the single valued normal flux (F·n)* from the
// interior (minus) and exterior (plus) traces.
func (s Scheme) NumericalFlux(minus, plus, n, out []float64) {
	switch s.Family {
	case Advection:
		an := dot(s.Advection, n)
		// a·n == 0 takes the plus side, the product is zero either way
		if an > 0 {
			out[0] = an * minus[0]
		} else {
			out[0] = an * plus[0]
		}
	case Wave:
		var vn float64
		for nu := 0; nu < s.Dim; nu++ {
			vn += 0.5 * (minus[1+nu] + plus[1+nu]) * n[nu]
		}
		out[0] = -s.Speed * vn
		uAvg := 0.5 * (minus[0] + plus[0])
		for nu := 0; nu < s.Dim; nu++ {
			out[1+nu] = -s.Speed * n[nu] * uAvg
		}
	case Heat:
		var qn float64
		for nu := 0; nu < s.Dim; nu++ {
			qn += 0.5 * (minus[1+nu] + plus[1+nu]) * n[nu]
		}
		out[0] = -s.Diffusivity * qn
	}
}

// GradientFlux is the flux of the auxiliary equations q_ν - ∂_ν u = 0
// written as q_ν + ∇·(-u e_ν) = 0, one entry per ν.
func (s Scheme) GradientFlux(u float64, mu int, out []float64) {
	for nu := 0; nu < s.Dim; nu++ {
		out[nu] = 0
	}
	out[mu] = -u
}

func (s Scheme) GradientNormalFlux(u float64, n, out []float64) {
	for nu := 0; nu < s.Dim; nu++ {
		out[nu] = -u * n[nu]
	}
}

// GradientNumericalFlux uses the central trace {u}.
func (s Scheme) GradientNumericalFlux(uMinus, uPlus float64, n, out []float64) {
	uAvg := 0.5 * (uMinus + uPlus)
	for nu := 0; nu < s.Dim; nu++ {
		out[nu] = -uAvg * n[nu]
	}
}

func dot(a, b []float64) (sum float64) {
	for i := range b {
		sum += a[i] * b[i]
	}
	return
}
