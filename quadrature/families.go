package quadrature

import (
	"fmt"
	"math"
)

// WeightFamily describes a weight function through the three term recurrence
// of its monic orthogonal polynomials,
//
//	p_{n+1}(x) = (x - beta_n) p_n(x) - gamma_n p_{n-1}(x),
//
// and its total mass mu0 = ∫ w(x) dx.
type WeightFamily interface {
	Recurrence(n int) (beta, gamma float64)
	Mass() float64
	Key() string
}

type Legendre struct{}

func (Legendre) Recurrence(n int) (beta, gamma float64) {
	if n == 0 {
		return 0, 0
	}
	nf := float64(n)
	return 0, nf * nf / (4*nf*nf - 1)
}
func (Legendre) Mass() float64 { return 2 }
func (Legendre) Key() string   { return "legendre" }

// Jacobi weight (1-x)^Alpha (1+x)^Beta on [-1,1], Alpha, Beta > -1.
type Jacobi struct {
	Alpha, Beta float64
}

func (j Jacobi) Recurrence(n int) (beta, gamma float64) {
	var (
		a, b = j.Alpha, j.Beta
		ab   = a + b
		nf   = float64(n)
		h    = 2*nf + ab
	)
	if n == 0 {
		beta = (b - a) / (ab + 2)
	} else {
		beta = (b*b - a*a) / (h * (h + 2))
	}
	switch n {
	case 0:
		gamma = 0
	case 1:
		gamma = 4 * (1 + a) * (1 + b) / ((2 + ab) * (2 + ab) * (3 + ab))
	default:
		gamma = 4 * nf * (nf + a) * (nf + b) * (nf + ab) / (h * h * (h + 1) * (h - 1))
	}
	return
}

func (j Jacobi) Mass() float64 {
	var (
		a, b = j.Alpha, j.Beta
	)
	lg := func(x float64) float64 {
		v, _ := math.Lgamma(x)
		return v
	}
	return math.Exp((a+b+1)*math.Ln2 + lg(a+1) + lg(b+1) - lg(a+b+2))
}

func (j Jacobi) Key() string { return fmt.Sprintf("jacobi(%g,%g)", j.Alpha, j.Beta) }

// Chebyshev is the first kind weight 1/sqrt(1-x^2) on [-1,1].
type Chebyshev struct{}

func (Chebyshev) Recurrence(n int) (beta, gamma float64) {
	switch n {
	case 0:
		return 0, 0
	case 1:
		return 0, 0.5
	}
	return 0, 0.25
}
func (Chebyshev) Mass() float64 { return math.Pi }
func (Chebyshev) Key() string   { return "chebyshev" }

// Laguerre is the generalized weight x^Alpha exp(-x) on [0,inf).
type Laguerre struct {
	Alpha float64
}

func (l Laguerre) Recurrence(n int) (beta, gamma float64) {
	nf := float64(n)
	return 2*nf + l.Alpha + 1, nf * (nf + l.Alpha)
}
func (l Laguerre) Mass() float64 { return math.Gamma(l.Alpha + 1) }
func (l Laguerre) Key() string   { return fmt.Sprintf("laguerre(%g)", l.Alpha) }

// Hermite is the weight exp(-x^2) on the real line.
type Hermite struct{}

func (Hermite) Recurrence(n int) (beta, gamma float64) { return 0, float64(n) / 2 }
func (Hermite) Mass() float64                          { return math.Sqrt(math.Pi) }
func (Hermite) Key() string                            { return "hermite" }

// Custom carries caller supplied recurrence coefficients. Beta[n] and
// Gamma[n] hold beta_n and gamma_n; Gamma[0] is unused.
type Custom struct {
	Name        string
	Beta, Gamma []float64
	Mu0         float64
}

func (c Custom) Recurrence(n int) (beta, gamma float64) {
	if n < len(c.Beta) {
		beta = c.Beta[n]
	}
	if n < len(c.Gamma) {
		gamma = c.Gamma[n]
	}
	return
}
func (c Custom) Mass() float64 { return c.Mu0 }
func (c Custom) Key() string {
	return fmt.Sprintf("custom(%s,%v,%v,%g)", c.Name, c.Beta, c.Gamma, c.Mu0)
}

// FamilyByName maps a configuration name onto a weight family.
func FamilyByName(name string, alpha, beta float64) (WeightFamily, error) {
	switch name {
	case "legendre":
		return Legendre{}, nil
	case "jacobi":
		if alpha <= -1 || beta <= -1 {
			return nil, fmt.Errorf("jacobi weight requires alpha, beta > -1, have %g, %g", alpha, beta)
		}
		return Jacobi{Alpha: alpha, Beta: beta}, nil
	case "chebyshev":
		return Chebyshev{}, nil
	case "laguerre":
		if alpha <= -1 {
			return nil, fmt.Errorf("laguerre weight requires alpha > -1, have %g", alpha)
		}
		return Laguerre{Alpha: alpha}, nil
	case "hermite":
		return Hermite{}, nil
	}
	return nil, fmt.Errorf("unknown weight family %q", name)
}
