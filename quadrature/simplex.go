package quadrature

import (
	"fmt"
)

// CubatureRule is a point set on the biunit reference simplex,
// Points[i] holding the coordinates (r[, s[, t]]) of point i.
type CubatureRule struct {
	Dim     int
	Points  [][]float64
	Weights []float64
}

func (c CubatureRule) Integrate(f func(p []float64) float64) (sum float64) {
	for i, p := range c.Points {
		sum += c.Weights[i] * f(p)
	}
	return
}

// Simplex builds a collapsed coordinate (Duffy) cubature on the reference
// simplex with n Gauss points per direction, exact for polynomials of total
// degree 2n-1. Dimension 0 is the single point rule.
//
//	1D: r in [-1,1]
//	2D: (-1,-1), (1,-1), (-1,1)
//	3D: (-1,-1,-1), (1,-1,-1), (-1,1,-1), (-1,-1,1)
func (e *Engine) Simplex(dim, n int) (cr CubatureRule, err error) {
	var ra, rb, rc Rule
	cr.Dim = dim
	switch dim {
	case 0:
		cr.Points = [][]float64{{}}
		cr.Weights = []float64{1}
		return
	case 1:
		if ra, err = e.Rule(Legendre{}, n); err != nil {
			return
		}
		for i, x := range ra.Nodes {
			cr.Points = append(cr.Points, []float64{x})
			cr.Weights = append(cr.Weights, ra.Weights[i])
		}
		return
	case 2:
		if ra, err = e.Rule(Legendre{}, n); err != nil {
			return
		}
		if rb, err = e.Rule(Jacobi{Alpha: 1}, n); err != nil {
			return
		}
		for j, b := range rb.Nodes {
			for i, a := range ra.Nodes {
				r := 0.5*(1+a)*(1-b) - 1
				cr.Points = append(cr.Points, []float64{r, b})
				cr.Weights = append(cr.Weights, 0.5*ra.Weights[i]*rb.Weights[j])
			}
		}
		return
	case 3:
		if ra, err = e.Rule(Legendre{}, n); err != nil {
			return
		}
		if rb, err = e.Rule(Jacobi{Alpha: 1}, n); err != nil {
			return
		}
		if rc, err = e.Rule(Jacobi{Alpha: 2}, n); err != nil {
			return
		}
		for k, c := range rc.Nodes {
			for j, b := range rb.Nodes {
				for i, a := range ra.Nodes {
					r := 0.25*(1+a)*(1-b)*(1-c) - 1
					s := 0.5*(1+b)*(1-c) - 1
					cr.Points = append(cr.Points, []float64{r, s, c})
					cr.Weights = append(cr.Weights, 0.125*ra.Weights[i]*rb.Weights[j]*rc.Weights[k])
				}
			}
		}
		return
	}
	err = fmt.Errorf("simplex cubature supports dimensions 0 to 3, have %d", dim)
	return
}

// Simplex uses the shared default engine.
func Simplex(dim, n int) (CubatureRule, error) {
	return defaultEngine.Simplex(dim, n)
}
