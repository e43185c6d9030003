package assembly

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/simplexdg/utils"
)

// Integral is ∫u over the mesh through the element mass matrices.
func (d *Discretization) Integral(u utils.Matrix) (sum float64) {
	for k, eo := range d.Ops {
		sum += floats.Sum(eo.M.MulVec(u.Col(k)))
	}
	return
}

// L1Norm integrates the nodal interpolant of |u|.
func (d *Discretization) L1Norm(u utils.Matrix) float64 {
	abs := u.Copy().Apply(math.Abs)
	return d.Integral(abs)
}

func (d *Discretization) L2Norm(u utils.Matrix) float64 {
	var sum float64
	for k, eo := range d.Ops {
		uk := u.Col(k)
		sum += utils.Dot(uk, eo.M.MulVec(uk))
	}
	return math.Sqrt(sum)
}

// LInfNorm is the largest nodal magnitude.
func (d *Discretization) LInfNorm(u utils.Matrix) float64 {
	return u.MaxAbs()
}
