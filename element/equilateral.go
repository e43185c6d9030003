package element

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ReferenceVertices are the vertices of the biunit reference simplex.
func ReferenceVertices(dim int) (v [][]float64) {
	switch dim {
	case 0:
		v = [][]float64{{}}
	case 1:
		v = [][]float64{{-1}, {1}}
	case 2:
		v = [][]float64{{-1, -1}, {1, -1}, {-1, 1}}
	case 3:
		v = [][]float64{{-1, -1, -1}, {1, -1, -1}, {-1, 1, -1}, {-1, -1, 1}}
	}
	return
}

// EquilateralVertices are the vertices of the equilateral simplex the warp
// and blend node construction works on, listed in the same order as
// ReferenceVertices.
func EquilateralVertices(dim int) (v [][]float64) {
	var (
		s3 = math.Sqrt(3)
		s6 = math.Sqrt(6)
	)
	switch dim {
	case 0:
		v = [][]float64{{}}
	case 1:
		v = [][]float64{{-1}, {1}}
	case 2:
		v = [][]float64{{-1, -1 / s3}, {1, -1 / s3}, {0, 2 / s3}}
	case 3:
		v = [][]float64{
			{-1, -1 / s3, -1 / s6},
			{1, -1 / s3, -1 / s6},
			{0, 2 / s3, -1 / s6},
			{0, 0, 3 / s6},
		}
	}
	return
}

// AffineCoefficients hold r = A x + B.
type AffineCoefficients struct {
	Dim int
	A   [][]float64
	B   []float64
}

// EquilateralMap solves for the affine map taking the equilateral simplex
// onto the reference simplex, vertex to vertex.
func EquilateralMap(dim int) (ac AffineCoefficients, err error) {
	if dim < 1 || dim > 3 {
		err = fmt.Errorf("equilateral map needs dimension 1, 2 or 3, have %d", dim)
		return
	}
	return SolveAffine(EquilateralVertices(dim), ReferenceVertices(dim))
}

// SolveAffine finds the affine map sending each from[v] onto to[v]. Both
// vertex lists hold dim+1 points in dim dimensions.
func SolveAffine(from, to [][]float64) (ac AffineCoefficients, err error) {
	var (
		nv  = len(from)
		dim = nv - 1
		X   = mat.NewDense(nv, nv, nil)
		Rhs = mat.NewDense(nv, dim, nil)
		C   mat.Dense
	)
	if len(to) != nv {
		err = fmt.Errorf("vertex count mismatch: %d and %d", nv, len(to))
		return
	}
	for v := 0; v < nv; v++ {
		for nu := 0; nu < dim; nu++ {
			X.Set(v, nu, from[v][nu])
			Rhs.Set(v, nu, to[v][nu])
		}
		X.Set(v, dim, 1)
	}
	if err = C.Solve(X, Rhs); err != nil {
		err = fmt.Errorf("degenerate simplex: %w", err)
		return
	}
	ac = AffineCoefficients{
		Dim: dim,
		A:   make([][]float64, dim),
		B:   make([]float64, dim),
	}
	for m := 0; m < dim; m++ {
		ac.A[m] = make([]float64, dim)
		for nu := 0; nu < dim; nu++ {
			ac.A[m][nu] = C.At(nu, m)
		}
		ac.B[m] = C.At(dim, m)
	}
	return
}

// Coefficients lists the map row by row followed by the offsets: in 2D
// (a, b, c, d, e, f) with r = a x + b y + e and s = c x + d y + f, in 3D
// (a..i) for the matrix and (j, k, l) for the offsets.
func (ac AffineCoefficients) Coefficients() (c []float64) {
	for _, row := range ac.A {
		c = append(c, row...)
	}
	return append(c, ac.B...)
}

func (ac AffineCoefficients) Apply(x []float64) (r []float64) {
	r = make([]float64, ac.Dim)
	for m := 0; m < ac.Dim; m++ {
		r[m] = ac.B[m]
		for nu := 0; nu < ac.Dim; nu++ {
			r[m] += ac.A[m][nu] * x[nu]
		}
	}
	return
}
