package basis

import (
	"fmt"

	"github.com/notargets/simplexdg/utils"
)

// Modes lists the (i,j,k) orders of the orthonormal simplex modes of total
// degree <= N, in the column order of the Vandermonde matrices.
func Modes(dim, N int) (modes [][3]int) {
	switch dim {
	case 0:
		modes = [][3]int{{0, 0, 0}}
	case 1:
		for i := 0; i <= N; i++ {
			modes = append(modes, [3]int{i, 0, 0})
		}
	case 2:
		for i := 0; i <= N; i++ {
			for j := 0; j <= N-i; j++ {
				modes = append(modes, [3]int{i, j, 0})
			}
		}
	case 3:
		for i := 0; i <= N; i++ {
			for j := 0; j <= N-i; j++ {
				for k := 0; k <= N-i-j; k++ {
					modes = append(modes, [3]int{i, j, k})
				}
			}
		}
	}
	return
}

// Vandermonde returns V[i][j] = basis_j(node_i) for nodes R[ν][i] on the
// reference simplex of dimension len(R).
func Vandermonde(N int, R [][]float64) (V utils.Matrix, err error) {
	var (
		dim   = len(R)
		np    = numPoints(R)
		modes = Modes(dim, N)
	)
	if dim > 3 {
		err = fmt.Errorf("unsupported simplex dimension %d", dim)
		return
	}
	V = utils.NewMatrix(np, len(modes))
	var a, b, c []float64
	switch dim {
	case 2:
		a, b = RStoAB(R[0], R[1])
	case 3:
		a, b, c = RSTtoABC(R[0], R[1], R[2])
	}
	for col, m := range modes {
		var P []float64
		switch dim {
		case 0:
			P = []float64{1}
		case 1:
			P = JacobiP(R[0], 0, 0, m[0])
		case 2:
			P = Simplex2DP(a, b, m[0], m[1])
		case 3:
			P = Simplex3DP(a, b, c, m[0], m[1], m[2])
		}
		V.SetCol(col, P)
	}
	return
}

// GradVandermonde returns Vν[i][j] = ∂basis_j/∂r_ν (node_i), one matrix
// per reference direction.
func GradVandermonde(N int, R [][]float64) (Vr []utils.Matrix, err error) {
	var (
		dim   = len(R)
		np    = numPoints(R)
		modes = Modes(dim, N)
	)
	if dim > 3 {
		err = fmt.Errorf("unsupported simplex dimension %d", dim)
		return
	}
	Vr = make([]utils.Matrix, dim)
	for nu := range Vr {
		Vr[nu] = utils.NewMatrix(np, len(modes))
	}
	for col, m := range modes {
		switch dim {
		case 1:
			Vr[0].SetCol(col, GradJacobiP(R[0], 0, 0, m[0]))
		case 2:
			dr, ds := GradSimplex2DP(R[0], R[1], m[0], m[1])
			Vr[0].SetCol(col, dr)
			Vr[1].SetCol(col, ds)
		case 3:
			dr, ds, dt := GradSimplex3DP(R[0], R[1], R[2], m[0], m[1], m[2])
			Vr[0].SetCol(col, dr)
			Vr[1].SetCol(col, ds)
			Vr[2].SetCol(col, dt)
		}
	}
	return
}

func numPoints(R [][]float64) int {
	if len(R) == 0 {
		return 1
	}
	return len(R[0])
}
