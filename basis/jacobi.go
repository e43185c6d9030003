package basis

import (
	"math"

	"github.com/notargets/simplexdg/quadrature"
)

// JacobiP evaluates the Jacobi polynomial of type (alpha,beta) > -1 and
// order N at points x, normalized to be orthonormal against
// (1-x)^alpha (1+x)^beta on [-1,1]. The three term recurrence is the same
// one that generates the Gauss-Jacobi rules.
func JacobiP(x []float64, alpha, beta float64, N int) (P []float64) {
	var (
		fam    = quadrature.Jacobi{Alpha: alpha, Beta: beta}
		Pold   = make([]float64, len(x))
		p0     = 1 / math.Sqrt(fam.Mass())
		aOld   float64
		b0, g1 = fam.Recurrence(0)
	)
	P = make([]float64, len(x))
	for i := range x {
		P[i] = p0
	}
	if N == 0 {
		return
	}
	_, g1 = fam.Recurrence(1)
	aNew := math.Sqrt(g1)
	for i, xi := range x {
		Pold[i] = P[i]
		P[i] = (xi - b0) * P[i] / aNew
	}
	aOld = aNew
	// x p_n = a_{n+1} p_{n+1} + b_n p_n + a_n p_{n-1}
	for n := 1; n < N; n++ {
		bn, _ := fam.Recurrence(n)
		_, gNext := fam.Recurrence(n + 1)
		aNew = math.Sqrt(gNext)
		for i, xi := range x {
			next := ((xi-bn)*P[i] - aOld*Pold[i]) / aNew
			Pold[i] = P[i]
			P[i] = next
		}
		aOld = aNew
	}
	return
}

// GradJacobiP is the derivative of the orthonormal JacobiP.
func GradJacobiP(x []float64, alpha, beta float64, N int) (dP []float64) {
	if N == 0 {
		return make([]float64, len(x))
	}
	dP = JacobiP(x, alpha+1, beta+1, N-1)
	fac := math.Sqrt(float64(N) * (float64(N) + alpha + beta + 1))
	for i := range dP {
		dP[i] *= fac
	}
	return
}
