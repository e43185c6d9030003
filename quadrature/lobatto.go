package quadrature

import (
	"fmt"
)

// GaussLobatto returns the N+1 Gauss-Lobatto-Jacobi nodes on [-1,1]: the
// endpoints and the interior zeros of the derivative of P_N^(alpha,beta),
// which are the Gauss-Jacobi (alpha+1, beta+1) nodes.
func (e *Engine) GaussLobatto(alpha, beta float64, N int) (x []float64, err error) {
	switch {
	case N < 1:
		err = fmt.Errorf("Gauss-Lobatto nodes need N >= 1, have %d", N)
		return
	case N == 1:
		x = []float64{-1, 1}
		return
	}
	var rule Rule
	if rule, err = e.Rule(Jacobi{Alpha: alpha + 1, Beta: beta + 1}, N-1); err != nil {
		return
	}
	x = make([]float64, N+1)
	x[0], x[N] = -1, 1
	copy(x[1:N], rule.Nodes)
	return
}

// GaussLobatto uses the shared default engine.
func GaussLobatto(alpha, beta float64, N int) ([]float64, error) {
	return defaultEngine.GaussLobatto(alpha, beta, N)
}
