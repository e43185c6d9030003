package utils

import (
	"math"
)

// POW avoids math.Pow for the small integer exponents that dominate the
// collapsed coordinate basis evaluation.
func POW(x float64, p int) (y float64) {
	if p > 8 || p < -8 {
		return math.Pow(x, float64(p))
	}
	var (
		n = p
	)
	if n < 0 {
		n = -n
	}
	y = 1
	for i := 0; i < n; i++ {
		y *= x
	}
	if p < 0 {
		y = 1. / y
	}
	return
}

// Binomial is n choose k.
func Binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	res := 1
	for i := 1; i <= k; i++ {
		res = res * (n - k + i) / i
	}
	return res
}

// NodeCount is the number of nodes of a degree N simplex in dim dimensions.
func NodeCount(dim, N int) int {
	return Binomial(N+dim, dim)
}

func Dot(a, b []float64) (sum float64) {
	for i := range a {
		sum += a[i] * b[i]
	}
	return
}

func Norm(a []float64) float64 {
	return math.Sqrt(Dot(a, a))
}
