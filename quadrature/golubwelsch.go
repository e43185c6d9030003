package quadrature

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/lapack"
	"gonum.org/v1/gonum/lapack/gonum"

	"github.com/notargets/simplexdg/utils"
)

// Rule is an n point Gauss rule, nodes ascending. It integrates
// polynomials of degree 2n-1 exactly against its weight.
type Rule struct {
	Nodes, Weights []float64
}

// Integrate sums w_i f(x_i).
func (r Rule) Integrate(f func(x float64) float64) (sum float64) {
	for i, x := range r.Nodes {
		sum += r.Weights[i] * f(x)
	}
	return
}

// Engine computes Gauss rules and caches them per (family, n). It is safe
// for concurrent use; returned rules must be treated as read only.
type Engine struct {
	rules *utils.Memo[Rule]
}

func NewEngine() *Engine {
	return &Engine{
		rules: utils.NewMemo[Rule](),
	}
}

var defaultEngine = NewEngine()

// Gauss uses the shared default engine.
func Gauss(family WeightFamily, n int) (Rule, error) {
	return defaultEngine.Rule(family, n)
}

func (e *Engine) Rule(family WeightFamily, n int) (Rule, error) {
	if n < 1 {
		return Rule{}, fmt.Errorf("quadrature rule needs at least one node, have %d", n)
	}
	key := fmt.Sprintf("%s/%d", family.Key(), n)
	return e.rules.Get(key, func() (Rule, error) {
		return GolubWelsch(family, n)
	})
}

// JacobiMatrix returns the diagonal and the off-diagonal of the symmetric
// tridiagonal matrix of the first n recurrence steps.
func JacobiMatrix(family WeightFamily, n int) (diag, offDiag []float64, err error) {
	diag = make([]float64, n)
	offDiag = make([]float64, n)
	for k := 0; k < n; k++ {
		var beta, gamma float64
		beta, gamma = family.Recurrence(k)
		if math.IsNaN(beta) || math.IsInf(beta, 0) {
			err = &RecurrenceError{Family: family.Key(), Index: k, Reason: "non finite beta"}
			return
		}
		diag[k] = beta
		if k == 0 {
			continue
		}
		if gamma < 0 || math.IsNaN(gamma) || math.IsInf(gamma, 0) {
			err = &RecurrenceError{Family: family.Key(), Index: k,
				Reason: fmt.Sprintf("gamma = %g is not a positive finite value", gamma)}
			return
		}
		offDiag[k-1] = math.Sqrt(gamma)
	}
	return
}

// GolubWelsch builds the Jacobi matrix of the family and diagonalizes it
// with the implicit QL/QR iteration of Dsteqr. The nodes are its
// eigenvalues and the weights are mu0 times the squared first components
// of the normalized eigenvectors.
func GolubWelsch(family WeightFamily, n int) (rule Rule, err error) {
	var (
		diag, offDiag []float64
		mu0           = family.Mass()
	)
	if mu0 <= 0 || math.IsNaN(mu0) || math.IsInf(mu0, 0) {
		err = &RecurrenceError{Family: family.Key(), Index: 0, Reason: fmt.Sprintf("mass %g", mu0)}
		return
	}
	if diag, offDiag, err = JacobiMatrix(family, n); err != nil {
		return
	}
	var (
		impl gonum.Implementation
		z    = make([]float64, n*n)
		work = make([]float64, max(1, 2*n-2))
	)
	if ok := impl.Dsteqr(lapack.EVTridiag, n, diag, offDiag, z, n, work); !ok {
		err = &RecurrenceError{Family: family.Key(), Index: n - 1,
			Reason: "implicit QL iteration did not converge"}
		return
	}
	// Dsteqr returns the eigenvalues ascending, z is row major with the
	// eigenvectors in its columns
	rule = Rule{
		Nodes:   diag,
		Weights: make([]float64, n),
	}
	for j := 0; j < n; j++ {
		rule.Weights[j] = mu0 * z[j] * z[j]
	}
	return
}
