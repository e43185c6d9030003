package quadrature

import (
	"errors"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestGaussGolden(t *testing.T) {
	type tcase struct {
		name    string
		family  WeightFamily
		n       int
		nodes   []float64
		weights []float64
	}
	s2 := math.Sqrt2
	tests := []tcase{
		{"legendre-1", Legendre{}, 1, []float64{0}, []float64{2}},
		{"legendre-2", Legendre{}, 2, []float64{-1 / math.Sqrt(3), 1 / math.Sqrt(3)}, []float64{1, 1}},
		{"legendre-3", Legendre{}, 3,
			[]float64{-math.Sqrt(0.6), 0, math.Sqrt(0.6)}, []float64{5. / 9., 8. / 9., 5. / 9.}},
		{"jacobi(0,0)-3", Jacobi{}, 3,
			[]float64{-math.Sqrt(0.6), 0, math.Sqrt(0.6)}, []float64{5. / 9., 8. / 9., 5. / 9.}},
		{"hermite-2", Hermite{}, 2,
			[]float64{-1 / s2, 1 / s2}, []float64{math.Sqrt(math.Pi) / 2, math.Sqrt(math.Pi) / 2}},
		{"laguerre-2", Laguerre{}, 2,
			[]float64{2 - s2, 2 + s2}, []float64{(2 + s2) / 4, (2 - s2) / 4}},
		{"chebyshev-3", Chebyshev{}, 3,
			[]float64{-math.Sqrt(3) / 2, 0, math.Sqrt(3) / 2}, []float64{math.Pi / 3, math.Pi / 3, math.Pi / 3}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rule, err := NewEngine().Rule(tc.family, tc.n)
			require.NoError(t, err)
			assert.InDeltaSlice(t, tc.nodes, rule.Nodes, 1.e-13)
			assert.InDeltaSlice(t, tc.weights, rule.Weights, 1.e-13)
		})
	}
}

func TestGaussExactness(t *testing.T) {
	// Jacobi moments: ∫(1-x)^a(1+x)^b x^k, checked against a high order
	// Legendre rule of the full integrand for integer a, b
	ref, err := Gauss(Legendre{}, 40)
	require.NoError(t, err)
	for _, ab := range [][2]float64{{0, 0}, {1, 0}, {2, 0}, {1, 1}, {3, 2}} {
		a, b := ab[0], ab[1]
		for n := 1; n <= 8; n++ {
			rule, err := Gauss(Jacobi{Alpha: a, Beta: b}, n)
			require.NoError(t, err)
			var sumW float64
			for _, w := range rule.Weights {
				assert.Greater(t, w, 0.)
				sumW += w
			}
			assert.InDelta(t, Jacobi{Alpha: a, Beta: b}.Mass(), sumW, 1.e-12)
			assert.True(t, sort.Float64sAreSorted(rule.Nodes))
			for k := 0; k <= 2*n-1; k++ {
				exact := ref.Integrate(func(x float64) float64 {
					return math.Pow(1-x, a) * math.Pow(1+x, b) * math.Pow(x, float64(k))
				})
				got := rule.Integrate(func(x float64) float64 { return math.Pow(x, float64(k)) })
				assert.InDelta(t, exact, got, 1.e-11, "alpha=%v beta=%v n=%d k=%d", a, b, n, k)
			}
		}
	}
}

func TestQLAgainstEigenSym(t *testing.T) {
	for _, fam := range []WeightFamily{Legendre{}, Jacobi{Alpha: 0.5, Beta: -0.3}, Hermite{}, Laguerre{Alpha: 1}} {
		for _, n := range []int{2, 5, 12, 25} {
			diag, off, err := JacobiMatrix(fam, n)
			require.NoError(t, err)
			sym := mat.NewSymDense(n, nil)
			for i := 0; i < n; i++ {
				sym.SetSym(i, i, diag[i])
				if i < n-1 {
					sym.SetSym(i, i+1, off[i])
				}
			}
			var es mat.EigenSym
			require.True(t, es.Factorize(sym, true))
			vals := es.Values(nil)
			var vecs mat.Dense
			es.VectorsTo(&vecs)
			rule, err := NewEngine().Rule(fam, n)
			require.NoError(t, err)
			scale := math.Max(math.Abs(vals[0]), math.Abs(vals[n-1]))
			for i := 0; i < n; i++ {
				assert.InDelta(t, vals[i], rule.Nodes[i], 1.e-12*math.Max(1, scale))
				z0 := vecs.At(0, i)
				assert.InDelta(t, fam.Mass()*z0*z0, rule.Weights[i], 1.e-11*fam.Mass())
			}
		}
	}
}

func TestIllConditionedRecurrence(t *testing.T) {
	bad := Custom{
		Name:  "negative",
		Beta:  []float64{0, 0, 0},
		Gamma: []float64{0, 0.5, -0.25},
		Mu0:   1,
	}
	_, err := NewEngine().Rule(bad, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIllConditionedRecurrence))
	var re *RecurrenceError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, 2, re.Index)

	_, err = NewEngine().Rule(Custom{Name: "nan", Beta: []float64{math.NaN(), 0}, Gamma: []float64{0, 1}, Mu0: 1}, 2)
	assert.ErrorIs(t, err, ErrIllConditionedRecurrence)
	_, err = NewEngine().Rule(Custom{Name: "inf", Beta: []float64{0, 0}, Gamma: []float64{0, math.Inf(1)}, Mu0: 1}, 2)
	assert.ErrorIs(t, err, ErrIllConditionedRecurrence)

	_, err = NewEngine().Rule(Custom{Name: "massless", Beta: []float64{0}}, 1)
	assert.ErrorIs(t, err, ErrIllConditionedRecurrence)

	_, err = NewEngine().Rule(Legendre{}, 0)
	assert.Error(t, err)
}

func TestGaussLobatto(t *testing.T) {
	x, err := GaussLobatto(0, 0, 4)
	require.NoError(t, err)
	s := math.Sqrt(3. / 7.)
	assert.InDeltaSlice(t, []float64{-1, -s, 0, s, 1}, x, 1.e-14)

	x, err = GaussLobatto(0, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, 1}, x)

	x, err = GaussLobatto(0, 0, 2)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-1, 0, 1}, x, 1.e-15)

	_, err = GaussLobatto(0, 0, 0)
	assert.Error(t, err)
}

func factorial(n int) float64 {
	f := 1.
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}

// exact integral of Π (x_i + 1)^p_i over the biunit simplex
func simplexMonomial(p []int) float64 {
	var (
		num   = 1.
		total int
	)
	for _, pi := range p {
		num *= factorial(pi)
		total += pi
	}
	d := len(p)
	return num * math.Pow(2, float64(total+d)) / factorial(total+d)
}

func TestSimplexCubature(t *testing.T) {
	eng := NewEngine()
	for dim := 1; dim <= 3; dim++ {
		for n := 1; n <= 5; n++ {
			cr, err := eng.Simplex(dim, n)
			require.NoError(t, err)
			deg := 2*n - 1
			var exps [][]int
			switch dim {
			case 1:
				for a := 0; a <= deg; a++ {
					exps = append(exps, []int{a})
				}
			case 2:
				for a := 0; a <= deg; a++ {
					for b := 0; a+b <= deg; b++ {
						exps = append(exps, []int{a, b})
					}
				}
			case 3:
				for a := 0; a <= deg; a++ {
					for b := 0; a+b <= deg; b++ {
						for c := 0; a+b+c <= deg; c++ {
							exps = append(exps, []int{a, b, c})
						}
					}
				}
			}
			for _, p := range exps {
				got := cr.Integrate(func(x []float64) float64 {
					v := 1.
					for i, pi := range p {
						v *= math.Pow(x[i]+1, float64(pi))
					}
					return v
				})
				assert.InDelta(t, simplexMonomial(p), got, 1.e-12, "dim=%d n=%d p=%v", dim, n, p)
			}
		}
	}
	cr, err := eng.Simplex(0, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, cr.Weights)
	_, err = eng.Simplex(4, 2)
	assert.Error(t, err)
}

func TestFamilyByName(t *testing.T) {
	f, err := FamilyByName("jacobi", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, Jacobi{Alpha: 1}, f)
	_, err = FamilyByName("jacobi", -1, 0)
	assert.Error(t, err)
	_, err = FamilyByName("unknown", 0, 0)
	assert.Error(t, err)
	assert.InDelta(t, 2., Jacobi{}.Mass(), 1.e-15)
	assert.InDelta(t, 4./3., Jacobi{Alpha: 1, Beta: 1}.Mass(), 1.e-14)
}
