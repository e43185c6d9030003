package element

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEquilateralMapCoefficients(t *testing.T) {
	s3, s6 := math.Sqrt(3), math.Sqrt(6)
	ac, err := EquilateralMap(2)
	require.NoError(t, err)
	// a, b, c, d, e, f
	assert.InDeltaSlice(t, []float64{1, -1 / s3, 0, 2 / s3, -1. / 3., -1. / 3.}, ac.Coefficients(), 1.e-14)

	ac, err = EquilateralMap(3)
	require.NoError(t, err)
	// a .. l
	assert.InDeltaSlice(t, []float64{
		1, -s3 / 3, -s6 / 6,
		0, 2 * s3 / 3, -s6 / 6,
		0, 0, s6 / 2,
		-0.5, -0.5, -0.5,
	}, ac.Coefficients(), 1.e-14)

	for dim := 1; dim <= 3; dim++ {
		ac, err := EquilateralMap(dim)
		require.NoError(t, err)
		ref := ReferenceVertices(dim)
		for v, x := range EquilateralVertices(dim) {
			assert.InDeltaSlice(t, ref[v], ac.Apply(x), 1.e-14)
		}
	}
	_, err = EquilateralMap(4)
	assert.Error(t, err)
	_, err = SolveAffine([][]float64{{0, 0}, {1, 1}, {2, 2}}, ReferenceVertices(2))
	assert.Error(t, err)
}

func TestNodes(t *testing.T) {
	x, err := Nodes(1, 2)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-1, 0, 1}, x[0], 1.e-15)

	R, err := Nodes(2, 1)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-1, 1, -1}, R[0], 1.e-14)
	assert.InDeltaSlice(t, []float64{-1, -1, 1}, R[1], 1.e-14)

	R, err = Nodes(3, 1)
	require.NoError(t, err)
	eq := EquiNodes(3, 1)
	for nu := 0; nu < 3; nu++ {
		assert.InDeltaSlice(t, eq[nu], R[nu], 1.e-14)
	}

	R, err = Nodes(2, 0)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-1. / 3.}, R[0], 1.e-15)

	for dim := 1; dim <= 3; dim++ {
		for N := 1; N <= 7; N++ {
			R, err := Nodes(dim, N)
			require.NoError(t, err)
			for i := range R[0] {
				var sum float64
				for nu := 0; nu < dim; nu++ {
					assert.GreaterOrEqual(t, R[nu][i], -1-1.e-12)
					sum += R[nu][i]
				}
				assert.LessOrEqual(t, sum, 2-float64(dim)+1.e-12)
			}
		}
	}
	_, err = Nodes(2, -1)
	assert.Error(t, err)
}

func TestBuildReferenceElement(t *testing.T) {
	for dim := 1; dim <= 3; dim++ {
		for N := 0; N <= 6; N++ {
			re, err := Build(dim, N)
			require.NoError(t, err, "dim=%d N=%d", dim, N)
			require.Equal(t, factorialInt(N+dim)/(factorialInt(N)*factorialInt(dim)), re.Np)
			assert.Equal(t, dim+1, re.NFaces)
			assert.Less(t, re.Cond, 1.e8)

			// V V⁻¹ = I
			I := re.V.Mul(re.Vinv)
			for i := 0; i < re.Np; i++ {
				for j := 0; j < re.Np; j++ {
					exp := 0.
					if i == j {
						exp = 1
					}
					assert.InDelta(t, exp, I.At(i, j), 1.e-10)
				}
			}
			// constants integrate to the reference volume
			var vol float64
			for i := 0; i < re.Np; i++ {
				for j := 0; j < re.Np; j++ {
					vol += re.M.At(i, j)
				}
			}
			assert.InDelta(t, re.Volume(), vol, 1.e-11)
			assert.True(t, re.M.IsPositiveDefinite())
			assert.Less(t, re.M.SymmetryError(), 1.e-12)

			for f := 0; f < re.NFaces; f++ {
				assert.Len(t, re.Fmask[f], re.Nfp)
				face := re.Faces[f]
				assert.Equal(t, dim-1, face.Dim)
				var area float64
				for i := 0; i < face.Np; i++ {
					for j := 0; j < face.Np; j++ {
						area += face.M.At(i, j)
					}
				}
				assert.InDelta(t, face.Volume(), area, 1.e-11)
			}
		}
	}
}

func TestDifferentiationExact(t *testing.T) {
	// monomials of total degree <= N are differentiated exactly
	for dim := 1; dim <= 3; dim++ {
		N := 5
		re, err := Build(dim, N)
		require.NoError(t, err)
		exps := [][3]int{{N, 0, 0}, {2, 1, 0}, {1, 2, 2}, {0, 3, 1}, {1, 1, 1}}
		for _, e := range exps {
			if dim < 3 && e[2] != 0 || dim < 2 && e[1] != 0 || e[0]+e[1]+e[2] > N {
				continue
			}
			f := make([]float64, re.Np)
			for i := 0; i < re.Np; i++ {
				f[i] = monomial(re.Node(i), e)
			}
			for nu := 0; nu < dim; nu++ {
				df := re.Dr[nu].MulVec(f)
				for i := 0; i < re.Np; i++ {
					p := re.Node(i)
					exp := 0.
					if e[nu] > 0 {
						de := e
						de[nu]--
						exp = float64(e[nu]) * monomial(p, de)
					}
					assert.InDelta(t, exp, df[i], 1.e-9, "dim=%d exps=%v dir=%d", dim, e, nu)
				}
			}
		}
	}
}

func TestFaceNodes(t *testing.T) {
	re, err := Build(3, 3)
	require.NoError(t, err)
	for f, fm := range re.Fmask {
		def := faceDefs(3)[f]
		for _, i := range fm {
			assert.InDelta(t, 0, def.onFace(re.Node(i)), 1.e-7)
		}
	}
	assert.Equal(t, []float64{1, 1, 1}, re.FaceNormals[2])

	re, err = Build(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, re.Fmask[0][0])
	assert.Equal(t, 0, re.Faces[1].Dim)
	assert.InDelta(t, 1, re.Faces[1].M.At(0, 0), 1.e-15)
}

func TestSingularVandermonde(t *testing.T) {
	// two coincident nodes
	R := [][]float64{{-1, 0, 0, 1}}
	_, err := BuildWithNodes(1, 3, R)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSingularVandermonde))
	var ve *VandermondeError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, 3, ve.N)

	// collinear points on the bottom edge of the triangle
	R = [][]float64{{-1, 0, 1}, {-1, -1, -1}}
	_, err = BuildWithNodes(2, 1, R)
	assert.ErrorIs(t, err, ErrSingularVandermonde)

	// (1,1) is outside the triangle
	R = [][]float64{{-1, 0, 1}, {-1, 0, 1}}
	_, err = BuildWithNodes(2, 1, R)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSingularVandermonde)
	assert.ErrorContains(t, err, "outside")
	_, err = BuildWithNodes(3, 1, [][]float64{{-1, 1, -1, -1}, {-1, -1, 1, -1}, {-1, -1, -1, 1.5}})
	assert.ErrorContains(t, err, "outside")
	_, err = BuildWithNodes(1, 1, [][]float64{{-1.5, 1}})
	assert.ErrorContains(t, err, "outside")

	// a strict tolerance rejects a valid set
	_, err = Build(2, 4, WithTolerance(0.5))
	assert.ErrorIs(t, err, ErrSingularVandermonde)

	_, err = BuildWithNodes(1, 3, [][]float64{{-1, 0, 1}})
	assert.Error(t, err)
	_, err = Build(4, 1)
	assert.Error(t, err)
}

func TestCache(t *testing.T) {
	c := NewCache()
	var (
		wg  sync.WaitGroup
		got = make([]*ReferenceElement, 8)
	)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			re, err := c.Get(2, 3)
			assert.NoError(t, err)
			got[i] = re
		}(i)
	}
	wg.Wait()
	for _, re := range got {
		assert.Same(t, got[0], re)
	}
	assert.Equal(t, 1, c.Len())
	assert.Panics(t, func() { got[0].M.Set(0, 0, 1) })
}

func monomial(p []float64, e [3]int) float64 {
	v := 1.
	for nu, x := range p {
		v *= math.Pow(x, float64(e[nu]))
	}
	return v
}

func factorialInt(n int) int {
	f := 1
	for i := 2; i <= n; i++ {
		f *= i
	}
	return f
}
