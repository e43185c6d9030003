package operators

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/simplexdg/element"
	"github.com/notargets/simplexdg/geometry"
	"github.com/notargets/simplexdg/quadrature"
	"github.com/notargets/simplexdg/utils"
)

var testVertices = map[int][][]float64{
	1: {{0.5}, {2}},
	2: {{0, 0}, {2, 0.3}, {0.4, 1.5}},
	3: {{0, 0, 0}, {1.2, 0.1, 0}, {0.2, 0.9, 0.1}, {0.1, 0.3, 1.4}},
}

func build(t *testing.T, dim, N int) (*element.ReferenceElement, *geometry.Mapper, *ElementOperators) {
	ref, err := element.Build(dim, N)
	require.NoError(t, err)
	m, err := geometry.NewMapper(0, testVertices[dim])
	require.NoError(t, err)
	eo, err := Assemble(ref, m)
	require.NoError(t, err)
	return ref, m, eo
}

func assertMatrixNear(t *testing.T, A, B utils.Matrix, tol float64, msg string) {
	t.Helper()
	nr, nc := A.Dims()
	scale := math.Max(1, A.MaxAbs())
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			if !assert.InDelta(t, A.At(i, j), B.At(i, j), tol*scale, "%s [%d,%d]", msg, i, j) {
				return
			}
		}
	}
}

func TestMassMatrix(t *testing.T) {
	for dim := 1; dim <= 3; dim++ {
		for _, N := range []int{0, 1, 3, 5} {
			_, m, eo := build(t, dim, N)
			assert.Equal(t, 0., eo.M.SymmetryError())
			assert.True(t, eo.M.IsPositiveDefinite())
			var vol float64
			for _, v := range eo.M.DataP() {
				vol += v
			}
			assert.InDelta(t, m.Volume(), vol, 1.e-12)
			// M Minv = I
			assertMatrixNear(t, utils.NewIdentity(eo.Np), eo.M.Mul(eo.Minv), 1.e-10, "M Minv")
			for _, face := range eo.Faces {
				assert.Equal(t, 0., face.MF.SymmetryError())
				assert.InDelta(t, 1, utils.Norm(face.Normal), 1.e-14)
			}
		}
	}
}

func TestFaceMassDefinite(t *testing.T) {
	for dim := 1; dim <= 3; dim++ {
		for N := 0; N <= 6; N++ {
			ref, _, eo := build(t, dim, N)
			for f, face := range eo.Faces {
				assert.True(t, face.MF.IsPositiveDefinite(), "dim=%d N=%d face=%d", dim, N, f)
				nfp, _ := face.MF.Dims()
				sym := mat.NewSymDense(nfp, nil)
				for i := 0; i < nfp; i++ {
					for j := i; j < nfp; j++ {
						sym.SetSym(i, j, face.MF.At(i, j))
					}
				}
				var es mat.EigenSym
				require.True(t, es.Factorize(sym, false))
				for _, lambda := range es.Values(nil) {
					assert.Greater(t, lambda, 0., "dim=%d N=%d face=%d", dim, N, f)
				}
				var area float64
				for _, v := range face.MF.DataP() {
					area += v
				}
				assert.InDelta(t, face.SJ*ref.Faces[f].Volume(), area, 1.e-12)
			}
		}
	}
}

func TestCubatureAgreement(t *testing.T) {
	engine := quadrature.NewEngine()
	for dim := 1; dim <= 3; dim++ {
		for _, N := range []int{1, 2, 4} {
			ref, m, eo := build(t, dim, N)
			cb, err := AssembleByCubature(ref, m, engine)
			require.NoError(t, err)
			assertMatrixNear(t, eo.M, cb.M, 1.e-11, "M")
			for mu := 0; mu < dim; mu++ {
				assertMatrixNear(t, eo.S[mu], cb.S[mu], 1.e-10, "S")
				// S = Mᵀ D
				assertMatrixNear(t, eo.S[mu], eo.M.Transpose().Mul(eo.D[mu]), 1.e-12, "MᵀD")
			}
			for f := range eo.Faces {
				assertMatrixNear(t, eo.Faces[f].MF, cb.MF[f], 1.e-11, "MF")
			}
		}
	}
}

func TestPhysicalDerivative(t *testing.T) {
	for dim := 1; dim <= 3; dim++ {
		ref, m, eo := build(t, dim, 3)
		X := m.Map(ref.R)
		for mu := 0; mu < dim; mu++ {
			for nu := 0; nu < dim; nu++ {
				// ∂x_ν/∂x_μ = δ
				d := eo.D[mu].MulVec(X[nu])
				exp := 0.
				if mu == nu {
					exp = 1
				}
				for i := range d {
					assert.InDelta(t, exp, d[i], 1.e-11)
				}
			}
			// ∂(x_μ²)/∂x_μ = 2 x_μ
			sq := make([]float64, ref.Np)
			for i := range sq {
				sq[i] = X[mu][i] * X[mu][i]
			}
			d := eo.D[mu].MulVec(sq)
			for i := range d {
				assert.InDelta(t, 2*X[mu][i], d[i], 1.e-10)
			}
		}
	}
}

func TestIntegrationByParts(t *testing.T) {
	// S + Sᵀ = Σ_f n_f MF_f, the identity behind weak/strong equivalence
	for dim := 1; dim <= 3; dim++ {
		for _, N := range []int{0, 1, 2, 4} {
			_, _, eo := build(t, dim, N)
			for mu := 0; mu < dim; mu++ {
				lhs := eo.S[mu].Copy().Add(eo.S[mu].Transpose())
				rhs := utils.NewMatrix(eo.Np, eo.Np)
				for f, face := range eo.Faces {
					rhs.Add(eo.Padded(f).Scale(face.Normal[mu]))
				}
				assertMatrixNear(t, lhs, rhs, 1.e-11, "S+Sᵀ")
			}
		}
	}
}

func TestPaddedAndLift(t *testing.T) {
	ref, _, eo := build(t, 2, 3)
	for f, face := range eo.Faces {
		P := eo.Padded(f)
		for i := 0; i < eo.Np; i++ {
			if face.Fmask.Contains(i) {
				continue
			}
			for j := 0; j < eo.Np; j++ {
				assert.Equal(t, 0., P.At(i, j))
				assert.Equal(t, 0., P.At(j, i))
			}
		}
		// LIFT applied to a face vector matches Minv Padded
		g := make([]float64, ref.Nfp)
		full := make([]float64, eo.Np)
		lifted := make([]float64, ref.NFaces*ref.Nfp)
		for l := range g {
			g[l] = float64(l + 1)
			full[face.Fmask[l]] = g[l]
			lifted[f*ref.Nfp+l] = g[l]
		}
		exp := eo.Minv.Mul(P).MulVec(full)
		got := eo.LIFT.MulVec(lifted)
		assert.InDeltaSlice(t, exp, got, 1.e-10)
	}
	assert.Panics(t, func() { eo.M.Set(0, 0, 1) })
}

func TestAssembleErrors(t *testing.T) {
	ref, err := element.Build(2, 2)
	require.NoError(t, err)
	m, err := geometry.NewMapper(4, testVertices[2])
	require.NoError(t, err)

	_, err = Assemble(ref, m, WithSymmetryTolerance(-1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNonSymmetricOperator))
	var oe *OperatorError
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, 4, oe.Element)

	m3, err := geometry.NewMapper(0, testVertices[3])
	require.NoError(t, err)
	_, err = Assemble(ref, m3)
	assert.Error(t, err)
}
