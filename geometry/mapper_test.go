package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapperVertices(t *testing.T) {
	tests := []struct {
		name     string
		vertices [][]float64
		ref      [][]float64
		volume   float64
	}{
		{"line", [][]float64{{1}, {4}}, [][]float64{{-1, 1}}, 3},
		{"triangle", [][]float64{{0, 0}, {2, 0}, {0.5, 1}}, [][]float64{{-1, 1, -1}, {-1, -1, 1}}, 1},
		{"tetrahedron", [][]float64{{0, 0, 0}, {1, 0, 0}, {0, 2, 0}, {0, 0, 3}},
			[][]float64{{-1, 1, -1, -1}, {-1, -1, 1, -1}, {-1, -1, -1, 1}}, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := NewMapper(7, tc.vertices)
			require.NoError(t, err)
			X := m.Map(tc.ref)
			for v, x := range tc.vertices {
				for mu := range x {
					assert.InDelta(t, x[mu], X[mu][v], 1.e-14)
				}
				assert.InDeltaSlice(t, refPoint(tc.ref, v), m.Inverse(x), 1.e-14)
			}
			assert.InDelta(t, tc.volume, m.Volume(), 1.e-14)
			// J Jinv = I
			for a := 0; a < m.Dim; a++ {
				for b := 0; b < m.Dim; b++ {
					var sum float64
					for c := 0; c < m.Dim; c++ {
						sum += m.J[a][c] * m.Jinv[c][b]
					}
					exp := 0.
					if a == b {
						exp = 1
					}
					assert.InDelta(t, exp, sum, 1.e-14)
				}
			}
		})
	}
}

func TestInvertedElement(t *testing.T) {
	// clockwise triangle
	_, err := NewMapper(12, [][]float64{{0, 0}, {0, 1}, {1, 0}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvertedElement))
	var ie *InvertedElementError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, 12, ie.Element)
	assert.Less(t, ie.DetJ, 0.)

	// degenerate
	_, err = NewMapper(3, [][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}})
	assert.ErrorIs(t, err, ErrInvertedElement)

	_, err = NewMapper(0, [][]float64{{1}, {0}})
	assert.ErrorIs(t, err, ErrInvertedElement)

	_, err = NewMapper(0, [][]float64{{0, 0}, {1, 0}})
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvertedElement))
}

func TestFaceNormals(t *testing.T) {
	m, err := NewMapper(0, [][]float64{{0, 0}, {1, 0}, {0, 1}})
	require.NoError(t, err)
	n, sJ := m.FaceNormal([]float64{0, -1})
	assert.InDeltaSlice(t, []float64{0, -1}, n, 1.e-15)
	assert.InDelta(t, 0.5, sJ, 1.e-15)
	n, sJ = m.FaceNormal([]float64{1, 1})
	assert.InDeltaSlice(t, []float64{1 / math.Sqrt2, 1 / math.Sqrt2}, n, 1.e-15)
	assert.InDelta(t, math.Sqrt2/2, sJ, 1.e-15)
	assert.InDelta(t, math.Sqrt2, m.Diameter(), 1.e-15)
	assert.InDelta(t, 0.5/(1+math.Sqrt2/2), m.Inradius(), 1.e-15)

	m, err = NewMapper(0, [][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	require.NoError(t, err)
	n, sJ = m.FaceNormal([]float64{1, 1, 1})
	s3 := 1 / math.Sqrt(3)
	assert.InDeltaSlice(t, []float64{s3, s3, s3}, n, 1.e-15)
	assert.InDelta(t, math.Sqrt(3)/4, sJ, 1.e-15)
	n, sJ = m.FaceNormal([]float64{-1, 0, 0})
	assert.InDeltaSlice(t, []float64{-1, 0, 0}, n, 1.e-15)
	assert.InDelta(t, 0.25, sJ, 1.e-15)

	m, err = NewMapper(0, [][]float64{{2}, {5}})
	require.NoError(t, err)
	n, sJ = m.FaceNormal([]float64{-1})
	assert.Equal(t, []float64{-1}, n)
	assert.InDelta(t, 1, sJ, 1.e-15)
}

func refPoint(ref [][]float64, v int) (p []float64) {
	for nu := range ref {
		p = append(p, ref[nu][v])
	}
	return
}
