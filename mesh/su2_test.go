package mesh

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Unit square split into four triangles around its center.
var squareSU2 = `%
% Problem dimension
%
NDIME= 2
%
% Inner element connectivity
%
NELEM= 4
5 0 1 4 0
5 1 2 4 1
5 2 3 4 2
5 3 0 4 3
%
% Node coordinates
%
NPOIN= 5
0.0 0.0 0
1.0 0.0 1
1.0 1.0 2
0.0 1.0 3
0.5 0.5 4
%
% Boundary elements
%
NMARK= 2
MARKER_TAG= bottom
MARKER_ELEMS= 1
3 0 1
MARKER_TAG= sides
MARKER_ELEMS= 3
3 1 2
3 2 3
3 3 0
`

func TestParseSU2(t *testing.T) {
	// list the last triangle clockwise
	in := strings.Replace(squareSU2, "5 3 0 4 3", "5 0 3 4 3", 1)
	m, err := ParseSU2(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 2, m.Dim)
	assert.Equal(t, 4, m.NumElements())
	assert.Equal(t, []float64{0.5, 0.5}, m.Vertices[4])
	for k := range m.Elements {
		assert.Greater(t, signedMeasure(m.Vertices, m.Elements[k]), 0.)
	}
	n, tags := countBoundary(m)
	assert.Equal(t, 4, n)
	assert.Equal(t, map[string]int{"bottom": 1, "sides": 3}, tags)
	checkSymmetric(t, m)
}

func TestParseSU2Tet(t *testing.T) {
	in := `NDIME= 3
NELEM= 1
10 0 1 2 3
NPOIN= 4
0 0 0
1 0 0
0 1 0
0 0 1
NMARK= 1
MARKER_TAG= floor
MARKER_ELEMS= 1
5 0 1 2
`
	m, err := ParseSU2(strings.NewReader(in))
	require.NoError(t, err)
	_, tags := countBoundary(m)
	assert.Equal(t, map[string]int{"floor": 1, DefaultBoundaryTag: 3}, tags)
}

func TestParseSU2Errors(t *testing.T) {
	tests := []struct {
		name, in string
	}{
		{"dimension", "NDIME= 4\n"},
		{"missing key", "NDIME= 2\nNPOIN= 3\n"},
		{"element type", "NDIME= 2\nNELEM= 1\n9 0 1 2 3\n"},
		{"truncated", "NDIME= 2\nNELEM= 2\n5 0 1 2\n"},
		{"vertex range", "NDIME= 2\nNELEM= 1\n5 0 1 7\nNPOIN= 3\n0 0\n1 0\n0 1\nNMARK= 0\n"},
		{"marker", strings.Replace(squareSU2, "3 0 1\n", "3 0 4\n", 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSU2(strings.NewReader(tt.in))
			assert.Error(t, err)
		})
	}
}

func TestReadSU2(t *testing.T) {
	path := filepath.Join(t.TempDir(), "square.su2")
	require.NoError(t, os.WriteFile(path, []byte(squareSU2), 0o644))
	m, err := ReadSU2(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"bottom", "sides"}, m.BoundaryTags())
	_, err = ReadSU2(filepath.Join(t.TempDir(), "missing.su2"))
	assert.Error(t, err)
}
