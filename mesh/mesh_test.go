package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countBoundary(m *Mesh) (n int, tags map[string]int) {
	tags = make(map[string]int)
	for k := range m.Faces {
		for _, f := range m.Faces[k] {
			if f.IsBoundary() {
				n++
				tags[f.BoundaryTag]++
			}
		}
	}
	return
}

func checkSymmetric(t *testing.T, m *Mesh) {
	for k := range m.Faces {
		for f, face := range m.Faces[k] {
			if face.IsBoundary() {
				continue
			}
			back := m.Faces[face.Neighbor][face.NeighborFace]
			assert.Equal(t, k, back.Neighbor)
			assert.Equal(t, f, back.NeighborFace)
		}
	}
}

func TestLine(t *testing.T) {
	m, err := Line(0, 2, 4, false)
	require.NoError(t, err)
	assert.Equal(t, 4, m.NumElements())
	assert.InDelta(t, 0.5, m.Vertices[1][0], 1.e-15)
	assert.Equal(t, 1, m.Faces[0][1].Neighbor)
	assert.Equal(t, 0, m.Faces[0][1].NeighborFace)
	assert.Equal(t, 1, m.Faces[1][0].NeighborFace)
	n, tags := countBoundary(m)
	assert.Equal(t, 2, n)
	assert.Equal(t, map[string]int{"left": 1, "right": 1}, tags)
	assert.Equal(t, []string{"left", "right"}, m.BoundaryTags())
	checkSymmetric(t, m)

	m, err = Line(0, 1, 3, true)
	require.NoError(t, err)
	n, _ = countBoundary(m)
	assert.Equal(t, 0, n)
	assert.Equal(t, 2, m.Faces[0][0].Neighbor)
	assert.Equal(t, 1, m.Faces[0][0].NeighborFace)
	checkSymmetric(t, m)

	_, err = Line(1, 0, 3, false)
	assert.Error(t, err)
	_, err = Line(0, 1, 1, true)
	assert.Error(t, err)
}

func TestRectangle(t *testing.T) {
	m, err := Rectangle(3, 2, [4]float64{0, 3, 0, 1}, false)
	require.NoError(t, err)
	assert.Equal(t, 12, m.NumElements())
	n, tags := countBoundary(m)
	assert.Equal(t, 10, n)
	assert.Equal(t, map[string]int{"left": 2, "right": 2, "bottom": 3, "top": 3}, tags)
	checkSymmetric(t, m)
	for k := range m.Elements {
		v := m.ElementVertices(k)
		area := (v[1][0]-v[0][0])*(v[2][1]-v[0][1]) - (v[2][0]-v[0][0])*(v[1][1]-v[0][1])
		assert.Greater(t, area, 0.)
	}

	m, err = Rectangle(3, 4, [4]float64{-1, 1, -1, 1}, true)
	require.NoError(t, err)
	n, _ = countBoundary(m)
	assert.Equal(t, 0, n)
	checkSymmetric(t, m)

	_, err = Rectangle(2, 4, [4]float64{-1, 1, -1, 1}, true)
	assert.Error(t, err)
}

func TestBox(t *testing.T) {
	m, err := Box(2, 1, 1, [6]float64{0, 2, 0, 1, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, 12, m.NumElements())
	for k := range m.Elements {
		assert.Greater(t, orientation(m.Vertices, m.Elements[k]), 0.)
	}
	n, tags := countBoundary(m)
	assert.Equal(t, 2*(2+2+2+2+1+1), n)
	assert.Equal(t, map[string]int{
		"xmin": 2, "xmax": 2, "ymin": 4, "ymax": 4, "zmin": 4, "zmax": 4,
	}, tags)
	checkSymmetric(t, m)
}

func TestParse(t *testing.T) {
	data := []byte(`
dimension: 2
vertices: [[0, 0], [1, 0], [1, 1], [0, 1]]
elements: [[0, 1, 2], [0, 2, 3]]
boundaries:
  inflow: [[3, 0]]
  outflow: [[1, 2]]
`)
	m, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Faces[0][2].Neighbor)
	assert.Equal(t, 0, m.Faces[1][0].Neighbor)
	_, tags := countBoundary(m)
	assert.Equal(t, map[string]int{"inflow": 1, "outflow": 1, DefaultBoundaryTag: 2}, tags)

	out, err := m.Marshal()
	require.NoError(t, err)
	m2, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, m.Faces, m2.Faces)

	_, err = Parse([]byte(`
dimension: 2
vertices: [[0, 0], [1, 0], [0, 1]]
elements: [[0, 1, 2]]
boundaries:
  inflow: [[0, 5]]
`))
	assert.Error(t, err)
}

func TestConnectErrors(t *testing.T) {
	m := &Mesh{
		Dim:      2,
		Vertices: [][]float64{{0, 0}, {1, 0}, {0, 1}, {0, -1}, {1, 1}},
		Elements: [][]int{{0, 1, 2}, {0, 3, 1}, {0, 1, 4}},
	}
	assert.Error(t, m.Connect())

	m = &Mesh{Dim: 2, Vertices: [][]float64{{0, 0}, {1, 0}}, Elements: [][]int{{0, 1, 2}}}
	assert.Error(t, m.Connect())

	m = &Mesh{Dim: 4}
	assert.Error(t, m.Connect())
}

func TestRetag(t *testing.T) {
	m, err := Rectangle(1, 1, [4]float64{0, 1, 0, 1}, false)
	require.NoError(t, err)
	require.NoError(t, m.Connect())
	_, tags := countBoundary(m)
	assert.Equal(t, map[string]int{"left": 1, "right": 1, "bottom": 1, "top": 1}, tags)
}
