package mesh

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/james-bowman/sparse"

	"github.com/notargets/simplexdg/utils"
)

// DefaultBoundaryTag labels boundary faces no tag claims.
const DefaultBoundaryTag = "wall"

// Face is the adjacency record of one element face. Neighbor is -1 on the
// boundary. NodeIndices and Normal may be left empty and are then filled
// from the reference element and the element map.
type Face struct {
	Element, LocalFace     int
	Neighbor, NeighborFace int
	BoundaryTag            string
	NodeIndices            utils.Index
	Normal                 []float64
}

func (f Face) IsBoundary() bool { return f.Neighbor < 0 }

type Mesh struct {
	Dim      int
	Vertices [][]float64 // Vertices[v][μ]
	Elements [][]int     // Element to vertex, d+1 vertices each
	Faces    [][]Face    // Faces[k][f]
	// PeriodicVertices aliases a vertex to its periodic image for
	// connectivity only; geometry still uses the original coordinates.
	PeriodicVertices map[int]int
}

// FaceVertices lists the local vertices of each face in the face order of
// the reference element.
func FaceVertices(dim int) [][]int {
	switch dim {
	case 1:
		return [][]int{{0}, {1}}
	case 2:
		return [][]int{{0, 1}, {1, 2}, {0, 2}}
	case 3:
		return [][]int{{0, 1, 2}, {0, 1, 3}, {1, 2, 3}, {0, 2, 3}}
	}
	return nil
}

func (m *Mesh) NumElements() int { return len(m.Elements) }

func (m *Mesh) NumFaces() int { return m.Dim + 1 }

// ElementVertices returns the vertex coordinates of element k in local order.
func (m *Mesh) ElementVertices(k int) (v [][]float64) {
	for _, iv := range m.Elements[k] {
		v = append(v, m.Vertices[iv])
	}
	return
}

func (m *Mesh) Validate() error {
	if m.Dim < 1 || m.Dim > 3 {
		return fmt.Errorf("mesh dimension must be 1, 2 or 3, have %d", m.Dim)
	}
	for v, x := range m.Vertices {
		if len(x) != m.Dim {
			return fmt.Errorf("vertex %d has %d coordinates, mesh dimension is %d", v, len(x), m.Dim)
		}
	}
	for k, ev := range m.Elements {
		if len(ev) != m.Dim+1 {
			return fmt.Errorf("element %d has %d vertices, want %d", k, len(ev), m.Dim+1)
		}
		for _, iv := range ev {
			if iv < 0 || iv >= len(m.Vertices) {
				return fmt.Errorf("element %d references vertex %d of %d", k, iv, len(m.Vertices))
			}
		}
	}
	return nil
}

func (m *Mesh) canonical(v int) int {
	if c, ok := m.PeriodicVertices[v]; ok {
		return c
	}
	return v
}

// Connect fills Faces from the element to vertex table. Two faces are
// neighbors when they share all of their vertices, found from the sparse
// face to face product FToV FToVᵀ. Existing boundary tags are kept.
func (m *Mesh) Connect() (err error) {
	if err = m.Validate(); err != nil {
		return
	}
	var (
		K          = m.NumElements()
		NFaces     = m.NumFaces()
		fv         = FaceVertices(m.Dim)
		Nfv        = len(fv[0])
		Nv         = len(m.Vertices)
		TotalFaces = NFaces * K
		oldTags    = m.boundaryTags()
	)
	SpFToVTmp := sparse.NewDOK(TotalFaces, Nv)
	for k := 0; k < K; k++ {
		for f := 0; f < NFaces; f++ {
			for _, lv := range fv[f] {
				SpFToVTmp.Set(k*NFaces+f, m.canonical(m.Elements[k][lv]), 1)
			}
		}
	}
	SpFToV := SpFToVTmp.ToCSR()
	SpFToF := sparse.NewCSR(TotalFaces, TotalFaces, nil, nil, nil)
	SpFToF.Mul(SpFToV, SpFToV.T())

	m.Faces = make([][]Face, K)
	for k := range m.Faces {
		m.Faces[k] = make([]Face, NFaces)
		for f := range m.Faces[k] {
			m.Faces[k][f] = Face{
				Element: k, LocalFace: f,
				Neighbor: -1, NeighborFace: -1,
			}
		}
	}
	SpFToF.DoNonZero(func(i, j int, v float64) {
		if i == j || int(math.Round(v)) != Nfv || err != nil {
			return
		}
		k1, f1 := i/NFaces, i%NFaces
		k2, f2 := j/NFaces, j%NFaces
		face := &m.Faces[k1][f1]
		if face.Neighbor >= 0 && (face.Neighbor != k2 || face.NeighborFace != f2) {
			err = fmt.Errorf("non conforming mesh: face %d of element %d is shared by more than two elements",
				f1, k1)
			return
		}
		face.Neighbor, face.NeighborFace = k2, f2
	})
	if err != nil {
		return
	}
	for k := range m.Faces {
		for f := range m.Faces[k] {
			face := &m.Faces[k][f]
			if face.IsBoundary() {
				face.BoundaryTag = DefaultBoundaryTag
				if tag, ok := oldTags[m.faceKey(k, f)]; ok {
					face.BoundaryTag = tag
				}
			}
		}
	}
	return
}

func (m *Mesh) boundaryTags() (tags map[string]string) {
	tags = make(map[string]string)
	for k := range m.Faces {
		for f, face := range m.Faces[k] {
			if face.IsBoundary() && face.BoundaryTag != "" && k < len(m.Elements) {
				tags[m.faceKey(k, f)] = face.BoundaryTag
			}
		}
	}
	return
}

func (m *Mesh) faceKey(k, f int) string {
	var ids []int
	for _, lv := range FaceVertices(m.Dim)[f] {
		ids = append(ids, m.Elements[k][lv])
	}
	return vertexKey(ids)
}

func vertexKey(ids []int) string {
	s := append([]int{}, ids...)
	sort.Ints(s)
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// TagBoundary labels every boundary face whose vertices all satisfy on.
func (m *Mesh) TagBoundary(tag string, on func(x []float64) bool) (n int) {
	for k := range m.Faces {
		for f := range m.Faces[k] {
			face := &m.Faces[k][f]
			if !face.IsBoundary() {
				continue
			}
			all := true
			for _, lv := range FaceVertices(m.Dim)[f] {
				if !on(m.Vertices[m.Elements[k][lv]]) {
					all = false
					break
				}
			}
			if all {
				face.BoundaryTag = tag
				n++
			}
		}
	}
	return
}

// TagFaces labels the boundary faces given by their vertex lists.
func (m *Mesh) TagFaces(tag string, faces [][]int) error {
	want := make(map[string]bool, len(faces))
	for _, ids := range faces {
		want[vertexKey(ids)] = true
	}
	var found int
	for k := range m.Faces {
		for f := range m.Faces[k] {
			if m.Faces[k][f].IsBoundary() && want[m.faceKey(k, f)] {
				m.Faces[k][f].BoundaryTag = tag
				found++
			}
		}
	}
	if found != len(want) {
		return fmt.Errorf("boundary %q: %d of %d faces found on the mesh boundary", tag, found, len(want))
	}
	return nil
}

// BoundaryTags lists the distinct tags in use.
func (m *Mesh) BoundaryTags() (tags []string) {
	seen := make(map[string]bool)
	for k := range m.Faces {
		for _, face := range m.Faces[k] {
			if face.IsBoundary() && !seen[face.BoundaryTag] {
				seen[face.BoundaryTag] = true
				tags = append(tags, face.BoundaryTag)
			}
		}
	}
	sort.Strings(tags)
	return
}
