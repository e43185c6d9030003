package mesh

import (
	"fmt"
	"os"

	"github.com/ghodss/yaml"
)

// File is the on disk mesh format,
//
//	dimension: 2
//	vertices: [[0, 0], [1, 0], [0, 1]]
//	elements: [[0, 1, 2]]
//	boundaries:
//	  inflow: [[0, 2]]
//	periodic: {}
type File struct {
	Dimension  int                `json:"dimension"`
	Vertices   [][]float64        `json:"vertices"`
	Elements   [][]int            `json:"elements"`
	Boundaries map[string][][]int `json:"boundaries,omitempty"`
	Periodic   map[int]int        `json:"periodic,omitempty"`
}

// Parse builds and connects a mesh from its YAML (or JSON) description.
func Parse(data []byte) (m *Mesh, err error) {
	var f File
	if err = yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing mesh: %w", err)
	}
	m = &Mesh{
		Dim:              f.Dimension,
		Vertices:         f.Vertices,
		Elements:         f.Elements,
		PeriodicVertices: f.Periodic,
	}
	if err = m.Connect(); err != nil {
		return nil, err
	}
	for tag, faces := range f.Boundaries {
		if err = m.TagFaces(tag, faces); err != nil {
			return nil, err
		}
	}
	return
}

func ReadFile(path string) (m *Mesh, err error) {
	var data []byte
	if data, err = os.ReadFile(path); err != nil {
		return
	}
	return Parse(data)
}

// Marshal writes the mesh in the File format.
func (m *Mesh) Marshal() ([]byte, error) {
	f := File{
		Dimension:  m.Dim,
		Vertices:   m.Vertices,
		Elements:   m.Elements,
		Boundaries: make(map[string][][]int),
		Periodic:   m.PeriodicVertices,
	}
	fv := FaceVertices(m.Dim)
	for k := range m.Faces {
		for fi, face := range m.Faces[k] {
			if !face.IsBoundary() || face.BoundaryTag == DefaultBoundaryTag {
				continue
			}
			var ids []int
			for _, lv := range fv[fi] {
				ids = append(ids, m.Elements[k][lv])
			}
			f.Boundaries[face.BoundaryTag] = append(f.Boundaries[face.BoundaryTag], ids)
		}
	}
	return yaml.Marshal(f)
}
