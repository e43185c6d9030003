package geometry

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvertedElement = errors.New("inverted element")

// InvertedElementError carries the index of the element whose affine map
// has a non positive Jacobian determinant.
type InvertedElementError struct {
	Element int
	DetJ    float64
}

func (e *InvertedElementError) Error() string {
	return fmt.Sprintf("%s: element %d has Jacobian determinant %g", ErrInvertedElement, e.Element, e.DetJ)
}

func (e *InvertedElementError) Unwrap() error { return ErrInvertedElement }

// Mapper is the affine map from the biunit reference simplex onto one
// physical element,
//
//	x = v0 + J (r + 1),   J[μ][ν] = ∂x_μ/∂r_ν = (v_{ν+1} - v0)_μ / 2
//
// so the reference vertices map onto the physical vertices in order.
type Mapper struct {
	Element  int
	Dim      int
	Vertices [][]float64
	J, Jinv  [][]float64 // Jinv[ν][μ] = ∂r_ν/∂x_μ
	DetJ     float64
}

func NewMapper(element int, vertices [][]float64) (m *Mapper, err error) {
	var (
		dim = len(vertices) - 1
	)
	if dim < 1 || dim > 3 {
		err = fmt.Errorf("element %d: a simplex needs 2 to 4 vertices, have %d", element, len(vertices))
		return
	}
	for v, x := range vertices {
		if len(x) != dim {
			err = fmt.Errorf("element %d: vertex %d has %d coordinates, want %d", element, v, len(x), dim)
			return
		}
	}
	m = &Mapper{
		Element:  element,
		Dim:      dim,
		Vertices: vertices,
		J:        square(dim),
	}
	for mu := 0; mu < dim; mu++ {
		for nu := 0; nu < dim; nu++ {
			m.J[mu][nu] = 0.5 * (vertices[nu+1][mu] - vertices[0][mu])
		}
	}
	m.DetJ, m.Jinv = invert(m.J)
	if !(m.DetJ > 0) {
		return nil, &InvertedElementError{Element: element, DetJ: m.DetJ}
	}
	return
}

// Map takes reference coordinates R[ν][i] to physical coordinates X[μ][i].
func (m *Mapper) Map(R [][]float64) (X [][]float64) {
	var (
		np = len(R[0])
	)
	X = make([][]float64, m.Dim)
	for mu := 0; mu < m.Dim; mu++ {
		X[mu] = make([]float64, np)
		for i := 0; i < np; i++ {
			x := m.Vertices[0][mu]
			for nu := 0; nu < m.Dim; nu++ {
				x += m.J[mu][nu] * (R[nu][i] + 1)
			}
			X[mu][i] = x
		}
	}
	return
}

// Inverse returns the reference coordinates of the physical point x.
func (m *Mapper) Inverse(x []float64) (r []float64) {
	r = make([]float64, m.Dim)
	for nu := 0; nu < m.Dim; nu++ {
		r[nu] = -1
		for mu := 0; mu < m.Dim; mu++ {
			r[nu] += m.Jinv[nu][mu] * (x[mu] - m.Vertices[0][mu])
		}
	}
	return
}

// FaceNormal maps a reference face normal, scaled by the face area ratio,
// to the unit outward physical normal and the surface Jacobian sJ, the
// ratio of physical to face local reference measure.
func (m *Mapper) FaceNormal(refNormal []float64) (n []float64, sJ float64) {
	n = make([]float64, m.Dim)
	for mu := 0; mu < m.Dim; mu++ {
		for nu := 0; nu < m.Dim; nu++ {
			n[mu] += m.Jinv[nu][mu] * refNormal[nu]
		}
	}
	var norm float64
	for _, v := range n {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	for mu := range n {
		n[mu] /= norm
	}
	sJ = m.DetJ * norm
	return
}

// Volume is the measure of the physical element.
func (m *Mapper) Volume() float64 {
	vol := m.DetJ
	for d := 1; d <= m.Dim; d++ {
		vol *= 2 / float64(d)
	}
	return vol
}

// Diameter is the longest edge, used as the element size.
func (m *Mapper) Diameter() (h float64) {
	for a := range m.Vertices {
		for b := a + 1; b < len(m.Vertices); b++ {
			var d2 float64
			for mu := 0; mu < m.Dim; mu++ {
				dx := m.Vertices[a][mu] - m.Vertices[b][mu]
				d2 += dx * dx
			}
			h = math.Max(h, math.Sqrt(d2))
		}
	}
	return
}

// Inradius of the simplex, d * volume / surface area.
func (m *Mapper) Inradius() float64 {
	if m.Dim == 1 {
		return 0.5 * m.Volume()
	}
	var area float64
	for f := 0; f <= m.Dim; f++ {
		area += m.faceMeasure(f)
	}
	return float64(m.Dim) * m.Volume() / area
}

// faceMeasure is the measure of the face opposite vertex f.
func (m *Mapper) faceMeasure(f int) float64 {
	var pts [][]float64
	for v, x := range m.Vertices {
		if v != f {
			pts = append(pts, x)
		}
	}
	e1 := sub(pts[1], pts[0])
	if m.Dim == 2 {
		return math.Hypot(e1[0], e1[1])
	}
	e2 := sub(pts[2], pts[0])
	cx := e1[1]*e2[2] - e1[2]*e2[1]
	cy := e1[2]*e2[0] - e1[0]*e2[2]
	cz := e1[0]*e2[1] - e1[1]*e2[0]
	return 0.5 * math.Sqrt(cx*cx+cy*cy+cz*cz)
}

func sub(a, b []float64) (c []float64) {
	c = make([]float64, len(a))
	for i := range a {
		c[i] = a[i] - b[i]
	}
	return
}

func square(n int) (a [][]float64) {
	a = make([][]float64, n)
	for i := range a {
		a[i] = make([]float64, n)
	}
	return
}

// invert returns the determinant and the cofactor inverse of a 1x1, 2x2 or
// 3x3 matrix. The inverse is nil when the determinant vanishes.
func invert(a [][]float64) (det float64, inv [][]float64) {
	n := len(a)
	switch n {
	case 1:
		det = a[0][0]
		if det == 0 {
			return
		}
		inv = [][]float64{{1 / det}}
	case 2:
		det = a[0][0]*a[1][1] - a[0][1]*a[1][0]
		if det == 0 {
			return
		}
		inv = [][]float64{
			{a[1][1] / det, -a[0][1] / det},
			{-a[1][0] / det, a[0][0] / det},
		}
	case 3:
		c00 := a[1][1]*a[2][2] - a[1][2]*a[2][1]
		c01 := a[1][2]*a[2][0] - a[1][0]*a[2][2]
		c02 := a[1][0]*a[2][1] - a[1][1]*a[2][0]
		det = a[0][0]*c00 + a[0][1]*c01 + a[0][2]*c02
		if det == 0 {
			return
		}
		inv = square(3)
		inv[0][0] = c00 / det
		inv[1][0] = c01 / det
		inv[2][0] = c02 / det
		inv[0][1] = (a[0][2]*a[2][1] - a[0][1]*a[2][2]) / det
		inv[1][1] = (a[0][0]*a[2][2] - a[0][2]*a[2][0]) / det
		inv[2][1] = (a[0][1]*a[2][0] - a[0][0]*a[2][1]) / det
		inv[0][2] = (a[0][1]*a[1][2] - a[0][2]*a[1][1]) / det
		inv[1][2] = (a[0][2]*a[1][0] - a[0][0]*a[1][2]) / det
		inv[2][2] = (a[0][0]*a[1][1] - a[0][1]*a[1][0]) / det
	}
	return
}
