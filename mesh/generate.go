package mesh

import (
	"fmt"
	"math"

	"github.com/notargets/simplexdg/utils"
)

// Line is a uniform 1D mesh of K elements on [xmin, xmax] with boundaries
// "left" and "right", or joined end to end when periodic.
func Line(xmin, xmax float64, K int, periodic bool) (m *Mesh, err error) {
	if K < 1 || !(xmax > xmin) {
		err = fmt.Errorf("line mesh needs K >= 1 and xmax > xmin, have K = %d, [%g, %g]", K, xmin, xmax)
		return
	}
	m = &Mesh{Dim: 1}
	for i := 0; i <= K; i++ {
		m.Vertices = append(m.Vertices, []float64{xmin + (xmax-xmin)*float64(i)/float64(K)})
	}
	for k := 0; k < K; k++ {
		m.Elements = append(m.Elements, []int{k, k + 1})
	}
	if periodic {
		if K < 2 {
			err = fmt.Errorf("periodic line mesh needs K >= 2, have %d", K)
			return
		}
		m.PeriodicVertices = map[int]int{K: 0}
	}
	if err = m.Connect(); err != nil {
		return
	}
	m.TagBoundary("left", func(x []float64) bool { return near(x[0], xmin) })
	m.TagBoundary("right", func(x []float64) bool { return near(x[0], xmax) })
	return
}

// Rectangle splits an nx by ny grid on bounds (xmin, xmax, ymin, ymax) into
// two counterclockwise triangles per cell. Boundaries are "left", "right",
// "bottom" and "top" unless periodic.
func Rectangle(nx, ny int, bounds [4]float64, periodic bool) (m *Mesh, err error) {
	if nx < 1 || ny < 1 || !(bounds[1] > bounds[0]) || !(bounds[3] > bounds[2]) {
		err = fmt.Errorf("rectangle mesh needs positive divisions and extents, have %d x %d on %v", nx, ny, bounds)
		return
	}
	if periodic && (nx < 3 || ny < 3) {
		err = fmt.Errorf("periodic rectangle mesh needs at least 3 x 3 cells, have %d x %d", nx, ny)
		return
	}
	m = &Mesh{Dim: 2}
	vid := func(i, j int) int { return j*(nx+1) + i }
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			m.Vertices = append(m.Vertices, []float64{
				lerp(bounds[0], bounds[1], i, nx),
				lerp(bounds[2], bounds[3], j, ny),
			})
		}
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			v00, v10, v11, v01 := vid(i, j), vid(i+1, j), vid(i+1, j+1), vid(i, j+1)
			m.Elements = append(m.Elements, []int{v00, v10, v11}, []int{v00, v11, v01})
		}
	}
	if periodic {
		m.PeriodicVertices = make(map[int]int)
		for j := 0; j <= ny; j++ {
			for i := 0; i <= nx; i++ {
				ci, cj := i%nx, j%ny
				if ci != i || cj != j {
					m.PeriodicVertices[vid(i, j)] = vid(ci, cj)
				}
			}
		}
	}
	if err = m.Connect(); err != nil {
		return
	}
	m.TagBoundary("left", func(x []float64) bool { return near(x[0], bounds[0]) })
	m.TagBoundary("right", func(x []float64) bool { return near(x[0], bounds[1]) })
	m.TagBoundary("bottom", func(x []float64) bool { return near(x[1], bounds[2]) })
	m.TagBoundary("top", func(x []float64) bool { return near(x[1], bounds[3]) })
	return
}

// Box splits an nx by ny by nz grid on bounds (xmin, xmax, ymin, ymax,
// zmin, zmax) into six tetrahedra per cell (Kuhn subdivision), boundaries
// tagged "xmin" .. "zmax".
func Box(nx, ny, nz int, bounds [6]float64) (m *Mesh, err error) {
	if nx < 1 || ny < 1 || nz < 1 ||
		!(bounds[1] > bounds[0]) || !(bounds[3] > bounds[2]) || !(bounds[5] > bounds[4]) {
		err = fmt.Errorf("box mesh needs positive divisions and extents, have %d x %d x %d on %v",
			nx, ny, nz, bounds)
		return
	}
	m = &Mesh{Dim: 3}
	vid := func(i, j, k int) int { return (k*(ny+1)+j)*(nx+1) + i }
	for k := 0; k <= nz; k++ {
		for j := 0; j <= ny; j++ {
			for i := 0; i <= nx; i++ {
				m.Vertices = append(m.Vertices, []float64{
					lerp(bounds[0], bounds[1], i, nx),
					lerp(bounds[2], bounds[3], j, ny),
					lerp(bounds[4], bounds[5], k, nz),
				})
			}
		}
	}
	perms := [6][3]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				for _, p := range perms {
					var (
						c   = [3]int{i, j, k}
						tet = []int{vid(c[0], c[1], c[2])}
					)
					for _, axis := range p {
						c[axis]++
						tet = append(tet, vid(c[0], c[1], c[2]))
					}
					if orientation(m.Vertices, tet) < 0 {
						tet[1], tet[2] = tet[2], tet[1]
					}
					m.Elements = append(m.Elements, tet)
				}
			}
		}
	}
	if err = m.Connect(); err != nil {
		return
	}
	names := []string{"xmin", "xmax", "ymin", "ymax", "zmin", "zmax"}
	for b, name := range names {
		axis, val := b/2, bounds[b]
		m.TagBoundary(name, func(x []float64) bool { return near(x[axis], val) })
	}
	return
}

func orientation(verts [][]float64, tet []int) float64 {
	var e [3][3]float64
	for a := 0; a < 3; a++ {
		for d := 0; d < 3; d++ {
			e[a][d] = verts[tet[a+1]][d] - verts[tet[0]][d]
		}
	}
	return e[0][0]*(e[1][1]*e[2][2]-e[1][2]*e[2][1]) -
		e[0][1]*(e[1][0]*e[2][2]-e[1][2]*e[2][0]) +
		e[0][2]*(e[1][0]*e[2][1]-e[1][1]*e[2][0])
}

func lerp(a, b float64, i, n int) float64 {
	if i == n {
		return b
	}
	return a + (b-a)*float64(i)/float64(n)
}

func near(a, b float64) bool {
	return math.Abs(a-b) <= utils.NODETOL*math.Max(1, math.Abs(b))
}
