package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// SU2 element type codes, https://su2code.github.io/docs_v7/Mesh-File/
type SU2ElementType uint8

const (
	SU2Line        SU2ElementType = 3
	SU2Triangle    SU2ElementType = 5
	SU2Tetrahedron SU2ElementType = 10
)

// ReadSU2 reads a triangle (NDIME= 2) or tetrahedron (NDIME= 3) SU2 mesh.
// Each MARKER_TAG becomes a boundary tag.
func ReadSU2(path string) (m *Mesh, err error) {
	var file *os.File
	if file, err = os.Open(path); err != nil {
		return
	}
	defer file.Close()
	if m, err = ParseSU2(file); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return
}

func ParseSU2(r io.Reader) (m *Mesh, err error) {
	var (
		sr   = &su2Reader{Reader: bufio.NewReader(r)}
		nMrk int
		tags = make(map[string][][]int)
	)
	m = &Mesh{}
	if m.Dim, err = sr.readNumber("NDIME"); err != nil {
		return nil, err
	}
	if m.Dim != 2 && m.Dim != 3 {
		return nil, fmt.Errorf("NDIME must be 2 or 3, have %d", m.Dim)
	}
	volType, faceType := SU2Triangle, SU2Line
	if m.Dim == 3 {
		volType, faceType = SU2Tetrahedron, SU2Triangle
	}
	if m.Elements, err = sr.readElements("NELEM", volType, m.Dim+1); err != nil {
		return nil, err
	}
	if m.Vertices, err = sr.readPoints(m.Dim); err != nil {
		return nil, err
	}
	if nMrk, err = sr.readNumber("NMARK"); err != nil {
		return nil, err
	}
	for n := 0; n < nMrk; n++ {
		var (
			label string
			faces [][]int
		)
		if label, err = sr.readToken("MARKER_TAG"); err != nil {
			return nil, err
		}
		if faces, err = sr.readElements("MARKER_ELEMS", faceType, m.Dim); err != nil {
			return nil, err
		}
		tags[label] = append(tags[label], faces...)
	}
	for k, ev := range m.Elements {
		for _, iv := range ev {
			if iv < 0 || iv >= len(m.Vertices) {
				return nil, fmt.Errorf("element %d references vertex %d beyond NPOIN= %d", k, iv, len(m.Vertices))
			}
		}
		if signedMeasure(m.Vertices, ev) < 0 {
			ev[1], ev[2] = ev[2], ev[1]
		}
	}
	if err = m.Connect(); err != nil {
		return nil, err
	}
	for tag, faces := range tags {
		if err = m.TagFaces(tag, faces); err != nil {
			return nil, err
		}
	}
	return
}

func signedMeasure(verts [][]float64, ev []int) float64 {
	if len(ev) == 4 {
		return orientation(verts, ev)
	}
	a, b, c := verts[ev[0]], verts[ev[1]], verts[ev[2]]
	return (b[0]-a[0])*(c[1]-a[1]) - (c[0]-a[0])*(b[1]-a[1])
}

type su2Reader struct {
	*bufio.Reader
	line int
}

// nextLine skips blank lines and % comments.
func (sr *su2Reader) nextLine() (line string, err error) {
	for {
		if line, err = sr.ReadString('\n'); err != nil && !(err == io.EOF && len(line) > 0) {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return
		}
		err = nil
		sr.line++
		line = strings.TrimSpace(line)
		if len(line) != 0 && !strings.HasPrefix(line, "%") {
			return
		}
	}
}

// readToken returns the value of a "KEY= value" line.
func (sr *su2Reader) readToken(key string) (value string, err error) {
	var line string
	if line, err = sr.nextLine(); err != nil {
		return "", fmt.Errorf("reading %s: %w", key, err)
	}
	ind := strings.Index(line, "=")
	if ind < 0 || strings.TrimSpace(line[:ind]) != key {
		return "", fmt.Errorf("line %d: badly formed input line [%s], want %s=", sr.line, line, key)
	}
	return strings.TrimSpace(line[ind+1:]), nil
}

func (sr *su2Reader) readNumber(key string) (num int, err error) {
	var token string
	if token, err = sr.readToken(key); err != nil {
		return
	}
	if num, err = strconv.Atoi(token); err != nil || num < 0 {
		return 0, fmt.Errorf("line %d: unable to read a count from [%s]", sr.line, token)
	}
	return
}

// readElements reads a counted block of "type v0 v1 ... [index]" lines.
func (sr *su2Reader) readElements(key string, want SU2ElementType, nv int) (elems [][]int, err error) {
	var (
		n    int
		line string
	)
	if n, err = sr.readNumber(key); err != nil {
		return
	}
	elems = make([][]int, n)
	for i := range elems {
		if line, err = sr.nextLine(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", key, err)
		}
		fields := strings.Fields(line)
		if len(fields) < nv+1 {
			return nil, fmt.Errorf("line %d: %s entry [%s] has too few vertices", sr.line, key, line)
		}
		var ids []int
		for _, f := range fields[:nv+1] {
			var v int
			if v, err = strconv.Atoi(f); err != nil {
				return nil, fmt.Errorf("line %d: %w", sr.line, err)
			}
			ids = append(ids, v)
		}
		if SU2ElementType(ids[0]) != want {
			return nil, fmt.Errorf("line %d: element type %d in %s, only type %d is supported",
				sr.line, ids[0], key, want)
		}
		elems[i] = ids[1:]
	}
	return
}

func (sr *su2Reader) readPoints(dim int) (verts [][]float64, err error) {
	var (
		n    int
		line string
	)
	if n, err = sr.readNumber("NPOIN"); err != nil {
		return
	}
	verts = make([][]float64, n)
	for i := range verts {
		if line, err = sr.nextLine(); err != nil {
			return nil, fmt.Errorf("reading NPOIN: %w", err)
		}
		fields := strings.Fields(line)
		if len(fields) < dim {
			return nil, fmt.Errorf("line %d: unable to read coordinates from [%s]", sr.line, line)
		}
		verts[i] = make([]float64, dim)
		for mu := range verts[i] {
			if verts[i][mu], err = strconv.ParseFloat(fields[mu], 64); err != nil {
				return nil, fmt.Errorf("line %d: %w", sr.line, err)
			}
		}
	}
	return
}
