package assembly

import (
	"context"
	"fmt"
	"math"

	"github.com/notargets/simplexdg/element"
	"github.com/notargets/simplexdg/flux"
	"github.com/notargets/simplexdg/geometry"
	"github.com/notargets/simplexdg/mesh"
	"github.com/notargets/simplexdg/operators"
	"github.com/notargets/simplexdg/utils"
)

type Options struct {
	Parallel   int // Worker count, <= 0 uses every CPU
	Form       Form
	Boundaries map[string]flux.BoundaryCondition
	Operators  []operators.Option
	Source     SourceFunc
}

// SourceFunc writes the volume source of every evolved field at time t and
// physical point x into out.
type SourceFunc func(t float64, x []float64, out []float64)

type Option func(*Options)

func WithParallel(n int) Option {
	return func(o *Options) { o.Parallel = n }
}

func WithForm(f Form) Option {
	return func(o *Options) { o.Form = f }
}

// WithBoundary sets the condition applied on faces tagged tag. Untagged
// conditions default to homogeneous Dirichlet.
func WithBoundary(tag string, bc flux.BoundaryCondition) Option {
	return func(o *Options) {
		if o.Boundaries == nil {
			o.Boundaries = make(map[string]flux.BoundaryCondition)
		}
		o.Boundaries[tag] = bc
	}
}

// WithSource adds a time dependent volume source to U_t.
func WithSource(src SourceFunc) Option {
	return func(o *Options) { o.Source = src }
}

func WithOperatorOptions(opts ...operators.Option) Option {
	return func(o *Options) { o.Operators = append(o.Operators, opts...) }
}

// Discretization binds a mesh, one reference element and a flux scheme into
// the semi-discrete operator U_t = RHS(U).
type Discretization struct {
	Mesh            *mesh.Mesh
	Ref             *element.ReferenceElement
	Scheme          flux.Scheme
	Dim, K, Np, Nfp int
	NFaces          int
	Mappers         []*geometry.Mapper
	Ops             []*operators.ElementOperators
	X               []utils.Matrix // Physical node coordinates, X[μ] is Np x K
	Faces           [][]mesh.Face  // Face records with node restrictions and normals filled
	mapP            [][][]int      // mapP[k][f][l], neighbor volume node facing node l of face f
	opts            Options
	pm              *utils.PartitionMap
}

// New validates the mesh faces against the reference element, builds every
// element's map, pairs the face nodes of neighboring elements, and only then
// assembles the element operators, all in parallel.
func New(ctx context.Context, m *mesh.Mesh, ref *element.ReferenceElement, scheme flux.Scheme,
	opts ...Option) (d *Discretization, err error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	if err = scheme.Validate(); err != nil {
		return
	}
	if m.Dim != ref.Dim || scheme.Dim != ref.Dim {
		err = fmt.Errorf("dimension mismatch: mesh %dD, element %dD, scheme %dD", m.Dim, ref.Dim, scheme.Dim)
		return
	}
	if m.Faces == nil {
		if err = m.Connect(); err != nil {
			return
		}
	}
	d = &Discretization{
		Mesh:   m,
		Ref:    ref,
		Scheme: scheme,
		Dim:    ref.Dim,
		K:      m.NumElements(),
		Np:     ref.Np,
		Nfp:    ref.Nfp,
		NFaces: ref.NFaces,
		opts:   o,
	}
	if d.K == 0 {
		return nil, fmt.Errorf("mesh has no elements")
	}
	d.pm = utils.NewPartitionMap(o.Parallel, d.K)
	if err = d.checkFaces(); err != nil {
		return nil, err
	}
	d.Mappers = make([]*geometry.Mapper, d.K)
	err = d.pm.ForEach(ctx, func(ctx context.Context, k int) (err error) {
		d.Mappers[k], err = geometry.NewMapper(k, m.ElementVertices(k))
		return
	})
	if err != nil {
		return nil, err
	}
	d.X = make([]utils.Matrix, d.Dim)
	for mu := range d.X {
		d.X[mu] = utils.NewMatrix(d.Np, d.K)
	}
	for k, mp := range d.Mappers {
		X := mp.Map(ref.R)
		for mu := range X {
			d.X[mu].SetCol(k, X[mu])
		}
	}
	d.mapP = make([][][]int, d.K)
	if err = d.pm.ForEach(ctx, func(ctx context.Context, k int) error {
		return d.pairFaces(k)
	}); err != nil {
		return nil, err
	}
	d.Ops = make([]*operators.ElementOperators, d.K)
	if err = d.pm.ForEach(ctx, func(ctx context.Context, k int) (err error) {
		d.Ops[k], err = operators.Assemble(ref, d.Mappers[k], o.Operators...)
		return
	}); err != nil {
		return nil, err
	}
	d.Faces = make([][]mesh.Face, d.K)
	for k := range m.Faces {
		d.Faces[k] = append([]mesh.Face{}, m.Faces[k]...)
		for f := range d.Faces[k] {
			face := &d.Faces[k][f]
			face.NodeIndices = d.Ops[k].Faces[f].Fmask.Copy()
			face.Normal = append([]float64{}, d.Ops[k].Faces[f].Normal...)
		}
	}
	return
}

func (d *Discretization) faceNodes(k, f int) utils.Index {
	if idx := d.Mesh.Faces[k][f].NodeIndices; len(idx) != 0 {
		return idx
	}
	return d.Ref.Fmask[f]
}

// checkFaces runs before any operator is built. Caller supplied node
// restrictions must hold the reference face nodes, and both sides of an
// interior face must carry the same number of nodes.
func (d *Discretization) checkFaces() error {
	faces := d.Mesh.Faces
	if len(faces) != d.K {
		return fmt.Errorf("mesh has face records for %d of %d elements", len(faces), d.K)
	}
	for k := range faces {
		if len(faces[k]) != d.NFaces {
			return fmt.Errorf("element %d has %d face records, want %d", k, len(faces[k]), d.NFaces)
		}
		for f, face := range faces[k] {
			idx := d.faceNodes(k, f)
			if !face.IsBoundary() {
				if face.Neighbor >= d.K || face.NeighborFace < 0 || face.NeighborFace >= d.NFaces {
					return fmt.Errorf("face %d of element %d names neighbor face %d of element %d",
						f, k, face.NeighborFace, face.Neighbor)
				}
				if nidx := d.faceNodes(face.Neighbor, face.NeighborFace); len(nidx) != len(idx) {
					return &FaceMismatchError{Element: k, Face: f, Neighbor: face.Neighbor,
						Want: len(idx), Have: len(nidx)}
				}
			}
			if len(idx) != d.Nfp {
				return &FaceMismatchError{Element: k, Face: f, Neighbor: -1, Want: d.Nfp, Have: len(idx)}
			}
			var found int
			for _, i := range idx {
				if d.Ref.Fmask[f].Contains(i) {
					found++
				}
			}
			if found != d.Nfp {
				return &FaceMismatchError{Element: k, Face: f, Neighbor: -1, Want: d.Nfp, Have: found}
			}
		}
	}
	return nil
}

// pairFaces matches every node of element k's interior faces to the
// neighbor's node at the same position relative to the face centroid, so
// periodic faces pair across a translation.
func (d *Discretization) pairFaces(k int) error {
	d.mapP[k] = make([][]int, d.NFaces)
	for f, face := range d.Mesh.Faces[k] {
		if face.IsBoundary() {
			continue
		}
		var (
			k2, f2 = face.Neighbor, face.NeighborFace
			c1     = d.faceCentroid(k, f)
			c2     = d.faceCentroid(k2, f2)
			tol    = utils.NODETOL * math.Max(1, d.Mappers[k].Diameter())
			fm1    = d.Ref.Fmask[f]
			fm2    = d.Ref.Fmask[f2]
			found  int
		)
		d.mapP[k][f] = make([]int, len(fm1))
		if len(fm1) == 1 && len(fm2) == 1 {
			// A single trace node, N = 0 or 1D, pairs without a position test
			d.mapP[k][f][0] = fm2[0]
			continue
		}
		for l, i := range fm1 {
			d.mapP[k][f][l] = -1
			for _, j := range fm2 {
				var dist float64
				for mu := 0; mu < d.Dim; mu++ {
					delta := (d.X[mu].At(i, k) - c1[mu]) - (d.X[mu].At(j, k2) - c2[mu])
					dist += delta * delta
				}
				if math.Sqrt(dist) < tol {
					d.mapP[k][f][l] = j
					found++
					break
				}
			}
		}
		if found != len(fm1) {
			return &FaceMismatchError{Element: k, Face: f, Neighbor: k2, Want: len(fm1), Have: found}
		}
	}
	return nil
}

func (d *Discretization) faceCentroid(k, f int) (c []float64) {
	var (
		fv = mesh.FaceVertices(d.Dim)[f]
		v  = d.Mappers[k].Vertices
	)
	c = make([]float64, d.Dim)
	for _, lv := range fv {
		for mu := range c {
			c[mu] += v[lv][mu] / float64(len(fv))
		}
	}
	return
}

func (d *Discretization) boundary(tag string) flux.BoundaryCondition {
	return d.opts.Boundaries[tag]
}

func (d *Discretization) Form() Form { return d.opts.Form }

// NewState returns a zero state with one matrix per evolved field.
func (d *Discretization) NewState() State {
	return NewState(d.Scheme.NumFields(), d.Np, d.K)
}

// Interpolate samples f at every physical node.
func (d *Discretization) Interpolate(f func(x []float64) float64) (u utils.Matrix) {
	u = utils.NewMatrix(d.Np, d.K)
	x := make([]float64, d.Dim)
	for k := 0; k < d.K; k++ {
		for i := 0; i < d.Np; i++ {
			for mu := range x {
				x[mu] = d.X[mu].At(i, k)
			}
			u.Set(i, k, f(x))
		}
	}
	return
}

// StableTimeStep estimates the explicit time step limit from the smallest
// element inradius, scaled by (N+1)² for waves and (N+1)⁴ for diffusion.
func (d *Discretization) StableTimeStep(cfl float64) (dt float64) {
	var (
		rmin = math.Inf(1)
		np1  = float64(d.Ref.N + 1)
	)
	for _, mp := range d.Mappers {
		rmin = math.Min(rmin, mp.Inradius())
	}
	dt = math.Inf(1)
	if speed := d.Scheme.MaxSpeed(); speed > 0 {
		dt = cfl * rmin / (speed * np1 * np1)
	}
	if d.Scheme.Family == flux.Heat && d.Scheme.Diffusivity > 0 {
		dt = math.Min(dt, cfl*rmin*rmin/(d.Scheme.Diffusivity*np1*np1*np1*np1))
	}
	return
}
