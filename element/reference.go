package element

import (
	"fmt"
	"math"

	"github.com/notargets/simplexdg/basis"
	"github.com/notargets/simplexdg/utils"
)

// DefaultVandermondeTolerance is the smallest accepted reciprocal condition
// number of V.
const DefaultVandermondeTolerance = 1.e-10

// ReferenceElement is the degree N nodal simplex element on the biunit
// reference simplex. All matrices are read only once built and shared by
// every physical element of the same (Dim, N).
type ReferenceElement struct {
	Dim, N, Np, Nfp, NFaces int
	R                       [][]float64    // R[ν][i], reference coordinates of node i
	V, Vinv                 utils.Matrix   // V[i][j] = basis_j(node_i)
	Vr                      []utils.Matrix // Derivative Vandermondes, one per reference direction
	Dr                      []utils.Matrix // Dν = Vν V⁻¹
	M                       utils.Matrix   // (V Vᵀ)⁻¹
	Fmask                   []utils.Index  // Element node indices on each face
	FaceR                   [][][]float64  // Face local coordinates of the Fmask nodes
	Faces                   []*ReferenceElement
	FaceNormals             [][]float64 // Outward, scaled by the face area ratio
	Cond                    float64     // 1-norm condition estimate of V
}

type Options struct {
	Tolerance float64
}

type Option func(*Options)

func WithTolerance(tol float64) Option {
	return func(o *Options) { o.Tolerance = tol }
}

func newOptions(opts []Option) Options {
	o := Options{Tolerance: DefaultVandermondeTolerance}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Build constructs the reference element of dimension dim and degree N on
// the standard nodal set.
func Build(dim, N int, opts ...Option) (re *ReferenceElement, err error) {
	if dim < 1 || dim > 3 {
		err = fmt.Errorf("element dimension must be 1, 2 or 3, have %d", dim)
		return
	}
	var R [][]float64
	if R, err = Nodes(dim, N); err != nil {
		return
	}
	return BuildWithNodes(dim, N, R, opts...)
}

// BuildWithNodes constructs the reference element on a caller supplied
// node set R[ν][i]. Dimension 0 is the single point element used for the
// faces of 1D elements.
func BuildWithNodes(dim, N int, R [][]float64, opts ...Option) (re *ReferenceElement, err error) {
	var (
		o  = newOptions(opts)
		Np = utils.NodeCount(dim, N)
	)
	if N < 0 {
		err = fmt.Errorf("polynomial degree must be non negative, have %d", N)
		return
	}
	if len(R) != dim {
		err = fmt.Errorf("node set has %d coordinates, element dimension is %d", len(R), dim)
		return
	}
	for nu := range R {
		if len(R[nu]) != Np {
			err = fmt.Errorf("degree %d needs %d nodes in %dD, have %d", N, Np, dim, len(R[nu]))
			return
		}
	}
	if err = checkInside(dim, R); err != nil {
		return
	}
	re = &ReferenceElement{
		Dim:    dim,
		N:      N,
		Np:     Np,
		R:      R,
		NFaces: dim + 1,
	}
	if dim == 0 {
		re.NFaces = 0
	}
	if re.V, err = basis.Vandermonde(N, R); err != nil {
		return nil, err
	}
	re.Cond = re.V.ConditionNumber()
	if rcond := 1 / re.Cond; !(rcond >= o.Tolerance) {
		return nil, &VandermondeError{Dim: dim, N: N, RCond: rcond, Tol: o.Tolerance}
	}
	if re.Vinv, err = re.V.Inverse(); err != nil {
		return nil, &VandermondeError{Dim: dim, N: N, RCond: 0, Tol: o.Tolerance}
	}
	if re.Vr, err = basis.GradVandermonde(N, R); err != nil {
		return nil, err
	}
	re.Dr = make([]utils.Matrix, dim)
	for nu := range re.Vr {
		re.Dr[nu] = re.Vr[nu].Mul(re.Vinv)
	}
	re.M = re.Vinv.Transpose().Mul(re.Vinv)
	if dim > 0 {
		if err = re.buildFaces(o); err != nil {
			return nil, err
		}
	}
	re.V.SetReadOnly("V")
	re.Vinv.SetReadOnly("Vinv")
	re.M.SetReadOnly("M")
	for nu := range re.Dr {
		re.Vr[nu].SetReadOnly("Vr")
		re.Dr[nu].SetReadOnly("Dr")
	}
	return
}

// checkInside rejects nodes outside the biunit simplex r_ν >= -1,
// Σ r_ν <= 2 - dim, where the collapsed coordinate basis is not polynomial.
func checkInside(dim int, R [][]float64) error {
	if dim == 0 {
		return nil
	}
	for i := range R[0] {
		sum := 0.
		for nu := 0; nu < dim; nu++ {
			if R[nu][i] < -1-utils.NODETOL {
				return fmt.Errorf("node %d lies outside the %dD reference simplex", i, dim)
			}
			sum += R[nu][i]
		}
		if sum > float64(2-dim)+utils.NODETOL {
			return fmt.Errorf("node %d lies outside the %dD reference simplex", i, dim)
		}
	}
	return nil
}

type faceDef struct {
	onFace func(p []float64) float64 // zero on the face
	local  []int                     // reference coordinates used as face coordinates
	normal []float64
}

func faceDefs(dim int) []faceDef {
	switch dim {
	case 1:
		return []faceDef{
			{func(p []float64) float64 { return p[0] + 1 }, nil, []float64{-1}},
			{func(p []float64) float64 { return p[0] - 1 }, nil, []float64{1}},
		}
	case 2:
		return []faceDef{
			{func(p []float64) float64 { return p[1] + 1 }, []int{0}, []float64{0, -1}},
			{func(p []float64) float64 { return p[0] + p[1] }, []int{0}, []float64{1, 1}},
			{func(p []float64) float64 { return p[0] + 1 }, []int{1}, []float64{-1, 0}},
		}
	case 3:
		return []faceDef{
			{func(p []float64) float64 { return p[2] + 1 }, []int{0, 1}, []float64{0, 0, -1}},
			{func(p []float64) float64 { return p[1] + 1 }, []int{0, 2}, []float64{0, -1, 0}},
			{func(p []float64) float64 { return p[0] + p[1] + p[2] + 1 }, []int{1, 2}, []float64{1, 1, 1}},
			{func(p []float64) float64 { return p[0] + 1 }, []int{1, 2}, []float64{-1, 0, 0}},
		}
	}
	return nil
}

func (re *ReferenceElement) buildFaces(o Options) (err error) {
	var (
		defs = faceDefs(re.Dim)
		p    = make([]float64, re.Dim)
	)
	re.Nfp = utils.NodeCount(re.Dim-1, re.N)
	re.Fmask = make([]utils.Index, re.NFaces)
	re.FaceR = make([][][]float64, re.NFaces)
	re.Faces = make([]*ReferenceElement, re.NFaces)
	re.FaceNormals = make([][]float64, re.NFaces)
	for f, def := range defs {
		re.FaceNormals[f] = def.normal
		if re.N == 0 {
			re.Fmask[f] = utils.Index{0}
			re.FaceR[f] = centroid(re.Dim - 1)
		} else {
			for i := 0; i < re.Np; i++ {
				for nu := range p {
					p[nu] = re.R[nu][i]
				}
				if math.Abs(def.onFace(p)) < utils.NODETOL {
					re.Fmask[f] = append(re.Fmask[f], i)
				}
			}
			if len(re.Fmask[f]) != re.Nfp {
				return fmt.Errorf("face %d of the %dD degree %d node set holds %d nodes, want %d",
					f, re.Dim, re.N, len(re.Fmask[f]), re.Nfp)
			}
			re.FaceR[f] = make([][]float64, re.Dim-1)
			for l, nu := range def.local {
				for _, i := range re.Fmask[f] {
					re.FaceR[f][l] = append(re.FaceR[f][l], re.R[nu][i])
				}
			}
		}
		if re.Faces[f], err = BuildWithNodes(re.Dim-1, re.N, re.FaceR[f], WithTolerance(o.Tolerance)); err != nil {
			return fmt.Errorf("face %d: %w", f, err)
		}
	}
	return
}

// Interpolation returns the matrices taking nodal values to values and
// reference derivatives at the points P[ν][q].
func (re *ReferenceElement) Interpolation(P [][]float64) (I utils.Matrix, Ir []utils.Matrix, err error) {
	var (
		Vp  utils.Matrix
		Vpr []utils.Matrix
	)
	if Vp, err = basis.Vandermonde(re.N, P); err != nil {
		return
	}
	I = Vp.Mul(re.Vinv)
	if Vpr, err = basis.GradVandermonde(re.N, P); err != nil {
		return
	}
	Ir = make([]utils.Matrix, len(Vpr))
	for nu := range Vpr {
		Ir[nu] = Vpr[nu].Mul(re.Vinv)
	}
	return
}

// Node returns the reference coordinates of node i.
func (re *ReferenceElement) Node(i int) (p []float64) {
	p = make([]float64, re.Dim)
	for nu := range p {
		p[nu] = re.R[nu][i]
	}
	return
}

// Volume is the measure of the reference simplex.
func (re *ReferenceElement) Volume() float64 {
	return math.Pow(2, float64(re.Dim)) / factorial(re.Dim)
}

func factorial(n int) float64 {
	f := 1.
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}

func (re *ReferenceElement) String() string {
	return fmt.Sprintf("%dD simplex, N = %d, Np = %d, Nfp = %d, cond(V) = %.3g",
		re.Dim, re.N, re.Np, re.Nfp, re.Cond)
}
