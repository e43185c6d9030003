package operators

import (
	"fmt"

	"github.com/notargets/simplexdg/element"
	"github.com/notargets/simplexdg/geometry"
	"github.com/notargets/simplexdg/quadrature"
	"github.com/notargets/simplexdg/utils"
)

const DefaultSymmetryTolerance = 1.e-12

type FaceOperators struct {
	Fmask  utils.Index
	MF     utils.Matrix // Nfp x Nfp physical face mass
	Normal []float64    // Unit outward normal
	SJ     float64      // Surface Jacobian
}

// ElementOperators are the per element DG operators. Reference operators
// (Dr) are shared with the ReferenceElement, the rest are owned.
type ElementOperators struct {
	Element int
	Dim, Np int
	DetJ    float64
	M, Minv utils.Matrix
	Dr      []utils.Matrix // Dν = Vν V⁻¹, reference directions
	Sr      []utils.Matrix // Mᵀ Dν
	D       []utils.Matrix // Physical differentiation, D_μ = Σν Dν ∂r_ν/∂x_μ
	S       []utils.Matrix // Physical stiffness Mᵀ D_μ
	Faces   []FaceOperators
	LIFT    utils.Matrix // M⁻¹ [MF_0 ... MF_F], Np x NFaces*Nfp
}

type Options struct {
	SymmetryTolerance float64
}

type Option func(*Options)

func WithSymmetryTolerance(tol float64) Option {
	return func(o *Options) { o.SymmetryTolerance = tol }
}

// Assemble builds the operators of one physical element from the shared
// reference element and the element's affine map.
func Assemble(ref *element.ReferenceElement, mapper *geometry.Mapper, opts ...Option) (eo *ElementOperators, err error) {
	var (
		o = Options{SymmetryTolerance: DefaultSymmetryTolerance}
	)
	for _, opt := range opts {
		opt(&o)
	}
	if ref.Dim != mapper.Dim {
		err = fmt.Errorf("element %d: %dD map for a %dD reference element", mapper.Element, mapper.Dim, ref.Dim)
		return
	}
	eo = &ElementOperators{
		Element: mapper.Element,
		Dim:     ref.Dim,
		Np:      ref.Np,
		DetJ:    mapper.DetJ,
		Dr:      ref.Dr,
	}
	eo.M = ref.Vinv.Transpose().Mul(ref.Vinv).Scale(mapper.DetJ)
	if err = checkSymmetric(eo.M, mapper.Element, "mass matrix", o.SymmetryTolerance); err != nil {
		return nil, err
	}
	if !eo.M.IsPositiveDefinite() {
		return nil, &OperatorError{Element: mapper.Element, Operator: "mass matrix", Err: ErrIndefiniteMass}
	}
	eo.Minv = ref.V.Mul(ref.V.Transpose()).Scale(1 / mapper.DetJ).Symmetrize()

	eo.Sr = make([]utils.Matrix, ref.Dim)
	for nu := range eo.Sr {
		eo.Sr[nu] = eo.M.Transpose().Mul(ref.Dr[nu])
	}
	eo.D = make([]utils.Matrix, ref.Dim)
	eo.S = make([]utils.Matrix, ref.Dim)
	for mu := 0; mu < ref.Dim; mu++ {
		eo.D[mu] = utils.NewMatrix(ref.Np, ref.Np)
		for nu := 0; nu < ref.Dim; nu++ {
			eo.D[mu].Add(ref.Dr[nu].Copy().Scale(mapper.Jinv[nu][mu]))
		}
		eo.S[mu] = eo.M.Transpose().Mul(eo.D[mu])
	}

	eo.Faces = make([]FaceOperators, ref.NFaces)
	for f := 0; f < ref.NFaces; f++ {
		n, sJ := mapper.FaceNormal(ref.FaceNormals[f])
		MF := ref.Faces[f].M.Copy().Scale(sJ)
		if err = checkSymmetric(MF, mapper.Element, fmt.Sprintf("face %d mass matrix", f),
			o.SymmetryTolerance); err != nil {
			return nil, err
		}
		if !MF.IsPositiveDefinite() {
			return nil, &OperatorError{Element: mapper.Element, Operator: fmt.Sprintf("face %d mass matrix", f),
				Err: ErrIndefiniteMass}
		}
		eo.Faces[f] = FaceOperators{
			Fmask:  ref.Fmask[f],
			MF:     MF,
			Normal: n,
			SJ:     sJ,
		}
	}
	eo.LIFT = eo.buildLift(ref.Nfp)
	eo.setReadOnly()
	return
}

func checkSymmetric(A utils.Matrix, k int, name string, tol float64) error {
	if asym := A.SymmetryError(); asym > tol {
		return &OperatorError{Element: k, Operator: name, Asymmetry: asym, Err: ErrNonSymmetricOperator}
	}
	A.Symmetrize()
	return nil
}

// buildLift stacks Minv[:, Fmask_f] MF_f face by face.
func (eo *ElementOperators) buildLift(Nfp int) (LIFT utils.Matrix) {
	LIFT = utils.NewMatrix(eo.Np, len(eo.Faces)*Nfp)
	for f, face := range eo.Faces {
		Lf := eo.Minv.SliceCols(face.Fmask).Mul(face.MF)
		for i := 0; i < eo.Np; i++ {
			for l := 0; l < Nfp; l++ {
				LIFT.Set(i, f*Nfp+l, Lf.At(i, l))
			}
		}
	}
	return
}

func (eo *ElementOperators) setReadOnly() {
	eo.M.SetReadOnly("M")
	eo.Minv.SetReadOnly("Minv")
	eo.LIFT.SetReadOnly("LIFT")
	for mu := range eo.D {
		eo.D[mu].SetReadOnly("D")
		eo.S[mu].SetReadOnly("S")
		eo.Sr[mu].SetReadOnly("Sr")
	}
	for f := range eo.Faces {
		eo.Faces[f].MF.SetReadOnly("MF")
	}
}

// Padded returns face f's mass matrix embedded in an Np x Np matrix, exact
// zeros on every row and column of a node not on the face.
func (eo *ElementOperators) Padded(f int) (P utils.Matrix) {
	var (
		face = eo.Faces[f]
	)
	P = utils.NewMatrix(eo.Np, eo.Np)
	for a, ia := range face.Fmask {
		for b, ib := range face.Fmask {
			P.Set(ia, ib, P.At(ia, ib)+face.MF.At(a, b))
		}
	}
	return
}

// Cubature holds operators assembled directly as weighted sums over a
// cubature rule instead of from the Vandermonde identities.
type Cubature struct {
	M  utils.Matrix
	S  []utils.Matrix
	MF []utils.Matrix
}

// AssembleByCubature integrates basis x basis and basis x basis-gradient
// products on collapsed coordinate rules exact to degree 2N+1.
func AssembleByCubature(ref *element.ReferenceElement, mapper *geometry.Mapper,
	engine *quadrature.Engine) (cb Cubature, err error) {
	var (
		vol quadrature.CubatureRule
		I   utils.Matrix
		Ir  []utils.Matrix
	)
	if vol, err = engine.Simplex(ref.Dim, ref.N+1); err != nil {
		return
	}
	if I, Ir, err = ref.Interpolation(transpose(vol.Points, ref.Dim)); err != nil {
		return
	}
	cb.M = utils.NewMatrix(ref.Np, ref.Np)
	cb.S = make([]utils.Matrix, ref.Dim)
	for mu := range cb.S {
		cb.S[mu] = utils.NewMatrix(ref.Np, ref.Np)
	}
	for q, w := range vol.Weights {
		wq := w * mapper.DetJ
		for i := 0; i < ref.Np; i++ {
			phiI := I.At(q, i)
			for j := 0; j < ref.Np; j++ {
				cb.M.Set(i, j, cb.M.At(i, j)+wq*phiI*I.At(q, j))
				for mu := 0; mu < ref.Dim; mu++ {
					var dphi float64
					for nu := 0; nu < ref.Dim; nu++ {
						dphi += Ir[nu].At(q, j) * mapper.Jinv[nu][mu]
					}
					cb.S[mu].Set(i, j, cb.S[mu].At(i, j)+wq*phiI*dphi)
				}
			}
		}
	}
	cb.MF = make([]utils.Matrix, ref.NFaces)
	for f := 0; f < ref.NFaces; f++ {
		var (
			face = ref.Faces[f]
			fr   quadrature.CubatureRule
			If   utils.Matrix
		)
		if fr, err = engine.Simplex(face.Dim, ref.N+1); err != nil {
			return
		}
		if If, _, err = face.Interpolation(transpose(fr.Points, face.Dim)); err != nil {
			return
		}
		_, sJ := mapper.FaceNormal(ref.FaceNormals[f])
		cb.MF[f] = utils.NewMatrix(face.Np, face.Np)
		for q, w := range fr.Weights {
			for i := 0; i < face.Np; i++ {
				for j := 0; j < face.Np; j++ {
					cb.MF[f].Set(i, j, cb.MF[f].At(i, j)+sJ*w*If.At(q, i)*If.At(q, j))
				}
			}
		}
	}
	return
}

func transpose(points [][]float64, dim int) (P [][]float64) {
	P = make([][]float64, dim)
	for _, p := range points {
		for nu := 0; nu < dim; nu++ {
			P[nu] = append(P[nu], p[nu])
		}
	}
	return
}
