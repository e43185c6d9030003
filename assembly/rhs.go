package assembly

import (
	"context"

	"github.com/notargets/simplexdg/flux"
	"github.com/notargets/simplexdg/utils"
)

// law is one first order system U_t + ∇·F(W) = 0 over the trace fields W,
// nIn trace fields in and nOut equations out.
type law struct {
	nIn, nOut int
	flux      func(state []float64, mu int, out []float64)
	normal    func(state, n, out []float64)
	numerical func(minus, plus, n, out []float64)
	boundary  func(bc flux.BoundaryCondition, minus, n, plus []float64)
}

func (d *Discretization) schemeLaw() law {
	s := d.Scheme
	return law{
		nIn:       s.NumTraceFields(),
		nOut:      s.NumFields(),
		flux:      s.Flux,
		normal:    s.NormalFlux,
		numerical: s.NumericalFlux,
		boundary:  s.BoundaryState,
	}
}

// gradientLaw is q_ν + ∇·(-u e_ν) = 0, the auxiliary system of the heat
// equation.
func (d *Discretization) gradientLaw() law {
	s := d.Scheme
	return law{
		nIn:  1,
		nOut: d.Dim,
		flux: func(state []float64, mu int, out []float64) {
			s.GradientFlux(state[0], mu, out)
		},
		normal: func(state, n, out []float64) {
			s.GradientNormalFlux(state[0], n, out)
		},
		numerical: func(minus, plus, n, out []float64) {
			s.GradientNumericalFlux(minus[0], plus[0], n, out)
		},
		boundary: s.BoundaryState,
	}
}

// ComputeRHS evaluates U_t in the configured form.
func (d *Discretization) ComputeRHS(U State) State {
	return d.RHSAt(0, U, d.opts.Form)
}

// ComputeRHSAt evaluates U_t at time t, which only the source sees.
func (d *Discretization) ComputeRHSAt(t float64, U State) State {
	return d.RHSAt(t, U, d.opts.Form)
}

// RHS evaluates U_t in the given form. Weak:
//
//	M U_t = Σ_μ S_μᵀ F_μ - Σ_f MF_f (F·n)*
//
// Strong:
//
//	M U_t = -Σ_μ S_μ F_μ + Σ_f MF_f ((F·n)⁻ - (F·n)*)
//
// Heat first recovers q = ∇u from the auxiliary system, then evaluates
// u_t = κ ∇·q with q carried as extra trace fields.
func (d *Discretization) RHS(U State, form Form) State {
	return d.RHSAt(0, U, form)
}

func (d *Discretization) RHSAt(t float64, U State, form Form) (out State) {
	if d.Scheme.Family == flux.Heat {
		q := d.apply(d.gradientLaw(), U[:1], form)
		out = d.apply(d.schemeLaw(), append(State{U[0]}, q...), form)
	} else {
		out = d.apply(d.schemeLaw(), U, form)
	}
	if d.opts.Source != nil {
		d.addSource(t, out)
	}
	return
}

func (d *Discretization) addSource(t float64, out State) {
	_ = d.pm.ForEach(context.Background(), func(_ context.Context, k int) error {
		var (
			x = make([]float64, d.Dim)
			s = make([]float64, len(out))
		)
		for i := 0; i < d.Np; i++ {
			for mu := range x {
				x[mu] = d.X[mu].At(i, k)
			}
			d.opts.Source(t, x, s)
			for fld := range out {
				out[fld].Set(i, k, out[fld].At(i, k)+s[fld])
			}
		}
		return nil
	})
}

func (d *Discretization) apply(lw law, in State, form Form) (out State) {
	out = NewState(lw.nOut, d.Np, d.K)
	_ = d.pm.ForEach(context.Background(), func(_ context.Context, k int) error {
		d.elementRHS(k, lw, in, out, form)
		return nil
	})
	return
}

// elementRHS reads neighbor traces and writes only column k of out.
func (d *Discretization) elementRHS(k int, lw law, in, out State, form Form) {
	var (
		eo    = d.Ops[k]
		Np    = d.Np
		u     = make([][]float64, lw.nIn)
		rhs   = make([][]float64, lw.nOut)
		Fmu   = make([][]float64, lw.nOut)
		F     = make([]float64, lw.nOut)
		Fm    = make([]float64, lw.nOut)
		state = make([]float64, lw.nIn)
		plus  = make([]float64, lw.nIn)
	)
	for fld := range u {
		u[fld] = in[fld].Col(k)
	}
	for eq := range rhs {
		rhs[eq] = make([]float64, Np)
		Fmu[eq] = make([]float64, Np)
	}
	for mu := 0; mu < d.Dim; mu++ {
		for i := 0; i < Np; i++ {
			gather(u, i, state)
			lw.flux(state, mu, F)
			for eq := range F {
				Fmu[eq][i] = F[eq]
			}
		}
		for eq := range rhs {
			switch form {
			case Weak:
				addMulT(rhs[eq], eo.S[mu], Fmu[eq], 1)
			case Strong:
				addMul(rhs[eq], eo.S[mu], Fmu[eq], -1)
			}
		}
	}
	for f, face := range eo.Faces {
		var (
			rec  = d.Faces[k][f]
			jump = make([][]float64, lw.nOut)
		)
		for eq := range jump {
			jump[eq] = make([]float64, len(face.Fmask))
		}
		for l, i := range face.Fmask {
			gather(u, i, state)
			if rec.IsBoundary() {
				lw.boundary(d.boundary(rec.BoundaryTag), state, face.Normal, plus)
			} else {
				j := d.mapP[k][f][l]
				for fld := range plus {
					plus[fld] = in[fld].At(j, rec.Neighbor)
				}
			}
			lw.numerical(state, plus, face.Normal, F)
			if form == Strong {
				lw.normal(state, face.Normal, Fm)
				for eq := range jump {
					jump[eq][l] = Fm[eq] - F[eq]
				}
			} else {
				for eq := range jump {
					jump[eq][l] = -F[eq]
				}
			}
		}
		for eq := range rhs {
			lifted := face.MF.MulVec(jump[eq])
			for a, ia := range face.Fmask {
				rhs[eq][ia] += lifted[a]
			}
		}
	}
	for eq := range rhs {
		out[eq].SetCol(k, eo.Minv.MulVec(rhs[eq]))
	}
}

func gather(u [][]float64, i int, state []float64) {
	for fld := range u {
		state[fld] = u[fld][i]
	}
}

// addMul accumulates y += s A x.
func addMul(y []float64, A utils.Matrix, x []float64, s float64) {
	for i, v := range A.MulVec(x) {
		y[i] += s * v
	}
}

// addMulT accumulates y += s Aᵀ x.
func addMulT(y []float64, A utils.Matrix, x []float64, s float64) {
	var (
		nr, nc = A.Dims()
	)
	for j := 0; j < nc; j++ {
		var sum float64
		for i := 0; i < nr; i++ {
			sum += A.At(i, j) * x[i]
		}
		y[j] += s * sum
	}
}
