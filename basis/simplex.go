package basis

import (
	"math"

	"github.com/notargets/simplexdg/utils"
)

// RStoAB maps the reference triangle onto the collapsed square.
func RStoAB(r, s []float64) (a, b []float64) {
	a = make([]float64, len(r))
	b = make([]float64, len(r))
	for i := range r {
		if s[i] != 1 {
			a[i] = 2*(1+r[i])/(1-s[i]) - 1
		} else {
			a[i] = -1
		}
		b[i] = s[i]
	}
	return
}

// RSTtoABC maps the reference tetrahedron onto the collapsed cube.
func RSTtoABC(r, s, t []float64) (a, b, c []float64) {
	n := len(r)
	a, b, c = make([]float64, n), make([]float64, n), make([]float64, n)
	for i := 0; i < n; i++ {
		if s[i]+t[i] != 0 {
			a[i] = 2*(1+r[i])/(-s[i]-t[i]) - 1
		} else {
			a[i] = -1
		}
		if t[i] != 1 {
			b[i] = 2*(1+s[i])/(1-t[i]) - 1
		} else {
			b[i] = -1
		}
		c[i] = t[i]
	}
	return
}

// Simplex2DP evaluates the orthonormal mode (i,j) on the triangle at
// collapsed coordinates (a,b).
func Simplex2DP(a, b []float64, i, j int) (P []float64) {
	var (
		h1 = JacobiP(a, 0, 0, i)
		h2 = JacobiP(b, float64(2*i+1), 0, j)
	)
	P = make([]float64, len(a))
	for m := range a {
		P[m] = math.Sqrt2 * h1[m] * h2[m] * utils.POW(1-b[m], i)
	}
	return
}

func GradSimplex2DP(r, s []float64, id, jd int) (ddr, dds []float64) {
	var (
		a, b = RStoAB(r, s)
		fa   = JacobiP(a, 0, 0, id)
		dfa  = GradJacobiP(a, 0, 0, id)
		gb   = JacobiP(b, float64(2*id+1), 0, jd)
		dgb  = GradJacobiP(b, float64(2*id+1), 0, jd)
		norm = math.Pow(2, float64(id)+0.5)
	)
	ddr, dds = make([]float64, len(r)), make([]float64, len(r))
	for m := range r {
		hb := 0.5 * (1 - b[m])
		dr := dfa[m] * gb[m]
		if id > 0 {
			dr *= utils.POW(hb, id-1)
		}
		ds := 0.5 * (1 + a[m]) * dr
		tmp := dgb[m] * utils.POW(hb, id)
		if id > 0 {
			tmp -= 0.5 * float64(id) * gb[m] * utils.POW(hb, id-1)
		}
		ds += fa[m] * tmp
		ddr[m], dds[m] = dr*norm, ds*norm
	}
	return
}

// Simplex3DP evaluates the orthonormal mode (i,j,k) on the tetrahedron at
// collapsed coordinates (a,b,c).
func Simplex3DP(a, b, c []float64, i, j, k int) (P []float64) {
	var (
		h1 = JacobiP(a, 0, 0, i)
		h2 = JacobiP(b, float64(2*i+1), 0, j)
		h3 = JacobiP(c, float64(2*(i+j)+2), 0, k)
	)
	P = make([]float64, len(a))
	for m := range a {
		P[m] = 2 * math.Sqrt2 * h1[m] * h2[m] * utils.POW(1-b[m], i) * h3[m] * utils.POW(1-c[m], i+j)
	}
	return
}

func GradSimplex3DP(r, s, t []float64, id, jd, kd int) (ddr, dds, ddt []float64) {
	var (
		a, b, c = RSTtoABC(r, s, t)
		fa      = JacobiP(a, 0, 0, id)
		dfa     = GradJacobiP(a, 0, 0, id)
		gb      = JacobiP(b, float64(2*id+1), 0, jd)
		dgb     = GradJacobiP(b, float64(2*id+1), 0, jd)
		hc      = JacobiP(c, float64(2*(id+jd)+2), 0, kd)
		dhc     = GradJacobiP(c, float64(2*(id+jd)+2), 0, kd)
		norm    = math.Pow(2, float64(2*id+jd)+1.5)
		n       = len(r)
	)
	ddr, dds, ddt = make([]float64, n), make([]float64, n), make([]float64, n)
	for m := 0; m < n; m++ {
		var (
			hb  = 0.5 * (1 - b[m])
			hc2 = 0.5 * (1 - c[m])
		)
		dr := dfa[m] * gb[m] * hc[m]
		if id > 0 {
			dr *= utils.POW(hb, id-1)
		}
		if id+jd > 0 {
			dr *= utils.POW(hc2, id+jd-1)
		}

		ds := 0.5 * (1 + a[m]) * dr
		tmp := dgb[m] * utils.POW(hb, id)
		if id > 0 {
			tmp -= 0.5 * float64(id) * gb[m] * utils.POW(hb, id-1)
		}
		if id+jd > 0 {
			tmp *= utils.POW(hc2, id+jd-1)
		}
		tmp = fa[m] * tmp * hc[m]
		ds += tmp

		dt := 0.5*(1+a[m])*dr + 0.5*(1+b[m])*tmp
		tmp = dhc[m] * utils.POW(hc2, id+jd)
		if id+jd > 0 {
			tmp -= 0.5 * float64(id+jd) * hc[m] * utils.POW(hc2, id+jd-1)
		}
		dt += fa[m] * gb[m] * tmp * utils.POW(hb, id)

		ddr[m], dds[m], ddt[m] = dr*norm, ds*norm, dt*norm
	}
	return
}
