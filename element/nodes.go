package element

import (
	"fmt"
	"math"

	"github.com/notargets/simplexdg/quadrature"
)

// Nodes returns the degree N nodal set on the reference simplex, R[ν][i].
// 1D uses the Gauss-Lobatto-Legendre points, 2D and 3D the warp and blend
// construction of Hesthaven and Warburton.
func Nodes(dim, N int) (R [][]float64, err error) {
	if N < 0 {
		err = fmt.Errorf("polynomial degree must be non negative, have %d", N)
		return
	}
	if N == 0 {
		return centroid(dim), nil
	}
	switch dim {
	case 1:
		var x []float64
		if x, err = quadrature.GaussLobatto(0, 0, N); err != nil {
			return
		}
		R = [][]float64{x}
		return
	case 2, 3:
		var (
			xyz [][]float64
			ac  AffineCoefficients
		)
		if dim == 2 {
			xyz, err = warpBlend2D(N)
		} else {
			xyz, err = warpBlend3D(N)
		}
		if err != nil {
			return
		}
		if ac, err = EquilateralMap(dim); err != nil {
			return
		}
		R = make([][]float64, dim)
		for nu := range R {
			R[nu] = make([]float64, len(xyz[0]))
		}
		p := make([]float64, dim)
		for i := range xyz[0] {
			for nu := 0; nu < dim; nu++ {
				p[nu] = xyz[nu][i]
			}
			r := ac.Apply(p)
			for nu := 0; nu < dim; nu++ {
				R[nu][i] = r[nu]
			}
		}
		return
	}
	err = fmt.Errorf("unsupported element dimension %d", dim)
	return
}

// EquiNodes are equispaced nodes on the reference simplex, in the same
// ordering as Nodes.
func EquiNodes(dim, N int) (R [][]float64) {
	if N == 0 {
		return centroid(dim)
	}
	R = make([][]float64, dim)
	h := 2 / float64(N)
	switch dim {
	case 1:
		for i := 0; i <= N; i++ {
			R[0] = append(R[0], -1+float64(i)*h)
		}
	case 2:
		for n := 0; n <= N; n++ {
			for m := 0; m <= N-n; m++ {
				R[0] = append(R[0], -1+float64(m)*h)
				R[1] = append(R[1], -1+float64(n)*h)
			}
		}
	case 3:
		for n := 0; n <= N; n++ {
			for m := 0; m <= N-n; m++ {
				for q := 0; q <= N-n-m; q++ {
					R[0] = append(R[0], -1+float64(q)*h)
					R[1] = append(R[1], -1+float64(m)*h)
					R[2] = append(R[2], -1+float64(n)*h)
				}
			}
		}
	}
	return
}

func centroid(dim int) (R [][]float64) {
	R = make([][]float64, dim)
	c := -1 + 2/float64(dim+1)
	for nu := range R {
		R[nu] = []float64{c}
	}
	return
}

// warpFactor interpolates the displacement from equispaced to
// Gauss-Lobatto points at rout and divides by the edge blend 1-r^2.
func warpFactor(N int, lgl, rout []float64) (warp []float64) {
	var (
		req = make([]float64, N+1)
	)
	for i := range req {
		req[i] = -1 + 2*float64(i)/float64(N)
	}
	warp = make([]float64, len(rout))
	for m, r := range rout {
		var w float64
		for i := 0; i <= N; i++ {
			l := 1.
			for j := 0; j <= N; j++ {
				if j != i {
					l *= (r - req[j]) / (req[i] - req[j])
				}
			}
			w += (lgl[i] - req[i]) * l
		}
		if math.Abs(r) < 1-1.e-10 {
			w /= 1 - r*r
		} else {
			w = 0
		}
		warp[m] = w
	}
	return
}

// Optimized blend parameters, by degree
var (
	alphaOpt2D = []float64{
		0.0000, 0.0000, 1.4152, 0.1001, 0.2751,
		0.9800, 1.0999, 1.2832, 1.3648, 1.4773,
		1.4959, 1.5743, 1.5770, 1.6223, 1.6258,
	}
	alphaOpt3D = []float64{
		0.0000, 0.0000, 0.0000, 0.1002, 1.1332,
		1.5608, 1.3413, 1.2577, 1.1603, 1.10153,
		0.6080, 0.4523, 0.8856, 0.8717, 0.9655,
	}
)

// warpBlend2D returns nodes on the equilateral triangle.
func warpBlend2D(N int) (xy [][]float64, err error) {
	var (
		alpha = 5. / 3.
		Np    = (N + 1) * (N + 2) / 2
		lgl   []float64
		L1    = make([]float64, Np)
		L2    = make([]float64, Np)
		L3    = make([]float64, Np)
		x     = make([]float64, Np)
		y     = make([]float64, Np)
		s3    = math.Sqrt(3)
	)
	if N <= len(alphaOpt2D) {
		alpha = alphaOpt2D[N-1]
	}
	if lgl, err = quadrature.GaussLobatto(0, 0, N); err != nil {
		return
	}
	var sk int
	for n := 0; n <= N; n++ {
		for m := 0; m <= N-n; m++ {
			L1[sk] = float64(n) / float64(N)
			L3[sk] = float64(m) / float64(N)
			L2[sk] = 1 - L1[sk] - L3[sk]
			x[sk] = L3[sk] - L2[sk]
			y[sk] = (2*L1[sk] - L3[sk] - L2[sk]) / s3
			sk++
		}
	}
	d32, d13, d21 := make([]float64, Np), make([]float64, Np), make([]float64, Np)
	for i := 0; i < Np; i++ {
		d32[i], d13[i], d21[i] = L3[i]-L2[i], L1[i]-L3[i], L2[i]-L1[i]
	}
	wf1, wf2, wf3 := warpFactor(N, lgl, d32), warpFactor(N, lgl, d13), warpFactor(N, lgl, d21)
	for i := 0; i < Np; i++ {
		w1 := 4 * L2[i] * L3[i] * wf1[i] * (1 + (alpha*L1[i])*(alpha*L1[i]))
		w2 := 4 * L1[i] * L3[i] * wf2[i] * (1 + (alpha*L2[i])*(alpha*L2[i]))
		w3 := 4 * L1[i] * L2[i] * wf3[i] * (1 + (alpha*L3[i])*(alpha*L3[i]))
		x[i] += w1 + math.Cos(2*math.Pi/3)*w2 + math.Cos(4*math.Pi/3)*w3
		y[i] += math.Sin(2*math.Pi/3)*w2 + math.Sin(4*math.Pi/3)*w3
	}
	xy = [][]float64{x, y}
	return
}

// faceShift is the tangential warp of a tetrahedron face with barycentric
// coordinates (L1, L2, L3) and blend parameter alpha.
func faceShift(N int, alpha float64, lgl, L1, L2, L3 []float64) (dx, dy []float64) {
	var (
		n             = len(L1)
		d32, d13, d21 = make([]float64, n), make([]float64, n), make([]float64, n)
	)
	for i := 0; i < n; i++ {
		d32[i], d13[i], d21[i] = L3[i]-L2[i], L1[i]-L3[i], L2[i]-L1[i]
	}
	wf1, wf2, wf3 := warpFactor(N, lgl, d32), warpFactor(N, lgl, d13), warpFactor(N, lgl, d21)
	dx, dy = make([]float64, n), make([]float64, n)
	for i := 0; i < n; i++ {
		w1 := 4 * L2[i] * L3[i] * wf1[i] * (1 + (alpha*L1[i])*(alpha*L1[i]))
		w2 := 4 * L1[i] * L3[i] * wf2[i] * (1 + (alpha*L2[i])*(alpha*L2[i]))
		w3 := 4 * L1[i] * L2[i] * wf3[i] * (1 + (alpha*L3[i])*(alpha*L3[i]))
		dx[i] = w1 + math.Cos(2*math.Pi/3)*w2 + math.Cos(4*math.Pi/3)*w3
		dy[i] = math.Sin(2*math.Pi/3)*w2 + math.Sin(4*math.Pi/3)*w3
	}
	return
}

// warpBlend3D returns nodes on the equilateral tetrahedron.
func warpBlend3D(N int) (xyz [][]float64, err error) {
	var (
		alpha = 1.
		tol   = 1.e-10
		eq    = EquiNodes(3, N)
		Np    = len(eq[0])
		lgl   []float64
		v     = EquilateralVertices(3)
		L     = [4][]float64{}
	)
	if N <= len(alphaOpt3D) {
		alpha = alphaOpt3D[N-1]
	}
	if lgl, err = quadrature.GaussLobatto(0, 0, N); err != nil {
		return
	}
	for b := range L {
		L[b] = make([]float64, Np)
	}
	for i := 0; i < Np; i++ {
		r, s, t := eq[0][i], eq[1][i], eq[2][i]
		L[0][i] = 0.5 * (1 + t)
		L[1][i] = 0.5 * (1 + s)
		L[2][i] = -0.5 * (1 + r + s + t)
		L[3][i] = 0.5 * (1 + r)
	}
	sub := func(a, b []float64) []float64 { return []float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }
	mid := func(a, b []float64) []float64 {
		return []float64{0.5 * (a[0] + b[0]), 0.5 * (a[1] + b[1]), 0.5 * (a[2] + b[2])}
	}
	unit := func(a []float64) []float64 {
		n := math.Sqrt(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])
		return []float64{a[0] / n, a[1] / n, a[2] / n}
	}
	// tangent directions per face
	t1 := [4][]float64{
		unit(sub(v[1], v[0])), unit(sub(v[1], v[0])), unit(sub(v[2], v[1])), unit(sub(v[2], v[0])),
	}
	t2 := [4][]float64{
		unit(sub(v[2], mid(v[0], v[1]))), unit(sub(v[3], mid(v[0], v[1]))),
		unit(sub(v[3], mid(v[1], v[2]))), unit(sub(v[3], mid(v[0], v[2]))),
	}
	xyz = [][]float64{make([]float64, Np), make([]float64, Np), make([]float64, Np)}
	for i := 0; i < Np; i++ {
		for d := 0; d < 3; d++ {
			xyz[d][i] = L[2][i]*v[0][d] + L[3][i]*v[1][d] + L[1][i]*v[2][d] + L[0][i]*v[3][d]
		}
	}
	// barycentric roles (La, Lb, Lc, Ld) per face
	roles := [4][4]int{{0, 1, 2, 3}, {1, 0, 2, 3}, {2, 0, 3, 1}, {3, 0, 2, 1}}
	shift := [][]float64{make([]float64, Np), make([]float64, Np), make([]float64, Np)}
	for face := 0; face < 4; face++ {
		La, Lb, Lc, Ld := L[roles[face][0]], L[roles[face][1]], L[roles[face][2]], L[roles[face][3]]
		w1, w2 := faceShift(N, alpha, lgl, Lb, Lc, Ld)
		for i := 0; i < Np; i++ {
			blend := Lb[i] * Lc[i] * Ld[i]
			denom := (Lb[i] + 0.5*La[i]) * (Lc[i] + 0.5*La[i]) * (Ld[i] + 0.5*La[i])
			if denom > tol {
				blend = (1 + (alpha*La[i])*(alpha*La[i])) * blend / denom
			}
			for d := 0; d < 3; d++ {
				shift[d][i] += blend*w1[i]*t1[face][d] + blend*w2[i]*t2[face][d]
			}
			var nPos int
			for _, Lx := range []float64{Lb[i], Lc[i], Ld[i]} {
				if Lx > tol {
					nPos++
				}
			}
			// edge nodes of this face take the face warp directly
			if La[i] < tol && nPos < 3 {
				for d := 0; d < 3; d++ {
					shift[d][i] = w1[i]*t1[face][d] + w2[i]*t2[face][d]
				}
			}
		}
	}
	for d := 0; d < 3; d++ {
		for i := 0; i < Np; i++ {
			xyz[d][i] += shift[d][i]
		}
	}
	return
}
