package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"
	"gonum.org/v1/gonum/mat"
)

// Matrix wraps a row-major gonum Dense with chainable helpers and an
// optional read-only guard for operators shared between goroutines.
type Matrix struct {
	M        *mat.Dense
	readOnly bool
	name     string
}

func NewMatrix(nr, nc int, dataO ...[]float64) (R Matrix) {
	var m *mat.Dense
	if len(dataO) != 0 {
		if len(dataO[0]) != nr*nc {
			panic(fmt.Errorf("mismatch in allocation: NewMatrix nr,nc = %v,%v, len(data[0]) = %v",
				nr, nc, len(dataO[0])))
		}
		m = mat.NewDense(nr, nc, dataO[0])
	} else {
		m = mat.NewDense(nr, nc, make([]float64, nr*nc))
	}
	R = Matrix{
		M:    m,
		name: "unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// NewIdentity returns the n x n identity.
func NewIdentity(n int) (R Matrix) {
	R = NewMatrix(n, n)
	for i := 0; i < n; i++ {
		R.M.Set(i, i, 1)
	}
	return
}

// Dims, At and T satisfy the mat.Matrix interface.
func (m Matrix) Dims() (r, c int)          { return m.M.Dims() }
func (m Matrix) At(i, j int) float64       { return m.M.At(i, j) }
func (m Matrix) T() mat.Matrix             { return m.M.T() }
func (m Matrix) RawMatrix() blas64.General { return m.M.RawMatrix() }
func (m Matrix) DataP() []float64          { return m.M.RawMatrix().Data }

func (m *Matrix) SetReadOnly(name ...string) Matrix {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

func (m Matrix) String() string {
	return fmt.Sprintf("%v", mat.Formatted(m.M, mat.Squeeze()))
}

func (m Matrix) Copy() (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
		dataR  = make([]float64, nr*nc)
	)
	copy(dataR, m.DataP())
	R = NewMatrix(nr, nc, dataR)
	return
}

func (m Matrix) Transpose() (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
	)
	R = NewMatrix(nc, nr)
	R.M.Copy(m.M.T())
	return
}

func (m Matrix) Mul(A Matrix) (R Matrix) { // Does not change receiver
	var (
		nrM, _ = m.M.Dims()
		_, ncA = A.M.Dims()
	)
	R = NewMatrix(nrM, ncA)
	R.M.Mul(m.M, A.M)
	return R
}

// MulVec returns m*x in a fresh slice.
func (m Matrix) MulVec(x []float64) (y []float64) {
	var (
		nr, nc = m.Dims()
		data   = m.DataP()
	)
	if len(x) != nc {
		panic(fmt.Errorf("dimension mismatch: %d columns, vector length %d", nc, len(x)))
	}
	y = make([]float64, nr)
	for i := 0; i < nr; i++ {
		row := data[i*nc : (i+1)*nc]
		var sum float64
		for j, v := range row {
			sum += v * x[j]
		}
		y[i] = sum
	}
	return
}

func (m Matrix) SliceCols(I Index) (R Matrix) { // Does not change receiver
	var (
		nr, _ = m.Dims()
	)
	R = NewMatrix(nr, len(I))
	for i := 0; i < nr; i++ {
		for j, ind := range I {
			R.M.Set(i, j, m.M.At(i, ind))
		}
	}
	return
}

func (m Matrix) Set(i, j int, val float64) Matrix { // Changes receiver
	m.checkWritable()
	m.M.Set(i, j, val)
	return m
}

func (m Matrix) SetCol(j int, data []float64) Matrix { // Changes receiver
	m.checkWritable()
	m.M.SetCol(j, data)
	return m
}

func (m Matrix) Add(A Matrix) Matrix { // Changes receiver
	m.checkWritable()
	m.M.Add(m.M, A.M)
	return m
}

func (m Matrix) Subtract(A Matrix) Matrix { // Changes receiver
	m.checkWritable()
	m.M.Sub(m.M, A.M)
	return m
}

func (m Matrix) Scale(a float64) Matrix { // Changes receiver
	m.checkWritable()
	m.M.Scale(a, m.M)
	return m
}

func (m Matrix) Apply(f func(float64) float64) Matrix { // Changes receiver
	m.checkWritable()
	data := m.DataP()
	for i, val := range data {
		data[i] = f(val)
	}
	return m
}

// Col returns a copy of column j.
func (m Matrix) Col(j int) (col []float64) {
	var (
		nr, _ = m.Dims()
	)
	col = make([]float64, nr)
	mat.Col(col, j, m.M)
	return
}

// Row returns a copy of row i.
func (m Matrix) Row(i int) (row []float64) {
	var (
		_, nc = m.Dims()
	)
	row = make([]float64, nc)
	copy(row, m.M.RawRowView(i))
	return
}

func (m Matrix) MaxAbs() (max float64) {
	for _, val := range m.DataP() {
		max = math.Max(max, math.Abs(val))
	}
	return
}

func (m Matrix) Inverse() (R Matrix, err error) {
	var (
		nr, nc = m.Dims()
	)
	if nr != nc {
		err = fmt.Errorf("unable to invert a %d x %d matrix", nr, nc)
		return
	}
	R = m.Copy()
	iPiv := make([]int, nr)
	if ok := lapack64.Getrf(R.RawMatrix(), iPiv); !ok {
		err = fmt.Errorf("unable to invert, matrix is singular")
		return
	}
	work := make([]float64, nr*nc)
	if ok := lapack64.Getri(R.RawMatrix(), iPiv, work, nr*nc); !ok {
		err = fmt.Errorf("unable to invert, matrix is singular")
	}
	return
}

// ConditionNumber is the 1-norm condition estimate from an LU
// factorization. A singular matrix reports +Inf.
func (m Matrix) ConditionNumber() float64 {
	var lu mat.LU
	lu.Factorize(m.M)
	return lu.Cond()
}

// SymmetryError is max|a_ij - a_ji| relative to max|a_ij|.
func (m Matrix) SymmetryError() float64 {
	var (
		nr, nc = m.Dims()
		scale  = m.MaxAbs()
		diff   float64
	)
	if nr != nc {
		return math.Inf(1)
	}
	if scale == 0 {
		return 0
	}
	for i := 0; i < nr; i++ {
		for j := i + 1; j < nc; j++ {
			diff = math.Max(diff, math.Abs(m.M.At(i, j)-m.M.At(j, i)))
		}
	}
	return diff / scale
}

// Symmetrize replaces m with (m + mᵀ)/2.
func (m Matrix) Symmetrize() Matrix { // Changes receiver
	m.checkWritable()
	nr, _ := m.Dims()
	for i := 0; i < nr; i++ {
		for j := i + 1; j < nr; j++ {
			avg := 0.5 * (m.M.At(i, j) + m.M.At(j, i))
			m.M.Set(i, j, avg)
			m.M.Set(j, i, avg)
		}
	}
	return m
}

// IsPositiveDefinite attempts a Cholesky factorization of the symmetric
// part of m.
func (m Matrix) IsPositiveDefinite() bool {
	var (
		nr, nc = m.Dims()
	)
	if nr != nc {
		return false
	}
	sym := mat.NewSymDense(nr, nil)
	for i := 0; i < nr; i++ {
		for j := i; j < nr; j++ {
			sym.SetSym(i, j, 0.5*(m.M.At(i, j)+m.M.At(j, i)))
		}
	}
	var chol mat.Cholesky
	return chol.Factorize(sym)
}

func (m Matrix) checkWritable() {
	if m.readOnly {
		panic(fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name))
	}
}
