// SPDX-License-Identifier: MIT

package reference

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lawt/compute"
	"github.com/katalvlaran/lawt/matrix"
)

// jacobiMaxOrder is the largest symmetric order handed to the Jacobi kernel;
// bigger symmetric matrices use gonum's tridiagonal QL solver.
const jacobiMaxOrder = 64

// eigen decomposes a square matrix. Values come back in ascending order
// (by real part, then imaginary part); when withVectors is set, row i of the
// returned vectors is the eigenvector of values[i].
func (e *Executor) eigen(a *matrix.Dense, withVectors bool) ([]complex128, [][]complex128, error) {
	if err := matrix.ValidateSquare(a); err != nil {
		return nil, nil, fmt.Errorf("%w: %s is not square", compute.ErrEigenComputation, shape(a))
	}

	sym, err := matrix.IsSymmetric(a, e.symTol)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", compute.ErrEigenComputation, err)
	}

	var values []complex128
	var vectors [][]complex128
	switch {
	case sym && a.Rows() <= jacobiMaxOrder:
		values, vectors, err = e.symmetricEigen(a)
	case sym:
		values, vectors, err = largeSymmetricEigen(a, withVectors)
	default:
		values, vectors, err = generalEigen(a, withVectors)
	}
	if err != nil {
		return nil, nil, err
	}
	if !compute.EigenResult(values, vectors).Finite() {
		return nil, nil, fmt.Errorf("%w: result exceeds the floating-point range", compute.ErrEigenComputation)
	}

	return values, vectors, nil
}

// symmetricEigen runs the Jacobi kernel; the spectrum is real.
func (e *Executor) symmetricEigen(a *matrix.Dense) ([]complex128, [][]complex128, error) {
	vals, vecs, err := matrix.Eigen(a, e.kernel...)
	if errors.Is(err, matrix.ErrMatrixEigenFailed) {
		return nil, nil, fmt.Errorf("%w: iteration did not converge", compute.ErrEigenComputation)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", compute.ErrEigenComputation, err)
	}

	n := len(vals)
	values := make([]complex128, n)
	vectors := make([][]complex128, n)
	var v float64
	for k := 0; k < n; k++ {
		values[k] = complex(vals[k], 0)
		vectors[k] = make([]complex128, n)
		for i := 0; i < n; i++ {
			v, _ = vecs.At(i, k)
			vectors[k][i] = complex(v, 0)
		}
	}

	return values, vectors, nil
}

// largeSymmetricEigen uses gonum's symmetric solver; values come back ascending.
func largeSymmetricEigen(a *matrix.Dense, withVectors bool) ([]complex128, [][]complex128, error) {
	n := a.Rows()
	sym := mat.NewSymDense(n, nil)
	var v float64
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v, _ = a.At(i, j)
			sym.SetSym(i, j, v)
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(sym, withVectors); !ok {
		return nil, nil, fmt.Errorf("%w: iteration did not converge", compute.ErrEigenComputation)
	}
	vals := eig.Values(nil)
	values := make([]complex128, n)
	for k, x := range vals {
		values[k] = complex(x, 0)
	}
	if !withVectors {
		return values, nil, nil
	}

	var cols mat.Dense
	eig.VectorsTo(&cols)
	vectors := make([][]complex128, n)
	for k := 0; k < n; k++ {
		vectors[k] = make([]complex128, n)
		for i := 0; i < n; i++ {
			vectors[k][i] = complex(cols.At(i, k), 0)
		}
	}

	return values, vectors, nil
}

// generalEigen uses gonum's real nonsymmetric solver (LAPACK Dgeev port).
func generalEigen(a *matrix.Dense, withVectors bool) ([]complex128, [][]complex128, error) {
	n := a.Rows()
	flat := make([]float64, 0, n*n)
	for _, row := range a.ToRows() {
		flat = append(flat, row...)
	}

	kind := mat.EigenNone
	if withVectors {
		kind = mat.EigenRight
	}
	var eig mat.Eigen
	if ok := eig.Factorize(mat.NewDense(n, n, flat), kind); !ok {
		return nil, nil, fmt.Errorf("%w: iteration did not converge", compute.ErrEigenComputation)
	}
	vals := eig.Values(nil)

	var cols mat.CDense
	if withVectors {
		eig.VectorsTo(&cols)
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool {
		vx, vy := vals[order[x]], vals[order[y]]
		if real(vx) != real(vy) {
			return real(vx) < real(vy)
		}

		return imag(vx) < imag(vy)
	})

	values := make([]complex128, n)
	var vectors [][]complex128
	if withVectors {
		vectors = make([][]complex128, n)
	}
	for k, src := range order {
		values[k] = vals[src]
		if !withVectors {
			continue
		}
		// Column src of the decomposition becomes row k.
		vectors[k] = make([]complex128, n)
		for i := 0; i < n; i++ {
			vectors[k][i] = cols.At(i, src)
		}
	}

	return values, vectors, nil
}
