// SPDX-License-Identifier: MIT

// Package matrix - linear-algebra kernels.
//
// Purpose:
//   - Elementwise Add, Transpose and the Mul product.
//   - Packed LU with partial pivoting (PA = LU) and Inverse built on it.
//   - Symmetric eigen-decomposition by Jacobi rotations.
//
// Behavior highlights:
//   - Every kernel validates first, allocates one fresh Dense result and never
//     mutates its operands.
//   - *Dense operands take a flat-slice fast-path; other Matrix implementations
//     fall back to At/Set with the same i→j order, so both paths agree bitwise.
//   - Errors are sentinels wrapped with the operation tag (matrixErrorf).
//   - Add and Mul reject results that overflow float64 with ErrNaNInf.

package matrix

import (
	"fmt"
	"math"
	"sort"
)

// Operation tags used in error wrapping.
const (
	opAdd       = "Add"
	opMul       = "Mul"
	opTranspose = "Transpose"
	opInverse   = "Inverse"
	opEigen     = "Eigen"
)

// ZeroSum is the accumulator seed for dot products.
const ZeroSum = 0.0

// matrixErrorf wraps err with an operation tag, keeping errors.Is working.
// Callers must pass a non-nil err.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// toDense returns m itself when it is already *Dense, otherwise a Dense copy.
// Kernels that work in place on a scratch buffer use it after Clone.
func toDense(m Matrix, tag string) (*Dense, error) {
	if d, ok := m.(*Dense); ok {
		return d, nil
	}
	r, c := m.Rows(), m.Cols()
	out, err := NewDense(r, c)
	if err != nil {
		return nil, matrixErrorf(tag, err)
	}
	var v float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(tag, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			out.data[i*c+j] = v
		}
	}

	return out, nil
}

// Add computes the element-wise sum C = A + B and returns a fresh Dense result.
//
// Errors:
//   - ErrNilMatrix (nil input), ErrDimensionMismatch (shape mismatch).
//   - ErrNaNInf when a sum overflows.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func Add(a, b Matrix) (Matrix, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return nil, matrixErrorf(opAdd, err)
	}

	rows, cols := a.Rows(), a.Cols()
	res, err := NewDense(rows, cols)
	if err != nil {
		return nil, matrixErrorf(opAdd, err)
	}

	// Fast path: *Dense with *Dense → single flat loop.
	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			for idx := range res.data {
				res.data[idx] = da.data[idx] + db.data[idx]
			}

			if err = res.checkFinite(opAdd); err != nil {
				return nil, err
			}

			return res, nil
		}
	}

	var i, j int
	var av, bv float64
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			if av, err = a.At(i, j); err != nil {
				return nil, matrixErrorf(opAdd, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			if bv, err = b.At(i, j); err != nil {
				return nil, matrixErrorf(opAdd, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			if err = res.Set(i, j, av+bv); err != nil {
				return nil, matrixErrorf(opAdd, fmt.Errorf("Set(%d,%d): %w", i, j, err))
			}
		}
	}

	return res, nil
}

// Mul computes the matrix product C = A·B.
// Implementation:
//   - Stage 1: ValidateMulCompatible(a, b); allocate Dense(a.Rows, b.Cols).
//   - Stage 2: *Dense fast-path in i-k-j order (row streaming over B);
//     fallback triple loop i-j-k through At.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (a.Cols != b.Rows).
//   - ErrNaNInf when a product or partial sum overflows.
//
// Complexity:
//   - Time O(r·k·c), Space O(r·c).
func Mul(a, b Matrix) (Matrix, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	aRows, aCols, bCols := a.Rows(), a.Cols(), b.Cols()
	res, err := NewDense(aRows, bCols)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	var (
		i, j, k         int
		av, bv, current float64
	)
	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			var rowOffsetA, rowOffsetB, rowOffsetR int
			for i = 0; i < aRows; i++ {
				rowOffsetA = i * aCols
				rowOffsetR = i * bCols
				for k = 0; k < aCols; k++ {
					av = da.data[rowOffsetA+k]
					if av == 0 {
						continue
					}
					rowOffsetB = k * bCols
					for j = 0; j < bCols; j++ {
						res.data[rowOffsetR+j] += av * db.data[rowOffsetB+j]
					}
				}
			}

			if err = res.checkFinite(opMul); err != nil {
				return nil, err
			}

			return res, nil
		}
	}

	for i = 0; i < aRows; i++ {
		for j = 0; j < bCols; j++ {
			current = ZeroSum
			for k = 0; k < aCols; k++ {
				if av, err = a.At(i, k); err != nil {
					return nil, matrixErrorf(opMul, fmt.Errorf("At(%d,%d): %w", i, k, err))
				}
				if av == 0 {
					continue
				}
				if bv, err = b.At(k, j); err != nil {
					return nil, matrixErrorf(opMul, fmt.Errorf("At(%d,%d): %w", k, j, err))
				}
				current += av * bv
			}
			if err = res.Set(i, j, current); err != nil {
				return nil, matrixErrorf(opMul, fmt.Errorf("Set(%d,%d): %w", i, j, err))
			}
		}
	}

	return res, nil
}

// Transpose returns a new c×r matrix with out[j,i] = m[i,j].
// Complexity: Time O(r*c), Space O(r*c).
func Transpose(m Matrix) (Matrix, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}

	rows, cols := m.Rows(), m.Cols()
	res, err := NewDense(cols, rows)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}

	var i, j int
	if d, ok := m.(*Dense); ok {
		var base int
		for i = 0; i < rows; i++ {
			base = i * cols
			for j = 0; j < cols; j++ {
				res.data[j*rows+i] = d.data[base+j]
			}
		}

		return res, nil
	}

	var v float64
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opTranspose, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			if err = res.Set(j, i, v); err != nil {
				return nil, matrixErrorf(opTranspose, fmt.Errorf("Set(%d,%d): %w", j, i, err))
			}
		}
	}

	return res, nil
}

// luInPlace overwrites a (square) with its packed factors P·A = L·U and returns
// the row permutation: row i of P·A is row perm[i] of A. The multipliers of the
// unit lower L live strictly below the diagonal, U on and above it.
// For each column k the row with the largest |a[i,k]|, i ≥ k, is swapped in
// (Doolittle elimination). A pivot with |p| <= eps·max|A| is ErrSingular.
func luInPlace(a *Dense, eps float64) (*Dense, []int, error) {
	n := a.r
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	scale := a.maxAbs()
	if scale == 0 {
		return nil, nil, ErrSingular
	}
	threshold := eps * scale

	var (
		i, j, k, pivRow int
		piv, mag, f     float64
		rowK, rowI      int
	)
	for k = 0; k < n; k++ {
		pivRow, piv = k, math.Abs(a.data[k*n+k])
		for i = k + 1; i < n; i++ {
			if mag = math.Abs(a.data[i*n+k]); mag > piv {
				pivRow, piv = i, mag
			}
		}
		if piv <= threshold {
			return nil, nil, fmt.Errorf("pivot %d: |%g| <= %g: %w", k, piv, threshold, ErrSingular)
		}
		if pivRow != k {
			rowK, rowI = k*n, pivRow*n
			for j = 0; j < n; j++ {
				a.data[rowK+j], a.data[rowI+j] = a.data[rowI+j], a.data[rowK+j]
			}
			perm[k], perm[pivRow] = perm[pivRow], perm[k]
		}

		rowK = k * n
		for i = k + 1; i < n; i++ {
			rowI = i * n
			f = a.data[rowI+k] / a.data[rowK+k]
			a.data[rowI+k] = f
			if f == 0 {
				continue
			}
			for j = k + 1; j < n; j++ {
				a.data[rowI+j] -= f * a.data[rowK+j]
			}
		}
	}

	return a, perm, nil
}

// Inverse returns A⁻¹ for a square, non-singular matrix.
// Implementation:
//   - Stage 1: packed LU with partial pivoting (see luInPlace).
//   - Stage 2: for each unit vector e_j solve L·y = P·e_j, then U·x = y; x is column j.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrSingular (relative pivot test, WithEpsilon).
//   - ErrNaNInf if the solve overflows.
//
// Complexity:
//   - Time O(n³), Space O(n²).
func Inverse(m Matrix, opts ...Option) (Matrix, error) {
	if err := ValidateSquareNonNil(m); err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	o := gatherOptions(opts...)

	src, err := toDense(m.Clone(), opInverse)
	if err != nil {
		return nil, err
	}
	lu, perm, err := luInPlace(src, o.eps)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}

	n := lu.r
	inv, err := NewDense(n, n)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	x := make([]float64, n)
	var i, j, col int
	var sum float64
	for col = 0; col < n; col++ {
		// Forward substitution, unit diagonal: (P·e_col)[i] = 1 iff perm[i] == col.
		for i = 0; i < n; i++ {
			sum = ZeroSum
			if perm[i] == col {
				sum = 1
			}
			for j = 0; j < i; j++ {
				sum -= lu.data[i*n+j] * x[j]
			}
			x[i] = sum
		}
		// Back substitution against U.
		for i = n - 1; i >= 0; i-- {
			sum = x[i]
			for j = i + 1; j < n; j++ {
				sum -= lu.data[i*n+j] * x[j]
			}
			x[i] = sum / lu.data[i*n+i]
		}
		for i = 0; i < n; i++ {
			if math.IsNaN(x[i]) || math.IsInf(x[i], 0) {
				return nil, matrixErrorf(opInverse, denseErrorf(ctxSet, i, col, ErrNaNInf))
			}
			inv.data[i*n+col] = x[i]
		}
	}

	return inv, nil
}

// Eigen computes the eigen-decomposition of a symmetric matrix by Jacobi rotations.
// Implementation:
//   - Stage 1: ValidateSymmetric(m, DefaultSymmetryTol); copy A, set Q = I.
//   - Stage 2: repeatedly zero the largest off-diagonal a[p,q] with a plane
//     rotation, accumulating Q ← Q·J, until max|a[p,q]| < tol.
//   - Stage 3: read eigenvalues from diag(A) and sort them ascending,
//     permuting Q's columns alongside.
//
// Returns:
//   - values ascending; vectors as a Dense whose column i pairs with values[i].
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrAsymmetry.
//   - ErrMatrixEigenFailed when the rotation budget does not reach tol. The
//     budget is max(DefaultJacobiMaxIter, JacobiRotationsPerEntry·n²) unless
//     WithJacobi sets it explicitly.
//
// Complexity:
//   - Time O(n²) per pivot search plus O(n) per rotation; Space O(n²).
func Eigen(m Matrix, opts ...Option) ([]float64, Matrix, error) {
	if err := ValidateSymmetric(m, DefaultSymmetryTol); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	o := gatherOptions(opts...)

	A, err := toDense(m.Clone(), opEigen)
	if err != nil {
		return nil, nil, err
	}
	n := A.r
	Q, err := NewDense(n, n)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	for i := 0; i < n; i++ {
		Q.data[i*n+i] = 1.0
	}

	var (
		iter, i, j, p, q   int
		maxOff, off        float64
		app, aqq, apq      float64
		aip, aiq, qip, qiq float64
		theta, t, c, s     float64
		converged          bool
	)
	maxIter := o.rotationBudget(n)
	for iter = 0; iter <= maxIter; iter++ {
		// Pivot (p,q) maximizing |A[p,q]| over the upper triangle.
		maxOff = 0
		for i = 0; i < n; i++ {
			for j = i + 1; j < n; j++ {
				if off = math.Abs(A.data[i*n+j]); off > maxOff {
					maxOff, p, q = off, i, j
				}
			}
		}
		if maxOff < o.jacobiTol {
			converged = true
			break
		}
		if iter == maxIter {
			break
		}

		app, aqq, apq = A.data[p*n+p], A.data[q*n+q], A.data[p*n+q]
		theta = (aqq - app) / (2 * apq)
		t = math.Copysign(1.0/(math.Abs(theta)+math.Hypot(theta, 1)), theta)
		c = 1.0 / math.Sqrt(t*t+1)
		s = t * c

		for i = 0; i < n; i++ {
			if i == p || i == q {
				continue
			}
			aip, aiq = A.data[i*n+p], A.data[i*n+q]
			A.data[i*n+p] = c*aip - s*aiq
			A.data[p*n+i] = A.data[i*n+p]
			A.data[i*n+q] = s*aip + c*aiq
			A.data[q*n+i] = A.data[i*n+q]
		}
		A.data[p*n+p] = c*c*app - 2*c*s*apq + s*s*aqq
		A.data[q*n+q] = s*s*app + 2*c*s*apq + c*c*aqq
		A.data[p*n+q], A.data[q*n+p] = 0, 0

		for i = 0; i < n; i++ {
			qip, qiq = Q.data[i*n+p], Q.data[i*n+q]
			Q.data[i*n+p] = c*qip - s*qiq
			Q.data[i*n+q] = s*qip + c*qiq
		}
	}
	if !converged {
		return nil, nil, matrixErrorf(opEigen, fmt.Errorf("off-diagonal %g after %d rotations: %w",
			maxOff, maxIter, ErrMatrixEigenFailed))
	}

	order := make([]int, n)
	for i = 0; i < n; i++ {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool {
		return A.data[order[x]*n+order[x]] < A.data[order[y]*n+order[y]]
	})

	values := make([]float64, n)
	vectors, err := NewDense(n, n)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	for k, src := range order {
		values[k] = A.data[src*n+src]
		for i = 0; i < n; i++ {
			vectors.data[i*n+k] = Q.data[i*n+src]
		}
	}

	return values, vectors, nil
}
