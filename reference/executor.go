// SPDX-License-Identifier: MIT

package reference

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/lawt/compute"
	"github.com/katalvlaran/lawt/matrix"
)

// Option configures an Executor.
type Option func(*Executor)

// WithEpsilon sets the relative pivot tolerance used to declare a matrix singular.
// Panics on a negative or non-finite eps, like matrix.WithEpsilon.
func WithEpsilon(eps float64) Option {
	opt := matrix.WithEpsilon(eps)

	return func(e *Executor) { e.kernel = append(e.kernel, opt) }
}

// WithJacobi sets the convergence tolerance and rotation budget of the
// Jacobi solver used for symmetric matrices up to 64×64.
func WithJacobi(tol float64, maxIter int) Option {
	opt := matrix.WithJacobi(tol, maxIter)

	return func(e *Executor) { e.kernel = append(e.kernel, opt) }
}

// WithSymmetryTol sets how far a[i,j] and a[j,i] may differ for the
// symmetric eigen path to be taken.
func WithSymmetryTol(tol float64) Option {
	return func(e *Executor) { e.symTol = tol }
}

// Executor evaluates operations with the dense reference kernels.
// The zero value is not usable; construct with New. An Executor is immutable
// after construction and safe for concurrent use.
type Executor struct {
	kernel []matrix.Option
	symTol float64
}

// New returns an Executor with the given options applied over the defaults.
func New(opts ...Option) *Executor {
	e := &Executor{symTol: matrix.DefaultSymmetryTol}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	return e
}

// Operations lists what the reference backend can evaluate.
func (e *Executor) Operations() []compute.Operation {
	out := make([]compute.Operation, len(compute.Operations))
	copy(out, compute.Operations)

	return out
}

// Execute evaluates op on a (and b for binary operations; b may be nil otherwise).
//
// Errors (compute taxonomy):
//   - ErrMissingOperand       add/multiply without b.
//   - ErrDimensionMismatch    empty, ragged or incompatible operands.
//   - ErrSingularMatrix       inverse of a singular or non-square matrix.
//   - ErrEigenComputation     eigen of a non-square matrix or no convergence.
//   - ErrNumericOverflow      add/multiply results outside the float64 range.
//   - ErrUnsupportedOperation anything outside compute.Operations.
func (e *Executor) Execute(op compute.Operation, a, b compute.Matrix) (compute.Result, error) {
	if !op.Known() {
		return compute.Result{}, fmt.Errorf("%w: %q", compute.ErrUnsupportedOperation, string(op))
	}
	if op.Binary() && b == nil {
		return compute.Result{}, fmt.Errorf("%w: %s needs matrixB", compute.ErrMissingOperand, op)
	}

	da, err := toDense("matrixA", a)
	if err != nil {
		return compute.Result{}, err
	}

	switch op {
	case compute.OpTranspose:
		return e.transpose(da)
	case compute.OpAdd, compute.OpMultiply:
		db, err := toDense("matrixB", b)
		if err != nil {
			return compute.Result{}, err
		}
		if op == compute.OpAdd {
			return e.add(da, db)
		}

		return e.multiply(da, db)
	case compute.OpInverse:
		return e.inverse(da)
	case compute.OpEigenvalues:
		values, _, err := e.eigen(da, false)
		if err != nil {
			return compute.Result{}, err
		}

		return compute.VectorResult(values), nil
	default: // compute.OpEigenvectors
		values, vectors, err := e.eigen(da, true)
		if err != nil {
			return compute.Result{}, err
		}

		return compute.EigenResult(values, vectors), nil
	}
}

// Compute is Execute behind the context-aware strategy signature shared with
// the model backend. Reference computations run to completion; ctx is unused.
func (e *Executor) Compute(_ context.Context, op compute.Operation, a, b compute.Matrix) (compute.Result, error) {
	return e.Execute(op, a, b)
}

func (e *Executor) transpose(a *matrix.Dense) (compute.Result, error) {
	t, err := matrix.Transpose(a)
	if err != nil {
		return compute.Result{}, fmt.Errorf("%w: %s", compute.ErrDimensionMismatch, err)
	}

	return matrixResult(t), nil
}

func (e *Executor) add(a, b *matrix.Dense) (compute.Result, error) {
	sum, err := matrix.Add(a, b)
	if errors.Is(err, matrix.ErrDimensionMismatch) {
		return compute.Result{}, fmt.Errorf("%w: cannot add %s and %s matrices",
			compute.ErrDimensionMismatch, shape(a), shape(b))
	}
	if errors.Is(err, matrix.ErrNaNInf) {
		return compute.Result{}, fmt.Errorf("%w: sum exceeds the floating-point range", compute.ErrNumericOverflow)
	}
	if err != nil {
		return compute.Result{}, fmt.Errorf("%w: %s", compute.ErrDimensionMismatch, err)
	}

	return matrixResult(sum), nil
}

func (e *Executor) multiply(a, b *matrix.Dense) (compute.Result, error) {
	prod, err := matrix.Mul(a, b)
	if errors.Is(err, matrix.ErrDimensionMismatch) {
		return compute.Result{}, fmt.Errorf("%w: cannot multiply %s by %s (columns of matrixA must equal rows of matrixB)",
			compute.ErrDimensionMismatch, shape(a), shape(b))
	}
	if errors.Is(err, matrix.ErrNaNInf) {
		return compute.Result{}, fmt.Errorf("%w: product exceeds the floating-point range", compute.ErrNumericOverflow)
	}
	if err != nil {
		return compute.Result{}, fmt.Errorf("%w: %s", compute.ErrDimensionMismatch, err)
	}

	return matrixResult(prod), nil
}

func (e *Executor) inverse(a *matrix.Dense) (compute.Result, error) {
	inv, err := matrix.Inverse(a, e.kernel...)
	switch {
	case errors.Is(err, matrix.ErrNonSquare):
		return compute.Result{}, fmt.Errorf("%w: %s is not square", compute.ErrSingularMatrix, shape(a))
	case errors.Is(err, matrix.ErrSingular), errors.Is(err, matrix.ErrNaNInf):
		return compute.Result{}, compute.ErrSingularMatrix
	case err != nil:
		return compute.Result{}, fmt.Errorf("%w: %s", compute.ErrSingularMatrix, err)
	}

	return matrixResult(inv), nil
}
