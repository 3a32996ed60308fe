// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for the numeric kernels.
// This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal) that enforces invariants.
//
// Notes:
//   - eps is relative: Inverse treats a pivot p as zero when |p| <= eps·max|A|.
//   - Jacobi tolerance is absolute on the largest off-diagonal magnitude.
package matrix

import "math"

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultEpsilon is the relative pivot tolerance used by Inverse and LU.
	DefaultEpsilon = 1e-12

	// DefaultSymmetryTol bounds |a[i,j]-a[j,i]| for IsSymmetric.
	DefaultSymmetryTol = 1e-9

	// DefaultValidateNaNInf toggles strict finite-value validation on ingestion and Set.
	DefaultValidateNaNInf = true

	// DefaultJacobiTol stops Jacobi sweeps once max|a[p,q]| (p≠q) falls below it.
	DefaultJacobiTol = 1e-12

	// DefaultJacobiMaxIter is the floor of the default Jacobi rotation budget.
	DefaultJacobiMaxIter = 10000

	// JacobiRotationsPerEntry scales the default rotation budget with n²;
	// largest-pivot Jacobi needs a few sweeps of n(n-1)/2 rotations each.
	JacobiRotationsPerEntry = 50
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicEpsilonInvalid = "matrix: WithEpsilon: eps must be finite, non-negative"
	panicJacobiInvalid  = "matrix: WithJacobi: tol must be finite, positive and maxIter > 0"
)

// Option mutates internal options. Safe to apply repeatedly (idempotent).
// Constructors MUST panic only on nonsensical values (programmer error).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	eps           float64 // >= 0; DefaultEpsilon
	jacobiTol     float64 // > 0; DefaultJacobiTol
	jacobiMaxIter int     // > 0 when set by WithJacobi; 0 scales with n
}

// WithEpsilon sets the relative pivot tolerance.
// Panics when eps is NaN, ±Inf or negative.
func WithEpsilon(eps float64) Option {
	if math.IsNaN(eps) || math.IsInf(eps, 0) || eps < 0 {
		panic(panicEpsilonInvalid)
	}

	return func(o *Options) { o.eps = eps }
}

// WithJacobi sets the convergence tolerance and a fixed rotation budget of Eigen.
// Panics when tol is not a finite positive value or maxIter <= 0.
func WithJacobi(tol float64, maxIter int) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol <= 0 || maxIter <= 0 {
		panic(panicJacobiInvalid)
	}

	return func(o *Options) {
		o.jacobiTol = tol
		o.jacobiMaxIter = maxIter
	}
}

// defaultOptions returns the documented defaults.
func defaultOptions() Options {
	return Options{
		eps:       DefaultEpsilon,
		jacobiTol: DefaultJacobiTol,
	}
}

// rotationBudget returns the Jacobi rotation cap for an n×n matrix.
func (o Options) rotationBudget(n int) int {
	if o.jacobiMaxIter > 0 {
		return o.jacobiMaxIter
	}

	return max(DefaultJacobiMaxIter, JacobiRotationsPerEntry*n*n)
}

// gatherOptions applies opts left to right over the defaults; nil entries are skipped.
func gatherOptions(opts ...Option) Options {
	o := defaultOptions()
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}
