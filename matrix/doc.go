// SPDX-License-Identifier: MIT

// Package matrix provides the dense linear-algebra kernels behind the
// reference backend.
//
// The package offers:
//
//   - Dense, a row-major float64 matrix with bounds-checked At/Set and a
//     finite-only numeric policy.
//   - NewFromRows / Dense.ToRows converters between nested slices and Dense.
//   - Kernels: Add, Mul, Transpose, Inverse (LU with partial pivoting) and
//     Eigen (Jacobi, symmetric input).
//   - Central validators returning plain sentinel errors (errors.go).
//
// Every kernel allocates a fresh result and never mutates its operands.
// Loop orders are fixed, so identical inputs give bit-identical outputs.
package matrix
