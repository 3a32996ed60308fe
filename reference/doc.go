// SPDX-License-Identifier: MIT

// Package reference is the always-available compute backend.
//
// Executor runs every known operation on top of the dense kernels in
// package matrix: transpose, add, multiply, inverse (LU with partial
// pivoting) and the eigen operations. Symmetric input is decomposed by
// Jacobi rotations; any other square matrix goes through gonum's general
// eigen solver, which may yield complex eigenvalues.
//
// Kernel sentinels never leak out of this package: they are mapped onto the
// compute error taxonomy with plain, user-facing messages.
package reference
