// SPDX-License-Identifier: MIT

package compute

import "strings"

// Operation names one matrix-algebra request.
type Operation string

// Supported operations.
const (
	OpTranspose    Operation = "transpose"
	OpAdd          Operation = "add"
	OpMultiply     Operation = "multiply"
	OpInverse      Operation = "inverse"
	OpEigenvalues  Operation = "eigenvalues"
	OpEigenvectors Operation = "eigenvectors"
)

// Operations lists every known operation in a stable order.
var Operations = []Operation{OpTranspose, OpAdd, OpMultiply, OpInverse, OpEigenvalues, OpEigenvectors}

// Known reports whether op is one of Operations.
func (op Operation) Known() bool {
	for _, k := range Operations {
		if op == k {
			return true
		}
	}

	return false
}

// Binary reports whether op needs a second operand.
func (op Operation) Binary() bool { return op == OpAdd || op == OpMultiply }

// Spectral reports whether op is an eigen decomposition.
func (op Operation) Spectral() bool { return op == OpEigenvalues || op == OpEigenvectors }

// ResultKind returns the result shape op produces.
// Unknown operations default to KindMatrix.
func (op Operation) ResultKind() Kind {
	switch op {
	case OpEigenvalues:
		return KindVector
	case OpEigenvectors:
		return KindEigen
	default:
		return KindMatrix
	}
}

// Method selects the computation backend.
type Method string

// Backend selectors.
const (
	MethodReference Method = "reference"
	MethodModel     Method = "model"
)

// ParseMethod maps a request's method field onto a backend.
// "model" and the legacy "lawt" pick the model backend; anything else,
// including the empty string and the legacy "numpy", picks the reference one.
func ParseMethod(s string) Method {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(MethodModel), "lawt":
		return MethodModel
	default:
		return MethodReference
	}
}
