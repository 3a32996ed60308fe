// SPDX-License-Identifier: MIT
// Package compute: sentinel error set for a compute call.
// Every stage returns (or wraps with %w) one of these sentinels; the dispatch
// engine matches them via errors.Is and copies err.Error() into the failure
// envelope, so messages must stay plain text without internal identifiers.

package compute

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRequest signals a request body that is not valid JSON (or YAML).
	ErrMalformedRequest = errors.New("malformed request body")

	// ErrMissingParameter signals that operation or matrixA is absent.
	ErrMissingParameter = errors.New("missing required parameter")

	// ErrParse signals a matrix literal outside the numeric-literal grammar.
	// Concrete failures are *ParseError values that match this sentinel.
	ErrParse = errors.New("input parse failed")

	// ErrMissingOperand signals a binary operation without matrixB.
	ErrMissingOperand = errors.New("operation requires two matrices")

	// ErrDimensionMismatch signals operands with incompatible shapes, or a
	// ragged/empty matrix.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrSingularMatrix signals a singular or non-square matrix given to inverse.
	ErrSingularMatrix = errors.New("matrix is not invertible")

	// ErrEigenComputation signals an eigen decomposition that did not converge
	// or could not start (non-square input).
	ErrEigenComputation = errors.New("cannot compute eigen decomposition")

	// ErrNumericOverflow signals a result that does not fit in float64.
	ErrNumericOverflow = errors.New("numeric overflow")

	// ErrUnsupportedOperation signals an operation the reference backend does not know.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrBackendUnavailable signals that the model backend failed to initialize.
	ErrBackendUnavailable = errors.New("model backend is unavailable")

	// ErrUnsupportedByBackend signals an operation the model backend does not offer.
	ErrUnsupportedByBackend = errors.New("operation not supported by model backend")

	// ErrModelComputation wraps any failure reported by the model backend.
	ErrModelComputation = errors.New("model computation failed")
)

// ParseError locates a literal that could not be normalized.
// Row and Col index the matrix entry; Offset is the byte offset inside the
// literal text where parsing stopped (-1 when not applicable).
type ParseError struct {
	Matrix string // "matrixA" or "matrixB"; empty for a single literal
	Row    int
	Col    int
	Token  string
	Offset int
	Reason string
}

// Error renders the location, the offending token and the reason.
func (e *ParseError) Error() string {
	where := ""
	if e.Matrix != "" {
		where = fmt.Sprintf(" in %s[%d][%d]", e.Matrix, e.Row, e.Col)
	}
	at := ""
	if e.Offset >= 0 {
		at = fmt.Sprintf(" at offset %d", e.Offset)
	}

	return fmt.Sprintf("%s: %q%s%s: %s", ErrParse, e.Token, where, at, e.Reason)
}

// Is lets errors.Is(err, ErrParse) match any *ParseError.
func (e *ParseError) Is(target error) bool { return target == ErrParse }
