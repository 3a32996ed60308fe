// SPDX-License-Identifier: MIT

package literal

import (
	"errors"
	"math"
	"strconv"

	"github.com/katalvlaran/lawt/compute"
)

// Parse evaluates a single literal string.
func Parse(s string) (float64, error) {
	toks, err := newLexer(s).scan()
	if err != nil {
		return 0, withToken(err, s)
	}
	p := &parser{toks: toks}
	v, err := p.parse()
	if err != nil {
		return 0, withToken(err, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &compute.ParseError{Token: s, Offset: -1, Reason: "value is not finite"}
	}

	return v, nil
}

// withToken keeps the full literal as the reported token; the offset still
// points inside it.
func withToken(err error, src string) error {
	var pe *compute.ParseError
	if errors.As(err, &pe) {
		pe.Token = src
	}

	return err
}

// Value normalizes one literal, bare number or string.
func Value(l compute.Literal) (float64, error) {
	switch {
	case l.Invalid != "":
		return 0, &compute.ParseError{Token: l.Invalid, Offset: -1, Reason: "not a number or numeric string"}
	case l.Numeric:
		v, err := strconv.ParseFloat(l.Text, 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, &compute.ParseError{Token: l.Text, Offset: -1, Reason: "number out of range"}
		}
		return v, nil
	default:
		return Parse(l.Text)
	}
}

// Normalize converts every entry of m to float64, preserving the row layout.
// name labels the matrix in errors ("matrixA", "matrixB"). The first failing
// entry, in row-major order, is reported.
func Normalize(name string, m compute.MatrixLiteral) (compute.Matrix, error) {
	out := make(compute.Matrix, len(m))
	for i, row := range m {
		out[i] = make([]float64, len(row))
		for j, lit := range row {
			v, err := Value(lit)
			if err != nil {
				var pe *compute.ParseError
				if errors.As(err, &pe) {
					pe.Matrix, pe.Row, pe.Col = name, i, j
				}
				return nil, err
			}
			out[i][j] = v
		}
	}

	return out, nil
}
