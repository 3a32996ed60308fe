// SPDX-License-Identifier: MIT

package compute

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Kind discriminates the shapes a Result can take.
type Kind int

// Result shapes.
const (
	KindMatrix Kind = iota // nested rows
	KindVector             // flat sequence (eigenvalues)
	KindEigen              // {eigenvalues, eigenvectors}
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindMatrix:
		return "matrix"
	case KindVector:
		return "vector"
	case KindEigen:
		return "eigen"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Cell is one result leaf. Value holds the number (imaginary part zero for
// real results); Text, when set by the renderer, is its display form.
type Cell struct {
	Value complex128
	Text  string
}

// Real returns a Cell holding the real number v.
func Real(v float64) Cell { return Cell{Value: complex(v, 0)} }

// IsReal reports whether c has no imaginary part.
func (c Cell) IsReal() bool { return imag(c.Value) == 0 }

type complexJSON struct {
	Re float64 `json:"re"`
	Im float64 `json:"im"`
}

// MarshalJSON writes Text when set, a bare number for real values, and
// {"re":x,"im":y} otherwise.
func (c Cell) MarshalJSON() ([]byte, error) {
	if c.Text != "" {
		return json.Marshal(c.Text)
	}
	re, im := real(c.Value), imag(c.Value)
	if math.IsNaN(re) || math.IsInf(re, 0) || math.IsNaN(im) || math.IsInf(im, 0) {
		return nil, fmt.Errorf("compute: cannot encode non-finite value %v", c.Value)
	}
	if im == 0 {
		return json.Marshal(re)
	}

	return json.Marshal(complexJSON{Re: re, Im: im})
}

// UnmarshalJSON accepts a number or {"re":x,"im":y}.
func (c *Cell) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var z complexJSON
		if err := json.Unmarshal(data, &z); err != nil {
			return err
		}
		*c = Cell{Value: complex(z.Re, z.Im)}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = Real(v)

	return nil
}

// Result is the discriminated output of a computation. Only the fields
// matching Kind are populated.
type Result struct {
	Kind    Kind
	Matrix  [][]Cell // KindMatrix
	Values  []Cell   // KindVector, KindEigen
	Vectors [][]Cell // KindEigen; row i pairs with Values[i]
}

// MatrixResult wraps a float matrix.
func MatrixResult(m Matrix) Result {
	rows := make([][]Cell, len(m))
	for i, row := range m {
		rows[i] = make([]Cell, len(row))
		for j, v := range row {
			rows[i][j] = Real(v)
		}
	}

	return Result{Kind: KindMatrix, Matrix: rows}
}

// VectorResult wraps a flat sequence of (possibly complex) values.
func VectorResult(values []complex128) Result {
	return Result{Kind: KindVector, Values: cells(values)}
}

// EigenResult pairs values with vectors, one vector per row.
func EigenResult(values []complex128, vectors [][]complex128) Result {
	rows := make([][]Cell, len(vectors))
	for i, v := range vectors {
		rows[i] = cells(v)
	}

	return Result{Kind: KindEigen, Values: cells(values), Vectors: rows}
}

func cells(values []complex128) []Cell {
	out := make([]Cell, len(values))
	for i, v := range values {
		out[i] = Cell{Value: v}
	}

	return out
}

// Clone returns a deep copy of r.
func (r Result) Clone() Result {
	out := Result{Kind: r.Kind}
	if r.Matrix != nil {
		out.Matrix = cloneRows(r.Matrix)
	}
	if r.Values != nil {
		out.Values = append([]Cell(nil), r.Values...)
	}
	if r.Vectors != nil {
		out.Vectors = cloneRows(r.Vectors)
	}

	return out
}

func cloneRows(rows [][]Cell) [][]Cell {
	out := make([][]Cell, len(rows))
	for i, row := range rows {
		out[i] = append([]Cell(nil), row...)
	}

	return out
}

// Each calls fn for every leaf, in row-major order, stopping at the first error.
func (r Result) Each(fn func(c Cell) error) error {
	for _, row := range r.Matrix {
		for _, c := range row {
			if err := fn(c); err != nil {
				return err
			}
		}
	}
	for _, c := range r.Values {
		if err := fn(c); err != nil {
			return err
		}
	}
	for _, row := range r.Vectors {
		for _, c := range row {
			if err := fn(c); err != nil {
				return err
			}
		}
	}

	return nil
}

type eigenJSON struct {
	Eigenvalues  []Cell   `json:"eigenvalues"`
	Eigenvectors [][]Cell `json:"eigenvectors"`
}

// Finite reports whether every leaf of r is a finite number.
func (r Result) Finite() bool {
	return r.Each(func(c Cell) error {
		re, im := real(c.Value), imag(c.Value)
		if math.IsNaN(re) || math.IsInf(re, 0) || math.IsNaN(im) || math.IsInf(im, 0) {
			return ErrNumericOverflow
		}
		return nil
	}) == nil
}

// MarshalJSON encodes the shape selected by Kind.
func (r Result) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case KindMatrix:
		return json.Marshal(nonNilRows(r.Matrix))
	case KindVector:
		return json.Marshal(nonNil(r.Values))
	case KindEigen:
		return json.Marshal(eigenJSON{Eigenvalues: nonNil(r.Values), Eigenvectors: nonNilRows(r.Vectors)})
	default:
		return nil, fmt.Errorf("compute: unknown result kind %v", r.Kind)
	}
}

// DecodeResult parses data as the result shape kind.
func DecodeResult(data []byte, kind Kind) (Result, error) {
	out := Result{Kind: kind}
	var err error
	switch kind {
	case KindMatrix:
		err = json.Unmarshal(data, &out.Matrix)
	case KindVector:
		err = json.Unmarshal(data, &out.Values)
	case KindEigen:
		var e eigenJSON
		if err = json.Unmarshal(data, &e); err == nil {
			out.Values, out.Vectors = e.Eigenvalues, e.Eigenvectors
			if len(out.Values) != len(out.Vectors) {
				err = fmt.Errorf("compute: %d eigenvalues but %d eigenvectors", len(out.Values), len(out.Vectors))
			}
		}
	default:
		err = fmt.Errorf("compute: unknown result kind %v", kind)
	}
	if err != nil {
		return Result{}, err
	}

	return out, nil
}

func nonNil(c []Cell) []Cell {
	if c == nil {
		return []Cell{}
	}

	return c
}

func nonNilRows(rows [][]Cell) [][]Cell {
	if rows == nil {
		return [][]Cell{}
	}

	return rows
}
