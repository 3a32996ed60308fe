// SPDX-License-Identifier: MIT

package compute

import (
	"bytes"
	"encoding/json"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Literal is one matrix entry as the caller wrote it: a bare number, or a
// string in the numeric-literal notation ("1/2", "2√3", "-sqrt(5)/2").
// Values of any other kind are kept with their kind name in Invalid so the
// normalizer can report them with their position instead of failing decode.
type Literal struct {
	Text    string // number text or string contents
	Numeric bool   // true when the caller sent a bare number
	Invalid string // JSON/YAML kind of a non-numeric, non-string value
}

// Num returns a numeric literal for v.
func Num(v float64) Literal {
	return Literal{Text: strconv.FormatFloat(v, 'g', -1, 64), Numeric: true}
}

// Str returns a string literal for s.
func Str(s string) Literal { return Literal{Text: s} }

// String returns the literal's source form.
func (l Literal) String() string {
	if l.Invalid != "" {
		return l.Invalid
	}

	return l.Text
}

// UnmarshalJSON accepts any JSON value; see Literal.
func (l *Literal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*l = Literal{}
	if len(data) == 0 {
		l.Invalid = "empty"
		return nil
	}
	switch data[0] {
	case '"':
		return json.Unmarshal(data, &l.Text)
	case 'n':
		l.Invalid = "null"
	case 't', 'f':
		l.Invalid = "boolean"
	case '{':
		l.Invalid = "object"
	case '[':
		l.Invalid = "array"
	default:
		l.Text = string(data)
		l.Numeric = true
	}

	return nil
}

// MarshalJSON writes numbers bare and everything else as a string.
func (l Literal) MarshalJSON() ([]byte, error) {
	switch {
	case l.Invalid != "":
		return []byte("null"), nil
	case l.Numeric:
		return []byte(l.Text), nil
	default:
		return json.Marshal(l.Text)
	}
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML request files.
func (l *Literal) UnmarshalYAML(node *yaml.Node) error {
	*l = Literal{}
	if node.Kind != yaml.ScalarNode {
		switch node.Kind {
		case yaml.SequenceNode:
			l.Invalid = "array"
		case yaml.MappingNode:
			l.Invalid = "object"
		default:
			l.Invalid = "unknown"
		}
		return nil
	}
	switch node.ShortTag() {
	case "!!int", "!!float":
		// YAML numbers may be hex, octal or underscored; keep the decoded value.
		var v float64
		if err := node.Decode(&v); err != nil {
			l.Text = node.Value
			return nil
		}
		*l = Num(v)
	case "!!null":
		l.Invalid = "null"
	case "!!bool":
		l.Invalid = "boolean"
	default:
		l.Text = node.Value
	}

	return nil
}

// MatrixLiteral is a matrix in caller notation, row-major.
type MatrixLiteral [][]Literal

// Empty reports whether m has no rows.
func (m MatrixLiteral) Empty() bool { return len(m) == 0 }

// Matrix is a normalized, row-major float matrix. Rows are expected to have
// equal length; the executor rejects ragged input.
type Matrix [][]float64

// Dims returns the row count and the length of the first row.
func (m Matrix) Dims() (rows, cols int) {
	if len(m) == 0 {
		return 0, 0
	}

	return len(m), len(m[0])
}

// Request is a decoded compute call.
type Request struct {
	Operation Operation      `json:"operation" yaml:"operation"`
	MatrixA   MatrixLiteral  `json:"matrixA" yaml:"matrixA"`
	MatrixB   *MatrixLiteral `json:"matrixB,omitempty" yaml:"matrixB,omitempty"`
	Method    string         `json:"method,omitempty" yaml:"method,omitempty"`
}
