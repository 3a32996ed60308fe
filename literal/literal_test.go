// SPDX-License-Identifier: MIT
package literal_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lawt/compute"
	"github.com/katalvlaran/lawt/literal"
)

func TestParseAccepted(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want float64
	}{
		{"3", 3},
		{"-4.25", -4.25},
		{" +7 ", 7},
		{".5", 0.5},
		{"1e-3", 1e-3},
		{"2E+2", 200},
		{"1/2", 0.5},
		{"-3/4", -0.75},
		{"√2", math.Sqrt2},
		{"sqrt(8)", 2 * math.Sqrt2},
		{"SQRT 9", 3},
		{"2√3", 2 * math.Sqrt(3)},
		{"-√2/2", -math.Sqrt2 / 2},
		{"(1+√5)/2", math.Phi},
		{"3(1-√2)", 3 * (1 - math.Sqrt2)},
		{"2^-1", 0.5},
		{"2^(1/2)", math.Sqrt2},
		{"−1", -1},
		{"2×3", 6},
		{"√2√2", 2},
		{"--1", 1},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got, err := literal.Parse(tc.in)
			require.NoError(t, err)
			require.InDelta(t, tc.want, got, 1e-12)
		})
	}
}

func TestParseRejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		offset int
		reason string
	}{
		{"", 0, "empty literal"},
		{"   ", 3, "empty literal"},
		{"abc", 0, "illegal character"},
		{"1/0", 2, "division by zero"},
		{"√-4", 3, "square root of a negative number"},
		{"(1+2", 4, "missing ')'"},
		{"1+", 2, "unexpected end of input"},
		{"1 2", 2, "unexpected number"},
		{"1.2.3", 3, "unexpected number"},
		{".", 0, "malformed number"},
		{"1e999", 0, "number out of range"},
		{"(-8)^(1/3)", 4, "power is not a finite real number"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			_, err := literal.Parse(tc.in)
			require.Error(t, err)
			require.True(t, errors.Is(err, compute.ErrParse))

			var pe *compute.ParseError
			require.True(t, errors.As(err, &pe))
			require.Equal(t, tc.in, pe.Token)
			require.Equal(t, tc.offset, pe.Offset)
			require.Contains(t, pe.Reason, tc.reason)
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	in := compute.MatrixLiteral{
		{compute.Num(1), compute.Str("1/2")},
		{compute.Str("√4"), compute.Num(-2.5)},
	}
	got, err := literal.Normalize("matrixA", in)
	require.NoError(t, err)
	require.Equal(t, compute.Matrix{{1, 0.5}, {2, -2.5}}, got)
}

func TestNormalizeKeepsRaggedLayout(t *testing.T) {
	t.Parallel()

	got, err := literal.Normalize("matrixA", compute.MatrixLiteral{{compute.Num(1)}, {compute.Num(2), compute.Num(3)}})
	require.NoError(t, err)
	require.Equal(t, compute.Matrix{{1}, {2, 3}}, got)
}

func TestNormalizeReportsPosition(t *testing.T) {
	t.Parallel()

	in := compute.MatrixLiteral{
		{compute.Num(1), compute.Num(2)},
		{compute.Num(3), compute.Str("x/2")},
	}
	_, err := literal.Normalize("matrixB", in)

	var pe *compute.ParseError
	require.True(t, errors.As(err, &pe))
	require.Equal(t, "matrixB", pe.Matrix)
	require.Equal(t, 1, pe.Row)
	require.Equal(t, 1, pe.Col)
	require.Equal(t, "x/2", pe.Token)
	require.Contains(t, err.Error(), "matrixB[1][1]")
}

func TestNormalizeRejectsNonNumericJSON(t *testing.T) {
	t.Parallel()

	_, err := literal.Normalize("matrixA", compute.MatrixLiteral{{{Invalid: "boolean"}}})
	require.ErrorIs(t, err, compute.ErrParse)
	require.Contains(t, err.Error(), "boolean")
}

func TestNormalizeIsPure(t *testing.T) {
	t.Parallel()

	in := compute.MatrixLiteral{{compute.Str("1/3")}}
	a, err := literal.Normalize("matrixA", in)
	require.NoError(t, err)
	b, err := literal.Normalize("matrixA", in)
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.Equal(t, compute.Str("1/3"), in[0][0])
}
