// SPDX-License-Identifier: MIT

// Package literal normalizes matrices written in human notation into plain
// float64 matrices.
//
// A matrix entry is either a bare JSON/YAML number, passed through as-is, or
// a string in a small numeric-literal language:
//
//	3        -4.25       1e-3        .5
//	1/2      -3/4        (1+√5)/2    2^-1
//	√2       2√3         sqrt(8)     -√2/2     3(1-√2)
//
// Whitespace is ignored, "sqrt" and "√" are interchangeable, a radical or a
// parenthesised group directly after a factor multiplies it, and "−" (U+2212)
// and "×" are accepted as minus and times.
//
// Normalization is pure: the result depends only on the input and nothing is
// retained between calls. Failures are *compute.ParseError values carrying the
// entry position, the offending token and the byte offset inside the literal.
package literal
