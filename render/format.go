// SPDX-License-Identifier: MIT

package render

import (
	"math"
	"strconv"
	"strings"

	"github.com/katalvlaran/lawt/compute"
)

const (
	// maxExact is the magnitude above which leaves stay numeric; float64
	// stops holding every integer exactly a little beyond it.
	maxExact = 1e15

	// maxRadicandProduct bounds P·Q when simplifying √(P/Q).
	maxRadicandProduct = 100_000_000

	// Search bounds for quadratic surds (a+b√c)/d.
	maxSurdDen      = 12
	maxSurdRadicand = 50
	maxSurdCoef     = 12

	// maxCFTerms caps continued-fraction expansion.
	maxCFTerms = 64
)

// formatter renders single leaves for one operation.
// scale is the result's largest magnitude, capped at 1; tolerances are
// relative to max(scale, |x|), so a result made only of tiny values keeps them.
type formatter struct {
	maxDen int64
	tol    float64
	scale  float64
	surds  bool
}

func (r *Renderer) formatter(op compute.Operation, res compute.Result) formatter {
	var scale float64
	_ = res.Each(func(c compute.Cell) error {
		scale = math.Max(scale, math.Max(math.Abs(real(c.Value)), math.Abs(imag(c.Value))))
		return nil
	})
	if scale == 0 || scale > 1 {
		scale = 1
	}

	return formatter{maxDen: r.maxDen, tol: r.tol, scale: scale, surds: op.Spectral()}
}

// cell returns the display text of v, or "" when v stays numeric.
func (f formatter) cell(v complex128) string {
	re, im := real(v), imag(v)
	if im == 0 {
		text, _ := f.real(re)
		return text
	}

	reText, reOK := f.real(re)
	imText, imOK := f.real(math.Abs(im))
	if !reOK && !imOK {
		return ""
	}
	if !reOK {
		reText = strconv.FormatFloat(re, 'g', -1, 64)
	}
	if !imOK {
		imText = strconv.FormatFloat(math.Abs(im), 'g', -1, 64)
	}

	switch {
	case imText == "1":
		imText = "i"
	case strings.ContainsAny(imText, "/+-"):
		imText = "(" + imText + ")i"
	default:
		imText += "i"
	}
	if reText == "0" {
		if im < 0 {
			return "-" + imText
		}
		return imText
	}
	if im < 0 {
		return reText + "-" + imText
	}

	return reText + "+" + imText
}

// real tries integer, fraction, radical and (for eigen operations) surd forms
// in that order.
func (f formatter) real(x float64) (string, bool) {
	if math.Abs(x) >= maxExact {
		return "", false
	}
	tol := f.tol * math.Max(f.scale, math.Abs(x))

	if n := math.Round(x); math.Abs(x-n) <= tol {
		return strconv.FormatInt(int64(n), 10), true
	}
	if p, q, ok := f.fraction(x, tol); ok {
		return formatFraction(p, q), true
	}
	if s, ok := f.radical(x, tol); ok {
		return s, true
	}
	if f.surds {
		if s, ok := f.surd(x, tol); ok {
			return s, true
		}
	}

	return "", false
}

// fraction returns p/q (q ≤ maxDen) within tol of x.
func (f formatter) fraction(x, tol float64) (int64, int64, bool) {
	p, q := approximate(x, f.maxDen)
	if q == 0 || math.Abs(x-float64(p)/float64(q)) > tol {
		return 0, 0, false
	}

	return p, q, true
}

// radical writes x as ±k√m/q with m square-free and m > 1. It approximates
// x² by P/Q, then x = √(P·Q)/Q and the square part of P·Q moves outside.
func (f formatter) radical(x, tol float64) (string, bool) {
	sq := x * x
	p, q := approximate(sq, f.maxDen)
	if p <= 0 || q == 0 || math.Abs(sq-float64(p)/float64(q)) > f.tol*math.Max(1, sq) {
		return "", false
	}
	if p > maxRadicandProduct/q {
		return "", false
	}
	k, m := squareFree(p * q)
	if m == 1 {
		return "", false
	}
	g := gcd(k, q)
	k, q = k/g, q/g

	cand := float64(k) * math.Sqrt(float64(m)) / float64(q)
	if math.Abs(math.Abs(x)-cand) > tol {
		return "", false
	}

	var b strings.Builder
	if x < 0 {
		b.WriteByte('-')
	}
	if k != 1 {
		b.WriteString(strconv.FormatInt(k, 10))
	}
	b.WriteString("√")
	b.WriteString(strconv.FormatInt(m, 10))
	if q != 1 {
		b.WriteByte('/')
		b.WriteString(strconv.FormatInt(q, 10))
	}

	return b.String(), true
}

// surd searches (a±b√c)/d with small d, c and b, a ≠ 0, gcd(a,b,d) = 1.
// The first hit in (d, c, b) order wins, so the smallest denominator is used.
func (f formatter) surd(x, tol float64) (string, bool) {
	var d, c, b, a int64
	var root, scaled, rest float64
	for d = 1; d <= maxSurdDen; d++ {
		scaled = x * float64(d)
		for c = 2; c <= maxSurdRadicand; c++ {
			if _, m := squareFree(c); m != c {
				continue
			}
			root = math.Sqrt(float64(c))
			for b = -maxSurdCoef; b <= maxSurdCoef; b++ {
				if b == 0 {
					continue
				}
				rest = scaled - float64(b)*root
				a = int64(math.Round(rest))
				if a == 0 || math.Abs(rest-float64(a)) > tol*float64(d) {
					continue
				}
				if gcd(gcd(abs(a), abs(b)), d) != 1 {
					continue
				}

				return formatSurd(a, b, c, d), true
			}
		}
	}

	return "", false
}

func formatFraction(p, q int64) string {
	if q == 1 {
		return strconv.FormatInt(p, 10)
	}

	return strconv.FormatInt(p, 10) + "/" + strconv.FormatInt(q, 10)
}

func formatSurd(a, b, c, d int64) string {
	var s strings.Builder
	s.WriteString(strconv.FormatInt(a, 10))
	if b < 0 {
		s.WriteByte('-')
	} else {
		s.WriteByte('+')
	}
	if abs(b) != 1 {
		s.WriteString(strconv.FormatInt(abs(b), 10))
	}
	s.WriteString("√")
	s.WriteString(strconv.FormatInt(c, 10))
	if d == 1 {
		return s.String()
	}

	return "(" + s.String() + ")/" + strconv.FormatInt(d, 10)
}

// approximate returns the last continued-fraction convergent p/q of x with
// q ≤ maxDen. q is 0 when x cannot be expanded (non-finite or too large).
func approximate(x float64, maxDen int64) (int64, int64) {
	if !finite(x) || math.Abs(x) >= maxExact {
		return 0, 0
	}
	neg := x < 0
	x = math.Abs(x)

	var h0, h1 int64 = 0, 1 // numerators
	var k0, k1 int64 = 1, 0 // denominators
	rem := x
	for i := 0; i < maxCFTerms; i++ {
		a := math.Floor(rem)
		if a > maxExact {
			break
		}
		ai := int64(a)
		h2 := ai*h1 + h0
		k2 := ai*k1 + k0
		if k2 > maxDen || h2 < 0 {
			break
		}
		h0, h1, k0, k1 = h1, h2, k1, k2
		frac := rem - a
		if frac < 1e-15 {
			break
		}
		rem = 1 / frac
	}
	if k1 == 0 {
		return 0, 0
	}
	if neg {
		h1 = -h1
	}

	return h1, k1
}

// squareFree splits n > 0 as k²·m with m square-free.
func squareFree(n int64) (k, m int64) {
	k, m = 1, n
	for f := int64(2); f*f <= m; f++ {
		for m%(f*f) == 0 {
			m /= f * f
			k *= f
		}
	}

	return k, m
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}

	return a
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}

	return n
}
