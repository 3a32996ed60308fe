// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/lawt/compute"
)

// ErrNonFinite reports a NaN or ±Inf leaf, which has no display form.
var ErrNonFinite = errors.New("render: non-finite value")

const (
	// DefaultMaxDenominator bounds fraction denominators.
	DefaultMaxDenominator = 1000

	// DefaultTolerance is the relative error allowed between a leaf and its display form.
	DefaultTolerance = 1e-9
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithMaxDenominator sets the largest denominator a fraction may use.
// Values below 1 are ignored.
func WithMaxDenominator(n int) Option {
	return func(r *Renderer) {
		if n >= 1 {
			r.maxDen = int64(n)
		}
	}
}

// WithTolerance sets the relative tolerance. Non-positive or non-finite values are ignored.
func WithTolerance(tol float64) Option {
	return func(r *Renderer) {
		if tol > 0 && !math.IsInf(tol, 0) {
			r.tol = tol
		}
	}
}

// WithLogger sets the logger BestEffort reports failures to.
func WithLogger(l *zap.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// Renderer converts result leaves to display strings. It holds no mutable
// state and is safe for concurrent use.
type Renderer struct {
	maxDen int64
	tol    float64
	logger *zap.Logger
}

// New returns a Renderer with opts applied over the defaults.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		maxDen: DefaultMaxDenominator,
		tol:    DefaultTolerance,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	return r
}

// Render returns a copy of res with every representable leaf replaced by its
// display string. The shape of res is preserved and res is never modified.
// A NaN or ±Inf leaf fails the whole render with ErrNonFinite.
func (r *Renderer) Render(res compute.Result, op compute.Operation) (compute.Result, error) {
	if err := res.Each(func(c compute.Cell) error {
		if !finite(real(c.Value)) || !finite(imag(c.Value)) {
			return fmt.Errorf("%w: %v", ErrNonFinite, c.Value)
		}
		return nil
	}); err != nil {
		return compute.Result{}, err
	}

	out := res.Clone()
	f := r.formatter(op, res)
	renderRow(out.Values, f)
	for _, row := range out.Matrix {
		renderRow(row, f)
	}
	for _, row := range out.Vectors {
		renderRow(row, f)
	}

	return out, nil
}

// BestEffort renders res, or logs the failure and returns res unchanged.
func (r *Renderer) BestEffort(res compute.Result, op compute.Operation) compute.Result {
	out, err := r.Render(res, op)
	if err != nil {
		r.logger.Warn("rendering failed, returning raw result",
			zap.String("operation", string(op)),
			zap.Error(err))

		return res
	}

	return out
}

func renderRow(row []compute.Cell, f formatter) {
	for i := range row {
		if row[i].Text != "" {
			continue
		}
		row[i].Text = f.cell(row[i].Value)
	}
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
