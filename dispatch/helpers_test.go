// SPDX-License-Identifier: MIT

package dispatch_test

import (
	"context"
	"math"

	"github.com/katalvlaran/lawt/compute"
	"github.com/katalvlaran/lawt/dispatch"
)

// strategyBackend exposes a dispatch.Computer as a model.Backend offering
// every known operation.
type strategyBackend struct{ dispatch.Computer }

func (strategyBackend) IsAvailable(op compute.Operation) bool { return op.Known() }

func (b strategyBackend) Compute(ctx context.Context, op compute.Operation, a, m compute.Matrix) (compute.Result, error) {
	return b.Computer.Compute(ctx, op, a, m)
}

func backendOf(c dispatch.Computer) strategyBackend { return strategyBackend{c} }

func nanValue() float64 { return math.NaN() }
