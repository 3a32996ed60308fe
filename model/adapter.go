// SPDX-License-Identifier: MIT

package model

import (
	"context"
	"fmt"

	"github.com/katalvlaran/lawt/compute"
)

// Adapter routes computations to the Backend held by a Handle.
type Adapter struct {
	handle *Handle
}

// NewAdapter returns an Adapter over h.
func NewAdapter(h *Handle) *Adapter {
	return &Adapter{handle: h}
}

// ComputeWithModel evaluates op on the model backend.
//
// Errors:
//   - compute.ErrBackendUnavailable   initialization failed (cause in message).
//   - compute.ErrUnsupportedByBackend the backend does not offer op.
//   - compute.ErrModelComputation     the backend reported a failure (cause in message).
func (a *Adapter) ComputeWithModel(ctx context.Context, op compute.Operation, ma, mb compute.Matrix) (compute.Result, error) {
	backend, err := a.handle.Get()
	if err != nil {
		return compute.Result{}, fmt.Errorf("%w: %s", compute.ErrBackendUnavailable, err)
	}
	if !backend.IsAvailable(op) {
		return compute.Result{}, fmt.Errorf("%w: %s", compute.ErrUnsupportedByBackend, op)
	}

	res, err := backend.Compute(ctx, op, ma, mb)
	if err != nil {
		return compute.Result{}, fmt.Errorf("%w: %s", compute.ErrModelComputation, err)
	}

	return res, nil
}

// Compute is ComputeWithModel; it lets an Adapter stand in wherever a
// compute strategy is expected.
func (a *Adapter) Compute(ctx context.Context, op compute.Operation, ma, mb compute.Matrix) (compute.Result, error) {
	return a.ComputeWithModel(ctx, op, ma, mb)
}

// Status describes the backend for status endpoints.
type Status struct {
	Available  bool
	Message    string
	Operations []compute.Operation
}

// Status reports whether the backend initialized and which operations it offers.
func (a *Adapter) Status() Status {
	backend, err := a.handle.Get()
	if err != nil {
		return Status{Message: err.Error()}
	}

	ops := make([]compute.Operation, 0, len(compute.Operations))
	for _, op := range compute.Operations {
		if backend.IsAvailable(op) {
			ops = append(ops, op)
		}
	}

	return Status{Available: true, Message: "model backend ready", Operations: ops}
}
