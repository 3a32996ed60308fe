// SPDX-License-Identifier: MIT

package model

import (
	"context"
	"errors"
	"sync"

	"github.com/katalvlaran/lawt/compute"
)

// Backend is a model-inference engine able to evaluate some operations.
type Backend interface {
	// IsAvailable reports whether op can be evaluated by this backend.
	IsAvailable(op compute.Operation) bool

	// Compute evaluates op; b is nil for unary operations.
	Compute(ctx context.Context, op compute.Operation, a, b compute.Matrix) (compute.Result, error)
}

// InitFunc constructs the process-wide Backend.
type InitFunc func() (Backend, error)

// Handle holds the outcome of a single backend initialization.
// The init function runs at most once; every caller, concurrent or late,
// observes the same Backend or the same error. A Handle is immutable once
// initialized and safe for concurrent use.
type Handle struct {
	once    sync.Once
	init    InitFunc
	backend Backend
	err     error
}

// NewHandle returns a Handle that will run init on the first Get.
func NewHandle(init InitFunc) *Handle {
	return &Handle{init: init}
}

// Get returns the initialized Backend, running the init function on first use.
func (h *Handle) Get() (Backend, error) {
	h.once.Do(func() {
		if h.init == nil {
			h.err = errors.New("no backend configured")
			return
		}
		h.backend, h.err = h.init()
		if h.err == nil && h.backend == nil {
			h.err = errors.New("backend initializer returned nothing")
		}
	})

	return h.backend, h.err
}

// Disabled returns an InitFunc that always fails with reason; used when the
// model backend is switched off in configuration.
func Disabled(reason string) InitFunc {
	return func() (Backend, error) {
		return nil, errors.New(reason)
	}
}
