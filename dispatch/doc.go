// SPDX-License-Identifier: MIT

// Package dispatch runs one compute call end to end.
//
// Engine walks a request through
//
//	Received → Validated → Normalized → Executed → Rendered → Responded
//
// and any stage may short-circuit to Failed. Validation checks that an
// operation and matrixA are present; normalization turns caller notation
// into floats; execution picks the reference or model Computer from the
// request's method, with no fallback between them; rendering is best-effort.
// The outcome is an Envelope plus the HTTP status that goes with it.
package dispatch
