// SPDX-License-Identifier: MIT

// Package model wires the optional model-inference backend.
//
// The backend is initialized at most once per process through a Handle.
// Adapter routes a computation to it and surfaces every failure: it never
// retries and never falls back to the reference backend, so a caller that
// asked for the model either gets the model's answer or an error.
package model
