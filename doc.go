// SPDX-License-Identifier: MIT

// Package lawt is a matrix computation service: it accepts requests naming
// a linear-algebra operation and one or two matrices written in mixed
// notation ("1/2", "√3", "2e-3", 4), runs them on a reference engine or an
// optional model-inference backend, and answers with exact-looking results
// ("1/3", "(1+√5)/2", "1-2i") in a uniform JSON envelope.
//
// Packages:
//
//	compute/    shared vocabulary: operations, literals, results, error taxonomy
//	literal/    parser and evaluator for mixed-notation entries
//	matrix/     dense matrix kernel: arithmetic, LU, inverse, Jacobi eigen
//	reference/  reference executor over matrix/ and gonum
//	model/      lazily initialized model backend and its HTTP client
//	render/     fraction, radical and surd rendering of numeric results
//	dispatch/   request pipeline, envelopes, status mapping and metrics
//	server/     HTTP routes, CORS, panic recovery, graceful shutdown
//	config/     layered configuration (defaults, YAML file, env, flags)
//	logging/    zap logger construction
//	cmd/lawt/   the serve, compute and version commands
//
// Quick example:
//
//	$ lawt compute <<'REQ'
//	{"operation": "inverse", "matrixA": [[2, 0], [0, 4]]}
//	REQ
//
// prints a success envelope whose result is [["1/2", "0"], ["0", "1/4"]].
package lawt
