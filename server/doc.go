// SPDX-License-Identifier: MIT

// Package server exposes the dispatch engine over HTTP.
//
// Routes:
//
//	POST /api/compute   compute call, JSON envelope, 200 or 400
//	GET  /api/status    model backend status
//	GET  /healthz       liveness, plain "ok"
//	GET  /metrics       Prometheus exposition
//
// API responses are JSON and carry Access-Control-Allow-Origin: *. Unknown
// /api/ paths get a 404 envelope; a panicking handler is recovered into a
// 500 envelope.
package server
