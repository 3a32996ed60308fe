// SPDX-License-Identifier: MIT

// Package compute holds the request-scoped data model shared by every stage
// of a compute call: operations and methods, the numeric literals a caller
// sends, the normalized float matrices the backends consume, the result
// shapes they produce, and the error taxonomy that ends a request.
//
// Nothing in this package outlives a single request; values are created by
// the decoding layer, passed down the pipeline and dropped once the
// response envelope is written.
package compute
