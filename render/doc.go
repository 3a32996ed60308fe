// SPDX-License-Identifier: MIT

// Package render turns numeric results into display strings.
//
// A real leaf is shown as an integer ("3"), a fraction ("-7/2"), a
// simplified radical ("√2/2", "-3√5") or, for eigen operations, a quadratic
// surd ("(1+√5)/2"). Leaves that match none of these stay numeric. Complex
// leaves render each part with the same rules ("1/2+(√3/2)i").
//
// Rendering is best-effort: BestEffort logs a failure and hands back the
// unrendered result, so a request that computed successfully never fails
// because of formatting.
package render
