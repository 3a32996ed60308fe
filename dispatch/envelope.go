// SPDX-License-Identifier: MIT

package dispatch

import (
	"time"

	"github.com/katalvlaran/lawt/compute"
)

// Envelope is the uniform response of a compute call. Exactly one of Result
// (on success) or Error (on failure) is set.
type Envelope struct {
	Success   bool            `json:"success"`
	Result    *compute.Result `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	Method    string          `json:"method,omitempty"`
	Operation string          `json:"operation,omitempty"`
	// Timestamp is Unix time in seconds with sub-second precision.
	Timestamp float64 `json:"timestamp"`

	// RequestID correlates the envelope with log lines; transports may
	// expose it as a header.
	RequestID string `json:"-"`
}

// Timestamp converts t to fractional Unix seconds.
func Timestamp(t time.Time) float64 {
	return float64(t.UnixMicro()) / 1e6
}

func success(id string, res compute.Result, method compute.Method, op compute.Operation, now time.Time) Envelope {
	return Envelope{
		Success:   true,
		Result:    &res,
		Method:    string(method),
		Operation: string(op),
		Timestamp: Timestamp(now),
		RequestID: id,
	}
}

func failure(id string, err error, now time.Time) Envelope {
	return Envelope{
		Success:   false,
		Error:     err.Error(),
		Timestamp: Timestamp(now),
		RequestID: id,
	}
}
