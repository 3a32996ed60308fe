// SPDX-License-Identifier: MIT

package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/katalvlaran/lawt/compute"
	"github.com/katalvlaran/lawt/literal"
	"github.com/katalvlaran/lawt/render"
)

// Computer evaluates one operation. The reference executor and the model
// adapter are the two strategies.
type Computer interface {
	Compute(ctx context.Context, op compute.Operation, a, b compute.Matrix) (compute.Result, error)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithRenderer replaces the default renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(e *Engine) {
		if r != nil {
			e.renderer = r
		}
	}
}

// WithMetrics records outcomes into m.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithClock overrides time.Now for timestamps and latency.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// Engine handles compute calls. It holds no per-request state and is safe
// for concurrent use.
type Engine struct {
	reference Computer
	model     Computer
	renderer  *render.Renderer
	logger    *zap.Logger
	metrics   *Metrics
	now       func() time.Time
}

// NewEngine wires the two strategies. model may be nil when no model backend
// exists at all; requests for it then fail as unavailable.
func NewEngine(reference, model Computer, opts ...Option) *Engine {
	e := &Engine{
		reference: reference,
		model:     model,
		renderer:  render.New(),
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	return e
}

// HandleCompute decodes a JSON request body and runs it.
// Malformed JSON fails with compute.ErrMalformedRequest.
func (e *Engine) HandleCompute(ctx context.Context, body []byte) (Envelope, int) {
	var req compute.Request
	if err := json.Unmarshal(body, &req); err != nil {
		return e.finish(e.begin(), compute.Request{}, "", fmt.Errorf("%w: %s", compute.ErrMalformedRequest, jsonReason(err)))
	}

	return e.Run(ctx, req)
}

// Run executes an already decoded request.
func (e *Engine) Run(ctx context.Context, req compute.Request) (Envelope, int) {
	st := e.begin()
	method := compute.ParseMethod(req.Method)

	// Received → Validated
	if err := validate(req); err != nil {
		return e.finish(st, req, method, err)
	}

	// Validated → Normalized
	a, err := literal.Normalize("matrixA", req.MatrixA)
	if err != nil {
		return e.finish(st, req, method, err)
	}
	var b compute.Matrix
	if req.MatrixB != nil {
		if b, err = literal.Normalize("matrixB", *req.MatrixB); err != nil {
			return e.finish(st, req, method, err)
		}
	}

	// Normalized → Executed
	res, err := e.computer(method).Compute(ctx, req.Operation, a, b)
	if err != nil {
		return e.finish(st, req, method, err)
	}
	if !res.Finite() {
		return e.finish(st, req, method, nonFinite(method))
	}

	// Executed → Rendered
	res = e.renderer.BestEffort(res, req.Operation)

	// Rendered → Responded
	env := success(st.id, res, method, req.Operation, e.now())
	e.record(st, req, method, http.StatusOK, nil)

	return env, http.StatusOK
}

type requestState struct {
	id    string
	start time.Time
}

func (e *Engine) begin() requestState {
	return requestState{id: uuid.NewString(), start: e.now()}
}

// computer picks the strategy for method. There is no fallback: a model
// request never reaches the reference computer.
func (e *Engine) computer(method compute.Method) Computer {
	if method == compute.MethodModel {
		if e.model == nil {
			return unavailable{}
		}

		return e.model
	}

	return e.reference
}

func validate(req compute.Request) error {
	if req.Operation == "" {
		return fmt.Errorf("%w: operation", compute.ErrMissingParameter)
	}
	if req.MatrixA.Empty() {
		return fmt.Errorf("%w: matrixA", compute.ErrMissingParameter)
	}
	if req.Operation.Binary() && (req.MatrixB == nil || req.MatrixB.Empty()) {
		return fmt.Errorf("%w: %s needs matrixB", compute.ErrMissingOperand, req.Operation)
	}

	return nil
}

// nonFinite is the failure for a result holding NaN or ±Inf, which the
// envelope cannot carry.
func nonFinite(method compute.Method) error {
	if method == compute.MethodModel {
		return fmt.Errorf("%w: result is not a finite number", compute.ErrModelComputation)
	}

	return fmt.Errorf("%w: result is not a finite number", compute.ErrNumericOverflow)
}

// finish builds the failure envelope for err.
func (e *Engine) finish(st requestState, req compute.Request, method compute.Method, err error) (Envelope, int) {
	status := StatusFor(err)
	e.record(st, req, method, status, err)

	return failure(st.id, err, e.now()), status
}

func (e *Engine) record(st requestState, req compute.Request, method compute.Method, status int, err error) {
	took := e.now().Sub(st.start)
	op := string(req.Operation)
	if !req.Operation.Known() {
		op = "unknown"
	}
	if method == "" {
		method = compute.ParseMethod(req.Method)
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	e.metrics.observe(op, string(method), outcome, took)

	fields := []zap.Field{
		zap.String("request_id", st.id),
		zap.String("operation", string(req.Operation)),
		zap.String("method", string(method)),
		zap.Int("status", status),
		zap.Duration("duration", took),
	}
	if err != nil {
		e.logger.Warn("compute failed", append(fields, zap.Error(err))...)
		return
	}
	e.logger.Info("compute finished", fields...)
}

// taxonomy lists the client-side failure classes; each maps to 400.
var taxonomy = []error{
	compute.ErrMalformedRequest,
	compute.ErrMissingParameter,
	compute.ErrParse,
	compute.ErrMissingOperand,
	compute.ErrDimensionMismatch,
	compute.ErrSingularMatrix,
	compute.ErrEigenComputation,
	compute.ErrNumericOverflow,
	compute.ErrUnsupportedOperation,
	compute.ErrBackendUnavailable,
	compute.ErrUnsupportedByBackend,
	compute.ErrModelComputation,
}

// StatusFor maps err onto an HTTP status: 400 for every taxonomy error,
// 500 for anything else.
func StatusFor(err error) int {
	for _, target := range taxonomy {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}

	return http.StatusInternalServerError
}

// unavailable stands in for a model backend that was never configured.
type unavailable struct{}

func (unavailable) Compute(context.Context, compute.Operation, compute.Matrix, compute.Matrix) (compute.Result, error) {
	return compute.Result{}, fmt.Errorf("%w: no model backend configured", compute.ErrBackendUnavailable)
}

// jsonReason strips encoding/json's Go type names from decode errors.
func jsonReason(err error) string {
	var syntax *json.SyntaxError
	var typ *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntax):
		return fmt.Sprintf("invalid JSON at offset %d", syntax.Offset)
	case errors.As(err, &typ):
		if typ.Field != "" {
			return fmt.Sprintf("field %s has the wrong type", typ.Field)
		}
		return "request must be a JSON object"
	default:
		return "invalid JSON"
	}
}
