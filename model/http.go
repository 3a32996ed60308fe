// SPDX-License-Identifier: MIT

package model

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/lawt/compute"
)

const (
	operationsPath = "/v1/operations"
	computePath    = "/v1/compute"

	// maxResponseBytes bounds how much of a backend reply is read.
	maxResponseBytes = 64 << 20
)

// errUnreachable replaces transport errors, which name the backend address.
var errUnreachable = errors.New("model backend unreachable")

// HTTPBackend talks JSON to a model-inference server.
//
//	GET  {url}/v1/operations → {"operations": ["transpose", ...]}
//	POST {url}/v1/compute    ← {"operation","matrixA","matrixB"}
//	                         → {"result": ...} or {"error": "..."}
type HTTPBackend struct {
	endpoint string
	client   *http.Client
	timeout  time.Duration
	ops      map[compute.Operation]bool
	logger   *zap.Logger
}

// HTTPConfig configures NewHTTPBackend.
type HTTPConfig struct {
	URL string
	// Timeout bounds each call; 0 leaves calls bounded only by the caller's context.
	Timeout time.Duration
	Client  *http.Client
	Logger  *zap.Logger
}

// NewHTTPBackend probes the server for its operation list.
// It fails when the URL is empty, the server is unreachable, or the reply is malformed.
func NewHTTPBackend(ctx context.Context, cfg HTTPConfig) (*HTTPBackend, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("model url is not set")
	}
	b := &HTTPBackend{
		endpoint: strings.TrimRight(cfg.URL, "/"),
		client:   cfg.Client,
		timeout:  cfg.Timeout,
		ops:      make(map[compute.Operation]bool),
		logger:   cfg.Logger,
	}
	if b.client == nil {
		b.client = &http.Client{}
	}
	if b.logger == nil {
		b.logger = zap.NewNop()
	}

	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.endpoint+operationsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	var listing struct {
		Operations []string `json:"operations"`
	}
	if err := b.do(req, &listing); err != nil {
		return nil, fmt.Errorf("probe failed: %w", err)
	}
	for _, name := range listing.Operations {
		if op := compute.Operation(name); op.Known() {
			b.ops[op] = true
		}
	}
	b.logger.Info("model backend ready",
		zap.String("endpoint", b.endpoint),
		zap.Strings("operations", listing.Operations))

	return b, nil
}

// HTTPInit returns an InitFunc that builds an HTTPBackend.
func HTTPInit(cfg HTTPConfig) InitFunc {
	return func() (Backend, error) {
		b, err := NewHTTPBackend(context.Background(), cfg)
		if err != nil {
			return nil, err
		}

		return b, nil
	}
}

// IsAvailable implements Backend.
func (b *HTTPBackend) IsAvailable(op compute.Operation) bool { return b.ops[op] }

type computeRequest struct {
	Operation compute.Operation `json:"operation"`
	MatrixA   compute.Matrix    `json:"matrixA"`
	MatrixB   compute.Matrix    `json:"matrixB,omitempty"`
}

type computeResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

// Compute implements Backend.
func (b *HTTPBackend) Compute(ctx context.Context, op compute.Operation, a, m compute.Matrix) (compute.Result, error) {
	body, err := json.Marshal(computeRequest{Operation: op, MatrixA: a, MatrixB: m})
	if err != nil {
		return compute.Result{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint+computePath, bytes.NewReader(body))
	if err != nil {
		return compute.Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out computeResponse
	if err := b.do(req, &out); err != nil {
		return compute.Result{}, err
	}
	if out.Error != "" {
		return compute.Result{}, errors.New(out.Error)
	}
	if len(out.Result) == 0 {
		return compute.Result{}, errors.New("response has no result")
	}

	res, err := compute.DecodeResult(out.Result, op.ResultKind())
	if err != nil {
		return compute.Result{}, fmt.Errorf("malformed result: %w", err)
	}

	return res, nil
}

func (b *HTTPBackend) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.timeout > 0 {
		return context.WithTimeout(ctx, b.timeout)
	}

	return context.WithCancel(ctx)
}

// do sends req and decodes a 2xx JSON reply into v.
// Non-2xx replies become errors carrying the status and a body excerpt.
func (b *HTTPBackend) do(req *http.Request, v any) error {
	resp, err := b.client.Do(req)
	if err != nil {
		b.logger.Warn("model backend request failed",
			zap.String("url", req.URL.String()),
			zap.Error(err))
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return fmt.Errorf("%w: %w", errUnreachable, ctxErr)
		}
		return errUnreachable
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("backend returned status %d: %s", resp.StatusCode, excerpt(data))
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func excerpt(data []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(data))
	if len(s) > limit {
		return s[:limit] + "..."
	}

	return s
}
