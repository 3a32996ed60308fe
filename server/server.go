// SPDX-License-Identifier: MIT

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/lawt/compute"
	"github.com/katalvlaran/lawt/config"
	"github.com/katalvlaran/lawt/dispatch"
	"github.com/katalvlaran/lawt/model"
)

// MaxBodyBytes bounds a compute request body.
const MaxBodyBytes = 32 << 20

const requestIDHeader = "X-Request-ID"

// StatusSource reports the model backend status; *model.Adapter implements it.
type StatusSource interface {
	Status() model.Status
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStatus sets the source for GET /api/status. Without one the model
// backend is reported as not configured.
func WithStatus(src StatusSource) Option {
	return func(s *Server) { s.status = src }
}

// WithGatherer serves g on /metrics instead of the default registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		if g != nil {
			s.gatherer = g
		}
	}
}

// WithClock overrides time.Now for status timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// Server routes HTTP requests to the engine.
type Server struct {
	engine   *dispatch.Engine
	status   StatusSource
	gatherer prometheus.Gatherer
	logger   *zap.Logger
	now      func() time.Time
}

// New returns a Server for engine.
func New(engine *dispatch.Engine, opts ...Option) *Server {
	s := &Server{
		engine:   engine,
		gatherer: prometheus.DefaultGatherer,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

// Handler returns the full route table wrapped in recovery and CORS.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/compute", s.handleCompute)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("/api/", s.handleNotFound)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok")
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	return s.recoverer(cors(mux))
}

func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeFailure(w, http.StatusRequestEntityTooLarge,
				fmt.Errorf("%w: body exceeds %d bytes", compute.ErrMalformedRequest, tooLarge.Limit))
			return
		}
		s.logger.Error("failed to read request body", zap.Error(err))
		s.writeFailure(w, http.StatusInternalServerError, errors.New("failed to read request body"))
		return
	}

	env, status := s.engine.HandleCompute(r.Context(), body)
	if env.RequestID != "" {
		w.Header().Set(requestIDHeader, env.RequestID)
	}
	s.writeJSON(w, status, env)
}

type statusResponse struct {
	ModelAvailable bool                `json:"model_available"`
	ModelStatus    string              `json:"model_status"`
	Message        string              `json:"message"`
	Operations     []compute.Operation `json:"operations"`
	Timestamp      float64             `json:"timestamp"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	st := model.Status{Message: "model backend is not configured"}
	if s.status != nil {
		st = s.status.Status()
	}

	resp := statusResponse{
		ModelAvailable: st.Available,
		ModelStatus:    "unavailable",
		Message:        st.Message,
		Operations:     st.Operations,
		Timestamp:      dispatch.Timestamp(s.now()),
	}
	if st.Available {
		resp.ModelStatus = "ready"
	}
	if resp.Operations == nil {
		resp.Operations = []compute.Operation{}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeFailure(w, http.StatusNotFound, fmt.Errorf("API endpoint not found: %s %s", r.Method, r.URL.Path))
}

func (s *Server) writeFailure(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, dispatch.Envelope{
		Success:   false,
		Error:     err.Error(),
		Timestamp: dispatch.Timestamp(s.now()),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
		status = http.StatusInternalServerError
		data, _ = json.Marshal(dispatch.Envelope{
			Error:     "failed to encode response",
			Timestamp: dispatch.Timestamp(s.now()),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// Run listens on cfg.Addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context, cfg config.Server) error {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}

	return s.Serve(ctx, ln, cfg)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully
// within cfg.ShutdownTimeout. It returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener, cfg config.Server) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		ErrorLog:          zap.NewStdLog(s.logger),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("http server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		s.logger.Info("http server shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
