// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/lawt/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP compute API",
		Long: `Starts the HTTP server:
  POST /api/compute   run one operation
  GET  /api/status    model backend status
  GET  /healthz       liveness
  GET  /metrics       Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx)
		},
	}
}

func runServe(ctx context.Context) error {
	engine, adapter := buildEngine(cfg, logger, prometheus.DefaultRegisterer)
	srv := server.New(engine,
		server.WithLogger(logger.Named("http")),
		server.WithStatus(adapter),
	)

	logger.Info("starting lawt",
		zap.String("version", version),
		zap.String("addr", cfg.Server.Addr),
		zap.Bool("model_enabled", cfg.Model.Enabled))

	return srv.Run(ctx, cfg.Server)
}
