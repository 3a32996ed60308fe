// SPDX-License-Identifier: MIT

package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/katalvlaran/lawt/config"
	"github.com/katalvlaran/lawt/dispatch"
	"github.com/katalvlaran/lawt/model"
	"github.com/katalvlaran/lawt/reference"
	"github.com/katalvlaran/lawt/render"
)

// buildEngine wires the reference executor, the model adapter and the
// renderer. The model backend is initialized eagerly so its status is
// known before the first request.
func buildEngine(cfg *config.Config, log *zap.Logger, reg prometheus.Registerer) (*dispatch.Engine, *model.Adapter) {
	initFn := model.Disabled("model backend disabled")
	if cfg.Model.Enabled {
		initFn = model.HTTPInit(model.HTTPConfig{
			URL:     cfg.Model.URL,
			Timeout: cfg.Model.Timeout,
			Logger:  log.Named("model"),
		})
	}
	handle := model.NewHandle(initFn)

	var metrics *dispatch.Metrics
	if reg != nil {
		metrics = dispatch.NewMetrics(reg)
	}

	if _, err := handle.Get(); err != nil {
		log.Warn("model backend unavailable", zap.Error(err))
		metrics.SetModelAvailable(false)
	} else {
		metrics.SetModelAvailable(true)
	}

	adapter := model.NewAdapter(handle)
	renderer := render.New(
		render.WithMaxDenominator(cfg.Render.MaxDenominator),
		render.WithTolerance(cfg.Render.Tolerance),
		render.WithLogger(log.Named("render")),
	)

	engine := dispatch.NewEngine(reference.New(), adapter,
		dispatch.WithLogger(log.Named("dispatch")),
		dispatch.WithRenderer(renderer),
		dispatch.WithMetrics(metrics),
	)

	return engine, adapter
}
