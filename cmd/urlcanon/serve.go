package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"urlcanon/internal/config"
	"urlcanon/internal/metrics"
	"urlcanon/internal/server"
	"urlcanon/internal/telemetry"
)

type ServeCmd struct {
	Listen  string `help:"Address to listen on." env:"URLCANON_LISTEN"`
	Tracing bool   `help:"Export OpenTelemetry traces and metrics over OTLP." env:"URLCANON_TRACING"`
}

func (c *ServeCmd) Run(g *Globals, s *streams) error {
	cfg, err := g.settings()
	if err != nil {
		return err
	}
	if c.Listen != "" {
		cfg.Listen = c.Listen
	}
	cfg.Merge(config.Config{Tracing: c.Tracing})
	logger := newLogger(cfg, s.err)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	batch, err := newBatch(cfg, extractorFor(false), logger, metrics.New(reg))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing {
		shutdown, err := telemetry.Setup(ctx, telemetry.Options{Metrics: true})
		if err != nil {
			return err
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(flushCtx); err != nil {
				logger.Warn("Failed to flush telemetry.", "error", err)
			}
		}()
		logger.Info("OpenTelemetry export enabled.")
	}

	handler := server.NewHandler(server.Config{
		Batch:        batch,
		Logger:       logger,
		Gatherer:     reg,
		MaxBodyBytes: cfg.MaxBodyBytes,
	})
	return server.Serve(ctx, cfg.Listen, handler, logger)
}
