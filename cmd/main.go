package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/angeloszaimis/dispatcher/config"
	"github.com/angeloszaimis/dispatcher/internal/handler"
	"github.com/angeloszaimis/dispatcher/internal/httpserver"
	"github.com/angeloszaimis/dispatcher/internal/metrics"
	"github.com/angeloszaimis/dispatcher/internal/router"
	"github.com/angeloszaimis/dispatcher/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.AddSource, cfg.Server.Environment)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatchHandler, err := buildHandler(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to build routes", slog.Any("err", err))
		os.Exit(1)
	}

	srv, err := httpserver.New(cfg.Server.Address, dispatchHandler)
	if err != nil {
		log.Error("Failed to create server", slog.Any("err", err))
		os.Exit(1)
	}

	log.Info("Server has started", slog.String("address", srv.Addr()))

	if err := srv.Start(); err != nil {
		log.Error("Server stopped", slog.Any("err", err))
		os.Exit(1)
	}
}

// buildHandler wires the metrics collector, the handler mapping and the
// router into the http.Handler served by the listener.
func buildHandler(ctx context.Context, cfg *config.Config, log *slog.Logger) (http.Handler, error) {
	var (
		collector *metrics.Collector
		events    chan<- metrics.Event
	)

	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(cfg.Metrics.BufferSize, log)
		collector.Start(ctx)
		events = collector.EventChannel()
	}

	routes, err := setupRoutes(log, collector, cfg.Metrics.Path)
	if err != nil {
		return nil, err
	}

	log.Debug("Registered routes", slog.Any("paths", routes.Paths()))

	rt := router.New(log, routes, router.WithEvents(events))
	return handler.NewDispatchHandler(log, rt, events), nil
}
