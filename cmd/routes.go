package main

import (
	"log/slog"

	"github.com/pkg/errors"

	"github.com/angeloszaimis/dispatcher/internal/metrics"
	"github.com/angeloszaimis/dispatcher/internal/requesthandlers"
	"github.com/angeloszaimis/dispatcher/internal/router"
)

// setupRoutes builds the handler mapping once at startup. collector may be
// nil, in which case no metrics route is registered.
func setupRoutes(log *slog.Logger, collector *metrics.Collector, metricsPath string) (*router.Routes, error) {
	pages := requesthandlers.New(log)

	handle := map[string]router.Handler{
		"/":       router.HandlerFunc(pages.Start),
		"/start":  router.HandlerFunc(pages.Start),
		"/upload": router.HandlerFunc(pages.Upload),
	}

	if collector != nil {
		if _, taken := handle[metricsPath]; taken {
			return nil, errors.Errorf("metrics path %q collides with a registered route", metricsPath)
		}
		handle[metricsPath] = collector
	}

	return router.NewRoutes(handle)
}
