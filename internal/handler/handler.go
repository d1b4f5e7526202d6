package handler

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angeloszaimis/dispatcher/internal/metrics"
	"github.com/angeloszaimis/dispatcher/internal/router"
	"github.com/angeloszaimis/dispatcher/internal/sink"
	"github.com/angeloszaimis/dispatcher/internal/urldecode"
)

type DispatchHandler struct {
	logger *slog.Logger
	router *router.Router
	events chan<- metrics.Event
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (h *DispatchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	target := requestTarget(r)
	path, query := urldecode.Decode(target)

	log := h.logger.With(slog.String("request_id", uuid.NewString()))
	log.Info("Request received",
		slog.String("path", path),
		slog.String("from", extractClientIP(r)),
		slog.String("method", r.Method),
		slog.String("proto", r.Proto))

	metrics.Emit(h.events, metrics.Event{
		Type:      metrics.EventRequestReceived,
		Timestamp: start,
		Path:      path,
	})

	wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
	outcome := h.router.Dispatch(path, query, sink.NewHTTP(wrapped))

	duration := time.Since(start)
	log.Debug("Request completed",
		slog.String("path", path),
		slog.String("outcome", outcome.String()),
		slog.Int("status", wrapped.statusCode),
		slog.Duration("duration", duration))

	metrics.Emit(h.events, metrics.Event{
		Type:       metrics.EventResponseCompleted,
		Timestamp:  time.Now(),
		Path:       path,
		Duration:   duration,
		StatusCode: wrapped.statusCode,
	})
}

// requestTarget prefers the target exactly as it appeared on the request line.
func requestTarget(r *http.Request) string {
	if r.RequestURI != "" {
		return r.RequestURI
	}
	return r.URL.RequestURI()
}

func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}

	host, _, _ := net.SplitHostPort(r.RemoteAddr)
	return host
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// NewDispatchHandler builds the entry handler. events may be nil.
func NewDispatchHandler(logger *slog.Logger, rt *router.Router, events chan<- metrics.Event) *DispatchHandler {
	return &DispatchHandler{
		logger: logger,
		router: rt,
		events: events,
	}
}
