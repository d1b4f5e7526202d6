package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/angeloszaimis/dispatcher/internal/metrics"
	"github.com/angeloszaimis/dispatcher/internal/sink"
	"github.com/angeloszaimis/dispatcher/internal/urldecode"
)

// NotFoundBody is the exact body sent for unregistered paths.
const NotFoundBody = "404 Not found"

// Outcome tells which branch Dispatch took.
type Outcome int

const (
	Matched Outcome = iota
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case Matched:
		return "matched"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

type Router struct {
	logger *slog.Logger
	routes *Routes
	events chan<- metrics.Event
}

type Option func(*Router)

// WithEvents makes the router report matched and unmatched dispatches on ch.
func WithEvents(ch chan<- metrics.Event) Option {
	return func(r *Router) {
		r.events = ch
	}
}

func New(logger *slog.Logger, routes *Routes, opts ...Option) *Router {
	r := &Router{
		logger: logger,
		routes: routes,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Routes returns the mapping the router dispatches against.
func (r *Router) Routes() *Routes {
	return r.routes
}

// Dispatch invokes the handler registered for path, or writes the fixed 404
// response when there is none. The handler owns s entirely; its failures are
// not observed here.
func (r *Router) Dispatch(path string, query urldecode.Query, s sink.Sink) Outcome {
	r.logger.Info("About to route a request", slog.String("path", path))

	h, ok := r.routes.Lookup(path)
	if !ok {
		r.logger.Info("No request handler found", slog.String("path", path))
		metrics.Emit(r.events, metrics.Event{
			Type:      metrics.EventRouteNotFound,
			Timestamp: time.Now(),
			Path:      path,
		})
		WriteNotFound(s)
		return NotFound
	}

	metrics.Emit(r.events, metrics.Event{
		Type:      metrics.EventRouteMatched,
		Timestamp: time.Now(),
		Path:      path,
	})
	h.Handle(query, s)
	return Matched
}

// WriteNotFound emits the fixed 404 response and ends s.
func WriteNotFound(s sink.Sink) {
	s.WriteHead(http.StatusNotFound, map[string]string{"Content-Type": "text/plain"})
	s.Write([]byte(NotFoundBody))
	s.End()
}
