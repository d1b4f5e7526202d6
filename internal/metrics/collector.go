package metrics

import (
	"context"
	"log/slog"
	"time"
)

type EventType string

const (
	EventRequestReceived   EventType = "request_received"
	EventRouteMatched      EventType = "route_matched"
	EventRouteNotFound     EventType = "route_not_found"
	EventResponseCompleted EventType = "response_completed"
)

// Event is a single observation about one request.
type Event struct {
	Type       EventType
	Timestamp  time.Time
	Path       string
	Duration   time.Duration
	StatusCode int
}

type Collector struct {
	eventCh chan Event
	metrics *Metrics
	logger  *slog.Logger
}

func NewCollector(bufferSize int, logger *slog.Logger) *Collector {
	return &Collector{
		eventCh: make(chan Event, bufferSize),
		metrics: NewMetrics(),
		logger:  logger,
	}
}

func (c *Collector) EventChannel() chan<- Event {
	return c.eventCh
}

func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *Collector) run(ctx context.Context) {
	c.logger.Info("Metrics collector started")
	defer c.logger.Info("Metrics collector stopped")

	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		case <-ctx.Done():
			// Drain remaining events before shutdown
			c.drain()
			return
		}
	}
}

func (c *Collector) processEvent(event Event) {
	switch event.Type {
	case EventRequestReceived:
		c.metrics.IncrementRequests(event.Path)
	case EventRouteMatched:
		c.metrics.RecordMatch(event.Path)
	case EventRouteNotFound:
		c.metrics.RecordNotFound(event.Path)
	case EventResponseCompleted:
		c.metrics.RecordResponse(event.Path, event.Duration, event.StatusCode)
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		default:
			return
		}
	}
}

func (c *Collector) Snapshot() Snapshot {
	return c.metrics.Snapshot()
}

// Emit sends event without blocking; the event is dropped when the buffer is full.
func Emit(ch chan<- Event, event Event) {
	if ch == nil {
		return
	}

	select {
	case ch <- event:
	default:
	}
}
