package router_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/dispatcher/internal/metrics"
	"github.com/angeloszaimis/dispatcher/internal/router"
	"github.com/angeloszaimis/dispatcher/internal/sink"
	"github.com/angeloszaimis/dispatcher/internal/urldecode"
)

// countingSink records every call so tests can check a single response was produced.
type countingSink struct {
	status int
	header map[string]string
	body   []byte
	heads  int
	ends   int
}

func (c *countingSink) WriteHead(status int, header map[string]string) {
	c.heads++
	c.status = status
	c.header = header
}

func (c *countingSink) Write(p []byte) (int, error) {
	c.body = append(c.body, p...)
	return len(p), nil
}

func (c *countingSink) End() {
	c.ends++
}

type recordedCall struct {
	name  string
	query urldecode.Query
}

var _ = Describe("Router", func() {
	var (
		log   *slog.Logger
		calls []recordedCall
		r     *router.Router
	)

	handlerNamed := func(name string) router.Handler {
		return router.HandlerFunc(func(q urldecode.Query, s sink.Sink) {
			calls = append(calls, recordedCall{name: name, query: q})
			s.WriteHead(http.StatusOK, map[string]string{"Content-Type": "text/plain"})
			s.Write([]byte(name))
			s.End()
		})
	}

	BeforeEach(func() {
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		calls = nil

		routes, err := router.NewRoutes(map[string]router.Handler{
			"/start":  handlerNamed("h1"),
			"/upload": handlerNamed("h2"),
		})
		Expect(err).NotTo(HaveOccurred())
		r = router.New(log, routes)
	})

	Describe("Dispatch", func() {
		It("should invoke the handler registered for the decoded path", func() {
			path, query := urldecode.Decode("/start?user=alice")
			s := &countingSink{}

			outcome := r.Dispatch(path, query, s)

			Expect(outcome).To(Equal(router.Matched))
			Expect(calls).To(Equal([]recordedCall{{name: "h1", query: urldecode.Query{"user": "alice"}}}))
			Expect(s.status).To(Equal(http.StatusOK))
			Expect(string(s.body)).To(Equal("h1"))
			Expect(s.heads).To(Equal(1))
			Expect(s.ends).To(Equal(1))
		})

		It("should pass the handler's output through untouched", func() {
			routes, err := router.NewRoutes(map[string]router.Handler{
				"/custom": router.HandlerFunc(func(_ urldecode.Query, s sink.Sink) {
					s.WriteHead(http.StatusTeapot, map[string]string{"X-Custom": "yes"})
					s.Write([]byte("short and stout"))
					s.End()
				}),
			})
			Expect(err).NotTo(HaveOccurred())
			rec := httptest.NewRecorder()

			router.New(log, routes).Dispatch("/custom", urldecode.Query{}, sink.NewHTTP(rec))

			Expect(rec.Code).To(Equal(http.StatusTeapot))
			Expect(rec.Header().Get("X-Custom")).To(Equal("yes"))
			Expect(rec.Header().Get("Content-Type")).To(BeEmpty())
			Expect(rec.Body.String()).To(Equal("short and stout"))
		})

		It("should write the fixed 404 for an unregistered path", func() {
			path, query := urldecode.Decode("/missing")
			rec := httptest.NewRecorder()

			outcome := r.Dispatch(path, query, sink.NewHTTP(rec))

			Expect(outcome).To(Equal(router.NotFound))
			Expect(calls).To(BeEmpty())
			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(rec.Header()).To(HaveLen(1))
			Expect(rec.Header().Get("Content-Type")).To(Equal("text/plain"))
			Expect(rec.Body.String()).To(Equal("404 Not found"))
		})

		It("should emit the 404 exactly once", func() {
			s := &countingSink{}

			r.Dispatch("/missing", urldecode.Query{}, s)

			Expect(s.heads).To(Equal(1))
			Expect(s.ends).To(Equal(1))
			Expect(s.header).To(Equal(map[string]string{"Content-Type": "text/plain"}))
			Expect(string(s.body)).To(Equal(router.NotFoundBody))
		})

		It("should answer / with 404 when nothing is registered", func() {
			empty, err := router.NewRoutes(map[string]router.Handler{})
			Expect(err).NotTo(HaveOccurred())
			rec := httptest.NewRecorder()

			path, query := urldecode.Decode("/")
			outcome := router.New(log, empty).Dispatch(path, query, sink.NewHTTP(rec))

			Expect(outcome).To(Equal(router.NotFound))
			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(rec.Body.String()).To(Equal("404 Not found"))
		})

		It("should give the same outcome when dispatched twice", func() {
			for _, path := range []string{"/start", "/missing", "/upload", "/start/"} {
				first := r.Dispatch(path, urldecode.Query{}, &countingSink{})
				second := r.Dispatch(path, urldecode.Query{}, &countingSink{})
				Expect(first).To(Equal(second), path)
			}
		})

		It("should not recover from a panicking handler", func() {
			routes, err := router.NewRoutes(map[string]router.Handler{
				"/boom": router.HandlerFunc(func(urldecode.Query, sink.Sink) { panic("boom") }),
			})
			Expect(err).NotTo(HaveOccurred())

			s := &countingSink{}
			Expect(func() {
				router.New(log, routes).Dispatch("/boom", urldecode.Query{}, s)
			}).To(PanicWith("boom"))
			Expect(s.heads).To(BeZero())
		})
	})

	Describe("events", func() {
		It("should report matched and unmatched dispatches", func() {
			events := make(chan metrics.Event, 4)
			routes := r.Routes()
			withEvents := router.New(log, routes, router.WithEvents(events))

			withEvents.Dispatch("/start", urldecode.Query{}, &countingSink{})
			withEvents.Dispatch("/missing", urldecode.Query{}, &countingSink{})

			Expect(events).To(HaveLen(2))
			first := <-events
			second := <-events
			Expect(first.Type).To(Equal(metrics.EventRouteMatched))
			Expect(first.Path).To(Equal("/start"))
			Expect(second.Type).To(Equal(metrics.EventRouteNotFound))
			Expect(second.Path).To(Equal("/missing"))
		})
	})

	Describe("Outcome", func() {
		It("should describe itself", func() {
			Expect(router.Matched.String()).To(Equal("matched"))
			Expect(router.NotFound.String()).To(Equal("not_found"))
		})
	})
})
