package requesthandlers_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/dispatcher/internal/requesthandlers"
	"github.com/angeloszaimis/dispatcher/internal/sink"
	"github.com/angeloszaimis/dispatcher/internal/urldecode"
)

var _ = Describe("Request handlers", func() {
	var (
		h   *requesthandlers.Handlers
		rec *httptest.ResponseRecorder
	)

	BeforeEach(func() {
		h = requesthandlers.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
		rec = httptest.NewRecorder()
	})

	Describe("Start", func() {
		It("should render the upload form", func() {
			h.Start(urldecode.Query{}, sink.NewHTTP(rec))

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(Equal("text/html"))
			Expect(rec.Body.String()).To(Equal(requesthandlers.StartPage()))
			Expect(rec.Body.String()).To(ContainSubstring(`action="/upload"`))
			Expect(rec.Body.String()).To(ContainSubstring(`name="text"`))
		})
	})

	Describe("Upload", func() {
		It("should echo the submitted text", func() {
			_, query := urldecode.Decode("/upload?text=hello+world")
			h.Upload(query, sink.NewHTTP(rec))

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(Equal("text/plain"))
			Expect(rec.Body.String()).To(Equal("You've sent the text: hello world"))
		})

		It("should echo text containing semicolons", func() {
			_, query := urldecode.Decode("/upload?text=x;y")
			h.Upload(query, sink.NewHTTP(rec))

			Expect(rec.Body.String()).To(Equal("You've sent the text: x;y"))
		})

		It("should echo nothing when the field is missing", func() {
			h.Upload(urldecode.Query{}, sink.NewHTTP(rec))

			Expect(rec.Body.String()).To(Equal("You've sent the text: "))
		})
	})
})
