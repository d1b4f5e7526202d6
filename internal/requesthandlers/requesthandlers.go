// Package requesthandlers holds the handlers the server binary registers out
// of the box: a start page with a text form and an upload page echoing it.
package requesthandlers

import (
	"log/slog"
	"net/http"

	"github.com/angeloszaimis/dispatcher/internal/sink"
	"github.com/angeloszaimis/dispatcher/internal/urldecode"
)

// UploadField is the form field read by Upload.
const UploadField = "text"

const startPage = `<html>
<head>
<meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
</head>
<body>
<form action="/upload" method="get">
<textarea name="` + UploadField + `" rows="20" cols="60"></textarea>
<input type="submit" value="Submit text" />
</form>
</body>
</html>
`

type Handlers struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Handlers {
	return &Handlers{logger: logger}
}

// Start renders the submission form.
func (h *Handlers) Start(_ urldecode.Query, s sink.Sink) {
	h.logger.Info("Request handler 'start' was called")

	s.WriteHead(http.StatusOK, map[string]string{"Content-Type": "text/html"})
	s.Write([]byte(startPage))
	s.End()
}

// Upload echoes the submitted text back as plain text.
func (h *Handlers) Upload(query urldecode.Query, s sink.Sink) {
	h.logger.Info("Request handler 'upload' was called",
		slog.Int("text_length", len(query.Get(UploadField))))

	s.WriteHead(http.StatusOK, map[string]string{"Content-Type": "text/plain"})
	s.Write([]byte("You've sent the text: " + query.Get(UploadField)))
	s.End()
}

// StartPage returns the HTML served by Start.
func StartPage() string {
	return startPage
}
