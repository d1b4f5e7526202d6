package sink

import (
	"net/http"
	"sync"

	"github.com/pkg/errors"
)

// ErrEnded is returned by Write once End has been called.
var ErrEnded = errors.New("sink: response already ended")

// Sink is the outgoing side of a single request.
type Sink interface {
	// WriteHead sets the status code and headers. Only the first call has effect.
	WriteHead(status int, header map[string]string)
	// Write appends body bytes, implying status 200 if WriteHead was not called.
	Write(p []byte) (int, error)
	// End signals that the response is complete.
	End()
}

// HTTP adapts an http.ResponseWriter to Sink.
type HTTP struct {
	w           http.ResponseWriter
	mutex       sync.Mutex
	wroteHeader bool
	ended       bool
}

// NewHTTP wraps w. The returned sink must not outlive the request that owns w.
func NewHTTP(w http.ResponseWriter) *HTTP {
	return &HTTP{w: w}
}

func (s *HTTP) WriteHead(status int, header map[string]string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.wroteHeader || s.ended {
		return
	}

	for key, value := range header {
		s.w.Header().Set(key, value)
	}
	s.w.WriteHeader(status)
	s.wroteHeader = true
}

func (s *HTTP) Write(p []byte) (int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.ended {
		return 0, ErrEnded
	}

	s.wroteHeader = true
	n, err := s.w.Write(p)
	if err != nil {
		return n, errors.Wrap(err, "sink: write body")
	}

	return n, nil
}

func (s *HTTP) End() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.ended {
		return
	}

	if f, ok := s.w.(http.Flusher); ok {
		f.Flush()
	}
	s.ended = true
}

// Ended reports whether End has been called.
func (s *HTTP) Ended() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.ended
}
