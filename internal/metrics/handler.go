package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/angeloszaimis/dispatcher/internal/sink"
	"github.com/angeloszaimis/dispatcher/internal/urldecode"
)

// Handle serves the current snapshot as JSON, so a Collector can be
// registered as a route handler.
func (c *Collector) Handle(_ urldecode.Query, s sink.Sink) {
	defer s.End()

	body, err := json.Marshal(c.Snapshot())
	if err != nil {
		s.WriteHead(http.StatusInternalServerError, map[string]string{"Content-Type": "text/plain"})
		s.Write([]byte(err.Error()))
		return
	}

	s.WriteHead(http.StatusOK, map[string]string{"Content-Type": "application/json"})
	s.Write(body)
}
