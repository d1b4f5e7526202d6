package router

import (
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pkg/errors"

	"github.com/angeloszaimis/dispatcher/internal/sink"
	"github.com/angeloszaimis/dispatcher/internal/urldecode"
)

// Handler produces the complete response for one request.
type Handler interface {
	Handle(query urldecode.Query, s sink.Sink)
}

// HandlerFunc adapts an ordinary function to Handler.
type HandlerFunc func(query urldecode.Query, s sink.Sink)

func (f HandlerFunc) Handle(query urldecode.Query, s sink.Sink) {
	f(query, s)
}

// Routes is an immutable mapping from exact path to Handler. It is safe for
// concurrent use because nothing can modify it after NewRoutes returns.
type Routes struct {
	handlers map[string]Handler
}

// NewRoutes copies handlers into a new Routes after validating every entry.
func NewRoutes(handlers map[string]Handler) (*Routes, error) {
	copied := make(map[string]Handler, len(handlers))
	errs := validation.Errors{}

	for path, h := range handlers {
		if err := validateRoute(path, h); err != nil {
			errs[path] = err
			continue
		}
		copied[path] = h
	}

	if err := errs.Filter(); err != nil {
		return nil, errors.Wrap(err, "invalid routes")
	}

	return &Routes{handlers: copied}, nil
}

// Lookup returns the handler registered for exactly path.
func (r *Routes) Lookup(path string) (Handler, bool) {
	h, ok := r.handlers[path]
	return h, ok
}

func (r *Routes) Len() int {
	return len(r.handlers)
}

// Paths returns the registered paths in sorted order.
func (r *Routes) Paths() []string {
	paths := make([]string, 0, len(r.handlers))
	for path := range r.handlers {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func validateRoute(path string, h Handler) error {
	if h == nil {
		return validation.NewError("validation_nil_handler", "handler cannot be nil")
	}
	if f, ok := h.(HandlerFunc); ok && f == nil {
		return validation.NewError("validation_nil_handler", "handler cannot be nil")
	}

	return validation.Validate(path,
		validation.Required,
		validation.By(func(value interface{}) error {
			p, _ := value.(string)
			if !strings.HasPrefix(p, "/") {
				return validation.NewError("validation_invalid_path", "path must start with /")
			}
			return nil
		}),
	)
}
