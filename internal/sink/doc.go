// Package sink defines the Response Sink through which a handler emits exactly
// one HTTP response, and its implementation over net/http.
package sink
