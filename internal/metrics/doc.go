// Package metrics collects dispatch statistics for the server.
//
// Producers push Event values onto a buffered channel; a single collector
// goroutine folds them into per-path counters:
//   - Requests received per path
//   - Matched vs unmatched (404) dispatches
//   - Response times with percentile calculations (P50, P95, P99)
//   - HTTP status code distribution
package metrics
