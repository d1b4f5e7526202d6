// Package handler implements the net/http entry point of the server.
// It decodes the request target, hands the request to the router and
// reports request metrics.
package handler
