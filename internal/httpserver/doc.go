// Package httpserver runs the listener that feeds every inbound HTTP/1.x
// request to a single http.Handler.
package httpserver
