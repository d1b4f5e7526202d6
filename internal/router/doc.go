// Package router maps exact request paths to handlers and dispatches each
// decoded request to at most one of them. Paths without a handler receive a
// fixed plain-text 404 response.
package router
