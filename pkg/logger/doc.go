// Package logger builds the process-wide slog.Logger. Output goes to stdout:
// human-readable text outside production, JSON in production.
package logger
