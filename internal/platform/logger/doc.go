// Package logger provides structured logging functionality for the application.
//
// It builds on the standard library log/slog package: JSON output for
// production, colorized tint output for local consoles, and helpers for
// carrying a request-scoped logger through a context.
package logger
