// Package httpserver provides a lightweight wrapper around net/http that
// adds graceful shutdown, configurable timeouts, health-check handlers,
// and structured logging via slog.
//
// Run blocks until the context is cancelled or an interrupt/TERM signal is
// received, then shuts down using http.Server.Shutdown with a configurable
// deadline. Listen errors are wrapped with ErrStart, shutdown errors with
// ErrShutdown; inspect them with errors.Is.
package httpserver
