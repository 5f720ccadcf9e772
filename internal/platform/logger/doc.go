// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured JSON logging
// with configurable log levels. Error attributes are scrubbed of credentials
// before they reach the output.
package logger
