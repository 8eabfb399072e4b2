// Package logger implements the logging port on log/slog.
package logger

import (
	"io"
	"log/slog"
	"os"

	"go.trai.ch/parcel/internal/core/ports"
)

// Logger implements ports.Logger using a slog text handler.
type Logger struct {
	logger *slog.Logger
}

// New creates a Logger writing human-readable logs to w at the given level.
// A nil writer defaults to stderr.
func New(w io.Writer, level slog.Level) ports.Logger {
	if w == nil {
		w = os.Stderr
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return &Logger{logger: slog.New(handler)}
}

// Debug logs a debug message with key-value pairs.
func (l *Logger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

// Info logs an informational message with key-value pairs.
func (l *Logger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

// Warn logs a warning with key-value pairs.
func (l *Logger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

// Error logs an error with key-value pairs.
func (l *Logger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}
