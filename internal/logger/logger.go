// Package logger provides the application logging interface backed by
// log/slog.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger defines the logging interface used across the application.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ConsoleLogger writes text-formatted records to a writer.
type ConsoleLogger struct {
	logger *slog.Logger
}

// New creates a console logger writing to stdout at the given level.
func New(level string) *ConsoleLogger {
	return NewWithWriter(os.Stdout, level)
}

// NewWithWriter creates a console logger writing to the given writer.
func NewWithWriter(w io.Writer, level string) *ConsoleLogger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	return &ConsoleLogger{logger: slog.New(slog.NewTextHandler(w, opts))}
}

func (c *ConsoleLogger) Debug(msg string, args ...any) {
	c.logger.Debug(msg, args...)
}

func (c *ConsoleLogger) Info(msg string, args ...any) {
	c.logger.Info(msg, args...)
}

func (c *ConsoleLogger) Warn(msg string, args ...any) {
	c.logger.Warn(msg, args...)
}

func (c *ConsoleLogger) Error(msg string, args ...any) {
	c.logger.Error(msg, args...)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
