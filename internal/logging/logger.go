// Package logging provides structured logging for stache commands, backed
// by log/slog with component scoping.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is the structured logging interface used across the CLI and
// preview server.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(err error, msg string, fields ...any)
	Error(err error, msg string, fields ...any)

	With(fields ...any) Logger
	WithComponent(component string) Logger
}

// Config holds logger configuration.
type Config struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "json" or "text"
	Output io.Writer
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: "text",
		Output: os.Stderr,
	}
}

type stacheLogger struct {
	logger *slog.Logger
}

// NewLogger creates a structured logger.
func NewLogger(config *Config) Logger {
	if config == nil {
		config = DefaultConfig()
	}

	output := config.Output
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: parseLevel(config.Level)}

	var handler slog.Handler
	if config.Format == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	return &stacheLogger{logger: slog.New(handler)}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *stacheLogger) Debug(msg string, fields ...any) {
	l.logger.Debug(msg, fields...)
}

func (l *stacheLogger) Info(msg string, fields ...any) {
	l.logger.Info(msg, fields...)
}

func (l *stacheLogger) Warn(err error, msg string, fields ...any) {
	l.logger.Warn(msg, withError(err, fields)...)
}

func (l *stacheLogger) Error(err error, msg string, fields ...any) {
	l.logger.Error(msg, withError(err, fields)...)
}

func (l *stacheLogger) With(fields ...any) Logger {
	return &stacheLogger{logger: l.logger.With(fields...)}
}

func (l *stacheLogger) WithComponent(component string) Logger {
	return l.With("component", component)
}

func withError(err error, fields []any) []any {
	if err == nil {
		return fields
	}

	return append(fields, "error", err.Error())
}
