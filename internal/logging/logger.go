package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Logger wraps slog with a file handle and a pseudo trace level.
type Logger struct {
	logger       *slog.Logger
	file         *os.File
	traceEnabled bool
}

// Config contains the settings used to build a Logger.
type Config struct {
	// Log Level. One of: trace, debug, info, warn, error
	Level string
	// "json" or "text"
	Format string
	// Path to the file to log into. Empty logs to stderr.
	FilePath string
}

func New(config Config) (*Logger, error) {
	var (
		out  io.Writer = os.Stderr
		file *os.File
	)
	if config.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(config.FilePath), 0700); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return nil, err
		}
		out, file = f, f
	}

	l := NewWithWriter(out, config)
	l.file = file
	return l, nil
}

// NewWithWriter builds a Logger that writes to w. Used by tests and by New.
func NewWithWriter(w io.Writer, config Config) *Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(config.Level),
	}

	var handler slog.Handler
	if strings.EqualFold(config.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &Logger{
		logger:       slog.New(handler),
		traceEnabled: strings.EqualFold(config.Level, "trace"),
	}
}

// Close the log file, if any
func (l *Logger) Close() {
	if l.file == nil {
		return
	}
	if err := l.file.Close(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error closing logger: %v\n", err)
	}
}

// Slog exposes the underlying slog.Logger for libraries that take one.
func (l *Logger) Slog() *slog.Logger {
	return l.logger
}

func (l *Logger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

// With returns a Logger that always adds args.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		logger:       l.logger.With(args...),
		file:         l.file,
		traceEnabled: l.traceEnabled,
	}
}

// FromContext returns the default logger tagged with the request id carried by ctx.
func FromContext(ctx context.Context) *Logger {
	l := DefaultLogger()
	if l == nil {
		return nil
	}
	if id := GetRequestID(ctx); id != "" {
		return l.With("request_id", id)
	}
	return l
}

// parseLogLevel converts a string level into the slog version. Defaults to info.
func parseLogLevel(lvl string) slog.Level {
	switch strings.ToLower(lvl) {
	case "debug", "trace":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
