package logging

import (
	"context"
	"sync"
)

var (
	defaultLogger *Logger
	mu            sync.RWMutex
)

// SetDefaultLogger sets the logger used by the package level functions.
func SetDefaultLogger(logger *Logger) {
	mu.Lock()
	defaultLogger = logger
	mu.Unlock()
}

// DefaultLogger returns the current default logger
func DefaultLogger() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

func Debug(msg string, args ...any) {
	if logger := DefaultLogger(); logger != nil {
		logger.Debug(msg, args...)
	}
}

func Info(msg string, args ...any) {
	if logger := DefaultLogger(); logger != nil {
		logger.Info(msg, args...)
	}
}

func Warn(msg string, args ...any) {
	if logger := DefaultLogger(); logger != nil {
		logger.Warn(msg, args...)
	}
}

func Error(msg string, args ...any) {
	if logger := DefaultLogger(); logger != nil {
		logger.Error(msg, args...)
	}
}

// Trace logs at debug level, but only when the configured level is "trace".
func Trace(msg string, args ...any) {
	if logger := DefaultLogger(); logger != nil && logger.traceEnabled {
		logger.Debug("TRACE: "+msg, args...)
	}
}

// InfoContext logs at info level with the request id from ctx.
func InfoContext(ctx context.Context, msg string, args ...any) {
	if logger := FromContext(ctx); logger != nil {
		logger.Info(msg, args...)
	}
}

// WarnContext logs at warn level with the request id from ctx.
func WarnContext(ctx context.Context, msg string, args ...any) {
	if logger := FromContext(ctx); logger != nil {
		logger.Warn(msg, args...)
	}
}

// ErrorContext logs at error level with the request id from ctx.
func ErrorContext(ctx context.Context, msg string, args ...any) {
	if logger := FromContext(ctx); logger != nil {
		logger.Error(msg, args...)
	}
}
