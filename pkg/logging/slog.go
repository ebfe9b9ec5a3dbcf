package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
)

// SlogLogger implements Logger on top of a slog.Logger
type SlogLogger struct {
	logger  *slog.Logger
	closers []io.Closer
}

// NewSlogLogger wraps an existing slog logger. Closers are closed, in
// order, by Close.
func NewSlogLogger(logger *slog.Logger, closers ...io.Closer) *SlogLogger {
	return &SlogLogger{logger: logger, closers: closers}
}

// Slog returns the underlying slog logger
func (l *SlogLogger) Slog() *slog.Logger {
	return l.logger
}

// Debug logs a debug message
func (l *SlogLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.log(ctx, slog.LevelDebug, msg, nil, fields)
}

// Info logs an info message
func (l *SlogLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.log(ctx, slog.LevelInfo, msg, nil, fields)
}

// Warn logs a warning message
func (l *SlogLogger) Warn(ctx context.Context, msg string, fields Fields) {
	l.log(ctx, slog.LevelWarn, msg, nil, fields)
}

// Error logs an error message
func (l *SlogLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	l.log(ctx, slog.LevelError, msg, err, fields)
}

// WithFields returns a logger with additional fields.
// The returned logger shares the closers but must not be closed itself.
func (l *SlogLogger) WithFields(fields Fields) Logger {
	return &SlogLogger{logger: l.logger.With(attrs(fields, nil)...)}
}

// Close closes every owned writer
func (l *SlogLogger) Close() error {
	var errs []error
	for _, c := range l.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	l.closers = nil
	return errors.Join(errs...)
}

func (l *SlogLogger) log(ctx context.Context, level slog.Level, msg string, err error, fields Fields) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.logger.Enabled(ctx, level) {
		return
	}
	l.logger.Log(ctx, level, msg, attrs(fields, err)...)
}

// attrs converts fields to slog arguments with a stable key order
func attrs(fields Fields, err error) []any {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]any, 0, len(keys)+1)
	if err != nil {
		args = append(args, slog.Any("error", err))
	}
	for _, k := range keys {
		args = append(args, slog.Any(k, fields[k]))
	}
	return args
}
