package logging

import "context"

// NullLogger drops every record. It is the default for library callers
// that pass no logger, so the sync engine never checks for nil.
type NullLogger struct{}

var _ Logger = (*NullLogger)(nil)

// NewNullLogger returns a logger that discards output
func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

func (l *NullLogger) Debug(ctx context.Context, msg string, fields Fields) {}

func (l *NullLogger) Info(ctx context.Context, msg string, fields Fields) {}

func (l *NullLogger) Warn(ctx context.Context, msg string, fields Fields) {}

func (l *NullLogger) Error(ctx context.Context, msg string, err error, fields Fields) {}

// WithFields returns l; there is nothing to attach fields to
func (l *NullLogger) WithFields(fields Fields) Logger {
	return l
}

func (l *NullLogger) Close() error {
	return nil
}
