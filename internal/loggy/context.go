package loggy

import (
	"context"

	"github.com/tildaslashalef/sonarshift/internal/ulid"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
)

// FromContext retrieves the logger from the context, falling back to the global logger
func FromContext(ctx context.Context) *Logger {
	if ctx == nil {
		return globalLogger
	}

	if logger, ok := ctx.Value(loggerKey).(*Logger); ok && logger != nil {
		return logger
	}

	return globalLogger
}

// WithLogger returns a new context with the logger attached
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// GetRequestID retrieves the request ID from the context
func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}

	return ""
}

// WithRequestID attaches a request ID to the context and to the context's logger
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, requestIDKey, requestID)

	if logger := FromContext(ctx); logger != nil {
		ctx = WithLogger(ctx, logger.With("request_id", requestID))
	}
	return ctx
}

// NewRequestID generates a new request ID using ULID
func NewRequestID() string {
	return ulid.RequestID()
}

// Fields represents a collection of log fields
type Fields map[string]interface{}

// AddToContext adds fields to the context's logger and returns the new context
func AddToContext(ctx context.Context, fields Fields) context.Context {
	logger := FromContext(ctx)
	if logger == nil {
		return ctx
	}

	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}

	return WithLogger(ctx, logger.With(args...))
}
