package logging

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// requestIDKey is the context key for the per-request correlation ID.
type requestIDKey struct{}

// NewRequestID returns a short correlation ID: 8 lowercase hex characters
// drawn from a random UUID. Unique enough to pair log lines with requests.
func NewRequestID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}

// WithRequestID returns a context carrying id as the current correlation ID.
// Every log record emitted with this context (or one derived from it) is
// tagged with the ID by the JSON handler.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the correlation ID stored in ctx, or "" if
// none is set.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// ClearRequestID returns a context with no correlation ID. Request contexts
// die with the request, so downstream code rarely needs this; it exists so
// the interceptor can hand a scrubbed context to anything that outlives the
// request.
func ClearRequestID(ctx context.Context) context.Context {
	return context.WithValue(ctx, requestIDKey{}, "")
}
