package logtrace

import (
	"context"
)

// requestIDContextKey is the context key type for request IDs.
type requestIDContextKey string

// RequestIDKey is the key under which middleware stores the request ID.
const RequestIDKey = requestIDContextKey("requestId")

// WithRequestID returns a context carrying the given request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestIDFromContext extracts the request ID from the context.
// Returns an empty string if the context is nil or carries no request ID.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	r, ok := ctx.Value(RequestIDKey).(string)
	if !ok {
		return ""
	}
	return r
}
