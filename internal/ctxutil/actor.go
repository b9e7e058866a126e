// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// ActorKey is the context key for the authenticated user ID.
type ActorKey struct{}

// RequestIDKey is the context key for the request correlation ID.
type RequestIDKey struct{}

// WithActorID returns a context carrying the authenticated user ID.
func WithActorID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ActorKey{}, userID)
}

// ActorFromContext returns the authenticated user ID, or empty string if nobody is logged in.
func ActorFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ActorKey{}).(string); ok {
		return v
	}
	return ""
}

// WithRequestID returns a context carrying a request correlation ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey{}, requestID)
}

// RequestIDFromContext returns the request correlation ID, or empty string.
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(RequestIDKey{}).(string); ok {
		return v
	}
	return ""
}
