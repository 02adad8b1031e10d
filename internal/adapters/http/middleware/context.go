// Package middleware provides HTTP middleware for the Gin framework.
package middleware

import "context"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	ctxKeyRequestID        contextKey = "request_id"
	ctxKeyForwardedHeaders contextKey = "forwarded_headers"
)

// RequestIDFromContext extracts the request ID from context.Context.
// Returns empty string if not set or if ctx is nil.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	if id, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return id
	}

	return ""
}

// ContextWithRequestID stores a request ID in the context.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

// ForwardedHeadersFromContext returns the headers selected by the frontend's
// header_forward_pattern, keyed by lower-case name. Returns nil if none.
func ForwardedHeadersFromContext(ctx context.Context) map[string]string {
	if ctx == nil {
		return nil
	}

	h, _ := ctx.Value(ctxKeyForwardedHeaders).(map[string]string)

	return h
}

// ContextWithForwardedHeaders stores forwarded headers in the context.
func ContextWithForwardedHeaders(ctx context.Context, h map[string]string) context.Context {
	return context.WithValue(ctx, ctxKeyForwardedHeaders, h)
}
