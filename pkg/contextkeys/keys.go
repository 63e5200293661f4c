// Package contextkeys provides centralized context key definitions
//
// IMPORTANT: All context keys used across the application must be defined here.
// This prevents typos, documents dependencies, and makes key usage discoverable.
package contextkeys

import "context"

// Key is the type for context keys to prevent collisions
type Key string

const (
	// SubjectKey contains the authenticated user id (int64)
	// Set by: middleware.AuthMiddleware (pkg/middleware/auth.go)
	// Required by: /users/me and any handler acting on behalf of the caller
	SubjectKey Key = "subject"

	// RequestIDKey contains request ID string (UUID)
	// Set by: httputil.RequestIDMiddleware
	// Used by: Logger, request tracing
	RequestIDKey Key = "request_id"
)

// WithSubject adds the authenticated subject id to the context
func WithSubject(ctx context.Context, subject int64) context.Context {
	return context.WithValue(ctx, SubjectKey, subject)
}

// Subject retrieves the authenticated subject id from the context
func Subject(ctx context.Context) (int64, bool) {
	subject, ok := ctx.Value(SubjectKey).(int64)
	return subject, ok
}

// WithRequestID adds request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}
