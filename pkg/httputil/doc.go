// Package httputil provides HTTP handler utilities for consistent error
// handling, JSON encoding/decoding, request parsing, and common middleware.
//
// Response helpers:
//
//	httputil.WriteSuccess(w, data)
//	httputil.WriteCreated(w, resource)
//	httputil.WriteNotFoundError(w, "user not found")
//	httputil.WriteConflict(w, "user already exists")
//
// Request parsing:
//
//	var req CreateUserRequest
//	if !httputil.ParseJSONOrError(w, r, &req) {
//		return // Error response already written
//	}
//	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
//
// Middleware:
//
//	httputil.Chain(
//		httputil.RequestIDMiddleware,
//		httputil.LoggingMiddleware(logger),
//		httputil.RecoveryMiddleware(logger),
//	)
//
// # Related Packages
//
//   - pkg/middleware: bearer-token authentication middleware
package httputil
