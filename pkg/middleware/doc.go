// Package middleware provides the bearer-token authentication gate applied
// to protected routes before any store access.
package middleware
