package middleware

import (
	"net/http"
	"strings"

	"github.com/kestrelops/userd/pkg/auth"
	"github.com/kestrelops/userd/pkg/contextkeys"
	"github.com/kestrelops/userd/pkg/httputil"
)

// AuthMiddleware validates bearer tokens and exposes the authenticated
// subject to downstream handlers via the request context.
type AuthMiddleware struct {
	tokens *auth.TokenService
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(tokens *auth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handler wraps an HTTP handler with authentication. The subject is
// available via Subject for the self-lookup accessor; it grants no further
// authorization, any authenticated subject may act on any record.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Format: "Authorization: Bearer <token>"
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			httputil.WriteUnauthorized(w, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httputil.WriteUnauthorized(w, "invalid authorization header format")
			return
		}

		subject, err := m.tokens.Validate(parts[1])
		if err != nil {
			httputil.WriteUnauthorized(w, "invalid or expired token")
			return
		}

		ctx := contextkeys.WithSubject(r.Context(), subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Subject extracts the authenticated subject id from a request.
func Subject(r *http.Request) (int64, bool) {
	return contextkeys.Subject(r.Context())
}
