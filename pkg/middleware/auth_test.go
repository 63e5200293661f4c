package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelops/userd/pkg/auth"
)

func newTestMiddleware(t *testing.T) (*AuthMiddleware, *auth.TokenService) {
	t.Helper()
	tokens, err := auth.NewTokenService([]byte("test-secret"), 0)
	require.NoError(t, err)
	return NewAuthMiddleware(tokens), tokens
}

func echoSubject() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, ok := Subject(r)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]int64{"subject": subject})
	})
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	mw, tokens := newTestMiddleware(t)

	token, err := tokens.Issue(42)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	mw.Handler(echoSubject()).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"subject":42}`, w.Body.String())
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	mw, _ := newTestMiddleware(t)

	w := httptest.NewRecorder()
	mw.Handler(echoSubject()).ServeHTTP(w, httptest.NewRequest("GET", "/users", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "missing authorization header")
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	mw, tokens := newTestMiddleware(t)

	token, err := tokens.Issue(1)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"no scheme", token},
		{"wrong scheme", "Basic " + token},
		{"empty", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/users", nil)
			req.Header.Set("Authorization", tt.header)

			w := httptest.NewRecorder()
			mw.Handler(echoSubject()).ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthMiddleware_CaseInsensitiveScheme(t *testing.T) {
	mw, tokens := newTestMiddleware(t)

	token, err := tokens.Issue(7)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/users", nil)
	req.Header.Set("Authorization", "bearer "+token)

	w := httptest.NewRecorder()
	mw.Handler(echoSubject()).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	mw, _ := newTestMiddleware(t)

	req := httptest.NewRequest("GET", "/users", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")

	w := httptest.NewRecorder()
	mw.Handler(echoSubject()).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid or expired token")
}

func TestAuthMiddleware_TokenFromOtherSecret(t *testing.T) {
	mw, _ := newTestMiddleware(t)

	other, err := auth.NewTokenService([]byte("different-secret"), 0)
	require.NoError(t, err)
	token, err := other.Issue(42)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	mw.Handler(echoSubject()).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
