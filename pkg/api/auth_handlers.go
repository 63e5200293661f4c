package api

import (
	"net/http"
	"strconv"

	"github.com/kestrelops/userd/pkg/httputil"
)

// handleLogin exchanges a form-encoded username for a bearer token. There
// is no password check; the username must be the decimal id of the user
// the session should act as.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httputil.WriteBadRequest(w, "malformed form body")
		return
	}

	username := r.PostFormValue("username")
	subject, err := strconv.ParseInt(username, 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "username must be an integer user id")
		return
	}

	token, err := s.tokens.Issue(subject)
	if err != nil {
		s.logger.WithError(err).Error("failed to issue token")
		httputil.WriteInternalError(w, err)
		return
	}

	s.logger.WithField("subject", subject).Info("issued access token")
	httputil.WriteSuccess(w, LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}
