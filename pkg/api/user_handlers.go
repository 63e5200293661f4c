package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/kestrelops/userd/pkg/httputil"
	"github.com/kestrelops/userd/pkg/middleware"
	"github.com/kestrelops/userd/pkg/store"
)

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var user store.User
	if !httputil.ParseJSONOrError(w, r, &user) {
		return
	}

	if err := s.store.Create(r.Context(), &user); err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			httputil.WriteConflict(w, fmt.Sprintf("user %d already exists", user.ID))
		case errors.Is(err, store.ErrInvalidID):
			httputil.WriteBadRequest(w, err.Error())
		default:
			s.logger.WithError(err).Error("failed to create user")
			httputil.WriteInternalError(w, err)
		}
		return
	}

	s.logger.WithField("user_id", user.ID).Info("created user")
	httputil.WriteCreated(w, &user)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.List(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to list users")
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, users)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	user, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, id, err)
		return
	}
	httputil.WriteSuccess(w, user)
}

// handleGetCurrentUser resolves the record whose id matches the token
// subject. A valid token for a deleted or never-created user yields 404.
func (s *Server) handleGetCurrentUser(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.Subject(r)
	if !ok {
		httputil.WriteUnauthorized(w, "no authenticated subject")
		return
	}

	user, err := s.store.Get(r.Context(), subject)
	if err != nil {
		s.writeStoreError(w, subject, err)
		return
	}
	httputil.WriteSuccess(w, user)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	// The mismatch check runs before any store lookup, so a disagreeing
	// body id is rejected even when the record does not exist.
	if req.ID != nil && *req.ID != id {
		httputil.WriteBadRequest(w, "user id in path and body do not match")
		return
	}

	user, err := s.store.Update(r.Context(), id, req.Name, req.Age)
	if err != nil {
		s.writeStoreError(w, id, err)
		return
	}

	s.logger.WithField("user_id", id).Info("updated user")
	httputil.WriteSuccess(w, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeStoreError(w, id, err)
		return
	}

	s.logger.WithField("user_id", id).Info("deleted user")
	httputil.WriteSuccess(w, MessageResponse{Message: fmt.Sprintf("user %d deleted", id)})
}

func (s *Server) writeStoreError(w http.ResponseWriter, id int64, err error) {
	if errors.Is(err, store.ErrNotFound) {
		httputil.WriteNotFoundError(w, fmt.Sprintf("user %d not found", id))
		return
	}
	s.logger.WithError(err).WithField("user_id", id).Error("store operation failed")
	httputil.WriteInternalError(w, err)
}
