package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kestrelops/userd/pkg/auth"
	"github.com/kestrelops/userd/pkg/middleware"
	"github.com/kestrelops/userd/pkg/observability"
	"github.com/kestrelops/userd/pkg/store"
)

// Server wires the user store and token service to the HTTP routes.
type Server struct {
	store  store.UserStore
	tokens *auth.TokenService
	logger *observability.Logger
	router *mux.Router
}

// NewServer creates the API server and registers all routes.
func NewServer(userStore store.UserStore, tokens *auth.TokenService, logger *observability.Logger) *Server {
	s := &Server{
		store:  userStore,
		tokens: tokens,
		logger: logger,
		router: mux.NewRouter(),
	}
	s.registerRoutes()
	return s
}

// Router returns the HTTP handler for the server.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/auth/login", s.handleLogin).Methods("POST")

	// Everything under /users requires a valid bearer token.
	authMW := middleware.NewAuthMiddleware(s.tokens)
	users := s.router.PathPrefix("/users").Subrouter()
	users.Use(authMW.Handler)

	users.HandleFunc("", s.handleCreateUser).Methods("POST")
	users.HandleFunc("", s.handleListUsers).Methods("GET")
	// "me" must be registered with a numeric constraint on {id}, otherwise
	// the literal path would be swallowed by the id route.
	users.HandleFunc("/me", s.handleGetCurrentUser).Methods("GET")
	users.HandleFunc("/{id:[0-9]+}", s.handleGetUser).Methods("GET")
	users.HandleFunc("/{id:[0-9]+}", s.handleUpdateUser).Methods("PUT")
	users.HandleFunc("/{id:[0-9]+}", s.handleDeleteUser).Methods("DELETE")
}
