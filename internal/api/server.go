package api

import (
	"context"
	"net/http"
	"time"

	"github.com/ignite/htmx-demo/internal/config"
)

// Server represents the HTTP server
type Server struct {
	handler http.Handler
	server  *http.Server
}

// NewServer creates a new server for handler, usually the SetupRoutes mux.
// The http.Server is built here so Shutdown may run before or during
// ListenAndServe.
func NewServer(cfg config.ServerConfig, handler http.Handler) *Server {
	return &Server{
		handler: handler,
		server: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout(),
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      cfg.WriteTimeout(),
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.server.Addr
}

// ListenAndServe starts the HTTP server. It returns http.ErrServerClosed
// after Shutdown.
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing
func (s *Server) Handler() http.Handler {
	return s.handler
}
