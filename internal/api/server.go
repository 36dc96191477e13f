package api

import (
	"context"
	"net/http"
	"time"

	"flowpro/internal/config"
	"flowpro/pkg/logger"
)

// Server wraps the http server with lifecycle management
type Server struct {
	httpServer *http.Server
	logger     logger.Logger
}

// NewServer creates a server for the given handler tree
func NewServer(cfg *config.Config, handler http.Handler, log logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: cfg.HTTPTimeout + 5*time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: log,
	}
}

// Start begins serving and blocks until the listener closes
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until the context expires
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}
