package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/streamlog/broker/internal/logger"
	"github.com/streamlog/broker/internal/metrics"
	"github.com/streamlog/broker/internal/storage"
	"github.com/streamlog/broker/internal/storage/schema"
)

// Server represents the broker's HTTP server
type Server struct {
	httpServer *http.Server
	addr       string
	log        zerolog.Logger
	ready      bool
	mu         sync.RWMutex
	router     *Router
}

// NewServer creates a new HTTP server. schemas and nodeMetrics may be nil.
func NewServer(addr string, registry *storage.Registry, schemas *schema.Registry, nodeMetrics *metrics.NodeMetrics) *Server {
	s := &Server{
		addr: addr,
		log:  logger.WithComponent("http"),
	}

	s.router = NewRouter(registry, schemas, nodeMetrics)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler returns the server's root handler
func (s *Server) Handler() http.Handler {
	return s.router.mux
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return nil
	}

	s.log.Info().Str("addr", s.addr).Msg("Starting HTTP server")

	// Start server in a goroutine
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error().Err(err).Msg("HTTP server error")
		}
	}()

	s.ready = true
	s.log.Info().Str("addr", s.addr).Msg("HTTP server started")

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil
	}

	s.log.Info().Msg("Stopping HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		_ = s.httpServer.Close()
		return err
	}

	s.ready = false
	s.log.Info().Msg("HTTP server stopped")

	return nil
}

// Ready returns true if the server is ready
func (s *Server) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}
