// Package api exposes the backtester over a small JSON HTTP API.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/quantlab/rotor/internal/config"
	"github.com/quantlab/rotor/internal/loader"
	"github.com/quantlab/rotor/internal/metrics"
	"go.uber.org/zap"
)

// Server is the HTTP front end. Each backtest request loads its own store
// and runs an independent engine, so requests share no mutable state.
type Server struct {
	httpServer *http.Server
	cfg        *config.Config
	loader     *loader.Loader
	logger     *zap.Logger
	metrics    *metrics.Registry
}

// NewServer creates the HTTP server with routes and middleware set up.
func NewServer(cfg *config.Config, logger *zap.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		loader:  loader.New(cfg.Data.Dir, logger),
		logger:  logger,
		metrics: metrics.NewRegistry(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/health", s.handleHealth)
	mux.HandleFunc("/api/v1/backtest", s.handleBacktest)
	mux.HandleFunc("/api/v1/rank", s.handleRank)
	if cfg.Server.Metrics {
		mux.Handle("/metrics", s.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = metrics.HTTPMiddleware(s.metrics)(handler)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
