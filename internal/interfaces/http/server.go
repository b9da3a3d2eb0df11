package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/adsforge/adsforge/internal/config"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
)

// Server wraps http.Server with graceful shutdown.
type Server struct {
	srv             *http.Server
	shutdownTimeout time.Duration
	log             logging.Logger
}

// NewServer binds the router to the configured port.
func NewServer(cfg config.ServerConfig, handler http.Handler, log logging.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         ":" + strconv.Itoa(cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
		log:             log,
	}
}

// Start serves until Stop is called.  It blocks.
func (s *Server) Start() error {
	s.log.Info("http server listening", logging.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains in-flight requests, forcing the close after the configured
// shutdown timeout.
func (s *Server) Stop(ctx context.Context) error {
	timeout := s.shutdownTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	s.log.Info("http server stopping")
	if err := s.srv.Shutdown(ctx); err != nil {
		s.log.Warn("graceful shutdown incomplete, closing", logging.Err(err))
		return s.srv.Close()
	}
	return nil
}
