package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/aescanero/rxplay/internal/config"
	"github.com/aescanero/rxplay/pkg/ports"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server represents the hello-world HTTP server
type Server struct {
	router  *gin.Engine
	server  *http.Server
	metrics ports.MetricsCollector
	logger  *zap.Logger
}

// Config holds HTTP server configuration. There is no port setting.
type Config struct {
	Logger  *zap.Logger
	Metrics ports.MetricsCollector
}

// NewServer creates a new HTTP server
func NewServer(cfg *Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	if cfg.Metrics != nil {
		router.Use(requestMetrics(cfg.Metrics))
	}

	s := &Server{
		router:  router,
		metrics: cfg.Metrics,
		logger:  logger,
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", config.ServerPort),
		Handler: router,
	}

	return s
}

// setupRoutes configures the single route
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleHello)
}

// Handler returns the server's HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the address the server listens on
func (s *Server) Addr() string {
	return s.server.Addr
}

// Start listens on port 5000 and serves until Shutdown
func (s *Server) Start() error {
	l, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}
	return s.Serve(l)
}

// Serve serves on an existing listener until Shutdown
func (s *Server) Serve(l net.Listener) error {
	s.logger.Info(fmt.Sprintf("Listening on port %d...", config.ServerPort),
		zap.String("addr", l.Addr().String()))

	if err := s.server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server shut down complete")
	return nil
}
