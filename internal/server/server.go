// Package server provides the HTTP API of the ulam spiral generator.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/ulam/internal/config"
	apperrors "github.com/agbru/ulam/internal/errors"
	"github.com/agbru/ulam/internal/logging"
	"github.com/agbru/ulam/internal/service"
	"github.com/agbru/ulam/internal/spiral"
	"github.com/agbru/ulam/pkg/models"
)

// tracerName identifies the spans started by the server.
const tracerName = "github.com/agbru/ulam/internal/server"

// Server wraps an http.Server with the API routes, the middleware chain and
// graceful shutdown.
type Server struct {
	service        service.Service
	cfg            config.AppConfig
	httpServer     *http.Server
	logger         logging.Logger
	shutdownSignal chan os.Signal
	rateLimiter    *RateLimiter
	securityConfig SecurityConfig
	metrics        *Metrics
	timeouts       Timeouts
	tracer         trace.Tracer
	subject        *spiral.ProgressSubject
	version        models.VersionResponse
}

// NewServer creates a Server listening on cfg.Port. Unless WithService is
// given, requests are served by a service.SpiralService capped at cfg.MaxN.
func NewServer(cfg config.AppConfig, opts ...Option) *Server {
	s := &Server{
		cfg:            cfg,
		logger:         logging.NewLogger(os.Stdout, "server"),
		shutdownSignal: make(chan os.Signal, 1),
		securityConfig: DefaultSecurityConfig(),
		metrics:        NewMetrics(),
		timeouts:       DefaultServerTimeouts(),
		tracer:         otel.Tracer(tracerName),
		version:        models.VersionResponse{Version: "dev"},
	}
	if cfg.MaxN > 0 {
		s.securityConfig.MaxNValue = uint64(cfg.MaxN)
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.service == nil {
		s.service = service.NewSpiralService(s.securityConfig.MaxNValue, s.subject, s.logger)
	}
	if s.rateLimiter == nil {
		s.rateLimiter = NewRateLimiter(DefaultRateLimiterConfig())
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/spiral", s.wrapWithMiddleware(s.handleSpiral))
	mux.HandleFunc("/health", s.wrapWithMiddleware(s.handleHealth))
	mux.HandleFunc("/version", s.wrapWithMiddleware(s.handleVersion))
	mux.HandleFunc("/metrics", s.wrapWithMiddleware(s.handleMetrics))

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  s.timeouts.ReadTimeout,
		WriteTimeout: s.timeouts.WriteTimeout,
		IdleTimeout:  s.timeouts.IdleTimeout,
	}

	return s
}

// Handler returns the routed handler with the full middleware chain.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// wrapWithMiddleware applies, outermost first: Security -> RateLimit ->
// RequestID -> Tracing -> Logging -> Metrics -> Handler.
func (s *Server) wrapWithMiddleware(handler http.HandlerFunc) http.HandlerFunc {
	wrapped := s.metricsMiddleware(handler)
	wrapped = s.loggingMiddleware(wrapped)
	wrapped = s.tracingMiddleware(wrapped)
	wrapped = RequestIDMiddleware(wrapped)
	wrapped = RateLimitMiddleware(s.rateLimiter, wrapped)
	wrapped = SecurityMiddleware(s.securityConfig, wrapped)
	return wrapped
}

// Start serves until ctx is done, SIGINT or SIGTERM is received, or the
// listener fails, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	signal.Notify(s.shutdownSignal, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(s.shutdownSignal)
	defer s.rateLimiter.Stop()

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("starting server",
			logging.String("addr", s.httpServer.Addr),
			logging.Uint64("max_n", s.securityConfig.MaxNValue),
		)
		s.logger.Println("Available endpoints:")
		s.logger.Println("  GET /spiral?n=<count>")
		s.logger.Println("  GET /health")
		s.logger.Println("  GET /version")
		s.logger.Println("  GET /metrics")

		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-s.shutdownSignal:
		s.logger.Println("Shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		s.logger.Println("Context done, initiating graceful shutdown...")
	case err := <-errCh:
		return apperrors.NewServerError("server failed to start", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeouts.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return apperrors.NewServerError("failed to gracefully shutdown server", err)
	}

	s.logger.Println("Server stopped gracefully")
	return nil
}
