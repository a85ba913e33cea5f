package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"zephyr-hq/zephyr/pkg/config"
	"zephyr-hq/zephyr/pkg/history"
	"zephyr-hq/zephyr/pkg/rules/engine"
	"zephyr-hq/zephyr/pkg/telemetry/health"
	"zephyr-hq/zephyr/pkg/telemetry/metrics"
)

// Options carries the collaborators the server needs. Store and Collector
// may be nil when history or metrics are disabled.
type Options struct {
	Engine    *engine.Engine
	Store     *history.Store
	Checker   *health.Checker
	Collector *metrics.Collector
	Logger    *slog.Logger

	// Version info served at /version.
	Version   string
	Commit    string
	BuildTime string
}

// Server is the HTTP API server.
type Server struct {
	config     *config.Config
	engine     *engine.Engine
	store      *history.Store
	checker    *health.Checker
	collector  *metrics.Collector
	logger     *slog.Logger
	version    Options
	httpServer *http.Server

	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// New creates the API server.
func New(cfg *config.Config, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	checker := opts.Checker
	if checker == nil {
		checker = health.New(0)
	}

	return &Server{
		config:    cfg,
		engine:    opts.Engine,
		store:     opts.Store,
		checker:   checker,
		collector: opts.Collector,
		logger:    logger.With(slog.String("component", "server")),
		version:   opts,
	}
}

// Start starts the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:         s.config.Server.ListenAddress,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server", "address", s.config.Server.ListenAddress)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server, waiting up to the configured
// shutdown timeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("API server stopped")
	})

	return shutdownErr
}

// Handler builds the route table and middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/evaluate", s.handleEvaluate)
	mux.HandleFunc("/v1/rules", s.handleRules)
	mux.HandleFunc("/v1/rules/reload", s.handleReload)
	mux.HandleFunc("/v1/decisions", s.handleDecisions)

	mux.Handle("/healthz", s.checker.LivenessHandler())
	mux.Handle("/readyz", s.checker.ReadinessHandler())
	mux.Handle("/version", health.VersionHandler(s.version.Version, s.version.Commit, s.version.BuildTime))

	if s.collector != nil && s.config.Telemetry.Metrics.Enabled {
		mux.Handle(s.config.Telemetry.Metrics.Path, s.collector.Handler())
	}

	var handler http.Handler = mux

	var rm *metrics.RequestMetrics
	if s.collector != nil {
		rm = s.collector.Requests()
	}
	handler = loggingMiddleware(s.logger, rm)(handler)
	handler = requestIDMiddleware(handler)
	handler = recoveryMiddleware(s.logger)(handler)

	return handler
}
