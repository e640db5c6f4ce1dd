// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package api serves negotiation profiles over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ManuGH/tvcaps/internal/api/middleware"
	"github.com/ManuGH/tvcaps/internal/config"
	"github.com/ManuGH/tvcaps/internal/health"
	"github.com/ManuGH/tvcaps/internal/log"
	"github.com/ManuGH/tvcaps/internal/reports"
)

const serviceName = "tvcaps"

// Server is the HTTP front end.
type Server struct {
	cfg    config.AppConfig
	logger zerolog.Logger
	router *chi.Mux
	http   *http.Server

	reports *reports.Store
	health  *health.Manager

	mu    sync.Mutex
	addr  net.Addr
	ready chan struct{}
}

// New creates a server for cfg. It does not listen until Start.
func New(cfg config.AppConfig) *Server {
	s := &Server{
		cfg:    cfg,
		logger: log.WithComponent("api"),
		ready:  make(chan struct{}),
	}
	s.reports = reports.NewStore(cfg.Reports.Dir, s.build)
	s.health = health.NewManager(cfg.Version)
	s.health.RegisterChecker(health.DirChecker{CheckName: "reports_dir", Path: cfg.Reports.Dir})
	if cfg.Reports.Watch {
		s.health.RegisterChecker(health.CheckerFunc{CheckName: "reports_watcher", Fn: s.checkWatcher})
	}
	s.router = s.routes()
	s.http = &http.Server{
		Addr:              cfg.API.ListenAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) routes() *chi.Mux {
	r := middleware.NewRouter(middleware.StackConfig{
		EnableMetrics:  true,
		TracingService: serviceName,
		EnableLogging:  true,
	})

	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/profiles", func(r chi.Router) {
		if s.cfg.API.RateLimit > 0 {
			r.Use(middleware.RateLimit(middleware.RateLimitConfig{
				RequestLimit: s.cfg.API.RateLimit,
				WindowSize:   s.cfg.API.RateWindow,
			}))
		}
		r.Post("/", s.handleBuildFromReport)
		r.Get("/{device}", s.handleBuildForDevice)
	})
	return r
}

// checkWatcher is degraded when stored profiles are rebuilt on every request
// because the reports directory is not being watched.
func (s *Server) checkWatcher(context.Context) health.CheckResult {
	if s.reports.Watching() {
		return health.CheckResult{Status: health.StatusHealthy}
	}
	return health.CheckResult{Status: health.StatusDegraded, Message: "reports directory is not watched"}
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Start listens and serves until Shutdown. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.API.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.API.ListenAddr, err)
	}
	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()
	close(s.ready)

	s.logger.Info().
		Str(log.FieldEvent, "api.listening").
		Str("addr", ln.Addr().String()).
		Msg("HTTP server listening")

	if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// Ready is closed once Start is listening.
func (s *Server) Ready() <-chan struct{} { return s.ready }

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// WatchReports caches stored device profiles and invalidates them on file
// changes, when enabled by configuration.
func (s *Server) WatchReports(ctx context.Context) error {
	if !s.cfg.Reports.Watch {
		return nil
	}
	return s.reports.Watch(ctx)
}

// Shutdown gracefully stops the server within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.API.ShutdownTimeout)
	defer cancel()

	s.logger.Info().Str(log.FieldEvent, "api.shutdown").Msg("shutting down HTTP server")
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := s.reports.Close(); err != nil {
		return fmt.Errorf("reports watcher: %w", err)
	}
	return nil
}
