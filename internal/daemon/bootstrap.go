// SPDX-License-Identifier: MIT

// Package daemon runs the tvcaps HTTP service until it is told to stop.
package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/ManuGH/tvcaps/internal/api"
	"github.com/ManuGH/tvcaps/internal/config"
	"github.com/ManuGH/tvcaps/internal/log"
	"github.com/ManuGH/tvcaps/internal/telemetry"
)

// Daemon represents a running tvcaps service.
type Daemon struct {
	cfg       config.AppConfig
	server    *api.Server
	logger    zerolog.Logger
	telemetry *telemetry.Provider
}

// New creates a daemon for an already loaded configuration.
func New(cfg config.AppConfig) *Daemon {
	return &Daemon{
		cfg:    cfg,
		server: api.New(cfg),
		logger: log.WithComponent("daemon"),
	}
}

// Server exposes the HTTP server, mainly for tests.
func (d *Daemon) Server() *api.Server { return d.server }

// Run serves until ctx is cancelled or the server fails.
func (d *Daemon) Run(ctx context.Context) error {
	d.logger.Info().
		Str(log.FieldEvent, "daemon.start").
		Str("version", d.cfg.Version).
		Str("listen", d.cfg.API.ListenAddr).
		Str("reports_dir", d.cfg.Reports.Dir).
		Msg("starting tvcaps daemon")

	if err := d.initTelemetry(ctx); err != nil {
		d.logger.Warn().Err(err).Msg("telemetry initialization failed, continuing without tracing")
	}

	if err := d.server.WatchReports(ctx); err != nil {
		d.logger.Warn().Err(err).Msg("reports watcher unavailable, stored profiles will not be cached")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- d.server.Start()
	}()

	select {
	case err := <-errCh:
		_ = d.Shutdown(context.Background())
		if err != nil {
			return fmt.Errorf("%w: %v", ErrServerStartFailed, err)
		}
		return nil
	case <-ctx.Done():
		shutdownErr := d.Shutdown(context.Background())
		if err := <-errCh; err != nil {
			return fmt.Errorf("%w: %v", ErrServerStartFailed, err)
		}
		return shutdownErr
	}
}

// Shutdown stops the HTTP server and flushes traces.
func (d *Daemon) Shutdown(ctx context.Context) error {
	d.logger.Info().Str(log.FieldEvent, "daemon.shutdown").Msg("shutting down daemon")

	err := d.server.Shutdown(ctx)
	if err != nil {
		d.logger.Error().Err(err).Msg("HTTP server shutdown error")
	}
	d.shutdownTelemetry(ctx)

	d.logger.Info().Str(log.FieldEvent, "daemon.stopped").Msg("daemon stopped")
	return err
}

func (d *Daemon) shutdownTelemetry(ctx context.Context) {
	if d.telemetry == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, d.cfg.API.ShutdownTimeout)
	defer cancel()
	if err := d.telemetry.Shutdown(shutdownCtx); err != nil {
		d.logger.Error().Err(err).Msg("telemetry shutdown error")
	}
	d.telemetry = nil
}

func (d *Daemon) initTelemetry(ctx context.Context) error {
	tc := d.cfg.Telemetry
	provider, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        tc.Enabled,
		ServiceName:    "tvcaps",
		ServiceVersion: d.cfg.Version,
		ExporterType:   tc.Exporter,
		Endpoint:       tc.Endpoint,
		SamplingRate:   tc.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("telemetry init failed: %w", err)
	}
	d.telemetry = provider

	if tc.Enabled {
		d.logger.Info().
			Str("exporter", tc.Exporter).
			Str("endpoint", tc.Endpoint).
			Float64("sampling_rate", tc.SamplingRate).
			Msg("telemetry initialized")
	}
	return nil
}

// WaitForShutdown returns a context cancelled on SIGINT or SIGTERM.
func WaitForShutdown() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
