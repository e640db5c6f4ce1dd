// SPDX-License-Identifier: MIT
package daemon

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ManuGH/tvcaps/internal/config"
)

func testConfig(t *testing.T) config.AppConfig {
	t.Helper()
	cfg := config.Defaults()
	cfg.Version = "test-1.0.0"
	cfg.API.ListenAddr = "127.0.0.1:0"
	cfg.API.RateLimit = 0
	cfg.API.ShutdownTimeout = 2 * time.Second
	cfg.Reports.Dir = t.TempDir()
	return cfg
}

func TestDaemon_RunUntilCancelled(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	d := New(testConfig(t))
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- d.Run(ctx) }()

	select {
	case <-d.Server().Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("server never became ready")
	}
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run() didn't return after cancellation")
	}
}

func TestDaemon_ListenFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = ln.Close() }()

	cfg := testConfig(t)
	cfg.API.ListenAddr = ln.Addr().String()

	err = New(cfg).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrServerStartFailed))
}

func TestDaemon_BadTelemetryDoesNotBlockStartup(t *testing.T) {
	cfg := testConfig(t)
	cfg.Telemetry.Enabled = true
	cfg.Telemetry.Exporter = "zipkin"

	d := New(cfg)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- d.Run(ctx) }()

	select {
	case <-d.Server().Ready():
	case err := <-errCh:
		t.Fatalf("Run() returned early: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("server never became ready")
	}
	cancel()
	require.NoError(t, <-errCh)
}
