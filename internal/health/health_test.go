// SPDX-License-Identifier: MIT
package health

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/tvcaps/internal/log"
)

func fixed(status Status) Checker {
	return CheckerFunc{CheckName: string(status), Fn: func(context.Context) CheckResult {
		return CheckResult{Status: status}
	}}
}

func TestHealth_IgnoresChecksUnlessVerbose(t *testing.T) {
	m := NewManager("v1")
	m.RegisterChecker(fixed(StatusUnhealthy))

	resp := m.Health(context.Background(), false)
	assert.Equal(t, StatusHealthy, resp.Status)
	assert.Empty(t, resp.Checks)
	assert.Equal(t, "v1", resp.Version)

	resp = m.Health(context.Background(), true)
	assert.Equal(t, StatusUnhealthy, resp.Status)
	assert.Contains(t, resp.Checks, "unhealthy")
}

func TestReady_FoldsStatuses(t *testing.T) {
	tests := []struct {
		name     string
		checkers []Checker
		want     Status
		ready    bool
	}{
		{name: "no checkers", want: StatusHealthy, ready: true},
		{name: "all healthy", checkers: []Checker{fixed(StatusHealthy)}, want: StatusHealthy, ready: true},
		{name: "degraded stays ready", checkers: []Checker{fixed(StatusHealthy), fixed(StatusDegraded)}, want: StatusDegraded, ready: true},
		{name: "unhealthy wins", checkers: []Checker{fixed(StatusUnhealthy), fixed(StatusDegraded)}, want: StatusUnhealthy, ready: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager("v1")
			for _, c := range tt.checkers {
				m.RegisterChecker(c)
			}
			resp := m.Ready(context.Background())
			assert.Equal(t, tt.want, resp.Status)
			assert.Equal(t, tt.ready, resp.Ready)
		})
	}
}

func TestServeReady_StatusCodes(t *testing.T) {
	m := NewManager("v1")
	m.RegisterChecker(DirChecker{CheckName: "reports_dir", Path: filepath.Join(t.TempDir(), "missing")})

	rr := httptest.NewRecorder()
	m.ServeReady(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)

	var resp ReadinessResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.Ready)
	assert.Equal(t, StatusUnhealthy, resp.Checks["reports_dir"].Status)
	assert.NotEmpty(t, resp.Checks["reports_dir"].Error)
}

func TestServeHealth_AlwaysOK(t *testing.T) {
	m := NewManager("v1")
	m.RegisterChecker(fixed(StatusUnhealthy))

	rr := httptest.NewRecorder()
	m.ServeHealth(rr, httptest.NewRequest(http.MethodGet, "/healthz?verbose=true", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}

func TestDirChecker(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	assert.Equal(t, StatusHealthy, DirChecker{Path: dir}.Check(context.Background()).Status)
	assert.Equal(t, StatusUnhealthy, DirChecker{Path: file}.Check(context.Background()).Status)
	assert.Equal(t, StatusUnhealthy, DirChecker{Path: filepath.Join(dir, "nope")}.Check(context.Background()).Status)
}

func TestServeReady_LogsWithRequestContext(t *testing.T) {
	var buf bytes.Buffer
	log.Reconfigure(log.Config{Level: "debug", Output: &buf})
	t.Cleanup(func() { log.Reconfigure(log.Config{Level: "info"}) })

	m := NewManager("test")
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	req = req.WithContext(log.ContextWithRequestID(req.Context(), "req-42"))
	rec := httptest.NewRecorder()
	m.ServeReady(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	out := buf.String()
	assert.Contains(t, out, `"event":"readiness.checked"`)
	assert.Contains(t, out, `"component":"health"`)
	assert.Contains(t, out, "req-42")
}
