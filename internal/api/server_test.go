// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ManuGH/tvcaps/internal/config"
	"github.com/ManuGH/tvcaps/internal/profile"
)

const browserReportJSON = `{
  "userAgent": "Mozilla/5.0 (X11; Linux x86_64) Chrome/120.0.0.0 Safari/537.36",
  "canPlayType": {"video/mp4; codecs=\"avc1.42E01E, mp4a.40.2\"": "probably"}
}`

const browserReportYAML = `userAgent: "Mozilla/5.0 (X11; Linux x86_64) Chrome/120.0.0.0 Safari/537.36"
canPlayType:
  'video/mp4; codecs="avc1.42E01E, mp4a.40.2"': probably
`

const tizenSubUHDReportYAML = `platform: tizen
userAgent: "Mozilla/5.0 (SMART-TV; LINUX; Tizen 5.5) AppleWebKit/537.36 (KHTML, like Gecko) TV Safari/537.36"
globals: [tizen, webapis]
canPlayType:
  'video/mp4; codecs="avc1.42E01E, mp4a.40.2"': probably
  'audio/mp4; codecs="mp4a.40.2"': probably
  'audio/mpeg': probably
productInfo:
  udPanel: false
`

func testConfig(t *testing.T) config.AppConfig {
	t.Helper()
	cfg := config.Defaults()
	cfg.Version = "test"
	cfg.API.ListenAddr = "127.0.0.1:0"
	cfg.API.RateLimit = 0
	cfg.Reports.Dir = t.TempDir()
	return cfg
}

func serve(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func decodeDocument(t *testing.T, rr *httptest.ResponseRecorder) profile.Document {
	t.Helper()
	var doc profile.Document
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &doc))
	return doc
}

func TestHealthz(t *testing.T) {
	s := New(testConfig(t))
	rr := serve(t, s, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "test", body["version"])
}

func TestReadyz(t *testing.T) {
	cfg := testConfig(t)
	s := New(cfg)

	rr := serve(t, s, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"degraded"`, "watch is enabled but not started")

	require.NoError(t, s.WatchReports(context.Background()))
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	rr = serve(t, s, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), `"degraded"`)

	cfg.Reports.Dir = filepath.Join(cfg.Reports.Dir, "missing")
	rr = serve(t, New(cfg), httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := New(testConfig(t))
	serve(t, s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	rr := serve(t, s, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "tvcaps_http_request_duration_seconds")
}

func TestBuildFromReport(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{name: "json", contentType: "application/json", body: browserReportJSON},
		{name: "json by default", contentType: "", body: browserReportJSON},
		{name: "yaml", contentType: "application/yaml; charset=utf-8", body: browserReportYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(testConfig(t))
			req := httptest.NewRequest(http.MethodPost, "/api/v1/profiles/", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rr := serve(t, s, req)

			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

			doc := decodeDocument(t, rr)
			assert.Equal(t, doc.Fingerprint(), rr.Header().Get(HeaderFingerprint))
			dp, ok := doc.DirectPlayProfile(profile.TypeVideo, "mp4,m4v")
			require.True(t, ok)
			assert.Equal(t, "h264", dp.VideoCodec)
			assert.NoError(t, profile.Validate(doc))
		})
	}
}

func TestBuildFromReport_Indentation(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.Indent = false
	compact := serve(t, New(cfg), httptest.NewRequest(http.MethodPost, "/api/v1/profiles/", strings.NewReader(browserReportJSON)))

	cfg.Output.Indent = true
	indented := serve(t, New(cfg), httptest.NewRequest(http.MethodPost, "/api/v1/profiles/", strings.NewReader(browserReportJSON)))

	require.Equal(t, http.StatusOK, compact.Code)
	require.Equal(t, http.StatusOK, indented.Code)
	assert.NotContains(t, strings.TrimSpace(compact.Body.String()), "\n")
	assert.Contains(t, indented.Body.String(), "\n  ")
	assert.Equal(t, compact.Header().Get(HeaderFingerprint), indented.Header().Get(HeaderFingerprint))
}

func TestBuildFromReport_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		maxBytes int
		body     string
		status   int
		code     string
	}{
		{name: "unknown field", body: `{"userAgent":"x","bogus":true}`, status: http.StatusBadRequest, code: "invalid_report"},
		{name: "malformed", body: `{"userAgent":`, status: http.StatusBadRequest, code: "invalid_report"},
		{name: "unknown platform", body: `{"platform":"roku","userAgent":"x"}`, status: http.StatusBadRequest, code: "invalid_report"},
		{name: "too large", maxBytes: 16, body: browserReportJSON, status: http.StatusRequestEntityTooLarge, code: "report_too_large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			if tt.maxBytes > 0 {
				cfg.API.MaxReportBytes = tt.maxBytes
			}
			rr := serve(t, New(cfg), httptest.NewRequest(http.MethodPost, "/api/v1/profiles/", strings.NewReader(tt.body)))

			require.Equal(t, tt.status, rr.Code, rr.Body.String())
			var body map[string]string
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body["error"])
			assert.Empty(t, rr.Header().Get(HeaderFingerprint))
		})
	}
}

func TestBuildForDevice(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Reports.Dir, "living-room.yaml"), []byte(tizenSubUHDReportYAML), 0o600))
	s := New(cfg)

	rr := serve(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/profiles/living-room", nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	doc := decodeDocument(t, rr)
	video, ok := doc.CodecProfile(profile.TypeVideo, "")
	require.True(t, ok)
	ceiling, ok := video.Condition(profile.PropVideoBitrate)
	require.True(t, ok)
	assert.Equal(t, "20000000", ceiling.Value)
	assert.False(t, ceiling.IsRequired)

	again := serve(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/profiles/living-room", nil))
	assert.Equal(t, rr.Header().Get(HeaderFingerprint), again.Header().Get(HeaderFingerprint))
}

func TestBuildForDevice_Errors(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Reports.Dir, "broken.yaml"), []byte("platform: roku\nuserAgent: x\n"), 0o600))
	s := New(cfg)

	tests := []struct {
		path   string
		status int
		code   string
	}{
		{path: "/api/v1/profiles/missing", status: http.StatusNotFound, code: "unknown_device"},
		{path: "/api/v1/profiles/bad$name", status: http.StatusBadRequest, code: "invalid_device"},
		{path: "/api/v1/profiles/broken", status: http.StatusUnprocessableEntity, code: "invalid_report"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := serve(t, s, httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.Equal(t, tt.status, rr.Code, rr.Body.String())
			var body map[string]string
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body["error"])
		})
	}
}

func TestBuildForDevice_WatchedReportIsRebuiltOnChange(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(cfg.Reports.Dir, "tv.yaml")
	require.NoError(t, os.WriteFile(path, []byte(browserReportYAML), 0o600))
	s := New(cfg)
	require.NoError(t, s.WatchReports(context.Background()))
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })

	first := serve(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/profiles/tv", nil))
	require.Equal(t, http.StatusOK, first.Code)

	require.NoError(t, os.WriteFile(path, []byte(tizenSubUHDReportYAML), 0o600))
	require.Eventually(t, func() bool {
		rr := serve(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/profiles/tv", nil))
		return rr.Code == http.StatusOK && rr.Header().Get(HeaderFingerprint) != first.Header().Get(HeaderFingerprint)
	}, 3*time.Second, 20*time.Millisecond)
}

func TestProfilesRateLimited(t *testing.T) {
	cfg := testConfig(t)
	cfg.API.RateLimit = 1
	cfg.API.RateWindow = time.Minute
	s := New(cfg)

	first := serve(t, s, httptest.NewRequest(http.MethodPost, "/api/v1/profiles/", strings.NewReader(browserReportJSON)))
	second := serve(t, s, httptest.NewRequest(http.MethodPost, "/api/v1/profiles/", strings.NewReader(browserReportJSON)))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	health := serve(t, s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, health.Code)
}

func TestServer_StartShutdown_NoGoroutineLeak(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	s := New(testConfig(t))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	select {
	case <-s.Ready():
	case err := <-errCh:
		t.Fatalf("Start() failed: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("server never became ready")
	}
	require.NotNil(t, s.Addr())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		t.Errorf("Shutdown() error: %v", err)
	}

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Start() didn't return after Shutdown()")
	}
}
