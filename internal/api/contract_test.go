// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/stretchr/testify/require"
)

var (
	openapiOnce sync.Once
	openapiDoc  *openapi3.T
	openapiErr  error
)

func loadOpenAPIDoc(t *testing.T) *openapi3.T {
	t.Helper()
	openapiOnce.Do(func() {
		doc, err := openapi3.NewLoader().LoadFromFile("openapi.yaml")
		if err != nil {
			openapiErr = err
			return
		}
		if err := doc.Validate(context.Background()); err != nil {
			openapiErr = err
			return
		}
		openapiDoc = doc
	})
	if openapiErr != nil {
		t.Fatalf("openapi load failed: %v", openapiErr)
	}
	return openapiDoc
}

func validateOpenAPIResponse(t *testing.T, doc *openapi3.T, req *http.Request, rr *httptest.ResponseRecorder) {
	t.Helper()
	router, err := legacy.NewRouter(doc)
	require.NoError(t, err, "openapi router init")

	route, pathParams, err := router.FindRoute(req)
	require.NoError(t, err, "openapi route lookup")

	input := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request:    req,
			PathParams: pathParams,
			Route:      route,
		},
		Status: rr.Code,
		Header: rr.Header(),
	}
	input.SetBodyBytes(rr.Body.Bytes())

	require.NoError(t, openapi3filter.ValidateResponse(context.Background(), input), "openapi response validation")
}

func TestContract_Responses(t *testing.T) {
	doc := loadOpenAPIDoc(t)

	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Reports.Dir, "tv.yaml"), []byte(tizenSubUHDReportYAML), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Reports.Dir, "broken.yaml"), []byte("platform: roku\n"), 0o600))
	s := New(cfg)

	tests := []struct {
		name        string
		method      string
		path        string
		contentType string
		body        string
		status      int
	}{
		{name: "health", method: http.MethodGet, path: "/healthz", status: http.StatusOK},
		{name: "ready", method: http.MethodGet, path: "/readyz", status: http.StatusOK},
		{name: "build json", method: http.MethodPost, path: "/api/v1/profiles", contentType: "application/json", body: browserReportJSON, status: http.StatusOK},
		{name: "build yaml", method: http.MethodPost, path: "/api/v1/profiles", contentType: "application/yaml", body: tizenSubUHDReportYAML, status: http.StatusOK},
		{name: "build invalid", method: http.MethodPost, path: "/api/v1/profiles", contentType: "application/json", body: `{"nope":1}`, status: http.StatusBadRequest},
		{name: "device", method: http.MethodGet, path: "/api/v1/profiles/tv", status: http.StatusOK},
		{name: "device missing", method: http.MethodGet, path: "/api/v1/profiles/none", status: http.StatusNotFound},
		{name: "device invalid name", method: http.MethodGet, path: "/api/v1/profiles/bad$name", status: http.StatusBadRequest},
		{name: "device broken report", method: http.MethodGet, path: "/api/v1/profiles/broken", status: http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.path, body)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rr := serve(t, s, req)
			require.Equal(t, tt.status, rr.Code, rr.Body.String())

			validateOpenAPIResponse(t, doc, req, rr)
		})
	}
}
