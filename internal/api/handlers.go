// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"context"
	"errors"
	"io/fs"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ManuGH/tvcaps/internal/log"
	"github.com/ManuGH/tvcaps/internal/platform"
	"github.com/ManuGH/tvcaps/internal/probe"
	"github.com/ManuGH/tvcaps/internal/profile"
	"github.com/ManuGH/tvcaps/internal/reports"
)

// HeaderFingerprint carries the document fingerprint.
const HeaderFingerprint = "X-Profile-Fingerprint"

// handleBuildFromReport builds a profile from a report in the request body.
func (s *Server) handleBuildFromReport(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, int64(s.cfg.API.MaxReportBytes))
	rep, err := platform.DecodeReport(body, reportFormat(r.Header.Get("Content-Type")))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeProblem(w, http.StatusRequestEntityTooLarge, "report_too_large", err)
			return
		}
		writeProblem(w, http.StatusBadRequest, "invalid_report", err)
		return
	}

	out, err := s.build(r.Context(), rep)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "render_failed", err)
		return
	}
	writeDocument(w, out)
}

// handleBuildForDevice builds a profile from the stored report of a device.
func (s *Server) handleBuildForDevice(w http.ResponseWriter, r *http.Request) {
	device := chi.URLParam(r, "device")
	if !reports.ValidDeviceName(device) {
		writeProblem(w, http.StatusBadRequest, "invalid_device", errors.New("device names may only contain letters, digits, '.', '_' and '-'"))
		return
	}
	ctx := log.ContextWithDevice(r.Context(), device)

	out, err := s.reports.Get(ctx, device)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		writeProblem(w, http.StatusNotFound, "unknown_device", errors.New("no stored report for device"))
		return
	case errors.Is(err, platform.ErrInvalidReport):
		writeProblem(w, http.StatusUnprocessableEntity, "invalid_report", err)
		return
	case err != nil:
		logger := log.WithComponentFromContext(ctx, "api")
		logger.Error().Err(err).
			Str(log.FieldEvent, "api.report_load_failed").
			Msg("failed to build stored device profile")
		writeProblem(w, http.StatusInternalServerError, "report_unreadable", errors.New("stored report could not be read"))
		return
	}
	writeDocument(w, out)
}

// build runs a fresh probe context over rep and renders the document.
func (s *Server) build(ctx context.Context, rep platform.Report) (reports.Rendered, error) {
	pc := probe.New(platform.FromReport(rep))
	doc := profile.NewBuilder(pc).Build(ctx, nil)

	body, err := profile.Render(*doc, s.cfg.Output.Indent)
	if err != nil {
		return reports.Rendered{}, err
	}
	fp := doc.Fingerprint()
	logger := log.WithComponentFromContext(ctx, "api")
	logger.Debug().
		Str(log.FieldEvent, "api.profile_built").
		Str(log.FieldFingerprint, fp).
		Msg("profile built")
	return reports.Rendered{Body: body, Fingerprint: fp}, nil
}

// reportFormat picks the decoder from the request media type; JSON is the default.
func reportFormat(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "json"
	}
	switch mt {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return "yaml"
	}
	return "json"
}
