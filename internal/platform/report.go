// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package platform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Report is a captured record of what a playback runtime answered to capability
// queries. Reports are collected on-device and replayed by the adapters here.
type Report struct {
	// Platform is an optional hint ("tizen" or "browser"). When empty the adapter
	// is chosen from UserAgent and Globals.
	Platform  string   `yaml:"platform,omitempty" json:"platform,omitempty"`
	UserAgent string   `yaml:"userAgent" json:"userAgent"`
	Globals   []string `yaml:"globals,omitempty" json:"globals,omitempty"`

	// MediaSource reports whether a segment-source extension API is present.
	MediaSource bool `yaml:"mediaSource" json:"mediaSource"`

	// MediaElementError, when set, makes media element creation fail.
	MediaElementError string `yaml:"mediaElementError,omitempty" json:"mediaElementError,omitempty"`

	// CanPlayType maps a full content type (MIME plus codecs) to the runtime answer.
	CanPlayType map[string]string `yaml:"canPlayType,omitempty" json:"canPlayType,omitempty"`

	ProductInfo *ProductInfoReport `yaml:"productInfo,omitempty" json:"productInfo,omitempty"`
}

// ProductInfoReport captures the product-information API answer.
type ProductInfoReport struct {
	UdPanel bool `yaml:"udPanel" json:"udPanel"`
	// Error, when set, makes the panel query fail with this message.
	Error string `yaml:"error,omitempty" json:"error,omitempty"`
}

// DecodeReport parses a report. YAML is a superset of JSON, but JSON input is
// decoded with encoding/json so field errors match the HTTP API contract.
func DecodeReport(r io.Reader, format string) (Report, error) {
	var rep Report
	data, err := io.ReadAll(r)
	if err != nil {
		return rep, fmt.Errorf("read report: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&rep); err != nil {
			return rep, fmt.Errorf("%w: %v", ErrInvalidReport, err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&rep); err != nil {
			if err == io.EOF {
				return rep, fmt.Errorf("%w: empty document", ErrInvalidReport)
			}
			return rep, fmt.Errorf("%w: %v", ErrInvalidReport, err)
		}
	}

	if err := rep.Validate(); err != nil {
		return rep, err
	}
	return rep, nil
}

// LoadReport reads a YAML or JSON report from disk; the format follows the extension.
func LoadReport(path string) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return Report{}, fmt.Errorf("open report: %w", err)
	}
	defer func() { _ = f.Close() }()

	format := "yaml"
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		format = "json"
	}
	return DecodeReport(f, format)
}

// Validate checks that the report can back an adapter.
func (r Report) Validate() error {
	switch strings.ToLower(strings.TrimSpace(r.Platform)) {
	case "", PlatformTizen:
	case PlatformBrowser:
		if strings.Contains(r.UserAgent, "Tizen") {
			return fmt.Errorf("%w: platform hint %q contradicts Tizen user agent", ErrInvalidReport, r.Platform)
		}
	default:
		return fmt.Errorf("%w: unknown platform hint %q", ErrInvalidReport, r.Platform)
	}
	for contentType := range r.CanPlayType {
		if strings.TrimSpace(contentType) == "" {
			return fmt.Errorf("%w: empty canPlayType key", ErrInvalidReport)
		}
	}
	return nil
}
