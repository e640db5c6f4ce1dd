// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package platform

import (
	"errors"
	"strings"
)

// Platform hints accepted in reports.
const (
	PlatformBrowser = "browser"
	PlatformTizen   = "tizen"
)

// FromReport returns the adapter matching the report's platform.
func FromReport(r Report) Adapter {
	switch strings.ToLower(strings.TrimSpace(r.Platform)) {
	case PlatformTizen:
		return NewTizen(r)
	case PlatformBrowser:
		return NewBrowser(r)
	}
	if strings.Contains(r.UserAgent, "Tizen") || containsFold(r.Globals, PlatformTizen) {
		return NewTizen(r)
	}
	return NewBrowser(r)
}

// Browser is a generic browser runtime: codec queries and the segment-source API,
// no platform globals, no product information.
type Browser struct {
	report Report
}

// NewBrowser creates a generic browser adapter backed by r.
func NewBrowser(r Report) *Browser {
	return &Browser{report: r}
}

func (b *Browser) UserAgent() string { return b.report.UserAgent }

// HasGlobal is always false; generic browsers expose no platform namespace.
func (b *Browser) HasGlobal(string) bool { return false }

func (b *Browser) NewMediaElement() (MediaElement, error) {
	return newReportElement(b.report)
}

func (b *Browser) HasMediaSource() bool { return b.report.MediaSource }

func (b *Browser) ProductInfo() (ProductInfo, error) {
	return nil, ErrUnavailable
}

// Tizen is the Samsung TV runtime: the "tizen" and "webapis" namespaces and the
// product-information API for panel class.
type Tizen struct {
	report Report
}

// NewTizen creates a Tizen adapter backed by r. The tizen namespace is always
// present on this platform even if the capture did not list it.
func NewTizen(r Report) *Tizen {
	if !containsFold(r.Globals, PlatformTizen) {
		r.Globals = append(append([]string(nil), r.Globals...), PlatformTizen)
	}
	return &Tizen{report: r}
}

func (t *Tizen) UserAgent() string { return t.report.UserAgent }

func (t *Tizen) HasGlobal(name string) bool { return containsFold(t.report.Globals, name) }

func (t *Tizen) NewMediaElement() (MediaElement, error) {
	return newReportElement(t.report)
}

func (t *Tizen) HasMediaSource() bool { return t.report.MediaSource }

// ProductInfo is reachable through webapis.productinfo; captures without a
// product-info answer behave like firmware where the API is missing.
func (t *Tizen) ProductInfo() (ProductInfo, error) {
	if t.report.ProductInfo == nil {
		return nil, ErrUnavailable
	}
	return reportProductInfo(*t.report.ProductInfo), nil
}

type reportElement struct {
	answers map[string]string
}

func newReportElement(r Report) (MediaElement, error) {
	if r.MediaElementError != "" {
		return nil, errors.New(r.MediaElementError)
	}
	answers := make(map[string]string, len(r.CanPlayType))
	for k, v := range r.CanPlayType {
		answers[normalizeContentType(k)] = v
	}
	return &reportElement{answers: answers}, nil
}

func (e *reportElement) CanPlayType(contentType string) (string, error) {
	return e.answers[normalizeContentType(contentType)], nil
}

type reportProductInfo ProductInfoReport

func (p reportProductInfo) IsUdPanelSupported() (bool, error) {
	if p.Error != "" {
		return false, errors.New(p.Error)
	}
	return p.UdPanel, nil
}

// normalizeContentType makes captured keys insensitive to spacing around ';' and ','.
func normalizeContentType(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	b.Grow(len(s))
	var last rune
	space := false
	for _, r := range s {
		if r == ' ' || r == '\t' {
			space = true
			continue
		}
		if space && last != 0 && last != ';' && last != ',' && r != ';' && r != ',' {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
		last = r
	}
	return b.String()
}

func containsFold(list []string, want string) bool {
	for _, v := range list {
		if strings.EqualFold(strings.TrimSpace(v), want) {
			return true
		}
	}
	return false
}
