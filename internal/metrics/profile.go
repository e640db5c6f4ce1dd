// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package metrics provides Prometheus metrics for capability probing and profile building.
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Probe failure kinds.
const (
	FailureUnavailable = "unavailable"
	FailureError       = "error"
	FailurePanic       = "panic"
)

var (
	profileBuildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvcaps_profile_builds_total",
		Help: "Total number of negotiation documents built, by detected platform.",
	}, []string{"platform"})

	probeFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvcaps_probe_failures_total",
		Help: "Total number of capability probes that degraded to 'absent', by probe and failure kind.",
	}, []string{"probe", "kind"})

	capabilityCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvcaps_capability_cache_total",
		Help: "Capability cache lookups, by result (hit/miss).",
	}, []string{"result"})

	reportCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvcaps_report_cache_total",
		Help: "Rendered device profile cache lookups, by result (hit/miss).",
	}, []string{"result"})

	reportInvalidationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tvcaps_report_invalidations_total",
		Help: "Cached device profiles dropped because their report file changed.",
	})
)

// RecordProfileBuild counts one built document.
func RecordProfileBuild(platform string) {
	profileBuildsTotal.WithLabelValues(normalizePlatformLabel(platform)).Inc()
}

// RecordProbeFailure counts one degraded probe.
func RecordProbeFailure(probe, kind string) {
	probeFailuresTotal.WithLabelValues(normalizeProbeLabel(probe), normalizeFailureKindLabel(kind)).Inc()
}

// RecordCacheLookup counts one capability cache lookup.
func RecordCacheLookup(hit bool) {
	capabilityCacheTotal.WithLabelValues(hitLabel(hit)).Inc()
}

// RecordReportCacheLookup counts one rendered device profile lookup.
func RecordReportCacheLookup(hit bool) {
	reportCacheTotal.WithLabelValues(hitLabel(hit)).Inc()
}

// RecordReportInvalidation counts one dropped device profile.
func RecordReportInvalidation() {
	reportInvalidationsTotal.Inc()
}

func hitLabel(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

func normalizePlatformLabel(platform string) string {
	switch p := strings.ToLower(strings.TrimSpace(platform)); p {
	case "browser", "tizen":
		return p
	default:
		return "unknown"
	}
}

func normalizeProbeLabel(probe string) string {
	switch p := strings.ToLower(strings.TrimSpace(probe)); p {
	case "media_element", "can_play_type", "media_source", "product_info", "panel", "global", "user_agent":
		return p
	default:
		return "other"
	}
}

func normalizeFailureKindLabel(kind string) string {
	switch k := strings.ToLower(strings.TrimSpace(kind)); k {
	case FailureUnavailable, FailureError, FailurePanic:
		return k
	default:
		return "unknown"
	}
}
