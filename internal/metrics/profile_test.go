// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getCounterVecValue(t *testing.T, counterVec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	metric := &dto.Metric{}
	require.NoError(t, counterVec.WithLabelValues(labels...).Write(metric))
	return metric.GetCounter().GetValue()
}

func TestRecordProfileBuild_NormalizesPlatform(t *testing.T) {
	initialTizen := getCounterVecValue(t, profileBuildsTotal, "tizen")
	initialUnknown := getCounterVecValue(t, profileBuildsTotal, "unknown")

	RecordProfileBuild("Tizen")
	RecordProfileBuild("webos")

	assert.Equal(t, initialTizen+1, getCounterVecValue(t, profileBuildsTotal, "tizen"))
	assert.Equal(t, initialUnknown+1, getCounterVecValue(t, profileBuildsTotal, "unknown"))
}

func TestRecordProbeFailure_NormalizesLabels(t *testing.T) {
	initial := getCounterVecValue(t, probeFailuresTotal, "panel", FailurePanic)
	initialOther := getCounterVecValue(t, probeFailuresTotal, "other", "unknown")

	RecordProbeFailure("panel", FailurePanic)
	RecordProbeFailure("gpu_probe", "exploded")

	assert.Equal(t, initial+1, getCounterVecValue(t, probeFailuresTotal, "panel", FailurePanic))
	assert.Equal(t, initialOther+1, getCounterVecValue(t, probeFailuresTotal, "other", "unknown"))
}

func TestRecordCacheLookup(t *testing.T) {
	hits := getCounterVecValue(t, capabilityCacheTotal, "hit")
	misses := getCounterVecValue(t, capabilityCacheTotal, "miss")

	RecordCacheLookup(true)
	RecordCacheLookup(false)
	RecordCacheLookup(false)

	assert.Equal(t, hits+1, getCounterVecValue(t, capabilityCacheTotal, "hit"))
	assert.Equal(t, misses+2, getCounterVecValue(t, capabilityCacheTotal, "miss"))
}

func TestRecordReportCache(t *testing.T) {
	hits := getCounterVecValue(t, reportCacheTotal, "hit")
	metric := &dto.Metric{}
	require.NoError(t, reportInvalidationsTotal.Write(metric))
	invalidations := metric.GetCounter().GetValue()

	RecordReportCacheLookup(true)
	RecordReportInvalidation()

	assert.Equal(t, hits+1, getCounterVecValue(t, reportCacheTotal, "hit"))
	require.NoError(t, reportInvalidationsTotal.Write(metric))
	assert.Equal(t, invalidations+1, metric.GetCounter().GetValue())
}
