// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"github.com/ManuGH/tvcaps/internal/validate"
)

// Validate checks an AppConfig and reports every failed field at once.
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.LogLevel("logLevel", cfg.LogLevel)

	v.ListenAddr("api.listenAddr", cfg.API.ListenAddr)
	v.Positive("api.rateLimit", cfg.API.RateLimit)
	v.PositiveDuration("api.rateWindow", cfg.API.RateWindow)
	v.Positive("api.maxReportBytes", cfg.API.MaxReportBytes)
	v.PositiveDuration("api.shutdownTimeout", cfg.API.ShutdownTimeout)

	v.NotEmpty("reports.dir", cfg.Reports.Dir)

	if cfg.Telemetry.Enabled {
		v.OneOf("telemetry.exporter", cfg.Telemetry.Exporter, []string{"grpc", "http"})
		v.NotEmpty("telemetry.endpoint", cfg.Telemetry.Endpoint)
		v.FloatRange("telemetry.samplingRate", cfg.Telemetry.SamplingRate, 0, 1)
	}

	return v.Err()
}
