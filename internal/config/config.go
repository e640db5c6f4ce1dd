// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package config loads tvcaps configuration with precedence
// environment > YAML file > defaults.
package config

import "time"

// Defaults.
const (
	DefaultLogLevel        = "info"
	DefaultListenAddr      = ":8089"
	DefaultRateLimit       = 120
	DefaultRateWindow      = time.Minute
	DefaultMaxReportBytes  = 256 << 10
	DefaultShutdownTimeout = 5 * time.Second
	DefaultReportsDir      = "reports"
	DefaultTracingExporter = "grpc"
	DefaultTracingEndpoint = "localhost:4317"
)

// AppConfig is the effective configuration.
type AppConfig struct {
	Version   string
	LogLevel  string
	API       APIConfig
	Reports   ReportsConfig
	Output    OutputConfig
	Telemetry TelemetryConfig
}

// APIConfig controls the HTTP surface.
type APIConfig struct {
	ListenAddr      string
	RateLimit       int
	RateWindow      time.Duration
	MaxReportBytes  int
	ShutdownTimeout time.Duration
}

// ReportsConfig locates stored device reports.
type ReportsConfig struct {
	Dir string
	// Watch caches rendered device profiles and drops an entry when its
	// report file changes. Without it every request re-reads the report.
	Watch bool
}

// OutputConfig shapes rendered documents.
type OutputConfig struct {
	Indent bool
}

// TelemetryConfig controls trace export.
type TelemetryConfig struct {
	Enabled      bool
	Exporter     string
	Endpoint     string
	SamplingRate float64
}

// FileConfig mirrors the YAML file. Pointer fields distinguish "absent" from
// the zero value so the file only overrides what it sets.
type FileConfig struct {
	LogLevel  *string              `yaml:"logLevel"`
	API       *FileAPIConfig       `yaml:"api"`
	Reports   *FileReportsConfig   `yaml:"reports"`
	Output    *FileOutputConfig    `yaml:"output"`
	Telemetry *FileTelemetryConfig `yaml:"telemetry"`
}

type FileAPIConfig struct {
	ListenAddr      *string        `yaml:"listenAddr"`
	RateLimit       *int           `yaml:"rateLimit"`
	RateWindow      *time.Duration `yaml:"rateWindow"`
	MaxReportBytes  *int           `yaml:"maxReportBytes"`
	ShutdownTimeout *time.Duration `yaml:"shutdownTimeout"`
}

type FileReportsConfig struct {
	Dir   *string `yaml:"dir"`
	Watch *bool   `yaml:"watch"`
}

type FileOutputConfig struct {
	Indent *bool `yaml:"indent"`
}

type FileTelemetryConfig struct {
	Enabled      *bool    `yaml:"enabled"`
	Exporter     *string  `yaml:"exporter"`
	Endpoint     *string  `yaml:"endpoint"`
	SamplingRate *float64 `yaml:"samplingRate"`
}

// ToFileConfig converts an effective configuration back into its file form,
// with every field set. Loading the result yields cfg again.
func ToFileConfig(cfg AppConfig) FileConfig {
	return FileConfig{
		LogLevel: &cfg.LogLevel,
		API: &FileAPIConfig{
			ListenAddr:      &cfg.API.ListenAddr,
			RateLimit:       &cfg.API.RateLimit,
			RateWindow:      &cfg.API.RateWindow,
			MaxReportBytes:  &cfg.API.MaxReportBytes,
			ShutdownTimeout: &cfg.API.ShutdownTimeout,
		},
		Reports: &FileReportsConfig{Dir: &cfg.Reports.Dir, Watch: &cfg.Reports.Watch},
		Output:  &FileOutputConfig{Indent: &cfg.Output.Indent},
		Telemetry: &FileTelemetryConfig{
			Enabled:      &cfg.Telemetry.Enabled,
			Exporter:     &cfg.Telemetry.Exporter,
			Endpoint:     &cfg.Telemetry.Endpoint,
			SamplingRate: &cfg.Telemetry.SamplingRate,
		},
	}
}
