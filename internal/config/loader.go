// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvLogLevel        = "TVCAPS_LOG_LEVEL"
	EnvListenAddr      = "TVCAPS_LISTEN_ADDR"
	EnvRateLimit       = "TVCAPS_RATE_LIMIT"
	EnvRateWindow      = "TVCAPS_RATE_WINDOW"
	EnvMaxReportBytes  = "TVCAPS_MAX_REPORT_BYTES"
	EnvShutdownTimeout = "TVCAPS_SHUTDOWN_TIMEOUT"
	EnvReportsDir      = "TVCAPS_REPORTS_DIR"
	EnvReportsWatch    = "TVCAPS_REPORTS_WATCH"
	EnvOutputIndent    = "TVCAPS_OUTPUT_INDENT"
	EnvTracingEnabled  = "TVCAPS_TRACING_ENABLED"
	EnvTracingExporter = "TVCAPS_TRACING_EXPORTER"
	EnvTracingEndpoint = "TVCAPS_TRACING_ENDPOINT"
	EnvTracingSampling = "TVCAPS_TRACING_SAMPLING_RATE"
)

// Loader handles configuration loading with precedence.
type Loader struct {
	configPath      string
	version         string
	ConsumedEnvKeys map[string]struct{}
}

// NewLoader creates a new configuration loader. An empty configPath skips the file.
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

func (l *Loader) envString(key, defaultVal string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseString(key, defaultVal)
}

func (l *Loader) envBool(key string, defaultVal bool) bool {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseBool(key, defaultVal)
}

func (l *Loader) envInt(key string, defaultVal int) int {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseInt(key, defaultVal)
}

func (l *Loader) envDuration(key string, defaultVal time.Duration) time.Duration {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseDuration(key, defaultVal)
}

func (l *Loader) envFloat(key string, defaultVal float64) float64 {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseFloat(key, defaultVal)
}

// Load loads configuration with precedence ENV > File > Defaults and validates
// the result.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.configPath != "" {
		fileCfg, err := l.loadFile(l.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		mergeFileConfig(&cfg, fileCfg)
	}

	l.mergeEnvConfig(&cfg)
	cfg.Version = l.version

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		LogLevel: DefaultLogLevel,
		API: APIConfig{
			ListenAddr:      DefaultListenAddr,
			RateLimit:       DefaultRateLimit,
			RateWindow:      DefaultRateWindow,
			MaxReportBytes:  DefaultMaxReportBytes,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Reports: ReportsConfig{Dir: DefaultReportsDir, Watch: true},
		Output:  OutputConfig{Indent: true},
		Telemetry: TelemetryConfig{
			Exporter:     DefaultTracingExporter,
			Endpoint:     DefaultTracingEndpoint,
			SamplingRate: 1.0,
		},
	}
}

func (l *Loader) loadFile(path string) (*FileConfig, error) {
	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return parseFile(data)
}

func parseFile(data []byte) (*FileConfig, error) {
	var fileCfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&fileCfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &FileConfig{}, nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("%w: %v", ErrUnknownConfigField, err)
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, ErrMultipleDocuments
	}
	return &fileCfg, nil
}

func mergeFileConfig(cfg *AppConfig, f *FileConfig) {
	if f.LogLevel != nil {
		cfg.LogLevel = *f.LogLevel
	}
	if a := f.API; a != nil {
		setIf(&cfg.API.ListenAddr, a.ListenAddr)
		setIf(&cfg.API.RateLimit, a.RateLimit)
		setIf(&cfg.API.RateWindow, a.RateWindow)
		setIf(&cfg.API.MaxReportBytes, a.MaxReportBytes)
		setIf(&cfg.API.ShutdownTimeout, a.ShutdownTimeout)
	}
	if r := f.Reports; r != nil {
		setIf(&cfg.Reports.Dir, r.Dir)
		setIf(&cfg.Reports.Watch, r.Watch)
	}
	if o := f.Output; o != nil {
		setIf(&cfg.Output.Indent, o.Indent)
	}
	if t := f.Telemetry; t != nil {
		setIf(&cfg.Telemetry.Enabled, t.Enabled)
		setIf(&cfg.Telemetry.Exporter, t.Exporter)
		setIf(&cfg.Telemetry.Endpoint, t.Endpoint)
		setIf(&cfg.Telemetry.SamplingRate, t.SamplingRate)
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// mergeEnvConfig overrides cfg from the environment. The current value is the
// default for every key, so unset variables keep file and built-in values.
func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	cfg.LogLevel = l.envString(EnvLogLevel, cfg.LogLevel)

	cfg.API.ListenAddr = l.envString(EnvListenAddr, cfg.API.ListenAddr)
	cfg.API.RateLimit = l.envInt(EnvRateLimit, cfg.API.RateLimit)
	cfg.API.RateWindow = l.envDuration(EnvRateWindow, cfg.API.RateWindow)
	cfg.API.MaxReportBytes = l.envInt(EnvMaxReportBytes, cfg.API.MaxReportBytes)
	cfg.API.ShutdownTimeout = l.envDuration(EnvShutdownTimeout, cfg.API.ShutdownTimeout)

	cfg.Reports.Dir = l.envString(EnvReportsDir, cfg.Reports.Dir)
	cfg.Reports.Watch = l.envBool(EnvReportsWatch, cfg.Reports.Watch)
	cfg.Output.Indent = l.envBool(EnvOutputIndent, cfg.Output.Indent)

	cfg.Telemetry.Enabled = l.envBool(EnvTracingEnabled, cfg.Telemetry.Enabled)
	cfg.Telemetry.Exporter = l.envString(EnvTracingExporter, cfg.Telemetry.Exporter)
	cfg.Telemetry.Endpoint = l.envString(EnvTracingEndpoint, cfg.Telemetry.Endpoint)
	cfg.Telemetry.SamplingRate = l.envFloat(EnvTracingSampling, cfg.Telemetry.SamplingRate)
}
