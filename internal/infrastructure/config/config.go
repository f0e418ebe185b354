// Package config provides configuration structs and utilities for gtc.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jbctechsolutions/gtc/internal/domain/encoding"
)

// Config represents the root configuration for gtc.
type Config struct {
	Defaults      DefaultsConfig      `yaml:"defaults"`
	Models        map[string]string   `yaml:"models,omitempty"`
	Tokenizer     TokenizerConfig     `yaml:"tokenizer"`
	Logging       LoggingConfig       `yaml:"logging"`
	Observability ObservabilityConfig `yaml:"observability"`
	Watch         WatchConfig         `yaml:"watch"`
}

// DefaultsConfig holds the values used when a flag is not given.
type DefaultsConfig struct {
	Model    string `yaml:"model"`
	Encoding string `yaml:"encoding,omitempty"`
}

// TokenizerConfig controls how encodings are loaded and files processed.
type TokenizerConfig struct {
	Offline     bool   `yaml:"offline"`             // Load BPE ranks from embedded files
	CacheDir    string `yaml:"cache_dir,omitempty"` // Where downloaded BPE files are cached
	Concurrency int    `yaml:"concurrency"`         // Files counted in parallel (1 = sequential)
}

// LoggingConfig holds configuration for application logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// ObservabilityConfig holds configuration for observability features.
type ObservabilityConfig struct {
	Tracing TracingConfig `yaml:"tracing"`
}

// TracingConfig holds configuration for distributed tracing.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`       // Whether tracing is enabled
	ExporterType string  `yaml:"exporter_type"` // none, stdout, otlp
	OTLPEndpoint string  `yaml:"otlp_endpoint"` // OTLP collector endpoint
	SampleRate   float64 `yaml:"sample_rate"`   // Sampling rate (0.0 to 1.0)
	ServiceName  string  `yaml:"service_name"`  // Service name for traces
}

// WatchConfig holds configuration for `gtc watch`.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Default configuration values.
const (
	DefaultModel       = encoding.DefaultModel
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"
	DefaultConcurrency = 1
	MaxConcurrency     = 64

	DefaultTracingEnabled      = false
	DefaultTracingExporterType = "none"
	DefaultTracingSampleRate   = 1.0
	DefaultTracingServiceName  = "gtc"

	DefaultWatchDebounce = 200 * time.Millisecond
)

// Valid log levels.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Valid log formats.
var validLogFormats = map[string]bool{
	"json": true,
	"text": true,
}

// Valid tracing exporter types.
var validTracingExporterTypes = map[string]bool{
	"none":   true,
	"stdout": true,
	"otlp":   true,
}

// NewDefaultConfig creates a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			Model: DefaultModel,
		},
		Tokenizer: TokenizerConfig{
			Concurrency: DefaultConcurrency,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Observability: ObservabilityConfig{
			Tracing: TracingConfig{
				Enabled:      DefaultTracingEnabled,
				ExporterType: DefaultTracingExporterType,
				SampleRate:   DefaultTracingSampleRate,
				ServiceName:  DefaultTracingServiceName,
			},
		},
		Watch: WatchConfig{
			Debounce: DefaultWatchDebounce,
		},
	}
}

// Validate checks if the configuration is valid and returns an error if not.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Defaults.Validate(c.Models); err != nil {
		errs = append(errs, fmt.Errorf("defaults: %w", err))
	}

	if err := validateModels(c.Models); err != nil {
		errs = append(errs, fmt.Errorf("models: %w", err))
	}

	if err := c.Tokenizer.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tokenizer: %w", err))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	if err := c.Observability.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("observability: %w", err))
	}

	if err := c.Watch.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("watch: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks the defaults against the built-in and configured models.
func (d *DefaultsConfig) Validate(extra map[string]string) error {
	var errs []error

	if d.Model != "" {
		_, builtin := encoding.BuiltinModels()[d.Model]
		_, custom := extra[d.Model]
		if !builtin && !custom {
			errs = append(errs, fmt.Errorf("unknown model %q", d.Model))
		}
	}

	if d.Encoding != "" && !encoding.IsKnown(d.Encoding) {
		errs = append(errs, fmt.Errorf("unknown encoding %q", d.Encoding))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

func validateModels(models map[string]string) error {
	var errs []error

	for model, enc := range models {
		if strings.TrimSpace(model) == "" {
			errs = append(errs, errors.New("model name cannot be empty"))
			continue
		}
		if !encoding.IsKnown(enc) {
			errs = append(errs, fmt.Errorf("model %q maps to unknown encoding %q", model, enc))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks if the TokenizerConfig is valid.
func (t *TokenizerConfig) Validate() error {
	if t.Concurrency < 0 || t.Concurrency > MaxConcurrency {
		return fmt.Errorf("concurrency must be between 0 and %d", MaxConcurrency)
	}
	return nil
}

// Validate checks if the LoggingConfig is valid.
func (l *LoggingConfig) Validate() error {
	var errs []error

	if l.Level != "" && !validLogLevels[l.Level] {
		errs = append(errs, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", l.Level))
	}

	if l.Format != "" && !validLogFormats[l.Format] {
		errs = append(errs, fmt.Errorf("invalid log format %q: must be one of json, text", l.Format))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks if the ObservabilityConfig is valid.
func (o *ObservabilityConfig) Validate() error {
	if err := o.Tracing.Validate(); err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	return nil
}

// Validate checks if the TracingConfig is valid.
func (t *TracingConfig) Validate() error {
	var errs []error

	if t.Enabled {
		if t.ExporterType != "" && !validTracingExporterTypes[t.ExporterType] {
			errs = append(errs, fmt.Errorf("invalid exporter_type %q: must be one of none, stdout, otlp", t.ExporterType))
		}
		if t.ExporterType == "otlp" && t.OTLPEndpoint == "" {
			errs = append(errs, errors.New("otlp_endpoint is required when exporter_type is 'otlp'"))
		}
		if t.SampleRate < 0 || t.SampleRate > 1 {
			errs = append(errs, errors.New("sample_rate must be between 0.0 and 1.0"))
		}
		if t.ServiceName == "" {
			errs = append(errs, errors.New("service_name is required when tracing is enabled"))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Validate checks if the WatchConfig is valid.
func (w *WatchConfig) Validate() error {
	if w.Debounce < 0 {
		return errors.New("debounce must be non-negative")
	}
	return nil
}
