// Package config loads urlcanon settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultScheme       = "http"
	DefaultWorkers      = 4
	DefaultCacheSize    = 4096
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultListen       = ":8080"
	DefaultMaxBodyBytes = 5 * 1024 * 1024
)

// Config defines the runtime settings. Zero values are replaced by defaults.
type Config struct {
	DefaultScheme string `yaml:"default_scheme" validate:"oneof=http https"`
	Workers       int    `yaml:"workers" validate:"min=1,max=256"`
	// CacheSize is the number of host breakdowns kept in memory, 0 disables
	// the cache.
	CacheSize    int    `yaml:"cache_size" validate:"min=0"`
	LogLevel     string `yaml:"log_level" validate:"oneof=trace debug info notice warn warning error critical"`
	LogFormat    string `yaml:"log_format" validate:"oneof=text json"`
	Listen       string `yaml:"listen" validate:"required"`
	MaxBodyBytes int64  `yaml:"max_body_bytes" validate:"min=1"`
	// AllowUnknownSuffixes keeps hosts whose top-level label is not on the
	// public suffix list, such as internal TLDs.
	AllowUnknownSuffixes bool `yaml:"allow_unknown_suffixes"`
	// Tracing exports OpenTelemetry traces and metrics over OTLP when
	// serving. The endpoint comes from the standard OTEL_EXPORTER_OTLP_*
	// environment variables.
	Tracing bool `yaml:"tracing"`
}

// Default returns a Config with every field set to its default.
func Default() Config {
	return Config{
		DefaultScheme: DefaultScheme,
		Workers:       DefaultWorkers,
		CacheSize:     DefaultCacheSize,
		LogLevel:      DefaultLogLevel,
		LogFormat:     DefaultLogFormat,
		Listen:        DefaultListen,
		MaxBodyBytes:  DefaultMaxBodyBytes,
	}
}

// Load reads path and fills unset fields with defaults. An empty path or a
// missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	payload, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(payload) == 0 {
		return cfg, nil
	}

	// Keys missing from the file keep their defaults.
	if err := yaml.Unmarshal(payload, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Merge copies the non-zero fields of other into c. A zero CacheSize in
// other is treated as unset; use DisableCache to turn the cache off. Boolean
// switches can only be turned on.
func (c *Config) Merge(other Config) {
	if other.DefaultScheme != "" {
		c.DefaultScheme = other.DefaultScheme
	}
	if other.Workers != 0 {
		c.Workers = other.Workers
	}
	if other.CacheSize != 0 {
		c.CacheSize = other.CacheSize
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		c.LogFormat = other.LogFormat
	}
	if other.Listen != "" {
		c.Listen = other.Listen
	}
	if other.MaxBodyBytes != 0 {
		c.MaxBodyBytes = other.MaxBodyBytes
	}
	if other.AllowUnknownSuffixes {
		c.AllowUnknownSuffixes = true
	}
	if other.Tracing {
		c.Tracing = true
	}
}

// DisableCache turns the host breakdown cache off.
func (c *Config) DisableCache() {
	c.CacheSize = 0
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			rule := fe.Tag()
			if fe.Param() != "" {
				rule += " " + fe.Param()
			}
			return fmt.Errorf("invalid %s=%v: must satisfy %s", fe.Field(), fe.Value(), rule)
		}
		return err
	}
	return nil
}
