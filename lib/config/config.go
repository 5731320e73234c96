// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production deployments.
	Production Environment = "production"
)

// Config is the relay daemon configuration.
type Config struct {
	// Environment identifies the deployment type (development, staging, production).
	Environment Environment `yaml:"environment"`

	// Socket configures the ingest socket local services submit to.
	Socket SocketConfig `yaml:"socket"`

	// Export configures the OTLP collector connection.
	Export ExportConfig `yaml:"export"`

	// Batch configures accumulation and buffering between ingest and export.
	Batch BatchConfig `yaml:"batch"`

	// Resource identifies the telemetry origin stamped on every batch.
	Resource ResourceConfig `yaml:"resource"`

	// Scope identifies the instrumentation scope stamped on every batch.
	Scope ScopeConfig `yaml:"scope"`

	// EnvironmentOverrides contains per-environment overrides.
	// These are applied after the base config is loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Socket   *SocketConfig   `yaml:"socket,omitempty"`
	Export   *ExportConfig   `yaml:"export,omitempty"`
	Batch    *BatchConfig    `yaml:"batch,omitempty"`
	Resource *ResourceConfig `yaml:"resource,omitempty"`
	Scope    *ScopeConfig    `yaml:"scope,omitempty"`
}

// SocketConfig configures the Unix socket the relay listens on.
type SocketConfig struct {
	// Path is the Unix socket path.
	// Default: /run/otelship/relay.sock
	Path string `yaml:"path"`
}

// ExportConfig configures the OTLP/HTTP collector connection.
type ExportConfig struct {
	// Endpoint is the collector base URL without the signal path;
	// /v1/traces and /v1/metrics are appended per request.
	// Default: http://localhost:4318
	Endpoint string `yaml:"endpoint"`

	// Headers are added to every export request, typically tenant or
	// API-key headers. Values may reference ${VAR} for credentials
	// supplied via the environment.
	Headers map[string]string `yaml:"headers"`

	// Compression selects the request body encoding.
	// Values: "gzip", "none"
	// Default: gzip
	Compression string `yaml:"compression"`

	// InsecureSkipTLSVerify disables TLS certificate verification.
	// Takes effect only when the OTELSHIP_INSECURE_TLS environment
	// variable is also "1". Development use only.
	InsecureSkipTLSVerify bool `yaml:"insecure_skip_tls_verify"`

	// ConnectTimeout bounds connection establishment, as a Go
	// duration string.
	// Default: 30s
	ConnectTimeout string `yaml:"connect_timeout"`

	// RequestTimeout bounds a full export request, as a Go duration
	// string.
	// Default: 60s
	RequestTimeout string `yaml:"request_timeout"`
}

// BatchConfig configures accumulation and buffering.
type BatchConfig struct {
	// FlushInterval is how often pending records are encoded and
	// handed to the ship buffer, as a Go duration string.
	// Default: 5s
	FlushInterval string `yaml:"flush_interval"`

	// MaxBatchBytes flushes the accumulator early once the estimated
	// encoded size of pending records exceeds it.
	// Default: 1048576 (1 MiB)
	MaxBatchBytes int `yaml:"max_batch_bytes"`

	// BufferBytes bounds the encoded payloads held for shipping.
	// The oldest payloads are dropped on overflow.
	// Default: 33554432 (32 MiB)
	BufferBytes int `yaml:"buffer_bytes"`
}

// ResourceConfig configures the resource stamped on every batch.
type ResourceConfig struct {
	// ServiceName becomes the service.name resource attribute.
	// Default: otelship-relay
	ServiceName string `yaml:"service_name"`

	// Attributes are additional resource attributes, typically host
	// or deployment identifiers.
	Attributes map[string]string `yaml:"attributes"`
}

// ScopeConfig configures the instrumentation scope stamped on every batch.
type ScopeConfig struct {
	// Name is the instrumentation scope name.
	// Default: github.com/bureau-foundation/otelship
	Name string `yaml:"name"`

	// Version is the instrumentation scope version. Empty versions
	// are omitted from the wire encoding.
	Version string `yaml:"version"`
}

// Default returns the default configuration.
// These defaults are used as a base before loading the config file.
// They exist primarily to ensure all fields have sensible zero-values,
// not as a fallback - the config file is required.
func Default() *Config {
	return &Config{
		Environment: Development,
		Socket: SocketConfig{
			Path: "/run/otelship/relay.sock",
		},
		Export: ExportConfig{
			Endpoint:       "http://localhost:4318",
			Compression:    "gzip",
			ConnectTimeout: "30s",
			RequestTimeout: "60s",
		},
		Batch: BatchConfig{
			FlushInterval: "5s",
			MaxBatchBytes: 1 << 20,
			BufferBytes:   32 << 20,
		},
		Resource: ResourceConfig{
			ServiceName: "otelship-relay",
		},
		Scope: ScopeConfig{
			Name: "github.com/bureau-foundation/otelship",
		},
	}
}

// Load loads configuration from the OTELSHIP_CONFIG environment variable.
//
// This is the only way to load configuration without an explicit path.
// There are no fallbacks or defaults - if OTELSHIP_CONFIG is not set, this
// fails. This ensures deterministic, auditable configuration with no hidden
// overrides.
func Load() (*Config, error) {
	configPath := os.Getenv("OTELSHIP_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("OTELSHIP_CONFIG environment variable not set; " +
			"set it to the path of your otelship.yaml config file, or use --config flag")
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// The config file is the single source of truth. Environment variables do
// not override config values - this ensures deterministic, auditable
// configuration. The only expansion performed is ${VAR} substitution in the
// socket path and header values.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	// Apply environment-specific overrides (development/staging/production sections in the file).
	cfg.applyEnvironmentOverrides()

	// Expand ${HOME} and similar variables for portability.
	cfg.expandVariables()

	return cfg, nil
}

// loadFile loads a single configuration file, merging into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, c)
}

// applyEnvironmentOverrides applies the environment-specific overrides.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}

	if overrides == nil {
		return
	}

	if overrides.Socket != nil {
		if overrides.Socket.Path != "" {
			c.Socket.Path = overrides.Socket.Path
		}
	}

	if overrides.Export != nil {
		if overrides.Export.Endpoint != "" {
			c.Export.Endpoint = overrides.Export.Endpoint
		}
		// Header overrides merge by key rather than replacing the map,
		// so a production section can add an authorization header
		// without restating the base headers.
		if len(overrides.Export.Headers) > 0 {
			if c.Export.Headers == nil {
				c.Export.Headers = make(map[string]string, len(overrides.Export.Headers))
			}
			for name, value := range overrides.Export.Headers {
				c.Export.Headers[name] = value
			}
		}
		if overrides.Export.Compression != "" {
			c.Export.Compression = overrides.Export.Compression
		}
		// InsecureSkipTLSVerify is a bool, so we always apply it from overrides.
		c.Export.InsecureSkipTLSVerify = overrides.Export.InsecureSkipTLSVerify
		if overrides.Export.ConnectTimeout != "" {
			c.Export.ConnectTimeout = overrides.Export.ConnectTimeout
		}
		if overrides.Export.RequestTimeout != "" {
			c.Export.RequestTimeout = overrides.Export.RequestTimeout
		}
	}

	if overrides.Batch != nil {
		if overrides.Batch.FlushInterval != "" {
			c.Batch.FlushInterval = overrides.Batch.FlushInterval
		}
		if overrides.Batch.MaxBatchBytes != 0 {
			c.Batch.MaxBatchBytes = overrides.Batch.MaxBatchBytes
		}
		if overrides.Batch.BufferBytes != 0 {
			c.Batch.BufferBytes = overrides.Batch.BufferBytes
		}
	}

	if overrides.Resource != nil {
		if overrides.Resource.ServiceName != "" {
			c.Resource.ServiceName = overrides.Resource.ServiceName
		}
		if len(overrides.Resource.Attributes) > 0 {
			if c.Resource.Attributes == nil {
				c.Resource.Attributes = make(map[string]string, len(overrides.Resource.Attributes))
			}
			for name, value := range overrides.Resource.Attributes {
				c.Resource.Attributes[name] = value
			}
		}
	}

	if overrides.Scope != nil {
		if overrides.Scope.Name != "" {
			c.Scope.Name = overrides.Scope.Name
		}
		if overrides.Scope.Version != "" {
			c.Scope.Version = overrides.Scope.Version
		}
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in the socket
// path and header values.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME":            os.Getenv("HOME"),
		"XDG_RUNTIME_DIR": os.Getenv("XDG_RUNTIME_DIR"),
	}

	c.Socket.Path = expandVars(c.Socket.Path, vars)
	for name, value := range c.Export.Headers {
		c.Export.Headers[name] = expandVars(value, vars)
	}
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Socket.Path == "" {
		errs = append(errs, fmt.Errorf("socket.path is required"))
	}

	if c.Export.Endpoint == "" {
		errs = append(errs, fmt.Errorf("export.endpoint is required"))
	}

	if c.Export.Compression != "gzip" && c.Export.Compression != "none" {
		errs = append(errs, fmt.Errorf("export.compression must be gzip or none, got %q", c.Export.Compression))
	}

	durations := []struct {
		name  string
		value string
	}{
		{"export.connect_timeout", c.Export.ConnectTimeout},
		{"export.request_timeout", c.Export.RequestTimeout},
		{"batch.flush_interval", c.Batch.FlushInterval},
	}
	for _, d := range durations {
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d.name, err))
			continue
		}
		if parsed <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", d.name, d.value))
		}
	}

	if c.Batch.MaxBatchBytes <= 0 {
		errs = append(errs, fmt.Errorf("batch.max_batch_bytes must be positive"))
	}
	if c.Batch.BufferBytes <= 0 {
		errs = append(errs, fmt.Errorf("batch.buffer_bytes must be positive"))
	}
	// The buffer has to hold at least one full batch or a flush could
	// immediately drop its own payload.
	if c.Batch.MaxBatchBytes > 0 && c.Batch.BufferBytes > 0 && c.Batch.BufferBytes < c.Batch.MaxBatchBytes {
		errs = append(errs, fmt.Errorf("batch.buffer_bytes must be at least batch.max_batch_bytes"))
	}

	if c.Resource.ServiceName == "" {
		errs = append(errs, fmt.Errorf("resource.service_name is required"))
	}

	if c.Scope.Name == "" {
		errs = append(errs, fmt.Errorf("scope.name is required"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// EnsureSocketDir creates the socket's parent directory if it does not exist.
func (c *Config) EnsureSocketDir() error {
	dir := filepath.Dir(c.Socket.Path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	return nil
}
