// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "otelship.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Environment != Development {
		t.Errorf("expected environment=development, got %s", cfg.Environment)
	}

	if cfg.Socket.Path != "/run/otelship/relay.sock" {
		t.Errorf("expected socket path=/run/otelship/relay.sock, got %s", cfg.Socket.Path)
	}

	if cfg.Export.Endpoint != "http://localhost:4318" {
		t.Errorf("expected endpoint=http://localhost:4318, got %s", cfg.Export.Endpoint)
	}

	if cfg.Export.Compression != "gzip" {
		t.Errorf("expected compression=gzip, got %s", cfg.Export.Compression)
	}

	if cfg.Batch.MaxBatchBytes != 1<<20 {
		t.Errorf("expected max_batch_bytes=%d, got %d", 1<<20, cfg.Batch.MaxBatchBytes)
	}

	if cfg.Resource.ServiceName != "otelship-relay" {
		t.Errorf("expected service_name=otelship-relay, got %s", cfg.Resource.ServiceName)
	}
}

func TestLoad_RequiresConfigEnv(t *testing.T) {
	t.Setenv("OTELSHIP_CONFIG", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when OTELSHIP_CONFIG not set, got nil")
	}

	if !strings.Contains(err.Error(), "OTELSHIP_CONFIG environment variable not set") {
		t.Errorf("expected error to name OTELSHIP_CONFIG, got %q", err.Error())
	}
}

func TestLoad_WithConfigEnv(t *testing.T) {
	configPath := writeConfig(t, `
environment: staging
socket:
  path: /test/relay.sock
export:
  endpoint: https://collector.test:4318
`)

	t.Setenv("OTELSHIP_CONFIG", configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Environment != Staging {
		t.Errorf("expected environment=staging, got %s", cfg.Environment)
	}

	if cfg.Socket.Path != "/test/relay.sock" {
		t.Errorf("expected socket path=/test/relay.sock, got %s", cfg.Socket.Path)
	}
}

func TestLoadFile(t *testing.T) {
	configPath := writeConfig(t, `
environment: staging

socket:
  path: /custom/relay.sock

export:
  endpoint: https://collector.example.com:4318
  headers:
    x-tenant: platform
  compression: none
  request_timeout: 90s

batch:
  flush_interval: 2s
  max_batch_bytes: 65536

resource:
  service_name: edge-relay
  attributes:
    host.name: worker-7

scope:
  name: github.com/example/edge
  version: 1.4.0
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Environment != Staging {
		t.Errorf("expected environment=staging, got %s", cfg.Environment)
	}

	if cfg.Socket.Path != "/custom/relay.sock" {
		t.Errorf("expected socket path=/custom/relay.sock, got %s", cfg.Socket.Path)
	}

	if cfg.Export.Endpoint != "https://collector.example.com:4318" {
		t.Errorf("expected endpoint=https://collector.example.com:4318, got %s", cfg.Export.Endpoint)
	}

	if cfg.Export.Headers["x-tenant"] != "platform" {
		t.Errorf("expected x-tenant=platform, got %s", cfg.Export.Headers["x-tenant"])
	}

	if cfg.Export.Compression != "none" {
		t.Errorf("expected compression=none, got %s", cfg.Export.Compression)
	}

	if cfg.Export.RequestTimeout != "90s" {
		t.Errorf("expected request_timeout=90s, got %s", cfg.Export.RequestTimeout)
	}

	// Fields absent from the file keep their defaults.
	if cfg.Export.ConnectTimeout != "30s" {
		t.Errorf("expected default connect_timeout=30s, got %s", cfg.Export.ConnectTimeout)
	}

	if cfg.Batch.FlushInterval != "2s" {
		t.Errorf("expected flush_interval=2s, got %s", cfg.Batch.FlushInterval)
	}

	if cfg.Batch.MaxBatchBytes != 65536 {
		t.Errorf("expected max_batch_bytes=65536, got %d", cfg.Batch.MaxBatchBytes)
	}

	if cfg.Batch.BufferBytes != 32<<20 {
		t.Errorf("expected default buffer_bytes=%d, got %d", 32<<20, cfg.Batch.BufferBytes)
	}

	if cfg.Resource.ServiceName != "edge-relay" {
		t.Errorf("expected service_name=edge-relay, got %s", cfg.Resource.ServiceName)
	}

	if cfg.Resource.Attributes["host.name"] != "worker-7" {
		t.Errorf("expected host.name=worker-7, got %s", cfg.Resource.Attributes["host.name"])
	}

	if cfg.Scope.Name != "github.com/example/edge" {
		t.Errorf("expected scope name=github.com/example/edge, got %s", cfg.Scope.Name)
	}

	if cfg.Scope.Version != "1.4.0" {
		t.Errorf("expected scope version=1.4.0, got %s", cfg.Scope.Version)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	configPath := writeConfig(t, `
environment: production

socket:
  path: /base/relay.sock

export:
  endpoint: http://localhost:4318
  headers:
    x-tenant: platform

batch:
  flush_interval: 1s

development:
  socket:
    path: /dev/relay.sock

production:
  export:
    endpoint: https://collector.internal:4318
    headers:
      authorization: Bearer prod-token
  batch:
    flush_interval: 10s
    buffer_bytes: 67108864
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	// Production overrides should be applied.
	if cfg.Export.Endpoint != "https://collector.internal:4318" {
		t.Errorf("expected endpoint=https://collector.internal:4318, got %s", cfg.Export.Endpoint)
	}

	// Header overrides merge with the base headers.
	if cfg.Export.Headers["x-tenant"] != "platform" {
		t.Errorf("expected base header x-tenant=platform kept, got %s", cfg.Export.Headers["x-tenant"])
	}
	if cfg.Export.Headers["authorization"] != "Bearer prod-token" {
		t.Errorf("expected authorization header from override, got %s", cfg.Export.Headers["authorization"])
	}

	if cfg.Batch.FlushInterval != "10s" {
		t.Errorf("expected flush_interval=10s from production override, got %s", cfg.Batch.FlushInterval)
	}

	if cfg.Batch.BufferBytes != 67108864 {
		t.Errorf("expected buffer_bytes=67108864 from production override, got %d", cfg.Batch.BufferBytes)
	}

	// Fields the override block leaves out keep their base values.
	if cfg.Batch.MaxBatchBytes != 1<<20 {
		t.Errorf("expected max_batch_bytes unchanged, got %d", cfg.Batch.MaxBatchBytes)
	}

	// The development block must not apply when environment=production.
	if cfg.Socket.Path != "/base/relay.sock" {
		t.Errorf("expected socket path=/base/relay.sock, got %s", cfg.Socket.Path)
	}
}

func TestEnvVarsDoNotOverride(t *testing.T) {
	// Environment variables do NOT override config file values. The
	// config file is the single source of truth.
	t.Setenv("OTELSHIP_ENDPOINT", "http://env-collector:4318")
	t.Setenv("OTELSHIP_SOCKET", "/env/relay.sock")

	configPath := writeConfig(t, `
environment: development
socket:
  path: /file/relay.sock
export:
  endpoint: http://file-collector:4318
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Socket.Path != "/file/relay.sock" {
		t.Errorf("expected socket path=/file/relay.sock from file, got %s (env vars should not override)", cfg.Socket.Path)
	}

	if cfg.Export.Endpoint != "http://file-collector:4318" {
		t.Errorf("expected endpoint=http://file-collector:4318 from file, got %s (env vars should not override)", cfg.Export.Endpoint)
	}
}

func TestVariableExpansion(t *testing.T) {
	t.Setenv("HOME", "/home/test")
	t.Setenv("OTELSHIP_TEST_TOKEN", "s3cr3t")

	configPath := writeConfig(t, `
socket:
  path: ${HOME}/.cache/otelship/relay.sock
export:
  headers:
    authorization: Bearer ${OTELSHIP_TEST_TOKEN}
    x-region: ${OTELSHIP_TEST_REGION:-us-east-1}
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Socket.Path != "/home/test/.cache/otelship/relay.sock" {
		t.Errorf("expected expanded socket path, got %s", cfg.Socket.Path)
	}

	if cfg.Export.Headers["authorization"] != "Bearer s3cr3t" {
		t.Errorf("expected expanded authorization header, got %q", cfg.Export.Headers["authorization"])
	}

	if cfg.Export.Headers["x-region"] != "us-east-1" {
		t.Errorf("expected default for unset variable, got %q", cfg.Export.Headers["x-region"])
	}
}

func TestExpandVars(t *testing.T) {
	tests := []struct {
		input    string
		vars     map[string]string
		expected string
	}{
		{
			input:    "${HOME}/otelship",
			vars:     map[string]string{"HOME": "/home/user"},
			expected: "/home/user/otelship",
		},
		{
			input:    "${MISSING:-default}",
			vars:     map[string]string{},
			expected: "default",
		},
		{
			input:    "${PRESENT:-default}",
			vars:     map[string]string{"PRESENT": "value"},
			expected: "value",
		},
		{
			input:    "${A}/${B}",
			vars:     map[string]string{"A": "first", "B": "second"},
			expected: "first/second",
		},
		{
			input:    "no variables here",
			vars:     map[string]string{},
			expected: "no variables here",
		},
	}

	for _, tt := range tests {
		result := expandVars(tt.input, tt.vars)
		if result != tt.expected {
			t.Errorf("expandVars(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "invalid environment",
			modify: func(c *Config) {
				c.Environment = "invalid"
			},
			wantErr: true,
		},
		{
			name: "empty socket path",
			modify: func(c *Config) {
				c.Socket.Path = ""
			},
			wantErr: true,
		},
		{
			name: "empty endpoint",
			modify: func(c *Config) {
				c.Export.Endpoint = ""
			},
			wantErr: true,
		},
		{
			name: "invalid compression",
			modify: func(c *Config) {
				c.Export.Compression = "zstd"
			},
			wantErr: true,
		},
		{
			name: "unparseable flush interval",
			modify: func(c *Config) {
				c.Batch.FlushInterval = "soon"
			},
			wantErr: true,
		},
		{
			name: "negative request timeout",
			modify: func(c *Config) {
				c.Export.RequestTimeout = "-5s"
			},
			wantErr: true,
		},
		{
			name: "zero max batch bytes",
			modify: func(c *Config) {
				c.Batch.MaxBatchBytes = 0
			},
			wantErr: true,
		},
		{
			name: "buffer smaller than one batch",
			modify: func(c *Config) {
				c.Batch.MaxBatchBytes = 2048
				c.Batch.BufferBytes = 1024
			},
			wantErr: true,
		},
		{
			name: "empty service name",
			modify: func(c *Config) {
				c.Resource.ServiceName = ""
			},
			wantErr: true,
		},
		{
			name: "empty scope name",
			modify: func(c *Config) {
				c.Scope.Name = ""
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnsureSocketDir(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := Default()
	cfg.Socket.Path = filepath.Join(tmpDir, "otelship", "relay.sock")

	if err := cfg.EnsureSocketDir(); err != nil {
		t.Fatalf("EnsureSocketDir failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(tmpDir, "otelship"))
	if err != nil {
		t.Fatalf("socket directory not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("socket directory is not a directory")
	}
}
