// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the relay daemon.
//
// Configuration is loaded from a single file specified by either the
// OTELSHIP_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There are no fallbacks, no ~/.config discovery,
// and no automatic file search. This ensures deterministic, auditable
// configuration with no hidden overrides.
//
// The configuration file supports environment-specific sections
// (development, staging, production) that override base values when
// [Config].Environment matches. Header and resource attribute overrides
// merge by key; every other field replaces the base value.
//
// Variable expansion is performed after loading: ${HOME},
// ${XDG_RUNTIME_DIR}, and ${VAR:-default} patterns are expanded in the
// socket path and in header values, so credentials can be supplied via
// the environment without appearing in the file. No other environment
// variables override config values.
//
// Key exports:
//
//   - [Config] -- master struct with Socket, Export, Batch, Resource, Scope
//   - [Default] -- returns a Config with development defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends on no other otelship packages; the relay daemon
// translates a validated Config into export and encoder settings.
package config
