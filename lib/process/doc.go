// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides binary entrypoint helpers for otelship
// binaries. [Fatal] centralizes the one legitimate raw stderr write
// that exists before the structured logger: reporting an unrecoverable
// error from main() and exiting. Everything after logger setup goes
// through slog instead.
package process
