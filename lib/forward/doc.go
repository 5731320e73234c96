// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package forward bundles OTLP encoding and HTTP export behind a
// single handle. A Forwarder owns one encoder (fixed resource and
// scope identity) and one exporter; callers hand it plain telemetry
// records and it does the rest.
//
// There is no package-level default forwarder. Every caller constructs
// its own handle and shuts it down when finished, which keeps the
// lifetime explicit and lets independent components ship to different
// collectors from the same process.
package forward
