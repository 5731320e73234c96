// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package otlptest decodes OTLP protobuf payloads with
// google.golang.org/protobuf/encoding/protowire and exposes the result
// as plain structs. It is the independent reference against which the
// hand-rolled encoder in lib/otlp is verified: the encoder writes
// bytes, this package reads them back with a real protobuf wire
// parser, never with the code under test.
//
// The decoded types preserve wire-level detail that the schema types
// deliberately do not: byte-level IDs with explicit presence flags
// (a present-but-empty trace_id and an absent trace_id are different
// encoder outcomes), submessage and block counts, and enum values as
// raw integers.
//
// Decoding is strict about structure: truncated messages and known
// fields carrying the wrong wire type are errors. Unknown fields are
// skipped, as any protobuf consumer must.
//
// The mock collector (cmd/otelship-mock) uses this package as its
// ingest parser, so the development collector accepts exactly what the
// tests verify.
package otlptest
