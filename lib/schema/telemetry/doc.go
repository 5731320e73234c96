// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package telemetry defines the SDK-free telemetry record types that
// the otelship suite encodes and ships: spans, metrics, and the
// attribute values they carry. Callers construct these records as
// plain structs; there is no tracer, meter, or global state between
// the caller and the wire.
//
// Trace and span IDs on [Span] are lowercase hex strings rather than
// byte arrays. An empty string means "absent" and the corresponding
// wire field is omitted. The [TraceID] and [SpanID] array types exist
// for generating fresh random IDs; their String methods produce the
// hex form the Span fields expect.
//
// Attribute values use the explicit [Value] tagged variant instead of
// interface{} so that the set of encodable types is closed and visible
// at the type level. Metrics likewise carry exactly one of Gauge, Sum,
// or Histogram as a pointer field; nothing is inferred from the metric
// name.
//
// These types are serialized as CBOR on the service→relay submit wire
// and as JSON by the mock collector's query endpoints. JSON struct
// tags are used so that the fxamacker/cbor library's json-tag fallback
// provides correct field naming for both formats (see lib/codec doc.go
// for the tagging convention).
package telemetry
