// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package otlp encodes telemetry records into OTLP protobuf payloads
// without generated message types or a protobuf runtime. The encoder
// hand-assembles ExportTraceServiceRequest and
// ExportMetricsServiceRequest bytes from lib/wire primitives, which
// keeps the dependency surface of instrumented binaries at zero
// protobuf packages while producing output any OTLP collector accepts.
//
// An [Encoder] is configured once with the resource and
// instrumentation scope that describe the emitting process. Each
// EncodeSpans or EncodeMetrics call produces a self-contained request
// payload: one resource block wrapping one scope block wrapping the
// records, in input order. Empty input encodes to nil, which callers
// treat as "nothing to send".
//
// Encoding never fails. Malformed input (bad hex IDs, metrics with no
// variant set) degrades in place: the offending field is emitted empty
// or skipped, a warning is logged, and every well-formed sibling
// survives. A telemetry pipeline that drops a whole batch because one
// span carried a truncated trace ID destroys more data than it
// protects.
package otlp
