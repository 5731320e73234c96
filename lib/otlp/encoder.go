// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package otlp

import (
	"log/slog"

	"github.com/bureau-foundation/otelship/lib/schema/telemetry"
	"github.com/bureau-foundation/otelship/lib/wire"
)

// The trace and metric request shapes share their structural field
// numbers: ExportTraceServiceRequest.resource_spans and
// ExportMetricsServiceRequest.resource_metrics are both field 1, the
// resource/scope-block nesting inside them is 1/2, and the scope/record
// nesting inside that is again 1/2. One batch framer therefore serves
// both signals; only the per-record encoding differs.
const (
	requestFieldResourceBlock     wire.Number = 1 // resource_spans / resource_metrics
	resourceBlockFieldResource    wire.Number = 1 // ResourceSpans.resource / ResourceMetrics.resource
	resourceBlockFieldScopeBlock  wire.Number = 2 // ResourceSpans.scope_spans / ResourceMetrics.scope_metrics
	scopeBlockFieldScope          wire.Number = 1 // ScopeSpans.scope / ScopeMetrics.scope
	scopeBlockFieldRecord         wire.Number = 2 // ScopeSpans.spans / ScopeMetrics.metrics
	instrumentationScopeFieldName wire.Number = 1
	instrumentationScopeFieldVer  wire.Number = 2
	resourceFieldAttributes       wire.Number = 1
)

// EncoderConfig configures an Encoder.
type EncoderConfig struct {
	// Resource describes the entity producing telemetry. Applied to
	// every batch this encoder produces.
	Resource telemetry.Resource

	// Scope identifies the instrumentation within the resource.
	Scope telemetry.Scope

	// Logger receives warnings about malformed records. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Encoder assembles OTLP protobuf request payloads for one resource
// and scope. Safe for concurrent use: encoding reads only immutable
// configuration.
type Encoder struct {
	resource telemetry.Resource
	scope    telemetry.Scope
	logger   *slog.Logger
}

// NewEncoder creates an Encoder. All configuration fields are
// optional; an empty resource and scope are valid (the blocks are
// still emitted, carrying no attributes).
func NewEncoder(cfg EncoderConfig) *Encoder {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Encoder{
		resource: cfg.Resource,
		scope:    cfg.Scope,
		logger:   logger,
	}
}

// EncodeSpans encodes spans into an ExportTraceServiceRequest payload.
// Returns nil when spans is empty: no resource or scope framing is
// emitted for an empty batch.
func (e *Encoder) EncodeSpans(spans []telemetry.Span) []byte {
	if len(spans) == 0 {
		return nil
	}
	return e.encodeBatch(len(spans), func(buf []byte, i int) []byte {
		return e.appendSpan(buf, &spans[i])
	})
}

// EncodeMetrics encodes metrics into an ExportMetricsServiceRequest
// payload. Returns nil when metrics is empty.
func (e *Encoder) EncodeMetrics(metrics []telemetry.Metric) []byte {
	if len(metrics) == 0 {
		return nil
	}
	return e.encodeBatch(len(metrics), func(buf []byte, i int) []byte {
		return e.appendMetric(buf, &metrics[i])
	})
}

// encodeBatch wraps count records in the shared OTLP batch framing:
// one resource block holding one scope block holding the records in
// index order. appendRecord appends the record at the given index to
// buf and returns the extended buffer.
func (e *Encoder) encodeBatch(count int, appendRecord func(buf []byte, index int) []byte) []byte {
	scopeBlock := wire.AppendMessage(nil, scopeBlockFieldScope, appendInstrumentationScope(nil, e.scope))
	for i := 0; i < count; i++ {
		scopeBlock = wire.AppendMessage(scopeBlock, scopeBlockFieldRecord, appendRecord(nil, i))
	}

	resourceBlock := wire.AppendMessage(nil, resourceBlockFieldResource, e.appendResource(nil))
	resourceBlock = wire.AppendMessage(resourceBlock, resourceBlockFieldScopeBlock, scopeBlock)

	return wire.AppendMessage(nil, requestFieldResourceBlock, resourceBlock)
}

// appendResource appends the Resource message body: the configured
// resource attributes.
func (e *Encoder) appendResource(buf []byte) []byte {
	return e.appendAttributes(buf, resourceFieldAttributes, e.resource.Attributes)
}

// appendInstrumentationScope appends the InstrumentationScope message
// body. Empty name and version are omitted per proto3 presence rules,
// so an unconfigured scope encodes as an empty message.
func appendInstrumentationScope(buf []byte, scope telemetry.Scope) []byte {
	buf = wire.AppendString(buf, instrumentationScopeFieldName, scope.Name)
	buf = wire.AppendString(buf, instrumentationScopeFieldVer, scope.Version)
	return buf
}
