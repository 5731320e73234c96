// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package otlptest

import (
	"encoding/hex"

	"github.com/bureau-foundation/otelship/lib/schema/telemetry"
)

// Traces is the decoded form of an ExportTraceServiceRequest.
//
// ResourceBlocks and ScopeBlocks count the framing messages so tests
// can assert batch shape; Resource and Scope hold the content of the
// last such block. Spans are flattened across blocks in wire order.
type Traces struct {
	ResourceBlocks int                `json:"resource_blocks"`
	ScopeBlocks    int                `json:"scope_blocks"`
	Resource       telemetry.Resource `json:"resource"`
	Scope          telemetry.Scope    `json:"scope"`
	Spans          []Span             `json:"spans"`
}

// Span is the wire-level decoded form of an OTLP Span. IDs keep their
// raw bytes plus an explicit presence flag: an absent trace_id and a
// present-but-empty trace_id are different encoder outcomes, and tests
// assert on the difference.
type Span struct {
	TraceID         []byte                `json:"trace_id,omitempty"`
	HasTraceID      bool                  `json:"has_trace_id"`
	SpanID          []byte                `json:"span_id,omitempty"`
	HasSpanID       bool                  `json:"has_span_id"`
	ParentSpanID    []byte                `json:"parent_span_id,omitempty"`
	HasParentSpanID bool                  `json:"has_parent_span_id"`
	Name            string                `json:"name"`
	Kind            int64                 `json:"kind"`
	StartTime       uint64                `json:"start_time"`
	EndTime         uint64                `json:"end_time"`
	Attributes      []telemetry.KeyValue  `json:"attributes,omitempty"`
	HasStatus       bool                  `json:"has_status"`
	StatusCode      int64                 `json:"status_code"`
	StatusMessage   string                `json:"status_message,omitempty"`
}

// TraceIDHex returns the span's trace ID as lowercase hex, empty when
// absent or empty on the wire.
func (s *Span) TraceIDHex() string { return hex.EncodeToString(s.TraceID) }

// SpanIDHex returns the span's span ID as lowercase hex.
func (s *Span) SpanIDHex() string { return hex.EncodeToString(s.SpanID) }

// ParentSpanIDHex returns the span's parent span ID as lowercase hex.
func (s *Span) ParentSpanIDHex() string { return hex.EncodeToString(s.ParentSpanID) }

// DecodeTraces decodes an ExportTraceServiceRequest payload. A
// zero-length payload decodes to an empty Traces with no blocks.
func DecodeTraces(payload []byte) (*Traces, error) {
	traces := &Traces{}
	r := newFieldReader(payload)
	for r.next() {
		switch r.field {
		case 1: // resource_spans
			traces.ResourceBlocks++
			if err := traces.decodeResourceBlock(r.bytes()); err != nil {
				return nil, err
			}
		default:
			r.skip()
		}
	}
	if err := r.err(); err != nil {
		return nil, err
	}
	return traces, nil
}

func (t *Traces) decodeResourceBlock(msg []byte) error {
	r := newFieldReader(msg)
	for r.next() {
		switch r.field {
		case 1: // resource
			resource, err := decodeResource(r.bytes())
			if err != nil {
				return err
			}
			t.Resource = resource
		case 2: // scope_spans
			t.ScopeBlocks++
			if err := t.decodeScopeBlock(r.bytes()); err != nil {
				return err
			}
		default:
			r.skip()
		}
	}
	return r.err()
}

func (t *Traces) decodeScopeBlock(msg []byte) error {
	r := newFieldReader(msg)
	for r.next() {
		switch r.field {
		case 1: // scope
			scope, err := decodeScope(r.bytes())
			if err != nil {
				return err
			}
			t.Scope = scope
		case 2: // spans
			span, err := decodeSpan(r.bytes())
			if err != nil {
				return err
			}
			t.Spans = append(t.Spans, span)
		default:
			r.skip()
		}
	}
	return r.err()
}

func decodeSpan(msg []byte) (Span, error) {
	var span Span
	r := newFieldReader(msg)
	for r.next() {
		switch r.field {
		case 1:
			span.TraceID = bytesCopy(r.bytes())
			span.HasTraceID = true
		case 2:
			span.SpanID = bytesCopy(r.bytes())
			span.HasSpanID = true
		case 4:
			span.ParentSpanID = bytesCopy(r.bytes())
			span.HasParentSpanID = true
		case 5:
			span.Name = string(r.bytes())
		case 6:
			span.Kind = int64(r.varint())
		case 7:
			span.StartTime = r.fixed64()
		case 8:
			span.EndTime = r.fixed64()
		case 9:
			kv, err := decodeKeyValue(r.bytes())
			if err != nil {
				return span, err
			}
			span.Attributes = append(span.Attributes, kv)
		case 15:
			span.HasStatus = true
			if err := span.decodeStatus(r.bytes()); err != nil {
				return span, err
			}
		default:
			r.skip()
		}
	}
	return span, r.err()
}

func (s *Span) decodeStatus(msg []byte) error {
	r := newFieldReader(msg)
	for r.next() {
		switch r.field {
		case 2:
			s.StatusMessage = string(r.bytes())
		case 3:
			s.StatusCode = int64(r.varint())
		default:
			r.skip()
		}
	}
	return r.err()
}
