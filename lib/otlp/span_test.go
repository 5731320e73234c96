// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package otlp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bureau-foundation/otelship/lib/otlp/otlptest"
	"github.com/bureau-foundation/otelship/lib/schema/telemetry"
)

func TestSpanMinimalIsEmptyMessage(t *testing.T) {
	encoder := NewEncoder(EncoderConfig{})

	// A span with every field at its zero value encodes as a
	// zero-length Span message: nothing but framing on the wire.
	payload := encoder.EncodeSpans([]telemetry.Span{{}})
	if msg := spanMessage(t, payload); len(msg) != 0 {
		t.Fatalf("zero span encoded %d bytes: %x", len(msg), msg)
	}
}

func TestSpanSparseFields(t *testing.T) {
	encoder := NewEncoder(EncoderConfig{})

	span := telemetry.Span{Name: "only-name"}
	payload := encoder.EncodeSpans([]telemetry.Span{span})

	present := fieldNumbers(t, spanMessage(t, payload))
	if len(present) != 1 || !present[5] {
		t.Fatalf("expected only field 5 (name), got %v", present)
	}
}

func TestSpanStatusOmittedWhenUnset(t *testing.T) {
	encoder := NewEncoder(EncoderConfig{})

	payload := encoder.EncodeSpans([]telemetry.Span{{Name: "op"}})
	decoded, err := otlptest.DecodeTraces(payload)
	if err != nil {
		t.Fatalf("DecodeTraces: %v", err)
	}
	if decoded.Spans[0].HasStatus {
		t.Fatal("unset status should omit the status submessage")
	}
}

func TestSpanStatusVariants(t *testing.T) {
	encoder := NewEncoder(EncoderConfig{})

	cases := []struct {
		name        string
		status      telemetry.StatusCode
		message     string
		wantCode    int64
		wantMessage string
	}{
		{"ok no message", telemetry.StatusOK, "", 1, ""},
		{"error with message", telemetry.StatusError, "boom", 2, "boom"},
		{"unset with message", telemetry.StatusUnset, "note", 0, "note"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload := encoder.EncodeSpans([]telemetry.Span{{
				Name:          "op",
				Status:        tc.status,
				StatusMessage: tc.message,
			}})
			decoded, err := otlptest.DecodeTraces(payload)
			if err != nil {
				t.Fatalf("DecodeTraces: %v", err)
			}
			got := decoded.Spans[0]
			if !got.HasStatus {
				t.Fatal("expected status submessage")
			}
			if got.StatusCode != tc.wantCode || got.StatusMessage != tc.wantMessage {
				t.Fatalf("status: got code=%d message=%q", got.StatusCode, got.StatusMessage)
			}
		})
	}
}

func TestSpanTimestampBytes(t *testing.T) {
	encoder := NewEncoder(EncoderConfig{})

	span := telemetry.Span{
		Name:      "op",
		StartTime: 0x0102030405060708,
	}
	msg := spanMessage(t, encoder.EncodeSpans([]telemetry.Span{span}))

	// start_time_unix_nano is field 7 wire type fixed64: tag
	// (7<<3)|1 = 0x39, then the value little-endian.
	want := []byte{0x39, 0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}
	if !bytes.Contains(msg, want) {
		t.Fatalf("span message %x does not contain fixed64 start time %x", msg, want)
	}
}

func TestSpanEmptyIDsOmitted(t *testing.T) {
	encoder := NewEncoder(EncoderConfig{})

	payload := encoder.EncodeSpans([]telemetry.Span{{Name: "root"}})
	decoded, err := otlptest.DecodeTraces(payload)
	if err != nil {
		t.Fatalf("DecodeTraces: %v", err)
	}
	got := decoded.Spans[0]
	if got.HasTraceID || got.HasSpanID || got.HasParentSpanID {
		t.Fatalf("empty IDs should be absent, got %+v", got)
	}
}

func TestSpanMalformedIDsFailOpen(t *testing.T) {
	encoder, logs := newCapturingEncoder(EncoderConfig{})

	span := telemetry.Span{
		TraceID:      strings.Repeat("zz", 16), // right length, not hex
		SpanID:       "abcd",                   // hex, wrong length
		ParentSpanID: "2122232425262728",       // valid
		Name:         "survivor",
		Attributes:   []telemetry.KeyValue{telemetry.String("key", "value")},
	}
	payload := encoder.EncodeSpans([]telemetry.Span{span})

	decoded, err := otlptest.DecodeTraces(payload)
	if err != nil {
		t.Fatalf("DecodeTraces: %v", err)
	}
	got := decoded.Spans[0]

	// Malformed IDs are present with empty payloads.
	if !got.HasTraceID || len(got.TraceID) != 0 {
		t.Fatalf("malformed trace ID: hasField=%v bytes=%x", got.HasTraceID, got.TraceID)
	}
	if !got.HasSpanID || len(got.SpanID) != 0 {
		t.Fatalf("malformed span ID: hasField=%v bytes=%x", got.HasSpanID, got.SpanID)
	}

	// The valid sibling ID and the rest of the span are unaffected.
	if got.ParentSpanIDHex() != span.ParentSpanID {
		t.Fatalf("parent span ID: got %s", got.ParentSpanIDHex())
	}
	if got.Name != "survivor" || len(got.Attributes) != 1 {
		t.Fatalf("span content degraded: %+v", got)
	}

	logged := logs.String()
	if count := strings.Count(logged, "malformed hex ID"); count != 2 {
		t.Fatalf("expected 2 malformed ID warnings, got %d in %q", count, logged)
	}
	if !strings.Contains(logged, "trace_id") || !strings.Contains(logged, "span_id") {
		t.Fatalf("warnings should name the fields: %q", logged)
	}
}

func TestSpanOddLengthHexIDFailsOpen(t *testing.T) {
	encoder, logs := newCapturingEncoder(EncoderConfig{})

	// Odd-length hex cannot decode at all.
	payload := encoder.EncodeSpans([]telemetry.Span{{
		TraceID: "abc",
		Name:    "op",
	}})
	decoded, err := otlptest.DecodeTraces(payload)
	if err != nil {
		t.Fatalf("DecodeTraces: %v", err)
	}
	got := decoded.Spans[0]
	if !got.HasTraceID || len(got.TraceID) != 0 {
		t.Fatalf("odd-length trace ID: hasField=%v bytes=%x", got.HasTraceID, got.TraceID)
	}
	if !strings.Contains(logs.String(), "malformed hex ID") {
		t.Fatal("expected a malformed ID warning")
	}
}

func TestGeneratedIDsRoundTrip(t *testing.T) {
	encoder := NewEncoder(EncoderConfig{})

	traceID := telemetry.NewTraceID()
	spanID := telemetry.NewSpanID()
	payload := encoder.EncodeSpans([]telemetry.Span{{
		TraceID: traceID.String(),
		SpanID:  spanID.String(),
		Name:    "op",
	}})

	decoded, err := otlptest.DecodeTraces(payload)
	if err != nil {
		t.Fatalf("DecodeTraces: %v", err)
	}
	got := decoded.Spans[0]
	if got.TraceIDHex() != traceID.String() || got.SpanIDHex() != spanID.String() {
		t.Fatalf("generated IDs did not round trip: %s / %s", got.TraceIDHex(), got.SpanIDHex())
	}
}
