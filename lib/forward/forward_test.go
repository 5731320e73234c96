// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package forward

import (
	"context"
	"errors"
	"testing"

	"github.com/bureau-foundation/otelship/lib/export"
	"github.com/bureau-foundation/otelship/lib/otlp/otlptest"
	"github.com/bureau-foundation/otelship/lib/schema/telemetry"
)

// recordingExporter captures Export calls for assertions.
type recordingExporter struct {
	signals   []export.Signal
	payloads  [][]byte
	err       error
	shutdowns int
}

func (r *recordingExporter) Export(ctx context.Context, signal export.Signal, payload []byte) error {
	r.signals = append(r.signals, signal)
	r.payloads = append(r.payloads, payload)
	return r.err
}

func (r *recordingExporter) Shutdown() {
	r.shutdowns++
}

func newTestForwarder(t *testing.T, recorder *recordingExporter) *Forwarder {
	t.Helper()
	forwarder, err := New(Config{
		Resource: telemetry.Resource{Attributes: []telemetry.KeyValue{
			telemetry.String("service.name", "forward-test"),
		}},
		Scope:    telemetry.Scope{Name: "otelship/forward", Version: "1.0.0"},
		Exporter: recorder,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return forwarder
}

func TestNewRequiresExporter(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error for missing exporter")
	}
}

func TestForwardSpans(t *testing.T) {
	recorder := &recordingExporter{}
	forwarder := newTestForwarder(t, recorder)

	spans := []telemetry.Span{
		{TraceID: telemetry.NewTraceID().String(), SpanID: telemetry.NewSpanID().String(), Name: "checkout"},
	}
	if err := forwarder.ForwardSpans(context.Background(), spans); err != nil {
		t.Fatalf("ForwardSpans: %v", err)
	}

	if len(recorder.signals) != 1 || recorder.signals[0] != export.SignalTraces {
		t.Fatalf("signals: %v", recorder.signals)
	}
	decoded, err := otlptest.DecodeTraces(recorder.payloads[0])
	if err != nil {
		t.Fatalf("decoding forwarded payload: %v", err)
	}
	if len(decoded.Spans) != 1 || decoded.Spans[0].Name != "checkout" {
		t.Fatalf("decoded spans: %+v", decoded.Spans)
	}
	if len(decoded.Resource.Attributes) != 1 || decoded.Resource.Attributes[0].Key != "service.name" {
		t.Fatalf("decoded resource: %+v", decoded.Resource)
	}
}

func TestForwardMetrics(t *testing.T) {
	recorder := &recordingExporter{}
	forwarder := newTestForwarder(t, recorder)

	value := 42.0
	metrics := []telemetry.Metric{
		{
			Name: "requests.latency",
			Unit: "ms",
			Gauge: &telemetry.Gauge{Points: []telemetry.NumberPoint{
				{Time: 1700000000000000000, Double: &value},
			}},
		},
	}
	if err := forwarder.ForwardMetrics(context.Background(), metrics); err != nil {
		t.Fatalf("ForwardMetrics: %v", err)
	}

	if len(recorder.signals) != 1 || recorder.signals[0] != export.SignalMetrics {
		t.Fatalf("signals: %v", recorder.signals)
	}
	decoded, err := otlptest.DecodeMetrics(recorder.payloads[0])
	if err != nil {
		t.Fatalf("decoding forwarded payload: %v", err)
	}
	if len(decoded.Metrics) != 1 || decoded.Metrics[0].Name != "requests.latency" {
		t.Fatalf("decoded metrics: %+v", decoded.Metrics)
	}
}

func TestForwardEmptyPostsNothing(t *testing.T) {
	recorder := &recordingExporter{}
	forwarder := newTestForwarder(t, recorder)

	if err := forwarder.ForwardSpans(context.Background(), nil); err != nil {
		t.Fatalf("ForwardSpans: %v", err)
	}
	if err := forwarder.ForwardMetrics(context.Background(), []telemetry.Metric{}); err != nil {
		t.Fatalf("ForwardMetrics: %v", err)
	}
	if len(recorder.signals) != 0 {
		t.Fatalf("empty forwards reached the exporter: %v", recorder.signals)
	}
}

func TestForwardPropagatesExportError(t *testing.T) {
	sentinel := errors.New("collector unreachable")
	recorder := &recordingExporter{err: sentinel}
	forwarder := newTestForwarder(t, recorder)

	err := forwarder.ForwardSpans(context.Background(), []telemetry.Span{{Name: "x"}})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected export error, got %v", err)
	}
}

func TestShutdownDelegates(t *testing.T) {
	recorder := &recordingExporter{}
	forwarder := newTestForwarder(t, recorder)

	forwarder.Shutdown()
	if recorder.shutdowns != 1 {
		t.Fatalf("shutdowns: %d", recorder.shutdowns)
	}
}
