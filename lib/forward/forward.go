// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package forward

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/otelship/lib/export"
	"github.com/bureau-foundation/otelship/lib/otlp"
	"github.com/bureau-foundation/otelship/lib/schema/telemetry"
)

// Exporter ships an encoded OTLP payload for one signal. The Forwarder
// uses this interface so that tests can substitute a recorder without
// a live collector; *export.Exporter is the production implementation.
type Exporter interface {
	Export(ctx context.Context, signal export.Signal, payload []byte) error
	Shutdown()
}

// Config configures a Forwarder.
type Config struct {
	// Resource identifies the entity producing telemetry. Stamped
	// onto every batch this forwarder encodes.
	Resource telemetry.Resource

	// Scope identifies the instrumentation emitting the records.
	Scope telemetry.Scope

	// Exporter ships encoded payloads. Required.
	Exporter Exporter

	// Logger receives encoding warnings. Defaults to slog.Default().
	Logger *slog.Logger
}

// Forwarder encodes telemetry records to OTLP and hands the payload to
// its exporter. Forward calls are synchronous: when they return nil
// the collector has acknowledged the batch.
type Forwarder struct {
	encoder  *otlp.Encoder
	exporter Exporter
}

// New creates a Forwarder from the given configuration.
func New(cfg Config) (*Forwarder, error) {
	if cfg.Exporter == nil {
		return nil, fmt.Errorf("forward: config missing Exporter")
	}
	encoder := otlp.NewEncoder(otlp.EncoderConfig{
		Resource: cfg.Resource,
		Scope:    cfg.Scope,
		Logger:   cfg.Logger,
	})
	return &Forwarder{encoder: encoder, exporter: cfg.Exporter}, nil
}

// ForwardSpans encodes the spans and posts them to the trace endpoint.
// An empty slice is a no-op: nothing is encoded and nothing is posted.
func (f *Forwarder) ForwardSpans(ctx context.Context, spans []telemetry.Span) error {
	payload := f.encoder.EncodeSpans(spans)
	if len(payload) == 0 {
		return nil
	}
	return f.exporter.Export(ctx, export.SignalTraces, payload)
}

// ForwardMetrics encodes the metrics and posts them to the metric
// endpoint. An empty slice is a no-op.
func (f *Forwarder) ForwardMetrics(ctx context.Context, metrics []telemetry.Metric) error {
	payload := f.encoder.EncodeMetrics(metrics)
	if len(payload) == 0 {
		return nil
	}
	return f.exporter.Export(ctx, export.SignalMetrics, payload)
}

// Shutdown shuts down the underlying exporter. The Forwarder must not
// be used afterwards.
func (f *Forwarder) Shutdown() {
	f.exporter.Shutdown()
}
