// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"time"

	"github.com/bureau-foundation/otelship/lib/codec"
	"github.com/bureau-foundation/otelship/lib/export"
	"github.com/bureau-foundation/otelship/lib/ipc"
	"github.com/bureau-foundation/otelship/lib/schema/telemetry"
)

// relayStatusResponse is the wire format for the "status" action.
// Returns relay health information for liveness checks and
// operational monitoring.
type relayStatusResponse struct {
	UptimeSeconds        float64 `cbor:"uptime_seconds"`
	AccumulatorSizeBytes int     `cbor:"accumulator_size_bytes"`
	BufferEntries        int     `cbor:"buffer_entries"`
	BufferSizeBytes      int     `cbor:"buffer_size_bytes"`
	PayloadsShipped      uint64  `cbor:"payloads_shipped"`
	PayloadsDropped      uint64  `cbor:"payloads_dropped"`
	BatchesFlushed       uint64  `cbor:"batches_flushed"`
}

// registerActions registers the relay's socket API actions.
func (r *Relay) registerActions(server *ipc.Server) {
	server.Handle("submit", r.handleSubmit)
	server.Handle("status", r.handleStatus)
}

// handleSubmit receives telemetry records from local services,
// accumulates them, and triggers a flush-to-buffer if the
// accumulator's size threshold is crossed. The flush-to-buffer is
// inline (the caller holds no lock that would conflict) to minimize
// latency between threshold detection and buffer entry.
func (r *Relay) handleSubmit(_ context.Context, raw []byte) (any, error) {
	var request telemetry.SubmitRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, errors.New("invalid submit request")
	}

	if err := request.Validate(); err != nil {
		return nil, err
	}

	shouldFlush := false

	if len(request.Spans) > 0 {
		crossed, err := r.accumulator.AddSpans(request.Spans)
		if err != nil {
			return nil, err
		}
		if crossed {
			shouldFlush = true
		}
	}

	if len(request.Metrics) > 0 {
		crossed, err := r.accumulator.AddMetrics(request.Metrics)
		if err != nil {
			return nil, err
		}
		if crossed {
			shouldFlush = true
		}
	}

	if shouldFlush {
		r.flushToBuffer()
	}

	return nil, nil
}

// handleStatus returns a minimal liveness and health response. It
// reveals operational counters but no telemetry content.
func (r *Relay) handleStatus(_ context.Context, _ []byte) (any, error) {
	return &relayStatusResponse{
		UptimeSeconds:        r.clock.Now().Sub(r.startedAt).Seconds(),
		AccumulatorSizeBytes: r.accumulator.SizeBytes(),
		BufferEntries:        r.buffer.Len(),
		BufferSizeBytes:      r.buffer.SizeBytes(),
		PayloadsShipped:      r.shipped.Load(),
		PayloadsDropped:      r.buffer.Dropped(),
		BatchesFlushed:       r.accumulator.Flushes(),
	}, nil
}

// flushToBuffer drains the accumulator, encodes each non-empty record
// set into an OTLP payload, and pushes the payloads into the buffer
// for the shipper to send. One flush produces up to two buffer
// entries: a traces payload and a metrics payload. Called both by the
// submit handler (when the size threshold is crossed) and by the
// periodic flush loop.
func (r *Relay) flushToBuffer() {
	spans, metrics := r.accumulator.Flush()
	if len(spans) == 0 && len(metrics) == 0 {
		return
	}

	if payload := r.encoder.EncodeSpans(spans); len(payload) > 0 {
		if err := r.buffer.Push(export.SignalTraces, payload); err != nil {
			r.logger.Error("failed to buffer trace payload",
				"error", err,
				"size", len(payload),
				"spans", len(spans),
			)
		}
	}

	if payload := r.encoder.EncodeMetrics(metrics); len(payload) > 0 {
		if err := r.buffer.Push(export.SignalMetrics, payload); err != nil {
			r.logger.Error("failed to buffer metric payload",
				"error", err,
				"size", len(payload),
				"metrics", len(metrics),
			)
		}
	}
}

// runFlushLoop periodically flushes the accumulator into the buffer.
// This ensures data ships even when the accumulator never reaches the
// size threshold (low-traffic machines). The loop runs until the
// context is cancelled.
func (r *Relay) runFlushLoop(ctx context.Context, interval time.Duration) {
	ticker := r.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.flushToBuffer()
		case <-ctx.Done():
			return
		}
	}
}
