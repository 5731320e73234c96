// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"sync"

	"github.com/bureau-foundation/otelship/lib/codec"
	"github.com/bureau-foundation/otelship/lib/schema/telemetry"
)

// Accumulator collects telemetry records (spans, metrics) from local
// services and hands them out as batches on demand. It tracks the
// approximate byte size of accumulated records so that callers can
// trigger a flush when the accumulator crosses a size threshold.
//
// Thread-safe: all methods may be called concurrently. The intended
// usage pattern is that socket handlers call Add* methods while a
// background flush loop and the threshold-check logic call Flush.
type Accumulator struct {
	mu             sync.Mutex
	spans          []telemetry.Span
	metrics        []telemetry.Metric
	sizeBytes      int
	flushCount     uint64
	flushThreshold int
}

// NewAccumulator creates an Accumulator. The flushThreshold is the
// approximate byte size at which Add* methods signal that a flush
// should be triggered. A threshold of 0 disables size-based flushing
// (the caller must flush on a timer alone).
func NewAccumulator(flushThreshold int) *Accumulator {
	return &Accumulator{flushThreshold: flushThreshold}
}

// AddSpans appends spans to the accumulator. Returns true if the
// accumulated size has crossed the flush threshold, signaling that
// the caller should call Flush. Returns an error if the incoming
// spans cannot be marshaled (indicating malformed records).
func (a *Accumulator) AddSpans(spans []telemetry.Span) (bool, error) {
	if len(spans) == 0 {
		return false, nil
	}
	size, err := marshalSize(spans)
	if err != nil {
		return false, fmt.Errorf("measuring span size: %w", err)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.spans = append(a.spans, spans...)
	a.sizeBytes += size
	return a.flushThreshold > 0 && a.sizeBytes >= a.flushThreshold, nil
}

// AddMetrics appends metric streams to the accumulator. Returns true
// if the accumulated size has crossed the flush threshold.
func (a *Accumulator) AddMetrics(metrics []telemetry.Metric) (bool, error) {
	if len(metrics) == 0 {
		return false, nil
	}
	size, err := marshalSize(metrics)
	if err != nil {
		return false, fmt.Errorf("measuring metric size: %w", err)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.metrics = append(a.metrics, metrics...)
	a.sizeBytes += size
	return a.flushThreshold > 0 && a.sizeBytes >= a.flushThreshold, nil
}

// Flush atomically drains the accumulated records. Returns nil slices
// if no records have been accumulated since the last flush. Each
// non-empty flush increments the flush counter.
func (a *Accumulator) Flush() ([]telemetry.Span, []telemetry.Metric) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.spans) == 0 && len(a.metrics) == 0 {
		return nil, nil
	}

	spans := a.spans
	metrics := a.metrics

	a.spans = nil
	a.metrics = nil
	a.sizeBytes = 0
	a.flushCount++

	return spans, metrics
}

// SizeBytes returns the approximate byte size of the currently
// accumulated records.
func (a *Accumulator) SizeBytes() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sizeBytes
}

// Flushes returns the number of non-empty flushes so far.
func (a *Accumulator) Flushes() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.flushCount
}

// marshalSize returns the CBOR-encoded size of v. This estimates the
// contribution of incoming records to the eventual batch size; the
// protobuf encoding the relay ships is close enough in size that one
// threshold serves both. The estimate is slightly high (each Add call
// includes its own CBOR array header) but accurate enough for
// threshold detection.
func marshalSize(v any) (int, error) {
	data, err := codec.Marshal(v)
	if err != nil {
		return 0, err
	}
	return len(data), nil
}
