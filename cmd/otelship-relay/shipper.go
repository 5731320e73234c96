// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/bureau-foundation/otelship/lib/clock"
	"github.com/bureau-foundation/otelship/lib/export"
)

// BatchExporter sends one encoded OTLP payload to the collector. It is
// satisfied by *export.Exporter; the relay uses an interface so that
// tests can substitute a fake implementation without a live collector.
type BatchExporter interface {
	Export(ctx context.Context, signal export.Signal, payload []byte) error
}

// Backoff constants for the shipper retry loop. Starts at
// initialBackoff and doubles on each consecutive failure, capped at
// maxBackoff. Resets to initialBackoff on success.
const (
	initialBackoff = 1 * time.Second
	maxBackoff     = 30 * time.Second
)

// runShipper drains the buffer by exporting payloads to the collector.
// It runs in its own goroutine for the relay's lifetime.
//
// The loop peeks at the oldest entry, attempts to export it, and pops
// it on success. On failure it backs off exponentially (1s → 2s → 4s
// → ... → 30s cap). When the context is cancelled, it makes one
// final drain attempt with a short timeout before returning.
//
// The shipped counter is incremented atomically on each successful
// export (it is read concurrently by the status handler).
func runShipper(ctx context.Context, buffer *Buffer, exporter BatchExporter, clk clock.Clock, shipped *atomic.Uint64, logger *slog.Logger) {
	backoff := initialBackoff

	for {
		// Wait for data or shutdown.
		select {
		case <-buffer.Notify():
		case <-ctx.Done():
			drainBuffer(buffer, exporter, shipped, logger)
			return
		}

		// Drain all available entries.
		for {
			signal, payload := buffer.Peek()
			if payload == nil {
				break
			}

			if err := exporter.Export(ctx, signal, payload); err != nil {
				if ctx.Err() != nil {
					drainBuffer(buffer, exporter, shipped, logger)
					return
				}
				logger.Warn("payload export failed, will retry",
					"error", err,
					"signal", signal,
					"backoff", backoff,
					"buffer_entries", buffer.Len(),
				)
				select {
				case <-clk.After(backoff):
				case <-ctx.Done():
					drainBuffer(buffer, exporter, shipped, logger)
					return
				}
				backoff = backoff * 2
				if backoff > maxBackoff {
					backoff = maxBackoff
				}
				continue
			}

			buffer.Pop()
			shipped.Add(1)
			backoff = initialBackoff
		}
	}
}

// drainBuffer makes one best-effort pass through the buffer after
// shutdown, using a short timeout shared by all remaining payloads.
// This ensures that data accumulated during graceful shutdown has a
// chance to ship.
func drainBuffer(buffer *Buffer, exporter BatchExporter, shipped *atomic.Uint64, logger *slog.Logger) {
	const drainTimeout = 5 * time.Second
	drainContext, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	for {
		signal, payload := buffer.Peek()
		if payload == nil {
			return
		}
		if err := exporter.Export(drainContext, signal, payload); err != nil {
			logger.Warn("drain: payload export failed, abandoning remaining",
				"error", err,
				"signal", signal,
				"remaining", buffer.Len(),
			)
			return
		}
		buffer.Pop()
		shipped.Add(1)
	}
}
