// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Otelship-relay is the per-machine telemetry relay daemon. Local
// services submit completed spans and metric streams as CBOR over its
// Unix socket; the relay accumulates them, encodes OTLP protobuf
// payloads, and ships them to the configured collector over HTTP.
//
// Data flow:
//
//	local service → "submit" action → accumulator → encode → buffer → shipper → collector
//
// Flush triggers:
//   - Timer: the flush loop drains the accumulator every
//     batch.flush_interval (default 5s)
//   - Threshold: the submit handler flushes inline when the accumulator
//     exceeds batch.max_batch_bytes (default 1 MiB)
//
// The buffer provides backpressure: when the shipper can't keep up,
// oldest payloads are dropped rather than exhausting memory. The
// shipper retries with exponential backoff (1s → 30s cap) on
// transient failures and makes one final drain pass on shutdown.
//
// Configuration comes from a YAML file (OTELSHIP_CONFIG or --config);
// see lib/config for the schema.
package main
