// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package export posts encoded OTLP payloads to an OTLP/HTTP
// collector. It owns transport concerns only: URLs, headers,
// compression, timeouts, TLS, and response classification. Payload
// assembly belongs to lib/otlp, and retry policy belongs to callers;
// the relay retries with backoff, while interactive tools surface the
// error immediately.
//
// Export is synchronous: it returns once the collector has answered or
// the request has failed. A 2xx response is success. Anything else is
// a [*StatusError] carrying the status code and the start of the
// response body, and is also logged so that a misconfigured collector
// shows up in operator logs even when the caller discards errors.
//
// Shutdown is terminal. It aborts in-flight requests, and every
// subsequent Export fails fast with [ErrShutdown] before any I/O.
package export
