// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/klauspost/compress/gzip"

	"github.com/bureau-foundation/otelship/lib/otlp/otlptest"
)

// maxBodyBytes caps export request bodies. Far above any sane batch
// size; a body this large means a misbehaving client.
const maxBodyBytes = 64 << 20

// collector stores decoded export payloads in memory for test
// assertions.
type collector struct {
	logger     *slog.Logger
	failStatus int
	verbose    bool

	mu      sync.Mutex
	traces  []otlptest.Traces
	metrics []otlptest.Metrics

	requests     atomic.Uint64
	decodeErrors atomic.Uint64
}

func newCollector(logger *slog.Logger, failStatus int, verbose bool) *collector {
	return &collector{
		logger:     logger,
		failStatus: failStatus,
		verbose:    verbose,
	}
}

// register installs the collector's handlers. The export paths match
// the OTLP/HTTP specification so the exporter needs no mock-specific
// configuration.
func (c *collector) register(mux *http.ServeMux) {
	mux.HandleFunc("/v1/traces", c.handleTraces)
	mux.HandleFunc("/v1/metrics", c.handleMetrics)
	mux.HandleFunc("/status", c.handleStatus)
	mux.HandleFunc("/spans", c.handleStoredSpans)
	mux.HandleFunc("/metrics", c.handleStoredMetrics)
}

// statusResponse is the GET /status wire format.
type statusResponse struct {
	Requests      uint64 `json:"requests"`
	DecodeErrors  uint64 `json:"decode_errors"`
	TraceBatches  int    `json:"trace_batches"`
	MetricBatches int    `json:"metric_batches"`
	StoredSpans   int    `json:"stored_spans"`
	StoredMetrics int    `json:"stored_metrics"`
}

// spanListResponse is the GET /spans wire format.
type spanListResponse struct {
	Spans []otlptest.Span `json:"spans"`
	Count int             `json:"count"`
}

// metricListResponse is the GET /metrics wire format.
type metricListResponse struct {
	Metrics []otlptest.Metric `json:"metrics"`
	Count   int               `json:"count"`
}

func (c *collector) handleTraces(w http.ResponseWriter, r *http.Request) {
	payload, ok := c.readExportRequest(w, r)
	if !ok {
		return
	}

	traces, err := otlptest.DecodeTraces(payload)
	if err != nil {
		c.decodeErrors.Add(1)
		c.logger.Warn("trace payload decode failed", "error", err)
		http.Error(w, "malformed payload", http.StatusBadRequest)
		return
	}

	c.mu.Lock()
	c.traces = append(c.traces, *traces)
	c.mu.Unlock()

	if c.verbose {
		c.logger.Info("trace export received",
			"spans", len(traces.Spans),
			"payload_bytes", len(payload),
		)
	}
	w.WriteHeader(http.StatusOK)
}

func (c *collector) handleMetrics(w http.ResponseWriter, r *http.Request) {
	payload, ok := c.readExportRequest(w, r)
	if !ok {
		return
	}

	metrics, err := otlptest.DecodeMetrics(payload)
	if err != nil {
		c.decodeErrors.Add(1)
		c.logger.Warn("metric payload decode failed", "error", err)
		http.Error(w, "malformed payload", http.StatusBadRequest)
		return
	}

	c.mu.Lock()
	c.metrics = append(c.metrics, *metrics)
	c.mu.Unlock()

	if c.verbose {
		c.logger.Info("metric export received",
			"metrics", len(metrics.Metrics),
			"payload_bytes", len(payload),
		)
	}
	w.WriteHeader(http.StatusOK)
}

// readExportRequest validates an export POST and returns the
// decompressed payload. On failure it writes the error response and
// returns ok=false.
func (c *collector) readExportRequest(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	c.requests.Add(1)

	if c.failStatus != 0 {
		http.Error(w, "forced failure", c.failStatus)
		return nil, false
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return nil, false
	}
	if contentType := r.Header.Get("Content-Type"); contentType != "application/x-protobuf" {
		http.Error(w, fmt.Sprintf("unsupported content type %q", contentType), http.StatusUnsupportedMediaType)
		return nil, false
	}

	body := io.Reader(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if r.Header.Get("Content-Encoding") == "gzip" {
		reader, err := gzip.NewReader(body)
		if err != nil {
			c.decodeErrors.Add(1)
			http.Error(w, "malformed gzip body", http.StatusBadRequest)
			return nil, false
		}
		defer reader.Close()
		body = reader
	}

	payload, err := io.ReadAll(body)
	if err != nil {
		c.decodeErrors.Add(1)
		http.Error(w, "reading request body", http.StatusBadRequest)
		return nil, false
	}
	return payload, true
}

func (c *collector) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	c.mu.Lock()
	status := statusResponse{
		Requests:      c.requests.Load(),
		DecodeErrors:  c.decodeErrors.Load(),
		TraceBatches:  len(c.traces),
		MetricBatches: len(c.metrics),
	}
	for _, batch := range c.traces {
		status.StoredSpans += len(batch.Spans)
	}
	for _, batch := range c.metrics {
		status.StoredMetrics += len(batch.Metrics)
	}
	c.mu.Unlock()

	c.writeJSON(w, status)
}

func (c *collector) handleStoredSpans(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	c.mu.Lock()
	var spans []otlptest.Span
	for _, batch := range c.traces {
		spans = append(spans, batch.Spans...)
	}
	c.mu.Unlock()

	c.writeJSON(w, spanListResponse{Spans: spans, Count: len(spans)})
}

func (c *collector) handleStoredMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	c.mu.Lock()
	var metrics []otlptest.Metric
	for _, batch := range c.metrics {
		metrics = append(metrics, batch.Metrics...)
	}
	c.mu.Unlock()

	c.writeJSON(w, metricListResponse{Metrics: metrics, Count: len(metrics)})
}

func (c *collector) writeJSON(w http.ResponseWriter, value any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(value); err != nil {
		// The status line is already written; log and move on.
		c.logger.Warn("writing JSON response failed", "error", err)
	}
}
