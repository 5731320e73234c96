// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/bureau-foundation/otelship/lib/netutil"
)

// Signal selects which OTLP signal an export carries. The signal
// determines the collector path: traces and metrics are posted to
// different endpoints of the same collector.
type Signal int

const (
	// SignalTraces exports to {endpoint}/v1/traces.
	SignalTraces Signal = iota
	// SignalMetrics exports to {endpoint}/v1/metrics.
	SignalMetrics
)

// Path returns the collector URL path for the signal.
func (s Signal) Path() string {
	if s == SignalMetrics {
		return "/v1/metrics"
	}
	return "/v1/traces"
}

// String returns the signal name for logging.
func (s Signal) String() string {
	if s == SignalMetrics {
		return "metrics"
	}
	return "traces"
}

// Compression selects request body compression.
type Compression int

const (
	// CompressionNone posts payloads uncompressed.
	CompressionNone Compression = iota
	// CompressionGzip gzips payloads and sets
	// Content-Encoding: gzip. Every mainstream collector accepts it.
	CompressionGzip
)

// insecureTLSEnvVar must be set to "1" for InsecureSkipTLSVerify to
// take effect. The double opt-in keeps a config file edit from
// silently disabling certificate verification: the process environment
// has to agree.
const insecureTLSEnvVar = "OTELSHIP_INSECURE_TLS"

const (
	defaultConnectTimeout = 30 * time.Second
	defaultRequestTimeout = 60 * time.Second

	contentTypeProtobuf = "application/x-protobuf"

	// maxErrorBodyBytes caps how much of a failure response is read
	// for the error message and log line.
	maxErrorBodyBytes = 8 * 1024
)

// ErrShutdown is returned by Export after Shutdown has been called.
var ErrShutdown = errors.New("export: exporter is shut down")

// StatusError is a non-2xx response from the collector.
type StatusError struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// Body is the start of the response body, capped at 8 KiB.
	// Collectors put rejection reasons here.
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("export: collector returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("export: collector returned status %d: %s", e.StatusCode, e.Body)
}

// Config holds configuration for creating an Exporter.
type Config struct {
	// Endpoint is the collector base URL, scheme and host with an
	// optional path prefix but without the signal path:
	// "https://collector.example.com:4318". Required. Trailing
	// slashes are trimmed.
	Endpoint string

	// Headers are added to every request, typically tenant or
	// API-key headers. Content-Type cannot be overridden; it is
	// always application/x-protobuf.
	Headers map[string]string

	// Compression selects request body compression. Defaults to
	// CompressionNone.
	Compression Compression

	// InsecureSkipTLSVerify disables TLS certificate verification.
	// Honored only when the OTELSHIP_INSECURE_TLS environment
	// variable is "1"; New fails otherwise. Development use only.
	InsecureSkipTLSVerify bool

	// ConnectTimeout bounds connection establishment, including the
	// TLS handshake. Defaults to 30 seconds.
	ConnectTimeout time.Duration

	// RequestTimeout bounds a full Export call. Defaults to 60
	// seconds.
	RequestTimeout time.Duration

	// HTTPClient overrides the built transport entirely. When set,
	// ConnectTimeout and InsecureSkipTLSVerify have no effect (the
	// supplied client owns its transport); RequestTimeout still
	// applies per request.
	HTTPClient *http.Client

	// Logger is used for structured logging. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Exporter posts OTLP payloads to one collector. Safe for concurrent
// use.
type Exporter struct {
	endpoint       string
	headers        map[string]string
	compression    Compression
	requestTimeout time.Duration
	httpClient     *http.Client
	logger         *slog.Logger

	closed       atomic.Bool
	shutdownOnce sync.Once
	// shutdownCtx is cancelled by Shutdown; every in-flight request
	// context is joined to it.
	shutdownCtx    context.Context
	cancelShutdown context.CancelFunc
}

// New creates an Exporter from the given configuration. Returns an
// error if the endpoint is missing or malformed, a timeout is
// negative, or InsecureSkipTLSVerify is requested without the
// environment gate.
func New(cfg Config) (*Exporter, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("export: Endpoint is required")
	}
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("export: invalid endpoint %q: %w", cfg.Endpoint, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("export: endpoint %q must use http or https", cfg.Endpoint)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("export: endpoint %q has no host", cfg.Endpoint)
	}

	if cfg.ConnectTimeout < 0 || cfg.RequestTimeout < 0 {
		return nil, errors.New("export: timeouts must not be negative")
	}
	connectTimeout := cfg.ConnectTimeout
	if connectTimeout == 0 {
		connectTimeout = defaultConnectTimeout
	}
	requestTimeout := cfg.RequestTimeout
	if requestTimeout == 0 {
		requestTimeout = defaultRequestTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.InsecureSkipTLSVerify && os.Getenv(insecureTLSEnvVar) != "1" {
		return nil, fmt.Errorf("export: InsecureSkipTLSVerify requires %s=1 in the environment", insecureTLSEnvVar)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		transport := &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout: connectTimeout,
			}).DialContext,
			TLSHandshakeTimeout:   connectTimeout,
			IdleConnTimeout:       90 * time.Second,
			ResponseHeaderTimeout: requestTimeout,
		}
		if cfg.InsecureSkipTLSVerify {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
			logger.Warn("TLS certificate verification disabled", "endpoint", endpoint)
		}
		httpClient = &http.Client{Transport: transport}
	}

	headers := make(map[string]string, len(cfg.Headers))
	for name, value := range cfg.Headers {
		headers[name] = value
	}

	shutdownCtx, cancelShutdown := context.WithCancel(context.Background())

	return &Exporter{
		endpoint:       endpoint,
		headers:        headers,
		compression:    cfg.Compression,
		requestTimeout: requestTimeout,
		httpClient:     httpClient,
		logger:         logger,
		shutdownCtx:    shutdownCtx,
		cancelShutdown: cancelShutdown,
	}, nil
}

// Export posts one encoded OTLP payload for the given signal and
// blocks until the collector answers or the request fails. A 2xx
// response returns nil. A non-2xx response returns a *StatusError and
// logs the status and body. After Shutdown, Export returns ErrShutdown
// without touching the network.
//
// Export does not retry; callers own retry policy.
func (e *Exporter) Export(ctx context.Context, signal Signal, payload []byte) error {
	if e.closed.Load() {
		return ErrShutdown
	}

	ctx, cancel := context.WithTimeout(ctx, e.requestTimeout)
	defer cancel()
	// Abort the request when Shutdown is called mid-flight.
	stopAfterFunc := context.AfterFunc(e.shutdownCtx, cancel)
	defer stopAfterFunc()

	body := payload
	if e.compression == CompressionGzip {
		compressed, err := gzipPayload(payload)
		if err != nil {
			return fmt.Errorf("export: compressing %s payload: %w", signal, err)
		}
		body = compressed
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint+signal.Path(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("export: building %s request: %w", signal, err)
	}
	for name, value := range e.headers {
		request.Header.Set(name, value)
	}
	request.Header.Set("Content-Type", contentTypeProtobuf)
	if e.compression == CompressionGzip {
		request.Header.Set("Content-Encoding", "gzip")
	}

	response, err := e.httpClient.Do(request)
	if err != nil {
		if e.closed.Load() {
			return fmt.Errorf("%w: %s request aborted", ErrShutdown, signal)
		}
		return fmt.Errorf("export: posting %s: %w", signal, err)
	}
	defer response.Body.Close()

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(response.Body, maxErrorBodyBytes))
		return nil
	}

	errorBody := netutil.ErrorBody(io.LimitReader(response.Body, maxErrorBodyBytes))
	e.logger.Error("collector rejected export",
		"signal", signal.String(),
		"status", response.StatusCode,
		"body", errorBody,
	)
	return &StatusError{StatusCode: response.StatusCode, Body: errorBody}
}

// Shutdown marks the exporter terminally closed: in-flight requests
// are aborted, idle connections are closed, and every subsequent
// Export fails fast with ErrShutdown. Idempotent.
func (e *Exporter) Shutdown() {
	e.shutdownOnce.Do(func() {
		e.closed.Store(true)
		e.cancelShutdown()
		e.httpClient.CloseIdleConnections()
		e.logger.Info("exporter shut down", "endpoint", e.endpoint)
	})
}

// gzipPayload compresses payload with the default compression level.
// OTLP payloads are highly repetitive (attribute keys recur per
// record), so even the default level routinely shrinks them severalfold.
func gzipPayload(payload []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer := gzip.NewWriter(&buf)
	if _, err := writer.Write(payload); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
