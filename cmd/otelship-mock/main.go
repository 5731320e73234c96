// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Otelship-mock is an in-memory OTLP/HTTP collector for development
// and integration tests. It accepts the exporter's wire format exactly
// (protobuf POST bodies, optionally gzipped), stores every decoded
// payload in memory, and exposes JSON query endpoints so tests can
// verify what arrived without running a real collector.
//
// Endpoints:
//   - POST /v1/traces: accept an ExportTraceServiceRequest payload
//   - POST /v1/metrics: accept an ExportMetricsServiceRequest payload
//   - GET /status: request and decode-error counters plus stored totals
//   - GET /spans: every stored span as JSON
//   - GET /metrics: every stored metric as JSON
//
// The --fail-status flag forces every export POST to fail with the
// given HTTP status, for exercising exporter retry paths.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bureau-foundation/otelship/lib/process"
	"github.com/bureau-foundation/otelship/lib/version"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	listenAddr := flag.String("listen", "127.0.0.1:4318",
		"address to listen on")
	failStatus := flag.Int("fail-status", 0,
		"respond to every export POST with this HTTP status (0 disables)")
	verbose := flag.Bool("verbose", false,
		"log every received payload")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("otelship-mock %s\n", version.Info())
		return nil
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mock := newCollector(logger, *failStatus, *verbose)
	mux := http.NewServeMux()
	mock.register(mux)

	listener, err := net.Listen("tcp", *listenAddr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", *listenAddr, err)
	}

	server := &http.Server{
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	serveDone := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			serveDone <- err
			return
		}
		serveDone <- nil
	}()

	logger.Info("mock collector running",
		"version", version.Info(),
		"listen", listener.Addr().String(),
		"fail_status", *failStatus,
	)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if err := <-serveDone; err != nil {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}
