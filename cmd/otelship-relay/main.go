// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/bureau-foundation/otelship/lib/clock"
	"github.com/bureau-foundation/otelship/lib/config"
	"github.com/bureau-foundation/otelship/lib/export"
	"github.com/bureau-foundation/otelship/lib/ipc"
	"github.com/bureau-foundation/otelship/lib/otlp"
	"github.com/bureau-foundation/otelship/lib/process"
	"github.com/bureau-foundation/otelship/lib/schema/telemetry"
	"github.com/bureau-foundation/otelship/lib/version"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	configPath := flag.String("config", "",
		"path to the relay config file (overrides OTELSHIP_CONFIG)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("otelship-relay %s\n", version.Info())
		return nil
	}

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	flushInterval, err := time.ParseDuration(cfg.Batch.FlushInterval)
	if err != nil {
		return fmt.Errorf("parsing flush interval: %w", err)
	}
	connectTimeout, err := time.ParseDuration(cfg.Export.ConnectTimeout)
	if err != nil {
		return fmt.Errorf("parsing connect timeout: %w", err)
	}
	requestTimeout, err := time.ParseDuration(cfg.Export.RequestTimeout)
	if err != nil {
		return fmt.Errorf("parsing request timeout: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	compression := export.CompressionNone
	if cfg.Export.Compression == "gzip" {
		compression = export.CompressionGzip
	}

	exporter, err := export.New(export.Config{
		Endpoint:              cfg.Export.Endpoint,
		Headers:               cfg.Export.Headers,
		Compression:           compression,
		InsecureSkipTLSVerify: cfg.Export.InsecureSkipTLSVerify,
		ConnectTimeout:        connectTimeout,
		RequestTimeout:        requestTimeout,
		Logger:                logger,
	})
	if err != nil {
		return fmt.Errorf("creating exporter: %w", err)
	}

	encoder := otlp.NewEncoder(otlp.EncoderConfig{
		Resource: resourceFromConfig(cfg),
		Scope: telemetry.Scope{
			Name:    cfg.Scope.Name,
			Version: cfg.Scope.Version,
		},
		Logger: logger,
	})

	if err := cfg.EnsureSocketDir(); err != nil {
		return err
	}

	clk := clock.Real()
	relay := &Relay{
		accumulator: NewAccumulator(cfg.Batch.MaxBatchBytes),
		buffer:      NewBuffer(cfg.Batch.BufferBytes),
		encoder:     encoder,
		clock:       clk,
		startedAt:   clk.Now(),
		logger:      logger,
	}

	// Start the socket server.
	socketServer := ipc.NewServer(cfg.Socket.Path, logger)
	relay.registerActions(socketServer)

	socketDone := make(chan error, 1)
	go func() {
		socketDone <- socketServer.Serve(ctx)
	}()

	// Start the periodic flush loop.
	go relay.runFlushLoop(ctx, flushInterval)

	// Start the shipper goroutine. It runs on its own context, not the
	// signal context, so the final accumulator flush below lands in the
	// buffer before the drain pass starts.
	shipperCtx, stopShipper := context.WithCancel(context.Background())
	defer stopShipper()
	shipperDone := make(chan struct{})
	go func() {
		runShipper(shipperCtx, relay.buffer, exporter, relay.clock, &relay.shipped, relay.logger)
		close(shipperDone)
	}()

	logger.Info("telemetry relay running",
		"version", version.Info(),
		"environment", cfg.Environment,
		"socket", cfg.Socket.Path,
		"endpoint", cfg.Export.Endpoint,
		"flush_interval", flushInterval,
		"max_batch_bytes", cfg.Batch.MaxBatchBytes,
		"buffer_bytes", cfg.Batch.BufferBytes,
	)

	// Wait for shutdown signal.
	<-ctx.Done()
	logger.Info("shutting down")

	// Wait for the socket server to drain active connections.
	if err := <-socketDone; err != nil {
		logger.Error("socket server error", "error", err)
	}

	// Final flush: push any remaining accumulator contents to the
	// buffer, then stop the shipper so its drain pass attempts them.
	relay.flushToBuffer()
	stopShipper()
	<-shipperDone

	exporter.Shutdown()
	return nil
}

// resourceFromConfig builds the batch resource from the configured
// service name and extra attributes. The service name is emitted
// first; the remaining attributes follow in sorted key order so the
// encoded resource is identical across restarts.
func resourceFromConfig(cfg *config.Config) telemetry.Resource {
	attributes := []telemetry.KeyValue{
		telemetry.String("service.name", cfg.Resource.ServiceName),
	}
	for _, key := range sortedKeys(cfg.Resource.Attributes) {
		attributes = append(attributes, telemetry.String(key, cfg.Resource.Attributes[key]))
	}
	return telemetry.Resource{Attributes: attributes}
}

// sortedKeys returns the map's keys in ascending order.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// Relay holds the relay's runtime state. Created in run() and shared
// between the socket handlers, flush loop, and shipper goroutine.
type Relay struct {
	accumulator *Accumulator
	buffer      *Buffer
	encoder     *otlp.Encoder
	clock       clock.Clock
	startedAt   time.Time
	// shipped is read by the status handler and written by the
	// shipper goroutine, so it uses atomic operations.
	shipped atomic.Uint64
	logger  *slog.Logger
}
