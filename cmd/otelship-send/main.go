// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Otelship-send submits a synthetic span or metric, for smoke-testing
// a relay or a collector from the shell.
//
// Two delivery paths:
//
// Socket mode (--socket): sends the record to a running otelship-relay
// over its Unix socket, exercising the same submit action real
// services use. The relay batches and ships it on its normal schedule.
//
// Direct mode (--endpoint): encodes the record into an OTLP payload
// and posts it straight to a collector, bypassing any relay. Useful
// for verifying collector reachability and credentials (--header).
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/otelship/lib/export"
	"github.com/bureau-foundation/otelship/lib/ipc"
	"github.com/bureau-foundation/otelship/lib/otlp"
	"github.com/bureau-foundation/otelship/lib/process"
	"github.com/bureau-foundation/otelship/lib/schema/telemetry"
	"github.com/bureau-foundation/otelship/lib/version"
)

func main() {
	if err := run(); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		process.Fatal(err)
	}
}

func run() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("otelship-send %s\n", version.Info())
		return nil
	}
	if len(os.Args) < 2 || os.Args[1] == "--help" || os.Args[1] == "-h" || os.Args[1] == "help" {
		printUsage()
		if len(os.Args) < 2 {
			return errors.New("missing command")
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch command := os.Args[1]; command {
	case "span":
		return runSpan(ctx, os.Args[2:])
	case "metric":
		return runMetric(ctx, os.Args[2:])
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// sendOptions is the delivery configuration shared by both commands.
type sendOptions struct {
	socketPath  string
	endpoint    string
	headers     map[string]string
	gzip        bool
	serviceName string
}

// addDeliveryFlags registers the delivery flags and returns the slice
// that collects repeated --header values.
func addDeliveryFlags(flagSet *pflag.FlagSet, options *sendOptions) *[]string {
	flagSet.StringVar(&options.socketPath, "socket", "", "relay socket path (socket mode)")
	flagSet.StringVar(&options.endpoint, "endpoint", "", "collector base URL (direct mode)")
	flagSet.BoolVar(&options.gzip, "gzip", false, "gzip direct exports")
	flagSet.StringVar(&options.serviceName, "service-name", "otelship-send", "resource service.name for direct mode")
	return flagSet.StringArray("header", nil, "header for direct exports (key=value, repeatable)")
}

// resolveDelivery validates the mode selection and parses headers.
func resolveDelivery(options *sendOptions, headerPairs []string) error {
	if (options.socketPath == "") == (options.endpoint == "") {
		return errors.New("exactly one of --socket or --endpoint is required")
	}
	if options.socketPath != "" && len(headerPairs) > 0 {
		return errors.New("--header applies to direct mode only")
	}
	headers, err := parsePairs(headerPairs, "header")
	if err != nil {
		return err
	}
	options.headers = headers
	return nil
}

func runSpan(ctx context.Context, args []string) error {
	var options sendOptions
	var name, kind, status, message string
	var traceID, spanID, parentID string
	var duration time.Duration
	var attrPairs []string

	flagSet := pflag.NewFlagSet("otelship-send span", pflag.ContinueOnError)
	flagSet.StringVar(&name, "name", "", "span name (required)")
	flagSet.StringVar(&kind, "kind", "internal", "span kind: internal, server, client, producer, or consumer")
	flagSet.StringVar(&status, "status", "unset", "span status: unset, ok, or error")
	flagSet.StringVar(&message, "message", "", "status message")
	flagSet.StringVar(&traceID, "trace-id", "", "32-character hex trace ID (random if empty)")
	flagSet.StringVar(&spanID, "span-id", "", "16-character hex span ID (random if empty)")
	flagSet.StringVar(&parentID, "parent-id", "", "16-character hex parent span ID")
	flagSet.DurationVar(&duration, "duration", 100*time.Millisecond, "span duration, counted back from now")
	flagSet.StringArrayVar(&attrPairs, "attr", nil, "span attribute (key=value, repeatable)")
	headerPairs := addDeliveryFlags(flagSet, &options)

	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if err := resolveDelivery(&options, *headerPairs); err != nil {
		return err
	}

	span, err := buildSpan(name, kind, status, message, traceID, spanID, parentID, duration, attrPairs)
	if err != nil {
		return err
	}

	if err := deliver(ctx, options, []telemetry.Span{span}, nil); err != nil {
		return err
	}

	fmt.Printf("sent span %s trace=%s span=%s\n", span.Name, span.TraceID, span.SpanID)
	return nil
}

func runMetric(ctx context.Context, args []string) error {
	var options sendOptions
	var name, unit string
	var gauge, counter float64
	var attrPairs []string

	flagSet := pflag.NewFlagSet("otelship-send metric", pflag.ContinueOnError)
	flagSet.StringVar(&name, "name", "", "metric name (required)")
	flagSet.Float64Var(&gauge, "gauge", 0, "send a gauge observation with this value")
	flagSet.Float64Var(&counter, "counter", 0, "send a cumulative counter observation with this value")
	flagSet.StringVar(&unit, "unit", "", "UCUM unit, e.g. ms or By")
	flagSet.StringArrayVar(&attrPairs, "attr", nil, "point attribute (key=value, repeatable)")
	headerPairs := addDeliveryFlags(flagSet, &options)

	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if err := resolveDelivery(&options, *headerPairs); err != nil {
		return err
	}

	metric, err := buildMetric(name, unit, gauge, flagSet.Changed("gauge"), counter, flagSet.Changed("counter"), attrPairs)
	if err != nil {
		return err
	}

	if err := deliver(ctx, options, nil, []telemetry.Metric{metric}); err != nil {
		return err
	}

	fmt.Printf("sent metric %s\n", metric.Name)
	return nil
}

// buildSpan assembles the span record, generating random IDs where the
// caller did not supply them.
func buildSpan(name, kind, status, message, traceID, spanID, parentID string, duration time.Duration, attrPairs []string) (telemetry.Span, error) {
	if name == "" {
		return telemetry.Span{}, errors.New("--name is required")
	}

	spanKind, err := parseKind(kind)
	if err != nil {
		return telemetry.Span{}, err
	}
	statusCode, err := parseStatus(status)
	if err != nil {
		return telemetry.Span{}, err
	}
	attrs, err := parseAttrs(attrPairs)
	if err != nil {
		return telemetry.Span{}, err
	}

	if traceID == "" {
		traceID = telemetry.NewTraceID().String()
	}
	if spanID == "" {
		spanID = telemetry.NewSpanID().String()
	}

	end := time.Now()
	return telemetry.Span{
		TraceID:       traceID,
		SpanID:        spanID,
		ParentSpanID:  parentID,
		Name:          name,
		Kind:          spanKind,
		StartTime:     end.Add(-duration).UnixNano(),
		EndTime:       end.UnixNano(),
		Attributes:    attrs,
		Status:        statusCode,
		StatusMessage: message,
	}, nil
}

// buildMetric assembles a gauge or counter metric from the flag
// values. Exactly one of the two variants must have been set.
func buildMetric(name, unit string, gauge float64, gaugeSet bool, counter float64, counterSet bool, attrPairs []string) (telemetry.Metric, error) {
	if name == "" {
		return telemetry.Metric{}, errors.New("--name is required")
	}
	if gaugeSet == counterSet {
		return telemetry.Metric{}, errors.New("exactly one of --gauge or --counter is required")
	}
	attrs, err := parseAttrs(attrPairs)
	if err != nil {
		return telemetry.Metric{}, err
	}

	now := time.Now().UnixNano()
	metric := telemetry.Metric{Name: name, Unit: unit}
	if gaugeSet {
		metric.Gauge = &telemetry.Gauge{
			Points: []telemetry.NumberPoint{{Time: now, Double: &gauge, Attributes: attrs}},
		}
	} else {
		metric.Sum = &telemetry.Sum{
			Points:      []telemetry.NumberPoint{{Time: now, Double: &counter, Attributes: attrs}},
			Temporality: telemetry.TemporalityCumulative,
			Monotonic:   true,
		}
	}
	return metric, nil
}

// deliver sends the records via the configured path.
func deliver(ctx context.Context, options sendOptions, spans []telemetry.Span, metrics []telemetry.Metric) error {
	if options.socketPath != "" {
		fields := make(map[string]any)
		if len(spans) > 0 {
			fields["spans"] = spans
		}
		if len(metrics) > 0 {
			fields["metrics"] = metrics
		}
		return ipc.NewClient(options.socketPath).Call(ctx, "submit", fields, nil)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	encoder := otlp.NewEncoder(otlp.EncoderConfig{
		Resource: telemetry.Resource{Attributes: []telemetry.KeyValue{
			telemetry.String("service.name", options.serviceName),
		}},
		Scope:  telemetry.Scope{Name: "github.com/bureau-foundation/otelship", Version: version.Version},
		Logger: logger,
	})

	compression := export.CompressionNone
	if options.gzip {
		compression = export.CompressionGzip
	}
	exporter, err := export.New(export.Config{
		Endpoint:    options.endpoint,
		Headers:     options.headers,
		Compression: compression,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	defer exporter.Shutdown()

	if payload := encoder.EncodeSpans(spans); payload != nil {
		if err := exporter.Export(ctx, export.SignalTraces, payload); err != nil {
			return err
		}
	}
	if payload := encoder.EncodeMetrics(metrics); payload != nil {
		if err := exporter.Export(ctx, export.SignalMetrics, payload); err != nil {
			return err
		}
	}
	return nil
}

func parseKind(kind string) (telemetry.SpanKind, error) {
	switch kind {
	case "internal":
		return telemetry.KindInternal, nil
	case "server":
		return telemetry.KindServer, nil
	case "client":
		return telemetry.KindClient, nil
	case "producer":
		return telemetry.KindProducer, nil
	case "consumer":
		return telemetry.KindConsumer, nil
	default:
		return 0, fmt.Errorf("unknown span kind %q", kind)
	}
}

func parseStatus(status string) (telemetry.StatusCode, error) {
	switch status {
	case "unset":
		return telemetry.StatusUnset, nil
	case "ok":
		return telemetry.StatusOK, nil
	case "error":
		return telemetry.StatusError, nil
	default:
		return 0, fmt.Errorf("unknown span status %q", status)
	}
}

// parsePairs parses repeated key=value flag values into a map.
func parsePairs(pairs []string, flagName string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	parsed := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --%s %q, expected key=value", flagName, pair)
		}
		parsed[key] = value
	}
	return parsed, nil
}

// parseAttrs parses repeated key=value flag values into attributes,
// preserving order.
func parseAttrs(pairs []string) ([]telemetry.KeyValue, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	attrs := make([]telemetry.KeyValue, 0, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --attr %q, expected key=value", pair)
		}
		attrs = append(attrs, telemetry.String(key, value))
	}
	return attrs, nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Otelship-send submits a synthetic span or metric.

Usage:
  otelship-send span --name <name> (--socket PATH | --endpoint URL) [flags]
  otelship-send metric --name <name> (--gauge V | --counter V) (--socket PATH | --endpoint URL) [flags]

Examples:
  # Submit a span through a local relay
  otelship-send span --name smoke.test --socket /run/otelship/relay.sock

  # Post an error span straight to a collector
  otelship-send span --name deploy.rollback --status error --message "canary failed" \
    --endpoint http://localhost:4318

  # Record a gauge with an authenticated collector
  otelship-send metric --name queue_depth --gauge 42 \
    --endpoint https://collector.example.com --header "authorization=Bearer TOKEN" --gzip

Run "otelship-send span --help" or "otelship-send metric --help" for
the full flag list.
`)
}
