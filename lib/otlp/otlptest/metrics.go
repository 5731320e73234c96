// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package otlptest

import (
	"math"

	"github.com/bureau-foundation/otelship/lib/schema/telemetry"
	"google.golang.org/protobuf/encoding/protowire"
)

// Metrics is the decoded form of an ExportMetricsServiceRequest.
type Metrics struct {
	ResourceBlocks int                `json:"resource_blocks"`
	ScopeBlocks    int                `json:"scope_blocks"`
	Resource       telemetry.Resource `json:"resource"`
	Scope          telemetry.Scope    `json:"scope"`
	Metrics        []Metric           `json:"metrics"`
}

// Metric is the wire-level decoded form of an OTLP Metric. At most one
// of Gauge, Sum, and Histogram is non-nil for well-formed input; the
// decoder keeps whatever the wire carried.
type Metric struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Unit        string     `json:"unit,omitempty"`
	Gauge       *Gauge     `json:"gauge,omitempty"`
	Sum         *Sum       `json:"sum,omitempty"`
	Histogram   *Histogram `json:"histogram,omitempty"`
}

// Gauge is a decoded OTLP Gauge.
type Gauge struct {
	Points []NumberPoint `json:"points"`
}

// Sum is a decoded OTLP Sum.
type Sum struct {
	Points      []NumberPoint `json:"points"`
	Temporality int64         `json:"temporality"`
	Monotonic   bool          `json:"monotonic"`
}

// Histogram is a decoded OTLP Histogram.
type Histogram struct {
	Points      []HistogramPoint `json:"points"`
	Temporality int64            `json:"temporality"`
}

// NumberPoint is a decoded NumberDataPoint. Double and Int mirror the
// wire oneof: whichever variant was present is non-nil.
type NumberPoint struct {
	StartTime  uint64               `json:"start_time"`
	Time       uint64               `json:"time"`
	Double     *float64             `json:"double,omitempty"`
	Int        *int64               `json:"int,omitempty"`
	Attributes []telemetry.KeyValue `json:"attributes,omitempty"`
}

// HistogramPoint is a decoded HistogramDataPoint.
type HistogramPoint struct {
	StartTime    uint64               `json:"start_time"`
	Time         uint64               `json:"time"`
	Count        uint64               `json:"count"`
	Sum          *float64             `json:"sum,omitempty"`
	BucketCounts []uint64             `json:"bucket_counts,omitempty"`
	Bounds       []float64            `json:"bounds,omitempty"`
	Attributes   []telemetry.KeyValue `json:"attributes,omitempty"`
}

// DecodeMetrics decodes an ExportMetricsServiceRequest payload. A
// zero-length payload decodes to an empty Metrics with no blocks.
func DecodeMetrics(payload []byte) (*Metrics, error) {
	metrics := &Metrics{}
	r := newFieldReader(payload)
	for r.next() {
		switch r.field {
		case 1: // resource_metrics
			metrics.ResourceBlocks++
			if err := metrics.decodeResourceBlock(r.bytes()); err != nil {
				return nil, err
			}
		default:
			r.skip()
		}
	}
	if err := r.err(); err != nil {
		return nil, err
	}
	return metrics, nil
}

func (m *Metrics) decodeResourceBlock(msg []byte) error {
	r := newFieldReader(msg)
	for r.next() {
		switch r.field {
		case 1: // resource
			resource, err := decodeResource(r.bytes())
			if err != nil {
				return err
			}
			m.Resource = resource
		case 2: // scope_metrics
			m.ScopeBlocks++
			if err := m.decodeScopeBlock(r.bytes()); err != nil {
				return err
			}
		default:
			r.skip()
		}
	}
	return r.err()
}

func (m *Metrics) decodeScopeBlock(msg []byte) error {
	r := newFieldReader(msg)
	for r.next() {
		switch r.field {
		case 1: // scope
			scope, err := decodeScope(r.bytes())
			if err != nil {
				return err
			}
			m.Scope = scope
		case 2: // metrics
			metric, err := decodeMetric(r.bytes())
			if err != nil {
				return err
			}
			m.Metrics = append(m.Metrics, metric)
		default:
			r.skip()
		}
	}
	return r.err()
}

func decodeMetric(msg []byte) (Metric, error) {
	var metric Metric
	r := newFieldReader(msg)
	for r.next() {
		switch r.field {
		case 1:
			metric.Name = string(r.bytes())
		case 2:
			metric.Description = string(r.bytes())
		case 3:
			metric.Unit = string(r.bytes())
		case 5:
			gauge, err := decodeGauge(r.bytes())
			if err != nil {
				return metric, err
			}
			metric.Gauge = gauge
		case 7:
			sum, err := decodeSum(r.bytes())
			if err != nil {
				return metric, err
			}
			metric.Sum = sum
		case 9:
			histogram, err := decodeHistogram(r.bytes())
			if err != nil {
				return metric, err
			}
			metric.Histogram = histogram
		default:
			r.skip()
		}
	}
	return metric, r.err()
}

func decodeGauge(msg []byte) (*Gauge, error) {
	gauge := &Gauge{}
	r := newFieldReader(msg)
	for r.next() {
		switch r.field {
		case 1:
			point, err := decodeNumberPoint(r.bytes())
			if err != nil {
				return nil, err
			}
			gauge.Points = append(gauge.Points, point)
		default:
			r.skip()
		}
	}
	return gauge, r.err()
}

func decodeSum(msg []byte) (*Sum, error) {
	sum := &Sum{}
	r := newFieldReader(msg)
	for r.next() {
		switch r.field {
		case 1:
			point, err := decodeNumberPoint(r.bytes())
			if err != nil {
				return nil, err
			}
			sum.Points = append(sum.Points, point)
		case 2:
			sum.Temporality = int64(r.varint())
		case 3:
			sum.Monotonic = r.varint() != 0
		default:
			r.skip()
		}
	}
	return sum, r.err()
}

func decodeHistogram(msg []byte) (*Histogram, error) {
	histogram := &Histogram{}
	r := newFieldReader(msg)
	for r.next() {
		switch r.field {
		case 1:
			point, err := decodeHistogramPoint(r.bytes())
			if err != nil {
				return nil, err
			}
			histogram.Points = append(histogram.Points, point)
		case 2:
			histogram.Temporality = int64(r.varint())
		default:
			r.skip()
		}
	}
	return histogram, r.err()
}

func decodeNumberPoint(msg []byte) (NumberPoint, error) {
	var point NumberPoint
	r := newFieldReader(msg)
	for r.next() {
		switch r.field {
		case 2:
			point.StartTime = r.fixed64()
		case 3:
			point.Time = r.fixed64()
		case 4:
			value := math.Float64frombits(r.fixed64())
			point.Double = &value
		case 6:
			value := int64(r.fixed64())
			point.Int = &value
		case 7:
			kv, err := decodeKeyValue(r.bytes())
			if err != nil {
				return point, err
			}
			point.Attributes = append(point.Attributes, kv)
		default:
			r.skip()
		}
	}
	return point, r.err()
}

func decodeHistogramPoint(msg []byte) (HistogramPoint, error) {
	var point HistogramPoint
	r := newFieldReader(msg)
	for r.next() {
		switch r.field {
		case 2:
			point.StartTime = r.fixed64()
		case 3:
			point.Time = r.fixed64()
		case 4:
			point.Count = r.fixed64()
		case 5:
			value := math.Float64frombits(r.fixed64())
			point.Sum = &value
		case 6:
			counts, err := decodePackedUint64(r.bytes())
			if err != nil {
				return point, err
			}
			point.BucketCounts = counts
		case 7:
			bounds, err := decodePackedDouble(r.bytes())
			if err != nil {
				return point, err
			}
			point.Bounds = bounds
		case 9:
			kv, err := decodeKeyValue(r.bytes())
			if err != nil {
				return point, err
			}
			point.Attributes = append(point.Attributes, kv)
		default:
			r.skip()
		}
	}
	return point, r.err()
}

// decodePackedUint64 decodes a packed repeated uint64 payload: a
// sequence of varints.
func decodePackedUint64(payload []byte) ([]uint64, error) {
	var values []uint64
	for len(payload) > 0 {
		v, n := protowire.ConsumeVarint(payload)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		values = append(values, v)
		payload = payload[n:]
	}
	return values, nil
}

// decodePackedDouble decodes a packed repeated double payload: a
// sequence of 8-byte little-endian IEEE-754 values.
func decodePackedDouble(payload []byte) ([]float64, error) {
	var values []float64
	for len(payload) > 0 {
		v, n := protowire.ConsumeFixed64(payload)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		values = append(values, math.Float64frombits(v))
		payload = payload[n:]
	}
	return values, nil
}
