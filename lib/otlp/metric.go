// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package otlp

import (
	"github.com/bureau-foundation/otelship/lib/schema/telemetry"
	"github.com/bureau-foundation/otelship/lib/wire"
)

const (
	metricFieldName        wire.Number = 1
	metricFieldDescription wire.Number = 2
	metricFieldUnit        wire.Number = 3
	metricFieldGauge       wire.Number = 5
	metricFieldSum         wire.Number = 7
	metricFieldHistogram   wire.Number = 9

	gaugeFieldPoints wire.Number = 1

	sumFieldPoints      wire.Number = 1
	sumFieldTemporality wire.Number = 2
	sumFieldMonotonic   wire.Number = 3

	histogramFieldPoints      wire.Number = 1
	histogramFieldTemporality wire.Number = 2

	numberPointFieldStartTime  wire.Number = 2
	numberPointFieldTime       wire.Number = 3
	numberPointFieldDouble     wire.Number = 4
	numberPointFieldInt        wire.Number = 6
	numberPointFieldAttributes wire.Number = 7

	histogramPointFieldStartTime    wire.Number = 2
	histogramPointFieldTime         wire.Number = 3
	histogramPointFieldCount        wire.Number = 4
	histogramPointFieldSum          wire.Number = 5
	histogramPointFieldBucketCounts wire.Number = 6
	histogramPointFieldBounds       wire.Number = 7
	histogramPointFieldAttributes   wire.Number = 9
)

// appendMetric appends the Metric message body: the identity fields,
// then the single data variant. A metric with zero or several variants
// set encodes only its identity and logs a warning; guessing which
// variant the caller meant would ship wrong data silently.
func (e *Encoder) appendMetric(buf []byte, metric *telemetry.Metric) []byte {
	buf = wire.AppendString(buf, metricFieldName, metric.Name)
	buf = wire.AppendString(buf, metricFieldDescription, metric.Description)
	buf = wire.AppendString(buf, metricFieldUnit, metric.Unit)

	variants := 0
	if metric.Gauge != nil {
		variants++
	}
	if metric.Sum != nil {
		variants++
	}
	if metric.Histogram != nil {
		variants++
	}
	if variants != 1 {
		e.logger.Warn("metric must carry exactly one data variant, encoding identity only",
			"metric", metric.Name,
			"variants", variants,
		)
		return buf
	}

	switch {
	case metric.Gauge != nil:
		buf = wire.AppendMessage(buf, metricFieldGauge, e.appendGauge(nil, metric.Gauge))
	case metric.Sum != nil:
		buf = wire.AppendMessage(buf, metricFieldSum, e.appendSum(nil, metric.Sum))
	case metric.Histogram != nil:
		buf = wire.AppendMessage(buf, metricFieldHistogram, e.appendHistogram(nil, metric.Histogram))
	}
	return buf
}

// appendGauge appends the Gauge message body: the data points.
func (e *Encoder) appendGauge(buf []byte, gauge *telemetry.Gauge) []byte {
	for i := range gauge.Points {
		buf = wire.AppendMessage(buf, gaugeFieldPoints, e.appendNumberPoint(nil, &gauge.Points[i]))
	}
	return buf
}

// appendSum appends the Sum message body: data points, temporality,
// monotonicity. Unspecified temporality and false monotonicity are
// omitted as proto3 defaults.
func (e *Encoder) appendSum(buf []byte, sum *telemetry.Sum) []byte {
	for i := range sum.Points {
		buf = wire.AppendMessage(buf, sumFieldPoints, e.appendNumberPoint(nil, &sum.Points[i]))
	}
	buf = wire.AppendVarintField(buf, sumFieldTemporality, uint64(sum.Temporality))
	buf = wire.AppendBool(buf, sumFieldMonotonic, sum.Monotonic)
	return buf
}

// appendHistogram appends the Histogram message body.
func (e *Encoder) appendHistogram(buf []byte, histogram *telemetry.Histogram) []byte {
	for i := range histogram.Points {
		buf = wire.AppendMessage(buf, histogramFieldPoints, e.appendHistogramPoint(nil, &histogram.Points[i]))
	}
	buf = wire.AppendVarintField(buf, histogramFieldTemporality, uint64(histogram.Temporality))
	return buf
}

// appendNumberPoint appends the NumberDataPoint message body. The
// value is a oneof: whichever of Double or Int is set is emitted even
// when it holds zero. A point with both set is ambiguous; the double
// is emitted and a warning logged. A point with neither encodes as
// timestamps and attributes only, which decodes as an explicit zero.
func (e *Encoder) appendNumberPoint(buf []byte, point *telemetry.NumberPoint) []byte {
	if point.StartTime != 0 {
		buf = wire.AppendFixed64Field(buf, numberPointFieldStartTime, uint64(point.StartTime))
	}
	if point.Time != 0 {
		buf = wire.AppendFixed64Field(buf, numberPointFieldTime, uint64(point.Time))
	}
	switch {
	case point.Double != nil && point.Int != nil:
		e.logger.Warn("number point carries both int and double values, using double")
		buf = wire.AppendDoubleField(buf, numberPointFieldDouble, *point.Double)
	case point.Double != nil:
		buf = wire.AppendDoubleField(buf, numberPointFieldDouble, *point.Double)
	case point.Int != nil:
		// as_int is sfixed64 on the wire, not a varint.
		buf = wire.AppendFixed64Field(buf, numberPointFieldInt, uint64(*point.Int))
	}
	buf = e.appendAttributes(buf, numberPointFieldAttributes, point.Attributes)
	return buf
}

// appendHistogramPoint appends the HistogramDataPoint message body.
// Sum is optional with explicit presence: nil omits the field, a
// pointer to zero emits an explicit zero sum. A bucket layout where
// len(BucketCounts) != len(Bounds)+1 is encoded as given with a
// warning; the collector is the authority on rejecting it.
func (e *Encoder) appendHistogramPoint(buf []byte, point *telemetry.HistogramPoint) []byte {
	if point.StartTime != 0 {
		buf = wire.AppendFixed64Field(buf, histogramPointFieldStartTime, uint64(point.StartTime))
	}
	if point.Time != 0 {
		buf = wire.AppendFixed64Field(buf, histogramPointFieldTime, uint64(point.Time))
	}
	if point.Count != 0 {
		buf = wire.AppendFixed64Field(buf, histogramPointFieldCount, point.Count)
	}
	if point.Sum != nil {
		buf = wire.AppendDoubleField(buf, histogramPointFieldSum, *point.Sum)
	}
	if len(point.BucketCounts) > 0 && len(point.Bounds) > 0 && len(point.BucketCounts) != len(point.Bounds)+1 {
		e.logger.Warn("histogram bucket layout is inconsistent",
			"bucket_counts", len(point.BucketCounts),
			"bounds", len(point.Bounds),
		)
	}
	buf = wire.AppendPackedUint64(buf, histogramPointFieldBucketCounts, point.BucketCounts)
	buf = wire.AppendPackedDouble(buf, histogramPointFieldBounds, point.Bounds)
	buf = e.appendAttributes(buf, histogramPointFieldAttributes, point.Attributes)
	return buf
}
