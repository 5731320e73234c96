// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

// Temporality describes how a metric's points relate to prior points.
// The values match the OTLP AggregationTemporality enum.
type Temporality int

const (
	// TemporalityUnspecified is the zero value. Encoders omit it.
	TemporalityUnspecified Temporality = 0
	// TemporalityDelta means each point covers only the interval
	// since the previous point.
	TemporalityDelta Temporality = 1
	// TemporalityCumulative means each point covers everything since
	// the stream start.
	TemporalityCumulative Temporality = 2
)

// String returns the temporality name for logging.
func (t Temporality) String() string {
	switch t {
	case TemporalityDelta:
		return "delta"
	case TemporalityCumulative:
		return "cumulative"
	default:
		return "unspecified"
	}
}

// Metric is one metric stream: identity plus exactly one data variant.
// Exactly one of Gauge, Sum, or Histogram must be non-nil. The variant
// is explicit; nothing is inferred from the metric name. A Metric with
// zero or several variants set encodes only its identity fields, and
// the encoder logs a warning.
type Metric struct {
	// Name is the metric name, e.g. "http.server.request.duration".
	Name string `json:"name"`

	// Description is an optional human-readable description.
	Description string `json:"description,omitempty"`

	// Unit is the optional UCUM unit, e.g. "ms" or "By".
	Unit string `json:"unit,omitempty"`

	// Gauge holds last-sampled-value data.
	Gauge *Gauge `json:"gauge,omitempty"`

	// Sum holds monotonic or non-monotonic sum data.
	Sum *Sum `json:"sum,omitempty"`

	// Histogram holds bucketed distribution data.
	Histogram *Histogram `json:"histogram,omitempty"`
}

// Gauge is the last-sampled-value metric variant.
type Gauge struct {
	// Points are the data points in encode order.
	Points []NumberPoint `json:"points"`
}

// Sum is the running-total metric variant.
type Sum struct {
	// Points are the data points in encode order.
	Points []NumberPoint `json:"points"`

	// Temporality describes how points relate to prior points.
	Temporality Temporality `json:"temporality,omitempty"`

	// Monotonic reports whether the sum only increases.
	Monotonic bool `json:"monotonic,omitempty"`
}

// Histogram is the bucketed-distribution metric variant.
type Histogram struct {
	// Points are the data points in encode order.
	Points []HistogramPoint `json:"points"`

	// Temporality describes how points relate to prior points.
	Temporality Temporality `json:"temporality,omitempty"`
}

// NumberPoint is a single gauge or sum observation. Exactly one of
// Int or Double should be set; a point with neither encodes with
// timestamps and attributes only, which the wire reads as an explicit
// zero. Timestamps are Unix nanoseconds; zero timestamps are omitted
// from the wire.
type NumberPoint struct {
	// StartTime is the start of the interval this point covers, in
	// Unix nanoseconds. Optional for gauges.
	StartTime int64 `json:"start_time,omitempty"`

	// Time is the observation time in Unix nanoseconds.
	Time int64 `json:"time,omitempty"`

	// Int is the integer observation, if this point is integral.
	Int *int64 `json:"int,omitempty"`

	// Double is the floating point observation, if this point is
	// floating point.
	Double *float64 `json:"double,omitempty"`

	// Attributes are point attributes in encode order.
	Attributes []KeyValue `json:"attributes,omitempty"`
}

// HistogramPoint is a single histogram observation window.
//
// Bounds are the explicit bucket upper bounds; BucketCounts has one
// more entry than Bounds (the final bucket is everything above the
// last bound). Both may be empty for a count/sum-only point.
type HistogramPoint struct {
	// StartTime is the start of the interval this point covers, in
	// Unix nanoseconds.
	StartTime int64 `json:"start_time,omitempty"`

	// Time is the observation time in Unix nanoseconds.
	Time int64 `json:"time,omitempty"`

	// Count is the number of observations in the window.
	Count uint64 `json:"count"`

	// Sum is the sum of observed values. Nil means "not reported",
	// which is distinct from an explicit zero sum.
	Sum *float64 `json:"sum,omitempty"`

	// BucketCounts are per-bucket observation counts. Length must be
	// len(Bounds)+1 when both are present.
	BucketCounts []uint64 `json:"bucket_counts,omitempty"`

	// Bounds are the explicit bucket upper bounds, ascending.
	Bounds []float64 `json:"bounds,omitempty"`

	// Attributes are point attributes in encode order.
	Attributes []KeyValue `json:"attributes,omitempty"`
}
