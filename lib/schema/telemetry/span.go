// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

// SpanKind classifies a span's relationship to its trace neighbors.
// The values match the OTLP SpanKind enum; KindUnspecified encodes as
// an absent field.
type SpanKind int

const (
	// KindUnspecified means the caller did not classify the span.
	KindUnspecified SpanKind = 0
	// KindInternal is an operation internal to the process.
	KindInternal SpanKind = 1
	// KindServer is the handling of a request from a remote caller.
	KindServer SpanKind = 2
	// KindClient is an outbound request to a remote service.
	KindClient SpanKind = 3
	// KindProducer is the creation of a message for asynchronous
	// consumption.
	KindProducer SpanKind = 4
	// KindConsumer is the processing of a message produced elsewhere.
	KindConsumer SpanKind = 5
)

// String returns the kind name for logging.
func (k SpanKind) String() string {
	switch k {
	case KindInternal:
		return "internal"
	case KindServer:
		return "server"
	case KindClient:
		return "client"
	case KindProducer:
		return "producer"
	case KindConsumer:
		return "consumer"
	default:
		return "unspecified"
	}
}

// StatusCode is the span outcome. The values match the OTLP
// Status.StatusCode enum.
type StatusCode int

const (
	// StatusUnset means the operation completed without an explicit
	// verdict. Spans with StatusUnset and no status message omit the
	// status submessage entirely.
	StatusUnset StatusCode = 0
	// StatusOK marks explicit success.
	StatusOK StatusCode = 1
	// StatusError marks failure.
	StatusError StatusCode = 2
)

// String returns the status name for logging.
func (c StatusCode) String() string {
	switch c {
	case StatusOK:
		return "ok"
	case StatusError:
		return "error"
	default:
		return "unset"
	}
}

// Span is one completed trace span. Timestamps are Unix nanoseconds;
// a zero timestamp is omitted from the wire.
//
// TraceID, SpanID, and ParentSpanID are lowercase hex strings (32, 16,
// and 16 characters). Empty means absent: a span with an empty
// ParentSpanID is a trace root. Malformed non-empty IDs do not fail
// the batch; the encoder emits the field with an empty payload and
// logs a warning, so the rest of the span survives.
type Span struct {
	// TraceID is the 32-character hex trace identifier.
	TraceID string `json:"trace_id,omitempty"`

	// SpanID is the 16-character hex span identifier.
	SpanID string `json:"span_id,omitempty"`

	// ParentSpanID is the 16-character hex parent span identifier.
	// Empty for trace roots.
	ParentSpanID string `json:"parent_span_id,omitempty"`

	// Name is the operation name, e.g. "GET /api/tickets".
	Name string `json:"name"`

	// Kind classifies the span. KindUnspecified is omitted from the
	// wire.
	Kind SpanKind `json:"kind,omitempty"`

	// StartTime is the span start in Unix nanoseconds.
	StartTime int64 `json:"start_time,omitempty"`

	// EndTime is the span end in Unix nanoseconds.
	EndTime int64 `json:"end_time,omitempty"`

	// Attributes are span attributes in encode order.
	Attributes []KeyValue `json:"attributes,omitempty"`

	// Status is the span outcome.
	Status StatusCode `json:"status,omitempty"`

	// StatusMessage is a human-readable elaboration of Status,
	// typically an error string when Status is StatusError.
	StatusMessage string `json:"status_message,omitempty"`
}
