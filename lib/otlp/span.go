// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package otlp

import (
	"github.com/bureau-foundation/otelship/lib/schema/telemetry"
	"github.com/bureau-foundation/otelship/lib/wire"
)

const (
	spanFieldTraceID      wire.Number = 1
	spanFieldSpanID       wire.Number = 2
	spanFieldParentSpanID wire.Number = 4
	spanFieldName         wire.Number = 5
	spanFieldKind         wire.Number = 6
	spanFieldStartTime    wire.Number = 7
	spanFieldEndTime      wire.Number = 8
	spanFieldAttributes   wire.Number = 9
	spanFieldStatus       wire.Number = 15

	statusFieldMessage wire.Number = 2
	statusFieldCode    wire.Number = 3
)

// appendSpan appends the Span message body. Absent IDs, empty names,
// unspecified kinds, and zero timestamps are omitted per proto3
// presence rules. The status submessage is omitted entirely when the
// span carries neither a status code nor a status message.
func (e *Encoder) appendSpan(buf []byte, span *telemetry.Span) []byte {
	buf = e.appendHexID(buf, spanFieldTraceID, span.TraceID, 16, "trace_id")
	buf = e.appendHexID(buf, spanFieldSpanID, span.SpanID, 8, "span_id")
	buf = e.appendHexID(buf, spanFieldParentSpanID, span.ParentSpanID, 8, "parent_span_id")
	buf = wire.AppendString(buf, spanFieldName, span.Name)
	buf = wire.AppendVarintField(buf, spanFieldKind, uint64(span.Kind))
	if span.StartTime != 0 {
		buf = wire.AppendFixed64Field(buf, spanFieldStartTime, uint64(span.StartTime))
	}
	if span.EndTime != 0 {
		buf = wire.AppendFixed64Field(buf, spanFieldEndTime, uint64(span.EndTime))
	}
	buf = e.appendAttributes(buf, spanFieldAttributes, span.Attributes)
	if span.Status != telemetry.StatusUnset || span.StatusMessage != "" {
		buf = wire.AppendMessage(buf, spanFieldStatus, appendSpanStatus(nil, span))
	}
	return buf
}

// appendSpanStatus appends the Status message body: optional message
// string, then the code. StatusUnset is the enum zero and is omitted,
// so a status carrying only a message encodes as just the message.
func appendSpanStatus(buf []byte, span *telemetry.Span) []byte {
	buf = wire.AppendString(buf, statusFieldMessage, span.StatusMessage)
	buf = wire.AppendVarintField(buf, statusFieldCode, uint64(span.Status))
	return buf
}
