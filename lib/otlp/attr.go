// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package otlp

import (
	"encoding/hex"

	"github.com/bureau-foundation/otelship/lib/schema/telemetry"
	"github.com/bureau-foundation/otelship/lib/wire"
)

const (
	keyValueFieldKey   wire.Number = 1
	keyValueFieldValue wire.Number = 2

	// AnyValue variant fields. These are oneof members: the selected
	// variant is emitted even when it holds its type's zero value,
	// because "set to false" and "absent" are different statements.
	anyValueFieldString wire.Number = 1
	anyValueFieldBool   wire.Number = 2
	anyValueFieldInt    wire.Number = 3
	anyValueFieldDouble wire.Number = 4
	anyValueFieldArray  wire.Number = 5

	arrayValueFieldValues wire.Number = 1
)

// appendAttributes appends attrs as repeated KeyValue messages under
// the given field. KeyValues holding an invalid (never populated)
// Value are skipped with a warning; their well-formed siblings encode
// normally.
func (e *Encoder) appendAttributes(buf []byte, field wire.Number, attrs []telemetry.KeyValue) []byte {
	for i := range attrs {
		if attrs[i].Value.Kind == telemetry.KindInvalid {
			e.logger.Warn("skipping attribute with unpopulated value", "key", attrs[i].Key)
			continue
		}
		buf = wire.AppendMessage(buf, field, e.appendKeyValue(nil, &attrs[i]))
	}
	return buf
}

// appendKeyValue appends the KeyValue message body: key string, value
// AnyValue. The key is emitted sparsely (an empty key is omitted); the
// value message is always present.
func (e *Encoder) appendKeyValue(buf []byte, kv *telemetry.KeyValue) []byte {
	buf = wire.AppendString(buf, keyValueFieldKey, kv.Key)
	return wire.AppendMessage(buf, keyValueFieldValue, e.appendAnyValue(nil, kv.Value))
}

// appendAnyValue appends the AnyValue message body for v. Callers
// filter KindInvalid before reaching here; an invalid kind encodes as
// an empty AnyValue.
func (e *Encoder) appendAnyValue(buf []byte, v telemetry.Value) []byte {
	switch v.Kind {
	case telemetry.KindString:
		buf = wire.AppendTag(buf, anyValueFieldString, wire.TypeBytes)
		buf = wire.AppendVarint(buf, uint64(len(v.Str)))
		buf = append(buf, v.Str...)
	case telemetry.KindBool:
		buf = wire.AppendTag(buf, anyValueFieldBool, wire.TypeVarint)
		if v.Bool {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	case telemetry.KindInt:
		buf = wire.AppendTag(buf, anyValueFieldInt, wire.TypeVarint)
		buf = wire.AppendVarint(buf, uint64(v.Int))
	case telemetry.KindDouble:
		buf = wire.AppendDoubleField(buf, anyValueFieldDouble, v.Double)
	case telemetry.KindStringSlice:
		buf = e.appendArrayValue(buf, len(v.Strs), func(child []byte, i int) []byte {
			return e.appendAnyValue(child, telemetry.StringValue(v.Strs[i]))
		})
	case telemetry.KindBoolSlice:
		buf = e.appendArrayValue(buf, len(v.Bools), func(child []byte, i int) []byte {
			return e.appendAnyValue(child, telemetry.BoolValue(v.Bools[i]))
		})
	case telemetry.KindIntSlice:
		buf = e.appendArrayValue(buf, len(v.Ints), func(child []byte, i int) []byte {
			return e.appendAnyValue(child, telemetry.IntValue(v.Ints[i]))
		})
	case telemetry.KindDoubleSlice:
		buf = e.appendArrayValue(buf, len(v.Doubles), func(child []byte, i int) []byte {
			return e.appendAnyValue(child, telemetry.DoubleValue(v.Doubles[i]))
		})
	}
	return buf
}

// appendArrayValue appends the array_value oneof member: an ArrayValue
// message holding count AnyValue elements. An empty slice still emits
// the ArrayValue so that "set to empty list" survives the wire.
func (e *Encoder) appendArrayValue(buf []byte, count int, appendElement func(buf []byte, index int) []byte) []byte {
	var array []byte
	for i := 0; i < count; i++ {
		array = wire.AppendMessage(array, arrayValueFieldValues, appendElement(nil, i))
	}
	return wire.AppendMessage(buf, anyValueFieldArray, array)
}

// appendHexID appends a trace or span ID given as a hex string.
//
// Empty input omits the field: the ID is absent, as with a root span's
// parent. Malformed input (wrong length or non-hex characters) emits
// the field with an empty payload and logs a warning; the record and
// its siblings still encode. byteLength is the decoded length the
// field requires: 16 for trace IDs, 8 for span IDs.
func (e *Encoder) appendHexID(buf []byte, field wire.Number, value string, byteLength int, fieldName string) []byte {
	if value == "" {
		return buf
	}
	decoded, err := hex.DecodeString(value)
	if err != nil || len(decoded) != byteLength {
		e.logger.Warn("malformed hex ID, emitting empty",
			"field", fieldName,
			"value", value,
			"expected_bytes", byteLength,
		)
		return wire.AppendBytes(buf, field, nil)
	}
	return wire.AppendBytes(buf, field, decoded)
}
