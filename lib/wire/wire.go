// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"encoding/binary"
	"math"
)

// Type is a protobuf wire type: the low three bits of a field tag.
type Type uint64

const (
	// TypeVarint is wire type 0: base-128 varints (int32, int64,
	// uint64, bool, enums).
	TypeVarint Type = 0
	// TypeFixed64 is wire type 1: 8 bytes little-endian (fixed64,
	// sfixed64, double).
	TypeFixed64 Type = 1
	// TypeBytes is wire type 2: a varint length prefix followed by
	// that many bytes (strings, bytes, submessages, packed repeated
	// scalars).
	TypeBytes Type = 2
)

// Number is a protobuf field number. Valid field numbers are positive;
// this package trusts its callers (the OTLP builders use compile-time
// constants) and does not range-check.
type Number uint64

// AppendVarint appends v as a minimal-length base-128 varint.
func AppendVarint(buf []byte, v uint64) []byte {
	return binary.AppendUvarint(buf, v)
}

// AppendTag appends the field tag: the varint of field<<3 | wireType.
func AppendTag(buf []byte, field Number, wireType Type) []byte {
	return binary.AppendUvarint(buf, uint64(field)<<3|uint64(wireType))
}

// AppendFixed64 appends v as 8 little-endian bytes.
func AppendFixed64(buf []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(buf, v)
}

// AppendDouble appends the IEEE-754 bit pattern of f as 8
// little-endian bytes.
func AppendDouble(buf []byte, f float64) []byte {
	return binary.LittleEndian.AppendUint64(buf, math.Float64bits(f))
}

// AppendBytes appends a length-delimited field: tag, varint length,
// raw bytes. The field is emitted even when b is empty; callers that
// want proto3 omit-if-empty semantics check before calling.
func AppendBytes(buf []byte, field Number, b []byte) []byte {
	buf = AppendTag(buf, field, TypeBytes)
	buf = binary.AppendUvarint(buf, uint64(len(b)))
	return append(buf, b...)
}

// AppendString appends a length-delimited string field. Empty strings
// are omitted entirely per proto3 presence rules.
func AppendString(buf []byte, field Number, s string) []byte {
	if s == "" {
		return buf
	}
	buf = AppendTag(buf, field, TypeBytes)
	buf = binary.AppendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}

// AppendVarintField appends a varint field. Zero values are omitted
// entirely per proto3 presence rules.
func AppendVarintField(buf []byte, field Number, v uint64) []byte {
	if v == 0 {
		return buf
	}
	buf = AppendTag(buf, field, TypeVarint)
	return binary.AppendUvarint(buf, v)
}

// AppendBool appends a varint bool field. False is omitted entirely
// per proto3 presence rules.
func AppendBool(buf []byte, field Number, b bool) []byte {
	if !b {
		return buf
	}
	buf = AppendTag(buf, field, TypeVarint)
	return append(buf, 1)
}

// AppendFixed64Field appends a fixed64 field: tag plus 8 little-endian
// bytes. Not sparse; callers that omit zero timestamps check first.
func AppendFixed64Field(buf []byte, field Number, v uint64) []byte {
	buf = AppendTag(buf, field, TypeFixed64)
	return binary.LittleEndian.AppendUint64(buf, v)
}

// AppendDoubleField appends a double field: tag plus the value's
// IEEE-754 bits as 8 little-endian bytes.
func AppendDoubleField(buf []byte, field Number, f float64) []byte {
	buf = AppendTag(buf, field, TypeFixed64)
	return binary.LittleEndian.AppendUint64(buf, math.Float64bits(f))
}

// AppendMessage appends a submessage field: tag, varint length, the
// already-encoded message bytes. Emitted even when msg is empty; an
// empty submessage (for example a Status with only default fields) is
// still a present submessage.
func AppendMessage(buf []byte, field Number, msg []byte) []byte {
	buf = AppendTag(buf, field, TypeBytes)
	buf = binary.AppendUvarint(buf, uint64(len(msg)))
	return append(buf, msg...)
}

// AppendPackedUint64 appends a packed repeated uint64 field: tag,
// byte length, then each value as a varint. Empty slices are omitted
// entirely.
func AppendPackedUint64(buf []byte, field Number, vs []uint64) []byte {
	if len(vs) == 0 {
		return buf
	}
	packed := make([]byte, 0, 10*len(vs))
	for _, v := range vs {
		packed = binary.AppendUvarint(packed, v)
	}
	return AppendBytes(buf, field, packed)
}

// AppendPackedDouble appends a packed repeated double field: tag, byte
// length, then each value's IEEE-754 bits as 8 little-endian bytes.
// Empty slices are omitted entirely.
func AppendPackedDouble(buf []byte, field Number, vs []float64) []byte {
	if len(vs) == 0 {
		return buf
	}
	buf = AppendTag(buf, field, TypeBytes)
	buf = binary.AppendUvarint(buf, uint64(8*len(vs)))
	for _, v := range vs {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
	}
	return buf
}
