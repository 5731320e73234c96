// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package wire provides append-style protobuf wire-format primitives:
// varints, fixed64 values, and length-delimited fields. It is the
// lowest layer of the OTLP encoder; it knows wire types and field
// tags, not message schemas.
//
// Every function appends to the supplied buffer and returns the
// extended slice, in the manner of strconv.AppendInt. Buffers only
// grow; nothing previously written is modified. Output is
// byte-identical to what a standard protobuf serializer produces for
// the same fields: varints use the minimal encoding, fixed64 values
// are little-endian, and length prefixes are themselves minimal
// varints.
//
// The field-granular helpers (AppendString, AppendVarintField,
// AppendBool, AppendPackedUint64, AppendPackedDouble) follow proto3
// presence rules and omit zero values entirely. AppendBytes and
// AppendMessage always emit, because for submessages and explicitly
// written byte fields the presence of the field is itself meaningful.
package wire
