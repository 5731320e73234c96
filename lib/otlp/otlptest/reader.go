// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package otlptest

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// fieldReader walks the fields of one protobuf message. Call next to
// advance to each field, then the accessor matching the field's
// expected wire type. Errors are sticky: after any wire-format error
// next returns false and err reports the failure, so decode loops can
// check once after the loop.
type fieldReader struct {
	buf      []byte
	field    protowire.Number
	wireType protowire.Type
	failure  error
}

func newFieldReader(msg []byte) *fieldReader {
	return &fieldReader{buf: msg}
}

// next advances to the next field. Returns false at end of message or
// on error.
func (r *fieldReader) next() bool {
	if r.failure != nil || len(r.buf) == 0 {
		return false
	}
	field, wireType, n := protowire.ConsumeTag(r.buf)
	if n < 0 {
		r.failure = fmt.Errorf("otlptest: malformed field tag: %w", protowire.ParseError(n))
		return false
	}
	r.buf = r.buf[n:]
	r.field = field
	r.wireType = wireType
	return true
}

// err returns the first wire-format error encountered, if any.
func (r *fieldReader) err() error {
	return r.failure
}

// bytes consumes the current field as a length-delimited payload. The
// returned slice aliases the input buffer; copy before retaining.
func (r *fieldReader) bytes() []byte {
	if r.failure != nil {
		return nil
	}
	if r.wireType != protowire.BytesType {
		r.failure = fmt.Errorf("otlptest: field %d: expected length-delimited, got wire type %d", r.field, r.wireType)
		return nil
	}
	v, n := protowire.ConsumeBytes(r.buf)
	if n < 0 {
		r.failure = fmt.Errorf("otlptest: field %d: truncated length-delimited payload: %w", r.field, protowire.ParseError(n))
		return nil
	}
	r.buf = r.buf[n:]
	return v
}

// varint consumes the current field as a varint.
func (r *fieldReader) varint() uint64 {
	if r.failure != nil {
		return 0
	}
	if r.wireType != protowire.VarintType {
		r.failure = fmt.Errorf("otlptest: field %d: expected varint, got wire type %d", r.field, r.wireType)
		return 0
	}
	v, n := protowire.ConsumeVarint(r.buf)
	if n < 0 {
		r.failure = fmt.Errorf("otlptest: field %d: truncated varint: %w", r.field, protowire.ParseError(n))
		return 0
	}
	r.buf = r.buf[n:]
	return v
}

// fixed64 consumes the current field as 8 little-endian bytes.
func (r *fieldReader) fixed64() uint64 {
	if r.failure != nil {
		return 0
	}
	if r.wireType != protowire.Fixed64Type {
		r.failure = fmt.Errorf("otlptest: field %d: expected fixed64, got wire type %d", r.field, r.wireType)
		return 0
	}
	v, n := protowire.ConsumeFixed64(r.buf)
	if n < 0 {
		r.failure = fmt.Errorf("otlptest: field %d: truncated fixed64: %w", r.field, protowire.ParseError(n))
		return 0
	}
	r.buf = r.buf[n:]
	return v
}

// skip consumes and discards the current field, whatever its type.
func (r *fieldReader) skip() {
	if r.failure != nil {
		return
	}
	n := protowire.ConsumeFieldValue(r.field, r.wireType, r.buf)
	if n < 0 {
		r.failure = fmt.Errorf("otlptest: field %d: cannot skip: %w", r.field, protowire.ParseError(n))
		return
	}
	r.buf = r.buf[n:]
}

// bytesCopy returns a copy of b that survives further reads from the
// underlying buffer. An empty payload stays non-nil so that presence
// survives.
func bytesCopy(b []byte) []byte {
	copied := make([]byte, len(b))
	copy(copied, b)
	return copied
}
