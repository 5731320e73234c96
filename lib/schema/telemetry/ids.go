// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// TraceID is a 16-byte trace identifier. The zero value means "no
// trace". Its text form is 32 lowercase hex characters, the form the
// Span.TraceID string field carries.
type TraceID [16]byte

// SpanID is an 8-byte span identifier. The zero value means "no span".
// Its text form is 16 lowercase hex characters.
type SpanID [8]byte

// NewTraceID generates a cryptographically random 16-byte trace ID.
// Panics if the system entropy source fails, which indicates a
// system-level failure that no caller can recover from.
func NewTraceID() TraceID {
	var id TraceID
	if _, err := rand.Read(id[:]); err != nil {
		panic("telemetry: failed to generate TraceID: " + err.Error())
	}
	return id
}

// NewSpanID generates a cryptographically random 8-byte span ID.
// Panics if the system entropy source fails.
func NewSpanID() SpanID {
	var id SpanID
	if _, err := rand.Read(id[:]); err != nil {
		panic("telemetry: failed to generate SpanID: " + err.Error())
	}
	return id
}

// IsZero reports whether the ID is all zero bytes.
func (id TraceID) IsZero() bool { return id == TraceID{} }

// String returns the 32-character lowercase hex form.
func (id TraceID) String() string { return hex.EncodeToString(id[:]) }

// MarshalText implements encoding.TextMarshaler.
func (id TraceID) MarshalText() ([]byte, error) {
	encoded := make([]byte, hex.EncodedLen(len(id)))
	hex.Encode(encoded, id[:])
	return encoded, nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It requires
// exactly 32 lowercase or uppercase hex characters.
func (id *TraceID) UnmarshalText(text []byte) error {
	if len(text) != hex.EncodedLen(len(id)) {
		return fmt.Errorf("telemetry: TraceID must be %d hex characters, got %d", hex.EncodedLen(len(id)), len(text))
	}
	if _, err := hex.Decode(id[:], text); err != nil {
		return fmt.Errorf("telemetry: invalid TraceID %q: %w", text, err)
	}
	return nil
}

// IsZero reports whether the ID is all zero bytes.
func (id SpanID) IsZero() bool { return id == SpanID{} }

// String returns the 16-character lowercase hex form.
func (id SpanID) String() string { return hex.EncodeToString(id[:]) }

// MarshalText implements encoding.TextMarshaler.
func (id SpanID) MarshalText() ([]byte, error) {
	encoded := make([]byte, hex.EncodedLen(len(id)))
	hex.Encode(encoded, id[:])
	return encoded, nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It requires
// exactly 16 lowercase or uppercase hex characters.
func (id *SpanID) UnmarshalText(text []byte) error {
	if len(text) != hex.EncodedLen(len(id)) {
		return fmt.Errorf("telemetry: SpanID must be %d hex characters, got %d", hex.EncodedLen(len(id)), len(text))
	}
	if _, err := hex.Decode(id[:], text); err != nil {
		return fmt.Errorf("telemetry: invalid SpanID %q: %w", text, err)
	}
	return nil
}
