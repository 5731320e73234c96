// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the standard CBOR encoding configuration.
//
// The module uses two serialization formats with a clear boundary:
//
//   - Protobuf for the OTLP wire format (lib/wire, lib/otlp): what
//     collectors receive.
//   - CBOR for the local submission protocol: what services send the
//     relay over its Unix socket, and what the relay accumulates
//     before encoding.
//
// JSON appears only at inspection surfaces (the mock collector's
// status endpoints, CLI output) and reuses the same struct tags.
//
// This package provides the shared CBOR encoding and decoding modes so
// that every package encodes identically without duplicating
// configuration. The encoder uses Core Deterministic Encoding (RFC
// 8949 §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items. Same logical data always produces identical
// bytes.
//
// For buffer-oriented operations:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented operations (sockets):
//
//	encoder := codec.NewEncoder(conn)
//	decoder := codec.NewDecoder(conn)
//
// # Struct Tag Rules
//
// The struct tag on a type documents its serialization format:
//
//   - `cbor` tag: this type is ONLY ever serialized as CBOR and never
//     appears in JSON output. Examples: the socket protocol envelope
//     (ipc.Response), request headers.
//   - `json` tag: this type may be serialized as BOTH JSON and CBOR.
//     fxamacker/cbor v2 reads `json` tags as fallback when `cbor`
//     tags are absent, so a single `json` tag controls field naming
//     and omitempty for both formats. Examples: the telemetry record
//     types, which ride the CBOR socket protocol and also appear in
//     the mock collector's JSON inspection endpoints.
//
// Never use both `cbor` and `json` tags on the same field. The tag
// choice documents the contract; doubling up is noise that obscures
// whether a type participates in JSON serialization.
package codec
