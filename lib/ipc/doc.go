// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package ipc implements the CBOR request-response protocol spoken
// over the relay's Unix socket. Both cmd/otelship-relay and
// cmd/otelship-send import this package so the protocol lives in one
// place.
//
// Each connection carries exactly one request and one response. The
// client writes a single CBOR map containing an "action" field plus
// action-specific fields, the server routes on the action and replies
// with a Response envelope: {ok, error, data}. CBOR is
// self-delimiting, so there is no length framing on the wire.
//
// The socket is only reachable by local processes; file permissions on
// the socket path are the access control. The protocol itself carries
// no credentials.
package ipc
