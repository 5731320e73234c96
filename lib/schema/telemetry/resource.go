// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

// Resource identifies the entity producing telemetry: the service,
// host, or process the records describe. One Resource covers every
// record in a batch.
type Resource struct {
	// Attributes describe the entity, e.g. service.name,
	// host.name. Encoded in order.
	Attributes []KeyValue `json:"attributes,omitempty"`
}

// Scope identifies the instrumentation emitting telemetry within a
// resource, typically a library name and version. One Scope covers
// every record in a batch.
type Scope struct {
	// Name is the instrumentation scope name. Empty is omitted from
	// the wire.
	Name string `json:"name,omitempty"`

	// Version is the instrumentation scope version. Empty is omitted
	// from the wire.
	Version string `json:"version,omitempty"`
}
