// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import "errors"

// SubmitRequest is the wire format for the "submit" action on the
// relay socket. Local services send completed spans and metric
// observations using this structure; the relay accumulates them and
// ships them to the configured collector.
//
// The resource and instrumentation scope are relay configuration, not
// submitter input: every record a relay ships is attributed to the
// machine the relay runs on. At least one of the two record slices
// must be non-empty.
type SubmitRequest struct {
	// Spans are completed trace spans to submit.
	Spans []Span `json:"spans,omitempty"`

	// Metrics are metric streams to submit.
	Metrics []Metric `json:"metrics,omitempty"`
}

// Validate checks that the request carries at least one record.
func (r *SubmitRequest) Validate() error {
	if len(r.Spans) == 0 && len(r.Metrics) == 0 {
		return errors.New("submit request must contain at least one span or metric")
	}
	return nil
}
