// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package otlptest

import (
	"fmt"
	"math"

	"github.com/bureau-foundation/otelship/lib/schema/telemetry"
)

// decodeResource decodes a Resource message into the schema type.
func decodeResource(msg []byte) (telemetry.Resource, error) {
	var resource telemetry.Resource
	r := newFieldReader(msg)
	for r.next() {
		switch r.field {
		case 1: // attributes
			kv, err := decodeKeyValue(r.bytes())
			if err != nil {
				return resource, err
			}
			resource.Attributes = append(resource.Attributes, kv)
		default:
			r.skip()
		}
	}
	return resource, r.err()
}

// decodeScope decodes an InstrumentationScope message.
func decodeScope(msg []byte) (telemetry.Scope, error) {
	var scope telemetry.Scope
	r := newFieldReader(msg)
	for r.next() {
		switch r.field {
		case 1:
			scope.Name = string(r.bytes())
		case 2:
			scope.Version = string(r.bytes())
		default:
			r.skip()
		}
	}
	return scope, r.err()
}

// decodeKeyValue decodes a KeyValue message.
func decodeKeyValue(msg []byte) (telemetry.KeyValue, error) {
	var kv telemetry.KeyValue
	r := newFieldReader(msg)
	for r.next() {
		switch r.field {
		case 1:
			kv.Key = string(r.bytes())
		case 2:
			value, err := decodeAnyValue(r.bytes())
			if err != nil {
				return kv, err
			}
			kv.Value = value
		default:
			r.skip()
		}
	}
	return kv, r.err()
}

// decodeAnyValue decodes an AnyValue message into a schema Value.
//
// Arrays must be homogeneous; a mixed-kind array is an error. An empty
// array decodes as an empty string slice: the element type of an empty
// list is not recoverable from the wire.
func decodeAnyValue(msg []byte) (telemetry.Value, error) {
	var value telemetry.Value
	r := newFieldReader(msg)
	for r.next() {
		switch r.field {
		case 1:
			value = telemetry.StringValue(string(r.bytes()))
		case 2:
			value = telemetry.BoolValue(r.varint() != 0)
		case 3:
			value = telemetry.IntValue(int64(r.varint()))
		case 4:
			value = telemetry.DoubleValue(math.Float64frombits(r.fixed64()))
		case 5:
			array, err := decodeArrayValue(r.bytes())
			if err != nil {
				return value, err
			}
			value = array
		default:
			r.skip()
		}
	}
	return value, r.err()
}

// decodeArrayValue decodes an ArrayValue message into the slice Value
// kind matching its elements.
func decodeArrayValue(msg []byte) (telemetry.Value, error) {
	var elements []telemetry.Value
	r := newFieldReader(msg)
	for r.next() {
		switch r.field {
		case 1:
			element, err := decodeAnyValue(r.bytes())
			if err != nil {
				return telemetry.Value{}, err
			}
			elements = append(elements, element)
		default:
			r.skip()
		}
	}
	if err := r.err(); err != nil {
		return telemetry.Value{}, err
	}

	if len(elements) == 0 {
		return telemetry.StringSliceValue([]string{}), nil
	}

	kind := elements[0].Kind
	for _, element := range elements[1:] {
		if element.Kind != kind {
			return telemetry.Value{}, fmt.Errorf("otlptest: mixed-kind array: %v and %v", kind, element.Kind)
		}
	}

	switch kind {
	case telemetry.KindString:
		vs := make([]string, len(elements))
		for i, element := range elements {
			vs[i] = element.Str
		}
		return telemetry.StringSliceValue(vs), nil
	case telemetry.KindBool:
		vs := make([]bool, len(elements))
		for i, element := range elements {
			vs[i] = element.Bool
		}
		return telemetry.BoolSliceValue(vs), nil
	case telemetry.KindInt:
		vs := make([]int64, len(elements))
		for i, element := range elements {
			vs[i] = element.Int
		}
		return telemetry.IntSliceValue(vs), nil
	case telemetry.KindDouble:
		vs := make([]float64, len(elements))
		for i, element := range elements {
			vs[i] = element.Double
		}
		return telemetry.DoubleSliceValue(vs), nil
	default:
		return telemetry.Value{}, fmt.Errorf("otlptest: array of unsupported element kind %v", kind)
	}
}
