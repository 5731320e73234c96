// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

// ValueKind discriminates the variants of [Value]. The zero value,
// KindInvalid, marks a Value that was never populated; encoders skip
// such values and log a warning rather than guessing a type.
type ValueKind int

const (
	// KindInvalid is the zero ValueKind. A KeyValue carrying an
	// invalid Value is dropped at encode time.
	KindInvalid ValueKind = iota
	// KindString is a UTF-8 string value.
	KindString
	// KindBool is a boolean value.
	KindBool
	// KindInt is a 64-bit signed integer value.
	KindInt
	// KindDouble is a 64-bit IEEE-754 floating point value.
	KindDouble
	// KindStringSlice is an ordered list of strings.
	KindStringSlice
	// KindBoolSlice is an ordered list of booleans.
	KindBoolSlice
	// KindIntSlice is an ordered list of 64-bit integers.
	KindIntSlice
	// KindDoubleSlice is an ordered list of 64-bit floats.
	KindDoubleSlice
)

// String returns the kind name for logging.
func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindStringSlice:
		return "string_slice"
	case KindBoolSlice:
		return "bool_slice"
	case KindIntSlice:
		return "int_slice"
	case KindDoubleSlice:
		return "double_slice"
	default:
		return "invalid"
	}
}

// Value is an attribute value: a tagged variant over the closed set of
// types the wire format can carry. Exactly the field selected by Kind
// is meaningful; the rest stay at their zero values. Construct Values
// with the typed constructors (StringValue, IntValue, ...) rather than
// by struct literal so the Kind and the payload field cannot drift.
type Value struct {
	// Kind selects which payload field below is meaningful.
	Kind ValueKind `json:"kind"`

	// Str holds the payload for KindString.
	Str string `json:"str,omitempty"`

	// Bool holds the payload for KindBool.
	Bool bool `json:"bool,omitempty"`

	// Int holds the payload for KindInt.
	Int int64 `json:"int,omitempty"`

	// Double holds the payload for KindDouble.
	Double float64 `json:"double,omitempty"`

	// Strs holds the payload for KindStringSlice.
	Strs []string `json:"strs,omitempty"`

	// Bools holds the payload for KindBoolSlice.
	Bools []bool `json:"bools,omitempty"`

	// Ints holds the payload for KindIntSlice.
	Ints []int64 `json:"ints,omitempty"`

	// Doubles holds the payload for KindDoubleSlice.
	Doubles []float64 `json:"doubles,omitempty"`
}

// StringValue returns a Value holding s.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// BoolValue returns a Value holding b.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// IntValue returns a Value holding v.
func IntValue(v int64) Value { return Value{Kind: KindInt, Int: v} }

// DoubleValue returns a Value holding f.
func DoubleValue(f float64) Value { return Value{Kind: KindDouble, Double: f} }

// StringSliceValue returns a Value holding vs. The slice is not
// copied; callers must not mutate it after handing it off.
func StringSliceValue(vs []string) Value { return Value{Kind: KindStringSlice, Strs: vs} }

// BoolSliceValue returns a Value holding vs.
func BoolSliceValue(vs []bool) Value { return Value{Kind: KindBoolSlice, Bools: vs} }

// IntSliceValue returns a Value holding vs.
func IntSliceValue(vs []int64) Value { return Value{Kind: KindIntSlice, Ints: vs} }

// DoubleSliceValue returns a Value holding vs.
func DoubleSliceValue(vs []float64) Value { return Value{Kind: KindDoubleSlice, Doubles: vs} }

// KeyValue is a single attribute. Attributes are carried as ordered
// slices, not maps: encode output must be deterministic for equal
// input, and map iteration order would randomize it.
type KeyValue struct {
	// Key is the attribute name.
	Key string `json:"key"`

	// Value is the attribute value.
	Value Value `json:"value"`
}

// String attaches a string attribute. Shorthand for building
// attribute lists inline:
//
//	Attributes: []telemetry.KeyValue{
//	    telemetry.String("http.method", "GET"),
//	    telemetry.Int("http.status_code", 200),
//	}
func String(key, value string) KeyValue { return KeyValue{Key: key, Value: StringValue(value)} }

// Bool attaches a boolean attribute.
func Bool(key string, value bool) KeyValue { return KeyValue{Key: key, Value: BoolValue(value)} }

// Int attaches an integer attribute.
func Int(key string, value int64) KeyValue { return KeyValue{Key: key, Value: IntValue(value)} }

// Double attaches a floating point attribute.
func Double(key string, value float64) KeyValue {
	return KeyValue{Key: key, Value: DoubleValue(value)}
}
