package types

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// Value is the runtime carrier for the five supported kinds. Numeric values
// keep an integer and a float representation side by side, discriminated by
// the float flag, so generated code can stay on the integer fast path until
// a float actually enters the computation.
//
// The zero Value has kind Unknown and is never produced by a successful
// evaluation.
type Value struct {
	kind    ValueKind
	isFloat bool
	i       int64
	f       float64
	b       bool
	s       string
	bytes   []byte
}

// IntValue creates an integer numeric Value.
func IntValue(v int64) Value {
	return Value{kind: Numeric, i: v}
}

// FloatValue creates a floating-point numeric Value.
func FloatValue(v float64) Value {
	return Value{kind: Numeric, isFloat: true, f: v}
}

// BoolValue creates a boolean Value.
func BoolValue(v bool) Value {
	return Value{kind: Boolean, b: v}
}

// StringValue creates a string Value.
func StringValue(v string) Value {
	return Value{kind: String, s: v}
}

// BytesValue creates a byte-array Value. The slice is taken by reference;
// callers that go on mutating it must copy first.
func BytesValue(v []byte) Value {
	return Value{kind: ByteArray, bytes: v}
}

// Kind returns the value's kind.
func (v Value) Kind() ValueKind { return v.kind }

// IsFloat reports whether a numeric value carries a float payload.
func (v Value) IsFloat() bool { return v.isFloat }

// Int returns the integer payload. For float payloads it truncates.
func (v Value) Int() int64 {
	if v.isFloat {
		return int64(v.f)
	}
	return v.i
}

// Float returns the numeric payload widened to float64.
func (v Value) Float() float64 {
	if v.isFloat {
		return v.f
	}
	return float64(v.i)
}

// Bool returns the boolean payload.
func (v Value) Bool() bool { return v.b }

// Str returns the string payload.
func (v Value) Str() string { return v.s }

// Bytes returns the byte-array payload.
func (v Value) Bytes() []byte { return v.bytes }

// Any unwraps the value to its plain Go representation:
// int64, float64, bool, string or []byte.
func (v Value) Any() any {
	switch v.kind {
	case Boolean:
		return v.b
	case ByteArray:
		return v.bytes
	case Numeric:
		if v.isFloat {
			return v.f
		}
		return v.i
	case String:
		return v.s
	default:
		return nil
	}
}

// String renders the value for diagnostics.
func (v Value) String() string {
	switch v.kind {
	case Boolean:
		return strconv.FormatBool(v.b)
	case ByteArray:
		return fmt.Sprintf("0x%x", v.bytes)
	case Numeric:
		if v.isFloat {
			return strconv.FormatFloat(v.f, 'g', -1, 64)
		}
		return strconv.FormatInt(v.i, 10)
	case String:
		return v.s
	default:
		return "<unknown>"
	}
}

// CompareBytes compares two byte arrays most-significant-byte first, treating
// each as a big-endian arbitrary-precision magnitude. Leading zero bytes are
// insignificant: [0x00 0x01] and [0x01] compare equal. Returns -1, 0 or 1.
func CompareBytes(a, b []byte) int {
	a = trimLeadingZeros(a)
	b = trimLeadingZeros(b)
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return bytes.Compare(a, b)
}

// BytesEqual reports MSB-first equality of two byte arrays.
func BytesEqual(a, b []byte) bool {
	return CompareBytes(a, b) == 0
}

func trimLeadingZeros(b []byte) []byte {
	i := 0
	for i < len(b) && b[i] == 0 {
		i++
	}
	return b[i:]
}

// IntegralFloat reports whether f holds an integral value representable
// as an int64.
func IntegralFloat(f float64) bool {
	return f == math.Trunc(f) && !math.IsInf(f, 0) && !math.IsNaN(f) &&
		f >= math.MinInt64 && f <= math.MaxInt64
}
