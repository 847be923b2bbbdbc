// Package types defines the core type system for gocompute.
//
// This package contains type definitions for:
//   - ValueKind: the closed set of value kinds the expression language supports
//   - ValueKindSet: a bitset over ValueKind used while a node is undetermined
//   - Value: the runtime value carrier passed through generated closures
//   - Tolerance: approximate-comparison margins consumed by code generation
//   - Error types: structured errors with codes
package types

import "strings"

// ValueKind identifies one of the value kinds an expression node can produce.
type ValueKind uint8

// The closed set of supported value kinds. A resolved node has exactly one.
const (
	Unknown ValueKind = iota
	Boolean
	ByteArray
	Numeric
	String
)

// String returns the kind name.
func (k ValueKind) String() string {
	switch k {
	case Boolean:
		return "boolean"
	case ByteArray:
		return "bytearray"
	case Numeric:
		return "numeric"
	case String:
		return "string"
	default:
		return "unknown"
	}
}

// Set returns the singleton ValueKindSet containing only k.
// Unknown maps to the empty set.
func (k ValueKind) Set() ValueKindSet {
	switch k {
	case Boolean:
		return SetBoolean
	case ByteArray:
		return SetByteArray
	case Numeric:
		return SetNumeric
	case String:
		return SetString
	default:
		return SetNone
	}
}

// ValueKindSet is a bitset over ValueKind, used to track the kinds a node
// could still resolve to while its type is undetermined (weak state).
type ValueKindSet uint8

// Bit assignments for ValueKindSet.
const (
	SetNone      ValueKindSet = 0
	SetBoolean   ValueKindSet = 1 << 0
	SetByteArray ValueKindSet = 1 << 1
	SetNumeric   ValueKindSet = 1 << 2
	SetString    ValueKindSet = 1 << 3
	SetAll                    = SetBoolean | SetByteArray | SetNumeric | SetString
)

// KindSet builds a ValueKindSet from individual kinds.
func KindSet(kinds ...ValueKind) ValueKindSet {
	var s ValueKindSet
	for _, k := range kinds {
		s |= k.Set()
	}
	return s
}

// Has reports whether k is a member of the set.
func (s ValueKindSet) Has(k ValueKind) bool {
	return s&k.Set() != 0
}

// Intersect returns the intersection of the two sets.
func (s ValueKindSet) Intersect(o ValueKindSet) ValueKindSet {
	return s & o
}

// IsEmpty reports whether the set contains no kinds.
func (s ValueKindSet) IsEmpty() bool {
	return s == SetNone
}

// Single returns the sole member of the set, if the set is a singleton.
func (s ValueKindSet) Single() (ValueKind, bool) {
	switch s {
	case SetBoolean:
		return Boolean, true
	case SetByteArray:
		return ByteArray, true
	case SetNumeric:
		return Numeric, true
	case SetString:
		return String, true
	default:
		return Unknown, false
	}
}

// String returns a human-readable member list, e.g. "numeric|string".
func (s ValueKindSet) String() string {
	if s == SetNone {
		return "none"
	}
	var parts []string
	for _, k := range []ValueKind{Boolean, ByteArray, Numeric, String} {
		if s.Has(k) {
			parts = append(parts, k.String())
		}
	}
	return strings.Join(parts, "|")
}
