package types

import "time"

// Tolerance describes acceptable approximate-equality margins for the
// comparison operator family. A nil or zero Tolerance means exact semantics.
//
// Fields are pointers so "absent" is distinguishable from "zero margin".
// Only comparison code generation consumes a Tolerance; all other operators
// ignore it.
type Tolerance struct {
	// RangeLower and RangeUpper are absolute numeric deltas. Under equality,
	// b matches a when b >= a-RangeLower and b <= a+RangeUpper.
	RangeLower *float64
	RangeUpper *float64

	// IntegerRangeLower and IntegerRangeUpper are absolute integer deltas,
	// applied only when both operands resolved to integer numerics.
	IntegerRangeLower *int64
	IntegerRangeUpper *int64

	// Proportional is a multiplicative margin, > 1. Under equality, b matches
	// a (a != 0) when b lies within [a/Proportional, a*Proportional].
	Proportional *float64

	// Percentage is a fractional margin in (0, 1). Under equality, b matches
	// a (a != 0) when b lies within [a-|a|*Percentage, a+|a|*Percentage].
	Percentage *float64

	// Time is an absolute margin expressed as a duration; numeric operands
	// are treated as second counts when it applies.
	Time *time.Duration
}

// IsZero reports whether no margin is configured at all.
func (t *Tolerance) IsZero() bool {
	if t == nil {
		return true
	}
	return t.RangeLower == nil && t.RangeUpper == nil &&
		t.IntegerRangeLower == nil && t.IntegerRangeUpper == nil &&
		t.Proportional == nil && t.Percentage == nil && t.Time == nil
}

// Fingerprint returns a short stable description of which margins are set
// and their values, used as part of generated-closure cache keys.
func (t *Tolerance) Fingerprint() string {
	if t.IsZero() {
		return "exact"
	}
	fp := make([]byte, 0, 64)
	appendF := func(tag byte, f *float64) {
		if f != nil {
			fp = append(fp, tag)
			fp = append(fp, []byte(FloatValue(*f).String())...)
			fp = append(fp, ';')
		}
	}
	appendI := func(tag byte, i *int64) {
		if i != nil {
			fp = append(fp, tag)
			fp = append(fp, []byte(IntValue(*i).String())...)
			fp = append(fp, ';')
		}
	}
	appendF('l', t.RangeLower)
	appendF('u', t.RangeUpper)
	appendI('L', t.IntegerRangeLower)
	appendI('U', t.IntegerRangeUpper)
	appendF('p', t.Proportional)
	appendF('%', t.Percentage)
	if t.Time != nil {
		fp = append(fp, 't')
		fp = append(fp, []byte(t.Time.String())...)
		fp = append(fp, ';')
	}
	return string(fp)
}

// SymmetricRange builds a Tolerance with the same absolute delta on both
// sides, the most common shape.
func SymmetricRange(delta float64) *Tolerance {
	d := delta
	return &Tolerance{RangeLower: &d, RangeUpper: &d}
}

// SymmetricIntegerRange builds a Tolerance with the same integer delta on
// both sides.
func SymmetricIntegerRange(delta int64) *Tolerance {
	d := delta
	return &Tolerance{IntegerRangeLower: &d, IntegerRangeUpper: &d}
}
