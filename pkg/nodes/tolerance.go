package nodes

import (
	"math"

	"github.com/gocompute/gocompute/pkg/types"
)

// equalTolerant implements tolerance-aware numeric equality with l as the
// reference operand. The first applicable margin wins, in the order: integer
// range (integer operands only), absolute range, proportional, percentage,
// time. With no applicable margin the comparison stays exact.
func equalTolerant(l, r types.Value, tol *types.Tolerance) bool {
	if !l.IsFloat() && !r.IsFloat() &&
		(tol.IntegerRangeLower != nil || tol.IntegerRangeUpper != nil) {
		var lo, hi int64
		if tol.IntegerRangeLower != nil {
			lo = *tol.IntegerRangeLower
		}
		if tol.IntegerRangeUpper != nil {
			hi = *tol.IntegerRangeUpper
		}
		return r.Int() >= l.Int()-lo && r.Int() <= l.Int()+hi
	}
	lf, rf := l.Float(), r.Float()
	if tol.RangeLower != nil || tol.RangeUpper != nil {
		var lo, hi float64
		if tol.RangeLower != nil {
			lo = *tol.RangeLower
		}
		if tol.RangeUpper != nil {
			hi = *tol.RangeUpper
		}
		return rf >= lf-lo && rf <= lf+hi
	}
	if tol.Proportional != nil && *tol.Proportional > 1 && lf != 0 {
		a, b := lf / *tol.Proportional, lf * *tol.Proportional
		return rf >= math.Min(a, b) && rf <= math.Max(a, b)
	}
	if tol.Percentage != nil && *tol.Percentage > 0 && *tol.Percentage < 1 && lf != 0 {
		d := math.Abs(lf) * *tol.Percentage
		return rf >= lf-d && rf <= lf+d
	}
	if tol.Time != nil {
		return math.Abs(lf-rf) <= tol.Time.Seconds()
	}
	return exactNumeric(OpEqual, l, r)
}

// upperMargin computes the slack added above ref for relaxed orderings.
// other participates only in the integer-range decision.
func upperMargin(tol *types.Tolerance, ref, other types.Value) float64 {
	if !ref.IsFloat() && !other.IsFloat() && tol.IntegerRangeUpper != nil {
		return float64(*tol.IntegerRangeUpper)
	}
	rf := ref.Float()
	switch {
	case tol.RangeUpper != nil:
		return *tol.RangeUpper
	case tol.Proportional != nil && *tol.Proportional > 1:
		return math.Abs(rf) * (*tol.Proportional - 1)
	case tol.Percentage != nil && *tol.Percentage > 0 && *tol.Percentage < 1:
		return math.Abs(rf) * *tol.Percentage
	case tol.Time != nil:
		return tol.Time.Seconds()
	default:
		return 0
	}
}

// lowerMargin computes the slack subtracted below ref for relaxed orderings.
func lowerMargin(tol *types.Tolerance, ref, other types.Value) float64 {
	if !ref.IsFloat() && !other.IsFloat() && tol.IntegerRangeLower != nil {
		return float64(*tol.IntegerRangeLower)
	}
	rf := ref.Float()
	switch {
	case tol.RangeLower != nil:
		return *tol.RangeLower
	case tol.Proportional != nil && *tol.Proportional > 1:
		return math.Abs(rf) * (*tol.Proportional - 1)
	case tol.Percentage != nil && *tol.Percentage > 0 && *tol.Percentage < 1:
		return math.Abs(rf) * *tol.Percentage
	case tol.Time != nil:
		return tol.Time.Seconds()
	default:
		return 0
	}
}
