package nodes

import (
	"github.com/gocompute/gocompute/pkg/types"
)

// NumericConstant is an integer or floating-point literal. The payload
// representation (int64 vs float64) follows the is-float flag; the numeric
// value itself never changes after construction, though integer evidence may
// normalize an integral float payload to its integer representation.
type NumericConstant struct {
	i       int64
	f       float64
	isFloat bool
}

// NewIntegerConstant creates an integer numeric constant.
func NewIntegerConstant(v int64) *NumericConstant {
	return &NumericConstant{i: v}
}

// NewFloatConstant creates a floating-point numeric constant.
func NewFloatConstant(v float64) *NumericConstant {
	return &NumericConstant{f: v, isFloat: true}
}

// Value returns the constant's payload as a Value.
func (n *NumericConstant) Value() types.Value {
	if n.isFloat {
		return types.FloatValue(n.f)
	}
	return types.IntValue(n.i)
}

// IsFloat reports whether the payload is floating point.
func (n *NumericConstant) IsFloat() bool { return n.isFloat }

func (n *NumericConstant) ReturnType() types.ValueKind { return types.Numeric }
func (n *NumericConstant) IsConstant() bool            { return true }
func (n *NumericConstant) IsTolerant() bool            { return false }
func (n *NumericConstant) Simplify() Node              { return n }

func (n *NumericConstant) DeepClone(*ParameterRegistry) Node {
	c := *n
	return &c
}

func (n *NumericConstant) DetermineStrongly(k types.ValueKind) error {
	if k != types.Numeric {
		return types.NotValidLogically("numeric constant cannot be %s", k)
	}
	return nil
}

func (n *NumericConstant) DetermineWeakly(set types.ValueKindSet) error {
	if !set.Has(types.Numeric) {
		return types.NotValidLogically("numeric constant cannot be %s", set)
	}
	return nil
}

// DetermineInteger constrains the constant to integer. An integral float
// payload is normalized; a fractional one fails logically.
func (n *NumericConstant) DetermineInteger() error {
	if !n.isFloat {
		return nil
	}
	if !types.IntegralFloat(n.f) {
		return types.NotValidLogically("constant %v is not an integer", n.f)
	}
	n.i = int64(n.f)
	n.isFloat = false
	return nil
}

// DetermineFloat records float evidence. Integer payloads stay integer; they
// widen for free during generation.
func (n *NumericConstant) DetermineFloat() error { return nil }

func (n *NumericConstant) Generate(*GenContext) (EvalFunc, error) {
	v := n.Value()
	return func(*Env) (types.Value, error) { return v, nil }, nil
}

// StringConstant is a string literal.
type StringConstant struct {
	v string
}

// NewStringConstant creates a string constant.
func NewStringConstant(v string) *StringConstant {
	return &StringConstant{v: v}
}

// Value returns the constant's payload.
func (n *StringConstant) Value() string { return n.v }

func (n *StringConstant) ReturnType() types.ValueKind      { return types.String }
func (n *StringConstant) IsConstant() bool                 { return true }
func (n *StringConstant) IsTolerant() bool                 { return false }
func (n *StringConstant) Simplify() Node                   { return n }
func (n *StringConstant) DeepClone(*ParameterRegistry) Node { c := *n; return &c }

func (n *StringConstant) DetermineStrongly(k types.ValueKind) error {
	if k != types.String {
		return types.NotValidLogically("string constant cannot be %s", k)
	}
	return nil
}

func (n *StringConstant) DetermineWeakly(set types.ValueKindSet) error {
	if !set.Has(types.String) {
		return types.NotValidLogically("string constant cannot be %s", set)
	}
	return nil
}

func (n *StringConstant) Generate(*GenContext) (EvalFunc, error) {
	v := types.StringValue(n.v)
	return func(*Env) (types.Value, error) { return v, nil }, nil
}

// BooleanConstant is a true/false literal.
type BooleanConstant struct {
	v bool
}

// NewBooleanConstant creates a boolean constant.
func NewBooleanConstant(v bool) *BooleanConstant {
	return &BooleanConstant{v: v}
}

// Value returns the constant's payload.
func (n *BooleanConstant) Value() bool { return n.v }

func (n *BooleanConstant) ReturnType() types.ValueKind       { return types.Boolean }
func (n *BooleanConstant) IsConstant() bool                  { return true }
func (n *BooleanConstant) IsTolerant() bool                  { return false }
func (n *BooleanConstant) Simplify() Node                    { return n }
func (n *BooleanConstant) DeepClone(*ParameterRegistry) Node { c := *n; return &c }

func (n *BooleanConstant) DetermineStrongly(k types.ValueKind) error {
	if k != types.Boolean {
		return types.NotValidLogically("boolean constant cannot be %s", k)
	}
	return nil
}

func (n *BooleanConstant) DetermineWeakly(set types.ValueKindSet) error {
	if !set.Has(types.Boolean) {
		return types.NotValidLogically("boolean constant cannot be %s", set)
	}
	return nil
}

func (n *BooleanConstant) Generate(*GenContext) (EvalFunc, error) {
	v := types.BoolValue(n.v)
	return func(*Env) (types.Value, error) { return v, nil }, nil
}

// ByteArrayConstant is a byte-array literal, compared MSB-first like a
// big-endian arbitrary-precision value.
type ByteArrayConstant struct {
	v []byte
}

// NewByteArrayConstant creates a byte-array constant. The slice is copied.
func NewByteArrayConstant(v []byte) *ByteArrayConstant {
	cp := make([]byte, len(v))
	copy(cp, v)
	return &ByteArrayConstant{v: cp}
}

// Value returns the constant's payload.
func (n *ByteArrayConstant) Value() []byte { return n.v }

func (n *ByteArrayConstant) ReturnType() types.ValueKind       { return types.ByteArray }
func (n *ByteArrayConstant) IsConstant() bool                  { return true }
func (n *ByteArrayConstant) IsTolerant() bool                  { return false }
func (n *ByteArrayConstant) Simplify() Node                    { return n }
func (n *ByteArrayConstant) DeepClone(*ParameterRegistry) Node { return NewByteArrayConstant(n.v) }

func (n *ByteArrayConstant) DetermineStrongly(k types.ValueKind) error {
	if k != types.ByteArray {
		return types.NotValidLogically("byte-array constant cannot be %s", k)
	}
	return nil
}

func (n *ByteArrayConstant) DetermineWeakly(set types.ValueKindSet) error {
	if !set.Has(types.ByteArray) {
		return types.NotValidLogically("byte-array constant cannot be %s", set)
	}
	return nil
}

func (n *ByteArrayConstant) Generate(*GenContext) (EvalFunc, error) {
	v := types.BytesValue(n.v)
	return func(*Env) (types.Value, error) { return v, nil }, nil
}

// ConstantFromValue wraps a runtime value back into its constant node. Used
// by the simplifier to replace folded subtrees.
func ConstantFromValue(v types.Value) Node {
	switch v.Kind() {
	case types.Boolean:
		return NewBooleanConstant(v.Bool())
	case types.ByteArray:
		return NewByteArrayConstant(v.Bytes())
	case types.String:
		return NewStringConstant(v.Str())
	default:
		if v.IsFloat() {
			return NewFloatConstant(v.Float())
		}
		return NewIntegerConstant(v.Int())
	}
}
