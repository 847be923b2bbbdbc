package nodes

import (
	"math"
	"math/big"

	"github.com/gocompute/gocompute/pkg/types"
)

// BinaryOp identifies a binary operation outside the comparison family.
type BinaryOp uint8

const (
	// OpAdd is numeric addition, string concatenation or byte-array
	// concatenation, depending on the unified operand kind.
	OpAdd BinaryOp = iota
	OpSubtract
	OpMultiply
	// OpDivide always produces a float, even over two integers.
	OpDivide
	OpModulo
	// OpPower always produces a float.
	OpPower
	// OpLeftShift and OpRightShift shift integer numerics or byte arrays
	// (MSB-first magnitudes) by an integer bit count.
	OpLeftShift
	OpRightShift
	// OpAnd, OpOr and OpXor are bitwise over integer numerics and logical
	// (non-short-circuit) over booleans.
	OpAnd
	OpOr
	OpXor
	// OpLogicalAnd and OpLogicalOr are short-circuit boolean connectives.
	OpLogicalAnd
	OpLogicalOr
)

var binaryOpNames = map[BinaryOp]string{
	OpAdd: "+", OpSubtract: "-", OpMultiply: "*", OpDivide: "/",
	OpModulo: "%", OpPower: "**", OpLeftShift: "<<", OpRightShift: ">>",
	OpAnd: "&", OpOr: "|", OpXor: "^", OpLogicalAnd: "&&", OpLogicalOr: "||",
}

func (op BinaryOp) String() string { return binaryOpNames[op] }

// BinaryNode applies a binary operation to two operands.
type BinaryNode struct {
	op    BinaryOp
	left  Node
	right Node
}

// NewBinaryNode builds a binary operation node. Operand kinds are
// constrained immediately according to the operator's semantics and
// fully-constant operands fold into a single constant node.
func NewBinaryNode(op BinaryOp, left, right Node) (Node, error) {
	n := &BinaryNode{op: op, left: left, right: right}
	var err error
	switch op {
	case OpAdd:
		err = unifyOperands(types.KindSet(types.Numeric, types.String, types.ByteArray), left, right)
	case OpSubtract, OpMultiply, OpModulo:
		err = determineBothStrongly(types.Numeric, left, right)
	case OpDivide, OpPower:
		if err = determineBothStrongly(types.Numeric, left, right); err == nil {
			err = DetermineFloat(left)
			if err == nil {
				err = DetermineFloat(right)
			}
		}
	case OpLeftShift, OpRightShift:
		if err = left.DetermineWeakly(types.KindSet(types.Numeric, types.ByteArray)); err == nil {
			if left.ReturnType() == types.Numeric {
				err = DetermineInteger(left)
			}
		}
		if err == nil {
			if err = right.DetermineStrongly(types.Numeric); err == nil {
				err = DetermineInteger(right)
			}
		}
	case OpAnd, OpOr, OpXor:
		if err = unifyOperands(types.KindSet(types.Boolean, types.Numeric), left, right); err == nil {
			if left.ReturnType() == types.Numeric || right.ReturnType() == types.Numeric {
				if err = DetermineInteger(left); err == nil {
					err = DetermineInteger(right)
				}
			}
		}
	case OpLogicalAnd, OpLogicalOr:
		err = determineBothStrongly(types.Boolean, left, right)
	}
	if err != nil {
		return nil, err
	}
	return n.Simplify(), nil
}

func determineBothStrongly(k types.ValueKind, left, right Node) error {
	if err := left.DetermineStrongly(k); err != nil {
		return err
	}
	return right.DetermineStrongly(k)
}

// possible returns the result-kind set of the operator irrespective of
// operand resolution.
func (n *BinaryNode) possible() types.ValueKindSet {
	switch n.op {
	case OpAdd:
		return types.KindSet(types.Numeric, types.String, types.ByteArray)
	case OpLeftShift, OpRightShift:
		return types.KindSet(types.Numeric, types.ByteArray)
	case OpAnd, OpOr, OpXor:
		return types.KindSet(types.Boolean, types.Numeric)
	case OpLogicalAnd, OpLogicalOr:
		return types.SetBoolean
	default:
		return types.SetNumeric
	}
}

func (n *BinaryNode) ReturnType() types.ValueKind {
	switch n.op {
	case OpAdd, OpAnd, OpOr, OpXor:
		if k := n.left.ReturnType(); k != types.Unknown {
			return k
		}
		return n.right.ReturnType()
	case OpLeftShift, OpRightShift:
		return n.left.ReturnType()
	case OpLogicalAnd, OpLogicalOr:
		return types.Boolean
	default:
		return types.Numeric
	}
}

func (n *BinaryNode) IsConstant() bool { return allConstant(n.left, n.right) }
func (n *BinaryNode) IsTolerant() bool { return anyTolerant(n.left, n.right) }
func (n *BinaryNode) Simplify() Node   { return foldConstant(n) }

func (n *BinaryNode) DeepClone(reg *ParameterRegistry) Node {
	return &BinaryNode{op: n.op, left: n.left.DeepClone(reg), right: n.right.DeepClone(reg)}
}

func (n *BinaryNode) DetermineStrongly(k types.ValueKind) error {
	if !n.possible().Has(k) {
		return types.NotValidLogically("%s-operation cannot be %s", n.op, k)
	}
	switch n.op {
	case OpAdd, OpAnd, OpOr, OpXor:
		if err := determineBothStrongly(k, n.left, n.right); err != nil {
			return err
		}
		if k == types.Numeric && (n.op == OpAnd || n.op == OpOr || n.op == OpXor) {
			if err := DetermineInteger(n.left); err != nil {
				return err
			}
			return DetermineInteger(n.right)
		}
		return nil
	case OpLeftShift, OpRightShift:
		return n.left.DetermineStrongly(k)
	default:
		// Result kind is fixed; nothing further to propagate.
		return nil
	}
}

func (n *BinaryNode) DetermineWeakly(set types.ValueKindSet) error {
	narrowed := n.possible().Intersect(set)
	if narrowed.IsEmpty() {
		return types.NotValidLogically("%s-operation cannot be %s", n.op, set)
	}
	if k, ok := narrowed.Single(); ok {
		return n.DetermineStrongly(k)
	}
	switch n.op {
	case OpAdd, OpAnd, OpOr, OpXor:
		if err := n.left.DetermineWeakly(narrowed); err != nil {
			return err
		}
		return n.right.DetermineWeakly(narrowed)
	case OpLeftShift, OpRightShift:
		return n.left.DetermineWeakly(narrowed)
	default:
		return nil
	}
}

func (n *BinaryNode) DetermineInteger() error {
	switch n.op {
	case OpDivide, OpPower:
		return types.NotValidLogically("%s-operation result cannot be an integer", n.op)
	case OpLogicalAnd, OpLogicalOr:
		return types.NotValidLogically("%s-operation result is boolean, not integer", n.op)
	case OpAdd, OpSubtract, OpMultiply, OpModulo:
		if err := determineBothStrongly(types.Numeric, n.left, n.right); err != nil {
			return err
		}
		if err := DetermineInteger(n.left); err != nil {
			return err
		}
		return DetermineInteger(n.right)
	case OpAnd, OpOr, OpXor:
		return n.DetermineStrongly(types.Numeric)
	default:
		// Shifts: the shifted side must be integer numeric.
		if err := n.left.DetermineStrongly(types.Numeric); err != nil {
			return err
		}
		return DetermineInteger(n.left)
	}
}

func (n *BinaryNode) DetermineFloat() error {
	switch n.op {
	case OpLogicalAnd, OpLogicalOr:
		return types.NotValidLogically("%s-operation result is boolean, not float", n.op)
	case OpAnd, OpOr, OpXor, OpLeftShift, OpRightShift:
		return types.NotValidLogically("%s-operation result is integer, not float", n.op)
	case OpDivide, OpPower:
		return nil
	default:
		if err := determineBothStrongly(types.Numeric, n.left, n.right); err != nil {
			return err
		}
		if err := DetermineFloat(n.left); err != nil {
			return err
		}
		return DetermineFloat(n.right)
	}
}

func (n *BinaryNode) Generate(gc *GenContext) (EvalFunc, error) {
	// Parameter kinds may resolve after construction, during argument
	// coercion; re-check the operand constraints before lowering.
	switch n.op {
	case OpAdd:
		if err := unifyOperands(types.KindSet(types.Numeric, types.String, types.ByteArray), n.left, n.right); err != nil {
			return nil, err
		}
	case OpAnd, OpOr, OpXor:
		if err := unifyOperands(types.KindSet(types.Boolean, types.Numeric), n.left, n.right); err != nil {
			return nil, err
		}
		if n.left.ReturnType() == types.Numeric {
			if err := DetermineInteger(n.left); err != nil {
				return nil, err
			}
			if err := DetermineInteger(n.right); err != nil {
				return nil, err
			}
		}
	case OpLeftShift, OpRightShift:
		if n.left.ReturnType() == types.Numeric {
			if err := DetermineInteger(n.left); err != nil {
				return nil, err
			}
		}
	}

	left, err := n.left.Generate(gc)
	if err != nil {
		return nil, err
	}
	right, err := n.right.Generate(gc)
	if err != nil {
		return nil, err
	}

	switch n.op {
	case OpLogicalAnd:
		return func(env *Env) (types.Value, error) {
			l, err := left(env)
			if err != nil {
				return types.Value{}, err
			}
			if !l.Bool() {
				return types.BoolValue(false), nil
			}
			return right(env)
		}, nil
	case OpLogicalOr:
		return func(env *Env) (types.Value, error) {
			l, err := left(env)
			if err != nil {
				return types.Value{}, err
			}
			if l.Bool() {
				return types.BoolValue(true), nil
			}
			return right(env)
		}, nil
	}

	kind := n.ReturnType()
	if kind == types.Unknown {
		return nil, types.Errorf(types.ErrGeneration, -1, "%s-operation kind is unresolved", n.op)
	}

	apply, err := binaryApply(n.op, kind)
	if err != nil {
		return nil, err
	}
	return func(env *Env) (types.Value, error) {
		l, err := left(env)
		if err != nil {
			return types.Value{}, err
		}
		r, err := right(env)
		if err != nil {
			return types.Value{}, err
		}
		return apply(l, r)
	}, nil
}

// binaryApply selects the concrete two-value operation for op over kind.
func binaryApply(op BinaryOp, kind types.ValueKind) (func(l, r types.Value) (types.Value, error), error) {
	switch op {
	case OpAdd:
		switch kind {
		case types.String:
			return func(l, r types.Value) (types.Value, error) {
				return types.StringValue(l.Str() + r.Str()), nil
			}, nil
		case types.ByteArray:
			return func(l, r types.Value) (types.Value, error) {
				lb, rb := l.Bytes(), r.Bytes()
				out := make([]byte, 0, len(lb)+len(rb))
				out = append(out, lb...)
				out = append(out, rb...)
				return types.BytesValue(out), nil
			}, nil
		default:
			return func(l, r types.Value) (types.Value, error) {
				if l.IsFloat() || r.IsFloat() {
					return types.FloatValue(l.Float() + r.Float()), nil
				}
				return types.IntValue(l.Int() + r.Int()), nil
			}, nil
		}
	case OpSubtract:
		return func(l, r types.Value) (types.Value, error) {
			if l.IsFloat() || r.IsFloat() {
				return types.FloatValue(l.Float() - r.Float()), nil
			}
			return types.IntValue(l.Int() - r.Int()), nil
		}, nil
	case OpMultiply:
		return func(l, r types.Value) (types.Value, error) {
			if l.IsFloat() || r.IsFloat() {
				return types.FloatValue(l.Float() * r.Float()), nil
			}
			return types.IntValue(l.Int() * r.Int()), nil
		}, nil
	case OpDivide:
		return func(l, r types.Value) (types.Value, error) {
			return types.FloatValue(l.Float() / r.Float()), nil
		}, nil
	case OpModulo:
		return func(l, r types.Value) (types.Value, error) {
			if l.IsFloat() || r.IsFloat() {
				return types.FloatValue(math.Mod(l.Float(), r.Float())), nil
			}
			// Integer modulo by zero is a hard fault and propagates.
			return types.IntValue(l.Int() % r.Int()), nil
		}, nil
	case OpPower:
		return func(l, r types.Value) (types.Value, error) {
			return types.FloatValue(math.Pow(l.Float(), r.Float())), nil
		}, nil
	case OpLeftShift, OpRightShift:
		leftShift := op == OpLeftShift
		if kind == types.ByteArray {
			return func(l, r types.Value) (types.Value, error) {
				count := r.Int()
				if count < 0 {
					return types.Value{}, types.Errorf(types.ErrInvocationFault, -1, "negative shift count %d", count)
				}
				b := new(big.Int).SetBytes(l.Bytes())
				if leftShift {
					b.Lsh(b, uint(count))
				} else {
					b.Rsh(b, uint(count))
				}
				return types.BytesValue(b.Bytes()), nil
			}, nil
		}
		return func(l, r types.Value) (types.Value, error) {
			count := r.Int()
			if count < 0 {
				return types.Value{}, types.Errorf(types.ErrInvocationFault, -1, "negative shift count %d", count)
			}
			if leftShift {
				return types.IntValue(l.Int() << uint(count)), nil
			}
			return types.IntValue(l.Int() >> uint(count)), nil
		}, nil
	case OpAnd, OpOr, OpXor:
		if kind == types.Boolean {
			switch op {
			case OpAnd:
				return func(l, r types.Value) (types.Value, error) {
					return types.BoolValue(l.Bool() && r.Bool()), nil
				}, nil
			case OpOr:
				return func(l, r types.Value) (types.Value, error) {
					return types.BoolValue(l.Bool() || r.Bool()), nil
				}, nil
			default:
				return func(l, r types.Value) (types.Value, error) {
					return types.BoolValue(l.Bool() != r.Bool()), nil
				}, nil
			}
		}
		switch op {
		case OpAnd:
			return func(l, r types.Value) (types.Value, error) {
				return types.IntValue(l.Int() & r.Int()), nil
			}, nil
		case OpOr:
			return func(l, r types.Value) (types.Value, error) {
				return types.IntValue(l.Int() | r.Int()), nil
			}, nil
		default:
			return func(l, r types.Value) (types.Value, error) {
				return types.IntValue(l.Int() ^ r.Int()), nil
			}, nil
		}
	}
	return nil, types.Errorf(types.ErrGeneration, -1, "no lowering for %s over %s", op, kind)
}
