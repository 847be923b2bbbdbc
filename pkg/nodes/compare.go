package nodes

import (
	"strings"

	"github.com/gocompute/gocompute/pkg/types"
)

// CompareOp identifies a comparison operation. The whole family is
// tolerance-sensitive: generation consults the GenContext's Tolerance and
// lowers to approximate semantics when one is supplied.
type CompareOp uint8

const (
	OpEqual CompareOp = iota
	OpNotEqual
	OpLess
	OpLessOrEqual
	OpGreater
	OpGreaterOrEqual
)

var compareOpNames = map[CompareOp]string{
	OpEqual: "==", OpNotEqual: "!=", OpLess: "<", OpLessOrEqual: "<=",
	OpGreater: ">", OpGreaterOrEqual: ">=",
}

func (op CompareOp) String() string { return compareOpNames[op] }

func (op CompareOp) ordering() bool {
	return op != OpEqual && op != OpNotEqual
}

// CompareNode compares two operands of the same kind and produces a Boolean.
type CompareNode struct {
	op    CompareOp
	left  Node
	right Node
}

// NewCompareNode builds a comparison node. Equality accepts all four kinds;
// ordering operators reject booleans. Operand kinds unify immediately and
// constant comparisons fold at construction (byte arrays via the MSB-first
// sequence comparison).
func NewCompareNode(op CompareOp, left, right Node) (Node, error) {
	n := &CompareNode{op: op, left: left, right: right}
	allowed := types.SetAll
	if op.ordering() {
		allowed = types.KindSet(types.Numeric, types.String, types.ByteArray)
	}
	if err := unifyOperands(allowed, left, right); err != nil {
		return nil, err
	}
	return n.Simplify(), nil
}

func (n *CompareNode) ReturnType() types.ValueKind { return types.Boolean }
func (n *CompareNode) IsConstant() bool            { return allConstant(n.left, n.right) }

// IsTolerant is always true: the comparison's generated code changes shape
// when a tolerance is supplied.
func (n *CompareNode) IsTolerant() bool { return true }

func (n *CompareNode) Simplify() Node { return foldConstant(n) }

func (n *CompareNode) DeepClone(reg *ParameterRegistry) Node {
	return &CompareNode{op: n.op, left: n.left.DeepClone(reg), right: n.right.DeepClone(reg)}
}

func (n *CompareNode) DetermineStrongly(k types.ValueKind) error {
	if k != types.Boolean {
		return types.NotValidLogically("comparison cannot be %s", k)
	}
	return nil
}

func (n *CompareNode) DetermineWeakly(set types.ValueKindSet) error {
	if !set.Has(types.Boolean) {
		return types.NotValidLogically("comparison cannot be %s", set)
	}
	return nil
}

func (n *CompareNode) Generate(gc *GenContext) (EvalFunc, error) {
	// Parameter kinds may have been determined after construction (during
	// argument coercion); push any late resolution across before lowering.
	allowed := types.SetAll
	if n.op.ordering() {
		allowed = types.KindSet(types.Numeric, types.String, types.ByteArray)
	}
	if err := unifyOperands(allowed, n.left, n.right); err != nil {
		return nil, err
	}
	kind := n.left.ReturnType()
	if kind == types.Unknown {
		kind = n.right.ReturnType()
	}
	if kind == types.Unknown {
		return nil, types.Errorf(types.ErrGeneration, -1, "%s comparison operands are unresolved", n.op)
	}

	left, err := n.left.Generate(gc)
	if err != nil {
		return nil, err
	}
	right, err := n.right.Generate(gc)
	if err != nil {
		return nil, err
	}

	op := n.op
	tol := gc.Tolerance
	return func(env *Env) (types.Value, error) {
		l, err := left(env)
		if err != nil {
			return types.Value{}, err
		}
		r, err := right(env)
		if err != nil {
			return types.Value{}, err
		}
		ok, err := compareValues(op, kind, l, r, tol)
		if err != nil {
			return types.Value{}, err
		}
		return types.BoolValue(ok), nil
	}, nil
}

// compareValues applies op over two same-kind values, honoring tol for
// numeric operands. Byte arrays always compare MSB-first; strings compare
// ordinally and ignore tolerance.
func compareValues(op CompareOp, kind types.ValueKind, l, r types.Value, tol *types.Tolerance) (bool, error) {
	switch kind {
	case types.Boolean:
		switch op {
		case OpEqual:
			return l.Bool() == r.Bool(), nil
		case OpNotEqual:
			return l.Bool() != r.Bool(), nil
		default:
			return false, types.Errorf(types.ErrGeneration, -1, "booleans have no %s ordering", op)
		}
	case types.String:
		c := strings.Compare(l.Str(), r.Str())
		return orderingHolds(op, c), nil
	case types.ByteArray:
		c := types.CompareBytes(l.Bytes(), r.Bytes())
		return orderingHolds(op, c), nil
	default:
		return compareNumeric(op, l, r, tol), nil
	}
}

func orderingHolds(op CompareOp, c int) bool {
	switch op {
	case OpEqual:
		return c == 0
	case OpNotEqual:
		return c != 0
	case OpLess:
		return c < 0
	case OpLessOrEqual:
		return c <= 0
	case OpGreater:
		return c > 0
	default:
		return c >= 0
	}
}

func compareNumeric(op CompareOp, l, r types.Value, tol *types.Tolerance) bool {
	if tol.IsZero() {
		return exactNumeric(op, l, r)
	}
	switch op {
	case OpEqual:
		return equalTolerant(l, r, tol)
	case OpNotEqual:
		return !equalTolerant(l, r, tol)
	case OpLess:
		return l.Float() < r.Float()+upperMargin(tol, r, l)
	case OpLessOrEqual:
		return l.Float() <= r.Float()+upperMargin(tol, r, l)
	case OpGreater:
		return l.Float() > r.Float()-lowerMargin(tol, r, l)
	default:
		return l.Float() >= r.Float()-lowerMargin(tol, r, l)
	}
}

func exactNumeric(op CompareOp, l, r types.Value) bool {
	if l.IsFloat() || r.IsFloat() {
		lf, rf := l.Float(), r.Float()
		switch op {
		case OpEqual:
			return lf == rf
		case OpNotEqual:
			return lf != rf
		case OpLess:
			return lf < rf
		case OpLessOrEqual:
			return lf <= rf
		case OpGreater:
			return lf > rf
		default:
			return lf >= rf
		}
	}
	li, ri := l.Int(), r.Int()
	switch op {
	case OpEqual:
		return li == ri
	case OpNotEqual:
		return li != ri
	case OpLess:
		return li < ri
	case OpLessOrEqual:
		return li <= ri
	case OpGreater:
		return li > ri
	default:
		return li >= ri
	}
}
