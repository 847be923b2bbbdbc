package nodes

import (
	"github.com/gocompute/gocompute/pkg/types"
)

// UnaryOp identifies a unary operation.
type UnaryOp uint8

const (
	// OpNegate is arithmetic negation, Numeric only.
	OpNegate UnaryOp = iota
	// OpNot is logical not on booleans and bitwise not on integer numerics.
	OpNot
)

func (op UnaryOp) String() string {
	if op == OpNegate {
		return "-"
	}
	return "!"
}

// UnaryNode applies a unary operation to one operand.
type UnaryNode struct {
	op      UnaryOp
	operand Node
}

// NewUnaryNode builds a unary operation node, constraining the operand's
// kind immediately and folding constant operands.
func NewUnaryNode(op UnaryOp, operand Node) (Node, error) {
	n := &UnaryNode{op: op, operand: operand}
	switch op {
	case OpNegate:
		if err := operand.DetermineStrongly(types.Numeric); err != nil {
			return nil, err
		}
	case OpNot:
		if err := operand.DetermineWeakly(types.KindSet(types.Boolean, types.Numeric)); err != nil {
			return nil, err
		}
		if operand.ReturnType() == types.Numeric {
			if err := DetermineInteger(operand); err != nil {
				return nil, err
			}
		}
	}
	return n.Simplify(), nil
}

func (n *UnaryNode) ReturnType() types.ValueKind {
	if n.op == OpNegate {
		return types.Numeric
	}
	return n.operand.ReturnType()
}

func (n *UnaryNode) IsConstant() bool { return n.operand.IsConstant() }
func (n *UnaryNode) IsTolerant() bool { return n.operand.IsTolerant() }
func (n *UnaryNode) Simplify() Node   { return foldConstant(n) }

func (n *UnaryNode) DeepClone(reg *ParameterRegistry) Node {
	return &UnaryNode{op: n.op, operand: n.operand.DeepClone(reg)}
}

func (n *UnaryNode) DetermineStrongly(k types.ValueKind) error {
	switch n.op {
	case OpNegate:
		if k != types.Numeric {
			return types.NotValidLogically("negation cannot be %s", k)
		}
		return nil
	default:
		if k != types.Boolean && k != types.Numeric {
			return types.NotValidLogically("not-operation cannot be %s", k)
		}
		if err := n.operand.DetermineStrongly(k); err != nil {
			return err
		}
		if k == types.Numeric {
			return DetermineInteger(n.operand)
		}
		return nil
	}
}

func (n *UnaryNode) DetermineWeakly(set types.ValueKindSet) error {
	possible := types.KindSet(types.Boolean, types.Numeric)
	if n.op == OpNegate {
		possible = types.SetNumeric
	}
	narrowed := possible.Intersect(set)
	if narrowed.IsEmpty() {
		return types.NotValidLogically("%s-operation cannot be %s", n.op, set)
	}
	if k, ok := narrowed.Single(); ok {
		return n.DetermineStrongly(k)
	}
	return n.operand.DetermineWeakly(narrowed)
}

func (n *UnaryNode) DetermineInteger() error {
	if n.op == OpNot {
		if err := n.operand.DetermineStrongly(types.Numeric); err != nil {
			return err
		}
	}
	return DetermineInteger(n.operand)
}

func (n *UnaryNode) DetermineFloat() error {
	if n.op == OpNot {
		return types.NotValidLogically("bitwise not cannot be a float")
	}
	return DetermineFloat(n.operand)
}

func (n *UnaryNode) Generate(gc *GenContext) (EvalFunc, error) {
	// A not-operand left ambiguous at construction may have resolved to
	// numeric during argument coercion; enforce the integer constraint now.
	if n.op == OpNot && n.operand.ReturnType() == types.Numeric {
		if err := DetermineInteger(n.operand); err != nil {
			return nil, err
		}
	}
	operand, err := n.operand.Generate(gc)
	if err != nil {
		return nil, err
	}
	switch n.op {
	case OpNegate:
		return func(env *Env) (types.Value, error) {
			v, err := operand(env)
			if err != nil {
				return types.Value{}, err
			}
			if v.IsFloat() {
				return types.FloatValue(-v.Float()), nil
			}
			return types.IntValue(-v.Int()), nil
		}, nil
	default:
		switch n.operand.ReturnType() {
		case types.Boolean:
			return func(env *Env) (types.Value, error) {
				v, err := operand(env)
				if err != nil {
					return types.Value{}, err
				}
				return types.BoolValue(!v.Bool()), nil
			}, nil
		case types.Numeric:
			return func(env *Env) (types.Value, error) {
				v, err := operand(env)
				if err != nil {
					return types.Value{}, err
				}
				return types.IntValue(^v.Int()), nil
			}, nil
		default:
			return nil, types.Errorf(types.ErrGeneration, -1, "not-operation operand kind is unresolved")
		}
	}
}
