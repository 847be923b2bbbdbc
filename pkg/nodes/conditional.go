package nodes

import (
	"github.com/gocompute/gocompute/pkg/types"
)

// ConditionalNode is the ternary conditional operation cond ? then : else.
// The condition is Boolean; the two arms unify to one common kind, which is
// the node's kind.
type ConditionalNode struct {
	cond     Node
	thenNode Node
	elseNode Node
}

// NewConditionalNode builds a ternary conditional, constraining the
// condition to Boolean and unifying the arms immediately.
func NewConditionalNode(cond, thenNode, elseNode Node) (Node, error) {
	if err := cond.DetermineStrongly(types.Boolean); err != nil {
		return nil, err
	}
	if err := unifyOperands(types.SetAll, thenNode, elseNode); err != nil {
		return nil, err
	}
	n := &ConditionalNode{cond: cond, thenNode: thenNode, elseNode: elseNode}
	return n.Simplify(), nil
}

func (n *ConditionalNode) ReturnType() types.ValueKind {
	if k := n.thenNode.ReturnType(); k != types.Unknown {
		return k
	}
	return n.elseNode.ReturnType()
}

func (n *ConditionalNode) IsConstant() bool {
	return allConstant(n.cond, n.thenNode, n.elseNode)
}

func (n *ConditionalNode) IsTolerant() bool {
	return anyTolerant(n.cond, n.thenNode, n.elseNode)
}

func (n *ConditionalNode) Simplify() Node { return foldConstant(n) }

func (n *ConditionalNode) DeepClone(reg *ParameterRegistry) Node {
	return &ConditionalNode{
		cond:     n.cond.DeepClone(reg),
		thenNode: n.thenNode.DeepClone(reg),
		elseNode: n.elseNode.DeepClone(reg),
	}
}

func (n *ConditionalNode) DetermineStrongly(k types.ValueKind) error {
	if err := n.thenNode.DetermineStrongly(k); err != nil {
		return err
	}
	return n.elseNode.DetermineStrongly(k)
}

func (n *ConditionalNode) DetermineWeakly(set types.ValueKindSet) error {
	if err := n.thenNode.DetermineWeakly(set); err != nil {
		return err
	}
	return n.elseNode.DetermineWeakly(set)
}

func (n *ConditionalNode) DetermineInteger() error {
	if err := DetermineInteger(n.thenNode); err != nil {
		return err
	}
	return DetermineInteger(n.elseNode)
}

func (n *ConditionalNode) DetermineFloat() error {
	if err := DetermineFloat(n.thenNode); err != nil {
		return err
	}
	return DetermineFloat(n.elseNode)
}

func (n *ConditionalNode) Generate(gc *GenContext) (EvalFunc, error) {
	// Parameter kinds may resolve after construction, during argument
	// coercion; the arms must still agree on one kind before lowering.
	if err := unifyOperands(types.SetAll, n.thenNode, n.elseNode); err != nil {
		return nil, err
	}
	cond, err := n.cond.Generate(gc)
	if err != nil {
		return nil, err
	}
	thenFn, err := n.thenNode.Generate(gc)
	if err != nil {
		return nil, err
	}
	elseFn, err := n.elseNode.Generate(gc)
	if err != nil {
		return nil, err
	}
	return func(env *Env) (types.Value, error) {
		c, err := cond(env)
		if err != nil {
			return types.Value{}, err
		}
		if c.Bool() {
			return thenFn(env)
		}
		return elseFn(env)
	}, nil
}
