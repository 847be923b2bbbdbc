package nodes

import (
	"reflect"

	"github.com/gocompute/gocompute/pkg/types"
)

// ApplyFunc is a function definition's runtime body. It receives the
// generation context (for the formatter chain and special-object hook) and
// the evaluated operand values in order.
type ApplyFunc func(gc *GenContext, args []types.Value) (types.Value, error)

// FuncDef describes a named, arity-fixed callable the registry can
// construct. The same definition is shared by every node built from it.
type FuncDef struct {
	// Name is the primary name, used in diagnostics.
	Name string
	// Params holds the acceptable kind set per operand; its length is the
	// definition's arity (0 through 3).
	Params []types.ValueKindSet
	// IntegerParams marks operands that must be integer numerics. May be
	// shorter than Params; missing entries mean unconstrained.
	IntegerParams []bool
	// Result is the node's kind.
	Result types.ValueKind
	// ResultFloat describes a Numeric result: FloatYes for always-float,
	// FloatNo for always-integer, FloatUndetermined to follow the operands.
	ResultFloat FloatState
	// Pure marks the definition constant-foldable. Impure definitions
	// (clock, random, uuid) are never folded and never constant.
	Pure bool
	// Special, when non-nil, is the runtime-injected object type the body
	// needs. Generation fails for the node when the hook is absent or
	// returns nil for this type.
	Special reflect.Type
	// Apply is the body.
	Apply ApplyFunc
}

// Arity returns the definition's operand count.
func (d *FuncDef) Arity() int { return len(d.Params) }

// FunctionNode is a named nonary/unary/binary/ternary function call.
type FunctionNode struct {
	def      *FuncDef
	operands []Node
}

// NewFunctionNode builds a function node from its definition, forcing
// strong/weak determination on every operand immediately so type errors
// surface at tree-build time (EnsureCompatibleParameters), then folding if
// the definition is pure and all operands are constant.
func NewFunctionNode(def *FuncDef, operands ...Node) (Node, error) {
	if len(operands) != def.Arity() {
		return nil, types.Errorf(types.ErrFunctionParameters, -1,
			"function %q expects %d operands, got %d", def.Name, def.Arity(), len(operands))
	}
	n := &FunctionNode{def: def, operands: operands}
	if err := n.ensureCompatibleParameters(); err != nil {
		return nil, err
	}
	return n.Simplify(), nil
}

func (n *FunctionNode) ensureCompatibleParameters() error {
	for i, op := range n.operands {
		set := n.def.Params[i]
		if k, ok := set.Single(); ok {
			if err := op.DetermineStrongly(k); err != nil {
				return err
			}
		} else if err := op.DetermineWeakly(set); err != nil {
			return err
		}
		if i < len(n.def.IntegerParams) && n.def.IntegerParams[i] {
			if err := DetermineInteger(op); err != nil {
				return err
			}
		}
	}
	return nil
}

// Definition returns the node's function definition.
func (n *FunctionNode) Definition() *FuncDef { return n.def }

func (n *FunctionNode) ReturnType() types.ValueKind { return n.def.Result }

func (n *FunctionNode) IsConstant() bool {
	return n.def.Pure && allConstant(n.operands...)
}

func (n *FunctionNode) IsTolerant() bool { return anyTolerant(n.operands...) }
func (n *FunctionNode) Simplify() Node   { return foldConstant(n) }

func (n *FunctionNode) DeepClone(reg *ParameterRegistry) Node {
	ops := make([]Node, len(n.operands))
	for i, op := range n.operands {
		ops[i] = op.DeepClone(reg)
	}
	return &FunctionNode{def: n.def, operands: ops}
}

func (n *FunctionNode) DetermineStrongly(k types.ValueKind) error {
	if k != n.def.Result {
		return types.NotValidLogically("function %q produces %s, cannot be %s", n.def.Name, n.def.Result, k)
	}
	return nil
}

func (n *FunctionNode) DetermineWeakly(set types.ValueKindSet) error {
	if !set.Has(n.def.Result) {
		return types.NotValidLogically("function %q produces %s, cannot be %s", n.def.Name, n.def.Result, set)
	}
	return nil
}

func (n *FunctionNode) DetermineInteger() error {
	if n.def.Result != types.Numeric {
		return types.NotValidLogically("function %q produces %s, not an integer", n.def.Name, n.def.Result)
	}
	switch n.def.ResultFloat {
	case FloatYes:
		return types.NotValidLogically("function %q produces a float, not an integer", n.def.Name)
	case FloatNo:
		return nil
	default:
		// Result follows the operands' numeric state.
		for _, op := range n.operands {
			if op.ReturnType() == types.Numeric || op.ReturnType() == types.Unknown {
				if err := DetermineInteger(op); err != nil {
					return err
				}
			}
		}
		return nil
	}
}

func (n *FunctionNode) DetermineFloat() error {
	if n.def.Result != types.Numeric {
		return types.NotValidLogically("function %q produces %s, not a float", n.def.Name, n.def.Result)
	}
	return nil
}

func (n *FunctionNode) Generate(gc *GenContext) (EvalFunc, error) {
	callGC := gc
	if n.def.Special != nil {
		var obj any
		if gc.Special != nil {
			obj = gc.Special(n.def.Special)
		}
		if obj == nil {
			return nil, types.Errorf(types.ErrGeneration, -1,
				"function %q needs a %s and no special-object hook can supply one", n.def.Name, n.def.Special)
		}
		// Resolve the object once; the body sees a hook that hands back the
		// captured object instead of re-running the user's hook per
		// evaluation.
		want, next := n.def.Special, gc.Special
		wrapped := *gc
		wrapped.Special = func(t reflect.Type) any {
			if t == want {
				return obj
			}
			return next(t)
		}
		callGC = &wrapped
	}
	fns := make([]EvalFunc, len(n.operands))
	for i, op := range n.operands {
		fn, err := op.Generate(gc)
		if err != nil {
			return nil, err
		}
		fns[i] = fn
	}
	apply := n.def.Apply
	return func(env *Env) (types.Value, error) {
		args := make([]types.Value, len(fns))
		for i, fn := range fns {
			v, err := fn(env)
			if err != nil {
				return types.Value{}, err
			}
			args[i] = v
		}
		return apply(callGC, args)
	}, nil
}
