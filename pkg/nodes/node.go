// Package nodes implements the expression node model: constants, parameters,
// operations and named functions, together with the weak/strong
// type-determination protocol, construction-time constant folding and
// closure-based code generation.
//
// # Node lifecycle
//
// Nodes are built bottom-up by the parser. Constructors validate operand
// kinds immediately (fail fast): a node whose semantics are incompatible
// with an operand's kind returns a logic error that aborts recognition of
// the whole expression. Constructors also fold fully-constant subtrees into
// single constant nodes before linking them into the parent.
//
// # Code generation
//
// Generate compiles a resolved node into an EvalFunc closure. The closure is
// built depth-first, is pure with respect to the node tree, and reads
// late-bound parameter values from the Env it is invoked with. Tolerance is
// threaded through the GenContext; only the comparison family consults it.
//
// # Concurrency
//
// Nodes and parameter registries are not safe for concurrent mutation.
// Parse once, then DeepClone per concurrent consumer.
package nodes

import (
	"github.com/gocompute/gocompute/pkg/types"
)

// EvalFunc is a generated, directly invocable form of a node tree. It reads
// parameter values from env and produces the node's value.
type EvalFunc func(env *Env) (types.Value, error)

// GenContext carries the per-generation inputs: the optional tolerance for
// comparison lowering, the string-formatter chain and the special-object
// request hook.
type GenContext struct {
	Tolerance  *types.Tolerance
	Formatters []types.StringFormatter
	Special    types.SpecialObjectFunc
}

// Node is a typed unit of the expression tree.
type Node interface {
	// ReturnType is the node's current kind, possibly Unknown while the
	// weak-determination protocol is still collecting constraints.
	ReturnType() types.ValueKind

	// IsConstant reports whether the node's value is fixed at build time.
	IsConstant() bool

	// IsTolerant reports whether a tolerance-sensitive sub-operation exists
	// at or beneath this node.
	IsTolerant() bool

	// DetermineStrongly forces the node's kind to exactly k. Incompatible
	// semantics fail with the logic error that aborts recognition.
	DetermineStrongly(k types.ValueKind) error

	// DetermineWeakly intersects the node's acceptable kinds with set.
	// A singleton intersection resolves strongly; an empty one fails.
	DetermineWeakly(set types.ValueKindSet) error

	// Simplify returns the node's constant-folded replacement, or the node
	// itself when folding does not apply.
	Simplify() Node

	// DeepClone rebuilds the node against reg, rebinding parameter nodes to
	// the registry's contexts by name.
	DeepClone(reg *ParameterRegistry) Node

	// Generate compiles the node into an invocable closure.
	Generate(gc *GenContext) (EvalFunc, error)
}

// FloatState is the tri-state integer/float discriminator carried by numeric
// nodes and parameter contexts, orthogonal to kind determination.
type FloatState uint8

const (
	// FloatUndetermined means no evidence yet; generation defaults to float
	// only when nothing later forces integer.
	FloatUndetermined FloatState = iota
	// FloatNo means the value is constrained to integer.
	FloatNo
	// FloatYes means the value is known to be floating point.
	FloatYes
)

// integerDeterminable is the optional sub-protocol for nodes whose numeric
// payload can be constrained to integer or float independently of kind.
type integerDeterminable interface {
	DetermineInteger() error
	DetermineFloat() error
}

// DetermineInteger constrains a numeric-capable node to integer. Non-numeric
// resolved nodes fail logically.
func DetermineInteger(n Node) error {
	if d, ok := n.(integerDeterminable); ok {
		return d.DetermineInteger()
	}
	if k := n.ReturnType(); k != types.Numeric && k != types.Unknown {
		return types.NotValidLogically("%s value cannot be an integer", k)
	}
	return nil
}

// DetermineFloat records floating-point evidence for a numeric-capable node.
// Integer evidence is never overridden: integers widen to float for free.
func DetermineFloat(n Node) error {
	if d, ok := n.(integerDeterminable); ok {
		return d.DetermineFloat()
	}
	if k := n.ReturnType(); k != types.Numeric && k != types.Unknown {
		return types.NotValidLogically("%s value cannot be a float", k)
	}
	return nil
}

// unifyOperands narrows every operand to allowed and pushes the first
// resolved kind across the remaining operands. This is the one-pass local
// unification step shared by operators whose operands must agree.
func unifyOperands(allowed types.ValueKindSet, operands ...Node) error {
	for _, op := range operands {
		if err := op.DetermineWeakly(allowed); err != nil {
			return err
		}
	}
	resolved := types.Unknown
	for _, op := range operands {
		if k := op.ReturnType(); k != types.Unknown {
			resolved = k
			break
		}
	}
	if resolved == types.Unknown {
		return nil
	}
	for _, op := range operands {
		if err := op.DetermineStrongly(resolved); err != nil {
			return err
		}
	}
	return nil
}

// foldConstant evaluates a fully-constant node with exact semantics and
// returns the resulting constant node, or n unchanged when the node is not
// constant or evaluation faults (the fault then surfaces at compute time).
func foldConstant(n Node) Node {
	if !n.IsConstant() {
		return n
	}
	fn, err := n.Generate(&GenContext{})
	if err != nil {
		return n
	}
	v, ok := safeInvoke(fn)
	if !ok {
		return n
	}
	return ConstantFromValue(v)
}

// safeInvoke runs a generated closure against an empty environment,
// converting panics into a failed fold.
func safeInvoke(fn EvalFunc) (v types.Value, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	v, err := fn(&Env{})
	return v, err == nil
}

// anyTolerant reports whether any of the nodes is tolerance-sensitive.
func anyTolerant(operands ...Node) bool {
	for _, op := range operands {
		if op.IsTolerant() {
			return true
		}
	}
	return false
}

// allConstant reports whether every node is constant.
func allConstant(operands ...Node) bool {
	for _, op := range operands {
		if !op.IsConstant() {
			return false
		}
	}
	return true
}
