package nodes

import (
	"strconv"
	"strings"

	"github.com/gocompute/gocompute/pkg/types"
)

// ParameterContext is the shared, mutable type state of a named parameter.
// Every parameter node with the same name inside one tree/registry pair
// aliases the same context, so a constraint discovered anywhere in the tree
// applies to every use of the name.
type ParameterContext struct {
	// Name is the parameter's identifier as written in the expression.
	Name string
	// ReturnType is the resolved kind, Unknown until constrained.
	ReturnType types.ValueKind
	// FloatState is the tri-state integer/float discriminator, meaningful
	// only for Numeric parameters.
	FloatState FloatState
	// FuncParameter marks the parameter as lazily produced: its runtime
	// argument is a value provider forced inside the generated code.
	FuncParameter bool

	// index is the context's position in the owning registry, used as the
	// code-generation handle into the Env.
	index int
}

// Index returns the parameter's position in the ordered registry, the handle
// generated code uses to read its value.
func (c *ParameterContext) Index() int { return c.index }

// DetermineKind resolves the parameter's kind. A second, different
// resolution fails logically.
func (c *ParameterContext) DetermineKind(k types.ValueKind) error {
	if k == types.Unknown {
		return nil
	}
	if c.ReturnType == types.Unknown {
		c.ReturnType = k
		return nil
	}
	if c.ReturnType != k {
		return types.NotValidLogically("parameter %q is %s, cannot also be %s", c.Name, c.ReturnType, k)
	}
	return nil
}

// DetermineInteger constrains the parameter to integer Numeric.
func (c *ParameterContext) DetermineInteger() error {
	if err := c.DetermineKind(types.Numeric); err != nil {
		return err
	}
	if c.FloatState == FloatYes {
		return types.NotValidLogically("parameter %q is float, cannot also be integer", c.Name)
	}
	c.FloatState = FloatNo
	return nil
}

// DetermineFloat records float evidence for the parameter. Earlier integer
// evidence wins: integers widen to float without loss.
func (c *ParameterContext) DetermineFloat() error {
	if err := c.DetermineKind(types.Numeric); err != nil {
		return err
	}
	if c.FloatState == FloatUndetermined {
		c.FloatState = FloatYes
	}
	return nil
}

// ParameterRegistry is the ordered collection of unique parameter contexts
// for one parsed expression. Insertion order is the positional order of
// Compute(args...) calls. One registry per parse; clones get an independent
// registry so concurrent Compute calls never share mutable state.
type ParameterRegistry struct {
	ordered []*ParameterContext
	byName  map[string]*ParameterContext
}

// NewParameterRegistry creates an empty registry.
func NewParameterRegistry() *ParameterRegistry {
	return &ParameterRegistry{byName: make(map[string]*ParameterContext)}
}

// Advertise returns the context for name, creating it at the next position
// when the name has not been seen before.
func (r *ParameterRegistry) Advertise(name string) *ParameterContext {
	if c, ok := r.byName[name]; ok {
		return c
	}
	c := &ParameterContext{Name: name, index: len(r.ordered)}
	r.ordered = append(r.ordered, c)
	r.byName[name] = c
	return c
}

// Get returns the context for name, if advertised.
func (r *ParameterRegistry) Get(name string) (*ParameterContext, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Contexts returns the contexts in insertion order.
func (r *ParameterRegistry) Contexts() []*ParameterContext {
	return r.ordered
}

// Names returns the parameter names in insertion order.
func (r *ParameterRegistry) Names() []string {
	names := make([]string, len(r.ordered))
	for i, c := range r.ordered {
		names[i] = c.Name
	}
	return names
}

// Len returns the number of declared parameters.
func (r *ParameterRegistry) Len() int {
	return len(r.ordered)
}

// HasUndefined reports whether any parameter's kind is still Unknown.
func (r *ParameterRegistry) HasUndefined() bool {
	for _, c := range r.ordered {
		if c.ReturnType == types.Unknown {
			return true
		}
	}
	return false
}

// Clone allocates an independent registry with copies of every context,
// preserving order, resolved kinds and float states.
func (r *ParameterRegistry) Clone() *ParameterRegistry {
	out := NewParameterRegistry()
	for _, c := range r.ordered {
		cp := *c
		out.ordered = append(out.ordered, &cp)
		out.byName[cp.Name] = &cp
	}
	return out
}

// Fingerprint encodes every parameter's resolved kind, float state and
// laziness plus the tolerance shape into a cache key for generated closures.
// Any kind re-determination changes the key, so a cached closure can never
// be invoked with a parameter shape it was not generated for.
func (r *ParameterRegistry) Fingerprint(tol *types.Tolerance) string {
	var sb strings.Builder
	for _, c := range r.ordered {
		sb.WriteString(c.Name)
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(int(c.ReturnType)))
		sb.WriteByte('.')
		sb.WriteString(strconv.Itoa(int(c.FloatState)))
		if c.FuncParameter {
			sb.WriteByte('~')
		}
		sb.WriteByte(';')
	}
	sb.WriteByte('|')
	sb.WriteString(tol.Fingerprint())
	return sb.String()
}

// ParameterNode is a named placeholder in the tree. It owns no type state of
// its own; everything lives in the shared context.
type ParameterNode struct {
	ctx *ParameterContext
}

// NewParameterNode creates a parameter node bound to ctx.
func NewParameterNode(ctx *ParameterContext) *ParameterNode {
	return &ParameterNode{ctx: ctx}
}

// Context returns the node's shared parameter context.
func (n *ParameterNode) Context() *ParameterContext { return n.ctx }

func (n *ParameterNode) ReturnType() types.ValueKind { return n.ctx.ReturnType }
func (n *ParameterNode) IsConstant() bool            { return false }
func (n *ParameterNode) IsTolerant() bool            { return false }
func (n *ParameterNode) Simplify() Node              { return n }

func (n *ParameterNode) DeepClone(reg *ParameterRegistry) Node {
	return &ParameterNode{ctx: reg.Advertise(n.ctx.Name)}
}

func (n *ParameterNode) DetermineStrongly(k types.ValueKind) error {
	return n.ctx.DetermineKind(k)
}

func (n *ParameterNode) DetermineWeakly(set types.ValueKindSet) error {
	if set.IsEmpty() {
		return types.NotValidLogically("parameter %q cannot have any kind", n.ctx.Name)
	}
	if n.ctx.ReturnType != types.Unknown {
		if !set.Has(n.ctx.ReturnType) {
			return types.NotValidLogically("parameter %q is %s, cannot be %s", n.ctx.Name, n.ctx.ReturnType, set)
		}
		return nil
	}
	if k, ok := set.Single(); ok {
		return n.ctx.DetermineKind(k)
	}
	// Two or more candidates: stay Unknown pending further constraints.
	return nil
}

func (n *ParameterNode) DetermineInteger() error { return n.ctx.DetermineInteger() }
func (n *ParameterNode) DetermineFloat() error   { return n.ctx.DetermineFloat() }

func (n *ParameterNode) Generate(*GenContext) (EvalFunc, error) {
	if n.ctx.ReturnType == types.Unknown {
		return nil, types.Errorf(types.ErrGeneration, -1, "parameter %q has no determined kind", n.ctx.Name)
	}
	idx := n.ctx.index
	return func(env *Env) (types.Value, error) {
		return env.Arg(idx)
	}, nil
}
