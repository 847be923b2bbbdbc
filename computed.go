package gocompute

import (
	"log/slog"
	"runtime"
	"strings"

	"github.com/gocompute/gocompute/pkg/cache"
	"github.com/gocompute/gocompute/pkg/nodes"
	"github.com/gocompute/gocompute/pkg/types"
)

// DataFinder pulls a parameter's value on demand by name. Returning false
// (or a nil value) for any declared parameter degrades the whole call to the
// original text.
type DataFinder func(name string) (any, bool)

// ComputedExpression is a parsed expression: the root node, the parameter
// registry populated during parsing and the recognized flag, plus the
// string-formatter chain and special-object hook it computes with.
//
// A ComputedExpression is not safe for concurrent use; DeepClone once per
// concurrent consumer. The generated closure is rebuilt per Compute call
// (parameter kinds resolve late and tolerance is a per-call input) unless
// caching was enabled at parse time.
type ComputedExpression struct {
	text       string
	root       nodes.Node
	recognized bool
	params     *nodes.ParameterRegistry
	formatters []types.StringFormatter
	special    types.SpecialObjectFunc
	cache      *cache.Cache
	logger     *slog.Logger
	debug      bool
}

// Text returns the original expression source.
func (e *ComputedExpression) Text() string { return e.text }

// String returns the original expression source.
func (e *ComputedExpression) String() string { return e.text }

// RecognizedCorrectly reports whether the text parsed and type-resolved into
// an evaluable tree.
func (e *ComputedExpression) RecognizedCorrectly() bool { return e.recognized }

// IsConstant reports whether the whole expression folded to a constant at
// parse time. Constant expressions need no arguments.
func (e *ComputedExpression) IsConstant() bool {
	return e.recognized && e.root.IsConstant()
}

// IsTolerant reports whether any tolerance-sensitive operation survives in
// the tree, i.e. whether ComputeWithTolerance can change the outcome.
func (e *ComputedExpression) IsTolerant() bool {
	return e.recognized && e.root.IsTolerant()
}

// ParameterNames returns the declared parameter names in positional order.
func (e *ComputedExpression) ParameterNames() []string {
	return e.params.Names()
}

// HasUndefinedParameters reports whether any parameter's kind is still
// undetermined (it will be determined by the first Compute argument bound
// to it, first-use-wins).
func (e *ComputedExpression) HasUndefinedParameters() bool {
	return e.params.HasUndefined()
}

// Compute evaluates the expression with exact comparison semantics against
// the supplied positional arguments. The boolean result reports whether
// evaluation actually happened; when false the returned value is the
// original source text, unevaluated.
func (e *ComputedExpression) Compute(args ...any) (any, bool) {
	return e.compute(nil, args)
}

// ComputeWithTolerance evaluates the expression with tolerance-aware
// comparison semantics. All non-comparison operators ignore the tolerance.
func (e *ComputedExpression) ComputeWithTolerance(tol *types.Tolerance, args ...any) (any, bool) {
	return e.compute(tol, args)
}

// ComputeWithData evaluates the expression, pulling each parameter's value
// from finder by name.
func (e *ComputedExpression) ComputeWithData(finder DataFinder) (any, bool) {
	if !e.recognized || finder == nil {
		return e.text, false
	}
	args := make([]any, 0, e.params.Len())
	for _, name := range e.params.Names() {
		v, ok := finder(name)
		if !ok || v == nil {
			return e.degrade(types.Errorf(types.ErrMissingData, -1, "no data for parameter %q", name))
		}
		args = append(args, v)
	}
	return e.compute(nil, args)
}

// DeepClone returns an independently usable copy: a fresh parameter registry
// with the same resolved state, a root tree rebound to it, and the original
// (immutable) formatter chain and special-object hook shared by reference.
func (e *ComputedExpression) DeepClone() *ComputedExpression {
	clone := &ComputedExpression{
		text:       e.text,
		recognized: e.recognized,
		formatters: e.formatters,
		special:    e.special,
		logger:     e.logger,
		debug:      e.debug,
	}
	clone.params = e.params.Clone()
	if e.root != nil {
		clone.root = e.root.DeepClone(clone.params)
	}
	if e.cache != nil {
		clone.cache = cache.New(e.cache.Capacity())
	}
	return clone
}

func (e *ComputedExpression) compute(tol *types.Tolerance, args []any) (any, bool) {
	if !e.recognized {
		return e.text, false
	}
	if len(args) != e.params.Len() {
		return e.degrade(types.Errorf(types.ErrArgumentCount, -1,
			"expression has %d parameters, got %d arguments", e.params.Len(), len(args)))
	}
	env, err := e.coerceArgs(args)
	if err != nil {
		return e.degrade(err)
	}
	fn, err := e.generate(tol)
	if err != nil {
		return e.degrade(err)
	}
	v, err := e.invoke(fn, env)
	if err != nil {
		return e.degrade(err)
	}
	return v.Any(), true
}

// generate builds (or fetches from the closure cache) the invocable form of
// the tree for the current parameter kinds and tolerance.
func (e *ComputedExpression) generate(tol *types.Tolerance) (nodes.EvalFunc, error) {
	gc := &nodes.GenContext{Tolerance: tol, Formatters: e.formatters, Special: e.special}
	if e.cache == nil {
		return e.root.Generate(gc)
	}
	key := e.params.Fingerprint(tol)
	return e.cache.GetOrGenerate(key, func() (nodes.EvalFunc, error) {
		return e.root.Generate(gc)
	})
}

// invoke runs the generated closure. Every panic except the two allowed
// hard faults (out-of-memory, integer divide-by-zero) is swallowed and
// degrades the call.
func (e *ComputedExpression) invoke(fn nodes.EvalFunc, env *nodes.Env) (v types.Value, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if isHardFault(r) {
			panic(r)
		}
		err = types.Errorf(types.ErrInvocationFault, -1, "evaluation fault: %v", r)
	}()
	return fn(env)
}

func isHardFault(r any) bool {
	re, ok := r.(runtime.Error)
	if !ok {
		return false
	}
	msg := re.Error()
	return strings.Contains(msg, "integer divide by zero") ||
		strings.Contains(msg, "out of memory")
}

// degrade implements the fail-soft contract: return the untouched original
// text, logging the reason only in debug mode.
func (e *ComputedExpression) degrade(err error) (any, bool) {
	if e.debug {
		e.logger.Debug("compute degraded to original text", "text", e.text, "reason", err)
	}
	return e.text, false
}
