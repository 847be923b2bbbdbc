// Package functions provides the name→constructor registry the parser
// consults when it encounters a call-like token.
//
// The registry is built once at startup from explicitly registered extension
// modules and is read-only afterwards, so it is safe to share across every
// parse and every goroutine. Each module contributes definitions keyed by
// arity (0 through 3); a name collision within one arity keeps the first
// registration and silently ignores later ones, and a malformed definition
// poisons only itself, never the scan.
//
// # Example
//
//	reg := functions.NewRegistry(extmath.Module(), extstring.Module())
//	ctor, ok := reg.Lookup("sqrt", 1)
package functions

import (
	"sort"

	"github.com/gocompute/gocompute/pkg/nodes"
)

// MaxArity is the largest supported function arity.
const MaxArity = 3

// Constructor builds the node for one registered callable from its operand
// nodes. Implementations validate operand kinds immediately (fail fast) and
// may return an already-folded constant node.
type Constructor func(operands ...nodes.Node) (nodes.Node, error)

// Definition declares one callable: the names it answers to, its arity and
// its constructor.
type Definition struct {
	Names     []string
	Arity     int
	Construct Constructor
}

// Module is a named group of function definitions, the explicit-registration
// replacement for assembly scanning.
type Module interface {
	// ModuleName identifies the module in diagnostics.
	ModuleName() string
	// Definitions returns the module's callables.
	Definitions() []Definition
}

// Registry maps callable names to constructors, keyed by arity.
type Registry struct {
	byArity [MaxArity + 1]map[string]Constructor
}

// NewRegistry scans the supplied modules and builds the four arity maps.
// Registration is idempotent-insert: the first constructor registered for a
// (name, arity) pair wins. Definitions with an out-of-range arity, no names
// or a nil constructor are skipped without aborting the scan.
func NewRegistry(modules ...Module) *Registry {
	r := &Registry{}
	for i := range r.byArity {
		r.byArity[i] = make(map[string]Constructor)
	}
	for _, m := range modules {
		if m == nil {
			continue
		}
		for _, def := range m.Definitions() {
			if def.Arity < 0 || def.Arity > MaxArity || def.Construct == nil || len(def.Names) == 0 {
				continue
			}
			for _, name := range def.Names {
				if name == "" {
					continue
				}
				if _, exists := r.byArity[def.Arity][name]; exists {
					continue
				}
				r.byArity[def.Arity][name] = def.Construct
			}
		}
	}
	return r
}

// Lookup returns the constructor registered for name at the given arity.
func (r *Registry) Lookup(name string, arity int) (Constructor, bool) {
	if arity < 0 || arity > MaxArity {
		return nil, false
	}
	c, ok := r.byArity[arity][name]
	return c, ok
}

// Known reports whether name is registered at any arity.
func (r *Registry) Known(name string) bool {
	for _, m := range r.byArity {
		if _, ok := m[name]; ok {
			return true
		}
	}
	return false
}

// Names returns every registered name, sorted, across all arities.
func (r *Registry) Names() []string {
	seen := make(map[string]struct{})
	for _, m := range r.byArity {
		for name := range m {
			seen[name] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// FromDef wraps a node-level function definition into a Constructor.
func FromDef(def *nodes.FuncDef) Constructor {
	return func(operands ...nodes.Node) (nodes.Node, error) {
		return nodes.NewFunctionNode(def, operands...)
	}
}
