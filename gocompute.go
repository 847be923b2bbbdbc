// Package gocompute provides a small expression language for arithmetic,
// string, boolean and byte-array computations, parsed once from text and
// evaluated repeatedly against late-bound parameter values.
//
// # Quick Start
//
//	// Parse once, compute many times
//	expr, err := gocompute.Parse("x + 1")
//	v, ok := expr.Compute(5)        // 6, true
//	v, ok = expr.Compute("5")       // 6, true (string coerces to numeric)
//	v, ok = expr.Compute(true)      // "x + 1", false (boolean cannot)
//
//	// Approximate comparison
//	expr, _ = gocompute.Parse("a == b")
//	v, _ = expr.ComputeWithTolerance(types.SymmetricRange(0.5), 10.0, 10.4) // true
//
// # Type determination
//
// Parameter and literal kinds resolve purely from usage context while the
// tree is built: a function that needs a string first argument forces its
// operand to String immediately, so type errors surface at parse time. An
// expression whose typing cannot be resolved this way is not recognized;
// Compute on an unrecognized expression returns the original text.
//
// # Fail-soft compute
//
// Compute is total: argument-count mismatches, unconvertible arguments and
// generation failures all degrade to returning the original source text with
// a false second result, never a panic. Only out-of-memory and integer
// divide-by-zero propagate out of generated code.
//
// # Concurrency
//
// A ComputedExpression is single-threaded: type determination mutates shared
// parameter state in place. Parse once, then DeepClone once per concurrent
// consumer.
//
// For detailed documentation, see:
//   - Parser: github.com/gocompute/gocompute/pkg/parser
//   - Nodes: github.com/gocompute/gocompute/pkg/nodes
//   - Functions: github.com/gocompute/gocompute/pkg/functions
//   - Extensions: github.com/gocompute/gocompute/pkg/ext
//   - Types: github.com/gocompute/gocompute/pkg/types
package gocompute

import (
	"fmt"

	"github.com/gocompute/gocompute/pkg/cache"
	"github.com/gocompute/gocompute/pkg/nodes"
	"github.com/gocompute/gocompute/pkg/parser"
)

// Version returns the current version of gocompute.
func Version() string {
	return "v0.1.0-dev"
}

// Parse compiles an expression for repeated computation.
//
// Parse always returns a non-nil ComputedExpression. When the text cannot be
// recognized — a syntax error or a kind conflict discovered during tree
// construction — the returned error describes why, RecognizedCorrectly
// reports false and every Compute call returns the original text unevaluated.
func Parse(text string, opts ...Option) (*ComputedExpression, error) {
	o := buildOptions(opts)
	e := &ComputedExpression{
		text:       text,
		params:     nodes.NewParameterRegistry(),
		formatters: o.Formatters,
		special:    o.Special,
		logger:     o.Logger,
		debug:      o.Debug,
	}
	if o.Caching {
		e.cache = cache.New(o.CacheSize)
	}

	root, params, err := parser.Parse(text, o.registry())
	if err != nil {
		if o.Debug {
			o.Logger.Debug("expression not recognized", "text", text, "error", err)
		}
		return e, err
	}
	e.root = root
	e.params = params
	e.recognized = true
	return e, nil
}

// MustParse is like Parse but panics if the expression is not recognized.
// It simplifies safe initialization of global variables.
func MustParse(text string, opts ...Option) *ComputedExpression {
	e, err := Parse(text, opts...)
	if err != nil {
		panic(fmt.Sprintf("gocompute: Parse(%q): %v", text, err))
	}
	return e
}
