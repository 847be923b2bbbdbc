// Package ext aggregates the built-in extension modules for gocompute.
//
// The function modules live in sub-packages grouped by category:
//   - extmath     – abs, sqrt, pow, trig, min/max, rounding, constants, …
//   - extstring   – length, case, trim, substring, contains, replace, …
//   - extbytes    – hex parsing/rendering, integer <-> big-endian bytes, …
//   - extdatetime – now, today, unixtime (clock via special-object hook)
//   - extmisc     – uuid, random, randomint, if
//
// # Integration – all modules at once
//
//	expr, err := gocompute.Parse("sqrt(x) + 1")  // default registry
//
// # Integration – by category
//
//	expr, err := gocompute.Parse("sqrt(x)",
//	    gocompute.WithModules(extmath.Module()))
package ext

import (
	"github.com/gocompute/gocompute/pkg/ext/extbytes"
	"github.com/gocompute/gocompute/pkg/ext/extdatetime"
	"github.com/gocompute/gocompute/pkg/ext/extmath"
	"github.com/gocompute/gocompute/pkg/ext/extmisc"
	"github.com/gocompute/gocompute/pkg/ext/extstring"
	"github.com/gocompute/gocompute/pkg/functions"
)

// AllModules returns every built-in extension module, in registration order.
// Earlier modules win name collisions.
func AllModules() []functions.Module {
	return []functions.Module{
		extmath.Module(),
		extstring.Module(),
		extbytes.Module(),
		extdatetime.Module(),
		extmisc.Module(),
	}
}

// DefaultRegistry builds the registry holding every built-in module. The
// result is read-only and safe to share across parses and goroutines.
func DefaultRegistry() *functions.Registry {
	return functions.NewRegistry(AllModules()...)
}
