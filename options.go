package gocompute

import (
	"log/slog"
	"sync"

	"github.com/gocompute/gocompute/pkg/ext"
	"github.com/gocompute/gocompute/pkg/functions"
	"github.com/gocompute/gocompute/pkg/types"
)

// Options holds parse configuration.
type Options struct {
	// Modules are the extension modules to build the function registry
	// from. Empty means every built-in module.
	Modules []functions.Module
	// Registry overrides Modules with a prebuilt registry.
	Registry *functions.Registry
	// Formatters is the ordered value-to-string converter chain consulted
	// whenever a value is rendered to String kind. Treated as immutable.
	Formatters []types.StringFormatter
	// Special is the optional runtime-object request hook.
	Special types.SpecialObjectFunc
	// Caching enables memoization of generated closures, keyed by the
	// parameter-kind fingerprint and tolerance shape.
	Caching bool
	// CacheSize sets the closure cache capacity. Defaults to 64.
	CacheSize int
	// Debug enables debug logging.
	Debug bool
	// Logger for structured logging.
	Logger *slog.Logger
}

// Option configures parsing behavior.
type Option func(*Options)

// WithModules selects the extension modules to register functions from.
func WithModules(modules ...functions.Module) Option {
	return func(o *Options) { o.Modules = append(o.Modules, modules...) }
}

// WithRegistry supplies a prebuilt function registry, bypassing module
// scanning entirely.
func WithRegistry(r *functions.Registry) Option {
	return func(o *Options) { o.Registry = r }
}

// WithStringFormatters appends to the value-to-string converter chain.
// Formatters are consulted left to right; first success wins.
func WithStringFormatters(formatters ...types.StringFormatter) Option {
	return func(o *Options) { o.Formatters = append(o.Formatters, formatters...) }
}

// WithSpecialObjectRequest installs the hook consulted when a node needs a
// runtime-injected object (e.g. a clock).
func WithSpecialObjectRequest(fn types.SpecialObjectFunc) Option {
	return func(o *Options) { o.Special = fn }
}

// WithCaching enables or disables generated-closure memoization.
func WithCaching(enable bool) Option {
	return func(o *Options) { o.Caching = enable }
}

// WithCacheSize sets the closure cache capacity; implies WithCaching(true).
func WithCacheSize(size int) Option {
	return func(o *Options) {
		o.Caching = true
		o.CacheSize = size
	}
}

// WithDebug enables debug logging of parse and compute degradations.
func WithDebug(enable bool) Option {
	return func(o *Options) { o.Debug = enable }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// defaultRegistry is built once from every built-in module and shared by all
// parses; it is read-only after construction.
var defaultRegistry = sync.OnceValue(ext.DefaultRegistry)

func buildOptions(opts []Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

func (o *Options) registry() *functions.Registry {
	if o.Registry != nil {
		return o.Registry
	}
	if len(o.Modules) > 0 {
		return functions.NewRegistry(o.Modules...)
	}
	return defaultRegistry()
}
