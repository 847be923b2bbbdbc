package types

import (
	"fmt"
	"reflect"
	"strconv"
)

// StringFormatter renders a runtime value to its String-kind representation.
// Formatters are consulted left to right; the first one to report ok wins.
// The core never implements a formatter itself, only consumes the chain.
type StringFormatter interface {
	TryFormat(value any) (string, bool)
}

// StringFormatterFunc adapts a plain function to the StringFormatter interface.
type StringFormatterFunc func(value any) (string, bool)

// TryFormat implements StringFormatter.
func (f StringFormatterFunc) TryFormat(value any) (string, bool) {
	return f(value)
}

// FormatValue walks the formatter chain for v and falls back to the default
// rendering when no formatter claims the value.
func FormatValue(chain []StringFormatter, v Value) string {
	raw := v.Any()
	for _, f := range chain {
		if s, ok := f.TryFormat(raw); ok {
			return s
		}
	}
	switch v.Kind() {
	case Numeric:
		if v.IsFloat() {
			return strconv.FormatFloat(v.Float(), 'g', -1, 64)
		}
		return strconv.FormatInt(v.Int(), 10)
	case Boolean:
		return strconv.FormatBool(v.Bool())
	case ByteArray:
		return fmt.Sprintf("0x%x", v.Bytes())
	default:
		return v.Str()
	}
}

// SpecialObjectFunc is the optional hook consulted when a node needs a
// runtime-injected object that cannot be derived from parameters (e.g. a
// clock). It receives the requested type and returns an instance assignable
// to it, or nil when the request cannot be served. A nil hook or a nil
// return degrades generation of the requesting node to failure.
type SpecialObjectFunc func(requested reflect.Type) any
