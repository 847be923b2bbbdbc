// Package extstring provides the string function set for gocompute.
package extstring

import (
	"strings"

	"github.com/gocompute/gocompute/pkg/functions"
	"github.com/gocompute/gocompute/pkg/nodes"
	"github.com/gocompute/gocompute/pkg/types"
)

type module struct{}

func (module) ModuleName() string { return "string" }

// Module returns the string extension module.
func Module() functions.Module { return module{} }

func (module) Definitions() []functions.Definition {
	return []functions.Definition{
		lengthDef(),
		stringToString("lower", strings.ToLower, "lowercase"),
		stringToString("upper", strings.ToUpper, "uppercase"),
		stringToString("trim", strings.TrimSpace),
		stringToString("trimstart", func(s string) string { return strings.TrimLeft(s, " \t\r\n") }),
		stringToString("trimend", func(s string) string { return strings.TrimRight(s, " \t\r\n") }),
		substringDef(),
		substrDef(),
		stringPredicate("contains", strings.Contains),
		stringPredicate("startswith", strings.HasPrefix),
		stringPredicate("endswith", strings.HasSuffix),
		indexOfDef(),
		replaceDef(),
		repeatDef(),
		padDef("padleft", true),
		padDef("padright", false),
		stringRenderDef(),
	}
}

func lengthDef() functions.Definition {
	def := &nodes.FuncDef{
		Name:        "length",
		Params:      []types.ValueKindSet{types.SetString},
		Result:      types.Numeric,
		ResultFloat: nodes.FloatNo,
		Pure:        true,
		Apply: func(_ *nodes.GenContext, args []types.Value) (types.Value, error) {
			return types.IntValue(int64(len(args[0].Str()))), nil
		},
	}
	return functions.Definition{Names: []string{"length", "strlen"}, Arity: 1, Construct: functions.FromDef(def)}
}

func stringToString(name string, fn func(string) string, aliases ...string) functions.Definition {
	def := &nodes.FuncDef{
		Name:   name,
		Params: []types.ValueKindSet{types.SetString},
		Result: types.String,
		Pure:   true,
		Apply: func(_ *nodes.GenContext, args []types.Value) (types.Value, error) {
			return types.StringValue(fn(args[0].Str())), nil
		},
	}
	return functions.Definition{Names: append([]string{name}, aliases...), Arity: 1, Construct: functions.FromDef(def)}
}

func stringPredicate(name string, fn func(s, sub string) bool) functions.Definition {
	def := &nodes.FuncDef{
		Name:   name,
		Params: []types.ValueKindSet{types.SetString, types.SetString},
		Result: types.Boolean,
		Pure:   true,
		Apply: func(_ *nodes.GenContext, args []types.Value) (types.Value, error) {
			return types.BoolValue(fn(args[0].Str(), args[1].Str())), nil
		},
	}
	return functions.Definition{Names: []string{name}, Arity: 2, Construct: functions.FromDef(def)}
}

func substringDef() functions.Definition {
	def := &nodes.FuncDef{
		Name:          "substring",
		Params:        []types.ValueKindSet{types.SetString, types.SetNumeric},
		IntegerParams: []bool{false, true},
		Result:        types.String,
		Pure:          true,
		Apply: func(_ *nodes.GenContext, args []types.Value) (types.Value, error) {
			s, start := args[0].Str(), args[1].Int()
			if start < 0 || start > int64(len(s)) {
				return types.Value{}, types.Errorf(types.ErrInvocationFault, -1,
					"substring start %d out of range for length %d", start, len(s))
			}
			return types.StringValue(s[start:]), nil
		},
	}
	return functions.Definition{Names: []string{"substring"}, Arity: 2, Construct: functions.FromDef(def)}
}

func substrDef() functions.Definition {
	def := &nodes.FuncDef{
		Name:          "substr",
		Params:        []types.ValueKindSet{types.SetString, types.SetNumeric, types.SetNumeric},
		IntegerParams: []bool{false, true, true},
		Result:        types.String,
		Pure:          true,
		Apply: func(_ *nodes.GenContext, args []types.Value) (types.Value, error) {
			s, start, length := args[0].Str(), args[1].Int(), args[2].Int()
			if start < 0 || length < 0 || start+length > int64(len(s)) {
				return types.Value{}, types.Errorf(types.ErrInvocationFault, -1,
					"substr(%d, %d) out of range for length %d", start, length, len(s))
			}
			return types.StringValue(s[start : start+length]), nil
		},
	}
	return functions.Definition{Names: []string{"substr", "substring3"}, Arity: 3, Construct: functions.FromDef(def)}
}

func indexOfDef() functions.Definition {
	def := &nodes.FuncDef{
		Name:        "indexof",
		Params:      []types.ValueKindSet{types.SetString, types.SetString},
		Result:      types.Numeric,
		ResultFloat: nodes.FloatNo,
		Pure:        true,
		Apply: func(_ *nodes.GenContext, args []types.Value) (types.Value, error) {
			return types.IntValue(int64(strings.Index(args[0].Str(), args[1].Str()))), nil
		},
	}
	return functions.Definition{Names: []string{"indexof"}, Arity: 2, Construct: functions.FromDef(def)}
}

func replaceDef() functions.Definition {
	def := &nodes.FuncDef{
		Name:   "replace",
		Params: []types.ValueKindSet{types.SetString, types.SetString, types.SetString},
		Result: types.String,
		Pure:   true,
		Apply: func(_ *nodes.GenContext, args []types.Value) (types.Value, error) {
			return types.StringValue(strings.ReplaceAll(args[0].Str(), args[1].Str(), args[2].Str())), nil
		},
	}
	return functions.Definition{Names: []string{"replace"}, Arity: 3, Construct: functions.FromDef(def)}
}

func repeatDef() functions.Definition {
	def := &nodes.FuncDef{
		Name:          "repeat",
		Params:        []types.ValueKindSet{types.SetString, types.SetNumeric},
		IntegerParams: []bool{false, true},
		Result:        types.String,
		Pure:          true,
		Apply: func(_ *nodes.GenContext, args []types.Value) (types.Value, error) {
			n := args[1].Int()
			if n < 0 || n > 1<<20 {
				return types.Value{}, types.Errorf(types.ErrInvocationFault, -1, "repeat count %d out of range", n)
			}
			return types.StringValue(strings.Repeat(args[0].Str(), int(n))), nil
		},
	}
	return functions.Definition{Names: []string{"repeat"}, Arity: 2, Construct: functions.FromDef(def)}
}

func padDef(name string, left bool) functions.Definition {
	def := &nodes.FuncDef{
		Name:          name,
		Params:        []types.ValueKindSet{types.SetString, types.SetNumeric},
		IntegerParams: []bool{false, true},
		Result:        types.String,
		Pure:          true,
		Apply: func(_ *nodes.GenContext, args []types.Value) (types.Value, error) {
			s, width := args[0].Str(), args[1].Int()
			if width < 0 || width > 1<<20 {
				return types.Value{}, types.Errorf(types.ErrInvocationFault, -1, "pad width %d out of range", width)
			}
			if int64(len(s)) >= width {
				return types.StringValue(s), nil
			}
			pad := strings.Repeat(" ", int(width)-len(s))
			if left {
				return types.StringValue(pad + s), nil
			}
			return types.StringValue(s + pad), nil
		},
	}
	return functions.Definition{Names: []string{name}, Arity: 2, Construct: functions.FromDef(def)}
}

// stringRenderDef renders any kind to String via the configured formatter
// chain, falling back to the default rendering.
func stringRenderDef() functions.Definition {
	def := &nodes.FuncDef{
		Name:   "string",
		Params: []types.ValueKindSet{types.SetAll},
		Result: types.String,
		Pure:   true,
		Apply: func(gc *nodes.GenContext, args []types.Value) (types.Value, error) {
			return types.StringValue(types.FormatValue(gc.Formatters, args[0])), nil
		},
	}
	return functions.Definition{Names: []string{"string", "str"}, Arity: 1, Construct: functions.FromDef(def)}
}
