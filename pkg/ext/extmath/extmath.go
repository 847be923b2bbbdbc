// Package extmath provides the mathematical function set for gocompute.
package extmath

import (
	"math"

	"github.com/gocompute/gocompute/pkg/functions"
	"github.com/gocompute/gocompute/pkg/nodes"
	"github.com/gocompute/gocompute/pkg/types"
)

type module struct{}

func (module) ModuleName() string { return "math" }

// Module returns the math extension module.
func Module() functions.Module { return module{} }

func (module) Definitions() []functions.Definition {
	return []functions.Definition{
		unaryPreserving("abs", func(i int64) int64 {
			if i < 0 {
				return -i
			}
			return i
		}, math.Abs),
		unaryFloat("sqrt", math.Sqrt),
		unaryFloat("cbrt", math.Cbrt),
		unaryFloat("exp", math.Exp),
		unaryFloat("ln", math.Log),
		unaryFloat("log10", math.Log10, "lg"),
		unaryFloat("sin", math.Sin),
		unaryFloat("cos", math.Cos),
		unaryFloat("tan", math.Tan),
		unaryFloat("asin", math.Asin, "arcsin"),
		unaryFloat("acos", math.Acos, "arccos"),
		unaryFloat("atan", math.Atan, "arctan"),
		unaryFloat("sinh", math.Sinh),
		unaryFloat("cosh", math.Cosh),
		unaryFloat("tanh", math.Tanh),
		unaryFloat("floor", math.Floor),
		unaryFloat("ceil", math.Ceil, "ceiling"),
		unaryFloat("round", math.Round),
		unaryFloat("trunc", math.Trunc, "truncate"),
		unaryFloat("rad", func(d float64) float64 { return d * math.Pi / 180 }, "radians"),
		unaryFloat("deg", func(r float64) float64 { return r * 180 / math.Pi }, "degrees"),
		unaryPreserving("sign", func(i int64) int64 {
			switch {
			case i > 0:
				return 1
			case i < 0:
				return -1
			default:
				return 0
			}
		}, func(f float64) float64 {
			switch {
			case f > 0:
				return 1
			case f < 0:
				return -1
			default:
				return 0
			}
		}),
		binaryFloat("pow", math.Pow, "power"),
		binaryFloat("log", func(n, base float64) float64 {
			return math.Log(n) / math.Log(base)
		}, "logarithm"),
		binaryFloat("atan2", math.Atan2),
		binaryFloat("hypot", math.Hypot),
		binaryPreserving("min", func(a, b int64) int64 {
			if a < b {
				return a
			}
			return b
		}, math.Min, "minimum"),
		binaryPreserving("max", func(a, b int64) int64 {
			if a > b {
				return a
			}
			return b
		}, math.Max, "maximum"),
		clamp(),
		nonaryFloat("pi", math.Pi),
		nonaryFloat("e", math.E),
		nonaryFloat("tau", 2*math.Pi),
	}
}

func unaryFloat(name string, fn func(float64) float64, aliases ...string) functions.Definition {
	def := &nodes.FuncDef{
		Name:        name,
		Params:      []types.ValueKindSet{types.SetNumeric},
		Result:      types.Numeric,
		ResultFloat: nodes.FloatYes,
		Pure:        true,
		Apply: func(_ *nodes.GenContext, args []types.Value) (types.Value, error) {
			return types.FloatValue(fn(args[0].Float())), nil
		},
	}
	return functions.Definition{
		Names:     append([]string{name}, aliases...),
		Arity:     1,
		Construct: functions.FromDef(def),
	}
}

// unaryPreserving keeps the operand's integer/float state in the result.
func unaryPreserving(name string, fi func(int64) int64, ff func(float64) float64, aliases ...string) functions.Definition {
	def := &nodes.FuncDef{
		Name:   name,
		Params: []types.ValueKindSet{types.SetNumeric},
		Result: types.Numeric,
		Pure:   true,
		Apply: func(_ *nodes.GenContext, args []types.Value) (types.Value, error) {
			if args[0].IsFloat() {
				return types.FloatValue(ff(args[0].Float())), nil
			}
			return types.IntValue(fi(args[0].Int())), nil
		},
	}
	return functions.Definition{
		Names:     append([]string{name}, aliases...),
		Arity:     1,
		Construct: functions.FromDef(def),
	}
}

func binaryFloat(name string, fn func(a, b float64) float64, aliases ...string) functions.Definition {
	def := &nodes.FuncDef{
		Name:        name,
		Params:      []types.ValueKindSet{types.SetNumeric, types.SetNumeric},
		Result:      types.Numeric,
		ResultFloat: nodes.FloatYes,
		Pure:        true,
		Apply: func(_ *nodes.GenContext, args []types.Value) (types.Value, error) {
			return types.FloatValue(fn(args[0].Float(), args[1].Float())), nil
		},
	}
	return functions.Definition{
		Names:     append([]string{name}, aliases...),
		Arity:     2,
		Construct: functions.FromDef(def),
	}
}

func binaryPreserving(name string, fi func(a, b int64) int64, ff func(a, b float64) float64, aliases ...string) functions.Definition {
	def := &nodes.FuncDef{
		Name:   name,
		Params: []types.ValueKindSet{types.SetNumeric, types.SetNumeric},
		Result: types.Numeric,
		Pure:   true,
		Apply: func(_ *nodes.GenContext, args []types.Value) (types.Value, error) {
			if args[0].IsFloat() || args[1].IsFloat() {
				return types.FloatValue(ff(args[0].Float(), args[1].Float())), nil
			}
			return types.IntValue(fi(args[0].Int(), args[1].Int())), nil
		},
	}
	return functions.Definition{
		Names:     append([]string{name}, aliases...),
		Arity:     2,
		Construct: functions.FromDef(def),
	}
}

func clamp() functions.Definition {
	def := &nodes.FuncDef{
		Name:   "clamp",
		Params: []types.ValueKindSet{types.SetNumeric, types.SetNumeric, types.SetNumeric},
		Result: types.Numeric,
		Pure:   true,
		Apply: func(_ *nodes.GenContext, args []types.Value) (types.Value, error) {
			v, lo, hi := args[0], args[1], args[2]
			if v.IsFloat() || lo.IsFloat() || hi.IsFloat() {
				f := math.Min(math.Max(v.Float(), lo.Float()), hi.Float())
				return types.FloatValue(f), nil
			}
			i := v.Int()
			if i < lo.Int() {
				i = lo.Int()
			}
			if i > hi.Int() {
				i = hi.Int()
			}
			return types.IntValue(i), nil
		},
	}
	return functions.Definition{Names: []string{"clamp"}, Arity: 3, Construct: functions.FromDef(def)}
}

func nonaryFloat(name string, v float64) functions.Definition {
	def := &nodes.FuncDef{
		Name:        name,
		Result:      types.Numeric,
		ResultFloat: nodes.FloatYes,
		Pure:        true,
		Apply: func(*nodes.GenContext, []types.Value) (types.Value, error) {
			return types.FloatValue(v), nil
		},
	}
	return functions.Definition{Names: []string{name}, Arity: 0, Construct: functions.FromDef(def)}
}
