// Package extmisc provides miscellaneous functions for gocompute: random
// values, UUID generation and the function form of the conditional.
package extmisc

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/gocompute/gocompute/pkg/functions"
	"github.com/gocompute/gocompute/pkg/nodes"
	"github.com/gocompute/gocompute/pkg/types"
)

type module struct{}

func (module) ModuleName() string { return "misc" }

// Module returns the misc extension module.
func Module() functions.Module { return module{} }

func (module) Definitions() []functions.Definition {
	return []functions.Definition{
		uuidDef(),
		randomDef(),
		randomIntDef(),
		ifDef(),
	}
}

func uuidDef() functions.Definition {
	def := &nodes.FuncDef{
		Name:   "uuid",
		Result: types.String,
		// Not pure: a fresh identifier per invocation, never folded.
		Apply: func(*nodes.GenContext, []types.Value) (types.Value, error) {
			return types.StringValue(uuid.NewString()), nil
		},
	}
	return functions.Definition{Names: []string{"uuid", "guid"}, Arity: 0, Construct: functions.FromDef(def)}
}

func randomDef() functions.Definition {
	def := &nodes.FuncDef{
		Name:        "random",
		Result:      types.Numeric,
		ResultFloat: nodes.FloatYes,
		Apply: func(*nodes.GenContext, []types.Value) (types.Value, error) {
			return types.FloatValue(rand.Float64()), nil
		},
	}
	return functions.Definition{Names: []string{"random", "rand"}, Arity: 0, Construct: functions.FromDef(def)}
}

func randomIntDef() functions.Definition {
	def := &nodes.FuncDef{
		Name:          "randomint",
		Params:        []types.ValueKindSet{types.SetNumeric, types.SetNumeric},
		IntegerParams: []bool{true, true},
		Result:        types.Numeric,
		ResultFloat:   nodes.FloatNo,
		Apply: func(_ *nodes.GenContext, args []types.Value) (types.Value, error) {
			lo, hi := args[0].Int(), args[1].Int()
			if hi <= lo {
				return types.Value{}, types.Errorf(types.ErrInvocationFault, -1,
					"randomint range [%d, %d) is empty", lo, hi)
			}
			return types.IntValue(lo + rand.Int63n(hi-lo)), nil
		},
	}
	return functions.Definition{Names: []string{"randomint"}, Arity: 2, Construct: functions.FromDef(def)}
}

// ifDef is the function form of the ternary conditional. It constructs a
// conditional node directly so the arms unify the same way cond ? a : b does.
func ifDef() functions.Definition {
	return functions.Definition{
		Names: []string{"if", "iif"},
		Arity: 3,
		Construct: func(operands ...nodes.Node) (nodes.Node, error) {
			return nodes.NewConditionalNode(operands[0], operands[1], operands[2])
		},
	}
}
