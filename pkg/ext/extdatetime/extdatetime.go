// Package extdatetime provides clock-backed functions for gocompute.
//
// The functions here are the canonical consumers of the special-object
// request hook: now() and today() need a Clock that cannot be derived from
// parameters, so node generation asks the hook for one and degrades to
// failure when no hook is installed or the hook cannot supply a Clock.
package extdatetime

import (
	"reflect"
	"time"

	"github.com/gocompute/gocompute/pkg/functions"
	"github.com/gocompute/gocompute/pkg/nodes"
	"github.com/gocompute/gocompute/pkg/types"
)

// Clock produces the current time. Install one via the special-object
// request hook:
//
//	gocompute.WithSpecialObjectRequest(func(t reflect.Type) any {
//	    if t == extdatetime.ClockType {
//	        return extdatetime.Clock(time.Now)
//	    }
//	    return nil
//	})
type Clock func() time.Time

// ClockType is the reflect.Type the module requests from the hook.
var ClockType = reflect.TypeOf(Clock(nil))

type module struct{}

func (module) ModuleName() string { return "datetime" }

// Module returns the date/time extension module.
func Module() functions.Module { return module{} }

func (module) Definitions() []functions.Definition {
	return []functions.Definition{
		clockString("now", func(t time.Time) string { return t.Format(time.RFC3339) }),
		clockString("today", func(t time.Time) string { return t.Format(time.DateOnly) }),
		clockInt("unixtime", func(t time.Time) int64 { return t.Unix() }),
	}
}

func obtainClock(gc *nodes.GenContext) (Clock, error) {
	if gc.Special == nil {
		return nil, types.Errorf(types.ErrGeneration, -1, "no special-object hook installed, cannot obtain a clock")
	}
	obj := gc.Special(ClockType)
	c, ok := obj.(Clock)
	if !ok || c == nil {
		return nil, types.Errorf(types.ErrGeneration, -1, "special-object hook did not supply a clock")
	}
	return c, nil
}

func clockString(name string, render func(time.Time) string) functions.Definition {
	def := &nodes.FuncDef{
		Name:    name,
		Result:  types.String,
		Special: ClockType,
		Apply: func(gc *nodes.GenContext, _ []types.Value) (types.Value, error) {
			c, err := obtainClock(gc)
			if err != nil {
				return types.Value{}, err
			}
			return types.StringValue(render(c())), nil
		},
	}
	return functions.Definition{Names: []string{name}, Arity: 0, Construct: functions.FromDef(def)}
}

func clockInt(name string, render func(time.Time) int64) functions.Definition {
	def := &nodes.FuncDef{
		Name:        name,
		Result:      types.Numeric,
		ResultFloat: nodes.FloatNo,
		Special:     ClockType,
		Apply: func(gc *nodes.GenContext, _ []types.Value) (types.Value, error) {
			c, err := obtainClock(gc)
			if err != nil {
				return types.Value{}, err
			}
			return types.IntValue(render(c())), nil
		},
	}
	return functions.Definition{Names: []string{name}, Arity: 0, Construct: functions.FromDef(def)}
}
