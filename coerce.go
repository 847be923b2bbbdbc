package gocompute

import (
	"encoding/hex"
	"math"
	"strconv"
	"strings"

	"github.com/gocompute/gocompute/pkg/ext/extbytes"
	"github.com/gocompute/gocompute/pkg/nodes"
	"github.com/gocompute/gocompute/pkg/types"
)

// coerceArgs binds the positional arguments into an evaluation environment,
// converting each one to its parameter's determined kind. Parameters whose
// kind is still Unknown are determined here by their first argument,
// first-use-wins: the determination sticks for every later Compute call.
//
// A `func() T` argument is a lazy provider: its kind is read from the
// signature without invoking it, and the conversion is deferred into a thunk
// the generated code forces at most once.
func (e *ComputedExpression) coerceArgs(args []any) (*nodes.Env, error) {
	env := nodes.NewEnv(len(args))
	for i, raw := range args {
		ctx := e.params.Contexts()[i]
		if provider, kind, isFloat, ok := lazyProvider(raw); ok {
			ctx.FuncParameter = true
			if ctx.ReturnType == types.Unknown {
				if err := ctx.DetermineKind(kind); err != nil {
					return nil, err
				}
			}
			if ctx.ReturnType == types.Numeric && ctx.FloatState == nodes.FloatUndetermined && kind == types.Numeric {
				if err := determineFloatState(ctx, isFloat); err != nil {
					return nil, err
				}
			}
			env.SetLazy(i, func() (types.Value, error) {
				return e.convert(provider(), ctx)
			})
			continue
		}
		v, err := e.convert(raw, ctx)
		if err != nil {
			return nil, err
		}
		env.SetValue(i, v)
	}
	return env, nil
}

// convert turns a raw Go value into the parameter's determined kind,
// determining the kind from the value itself when still Unknown.
func (e *ComputedExpression) convert(raw any, ctx *nodes.ParameterContext) (types.Value, error) {
	v, err := normalize(raw, ctx.Name)
	if err != nil {
		return types.Value{}, err
	}
	if ctx.ReturnType == types.Unknown {
		if err := ctx.DetermineKind(v.Kind()); err != nil {
			return types.Value{}, err
		}
	}
	if v.Kind() == ctx.ReturnType {
		if v.Kind() == types.Numeric {
			return reconcileNumeric(v, ctx)
		}
		return v, nil
	}
	out, err := e.crossConvert(v, ctx)
	if err != nil {
		return types.Value{}, err
	}
	if out.Kind() == types.Numeric {
		return reconcileNumeric(out, ctx)
	}
	return out, nil
}

// crossConvert applies the directional conversion matrix between the
// argument's native kind and the parameter's determined kind.
func (e *ComputedExpression) crossConvert(v types.Value, ctx *nodes.ParameterContext) (types.Value, error) {
	switch v.Kind() {
	case types.Numeric:
		switch ctx.ReturnType {
		case types.Boolean:
			if v.IsFloat() {
				return types.BoolValue(v.Float() != 0), nil
			}
			return types.BoolValue(v.Int() != 0), nil
		case types.String:
			return types.StringValue(types.FormatValue(e.formatters, v)), nil
		case types.ByteArray:
			if v.IsFloat() {
				return types.BytesValue(extbytes.EncodeInt(int64(math.Float64bits(v.Float())))), nil
			}
			return types.BytesValue(extbytes.EncodeInt(v.Int())), nil
		}
	case types.String:
		s := strings.TrimSpace(v.Str())
		switch ctx.ReturnType {
		case types.Numeric:
			if i, err := strconv.ParseInt(s, 0, 64); err == nil {
				return types.IntValue(i), nil
			}
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return types.Value{}, types.Errorf(types.ErrUnparsableArgument, -1,
					"parameter %q: %q is not numeric", ctx.Name, v.Str())
			}
			return types.FloatValue(f), nil
		case types.Boolean:
			b, err := strconv.ParseBool(s)
			if err != nil {
				return types.Value{}, types.Errorf(types.ErrUnparsableArgument, -1,
					"parameter %q: %q is not boolean", ctx.Name, v.Str())
			}
			return types.BoolValue(b), nil
		case types.ByteArray:
			b, err := extbytes.ParseHex(s)
			if err != nil {
				return types.Value{}, types.Errorf(types.ErrUnparsableArgument, -1,
					"parameter %q: %q is not a hex byte string", ctx.Name, v.Str())
			}
			return types.BytesValue(b), nil
		}
	case types.ByteArray:
		switch ctx.ReturnType {
		case types.Numeric:
			i, err := extbytes.DecodeInt(v.Bytes())
			if err != nil {
				return types.Value{}, types.Errorf(types.ErrUnparsableArgument, -1,
					"parameter %q: %v", ctx.Name, err)
			}
			return types.IntValue(i), nil
		case types.String:
			return types.StringValue("0x" + hex.EncodeToString(v.Bytes())), nil
		}
	case types.Boolean:
		if ctx.ReturnType == types.String {
			return types.StringValue(types.FormatValue(e.formatters, v)), nil
		}
		// Boolean never converts to Numeric or ByteArray: true has no
		// defensible magnitude.
	}
	return types.Value{}, types.Errorf(types.ErrUnconvertible, -1,
		"parameter %q: cannot convert %s to %s", ctx.Name, v.Kind(), ctx.ReturnType)
}

// reconcileNumeric aligns a numeric argument with the parameter's float
// state. An undetermined state is determined by the argument itself.
func reconcileNumeric(v types.Value, ctx *nodes.ParameterContext) (types.Value, error) {
	switch ctx.FloatState {
	case nodes.FloatNo:
		if !v.IsFloat() {
			return v, nil
		}
		if !types.IntegralFloat(v.Float()) {
			return types.Value{}, types.Errorf(types.ErrUnconvertible, -1,
				"parameter %q is integer, got fractional value %v", ctx.Name, v.Float())
		}
		return types.IntValue(int64(v.Float())), nil
	case nodes.FloatYes:
		if v.IsFloat() {
			return v, nil
		}
		return types.FloatValue(float64(v.Int())), nil
	default:
		if err := determineFloatState(ctx, v.IsFloat()); err != nil {
			return types.Value{}, err
		}
		return v, nil
	}
}

func determineFloatState(ctx *nodes.ParameterContext, isFloat bool) error {
	if isFloat {
		return ctx.DetermineFloat()
	}
	return ctx.DetermineInteger()
}

// normalize folds the supported Go input types onto the four runtime
// carriers: int64, float64, bool, string and []byte.
func normalize(raw any, name string) (types.Value, error) {
	switch v := raw.(type) {
	case int64:
		return types.IntValue(v), nil
	case int:
		return types.IntValue(int64(v)), nil
	case int32:
		return types.IntValue(int64(v)), nil
	case int16:
		return types.IntValue(int64(v)), nil
	case int8:
		return types.IntValue(int64(v)), nil
	case uint64:
		if v > math.MaxInt64 {
			return types.Value{}, types.Errorf(types.ErrUnconvertible, -1,
				"parameter %q: %d overflows int64", name, v)
		}
		return types.IntValue(int64(v)), nil
	case uint:
		if uint64(v) > math.MaxInt64 {
			return types.Value{}, types.Errorf(types.ErrUnconvertible, -1,
				"parameter %q: %d overflows int64", name, v)
		}
		return types.IntValue(int64(v)), nil
	case uint32:
		return types.IntValue(int64(v)), nil
	case uint16:
		return types.IntValue(int64(v)), nil
	case uint8:
		return types.IntValue(int64(v)), nil
	case float64:
		return types.FloatValue(v), nil
	case float32:
		return types.FloatValue(float64(v)), nil
	case bool:
		return types.BoolValue(v), nil
	case string:
		return types.StringValue(v), nil
	case []byte:
		return types.BytesValue(v), nil
	case types.Value:
		return v, nil
	default:
		return types.Value{}, types.Errorf(types.ErrUnconvertible, -1,
			"parameter %q: unsupported argument type %T", name, raw)
	}
}

// lazyProvider recognizes the supported value-provider signatures. The kind
// is read from the signature so type determination never forces the provider.
func lazyProvider(raw any) (provider func() any, kind types.ValueKind, isFloat bool, ok bool) {
	switch f := raw.(type) {
	case func() int64:
		return func() any { return f() }, types.Numeric, false, true
	case func() int:
		return func() any { return f() }, types.Numeric, false, true
	case func() float64:
		return func() any { return f() }, types.Numeric, true, true
	case func() bool:
		return func() any { return f() }, types.Boolean, false, true
	case func() string:
		return func() any { return f() }, types.String, false, true
	case func() []byte:
		return func() any { return f() }, types.ByteArray, false, true
	default:
		return nil, types.Unknown, false, false
	}
}
