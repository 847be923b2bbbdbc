package gocompute

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocompute/gocompute/pkg/nodes"
	"github.com/gocompute/gocompute/pkg/types"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want types.Value
	}{
		{"int", int(7), types.IntValue(7)},
		{"int8", int8(-7), types.IntValue(-7)},
		{"int16", int16(7), types.IntValue(7)},
		{"int32", int32(7), types.IntValue(7)},
		{"int64", int64(7), types.IntValue(7)},
		{"uint8", uint8(7), types.IntValue(7)},
		{"uint16", uint16(7), types.IntValue(7)},
		{"uint32", uint32(7), types.IntValue(7)},
		{"uint64", uint64(7), types.IntValue(7)},
		{"float32", float32(0.5), types.FloatValue(0.5)},
		{"float64", 2.5, types.FloatValue(2.5)},
		{"bool", true, types.BoolValue(true)},
		{"string", "s", types.StringValue("s")},
		{"value passthrough", types.IntValue(3), types.IntValue(3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalize(tt.in, "p")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	b, err := normalize([]byte{1, 2}, "p")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, b.Bytes())
}

func TestNormalizeRejects(t *testing.T) {
	_, err := normalize(uint64(math.MaxUint64), "p")
	require.Error(t, err)
	assert.Equal(t, types.ErrUnconvertible, err.(*types.Error).Code)

	_, err = normalize(struct{ X int }{1}, "p")
	require.Error(t, err)
	assert.Equal(t, types.ErrUnconvertible, err.(*types.Error).Code)

	_, err = normalize(nil, "p")
	require.Error(t, err)
}

func determined(t *testing.T, kind types.ValueKind) *nodes.ParameterContext {
	t.Helper()
	ctx := nodes.NewParameterRegistry().Advertise("p")
	require.NoError(t, ctx.DetermineKind(kind))
	return ctx
}

func TestConvertMatrix(t *testing.T) {
	e := &ComputedExpression{}

	tests := []struct {
		name string
		kind types.ValueKind
		in   any
		want any
	}{
		{"numeric to bool nonzero", types.Boolean, 3, true},
		{"numeric to bool zero", types.Boolean, 0, false},
		{"float to bool", types.Boolean, 0.1, true},
		{"numeric to string", types.String, 12, "12"},
		{"float to string", types.String, 2.5, "2.5"},
		{"bool to string", types.String, true, "true"},
		{"string to int", types.Numeric, "42", int64(42)},
		{"string to hex int", types.Numeric, "0x10", int64(16)},
		{"string to float", types.Numeric, "2.5", 2.5},
		{"string to bool", types.Boolean, "true", true},
		{"bytes to numeric", types.Numeric, []byte{0x01, 0x00}, int64(256)},
		{"bytes to string", types.String, []byte{0x12, 0x34}, "0x1234"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := e.convert(tt.in, determined(t, tt.kind))
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Any())
		})
	}
}

func TestConvertToBytes(t *testing.T) {
	e := &ComputedExpression{}

	v, err := e.convert(18, determined(t, types.ByteArray))
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 18}, v.Bytes())

	v, err = e.convert("0x1234", determined(t, types.ByteArray))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x12, 0x34}, v.Bytes())

	// Floats carry their IEEE bits.
	v, err = e.convert(1.0, determined(t, types.ByteArray))
	require.NoError(t, err)
	back, err := e.convert(v.Bytes(), determined(t, types.Numeric))
	require.NoError(t, err)
	assert.Equal(t, 1.0, math.Float64frombits(uint64(back.Int())))
}

func TestConvertFailures(t *testing.T) {
	e := &ComputedExpression{}

	tests := []struct {
		name string
		kind types.ValueKind
		in   any
		code types.ErrorCode
	}{
		{"bool to numeric", types.Numeric, true, types.ErrUnconvertible},
		{"bool to bytes", types.ByteArray, true, types.ErrUnconvertible},
		{"bad numeric string", types.Numeric, "twelve", types.ErrUnparsableArgument},
		{"bad bool string", types.Boolean, "maybe", types.ErrUnparsableArgument},
		{"bad hex string", types.ByteArray, "xyz", types.ErrUnparsableArgument},
		{"oversized bytes to numeric", types.Numeric, []byte{1, 0, 0, 0, 0, 0, 0, 0, 0}, types.ErrUnparsableArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.convert(tt.in, determined(t, tt.kind))
			require.Error(t, err)
			assert.Equal(t, tt.code, err.(*types.Error).Code)
		})
	}
}

func TestConvertDeterminesUnknownKind(t *testing.T) {
	e := &ComputedExpression{}
	ctx := nodes.NewParameterRegistry().Advertise("p")

	v, err := e.convert("hello", ctx)
	require.NoError(t, err)
	assert.Equal(t, "hello", v.Str())
	assert.Equal(t, types.String, ctx.ReturnType, "first use determines the kind")

	// The determination sticks: a numeric argument now converts to string.
	v, err = e.convert(5, ctx)
	require.NoError(t, err)
	assert.Equal(t, "5", v.Str())
}

func TestReconcileNumericFloatState(t *testing.T) {
	e := &ComputedExpression{}

	intCtx := determined(t, types.Numeric)
	require.NoError(t, intCtx.DetermineInteger())
	v, err := e.convert(3.0, intCtx)
	require.NoError(t, err)
	assert.False(t, v.IsFloat())
	assert.Equal(t, int64(3), v.Int())
	_, err = e.convert(3.5, intCtx)
	require.Error(t, err, "fractional value cannot fill an integer slot")

	floatCtx := determined(t, types.Numeric)
	require.NoError(t, floatCtx.DetermineFloat())
	v, err = e.convert(3, floatCtx)
	require.NoError(t, err)
	assert.True(t, v.IsFloat(), "integers widen into a float slot")

	// Undetermined state follows the first argument.
	freshCtx := determined(t, types.Numeric)
	_, err = e.convert(2.5, freshCtx)
	require.NoError(t, err)
	assert.Equal(t, nodes.FloatYes, freshCtx.FloatState)
}

func TestLazyProviderSignatures(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		kind    types.ValueKind
		isFloat bool
	}{
		{"int64", func() int64 { return 1 }, types.Numeric, false},
		{"int", func() int { return 1 }, types.Numeric, false},
		{"float64", func() float64 { return 1 }, types.Numeric, true},
		{"bool", func() bool { return true }, types.Boolean, false},
		{"string", func() string { return "" }, types.String, false},
		{"bytes", func() []byte { return nil }, types.ByteArray, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, kind, isFloat, ok := lazyProvider(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.isFloat, isFloat)
			assert.NotNil(t, provider)
		})
	}

	if _, _, _, ok := lazyProvider(func() (int64, error) { return 0, nil }); ok {
		t.Error("unsupported signatures must not be recognized")
	}
	if _, _, _, ok := lazyProvider(42); ok {
		t.Error("plain values are not providers")
	}
}
