package nodes_test

import (
	"testing"

	"github.com/gocompute/gocompute/pkg/nodes"
	"github.com/gocompute/gocompute/pkg/types"
)

// evalRoot generates and invokes a node built purely from constants.
func evalRoot(t *testing.T, n nodes.Node) types.Value {
	t.Helper()
	fn, err := n.Generate(&nodes.GenContext{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	v, err := fn(nodes.NewEnv(0))
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	return v
}

func mustBinary(t *testing.T, op nodes.BinaryOp, l, r nodes.Node) nodes.Node {
	t.Helper()
	n, err := nodes.NewBinaryNode(op, l, r)
	if err != nil {
		t.Fatalf("NewBinaryNode(%s): %v", op, err)
	}
	return n
}

func TestConstantFolding(t *testing.T) {
	inner := mustBinary(t, nodes.OpMultiply, nodes.NewIntegerConstant(3), nodes.NewIntegerConstant(4))
	root := mustBinary(t, nodes.OpAdd, nodes.NewIntegerConstant(2), inner)

	nc, ok := root.(*nodes.NumericConstant)
	if !ok {
		t.Fatalf("constant tree must fold, got %T", root)
	}
	if nc.IsFloat() || nc.Value().Int() != 14 {
		t.Errorf("fold = %v", nc.Value())
	}
	if !root.IsConstant() {
		t.Error("folded node must be constant")
	}
}

func TestDivisionAlwaysFloat(t *testing.T) {
	root := mustBinary(t, nodes.OpDivide, nodes.NewIntegerConstant(7), nodes.NewIntegerConstant(2))
	nc, ok := root.(*nodes.NumericConstant)
	if !ok {
		t.Fatalf("got %T", root)
	}
	if !nc.IsFloat() || nc.Value().Float() != 3.5 {
		t.Errorf("7/2 = %v, want 3.5", nc.Value())
	}
}

func TestStringConcatFolding(t *testing.T) {
	root := mustBinary(t, nodes.OpAdd, nodes.NewStringConstant("foo"), nodes.NewStringConstant("bar"))
	sc, ok := root.(*nodes.StringConstant)
	if !ok {
		t.Fatalf("got %T", root)
	}
	if sc.Value() != "foobar" {
		t.Errorf("concat = %q", sc.Value())
	}
}

func TestByteEqualityFoldsLeadingZeroInsensitive(t *testing.T) {
	root, err := nodes.NewCompareNode(nodes.OpEqual,
		nodes.NewByteArrayConstant([]byte{0x00, 0x01}),
		nodes.NewByteArrayConstant([]byte{0x01}))
	if err != nil {
		t.Fatalf("NewCompareNode: %v", err)
	}
	bc, ok := root.(*nodes.BooleanConstant)
	if !ok {
		t.Fatalf("constant comparison must fold, got %T", root)
	}
	if !bc.Value() {
		t.Error("[00 01] == [01] must fold to true")
	}
}

func TestDivisionByZeroConstantDoesNotFold(t *testing.T) {
	// 1/0 is float division: folds to +Inf without fault.
	root := mustBinary(t, nodes.OpDivide, nodes.NewIntegerConstant(1), nodes.NewIntegerConstant(0))
	if _, ok := root.(*nodes.NumericConstant); !ok {
		t.Fatalf("float division by zero still folds, got %T", root)
	}
	// 1%0 faults during folding; the fold is abandoned and the fault
	// surfaces at compute time instead.
	root = mustBinary(t, nodes.OpModulo, nodes.NewIntegerConstant(1), nodes.NewIntegerConstant(0))
	if _, ok := root.(*nodes.NumericConstant); ok {
		t.Fatal("1%0 must not fold to a constant")
	}
}

func TestUnaryFolding(t *testing.T) {
	neg, err := nodes.NewUnaryNode(nodes.OpNegate, nodes.NewIntegerConstant(5))
	if err != nil {
		t.Fatalf("negate: %v", err)
	}
	if nc := neg.(*nodes.NumericConstant); nc.Value().Int() != -5 {
		t.Errorf("-5 = %v", nc.Value())
	}

	not, err := nodes.NewUnaryNode(nodes.OpNot, nodes.NewBooleanConstant(true))
	if err != nil {
		t.Fatalf("not: %v", err)
	}
	if bc := not.(*nodes.BooleanConstant); bc.Value() {
		t.Error("!true must fold to false")
	}

	bnot, err := nodes.NewUnaryNode(nodes.OpNot, nodes.NewIntegerConstant(0))
	if err != nil {
		t.Fatalf("bitwise not: %v", err)
	}
	if nc := bnot.(*nodes.NumericConstant); nc.Value().Int() != -1 {
		t.Errorf("~0 = %v", nc.Value())
	}
}

func TestNegateRejectsString(t *testing.T) {
	_, err := nodes.NewUnaryNode(nodes.OpNegate, nodes.NewStringConstant("x"))
	if !types.IsLogicError(err) {
		t.Errorf("negating a string must fail logically, got %v", err)
	}
}

func TestUnificationResolvesParameter(t *testing.T) {
	reg := nodes.NewParameterRegistry()
	p := nodes.NewParameterNode(reg.Advertise("x"))
	_ = mustBinary(t, nodes.OpAdd, p, nodes.NewIntegerConstant(1))

	ctx, _ := reg.Get("x")
	if ctx.ReturnType != types.Numeric {
		t.Errorf("x + 1 must resolve x to numeric, got %s", ctx.ReturnType)
	}
}

func TestUnificationLeavesAmbiguousUnknown(t *testing.T) {
	reg := nodes.NewParameterRegistry()
	a := nodes.NewParameterNode(reg.Advertise("a"))
	b := nodes.NewParameterNode(reg.Advertise("b"))
	if _, err := nodes.NewCompareNode(nodes.OpEqual, a, b); err != nil {
		t.Fatalf("a == b: %v", err)
	}
	if !reg.HasUndefined() {
		t.Error("a == b constrains neither parameter")
	}
}

func TestKindConflictFailsLogically(t *testing.T) {
	reg := nodes.NewParameterRegistry()
	ctx := reg.Advertise("s")
	if err := ctx.DetermineKind(types.String); err != nil {
		t.Fatal(err)
	}
	p := nodes.NewParameterNode(ctx)
	_, err := nodes.NewBinaryNode(nodes.OpSubtract, p, nodes.NewIntegerConstant(1))
	if !types.IsLogicError(err) {
		t.Errorf("string - numeric must fail logically, got %v", err)
	}
}

func TestIntegerDetermination(t *testing.T) {
	c := nodes.NewFloatConstant(2.0)
	if err := c.DetermineInteger(); err != nil {
		t.Fatalf("integral float must normalize: %v", err)
	}
	if c.IsFloat() || c.Value().Int() != 2 {
		t.Errorf("normalized = %v", c.Value())
	}

	frac := nodes.NewFloatConstant(2.5)
	if err := frac.DetermineInteger(); !types.IsLogicError(err) {
		t.Errorf("fractional constant cannot be integer, got %v", err)
	}
}

func TestParameterFloatStateOrdering(t *testing.T) {
	reg := nodes.NewParameterRegistry()
	ctx := reg.Advertise("n")
	if err := ctx.DetermineInteger(); err != nil {
		t.Fatal(err)
	}
	// Later float evidence never overrides integer: it widens for free.
	if err := ctx.DetermineFloat(); err != nil {
		t.Fatal(err)
	}
	if ctx.FloatState != nodes.FloatNo {
		t.Errorf("FloatState = %v, want FloatNo", ctx.FloatState)
	}

	ctx2 := reg.Advertise("m")
	if err := ctx2.DetermineFloat(); err != nil {
		t.Fatal(err)
	}
	if err := ctx2.DetermineInteger(); !types.IsLogicError(err) {
		t.Errorf("float parameter cannot become integer, got %v", err)
	}
}

func TestShiftSemantics(t *testing.T) {
	root := mustBinary(t, nodes.OpLeftShift, nodes.NewIntegerConstant(1), nodes.NewIntegerConstant(4))
	if nc := root.(*nodes.NumericConstant); nc.Value().Int() != 16 {
		t.Errorf("1 << 4 = %v", nc.Value())
	}

	root = mustBinary(t, nodes.OpLeftShift, nodes.NewByteArrayConstant([]byte{0x12, 0x34}), nodes.NewIntegerConstant(8))
	bc, ok := root.(*nodes.ByteArrayConstant)
	if !ok {
		t.Fatalf("byte shift must fold, got %T", root)
	}
	if !types.BytesEqual(bc.Value(), []byte{0x12, 0x34, 0x00}) {
		t.Errorf("0x1234 << 8 = %x", bc.Value())
	}

	_, err := nodes.NewBinaryNode(nodes.OpLeftShift, nodes.NewIntegerConstant(1), nodes.NewFloatConstant(2.5))
	if !types.IsLogicError(err) {
		t.Errorf("fractional shift count must fail logically, got %v", err)
	}
}

func TestBitwiseOverBooleansAndIntegers(t *testing.T) {
	root := mustBinary(t, nodes.OpXor, nodes.NewBooleanConstant(true), nodes.NewBooleanConstant(false))
	if bc := root.(*nodes.BooleanConstant); !bc.Value() {
		t.Error("true ^ false must be true")
	}

	root = mustBinary(t, nodes.OpAnd, nodes.NewIntegerConstant(0b1100), nodes.NewIntegerConstant(0b1010))
	if nc := root.(*nodes.NumericConstant); nc.Value().Int() != 0b1000 {
		t.Errorf("1100 & 1010 = %b", nc.Value().Int())
	}

	_, err := nodes.NewBinaryNode(nodes.OpOr, nodes.NewBooleanConstant(true), nodes.NewIntegerConstant(1))
	if !types.IsLogicError(err) {
		t.Errorf("boolean | numeric must fail logically, got %v", err)
	}
}

func TestShortCircuitSkipsRightOperand(t *testing.T) {
	reg := nodes.NewParameterRegistry()
	ctx := reg.Advertise("b")
	if err := ctx.DetermineKind(types.Boolean); err != nil {
		t.Fatal(err)
	}
	p := nodes.NewParameterNode(ctx)
	root := mustBinary(t, nodes.OpLogicalOr, nodes.NewBooleanConstant(true), p)

	fn, err := root.Generate(&nodes.GenContext{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	// The environment deliberately leaves b unbound: short-circuit means it
	// is never read.
	v, err := fn(nodes.NewEnv(1))
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if !v.Bool() {
		t.Error("true || b must be true without reading b")
	}
}

func TestCompareGenerateResolvesLateParameters(t *testing.T) {
	reg := nodes.NewParameterRegistry()
	a := nodes.NewParameterNode(reg.Advertise("a"))
	b := nodes.NewParameterNode(reg.Advertise("b"))
	root, err := nodes.NewCompareNode(nodes.OpEqual, a, b)
	if err != nil {
		t.Fatal(err)
	}

	// Kinds arrive later, during argument coercion.
	actx, _ := reg.Get("a")
	bctx, _ := reg.Get("b")
	if err := actx.DetermineKind(types.Numeric); err != nil {
		t.Fatal(err)
	}
	if err := bctx.DetermineKind(types.Numeric); err != nil {
		t.Fatal(err)
	}

	eval := func(tol *types.Tolerance, l, r types.Value) bool {
		fn, err := root.Generate(&nodes.GenContext{Tolerance: tol})
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		env := nodes.NewEnv(2)
		env.SetValue(0, l)
		env.SetValue(1, r)
		v, err := fn(env)
		if err != nil {
			t.Fatalf("invoke: %v", err)
		}
		return v.Bool()
	}

	if eval(nil, types.FloatValue(10.0), types.FloatValue(10.4)) {
		t.Error("exact: 10.0 == 10.4 must be false")
	}
	if !eval(types.SymmetricRange(0.5), types.FloatValue(10.0), types.FloatValue(10.4)) {
		t.Error("±0.5: 10.0 == 10.4 must be true")
	}
	if eval(types.SymmetricRange(0.3), types.FloatValue(10.0), types.FloatValue(10.4)) {
		t.Error("±0.3: 10.0 == 10.4 must be false")
	}
	if !eval(types.SymmetricIntegerRange(2), types.IntValue(10), types.IntValue(12)) {
		t.Error("integer ±2: 10 == 12 must be true")
	}
}

func TestTolerantOrderingRelaxes(t *testing.T) {
	reg := nodes.NewParameterRegistry()
	a := nodes.NewParameterNode(reg.Advertise("a"))
	b := nodes.NewParameterNode(reg.Advertise("b"))
	root, err := nodes.NewCompareNode(nodes.OpLess, a, b)
	if err != nil {
		t.Fatal(err)
	}
	actx, _ := reg.Get("a")
	bctx, _ := reg.Get("b")
	if err := actx.DetermineFloat(); err != nil {
		t.Fatal(err)
	}
	if err := bctx.DetermineFloat(); err != nil {
		t.Fatal(err)
	}

	fn, err := root.Generate(&nodes.GenContext{Tolerance: types.SymmetricRange(0.5)})
	if err != nil {
		t.Fatal(err)
	}
	env := nodes.NewEnv(2)
	env.SetValue(0, types.FloatValue(10.0))
	env.SetValue(1, types.FloatValue(9.8))
	v, err := fn(env)
	if err != nil {
		t.Fatal(err)
	}
	if !v.Bool() {
		t.Error("10.0 < 9.8 must hold under a 0.5 margin")
	}
}

func TestCompareIsAlwaysTolerant(t *testing.T) {
	reg := nodes.NewParameterRegistry()
	a := nodes.NewParameterNode(reg.Advertise("a"))
	root, err := nodes.NewCompareNode(nodes.OpGreater, a, nodes.NewIntegerConstant(0))
	if err != nil {
		t.Fatal(err)
	}
	if !root.IsTolerant() {
		t.Error("a surviving comparison is tolerance-sensitive")
	}
	sum := mustBinary(t, nodes.OpAdd, nodes.NewParameterNode(reg.Advertise("b")), nodes.NewIntegerConstant(1))
	if sum.IsTolerant() {
		t.Error("arithmetic is not tolerance-sensitive")
	}
}

func TestOrderingRejectsBooleans(t *testing.T) {
	_, err := nodes.NewCompareNode(nodes.OpLess, nodes.NewBooleanConstant(true), nodes.NewBooleanConstant(false))
	if !types.IsLogicError(err) {
		t.Errorf("boolean ordering must fail logically, got %v", err)
	}
}

func TestConditionalSelectsLazily(t *testing.T) {
	reg := nodes.NewParameterRegistry()
	cond := nodes.NewParameterNode(reg.Advertise("flag"))
	thenCtx := reg.Advertise("a")
	elseCtx := reg.Advertise("b")
	if err := thenCtx.DetermineKind(types.Numeric); err != nil {
		t.Fatal(err)
	}
	if err := elseCtx.DetermineKind(types.Numeric); err != nil {
		t.Fatal(err)
	}
	root, err := nodes.NewConditionalNode(cond, nodes.NewParameterNode(thenCtx), nodes.NewParameterNode(elseCtx))
	if err != nil {
		t.Fatal(err)
	}
	condCtx, _ := reg.Get("flag")
	if condCtx.ReturnType != types.Boolean {
		t.Fatalf("condition must resolve boolean, got %s", condCtx.ReturnType)
	}

	fn, err := root.Generate(&nodes.GenContext{})
	if err != nil {
		t.Fatal(err)
	}
	forced := false
	env := nodes.NewEnv(3)
	env.SetValue(0, types.BoolValue(true))
	env.SetValue(1, types.IntValue(1))
	env.SetLazy(2, func() (types.Value, error) {
		forced = true
		return types.IntValue(2), nil
	})
	v, err := fn(env)
	if err != nil {
		t.Fatal(err)
	}
	if v.Int() != 1 {
		t.Errorf("taken arm = %v", v)
	}
	if forced {
		t.Error("untaken arm must not be forced")
	}
}

func TestConditionalGenerateUnifiesLateArms(t *testing.T) {
	reg := nodes.NewParameterRegistry()
	cond := nodes.NewParameterNode(reg.Advertise("flag"))
	thenCtx := reg.Advertise("a")
	elseCtx := reg.Advertise("b")
	root, err := nodes.NewConditionalNode(cond, nodes.NewParameterNode(thenCtx), nodes.NewParameterNode(elseCtx))
	if err != nil {
		t.Fatal(err)
	}

	// Kinds arrive later, during argument coercion, and disagree.
	if err := thenCtx.DetermineKind(types.Numeric); err != nil {
		t.Fatal(err)
	}
	if err := elseCtx.DetermineKind(types.String); err != nil {
		t.Fatal(err)
	}
	if _, err := root.Generate(&nodes.GenContext{}); err == nil {
		t.Fatal("arms of different kinds must not generate")
	} else if !types.IsLogicError(err) {
		t.Errorf("want a logic error, got %v", err)
	}
}

func TestConditionalGenerateResolvesLateArms(t *testing.T) {
	reg := nodes.NewParameterRegistry()
	cond := nodes.NewParameterNode(reg.Advertise("flag"))
	thenCtx := reg.Advertise("a")
	elseCtx := reg.Advertise("b")
	root, err := nodes.NewConditionalNode(cond, nodes.NewParameterNode(thenCtx), nodes.NewParameterNode(elseCtx))
	if err != nil {
		t.Fatal(err)
	}

	// One arm resolving pushes its kind onto the other at generation.
	if err := thenCtx.DetermineKind(types.String); err != nil {
		t.Fatal(err)
	}
	if _, err := root.Generate(&nodes.GenContext{}); err != nil {
		t.Fatal(err)
	}
	if elseCtx.ReturnType != types.String {
		t.Errorf("unresolved arm = %s, want String", elseCtx.ReturnType)
	}
}

func TestConditionalFolds(t *testing.T) {
	root, err := nodes.NewConditionalNode(nodes.NewBooleanConstant(false),
		nodes.NewIntegerConstant(1), nodes.NewIntegerConstant(2))
	if err != nil {
		t.Fatal(err)
	}
	nc, ok := root.(*nodes.NumericConstant)
	if !ok {
		t.Fatalf("constant conditional must fold, got %T", root)
	}
	if nc.Value().Int() != 2 {
		t.Errorf("false ? 1 : 2 = %v", nc.Value())
	}
}

func TestEnvForcesThunkOnce(t *testing.T) {
	env := nodes.NewEnv(1)
	calls := 0
	env.SetLazy(0, func() (types.Value, error) {
		calls++
		return types.IntValue(9), nil
	})
	for i := 0; i < 3; i++ {
		v, err := env.Arg(0)
		if err != nil {
			t.Fatal(err)
		}
		if v.Int() != 9 {
			t.Errorf("Arg(0) = %v", v)
		}
	}
	if calls != 1 {
		t.Errorf("thunk forced %d times, want 1", calls)
	}
}

func TestDeepCloneIndependence(t *testing.T) {
	reg := nodes.NewParameterRegistry()
	p := nodes.NewParameterNode(reg.Advertise("x"))
	root, err := nodes.NewCompareNode(nodes.OpEqual, p, nodes.NewParameterNode(reg.Advertise("y")))
	if err != nil {
		t.Fatal(err)
	}

	cloneReg := reg.Clone()
	clone := root.DeepClone(cloneReg)

	cx, _ := cloneReg.Get("x")
	if err := cx.DetermineKind(types.String); err != nil {
		t.Fatal(err)
	}
	ox, _ := reg.Get("x")
	if ox.ReturnType != types.Unknown {
		t.Error("determining the clone must not touch the original")
	}
	if cloneReg.Names()[0] != "x" || cloneReg.Names()[1] != "y" {
		t.Errorf("clone order = %v", cloneReg.Names())
	}
	if clone.IsConstant() {
		t.Error("cloned comparison over parameters is not constant")
	}
}

func TestFingerprintChangesWithState(t *testing.T) {
	reg := nodes.NewParameterRegistry()
	reg.Advertise("x")
	before := reg.Fingerprint(nil)
	ctx, _ := reg.Get("x")
	if err := ctx.DetermineKind(types.Numeric); err != nil {
		t.Fatal(err)
	}
	after := reg.Fingerprint(nil)
	if before == after {
		t.Error("kind determination must change the fingerprint")
	}
	if after == reg.Fingerprint(types.SymmetricRange(1)) {
		t.Error("tolerance shape must change the fingerprint")
	}
}
