package functions_test

import (
	"testing"

	"github.com/gocompute/gocompute/pkg/functions"
	"github.com/gocompute/gocompute/pkg/nodes"
	"github.com/gocompute/gocompute/pkg/types"
)

type fakeModule struct {
	name string
	defs []functions.Definition
}

func (m fakeModule) ModuleName() string                 { return m.name }
func (m fakeModule) Definitions() []functions.Definition { return m.defs }

func constDef(names []string, arity int, v int64) functions.Definition {
	params := make([]types.ValueKindSet, arity)
	for i := range params {
		params[i] = types.SetNumeric
	}
	return functions.Definition{
		Names: names,
		Arity: arity,
		Construct: functions.FromDef(&nodes.FuncDef{
			Name:   names[0],
			Params: params,
			Result: types.Numeric,
			Pure:   true,
			Apply: func(_ *nodes.GenContext, _ []types.Value) (types.Value, error) {
				return types.IntValue(v), nil
			},
		}),
	}
}

func TestRegistryLookup(t *testing.T) {
	reg := functions.NewRegistry(fakeModule{name: "m", defs: []functions.Definition{
		constDef([]string{"one", "uno"}, 0, 1),
		constDef([]string{"one"}, 1, 11),
	}})

	if _, ok := reg.Lookup("one", 0); !ok {
		t.Error("one/0 must be registered")
	}
	if _, ok := reg.Lookup("uno", 0); !ok {
		t.Error("aliases share the constructor")
	}
	if _, ok := reg.Lookup("one", 1); !ok {
		t.Error("the same name may exist at several arities")
	}
	if _, ok := reg.Lookup("one", 2); ok {
		t.Error("unregistered arity must miss")
	}
	if _, ok := reg.Lookup("two", 0); ok {
		t.Error("unregistered name must miss")
	}
	if !reg.Known("one") || reg.Known("two") {
		t.Error("Known mismatch")
	}
}

func TestRegistryFirstWins(t *testing.T) {
	reg := functions.NewRegistry(
		fakeModule{name: "first", defs: []functions.Definition{constDef([]string{"f"}, 0, 1)}},
		fakeModule{name: "second", defs: []functions.Definition{constDef([]string{"f"}, 0, 2)}},
	)
	ctor, ok := reg.Lookup("f", 0)
	if !ok {
		t.Fatal("f must be registered")
	}
	n, err := ctor()
	if err != nil {
		t.Fatal(err)
	}
	nc, ok := n.(*nodes.NumericConstant)
	if !ok {
		t.Fatalf("pure nonary call must fold, got %T", n)
	}
	if nc.Value().Int() != 1 {
		t.Errorf("collision winner = %v, want the first registration", nc.Value())
	}
}

func TestRegistrySkipsMalformedDefinitions(t *testing.T) {
	bad := fakeModule{name: "bad", defs: []functions.Definition{
		{Names: nil, Arity: 0, Construct: constDef([]string{"x"}, 0, 0).Construct},
		{Names: []string{"niluctor"}, Arity: 0, Construct: nil},
		{Names: []string{"hugearity"}, Arity: functions.MaxArity + 1, Construct: constDef([]string{"x"}, 0, 0).Construct},
		{Names: []string{""}, Arity: 0, Construct: constDef([]string{"x"}, 0, 0).Construct},
		constDef([]string{"good"}, 0, 7),
	}}
	reg := functions.NewRegistry(bad, nil)

	if reg.Known("niluctor") || reg.Known("hugearity") || reg.Known("") {
		t.Error("malformed definitions must be skipped")
	}
	if _, ok := reg.Lookup("good", 0); !ok {
		t.Error("a malformed sibling must not poison the scan")
	}
	names := reg.Names()
	if len(names) != 1 || names[0] != "good" {
		t.Errorf("Names() = %v", names)
	}
}

func TestFunctionNodeArityMismatch(t *testing.T) {
	def := &nodes.FuncDef{
		Name:   "pair",
		Params: []types.ValueKindSet{types.SetNumeric, types.SetNumeric},
		Result: types.Numeric,
		Pure:   true,
		Apply: func(_ *nodes.GenContext, args []types.Value) (types.Value, error) {
			return args[0], nil
		},
	}
	_, err := nodes.NewFunctionNode(def, nodes.NewIntegerConstant(1))
	if err == nil {
		t.Fatal("operand-count mismatch must fail")
	}
	ge, ok := err.(*types.Error)
	if !ok || ge.Code != types.ErrFunctionParameters {
		t.Errorf("error = %v", err)
	}
}
