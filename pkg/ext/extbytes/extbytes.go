// Package extbytes provides the byte-array function set for gocompute.
// Byte arrays are treated throughout as big-endian arbitrary-precision
// magnitudes, matching the MSB-first comparison semantics of the operators.
package extbytes

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/gocompute/gocompute/pkg/functions"
	"github.com/gocompute/gocompute/pkg/nodes"
	"github.com/gocompute/gocompute/pkg/types"
)

type module struct{}

func (module) ModuleName() string { return "bytes" }

// Module returns the byte-array extension module.
func Module() functions.Module { return module{} }

func (module) Definitions() []functions.Definition {
	return []functions.Definition{
		bytesDef(),
		hexDef(),
		byteLengthDef(),
		toBytesDef(),
		fromBytesDef(),
	}
}

// ParseHex converts a hex string (optionally 0x-prefixed, odd lengths
// zero-padded on the left) into a byte array.
func ParseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("not a hex byte string: %w", err)
	}
	return b, nil
}

// EncodeInt renders an integer as its fixed-width (8 byte) big-endian form.
func EncodeInt(v int64) []byte {
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, uint64(v))
	return out
}

// DecodeInt reads a big-endian magnitude of at most 8 significant bytes back
// into an integer.
func DecodeInt(b []byte) (int64, error) {
	i := 0
	for i < len(b) && b[i] == 0 {
		i++
	}
	sig := b[i:]
	if len(sig) > 8 {
		return 0, fmt.Errorf("byte array has %d significant bytes, need at most 8", len(sig))
	}
	var v uint64
	for _, x := range sig {
		v = v<<8 | uint64(x)
	}
	return int64(v), nil
}

func bytesDef() functions.Definition {
	def := &nodes.FuncDef{
		Name:   "bytes",
		Params: []types.ValueKindSet{types.SetString},
		Result: types.ByteArray,
		Pure:   true,
		Apply: func(_ *nodes.GenContext, args []types.Value) (types.Value, error) {
			b, err := ParseHex(args[0].Str())
			if err != nil {
				return types.Value{}, types.NewError(types.ErrInvocationFault, err.Error(), -1)
			}
			return types.BytesValue(b), nil
		},
	}
	return functions.Definition{Names: []string{"bytes", "frombinary"}, Arity: 1, Construct: functions.FromDef(def)}
}

func hexDef() functions.Definition {
	def := &nodes.FuncDef{
		Name:   "hex",
		Params: []types.ValueKindSet{types.SetByteArray},
		Result: types.String,
		Pure:   true,
		Apply: func(_ *nodes.GenContext, args []types.Value) (types.Value, error) {
			return types.StringValue("0x" + hex.EncodeToString(args[0].Bytes())), nil
		},
	}
	return functions.Definition{Names: []string{"hex", "tohex"}, Arity: 1, Construct: functions.FromDef(def)}
}

func byteLengthDef() functions.Definition {
	def := &nodes.FuncDef{
		Name:        "bytelength",
		Params:      []types.ValueKindSet{types.SetByteArray},
		Result:      types.Numeric,
		ResultFloat: nodes.FloatNo,
		Pure:        true,
		Apply: func(_ *nodes.GenContext, args []types.Value) (types.Value, error) {
			return types.IntValue(int64(len(args[0].Bytes()))), nil
		},
	}
	return functions.Definition{Names: []string{"bytelength"}, Arity: 1, Construct: functions.FromDef(def)}
}

func toBytesDef() functions.Definition {
	def := &nodes.FuncDef{
		Name:          "tobytes",
		Params:        []types.ValueKindSet{types.SetNumeric},
		IntegerParams: []bool{true},
		Result:        types.ByteArray,
		Pure:          true,
		Apply: func(_ *nodes.GenContext, args []types.Value) (types.Value, error) {
			return types.BytesValue(EncodeInt(args[0].Int())), nil
		},
	}
	return functions.Definition{Names: []string{"tobytes"}, Arity: 1, Construct: functions.FromDef(def)}
}

func fromBytesDef() functions.Definition {
	def := &nodes.FuncDef{
		Name:        "frombytes",
		Params:      []types.ValueKindSet{types.SetByteArray},
		Result:      types.Numeric,
		ResultFloat: nodes.FloatNo,
		Pure:        true,
		Apply: func(_ *nodes.GenContext, args []types.Value) (types.Value, error) {
			v, err := DecodeInt(args[0].Bytes())
			if err != nil {
				return types.Value{}, types.NewError(types.ErrInvocationFault, err.Error(), -1)
			}
			return types.IntValue(v), nil
		},
	}
	return functions.Definition{Names: []string{"frombytes"}, Arity: 1, Construct: functions.FromDef(def)}
}
