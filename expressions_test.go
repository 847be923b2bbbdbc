package gocompute_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/gocompute/gocompute"
	"github.com/gocompute/gocompute/pkg/types"
)

type expressionCase struct {
	Name      string   `yaml:"name"`
	Expr      string   `yaml:"expr"`
	Args      []any    `yaml:"args"`
	Tolerance *float64 `yaml:"tolerance"`
	Want      any      `yaml:"want"`
	Degraded  bool     `yaml:"degraded"`
}

// TestExpressionSuite runs the end-to-end cases from testdata/expressions.yaml:
// parse, compute with the given arguments, compare against the expectation.
func TestExpressionSuite(t *testing.T) {
	raw, err := os.ReadFile("testdata/expressions.yaml")
	require.NoError(t, err)

	var cases []expressionCase
	require.NoError(t, yaml.Unmarshal(raw, &cases))
	require.NotEmpty(t, cases)

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			expr, err := gocompute.Parse(tc.Expr)
			require.NoError(t, err, "parse %q", tc.Expr)

			var tol *types.Tolerance
			if tc.Tolerance != nil {
				tol = types.SymmetricRange(*tc.Tolerance)
			}
			got, ok := expr.ComputeWithTolerance(tol, tc.Args...)

			if tc.Degraded {
				assert.False(t, ok, "expected degradation, got %v", got)
				assert.Equal(t, tc.Expr, got, "degraded compute returns the text")
				return
			}
			require.True(t, ok, "compute %q degraded: %v", tc.Expr, got)
			assert.Equal(t, normalize(tc.Want), normalize(got))
		})
	}
}

// normalize folds YAML's int onto the engine's int64 for comparison.
func normalize(v any) any {
	if i, ok := v.(int); ok {
		return int64(i)
	}
	return v
}
