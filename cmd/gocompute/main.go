// Command gocompute parses an expression and computes it against parameter
// values supplied inline or from a YAML file.
//
// Usage:
//
//	gocompute [flags] EXPRESSION [ARG...]
//
//	gocompute "2 + 3 * 4"
//	gocompute "x * y + 1" 6 7
//	gocompute -params values.yaml "temperature > threshold"
//	gocompute -tolerance 0.5 "a == b" 10.0 10.4
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/gocompute/gocompute"
	"github.com/gocompute/gocompute/pkg/types"
)

func main() {
	var (
		paramsFile = flag.String("params", "", "YAML file mapping parameter names to values")
		tolerance  = flag.Float64("tolerance", 0, "symmetric absolute tolerance for comparisons")
		debug      = flag.Bool("debug", false, "log parse and compute degradations")
		version    = flag.Bool("version", false, "print version and exit")
	)
	flag.Usage = usage
	flag.Parse()

	if *version {
		fmt.Println("gocompute", gocompute.Version())
		return
	}
	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	expr, err := gocompute.Parse(flag.Arg(0), gocompute.WithDebug(*debug))
	if err != nil {
		fail("parse: %v", err)
	}

	var tol *types.Tolerance
	if *tolerance > 0 {
		tol = types.SymmetricRange(*tolerance)
	}

	var (
		result any
		ok     bool
	)
	if *paramsFile != "" {
		values, err := loadParams(*paramsFile)
		if err != nil {
			fail("%v", err)
		}
		result, ok = expr.ComputeWithData(func(name string) (any, bool) {
			v, found := values[name]
			return v, found
		})
	} else {
		args := make([]any, flag.NArg()-1)
		for i, raw := range flag.Args()[1:] {
			args[i] = raw
		}
		result, ok = expr.ComputeWithTolerance(tol, args...)
	}

	if !ok {
		fail("expression could not be computed: %v", result)
	}
	switch v := result.(type) {
	case []byte:
		fmt.Printf("0x%x\n", v)
	default:
		fmt.Println(v)
	}
}

// loadParams reads a flat YAML mapping of parameter names to scalar values.
func loadParams(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read params: %w", err)
	}
	values := map[string]any{}
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("parse params %s: %w", path, err)
	}
	return values, nil
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: gocompute [flags] EXPRESSION [ARG...]\n\n")
	fmt.Fprintf(os.Stderr, "Positional ARGs bind to parameters in first-appearance order.\n")
	fmt.Fprintf(os.Stderr, "Flags:\n")
	flag.PrintDefaults()
}

func fail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		msg = "\x1b[31m" + msg + "\x1b[0m"
	}
	fmt.Fprintln(os.Stderr, strings.TrimRight(msg, "\n"))
	os.Exit(1)
}
