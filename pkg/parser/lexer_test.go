package parser_test

import (
	"testing"

	"github.com/gocompute/gocompute/pkg/parser"
)

type lexerTestCase struct {
	name      string
	input     string
	expected  []parser.Token
	expectErr bool
}

func runLexerTests(t *testing.T, tests []lexerTestCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := parser.NewLexer(tt.input)
			var got []parser.Token
			for {
				tok := l.Next()
				if tok.Type == parser.TokenEOF {
					break
				}
				if tok.Type == parser.TokenError {
					if tt.expectErr {
						return
					}
					t.Fatalf("unexpected lexer error: %s", tok.Value)
				}
				got = append(got, tok)
			}
			if tt.expectErr {
				t.Fatal("expected a lexer error")
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("token count = %d, want %d (%v)", len(got), len(tt.expected), got)
			}
			for i, want := range tt.expected {
				if got[i] != want {
					t.Errorf("token %d = %+v, want %+v", i, got[i], want)
				}
			}
		})
	}
}

func TestLexerWhitespace(t *testing.T) {
	runLexerTests(t, []lexerTestCase{
		{
			name:  "leading whitespace",
			input: "   abc",
			expected: []parser.Token{
				{Type: parser.TokenName, Value: "abc", Position: 3},
			},
		},
		{
			name:  "mixed whitespace",
			input: "\t\r\n abc ",
			expected: []parser.Token{
				{Type: parser.TokenName, Value: "abc", Position: 4},
			},
		},
	})
}

func TestLexerStrings(t *testing.T) {
	runLexerTests(t, []lexerTestCase{
		{
			name:  "double quoted",
			input: `"hello"`,
			expected: []parser.Token{
				{Type: parser.TokenString, Value: "hello", Position: 1},
			},
		},
		{
			name:  "single quoted",
			input: `'world'`,
			expected: []parser.Token{
				{Type: parser.TokenString, Value: "world", Position: 1},
			},
		},
		{
			name:  "escapes",
			input: `"a\nb\t\"c\""`,
			expected: []parser.Token{
				{Type: parser.TokenString, Value: "a\nb\t\"c\"", Position: 1},
			},
		},
		{name: "unterminated", input: `"oops`, expectErr: true},
		{name: "unsupported escape", input: `"\q"`, expectErr: true},
	})
}

func TestLexerNumbers(t *testing.T) {
	runLexerTests(t, []lexerTestCase{
		{
			name:  "integer",
			input: "42",
			expected: []parser.Token{
				{Type: parser.TokenNumber, Value: "42", Position: 0},
			},
		},
		{
			name:  "float",
			input: "3.14",
			expected: []parser.Token{
				{Type: parser.TokenNumber, Value: "3.14", Position: 0},
			},
		},
		{
			name:  "exponent",
			input: "1e-10",
			expected: []parser.Token{
				{Type: parser.TokenNumber, Value: "1e-10", Position: 0},
			},
		},
		{
			name:  "hex",
			input: "0xFF",
			expected: []parser.Token{
				{Type: parser.TokenNumber, Value: "0xFF", Position: 0},
			},
		},
		{
			name:  "binary",
			input: "0b1010",
			expected: []parser.Token{
				{Type: parser.TokenNumber, Value: "0b1010", Position: 0},
			},
		},
		{name: "hex without digits", input: "0x", expectErr: true},
		{name: "bare exponent", input: "1e", expectErr: true},
	})
}

func TestLexerTrailingDot(t *testing.T) {
	l := parser.NewLexer("5.")
	want := parser.Token{Type: parser.TokenNumber, Value: "5", Position: 0}
	if tok := l.Next(); tok != want {
		t.Fatalf("token = %+v, want %+v", tok, want)
	}
	// The dot is left in the input and is no token of its own.
	if tok := l.Next(); tok.Type != parser.TokenError {
		t.Errorf("trailing dot must not lex, got %+v", tok)
	}
}

func TestLexerSymbols(t *testing.T) {
	runLexerTests(t, []lexerTestCase{
		{
			name:  "two-char beats one-char",
			input: "** << >= != && ||",
			expected: []parser.Token{
				{Type: parser.TokenPower, Value: "**", Position: 0},
				{Type: parser.TokenLeftShift, Value: "<<", Position: 3},
				{Type: parser.TokenGreaterEqual, Value: ">=", Position: 6},
				{Type: parser.TokenNotEqual, Value: "!=", Position: 9},
				{Type: parser.TokenLogicalAnd, Value: "&&", Position: 12},
				{Type: parser.TokenLogicalOr, Value: "||", Position: 15},
			},
		},
		{
			name:  "single equals is equality",
			input: "a = b",
			expected: []parser.Token{
				{Type: parser.TokenName, Value: "a", Position: 0},
				{Type: parser.TokenEqual, Value: "=", Position: 2},
				{Type: parser.TokenName, Value: "b", Position: 4},
			},
		},
		{
			name:  "ternary and unary",
			input: "? : ! ~",
			expected: []parser.Token{
				{Type: parser.TokenQuestion, Value: "?", Position: 0},
				{Type: parser.TokenColon, Value: ":", Position: 2},
				{Type: parser.TokenNot, Value: "!", Position: 4},
				{Type: parser.TokenBitwiseNot, Value: "~", Position: 6},
			},
		},
		{name: "unexpected character", input: "a @ b", expectErr: true},
	})
}

func TestLexerKeywords(t *testing.T) {
	runLexerTests(t, []lexerTestCase{
		{
			name:  "booleans",
			input: "true false trueish",
			expected: []parser.Token{
				{Type: parser.TokenBoolean, Value: "true", Position: 0},
				{Type: parser.TokenBoolean, Value: "false", Position: 5},
				{Type: parser.TokenName, Value: "trueish", Position: 11},
			},
		},
		{
			name:  "underscore names",
			input: "_tmp x_1",
			expected: []parser.Token{
				{Type: parser.TokenName, Value: "_tmp", Position: 0},
				{Type: parser.TokenName, Value: "x_1", Position: 5},
			},
		},
	})
}
