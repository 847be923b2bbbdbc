package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gocompute/gocompute/pkg/types"
)

const eof = -1

// Lexer converts an expression string into a sequence of tokens.
// The implementation is based on Rob Pike's "Lexical Scanning in Go" technique.
type Lexer struct {
	input   string // Input string being scanned
	length  int    // Length of input string
	start   int    // Start position of current token
	current int    // Current position in input
	width   int    // Width of last rune read
}

// NewLexer creates a new lexer from the provided input string.
// The input is tokenized by successive calls to the Next method.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input, length: len(input)}
}

// Next returns the next token from the input. When the end of the input is
// reached, Next returns TokenEOF for all subsequent calls.
func (l *Lexer) Next() Token {
	l.skipWhitespace()

	ch := l.nextRune()
	if ch == eof {
		return l.eofToken()
	}

	// Two-character symbols first (e.g. **, <=, <<, ==).
	if rts := lookupSymbol2(ch); rts != nil {
		for _, rt := range rts {
			if l.acceptRune(rt.r) {
				return l.newToken(rt.tt)
			}
		}
	}

	// Single-character symbols.
	if tt := lookupSymbol1(ch); tt > 0 {
		return l.newToken(tt)
	}

	// String literals (single or double quoted).
	if ch == '"' || ch == '\'' {
		l.ignore()
		return l.scanString(ch)
	}

	// Number literals.
	if ch >= '0' && ch <= '9' {
		l.backup()
		return l.scanNumber()
	}

	// Names and keywords.
	if isNameStart(ch) {
		l.backup()
		return l.scanName()
	}

	return l.errorToken(types.ErrSyntaxError, "unexpected character %q", string(ch))
}

// scanString reads a string literal, processing escape sequences. The
// opening quote has already been consumed.
func (l *Lexer) scanString(quote rune) Token {
	var sb strings.Builder
	for {
		switch ch := l.nextRune(); ch {
		case quote:
			l.backup()
			t := l.newToken(TokenString)
			t.Value = sb.String()
			l.acceptRune(quote)
			l.ignore()
			return t
		case '\\':
			esc := l.nextRune()
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\', '"', '\'':
				sb.WriteRune(esc)
			case eof:
				return l.errorToken(types.ErrStringNotClosed, "unterminated string literal")
			default:
				return l.errorToken(types.ErrUnsupportedEscape, "unsupported escape \\%s", string(esc))
			}
		case eof:
			return l.errorToken(types.ErrStringNotClosed, "unterminated string literal")
		default:
			sb.WriteRune(ch)
		}
	}
}

// scanNumber reads a number literal: decimal integers and floats with
// optional exponent, plus 0x hex and 0b binary integers.
func (l *Lexer) scanNumber() Token {
	if l.acceptRune('0') {
		if l.acceptRunes2('x', 'X') {
			if !l.acceptAll(isHexDigit) {
				return l.errorToken(types.ErrNumberOutOfRange, "hex literal needs digits")
			}
			return l.newToken(TokenNumber)
		}
		if l.acceptRunes2('b', 'B') {
			if !l.acceptAll(isBinaryDigit) {
				return l.errorToken(types.ErrNumberOutOfRange, "binary literal needs digits")
			}
			return l.newToken(TokenNumber)
		}
	}
	l.acceptAll(isDigit)

	// Decimal part
	dot := l.current
	if l.acceptRune('.') {
		if !l.acceptAll(isDigit) {
			// A trailing dot is not part of the number.
			l.current = dot
			l.width = 0
			return l.newToken(TokenNumber)
		}
	}

	// Exponent part
	if l.acceptRunes2('e', 'E') {
		l.acceptRunes2('+', '-')
		if !l.acceptAll(isDigit) {
			return l.errorToken(types.ErrNumberOutOfRange, "exponent needs digits")
		}
	}

	return l.newToken(TokenNumber)
}

// scanName reads an identifier or keyword.
func (l *Lexer) scanName() Token {
	for {
		ch := l.nextRune()
		if ch == eof {
			break
		}
		if !isNamePart(ch) {
			l.backup()
			break
		}
	}
	t := l.newToken(TokenName)
	if t.Value == "true" || t.Value == "false" {
		t.Type = TokenBoolean
	}
	return t
}

// nextRune reads the next rune from the input.
func (l *Lexer) nextRune() rune {
	if l.current >= l.length {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.current:])
	l.width = w
	l.current += w
	return r
}

// backup steps back one rune. Can only be called once per nextRune call.
func (l *Lexer) backup() {
	l.current -= l.width
	l.width = 0
}

// ignore skips the input scanned so far.
func (l *Lexer) ignore() {
	l.start = l.current
}

// acceptRune consumes the next rune if it equals r.
func (l *Lexer) acceptRune(r rune) bool {
	if l.nextRune() == r {
		return true
	}
	l.backup()
	return false
}

// acceptRunes2 consumes the next rune if it equals r1 or r2.
func (l *Lexer) acceptRunes2(r1, r2 rune) bool {
	ch := l.nextRune()
	if ch == r1 || ch == r2 {
		return true
	}
	l.backup()
	return false
}

// acceptAll consumes runes while pred holds; reports whether any matched.
func (l *Lexer) acceptAll(pred func(rune) bool) bool {
	matched := false
	for {
		ch := l.nextRune()
		if ch == eof {
			return matched
		}
		if !pred(ch) {
			l.backup()
			return matched
		}
		matched = true
	}
}

func (l *Lexer) skipWhitespace() {
	l.acceptAll(isWhitespace)
	l.ignore()
}

func (l *Lexer) newToken(tt TokenType) Token {
	t := Token{Type: tt, Value: l.input[l.start:l.current], Position: l.start}
	l.start = l.current
	return t
}

func (l *Lexer) eofToken() Token {
	return Token{Type: TokenEOF, Position: l.length}
}

func (l *Lexer) errorToken(code types.ErrorCode, format string, args ...any) Token {
	err := types.Errorf(code, l.start, format, args...)
	return Token{Type: TokenError, Value: err.Error(), Position: l.start}
}

func isWhitespace(r rune) bool { return r == ' ' || r == '\t' || r == '\r' || r == '\n' }
func isDigit(r rune) bool      { return r >= '0' && r <= '9' }
func isBinaryDigit(r rune) bool { return r == '0' || r == '1' }

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNamePart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
