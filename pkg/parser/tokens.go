package parser

// TokenType represents the type of a lexical token.
type TokenType uint8

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Literals
	TokenNumber  // 123, 3.14, 1e-10, 0xFF, 0b1010
	TokenString  // "hello" or 'hello'
	TokenBoolean // true, false
	TokenName    // identifier: parameter or function name

	// Grouping
	TokenParenOpen  // (
	TokenParenClose // )
	TokenComma      // ,

	// Conditional
	TokenQuestion // ?
	TokenColon    // :

	// Arithmetic operators
	TokenPlus  // +
	TokenMinus // -
	TokenMult  // *
	TokenDiv   // /
	TokenMod   // %
	TokenPower // **

	// Shift operators
	TokenLeftShift  // <<
	TokenRightShift // >>

	// Bitwise/logical operators
	TokenAnd        // &
	TokenOr         // |
	TokenXor        // ^
	TokenLogicalAnd // &&
	TokenLogicalOr  // ||

	// Comparison operators
	TokenEqual        // == (also accepts =)
	TokenNotEqual     // !=
	TokenLess         // <
	TokenLessEqual    // <=
	TokenGreater      // >
	TokenGreaterEqual // >=

	// Unary operators
	TokenNot      // !
	TokenBitwiseNot // ~
)

var tokenNames = map[TokenType]string{
	TokenEOF: "(eof)", TokenError: "(error)", TokenNumber: "(number)",
	TokenString: "(string)", TokenBoolean: "(boolean)", TokenName: "(name)",
	TokenParenOpen: "(", TokenParenClose: ")", TokenComma: ",",
	TokenQuestion: "?", TokenColon: ":",
	TokenPlus: "+", TokenMinus: "-", TokenMult: "*", TokenDiv: "/",
	TokenMod: "%", TokenPower: "**",
	TokenLeftShift: "<<", TokenRightShift: ">>",
	TokenAnd: "&", TokenOr: "|", TokenXor: "^",
	TokenLogicalAnd: "&&", TokenLogicalOr: "||",
	TokenEqual: "==", TokenNotEqual: "!=",
	TokenLess: "<", TokenLessEqual: "<=", TokenGreater: ">", TokenGreaterEqual: ">=",
	TokenNot: "!", TokenBitwiseNot: "~",
}

// String returns a string representation of the token type.
func (tt TokenType) String() string {
	if s, ok := tokenNames[tt]; ok {
		return s
	}
	return "(unknown)"
}

// Token is a lexical token with its source position.
type Token struct {
	Type     TokenType
	Value    string
	Position int
}

// runeToken pairs a follow-up rune with the two-character token it forms.
type runeToken struct {
	r  rune
	tt TokenType
}

// symbols2 maps a leading rune to its possible two-character symbols,
// checked before the single-character table.
var symbols2 = map[rune][]runeToken{
	'*': {{'*', TokenPower}},
	'<': {{'<', TokenLeftShift}, {'=', TokenLessEqual}},
	'>': {{'>', TokenRightShift}, {'=', TokenGreaterEqual}},
	'&': {{'&', TokenLogicalAnd}},
	'|': {{'|', TokenLogicalOr}},
	'=': {{'=', TokenEqual}},
	'!': {{'=', TokenNotEqual}},
}

// symbols1 maps single-character symbols to their token types.
var symbols1 = map[rune]TokenType{
	'(': TokenParenOpen, ')': TokenParenClose, ',': TokenComma,
	'?': TokenQuestion, ':': TokenColon,
	'+': TokenPlus, '-': TokenMinus, '*': TokenMult, '/': TokenDiv,
	'%': TokenMod, '&': TokenAnd, '|': TokenOr, '^': TokenXor,
	'=': TokenEqual, '<': TokenLess, '>': TokenGreater,
	'!': TokenNot, '~': TokenBitwiseNot,
}

func lookupSymbol2(r rune) []runeToken { return symbols2[r] }
func lookupSymbol1(r rune) TokenType {
	if tt, ok := symbols1[r]; ok {
		return tt
	}
	return TokenEOF
}
