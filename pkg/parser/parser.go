// Package parser implements the textual front-end: a hand-written lexer and
// recursive-descent parser that turn an expression string into a node tree
// plus the parameter registry populated along the way.
//
// Type determination is not a separate pass: node constructors constrain
// their operands as the tree is built, so a kind conflict surfaces here,
// at parse time, as a logic error that aborts recognition.
//
// # Grammar, loosest to tightest
//
//	?:            ternary conditional (right-assoc)
//	||            logical or
//	&&            logical and
//	|  ^  &       bitwise (integers) / logical (booleans)
//	== !=         equality (= accepted for ==)
//	<  >  <=  >=  ordering
//	<< >>         shifts
//	+  -          additive (numeric, string concat, byte-array concat)
//	*  /  %       multiplicative
//	**            power (right-assoc)
//	- ! ~         unary
//	literals, names, calls, parentheses
package parser

import (
	"strconv"
	"strings"

	"github.com/gocompute/gocompute/pkg/functions"
	"github.com/gocompute/gocompute/pkg/nodes"
	"github.com/gocompute/gocompute/pkg/types"
)

// Parser builds a node tree from an expression string, consulting the
// function registry for call-like tokens and advertising every identifier
// into the parameter registry in first-sighting order.
type Parser struct {
	lexer    *Lexer
	registry *functions.Registry
	params   *nodes.ParameterRegistry
	token    Token
}

// NewParser creates a parser over input using the given function registry.
func NewParser(input string, registry *functions.Registry) *Parser {
	p := &Parser{
		lexer:    NewLexer(input),
		registry: registry,
		params:   nodes.NewParameterRegistry(),
	}
	p.advance()
	return p
}

// Parse parses input and returns the root node and the populated parameter
// registry. Syntax errors and logic (type-determination) errors both abort
// recognition.
func Parse(input string, registry *functions.Registry) (nodes.Node, *nodes.ParameterRegistry, error) {
	p := NewParser(input, registry)
	return p.Parse()
}

// Parse runs the parser to completion.
func (p *Parser) Parse() (nodes.Node, *nodes.ParameterRegistry, error) {
	if p.token.Type == TokenEOF {
		return nil, nil, types.NewError(types.ErrUnexpectedEnd, "empty expression", 0)
	}
	root, err := p.parseExpression()
	if err != nil {
		return nil, nil, err
	}
	if p.token.Type != TokenEOF {
		return nil, nil, types.Errorf(types.ErrSyntaxError, p.token.Position,
			"unexpected %s after expression", p.token.Type)
	}
	return root, p.params, nil
}

func (p *Parser) advance() {
	p.token = p.lexer.Next()
}

func (p *Parser) expect(tt TokenType) error {
	if p.token.Type != tt {
		return types.Errorf(types.ErrExpectedToken, p.token.Position,
			"expected %s, got %s", tt, p.token.Type)
	}
	p.advance()
	return nil
}

// parseExpression parses the loosest level: the ternary conditional.
func (p *Parser) parseExpression() (nodes.Node, error) {
	cond, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	if p.token.Type != TokenQuestion {
		return cond, nil
	}
	p.advance()
	thenNode, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenColon); err != nil {
		return nil, err
	}
	elseNode, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return nodes.NewConditionalNode(cond, thenNode, elseNode)
}

// binaryLevel parses one left-associative precedence level.
func (p *Parser) binaryLevel(ops map[TokenType]nodes.BinaryOp, next func() (nodes.Node, error)) (nodes.Node, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := ops[p.token.Type]
		if !ok {
			return left, nil
		}
		p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left, err = nodes.NewBinaryNode(op, left, right)
		if err != nil {
			return nil, err
		}
	}
}

func (p *Parser) parseLogicalOr() (nodes.Node, error) {
	return p.binaryLevel(map[TokenType]nodes.BinaryOp{TokenLogicalOr: nodes.OpLogicalOr}, p.parseLogicalAnd)
}

func (p *Parser) parseLogicalAnd() (nodes.Node, error) {
	return p.binaryLevel(map[TokenType]nodes.BinaryOp{TokenLogicalAnd: nodes.OpLogicalAnd}, p.parseBitwiseOr)
}

func (p *Parser) parseBitwiseOr() (nodes.Node, error) {
	return p.binaryLevel(map[TokenType]nodes.BinaryOp{TokenOr: nodes.OpOr}, p.parseBitwiseXor)
}

func (p *Parser) parseBitwiseXor() (nodes.Node, error) {
	return p.binaryLevel(map[TokenType]nodes.BinaryOp{TokenXor: nodes.OpXor}, p.parseBitwiseAnd)
}

func (p *Parser) parseBitwiseAnd() (nodes.Node, error) {
	return p.binaryLevel(map[TokenType]nodes.BinaryOp{TokenAnd: nodes.OpAnd}, p.parseEquality)
}

var equalityOps = map[TokenType]nodes.CompareOp{
	TokenEqual:    nodes.OpEqual,
	TokenNotEqual: nodes.OpNotEqual,
}

var orderingOps = map[TokenType]nodes.CompareOp{
	TokenLess:         nodes.OpLess,
	TokenLessEqual:    nodes.OpLessOrEqual,
	TokenGreater:      nodes.OpGreater,
	TokenGreaterEqual: nodes.OpGreaterOrEqual,
}

// compareLevel parses one left-associative comparison level.
func (p *Parser) compareLevel(ops map[TokenType]nodes.CompareOp, next func() (nodes.Node, error)) (nodes.Node, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := ops[p.token.Type]
		if !ok {
			return left, nil
		}
		p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left, err = nodes.NewCompareNode(op, left, right)
		if err != nil {
			return nil, err
		}
	}
}

func (p *Parser) parseEquality() (nodes.Node, error) {
	return p.compareLevel(equalityOps, p.parseOrdering)
}

func (p *Parser) parseOrdering() (nodes.Node, error) {
	return p.compareLevel(orderingOps, p.parseShift)
}

func (p *Parser) parseShift() (nodes.Node, error) {
	return p.binaryLevel(map[TokenType]nodes.BinaryOp{
		TokenLeftShift:  nodes.OpLeftShift,
		TokenRightShift: nodes.OpRightShift,
	}, p.parseAdditive)
}

func (p *Parser) parseAdditive() (nodes.Node, error) {
	return p.binaryLevel(map[TokenType]nodes.BinaryOp{
		TokenPlus:  nodes.OpAdd,
		TokenMinus: nodes.OpSubtract,
	}, p.parseMultiplicative)
}

func (p *Parser) parseMultiplicative() (nodes.Node, error) {
	return p.binaryLevel(map[TokenType]nodes.BinaryOp{
		TokenMult: nodes.OpMultiply,
		TokenDiv:  nodes.OpDivide,
		TokenMod:  nodes.OpModulo,
	}, p.parsePower)
}

// parsePower parses the right-associative power level.
func (p *Parser) parsePower() (nodes.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.token.Type != TokenPower {
		return left, nil
	}
	p.advance()
	right, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	return nodes.NewBinaryNode(nodes.OpPower, left, right)
}

func (p *Parser) parseUnary() (nodes.Node, error) {
	switch p.token.Type {
	case TokenMinus:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return nodes.NewUnaryNode(nodes.OpNegate, operand)
	case TokenNot, TokenBitwiseNot:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return nodes.NewUnaryNode(nodes.OpNot, operand)
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parsePrimary() (nodes.Node, error) {
	t := p.token
	switch t.Type {
	case TokenNumber:
		p.advance()
		return parseNumber(t)
	case TokenString:
		p.advance()
		return nodes.NewStringConstant(t.Value), nil
	case TokenBoolean:
		p.advance()
		return nodes.NewBooleanConstant(t.Value == "true"), nil
	case TokenParenOpen:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenParenClose); err != nil {
			return nil, err
		}
		return inner, nil
	case TokenName:
		p.advance()
		if p.token.Type == TokenParenOpen {
			return p.parseCall(t)
		}
		return nodes.NewParameterNode(p.params.Advertise(t.Value)), nil
	case TokenError:
		return nil, types.NewError(types.ErrSyntaxError, t.Value, t.Position)
	case TokenEOF:
		return nil, types.NewError(types.ErrUnexpectedEnd, "unexpected end of expression", t.Position)
	default:
		return nil, types.Errorf(types.ErrSyntaxError, t.Position, "unexpected %s", t.Type)
	}
}

// parseCall parses the argument list for name and constructs the registered
// function node. The opening paren is the current token.
func (p *Parser) parseCall(name Token) (nodes.Node, error) {
	p.advance()
	var args []nodes.Node
	if p.token.Type != TokenParenClose {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.token.Type != TokenComma {
				break
			}
			p.advance()
		}
	}
	if err := p.expect(TokenParenClose); err != nil {
		return nil, err
	}

	fname := strings.ToLower(name.Value)
	ctor, ok := p.registry.Lookup(fname, len(args))
	if !ok {
		return nil, types.Errorf(types.ErrUnknownFunction, name.Position,
			"unknown function %q with %d arguments", name.Value, len(args))
	}
	return ctor(args...)
}

// parseNumber converts a number token into the fitting numeric constant.
func parseNumber(t Token) (nodes.Node, error) {
	s := t.Value
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		v, err := strconv.ParseInt(s[2:], 16, 64)
		if err != nil {
			return nil, types.Errorf(types.ErrNumberOutOfRange, t.Position, "hex literal %s out of range", s)
		}
		return nodes.NewIntegerConstant(v), nil
	}
	if len(s) > 2 && s[0] == '0' && (s[1] == 'b' || s[1] == 'B') {
		v, err := strconv.ParseInt(s[2:], 2, 64)
		if err != nil {
			return nil, types.Errorf(types.ErrNumberOutOfRange, t.Position, "binary literal %s out of range", s)
		}
		return nodes.NewIntegerConstant(v), nil
	}
	if !strings.ContainsAny(s, ".eE") {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return nodes.NewIntegerConstant(v), nil
		}
		// Falls through to float for integers beyond int64.
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, types.Errorf(types.ErrNumberOutOfRange, t.Position, "number %s out of range", s)
	}
	return nodes.NewFloatConstant(v), nil
}
