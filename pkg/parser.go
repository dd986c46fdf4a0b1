package kaleido

import (
	"fmt"
	"strings"
)

type Expr interface{}

// LiteralExpr is a numeric literal.
type LiteralExpr struct {
	Value float64
}

// Identifier is a reference to a function parameter.
type Identifier struct {
	Name string
}

type BinaryExpr struct {
	Operation Operator
	Op1       Expr
	Op2       Expr
}

type FuncCall struct {
	Name string
	Args []Expr
}

// Prototype is a function's name plus its ordered parameter list. A bare
// prototype is an extern declaration; one paired with a body is a definition.
type Prototype struct {
	Name   string
	Params []string
}

type FuncDecl struct {
	Proto *Prototype
	Body  Expr
}

// ParseError is the single parse failure kind; Msg describes the grammar
// violation.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string {
	return e.Msg
}

// ParseWarning reports a recoverable oddity, such as a missing trailing
// semicolon. The statement is still delivered downstream.
type ParseWarning struct {
	Msg string
}

func (w ParseWarning) String() string {
	return w.Msg
}

// Parser consumes an already-tokenized statement with one-token lookahead and
// produces exactly one top-level Expr per Parse call.
type Parser struct {
	toks     []Token
	pos      int
	warnings []ParseWarning
}

func NewParser(toks []Token) *Parser {
	return &Parser{
		toks: toks,
	}
}

// Parse returns the next top-level statement: a function definition after
// `def`, an extern prototype after `extern`, or a bare expression.
func (p *Parser) Parse() (Expr, error) {
	var expr Expr
	var err error

	switch tok := p.peek(); tok.Typ {
	case TokenEOF:
		return nil, p.errorf("empty input")
	case TokenDef:
		p.next()
		expr, err = p.funcDecl()
	case TokenExtern:
		p.next()
		expr, err = p.prototype()
	default:
		expr, err = p.expr()
	}

	if err != nil {
		return nil, err
	}

	p.finish()
	return expr, nil
}

// Warnings reports the recoverable problems seen by the last Parse call.
func (p *Parser) Warnings() []ParseWarning {
	return p.warnings
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.toks) {
		return Token{Typ: TokenEOF}
	}

	return p.toks[p.pos]
}

func (p *Parser) next() Token {
	tok := p.peek()
	if tok.Typ != TokenEOF {
		p.pos++
	}

	return tok
}

func (p *Parser) check(typ TokenType) bool {
	return p.peek().Typ == typ
}

func (p *Parser) consume(typ TokenType) bool {
	if !p.check(typ) {
		return false
	}

	p.next()
	return true
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return &ParseError{Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) warnf(format string, args ...interface{}) {
	p.warnings = append(p.warnings, ParseWarning{Msg: fmt.Sprintf(format, args...)})
}

// finish expects the statement terminator and drains whatever is left. Both a
// missing semicolon and trailing tokens are warnings, not errors.
func (p *Parser) finish() {
	if !p.consume(TokenSemicolon) {
		p.warnf("expected ';' at end of statement")
	}

	var rest []string
	for p.peek().Typ != TokenEOF {
		rest = append(rest, p.next().Value)
	}

	if len(rest) > 0 {
		p.warnf("unconsumed input after statement: '%s'", strings.Join(rest, " "))
	}
}

func (p *Parser) funcDecl() (Expr, error) {
	proto, err := p.prototype()
	if err != nil {
		return nil, err
	}

	body, err := p.expr()
	if err != nil {
		return nil, err
	}

	return &FuncDecl{
		Proto: proto,
		Body:  body,
	}, nil
}

// prototype parses `name(param param ...)`. Parameters are separated by
// whitespace alone, and duplicates are not rejected here.
func (p *Parser) prototype() (*Prototype, error) {
	name := p.next()
	if name.Typ != TokenIdentifier {
		return nil, p.errorf("expected function name in prototype")
	}

	if !p.consume(TokenOpenParentheses) {
		return nil, p.errorf("expected '(' in prototype")
	}

	var params []string
	for p.check(TokenIdentifier) {
		params = append(params, p.next().Value)
	}

	if !p.consume(TokenCloseParentheses) {
		return nil, p.errorf("expected ')' in prototype")
	}

	return &Prototype{
		Name:   name.Value,
		Params: params,
	}, nil
}

func (p *Parser) expr() (Expr, error) {
	lhs, err := p.primary()
	if err != nil {
		return nil, err
	}

	return p.binOpRHS(0, lhs)
}

// binOpRHS climbs the operator precedence ladder: any operator binding at
// least as tightly as minPrec extends lhs, and a tighter-binding operator
// after the right-hand primary claims that primary first.
func (p *Parser) binOpRHS(minPrec int, lhs Expr) (Expr, error) {
	for {
		tok := p.peek()
		prec := tokenPrecedence(tok)
		if prec < minPrec {
			return lhs, nil
		}

		p.next()

		rhs, err := p.primary()
		if err != nil {
			return nil, err
		}

		if tokenPrecedence(p.peek()) > prec {
			rhs, err = p.binOpRHS(prec+1, rhs)
			if err != nil {
				return nil, err
			}
		}

		lhs = &BinaryExpr{
			Operation: tok.Op,
			Op1:       lhs,
			Op2:       rhs,
		}
	}
}

func tokenPrecedence(tok Token) int {
	if tok.Typ != TokenOperator {
		return -1
	}

	return tok.Op.Precedence()
}

func (p *Parser) primary() (Expr, error) {
	switch tok := p.peek(); tok.Typ {
	case TokenNumber:
		p.next()
		return &LiteralExpr{Value: tok.Num}, nil
	case TokenIdentifier:
		return p.identifier()
	case TokenOpenParentheses:
		return p.parenthesizedExpression()
	default:
		return nil, p.errorf("expected expression")
	}
}

func (p *Parser) identifier() (Expr, error) {
	name := p.next()

	if !p.check(TokenOpenParentheses) {
		return &Identifier{Name: name.Value}, nil
	}

	p.next() // Skip the opening parenthesis

	var args []Expr
	if !p.check(TokenCloseParentheses) {
		for {
			arg, err := p.expr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			if p.check(TokenCloseParentheses) {
				break
			}

			if !p.consume(TokenComma) {
				return nil, p.errorf("expected ')' or ',' in argument list")
			}
		}
	}

	p.next() // Skip the closing parenthesis

	return &FuncCall{
		Name: name.Value,
		Args: args,
	}, nil
}

func (p *Parser) parenthesizedExpression() (Expr, error) {
	p.next() // Skip the opening parenthesis

	expr, err := p.expr()
	if err != nil {
		return nil, err
	}

	if !p.consume(TokenCloseParentheses) {
		return nil, p.errorf("expected ')'")
	}

	return expr, nil
}
