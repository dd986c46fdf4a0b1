package kaleido

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type TokenType uint64
type stateFunc func(l *Lexer) stateFunc

//go:generate stringer -type=TokenType -trimprefix=Token
const (
	EOF rune = 0

	TokenError TokenType = iota
	TokenEOF
	TokenNumber

	TokenIdentifier
	TokenDef
	TokenExtern

	TokenOperator
	TokenOpenParentheses
	TokenCloseParentheses
	TokenComma
	TokenSemicolon
)

// Operator is the closed set of binary operators. Precedence is static,
// process-wide data; all operators are left-associative.
type Operator string

const (
	OpLessThan Operator = "<"
	OpPlus     Operator = "+"
	OpMinus    Operator = "-"
	OpTimes    Operator = "*"
)

var precedenceTable = map[Operator]int{
	OpLessThan: 10,
	OpPlus:     20,
	OpMinus:    20,
	OpTimes:    40,
}

// Precedence returns the binding strength of the operator, or -1 if the
// operator is unknown.
func (o Operator) Precedence() int {
	if prec, ok := precedenceTable[o]; ok {
		return prec
	}

	return -1
}

var keywordTable = map[string]TokenType{
	"def":    TokenDef,
	"extern": TokenExtern,
}

var operatorTable = map[rune]Operator{
	'<': OpLessThan,
	'+': OpPlus,
	'-': OpMinus,
	'*': OpTimes,
}

var symbolTable = map[rune]TokenType{
	'(': TokenOpenParentheses,
	')': TokenCloseParentheses,
	',': TokenComma,
	';': TokenSemicolon,
}

type Token struct {
	Typ   TokenType
	Value string
	Num   float64  // set when Typ is TokenNumber
	Op    Operator // set when Typ is TokenOperator
	Err   error    // set when Typ is TokenError
}

// InvalidNumberError reports numeric text that does not parse as a float,
// such as "1.2.3".
type InvalidNumberError struct {
	Text string
	Err  error
}

func (e *InvalidNumberError) Error() string {
	return fmt.Sprintf("invalid number '%s'", e.Text)
}

func (e *InvalidNumberError) Unwrap() error {
	return e.Err
}

// UnknownCharacterError reports a character that cannot begin any token.
type UnknownCharacterError struct {
	Char rune
}

func (e *UnknownCharacterError) Error() string {
	return fmt.Sprintf("unknown character '%c'", e.Char)
}

type Lexer struct {
	reader *bufio.Reader
	done   chan Token
}

func NewLexer(reader io.Reader) *Lexer {
	return &Lexer{
		reader: bufio.NewReader(reader),
		done:   make(chan Token),
	}
}

func NewLexerFromString(data string) *Lexer {
	return NewLexer(strings.NewReader(data))
}

func (l *Lexer) Chan() chan Token {
	return l.done
}

func (l *Lexer) Run() {
	for state := defaultState; state != nil; {
		state = state(l)
	}

	close(l.done)
}

// RunBlocking tokenizes the whole input and returns the tokens without the
// trailing EOF marker. On the first bad character or malformed number the
// typed error is returned alone; no partial token list is produced.
func (l *Lexer) RunBlocking() ([]Token, error) {
	go l.Run()

	var tokens []Token
	for t := range l.Chan() {
		if t.Typ == TokenEOF {
			return tokens, nil
		}

		if t.Typ == TokenError {
			return nil, t.Err
		}

		tokens = append(tokens, t)
	}

	return tokens, nil
}

func defaultState(l *Lexer) stateFunc {
	for {
		switch r := l.peek(); {
		case r == EOF:
			l.done <- Token{Typ: TokenEOF}
			return nil
		case isSpace(r):
			l.next()
			continue
		case isAlpha(r):
			return identifierState
		case isDigit(r) || r == '.':
			return numberState
		case r == '#':
			return lineCommentState
		default:
			return symbolState
		}
	}
}

func identifierState(l *Lexer) stateFunc {
	var id strings.Builder
	for r := l.peek(); isAlpha(r) || isDigit(r); r = l.peek() {
		id.WriteRune(l.next())
	}

	if t, ok := keywordTable[id.String()]; ok {
		return l.emit(Token{Typ: t, Value: id.String()})
	}

	return l.emit(Token{Typ: TokenIdentifier, Value: id.String()})
}

func numberState(l *Lexer) stateFunc {
	var num strings.Builder
	for r := l.peek(); isDigit(r) || r == '.'; r = l.peek() {
		num.WriteRune(l.next())
	}

	v, err := strconv.ParseFloat(num.String(), 64)
	if err != nil {
		return l.fail(&InvalidNumberError{Text: num.String(), Err: err})
	}

	return l.emit(Token{Typ: TokenNumber, Value: num.String(), Num: v})
}

// lineCommentState discards everything up to the end of the line, then hands
// control back to the default state so tokenization resumes on the same call.
func lineCommentState(l *Lexer) stateFunc {
	for r := l.peek(); r != '\n' && r != '\r' && r != EOF; r = l.peek() {
		l.next()
	}

	return defaultState
}

func symbolState(l *Lexer) stateFunc {
	r := l.next()

	if op, ok := operatorTable[r]; ok {
		return l.emit(Token{Typ: TokenOperator, Value: string(r), Op: op})
	}

	if t, ok := symbolTable[r]; ok {
		return l.emit(Token{Typ: t, Value: string(r)})
	}

	return l.fail(&UnknownCharacterError{Char: r})
}

func (l *Lexer) fail(err error) stateFunc {
	l.done <- Token{
		Typ: TokenError,
		Err: err,
	}

	return nil
}

func (l *Lexer) emit(t Token) stateFunc {
	l.done <- t

	return defaultState
}

func (l *Lexer) peek() rune {
	r := l.next()
	_ = l.reader.UnreadRune()

	return r
}

func (l *Lexer) next() rune {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		return EOF
	}

	return r
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isAlpha(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}
