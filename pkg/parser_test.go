package kaleido

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func lexAll(t *testing.T, data string) []Token {
	t.Helper()

	toks, err := NewLexerFromString(data).RunBlocking()
	assert.NoError(t, err)

	return toks
}

func TestParser(t *testing.T) {
	cases := []struct {
		data    string
		fail    string // expected error message, empty when parsing succeeds
		expect  Expr
		warning bool
	}{
		{
			data: "42;",
			expect: &LiteralExpr{
				Value: 42,
			},
		},
		{
			data: "1+2*3;",
			expect: &BinaryExpr{
				Operation: OpPlus,
				Op1:       &LiteralExpr{Value: 1},
				Op2: &BinaryExpr{
					Operation: OpTimes,
					Op1:       &LiteralExpr{Value: 2},
					Op2:       &LiteralExpr{Value: 3},
				},
			},
		},
		{
			data: "1*2+3;",
			expect: &BinaryExpr{
				Operation: OpPlus,
				Op1: &BinaryExpr{
					Operation: OpTimes,
					Op1:       &LiteralExpr{Value: 1},
					Op2:       &LiteralExpr{Value: 2},
				},
				Op2: &LiteralExpr{Value: 3},
			},
		},
		{
			// Equal precedence chains fold to the left.
			data: "1-2+3;",
			expect: &BinaryExpr{
				Operation: OpPlus,
				Op1: &BinaryExpr{
					Operation: OpMinus,
					Op1:       &LiteralExpr{Value: 1},
					Op2:       &LiteralExpr{Value: 2},
				},
				Op2: &LiteralExpr{Value: 3},
			},
		},
		{
			data: "a < b*2;",
			expect: &BinaryExpr{
				Operation: OpLessThan,
				Op1:       &Identifier{Name: "a"},
				Op2: &BinaryExpr{
					Operation: OpTimes,
					Op1:       &Identifier{Name: "b"},
					Op2:       &LiteralExpr{Value: 2},
				},
			},
		},
		{
			data: "(1+2)*3;",
			expect: &BinaryExpr{
				Operation: OpTimes,
				Op1: &BinaryExpr{
					Operation: OpPlus,
					Op1:       &LiteralExpr{Value: 1},
					Op2:       &LiteralExpr{Value: 2},
				},
				Op2: &LiteralExpr{Value: 3},
			},
		},
		{
			data: "def foo(a b) a+b;",
			expect: &FuncDecl{
				Proto: &Prototype{
					Name:   "foo",
					Params: []string{"a", "b"},
				},
				Body: &BinaryExpr{
					Operation: OpPlus,
					Op1:       &Identifier{Name: "a"},
					Op2:       &Identifier{Name: "b"},
				},
			},
		},
		{
			// Duplicate parameter names pass the parser.
			data: "def twice(x x) x;",
			expect: &FuncDecl{
				Proto: &Prototype{
					Name:   "twice",
					Params: []string{"x", "x"},
				},
				Body: &Identifier{Name: "x"},
			},
		},
		{
			data: "extern sin(x);",
			expect: &Prototype{
				Name:   "sin",
				Params: []string{"x"},
			},
		},
		{
			data: "extern now();",
			expect: &Prototype{
				Name: "now",
			},
		},
		{
			data: "foo(1, bar(2), 3);",
			expect: &FuncCall{
				Name: "foo",
				Args: []Expr{
					&LiteralExpr{Value: 1},
					&FuncCall{
						Name: "bar",
						Args: []Expr{&LiteralExpr{Value: 2}},
					},
					&LiteralExpr{Value: 3},
				},
			},
		},
		{
			data:    "1+2",
			expect:  &BinaryExpr{Operation: OpPlus, Op1: &LiteralExpr{Value: 1}, Op2: &LiteralExpr{Value: 2}},
			warning: true,
		},
		{
			data:    "1+2 3 4",
			expect:  &BinaryExpr{Operation: OpPlus, Op1: &LiteralExpr{Value: 1}, Op2: &LiteralExpr{Value: 2}},
			warning: true,
		},
		{
			data: "",
			fail: "empty input",
		},
		{
			data: "def (a) a;",
			fail: "expected function name in prototype",
		},
		{
			data: "def foo a) a;",
			fail: "expected '(' in prototype",
		},
		{
			data: "def foo(a a;",
			fail: "expected ')' in prototype",
		},
		{
			data: "foo(1 2);",
			fail: "expected ')' or ',' in argument list",
		},
		{
			data: "(1+2;",
			fail: "expected ')'",
		},
		{
			data: "1+;",
			fail: "expected expression",
		},
		{
			data: "def foo(x) ;",
			fail: "expected expression",
		},
	}

	for _, c := range cases {
		p := NewParser(lexAll(t, c.data))

		got, err := p.Parse()
		if c.fail != "" {
			assert.EqualError(t, err, c.fail, c.data)
			continue
		}

		assert.NoError(t, err, c.data)
		assert.Equal(t, c.expect, got, c.data)

		if c.warning {
			assert.NotEmpty(t, p.Warnings(), c.data)
		} else {
			assert.Empty(t, p.Warnings(), c.data)
		}
	}
}

func TestParserDrainsTrailingTokens(t *testing.T) {
	p := NewParser(lexAll(t, "1+2; extra tokens"))

	got, err := p.Parse()
	assert.NoError(t, err)
	assert.Equal(t, &BinaryExpr{
		Operation: OpPlus,
		Op1:       &LiteralExpr{Value: 1},
		Op2:       &LiteralExpr{Value: 2},
	}, got)

	warnings := p.Warnings()
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].String(), "extra tokens")

	// The statement was fully drained.
	assert.Equal(t, Token{Typ: TokenEOF}, p.peek())
}

func TestParserMissingSemicolonWarns(t *testing.T) {
	p := NewParser(lexAll(t, "def id(x) x"))

	got, err := p.Parse()
	assert.NoError(t, err)
	assert.Equal(t, &FuncDecl{
		Proto: &Prototype{Name: "id", Params: []string{"x"}},
		Body:  &Identifier{Name: "x"},
	}, got)

	warnings := p.Warnings()
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].String(), "';'")
}
