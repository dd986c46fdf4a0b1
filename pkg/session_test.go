package kaleido

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSession(t *testing.T) {
	s := NewSession()

	val, warnings, err := s.Eval("def add(a b) a+b;")
	assert.NoError(t, err)
	assert.Empty(t, warnings)
	assert.NotNil(t, val)

	val, warnings, err = s.Eval("add(1, 2);")
	assert.NoError(t, err)
	assert.Empty(t, warnings)
	assert.NotNil(t, val)

	dump := s.Dump()
	assert.Contains(t, dump, "@add")
	assert.Contains(t, dump, "@"+AnonFuncName)
	assert.Contains(t, dump, "call")
}

func TestSessionBuiltins(t *testing.T) {
	s := NewSession()

	_, _, err := s.Eval("sin(1) + cos(2) * sqrt(3);")
	assert.NoError(t, err)

	assert.Contains(t, s.Dump(), "declare double @sin(double %x)")
}

func TestSessionReExternKeepsOneDeclaration(t *testing.T) {
	s := NewSession()

	// sin is predeclared; an explicit extern must reuse it.
	_, _, err := s.Eval("extern sin(x);")
	assert.NoError(t, err)

	assert.Equal(t, 1, strings.Count(s.Dump(), "declare double @sin(double %x)"))
}

func TestSessionBlankLines(t *testing.T) {
	s := NewSession()

	for _, line := range []string{"", "   ", "# just a comment"} {
		val, warnings, err := s.Eval(line)
		assert.NoError(t, err)
		assert.Empty(t, warnings)
		assert.Nil(t, val)
	}
}

func TestSessionSurvivesErrors(t *testing.T) {
	s := NewSession()

	_, _, err := s.Eval("@")
	assert.Error(t, err)

	_, _, err = s.Eval("def broken(x) y;")
	assert.Error(t, err)

	_, _, err = s.Eval("1+;")
	assert.Error(t, err)

	// The session keeps accepting input after every failure.
	val, _, err := s.Eval("def ok(x) x;")
	assert.NoError(t, err)
	assert.NotNil(t, val)
}

func TestSessionWarningsAreDelivered(t *testing.T) {
	s := NewSession()

	val, warnings, err := s.Eval("1+2")
	assert.NoError(t, err)
	assert.NotNil(t, val)
	assert.NotEmpty(t, warnings)
}
