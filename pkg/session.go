package kaleido

import (
	"github.com/llir/llvm/ir/value"
)

// Session drives the lex-parse-generate pipeline for one interactive stream
// of statements, all sharing a single backend module.
type Session struct {
	backend Backend
	gen     *IRGenerator
}

func NewSession() *Session {
	backend := NewLLVMBackend("kaleidoscope")
	defineBuiltins(backend)

	return &Session{
		backend: backend,
		gen:     NewIRGenerator(backend),
	}
}

// Eval compiles one line of input and returns the lowered value, or the first
// error from any stage. Errors never end the session; the caller reports them
// and keeps feeding lines. A blank or comment-only line yields a nil value.
func (s *Session) Eval(line string) (value.Value, []ParseWarning, error) {
	toks, err := NewLexerFromString(line).RunBlocking()
	if err != nil {
		return nil, nil, err
	}

	if len(toks) == 0 {
		return nil, nil, nil
	}

	p := NewParser(toks)
	expr, err := p.Parse()
	if err != nil {
		return nil, p.Warnings(), err
	}

	val, err := s.gen.GenTopLevel(expr)
	return val, p.Warnings(), err
}

// Dump returns the LLVM assembly of everything generated so far.
func (s *Session) Dump() string {
	return s.backend.Dump()
}
