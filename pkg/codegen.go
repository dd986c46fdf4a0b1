package kaleido

import (
	"fmt"

	"github.com/llir/llvm/ir/value"
)

// Backend is the IR capability the generator drives. Handles are opaque
// value.Value identities; the generator never assumes a representation.
type Backend interface {
	Number(v float64) value.Value
	Add(lhs, rhs value.Value) value.Value
	Sub(lhs, rhs value.Value) value.Value
	Mul(lhs, rhs value.Value) value.Value
	Less(lhs, rhs value.Value) value.Value

	Declare(name string, params []string) Function
	Lookup(name string) (Function, bool)
	Call(callee Function, args []value.Value) value.Value

	Enter(f Function)
	Return(v value.Value)
	Verify(f Function) error
	Remove(f Function)

	Dump() string
}

// Function is a callable backend value with arity introspection.
type Function interface {
	value.Value
	Arity() int
	Args() []value.Named
}

type VariableNotFoundError struct {
	Name string
}

func (e *VariableNotFoundError) Error() string {
	return fmt.Sprintf("unknown variable '%s'", e.Name)
}

type FunctionNotFoundError struct {
	Name string
}

func (e *FunctionNotFoundError) Error() string {
	return fmt.Sprintf("unknown function '%s'", e.Name)
}

type InvalidArgumentsSizeError struct {
	Name  string
	Given int
}

func (e *InvalidArgumentsSizeError) Error() string {
	return fmt.Sprintf("wrong number of arguments for '%s': got %d", e.Name, e.Given)
}

// ValueLookup is the local scope: parameter name to backend value, valid only
// while one function body is being generated.
type ValueLookup struct {
	vals map[string]value.Value
}

func NewValueLookup() *ValueLookup {
	return &ValueLookup{
		vals: make(map[string]value.Value),
	}
}

func (l *ValueLookup) Get(id string) (value.Value, bool) {
	val, ok := l.vals[id]
	return val, ok
}

func (l *ValueLookup) Set(id string, val value.Value) {
	l.vals[id] = val
}

func (l *ValueLookup) Clear() {
	l.vals = make(map[string]value.Value)
}

// AnonFuncName names the function that wraps a bare top-level expression.
const AnonFuncName = "__anon_expr"

// IRGenerator lowers one Expr at a time into the backend. It is not safe for
// concurrent use; a concurrent host must serialize calls per generator.
type IRGenerator struct {
	backend Backend
	values  *ValueLookup
}

func NewIRGenerator(backend Backend) *IRGenerator {
	return &IRGenerator{
		backend: backend,
		values:  NewValueLookup(),
	}
}

// GenTopLevel lowers one top-level statement. Definitions and extern
// prototypes pass through; a bare expression becomes the body of an
// implicitly-named zero-parameter function.
func (g *IRGenerator) GenTopLevel(expr Expr) (value.Value, error) {
	switch expr.(type) {
	case *FuncDecl, *Prototype:
		return g.Gen(expr)
	default:
		return g.Gen(&FuncDecl{
			Proto: &Prototype{Name: AnonFuncName},
			Body:  expr,
		})
	}
}

func (g *IRGenerator) Gen(expr Expr) (value.Value, error) {
	switch e := expr.(type) {
	case *LiteralExpr:
		return g.backend.Number(e.Value), nil
	case *Identifier:
		val, ok := g.values.Get(e.Name)
		if !ok {
			return nil, &VariableNotFoundError{Name: e.Name}
		}

		return val, nil
	case *BinaryExpr:
		return g.binaryExpression(e)
	case *FuncCall:
		return g.functionCall(e)
	case *Prototype:
		return g.genProto(e), nil
	case *FuncDecl:
		return g.function(e)
	default:
		return nil, fmt.Errorf("cannot generate code for %T", expr)
	}
}

func (g *IRGenerator) binaryExpression(e *BinaryExpr) (value.Value, error) {
	// Operands are generated left to right.
	lhs, err := g.Gen(e.Op1)
	if err != nil {
		return nil, err
	}

	rhs, err := g.Gen(e.Op2)
	if err != nil {
		return nil, err
	}

	switch e.Operation {
	case OpLessThan:
		return g.backend.Less(lhs, rhs), nil
	case OpPlus:
		return g.backend.Add(lhs, rhs), nil
	case OpMinus:
		return g.backend.Sub(lhs, rhs), nil
	case OpTimes:
		return g.backend.Mul(lhs, rhs), nil
	default:
		return nil, fmt.Errorf("unexpected binary operator '%s'", e.Operation)
	}
}

func (g *IRGenerator) functionCall(e *FuncCall) (value.Value, error) {
	callee, ok := g.backend.Lookup(e.Name)
	if !ok {
		return nil, &FunctionNotFoundError{Name: e.Name}
	}

	// The arity check is against the backend declaration, which may come
	// from an earlier statement in the session.
	if callee.Arity() != len(e.Args) {
		return nil, &InvalidArgumentsSizeError{Name: e.Name, Given: len(e.Args)}
	}

	args := make([]value.Value, 0, len(e.Args))
	for _, arg := range e.Args {
		val, err := g.Gen(arg)
		if err != nil {
			return nil, err
		}

		args = append(args, val)
	}

	return g.backend.Call(callee, args), nil
}

// genProto declares the prototype, unless a backend function of the same name
// already exists; the existing declaration is authoritative and reused, so
// repeating an extern never duplicates it.
func (g *IRGenerator) genProto(proto *Prototype) Function {
	if f, ok := g.backend.Lookup(proto.Name); ok {
		return f
	}

	return g.backend.Declare(proto.Name, proto.Params)
}

// function lowers a definition. An existing backend function of the same name
// is reused, covering both extern-then-def and redefinition. If the body fails
// to generate, the partially-built function is removed before the error is
// returned so later lookups cannot bind to it.
func (g *IRGenerator) function(e *FuncDecl) (value.Value, error) {
	f := g.genProto(e.Proto)

	g.backend.Enter(f)

	g.values.Clear()
	for _, arg := range f.Args() {
		g.values.Set(arg.Name(), arg)
	}

	body, err := g.Gen(e.Body)
	if err != nil {
		g.backend.Remove(f)
		return nil, err
	}

	g.backend.Return(body)

	// Verification failures are diagnostic only; the backend reports them
	// and the definition stands.
	g.backend.Verify(f)

	return f, nil
}
