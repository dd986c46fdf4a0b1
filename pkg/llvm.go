package kaleido

import (
	"fmt"
	"os"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// LLVMBackend implements Backend over an llir/llvm module. Every value in the
// language is a double; comparisons produce 0.0 or 1.0.
type LLVMBackend struct {
	mod   *ir.Module
	block *ir.Block
}

func NewLLVMBackend(name string) *LLVMBackend {
	mod := ir.NewModule()
	mod.SourceFilename = name

	return &LLVMBackend{
		mod: mod,
	}
}

type llvmFunction struct {
	*ir.Func
}

func (f llvmFunction) Arity() int {
	return len(f.Func.Params)
}

func (f llvmFunction) Args() []value.Named {
	args := make([]value.Named, len(f.Func.Params))
	for i, param := range f.Func.Params {
		args[i] = param
	}

	return args
}

func (b *LLVMBackend) Number(v float64) value.Value {
	return constant.NewFloat(types.Double, v)
}

func (b *LLVMBackend) Add(lhs, rhs value.Value) value.Value {
	return b.block.NewFAdd(lhs, rhs)
}

func (b *LLVMBackend) Sub(lhs, rhs value.Value) value.Value {
	return b.block.NewFSub(lhs, rhs)
}

func (b *LLVMBackend) Mul(lhs, rhs value.Value) value.Value {
	return b.block.NewFMul(lhs, rhs)
}

// Less emits an ordered less-than comparison and widens the i1 result back to
// double, keeping comparisons first-class values.
func (b *LLVMBackend) Less(lhs, rhs value.Value) value.Value {
	cmp := b.block.NewFCmp(enum.FPredOLT, lhs, rhs)
	return b.block.NewUIToFP(cmp, types.Double)
}

func (b *LLVMBackend) Declare(name string, params []string) Function {
	irParams := make([]*ir.Param, len(params))
	for i, param := range params {
		irParams[i] = ir.NewParam(param, types.Double)
	}

	return llvmFunction{b.mod.NewFunc(name, types.Double, irParams...)}
}

func (b *LLVMBackend) Lookup(name string) (Function, bool) {
	for _, f := range b.mod.Funcs {
		if f.Name() == name {
			return llvmFunction{f}, true
		}
	}

	return nil, false
}

func (b *LLVMBackend) Call(callee Function, args []value.Value) value.Value {
	return b.block.NewCall(callee.(llvmFunction).Func, args...)
}

// Enter appends a fresh entry block to the function and moves the instruction
// cursor there.
func (b *LLVMBackend) Enter(f Function) {
	b.block = f.(llvmFunction).Func.NewBlock("")
}

func (b *LLVMBackend) Return(v value.Value) {
	b.block.NewRet(v)
}

// Verify checks that every block of the function is terminated. Failures are
// printed rather than returned fatally, mirroring LLVM's print-message
// verifier action.
func (b *LLVMBackend) Verify(f Function) error {
	fn := f.(llvmFunction).Func

	var err error
	if len(fn.Blocks) == 0 {
		err = fmt.Errorf("function '%s' has no body", fn.Name())
	}

	for _, block := range fn.Blocks {
		if block.Term == nil {
			err = fmt.Errorf("unterminated block in function '%s'", fn.Name())
			break
		}
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "verifier:", err)
	}

	return err
}

func (b *LLVMBackend) Remove(f Function) {
	fn := f.(llvmFunction).Func

	for i, candidate := range b.mod.Funcs {
		if candidate == fn {
			b.mod.Funcs = append(b.mod.Funcs[:i], b.mod.Funcs[i+1:]...)
			return
		}
	}
}

// Dump returns the module as LLVM assembly.
func (b *LLVMBackend) Dump() string {
	return b.mod.String()
}
