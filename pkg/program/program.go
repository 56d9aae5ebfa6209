// Package program builds the runtime container spec.md §3 calls
// Program: the function table, main's declaration, and main's initial
// memory, evaluated once from the parsed ast.Program before the first
// run.
package program

import (
	"arrow/pkg/ast"
	"arrow/pkg/eval"
	"arrow/pkg/memory"
)

// Program is the evaluator's view of a parsed Arrow source file. It
// implements eval.Functions structurally, so pkg/eval never has to
// import this package.
type Program struct {
	Functions map[string]*ast.Function
	Main      *ast.Function
}

// Lookup resolves a bare function name, satisfying eval.Functions.
func (p *Program) Lookup(name string) (*ast.Function, bool) {
	fn, ok := p.Functions[name]
	return fn, ok
}

// Build evaluates a parsed program's main-variable declarations against
// a fresh Memory, in declaration order, and returns the runtime Program
// alongside that seeded memory.
func Build(src *ast.Program) (*Program, *memory.Memory, error) {
	p := &Program{Functions: src.Functions, Main: src.Main}
	mem := memory.New(nil, nil)

	for _, decl := range src.MainVars {
		v, err := eval.Expression(decl.Expr, mem, p)
		if err != nil {
			return nil, nil, err
		}
		if err := mem.Set(decl.Name, v); err != nil {
			return nil, nil, err
		}
	}

	return p, mem, nil
}
