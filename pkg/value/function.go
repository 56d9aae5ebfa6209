package value

import (
	"fmt"

	"arrow/pkg/ast"
)

// Callable is implemented by both Function variants spec.md §3
// describes: user-defined (backed by an AST block) and builtin (backed
// by a native forward/inverse op pair).
type Callable interface {
	Value
	Name() string
	RefParams() []string
	ConstParams() []string
}

// UserFunction is a user-defined Arrow function: its declared name and
// parameter lists live on the AST node itself (ast.Function), so this is
// a thin wrapper rather than a duplicated copy of those fields.
type UserFunction struct {
	Decl *ast.Function
}

func (f *UserFunction) Kind() Kind             { return KindFunction }
func (f *UserFunction) Inspect() string        { return fmt.Sprintf("<function %s>", f.Decl.Name) }
func (f *UserFunction) Name() string           { return f.Decl.Name }
func (f *UserFunction) RefParams() []string    { return f.Decl.RefParams }
func (f *UserFunction) ConstParams() []string  { return f.Decl.ConstParams }

// BuiltinFunction is a native method attached to a value (List's push/
// pop/peek/empty/len, String's len/get/left_add/left_del/to_int). Its
// declared parameter lists are used to build the callee Memory
// regardless of direction, matching
// original_source/datatypes.py's BuiltinFunction.evaluate, which zips
// the same ref/const parameter lists for both the forward and the
// uncalled invocation.
type BuiltinFunction struct {
	FnName          string
	RefParamNames   []string
	ConstParamNames []string
	Forward         NativeOp
	Inverse         NativeOp
}

func (f *BuiltinFunction) Kind() Kind            { return KindFunction }
func (f *BuiltinFunction) Inspect() string       { return fmt.Sprintf("<builtin %s>", f.FnName) }
func (f *BuiltinFunction) Name() string          { return f.FnName }
func (f *BuiltinFunction) RefParams() []string   { return f.RefParamNames }
func (f *BuiltinFunction) ConstParams() []string { return f.ConstParamNames }

// Run invokes the forward or inverse native op per backwards.
func (f *BuiltinFunction) Run(backwards bool, args MemoryReader) (Value, error) {
	if backwards {
		return f.Inverse(args)
	}
	return f.Forward(args)
}
