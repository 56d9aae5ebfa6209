// Package eval implements Arrow's expression and statement evaluator
// (spec.md §4.F): a recursive traversal over the AST that reads and
// mutates a pkg/memory.Memory scope, consulting pkg/inverter for
// backward constructs (UN, DO/UNDO's undo half) and pkg/value for the
// runtime value model.
//
// Grounded on original_source/evaluator.py's expr_eval/statement_eval/
// block_eval, restructured per spec.md §9: EXIT's return is modeled as
// an explicit Signal threaded back through every statement-evaluating
// function, instead of the original's raised ReturnException.
package eval

import (
	"strings"

	"arrow/pkg/ast"
	arrowerr "arrow/pkg/errors"
	"arrow/pkg/memory"
	"arrow/pkg/num"
	"arrow/pkg/value"
)

// Functions resolves a bare (non-dotted) function name to its
// declaration, matching original_source/shared.py's program.functions
// table. Satisfied structurally by *program.Program, so this package
// does not import pkg/program (which itself must import pkg/eval to
// seed main's memory).
type Functions interface {
	Lookup(name string) (*ast.Function, bool)
}

// Signal reports whether a statement or block ran to completion
// (Continue) or hit a satisfied EXIT (Returned), in which case "result"
// is already bound in Memory and the caller must stop executing further
// statements at every enclosing level up to the function call boundary.
type Signal int

const (
	Continue Signal = iota
	Returned
)

func typeError(pos ast.Position, format string, args ...any) error {
	return arrowerr.New(arrowerr.Evaluation, arrowerr.ArityMismatch,
		arrowerr.Position{Line: pos.Line, Column: pos.Column}, format, args...)
}

func badIndex(pos ast.Position, format string, args ...any) error {
	return arrowerr.New(arrowerr.Evaluation, arrowerr.BadIndex,
		arrowerr.Position{Line: pos.Line, Column: pos.Column}, format, args...)
}

// Expression evaluates e against mem, consulting funcs to resolve bare
// function-call names.
func Expression(e ast.Expression, mem *memory.Memory, funcs Functions) (value.Value, error) {
	switch n := e.(type) {
	case *ast.NumLit:
		return &value.Num{V: n.Value}, nil

	case *ast.StringLit:
		return &value.String{V: n.Value}, nil

	case *ast.VarRef:
		v, err := mem.Get(n.Name)
		if err != nil {
			return nil, notFoundErr(err, n.Position)
		}
		return v, nil

	case *ast.ArrayRef:
		return evalArrayRef(n, mem, funcs)

	case *ast.ArrayExpr:
		entries := make([]value.Value, len(n.Entries))
		for i, entry := range n.Entries {
			v, err := Expression(entry, mem, funcs)
			if err != nil {
				return nil, err
			}
			entries[i] = v
		}
		return &value.List{Contents: entries}, nil

	case *ast.BinOp:
		// Both operands are always evaluated; Arrow does not guarantee
		// short-circuiting (spec.md §4.F).
		left, err := Expression(n.Left, mem, funcs)
		if err != nil {
			return nil, err
		}
		right, err := Expression(n.Right, mem, funcs)
		if err != nil {
			return nil, err
		}
		return applyBinOp(n.Op, left, right, n.Position)

	case *ast.Negate:
		v, err := Expression(n.Expr, mem, funcs)
		if err != nil {
			return nil, err
		}
		asNum, ok := v.(*value.Num)
		if !ok {
			return nil, typeError(n.Position, "cannot negate a %s", v.Kind())
		}
		return &value.Num{V: asNum.V.Neg()}, nil

	case *ast.FunctionCall:
		return evalFunctionCall(n, mem, funcs)
	}
	return nil, typeError(e.Pos(), "unevaluatable expression kind %v", e.Kind())
}

func notFoundErr(err error, pos ast.Position) error {
	if _, ok := err.(*memory.NotFoundError); ok {
		return arrowerr.New(arrowerr.Evaluation, arrowerr.NotFound,
			arrowerr.Position{Line: pos.Line, Column: pos.Column}, "%s", err.Error())
	}
	return err
}

func evalArrayRef(n *ast.ArrayRef, mem *memory.Memory, funcs Functions) (value.Value, error) {
	list, err := getList(n.Name, mem, n.Position)
	if err != nil {
		return nil, err
	}
	idxVal, err := Expression(n.Index, mem, funcs)
	if err != nil {
		return nil, err
	}
	i, err := validateIndex(idxVal, list.Len(), n.Position)
	if err != nil {
		return nil, err
	}
	return list.Get(i), nil
}

func getList(name string, mem *memory.Memory, pos ast.Position) (*value.List, error) {
	v, err := mem.Get(name)
	if err != nil {
		return nil, notFoundErr(err, pos)
	}
	list, ok := v.(*value.List)
	if !ok {
		return nil, typeError(pos, "%s is a %s, not a List", name, v.Kind())
	}
	return list, nil
}

// validateIndex enforces spec.md §4.F's ARRAY_REF contract: the index
// must be a non-negative integer strictly less than length.
func validateIndex(idxVal value.Value, length int, pos ast.Position) (int, error) {
	n, ok := idxVal.(*value.Num)
	if !ok {
		return 0, badIndex(pos, "array index must be a Num, got %s", idxVal.Kind())
	}
	if !n.V.IsInteger() {
		return 0, badIndex(pos, "array index %s is not a whole number", n.V)
	}
	if n.V.IsNegative() {
		return 0, badIndex(pos, "array index %s is negative", n.V)
	}
	i, ok := n.V.Int64()
	if !ok || int(i) >= length {
		return 0, badIndex(pos, "array index %s is out of bounds (length %d)", n.V, length)
	}
	return int(i), nil
}

// truthy coerces a condition value the way Arrow's conditions are
// always written in practice — as a comparison, yielding Bool — while
// also accepting a bare Num as "nonzero is true" for conditions built
// directly from arithmetic.
func truthy(v value.Value, pos ast.Position) (bool, error) {
	switch n := v.(type) {
	case *value.Bool:
		return n.V, nil
	case *value.Num:
		return !n.V.Equal(num.FromInt64(0)), nil
	}
	return false, typeError(pos, "condition must be Bool or Num, got %s", v.Kind())
}

func valuesEqual(a, b value.Value) bool {
	switch av := a.(type) {
	case *value.Num:
		bv, ok := b.(*value.Num)
		return ok && av.V.Equal(bv.V)
	case *value.Bool:
		bv, ok := b.(*value.Bool)
		return ok && av.V == bv.V
	case *value.String:
		bv, ok := b.(*value.String)
		return ok && av.V == bv.V
	case *value.List:
		bv, ok := b.(*value.List)
		if !ok || len(av.Contents) != len(bv.Contents) {
			return false
		}
		for i := range av.Contents {
			if !valuesEqual(av.Contents[i], bv.Contents[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func applyBinOp(op string, left, right value.Value, pos ast.Position) (value.Value, error) {
	switch op {
	case "+", "-", "*", "/", "%":
		l, ok := left.(*value.Num)
		if !ok {
			return nil, typeError(pos, "left operand of %q must be a Num, got %s", op, left.Kind())
		}
		r, ok := right.(*value.Num)
		if !ok {
			return nil, typeError(pos, "right operand of %q must be a Num, got %s", op, right.Kind())
		}
		switch op {
		case "+":
			return &value.Num{V: l.V.Add(r.V)}, nil
		case "-":
			return &value.Num{V: l.V.Sub(r.V)}, nil
		case "*":
			return &value.Num{V: l.V.Mul(r.V)}, nil
		case "/":
			if r.V.Equal(num.FromInt64(0)) {
				return nil, arrowerr.New(arrowerr.Evaluation, arrowerr.DivByZero,
					arrowerr.Position{Line: pos.Line, Column: pos.Column}, "division by zero")
			}
			return &value.Num{V: l.V.Div(r.V)}, nil
		default: // "%"
			if r.V.Equal(num.FromInt64(0)) {
				return nil, arrowerr.New(arrowerr.Evaluation, arrowerr.DivByZero,
					arrowerr.Position{Line: pos.Line, Column: pos.Column}, "modulo by zero")
			}
			return &value.Num{V: l.V.Mod(r.V)}, nil
		}

	case ">", "<", ">=", "<=":
		l, ok := left.(*value.Num)
		if !ok {
			return nil, typeError(pos, "left operand of %q must be a Num, got %s", op, left.Kind())
		}
		r, ok := right.(*value.Num)
		if !ok {
			return nil, typeError(pos, "right operand of %q must be a Num, got %s", op, right.Kind())
		}
		cmp := l.V.Cmp(r.V)
		switch op {
		case ">":
			return value.BoolOf(cmp > 0), nil
		case "<":
			return value.BoolOf(cmp < 0), nil
		case ">=":
			return value.BoolOf(cmp >= 0), nil
		default: // "<="
			return value.BoolOf(cmp <= 0), nil
		}

	case "==":
		return value.BoolOf(valuesEqual(left, right)), nil
	case "!=":
		return value.BoolOf(!valuesEqual(left, right)), nil
	}
	return nil, typeError(pos, "unknown operator %q", op)
}

func isDotted(name string) bool { return strings.Contains(name, ".") }
