package eval

import (
	"arrow/pkg/ast"
	arrowerr "arrow/pkg/errors"
	"arrow/pkg/inverter"
	"arrow/pkg/memory"
	"arrow/pkg/value"
)

// getRef reads the current value at a Ref location (a plain variable or
// an array element), used by MOD_OP and SWAP_OP to operate uniformly
// over both — original_source/evaluator.py's mod_op_eval/swap_op_eval
// branch explicitly on VAR_REF vs ARRAY_REF; pkg/ast's Ref interface
// lets this collapse into one pair of helpers.
func getRef(r ast.Ref, mem *memory.Memory, funcs Functions) (value.Value, error) {
	switch n := r.(type) {
	case *ast.VarRef:
		v, err := mem.Get(n.Name)
		if err != nil {
			return nil, notFoundErr(err, n.Position)
		}
		return v, nil
	case *ast.ArrayRef:
		return evalArrayRef(n, mem, funcs)
	}
	return nil, typeError(r.Pos(), "unsupported ref kind %v", r.Kind())
}

// setRef writes v to a Ref location.
func setRef(r ast.Ref, v value.Value, mem *memory.Memory, funcs Functions) error {
	switch n := r.(type) {
	case *ast.VarRef:
		if err := mem.Set(n.Name, v); err != nil {
			return writeConstErr(err, n.Position)
		}
		return nil
	case *ast.ArrayRef:
		list, err := getList(n.Name, mem, n.Position)
		if err != nil {
			return err
		}
		idxVal, err := Expression(n.Index, mem, funcs)
		if err != nil {
			return err
		}
		i, err := validateIndex(idxVal, list.Len(), n.Position)
		if err != nil {
			return err
		}
		list.Set(i, v)
		return nil
	}
	return typeError(r.Pos(), "unsupported ref kind %v", r.Kind())
}

func writeConstErr(err error, pos ast.Position) error {
	if _, ok := err.(*memory.WriteConstError); ok {
		return arrowerr.New(arrowerr.Evaluation, arrowerr.WriteConst,
			arrowerr.Position{Line: pos.Line, Column: pos.Column}, "%s", err.Error())
	}
	return err
}

// Statement evaluates one statement against mem, returning Returned iff
// it — or something it ran — hit a satisfied EXIT.
func Statement(s ast.Statement, mem *memory.Memory, funcs Functions) (Signal, error) {
	switch n := s.(type) {
	case *ast.ModOp:
		return Continue, evalModOp(n, mem, funcs)

	case *ast.SwapOp:
		left, err := getRef(n.Left, mem, funcs)
		if err != nil {
			return Continue, err
		}
		right, err := getRef(n.Right, mem, funcs)
		if err != nil {
			return Continue, err
		}
		if err := setRef(n.Left, right, mem, funcs); err != nil {
			return Continue, err
		}
		if err := setRef(n.Right, left, mem, funcs); err != nil {
			return Continue, err
		}
		return Continue, nil

	case *ast.VarDec:
		v, err := Expression(n.Expr, mem, funcs)
		if err != nil {
			return Continue, err
		}
		if err := mem.Set(n.Name, v); err != nil {
			return Continue, writeConstErr(err, n.Position)
		}
		return Continue, nil

	case *ast.VarCondition:
		return Continue, evalVarCondition(n, mem, funcs)

	case *ast.FromLoop:
		return evalFromLoop(n, mem, funcs)

	case *ast.ForLoop:
		return evalForLoop(n, mem, funcs)

	case *ast.If:
		cond, err := Expression(n.Condition, mem, funcs)
		if err != nil {
			return Continue, err
		}
		ok, err := truthy(cond, n.Position)
		if err != nil {
			return Continue, err
		}
		if ok {
			return Block(n.True, mem, funcs)
		}
		if n.False != nil {
			return Block(n.False, mem, funcs)
		}
		return Continue, nil

	case *ast.DoUndo:
		return evalDoUndo(n, mem, funcs)

	case *ast.Result:
		v, err := Expression(n.Expr, mem, funcs)
		if err != nil {
			return Continue, err
		}
		return Continue, mem.Set("result", v)

	case *ast.Enter:
		return Continue, nil

	case *ast.Exit:
		cond, err := Expression(n.Condition, mem, funcs)
		if err != nil {
			return Continue, err
		}
		ok, err := truthy(cond, n.Position)
		if err != nil {
			return Continue, err
		}
		if !ok {
			return Continue, nil
		}
		v, err := Expression(n.Value, mem, funcs)
		if err != nil {
			return Continue, err
		}
		if err := mem.Set("result", v); err != nil {
			return Continue, err
		}
		return Returned, nil

	case *ast.Un:
		inv, err := inverter.Statement(n.Statement)
		if err != nil {
			return Continue, err
		}
		return Statement(inv, mem, funcs)

	case *ast.FunctionCall:
		_, err := evalFunctionCall(n, mem, funcs)
		return Continue, err

	case *ast.Block:
		return Block(n, mem, funcs)
	}
	return Continue, typeError(s.Pos(), "unevaluatable statement kind %v", s.Kind())
}

func evalModOp(n *ast.ModOp, mem *memory.Memory, funcs Functions) error {
	exprVal, err := Expression(n.Expr, mem, funcs)
	if err != nil {
		return err
	}
	current, err := getRef(n.Var, mem, funcs)
	if err != nil {
		return err
	}
	updated, err := applyBinOp(n.Op, current, exprVal, n.Position)
	if err != nil {
		return err
	}
	return setRef(n.Var, updated, mem, funcs)
}

func evalVarCondition(n *ast.VarCondition, mem *memory.Memory, funcs Functions) error {
	current, err := mem.Get(n.Name)
	if err != nil {
		return notFoundErr(err, n.Position)
	}
	expected, err := Expression(n.Expr, mem, funcs)
	if err != nil {
		return err
	}
	if !valuesEqual(current, expected) {
		return arrowerr.New(arrowerr.Evaluation, arrowerr.ConditionViolation,
			arrowerr.Position{Line: n.Position.Line, Column: n.Position.Column},
			"%s is supposed to be %s but it's actually %s", n.Name, expected.Inspect(), current.Inspect())
	}
	mem.Delete(n.Name)
	return nil
}

func evalFromLoop(n *ast.FromLoop, mem *memory.Memory, funcs Functions) (Signal, error) {
	for {
		sig, err := Block(n.Block, mem, funcs)
		if err != nil || sig == Returned {
			return sig, err
		}
		cond, err := Expression(n.EndCondition, mem, funcs)
		if err != nil {
			return Continue, err
		}
		done, err := truthy(cond, n.Position)
		if err != nil {
			return Continue, err
		}
		if done {
			return Continue, nil
		}
	}
}

func evalForLoop(n *ast.ForLoop, mem *memory.Memory, funcs Functions) (Signal, error) {
	init, err := Expression(n.VarDeclaration.Expr, mem, funcs)
	if err != nil {
		return Continue, err
	}
	if err := mem.Set(n.VarDeclaration.Name, init); err != nil {
		return Continue, writeConstErr(err, n.VarDeclaration.Position)
	}

	for {
		if !n.IncAtEnd {
			if err := evalModOp(n.Increment, mem, funcs); err != nil {
				return Continue, err
			}
		}

		sig, err := Block(n.Block, mem, funcs)
		if err != nil || sig == Returned {
			return sig, err
		}

		if n.IncAtEnd {
			if err := evalModOp(n.Increment, mem, funcs); err != nil {
				return Continue, err
			}
		}

		current, err := mem.Get(n.EndCondition.Name)
		if err != nil {
			return Continue, notFoundErr(err, n.EndCondition.Position)
		}
		target, err := Expression(n.EndCondition.Expr, mem, funcs)
		if err != nil {
			return Continue, err
		}
		if valuesEqual(current, target) {
			break
		}
	}

	return Continue, evalVarCondition(n.EndCondition, mem, funcs)
}

// evalDoUndo runs Action, then Yielding, then Action's inverse — but the
// inverse is computed against a scratch snapshot of memory taken right
// after Action (before Yielding ran), not against the live,
// Yielding-mutated memory. A literal re-run of inv(Action) against the
// live memory would let Yielding's writes to Action's own operands leak
// into the undo (e.g. "x += y; yielding y += x" would undo x using the
// *new* y instead of the y Action actually added), which breaks the
// worked example in spec.md §8. Only the bindings inv(Action) actually
// changes are copied back into the live memory; anything Yielding wrote
// is left alone.
func evalDoUndo(n *ast.DoUndo, mem *memory.Memory, funcs Functions) (Signal, error) {
	sig, err := Block(n.Action, mem, funcs)
	if err != nil || sig == Returned {
		return sig, err
	}

	snapshot := mem.Copy()

	if n.Yielding != nil {
		sig, err := Block(n.Yielding, mem, funcs)
		if err != nil || sig == Returned {
			return sig, err
		}
	}

	invAction, err := inverter.Block(n.Action)
	if err != nil {
		return Continue, err
	}

	before := make(map[string]value.Value, len(snapshot.Refs))
	for k, v := range snapshot.Refs {
		before[k] = v
	}
	if _, err := Block(invAction, snapshot, funcs); err != nil {
		return Continue, err
	}
	for key, v := range snapshot.Refs {
		if old, ok := before[key]; !ok || !valuesEqual(old, v) {
			mem.Refs[key] = v
		}
	}

	return Continue, nil
}

// Block evaluates every statement in n in order, stopping early (and
// propagating Returned) the moment one hits a satisfied EXIT.
func Block(n *ast.Block, mem *memory.Memory, funcs Functions) (Signal, error) {
	for _, s := range n.Statements {
		sig, err := Statement(s, mem, funcs)
		if err != nil {
			return Continue, err
		}
		if sig == Returned {
			return Returned, nil
		}
	}
	return Continue, nil
}
