package eval

import (
	"arrow/pkg/ast"
	arrowerr "arrow/pkg/errors"
	"arrow/pkg/inverter"
	"arrow/pkg/memory"
	"arrow/pkg/value"
)

// evalFunctionCall implements the function runtime contract of
// spec.md §4.G for one FUNCTION_CALL node, whether reached as an
// expression or (discarding its value) as a statement.
func evalFunctionCall(n *ast.FunctionCall, mem *memory.Memory, funcs Functions) (value.Value, error) {
	callable, err := resolveCallable(n, mem, funcs)
	if err != nil {
		return nil, err
	}

	constVals := make([]value.Value, len(n.ConstArgs))
	for i, arg := range n.ConstArgs {
		v, err := Expression(arg, mem, funcs)
		if err != nil {
			return nil, err
		}
		constVals[i] = v
	}

	refVals := make([]value.Value, len(n.RefArgs))
	for i, ref := range n.RefArgs {
		v, err := getRef(ref, mem, funcs)
		if err != nil {
			return nil, err
		}
		refVals[i] = v
	}

	refParams, constParams := callable.RefParams(), callable.ConstParams()
	if len(refVals) != len(refParams) || len(constVals) != len(constParams) {
		return nil, arrowerr.New(arrowerr.Evaluation, arrowerr.ArityMismatch,
			arrowerr.Position{Line: n.Position.Line, Column: n.Position.Column},
			"%s expects %d ref and %d const arguments, got %d and %d",
			callable.Name(), len(refParams), len(constParams), len(refVals), len(constVals))
	}

	calleeRefs := make(map[string]value.Value, len(refParams))
	for i, name := range refParams {
		calleeRefs[name] = refVals[i]
	}
	calleeConsts := make(map[string]value.Value, len(constParams))
	for i, name := range constParams {
		calleeConsts[name] = constVals[i]
	}
	calleeMem := memory.New(calleeRefs, calleeConsts)

	if err := run(callable, n.Backwards, calleeMem, funcs); err != nil {
		return nil, err
	}

	// Rename ref bindings back to the caller's names (spec.md §4.G step
	// 5): if the call site aliased parameter p under caller name x != p,
	// move calleeMem.refs[p] to calleeMem.refs[x] so UpdateRefs below
	// writes it back under the name the caller actually owns.
	for i, ref := range n.RefArgs {
		param := refParams[i]
		argName := ref.VarName()
		if argName == param {
			continue
		}
		v, ok := calleeMem.Refs[param]
		if ok {
			calleeMem.Refs[argName] = v
			delete(calleeMem.Refs, param)
		}
	}
	mem.UpdateRefs(calleeMem)

	result, err := calleeMem.Get("result")
	if err != nil {
		return nil, arrowerr.New(arrowerr.Evaluation, arrowerr.MissingResult,
			arrowerr.Position{Line: n.Position.Line, Column: n.Position.Column},
			"%s produced no result", callable.Name())
	}
	return result, nil
}

func resolveCallable(n *ast.FunctionCall, mem *memory.Memory, funcs Functions) (value.Callable, error) {
	if isDotted(n.Name) {
		v, err := mem.Get(n.Name)
		if err != nil {
			return nil, notFoundErr(err, n.Position)
		}
		callable, ok := v.(value.Callable)
		if !ok {
			return nil, typeError(n.Position, "%s does not name a callable", n.Name)
		}
		return callable, nil
	}

	decl, ok := funcs.Lookup(n.Name)
	if !ok {
		return nil, arrowerr.New(arrowerr.Evaluation, arrowerr.NotFound,
			arrowerr.Position{Line: n.Position.Line, Column: n.Position.Column},
			"function %s not found", n.Name)
	}
	return &value.UserFunction{Decl: decl}, nil
}

// run executes callable's body (builtin native op, or a user function's
// selected entry point) against calleeMem, leaving "result" bound.
func run(callable value.Callable, backwards bool, calleeMem *memory.Memory, funcs Functions) error {
	switch c := callable.(type) {
	case *value.BuiltinFunction:
		result, err := c.Run(backwards, calleeMem)
		if err != nil {
			return err
		}
		return calleeMem.Set("result", result)

	case *value.UserFunction:
		return runUserFunction(c.Decl, backwards, calleeMem, funcs)
	}
	return typeError(ast.Position{}, "unrecognized callable")
}

func runUserFunction(decl *ast.Function, backwards bool, calleeMem *memory.Memory, funcs Functions) error {
	block := decl.Block
	if backwards {
		inv, err := inverter.Block(decl.Block)
		if err != nil {
			return err
		}
		block = inv
	}

	toRun, err := selectEntryPoint(block, calleeMem, funcs)
	if err != nil {
		return err
	}

	_, err = Block(toRun, calleeMem, funcs)
	return err
}

// selectEntryPoint implements spec.md §4.G step 3: scan the block's
// top-level statements from the end towards the beginning; on the
// first ENTER whose condition holds, bind "result" to its value and
// return only the statements strictly after it. If none match, return
// the whole block unchanged.
func selectEntryPoint(block *ast.Block, mem *memory.Memory, funcs Functions) (*ast.Block, error) {
	statements := block.Statements
	var tail []ast.Statement

	for i := len(statements) - 1; i >= 0; i-- {
		node := statements[i]
		if enter, ok := node.(*ast.Enter); ok {
			cond, err := Expression(enter.Condition, mem, funcs)
			if err != nil {
				return nil, err
			}
			matched, err := truthy(cond, enter.Position)
			if err != nil {
				return nil, err
			}
			if matched {
				val, err := Expression(enter.Value, mem, funcs)
				if err != nil {
					return nil, err
				}
				if err := mem.Set("result", val); err != nil {
					return nil, err
				}
				return &ast.Block{Position: block.Position, Statements: reverseStatements(tail)}, nil
			}
		}
		tail = append(tail, node)
	}

	// No ENTER matched: run the entire block from the top.
	return &ast.Block{Position: block.Position, Statements: reverseStatements(tail)}, nil
}

func reverseStatements(s []ast.Statement) []ast.Statement {
	out := make([]ast.Statement, len(s))
	for i, stmt := range s {
		out[len(s)-1-i] = stmt
	}
	return out
}
