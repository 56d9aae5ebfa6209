// Package inverter structurally rewrites Arrow statements and blocks into
// their semantic inverse (spec.md §4.E): a block's inverse runs its
// statements in reverse order, each inverted in turn, so that evaluating
// a block then its inverse is an identity on Memory.
//
// Grounded 1:1 on original_source/inverter.py's unexpression/unstatement/
// unblock/unfunction, rewritten as a Go type switch over pkg/ast's tagged
// union in place of the original's kind-string dispatch. Every case of
// that switch is exhaustive over pkg/ast's closed node set; the default
// arm exists only to turn a node kind the switch doesn't recognize into
// the InverseNotDefined error spec.md §7 names for it, rather than a
// panic, since this is a place a malformed or future AST extension could
// otherwise bring down the whole run.
package inverter

import (
	"arrow/pkg/ast"
	arrowerr "arrow/pkg/errors"
)

var opInverses = map[string]string{
	"+": "-",
	"-": "+",
	"*": "/",
	"/": "*",
}

func notDefined(n ast.Node) error {
	return arrowerr.New(arrowerr.Evaluation, arrowerr.InverseNotDefined,
		arrowerr.Position{Line: n.Pos().Line, Column: n.Pos().Column},
		"no inverse defined for %s", n.Kind())
}

// Expression recurses into an expression tree inverting FUNCTION_CALL
// orientation, leaving every other expression kind structurally
// unchanged (arithmetic expressions are pure, so inversion only ever
// needs to flip which direction a call runs).
func Expression(e ast.Expression) (ast.Expression, error) {
	switch n := e.(type) {
	case *ast.FunctionCall:
		inv := *n
		inv.Backwards = !n.Backwards
		return &inv, nil

	case *ast.BinOp:
		left, err := Expression(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := Expression(n.Right)
		if err != nil {
			return nil, err
		}
		inv := *n
		inv.Left, inv.Right = left, right
		return &inv, nil

	case *ast.Negate:
		expr, err := Expression(n.Expr)
		if err != nil {
			return nil, err
		}
		inv := *n
		inv.Expr = expr
		return &inv, nil

	case *ast.NumLit:
		return n, nil

	case *ast.StringLit:
		return n, nil

	case *ast.VarRef:
		return n, nil

	case *ast.ArrayRef:
		index, err := Expression(n.Index)
		if err != nil {
			return nil, err
		}
		inv := *n
		inv.Index = index
		return &inv, nil

	case *ast.ArrayExpr:
		entries := make([]ast.Expression, len(n.Entries))
		for i, entry := range n.Entries {
			inv, err := Expression(entry)
			if err != nil {
				return nil, err
			}
			entries[i] = inv
		}
		inv := *n
		inv.Entries = entries
		return &inv, nil
	}
	return nil, notDefined(e)
}

// Statement returns the structural inverse of a single statement.
func Statement(s ast.Statement) (ast.Statement, error) {
	switch n := s.(type) {
	case *ast.ModOp:
		expr, err := Expression(n.Expr)
		if err != nil {
			return nil, err
		}
		inv := *n
		inv.Op = opInverses[n.Op]
		inv.Expr = expr
		return &inv, nil

	case *ast.FromLoop:
		block, err := Block(n.Block)
		if err != nil {
			return nil, err
		}
		return &ast.FromLoop{
			Position:       n.Position,
			StartCondition: n.EndCondition,
			Block:          block,
			EndCondition:   n.StartCondition,
		}, nil

	case *ast.ForLoop:
		block, err := Block(n.Block)
		if err != nil {
			return nil, err
		}
		varDec, err := Statement(n.EndCondition)
		if err != nil {
			return nil, err
		}
		increment, err := Statement(n.Increment)
		if err != nil {
			return nil, err
		}
		endCondition, err := Statement(n.VarDeclaration)
		if err != nil {
			return nil, err
		}
		return &ast.ForLoop{
			Position:       n.Position,
			IncAtEnd:       !n.IncAtEnd,
			VarDeclaration: varDec.(*ast.VarDec),
			Increment:      increment.(*ast.ModOp),
			Block:          block,
			EndCondition:   endCondition.(*ast.VarCondition),
		}, nil

	case *ast.Block:
		return Block(n)

	case *ast.VarDec:
		return &ast.VarCondition{Position: n.Position, Name: n.Name, Expr: n.Expr}, nil

	case *ast.VarCondition:
		return &ast.VarDec{Position: n.Position, Name: n.Name, Expr: n.Expr}, nil

	case *ast.If:
		trueBlock, err := Block(n.True)
		if err != nil {
			return nil, err
		}
		inv := &ast.If{
			Position:  n.Position,
			Condition: n.Result,
			True:      trueBlock,
			Result:    n.Condition,
		}
		if n.False != nil {
			falseBlock, err := Block(n.False)
			if err != nil {
				return nil, err
			}
			inv.False = falseBlock
		}
		return inv, nil

	case *ast.DoUndo:
		inv := &ast.DoUndo{Position: n.Position, Action: n.Action}
		if n.Yielding != nil {
			yielding, err := Block(n.Yielding)
			if err != nil {
				return nil, err
			}
			inv.Yielding = yielding
		}
		return inv, nil

	case *ast.FunctionCall:
		inv := *n
		inv.Backwards = !n.Backwards
		return &inv, nil

	case *ast.Exit:
		return &ast.Enter{Position: n.Position, Value: n.Value, Condition: n.Condition}, nil

	case *ast.Enter:
		return &ast.Exit{Position: n.Position, Value: n.Value, Condition: n.Condition}, nil

	case *ast.SwapOp:
		return n, nil

	case *ast.Result:
		return n, nil

	case *ast.Un:
		return n.Statement, nil
	}
	return nil, notDefined(s)
}

// Block returns a new block whose statements are n's statements, each
// inverted, in reverse order.
func Block(n *ast.Block) (*ast.Block, error) {
	inverted := make([]ast.Statement, len(n.Statements))
	for i, s := range n.Statements {
		inv, err := Statement(s)
		if err != nil {
			return nil, err
		}
		inverted[len(n.Statements)-1-i] = inv
	}
	return &ast.Block{Position: n.Position, Statements: inverted}, nil
}

// Function returns f with its body replaced by its inverse; name and
// parameter lists are unchanged, since running a function backwards
// reuses the same declared signature (spec.md §4.G).
func Function(f *ast.Function) (*ast.Function, error) {
	block, err := Block(f.Block)
	if err != nil {
		return nil, err
	}
	return &ast.Function{
		Position:    f.Position,
		Name:        f.Name,
		RefParams:   f.RefParams,
		ConstParams: f.ConstParams,
		Block:       block,
	}, nil
}
