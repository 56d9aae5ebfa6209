package parser

import (
	"testing"

	"arrow/pkg/ast"
	"arrow/pkg/lexer"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, errs := Parse(lexer.New(src))
	if len(errs) != 0 {
		t.Fatalf("parse errors for %q: %v", src, errs)
	}
	return prog
}

func TestParseMainAndSimpleBlock(t *testing.T) {
	prog := parse(t, `main(x := 0){ x += 1 }`)
	if prog.Main == nil {
		t.Fatalf("expected a main function")
	}
	if len(prog.MainVars) != 1 || prog.MainVars[0].Name != "x" {
		t.Fatalf("expected main var x, got %+v", prog.MainVars)
	}
	if len(prog.Main.Block.Statements) != 1 {
		t.Fatalf("expected 1 statement in main, got %d", len(prog.Main.Block.Statements))
	}
	mod, ok := prog.Main.Block.Statements[0].(*ast.ModOp)
	if !ok {
		t.Fatalf("expected a ModOp statement, got %T", prog.Main.Block.Statements[0])
	}
	if mod.Op != "+" || mod.Var.VarName() != "x" {
		t.Fatalf("unexpected mod-op: %+v", mod)
	}
}

func TestParseFunctionWithRefAndConstParams(t *testing.T) {
	prog := parse(t, `
add_to(ref target, const amount) {
	target += amount
	exit target if target > -1
}
main(counter := 10) { result counter }
`)
	fn, ok := prog.Functions["add_to"]
	if !ok {
		t.Fatalf("expected function add_to to be parsed")
	}
	if len(fn.RefParams) != 1 || fn.RefParams[0] != "target" {
		t.Fatalf("unexpected ref params: %v", fn.RefParams)
	}
	if len(fn.ConstParams) != 1 || fn.ConstParams[0] != "amount" {
		t.Fatalf("unexpected const params: %v", fn.ConstParams)
	}
	if len(fn.Block.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(fn.Block.Statements))
	}
	if _, ok := fn.Block.Statements[1].(*ast.Exit); !ok {
		t.Fatalf("expected an Exit statement, got %T", fn.Block.Statements[1])
	}
}

func TestParseForLoopUntilAfterBlock(t *testing.T) {
	prog := parse(t, `main(x := 0){ for (i := 0) { x += 2 } (i += 1), until (i == 5) }`)
	loop, ok := prog.Main.Block.Statements[0].(*ast.ForLoop)
	if !ok {
		t.Fatalf("expected a ForLoop, got %T", prog.Main.Block.Statements[0])
	}
	if !loop.IncAtEnd {
		t.Fatalf("expected the increment to run at the end of the loop body")
	}
	if loop.EndCondition.Name != "i" {
		t.Fatalf("unexpected end condition: %+v", loop.EndCondition)
	}
}

func TestParseIfWithSwapResultAndElse(t *testing.T) {
	prog := parse(t, `main(x := 1){ if x > 0 { x -= 1 } <=> else { x += 1 } }`)
	ifStmt, ok := prog.Main.Block.Statements[0].(*ast.If)
	if !ok {
		t.Fatalf("expected an If, got %T", prog.Main.Block.Statements[0])
	}
	if ifStmt.Result != ifStmt.Condition {
		t.Fatalf("expected '<=>' to reuse the condition as the postcondition")
	}
	if ifStmt.False == nil {
		t.Fatalf("expected an else block")
	}
}

func TestParseDoUndoWithYielding(t *testing.T) {
	prog := parse(t, `main(x := 2, y := 5){ do/undo { x += y } yielding { y += x } }`)
	du, ok := prog.Main.Block.Statements[0].(*ast.DoUndo)
	if !ok {
		t.Fatalf("expected a DoUndo, got %T", prog.Main.Block.Statements[0])
	}
	if du.Yielding == nil {
		t.Fatalf("expected a yielding block")
	}
}

func TestParseFunctionCallWithRefAndConstArgs(t *testing.T) {
	prog := parse(t, `main(counter := 10){ add_to(&counter, 3) }`)
	call, ok := prog.Main.Block.Statements[0].(*ast.FunctionCall)
	if !ok {
		t.Fatalf("expected a FunctionCall statement, got %T", prog.Main.Block.Statements[0])
	}
	if len(call.RefArgs) != 1 || call.RefArgs[0].VarName() != "counter" {
		t.Fatalf("unexpected ref args: %v", call.RefArgs)
	}
	if len(call.ConstArgs) != 1 {
		t.Fatalf("unexpected const args: %v", call.ConstArgs)
	}
}

func TestParseDecimalNumberLiteral(t *testing.T) {
	prog := parse(t, `main(x := 3.50){ result x }`)
	dec := prog.MainVars[0].Expr.(*ast.NumLit)
	if got := dec.Value.String(); got != "(7/2)" {
		t.Fatalf("expected 3.50 to parse as (7/2), got %s", got)
	}
}

func TestParseUnWrapsAStatement(t *testing.T) {
	prog := parse(t, `main(x := 1){ un(: x += 1 :) }`)
	un, ok := prog.Main.Block.Statements[0].(*ast.Un)
	if !ok {
		t.Fatalf("expected an Un, got %T", prog.Main.Block.Statements[0])
	}
	if _, ok := un.Statement.(*ast.ModOp); !ok {
		t.Fatalf("expected the wrapped statement to be a ModOp, got %T", un.Statement)
	}
}

func TestParseArrayLiteralAndIndexing(t *testing.T) {
	prog := parse(t, `main(xs := [1, 2, 3]){ result xs[0] }`)
	arr, ok := prog.MainVars[0].Expr.(*ast.ArrayExpr)
	if !ok {
		t.Fatalf("expected an ArrayExpr, got %T", prog.MainVars[0].Expr)
	}
	if len(arr.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(arr.Entries))
	}
}
