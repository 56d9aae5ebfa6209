package eval

import (
	"math/big"
	"testing"

	"arrow/pkg/ast"
	"arrow/pkg/inverter"
	"arrow/pkg/memory"
	"arrow/pkg/num"
	"arrow/pkg/value"
)

type testFuncs map[string]*ast.Function

func (f testFuncs) Lookup(name string) (*ast.Function, bool) {
	fn, ok := f[name]
	return fn, ok
}

func numLit(v int64) *ast.NumLit { return &ast.NumLit{Value: num.FromInt64(v)} }

func getNum(t *testing.T, mem *memory.Memory, name string) num.Num {
	t.Helper()
	v, err := mem.Get(name)
	if err != nil {
		t.Fatalf("get %s: %v", name, err)
	}
	n, ok := v.(*value.Num)
	if !ok {
		t.Fatalf("%s is a %s, not a Num", name, v.Kind())
	}
	return n.V
}

func requireInt(t *testing.T, mem *memory.Memory, name string, want int64) {
	t.Helper()
	got := getNum(t, mem, name)
	if i, ok := got.Int64(); !ok || i != want {
		t.Fatalf("%s = %s, want %d", name, got, want)
	}
}

// main(x := 0){ for (i := 0), (i += 1) { x += 2 } until (i == 5) } -> x=10
func TestForLoopAccumulatesThenReverses(t *testing.T) {
	forLoop := &ast.ForLoop{
		VarDeclaration: &ast.VarDec{Name: "i", Expr: numLit(0)},
		Increment:      &ast.ModOp{Op: "+", Var: &ast.VarRef{Name: "i"}, Expr: numLit(1)},
		Block: &ast.Block{Statements: []ast.Statement{
			&ast.ModOp{Op: "+", Var: &ast.VarRef{Name: "x"}, Expr: numLit(2)},
		}},
		EndCondition: &ast.VarCondition{Name: "i", Expr: numLit(5)},
	}
	block := &ast.Block{Statements: []ast.Statement{forLoop}}

	mem := memory.New(map[string]value.Value{"x": &value.Num{V: num.FromInt64(0)}}, nil)
	if _, err := Block(block, mem, testFuncs{}); err != nil {
		t.Fatalf("forward: %v", err)
	}
	requireInt(t, mem, "x", 10)
	if mem.Contains("i") {
		t.Fatalf("induction variable i should be deallocated after the loop")
	}

	inv, err := inverter.Block(block)
	if err != nil {
		t.Fatalf("invert: %v", err)
	}
	if _, err := Block(inv, mem, testFuncs{}); err != nil {
		t.Fatalf("backward: %v", err)
	}
	requireInt(t, mem, "x", 0)
}

// main(a := 3, b := 4){ a <=> b } -> a=4, b=3; backward restores.
func TestSwapOpAndItsInverse(t *testing.T) {
	swap := &ast.SwapOp{Left: &ast.VarRef{Name: "a"}, Right: &ast.VarRef{Name: "b"}}
	mem := memory.New(map[string]value.Value{
		"a": &value.Num{V: num.FromInt64(3)},
		"b": &value.Num{V: num.FromInt64(4)},
	}, nil)

	if _, err := Statement(swap, mem, testFuncs{}); err != nil {
		t.Fatalf("forward swap: %v", err)
	}
	requireInt(t, mem, "a", 4)
	requireInt(t, mem, "b", 3)

	inv, err := inverter.Statement(swap)
	if err != nil {
		t.Fatalf("invert: %v", err)
	}
	if _, err := Statement(inv, mem, testFuncs{}); err != nil {
		t.Fatalf("backward swap: %v", err)
	}
	requireInt(t, mem, "a", 3)
	requireInt(t, mem, "b", 4)
}

// main(n := 1){ from n == 1 { n += 1 } until n == 4 } -> n=4; backward -> n=1.
func TestFromLoop(t *testing.T) {
	loop := &ast.FromLoop{
		StartCondition: &ast.BinOp{Op: "==", Left: &ast.VarRef{Name: "n"}, Right: numLit(1)},
		Block: &ast.Block{Statements: []ast.Statement{
			&ast.ModOp{Op: "+", Var: &ast.VarRef{Name: "n"}, Expr: numLit(1)},
		}},
		EndCondition: &ast.BinOp{Op: "==", Left: &ast.VarRef{Name: "n"}, Right: numLit(4)},
	}
	block := &ast.Block{Statements: []ast.Statement{loop}}
	mem := memory.New(map[string]value.Value{"n": &value.Num{V: num.FromInt64(1)}}, nil)

	if _, err := Block(block, mem, testFuncs{}); err != nil {
		t.Fatalf("forward: %v", err)
	}
	requireInt(t, mem, "n", 4)

	inv, err := inverter.Block(block)
	if err != nil {
		t.Fatalf("invert: %v", err)
	}
	if _, err := Block(inv, mem, testFuncs{}); err != nil {
		t.Fatalf("backward: %v", err)
	}
	requireInt(t, mem, "n", 1)
}

// main(x := 6){ if x > 0 { x -= 2 } => x >= 0 } -> x=4; backward (postcondition
// x >= 0) -> x=6.
func TestIfWithPostconditionInversion(t *testing.T) {
	ifStmt := &ast.If{
		Condition: &ast.BinOp{Op: ">", Left: &ast.VarRef{Name: "x"}, Right: numLit(0)},
		True: &ast.Block{Statements: []ast.Statement{
			&ast.ModOp{Op: "-", Var: &ast.VarRef{Name: "x"}, Expr: numLit(2)},
		}},
		Result: &ast.BinOp{Op: ">=", Left: &ast.VarRef{Name: "x"}, Right: numLit(0)},
	}
	mem := memory.New(map[string]value.Value{"x": &value.Num{V: num.FromInt64(6)}}, nil)

	if _, err := Statement(ifStmt, mem, testFuncs{}); err != nil {
		t.Fatalf("forward: %v", err)
	}
	requireInt(t, mem, "x", 4)

	inv, err := inverter.Statement(ifStmt)
	if err != nil {
		t.Fatalf("invert: %v", err)
	}
	if _, err := Statement(inv, mem, testFuncs{}); err != nil {
		t.Fatalf("backward: %v", err)
	}
	requireInt(t, mem, "x", 6)
}

// main(x := 2, y := 5){ do/undo { x += y } yielding { y += x } } -> x=2, y=12.
func TestDoUndoSandwich(t *testing.T) {
	doUndo := &ast.DoUndo{
		Action: &ast.Block{Statements: []ast.Statement{
			&ast.ModOp{Op: "+", Var: &ast.VarRef{Name: "x"}, Expr: &ast.VarRef{Name: "y"}},
		}},
		Yielding: &ast.Block{Statements: []ast.Statement{
			&ast.ModOp{Op: "+", Var: &ast.VarRef{Name: "y"}, Expr: &ast.VarRef{Name: "x"}},
		}},
	}
	mem := memory.New(map[string]value.Value{
		"x": &value.Num{V: num.FromInt64(2)},
		"y": &value.Num{V: num.FromInt64(5)},
	}, nil)

	if _, err := Statement(doUndo, mem, testFuncs{}); err != nil {
		t.Fatalf("do/undo: %v", err)
	}
	requireInt(t, mem, "x", 2)
	requireInt(t, mem, "y", 12)
}

// Rational check: (1/2) + (1/3) = 5/6.
func TestRationalArithmeticThroughBinOp(t *testing.T) {
	half := &ast.NumLit{Value: num.New(big.NewInt(1), big.NewInt(2), 0)}
	third := &ast.NumLit{Value: num.New(big.NewInt(1), big.NewInt(3), 0)}
	sum, err := Expression(&ast.BinOp{Op: "+", Left: half, Right: third}, memory.New(nil, nil), testFuncs{})
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if got := sum.(*value.Num).V.String(); got != "(5/6)" {
		t.Fatalf("expected (5/6), got %s", got)
	}
}

// Function call: ref/const args, an EXIT result, and the ref argument's
// new value written back to the caller's variable.
func TestUserFunctionCallRefAndConstArgs(t *testing.T) {
	// add_to(ref target, const amount) { target += amount; exit target if target > -1 }
	fn := &ast.Function{
		Name:        "add_to",
		RefParams:   []string{"target"},
		ConstParams: []string{"amount"},
		Block: &ast.Block{Statements: []ast.Statement{
			&ast.ModOp{Op: "+", Var: &ast.VarRef{Name: "target"}, Expr: &ast.VarRef{Name: "amount"}},
			&ast.Exit{
				Value:     &ast.VarRef{Name: "target"},
				Condition: &ast.BinOp{Op: ">", Left: &ast.VarRef{Name: "target"}, Right: numLit(-1)},
			},
		}},
	}
	funcs := testFuncs{"add_to": fn}

	call := &ast.FunctionCall{
		Name:      "add_to",
		RefArgs:   []ast.Ref{&ast.VarRef{Name: "counter"}},
		ConstArgs: []ast.Expression{numLit(3)},
	}
	mem := memory.New(map[string]value.Value{"counter": &value.Num{V: num.FromInt64(10)}}, nil)

	result, err := Expression(call, mem, funcs)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if i, ok := result.(*value.Num).V.Int64(); !ok || i != 13 {
		t.Fatalf("expected result 13, got %v", result.Inspect())
	}
	requireInt(t, mem, "counter", 13)
}

func TestListBuiltinMethodCallThroughDottedName(t *testing.T) {
	list := &value.List{}
	mem := memory.New(map[string]value.Value{"xs": list}, nil)

	call := &ast.FunctionCall{
		Name:      "xs.push",
		ConstArgs: []ast.Expression{numLit(7)},
	}
	if _, err := Expression(call, mem, testFuncs{}); err != nil {
		t.Fatalf("push: %v", err)
	}
	if list.Len() != 1 {
		t.Fatalf("expected length 1, got %d", list.Len())
	}
}

func TestArrayRefBoundsChecking(t *testing.T) {
	list := &value.List{Contents: []value.Value{&value.Num{V: num.FromInt64(1)}}}
	mem := memory.New(map[string]value.Value{"xs": list}, nil)

	ref := &ast.ArrayRef{Name: "xs", Index: numLit(5)}
	if _, err := Expression(ref, mem, testFuncs{}); err == nil {
		t.Fatalf("expected BadIndex error for out-of-bounds access")
	}
}

func TestDivisionByZeroIsFatal(t *testing.T) {
	expr := &ast.BinOp{Op: "/", Left: numLit(1), Right: numLit(0)}
	if _, err := Expression(expr, memory.New(nil, nil), testFuncs{}); err == nil {
		t.Fatalf("expected division by zero error")
	}
}

func TestVarConditionMismatchIsFatal(t *testing.T) {
	mem := memory.New(map[string]value.Value{"x": &value.Num{V: num.FromInt64(5)}}, nil)
	cond := &ast.VarCondition{Name: "x", Expr: numLit(6)}
	if _, err := Statement(cond, mem, testFuncs{}); err == nil {
		t.Fatalf("expected ConditionViolation error")
	}
}
