// Package value implements Arrow's runtime value model (spec.md §3/4.B):
// tagged rational numbers, booleans, strings, lists and functions.
// Grounded on teacher's pkg/eval Object/Integer/String/Boolean/Array/
// Function types (a Kind() tag plus an Inspect() string), adapted to
// exact rationals and to the builtin-method vtable spec.md §9 calls for
// instead of teacher's free functions.
package value

import (
	"fmt"

	"arrow/pkg/num"
)

// Kind tags a Value with its runtime type.
type Kind int

const (
	KindNum Kind = iota
	KindBool
	KindString
	KindList
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindNum:
		return "Num"
	case KindBool:
		return "Bool"
	case KindString:
		return "String"
	case KindList:
		return "List"
	case KindFunction:
		return "Function"
	default:
		return "?"
	}
}

// Value is implemented by every Arrow runtime value.
type Value interface {
	Kind() Kind
	Inspect() string
}

// MemoryReader is the read side of a scope's Memory, used by builtin
// native ops to fetch named const arguments without pkg/value having to
// import pkg/memory (which itself depends on pkg/value). Satisfied
// structurally by *memory.Memory.
type MemoryReader interface {
	Lookup(name string) (Value, bool)
}

// NativeOp is a builtin method's underlying implementation: given the
// Memory prepared with its declared const arguments, produce a result or
// fail. Receiver state (e.g. a List's backing slice) is closed over by
// the op, matching the per-instance builtin-method pattern in
// original_source/datatypes.py's List.push/List.pop.
type NativeOp func(args MemoryReader) (Value, error)

// MethodHost is implemented by values exposing dotted builtin methods
// (spec.md's "xs.push", "s.to_int" dispatch).
type MethodHost interface {
	Method(name string) (Callable, bool)
}

// Num wraps an exact rational.
type Num struct {
	V num.Num
}

func (n *Num) Kind() Kind        { return KindNum }
func (n *Num) Inspect() string   { return n.V.String() }

// Bool is a single bit.
type Bool struct {
	V bool
}

func (b *Bool) Kind() Kind      { return KindBool }
func (b *Bool) Inspect() string { return fmt.Sprintf("%t", b.V) }

var (
	True  = &Bool{V: true}
	False = &Bool{V: false}
)

// BoolOf returns the shared True/False singleton for v.
func BoolOf(v bool) *Bool {
	if v {
		return True
	}
	return False
}
