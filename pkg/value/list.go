package value

import (
	arrowerr "arrow/pkg/errors"
	"arrow/pkg/num"
)

// List is Arrow's ordered, mutable sequence, also usable as a stack
// (spec.md §3). It is a pointer type precisely so that aliases share
// mutations: spec.md §5 says "Lists are shared by reference among
// value-bindings; mutating a list through one binding is visible to
// other aliases," which falls out for free from Go pointer semantics
// once List is always held as *List.
type List struct {
	Contents []Value
}

func (l *List) Kind() Kind { return KindList }

func (l *List) Inspect() string {
	s := "["
	for i, v := range l.Contents {
		if i > 0 {
			s += ", "
		}
		s += v.Inspect()
	}
	return s + "]"
}

// Len returns the Go int length, used by ARRAY_REF bounds checking in
// pkg/eval.
func (l *List) Len() int { return len(l.Contents) }

// Get returns the element at a validated, in-bounds index.
func (l *List) Get(i int) Value { return l.Contents[i] }

// Set overwrites the element at a validated, in-bounds index.
func (l *List) Set(i int, v Value) { l.Contents[i] = v }

// Method resolves one of List's builtin dotted methods: push, pop, peek,
// empty, len (spec.md §3). push and pop are declared inverses of each
// other; peek/empty/len are pure queries and are their own inverse.
func (l *List) Method(name string) (Callable, bool) {
	switch name {
	case "push":
		return &BuiltinFunction{
			FnName:          "push",
			ConstParamNames: []string{"data"},
			Forward:         l.pushOp(),
			Inverse:         l.popOp(),
		}, true

	case "pop":
		return &BuiltinFunction{
			FnName:  "pop",
			Forward: l.popOp(),
			Inverse: l.pushOp(),
		}, true

	case "peek":
		peekOp := func(MemoryReader) (Value, error) {
			if len(l.Contents) == 0 {
				return nil, arrowerr.New(arrowerr.Evaluation, arrowerr.BadIndex,
					arrowerr.Position{}, "peek on empty list")
			}
			return l.Contents[len(l.Contents)-1], nil
		}
		return &BuiltinFunction{FnName: "peek", Forward: peekOp, Inverse: peekOp}, true

	case "empty":
		emptyOp := func(MemoryReader) (Value, error) {
			return BoolOf(len(l.Contents) == 0), nil
		}
		return &BuiltinFunction{FnName: "empty", Forward: emptyOp, Inverse: emptyOp}, true

	case "len":
		lenOp := func(MemoryReader) (Value, error) {
			return &Num{V: num.FromInt64(int64(len(l.Contents)))}, nil
		}
		return &BuiltinFunction{FnName: "len", Forward: lenOp, Inverse: lenOp}, true
	}
	return nil, false
}

func (l *List) pushOp() NativeOp {
	return func(args MemoryReader) (Value, error) {
		data, ok := args.Lookup("data")
		if !ok {
			return nil, arrowerr.New(arrowerr.Evaluation, arrowerr.ArityMismatch,
				arrowerr.Position{}, "push requires a %q argument", "data")
		}
		l.Contents = append(l.Contents, data)
		return l, nil
	}
}

func (l *List) popOp() NativeOp {
	return func(MemoryReader) (Value, error) {
		if len(l.Contents) == 0 {
			return nil, arrowerr.New(arrowerr.Evaluation, arrowerr.BadIndex,
				arrowerr.Position{}, "pop on empty list")
		}
		last := l.Contents[len(l.Contents)-1]
		l.Contents = l.Contents[:len(l.Contents)-1]
		return last, nil
	}
}
