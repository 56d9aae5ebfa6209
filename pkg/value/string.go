package value

import (
	"strconv"
	"strings"

	arrowerr "arrow/pkg/errors"
	"arrow/pkg/num"
)

// String is Arrow's immutable character sequence. Builtin methods that
// appear to mutate (left_add, left_del) instead return a new String, the
// way Num's arithmetic methods do, since spec.md §3 declares Strings
// immutable.
type String struct {
	V string
}

func (s *String) Kind() Kind      { return KindString }
func (s *String) Inspect() string { return s.V }

// stringArg fetches a required String const argument by name.
func stringArg(args MemoryReader, name string) (*String, error) {
	v, ok := args.Lookup(name)
	if !ok {
		return nil, arrowerr.New(arrowerr.Evaluation, arrowerr.ArityMismatch,
			arrowerr.Position{}, "missing argument %q", name)
	}
	s, ok := v.(*String)
	if !ok {
		return nil, arrowerr.New(arrowerr.Evaluation, arrowerr.ArityMismatch,
			arrowerr.Position{}, "argument %q must be a String, got %s", name, v.Kind())
	}
	return s, nil
}

func numArg(args MemoryReader, name string) (num.Num, error) {
	v, ok := args.Lookup(name)
	if !ok {
		return num.Num{}, arrowerr.New(arrowerr.Evaluation, arrowerr.ArityMismatch,
			arrowerr.Position{}, "missing argument %q", name)
	}
	n, ok := v.(*Num)
	if !ok {
		return num.Num{}, arrowerr.New(arrowerr.Evaluation, arrowerr.ArityMismatch,
			arrowerr.Position{}, "argument %q must be a Num, got %s", name, v.Kind())
	}
	return n.V, nil
}

// Method resolves one of String's builtin dotted methods: len, get,
// left_add, left_del, to_int (spec.md §3). left_add and left_del are
// declared inverses of each other.
func (s *String) Method(name string) (Callable, bool) {
	switch name {
	case "len":
		lenOp := func(MemoryReader) (Value, error) {
			return &Num{V: num.FromInt64(int64(len(s.V)))}, nil
		}
		return &BuiltinFunction{FnName: "len", Forward: lenOp, Inverse: lenOp}, true

	case "get":
		getOp := func(args MemoryReader) (Value, error) {
			idx, err := numArg(args, "index")
			if err != nil {
				return nil, err
			}
			i, ok := idx.Int64()
			if !ok || i < 0 || int(i) >= len(s.V) {
				return nil, arrowerr.New(arrowerr.Evaluation, arrowerr.BadIndex,
					arrowerr.Position{}, "string index %s out of bounds", idx)
			}
			return &String{V: string(s.V[i])}, nil
		}
		return &BuiltinFunction{
			FnName:          "get",
			ConstParamNames: []string{"index"},
			Forward:         getOp,
			Inverse:         getOp,
		}, true

	case "to_int":
		toIntOp := func(MemoryReader) (Value, error) {
			n, err := strconv.ParseInt(strings.TrimSpace(s.V), 10, 64)
			if err != nil {
				return nil, arrowerr.New(arrowerr.Evaluation, arrowerr.ArityMismatch,
					arrowerr.Position{}, "%q is not an integer", s.V)
			}
			return &Num{V: num.FromInt64(n)}, nil
		}
		return &BuiltinFunction{FnName: "to_int", Forward: toIntOp, Inverse: toIntOp}, true

	case "left_add":
		leftDel := s.leftDelOp()
		return &BuiltinFunction{
			FnName:          "left_add",
			ConstParamNames: []string{"other"},
			Forward:         s.leftAddOp(),
			Inverse:         leftDel,
		}, true

	case "left_del":
		leftAdd := s.leftAddOp()
		return &BuiltinFunction{
			FnName:          "left_del",
			ConstParamNames: []string{"other"},
			Forward:         s.leftDelOp(),
			Inverse:         leftAdd,
		}, true
	}
	return nil, false
}

func (s *String) leftAddOp() NativeOp {
	return func(args MemoryReader) (Value, error) {
		other, err := stringArg(args, "other")
		if err != nil {
			return nil, err
		}
		return &String{V: other.V + s.V}, nil
	}
}

func (s *String) leftDelOp() NativeOp {
	return func(args MemoryReader) (Value, error) {
		other, err := stringArg(args, "other")
		if err != nil {
			return nil, err
		}
		if !strings.HasPrefix(s.V, other.V) {
			return nil, arrowerr.New(arrowerr.Evaluation, arrowerr.ConditionViolation,
				arrowerr.Position{}, "%q is not a prefix of %q", other.V, s.V)
		}
		return &String{V: strings.TrimPrefix(s.V, other.V)}, nil
	}
}
