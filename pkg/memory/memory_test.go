package memory

import (
	"testing"

	"arrow/pkg/num"
	"arrow/pkg/value"
)

func TestGetSetPlainRef(t *testing.T) {
	m := New(map[string]value.Value{"x": &value.Num{V: num.FromInt64(1)}}, nil)

	if !m.Contains("x") {
		t.Fatalf("expected x to be bound")
	}
	if err := m.Set("x", &value.Num{V: num.FromInt64(2)}); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, err := m.Get("x")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if v := got.(*value.Num).V; !v.Equal(num.FromInt64(2)) {
		t.Fatalf("got %s, want 2", v)
	}
}

func TestGetUnboundFails(t *testing.T) {
	m := New(nil, nil)
	if _, err := m.Get("missing"); err == nil {
		t.Fatalf("expected NotFoundError")
	} else if _, ok := err.(*NotFoundError); !ok {
		t.Fatalf("expected *NotFoundError, got %T", err)
	}
}

func TestSetConstFails(t *testing.T) {
	m := New(nil, map[string]value.Value{"pi": &value.Num{V: num.FromInt64(3)}})
	err := m.Set("pi", &value.Num{V: num.FromInt64(4)})
	if _, ok := err.(*WriteConstError); !ok {
		t.Fatalf("expected *WriteConstError, got %v", err)
	}
}

func TestDottedLookupMethodDispatch(t *testing.T) {
	xs := &value.List{}
	m := New(map[string]value.Value{"xs": xs}, nil)

	push, err := m.Get("xs.push")
	if err != nil {
		t.Fatalf("dotted lookup failed: %v", err)
	}
	bf, ok := push.(*value.BuiltinFunction)
	if !ok {
		t.Fatalf("expected *value.BuiltinFunction, got %T", push)
	}
	if bf.Name() != "push" {
		t.Fatalf("expected push, got %s", bf.Name())
	}
}

func TestDottedLookupUnknownMethodFails(t *testing.T) {
	xs := &value.List{}
	m := New(map[string]value.Value{"xs": xs}, nil)
	if _, err := m.Get("xs.frobnicate"); err == nil {
		t.Fatalf("expected NotFoundError for unknown method")
	}
}

func TestUpdateRefsOnlyOverwritesExistingKeys(t *testing.T) {
	caller := New(map[string]value.Value{"a": &value.Num{V: num.FromInt64(1)}}, nil)
	callee := New(map[string]value.Value{
		"a":     &value.Num{V: num.FromInt64(99)},
		"local": &value.Num{V: num.FromInt64(5)},
	}, nil)

	caller.UpdateRefs(callee)

	got, _ := caller.Get("a")
	if v := got.(*value.Num).V; !v.Equal(num.FromInt64(99)) {
		t.Fatalf("expected a updated to 99, got %s", v)
	}
	if caller.Contains("local") {
		t.Fatalf("callee-local binding must not leak into caller")
	}
}

func TestCopyIsIndependent(t *testing.T) {
	m := New(map[string]value.Value{"x": &value.Num{V: num.FromInt64(1)}}, nil)
	c := m.Copy()
	c.Set("x", &value.Num{V: num.FromInt64(2)})

	got, _ := m.Get("x")
	if v := got.(*value.Num).V; !v.Equal(num.FromInt64(1)) {
		t.Fatalf("mutating the copy must not affect the original, got %s", v)
	}
}
