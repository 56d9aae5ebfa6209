// Package memory implements Arrow's per-scope variable bindings
// (spec.md §4.D): a mutable refs map and an immutable consts map, with
// dotted-path lookup for builtin method dispatch ("xs.push", "s.to_int").
package memory

import (
	"fmt"
	"strings"

	"arrow/pkg/value"
)

// NotFoundError reports a lookup of an unbound identifier.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s not found in memory", e.Name) }

// WriteConstError reports an attempted assignment to a const binding.
type WriteConstError struct {
	Name string
}

func (e *WriteConstError) Error() string {
	return fmt.Sprintf("cannot modify constant %s", e.Name)
}

// Memory holds one scope's variable bindings: refs are mutable, consts
// are bound once at construction and never reassigned.
type Memory struct {
	Refs   map[string]value.Value
	Consts map[string]value.Value
}

// New builds a Memory from the given bindings. Nil maps are treated as
// empty.
func New(refs, consts map[string]value.Value) *Memory {
	m := &Memory{Refs: map[string]value.Value{}, Consts: map[string]value.Value{}}
	for k, v := range refs {
		m.Refs[k] = v
	}
	for k, v := range consts {
		m.Consts[k] = v
	}
	return m
}

// Contains reports whether name (not dotted) is bound in either map.
func (m *Memory) Contains(name string) bool {
	if _, ok := m.Refs[name]; ok {
		return true
	}
	_, ok := m.Consts[name]
	return ok
}

// Lookup resolves a possibly-dotted identifier: "a.b.c" fetches a, then
// dispatches attribute b as a builtin method on the resulting value, then
// c on that result. Method access never creates intermediate entries —
// it only ever reads. Implements value.MemoryReader.
func (m *Memory) Lookup(name string) (value.Value, bool) {
	parts := strings.Split(name, ".")

	var result value.Value
	if v, ok := m.Refs[parts[0]]; ok {
		result = v
	} else if v, ok := m.Consts[parts[0]]; ok {
		result = v
	} else {
		return nil, false
	}

	for _, attr := range parts[1:] {
		host, ok := result.(value.MethodHost)
		if !ok {
			return nil, false
		}
		callable, ok := host.Method(attr)
		if !ok {
			return nil, false
		}
		result = callable
	}

	return result, true
}

// Get resolves name (possibly dotted) or reports *NotFoundError.
func (m *Memory) Get(name string) (value.Value, error) {
	v, ok := m.Lookup(name)
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return v, nil
}

// Set binds a plain (non-dotted) ref name to v, or reports
// *WriteConstError if name is a const.
func (m *Memory) Set(name string, v value.Value) error {
	if _, ok := m.Consts[name]; ok {
		return &WriteConstError{Name: name}
	}
	m.Refs[name] = v
	return nil
}

// Delete removes a ref binding. Deleting an unbound or const name is a
// no-op; callers that need to detect an unbound delete (VAR_CONDITION)
// check Contains first.
func (m *Memory) Delete(name string) {
	delete(m.Refs, name)
}

// UpdateRefs overwrites, for every key already present in m.Refs, that
// key's value with other's (spec.md §4.D). Keys only present in other
// are not introduced into m — this is how a callee's local ref bindings
// stay local while its aliased ref-parameter writes propagate back.
func (m *Memory) UpdateRefs(other *Memory) {
	for key, v := range other.Refs {
		if _, ok := m.Refs[key]; ok {
			m.Refs[key] = v
		}
	}
}

// Copy returns a shallow clone of both maps.
func (m *Memory) Copy() *Memory {
	return New(m.Refs, m.Consts)
}
