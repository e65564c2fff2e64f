// Package interp is the evaluator half of the pipeline: environment chains,
// closures, method binding, and the tree-walking interpreter itself
// (spec.md §4.4, §4.5). The Environment shape — a values map plus an
// enclosing pointer, get/assign recursing outward, get_at/assign_at walking
// exactly `distance` links via an ancestor helper — is ported from
// original_source/environment.py, extended with the get_at/assign_at pair
// the resolver's depth annotations require (spec.md §4.4) but which that
// early snapshot had not yet grown.
package interp

import (
	"github.com/lohvht/plox/loxerror"
	"github.com/lohvht/plox/token"
)

// Environment is a single lexical scope: an identifier-to-value map chained
// to an enclosing scope. The chain's topology mirrors lexical nesting,
// augmented at runtime by call and block entry (spec.md §3 "Environment").
type Environment struct {
	enclosing *Environment
	values    map[string]interface{}
}

// NewEnvironment builds a scope whose parent is enclosing (nil for the
// global scope).
func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{enclosing: enclosing, values: make(map[string]interface{})}
}

// Define unconditionally inserts into this frame, shadowing any binding of
// the same name in an enclosing frame.
func (e *Environment) Define(name string, value interface{}) {
	e.values[name] = value
}

// Get returns the binding for name, searching outward through enclosing
// scopes, or a RuntimeError if it is bound nowhere.
func (e *Environment) Get(name token.Token) (interface{}, error) {
	if v, ok := e.values[name.Lexeme]; ok {
		return v, nil
	}
	if e.enclosing != nil {
		return e.enclosing.Get(name)
	}
	return nil, loxerror.NewRuntimeError(name, "Undefined variable '%s'.", name.Lexeme)
}

// Assign updates an existing binding for name, searching outward, or
// returns a RuntimeError if no such binding exists anywhere in the chain.
func (e *Environment) Assign(name token.Token, value interface{}) error {
	if _, ok := e.values[name.Lexeme]; ok {
		e.values[name.Lexeme] = value
		return nil
	}
	if e.enclosing != nil {
		return e.enclosing.Assign(name, value)
	}
	return loxerror.NewRuntimeError(name, "Undefined variable '%s'.", name.Lexeme)
}

// ancestor walks exactly distance enclosing links. Callers must only pass a
// distance the resolver actually recorded; spec.md §8's invariant guarantees
// that many frames exist and that the binding is present at the end of the
// walk.
func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.enclosing
	}
	return env
}

// GetAt reads name directly from the frame distance hops out.
func (e *Environment) GetAt(distance int, name string) interface{} {
	return e.ancestor(distance).values[name]
}

// AssignAt writes name directly into the frame distance hops out.
func (e *Environment) AssignAt(distance int, name string, value interface{}) {
	e.ancestor(distance).values[name] = value
}
