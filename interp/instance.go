package interp

import (
	"github.com/lohvht/plox/loxerror"
	"github.com/lohvht/plox/token"
)

// Instance is a runtime class instance: its class plus its own field
// bindings (spec.md §3 "Instance"). Field access precedes method lookup,
// ported from original_source/lox_instance.py (get/set) — corrected there to
// report the offending name token rather than the instance's own
// (nonexistent) name attribute.
type Instance struct {
	class  *Class
	fields map[string]interface{}
}

func NewInstance(class *Class) *Instance {
	return &Instance{class: class, fields: make(map[string]interface{})}
}

// Get returns the field named by name if the instance has one set, else the
// method of that name bound to this instance, else a RuntimeError.
func (i *Instance) Get(name token.Token) interface{} {
	if v, ok := i.fields[name.Lexeme]; ok {
		return v
	}
	if method := i.class.FindMethod(name.Lexeme); method != nil {
		return method.Bind(i)
	}
	panic(loxerror.NewRuntimeError(name, "Undefined property '%s'.", name.Lexeme))
}

// Set stores value into field name, creating it if absent.
func (i *Instance) Set(name token.Token, value interface{}) {
	i.fields[name.Lexeme] = value
}

func (i *Instance) String() string { return i.class.Name + " instance" }
