package interp

// Class is a runtime class value: name, optional superclass, and its own
// (non-inherited) methods (spec.md §3 "Class value"). Method lookup walks
// the superclass chain, ported from original_source/lox_class.py's
// find_method.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

func NewClass(name string, superclass *Class, methods map[string]*Function) *Class {
	return &Class{Name: name, Superclass: superclass, Methods: methods}
}

// FindMethod walks this class, then its superclass chain, returning nil if
// no class in the chain declares name.
func (c *Class) FindMethod(name string) *Function {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

// Arity is init's arity, or 0 if neither the class nor any superclass
// declares an initializer (spec.md §4.5 "Class call (construction)").
func (c *Class) Arity() int {
	init := c.FindMethod("init")
	if init == nil {
		return 0
	}
	return init.Arity()
}

// Call constructs a new instance, binding and invoking init (declared on the
// class or inherited from a superclass, if any) with the supplied arguments.
func (c *Class) Call(in *Interpreter, args []interface{}) interface{} {
	instance := NewInstance(c)
	if init := c.FindMethod("init"); init != nil {
		init.Bind(instance).Call(in, args)
	}
	return instance
}

func (c *Class) String() string { return c.Name }
