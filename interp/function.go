package interp

import "github.com/lohvht/plox/ast"

// returnSignal unwinds to the nearest Function.Call boundary carrying the
// returned value. It is panicked by the interpreter's Return-statement case
// and recovered here — a control-flow signal, never a user-visible error
// (spec.md §7 "Return ... is a control-flow signal, not a fault"), which is
// why it is its own type rather than a *loxerror.RuntimeError: Call's
// recover must tell the two apart and let a genuine RuntimeError keep
// unwinding past it.
type returnSignal struct {
	value interface{}
}

// Function is a user-defined function or method value: the declaring AST
// node, the environment it closed over, and whether it is a class
// initializer (spec.md §3 "Function value"). The triple and the call/bind
// semantics are ported from original_source/lox_function.py.
type Function struct {
	declaration   *ast.Function
	closure       *Environment
	isInitializer bool
}

func NewFunction(declaration *ast.Function, closure *Environment, isInitializer bool) *Function {
	return &Function{declaration: declaration, closure: closure, isInitializer: isInitializer}
}

// Bind produces the method value accessed through an instance: a fresh
// function sharing this one's declaration but closed over a new environment
// that adds `this → instance` on top of the original closure (spec.md §4.5
// "Method binding").
func (f *Function) Bind(instance *Instance) *Function {
	env := NewEnvironment(f.closure)
	env.Define("this", instance)
	return NewFunction(f.declaration, env, f.isInitializer)
}

func (f *Function) Arity() int { return len(f.declaration.Params) }

func (f *Function) String() string { return "<fn " + f.declaration.Name.Lexeme + ">" }

// Call creates a new environment parented on the closure, binds parameters,
// and executes the body in it. A Return statement inside the body unwinds
// here via returnSignal; falling off the end of the body returns nil,
// except for initializers, which always yield `this` regardless of whether
// a bare `return;` ran (spec.md §4.5 "Function call").
func (f *Function) Call(in *Interpreter, args []interface{}) (result interface{}) {
	env := NewEnvironment(f.closure)
	for i, param := range f.declaration.Params {
		env.Define(param.Lexeme, args[i])
	}

	defer func() {
		if r := recover(); r != nil {
			ret, ok := r.(returnSignal)
			if !ok {
				panic(r)
			}
			if f.isInitializer {
				result = f.closure.GetAt(0, "this")
				return
			}
			result = ret.value
		}
	}()

	in.executeBlock(f.declaration.Body, env)

	if f.isInitializer {
		return f.closure.GetAt(0, "this")
	}
	return nil
}
