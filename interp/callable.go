package interp

// Callable is implemented by every value that can appear as the callee of a
// Call expression: user functions and methods, classes (construction), and
// natives (spec.md §4.5 "Call").
type Callable interface {
	Arity() int
	Call(in *Interpreter, args []interface{}) interface{}
	String() string
}
