package interp

import "time"

// native wraps a host-implemented Callable. clock is the only one spec.md
// names (§4.5 "Native clock"); the type stays general so the driver or a
// future standard library addition can register more without a new Go
// type per builtin.
type native struct {
	name  string
	arity int
	fn    func(in *Interpreter, args []interface{}) interface{}
}

func (n *native) Arity() int { return n.arity }

func (n *native) Call(in *Interpreter, args []interface{}) interface{} { return n.fn(in, args) }

func (n *native) String() string { return "<native fn>" }

// clockNative returns the wall-clock time in seconds, as a number, matching
// spec.md §4.5: "arity 0, bound directly in the interpreter's constructor"
// (original_source/lox_function.py's sibling natives are always bound
// eagerly rather than looked up lazily by name).
func clockNative() Callable {
	return &native{
		name:  "clock",
		arity: 0,
		fn: func(_ *Interpreter, _ []interface{}) interface{} {
			return float64(time.Now().UnixNano()) / float64(time.Second)
		},
	}
}
