package interp

import (
	"fmt"
	"io"
	"strconv"

	"github.com/lohvht/plox/ast"
	"github.com/lohvht/plox/loxerror"
	"github.com/lohvht/plox/resolver"
	"github.com/lohvht/plox/token"
)

// Interpreter evaluates a resolved AST directly, per spec.md §4.5. It
// carries the only state that survives across Interpret calls: the global
// environment and the resolution table (spec.md §2 "only the evaluator
// retains state across invocations").
//
// Runtime errors propagate as panics of *loxerror.RuntimeError, caught once
// at the top of Interpret — the same unwinding mechanism used by
// returnSignal (spec.md §7), and the idiom the teacher's own
// lang/runtime/interpreter.go uses (panic(v.errors[...]), recovered in Run).
type Interpreter struct {
	globals     *Environment
	environment *Environment
	locals      resolver.Locals
	reporter    *loxerror.Reporter
	out         io.Writer
}

// New builds an Interpreter writing Print output to out and reporting
// runtime faults through reporter.
func New(reporter *loxerror.Reporter, out io.Writer) *Interpreter {
	globals := NewEnvironment(nil)
	globals.Define("clock", clockNative())
	return &Interpreter{globals: globals, environment: globals, reporter: reporter, out: out}
}

// Interpret executes stmts after merging locals, the resolution table the
// resolver produced for this program, into the table kept from earlier
// calls. Any unhandled runtime error is reported and execution stops; a
// later Interpret call (REPL) continues against the same global environment
// and can still call functions resolved by an earlier call.
func (in *Interpreter) Interpret(stmts []ast.Stmt, locals resolver.Locals) {
	if in.locals == nil {
		in.locals = make(resolver.Locals, len(locals))
	}
	for id, depth := range locals {
		in.locals[id] = depth
	}
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(*loxerror.RuntimeError); ok {
				in.reporter.ReportRuntimeError(rerr)
				return
			}
			panic(r)
		}
	}()
	for _, stmt := range stmts {
		in.execute(stmt)
	}
}

func (in *Interpreter) execute(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Block:
		in.executeBlock(s.Statements, NewEnvironment(in.environment))
	case *ast.Class:
		in.executeClass(s)
	case *ast.Expression:
		in.evaluate(s.Expr)
	case *ast.Function:
		fn := NewFunction(s, in.environment, false)
		in.environment.Define(s.Name.Lexeme, fn)
	case *ast.If:
		switch {
		case isTruthy(in.evaluate(s.Condition)):
			in.execute(s.Then)
		case s.Else != nil:
			in.execute(s.Else)
		}
	case *ast.Print:
		value := in.evaluate(s.Expr)
		fmt.Fprintln(in.out, stringify(value))
	case *ast.Return:
		var value interface{}
		if s.Value != nil {
			value = in.evaluate(s.Value)
		}
		panic(returnSignal{value: value})
	case *ast.Var:
		var value interface{}
		if s.Initializer != nil {
			value = in.evaluate(s.Initializer)
		}
		in.environment.Define(s.Name.Lexeme, value)
	case *ast.While:
		for isTruthy(in.evaluate(s.Condition)) {
			in.execute(s.Body)
		}
	default:
		panic(fmt.Sprintf("interp: unhandled statement type %T", stmt))
	}
}

// executeBlock runs stmts in env, restoring the previous environment
// afterward even if a panic (runtime error or Return) unwinds through it.
// Function.Call reuses this for call bodies, not just Block statements.
func (in *Interpreter) executeBlock(stmts []ast.Stmt, env *Environment) {
	previous := in.environment
	in.environment = env
	defer func() { in.environment = previous }()
	for _, stmt := range stmts {
		in.execute(stmt)
	}
}

// executeClass implements spec.md §4.5's construction-time class setup:
// evaluate the superclass (if any) before the class's own name is visible,
// bind `super` in an intermediate scope the methods close over, then
// restore the enclosing environment before making the class itself visible.
func (in *Interpreter) executeClass(s *ast.Class) {
	var superclass *Class
	if s.Superclass != nil {
		superVal := in.evaluate(s.Superclass)
		sc, ok := superVal.(*Class)
		if !ok {
			panic(loxerror.NewRuntimeError(s.Superclass.Name, "Superclass must be a class."))
		}
		superclass = sc
	}

	in.environment.Define(s.Name.Lexeme, nil)

	if s.Superclass != nil {
		in.environment = NewEnvironment(in.environment)
		in.environment.Define("super", superclass)
	}

	methods := make(map[string]*Function, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = NewFunction(m, in.environment, m.Name.Lexeme == "init")
	}
	class := NewClass(s.Name.Lexeme, superclass, methods)

	if s.Superclass != nil {
		in.environment = in.environment.enclosing
	}

	if err := in.environment.Assign(s.Name, class); err != nil {
		panic(err)
	}
}

func (in *Interpreter) evaluate(expr ast.Expr) interface{} {
	switch e := expr.(type) {
	case *ast.Assign:
		value := in.evaluate(e.Value)
		if depth, ok := in.locals[e.ExprID()]; ok {
			in.environment.AssignAt(depth, e.Name.Lexeme, value)
		} else if err := in.globals.Assign(e.Name, value); err != nil {
			panic(err)
		}
		return value
	case *ast.Binary:
		return in.evalBinary(e)
	case *ast.Call:
		return in.evalCall(e)
	case *ast.Get:
		obj := in.evaluate(e.Object)
		instance, ok := obj.(*Instance)
		if !ok {
			panic(loxerror.NewRuntimeError(e.Name, "Only instances have properties."))
		}
		return instance.Get(e.Name)
	case *ast.Grouping:
		return in.evaluate(e.Inner)
	case *ast.Literal:
		return e.Value
	case *ast.Logical:
		left := in.evaluate(e.Left)
		if e.Op.Type == token.OR {
			if isTruthy(left) {
				return left
			}
		} else if !isTruthy(left) {
			return left
		}
		return in.evaluate(e.Right)
	case *ast.Set:
		obj := in.evaluate(e.Object)
		instance, ok := obj.(*Instance)
		if !ok {
			panic(loxerror.NewRuntimeError(e.Name, "Only instances have fields."))
		}
		value := in.evaluate(e.Value)
		instance.Set(e.Name, value)
		return value
	case *ast.Super:
		return in.evalSuper(e)
	case *ast.This:
		return in.lookupVariable(e.Keyword, e)
	case *ast.Unary:
		return in.evalUnary(e)
	case *ast.Variable:
		return in.lookupVariable(e.Name, e)
	default:
		panic(fmt.Sprintf("interp: unhandled expression type %T", expr))
	}
}

func (in *Interpreter) evalBinary(e *ast.Binary) interface{} {
	left := in.evaluate(e.Left)
	right := in.evaluate(e.Right)

	switch e.Op.Type {
	case token.GREATER:
		l, r := in.checkNumberOperands(e.Op, left, right)
		return l > r
	case token.GREATEREQUAL:
		l, r := in.checkNumberOperands(e.Op, left, right)
		return l >= r
	case token.LESS:
		l, r := in.checkNumberOperands(e.Op, left, right)
		return l < r
	case token.LESSEQUAL:
		l, r := in.checkNumberOperands(e.Op, left, right)
		return l <= r
	case token.MINUS:
		l, r := in.checkNumberOperands(e.Op, left, right)
		return l - r
	case token.SLASH:
		l, r := in.checkNumberOperands(e.Op, left, right)
		return l / r
	case token.STAR:
		l, r := in.checkNumberOperands(e.Op, left, right)
		return l * r
	case token.PLUS:
		if lf, ok := left.(float64); ok {
			if rf, ok := right.(float64); ok {
				return lf + rf
			}
		}
		if ls, ok := left.(string); ok {
			if rs, ok := right.(string); ok {
				return ls + rs
			}
		}
		panic(loxerror.NewRuntimeError(e.Op, "Operands must be two numbers or two strings."))
	case token.BANGEQUAL:
		return !isEqual(left, right)
	case token.EQUALEQUAL:
		return isEqual(left, right)
	}
	panic(fmt.Sprintf("interp: unhandled binary operator %s", e.Op.Type))
}

func (in *Interpreter) evalUnary(e *ast.Unary) interface{} {
	right := in.evaluate(e.Right)
	switch e.Op.Type {
	case token.MINUS:
		return -in.checkNumberOperand(e.Op, right)
	case token.BANG:
		return !isTruthy(right)
	}
	panic(fmt.Sprintf("interp: unhandled unary operator %s", e.Op.Type))
}

func (in *Interpreter) evalCall(e *ast.Call) interface{} {
	callee := in.evaluate(e.Callee)

	args := make([]interface{}, len(e.Args))
	for i, arg := range e.Args {
		args[i] = in.evaluate(arg)
	}

	callable, ok := callee.(Callable)
	if !ok {
		panic(loxerror.NewRuntimeError(e.ClosingParen, "Can only call functions and classes."))
	}
	if len(args) != callable.Arity() {
		panic(loxerror.NewRuntimeError(e.ClosingParen, "Expected %d arguments but got %d.", callable.Arity(), len(args)))
	}
	return callable.Call(in, args)
}

func (in *Interpreter) evalSuper(e *ast.Super) interface{} {
	distance := in.locals[e.ExprID()]
	superclass := in.environment.GetAt(distance, "super").(*Class)
	instance := in.environment.GetAt(distance-1, "this").(*Instance)

	method := superclass.FindMethod(e.Method.Lexeme)
	if method == nil {
		panic(loxerror.NewRuntimeError(e.Method, "Undefined property '%s'.", e.Method.Lexeme))
	}
	return method.Bind(instance)
}

// lookupVariable consults the resolution table first; an unresolved
// reference falls back to the global environment (spec.md §4.5
// "Variable / Assign").
func (in *Interpreter) lookupVariable(name token.Token, expr ast.Expr) interface{} {
	if depth, ok := in.locals[expr.ExprID()]; ok {
		return in.environment.GetAt(depth, name.Lexeme)
	}
	v, err := in.globals.Get(name)
	if err != nil {
		panic(err)
	}
	return v
}

func (in *Interpreter) checkNumberOperand(op token.Token, operand interface{}) float64 {
	if f, ok := operand.(float64); ok {
		return f
	}
	panic(loxerror.NewRuntimeError(op, "Operand must be a number."))
}

func (in *Interpreter) checkNumberOperands(op token.Token, left, right interface{}) (float64, float64) {
	lf, lok := left.(float64)
	rf, rok := right.(float64)
	if lok && rok {
		return lf, rf
	}
	panic(loxerror.NewRuntimeError(op, "Operands must be numbers."))
}

// isTruthy: nil and false are falsey; everything else, including 0 and "",
// is truthy (spec.md §4.5 "Truthiness").
func isTruthy(v interface{}) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

// isEqual implements spec.md §4.5's corrected null-equality rule: nil only
// equals nil, never any other value. original_source/interpreter.py's
// is_equal had this inverted ("if a is None or b is None: return True"),
// flagged as a bug to fix in spec.md §9. Comparing through interface{}
// gives numbers/strings/booleans value equality and
// callables/classes/instances pointer identity, exactly as spec.md
// requires, with no type switch needed.
func isEqual(a, b interface{}) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a == b
}

// stringify implements spec.md §4.5 "Print". strconv.FormatFloat with
// prec=-1 already yields the shortest round-tripping decimal with no
// trailing ".0" for whole numbers, so unlike
// original_source/interpreter.py's str(), no separate trim step is needed.
func stringify(v interface{}) string {
	if v == nil {
		return "nil"
	}
	switch val := v.(type) {
	case bool:
		if val {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return val
	case *Instance:
		return val.String()
	case Callable:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
