// Package resolver performs the static lexical-scope analysis described in
// spec.md §4.3: a single pre-order walk over the AST that both enforces
// contextual rules (no top-level return, no this/super misuse, no
// self-inheritance, no redeclaration, no use-before-define) and builds the
// side-table the evaluator consults at reference time.
//
// The scope-stack shape (declare inserts false, define flips it to true,
// resolveLocal walks scopes innermost-out) and the current_function/
// current_class state machines are ported directly from the teacher's
// original_source/resolver.py, generalised from its Visitor double-dispatch
// into a type switch over the ast package's tagged variants (spec.md §9).
package resolver

import (
	"github.com/lohvht/plox/ast"
	"github.com/lohvht/plox/loxerror"
	"github.com/lohvht/plox/token"
)

type functionType int

const (
	fnNone functionType = iota
	fnFunction
	fnInitializer
	fnMethod
)

type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

// Locals maps an expression node's identity to the number of enclosing
// environment frames to skip at evaluation time. Absence of a key means the
// reference is global (spec.md §3 "Resolution table").
type Locals map[ast.ID]int

// Resolver walks a parsed program once, producing Locals. Use New per
// program; a Resolver is not meant to be reused across runs since its scope
// stack and current_function/current_class state do not reset themselves.
type Resolver struct {
	reporter *loxerror.Reporter
	scopes   []map[string]bool
	locals   Locals

	currentFunction functionType
	currentClass    classType
}

func New(reporter *loxerror.Reporter) *Resolver {
	return &Resolver{reporter: reporter, locals: make(Locals)}
}

// Resolve resolves every top-level statement and returns the accumulated
// side-table. All resolver-detected errors are reported via the sink and do
// not stop the walk (spec.md §4.3 "resolution continues").
func (r *Resolver) Resolve(stmts []ast.Stmt) Locals {
	r.resolveStmts(stmts)
	return r.locals
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		r.resolveStmt(stmt)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(s.Statements)
		r.endScope()
	case *ast.Class:
		r.resolveClass(s)
	case *ast.Expression:
		r.resolveExpr(s.Expr)
	case *ast.Function:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, fnFunction)
	case *ast.If:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}
	case *ast.Print:
		r.resolveExpr(s.Expr)
	case *ast.Return:
		if r.currentFunction == fnNone {
			r.reporter.ReportToken(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.currentFunction == fnInitializer {
				r.reporter.ReportToken(s.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}
	case *ast.Var:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)
	case *ast.While:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Body)
	default:
		panic("resolver: unhandled statement type")
	}
}

func (r *Resolver) resolveClass(s *ast.Class) {
	enclosingClass := r.currentClass
	r.currentClass = classClass

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil && s.Superclass.Name.Lexeme == s.Name.Lexeme {
		r.reporter.ReportToken(s.Superclass.Name, "A class can't inherit from itself.")
	}

	if s.Superclass != nil {
		r.currentClass = classSubclass
		r.resolveExpr(s.Superclass)
	}

	if s.Superclass != nil {
		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, method := range s.Methods {
		declaration := fnMethod
		if method.Name.Lexeme == "init" {
			declaration = fnInitializer
		}
		r.resolveFunction(method, declaration)
	}

	r.endScope()
	if s.Superclass != nil {
		r.endScope()
	}

	r.currentClass = enclosingClass
}

func (r *Resolver) resolveFunction(fn *ast.Function, typ functionType) {
	enclosingFunction := r.currentFunction
	r.currentFunction = typ

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()

	r.currentFunction = enclosingFunction
}

func (r *Resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)
	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Args {
			r.resolveExpr(arg)
		}
	case *ast.Get:
		r.resolveExpr(e.Object)
	case *ast.Grouping:
		r.resolveExpr(e.Inner)
	case *ast.Literal:
		// no subexpressions, no reference to resolve
	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)
	case *ast.Super:
		if r.currentClass == classNone {
			r.reporter.ReportToken(e.Keyword, "Can't use 'super' outside of a class.")
		} else if r.currentClass != classSubclass {
			r.reporter.ReportToken(e.Keyword, "Can't use 'super' in a class with no superclass.")
		}
		r.resolveLocal(e, e.Keyword)
	case *ast.This:
		if r.currentClass == classNone {
			r.reporter.ReportToken(e.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e, e.Keyword)
	case *ast.Unary:
		r.resolveExpr(e.Right)
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, declared := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; declared && !defined {
				r.reporter.ReportToken(e.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name)
	default:
		panic("resolver: unhandled expression type")
	}
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, exists := scope[name.Lexeme]; exists {
		r.reporter.ReportToken(name, "Already a variable with this name in the scope")
	}
	scope[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

func (r *Resolver) resolveLocal(expr ast.Expr, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.locals[expr.ExprID()] = len(r.scopes) - 1 - i
			return
		}
	}
}
