// Package parser implements the recursive-descent Lox parser described in
// spec.md §4.2: tokens to AST, with panic-mode error recovery.
//
// The method shapes — match/check/advance/peek, an internal sentinel thrown
// on error and caught by a synchronize loop — are adapted from the
// teacher's lang/parser/parser.go (match/check/next/backup/sync), trimmed
// of its lookahead-token-list machinery (Lox's one-token lookahead needs no
// backup/unshift) and extended from expression-only parsing to the full
// declaration/statement/expression grammar spec.md §4.2 specifies.
package parser

import (
	"github.com/lohvht/plox/ast"
	"github.com/lohvht/plox/loxerror"
	"github.com/lohvht/plox/token"
)

const maxArgs = 255

// Parser turns a token stream into a sequence of statements.
type Parser struct {
	tokens   []token.Token
	current  int
	reporter *loxerror.Reporter
}

// New builds a Parser over a complete token stream (including the trailing
// EOF token the scanner emits).
func New(tokens []token.Token, reporter *loxerror.Reporter) *Parser {
	return &Parser{tokens: tokens, reporter: reporter}
}

// parseError is the internal sentinel panicked on a syntax error; the error
// itself has already been reported to the sink by the time it is thrown.
type parseError struct{}

// Parse runs the program rule, returning every top-level statement that
// parsed successfully. Statements that fail to parse are skipped via
// synchronize and do not appear in the result; check reporter.HadError to
// tell whether the result is complete.
func (p *Parser) Parse() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.isAtEnd() {
		if stmt, ok := p.declarationRecovering(); ok {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func (p *Parser) declarationRecovering() (stmt ast.Stmt, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, isParseError := r.(parseError); !isParseError {
				panic(r)
			}
			p.synchronize()
			ok = false
		}
	}()
	return p.declaration(), true
}

func (p *Parser) declaration() ast.Stmt {
	switch {
	case p.match(token.CLASS):
		return p.classDeclaration()
	case p.match(token.FUN):
		return p.function("function")
	case p.match(token.VAR):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) classDeclaration() ast.Stmt {
	name := p.consume(token.IDENTIFIER, "Expect class name.")

	var superclass *ast.Variable
	if p.match(token.LESS) {
		superclassName := p.consume(token.IDENTIFIER, "Expect superclass name.")
		superclass = ast.NewVariable(superclassName)
	}

	p.consume(token.LEFTBRACE, "Expect '{' before class body.")
	var methods []*ast.Function
	for !p.check(token.RIGHTBRACE) && !p.isAtEnd() {
		methods = append(methods, p.function("method"))
	}
	p.consume(token.RIGHTBRACE, "Expect '}' after class body.")

	return &ast.Class{Name: name, Superclass: superclass, Methods: methods}
}

func (p *Parser) function(kind string) *ast.Function {
	name := p.consume(token.IDENTIFIER, "Expect "+kind+" name.")
	p.consume(token.LEFTPAREN, "Expect '(' after "+kind+" name.")
	var params []token.Token
	if !p.check(token.RIGHTPAREN) {
		for {
			if len(params) >= maxArgs {
				p.error(p.peek(), "Can't have more than 255 parameters.")
			}
			params = append(params, p.consume(token.IDENTIFIER, "Expect parameter name."))
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RIGHTPAREN, "Expect ')' after parameters.")
	p.consume(token.LEFTBRACE, "Expect '{' before "+kind+" body.")
	body := p.block()
	return &ast.Function{Name: name, Params: params, Body: body}
}

func (p *Parser) varDeclaration() ast.Stmt {
	name := p.consume(token.IDENTIFIER, "Expect variable name.")
	var initializer ast.Expr
	if p.match(token.EQUAL) {
		initializer = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after variable declaration.")
	return &ast.Var{Name: name, Initializer: initializer}
}

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.FOR):
		return p.forStatement()
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.RETURN):
		return p.returnStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.LEFTBRACE):
		return &ast.Block{Statements: p.block()}
	default:
		return p.expressionStatement()
	}
}

// forStatement desugars for(init; cond; incr) body into
// Block([init, While(cond-or-true, Block([body, Expression(incr)]))]),
// exactly as spec.md §4.2 "for desugaring" describes.
func (p *Parser) forStatement() ast.Stmt {
	p.consume(token.LEFTPAREN, "Expect '(' after 'for'.")

	var initializer ast.Stmt
	switch {
	case p.match(token.SEMICOLON):
		initializer = nil
	case p.match(token.VAR):
		initializer = p.varDeclaration()
	default:
		initializer = p.expressionStatement()
	}

	var condition ast.Expr
	if !p.check(token.SEMICOLON) {
		condition = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after loop condition.")

	var increment ast.Expr
	if !p.check(token.RIGHTPAREN) {
		increment = p.expression()
	}
	p.consume(token.RIGHTPAREN, "Expect ')' after for clauses.")

	body := p.statement()

	if increment != nil {
		body = &ast.Block{Statements: []ast.Stmt{body, &ast.Expression{Expr: increment}}}
	}
	if condition == nil {
		condition = ast.NewLiteral(true)
	}
	body = &ast.While{Condition: condition, Body: body}

	if initializer != nil {
		body = &ast.Block{Statements: []ast.Stmt{initializer, body}}
	}
	return body
}

func (p *Parser) ifStatement() ast.Stmt {
	p.consume(token.LEFTPAREN, "Expect '(' after 'if'.")
	condition := p.expression()
	p.consume(token.RIGHTPAREN, "Expect ')' after if condition.")

	thenBranch := p.statement()
	var elseBranch ast.Stmt
	if p.match(token.ELSE) {
		elseBranch = p.statement()
	}
	return &ast.If{Condition: condition, Then: thenBranch, Else: elseBranch}
}

func (p *Parser) printStatement() ast.Stmt {
	value := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after value.")
	return &ast.Print{Expr: value}
}

func (p *Parser) returnStatement() ast.Stmt {
	keyword := p.previous()
	var value ast.Expr
	if !p.check(token.SEMICOLON) {
		value = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after return value.")
	return &ast.Return{Keyword: keyword, Value: value}
}

func (p *Parser) whileStatement() ast.Stmt {
	p.consume(token.LEFTPAREN, "Expect '(' after 'while'.")
	condition := p.expression()
	p.consume(token.RIGHTPAREN, "Expect ')' after condition.")
	body := p.statement()
	return &ast.While{Condition: condition, Body: body}
}

func (p *Parser) block() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RIGHTBRACE) && !p.isAtEnd() {
		if stmt, ok := p.declarationRecovering(); ok {
			stmts = append(stmts, stmt)
		}
	}
	p.consume(token.RIGHTBRACE, "Expect '}' after block.")
	return stmts
}

func (p *Parser) expressionStatement() ast.Stmt {
	expr := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after expression.")
	return &ast.Expression{Expr: expr}
}

//===================================================================
// Expressions

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

// assignment parses the left side as an expression first; if it is followed
// by '=', the left side must already be a Variable (rewritten to Assign) or
// a Get (rewritten to Set). Any other target reports an error at the '='
// token but does not abort parsing (spec.md §4.2 "Assignment").
func (p *Parser) assignment() ast.Expr {
	expr := p.or()

	if p.match(token.EQUAL) {
		equals := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.Variable:
			return ast.NewAssign(target.Name, value)
		case *ast.Get:
			return ast.NewSet(target.Object, target.Name, value)
		default:
			p.error(equals, "Invalid assignment target.")
			return expr
		}
	}
	return expr
}

func (p *Parser) or() ast.Expr {
	expr := p.and()
	for p.match(token.OR) {
		op := p.previous()
		right := p.and()
		expr = ast.NewLogical(expr, op, right)
	}
	return expr
}

func (p *Parser) and() ast.Expr {
	expr := p.equality()
	for p.match(token.AND) {
		op := p.previous()
		right := p.equality()
		expr = ast.NewLogical(expr, op, right)
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.BANGEQUAL, token.EQUALEQUAL) {
		op := p.previous()
		right := p.comparison()
		expr = ast.NewBinary(expr, op, right)
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.term()
	for p.match(token.GREATER, token.GREATEREQUAL, token.LESS, token.LESSEQUAL) {
		op := p.previous()
		right := p.term()
		expr = ast.NewBinary(expr, op, right)
	}
	return expr
}

func (p *Parser) term() ast.Expr {
	expr := p.factor()
	for p.match(token.MINUS, token.PLUS) {
		op := p.previous()
		right := p.factor()
		expr = ast.NewBinary(expr, op, right)
	}
	return expr
}

func (p *Parser) factor() ast.Expr {
	expr := p.unary()
	for p.match(token.SLASH, token.STAR) {
		op := p.previous()
		right := p.unary()
		expr = ast.NewBinary(expr, op, right)
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.match(token.BANG, token.MINUS) {
		op := p.previous()
		right := p.unary()
		return ast.NewUnary(op, right)
	}
	return p.call()
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()
	for {
		switch {
		case p.match(token.LEFTPAREN):
			expr = p.finishCall(expr)
		case p.match(token.DOT):
			name := p.consume(token.IDENTIFIER, "Expect property name after '.'.")
			expr = ast.NewGet(expr, name)
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RIGHTPAREN) {
		for {
			if len(args) >= maxArgs {
				p.error(p.peek(), "Can't have more than 255 arguments.")
			}
			args = append(args, p.expression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	paren := p.consume(token.RIGHTPAREN, "Expect ')' after arguments.")
	return ast.NewCall(callee, paren, args)
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.FALSE):
		return ast.NewLiteral(false)
	case p.match(token.TRUE):
		return ast.NewLiteral(true)
	case p.match(token.NIL):
		return ast.NewLiteral(nil)
	case p.match(token.NUMBER, token.STRING):
		return ast.NewLiteral(p.previous().Literal)
	case p.match(token.SUPER):
		keyword := p.previous()
		p.consume(token.DOT, "Expect '.' after 'super'.")
		method := p.consume(token.IDENTIFIER, "Expect superclass method name.")
		return ast.NewSuper(keyword, method)
	case p.match(token.THIS):
		return ast.NewThis(p.previous())
	case p.match(token.IDENTIFIER):
		return ast.NewVariable(p.previous())
	case p.match(token.LEFTPAREN):
		expr := p.expression()
		p.consume(token.RIGHTPAREN, "Expect ')' after expression.")
		return ast.NewGrouping(expr)
	}
	panic(p.error(p.peek(), "Expect expression."))
}

//===================================================================
// Token-stream helpers

func (p *Parser) match(types ...token.Type) bool {
	for _, typ := range types {
		if p.check(typ) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(typ token.Type) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == typ
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool { return p.peek().Type == token.EOF }

func (p *Parser) peek() token.Token { return p.tokens[p.current] }

func (p *Parser) previous() token.Token { return p.tokens[p.current-1] }

// consume advances past typ, reporting message at the current token and
// throwing parseError if it does not match.
func (p *Parser) consume(typ token.Type, message string) token.Token {
	if p.check(typ) {
		return p.advance()
	}
	panic(p.error(p.peek(), message))
}

// error reports message at tok and returns the sentinel to be thrown by the
// caller. It does not itself throw, so call sites that must keep parsing
// after reporting (arity limits, invalid assignment targets) can call it
// directly without panicking.
func (p *Parser) error(tok token.Token, message string) parseError {
	p.reporter.ReportToken(tok, message)
	return parseError{}
}

// synchronize discards tokens until it passes a ';' or sees the start of a
// new statement, per spec.md §4.2 "Error recovery (panic mode)". Unlike the
// teacher's lang/parser/parser.go sync (flagged by spec.md §9 as a source
// bug: "the synchronize loop omits advance() inside its body"), this always
// advances at least once per iteration so progress is guaranteed even when
// the current token matches none of the cases below.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Type == token.SEMICOLON {
			return
		}
		switch p.peek().Type {
		case token.CLASS, token.FUN, token.VAR, token.FOR,
			token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		p.advance()
	}
}
