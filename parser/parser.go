// Package parser implements a recursive-descent parser for Lox source code.
package parser

import (
	"slices"

	"github.com/loxlang/golox/ast"
	"github.com/loxlang/golox/loxerror"
	"github.com/loxlang/golox/token"
)

const maxArgs = 255 // 254 allowed, 255th triggers the diagnostic

// Parse parses the token sequence produced by the scanner and returns the
// resulting program. If any syntax errors are encountered, an incomplete (but
// structurally valid) *ast.Program is still returned alongside a non-nil
// error (a loxerror.Errors).
func Parse(tokens []token.Token) (*ast.Program, error) {
	p := &parser{tokens: tokens}
	p.advance()
	stmts := p.declsUntil(token.EOF)
	return &ast.Program{Stmts: stmts}, p.errs.Err()
}

type parser struct {
	tokens []token.Token
	pos    int
	tok    token.Token // token currently being considered

	errs       loxerror.Errors
	lastErrTok token.Token
	haveLast   bool
}

// unwind is panicked to abandon the current declaration and resynchronise.
type unwind struct{}

func (p *parser) declsUntil(types ...token.Type) []ast.Stmt {
	var stmts []ast.Stmt
	for !slices.Contains(types, p.tok.Type) {
		stmts = append(stmts, p.safelyParseDecl())
	}
	return stmts
}

func (p *parser) safelyParseDecl() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(unwind); ok {
				p.sync()
				stmt = &ast.ExpressionStmt{Expr: &ast.LiteralExpr{}}
			} else {
				panic(r)
			}
		}
	}()
	return p.parseDecl()
}

// sync discards tokens until it reaches a likely statement boundary: just
// after a ';', or at the start of a new declaration/statement keyword.
func (p *parser) sync() {
	for {
		if p.tok.Type == token.Semicolon {
			p.advance()
			return
		}
		switch p.tok.Type {
		case token.Class, token.Fun, token.Var, token.For, token.If, token.While, token.Print, token.Return, token.EOF:
			return
		}
		p.advance()
	}
}

func (p *parser) parseDecl() ast.Stmt {
	switch {
	case p.match(token.Class):
		return p.parseClassDecl()
	case p.match(token.Fun):
		return p.parseFunction("function")
	case p.match(token.Var):
		return p.parseVarDecl()
	default:
		return p.parseStmt()
	}
}

func (p *parser) parseClassDecl() *ast.ClassStmt {
	name := p.expectIdent("Expect class name.")

	var superclass *ast.VariableExpr
	if p.match(token.Less) {
		superName := p.expectIdent("Expect superclass name.")
		superclass = &ast.VariableExpr{Name: superName}
	}

	p.expect(token.LeftBrace, "Expect '{' before class body.")
	var methods []*ast.FunctionStmt
	for p.tok.Type != token.RightBrace && p.tok.Type != token.EOF {
		methods = append(methods, p.parseFunction("method"))
	}
	p.expect(token.RightBrace, "Expect '}' after class body.")

	return &ast.ClassStmt{Name: name, Superclass: superclass, Methods: methods}
}

func (p *parser) parseFunction(kind string) *ast.FunctionStmt {
	name := p.expectIdent("Expect " + kind + " name.")
	p.expect(token.LeftParen, "Expect '(' after "+kind+" name.")
	var params []*ast.Ident
	if p.tok.Type != token.RightParen {
		for {
			if len(params) >= maxArgs-1 {
				p.addErrorAtCurrent("Can't have more than 254 parameters.")
			}
			params = append(params, p.expectIdent("Expect parameter name."))
			if !p.match(token.Comma) {
				break
			}
		}
	}
	p.expect(token.RightParen, "Expect ')' after parameters.")
	p.expect(token.LeftBrace, "Expect '{' before "+kind+" body.")
	body := p.block()
	return &ast.FunctionStmt{Name: name, Params: params, Body: body}
}

func (p *parser) parseVarDecl() *ast.VarStmt {
	name := p.expectIdent("Expect variable name.")
	var init ast.Expr
	if p.match(token.Equal) {
		init = p.expression()
	}
	p.expect(token.Semicolon, "Expect ';' after variable declaration.")
	return &ast.VarStmt{Name: name, Initializer: init}
}

func (p *parser) parseStmt() ast.Stmt {
	switch {
	case p.match(token.Print):
		return p.parsePrintStmt()
	case p.match(token.LeftBrace):
		return &ast.BlockStmt{Stmts: p.block()}
	case p.match(token.If):
		return p.parseIfStmt()
	case p.match(token.While):
		return p.parseWhileStmt()
	case p.match(token.For):
		return p.parseForStmt()
	case p.tok.Type == token.Return:
		return p.parseReturnStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *parser) parseExprStmt() *ast.ExpressionStmt {
	expr := p.expression()
	p.expect(token.Semicolon, "Expect ';' after expression.")
	return &ast.ExpressionStmt{Expr: expr}
}

func (p *parser) parsePrintStmt() *ast.PrintStmt {
	expr := p.expression()
	p.expect(token.Semicolon, "Expect ';' after value.")
	return &ast.PrintStmt{Expr: expr}
}

func (p *parser) block() []ast.Stmt {
	stmts := p.declsUntil(token.RightBrace, token.EOF)
	p.expect(token.RightBrace, "Expect '}' after block.")
	return stmts
}

func (p *parser) parseIfStmt() *ast.IfStmt {
	p.expect(token.LeftParen, "Expect '(' after 'if'.")
	cond := p.expression()
	p.expect(token.RightParen, "Expect ')' after if condition.")
	then := p.parseStmt()
	var elseStmt ast.Stmt
	if p.match(token.Else) {
		elseStmt = p.parseStmt()
	}
	return &ast.IfStmt{Condition: cond, Then: then, Else: elseStmt}
}

func (p *parser) parseWhileStmt() *ast.WhileStmt {
	p.expect(token.LeftParen, "Expect '(' after 'while'.")
	cond := p.expression()
	p.expect(token.RightParen, "Expect ')' after condition.")
	body := p.parseStmt()
	return &ast.WhileStmt{Condition: cond, Body: body}
}

// parseForStmt desugars `for (init; cond; update) body` into
// `{ init; while (cond) { body; update; } }`, with a missing condition
// becoming a literal true.
func (p *parser) parseForStmt() ast.Stmt {
	p.expect(token.LeftParen, "Expect '(' after 'for'.")

	var init ast.Stmt
	switch {
	case p.match(token.Semicolon):
	case p.tok.Type == token.Var:
		p.advance()
		init = p.parseVarDecl()
	default:
		init = p.parseExprStmt()
	}

	var cond ast.Expr
	if p.tok.Type != token.Semicolon {
		cond = p.expression()
	}
	p.expect(token.Semicolon, "Expect ';' after loop condition.")

	var update ast.Expr
	if p.tok.Type != token.RightParen {
		update = p.expression()
	}
	p.expect(token.RightParen, "Expect ')' after for clauses.")

	body := p.parseStmt()

	if update != nil {
		body = &ast.BlockStmt{Stmts: []ast.Stmt{body, &ast.ExpressionStmt{Expr: update}}}
	}
	if cond == nil {
		cond = &ast.LiteralExpr{Value: token.Token{Type: token.True, Lexeme: "true"}}
	}
	body = &ast.WhileStmt{Condition: cond, Body: body}

	if init != nil {
		body = &ast.BlockStmt{Stmts: []ast.Stmt{init, body}}
	}
	return body
}

func (p *parser) parseReturnStmt() *ast.ReturnStmt {
	keyword := p.tok
	p.advance()
	var value ast.Expr
	if p.tok.Type != token.Semicolon {
		value = p.expression()
	}
	p.expect(token.Semicolon, "Expect ';' after return value.")
	return &ast.ReturnStmt{Keyword: keyword, Value: value}
}

// Expression grammar, low to high precedence.

func (p *parser) expression() ast.Expr {
	return p.assignment()
}

func (p *parser) assignment() ast.Expr {
	expr := p.or()
	if p.tok.Type == token.Equal {
		equals := p.tok
		p.advance()
		value := p.assignment()
		switch target := expr.(type) {
		case *ast.VariableExpr:
			return &ast.AssignExpr{Name: target.Name, Value: value}
		case *ast.GetExpr:
			return &ast.SetExpr{Object: target.Object, Name: target.Name, Value: value}
		default:
			p.addErrorAt(equals, "Invalid assignment target.")
			return expr
		}
	}
	return expr
}

func (p *parser) or() ast.Expr {
	expr := p.and()
	for p.tok.Type == token.Or {
		op := p.tok
		p.advance()
		right := p.and()
		expr = &ast.LogicalExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) and() ast.Expr {
	expr := p.equality()
	for p.tok.Type == token.And {
		op := p.tok
		p.advance()
		right := p.equality()
		expr = &ast.LogicalExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) equality() ast.Expr {
	return p.parseBinary(p.comparison, token.EqualEqual, token.BangEqual)
}

func (p *parser) comparison() ast.Expr {
	return p.parseBinary(p.term, token.Less, token.LessEqual, token.Greater, token.GreaterEqual)
}

func (p *parser) term() ast.Expr {
	return p.parseBinary(p.factor, token.Plus, token.Minus)
}

func (p *parser) factor() ast.Expr {
	return p.parseBinary(p.unary, token.Asterisk, token.Slash)
}

// parseBinary parses a left-associative chain of operators at one precedence
// level. next parses an operand of the next-higher precedence.
func (p *parser) parseBinary(next func() ast.Expr, types ...token.Type) ast.Expr {
	expr := next()
	for slices.Contains(types, p.tok.Type) {
		op := p.tok
		p.advance()
		right := next()
		expr = &ast.BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) unary() ast.Expr {
	if p.tok.Type == token.Bang || p.tok.Type == token.Minus {
		op := p.tok
		p.advance()
		operand := p.unary()
		return &ast.UnaryExpr{Op: op, Operand: operand}
	}
	return p.call()
}

func (p *parser) call() ast.Expr {
	expr := p.primary()
	for {
		switch {
		case p.match(token.LeftParen):
			expr = p.finishCall(expr)
		case p.match(token.Dot):
			name := p.expectIdent("Expect property name after '.'.")
			expr = &ast.GetExpr{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if p.tok.Type != token.RightParen {
		for {
			if len(args) >= maxArgs-1 {
				p.addErrorAtCurrent("Can't have more than 254 arguments.")
			}
			args = append(args, p.expression())
			if !p.match(token.Comma) {
				break
			}
		}
	}
	paren := p.expect(token.RightParen, "Expect ')' after arguments.")
	return &ast.CallExpr{Callee: callee, Paren: paren, Args: args}
}

func (p *parser) primary() ast.Expr {
	tok := p.tok
	switch {
	case p.match(token.False, token.True, token.Nil, token.Number, token.String):
		return &ast.LiteralExpr{Value: tok}
	case p.match(token.Super):
		keyword := &ast.Ident{Token: tok}
		p.expect(token.Dot, "Expect '.' after 'super'.")
		method := p.expectIdent("Expect superclass method name.")
		return &ast.SuperExpr{Keyword: keyword, Method: method}
	case p.match(token.This):
		return &ast.ThisExpr{Keyword: &ast.Ident{Token: tok}}
	case p.match(token.Ident):
		return &ast.VariableExpr{Name: &ast.Ident{Token: tok}}
	case p.match(token.LeftParen):
		expr := p.expression()
		p.expect(token.RightParen, "Expect ')' after expression.")
		return &ast.GroupingExpr{Expr: expr}
	default:
		p.addErrorAtCurrent("Expect expression.")
		panic(unwind{})
	}
}

// Token-stream helpers.

func (p *parser) match(types ...token.Type) bool {
	if slices.Contains(types, p.tok.Type) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expect(t token.Type, message string) token.Token {
	if p.tok.Type == t {
		tok := p.tok
		p.advance()
		return tok
	}
	p.addErrorAtCurrent(message)
	panic(unwind{})
}

func (p *parser) expectIdent(message string) *ast.Ident {
	tok := p.expect(token.Ident, message)
	return &ast.Ident{Token: tok}
}

func (p *parser) advance() {
	p.tok = p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
}

func (p *parser) addErrorAtCurrent(message string) {
	p.addErrorAt(p.tok, message)
}

// addErrorAt records a syntax error, suppressing consecutive diagnostics
// reported against the same token (panic-mode recovery otherwise tends to
// produce a cascade of errors all pointing at one bad token).
func (p *parser) addErrorAt(tok token.Token, message string) {
	if p.haveLast && tok == p.lastErrTok {
		return
	}
	p.lastErrTok = tok
	p.haveLast = true
	p.errs.AddToken(tok, "%s", message)
}
