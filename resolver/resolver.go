// Package resolver implements a static pass that resolves each variable
// reference to the number of enclosing scopes between it and its
// declaration.
package resolver

import (
	"fmt"

	"github.com/loxlang/golox/ast"
	"github.com/loxlang/golox/loxerror"
)

// Distances maps each *ast.Ident occurrence that refers to a local variable
// (a variable, assignment target, `this`, or `super`) to the number of
// enclosing scopes between the reference and its declaring scope. An
// identifier absent from the map refers to a global, or to nothing at all.
type Distances map[*ast.Ident]int

// Resolve statically resolves every variable reference in program.
func Resolve(program *ast.Program) (Distances, error) {
	r := &resolver{
		distances: Distances{},
	}
	for _, stmt := range program.Stmts {
		r.resolveStmt(stmt)
	}
	if err := r.errs.Err(); err != nil {
		return nil, err
	}
	return r.distances, nil
}

type identStatus int

const (
	undeclared identStatus = iota
	declared
	defined
)

type scope map[string]identStatus

type funcType int

const (
	funcNone funcType = iota
	funcFunction
	funcMethod
	funcInitializer
)

type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

type resolver struct {
	scopes    []scope
	distances Distances
	errs      loxerror.Errors

	currentFunction funcType
	currentClass    classType
}

func (r *resolver) beginScope() {
	r.scopes = append(r.scopes, scope{})
}

func (r *resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *resolver) peek() scope {
	return r.scopes[len(r.scopes)-1]
}

func (r *resolver) declare(name *ast.Ident) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.peek()
	if scope[name.Name()] != undeclared {
		r.errs.AddToken(name.Token, "Already a variable with this name in this scope.")
		return
	}
	scope[name.Name()] = declared
}

func (r *resolver) define(name *ast.Ident) {
	if len(r.scopes) == 0 {
		return
	}
	r.peek()[name.Name()] = defined
}

func (r *resolver) resolveLocal(ref *ast.Ident) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][ref.Name()]; ok {
			r.distances[ref] = len(r.scopes) - 1 - i
			return
		}
	}
	// Not found in any local scope: treated as global.
}

func (r *resolver) resolveStmt(stmt ast.Stmt) {
	switch stmt := stmt.(type) {
	case *ast.ExpressionStmt:
		r.resolveExpr(stmt.Expr)
	case *ast.PrintStmt:
		r.resolveExpr(stmt.Expr)
	case *ast.VarStmt:
		r.declare(stmt.Name)
		if stmt.Initializer != nil {
			r.resolveExpr(stmt.Initializer)
		}
		r.define(stmt.Name)
	case *ast.BlockStmt:
		r.beginScope()
		for _, s := range stmt.Stmts {
			r.resolveStmt(s)
		}
		r.endScope()
	case *ast.IfStmt:
		r.resolveExpr(stmt.Condition)
		r.resolveStmt(stmt.Then)
		if stmt.Else != nil {
			r.resolveStmt(stmt.Else)
		}
	case *ast.WhileStmt:
		r.resolveExpr(stmt.Condition)
		r.resolveStmt(stmt.Body)
	case *ast.FunctionStmt:
		r.declare(stmt.Name)
		r.define(stmt.Name)
		r.resolveFunction(stmt, funcFunction)
	case *ast.ReturnStmt:
		if r.currentFunction == funcNone {
			r.errs.AddToken(stmt.Keyword, "Can't return from top-level code.")
		}
		if stmt.Value != nil {
			if r.currentFunction == funcInitializer {
				r.errs.AddToken(stmt.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(stmt.Value)
		}
	case *ast.ClassStmt:
		r.resolveClass(stmt)
	default:
		panic(fmt.Sprintf("resolver: unhandled statement type %T", stmt))
	}
}

func (r *resolver) resolveFunction(fn *ast.FunctionStmt, typ funcType) {
	enclosingFunction := r.currentFunction
	r.currentFunction = typ
	defer func() { r.currentFunction = enclosingFunction }()

	r.beginScope()
	defer r.endScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	for _, s := range fn.Body {
		r.resolveStmt(s)
	}
}

func (r *resolver) resolveClass(stmt *ast.ClassStmt) {
	enclosingClass := r.currentClass
	r.currentClass = classClass
	defer func() { r.currentClass = enclosingClass }()

	r.declare(stmt.Name)
	r.define(stmt.Name)

	if stmt.Superclass != nil {
		if stmt.Superclass.Name.Name() == stmt.Name.Name() {
			r.errs.AddToken(stmt.Superclass.Name.Token, "A class can't inherit from itself.")
		}
		r.currentClass = classSubclass
		r.resolveExpr(stmt.Superclass)

		r.beginScope()
		defer r.endScope()
		r.peek()["super"] = defined
	}

	r.beginScope()
	defer r.endScope()
	r.peek()["this"] = defined

	for _, method := range stmt.Methods {
		typ := funcMethod
		if method.Name.Name() == "init" {
			typ = funcInitializer
		}
		r.resolveFunction(method, typ)
	}
}

func (r *resolver) resolveExpr(expr ast.Expr) {
	switch expr := expr.(type) {
	case *ast.LiteralExpr:
		// Nothing to resolve.
	case *ast.GroupingExpr:
		r.resolveExpr(expr.Expr)
	case *ast.UnaryExpr:
		r.resolveExpr(expr.Operand)
	case *ast.BinaryExpr:
		r.resolveExpr(expr.Left)
		r.resolveExpr(expr.Right)
	case *ast.LogicalExpr:
		r.resolveExpr(expr.Left)
		r.resolveExpr(expr.Right)
	case *ast.VariableExpr:
		if len(r.scopes) > 0 && r.peek()[expr.Name.Name()] == declared {
			r.errs.AddToken(expr.Name.Token, "Can't read local variable in its own initialiser.")
			return
		}
		r.resolveLocal(expr.Name)
	case *ast.AssignExpr:
		r.resolveExpr(expr.Value)
		r.resolveLocal(expr.Name)
	case *ast.CallExpr:
		r.resolveExpr(expr.Callee)
		for _, arg := range expr.Args {
			r.resolveExpr(arg)
		}
	case *ast.GetExpr:
		r.resolveExpr(expr.Object)
	case *ast.SetExpr:
		r.resolveExpr(expr.Value)
		r.resolveExpr(expr.Object)
	case *ast.ThisExpr:
		if r.currentClass == classNone {
			r.errs.AddToken(expr.Keyword.Token, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(expr.Keyword)
	case *ast.SuperExpr:
		switch r.currentClass {
		case classNone:
			r.errs.AddToken(expr.Keyword.Token, "Can't use 'super' outside of a class.")
		case classClass:
			r.errs.AddToken(expr.Keyword.Token, "Can't use 'super' in a class with no superclass.")
		default:
			r.resolveLocal(expr.Keyword)
		}
	default:
		panic(fmt.Sprintf("resolver: unhandled expression type %T", expr))
	}
}
