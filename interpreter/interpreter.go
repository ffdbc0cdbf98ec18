// Package interpreter tree-walks a resolved Lox program, evaluating it
// directly against the AST rather than compiling it to bytecode.
package interpreter

import (
	"fmt"
	"maps"
	"os"
	"time"

	"github.com/loxlang/golox/ast"
	"github.com/loxlang/golox/internal/callstack"
	"github.com/loxlang/golox/loxerror"
	"github.com/loxlang/golox/resolver"
	"github.com/loxlang/golox/token"
)

// Interpreter evaluates a sequence of resolved programs, preserving global
// state (variables, functions, classes) between calls to Interpret. This is
// what lets a REPL build on top of previous lines.
type Interpreter struct {
	globals   *environment
	distances resolver.Distances
	stack     callstack.Stack

	// printExprStmts, when set, makes Interpret print the value of every
	// top-level expression statement, as a REPL does for a bare expression.
	printExprStmts bool
}

// Option configures an Interpreter constructed by New.
type Option func(*Interpreter)

// REPLMode makes the interpreter print the result of top-level expression
// statements, as the interactive prompt does.
func REPLMode() Option {
	return func(i *Interpreter) { i.printExprStmts = true }
}

// New constructs an Interpreter with its global environment pre-populated
// with the native functions.
func New(opts ...Option) *Interpreter {
	globals := newEnvironment()
	globals.define("clock", &nativeFunction{
		name:  "clock",
		arity: 0,
		fn: func(*Interpreter, []loxObject) loxObject {
			return loxNumber(float64(time.Now().UnixNano()) / 1e9)
		},
	})

	in := &Interpreter{globals: globals}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Interpret resolves and then evaluates program against the interpreter's
// accumulated global state. A static error is returned as-is; a runtime
// error is returned as a *loxerror.RuntimeError with its call-stack trace
// filled in.
func (in *Interpreter) Interpret(program *ast.Program) (err error) {
	distances, err := resolver.Resolve(program)
	if err != nil {
		return err
	}
	if in.distances == nil {
		in.distances = resolver.Distances{}
	}
	maps.Copy(in.distances, distances)

	defer func() {
		if r := recover(); r != nil {
			rtErr, ok := r.(*loxerror.RuntimeError)
			if !ok {
				panic(r)
			}
			rtErr.Trace = in.stack.Trace()
			in.stack = callstack.Stack{}
			err = rtErr
		}
	}()

	for _, stmt := range program.Stmts {
		in.execStmt(in.globals, stmt)
	}
	return nil
}

// stmtResult is the non-local control effect of executing a statement: the
// interpreter threads it back up through enclosing blocks and if/while
// bodies until it reaches the enclosing function call (or the top level,
// where only stmtResultNone is ever produced).
type stmtResult interface {
	stmtResult()
}

type stmtResultNone struct{}

func (stmtResultNone) stmtResult() {}

type stmtResultReturn struct {
	value loxObject
}

func (stmtResultReturn) stmtResult() {}

func (in *Interpreter) execStmt(env *environment, stmt ast.Stmt) stmtResult {
	switch stmt := stmt.(type) {
	case *ast.ExpressionStmt:
		in.execExpressionStmt(env, stmt)
	case *ast.PrintStmt:
		in.execPrintStmt(env, stmt)
	case *ast.VarStmt:
		in.execVarStmt(env, stmt)
	case *ast.BlockStmt:
		return in.executeBlock(stmt.Stmts, env.child())
	case *ast.IfStmt:
		return in.execIfStmt(env, stmt)
	case *ast.WhileStmt:
		return in.execWhileStmt(env, stmt)
	case *ast.FunctionStmt:
		in.execFunctionStmt(env, stmt)
	case *ast.ReturnStmt:
		return in.execReturnStmt(env, stmt)
	case *ast.ClassStmt:
		in.execClassStmt(env, stmt)
	default:
		panic(fmt.Sprintf("interpreter: unhandled statement type %T", stmt))
	}
	return stmtResultNone{}
}

// executeBlock runs stmts in env (already a fresh child scope, or the
// function-call environment for a function body) and returns the first
// non-none result produced, short-circuiting the remaining statements.
func (in *Interpreter) executeBlock(stmts []ast.Stmt, env *environment) stmtResult {
	for _, stmt := range stmts {
		result := in.execStmt(env, stmt)
		if _, ok := result.(stmtResultNone); !ok {
			return result
		}
	}
	return stmtResultNone{}
}

func (in *Interpreter) execExpressionStmt(env *environment, stmt *ast.ExpressionStmt) {
	value := in.evalExpr(env, stmt.Expr)
	if in.printExprStmts && env == in.globals {
		fmt.Fprintln(os.Stdout, value.String())
	}
}

func (in *Interpreter) execPrintStmt(env *environment, stmt *ast.PrintStmt) {
	value := in.evalExpr(env, stmt.Expr)
	fmt.Fprintln(os.Stdout, value.String())
}

func (in *Interpreter) execVarStmt(env *environment, stmt *ast.VarStmt) {
	var value loxObject = loxNil{}
	if stmt.Initializer != nil {
		value = in.evalExpr(env, stmt.Initializer)
	}
	env.define(stmt.Name.Name(), value)
}

func (in *Interpreter) execIfStmt(env *environment, stmt *ast.IfStmt) stmtResult {
	switch {
	case isTruthy(in.evalExpr(env, stmt.Condition)):
		return in.execStmt(env, stmt.Then)
	case stmt.Else != nil:
		return in.execStmt(env, stmt.Else)
	default:
		return stmtResultNone{}
	}
}

func (in *Interpreter) execWhileStmt(env *environment, stmt *ast.WhileStmt) stmtResult {
	for isTruthy(in.evalExpr(env, stmt.Condition)) {
		result := in.execStmt(env, stmt.Body)
		if _, ok := result.(stmtResultNone); !ok {
			return result
		}
	}
	return stmtResultNone{}
}

func (in *Interpreter) execFunctionStmt(env *environment, stmt *ast.FunctionStmt) {
	env.define(stmt.Name.Name(), newLoxFunction(stmt, env, false))
}

func (in *Interpreter) execReturnStmt(env *environment, stmt *ast.ReturnStmt) stmtResult {
	var value loxObject = loxNil{}
	if stmt.Value != nil {
		value = in.evalExpr(env, stmt.Value)
	}
	return stmtResultReturn{value: value}
}

func (in *Interpreter) execClassStmt(env *environment, stmt *ast.ClassStmt) {
	var superclass *loxClass
	if stmt.Superclass != nil {
		obj := in.evalExpr(env, stmt.Superclass)
		sc, ok := obj.(*loxClass)
		if !ok {
			panic(loxerror.NewRuntime(stmt.Superclass.Name.Token.Line, "Superclass must be a class."))
		}
		superclass = sc
	}

	// The class's own name is bound (to nil) before its methods are resolved,
	// so that a method can reference the class; it's overwritten below once
	// the loxClass value exists.
	env.define(stmt.Name.Name(), loxNil{})

	methodEnv := env
	if superclass != nil {
		methodEnv = env.child()
		methodEnv.define("super", superclass)
	}

	methods := make(map[string]*loxFunction, len(stmt.Methods))
	for _, decl := range stmt.Methods {
		methods[decl.Name.Name()] = newLoxFunction(decl, methodEnv, decl.Name.Name() == "init")
	}

	class := &loxClass{name: stmt.Name.Name(), superclass: superclass, methods: methods}
	env.assign(stmt.Name.Name(), class, stmt.Name.Token.Line)
}

func (in *Interpreter) evalExpr(env *environment, expr ast.Expr) loxObject {
	switch expr := expr.(type) {
	case *ast.LiteralExpr:
		return in.evalLiteralExpr(expr)
	case *ast.GroupingExpr:
		return in.evalExpr(env, expr.Expr)
	case *ast.UnaryExpr:
		return in.evalUnaryExpr(env, expr)
	case *ast.BinaryExpr:
		return in.evalBinaryExpr(env, expr)
	case *ast.LogicalExpr:
		return in.evalLogicalExpr(env, expr)
	case *ast.VariableExpr:
		return in.lookupIdent(env, expr.Name)
	case *ast.AssignExpr:
		return in.evalAssignExpr(env, expr)
	case *ast.CallExpr:
		return in.evalCallExpr(env, expr)
	case *ast.GetExpr:
		return in.evalGetExpr(env, expr)
	case *ast.SetExpr:
		return in.evalSetExpr(env, expr)
	case *ast.ThisExpr:
		return in.lookupIdent(env, expr.Keyword)
	case *ast.SuperExpr:
		return in.evalSuperExpr(env, expr)
	default:
		panic(fmt.Sprintf("interpreter: unhandled expression type %T", expr))
	}
}

func (in *Interpreter) evalLiteralExpr(expr *ast.LiteralExpr) loxObject {
	switch v := expr.Value.Literal.(type) {
	case nil:
		switch expr.Value.Type {
		case token.True:
			return loxBool(true)
		case token.False:
			return loxBool(false)
		default:
			return loxNil{}
		}
	case float64:
		return loxNumber(v)
	case string:
		return loxString(v)
	default:
		panic(fmt.Sprintf("interpreter: unexpected literal value %#v", v))
	}
}

// lookupIdent reads ref's value, using the distance the resolver computed
// for it if one exists, or falling back to the global environment.
func (in *Interpreter) lookupIdent(env *environment, ref *ast.Ident) loxObject {
	if distance, ok := in.distances[ref]; ok {
		return env.getAt(distance, ref.Name())
	}
	return in.globals.get(ref.Name(), ref.Token.Line)
}

func (in *Interpreter) evalUnaryExpr(env *environment, expr *ast.UnaryExpr) loxObject {
	operand := in.evalExpr(env, expr.Operand)
	switch expr.Op.Type {
	case token.Bang:
		return loxBool(!isTruthy(operand))
	case token.Minus:
		n, ok := operand.(loxNumber)
		if !ok {
			panic(loxerror.NewRuntime(expr.Op.Line, "Operand must be a number."))
		}
		return -n
	default:
		panic(fmt.Sprintf("interpreter: unexpected unary operator %s", expr.Op.Type))
	}
}

func (in *Interpreter) evalLogicalExpr(env *environment, expr *ast.LogicalExpr) loxObject {
	left := in.evalExpr(env, expr.Left)
	switch expr.Op.Type {
	case token.Or:
		if isTruthy(left) {
			return left
		}
	case token.And:
		if !isTruthy(left) {
			return left
		}
	default:
		panic(fmt.Sprintf("interpreter: unexpected logical operator %s", expr.Op.Type))
	}
	return in.evalExpr(env, expr.Right)
}

func (in *Interpreter) evalBinaryExpr(env *environment, expr *ast.BinaryExpr) loxObject {
	left := in.evalExpr(env, expr.Left)
	right := in.evalExpr(env, expr.Right)

	if expr.Op.Type == token.EqualEqual {
		return loxBool(left.Equals(right))
	}
	if expr.Op.Type == token.BangEqual {
		return loxBool(!left.Equals(right))
	}

	if expr.Op.Type == token.Plus {
		if ln, ok := left.(loxNumber); ok {
			if rn, ok := right.(loxNumber); ok {
				return ln + rn
			}
		}
		if ls, ok := left.(loxString); ok {
			if rs, ok := right.(loxString); ok {
				return ls + rs
			}
		}
		panic(loxerror.NewRuntime(expr.Op.Line, "Operands must be two numbers or two strings."))
	}

	ln, lok := left.(loxNumber)
	rn, rok := right.(loxNumber)
	if !lok || !rok {
		panic(loxerror.NewRuntime(expr.Op.Line, "Operands must be numbers."))
	}
	return numberBinaryOp(expr.Op, ln, rn)
}

func numberBinaryOp(op token.Token, l, r loxNumber) loxObject {
	switch op.Type {
	case token.Minus:
		return l - r
	case token.Asterisk:
		return l * r
	case token.Slash:
		return l / r
	case token.Greater:
		return loxBool(l > r)
	case token.GreaterEqual:
		return loxBool(l >= r)
	case token.Less:
		return loxBool(l < r)
	case token.LessEqual:
		return loxBool(l <= r)
	default:
		panic(fmt.Sprintf("interpreter: unexpected binary operator %s", op.Type))
	}
}

func (in *Interpreter) evalAssignExpr(env *environment, expr *ast.AssignExpr) loxObject {
	value := in.evalExpr(env, expr.Value)
	if distance, ok := in.distances[expr.Name]; ok {
		env.assignAt(distance, expr.Name.Name(), value)
	} else {
		in.globals.assign(expr.Name.Name(), value, expr.Name.Token.Line)
	}
	return value
}

func (in *Interpreter) evalCallExpr(env *environment, expr *ast.CallExpr) loxObject {
	callee := in.evalExpr(env, expr.Callee)
	args := make([]loxObject, len(expr.Args))
	for i, arg := range expr.Args {
		args[i] = in.evalExpr(env, arg)
	}

	callable, ok := callee.(loxCallable)
	if !ok {
		panic(loxerror.NewRuntime(expr.Paren.Line, "Can only call functions and classes."))
	}
	if len(args) != callable.Arity() {
		panic(loxerror.NewRuntime(expr.Paren.Line, "Expected %d arguments but got %d.", callable.Arity(), len(args)))
	}

	name := ""
	if fn, ok := callee.(*loxFunction); ok {
		name = fn.decl.Name.Name()
	}
	// On a runtime error the frame is left in place, so that Interpret can
	// render the stack as it was when the error was raised.
	in.stack.Push(name, expr.Paren.Line)
	result := callable.Call(in, args)
	in.stack.Pop()
	return result
}

func (in *Interpreter) evalGetExpr(env *environment, expr *ast.GetExpr) loxObject {
	object := in.evalExpr(env, expr.Object)
	instance, ok := object.(*loxInstance)
	if !ok {
		panic(loxerror.NewRuntime(expr.Name.Token.Line, "Only instances have properties."))
	}
	return instance.get(expr.Name, expr.Name.Token.Line)
}

func (in *Interpreter) evalSetExpr(env *environment, expr *ast.SetExpr) loxObject {
	object := in.evalExpr(env, expr.Object)
	instance, ok := object.(*loxInstance)
	if !ok {
		panic(loxerror.NewRuntime(expr.Name.Token.Line, "Only instances have fields."))
	}
	value := in.evalExpr(env, expr.Value)
	instance.set(expr.Name, value)
	return value
}

// evalSuperExpr looks up expr.Method starting from the superclass bound at
// expr.Keyword's resolved distance, and binds it to the instance bound as
// "this" one scope closer in: the "this" scope is always opened directly
// inside the "super" scope, so its distance is always one less.
func (in *Interpreter) evalSuperExpr(env *environment, expr *ast.SuperExpr) loxObject {
	distance := in.distances[expr.Keyword]
	superclass := env.getAt(distance, "super").(*loxClass)
	instance := env.getAt(distance-1, "this").(*loxInstance)

	method, ok := superclass.method(expr.Method.Name())
	if !ok {
		panic(loxerror.NewRuntime(expr.Method.Token.Line, "Undefined property '%s'.", expr.Method.Name()))
	}
	return method.bind(instance)
}
