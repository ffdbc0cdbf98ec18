// Package ast declares the types which make up the abstract syntax tree of a
// Lox program.
package ast

import "github.com/loxlang/golox/token"

// Node is implemented by every expression and statement node in the tree.
type Node interface {
	node()
}

//sumtype:decl
// Expr is implemented by every expression node.
type Expr interface {
	Node
	expr()
}

//sumtype:decl
// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmt()
}

// Program is the root node produced by the parser: an ordered list of
// top-level statements.
type Program struct {
	Stmts []Stmt `print:"unnamed"`
}

func (*Program) node() {}

// Ident is an identifier occurrence: a variable reference, a declared name, or
// a property name. Its pointer identity is used by the resolver to key the
// scope-distance map, so each occurrence in the parsed tree must be a
// distinct *Ident even when the spelling repeats.
type Ident struct {
	Token token.Token `print:"unnamed"`
}

func (*Ident) node() {}

// Name returns the identifier's spelling.
func (i *Ident) Name() string {
	return i.Token.Lexeme
}

// Expressions.

// LiteralExpr is a number, string, boolean, or nil literal.
type LiteralExpr struct {
	Value token.Token `print:"unnamed"` // Value.Literal holds a float64 or string; it is nil for true, false and nil, which Value.Type tells apart
}

func (*LiteralExpr) node() {}
func (*LiteralExpr) expr() {}

// GroupingExpr is a parenthesised expression.
type GroupingExpr struct {
	Expr Expr `print:"unnamed"`
}

func (*GroupingExpr) node() {}
func (*GroupingExpr) expr() {}

// UnaryExpr is a prefix operator applied to a single operand: `-x` or `!x`.
type UnaryExpr struct {
	Op      token.Token `print:"named"`
	Operand Expr        `print:"named"`
}

func (*UnaryExpr) node() {}
func (*UnaryExpr) expr() {}

// BinaryExpr is an infix arithmetic, comparison, or equality operator.
type BinaryExpr struct {
	Left  Expr        `print:"named"`
	Op    token.Token `print:"named"`
	Right Expr        `print:"named"`
}

func (*BinaryExpr) node() {}
func (*BinaryExpr) expr() {}

// LogicalExpr is `and`/`or`, which short-circuit and so are evaluated
// separately from BinaryExpr.
type LogicalExpr struct {
	Left  Expr        `print:"named"`
	Op    token.Token `print:"named"`
	Right Expr        `print:"named"`
}

func (*LogicalExpr) node() {}
func (*LogicalExpr) expr() {}

// VariableExpr reads the value of a variable.
type VariableExpr struct {
	Name *Ident `print:"unnamed"`
}

func (*VariableExpr) node() {}
func (*VariableExpr) expr() {}

// AssignExpr assigns a new value to an existing variable and evaluates to
// that value.
type AssignExpr struct {
	Name  *Ident `print:"named"`
	Value Expr   `print:"named"`
}

func (*AssignExpr) node() {}
func (*AssignExpr) expr() {}

// CallExpr applies a callable to a list of argument expressions.
type CallExpr struct {
	Callee Expr        `print:"named"`
	Paren  token.Token // closing ')', kept for error line reporting
	Args   []Expr      `print:"named"`
}

func (*CallExpr) node() {}
func (*CallExpr) expr() {}

// GetExpr reads a property off an instance.
type GetExpr struct {
	Object Expr   `print:"named"`
	Name   *Ident `print:"named"`
}

func (*GetExpr) node() {}
func (*GetExpr) expr() {}

// SetExpr assigns a property on an instance and evaluates to the assigned
// value.
type SetExpr struct {
	Object Expr   `print:"named"`
	Name   *Ident `print:"named"`
	Value  Expr   `print:"named"`
}

func (*SetExpr) node() {}
func (*SetExpr) expr() {}

// ThisExpr is a `this` reference inside a method body.
type ThisExpr struct {
	Keyword *Ident `print:"unnamed"`
}

func (*ThisExpr) node() {}
func (*ThisExpr) expr() {}

// SuperExpr is a `super.method` reference inside a subclass method body.
type SuperExpr struct {
	Keyword *Ident
	Method  *Ident `print:"unnamed"`
}

func (*SuperExpr) node() {}
func (*SuperExpr) expr() {}

// Statements.

// ExpressionStmt evaluates an expression for its side effects and discards
// the result (unless it is a top-level statement run by an interpreter in REPL
// mode, which prints the value).
type ExpressionStmt struct {
	Expr Expr `print:"unnamed"`
}

func (*ExpressionStmt) node() {}
func (*ExpressionStmt) stmt() {}

// PrintStmt evaluates an expression and writes its stringified form followed
// by a newline to standard output.
type PrintStmt struct {
	Expr Expr `print:"unnamed"`
}

func (*PrintStmt) node() {}
func (*PrintStmt) stmt() {}

// VarStmt declares a new variable in the current scope, optionally
// initialising it.
type VarStmt struct {
	Name *Ident `print:"named"`
	// Initializer is nil if the declaration has no `= expr` part, in which
	// case the variable starts out bound to nil.
	Initializer Expr `print:"named"`
}

func (*VarStmt) node() {}
func (*VarStmt) stmt() {}

// BlockStmt introduces a new lexical scope around a sequence of statements.
type BlockStmt struct {
	Stmts []Stmt `print:"unnamed"`
}

func (*BlockStmt) node() {}
func (*BlockStmt) stmt() {}

// IfStmt is a conditional with an optional else branch.
type IfStmt struct {
	Condition Expr `print:"named"`
	Then      Stmt `print:"named"`
	// Else is nil if there is no else branch.
	Else Stmt `print:"named"`
}

func (*IfStmt) node() {}
func (*IfStmt) stmt() {}

// WhileStmt is a condition-first loop. `for` loops are desugared to WhileStmt
// (wrapped in a BlockStmt when they have an initialiser) by the parser.
type WhileStmt struct {
	Condition Expr `print:"named"`
	Body      Stmt `print:"named"`
}

func (*WhileStmt) node() {}
func (*WhileStmt) stmt() {}

// FunctionStmt declares a named function (or, nested inside a ClassStmt, a
// method).
type FunctionStmt struct {
	Name   *Ident   `print:"named"`
	Params []*Ident `print:"named"`
	Body   []Stmt   `print:"named"`
}

func (*FunctionStmt) node() {}
func (*FunctionStmt) stmt() {}

// ReturnStmt returns from the enclosing function, optionally with a value.
type ReturnStmt struct {
	Keyword token.Token
	// Value is nil if the return has no expression, in which case the
	// function returns nil (except an initializer, which always returns the
	// instance regardless of what's written here).
	Value Expr `print:"named"`
}

func (*ReturnStmt) node() {}
func (*ReturnStmt) stmt() {}

// ClassStmt declares a class, optionally inheriting from a superclass.
type ClassStmt struct {
	Name *Ident `print:"named"`
	// Superclass is nil if the class has no `< Superclass` clause.
	Superclass *VariableExpr   `print:"named"`
	Methods    []*FunctionStmt `print:"named"`
}

func (*ClassStmt) node() {}
func (*ClassStmt) stmt() {}
