package interpreter

import (
	"fmt"
	"math"
	"strconv"

	"github.com/loxlang/golox/ast"
	"github.com/loxlang/golox/loxerror"
)

// loxType names a runtime value's kind, for use in diagnostics.
type loxType string

const (
	loxTypeNil      loxType = "nil"
	loxTypeBool     loxType = "boolean"
	loxTypeNumber   loxType = "number"
	loxTypeString   loxType = "string"
	loxTypeFunction loxType = "function"
	loxTypeClass    loxType = "class"
	loxTypeInstance loxType = "instance"
)

// loxObject is the common interface satisfied by every Lox runtime value.
type loxObject interface {
	String() string
	Type() loxType
	Equals(other loxObject) bool
}

// loxTruther is implemented by objects with a truthiness other than "always
// true" (nil and false are the only two falsy values).
type loxTruther interface {
	IsTruthy() bool
}

func isTruthy(obj loxObject) bool {
	if t, ok := obj.(loxTruther); ok {
		return t.IsTruthy()
	}
	return true
}

// loxCallable is implemented by objects that can appear as the callee of a
// call expression: user functions, native functions, and classes.
type loxCallable interface {
	Arity() int
	Call(in *Interpreter, args []loxObject) loxObject
}

type loxNil struct{}

var (
	_ loxObject  = loxNil{}
	_ loxTruther = loxNil{}
)

func (loxNil) String() string { return "nil" }
func (loxNil) Type() loxType  { return loxTypeNil }
func (loxNil) IsTruthy() bool { return false }

func (loxNil) Equals(other loxObject) bool {
	_, ok := other.(loxNil)
	return ok
}

type loxBool bool

var (
	_ loxObject  = loxBool(false)
	_ loxTruther = loxBool(false)
)

func (b loxBool) String() string {
	if b {
		return "true"
	}
	return "false"
}

func (b loxBool) Type() loxType  { return loxTypeBool }
func (b loxBool) IsTruthy() bool { return bool(b) }

func (b loxBool) Equals(other loxObject) bool {
	o, ok := other.(loxBool)
	return ok && b == o
}

type loxNumber float64

var _ loxObject = loxNumber(0)

// String renders n in integer form if it is an exact integer, otherwise as
// the shortest decimal that round-trips back to n.
func (n loxNumber) String() string {
	f := float64(n)
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func (n loxNumber) Type() loxType { return loxTypeNumber }

func (n loxNumber) Equals(other loxObject) bool {
	o, ok := other.(loxNumber)
	return ok && n == o
}

type loxString string

var _ loxObject = loxString("")

func (s loxString) String() string { return string(s) }
func (s loxString) Type() loxType  { return loxTypeString }

func (s loxString) Equals(other loxObject) bool {
	o, ok := other.(loxString)
	return ok && s == o
}

// loxFunction is a user-defined function or method. Bound methods share decl
// with their originating loxFunction, but close over an environment node
// extended with "this" (and "super", if the method's class has one).
type loxFunction struct {
	decl          *ast.FunctionStmt
	closure       *environment
	isInitializer bool
}

func newLoxFunction(decl *ast.FunctionStmt, closure *environment, isInitializer bool) *loxFunction {
	return &loxFunction{decl: decl, closure: closure, isInitializer: isInitializer}
}

var (
	_ loxObject   = (*loxFunction)(nil)
	_ loxCallable = (*loxFunction)(nil)
)

func (f *loxFunction) String() string {
	return fmt.Sprintf("<fn %s>", f.decl.Name.Name())
}

func (f *loxFunction) Type() loxType { return loxTypeFunction }

func (f *loxFunction) Equals(other loxObject) bool {
	o, ok := other.(*loxFunction)
	return ok && f == o
}

func (f *loxFunction) Arity() int {
	return len(f.decl.Params)
}

// bind returns a copy of f whose closure additionally defines "this" as
// instance, so that a later call sees the receiver.
func (f *loxFunction) bind(instance *loxInstance) *loxFunction {
	env := f.closure.child()
	env.define("this", instance)
	return newLoxFunction(f.decl, env, f.isInitializer)
}

// Call invokes f with args already evaluated by the caller. A non-initializer
// that falls off the end of its body (no return statement executed) yields
// nil; an initializer always yields the bound instance, return value or not.
func (f *loxFunction) Call(in *Interpreter, args []loxObject) loxObject {
	env := f.closure.child()
	for i, param := range f.decl.Params {
		env.define(param.Name(), args[i])
	}

	result := in.executeBlock(f.decl.Body, env)
	if f.isInitializer {
		return f.closure.getAt(0, "this")
	}
	if ret, ok := result.(stmtResultReturn); ok {
		return ret.value
	}
	return loxNil{}
}

// nativeFunction wraps a Go function as a callable Lox value, used for
// globals like clock that have no Lox-level declaration.
type nativeFunction struct {
	name  string
	arity int
	fn    func(in *Interpreter, args []loxObject) loxObject
}

var (
	_ loxObject   = (*nativeFunction)(nil)
	_ loxCallable = (*nativeFunction)(nil)
)

func (n *nativeFunction) String() string { return "<native fn>" }
func (n *nativeFunction) Type() loxType  { return loxTypeFunction }

func (n *nativeFunction) Equals(other loxObject) bool {
	o, ok := other.(*nativeFunction)
	return ok && n == o
}

func (n *nativeFunction) Arity() int { return n.arity }

func (n *nativeFunction) Call(in *Interpreter, args []loxObject) loxObject {
	return n.fn(in, args)
}

// loxClass is a runtime class value: itself callable (constructing
// instances) and the target of method lookup, including the superclass
// chain.
type loxClass struct {
	name       string
	superclass *loxClass
	methods    map[string]*loxFunction
}

var (
	_ loxObject   = (*loxClass)(nil)
	_ loxCallable = (*loxClass)(nil)
)

func (c *loxClass) String() string { return c.name }
func (c *loxClass) Type() loxType  { return loxTypeClass }

func (c *loxClass) Equals(other loxObject) bool {
	o, ok := other.(*loxClass)
	return ok && c == o
}

// method looks up name in c's own methods, then walks the superclass chain.
func (c *loxClass) method(name string) (*loxFunction, bool) {
	if m, ok := c.methods[name]; ok {
		return m, true
	}
	if c.superclass != nil {
		return c.superclass.method(name)
	}
	return nil, false
}

func (c *loxClass) Arity() int {
	if init, ok := c.method("init"); ok {
		return init.Arity()
	}
	return 0
}

func (c *loxClass) Call(in *Interpreter, args []loxObject) loxObject {
	instance := &loxInstance{class: c, fields: make(map[string]loxObject)}
	if init, ok := c.method("init"); ok {
		init.bind(instance).Call(in, args)
	}
	return instance
}

// loxInstance is a runtime instance of a loxClass, holding its own field
// values in addition to the class's methods.
type loxInstance struct {
	class  *loxClass
	fields map[string]loxObject
}

var _ loxObject = (*loxInstance)(nil)

func (i *loxInstance) String() string { return i.class.name + " instance" }
func (i *loxInstance) Type() loxType  { return loxTypeInstance }

func (i *loxInstance) Equals(other loxObject) bool {
	o, ok := other.(*loxInstance)
	return ok && i == o
}

// get implements property read: fields shadow methods; a method found through
// the class (or its superclasses) is bound to i before being returned, and a
// name that is neither raises "Undefined property".
func (i *loxInstance) get(name *ast.Ident, line int) loxObject {
	if v, ok := i.fields[name.Name()]; ok {
		return v
	}
	if m, ok := i.class.method(name.Name()); ok {
		return m.bind(i)
	}
	panic(loxerror.NewRuntime(line, "Undefined property '%s'.", name.Name()))
}

func (i *loxInstance) set(name *ast.Ident, value loxObject) {
	i.fields[name.Name()] = value
}
