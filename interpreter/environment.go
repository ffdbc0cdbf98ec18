package interpreter

import "github.com/loxlang/golox/loxerror"

// environment is a single node in the chain of lexical scopes: a mapping
// from identifier lexeme to runtime value, plus an optional enclosing node.
type environment struct {
	parent *environment
	values map[string]loxObject
}

func newEnvironment() *environment {
	return &environment{values: make(map[string]loxObject)}
}

// child creates a new environment enclosed by e.
func (e *environment) child() *environment {
	return &environment{parent: e, values: make(map[string]loxObject)}
}

// define binds name to value in e, unconditionally (shadowing any binding of
// the same name already present in e).
func (e *environment) define(name string, value loxObject) {
	e.values[name] = value
}

// get looks up name starting in e and walking outward through enclosing
// environments.
func (e *environment) get(name string, line int) loxObject {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[name]; ok {
			return v
		}
	}
	panic(loxerror.NewRuntime(line, "Undefined variable '%s'.", name))
}

// assign sets an existing binding of name, starting in e and walking outward.
func (e *environment) assign(name string, value loxObject, line int) {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name]; ok {
			env.values[name] = value
			return
		}
	}
	panic(loxerror.NewRuntime(line, "Undefined variable '%s'.", name))
}

// ancestor walks exactly distance enclosing links up the chain. The caller
// (always the evaluator, acting on a distance computed by the resolver) is
// trusted to pass a distance that the chain actually has.
func (e *environment) ancestor(distance int) *environment {
	env := e
	for range distance {
		env = env.parent
	}
	return env
}

// getAt reads name directly out of the environment distance levels up.
func (e *environment) getAt(distance int, name string) loxObject {
	return e.ancestor(distance).values[name]
}

// assignAt assigns name directly in the environment distance levels up.
func (e *environment) assignAt(distance int, name string, value loxObject) {
	e.ancestor(distance).values[name] = value
}
