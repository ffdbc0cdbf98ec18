package resolver

import (
	"strings"
	"testing"

	"github.com/loxlang/golox/parser"
	"github.com/loxlang/golox/scanner"
)

func resolve(t *testing.T, src string) (Distances, error) {
	t.Helper()
	tokens, err := scanner.Scan(src)
	if err != nil {
		t.Fatalf("scanner.Scan(%q) returned an error: %s", src, err)
	}
	program, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("parser.Parse(%q) returned an error: %s", src, err)
	}
	return Resolve(program)
}

func TestResolveValidPrograms(t *testing.T) {
	tests := []string{
		`var a = 1; { var b = a + 1; print b; }`,
		`fun outer() { var x = 1; fun inner() { return x; } return inner(); }`,
		`class A { init() { this.x = 1; } get() { return this.x; } }`,
		`class A { greet() { return "a"; } } class B < A { greet() { return super.greet(); } }`,
		`for (var i = 0; i < 10; i = i + 1) { print i; }`,
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			if _, err := resolve(t, src); err != nil {
				t.Errorf("Resolve(%q) returned an error: %s", src, err)
			}
		})
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "self-referential initializer", src: "{ var a = a; }", want: "Can't read local variable in its own initialiser."},
		{name: "self-referential initializer in nested scope", src: "var a = 1; { var a = a + 1; }", want: "Can't read local variable in its own initialiser."},
		{name: "duplicate declaration in scope", src: "{ var a = 1; var a = 2; }", want: "Already a variable with this name in this scope."},
		{name: "this outside class", src: "print this;", want: "Can't use 'this' outside of a class."},
		{name: "super outside class", src: "print super.foo;", want: "Can't use 'super' outside of a class."},
		{name: "super without superclass", src: "class A { m() { return super.m(); } }", want: "Can't use 'super' in a class with no superclass."},
		{name: "class inherits from itself", src: "class A < A {}", want: "A class can't inherit from itself."},
		{name: "return value from initializer", src: "class A { init() { return 1; } }", want: "Can't return a value from an initializer."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolve(t, tt.src)
			if err == nil {
				t.Fatalf("Resolve(%q) returned no error, want one containing %q", tt.src, tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Resolve(%q) error = %q, want it to contain %q", tt.src, err.Error(), tt.want)
			}
		})
	}
}
