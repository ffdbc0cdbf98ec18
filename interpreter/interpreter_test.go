package interpreter

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/loxlang/golox/internal/difftest"
	"github.com/loxlang/golox/parser"
	"github.com/loxlang/golox/scanner"
)

// captureStdout runs fn with os.Stdout redirected to a pipe and returns
// everything written to it.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %s", err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("io.ReadAll: %s", err)
	}
	return string(out)
}

func run(t *testing.T, in *Interpreter, src string) error {
	t.Helper()
	tokens, err := scanner.Scan(src)
	if err != nil {
		t.Fatalf("scanner.Scan(%q) returned an error: %s", src, err)
	}
	program, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("parser.Parse(%q) returned an error: %s", src, err)
	}
	return in.Interpret(program)
}

func TestInterpretPrograms(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "arithmetic precedence",
			src:  `print 1 + 2 * 3;`,
			want: "7\n",
		},
		{
			name: "integer-valued number stringifies without a decimal point",
			src:  `print 6 / 2;`,
			want: "3\n",
		},
		{
			name: "string concatenation",
			src:  `print "foo" + "bar";`,
			want: "foobar\n",
		},
		{
			name: "closures capture by reference",
			src: `
				fun makeCounter() {
					var i = 0;
					fun count() {
						i = i + 1;
						return i;
					}
					return count;
				}
				var counter = makeCounter();
				print counter();
				print counter();
			`,
			want: "1\n2\n",
		},
		{
			name: "classes, fields, and methods",
			src: `
				class Greeter {
					init(name) {
						this.name = name;
					}
					greet() {
						return "hello " + this.name;
					}
				}
				print Greeter("world").greet();
			`,
			want: "hello world\n",
		},
		{
			name: "inheritance and super calls",
			src: `
				class A {
					speak() { return "a"; }
				}
				class B < A {
					speak() { return super.speak() + "b"; }
				}
				print B().speak();
			`,
			want: "ab\n",
		},
		{
			name: "while and if",
			src: `
				var i = 0;
				while (i < 3) {
					if (i == 1) print "one"; else print i;
					i = i + 1;
				}
			`,
			want: "0\none\n2\n",
		},
		{
			name: "for loop desugaring",
			src:  `for (var i = 0; i < 3; i = i + 1) print i;`,
			want: "0\n1\n2\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := New()
			var err error
			got := captureStdout(t, func() {
				err = run(t, in, tt.src)
			})
			if err != nil {
				t.Fatalf("Interpret(%q) returned an error: %s", tt.src, err)
			}
			if got != tt.want {
				t.Errorf("Interpret(%q) printed output mismatch:\n%s", tt.src, difftest.Diff(tt.want, got))
			}
		})
	}
}

func TestInterpretRuntimeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "adding number and string", src: `print "a" + 1;`, want: "Operands must be two numbers or two strings."},
		{name: "undefined variable", src: `print x;`, want: "Undefined variable 'x'."},
		{name: "arity mismatch", src: `fun f(a) { return a; } f();`, want: "Expected 1 arguments but got 0."},
		{name: "property access on non-instance", src: `print (1).foo;`, want: "Only instances have properties."},
		{name: "field set on non-instance", src: `(1).foo = 2;`, want: "Only instances have fields."},
		{name: "calling a non-callable", src: `var x = 1; x();`, want: "Can only call functions and classes."},
		{name: "superclass must be a class", src: `var NotAClass = 1; class A < NotAClass {}`, want: "Superclass must be a class."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := New()
			var err error
			captureStdout(t, func() {
				err = run(t, in, tt.src)
			})
			if err == nil {
				t.Fatalf("Interpret(%q) returned no error, want one containing %q", tt.src, tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Interpret(%q) error = %q, want it to contain %q", tt.src, err.Error(), tt.want)
			}
		})
	}
}

func TestInterpretStateful(t *testing.T) {
	in := New()
	got := captureStdout(t, func() {
		if err := run(t, in, `var x = 1;`); err != nil {
			t.Fatalf("Interpret returned an error: %s", err)
		}
		if err := run(t, in, `print x;`); err != nil {
			t.Fatalf("Interpret returned an error: %s", err)
		}
	})
	if want := "1\n"; got != want {
		t.Errorf("Interpret printed output mismatch across calls:\n%s", difftest.Diff(want, got))
	}
}
