package parser

import (
	"strings"
	"testing"

	"github.com/loxlang/golox/ast"
	"github.com/loxlang/golox/internal/difftest"
	"github.com/loxlang/golox/scanner"
	"github.com/loxlang/golox/token"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	tokens, err := scanner.Scan(src)
	if err != nil {
		t.Fatalf("scanner.Scan(%q) returned an error: %s", src, err)
	}
	program, err := Parse(tokens)
	if err != nil {
		t.Fatalf("Parse(%q) returned an error: %s", src, err)
	}
	return program
}

func TestParseExpressionPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{
			"1 + 2 * 3;",
			"(BinaryExpr\n  Left: 1\n  Op: +\n  Right: (BinaryExpr\n    Left: 2\n    Op: *\n    Right: 3))",
		},
		{
			"(1 + 2) * 3;",
			"(BinaryExpr\n  Left: (GroupingExpr\n    (BinaryExpr\n      Left: 1\n      Op: +\n      Right: 2))\n  Op: *\n  Right: 3)",
		},
		{
			"-1 + 2;",
			"(BinaryExpr\n  Left: (UnaryExpr\n    Op: -\n    Operand: 1)\n  Op: +\n  Right: 2)",
		},
		{
			"!true == false;",
			"(BinaryExpr\n  Left: (UnaryExpr\n    Op: !\n    Operand: true)\n  Op: ==\n  Right: false)",
		},
		{
			"a = b = 1;",
			"(AssignExpr\n  Name: a\n  Value: (AssignExpr\n    Name: b\n    Value: 1))",
		},
		{
			"a or b and c;",
			"(LogicalExpr\n  Left: (VariableExpr\n    a)\n  Op: or\n  Right: (LogicalExpr\n    Left: (VariableExpr\n      b)\n    Op: and\n    Right: (VariableExpr\n      c)))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			program := parse(t, tt.src)
			if len(program.Stmts) != 1 {
				t.Fatalf("got %d statements, want 1", len(program.Stmts))
			}
			stmt, ok := program.Stmts[0].(*ast.ExpressionStmt)
			if !ok {
				t.Fatalf("got statement of type %T, want *ast.ExpressionStmt", program.Stmts[0])
			}
			if got := ast.Sprint(stmt.Expr); got != tt.want {
				t.Errorf("Sprint() mismatch:\n%s", difftest.Diff(tt.want, got))
			}
		})
	}
}

func TestParseForDesugarsToWhile(t *testing.T) {
	program := parse(t, "for (var i = 0; i < 10; i = i + 1) print i;")
	if len(program.Stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(program.Stmts))
	}
	block, ok := program.Stmts[0].(*ast.BlockStmt)
	if !ok {
		t.Fatalf("got statement of type %T, want *ast.BlockStmt", program.Stmts[0])
	}
	if len(block.Stmts) != 2 {
		t.Fatalf("desugared block has %d statements, want 2 (init, while)", len(block.Stmts))
	}
	if _, ok := block.Stmts[0].(*ast.VarStmt); !ok {
		t.Errorf("first desugared statement is %T, want *ast.VarStmt", block.Stmts[0])
	}
	whileStmt, ok := block.Stmts[1].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("second desugared statement is %T, want *ast.WhileStmt", block.Stmts[1])
	}
	whileBody, ok := whileStmt.Body.(*ast.BlockStmt)
	if !ok {
		t.Fatalf("while body is %T, want *ast.BlockStmt", whileStmt.Body)
	}
	if len(whileBody.Stmts) != 2 {
		t.Errorf("while body has %d statements, want 2 (original body, update)", len(whileBody.Stmts))
	}
}

func TestParseForWithoutConditionDefaultsToTrue(t *testing.T) {
	program := parse(t, "for (;;) print 1;")
	whileStmt := program.Stmts[0].(*ast.WhileStmt)
	lit, ok := whileStmt.Condition.(*ast.LiteralExpr)
	if !ok {
		t.Fatalf("condition is %T, want *ast.LiteralExpr", whileStmt.Condition)
	}
	if lit.Value.Type != token.True || lit.Value.Literal != nil {
		t.Errorf("condition literal = %v, want the `true` literal", lit.Value)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "invalid assignment target", src: "1 = 2;", want: "Invalid assignment target."},
		{name: "missing expression", src: "var x = ;", want: "Expect expression."},
		{name: "unclosed block", src: "{ print 1;", want: "Expect"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := scanner.Scan(tt.src)
			if err != nil {
				t.Fatalf("scanner.Scan(%q) returned an error: %s", tt.src, err)
			}
			_, err = Parse(tokens)
			if err == nil {
				t.Fatalf("Parse(%q) returned no error, want one containing %q", tt.src, tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Parse(%q) error = %q, want it to contain %q", tt.src, err.Error(), tt.want)
			}
		})
	}
}

func TestParseTooManyArgs(t *testing.T) {
	var args strings.Builder
	for i := range 255 {
		if i > 0 {
			args.WriteString(", ")
		}
		args.WriteString("1")
	}
	src := "f(" + args.String() + ");"

	tokens, err := scanner.Scan(src)
	if err != nil {
		t.Fatalf("scanner.Scan returned an error: %s", err)
	}
	_, err = Parse(tokens)
	if err == nil {
		t.Fatal("Parse returned no error, want one about too many arguments")
	}
	if !strings.Contains(err.Error(), "254 arguments") {
		t.Errorf("Parse error = %q, want it to mention the argument limit", err.Error())
	}
}
