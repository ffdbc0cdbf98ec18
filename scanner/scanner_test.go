package scanner

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/loxlang/golox/token"
)

func TestScan(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []token.Token
	}{
		{
			name: "empty source produces only EOF",
			src:  "",
			want: []token.Token{{Type: token.EOF, Line: 1}},
		},
		{
			name: "punctuation",
			src:  "(){},.-+;*/!= == <= >=",
			want: []token.Token{
				{Type: token.LeftParen, Lexeme: "(", Line: 1},
				{Type: token.RightParen, Lexeme: ")", Line: 1},
				{Type: token.LeftBrace, Lexeme: "{", Line: 1},
				{Type: token.RightBrace, Lexeme: "}", Line: 1},
				{Type: token.Comma, Lexeme: ",", Line: 1},
				{Type: token.Dot, Lexeme: ".", Line: 1},
				{Type: token.Minus, Lexeme: "-", Line: 1},
				{Type: token.Plus, Lexeme: "+", Line: 1},
				{Type: token.Semicolon, Lexeme: ";", Line: 1},
				{Type: token.Asterisk, Lexeme: "*", Line: 1},
				{Type: token.Slash, Lexeme: "/", Line: 1},
				{Type: token.BangEqual, Lexeme: "!=", Line: 1},
				{Type: token.EqualEqual, Lexeme: "==", Line: 1},
				{Type: token.LessEqual, Lexeme: "<=", Line: 1},
				{Type: token.GreaterEqual, Lexeme: ">=", Line: 1},
				{Type: token.EOF, Line: 1},
			},
		},
		{
			name: "number literal",
			src:  "123 45.67",
			want: []token.Token{
				{Type: token.Number, Lexeme: "123", Literal: float64(123), Line: 1},
				{Type: token.Number, Lexeme: "45.67", Literal: float64(45.67), Line: 1},
				{Type: token.EOF, Line: 1},
			},
		},
		{
			name: "string literal spanning a line",
			src:  "\"hello\nworld\"",
			want: []token.Token{
				{Type: token.String, Lexeme: "\"hello\nworld\"", Literal: "hello\nworld", Line: 1},
				{Type: token.EOF, Line: 2},
			},
		},
		{
			name: "identifiers and keywords",
			src:  "foo and bar",
			want: []token.Token{
				{Type: token.Ident, Lexeme: "foo", Line: 1},
				{Type: token.And, Lexeme: "and", Line: 1},
				{Type: token.Ident, Lexeme: "bar", Line: 1},
				{Type: token.EOF, Line: 1},
			},
		},
		{
			name: "line comment is skipped",
			src:  "1 // a comment\n2",
			want: []token.Token{
				{Type: token.Number, Lexeme: "1", Literal: float64(1), Line: 1},
				{Type: token.Number, Lexeme: "2", Literal: float64(2), Line: 2},
				{Type: token.EOF, Line: 2},
			},
		},
		{
			name: "block comments do not nest",
			src:  "1 /* a /* nested */ 2",
			want: []token.Token{
				{Type: token.Number, Lexeme: "1", Literal: float64(1), Line: 1},
				{Type: token.Number, Lexeme: "2", Literal: float64(2), Line: 1},
				{Type: token.EOF, Line: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Scan(tt.src)
			if err != nil {
				t.Fatalf("Scan returned an error: %s", err)
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Scan() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "unterminated string", src: `"abc`},
		{name: "unterminated block comment", src: `/* abc`},
		{name: "illegal character", src: `$`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Scan(tt.src); err == nil {
				t.Errorf("Scan(%q) returned no error, want one", tt.src)
			}
		})
	}
}
