// Package token declares the type representing a lexical token of Lox code.
package token

import "fmt"

//go:generate go tool stringer -type Type

// Type is the kind of a lexical token of Lox code.
type Type int

// The closed list of all token kinds.
const (
	Illegal Type = iota
	EOF

	// Single-character tokens.
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Slash
	Asterisk

	// One or two character tokens.
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// Literals.
	Ident
	String
	Number

	// Keywords.
	And
	Class
	Else
	False
	Fun
	For
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While
)

var typeStrings = map[Type]string{
	Illegal:      "illegal",
	EOF:          "EOF",
	LeftParen:    "(",
	RightParen:   ")",
	LeftBrace:    "{",
	RightBrace:   "}",
	Comma:        ",",
	Dot:          ".",
	Minus:        "-",
	Plus:         "+",
	Semicolon:    ";",
	Slash:        "/",
	Asterisk:     "*",
	Bang:         "!",
	BangEqual:    "!=",
	Equal:        "=",
	EqualEqual:   "==",
	Greater:      ">",
	GreaterEqual: ">=",
	Less:         "<",
	LessEqual:    "<=",
	Ident:        "identifier",
	String:       "string",
	Number:       "number",
	And:          "and",
	Class:        "class",
	Else:         "else",
	False:        "false",
	Fun:          "fun",
	For:          "for",
	If:           "if",
	Nil:          "nil",
	Or:           "or",
	Print:        "print",
	Return:       "return",
	Super:        "super",
	This:         "this",
	True:         "true",
	Var:          "var",
	While:        "while",
}

// String returns the human-readable name of t, e.g. "+" or "identifier".
func (t Type) String() string {
	if s, ok := typeStrings[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Format implements fmt.Formatter. 'm' renders the type the way a diagnostic
// message quotes a token kind; 's' and 'v' render t.String(); other verbs
// format the underlying int.
func (t Type) Format(f fmt.State, verb rune) {
	switch verb {
	case 'm':
		fmt.Fprintf(f, "'%s'", t.String())
	case 's', 'v':
		fmt.Fprint(f, t.String())
	default:
		fmt.Fprintf(f, fmt.FormatString(f, verb), int(t))
	}
}

// Keywords maps each reserved word to its token Type.
var Keywords = map[string]Type{
	"and":    And,
	"class":  Class,
	"else":   Else,
	"false":  False,
	"for":    For,
	"fun":    Fun,
	"if":     If,
	"nil":    Nil,
	"or":     Or,
	"print":  Print,
	"return": Return,
	"super":  Super,
	"this":   This,
	"true":   True,
	"var":    Var,
	"while":  While,
}

// IdentType returns the Type of the keyword spelled ident, or Ident if ident
// is not a reserved word.
func IdentType(ident string) Type {
	if t, ok := Keywords[ident]; ok {
		return t
	}
	return Ident
}

// Token is a single lexical token of Lox source code.
type Token struct {
	Type    Type
	Lexeme  string
	Literal any // string for String tokens, float64 for Number tokens, nil otherwise
	Line    int // 1-based line number on which the token starts
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q %v", t.Type, t.Lexeme, t.Literal)
}

// IsEOF reports whether t is the synthetic end-of-file token.
func (t Token) IsEOF() bool {
	return t.Type == EOF
}
