// Package loxerror defines the diagnostic types shared by every stage of the
// Lox pipeline (scanner, parser, resolver, interpreter).
package loxerror

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/loxlang/golox/ansi"
	"github.com/loxlang/golox/token"
)

func init() {
	// fatih/color's own NoColor detection only consults stdout; these
	// diagnostics are written to stderr, so defer to ansi.Enabled, which
	// checks both streams.
	color.NoColor = !ansi.Enabled
}

// Error is a static diagnostic (produced while scanning, parsing, or
// resolving) attributable to a single line and, optionally, a single token.
//
// Its Error method renders exactly one of:
//
//	[line 3] Error at 'foo': <message>
//	[line 3] Error at end: <message>
//	[line 3] Error: <message>
type Error struct {
	Line  int
	Where string // "" (generic), "at end", or "at '<lexeme>'"
	Msg   string
}

// New creates an Error not attributable to a particular token.
func New(line int, format string, args ...any) *Error {
	return &Error{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// NewAtToken creates an Error attributable to tok.
func NewAtToken(tok token.Token, format string, args ...any) *Error {
	where := fmt.Sprintf("at '%s'", tok.Lexeme)
	if tok.IsEOF() {
		where = "at end"
	}
	return &Error{Line: tok.Line, Where: where, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	bold := color.New(color.Bold)
	var b strings.Builder
	bold.Fprintf(&b, "[line %d] Error", e.Line)
	if e.Where != "" {
		bold.Fprintf(&b, " %s", e.Where)
	}
	bold.Fprint(&b, ": ")
	fmt.Fprint(&b, e.Msg)
	return b.String()
}

// Errors is a collection of static diagnostics, kept in the order they were
// added until Sort (or Error) orders them by line. Its zero value is an empty
// collection ready for use.
type Errors []*Error

// Add appends an Error not attributable to a particular token.
func (e *Errors) Add(line int, format string, args ...any) {
	*e = append(*e, New(line, format, args...))
}

// AddToken appends an Error attributable to tok.
func (e *Errors) AddToken(tok token.Token, format string, args ...any) {
	*e = append(*e, NewAtToken(tok, format, args...))
}

// Sort orders the errors by line number, preserving relative order of errors
// reported on the same line.
func (e Errors) Sort() {
	sort.SliceStable(e, func(i, j int) bool { return e[i].Line < e[j].Line })
}

// Error concatenates the messages of every error, one per line, after
// sorting them by line number.
func (e Errors) Error() string {
	e.Sort()
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// Err returns e as an error if it is non-empty, or nil otherwise. Use this to
// return an Errors value from a function as a plain error so that the zero
// value is an untyped nil rather than a nil-valued non-nil interface.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// RuntimeError is a diagnostic raised while evaluating an already-resolved
// program. Its Error method renders:
//
//	<message>
//	[line 3]
type RuntimeError struct {
	Msg   string
	Line  int
	Trace string // optional call-stack dump, appended after the required two lines
}

// NewRuntime creates a RuntimeError attributable to line.
func NewRuntime(line int, format string, args ...any) *RuntimeError {
	return &RuntimeError{Msg: fmt.Sprintf(format, args...), Line: line}
}

func (e *RuntimeError) Error() string {
	red := color.New(color.FgRed)
	var b strings.Builder
	red.Fprint(&b, e.Msg)
	fmt.Fprintf(&b, "\n[line %d]", e.Line)
	if e.Trace != "" {
		fmt.Fprint(&b, "\n", e.Trace)
	}
	return b.String()
}
