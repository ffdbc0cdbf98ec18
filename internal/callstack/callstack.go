// Package callstack tracks the interpreter's call stack so that a runtime
// error can be reported with a human-readable trace of its active calls.
package callstack

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/loxlang/golox/ansi"
)

func init() {
	// fatih/color's own NoColor detection only consults stdout; traces are
	// written to stderr via loxerror, so defer to ansi.Enabled instead.
	color.NoColor = !ansi.Enabled
}

// Frame records one active call: the name of the function being executed (or
// "" for top-level code) and the line at which it was called from.
type Frame struct {
	Function string
	Line     int
}

// Stack is a call stack of active LoxFunction invocations.
type Stack struct {
	frames []Frame
}

// Push records a new call, made from the given line, into the named
// function ("" for an anonymous/native call site).
func (s *Stack) Push(function string, line int) {
	s.frames = append(s.frames, Frame{Function: function, Line: line})
}

// Pop removes the most recently pushed frame.
func (s *Stack) Pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

// Len returns the number of active frames.
func (s *Stack) Len() int {
	return len(s.frames)
}

var (
	bold  = color.New(color.Bold)
	faint = color.New(color.Faint)
)

// Trace renders the call stack, most recent call first.
func (s *Stack) Trace() string {
	if len(s.frames) == 0 {
		return ""
	}

	var b strings.Builder
	bold.Fprintln(&b, "Stack trace (most recent call first):")

	lines := make([]string, len(s.frames))
	width := 0
	for i, f := range s.frames {
		lines[i] = fmt.Sprintf("[line %d]", f.Line)
		width = max(width, runewidth.StringWidth(lines[i]))
	}

	for i := len(s.frames) - 1; i >= 0; i-- {
		f := s.frames[i]
		loc := runewidth.FillRight(lines[i], width)
		function := "in top-level code"
		if f.Function != "" {
			function = fmt.Sprintf("in %s()", f.Function)
		}
		fmt.Fprint(&b, "  ", loc, " ", faint.Sprint(function))
		if i > 0 {
			fmt.Fprintln(&b)
		}
	}
	return b.String()
}
