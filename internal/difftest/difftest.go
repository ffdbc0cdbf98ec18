// Package difftest renders readable diffs between expected and actual test
// output, for use in package _test.go files across the module.
package difftest

import (
	"fmt"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/loxlang/golox/ansi"
)

// Diff returns a unified diff between want and got. If the two are equal, it
// returns an empty string.
func Diff(want, got string) string {
	if want == got {
		return ""
	}
	edits := myers.ComputeEdits(span.URIFromPath("want"), want, got)
	diff := fmt.Sprint(gotextdiff.ToUnified("want", "got", want, edits))
	return ansi.Sprintf("${GREEN}want -\n${RED}got +${DEFAULT}\n%s", diff)
}
