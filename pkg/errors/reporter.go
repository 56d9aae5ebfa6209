package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Reporter prints an *ArrowError as a three-line source window with a
// caret under the offending token (spec.md §7), the way
// kanso-lang-kanso's internal/errors.ErrorReporter prints a Rust-style
// diagnostic, adapted to Arrow's simpler "stage + single caret" contract
// instead of suggestions/notes.
type Reporter struct {
	Filename string
	Lines    []string
}

// NewReporter splits source into lines once, up front, the way
// kanso's NewErrorReporter does.
func NewReporter(filename, source string) *Reporter {
	return &Reporter{
		Filename: filename,
		Lines:    strings.Split(source, "\n"),
	}
}

func (r *Reporter) line(n int) string {
	if n < 0 || n >= len(r.Lines) {
		return ""
	}
	return r.Lines[n]
}

// Format renders err as the header line, a dimmed filename:line:column
// location, up to three lines of source context, and a colorized caret
// under the error column.
func (r *Reporter) Format(err *ArrowError) string {
	var b strings.Builder

	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	caret := color.New(color.FgRed, color.Bold).SprintFunc()

	fmt.Fprintf(&b, "%s: %s during %s\n",
		bold("error"), err.Message, err.Stage)
	fmt.Fprintf(&b, "  %s %s:%d:%d\n",
		dim("-->"), r.Filename, err.Pos.Line, err.Pos.Column)
	fmt.Fprintln(&b, dim("   |"))

	// Positions are 1-based (see token.Token); r.Lines is 0-based.
	idx := err.Pos.Line - 1
	col := err.Pos.Column - 1
	if col < 0 {
		col = 0
	}
	if idx-1 >= 0 {
		fmt.Fprintf(&b, "%3d| %s\n", idx, r.line(idx-1))
	}
	fmt.Fprintf(&b, "%3d| %s\n", idx+1, r.line(idx))
	fmt.Fprintf(&b, "   | %s%s\n", strings.Repeat(" ", col), caret("^"))
	if idx+1 < len(r.Lines) {
		fmt.Fprintf(&b, "%3d| %s\n", idx+2, r.line(idx+1))
	}
	fmt.Fprintln(&b, dim("   |"))

	return b.String()
}

// SetColorEnabled toggles ANSI coloring process-wide, matching
// cmd/arrow's ARROW_NO_COLOR handling (SPEC_FULL.md §2).
func SetColorEnabled(enabled bool) {
	color.NoColor = !enabled
}
