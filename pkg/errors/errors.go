// Package errors implements Arrow's error taxonomy and source-window
// reporting (spec.md §7). Every error carries the stage it occurred in, a
// machine-readable kind, a human message, and the token position it
// occurred at; none of this is caught inside the core — it propagates to
// the driver in cmd/arrow, which is the only place that prints it and
// decides the process exit code.
package errors

import "fmt"

// Stage is the phase of the pipeline an error was raised in.
type Stage int

const (
	Scanning Stage = iota
	Parsing
	Evaluation
)

func (s Stage) String() string {
	switch s {
	case Scanning:
		return "scanning"
	case Parsing:
		return "parsing"
	case Evaluation:
		return "evaluation"
	default:
		return "unknown"
	}
}

// Kind is the specific failure within a Stage, per spec.md §7.
type Kind string

const (
	UnrecognizedSymbol Kind = "UnrecognizedSymbol" // Scanning
	Grammar             Kind = "Grammar"            // Parsing

	NotFound           Kind = "NotFound"
	WriteConst         Kind = "WriteConst"
	BadIndex           Kind = "BadIndex"
	DivByZero          Kind = "DivByZero"
	ConditionViolation Kind = "ConditionViolation"
	InverseNotDefined  Kind = "InverseNotDefined"
	ArityMismatch      Kind = "ArityMismatch"

	// MissingResult is not one of spec.md §7's named kinds; it reports a
	// function whose selected entry point ran off the end of its block
	// without ever binding "result" (original_source/datatypes.py's
	// Function.execute treats this as fatal too, via a hard sys.exit
	// rather than the Evaluation-stage error every other defect here
	// raises — promoted to a proper ArrowError for consistency).
	MissingResult Kind = "MissingResult"
)

// Position locates a token in source, matching ast.Position's shape so
// callers can convert freely between the two.
type Position struct {
	Line   int
	Column int
}

// ArrowError is the single error type that escapes scanning, parsing and
// evaluation. It is never caught inside the core (spec.md §7); cmd/arrow
// is the only consumer.
type ArrowError struct {
	Stage   Stage
	Kind    Kind
	Message string
	Pos     Position
}

func (e *ArrowError) Error() string {
	return fmt.Sprintf("%s error (%s) at line %d, column %d: %s",
		e.Stage, e.Kind, e.Pos.Line, e.Pos.Column, e.Message)
}

// New builds an *ArrowError. It's a plain constructor, not a sentinel:
// each site fills in its own Kind and Message.
func New(stage Stage, kind Kind, pos Position, format string, args ...any) *ArrowError {
	return &ArrowError{
		Stage:   stage,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
	}
}
