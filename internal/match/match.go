// Package match resolves a pattern against lines of test text. It finds the
// first match per line and attributes group names to numbered capture groups.
package match

import "fmt"

// Anonymous is the resolved name of a group that claimed no named capture.
const Anonymous = "(anonymous)"

// Span is a half-open [Start, End) range of rune offsets within a line.
type Span struct {
	Start int
	End   int
}

func (s Span) String() string { return fmt.Sprintf("[%d,%d)", s.Start, s.End) }

// Group is a participating capture group of a match.
type Group struct {
	Index int    // 1-based, in the engine's group numbering
	Span  Span   // rune offsets within the line
	Text  string // captured text
	Name  string // claimed group name, or Anonymous
}

// Match is the first match found on a line.
type Match struct {
	Span   Span
	Text   string
	Groups []Group // participating groups only, ascending Index
}

// LineMatch ties a Match to its 1-indexed line number.
type LineMatch struct {
	Line int
	Match
}

// PatternError reports a pattern that failed to compile or to evaluate.
// Error returns the engine's message verbatim.
type PatternError struct {
	Engine  string
	Pattern string
	Err     error
}

func (e *PatternError) Error() string { return e.Err.Error() }

func (e *PatternError) Unwrap() error { return e.Err }
