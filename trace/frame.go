// Package trace turns a sequence of algorithm snapshots into a Beamer
// overprint environment showing one snapshot per stage.
package trace

// Cursor is the position of one declared variable in a frame.
type Cursor struct {
	Current  int
	Previous int
}

// LineRange is an inclusive, 1-indexed span of source lines.
type LineRange struct {
	From int
	To   int
}

// Span creates a LineRange, swapping the bounds if needed.
func Span(from, to int) LineRange {
	if from > to {
		from, to = to, from
	}
	return LineRange{From: from, To: to}
}

// Contains reports whether line falls within the range.
func (r LineRange) Contains(line int) bool {
	return r.From <= line && line <= r.To
}

// HighlightSelector lists the source lines to distinguish in one frame.
type HighlightSelector []LineRange

// Lines builds a selector of single lines.
func Lines(lines ...int) HighlightSelector {
	sel := make(HighlightSelector, 0, len(lines))
	for _, l := range lines {
		sel = append(sel, LineRange{From: l, To: l})
	}
	return sel
}

// Variable declares a named program variable and how many slots it spans.
type Variable struct {
	Name  string
	Arity int
}

// Variables is an ordered variable declaration.
type Variables []Variable

// Slots returns the total arity of the declaration.
func (v Variables) Slots() int {
	n := 0
	for _, d := range v {
		n += d.Arity
	}
	return n
}

// Offset returns the first slot occupied by the i-th variable.
func (v Variables) Offset(i int) int {
	n := 0
	for _, d := range v[:i] {
		n += d.Arity
	}
	return n
}

// Code is the listing shown alongside every frame of a sequence.
// It is shared read-only between frames.
type Code struct {
	Language string
	Source   string
	Vars     Variables
	FullSize bool
}

// Frame is one snapshot of algorithm state, shown on one stage.
type Frame struct {
	Highlight HighlightSelector
	Cursors   []Cursor
	Cells     []Cell
}

// Sequence is a complete trace: the frames in presentation order and
// the optional listing they are paired with.
type Sequence struct {
	Name   string
	Code   *Code
	Frames []Frame
}
