package trace

// A Renderer turns a single frame or listing into markup.
type Renderer interface {
	RenderCells(slots int, vars Variables, cursors []Cursor, cells []Cell) (string, error)
	RenderCode(language, source string, sel HighlightSelector, fullSize bool) (string, error)
}
