// Package beamer renders single frames and listings as LaTeX for the
// Beamer class. It is the default trace.Renderer.
package beamer

import (
	"github.com/matt-g-everett/slidetrace/trace"
)

// DefaultHighlight is the background of highlighted listing lines.
const DefaultHighlight trace.Color = "banana100"

// Preamble declares the packages and macros the rendered markup relies on.
const Preamble = `\usepackage[table]{xcolor}
\usepackage{listings}
\usepackage{lstlinebgrd}
\providecommand{\tracecellemph}[1]{#1}
`

// Renderer renders cells as tabular rows and code as lstlisting blocks.
type Renderer struct {
	palette   *Palette
	highlight string
}

// NewRenderer creates a Renderer. highlight is the palette tag used behind
// highlighted source lines; NoColor selects DefaultHighlight.
func NewRenderer(palette *Palette, highlight trace.Color) (*Renderer, error) {
	r := new(Renderer)
	if palette == nil {
		palette = NewPalette(nil)
	}
	if highlight.IsNone() {
		highlight = DefaultHighlight
	}

	html, err := palette.HTML(highlight)
	if err != nil {
		return nil, err
	}

	r.palette = palette
	r.highlight = html
	return r, nil
}

var _ trace.Renderer = (*Renderer)(nil)
