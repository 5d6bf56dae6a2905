package trace_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matt-g-everett/slidetrace/trace"
)

type cellsCall struct {
	Slots   int
	Vars    trace.Variables
	Cursors []trace.Cursor
	Cells   []trace.Cell
}

type codeCall struct {
	Language string
	Source   string
	Sel      trace.HighlightSelector
	FullSize bool
}

// recorder is a rendering collaborator that records every call.
type recorder struct {
	cells   []cellsCall
	code    []codeCall
	cellErr error
	codeErr error
	failAt  int
}

func (r *recorder) RenderCells(slots int, vars trace.Variables, cursors []trace.Cursor, cells []trace.Cell) (string, error) {
	r.cells = append(r.cells, cellsCall{Slots: slots, Vars: vars, Cursors: cursors, Cells: cells})
	if r.cellErr != nil && len(r.cells) >= r.failAt {
		return "", r.cellErr
	}
	labels := make([]string, len(cells))
	for i, c := range cells {
		labels[i] = c.Label
	}
	return fmt.Sprintf("cells:%s", strings.Join(labels, ",")), nil
}

func (r *recorder) RenderCode(language, source string, sel trace.HighlightSelector, fullSize bool) (string, error) {
	r.code = append(r.code, codeCall{Language: language, Source: source, Sel: sel, FullSize: fullSize})
	if r.codeErr != nil {
		return "", r.codeErr
	}
	return fmt.Sprintf("code:%s:%v", language, sel), nil
}

func row(labels ...string) []trace.Cell {
	cells := make([]trace.Cell, len(labels))
	for i, l := range labels {
		cells[i] = trace.Cell{Label: l}
	}
	return cells
}

func TestRender_CellsOnly(t *testing.T) {
	frames := []trace.Frame{
		{Cells: row("A", "B")},
		{Cells: row("B", "A")},
	}
	rec := &recorder{}

	got, err := trace.Render(frames, nil, rec)
	require.NoError(t, err)

	want := "\\begin{overprint}\n" +
		"\\onslide<1|handout:1>\n" +
		"\\begin{center}\ncells:A,B\n\\end{center}\n" +
		"\\onslide<2|handout:2>\n" +
		"\\begin{center}\ncells:B,A\n\\end{center}\n" +
		"\\end{overprint}\n"
	assert.Equal(t, want, got)

	assert.Empty(t, rec.code, "no listing should be rendered without code")
	require.Len(t, rec.cells, 2)
	assert.Equal(t, cellsCall{Slots: 2, Cells: row("A", "B")}, rec.cells[0])
	assert.Equal(t, cellsCall{Slots: 2, Cells: row("B", "A")}, rec.cells[1])
}

func TestRender_WithCode(t *testing.T) {
	code := &trace.Code{
		Language: "java",
		Source:   "line1\nline2",
		Vars:     trace.Variables{{Name: "a", Arity: 1}},
	}
	frames := []trace.Frame{{
		Highlight: trace.Lines(2),
		Cursors:   []trace.Cursor{{Current: 1, Previous: 1}},
		Cells:     row("X"),
	}}
	rec := &recorder{}

	got, err := trace.Render(frames, code, rec)
	require.NoError(t, err)

	want := "\\begin{overprint}\n" +
		"\\onslide<1|handout:1>\n" +
		"\\begin{center}\ncode:java:[{2 2}]\n\\end{center}\n" +
		"\\begin{center}\ncells:X\n\\end{center}\n" +
		"\\end{overprint}\n"
	assert.Equal(t, want, got)

	require.Len(t, rec.code, 1)
	assert.Equal(t, codeCall{Language: "java", Source: "line1\nline2", Sel: trace.Lines(2)}, rec.code[0])
	require.Len(t, rec.cells, 1)
	assert.Equal(t, 1, rec.cells[0].Slots)
	assert.Equal(t, code.Vars, rec.cells[0].Vars)
	assert.Equal(t, []trace.Cursor{{Current: 1, Previous: 1}}, rec.cells[0].Cursors)
	assert.Equal(t, row("X"), rec.cells[0].Cells)
}

func TestRender_SlotsFollowVariableArity(t *testing.T) {
	code := &trace.Code{
		Language: "java",
		Vars:     trace.Variables{{Name: "i", Arity: 1}, {Name: "j", Arity: 1}, {Name: "a", Arity: 6}},
	}
	frames := []trace.Frame{{Cells: row(" ", " ", "T", "U", "R", "I", "N", "G")}}
	rec := &recorder{}

	_, err := trace.Render(frames, code, rec)
	require.NoError(t, err)
	require.Len(t, rec.cells, 1)
	assert.Equal(t, 8, rec.cells[0].Slots)
}

func TestRender_Empty(t *testing.T) {
	rec := &recorder{}

	got, err := trace.Render(nil, &trace.Code{Language: "java"}, rec)
	require.NoError(t, err)
	assert.Equal(t, "\\begin{overprint}\n\\end{overprint}\n", got)

	stages, err := trace.CountStages(got)
	require.NoError(t, err)
	assert.Empty(t, stages)
	assert.Empty(t, rec.cells)
	assert.Empty(t, rec.code)
}

func TestRender_StageNumbering(t *testing.T) {
	for _, n := range []int{1, 2, 9, 10, 32} {
		t.Run(fmt.Sprintf("%d frames", n), func(t *testing.T) {
			frames := make([]trace.Frame, n)
			for i := range frames {
				frames[i] = trace.Frame{Cells: row(fmt.Sprint(i))}
			}

			got, err := trace.Render(frames, nil, &recorder{})
			require.NoError(t, err)

			stages, err := trace.CountStages(got)
			require.NoError(t, err)
			require.Len(t, stages, n)
			for i, s := range stages {
				assert.Equal(t, i+1, s)
			}
		})
	}
}

func TestRender_OrderPreserving(t *testing.T) {
	frames := []trace.Frame{{Cells: row("A")}, {Cells: row("B")}, {Cells: row("C")}}
	permuted := []trace.Frame{frames[2], frames[0], frames[1]}

	got, err := trace.Render(permuted, nil, &recorder{})
	require.NoError(t, err)

	a := strings.Index(got, "cells:A")
	b := strings.Index(got, "cells:B")
	c := strings.Index(got, "cells:C")
	assert.True(t, c < a && a < b, "stages should follow input order:\n%s", got)
	assert.True(t, strings.Index(got, "\\onslide<1|handout:1>") < c)
}

func TestRender_Deterministic(t *testing.T) {
	code := &trace.Code{Language: "java", Source: "x", Vars: trace.Variables{{Name: "a", Arity: 2}}}
	frames := []trace.Frame{
		{Highlight: trace.Lines(1), Cells: row("A", "B")},
		{Highlight: trace.HighlightSelector{trace.Span(3, 1)}, Cells: row("B", "A")},
	}

	first, err := trace.Render(frames, code, &recorder{})
	require.NoError(t, err)
	second, err := trace.Render(frames, code, &recorder{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, row("A", "B"), frames[0].Cells, "inputs must not be mutated")
}

func TestRender_Errors(t *testing.T) {
	code := &trace.Code{Language: "java", Vars: trace.Variables{{Name: "a", Arity: 1}}}
	frames := []trace.Frame{{Cells: row("A")}, {Cells: row("B")}}

	t.Run("shape mismatch", func(t *testing.T) {
		rec := &recorder{cellErr: fmt.Errorf("3 cells for 1 slot: %w", trace.ErrShapeMismatch), failAt: 2}
		_, err := trace.Render(frames, code, rec)
		require.Error(t, err)

		var invalid *trace.InvalidFrameError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, 2, invalid.Stage)
		assert.ErrorIs(t, err, trace.ErrShapeMismatch)
	})

	t.Run("collaborator failure", func(t *testing.T) {
		rec := &recorder{codeErr: fmt.Errorf("cobol: %w", trace.ErrUnsupportedLanguage)}
		_, err := trace.Render(frames, code, rec)
		require.Error(t, err)

		var collab *trace.CollaboratorError
		require.ErrorAs(t, err, &collab)
		assert.Equal(t, 1, collab.Stage)
		assert.Equal(t, "render code", collab.Op)
		assert.ErrorIs(t, err, trace.ErrUnsupportedLanguage)
		assert.Len(t, rec.cells, 0, "rendering stops at the first failure")
	})

	t.Run("cells failure without code", func(t *testing.T) {
		boom := errors.New("boom")
		rec := &recorder{cellErr: boom, failAt: 1}
		_, err := trace.Render(frames, nil, rec)

		var collab *trace.CollaboratorError
		require.ErrorAs(t, err, &collab)
		assert.Equal(t, "render cells", collab.Op)
		assert.ErrorIs(t, err, boom)
	})
}

func TestCountStages_MismatchedMarker(t *testing.T) {
	_, err := trace.CountStages("\\onslide<3|handout:4>\n")
	assert.Error(t, err)
}

func TestRenderStages(t *testing.T) {
	frames := []trace.Frame{{Cells: row("A")}, {Cells: row("B")}}
	doc, err := trace.NewStacker(nil).RenderStages(frames, nil, &recorder{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"\\begin{center}\ncells:A\n\\end{center}\n",
		"\\begin{center}\ncells:B\n\\end{center}\n",
	}, doc.Stages)

	text, err := trace.Render(frames, nil, &recorder{})
	require.NoError(t, err)
	assert.Equal(t, text, doc.Text)

	empty, err := trace.NewStacker(nil).RenderStages(nil, nil, &recorder{})
	require.NoError(t, err)
	assert.Empty(t, empty.Stages)
	assert.Equal(t, "\\begin{overprint}\n\\end{overprint}\n", empty.Text)
}

// listing renders code the way listings-based collaborators do: verbatim
// between lstlisting delimiters.
type listing struct{ recorder }

func (l *listing) RenderCode(_, source string, _ trace.HighlightSelector, _ bool) (string, error) {
	return "\\begin{lstlisting}[language=Java]\n" + source + "\n\\end{lstlisting}\n", nil
}

func TestRenderStages_MarkerTextInListing(t *testing.T) {
	code := &trace.Code{
		Language: "java",
		Source:   "\\onslide<7|handout:7>\n// \\onslide<8|handout:8>",
		Vars:     trace.Variables{{Name: "a", Arity: 1}},
	}
	frames := []trace.Frame{{Cells: row("X")}, {Cells: row("Y")}}

	doc, err := trace.NewStacker(nil).RenderStages(frames, code, &listing{})
	require.NoError(t, err)

	stages, err := trace.CountStages(doc.Text)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, stages)

	require.Len(t, doc.Stages, 2)
	assert.Contains(t, doc.Stages[0], "\\onslide<7|handout:7>")
	assert.Contains(t, doc.Stages[0], "cells:X")
	assert.Contains(t, doc.Stages[1], "cells:Y")
}

func TestRender_CodeWithoutVariables(t *testing.T) {
	code := &trace.Code{Language: "java", Source: "x"}
	rec := &recorder{}

	_, err := trace.Render([]trace.Frame{{Cells: row("A", "B", "C")}}, code, rec)
	require.NoError(t, err)
	require.Len(t, rec.cells, 1)
	assert.Equal(t, 3, rec.cells[0].Slots)
	assert.Nil(t, rec.cells[0].Vars)
	assert.Len(t, rec.code, 1)
}
