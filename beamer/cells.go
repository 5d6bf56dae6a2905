package beamer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matt-g-everett/slidetrace/trace"
)

// RenderCells renders one row of boxed cells, with a header naming the
// variables and a row of cursor marks when vars are given.
func (r *Renderer) RenderCells(slots int, vars trace.Variables, cursors []trace.Cursor, cells []trace.Cell) (string, error) {
	if len(cells) != slots {
		return "", fmt.Errorf("%d cells for %d slots: %w", len(cells), slots, trace.ErrShapeMismatch)
	}
	if vars != nil && vars.Slots() != slots {
		return "", fmt.Errorf("variables span %d slots, frame has %d: %w", vars.Slots(), slots, trace.ErrShapeMismatch)
	}
	if len(cursors) > len(vars) {
		return "", fmt.Errorf("%d cursors for %d variables: %w", len(cursors), len(vars), trace.ErrShapeMismatch)
	}
	if slots == 0 {
		return "", nil
	}

	marks, err := cursorMarks(vars, cursors)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("\\begin{tabular}{")
	sb.WriteString(strings.Repeat("|c", slots))
	sb.WriteString("|}\n")

	if len(vars) > 0 {
		header := make([]string, len(vars))
		for i, v := range vars {
			header[i] = fmt.Sprintf("\\multicolumn{%d}{c}{\\texttt{%s}}", v.Arity, escape(v.Name))
		}
		sb.WriteString(strings.Join(header, " & "))
		sb.WriteString(" \\\\\n")
	}

	sb.WriteString("\\hline\n")
	boxes := make([]string, len(cells))
	for i, c := range cells {
		box, err := r.cell(c)
		if err != nil {
			return "", err
		}
		boxes[i] = box
	}
	sb.WriteString(strings.Join(boxes, " & "))
	sb.WriteString(" \\\\\n\\hline\n")

	if len(marks) > 0 {
		row := make([]string, slots)
		for col := range row {
			row[col] = fmt.Sprintf("\\multicolumn{1}{c}{%s}", marks[col])
		}
		sb.WriteString(strings.Join(row, " & "))
		sb.WriteString(" \\\\\n")
	}

	sb.WriteString("\\end{tabular}\n")
	return sb.String(), nil
}

func (r *Renderer) cell(c trace.Cell) (string, error) {
	label := "\\phantom{X}"
	if !c.IsBlank() {
		label = escape(c.Label)
	}
	if c.Emphasized {
		label = "\\tracecellemph{" + label + "}"
	}
	if c.Color.IsNone() {
		return label, nil
	}

	html, err := r.palette.HTML(c.Color)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("\\cellcolor[HTML]{%s}%s", html, label), nil
}

// cursorMarks maps cursors of array variables onto columns. Cursors of
// scalar variables are shown by the variable's own cell and get no mark.
func cursorMarks(vars trace.Variables, cursors []trace.Cursor) (map[int]string, error) {
	current := make(map[int][]string)
	previous := make(map[int][]string)

	for i, c := range cursors {
		v := vars[i]
		if v.Arity < 2 {
			continue
		}
		for _, pos := range []int{c.Current, c.Previous} {
			if pos < 0 || pos >= v.Arity {
				return nil, fmt.Errorf("cursor %s at %d outside [0, %d): %w", v.Name, pos, v.Arity, trace.ErrShapeMismatch)
			}
		}

		off := vars.Offset(i)
		current[off+c.Current] = append(current[off+c.Current], v.Name)
		if c.Previous != c.Current {
			previous[off+c.Previous] = append(previous[off+c.Previous], v.Name)
		}
	}

	if len(current) == 0 {
		return nil, nil
	}

	marks := make(map[int]string, vars.Slots())
	for col := 0; col < vars.Slots(); col++ {
		switch {
		case len(current[col]) > 0:
			marks[col] = "$\\uparrow$\\scriptsize " + names(current[col])
		case len(previous[col]) > 0:
			marks[col] = "\\textcolor{gray}{$\\uparrow$}"
		default:
			marks[col] = ""
		}
	}
	return marks, nil
}

func names(n []string) string {
	sorted := append([]string(nil), n...)
	sort.Strings(sorted)
	for i, s := range sorted {
		sorted[i] = escape(s)
	}
	return strings.Join(sorted, ",")
}

var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`#`, `\#`,
	`%`, `\%`,
	`_`, `\_`,
	`^`, `\textasciicircum{}`,
	`~`, `\textasciitilde{}`,
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
)

// escape quotes LaTeX specials and folds line breaks, which would end the
// tabular row, into spaces.
func escape(s string) string {
	return latexEscaper.Replace(s)
}
