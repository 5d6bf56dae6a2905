package beamer

import (
	"fmt"
	"strings"

	"github.com/matt-g-everett/slidetrace/trace"
)

var languages = map[string]string{
	"java":    "Java",
	"python":  "Python",
	"c":       "C",
	"c++":     "C++",
	"cpp":     "C++",
	"haskell": "Haskell",
	"bash":    "bash",
	"sql":     "SQL",
}

// RenderCode renders source as a listing whose selected lines get the
// highlight background.
func (r *Renderer) RenderCode(language, source string, sel trace.HighlightSelector, fullSize bool) (string, error) {
	lang, ok := languages[strings.ToLower(language)]
	if !ok {
		return "", fmt.Errorf("%w: %q", trace.ErrUnsupportedLanguage, language)
	}

	source = strings.TrimRight(source, "\n")
	lineCount := strings.Count(source, "\n") + 1
	listing := trace.Span(1, lineCount)
	for _, lr := range sel {
		if !listing.Contains(lr.From) || !listing.Contains(lr.To) {
			return "", fmt.Errorf("highlight %d-%d outside listing of %d lines: %w", lr.From, lr.To, lineCount, trace.ErrShapeMismatch)
		}
	}

	size := "\\scriptsize"
	if fullSize {
		size = "\\small"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\\begin{lstlisting}[language=%s,basicstyle=%s\\ttfamily", lang, size)
	if len(sel) > 0 {
		sb.WriteString(",linebackgroundcolor={")
		for _, lr := range sel {
			sb.WriteString(r.lineCondition(lr))
		}
		sb.WriteString("}")
	}
	sb.WriteString("]\n")
	sb.WriteString(source)
	sb.WriteString("\n\\end{lstlisting}\n")
	return sb.String(), nil
}

func (r *Renderer) lineCondition(lr trace.LineRange) string {
	paint := fmt.Sprintf("\\color[HTML]{%s}", r.highlight)
	if lr.From == lr.To {
		return fmt.Sprintf("\\ifnum\\value{lstnumber}=%d%s\\fi", lr.From, paint)
	}
	return fmt.Sprintf("\\ifnum\\value{lstnumber}>%d\\ifnum\\value{lstnumber}<%d%s\\fi\\fi", lr.From-1, lr.To+1, paint)
}
