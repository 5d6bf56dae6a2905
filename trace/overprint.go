package trace

import (
	"bufio"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/matt-g-everett/slidetrace/internal/logging"
)

const (
	overprintBegin = "\\begin{overprint}\n"
	overprintEnd   = "\\end{overprint}\n"
	centerBegin    = "\\begin{center}\n"
	centerEnd      = "\\end{center}\n"
	listingBegin   = "\\begin{lstlisting}"
	listingEnd     = "\\end{lstlisting}"
)

// Stacker renders frame sequences into a Beamer overprint environment,
// one stage per frame.
type Stacker struct {
	log *slog.Logger
}

// NewStacker creates a Stacker. A nil logger discards output.
func NewStacker(logger *slog.Logger) *Stacker {
	s := new(Stacker)
	if logger == nil {
		logger = logging.NewNop()
	}
	s.log = logger
	return s
}

// Render renders frames with a Stacker that does not log.
func Render(frames []Frame, code *Code, r Renderer) (string, error) {
	return NewStacker(nil).Render(frames, code, r)
}

// Document is a rendered overprint fragment together with the body of
// each of its stages, in stage order.
type Document struct {
	Text   string
	Stages []string
}

// Render produces the overprint fragment for frames.
func (s *Stacker) Render(frames []Frame, code *Code, r Renderer) (string, error) {
	doc, err := s.RenderStages(frames, code, r)
	if err != nil {
		return "", err
	}
	return doc.Text, nil
}

// RenderStages produces the overprint fragment for frames and keeps the
// body of every stage. When code is nil only the cells of each frame are
// rendered. Cells are laid out over the slots of code.Vars, or over the
// frame's own cells when none are declared.
func (s *Stacker) RenderStages(frames []Frame, code *Code, r Renderer) (Document, error) {
	var sb strings.Builder
	sb.WriteString(overprintBegin)
	stages := make([]string, 0, len(frames))

	for i, f := range frames {
		stage := i + 1
		sb.WriteString(stageMarker(stage))

		var body strings.Builder
		if code != nil {
			listing, err := r.RenderCode(code.Language, code.Source, f.Highlight, code.FullSize)
			if err != nil {
				return Document{}, stageError(stage, "render code", err)
			}
			writeCentered(&body, listing)

			slots, vars := code.Vars.Slots(), code.Vars
			if len(vars) == 0 {
				slots, vars = len(f.Cells), nil
			}
			cells, err := r.RenderCells(slots, vars, f.Cursors, f.Cells)
			if err != nil {
				return Document{}, stageError(stage, "render cells", err)
			}
			writeCentered(&body, cells)
		} else {
			cells, err := r.RenderCells(len(f.Cells), nil, nil, f.Cells)
			if err != nil {
				return Document{}, stageError(stage, "render cells", err)
			}
			writeCentered(&body, cells)
		}

		sb.WriteString(body.String())
		stages = append(stages, body.String())
		s.log.Debug("rendered stage", "stage", stage, "cells", len(f.Cells))
	}

	sb.WriteString(overprintEnd)
	s.log.Debug("rendered sequence", "stages", len(frames), "code", code != nil)
	return Document{Text: sb.String(), Stages: stages}, nil
}

// stageMarker shows a stage at the same index on screen and in handouts.
func stageMarker(stage int) string {
	return fmt.Sprintf("\\onslide<%[1]d|handout:%[1]d>\n", stage)
}

func writeCentered(sb *strings.Builder, body string) {
	sb.WriteString(centerBegin)
	sb.WriteString(body)
	if body != "" && !strings.HasSuffix(body, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString(centerEnd)
}

var stageMarkerRe = regexp.MustCompile(`^\\onslide<(\d+)\|handout:(\d+)>$`)

// CountStages parses the stage markers of a rendered fragment and returns
// their indices in document order. Markers count only on a line of their
// own outside listings. A marker whose two indices differ is an error.
func CountStages(doc string) ([]int, error) {
	var stages []int
	inListing := false

	scanner := bufio.NewScanner(strings.NewReader(doc))
	scanner.Buffer(make([]byte, 0, 64*1024), len(doc)+1)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case inListing:
			if strings.HasPrefix(strings.TrimSpace(line), listingEnd) {
				inListing = false
			}
			continue
		case strings.HasPrefix(line, listingBegin):
			inListing = true
			continue
		}

		m := stageMarkerRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		on, _ := strconv.Atoi(m[1])
		handout, _ := strconv.Atoi(m[2])
		if on != handout {
			return nil, fmt.Errorf("stage marker %q: slide %d differs from handout %d", m[0], on, handout)
		}
		stages = append(stages, on)
	}
	return stages, scanner.Err()
}
