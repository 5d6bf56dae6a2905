package trace

import (
	"fmt"
	"strconv"
	"strings"
)

// NoColor leaves a cell unfilled.
const NoColor Color = ""

// Color is a palette tag made of a hue name followed by an intensity,
// e.g. "grape300". It is opaque to the renderer and resolved by the
// rendering collaborator.
type Color string

// ParseColor validates a palette tag. The empty string is NoColor.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NoColor, nil
	}

	i := strings.IndexAny(s, "0123456789")
	if i <= 0 {
		return NoColor, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	for _, r := range s[:i] {
		if r < 'a' || r > 'z' {
			return NoColor, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
	}
	if _, err := strconv.Atoi(s[i:]); err != nil {
		return NoColor, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	return Color(s), nil
}

// Hue returns the hue part of the tag.
func (c Color) Hue() string {
	i := strings.IndexAny(string(c), "0123456789")
	if i < 0 {
		return string(c)
	}
	return string(c[:i])
}

// Intensity returns the numeric part of the tag, or 0 for NoColor.
func (c Color) Intensity() int {
	i := strings.IndexAny(string(c), "0123456789")
	if i < 0 {
		return 0
	}
	n, _ := strconv.Atoi(string(c[i:]))
	return n
}

// IsNone reports whether the cell should stay unfilled.
func (c Color) IsNone() bool {
	return c == NoColor
}

// Cell is the content of one slot in a frame.
type Cell struct {
	Label string
	Color Color
	// Emphasized is handed to the rendering collaborator untouched.
	Emphasized bool
}

// IsBlank reports whether the cell renders as a placeholder.
func (c Cell) IsBlank() bool {
	return strings.TrimSpace(c.Label) == ""
}
