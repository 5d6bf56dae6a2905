package beamer

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/slidetrace/trace"
	"github.com/matt-g-everett/slidetrace/util"
)

// Hue is a named palette family.
type Hue struct {
	Angle  float64
	Chroma float64
}

// HueTable maps hue names to their HCL parameters.
type HueTable map[string]Hue

// DefaultHues are the palette families understood by NewPalette.
var DefaultHues = HueTable{
	"cherry": {Angle: 15.0, Chroma: 0.55},
	"orange": {Angle: 50.0, Chroma: 0.6},
	"banana": {Angle: 88.0, Chroma: 0.6},
	"lime":   {Angle: 125.0, Chroma: 0.55},
	"mint":   {Angle: 165.0, Chroma: 0.4},
	"sky":    {Angle: 230.0, Chroma: 0.35},
	"ocean":  {Angle: 260.0, Chroma: 0.5},
	"grape":  {Angle: 305.0, Chroma: 0.5},
	"slate":  {Angle: 250.0, Chroma: 0.08},
}

const (
	intensityStep = 50
	maxIntensity  = 900
)

// Palette resolves trace colour tags to RGB.
type Palette struct {
	hues HueTable
	lut  map[int]float64
}

// NewPalette creates a Palette over the given hues. A nil table uses DefaultHues.
func NewPalette(hues HueTable) *Palette {
	p := new(Palette)
	if hues == nil {
		hues = DefaultHues
	}
	p.hues = hues
	p.lut = util.GenerateLut(intensityStep, maxIntensity)
	return p
}

// Resolve returns the colour of tag c.
func (p *Palette) Resolve(c trace.Color) (colorful.Color, error) {
	hue, ok := p.hues[c.Hue()]
	if !ok {
		return colorful.Color{}, fmt.Errorf("%w: %q", trace.ErrUnknownColor, string(c))
	}
	l, ok := p.lut[c.Intensity()]
	if !ok || c.Intensity() == 0 {
		return colorful.Color{}, fmt.Errorf("%w: %q has no intensity %d", trace.ErrUnknownColor, string(c), c.Intensity())
	}
	return colorful.Hcl(hue.Angle, hue.Chroma, l).Clamped(), nil
}

// HTML returns the colour of tag c in xcolor's HTML model, e.g. "F3E2A9".
func (p *Palette) HTML(c trace.Color) (string, error) {
	col, err := p.Resolve(c)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(strings.TrimPrefix(col.Hex(), "#")), nil
}
