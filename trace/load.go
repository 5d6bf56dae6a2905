package trace

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v2"
)

type codeDoc struct {
	Language string     `yaml:"language"`
	Source   string     `yaml:"source"`
	Vars     []Variable `yaml:"vars"`
	FullSize bool       `yaml:"fullSize"`
}

type frameDoc struct {
	Highlight []LineRange `yaml:"highlight"`
	Cursors   []Cursor    `yaml:"cursors"`
	Cells     []Cell      `yaml:"cells"`
}

type sequenceDoc struct {
	Name string `yaml:"name"`
	// Palette names the colors a file uses so cells can refer to them
	// through YAML anchors.
	Palette []string   `yaml:"palette"`
	Code    *codeDoc   `yaml:"code"`
	Frames  []frameDoc `yaml:"frames"`
}

// Load reads a Sequence from a YAML file.
func Load(path string) (*Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	seq, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return seq, nil
}

// Decode reads a Sequence from YAML. Cells may be written in the compact
// form [label, color, emphasized]; line ranges as [from, to] or a single
// line number.
func Decode(r io.Reader) (*Sequence, error) {
	var doc sequenceDoc
	decoder := yaml.NewDecoder(r)
	decoder.SetStrict(true)
	if err := decoder.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	for _, p := range doc.Palette {
		if _, err := ParseColor(p); err != nil {
			return nil, fmt.Errorf("palette: %w", err)
		}
	}

	seq := &Sequence{Name: doc.Name}
	if doc.Code != nil {
		if doc.Code.Language == "" {
			return nil, errors.New("code: language is required")
		}
		seq.Code = &Code{
			Language: doc.Code.Language,
			Source:   doc.Code.Source,
			Vars:     Variables(doc.Code.Vars),
			FullSize: doc.Code.FullSize,
		}
	}

	seq.Frames = make([]Frame, 0, len(doc.Frames))
	for _, fd := range doc.Frames {
		seq.Frames = append(seq.Frames, Frame{
			Highlight: HighlightSelector(fd.Highlight),
			Cursors:   fd.Cursors,
			Cells:     fd.Cells,
		})
	}
	return seq, nil
}

// UnmarshalYAML accepts [label, color, emphasized], a mapping, or a bare label.
func (c *Cell) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case []interface{}:
		if len(v) == 0 || len(v) > 3 {
			return fmt.Errorf("cell: want [label, color, emphasized], got %d items", len(v))
		}
		var color string
		if len(v) > 1 {
			color = scalarString(v[1])
		}
		emphasized := false
		if len(v) > 2 {
			b, ok := v[2].(bool)
			if !ok {
				return fmt.Errorf("cell: emphasized must be a boolean, got %v", v[2])
			}
			emphasized = b
		}
		return c.set(scalarString(v[0]), color, emphasized)
	case map[interface{}]interface{}:
		var d struct {
			Label      string `yaml:"label"`
			Color      string `yaml:"color"`
			Emphasized bool   `yaml:"emphasized"`
		}
		if err := unmarshal(&d); err != nil {
			return err
		}
		return c.set(d.Label, d.Color, d.Emphasized)
	default:
		return c.set(scalarString(v), "", false)
	}
}

func (c *Cell) set(label, color string, emphasized bool) error {
	col, err := ParseColor(color)
	if err != nil {
		return fmt.Errorf("cell %q: %w", label, err)
	}
	*c = Cell{Label: label, Color: col, Emphasized: emphasized}
	return nil
}

// UnmarshalYAML accepts [from, to] or a single line number.
func (r *LineRange) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var line int
	if err := unmarshal(&line); err == nil {
		*r = LineRange{From: line, To: line}
		return nil
	}

	var pair []int
	if err := unmarshal(&pair); err != nil {
		return err
	}
	switch len(pair) {
	case 1:
		*r = LineRange{From: pair[0], To: pair[0]}
	case 2:
		*r = Span(pair[0], pair[1])
	default:
		return fmt.Errorf("line range: want [from, to], got %d items", len(pair))
	}
	return nil
}

// UnmarshalYAML accepts [current, previous] or a mapping.
func (c *Cursor) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var pair []int
	if err := unmarshal(&pair); err == nil {
		switch len(pair) {
		case 1:
			*c = Cursor{Current: pair[0], Previous: pair[0]}
		case 2:
			*c = Cursor{Current: pair[0], Previous: pair[1]}
		default:
			return fmt.Errorf("cursor: want [current, previous], got %d items", len(pair))
		}
		return nil
	}

	var d struct {
		Current  int `yaml:"current"`
		Previous int `yaml:"previous"`
	}
	if err := unmarshal(&d); err != nil {
		return err
	}
	*c = Cursor{Current: d.Current, Previous: d.Previous}
	return nil
}

// UnmarshalYAML accepts [name, arity] or a mapping.
func (v *Variable) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}

	if items, ok := raw.([]interface{}); ok {
		if len(items) != 2 {
			return fmt.Errorf("variable: want [name, arity], got %d items", len(items))
		}
		arity, ok := items[1].(int)
		if !ok || arity < 1 {
			return fmt.Errorf("variable %v: arity must be a positive integer", items[0])
		}
		*v = Variable{Name: scalarString(items[0]), Arity: arity}
		return nil
	}

	var d struct {
		Name  string `yaml:"name"`
		Arity int    `yaml:"arity"`
	}
	if err := unmarshal(&d); err != nil {
		return err
	}
	if d.Arity < 1 {
		return fmt.Errorf("variable %s: arity must be a positive integer", d.Name)
	}
	*v = Variable{Name: d.Name, Arity: d.Arity}
	return nil
}

func scalarString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
