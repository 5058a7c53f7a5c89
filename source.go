package pixelart

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Source is a bitmap as written by hand. In YAML it looks like
//
//	rows:
//	  - " rr "
//	  - "rbbr"
//	palette:
//	  r: red
//	  b: "#0000ff"
//
// rows may also be a single block scalar with one row per line. The order of
// the palette keys is kept.
type Source struct {
	Rows    []string
	Palette Palette
}

func splitRows(s string) []string {
	s = strings.TrimSuffix(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func decodeRows(n *yaml.Node) ([]string, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return splitRows(n.Value), nil
	case yaml.SequenceNode:
		rows := make([]string, 0, len(n.Content))
		for _, c := range n.Content {
			if c.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("%w: line %d: row is not a string", ErrMalformedInput, c.Line)
			}
			rows = append(rows, c.Value)
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("%w: line %d: rows must be a string or a list of strings", ErrMalformedInput, n.Line)
	}
}

func decodePalette(n *yaml.Node) (Palette, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: palette must be a mapping", ErrMalformedInput, n.Line)
	}

	p := make(Palette, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: line %d: palette entries must be strings", ErrMalformedInput, k.Line)
		}
		label, size := utf8.DecodeRuneInString(k.Value)
		if size == 0 || size != len(k.Value) {
			return nil, fmt.Errorf("%w: line %d: palette key %q is not a single character", ErrMalformedInput, k.Line, k.Value)
		}
		p = append(p, Swatch{Label: label, Color: v.Value})
	}

	return p, nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (s *Source) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: line %d: source must be a mapping", ErrMalformedInput, n.Line)
	}

	var src Source
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]

		var err error
		switch k.Value {
		case "rows":
			src.Rows, err = decodeRows(v)
		case "palette":
			src.Palette, err = decodePalette(v)
		default:
			err = fmt.Errorf("%w: line %d: unknown key %q", ErrMalformedInput, k.Line, k.Value)
		}
		if err != nil {
			return err
		}
	}

	*s = src
	return nil
}

func quoted(s string) *yaml.Node {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!str",
		Style: yaml.DoubleQuotedStyle,
		Value: s,
	}
}

// MarshalYAML implements the yaml.Marshaler interface.
func (s Source) MarshalYAML() (interface{}, error) {
	rows := &yaml.Node{Kind: yaml.SequenceNode}
	for _, r := range s.Rows {
		rows.Content = append(rows.Content, quoted(r))
	}

	palette := &yaml.Node{Kind: yaml.MappingNode}
	for _, sw := range s.Palette {
		palette.Content = append(palette.Content, quoted(string(sw.Label)), quoted(sw.Color))
	}

	return &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Value: "rows"}, rows,
			{Kind: yaml.ScalarNode, Value: "palette"}, palette,
		},
	}, nil
}

// LoadSource reads a YAML, or JSON, source from r.
func LoadSource(r io.Reader) (*Source, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}

	src := new(Source)
	if err := yaml.Unmarshal(b, src); err != nil {
		return nil, err
	}
	if src.Rows == nil {
		return nil, fmt.Errorf("%w: source has no rows", ErrMalformedInput)
	}

	return src, nil
}

// Bytes returns the YAML form of s.
func (s *Source) Bytes() ([]byte, error) {
	buf := new(bytes.Buffer)
	e := yaml.NewEncoder(buf)
	e.SetIndent(2)
	if err := e.Encode(s); err != nil {
		return nil, err
	}
	if err := e.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
