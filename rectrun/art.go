package rectrun

import (
	"bytes"
	"fmt"
	"strconv"
)

// CanvasSize is the edge in pixels of the square canvas the scale factor is
// chosen for.
const CanvasSize = 400

// Scale returns the largest whole pixel size at which a width by height
// bitmap still fits the canvas.
func Scale(width, height int) int {
	m := width
	if height > m {
		m = height
	}
	if m < 1 {
		return 0
	}
	return CanvasSize / m
}

// Art is a compressed bitmap. It implements the encoding.TextMarshaler and
// encoding.TextUnmarshaler interfaces using the literal
//
//	{
//	  m:"<runs>",
//	  p:"<palette>",
//	  w:<width>,
//	  h:<height>,
//	  s:<scale>,
//	}
type Art struct {
	Runs    string
	Palette string
	Width   int
	Height  int
	Scale   int
}

// Rects decodes the run string.
func (a *Art) Rects() ([]Rect, error) {
	return DecodeRects(a.Runs, a.Width, a.Height)
}

// Entries decodes the palette string.
func (a *Art) Entries() ([]Entry, error) {
	return DecodePalette(a.Palette)
}

func (a *Art) String() string {
	b, _ := a.MarshalText()
	return string(b)
}

// MarshalText encodes the art into its literal form.
func (a *Art) MarshalText() ([]byte, error) {
	b := new(bytes.Buffer)
	fmt.Fprintf(b, "{\n  m:\"%s\",\n  p:\"%s\",\n  w:%d,\n  h:%d,\n  s:%d,\n}", a.Runs, a.Palette, a.Width, a.Height, a.Scale)
	return b.Bytes(), nil
}

type literalScanner struct {
	s []byte
	i int
}

func (l *literalScanner) skip() {
	for l.i < len(l.s) {
		switch l.s[l.i] {
		case ' ', '\t', '\n', '\r', ',':
			l.i++
		default:
			return
		}
	}
}

func (l *literalScanner) expect(c byte) error {
	l.skip()
	if l.i >= len(l.s) || l.s[l.i] != c {
		return fmt.Errorf("%w: expected %q at offset %d", ErrSyntax, c, l.i)
	}
	l.i++
	return nil
}

func (l *literalScanner) key() string {
	l.skip()
	start := l.i
	for l.i < len(l.s) && (l.s[l.i] >= 'a' && l.s[l.i] <= 'z' || l.s[l.i] >= 'A' && l.s[l.i] <= 'Z') {
		l.i++
	}
	return string(l.s[start:l.i])
}

func (l *literalScanner) quoted() (string, error) {
	if err := l.expect('"'); err != nil {
		return "", err
	}
	end := bytes.IndexByte(l.s[l.i:], '"')
	if end < 0 {
		return "", fmt.Errorf("%w: unterminated string at offset %d", ErrSyntax, l.i)
	}
	v := string(l.s[l.i : l.i+end])
	l.i += end + 1
	return v, nil
}

func (l *literalScanner) number() (int, error) {
	l.skip()
	start := l.i
	if l.i < len(l.s) && l.s[l.i] == '-' {
		l.i++
	}
	for l.i < len(l.s) && l.s[l.i] >= '0' && l.s[l.i] <= '9' {
		l.i++
	}
	n, err := strconv.Atoi(string(l.s[start:l.i]))
	if err != nil {
		return 0, fmt.Errorf("%w: bad number at offset %d", ErrSyntax, start)
	}
	return n, nil
}

// UnmarshalText decodes the literal form. The scale may be omitted, in which
// case it is derived from the dimensions.
func (a *Art) UnmarshalText(text []byte) error {
	l := &literalScanner{s: bytes.TrimSpace(text)}
	if err := l.expect('{'); err != nil {
		return err
	}

	var art Art
	seen := make(map[string]bool)
	for {
		l.skip()
		if l.i < len(l.s) && l.s[l.i] == '}' {
			l.i++
			break
		}

		k := l.key()
		if seen[k] {
			return fmt.Errorf("%w: duplicate key %q", ErrSyntax, k)
		}
		seen[k] = true
		if err := l.expect(':'); err != nil {
			return err
		}

		var err error
		switch k {
		case "m":
			art.Runs, err = l.quoted()
		case "p":
			art.Palette, err = l.quoted()
		case "w":
			art.Width, err = l.number()
		case "h":
			art.Height, err = l.number()
		case "s":
			art.Scale, err = l.number()
		default:
			err = fmt.Errorf("%w: unknown key %q", ErrSyntax, k)
		}
		if err != nil {
			return err
		}
	}

	if l.skip(); l.i != len(l.s) {
		return fmt.Errorf("%w: trailing data at offset %d", ErrSyntax, l.i)
	}
	for _, k := range []string{"m", "w", "h"} {
		if !seen[k] {
			return fmt.Errorf("%w: missing key %q", ErrSyntax, k)
		}
	}
	if art.Width < 1 || art.Height < 1 || art.Width > MaxSize || art.Height > MaxSize {
		return fmt.Errorf("%w: bitmap is %dx%d", ErrSyntax, art.Width, art.Height)
	}
	if !seen["s"] {
		art.Scale = Scale(art.Width, art.Height)
	}

	*a = art
	return nil
}
