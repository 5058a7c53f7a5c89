/*
Package rectrun implements the compact text encoding of a partitioned bitmap.

A bitmap is written as a run of rectangles sorted by their top-left corner in
row-major order. Each rectangle is written as

	[width][-height]label

where the width is omitted when it is 1 and the height, together with its
leading dash, is omitted when it is 1. There is no separator between
rectangles; positions are implied, as every rectangle starts at the first
cell not yet covered by an earlier one.

The palette is written as a run of signed 32-bit ARGB integers in decimal,
each directly followed by the label it colors. Blank labels are never part
of the palette.
*/
package rectrun

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	// ErrSyntax is returned when a run or palette string cannot be parsed.
	ErrSyntax = errors.New("rectrun: syntax error")
	// ErrTiling is returned when a decoded run does not tile the bitmap
	// exactly.
	ErrTiling = errors.New("rectrun: rectangles do not tile the bitmap")
)

// MaxSize is the largest width or height of a bitmap that can be encoded.
const MaxSize = 4096

// Rect is a rectangle of cells filled with a single label.
type Rect struct {
	X, Y int
	W, H int

	Label rune
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d%+d%+d %q", r.W, r.H, r.X, r.Y, r.Label)
}

// Blank reports whether label marks cells that are left unfilled.
func Blank(label rune) bool {
	return label == ' ' || label == '_'
}

// Reserved reports whether label cannot be used because it would be
// ambiguous in a run or palette string, or would break the literal.
func Reserved(label rune) bool {
	switch {
	case label >= '0' && label <= '9':
		return true
	case label == '-', label == '"', label == '\\', label == '\n', label == '\r':
		return true
	case label == utf8.RuneError:
		return true
	}
	return false
}

// Sort orders rects by their top edge, then their left edge.
func Sort(rects []Rect) {
	sort.Slice(rects, func(i, j int) bool {
		if rects[i].Y != rects[j].Y {
			return rects[i].Y < rects[j].Y
		}
		return rects[i].X < rects[j].X
	})
}

func appendRect(b *strings.Builder, r Rect) {
	if r.W > 1 {
		b.WriteString(strconv.Itoa(r.W))
	}
	if r.H > 1 {
		b.WriteByte('-')
		b.WriteString(strconv.Itoa(r.H))
	}
	b.WriteRune(r.Label)
}

// EncodeRects returns the run string for rects. The slice is not modified.
func EncodeRects(rects []Rect) string {
	sorted := append(rects[:0:0], rects...)
	Sort(sorted)

	var b strings.Builder
	for _, r := range sorted {
		appendRect(&b, r)
	}
	return b.String()
}

// scanInt reads a run of decimal digits starting at i. Values above MaxSize
// are rejected.
func scanInt(s []rune, i int) (int, int, bool) {
	j := i
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j == i {
		return 0, i, false
	}
	n, err := strconv.Atoi(string(s[i:j]))
	if err != nil || n > MaxSize {
		return 0, i, false
	}
	return n, j, true
}

func scanRect(s []rune, i int) (Rect, int, error) {
	r := Rect{W: 1, H: 1}

	if i < len(s) && s[i] >= '0' && s[i] <= '9' {
		n, j, ok := scanInt(s, i)
		if !ok || n < 1 {
			return r, i, fmt.Errorf("%w: bad width at offset %d", ErrSyntax, i)
		}
		r.W, i = n, j
	}

	if i < len(s) && s[i] == '-' {
		n, j, ok := scanInt(s, i+1)
		if !ok || n < 1 {
			return r, i, fmt.Errorf("%w: bad height at offset %d", ErrSyntax, i)
		}
		r.H, i = n, j
	}

	if i >= len(s) {
		return r, i, fmt.Errorf("%w: missing label at end of run", ErrSyntax)
	}
	if Reserved(s[i]) {
		return r, i, fmt.Errorf("%w: unexpected %q at offset %d", ErrSyntax, s[i], i)
	}
	r.Label = s[i]

	return r, i + 1, nil
}

// DecodeRects parses a run string for a bitmap of the given size and places
// every rectangle. The rectangles are returned in run order, which is also
// sorted order.
func DecodeRects(run string, width, height int) ([]Rect, error) {
	if width < 1 || height < 1 || width > MaxSize || height > MaxSize {
		return nil, fmt.Errorf("%w: bitmap is %dx%d", ErrTiling, width, height)
	}

	s := []rune(run)
	filled := make([]bool, width*height)
	cursor := 0

	var rects []Rect
	for i := 0; i < len(s); {
		r, next, err := scanRect(s, i)
		if err != nil {
			return nil, err
		}
		i = next

		for cursor < len(filled) && filled[cursor] {
			cursor++
		}
		if cursor == len(filled) {
			return nil, fmt.Errorf("%w: %v past the end of the bitmap", ErrTiling, r)
		}
		r.X, r.Y = cursor%width, cursor/width

		if r.W > width-r.X || r.H > height-r.Y {
			return nil, fmt.Errorf("%w: %v outside %dx%d", ErrTiling, r, width, height)
		}
		for y := r.Y; y < r.Y+r.H; y++ {
			for x := r.X; x < r.X+r.W; x++ {
				if filled[y*width+x] {
					return nil, fmt.Errorf("%w: %v overlaps at (%d,%d)", ErrTiling, r, x, y)
				}
				filled[y*width+x] = true
			}
		}

		rects = append(rects, r)
	}

	for cursor < len(filled) && filled[cursor] {
		cursor++
	}
	if cursor != len(filled) {
		return nil, fmt.Errorf("%w: cell (%d,%d) not covered", ErrTiling, cursor%width, cursor/width)
	}

	return rects, nil
}
