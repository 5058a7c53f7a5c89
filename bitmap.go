package pixelart

import (
	"fmt"
	"image"
	"unicode/utf8"

	"github.com/RuralAir/pixelart/partition"
	"github.com/RuralAir/pixelart/rectrun"
)

// Bitmap is a rectangular grid of labels, one rune per cell.
type Bitmap struct {
	cells [][]rune
	width int
}

// NewBitmap validates rows and returns the bitmap they describe. Every row
// must hold the same, non-zero, number of runes and no rune may be a label
// reserved by the encoding.
func NewBitmap(rows []string) (*Bitmap, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: bitmap has no rows", ErrMalformedInput)
	}

	width := utf8.RuneCountInString(rows[0])
	if width == 0 {
		return nil, fmt.Errorf("%w: bitmap has no columns", ErrMalformedInput)
	}

	if width > rectrun.MaxSize || len(rows) > rectrun.MaxSize {
		return nil, fmt.Errorf("%w: bitmap is %dx%d, larger than %d", ErrMalformedInput, width, len(rows), rectrun.MaxSize)
	}

	b := &Bitmap{
		cells: make([][]rune, len(rows)),
		width: width,
	}
	for y, row := range rows {
		cells := []rune(row)
		if len(cells) != width {
			return nil, fmt.Errorf("%w: input bitmap row length is not uniform (row %d has %d cells, want %d)", ErrMalformedInput, y, len(cells), width)
		}
		for x, label := range cells {
			if rectrun.Reserved(label) {
				return nil, fmt.Errorf("%w: reserved label %q at (%d,%d)", ErrMalformedInput, label, x, y)
			}
		}
		b.cells[y] = cells
	}

	return b, nil
}

// Width returns the number of columns.
func (b *Bitmap) Width() int {
	return b.width
}

// Height returns the number of rows.
func (b *Bitmap) Height() int {
	return len(b.cells)
}

// At returns the label of the cell at (x, y).
func (b *Bitmap) At(x, y int) rune {
	return b.cells[y][x]
}

// Rows returns the bitmap as strings, one per row.
func (b *Bitmap) Rows() []string {
	rows := make([]string, len(b.cells))
	for y, cells := range b.cells {
		rows[y] = string(cells)
	}
	return rows
}

// Labels returns every label used, in order of first appearance.
func (b *Bitmap) Labels() []rune {
	seen := make(map[rune]struct{})
	var labels []rune
	for _, cells := range b.cells {
		for _, label := range cells {
			if _, ok := seen[label]; !ok {
				seen[label] = struct{}{}
				labels = append(labels, label)
			}
		}
	}
	return labels
}

// Bounds returns the smallest rectangle holding every cell labeled label.
func (b *Bitmap) Bounds(label rune) image.Rectangle {
	var r image.Rectangle
	for y, cells := range b.cells {
		for x, l := range cells {
			if l == label {
				r = r.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return r
}

// find returns the first cell labeled label in row-major order.
func (b *Bitmap) find(label rune) (int, int) {
	r := b.Bounds(label)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if b.cells[y][x] == label {
				return x, y
			}
		}
	}
	return -1, -1
}

// Mask returns the cells labeled label, cropped to their bounding box, and
// the offset of the box within the bitmap.
func (b *Bitmap) Mask(label rune) (partition.Mask, image.Point) {
	r := b.Bounds(label)
	m := make(partition.Mask, r.Dy())
	for y := range m {
		m[y] = make([]bool, r.Dx())
		for x := range m[y] {
			m[y][x] = b.cells[r.Min.Y+y][r.Min.X+x] == label
		}
	}
	return m, r.Min
}

// Swatch names the color of a label. The color is resolved by a Resolver.
type Swatch struct {
	Label rune
	Color string
}

// Palette is an ordered list of swatches. The order is kept in the encoded
// output.
type Palette []Swatch

// Lookup returns the color specification for label.
func (p Palette) Lookup(label rune) (string, bool) {
	for _, s := range p {
		if s.Label == label {
			return s.Color, true
		}
	}
	return "", false
}

func (p Palette) validate() error {
	seen := make(map[rune]struct{}, len(p))
	for _, s := range p {
		if rectrun.Reserved(s.Label) {
			return fmt.Errorf("%w: reserved palette label %q", ErrMalformedInput, s.Label)
		}
		if _, ok := seen[s.Label]; ok {
			return fmt.Errorf("%w: duplicate palette label %q", ErrMalformedInput, s.Label)
		}
		seen[s.Label] = struct{}{}
	}
	return nil
}
