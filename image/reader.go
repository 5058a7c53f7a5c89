package image

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/RuralAir/pixelart"
	"github.com/ericpauley/go-quantize/quantize"
)

func nrgba(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

func countColors(m image.Image) map[color.NRGBA]int {
	colors := make(map[color.NRGBA]int)
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if c := nrgba(m.At(x, y)); c.A != 0 {
				colors[c]++
			}
		}
	}
	return colors
}

func hex(c color.NRGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// Bitmap returns a source describing m. Images with more than maxColors
// opaque colors are reduced to at most that many.
func Bitmap(m image.Image, maxColors int) (*pixelart.Source, error) {
	b := m.Bounds()
	if b.Empty() {
		return nil, errEmpty
	}
	if b.Dx() > MaxSize || b.Dy() > MaxSize {
		return nil, fmt.Errorf("%w: %dx%d", errTooBig, b.Dx(), b.Dy())
	}
	if maxColors < 1 || maxColors > len(Labels) {
		return nil, fmt.Errorf("%w: %d", errColors, maxColors)
	}

	src := m
	if len(countColors(m)) > maxColors {
		q := quantize.MedianCutQuantizer{}
		pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, maxColors), m))
		draw.Draw(pm, b, m, b.Min, draw.Src)

		// Keep the transparency of the original
		dup := image.NewNRGBA(b)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				if nrgba(m.At(x, y)).A != 0 {
					c := nrgba(pm.At(x, y))
					c.A = 0xff
					dup.SetNRGBA(x, y, c)
				}
			}
		}
		src = dup
	}

	labels := []rune(Labels)
	assigned := make(map[color.NRGBA]rune)

	out := new(pixelart.Source)
	blank := false
	for y := b.Min.Y; y < b.Max.Y; y++ {
		var row strings.Builder
		for x := b.Min.X; x < b.Max.X; x++ {
			c := nrgba(src.At(x, y))
			if c.A == 0 {
				row.WriteRune(' ')
				blank = true
				continue
			}
			label, ok := assigned[c]
			if !ok {
				label = labels[len(assigned)]
				assigned[c] = label
				out.Palette = append(out.Palette, pixelart.Swatch{Label: label, Color: hex(c)})
			}
			row.WriteRune(label)
		}
		out.Rows = append(out.Rows, row.String())
	}

	if blank {
		out.Palette = append(out.Palette, pixelart.Swatch{Label: ' ', Color: "transparent"})
	}

	return out, nil
}
