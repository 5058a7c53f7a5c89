package image

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/RuralAir/pixelart/rectrun"
)

func palette(entries []rectrun.Entry) (color.Palette, map[rune]uint8) {
	// Index 0 is always transparent and used for blank labels
	p := color.Palette{color.NRGBA{}}
	indices := make(map[rune]uint8, len(entries))
	for _, e := range entries {
		if _, ok := indices[e.Label]; ok || len(p) > 255 {
			continue
		}
		indices[e.Label] = uint8(len(p))
		p = append(p, e.Color)
	}
	return p, indices
}

// Render draws art with each cell as a square of scale pixels. A scale less
// than one uses the scale stored in art.
func Render(art *rectrun.Art, scale int) (*image.Paletted, error) {
	if scale < 1 {
		scale = art.Scale
	}
	if scale < 1 {
		scale = 1
	}

	rects, err := art.Rects()
	if err != nil {
		return nil, err
	}
	entries, err := art.Entries()
	if err != nil {
		return nil, err
	}

	p, indices := palette(entries)
	m := image.NewPaletted(image.Rect(0, 0, art.Width*scale, art.Height*scale), p)

	for _, r := range rects {
		if rectrun.Blank(r.Label) {
			continue
		}
		i, ok := indices[r.Label]
		if !ok {
			return nil, fmt.Errorf("%w: %q", errUnknownLabel, r.Label)
		}
		for y := r.Y * scale; y < (r.Y+r.H)*scale; y++ {
			for x := r.X * scale; x < (r.X+r.W)*scale; x++ {
				m.SetColorIndex(x, y, i)
			}
		}
	}

	return m, nil
}

// Encode writes art to w as a PNG image.
func Encode(w io.Writer, art *rectrun.Art, scale int) error {
	m, err := Render(art, scale)
	if err != nil {
		return err
	}

	e := png.Encoder{CompressionLevel: png.BestCompression}

	return e.Encode(w, m)
}
