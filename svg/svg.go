// Package svg draws pixel art as an SVG document with one rect element per
// rectangle.
package svg

import (
	"fmt"
	"image/color"
	"io"

	"github.com/RuralAir/pixelart/rectrun"
	"github.com/jbeda/geom"
)

type writer struct {
	w   io.Writer
	err error
}

func (sw *writer) printf(format string, a ...interface{}) {
	if sw.err != nil {
		return
	}
	_, sw.err = fmt.Fprintf(sw.w, format, a...)
}

func (sw *writer) start(viewBox geom.Rect) {
	sw.printf(`<?xml version="1.0"?>
<svg version="1.1"
     viewBox="%g %g %g %g" width="%g" height="%g"
     xmlns="http://www.w3.org/2000/svg" shape-rendering="crispEdges">
`, viewBox.Min.X, viewBox.Min.Y, viewBox.Width(), viewBox.Height(), viewBox.Width(), viewBox.Height())
}

func (sw *writer) end() {
	sw.printf("</svg>\n")
}

func fill(c color.NRGBA) string {
	s := fmt.Sprintf("fill='#%02x%02x%02x'", c.R, c.G, c.B)
	if c.A != 0xff {
		s += fmt.Sprintf(" fill-opacity='%.3g'", float64(c.A)/0xff)
	}
	return s
}

func (sw *writer) rect(r geom.Rect, c color.NRGBA) {
	sw.printf("<rect x='%g' y='%g' width='%g' height='%g' %s/>\n", r.Min.X, r.Min.Y, r.Width(), r.Height(), fill(c))
}

// Encode writes art to w as an SVG document, each cell being scale units
// wide. A scale less than one uses the scale stored in art.
func Encode(w io.Writer, art *rectrun.Art, scale int) error {
	if scale < 1 {
		scale = art.Scale
	}
	if scale < 1 {
		scale = 1
	}

	rects, err := art.Rects()
	if err != nil {
		return err
	}
	entries, err := art.Entries()
	if err != nil {
		return err
	}

	colors := make(map[rune]color.NRGBA, len(entries))
	for _, e := range entries {
		if _, ok := colors[e.Label]; !ok {
			colors[e.Label] = e.Color
		}
	}

	s := float64(scale)
	sw := &writer{w: w}
	sw.start(geom.Rect{Max: geom.Coord{X: float64(art.Width) * s, Y: float64(art.Height) * s}})
	for _, r := range rects {
		if rectrun.Blank(r.Label) {
			continue
		}
		c, ok := colors[r.Label]
		if !ok {
			return fmt.Errorf("svg: label %q has no palette entry", r.Label)
		}
		if c.A == 0 {
			continue
		}
		sw.rect(geom.Rect{
			Min: geom.Coord{X: float64(r.X) * s, Y: float64(r.Y) * s},
			Max: geom.Coord{X: float64(r.X+r.W) * s, Y: float64(r.Y+r.H) * s},
		}, c)
	}
	sw.end()

	return sw.err
}
