package partition

import "image"

// Trace returns the rectangles of a fully cut grid in row-major order of
// their top-left corners.
//
// A traced rectangle one cell wide and two cells tall is returned as two
// single cells, which encode shorter.
func (g *Grid) Trace() []image.Rectangle {
	var rects []image.Rectangle
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			c := g.At(x, y)
			if c == nil || !c.Edges.Has(Right) || !c.Edges.Has(Down) || !c.Cells.Any(CellBelowRight) {
				continue
			}

			h := 1
			for t := g.At(x, y+h); t != nil && !t.Edges.Has(Right); t = g.At(x, y+h) {
				h++
			}
			w := 1
			for t := g.At(x+w, y); t != nil && !t.Edges.Has(Down); t = g.At(x+w, y) {
				w++
			}

			if w == 1 && h == 2 {
				rects = append(rects, image.Rect(x, y, x+1, y+1), image.Rect(x, y+1, x+1, y+2))
				continue
			}
			rects = append(rects, image.Rect(x, y, x+w, y+h))
		}
	}
	return rects
}
