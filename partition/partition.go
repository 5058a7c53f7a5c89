package partition

import (
	"image"

	"github.com/RuralAir/pixelart/bipartite"
)

// Stats summarizes one decomposition.
type Stats struct {
	Verticals   int
	Horizontals int
	Kept        int
	Patched     int
	Rects       int
}

// Choose returns, for each vertical and each horizontal diagonal, whether
// it belongs to a maximum set of mutually non-crossing diagonals.
func Choose(verticals, horizontals []Diagonal) (keepVertical, keepHorizontal []bool) {
	g := bipartite.New(len(verticals), len(horizontals))
	for i, v := range verticals {
		for j, h := range horizontals {
			if v.Crosses(h) {
				g.AddEdge(i, j)
			}
		}
	}

	set, _ := g.MaximumIndependentSet()
	return set.Left, set.Right
}

// Decompose splits the region marked in m into rectangles. The rectangles
// are in mask coordinates, tile the region exactly and never overlap.
func Decompose(m Mask) ([]image.Rectangle, Stats) {
	g := Classify(m)

	verticals, horizontals := g.Diagonals()
	keepVertical, keepHorizontal := Choose(verticals, horizontals)

	stats := Stats{
		Verticals:   len(verticals),
		Horizontals: len(horizontals),
	}

	for i, d := range verticals {
		if keepVertical[i] {
			g.Cut(d)
			stats.Kept++
		}
	}
	for i, d := range horizontals {
		if keepHorizontal[i] {
			g.Cut(d)
			stats.Kept++
		}
	}

	stats.Patched = g.Patch()

	rects := g.Trace()
	stats.Rects = len(rects)

	return rects, stats
}
