/*
Package partition splits a single-color region of a bitmap into the fewest
axis-aligned rectangles.

The region is described by a Mask. Every lattice point of the mask is
classified into a Corner recording which of its four touching cells are
filled, in which directions the region boundary runs through it and in which
directions the region interior continues. Concave (reflex) corners are then
paired into candidate cuts, the largest set of mutually non-crossing cuts is
chosen through a maximum bipartite matching, any concavity left over is
closed with a horizontal cut and finally the rectangles are traced out of
the cut grid.
*/
package partition

// Mask marks the cells of a bitmap that belong to the region being split.
// All rows must be the same length.
type Mask [][]bool

// Width returns the number of columns in the mask.
func (m Mask) Width() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Height returns the number of rows in the mask.
func (m Mask) Height() int {
	return len(m)
}

// Count returns the number of filled cells.
func (m Mask) Count() int {
	n := 0
	for _, row := range m {
		for _, f := range row {
			if f {
				n++
			}
		}
	}
	return n
}

func (m Mask) filled(x, y int) bool {
	if y < 0 || y >= len(m) || x < 0 || x >= len(m[y]) {
		return false
	}
	return m[y][x]
}

// Corner is a lattice point touched by at least one filled cell.
type Corner struct {
	X, Y int

	// Cells records which touching cells are filled
	Cells Directions
	// Edges holds the boundary directions plus any cut placed through
	// the corner
	Edges Directions
	// Inner holds the directions in which the interior continues and
	// that have not yet been resolved by a cut
	Inner Directions
}

func newCorner(x, y int, cells Directions) *Corner {
	rotated := cells.rotate()
	edges := cells ^ rotated
	return &Corner{
		X:     x,
		Y:     y,
		Cells: cells,
		Edges: edges,
		Inner: (cells | rotated) ^ edges,
	}
}

// Reflex reports whether the corner is a concave vertex of the region that
// still needs a cut.
func (c *Corner) Reflex() bool {
	return c != nil && c.Inner.Len() == 2
}

// Grid is the classified lattice of a Mask, one point larger than the mask
// in each dimension.
type Grid struct {
	width, height int
	corners       []*Corner
}

// Classify builds the corner grid for m.
func Classify(m Mask) *Grid {
	g := &Grid{
		width:  m.Width() + 1,
		height: m.Height() + 1,
	}
	g.corners = make([]*Corner, g.width*g.height)

	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			var cells Directions
			if m.filled(x, y-1) {
				cells |= CellAboveRight
			}
			if m.filled(x, y) {
				cells |= CellBelowRight
			}
			if m.filled(x-1, y) {
				cells |= CellBelowLeft
			}
			if m.filled(x-1, y-1) {
				cells |= CellAboveLeft
			}
			if cells == 0 {
				continue
			}
			g.corners[y*g.width+x] = newCorner(x, y, cells)
		}
	}

	return g
}

// Width returns the number of lattice columns.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of lattice rows.
func (g *Grid) Height() int {
	return g.height
}

// At returns the corner at (x, y), or nil if no filled cell touches it or
// the point lies outside the grid.
func (g *Grid) At(x, y int) *Corner {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return nil
	}
	return g.corners[y*g.width+x]
}

// Reflex returns the corners that still need a cut, in row-major order.
func (g *Grid) Reflex() []*Corner {
	var out []*Corner
	for _, c := range g.corners {
		if c.Reflex() {
			out = append(out, c)
		}
	}
	return out
}
