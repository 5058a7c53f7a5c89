package partition

import (
	"fmt"
	"image"
)

// Orientation distinguishes vertical from horizontal cuts.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Diagonal is a candidate cut between two reflex corners sharing a row or
// a column. From always precedes To.
type Diagonal struct {
	From, To    image.Point
	Orientation Orientation
}

func (d Diagonal) String() string {
	return fmt.Sprintf("%s %v-%v", d.Orientation, d.From, d.To)
}

func between(v, lo, hi int) bool {
	return v >= lo && v <= hi
}

// Crosses reports whether the vertical diagonal d meets the horizontal
// diagonal h. Touching endpoints count as a crossing.
func (d Diagonal) Crosses(h Diagonal) bool {
	return between(h.From.Y, d.From.Y, d.To.Y) && between(d.From.X, h.From.X, h.To.X)
}

// scan walks from c in direction dir while the interior continues and
// returns the first reflex corner facing back towards c.
func (g *Grid) scan(c *Corner, dir Direction) *Corner {
	dx, dy := dir.step()
	back := dir.opposite()
	for x, y := c.X+dx, c.Y+dy; ; x, y = x+dx, y+dy {
		t := g.At(x, y)
		if t == nil || !t.Inner.Has(back) {
			return nil
		}
		if t.Reflex() {
			return t
		}
		if !t.Inner.Has(dir) {
			return nil
		}
	}
}

// Diagonals returns every candidate cut of the grid. Only rightward and
// downward partners are searched; the reverse scans would find the same
// pairs.
func (g *Grid) Diagonals() (verticals, horizontals []Diagonal) {
	for _, c := range g.Reflex() {
		if c.Inner.Has(Right) {
			if t := g.scan(c, Right); t != nil {
				horizontals = append(horizontals, Diagonal{
					From:        image.Pt(c.X, c.Y),
					To:          image.Pt(t.X, t.Y),
					Orientation: Horizontal,
				})
			}
		}
		if c.Inner.Has(Down) {
			if t := g.scan(c, Down); t != nil {
				verticals = append(verticals, Diagonal{
					From:        image.Pt(c.X, c.Y),
					To:          image.Pt(t.X, t.Y),
					Orientation: Vertical,
				})
			}
		}
	}
	return verticals, horizontals
}
