package partition

// Cut places diagonal d into the grid. Both endpoints have the matching
// concavity resolved and every corner strictly between them gets a
// pass-through edge.
func (g *Grid) Cut(d Diagonal) {
	first, last := Down, Up
	if d.Orientation == Horizontal {
		first, last = Right, Left
	}
	through := Of(first, last)

	start := g.At(d.From.X, d.From.Y)
	start.Edges = start.Edges.Add(first)
	start.Inner = start.Inner.Remove(first)

	dx, dy := first.step()
	for x, y := d.From.X+dx, d.From.Y+dy; x != d.To.X || y != d.To.Y; x, y = x+dx, y+dy {
		c := g.At(x, y)
		c.Edges |= through
	}

	end := g.At(d.To.X, d.To.Y)
	end.Edges = end.Edges.Add(last)
	end.Inner = end.Inner.Remove(last)
}

// Patch closes every concavity left after the chosen diagonals have been
// cut. Each remaining reflex corner is extended horizontally into the
// interior until it meets a corner that already carries a vertical edge.
// The result is a valid partition but not necessarily a minimum one. Patch
// returns the number of corners it extended.
func (g *Grid) Patch() int {
	vertical := Of(Up, Down)
	var n int
	for _, c := range g.corners {
		if !c.Reflex() {
			continue
		}

		var dir Direction
		switch {
		case c.Inner.Has(Right) && !c.Inner.Has(Left):
			dir = Right
		case c.Inner.Has(Left) && !c.Inner.Has(Right):
			dir = Left
		default:
			continue
		}
		back := dir.opposite()

		c.Edges = c.Edges.Add(dir)
		c.Inner = c.Inner.Remove(dir)

		dx, _ := dir.step()
		for x := c.X + dx; ; x += dx {
			t := g.At(x, c.Y)
			if t == nil {
				break
			}
			if t.Edges.Any(vertical) {
				t.Edges = t.Edges.Add(back)
				t.Inner = t.Inner.Remove(back)
				break
			}
			t.Edges |= Of(Left, Right)
		}
		n++
	}
	return n
}
