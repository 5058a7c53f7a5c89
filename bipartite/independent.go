package bipartite

// IndependentSet flags the vertices of each partition that belong to the
// set. No edge of the graph joins two flagged vertices.
type IndependentSet struct {
	Left  []bool
	Right []bool
}

// Size returns the number of flagged vertices.
func (s *IndependentSet) Size() int {
	var n int
	for _, in := range s.Left {
		if in {
			n++
		}
	}
	for _, in := range s.Right {
		if in {
			n++
		}
	}
	return n
}

// MaximumIndependentSet returns a maximum independent set of g together with
// the maximum matching it was derived from.
//
// Starting from every free left vertex, alternating paths are followed:
// unmatched edges from left to right, matched edges from right to left. The
// left vertices not reached and the right vertices reached form a minimum
// vertex cover; the set returned is its complement.
func (g *Graph) MaximumIndependentSet() (*IndependentSet, *Matching) {
	mt := g.HopcroftKarp()

	visU := make([]bool, g.m+1)
	visV := make([]bool, g.n+1)

	var stack []int
	for u := 1; u <= g.m; u++ {
		if mt.pairU[u] == nilVertex {
			visU[u] = true
			stack = append(stack, u)
		}
	}

	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, v := range g.adj[u] {
			if mt.pairU[u] == v || visV[v] {
				continue
			}
			visV[v] = true
			if w := mt.pairV[v]; w != nilVertex && !visU[w] {
				visU[w] = true
				stack = append(stack, w)
			}
		}
	}

	set := &IndependentSet{
		Left:  make([]bool, g.m),
		Right: make([]bool, g.n),
	}
	for u := 1; u <= g.m; u++ {
		set.Left[u-1] = visU[u]
	}
	for v := 1; v <= g.n; v++ {
		set.Right[v-1] = !visV[v]
	}

	return set, mt
}

// Independent reports whether no edge of g joins two vertices flagged in s.
func (g *Graph) Independent(s *IndependentSet) bool {
	for u := 1; u <= g.m; u++ {
		if !s.Left[u-1] {
			continue
		}
		for _, v := range g.adj[u] {
			if s.Right[v-1] {
				return false
			}
		}
	}
	return true
}
