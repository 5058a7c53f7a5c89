/*
Package bipartite implements maximum cardinality matching on bipartite graphs
using the Hopcroft-Karp algorithm, and derives a maximum independent set from
the matching through König's theorem.

The left and right partitions are addressed with 0-based indices. Internally
vertices are numbered from 1 so that 0 can stand for the nil vertex that
every unmatched vertex is paired with.

All traversals use explicit stacks and queues, so the depth of the Go stack
does not grow with the size of the graph.
*/
package bipartite

import "math"

const (
	nilVertex = 0
	infinity  = math.MaxInt32
)

// Graph is a bipartite graph with m left and n right vertices. A Graph holds
// only its edges; every algorithm run allocates its own working state.
type Graph struct {
	m, n int
	adj  [][]int
}

// New returns a graph with m left and n right vertices and no edges.
func New(m, n int) *Graph {
	return &Graph{
		m:   m,
		n:   n,
		adj: make([][]int, m+1),
	}
}

// Left returns the number of left vertices.
func (g *Graph) Left() int {
	return g.m
}

// Right returns the number of right vertices.
func (g *Graph) Right() int {
	return g.n
}

// AddEdge connects left vertex u with right vertex v.
func (g *Graph) AddEdge(u, v int) {
	if u < 0 || u >= g.m || v < 0 || v >= g.n {
		panic("bipartite: vertex out of range")
	}
	g.adj[u+1] = append(g.adj[u+1], v+1)
}

// Edges returns the number of edges.
func (g *Graph) Edges() int {
	var e int
	for _, a := range g.adj {
		e += len(a)
	}
	return e
}

// Matching pairs left vertices with right vertices, each vertex being used
// at most once.
type Matching struct {
	pairU []int
	pairV []int
}

func newMatching(m, n int) *Matching {
	return &Matching{
		pairU: make([]int, m+1),
		pairV: make([]int, n+1),
	}
}

// Size returns the number of matched pairs.
func (mt *Matching) Size() int {
	var s int
	for _, v := range mt.pairU[1:] {
		if v != nilVertex {
			s++
		}
	}
	return s
}

// Left returns the right vertex matched with left vertex u.
func (mt *Matching) Left(u int) (int, bool) {
	v := mt.pairU[u+1]
	return v - 1, v != nilVertex
}

// Right returns the left vertex matched with right vertex v.
func (mt *Matching) Right(v int) (int, bool) {
	u := mt.pairV[v+1]
	return u - 1, u != nilVertex
}

// HopcroftKarp returns a maximum matching of g.
func (g *Graph) HopcroftKarp() *Matching {
	mt := newMatching(g.m, g.n)
	dist := make([]int, g.m+1)
	next := make([]int, g.m+1)

	for g.layer(mt, dist) {
		for u := range next {
			next[u] = 0
		}
		for u := 1; u <= g.m; u++ {
			if mt.pairU[u] == nilVertex {
				g.augment(u, mt, dist, next)
			}
		}
	}

	return mt
}

// layer labels every left vertex with its alternating-path distance from
// the free left vertices and reports whether a free right vertex can be
// reached at all. dist[nilVertex] ends up holding the length of the
// shortest augmenting path.
func (g *Graph) layer(mt *Matching, dist []int) bool {
	queue := make([]int, 0, g.m)
	for u := 1; u <= g.m; u++ {
		if mt.pairU[u] == nilVertex {
			dist[u] = 0
			queue = append(queue, u)
		} else {
			dist[u] = infinity
		}
	}
	dist[nilVertex] = infinity

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		if dist[u] >= dist[nilVertex] {
			continue
		}
		for _, v := range g.adj[u] {
			w := mt.pairV[v]
			if dist[w] == infinity {
				dist[w] = dist[u] + 1
				if w != nilVertex {
					queue = append(queue, w)
				}
			}
		}
	}

	return dist[nilVertex] != infinity
}

// augment searches for a shortest augmenting path starting at the free left
// vertex root, following only edges between consecutive layers, and flips
// it into the matching. next holds the per-phase position in each
// adjacency list so that dead edges are never retried.
func (g *Graph) augment(root int, mt *Matching, dist, next []int) bool {
	stack := []int{root}
	for len(stack) > 0 {
		u := stack[len(stack)-1]

		if next[u] >= len(g.adj[u]) {
			dist[u] = infinity
			stack = stack[:len(stack)-1]
			if len(stack) > 0 {
				next[stack[len(stack)-1]]++
			}
			continue
		}

		v := g.adj[u][next[u]]
		w := mt.pairV[v]
		if dist[w] != dist[u]+1 {
			next[u]++
			continue
		}

		if w == nilVertex {
			for _, x := range stack {
				y := g.adj[x][next[x]]
				mt.pairU[x] = y
				mt.pairV[y] = x
			}
			return true
		}

		stack = append(stack, w)
	}
	return false
}
