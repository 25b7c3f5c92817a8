// SPDX-License-Identifier: MIT

package connectivity

import "sort"

// simpleGraph is the collapsed adjacency used by Bridges: one arc per
// distinct unordered bus pair, with the multiplicity of the original edges.
type simpleGraph struct {
	start []int // CSR offsets, len numBus+1
	adj   []int // neighbor bus per arc
	arcE  []int // simple-edge index per arc
	mult  []int // multiplicity per simple edge
	repID []int // caller ID of the first original edge per simple edge
}

func collapse(numBus int, edges []Edge) *simpleGraph {
	order := make([]int, 0, len(edges))
	for i, e := range edges {
		if e.From != e.To {
			order = append(order, i)
		}
	}
	key := func(i int) (int, int) {
		a, b := edges[i].From, edges[i].To
		if a > b {
			a, b = b, a
		}
		return a, b
	}
	sort.SliceStable(order, func(x, y int) bool {
		ax, bx := key(order[x])
		ay, by := key(order[y])
		if ax != ay {
			return ax < ay
		}
		return bx < by
	})

	g := &simpleGraph{start: make([]int, numBus+1)}
	type pair struct{ a, b int }
	var pairs []pair
	for _, i := range order {
		a, b := key(i)
		last := len(pairs) - 1
		if last >= 0 && pairs[last].a == a && pairs[last].b == b {
			g.mult[last]++
			continue
		}
		pairs = append(pairs, pair{a, b})
		g.mult = append(g.mult, 1)
		g.repID = append(g.repID, edges[i].ID)
	}

	for _, p := range pairs {
		g.start[p.a+1]++
		g.start[p.b+1]++
	}
	for v := 0; v < numBus; v++ {
		g.start[v+1] += g.start[v]
	}
	g.adj = make([]int, g.start[numBus])
	g.arcE = make([]int, g.start[numBus])
	fill := append([]int(nil), g.start[:numBus]...)
	for s, p := range pairs {
		g.adj[fill[p.a]], g.arcE[fill[p.a]] = p.b, s
		fill[p.a]++
		g.adj[fill[p.b]], g.arcE[fill[p.b]] = p.a, s
		fill[p.b]++
	}
	return g
}

// dfsFrame is one level of the explicit DFS stack.
type dfsFrame struct {
	v          int
	parentEdge int
	next       int // next arc offset to explore
}

// Bridges returns the IDs of all bridge edges, ascending. Self-edges and
// edges with a parallel twin are never bridges.
//
// The traversal is iterative so deep radial feeders cannot overflow the
// goroutine stack.
//
// Complexity: O(V + E log E), Memory: O(V + E).
func Bridges(numBus int, edges []Edge) []int {
	g := collapse(numBus, edges)
	disc := make([]int, numBus)
	low := make([]int, numBus)
	for i := range disc {
		disc[i] = -1
	}

	var bridges []int
	var stack []dfsFrame
	timer := 0
	for root := 0; root < numBus; root++ {
		if disc[root] >= 0 {
			continue
		}
		disc[root], low[root] = timer, timer
		timer++
		stack = append(stack[:0], dfsFrame{v: root, parentEdge: -1, next: g.start[root]})

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			v := top.v
			if top.next < g.start[v+1] {
				arc := top.next
				top.next++
				w, s := g.adj[arc], g.arcE[arc]
				if s == top.parentEdge {
					continue
				}
				if disc[w] < 0 {
					disc[w], low[w] = timer, timer
					timer++
					stack = append(stack, dfsFrame{v: w, parentEdge: s, next: g.start[w]})
				} else if disc[w] < low[v] {
					low[v] = disc[w]
				}
				continue
			}

			// v is finished; propagate low-link to its parent.
			pe := top.parentEdge
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				continue
			}
			u := stack[len(stack)-1].v
			if low[v] < low[u] {
				low[u] = low[v]
			}
			if low[v] > disc[u] && g.mult[pe] == 1 {
				bridges = append(bridges, g.repID[pe])
			}
		}
	}
	sort.Ints(bridges)
	return bridges
}
