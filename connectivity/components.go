// SPDX-License-Identifier: MIT

package connectivity

// disjointSet is an index-based union-find with path compression and
// union by rank.
type disjointSet struct {
	parent []int
	rank   []uint8
}

func newDisjointSet(n int) *disjointSet {
	ds := &disjointSet{parent: make([]int, n), rank: make([]uint8, n)}
	for i := range ds.parent {
		ds.parent[i] = i
	}
	return ds
}

// find walks to the root iteratively, halving the path on the way.
func (ds *disjointSet) find(u int) int {
	for ds.parent[u] != u {
		ds.parent[u] = ds.parent[ds.parent[u]]
		u = ds.parent[u]
	}
	return u
}

// union merges the sets of u and v and reports whether they were disjoint.
func (ds *disjointSet) union(u, v int) bool {
	ru, rv := ds.find(u), ds.find(v)
	if ru == rv {
		return false
	}
	switch {
	case ds.rank[ru] < ds.rank[rv]:
		ds.parent[ru] = rv
	case ds.rank[ru] > ds.rank[rv]:
		ds.parent[rv] = ru
	default:
		ds.parent[rv] = ru
		ds.rank[ru]++
	}
	return true
}

// Components labels the numBus buses by connected component of edges.
// Labels are assigned in order of each component's lowest bus, so bus 0 is
// always in component 0. Edges with an endpoint outside [0, numBus) panic;
// callers pass validated topology.
//
// Complexity: O(V + E·α(V)), Memory: O(V).
func Components(numBus int, edges []Edge) Labels {
	ds := newDisjointSet(numBus)
	for _, e := range edges {
		ds.union(e.From, e.To)
	}

	labels := Labels{Of: make([]int, numBus)}
	rootLabel := make([]int, numBus)
	for i := range rootLabel {
		rootLabel[i] = -1
	}
	for v := 0; v < numBus; v++ {
		r := ds.find(v)
		if rootLabel[r] < 0 {
			rootLabel[r] = labels.Count
			labels.Count++
		}
		labels.Of[v] = rootLabel[r]
	}
	return labels
}
