// SPDX-License-Identifier: MIT

package connectivity

// Edge is an undirected edge between two buses. ID is caller-defined
// (usually the branch index) and is what Bridges reports.
type Edge struct {
	ID       int
	From, To int
}

// Labels assigns every bus a component label in [0, Count).
type Labels struct {
	// Of[v] is the component label of bus v.
	Of []int
	// Count is the number of connected components.
	Count int
}

// Connected reports whether all buses share one component.
func (l Labels) Connected() bool { return l.Count <= 1 }

// FirstSeparated returns (0, v) where v is the lowest bus outside bus 0's
// component. ok is false when the graph is connected.
func (l Labels) FirstSeparated() (a, b int, ok bool) {
	for v := 1; v < len(l.Of); v++ {
		if l.Of[v] != l.Of[0] {
			return 0, v, true
		}
	}
	return 0, 0, false
}

// Result is the outcome of Screen for one interval.
type Result struct {
	// Labels is the component labeling of the in-service graph.
	Labels Labels
	// SeparatedFrom/SeparatedTo name the first separated bus pair when the
	// base case is disconnected.
	SeparatedFrom, SeparatedTo int
	// Bridges holds the IDs of bridge edges, ascending.
	Bridges []int
	// Critical holds the candidate IDs that are bridges, ascending.
	Critical []int
}

// Connected reports whether the screened base case is connected.
func (r *Result) Connected() bool { return r.Labels.Connected() }

// IsCritical reports whether id is among the critical candidates.
func (r *Result) IsCritical(id int) bool {
	lo, hi := 0, len(r.Critical)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case r.Critical[mid] == id:
			return true
		case r.Critical[mid] < id:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return false
}
