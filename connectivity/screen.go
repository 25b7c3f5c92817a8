// SPDX-License-Identifier: MIT

package connectivity

import "sort"

// Screen labels components and, when the graph is connected, finds the
// bridges and intersects them with candidates (edge IDs named by at least
// one contingency). A disconnected graph skips bridge detection: the
// interval's contingency stage is not evaluated at all.
//
// candidates need not be sorted.
func Screen(numBus int, edges []Edge, candidates []int) *Result {
	res := &Result{Labels: Components(numBus, edges)}
	if a, b, ok := res.Labels.FirstSeparated(); ok {
		res.SeparatedFrom, res.SeparatedTo = a, b
		return res
	}

	res.Bridges = Bridges(numBus, edges)
	if len(res.Bridges) == 0 || len(candidates) == 0 {
		return res
	}
	cand := append([]int(nil), candidates...)
	sort.Ints(cand)
	i, j := 0, 0
	for i < len(res.Bridges) && j < len(cand) {
		switch {
		case res.Bridges[i] == cand[j]:
			if n := len(res.Critical); n == 0 || res.Critical[n-1] != cand[j] {
				res.Critical = append(res.Critical, cand[j])
			}
			i++
			j++
		case res.Bridges[i] < cand[j]:
			i++
		default:
			j++
		}
	}
	return res
}
