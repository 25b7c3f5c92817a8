// SPDX-License-Identifier: MIT

// Package connectivity screens the in-service branch graph of one interval
// before any linear algebra runs on it.
//
// What:
//
//   - Components: union-find (path compression + union by rank) labeling of
//     all buses, with labels numbered in order of each component's lowest bus.
//   - Bridges: iterative DFS low-link over the simple graph obtained by
//     dropping self-edges and collapsing parallel edges. A collapsed pair is
//     never a bridge.
//   - Screen: both, plus the intersection of the bridge set with the
//     branches named by contingencies.
//
// Why:
//
//   - A disconnected base case makes the reduced DC model singular, so the
//     whole contingency stage for that interval is skipped.
//   - Outaging a bridge disconnects the network; the rank-1 update would
//     divide by zero. Such contingencies are reported structurally instead.
//
// Complexity:
//
//   - Components: O(V + E·α(V)). Bridges: O(V + E log E) (edge collapsing
//     sorts the endpoint pairs). Memory O(V + E).
//
// All results are deterministic for a fixed edge order.
package connectivity
