// SPDX-License-Identifier: MIT

// Package violation evaluates post-outage branch ratings for one interval
// and tracks the worst violation per category.
//
// Evaluation is filtered in two tiers before the exact check:
//
//	tier 1: |Δp_j| ≤ |b_j|·max_k(|c_k|·range(W_k))          (one bound per branch)
//	tier 2: Δp_j ∈ [min_k Δp_{j,k}, max_k Δp_{j,k}]         (one pass per survivor)
//
// A branch is dropped when even its bound flow stays within the emergency
// rating. Both bounds are upper bounds on every exact deviation, so no
// violating pair is ever discarded. The apparent-power estimate pairs the
// corrected real flow with the pre-outage reactive flow:
//
//	s = sqrt(p'² + q²)
package violation
