// SPDX-License-Identifier: MIT

// Package smw computes single-branch outage corrections with the
// Sherman–Morrison–Woodbury identity, reusing the base-case factor.
//
// Removing branch k changes the reduced matrix by a rank-one term,
// A' = A − b_k·m_k·m_kᵀ. With W_k = A⁻¹·m_k and
//
//	V_k = m_kᵀ·W_k − 1/b_k
//
// the post-outage angles are θ' = θ + c_k·W_k where
//
//	c_k = −(θ_f − θ_t − φ_k) / V_k.
//
// The phase-shift term of the removed branch cancels against its own rhs
// contribution, so the base rhs is reused unchanged. Bridges make V_k vanish
// and are never compensated; branches already open in the base case are
// masked to a zero correction.
//
// All W_k columns come from one batched SolveMany over the delta set.
package smw
