// SPDX-License-Identifier: MIT

// Package dcflow assembles and solves the per-interval DC power-flow model.
//
// The reduced susceptance matrix A spans the non-reference buses (bus 0 is
// the angle reference):
//
//	A = Σ_j u_j·b_j·m_j·m_jᵀ
//
// where m_j is +1 at the from-bus and −1 at the to-bus of branch j, with the
// reference row dropped. Angles satisfy A·θ = r with
//
//	r = Σ_j u_j·b_j·φ_j·m_j − P̂,    P̂_i = P_i − ΣP/NumBus
//
// and branch flows follow p_j = −u_j·b_j·(θ_f − θ_t − φ_j).
//
// A is factored once per interval; the factor is reused by the compensation
// stage for every branch outage. Workspace keeps all buffers so a worker can
// reuse them across intervals without allocating.
package dcflow
