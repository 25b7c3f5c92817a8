// SPDX-License-Identifier: MIT

package dcflow

import (
	"fmt"
	"math"

	"github.com/katalvlaran/ctgflow/sparse"
)

// Base is the solved base case of one interval.
type Base struct {
	// System is the model that was solved.
	System *System
	// Theta holds bus angles; Theta[0] is always 0.
	Theta []float64
	// Flow[j] is the base-case real flow of branch j (0 when out of service).
	Flow []float64
	// Factor is the LU of System.Matrix. Read-only after SolveBase.
	Factor *sparse.LU
}

// AngleDiff returns θ_f − θ_t − φ_j for branch j.
func (b *Base) AngleDiff(j int) float64 {
	br := b.System.net.Branches()[j]
	return b.Theta[br.From] - b.Theta[br.To] - b.System.state.PhaseShift[j]
}

// SolveBase factors and solves sys with a fresh workspace.
func SolveBase(sys *System, opts ...sparse.FactorOption) (*Base, error) {
	w := NewWorkspace(sys.net)
	return w.SolveBase(sys, opts...)
}

// SolveBase factors sys.Matrix once and computes angles and flows. The
// returned Base aliases workspace memory until the next SolveBase call.
//
// Errors: ErrInternal wrapping sparse.ErrSingular or sparse.ErrNaNInf.
// Both mean the in-service graph contradicts the connectivity screen.
//
// Complexity: one factorization plus O(nnz(LU) + L).
func (w *Workspace) SolveBase(sys *System, opts ...sparse.FactorOption) (*Base, error) {
	lu, err := sparse.Factorize(sys.Matrix, opts...)
	if err != nil {
		return nil, internalError("factorize", err)
	}
	if err = lu.Solve(sys.RHS, w.theta); err != nil {
		return nil, internalError("solve", err)
	}

	base := &w.base
	base.System, base.Factor = sys, lu
	base.Theta[0] = 0
	copy(base.Theta[1:], w.theta)

	clear(base.Flow)
	branches := sys.net.Branches()
	for _, j := range sys.Active {
		p := -branches[j].B * base.AngleDiff(j)
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, fmt.Errorf("%w: flow on branch %q is not finite", ErrInternal, branches[j].UID)
		}
		base.Flow[j] = p
	}
	return base, nil
}
