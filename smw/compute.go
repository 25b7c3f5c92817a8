// SPDX-License-Identifier: MIT

package smw

import (
	"fmt"
	"math"

	"github.com/katalvlaran/ctgflow/dcflow"
	"github.com/katalvlaran/ctgflow/network"
	"github.com/katalvlaran/ctgflow/sparse"
)

// Workspace keeps the W block, its solve scratch and per-candidate slices
// of one worker. It is not safe for concurrent use.
type Workspace struct {
	net     *network.Network
	bundle  Bundle
	scratch sparse.Dense
}

// NewWorkspace sizes a workspace for the delta set of net. The W block has
// NumBus-1 ≥ 0 rows, so NewDense cannot fail.
func NewWorkspace(net *network.Network) *Workspace {
	d := len(net.DeltaSet())
	w, _ := sparse.NewDense(net.NumBus()-1, d)
	return &Workspace{
		net: net,
		bundle: Bundle{
			delta:  net.DeltaSet(),
			w:      w,
			status: make([]Status, d),
			v:      make([]float64, d),
			scale:  make([]float64, d),
			rng:    make([]float64, d),
		},
	}
}

// Compute builds the bundle with a fresh workspace.
func Compute(base *dcflow.Base, bridges BridgeSet) (*Bundle, error) {
	return NewWorkspace(base.System.Network()).Compute(base, bridges)
}

// Compute solves for every W_k of the delta set in one batch and derives
// V_k, c_k and range(W_k). bridges may be nil when the caller knows there
// are none. The bundle aliases workspace memory until the next call.
//
// Implementation:
//   - Stage 1: stamp every m_k as a column of the W block.
//   - Stage 2: one batched solve against the base factor, reusing the
//     workspace scratch block.
//   - Stage 3: classify each candidate (open, bridge, active) once; only
//     active ones get V_k and c_k.
//
// Errors: dcflow.ErrInternal when the batch solve fails or an active
// candidate yields a zero or non-finite V_k.
//
// Complexity: O((nnz(LU) + B)·D).
func (w *Workspace) Compute(base *dcflow.Base, bridges BridgeSet) (*Bundle, error) {
	b := &w.bundle
	b.base = base
	branches := w.net.Branches()
	st := base.System.State()
	nr := w.net.NumBus() - 1

	if err := b.w.Reshape(nr, len(b.delta)); err != nil {
		return nil, err
	}
	for p, k := range b.delta {
		br := branches[k]
		if br.From != network.ReferenceBus {
			b.w.RowView(br.From - 1)[p] = 1
		}
		if br.To != network.ReferenceBus {
			b.w.RowView(br.To - 1)[p] = -1
		}
	}
	if err := base.Factor.SolveManyInto(b.w, &w.scratch); err != nil {
		return nil, fmt.Errorf("smw: %w: batch solve: %w", dcflow.ErrInternal, err)
	}

	for p, k := range b.delta {
		b.rng[p] = b.columnRange(p)
		switch {
		case !st.InService[k]:
			b.status[p], b.v[p], b.scale[p] = OutOfService, 0, 0
			continue
		case bridges != nil && bridges.IsCritical(k):
			b.status[p], b.v[p], b.scale[p] = Bridge, 0, 0
			continue
		}
		br := branches[k]
		v := b.W(p, br.From) - b.W(p, br.To) - 1/br.B
		if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("smw: %w: V for branch %q is %g", dcflow.ErrInternal, br.UID, v)
		}
		b.status[p], b.v[p] = Active, v
		b.scale[p] = -base.AngleDiff(k) / v
	}
	return b, nil
}

func (b *Bundle) columnRange(p int) float64 {
	lo, hi := 0.0, 0.0
	for i := 0; i < b.w.Rows(); i++ {
		x := b.w.RowView(i)[p]
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return hi - lo
}
