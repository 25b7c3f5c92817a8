// SPDX-License-Identifier: MIT

package smw

import (
	"fmt"

	"github.com/katalvlaran/ctgflow/dcflow"
	"github.com/katalvlaran/ctgflow/network"
	"github.com/katalvlaran/ctgflow/sparse"
)

// Status tells how an outage candidate is compensated.
type Status uint8

const (
	// Active candidates carry a finite non-zero correction.
	Active Status = iota
	// OutOfService candidates are already open; their correction is zero.
	OutOfService
	// Bridge candidates would island the network and are not compensated.
	Bridge
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case OutOfService:
		return "out-of-service"
	case Bridge:
		return "bridge"
	default:
		return "unknown"
	}
}

// BridgeSet reports whether a branch is a bridge of the base-case graph.
// *connectivity.Result satisfies it.
type BridgeSet interface {
	IsCritical(branch int) bool
}

// Bundle holds the compensation data of every delta-set branch for one
// interval. Position p refers to net.DeltaSet()[p].
type Bundle struct {
	base   *dcflow.Base
	delta  []int
	w      *sparse.Dense
	status []Status
	v      []float64
	scale  []float64
	rng    []float64
}

// Len returns the size of the delta set.
func (b *Bundle) Len() int { return len(b.delta) }

// Base returns the base case the bundle corrects.
func (b *Bundle) Base() *dcflow.Base { return b.base }

// Branch returns the branch index at position p.
func (b *Bundle) Branch(p int) int { return b.delta[p] }

// Status returns how position p is compensated.
func (b *Bundle) Status(p int) Status { return b.status[p] }

// V returns V_k at position p; 0 when masked.
func (b *Bundle) V(p int) float64 { return b.v[p] }

// Weight returns the compensation weight 1/V_k; 0 when masked.
func (b *Bundle) Weight(p int) float64 {
	if b.status[p] != Active {
		return 0
	}
	return 1 / b.v[p]
}

// Scale returns the outage coefficient c_k; 0 when masked.
func (b *Bundle) Scale(p int) float64 { return b.scale[p] }

// Range returns max−min of W_k over all buses, reference included.
func (b *Bundle) Range(p int) float64 { return b.rng[p] }

// W returns entry bus of W_k at position p; the reference bus reads 0.
func (b *Bundle) W(p, bus int) float64 {
	if bus == network.ReferenceBus {
		return 0
	}
	return b.w.RowView(bus - 1)[p]
}

// AngleDeviation writes Δθ_k = c_k·W_k for position p into dst (one entry
// per bus). dst must have NumBus entries.
func (b *Bundle) AngleDeviation(p int, dst []float64) error {
	nb := b.base.System.NumBus
	if len(dst) != nb {
		return fmt.Errorf("smw: angle deviation needs %d entries, got %d", nb, len(dst))
	}
	c := b.scale[p]
	dst[0] = 0
	for i := 1; i < nb; i++ {
		dst[i] = c * b.w.RowView(i - 1)[p]
	}
	return nil
}

// FlowDeviation returns Δp_j = −u_j·b_j·(Δθ_f − Δθ_t) of branch j under the
// outage at position p. The outaged branch itself is not special-cased;
// use PostFlow for the post-outage flow.
func (b *Bundle) FlowDeviation(j, p int) float64 {
	st := b.base.System.State()
	if !st.InService[j] || b.status[p] != Active {
		return 0
	}
	br := b.base.System.Network().Branches()[j]
	return -br.B * b.scale[p] * (b.W(p, br.From) - b.W(p, br.To))
}

// PostFlow returns the real flow of branch j after the outage at position p.
// The outaged branch carries 0.
func (b *Bundle) PostFlow(j, p int) float64 {
	if j == b.delta[p] {
		return 0
	}
	return b.base.Flow[j] + b.FlowDeviation(j, p)
}
