// SPDX-License-Identifier: MIT

package dcflow

import (
	"fmt"

	"github.com/katalvlaran/ctgflow/network"
	"github.com/katalvlaran/ctgflow/sparse"
)

// System is the assembled DC model of one interval.
type System struct {
	// Interval is the index of the interval this system models.
	Interval int
	// NumBus is the full bus count; reduced quantities have NumBus-1 entries
	// and reduced index i-1 stands for bus i.
	NumBus int
	// Matrix is the reduced susceptance matrix A.
	Matrix *sparse.CSR
	// Injection[i] is the raw net real injection P_i of bus i.
	Injection []float64
	// Slack is ΣP/NumBus, the share each bus absorbs.
	Slack float64
	// RHS is r over the non-reference buses.
	RHS []float64
	// Active lists the in-service branch indices in ascending order.
	Active []int

	net   *network.Network
	state *network.State
}

// Network returns the topology the system was built from.
func (s *System) Network() *network.Network { return s.net }

// State returns the interval inputs the system was built from.
func (s *System) State() *network.State { return s.state }

// Mismatch returns ΣP, the raw system imbalance spread by the slack.
func (s *System) Mismatch() float64 { return s.Slack * float64(s.NumBus) }

// Workspace owns the buffers of one worker. It is not safe for concurrent use.
type Workspace struct {
	net   *network.Network
	trip  *sparse.Triplets
	sys   System
	base  Base
	theta []float64
}

// NewWorkspace sizes a workspace for net. network.New guarantees at least
// one bus, so the triplet dimensions are never negative and NewTriplets
// cannot fail.
func NewWorkspace(net *network.Network) *Workspace {
	nb := net.NumBus()
	trip, _ := sparse.NewTriplets(nb-1, nb-1, 4*net.NumBranch()+nb)
	w := &Workspace{
		net:   net,
		trip:  trip,
		theta: make([]float64, nb-1),
	}
	w.sys = System{
		NumBus:    nb,
		Injection: make([]float64, nb),
		RHS:       make([]float64, nb-1),
		Active:    make([]int, 0, net.NumBranch()),
		net:       net,
	}
	w.base = Base{
		Theta: make([]float64, nb),
		Flow:  make([]float64, net.NumBranch()),
	}
	return w
}

// BuildSystem assembles the model of interval t with a fresh workspace.
func BuildSystem(net *network.Network, t int, state *network.State) (*System, error) {
	return NewWorkspace(net).BuildSystem(t, state)
}

// BuildSystem assembles A, P and r for the state of interval t. The returned System aliases
// workspace memory and stays valid until the next BuildSystem call.
//
// Implementation:
//   - Stage 1: validate the state shape.
//   - Stage 2: accumulate bus injections and the distributed slack.
//   - Stage 3: stamp u_j·b_j·m_j·m_jᵀ for every active branch and its
//     phase-shift term into r.
//
// Errors: wrapped network.ErrStateShape or network.ErrNaNInf.
//
// Complexity: O(B + L + D) plus the CSR sort.
func (w *Workspace) BuildSystem(t int, state *network.State) (*System, error) {
	net := w.net
	if err := net.ValidateState(t, state); err != nil {
		return nil, fmt.Errorf("dcflow: %w", err)
	}
	sys := &w.sys
	sys.Interval, sys.state = t, state
	nb := sys.NumBus

	inj := sys.Injection
	clear(inj)
	for d, dev := range net.Devices() {
		if dev.Kind == network.Producer {
			inj[dev.Bus] += state.DeviceP[d]
		} else {
			inj[dev.Bus] -= state.DeviceP[d]
		}
	}
	for s, sh := range net.Shunts() {
		inj[sh.Bus] -= state.ShuntP[s]
	}
	for l, link := range net.DCLinks() {
		inj[link.From] -= state.DCFlowP[l]
		inj[link.To] += state.DCFlowP[l]
	}
	total := 0.0
	for _, p := range inj {
		total += p
	}
	sys.Slack = total / float64(nb)

	rhs := sys.RHS
	for i := 1; i < nb; i++ {
		rhs[i-1] = sys.Slack - inj[i]
	}

	w.trip.Reset()
	sys.Active = sys.Active[:0]
	for j, br := range net.Branches() {
		if !state.InService[j] {
			continue
		}
		sys.Active = append(sys.Active, j)
		b := br.B
		f, t := br.From-1, br.To-1
		if err := w.stampBranch(f, t, b); err != nil {
			return nil, internalError("stamp branch "+br.UID, err)
		}
		if phi := state.PhaseShift[j]; phi != 0 {
			if f >= 0 {
				rhs[f] += b * phi
			}
			if t >= 0 {
				rhs[t] -= b * phi
			}
		}
	}
	m, err := w.trip.ToCSR()
	if err != nil {
		return nil, internalError("assemble matrix", err)
	}
	sys.Matrix = m
	return sys, nil
}

// stampBranch adds b·m·mᵀ for a branch between reduced rows f and t. A
// negative row is the reference bus and contributes nothing.
func (w *Workspace) stampBranch(f, t int, b float64) error {
	if f >= 0 {
		if err := w.trip.Add(f, f, b); err != nil {
			return err
		}
	}
	if t >= 0 {
		if err := w.trip.Add(t, t, b); err != nil {
			return err
		}
	}
	if f < 0 || t < 0 {
		return nil
	}
	if err := w.trip.Add(f, t, -b); err != nil {
		return err
	}
	return w.trip.Add(t, f, -b)
}
