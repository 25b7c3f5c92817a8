// SPDX-License-Identifier: MIT

package network

import (
	"math"
	"sort"
	"strconv"
)

// Network is a validated, immutable topology. The slices returned by its
// accessors are shared and must not be mutated by callers.
type Network struct {
	buses         []Bus
	branches      []Branch
	dcLinks       []DCLink
	devices       []Device
	shunts        []Shunt
	contingencies []Contingency
	intervals     []Interval

	busIndex    map[string]int
	branchIndex map[string]int
	ctgIndex    map[string]int

	// delta lists the distinct outaged branches in ascending order;
	// deltaPos[j] is j's position in delta or -1.
	delta    []int
	deltaPos []int
	// byBranch[p] lists the contingencies outaging delta[p], ascending.
	byBranch [][]int
}

// New validates spec and builds the index tables.
//
// Errors: ErrNoBuses, ErrDuplicateUID, ErrBusOutOfRange, ErrSelfLoop,
// ErrBadSusceptance, ErrBadRating, ErrUnknownBranch, ErrBadDuration,
// each wrapped with the offending element class and UID.
//
// Complexity: O(B + L + C) plus O(D log D) for the delta set.
func New(spec Spec) (*Network, error) {
	if len(spec.Buses) == 0 {
		return nil, ErrNoBuses
	}
	n := &Network{
		buses:         append([]Bus(nil), spec.Buses...),
		branches:      append([]Branch(nil), spec.Branches...),
		dcLinks:       append([]DCLink(nil), spec.DCLinks...),
		devices:       append([]Device(nil), spec.Devices...),
		shunts:        append([]Shunt(nil), spec.Shunts...),
		contingencies: append([]Contingency(nil), spec.Contingencies...),
		intervals:     append([]Interval(nil), spec.Intervals...),
		busIndex:      make(map[string]int, len(spec.Buses)),
		branchIndex:   make(map[string]int, len(spec.Branches)),
		ctgIndex:      make(map[string]int, len(spec.Contingencies)),
	}
	numBus := len(n.buses)

	for i, b := range n.buses {
		if _, dup := n.busIndex[b.UID]; dup {
			return nil, networkErrorf("bus", b.UID, ErrDuplicateUID)
		}
		n.busIndex[b.UID] = i
	}

	for j, br := range n.branches {
		if _, dup := n.branchIndex[br.UID]; dup {
			return nil, networkErrorf("branch", br.UID, ErrDuplicateUID)
		}
		if !inRange(br.From, numBus) || !inRange(br.To, numBus) {
			return nil, networkErrorf("branch", br.UID, ErrBusOutOfRange)
		}
		if br.From == br.To {
			return nil, networkErrorf("branch", br.UID, ErrSelfLoop)
		}
		if br.B == 0 || !finite(br.B) {
			return nil, networkErrorf("branch", br.UID, ErrBadSusceptance)
		}
		if !validRating(br.RatingNormal) || !validRating(br.RatingEmergency) {
			return nil, networkErrorf("branch", br.UID, ErrBadRating)
		}
		n.branchIndex[br.UID] = j
	}

	seen := make(map[string]struct{}, len(n.dcLinks))
	for _, l := range n.dcLinks {
		if _, dup := seen[l.UID]; dup {
			return nil, networkErrorf("dc link", l.UID, ErrDuplicateUID)
		}
		seen[l.UID] = struct{}{}
		if !inRange(l.From, numBus) || !inRange(l.To, numBus) {
			return nil, networkErrorf("dc link", l.UID, ErrBusOutOfRange)
		}
		if l.From == l.To {
			return nil, networkErrorf("dc link", l.UID, ErrSelfLoop)
		}
	}

	clear(seen)
	for _, d := range n.devices {
		if _, dup := seen[d.UID]; dup {
			return nil, networkErrorf("device", d.UID, ErrDuplicateUID)
		}
		seen[d.UID] = struct{}{}
		if !inRange(d.Bus, numBus) {
			return nil, networkErrorf("device", d.UID, ErrBusOutOfRange)
		}
	}

	clear(seen)
	for _, s := range n.shunts {
		if _, dup := seen[s.UID]; dup {
			return nil, networkErrorf("shunt", s.UID, ErrDuplicateUID)
		}
		seen[s.UID] = struct{}{}
		if !inRange(s.Bus, numBus) {
			return nil, networkErrorf("shunt", s.UID, ErrBusOutOfRange)
		}
	}

	for k, c := range n.contingencies {
		if _, dup := n.ctgIndex[c.UID]; dup {
			return nil, networkErrorf("contingency", c.UID, ErrDuplicateUID)
		}
		if !inRange(c.Branch, len(n.branches)) {
			return nil, networkErrorf("contingency", c.UID, ErrUnknownBranch)
		}
		n.ctgIndex[c.UID] = k
	}

	for t, iv := range n.intervals {
		if !(iv.Duration > 0) || !finite(iv.Duration) {
			return nil, networkErrorf("interval", strconv.Itoa(t), ErrBadDuration)
		}
	}

	n.buildDeltaSet()

	return n, nil
}

// buildDeltaSet collects the distinct outaged branches and groups the
// contingencies sharing each one.
func (n *Network) buildDeltaSet() {
	n.deltaPos = make([]int, len(n.branches))
	for j := range n.deltaPos {
		n.deltaPos[j] = -1
	}
	for _, c := range n.contingencies {
		n.deltaPos[c.Branch] = 0
	}
	for j, p := range n.deltaPos {
		if p == 0 {
			n.delta = append(n.delta, j)
		}
	}
	sort.Ints(n.delta)
	for p, j := range n.delta {
		n.deltaPos[j] = p
	}
	n.byBranch = make([][]int, len(n.delta))
	for k, c := range n.contingencies {
		p := n.deltaPos[c.Branch]
		n.byBranch[p] = append(n.byBranch[p], k)
	}
}

// NumBus returns the number of buses.
func (n *Network) NumBus() int { return len(n.buses) }

// NumBranch returns the number of AC branches.
func (n *Network) NumBranch() int { return len(n.branches) }

// NumContingency returns the number of contingencies.
func (n *Network) NumContingency() int { return len(n.contingencies) }

// NumIntervals returns the number of time intervals.
func (n *Network) NumIntervals() int { return len(n.intervals) }

// Buses returns the bus table.
func (n *Network) Buses() []Bus { return n.buses }

// Branches returns the branch table.
func (n *Network) Branches() []Branch { return n.branches }

// DCLinks returns the DC link table.
func (n *Network) DCLinks() []DCLink { return n.dcLinks }

// Devices returns the device table.
func (n *Network) Devices() []Device { return n.devices }

// Shunts returns the shunt table.
func (n *Network) Shunts() []Shunt { return n.shunts }

// Contingencies returns the contingency table.
func (n *Network) Contingencies() []Contingency { return n.contingencies }

// Intervals returns the interval table.
func (n *Network) Intervals() []Interval { return n.intervals }

// DeltaSet returns the ascending list of branches outaged by at least one
// contingency.
func (n *Network) DeltaSet() []int { return n.delta }

// DeltaPosition returns j's position in DeltaSet, or -1 if no contingency
// outages branch j.
func (n *Network) DeltaPosition(j int) int {
	if !inRange(j, len(n.deltaPos)) {
		return -1
	}
	return n.deltaPos[j]
}

// ContingenciesOf returns the contingencies that outage DeltaSet()[p].
func (n *Network) ContingenciesOf(p int) []int { return n.byBranch[p] }

// BusIndex resolves a bus UID.
func (n *Network) BusIndex(uid string) (int, error) {
	return lookup(n.busIndex, "bus", uid)
}

// BranchIndex resolves a branch UID.
func (n *Network) BranchIndex(uid string) (int, error) {
	return lookup(n.branchIndex, "branch", uid)
}

// ContingencyIndex resolves a contingency UID.
func (n *Network) ContingencyIndex(uid string) (int, error) {
	return lookup(n.ctgIndex, "contingency", uid)
}

func lookup(m map[string]int, class, uid string) (int, error) {
	i, ok := m[uid]
	if !ok {
		return -1, networkErrorf(class, uid, ErrUnknownUID)
	}
	return i, nil
}

func inRange(i, n int) bool { return i >= 0 && i < n }

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func validRating(v float64) bool { return finite(v) && v >= 0 }
