// SPDX-License-Identifier: MIT

// Package networktest builds small networks and states for tests.
package networktest

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/katalvlaran/ctgflow/network"
)

// Link describes one branch for Build: endpoints, susceptance and
// emergency rating.
type Link struct {
	From, To int
	B        float64
	Rating   float64
	Kind     network.BranchKind
}

// Build returns a network over numBus buses with the given branches, one
// contingency per entry of outages (branch indices) and numT one-hour
// intervals. It panics on invalid input.
func Build(numBus int, links []Link, outages []int, numT int) *network.Network {
	spec := network.Spec{}
	for i := 0; i < numBus; i++ {
		spec.Buses = append(spec.Buses, network.Bus{UID: fmt.Sprintf("bus%d", i)})
	}
	for j, l := range links {
		spec.Branches = append(spec.Branches, network.Branch{
			UID:             fmt.Sprintf("br%d", j),
			Kind:            l.Kind,
			From:            l.From,
			To:              l.To,
			B:               l.B,
			RatingNormal:    l.Rating,
			RatingEmergency: l.Rating,
		})
	}
	for k, j := range outages {
		spec.Contingencies = append(spec.Contingencies, network.Contingency{UID: fmt.Sprintf("ctg%d", k), Branch: j})
	}
	for i := 0; i < numBus; i++ {
		spec.Devices = append(spec.Devices, network.Device{UID: fmt.Sprintf("dev%d", i), Bus: i, Kind: network.Producer})
	}
	for t := 0; t < numT; t++ {
		spec.Intervals = append(spec.Intervals, network.Interval{Duration: 1})
	}
	net, err := network.New(spec)
	if err != nil {
		panic(err)
	}
	return net
}

// Triangle is the 3-bus loop 0-1, 1-2, 0-2 with b = -10 on every branch,
// one contingency per branch and a single interval.
func Triangle(rating float64) *network.Network {
	return Build(3, []Link{
		{From: 0, To: 1, B: -10, Rating: rating},
		{From: 1, To: 2, B: -10, Rating: rating},
		{From: 0, To: 2, B: -10, Rating: rating},
	}, []int{0, 1, 2}, 1)
}

// Random returns a connected network: a random spanning tree plus extra
// chords (parallel branches allowed), every second branch a transformer,
// and a contingency for every branch. Branches 0..numBus-2 form the tree.
func Random(rng *rand.Rand, numBus, extra, numT int, rating float64) *network.Network {
	return random(rng, numBus, extra, numT, rating, 0)
}

// RandomMixed is Random with roughly share of the chords given a positive
// susceptance in [20, 30], so the reduced matrix is indefinite.
func RandomMixed(rng *rand.Rand, numBus, extra, numT int, rating, share float64) *network.Network {
	return random(rng, numBus, extra, numT, rating, share)
}

func random(rng *rand.Rand, numBus, extra, numT int, rating, share float64) *network.Network {
	var links []Link
	add := func(f, t int, chord bool) {
		kind := network.Line
		if len(links)%2 == 1 {
			kind = network.Transformer
		}
		b := -(1 + 9*rng.Float64())
		if chord && share > 0 && rng.Float64() < share {
			b = 20 + 10*rng.Float64()
		}
		links = append(links, Link{From: f, To: t, B: b, Rating: rating, Kind: kind})
	}
	for v := 1; v < numBus; v++ {
		add(v, rng.Intn(v), false)
	}
	for e := 0; e < extra; e++ {
		f, t := rng.Intn(numBus), rng.Intn(numBus)
		if f != t {
			add(f, t, true)
		}
	}
	outages := make([]int, len(links))
	for j := range outages {
		outages[j] = j
	}
	return Build(numBus, links, outages, numT)
}

// OpenChords takes up to n distinct chords of a Random network out of
// service in s and returns their indices, ascending. The spanning tree is
// left intact, so s stays connected.
func OpenChords(rng *rand.Rand, net *network.Network, s *network.State, n int) []int {
	first := net.NumBus() - 1
	chords := net.NumBranch() - first
	if chords <= 0 || n <= 0 {
		return nil
	}
	var open []int
	for _, i := range rng.Perm(chords)[:min(n, chords)] {
		s.InService[first+i] = false
		open = append(open, first+i)
	}
	sort.Ints(open)
	return open
}

// State returns an all-in-service state whose device set-points are the
// given per-bus injections (device i sits on bus i).
func State(net *network.Network, inj ...float64) *network.State {
	s := network.NewState(net)
	copy(s.DeviceP, inj)
	return s
}

// RandomState fills the per-bus injections with normal samples scaled by
// scale and sets a small phase shift on every transformer.
func RandomState(rng *rand.Rand, net *network.Network, scale float64) *network.State {
	s := network.NewState(net)
	for i := range s.DeviceP {
		s.DeviceP[i] = scale * rng.NormFloat64()
	}
	for j, br := range net.Branches() {
		if br.Kind == network.Transformer {
			s.PhaseShift[j] = 0.05 * rng.NormFloat64()
		}
	}
	return s
}
