// SPDX-License-Identifier: MIT

package violation

import (
	"errors"
	"math"

	"github.com/katalvlaran/ctgflow/network"
	"github.com/katalvlaran/ctgflow/smw"
)

// boundSlack widens the tier bounds by a relative margin so rounding in the
// bound products can never drop a pair the exact check would flag.
const boundSlack = 1e-12

// ErrBadInput indicates a missing bundle or a negative cost or duration.
var ErrBadInput = errors.New("violation: invalid input")

// Options tunes Evaluate.
type Options struct {
	// Cost is the penalty per unit of exceedance per hour.
	Cost float64
	// BoundScreening enables both filter tiers. With it off every in-service
	// (branch, outage) pair goes to the exact check.
	BoundScreening bool
}

// DefaultOptions returns unit cost with screening enabled.
func DefaultOptions() Options { return Options{Cost: 1, BoundScreening: true} }

// Input is one interval handed to Evaluate.
type Input struct {
	Interval int
	Duration float64
	Bundle   *smw.Bundle
}

// Diagnostics counts the work done by each stage.
type Diagnostics struct {
	// Monitored is the number of in-service branches considered.
	Monitored int
	// Tier1 and Tier2 count the branches surviving each filter.
	Tier1, Tier2 int
	// Exact counts the (branch, outage position) pairs checked exactly.
	Exact int
	// Violations counts the exceeding (branch, contingency) pairs.
	Violations int
}

// IntervalResult is the outcome of one interval.
type IntervalResult struct {
	Interval int
	// Penalty[k] is z for contingency k.
	Penalty []float64
	// Disconnected[k] is set when contingency k outages a bridge.
	Disconnected []bool
	Worst        Worst
	Diagnostics  Diagnostics
}

// Evaluator holds per-worker scratch. It is not safe for concurrent use.
type Evaluator struct {
	net  *network.Network
	opts Options
	dev  []float64
	res  IntervalResult
}

// NewEvaluator sizes an evaluator for net.
func NewEvaluator(net *network.Network, opts Options) *Evaluator {
	return &Evaluator{
		net:  net,
		opts: opts,
		dev:  make([]float64, len(net.DeltaSet())),
		res: IntervalResult{
			Penalty:      make([]float64, net.NumContingency()),
			Disconnected: make([]bool, net.NumContingency()),
		},
	}
}

// Evaluate runs with a fresh evaluator.
func Evaluate(net *network.Network, in Input, opts Options) (*IntervalResult, error) {
	return NewEvaluator(net, opts).Evaluate(in)
}

// Evaluate screens every (branch, contingency) pair of the interval. The
// result aliases evaluator memory until the next call.
//
// Implementation:
//   - Stage 1: flag bridge outages as disconnections.
//   - Stage 2: tier-1 bound from the global max of |c_k|·range(W_k).
//   - Stage 3: tier-2 bound from the deviation row of each survivor.
//   - Stage 4: exact s = sqrt(p'² + q²) per survivor pair, skipping the
//     outaged branch itself, accumulating z and the worst records.
//
// Errors: ErrBadInput.
//
// Complexity: O(L) for tier 1, O(L₁·D) for tier 2 and the exact stage,
// where L₁ is the number of tier-1 survivors.
func (e *Evaluator) Evaluate(in Input) (*IntervalResult, error) {
	if in.Bundle == nil || !(in.Duration > 0) || e.opts.Cost < 0 {
		return nil, ErrBadInput
	}
	res := &e.res
	res.Interval = in.Interval
	clear(res.Penalty)
	clear(res.Disconnected)
	res.Worst = Worst{}
	res.Diagnostics = Diagnostics{}

	b := in.Bundle
	net := e.net
	branches := net.Branches()
	st := b.Base().System.State()
	flow := b.Base().Flow
	weight := e.opts.Cost * in.Duration

	global := 0.0
	for p := 0; p < b.Len(); p++ {
		switch b.Status(p) {
		case smw.Bridge:
			k := b.Branch(p)
			for _, c := range net.ContingenciesOf(p) {
				res.Disconnected[c] = true
				res.Worst.Offer(Record{
					Category:    ContingencyDisconnection,
					Value:       1,
					Interval:    in.Interval,
					Contingency: c,
					Branch:      k,
					From:        branches[k].From,
					To:          branches[k].To,
				})
			}
		case smw.Active:
			global = math.Max(global, math.Abs(b.Scale(p))*b.Range(p))
		}
	}
	global *= 1 + boundSlack

	for j, br := range branches {
		if !st.InService[j] {
			continue
		}
		res.Diagnostics.Monitored++
		smax := br.RatingEmergency
		q := st.QFlow[j]
		base := flow[j]
		screen := e.opts.BoundScreening

		if screen && math.Hypot(math.Abs(base)+math.Abs(br.B)*global, q) <= smax {
			continue
		}
		res.Diagnostics.Tier1++

		lo, hi, seen := 0.0, 0.0, false
		for p := 0; p < b.Len(); p++ {
			if b.Status(p) == smw.Bridge || b.Branch(p) == j {
				continue
			}
			d := b.FlowDeviation(j, p)
			e.dev[p] = d
			if !seen {
				lo, hi, seen = d, d, true
				continue
			}
			lo, hi = math.Min(lo, d), math.Max(hi, d)
		}
		if !seen {
			continue
		}
		if screen {
			top := math.Max(math.Abs(base+hi), math.Abs(base+lo))
			if math.Hypot(top*(1+boundSlack), q) <= smax {
				continue
			}
		}
		res.Diagnostics.Tier2++

		for p := 0; p < b.Len(); p++ {
			if b.Status(p) == smw.Bridge || b.Branch(p) == j {
				continue
			}
			res.Diagnostics.Exact++
			s := math.Hypot(base+e.dev[p], q)
			if !(s > smax) {
				continue
			}
			excess := s - smax
			cat := CategoryOf(branches[b.Branch(p)].Kind)
			for _, c := range net.ContingenciesOf(p) {
				res.Diagnostics.Violations++
				res.Penalty[c] += weight * excess
				res.Worst.Offer(Record{
					Category:    cat,
					Value:       excess,
					Interval:    in.Interval,
					Contingency: c,
					Branch:      j,
					From:        br.From,
					To:          br.To,
				})
			}
		}
	}
	return res, nil
}
