// SPDX-License-Identifier: MIT

package engine

import (
	"github.com/google/uuid"

	"github.com/katalvlaran/ctgflow/violation"
)

// Status tags the outcome of one interval.
type Status int

const (
	// StatusOK means the contingency stage ran to completion.
	StatusOK Status = iota
	// StatusStructuralInfeasible means the base case was disconnected and
	// the contingency stage was skipped.
	StatusStructuralInfeasible
	// StatusInternalError means a numerical failure aborted the run.
	StatusInternalError
	// statusPending marks intervals not reached before an abort.
	statusPending
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusStructuralInfeasible:
		return "structural_infeasible"
	case StatusInternalError:
		return "internal_error"
	default:
		return "pending"
	}
}

// MarshalText encodes the status name.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Outcome is the tagged result of one interval.
type Outcome struct {
	Interval int    `json:"interval"`
	Status   Status `json:"status"`
	// Structural is the base-disconnection record when Status is
	// StatusStructuralInfeasible.
	Structural *violation.Record `json:"structural,omitempty"`
	// Reason carries the error text when Status is StatusInternalError.
	Reason      string                `json:"reason,omitempty"`
	Diagnostics violation.Diagnostics `json:"diagnostics"`
	Worst       violation.Worst       `json:"-"`
}

// Report aggregates a run.
type Report struct {
	RunID uuid.UUID `json:"run_id"`
	// Penalty[t][k] is the violation penalty of contingency k in interval t.
	Penalty [][]float64 `json:"penalty"`
	// Worst holds the global worst record per category.
	Worst violation.Worst `json:"-"`
	// BaseDisconnected[t] is set when interval t's base case is islanded.
	BaseDisconnected []bool `json:"base_disconnected"`
	// ContingencyDisconnected[t][k] is set when contingency k islands interval t.
	ContingencyDisconnected [][]bool  `json:"contingency_disconnected"`
	Outcomes                []Outcome `json:"outcomes"`
}

func newReport(numT, numK int) *Report {
	r := &Report{
		RunID:                   uuid.New(),
		Penalty:                 make([][]float64, numT),
		BaseDisconnected:        make([]bool, numT),
		ContingencyDisconnected: make([][]bool, numT),
		Outcomes:                make([]Outcome, numT),
	}
	pen := make([]float64, numT*numK)
	dis := make([]bool, numT*numK)
	for t := 0; t < numT; t++ {
		r.Penalty[t] = pen[t*numK : (t+1)*numK : (t+1)*numK]
		r.ContingencyDisconnected[t] = dis[t*numK : (t+1)*numK : (t+1)*numK]
		r.Outcomes[t] = Outcome{Interval: t, Status: statusPending}
	}
	return r
}

// TotalPenalty sums the penalty matrix in interval-major order.
func (r *Report) TotalPenalty() float64 {
	sum := 0.0
	for _, row := range r.Penalty {
		for _, z := range row {
			sum += z
		}
	}
	return sum
}

// Feasible reports whether no interval is disconnected, no contingency
// islands the network and no rating is exceeded.
func (r *Report) Feasible() bool {
	for _, rec := range r.Worst {
		if rec.Valid {
			return false
		}
	}
	return true
}

// Records returns the valid worst records in category order.
func (r *Report) Records() []violation.Record {
	var out []violation.Record
	for _, rec := range r.Worst {
		if rec.Valid {
			out = append(out, rec)
		}
	}
	return out
}
