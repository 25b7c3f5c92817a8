// SPDX-License-Identifier: MIT

package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/ctgflow/connectivity"
	"github.com/katalvlaran/ctgflow/dcflow"
	"github.com/katalvlaran/ctgflow/network"
	"github.com/katalvlaran/ctgflow/smw"
	"github.com/katalvlaran/ctgflow/sparse"
	"github.com/katalvlaran/ctgflow/violation"
)

var (
	// ErrNilNetwork is returned by New for a nil network.
	ErrNilNetwork = errors.New("engine: network is nil")

	// ErrIntervalCount indicates len(states) differs from the network's interval count.
	ErrIntervalCount = errors.New("engine: state count does not match intervals")

	// ErrBadOption indicates an option value outside its domain.
	ErrBadOption = errors.New("engine: invalid option")
)

// Engine screens a fixed network. It is safe to call Run from several
// goroutines; every run allocates its own workspaces.
type Engine struct {
	net     *network.Network
	s       settings
	metrics *Metrics
	factor  []sparse.FactorOption
	vopts   violation.Options
}

// New validates the options and prepares an Engine for net.
//
// Errors: ErrNilNetwork, ErrBadOption (also wrapping a metrics
// registration error).
func New(net *network.Network, opts ...Option) (*Engine, error) {
	if net == nil {
		return nil, ErrNilNetwork
	}
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	if !(s.cost >= 0) {
		return nil, fmt.Errorf("%w: violation cost %g", ErrBadOption, s.cost)
	}
	if !(s.threshold > 0 && s.threshold <= 1) {
		return nil, fmt.Errorf("%w: pivot threshold %g", ErrBadOption, s.threshold)
	}
	e := &Engine{
		net: net,
		s:   s,
		factor: []sparse.FactorOption{
			sparse.WithPivotThreshold(s.threshold),
			sparse.WithOrdering(s.ordering),
		},
		vopts: violation.Options{Cost: s.cost, BoundScreening: s.screening},
	}
	if s.registry != nil {
		m, err := NewMetrics(s.registry)
		if err != nil {
			return nil, fmt.Errorf("%w: metrics: %w", ErrBadOption, err)
		}
		e.metrics = m
	}
	return e, nil
}

// Network returns the screened network.
func (e *Engine) Network() *network.Network { return e.net }

// workspace is the private arena of one worker.
type workspace struct {
	dc    *dcflow.Workspace
	comp  *smw.Workspace
	eval  *violation.Evaluator
	edges []connectivity.Edge
}

func (e *Engine) newWorkspace() *workspace {
	return &workspace{
		dc:    dcflow.NewWorkspace(e.net),
		comp:  smw.NewWorkspace(e.net),
		eval:  violation.NewEvaluator(e.net, e.vopts),
		edges: make([]connectivity.Edge, 0, e.net.NumBranch()),
	}
}

// Run screens every interval. states[t] is the input of interval t.
//
// Implementation:
//   - Stage 1: validate every state up front (input contract errors are fatal).
//   - Stage 2: start min(workers, T) goroutines; each pulls the next interval
//     index and runs the pipeline in its own workspace.
//   - Stage 3: merge the per-interval worst records in interval order.
//
// On an internal error the partially filled report is returned together
// with the error; the failing interval is tagged StatusInternalError.
//
// Errors: ErrIntervalCount, wrapped network state errors, dcflow.ErrInternal,
// ctx.Err().
func (e *Engine) Run(ctx context.Context, states []*network.State) (*Report, error) {
	numT := e.net.NumIntervals()
	if len(states) != numT {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrIntervalCount, len(states), numT)
	}
	for t, st := range states {
		if err := e.net.ValidateState(t, st); err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
	}

	rep := newReport(numT, e.net.NumContingency())
	log := e.s.logger.With("run_id", rep.RunID.String())
	ctx, span := e.s.tracer.Start(ctx, "ctgflow.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("run.id", rep.RunID.String()),
		attribute.Int("network.buses", e.net.NumBus()),
		attribute.Int("network.branches", e.net.NumBranch()),
		attribute.Int("network.contingencies", e.net.NumContingency()),
		attribute.Int("run.intervals", numT),
	)

	workers := min(e.s.workers, numT)
	log.Info("screening started",
		"buses", e.net.NumBus(),
		"branches", e.net.NumBranch(),
		"contingencies", e.net.NumContingency(),
		"delta_set", len(e.net.DeltaSet()),
		"intervals", numT,
		"workers", workers)
	start := time.Now()

	var next atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			ws := e.newWorkspace()
			for {
				if err := gctx.Err(); err != nil {
					return err
				}
				t := int(next.Add(1) - 1)
				if t >= numT {
					return nil
				}
				if err := e.runInterval(gctx, log, ws, rep, t, states[t]); err != nil {
					return err
				}
			}
		})
	}
	err := g.Wait()

	for t := range rep.Outcomes {
		rep.Worst.Merge(&rep.Outcomes[t].Worst)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "screening aborted")
		log.Error("screening aborted", "error", err)
		return rep, err
	}

	span.SetAttributes(
		attribute.Float64("run.total_penalty", rep.TotalPenalty()),
		attribute.Bool("run.feasible", rep.Feasible()),
	)
	log.Info("screening finished",
		"elapsed", time.Since(start),
		"total_penalty", rep.TotalPenalty(),
		"feasible", rep.Feasible())
	return rep, nil
}

// runInterval executes the pipeline for interval t and fills the report
// rows owned by t.
func (e *Engine) runInterval(ctx context.Context, log *slog.Logger, ws *workspace, rep *Report, t int, st *network.State) (err error) {
	_, span := e.s.tracer.Start(ctx, "ctgflow.interval", trace.WithAttributes(attribute.Int("interval", t)))
	defer span.End()
	began := time.Now()
	out := &rep.Outcomes[t]

	defer func() {
		if err != nil {
			out.Status = StatusInternalError
			out.Reason = err.Error()
			span.RecordError(err)
			span.SetStatus(codes.Error, "interval failed")
		}
		span.SetAttributes(attribute.String("interval.status", out.Status.String()))
		if m := e.metrics; m != nil {
			m.Intervals.WithLabelValues(out.Status.String()).Inc()
			m.IntervalSeconds.Observe(time.Since(began).Seconds())
		}
	}()

	scr := e.screen(ws, st)
	if !scr.Connected() {
		rec := violation.BaseDisconnectionRecord(t, scr.Labels)
		out.Status = StatusStructuralInfeasible
		out.Structural = &rec
		out.Worst.Offer(rec)
		rep.BaseDisconnected[t] = true
		log.Warn("base case disconnected",
			"interval", t,
			"components", scr.Labels.Count,
			"from_bus", rec.From,
			"to_bus", rec.To)
		return nil
	}

	sys, err := ws.dc.BuildSystem(t, st)
	if err != nil {
		return fmt.Errorf("interval %d: %w", t, err)
	}
	base, err := ws.dc.SolveBase(sys, e.factor...)
	if err != nil {
		return fmt.Errorf("interval %d: %w", t, err)
	}
	bundle, err := ws.comp.Compute(base, scr)
	if err != nil {
		return fmt.Errorf("interval %d: %w", t, err)
	}
	dur, err := e.net.Duration(t)
	if err != nil {
		return fmt.Errorf("interval %d: %w", t, err)
	}
	res, err := ws.eval.Evaluate(violation.Input{Interval: t, Duration: dur, Bundle: bundle})
	if err != nil {
		return fmt.Errorf("interval %d: %w", t, err)
	}

	copy(rep.Penalty[t], res.Penalty)
	copy(rep.ContingencyDisconnected[t], res.Disconnected)
	out.Status = StatusOK
	out.Worst = res.Worst
	out.Diagnostics = res.Diagnostics

	d := res.Diagnostics
	if m := e.metrics; m != nil {
		m.Screened.WithLabelValues("monitored").Add(float64(d.Monitored))
		m.Screened.WithLabelValues("tier1").Add(float64(d.Tier1))
		m.Screened.WithLabelValues("tier2").Add(float64(d.Tier2))
		m.ExactPairs.Add(float64(d.Exact))
		m.Violations.Add(float64(d.Violations))
	}
	span.SetAttributes(
		attribute.Int("interval.bridges", len(scr.Critical)),
		attribute.Int("interval.tier2", d.Tier2),
		attribute.Int("interval.violations", d.Violations),
	)
	log.Debug("interval screened",
		"interval", t,
		"slack", sys.Slack,
		"factor_nnz", base.Factor.NNZ(),
		"critical", len(scr.Critical),
		"monitored", d.Monitored,
		"tier1", d.Tier1,
		"tier2", d.Tier2,
		"exact_pairs", d.Exact,
		"violations", d.Violations)
	return nil
}

// screen runs the connectivity checks on the in-service graph of st.
func (e *Engine) screen(ws *workspace, st *network.State) *connectivity.Result {
	ws.edges = ws.edges[:0]
	for j, br := range e.net.Branches() {
		if st.InService[j] {
			ws.edges = append(ws.edges, connectivity.Edge{ID: j, From: br.From, To: br.To})
		}
	}
	return connectivity.Screen(e.net.NumBus(), ws.edges, e.net.DeltaSet())
}
