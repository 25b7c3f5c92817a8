// SPDX-License-Identifier: MIT

package engine_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ctgflow/config"
	"github.com/katalvlaran/ctgflow/engine"
	"github.com/katalvlaran/ctgflow/network"
	"github.com/katalvlaran/ctgflow/network/networktest"
	"github.com/katalvlaran/ctgflow/violation"
)

func horizon(rng *rand.Rand, net *network.Network) []*network.State {
	states := make([]*network.State, net.NumIntervals())
	for t := range states {
		st := networktest.RandomState(rng, net, 0.6)
		for j := range st.QFlow {
			st.QFlow[j] = 0.1 * rng.NormFloat64()
		}
		states[t] = st
	}
	return states
}

func TestRun_DeterministicAcrossWorkers(t *testing.T) {
	rng := rand.New(rand.NewSource(41))
	net := networktest.Random(rng, 30, 40, 24, 0.5)
	states := horizon(rng, net)
	// One islanded interval mixes structural and rating outcomes.
	for j, br := range net.Branches() {
		if br.From == 7 || br.To == 7 {
			states[5].InService[j] = false
		}
	}

	run := func(workers int) *engine.Report {
		eng, err := engine.New(net, engine.WithWorkers(workers), engine.WithViolationCost(100))
		require.NoError(t, err)
		rep, err := eng.Run(context.Background(), states)
		require.NoError(t, err)
		return rep
	}
	ref := run(1)
	require.True(t, ref.BaseDisconnected[5])
	require.Equal(t, engine.StatusStructuralInfeasible, ref.Outcomes[5].Status)

	for _, w := range []int{2, 4, 8, 16} {
		for rep := 0; rep < 3; rep++ {
			got := run(w)
			assert.NotEqual(t, ref.RunID, got.RunID)
			assert.Equal(t, ref.Penalty, got.Penalty)
			assert.Equal(t, ref.Worst, got.Worst)
			assert.Equal(t, ref.BaseDisconnected, got.BaseDisconnected)
			assert.Equal(t, ref.ContingencyDisconnected, got.ContingencyDisconnected)
			assert.Equal(t, ref.Outcomes, got.Outcomes)
		}
	}
}

func TestRun_ScreeningMatchesBruteForce(t *testing.T) {
	tests := []struct {
		name  string
		seed  int64
		build func(rng *rand.Rand) *network.Network
		open  bool
	}{
		{"negative susceptance", 43, func(rng *rand.Rand) *network.Network {
			return networktest.Random(rng, 20, 25, 6, 0.4)
		}, false},
		{"mixed susceptance with open chords", 47, func(rng *rand.Rand) *network.Network {
			return networktest.RandomMixed(rng, 20, 25, 6, 0.4, 0.25)
		}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(tc.seed))
			net := tc.build(rng)
			states := horizon(rng, net)
			if tc.open {
				for _, st := range states {
					networktest.OpenChords(rng, net, st, 2)
				}
			}

			fast, err := engine.New(net, engine.WithBoundScreening(true))
			require.NoError(t, err)
			slow, err := engine.New(net, engine.WithBoundScreening(false))
			require.NoError(t, err)
			a, err := fast.Run(context.Background(), states)
			require.NoError(t, err)
			b, err := slow.Run(context.Background(), states)
			require.NoError(t, err)
			assert.Equal(t, b.Penalty, a.Penalty)
			assert.Equal(t, b.Worst, a.Worst)
			assert.Equal(t, b.ContingencyDisconnected, a.ContingencyDisconnected)
		})
	}
}

func TestRun_TriangleAndBridge(t *testing.T) {
	// Buses 0-1-2 form a loop, bus 3 hangs off bus 2 by a single line.
	net := networktest.Build(4, []networktest.Link{
		{From: 0, To: 1, B: -10, Rating: 0.8},
		{From: 1, To: 2, B: -10, Rating: 0.8},
		{From: 0, To: 2, B: -10, Rating: 0.8},
		{From: 2, To: 3, B: -10, Rating: 5, Kind: network.Transformer},
	}, []int{0, 1, 2, 3}, 2)
	st := networktest.State(net, 0, 1, -1, 0)

	eng, err := engine.New(net, engine.WithWorkers(2))
	require.NoError(t, err)
	rep, err := eng.Run(context.Background(), []*network.State{st, st})
	require.NoError(t, err)

	for tt := 0; tt < 2; tt++ {
		assert.Equal(t, engine.StatusOK, rep.Outcomes[tt].Status)
		assert.InDeltaSlice(t, []float64{0.2, 0.4, 0.2, 0}, rep.Penalty[tt], 1e-9)
		assert.Equal(t, []bool{false, false, false, true}, rep.ContingencyDisconnected[tt])
	}
	assert.False(t, rep.Feasible())
	assert.InDelta(t, 1.6, rep.TotalPenalty(), 1e-9)

	dis, ok := rep.Worst.Get(violation.ContingencyDisconnection)
	require.True(t, ok)
	assert.Equal(t, 0, dis.Interval)
	assert.Equal(t, 3, dis.Contingency)
	assert.Equal(t, 2, dis.From)
	assert.Equal(t, 3, dis.To)

	line, ok := rep.Worst.Get(violation.RatingLineOutage)
	require.True(t, ok)
	assert.InDelta(t, 0.2, line.Value, 1e-9)
	_, ok = rep.Worst.Get(violation.BaseDisconnection)
	assert.False(t, ok)
	assert.Len(t, rep.Records(), 2)
}

func TestRun_FeasibleWhenLoose(t *testing.T) {
	net := networktest.Triangle(10)
	eng, err := engine.New(net)
	require.NoError(t, err)
	rep, err := eng.Run(context.Background(), []*network.State{networktest.State(net, 0, 1, -1)})
	require.NoError(t, err)
	assert.True(t, rep.Feasible())
	assert.Zero(t, rep.TotalPenalty())
	assert.Empty(t, rep.Records())
}

func TestRun_BaseDisconnectionSkipsInterval(t *testing.T) {
	net := networktest.Triangle(0.1)
	st := networktest.State(net, 0, 1, -1)
	st.InService[0] = false
	st.InService[1] = false

	eng, err := engine.New(net)
	require.NoError(t, err)
	rep, err := eng.Run(context.Background(), []*network.State{st})
	require.NoError(t, err)

	out := rep.Outcomes[0]
	assert.Equal(t, engine.StatusStructuralInfeasible, out.Status)
	require.NotNil(t, out.Structural)
	assert.Equal(t, 1.0, out.Structural.Value)
	assert.Equal(t, 0, out.Structural.From)
	assert.Equal(t, 1, out.Structural.To)
	assert.Equal(t, []float64{0, 0, 0}, rep.Penalty[0])
	assert.Zero(t, out.Diagnostics.Monitored)

	rec, ok := rep.Worst.Get(violation.BaseDisconnection)
	require.True(t, ok)
	assert.True(t, rec.Category.Structural())
	assert.False(t, rep.Feasible())
}

func TestRun_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	net := networktest.Triangle(0.8)
	eng, err := engine.New(net, engine.WithMetrics(reg))
	require.NoError(t, err)

	st := networktest.State(net, 0, 1, -1)
	_, err = eng.Run(context.Background(), []*network.State{st})
	require.NoError(t, err)

	m, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, m)
	count, err := testutil.GatherAndCount(reg, "ctgflow_intervals_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNew_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	net := networktest.Triangle(0.8)
	first, err := engine.New(net, engine.WithMetrics(reg))
	require.NoError(t, err)

	_, err = engine.New(net, engine.WithMetrics(reg))
	require.ErrorIs(t, err, engine.ErrBadOption)
	var dup prometheus.AlreadyRegisteredError
	require.ErrorAs(t, err, &dup)

	// The failed registration leaves the first engine's collectors in place.
	_, err = first.Run(context.Background(), []*network.State{networktest.State(net, 0, 1, -1)})
	require.NoError(t, err)
	count, err := testutil.GatherAndCount(reg, "ctgflow_intervals_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// A registry that rejects only a later collector is rolled back.
	partial := prometheus.NewRegistry()
	partial.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "ctgflow_violations_total", Help: "Post-contingency rating exceedances"}))
	_, err = engine.NewMetrics(partial)
	require.ErrorAs(t, err, &dup)
	n, err := testutil.GatherAndCount(partial, "ctgflow_intervals_total")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRun_Errors(t *testing.T) {
	net := networktest.Triangle(1)
	eng, err := engine.New(net)
	require.NoError(t, err)

	_, err = eng.Run(context.Background(), nil)
	require.ErrorIs(t, err, engine.ErrIntervalCount)

	bad := networktest.State(net)
	bad.QFlow = bad.QFlow[:1]
	_, err = eng.Run(context.Background(), []*network.State{bad})
	require.ErrorIs(t, err, network.ErrStateShape)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = eng.Run(ctx, []*network.State{networktest.State(net)})
	require.ErrorIs(t, err, context.Canceled)
}

func TestNew_Options(t *testing.T) {
	_, err := engine.New(nil)
	require.ErrorIs(t, err, engine.ErrNilNetwork)

	net := networktest.Triangle(1)
	_, err = engine.New(net, engine.WithViolationCost(-1))
	require.ErrorIs(t, err, engine.ErrBadOption)
	_, err = engine.New(net, engine.WithPivotThreshold(0))
	require.ErrorIs(t, err, engine.ErrBadOption)

	cfg := config.Defaults()
	cfg.Ordering = "natural"
	cfg.Workers = 2
	eng, err := engine.New(net, engine.FromConfig(cfg), engine.WithLogger(nil), engine.WithTracer(nil))
	require.NoError(t, err)
	assert.Same(t, net, eng.Network())
}
