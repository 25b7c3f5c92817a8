// SPDX-License-Identifier: MIT

package network_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ctgflow/network"
)

func validSpec() network.Spec {
	return network.Spec{
		Buses: []network.Bus{{UID: "a"}, {UID: "b"}, {UID: "c"}},
		Branches: []network.Branch{
			{UID: "ab", From: 0, To: 1, B: -10, RatingNormal: 1, RatingEmergency: 1.2},
			{UID: "bc", From: 1, To: 2, B: -10, RatingNormal: 1, RatingEmergency: 1.2},
			{UID: "ca", Kind: network.Transformer, From: 2, To: 0, B: -5, RatingNormal: 1, RatingEmergency: 1.2},
		},
		DCLinks:       []network.DCLink{{UID: "dc", From: 0, To: 2}},
		Devices:       []network.Device{{UID: "g", Bus: 1}, {UID: "l", Bus: 2, Kind: network.Consumer}},
		Shunts:        []network.Shunt{{UID: "s", Bus: 0}},
		Contingencies: []network.Contingency{{UID: "k2", Branch: 2}, {UID: "k0", Branch: 0}, {UID: "k2b", Branch: 2}},
		Intervals:     []network.Interval{{Duration: 1}, {Duration: 0.25}},
	}
}

func TestNew_DeltaSet(t *testing.T) {
	net, err := network.New(validSpec())
	require.NoError(t, err)
	assert.Equal(t, 3, net.NumBus())
	assert.Equal(t, 3, net.NumBranch())
	assert.Equal(t, 3, net.NumContingency())
	assert.Equal(t, 2, net.NumIntervals())

	assert.Equal(t, []int{0, 2}, net.DeltaSet())
	assert.Equal(t, 0, net.DeltaPosition(0))
	assert.Equal(t, -1, net.DeltaPosition(1))
	assert.Equal(t, 1, net.DeltaPosition(2))
	assert.Equal(t, []int{1}, net.ContingenciesOf(0))
	assert.Equal(t, []int{0, 2}, net.ContingenciesOf(1))

	i, err := net.BranchIndex("bc")
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	i, err = net.ContingencyIndex("k2b")
	require.NoError(t, err)
	assert.Equal(t, 2, i)
	_, err = net.BusIndex("zz")
	require.ErrorIs(t, err, network.ErrUnknownUID)

	assert.Equal(t, "transformer", net.Branches()[2].Kind.String())
	assert.Equal(t, "line", net.Branches()[0].Kind.String())
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*network.Spec)
		want   error
	}{
		{"no buses", func(s *network.Spec) { s.Buses = nil }, network.ErrNoBuses},
		{"dup bus", func(s *network.Spec) { s.Buses[1].UID = "a" }, network.ErrDuplicateUID},
		{"dup branch", func(s *network.Spec) { s.Branches[1].UID = "ab" }, network.ErrDuplicateUID},
		{"branch bus range", func(s *network.Spec) { s.Branches[0].To = 7 }, network.ErrBusOutOfRange},
		{"self loop", func(s *network.Spec) { s.Branches[0].To = 0 }, network.ErrSelfLoop},
		{"zero b", func(s *network.Spec) { s.Branches[0].B = 0 }, network.ErrBadSusceptance},
		{"nan b", func(s *network.Spec) { s.Branches[0].B = math.NaN() }, network.ErrBadSusceptance},
		{"negative rating", func(s *network.Spec) { s.Branches[0].RatingEmergency = -1 }, network.ErrBadRating},
		{"dc self loop", func(s *network.Spec) { s.DCLinks[0].To = 0 }, network.ErrSelfLoop},
		{"device bus", func(s *network.Spec) { s.Devices[0].Bus = -1 }, network.ErrBusOutOfRange},
		{"shunt bus", func(s *network.Spec) { s.Shunts[0].Bus = 3 }, network.ErrBusOutOfRange},
		{"unknown branch", func(s *network.Spec) { s.Contingencies[0].Branch = 9 }, network.ErrUnknownBranch},
		{"dup contingency", func(s *network.Spec) { s.Contingencies[1].UID = "k2" }, network.ErrDuplicateUID},
		{"bad duration", func(s *network.Spec) { s.Intervals[1].Duration = 0 }, network.ErrBadDuration},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spec := validSpec()
			tc.mutate(&spec)
			_, err := network.New(spec)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestNew_CopiesInput(t *testing.T) {
	spec := validSpec()
	net, err := network.New(spec)
	require.NoError(t, err)
	spec.Branches[0].B = -99
	assert.Equal(t, -10.0, net.Branches()[0].B)
}

func TestState(t *testing.T) {
	net, err := network.New(validSpec())
	require.NoError(t, err)

	st := network.NewState(net)
	assert.Equal(t, []bool{true, true, true}, st.InService)
	require.NoError(t, net.ValidateState(0, st))

	require.ErrorIs(t, net.ValidateState(0, nil), network.ErrStateShape)

	st.DCFlowP = nil
	require.ErrorIs(t, net.ValidateState(1, st), network.ErrStateShape)

	st = network.NewState(net)
	st.DeviceP[0] = math.Inf(1)
	require.ErrorIs(t, net.ValidateState(1, st), network.ErrNaNInf)

	d, err := net.Duration(1)
	require.NoError(t, err)
	assert.Equal(t, 0.25, d)
	_, err = net.Duration(2)
	require.ErrorIs(t, err, network.ErrIntervalOutOfRange)
}
