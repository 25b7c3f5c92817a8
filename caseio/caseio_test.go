// SPDX-License-Identifier: MIT

package caseio_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ctgflow/caseio"
	"github.com/katalvlaran/ctgflow/network"
)

func TestLoad_Triangle(t *testing.T) {
	c, err := caseio.Load("testdata/triangle.yaml")
	require.NoError(t, err)
	net := c.Network
	assert.Equal(t, 4, net.NumBus())
	assert.Equal(t, 4, net.NumBranch())
	assert.Equal(t, 4, net.NumContingency())
	require.Len(t, c.States, 3)

	cd, err := net.BranchIndex("CD")
	require.NoError(t, err)
	assert.Equal(t, network.Transformer, net.Branches()[cd].Kind)
	// Emergency rating defaults to the normal rating.
	assert.Equal(t, 5.0, net.Branches()[cd].RatingEmergency)
	assert.Equal(t, 0.8, net.Branches()[0].RatingEmergency)

	assert.Equal(t, []float64{1, 1}, c.States[0].DeviceP)
	assert.True(t, c.States[0].InService[cd])
	assert.False(t, c.States[1].InService[cd])
	assert.Equal(t, 0.01, c.States[2].PhaseShift[cd])
	assert.Equal(t, 0.1, c.States[2].QFlow[0])
	assert.Equal(t, []float64{0.2}, c.States[2].DCFlowP)
	assert.Equal(t, []float64{0.2}, c.States[2].ShuntP)

	d, err := net.Duration(1)
	require.NoError(t, err)
	assert.Equal(t, 0.5, d)
	for tt, st := range c.States {
		require.NoError(t, net.ValidateState(tt, st))
	}
}

func TestDecode_EmergencyRating(t *testing.T) {
	tests := []struct {
		name string
		line string
		want float64
	}{
		{"absent", "{uid: X, from: A, to: B, b: -1, rating: 2}", 2},
		{"explicit zero", "{uid: X, from: A, to: B, b: -1, rating: 2, rating_emergency: 0}", 0},
		{"explicit value", "{uid: X, from: A, to: B, b: -1, rating: 2, rating_emergency: 2.5}", 2.5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := "buses: [{uid: A}, {uid: B}]\nbranches: [" + tc.line + "]\n"
			c, err := caseio.Decode(strings.NewReader(doc))
			require.NoError(t, err)
			assert.Equal(t, tc.want, c.Network.Branches()[0].RatingEmergency)
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "unknown bus",
			doc:  "buses: [{uid: A}]\nbranches: [{uid: X, from: A, to: Z, b: -1}]\n",
			want: caseio.ErrUnknownRef,
		},
		{
			name: "unknown branch kind",
			doc:  "buses: [{uid: A}, {uid: B}]\nbranches: [{uid: X, kind: cable, from: A, to: B, b: -1}]\n",
			want: caseio.ErrBadKind,
		},
		{
			name: "unknown contingency branch",
			doc:  "buses: [{uid: A}]\ncontingencies: [{uid: c, branch: nope}]\n",
			want: network.ErrUnknownBranch,
		},
		{
			name: "self loop",
			doc:  "buses: [{uid: A}]\nbranches: [{uid: X, from: A, to: A, b: -1}]\n",
			want: network.ErrSelfLoop,
		},
		{
			name: "unknown device in interval",
			doc:  "buses: [{uid: A}]\nintervals: [{duration: 1, device_p: {ghost: 1}}]\n",
			want: caseio.ErrUnknownRef,
		},
		{
			name: "unknown branch in service map",
			doc:  "buses: [{uid: A}]\nintervals: [{duration: 1, in_service: {ghost: false}}]\n",
			want: network.ErrUnknownUID,
		},
		{
			name: "bad duration",
			doc:  "buses: [{uid: A}]\nintervals: [{duration: 0}]\n",
			want: network.ErrBadDuration,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := caseio.Decode(strings.NewReader(tc.doc))
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestDecode_RejectsUnknownKeys(t *testing.T) {
	_, err := caseio.Decode(strings.NewReader("buses: [{uid: A, name: x}]\n"))
	require.Error(t, err)
}

func TestLoad_Missing(t *testing.T) {
	_, err := caseio.Load("testdata/absent.yaml")
	require.Error(t, err)
}
