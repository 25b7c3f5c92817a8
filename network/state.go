// SPDX-License-Identifier: MIT

package network

import "fmt"

// NewState returns a State sized for n with every branch in service and
// all injections at zero.
func NewState(n *Network) *State {
	s := &State{
		InService:  make([]bool, len(n.branches)),
		PhaseShift: make([]float64, len(n.branches)),
		QFlow:      make([]float64, len(n.branches)),
		DCFlowP:    make([]float64, len(n.dcLinks)),
		DCFlowQ:    make([]float64, len(n.dcLinks)),
		DeviceP:    make([]float64, len(n.devices)),
		DeviceQ:    make([]float64, len(n.devices)),
		ShuntP:     make([]float64, len(n.shunts)),
		ShuntQ:     make([]float64, len(n.shunts)),
	}
	for j := range s.InService {
		s.InService[j] = true
	}
	return s
}

// ValidateState checks that s matches the shape of n and holds only finite
// values. t is used for error context only.
func (n *Network) ValidateState(t int, s *State) error {
	if s == nil {
		return fmt.Errorf("interval %d: %w", t, ErrStateShape)
	}
	checks := []struct {
		name string
		got  int
		want int
	}{
		{"in_service", len(s.InService), len(n.branches)},
		{"phase_shift", len(s.PhaseShift), len(n.branches)},
		{"q_flow", len(s.QFlow), len(n.branches)},
		{"dc_p", len(s.DCFlowP), len(n.dcLinks)},
		{"dc_q", len(s.DCFlowQ), len(n.dcLinks)},
		{"device_p", len(s.DeviceP), len(n.devices)},
		{"device_q", len(s.DeviceQ), len(n.devices)},
		{"shunt_p", len(s.ShuntP), len(n.shunts)},
		{"shunt_q", len(s.ShuntQ), len(n.shunts)},
	}
	for _, c := range checks {
		if c.got != c.want {
			return fmt.Errorf("interval %d: %s has %d entries, want %d: %w", t, c.name, c.got, c.want, ErrStateShape)
		}
	}
	for _, vs := range [][]float64{s.PhaseShift, s.QFlow, s.DCFlowP, s.DCFlowQ, s.DeviceP, s.DeviceQ, s.ShuntP, s.ShuntQ} {
		for i, v := range vs {
			if !finite(v) {
				return fmt.Errorf("interval %d: entry %d: %w", t, i, ErrNaNInf)
			}
		}
	}
	return nil
}

// Duration returns the duration of interval t.
func (n *Network) Duration(t int) (float64, error) {
	if !inRange(t, len(n.intervals)) {
		return 0, fmt.Errorf("interval %d: %w", t, ErrIntervalOutOfRange)
	}
	return n.intervals[t].Duration, nil
}
