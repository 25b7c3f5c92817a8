// SPDX-License-Identifier: MIT

// Package caseio reads screening cases from YAML.
//
// Elements reference each other by UID. Per-interval inputs are sparse maps
// keyed by UID; absent entries default to in service and zero injection.
//
//	buses: [{uid: A}, {uid: B}]
//	branches:
//	  - {uid: AB, kind: line, from: A, to: B, b: -10, rating: 1, rating_emergency: 1.2}
//	devices: [{uid: gen, bus: A, kind: producer}]
//	contingencies: [{uid: out-AB, branch: AB}]
//	intervals:
//	  - duration: 1
//	    device_p: {gen: 0.5}
//	    in_service: {AB: true}
package caseio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/ctgflow/network"
)

// ErrUnknownRef indicates a UID reference to an element that is not declared.
var ErrUnknownRef = errors.New("caseio: unknown reference")

// ErrBadKind indicates an unsupported branch or device kind.
var ErrBadKind = errors.New("caseio: unknown kind")

// File is the YAML document layout.
type File struct {
	Buses         []BusDoc         `yaml:"buses"`
	Branches      []BranchDoc      `yaml:"branches"`
	DCLinks       []DCLinkDoc      `yaml:"dc_links"`
	Devices       []DeviceDoc      `yaml:"devices"`
	Shunts        []ShuntDoc       `yaml:"shunts"`
	Contingencies []ContingencyDoc `yaml:"contingencies"`
	Intervals     []IntervalDoc    `yaml:"intervals"`
}

// BusDoc declares a bus.
type BusDoc struct {
	UID string `yaml:"uid"`
}

// BranchDoc declares an AC line or transformer.
type BranchDoc struct {
	UID             string  `yaml:"uid"`
	Kind            string  `yaml:"kind"`
	From            string  `yaml:"from"`
	To              string  `yaml:"to"`
	G               float64 `yaml:"g"`
	B               float64 `yaml:"b"`
	ChargingB       float64 `yaml:"b_ch"`
	Rating          float64 `yaml:"rating"`
	// RatingEmergency defaults to Rating when absent; an explicit 0 is kept.
	RatingEmergency *float64 `yaml:"rating_emergency"`
}

// DCLinkDoc declares a DC line.
type DCLinkDoc struct {
	UID  string `yaml:"uid"`
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// DeviceDoc declares a producer or consumer.
type DeviceDoc struct {
	UID  string `yaml:"uid"`
	Bus  string `yaml:"bus"`
	Kind string `yaml:"kind"`
}

// ShuntDoc declares a shunt.
type ShuntDoc struct {
	UID string `yaml:"uid"`
	Bus string `yaml:"bus"`
}

// ContingencyDoc declares a single-branch outage.
type ContingencyDoc struct {
	UID    string `yaml:"uid"`
	Branch string `yaml:"branch"`
}

// IntervalDoc holds the duration and dynamic inputs of one interval.
type IntervalDoc struct {
	Duration   float64            `yaml:"duration"`
	InService  map[string]bool    `yaml:"in_service"`
	PhaseShift map[string]float64 `yaml:"phase_shift"`
	QFlow      map[string]float64 `yaml:"q_flow"`
	DCP        map[string]float64 `yaml:"dc_p"`
	DCQ        map[string]float64 `yaml:"dc_q"`
	DeviceP    map[string]float64 `yaml:"device_p"`
	DeviceQ    map[string]float64 `yaml:"device_q"`
	ShuntP     map[string]float64 `yaml:"shunt_p"`
	ShuntQ     map[string]float64 `yaml:"shunt_q"`
}

// Case is a decoded network with one state per interval.
type Case struct {
	Network *network.Network
	States  []*network.State
}

// Load reads and builds the case stored at path.
func Load(path string) (*Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open case %q: %w", path, err)
	}
	defer f.Close()
	c, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("case %q: %w", path, err)
	}
	return c, nil
}

// Decode parses a YAML case. Unknown keys are rejected.
func Decode(r io.Reader) (*Case, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc File
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse case: %w", err)
	}
	return doc.Build()
}

// Build resolves UIDs, validates the topology and fills the states.
func (doc *File) Build() (*Case, error) {
	spec := network.Spec{}
	bus := make(map[string]int, len(doc.Buses))
	for i, b := range doc.Buses {
		spec.Buses = append(spec.Buses, network.Bus{UID: b.UID})
		if _, dup := bus[b.UID]; !dup {
			bus[b.UID] = i
		}
	}
	busRef := func(class, uid, ref string) (int, error) {
		i, ok := bus[ref]
		if !ok {
			return 0, fmt.Errorf("%s %q: bus %q: %w", class, uid, ref, ErrUnknownRef)
		}
		return i, nil
	}

	branch := make(map[string]int, len(doc.Branches))
	for j, b := range doc.Branches {
		kind, err := branchKind(b.Kind)
		if err != nil {
			return nil, fmt.Errorf("branch %q: %w", b.UID, err)
		}
		f, err := busRef("branch", b.UID, b.From)
		if err != nil {
			return nil, err
		}
		t, err := busRef("branch", b.UID, b.To)
		if err != nil {
			return nil, err
		}
		emergency := b.Rating
		if b.RatingEmergency != nil {
			emergency = *b.RatingEmergency
		}
		spec.Branches = append(spec.Branches, network.Branch{
			UID: b.UID, Kind: kind, From: f, To: t,
			G: b.G, B: b.B, ChargingB: b.ChargingB,
			RatingNormal: b.Rating, RatingEmergency: emergency,
		})
		if _, dup := branch[b.UID]; !dup {
			branch[b.UID] = j
		}
	}

	for _, l := range doc.DCLinks {
		f, err := busRef("dc link", l.UID, l.From)
		if err != nil {
			return nil, err
		}
		t, err := busRef("dc link", l.UID, l.To)
		if err != nil {
			return nil, err
		}
		spec.DCLinks = append(spec.DCLinks, network.DCLink{UID: l.UID, From: f, To: t})
	}
	for _, d := range doc.Devices {
		kind, err := deviceKind(d.Kind)
		if err != nil {
			return nil, fmt.Errorf("device %q: %w", d.UID, err)
		}
		b, err := busRef("device", d.UID, d.Bus)
		if err != nil {
			return nil, err
		}
		spec.Devices = append(spec.Devices, network.Device{UID: d.UID, Bus: b, Kind: kind})
	}
	for _, s := range doc.Shunts {
		b, err := busRef("shunt", s.UID, s.Bus)
		if err != nil {
			return nil, err
		}
		spec.Shunts = append(spec.Shunts, network.Shunt{UID: s.UID, Bus: b})
	}
	for _, c := range doc.Contingencies {
		j, ok := branch[c.Branch]
		if !ok {
			return nil, fmt.Errorf("contingency %q: branch %q: %w", c.UID, c.Branch, network.ErrUnknownBranch)
		}
		spec.Contingencies = append(spec.Contingencies, network.Contingency{UID: c.UID, Branch: j})
	}
	for _, iv := range doc.Intervals {
		spec.Intervals = append(spec.Intervals, network.Interval{Duration: iv.Duration})
	}

	net, err := network.New(spec)
	if err != nil {
		return nil, err
	}
	c := &Case{Network: net, States: make([]*network.State, len(doc.Intervals))}
	for t, iv := range doc.Intervals {
		st, err := iv.state(net)
		if err != nil {
			return nil, fmt.Errorf("interval %d: %w", t, err)
		}
		c.States[t] = st
	}
	return c, nil
}

func (iv *IntervalDoc) state(net *network.Network) (*network.State, error) {
	st := network.NewState(net)
	for uid, on := range iv.InService {
		j, err := net.BranchIndex(uid)
		if err != nil {
			return nil, fmt.Errorf("in_service: %w", err)
		}
		st.InService[j] = on
	}

	branches := indexOf(net.Branches(), func(b network.Branch) string { return b.UID })
	links := indexOf(net.DCLinks(), func(l network.DCLink) string { return l.UID })
	devices := indexOf(net.Devices(), func(d network.Device) string { return d.UID })
	shunts := indexOf(net.Shunts(), func(s network.Shunt) string { return s.UID })

	fills := []struct {
		key   string
		src   map[string]float64
		index map[string]int
		dst   []float64
	}{
		{"phase_shift", iv.PhaseShift, branches, st.PhaseShift},
		{"q_flow", iv.QFlow, branches, st.QFlow},
		{"dc_p", iv.DCP, links, st.DCFlowP},
		{"dc_q", iv.DCQ, links, st.DCFlowQ},
		{"device_p", iv.DeviceP, devices, st.DeviceP},
		{"device_q", iv.DeviceQ, devices, st.DeviceQ},
		{"shunt_p", iv.ShuntP, shunts, st.ShuntP},
		{"shunt_q", iv.ShuntQ, shunts, st.ShuntQ},
	}
	for _, f := range fills {
		for uid, v := range f.src {
			i, ok := f.index[uid]
			if !ok {
				return nil, fmt.Errorf("%s %q: %w", f.key, uid, ErrUnknownRef)
			}
			f.dst[i] = v
		}
	}
	return st, nil
}

func indexOf[T any](xs []T, uid func(T) string) map[string]int {
	m := make(map[string]int, len(xs))
	for i, x := range xs {
		m[uid(x)] = i
	}
	return m
}

func branchKind(s string) (network.BranchKind, error) {
	switch s {
	case "", "line":
		return network.Line, nil
	case "transformer", "xfr":
		return network.Transformer, nil
	default:
		return 0, fmt.Errorf("%w: branch kind %q", ErrBadKind, s)
	}
}

func deviceKind(s string) (network.DeviceKind, error) {
	switch s {
	case "", "producer":
		return network.Producer, nil
	case "consumer":
		return network.Consumer, nil
	default:
		return 0, fmt.Errorf("%w: device kind %q", ErrBadKind, s)
	}
}
