// SPDX-License-Identifier: MIT

package network

// ReferenceBus is the index of the angle reference bus.
const ReferenceBus = 0

// BranchKind distinguishes the two AC branch classes that share one index set.
type BranchKind int

const (
	// Line is an AC transmission line.
	Line BranchKind = iota
	// Transformer is a two-winding transformer, possibly phase shifting.
	Transformer
)

// String returns "line" or "transformer".
func (k BranchKind) String() string {
	switch k {
	case Line:
		return "line"
	case Transformer:
		return "transformer"
	default:
		return "unknown"
	}
}

// DeviceKind tells whether a device injects or withdraws real power.
type DeviceKind int

const (
	// Producer injects its set-point at its bus.
	Producer DeviceKind = iota
	// Consumer withdraws its set-point at its bus.
	Consumer
)

// Bus is a network node. Index is its position in Spec.Buses.
type Bus struct {
	UID string
}

// Branch is an AC line or transformer.
//
// B is the series susceptance in the sign convention p = -b·(θf - θt - φ),
// so ordinary inductive branches carry b < 0. G and ChargingB are kept for
// completeness; the DC model only reads B.
type Branch struct {
	UID             string
	Kind            BranchKind
	From, To        int
	G               float64
	B               float64
	ChargingB       float64
	RatingNormal    float64
	RatingEmergency float64
}

// DCLink is a controllable DC line whose flow is solved elsewhere.
type DCLink struct {
	UID      string
	From, To int
}

// Device is a producing or consuming unit attached to one bus.
type Device struct {
	UID  string
	Bus  int
	Kind DeviceKind
}

// Shunt is a fixed or switched shunt attached to one bus.
type Shunt struct {
	UID string
	Bus int
}

// Contingency outages exactly one branch, by index.
type Contingency struct {
	UID    string
	Branch int
}

// Interval is one time step of the dispatch horizon.
type Interval struct {
	// Duration in hours; it weights the violation penalty.
	Duration float64
}

// Spec is the raw input description consumed by New.
type Spec struct {
	Buses         []Bus
	Branches      []Branch
	DCLinks       []DCLink
	Devices       []Device
	Shunts        []Shunt
	Contingencies []Contingency
	Intervals     []Interval
}

// State holds the dynamic inputs of one interval. All slices are indexed
// by the corresponding element index of the Network.
type State struct {
	// InService[j] is the switch state of branch j.
	InService []bool
	// PhaseShift[j] is the phase-shift angle of branch j in radians (0 for lines).
	PhaseShift []float64
	// QFlow[j] is the pre-contingency reactive flow used for the apparent
	// power estimate of branch j.
	QFlow []float64
	// DCFlowP[l] is the real flow of DC link l, from → to.
	DCFlowP []float64
	// DCFlowQ[l] is the reactive consumption of DC link l (informational).
	DCFlowQ []float64
	// DeviceP[d] and DeviceQ[d] are device set-points.
	DeviceP []float64
	DeviceQ []float64
	// ShuntP[s] and ShuntQ[s] are shunt consumptions.
	ShuntP []float64
	ShuntQ []float64
}
