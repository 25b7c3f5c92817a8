// SPDX-License-Identifier: MIT

package violation

import (
	"github.com/katalvlaran/ctgflow/connectivity"
	"github.com/katalvlaran/ctgflow/network"
)

// Category classifies a worst-violation record.
type Category int

const (
	// RatingLineOutage is a rating exceedance caused by an AC-line outage.
	RatingLineOutage Category = iota
	// RatingTransformerOutage is a rating exceedance caused by a transformer outage.
	RatingTransformerOutage
	// BaseDisconnection marks an interval whose base case is islanded.
	BaseDisconnection
	// ContingencyDisconnection marks an outage that would island the network.
	ContingencyDisconnection

	// NumCategories is the number of categories.
	NumCategories
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case RatingLineOutage:
		return "rating_line_outage"
	case RatingTransformerOutage:
		return "rating_transformer_outage"
	case BaseDisconnection:
		return "base_disconnection"
	case ContingencyDisconnection:
		return "contingency_disconnection"
	default:
		return "unknown"
	}
}

// MarshalText encodes the category name.
func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Structural reports whether c describes a topology failure rather than a
// rating exceedance.
func (c Category) Structural() bool {
	return c == BaseDisconnection || c == ContingencyDisconnection
}

// CategoryOf returns the rating category of an outage of a branch of kind k.
func CategoryOf(k network.BranchKind) Category {
	if k == network.Transformer {
		return RatingTransformerOutage
	}
	return RatingLineOutage
}

// Record is one worst-violation candidate. For rating categories Value is
// the exceedance s − s_max and Branch the monitored branch. For
// disconnections From/To name the separated bus pair; Contingency is -1
// for a base-case disconnection.
type Record struct {
	Category    Category `json:"category"`
	Valid       bool     `json:"-"`
	Value       float64  `json:"value"`
	Interval    int      `json:"interval"`
	Contingency int      `json:"contingency"`
	Branch      int      `json:"branch"`
	From        int      `json:"from"`
	To          int      `json:"to"`
}

// before reports whether r precedes o in scan order.
func (r Record) before(o Record) bool {
	if r.Interval != o.Interval {
		return r.Interval < o.Interval
	}
	if r.Contingency != o.Contingency {
		return r.Contingency < o.Contingency
	}
	return r.Branch < o.Branch
}

// Worst keeps the largest record per category.
type Worst [NumCategories]Record

// Offer keeps r when it is strictly larger than the held record, or equal
// and earlier in (interval, contingency, branch) order. The tie rule makes
// the result independent of the order records are offered in.
func (w *Worst) Offer(r Record) {
	r.Valid = true
	cur := &w[r.Category]
	if !cur.Valid || r.Value > cur.Value || (r.Value == cur.Value && r.before(*cur)) {
		*cur = r
	}
}

// Merge offers every valid record of o.
func (w *Worst) Merge(o *Worst) {
	for _, r := range o {
		if r.Valid {
			w.Offer(r)
		}
	}
}

// Get returns the record held for c.
func (w *Worst) Get(c Category) (Record, bool) {
	r := w[c]
	return r, r.Valid
}

// BaseDisconnectionRecord describes an islanded base case of interval t:
// Value is the number of extra components and From/To the first separated
// pair (0, v).
func BaseDisconnectionRecord(t int, labels connectivity.Labels) Record {
	a, b, _ := labels.FirstSeparated()
	return Record{
		Category:    BaseDisconnection,
		Valid:       true,
		Value:       float64(labels.Count - 1),
		Interval:    t,
		Contingency: -1,
		Branch:      -1,
		From:        a,
		To:          b,
	}
}
