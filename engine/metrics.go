// SPDX-License-Identifier: MIT

package engine

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus collectors of an Engine.
type Metrics struct {
	Intervals       *prometheus.CounterVec // processed intervals by outcome status
	IntervalSeconds prometheus.Histogram   // wall time of one interval pipeline
	Screened        *prometheus.CounterVec // monitored branches surviving each stage
	ExactPairs      prometheus.Counter     // (branch, outage) pairs checked exactly
	Violations      prometheus.Counter     // exceeding (branch, contingency) pairs
}

// NewMetrics creates the collectors and registers them on reg. When any
// registration fails the ones already made are undone and the error is
// returned; a prometheus.AlreadyRegisteredError means reg already carries
// the collectors of another Engine.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Intervals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ctgflow_intervals_total",
			Help: "Intervals processed, by outcome status",
		}, []string{"status"}),
		IntervalSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ctgflow_interval_duration_seconds",
			Help:    "Wall time of one interval pipeline",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		Screened: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ctgflow_screened_branches_total",
			Help: "Monitored branches surviving each screening stage",
		}, []string{"stage"}),
		ExactPairs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ctgflow_exact_pairs_total",
			Help: "Branch and outage pairs checked exactly",
		}),
		Violations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ctgflow_violations_total",
			Help: "Post-contingency rating exceedances",
		}),
	}
	cs := []prometheus.Collector{m.Intervals, m.IntervalSeconds, m.Screened, m.ExactPairs, m.Violations}
	for i, c := range cs {
		if err := reg.Register(c); err != nil {
			for _, done := range cs[:i] {
				reg.Unregister(done)
			}
			return nil, err
		}
	}
	return m, nil
}
