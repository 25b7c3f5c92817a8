// SPDX-License-Identifier: MIT

package engine

import (
	"io"
	"log/slog"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/ctgflow/config"
	"github.com/katalvlaran/ctgflow/sparse"
)

const tracerName = "github.com/katalvlaran/ctgflow/engine"

// Option configures an Engine.
type Option func(*settings)

type settings struct {
	logger    *slog.Logger
	tracer    trace.Tracer
	registry  prometheus.Registerer
	workers   int
	cost      float64
	screening bool
	threshold float64
	ordering  sparse.Ordering
}

func defaultSettings() settings {
	return settings{
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:    otel.Tracer(tracerName),
		workers:   runtime.GOMAXPROCS(0),
		cost:      1,
		screening: true,
		threshold: sparse.DefaultPivotThreshold,
		ordering:  sparse.OrderMinimumDegree,
	}
}

// WithLogger sets the structured logger. nil keeps the discarding default.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTracer sets the tracer used for run and interval spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *settings) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithMetrics registers the engine collectors on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(s *settings) { s.registry = reg }
}

// WithWorkers sets the pool size; n <= 0 selects GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(s *settings) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		s.workers = n
	}
}

// WithViolationCost sets the penalty per unit of exceedance per hour.
func WithViolationCost(c float64) Option {
	return func(s *settings) { s.cost = c }
}

// WithBoundScreening toggles the two-tier pre-filter. Disabling it checks
// every pair exactly and gives identical results, only slower.
func WithBoundScreening(on bool) Option {
	return func(s *settings) { s.screening = on }
}

// WithPivotThreshold sets the LU pivot tolerance τ in (0, 1].
func WithPivotThreshold(tau float64) Option {
	return func(s *settings) { s.threshold = tau }
}

// WithOrdering sets the LU column order.
func WithOrdering(o sparse.Ordering) Option {
	return func(s *settings) { s.ordering = o }
}

// FromConfig applies every numeric setting of cfg. Logger, tracer and
// registry are left untouched.
func FromConfig(cfg config.Config) Option {
	return func(s *settings) {
		WithWorkers(cfg.Workers)(s)
		s.cost = cfg.ViolationCost
		s.screening = cfg.BoundScreening
		s.threshold = cfg.PivotThreshold
		s.ordering = cfg.SparseOrdering()
	}
}
