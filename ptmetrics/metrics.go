// Copyright ©2024 The ISO13528 PT-Stat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ptmetrics instruments round computation for optional
// observability (spec §2.5 of SPEC_FULL.md). It is wired by the CLI
// around a ptstat.Compute call; the statistical core itself never
// touches this package, staying the side-effect-free function spec §5
// requires.
package ptmetrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	ptstat "github.com/ptlab/iso13528"
)

// Recorder holds the Prometheus collectors for round computation.
type Recorder struct {
	roundsComputed       *prometheus.CounterVec
	nonConvergences      prometheus.Counter
	droppedRows          prometheus.Counter
	algorithmAIterations prometheus.Histogram
}

// NewRecorder registers a fresh set of collectors against reg. Pass
// prometheus.NewRegistry() in tests to avoid colliding with the default
// global registry across package-level test runs.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		roundsComputed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ptstat",
			Name:      "rounds_computed_total",
			Help:      "Number of PT rounds computed, labeled by assigned-value method.",
		}, []string{"method"}),
		nonConvergences: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ptstat",
			Name:      "algorithm_a_non_convergence_total",
			Help:      "Number of Algorithm A runs that exhausted max_iterations without converging.",
		}),
		droppedRows: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ptstat",
			Name:      "validation_dropped_rows_total",
			Help:      "Number of input rows dropped by the validation kernel across all rounds.",
		}),
		algorithmAIterations: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ptstat",
			Name:      "algorithm_a_iterations",
			Help:      "Iteration count Algorithm A took to converge or exhaust its budget.",
			Buckets:   prometheus.LinearBuckets(0, 5, 11), // 0..50 in steps of 5
		}),
	}
}

// Observe records the outcome of a single Compute call.
func (r *Recorder) Observe(rec *ptstat.ResultsRecord, dropped int) {
	if rec == nil {
		return
	}
	r.roundsComputed.WithLabelValues(string(rec.Method)).Inc()
	r.droppedRows.Add(float64(dropped))
	if rec.Iterations != nil {
		r.algorithmAIterations.Observe(float64(*rec.Iterations))
	}
	if rec.Converged != nil && !*rec.Converged {
		r.nonConvergences.Inc()
	}
}

// Handler returns an HTTP handler serving the default Prometheus
// registry. cmd/ptcli registers its Recorder on that registry but does
// not serve this handler; the core never serves HTTP.
func Handler() http.Handler {
	return promhttp.Handler()
}
