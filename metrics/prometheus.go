/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// runsTotal counts scored evaluation runs.
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "evalkit",
		Subsystem: "runner",
		Name:      "runs_total",
		Help:      "Scored evaluation runs",
	}, []string{"definition", "variant"})

	// runFailuresTotal counts runs converted into zero-scored results.
	runFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "evalkit",
		Subsystem: "runner",
		Name:      "run_failures_total",
		Help:      "Runs that failed and were recorded as zero-scored results",
	}, []string{"definition", "variant"})

	// runScore tracks the distribution of overall run scores.
	runScore = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "evalkit",
		Subsystem: "runner",
		Name:      "run_score",
		Help:      "Distribution of overall run scores",
		Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
	}, []string{"definition", "variant"})

	// runLatency tracks wall-clock run duration.
	runLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "evalkit",
		Subsystem: "runner",
		Name:      "run_latency_seconds",
		Help:      "Wall-clock duration of evaluation runs",
		Buckets:   prometheus.DefBuckets,
	}, []string{"definition", "variant"})

	// batchesTotal counts completed batches.
	batchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "evalkit",
		Subsystem: "runner",
		Name:      "batches_total",
		Help:      "Completed evaluation batches",
	}, []string{"definition", "variant"})
)

// RecordRun records one scored run.
func RecordRun(definitionID, variantID string, overallScore float64, latency time.Duration) {
	runsTotal.WithLabelValues(definitionID, variantID).Inc()
	runScore.WithLabelValues(definitionID, variantID).Observe(overallScore)
	runLatency.WithLabelValues(definitionID, variantID).Observe(latency.Seconds())
}

// RecordRunFailure records a run converted into a zero-scored result.
func RecordRunFailure(definitionID, variantID string) {
	runFailuresTotal.WithLabelValues(definitionID, variantID).Inc()
}

// RecordBatch records a completed batch.
func RecordBatch(definitionID, variantID string) {
	batchesTotal.WithLabelValues(definitionID, variantID).Inc()
}
