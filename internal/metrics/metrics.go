// Package metrics holds the Prometheus collectors exposed on the metrics port.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/MikeSquared-Agency/Worthit/internal/scoring"
)

var (
	DecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "worthit",
		Name:      "decisions_total",
		Help:      "Decisions computed, by verdict.",
	}, []string{"verdict"})

	DecisionScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "worthit",
		Name:      "decision_score",
		Help:      "Distribution of computed decision scores.",
		Buckets:   prometheus.LinearBuckets(0, 10, 11),
	})

	WeightWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "worthit",
		Name:      "weight_warnings_total",
		Help:      "Decisions computed with weights that do not sum to 1.",
	})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "worthit",
		Name:      "cache_lookups_total",
		Help:      "Decision cache lookups, by result.",
	}, []string{"result"})

	HistorySaved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "worthit",
		Name:      "history_saved_total",
		Help:      "History entries saved.",
	})

	HistorySkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "worthit",
		Name:      "history_skipped_records_total",
		Help:      "Malformed history records skipped on load, by source.",
	}, []string{"source"})
)

// ObserveDecision records one computed decision.
func ObserveDecision(d scoring.Decision) {
	DecisionsTotal.WithLabelValues(d.Score.Verdict).Inc()
	DecisionScore.Observe(float64(d.Score.DecisionScore))
	if len(d.Warnings) > 0 {
		WeightWarnings.Inc()
	}
}
