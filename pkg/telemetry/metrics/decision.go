package metrics

import (
	"strconv"
	"time"

	"zephyr-hq/zephyr/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// DecisionMetrics tracks metrics related to rule evaluation.
//
// Metrics:
//   - zephyr_decision_evaluations_total: Total evaluations by mode and fallback
//   - zephyr_decision_evaluation_duration_seconds: Evaluation duration
//   - zephyr_rule_hits_total: Number of times a rule matched
//   - zephyr_rule_misses_total: Number of times a rule did not match
//   - zephyr_catalog_reloads_total: Catalog reload attempts by status
//   - zephyr_catalog_rules: Number of rules in the active catalog
type DecisionMetrics struct {
	// Total evaluations, labelled by resulting mode and fallback
	evaluationsTotal *prometheus.CounterVec

	// Evaluation duration histogram
	evaluationDuration prometheus.Histogram

	// Rule hits (rule conditions satisfied)
	hitsTotal *prometheus.CounterVec

	// Rule misses (rule conditions not satisfied)
	missesTotal *prometheus.CounterVec

	// Catalog reloads by outcome
	reloadsTotal *prometheus.CounterVec

	// Active catalog size
	catalogRules prometheus.Gauge
}

// NewDecisionMetrics creates and registers decision metrics with the
// provided registry.
func NewDecisionMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *DecisionMetrics {
	dm := &DecisionMetrics{
		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "decision_evaluations_total",
				Help:      "Total number of rule evaluations",
			},
			[]string{"mode", "fallback"},
		),

		evaluationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "decision_evaluation_duration_seconds",
				Help:      "Duration of rule evaluation in seconds",
				// Evaluations are in-memory and should be fast (< 10ms)
				Buckets: prometheus.ExponentialBuckets(0.000001, 2, 15),
			},
		),

		hitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "rule_hits_total",
				Help:      "Total number of rule matches",
			},
			[]string{"rule"},
		),

		missesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "rule_misses_total",
				Help:      "Total number of rule misses",
			},
			[]string{"rule"},
		),

		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "catalog_reloads_total",
				Help:      "Total number of catalog reload attempts",
			},
			[]string{"status"},
		),

		catalogRules: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "catalog_rules",
				Help:      "Number of rules in the active catalog",
			},
		),
	}

	registry.MustRegister(
		dm.evaluationsTotal,
		dm.evaluationDuration,
		dm.hitsTotal,
		dm.missesTotal,
		dm.reloadsTotal,
		dm.catalogRules,
	)

	return dm
}

// RecordEvaluation records a completed evaluation with its resulting mode,
// whether the fallback action was used, and the evaluation duration.
func (dm *DecisionMetrics) RecordEvaluation(mode string, fallback bool, duration time.Duration) {
	dm.evaluationsTotal.WithLabelValues(mode, strconv.FormatBool(fallback)).Inc()
	dm.evaluationDuration.Observe(duration.Seconds())
}

// RecordRuleHit records that a rule's conditions were satisfied.
func (dm *DecisionMetrics) RecordRuleHit(rule string) {
	dm.hitsTotal.WithLabelValues(rule).Inc()
}

// RecordRuleMiss records that a rule's conditions were not satisfied.
func (dm *DecisionMetrics) RecordRuleMiss(rule string) {
	dm.missesTotal.WithLabelValues(rule).Inc()
}

// RecordReload records a catalog reload attempt. Status is "success" or
// "failure".
func (dm *DecisionMetrics) RecordReload(status string) {
	dm.reloadsTotal.WithLabelValues(status).Inc()
}

// SetCatalogRules records the size of the active catalog.
func (dm *DecisionMetrics) SetCatalogRules(n int) {
	dm.catalogRules.Set(float64(n))
}
