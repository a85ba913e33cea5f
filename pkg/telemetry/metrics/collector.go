package metrics

import (
	"zephyr-hq/zephyr/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Collector owns the Prometheus registry and all metric subsystems for the
// service. A single Collector is created at startup and shared by the engine
// and the HTTP server.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	decisionMetrics *DecisionMetrics
	requestMetrics  *RequestMetrics
}

// NewCollector creates a new metrics collector with the specified
// configuration and Prometheus registry. If registry is nil, a fresh
// registry with the standard Go runtime and process collectors is used.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	if cfg.Namespace == "" {
		cfg.Namespace = "zephyr"
	}

	return &Collector{
		config:          cfg,
		registry:        registry,
		decisionMetrics: NewDecisionMetrics(cfg, registry),
		requestMetrics:  NewRequestMetrics(cfg, registry),
	}
}

// Decisions returns the decision metrics subsystem.
func (c *Collector) Decisions() *DecisionMetrics {
	return c.decisionMetrics
}

// Requests returns the HTTP request metrics subsystem.
func (c *Collector) Requests() *RequestMetrics {
	return c.requestMetrics
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
