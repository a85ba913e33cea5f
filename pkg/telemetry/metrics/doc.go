// Package metrics provides Prometheus metrics for the Zephyr decision
// service.
//
// The Collector owns a prometheus.Registry and the metric subsystems:
// decision metrics (evaluations, rule hits and misses, catalog reloads) and
// HTTP request metrics for the API server. Handler exposes the registry in
// the Prometheus exposition format.
package metrics
