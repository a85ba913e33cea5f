// Package server provides the HTTP API for the Zephyr decision service.
//
// Routes:
//
//	POST /v1/evaluate      evaluate a fact snapshot and return the decision
//	GET  /v1/rules         list the rules in the active catalog
//	POST /v1/rules/reload  reload the catalog from its source
//	GET  /v1/decisions     list recent decisions from the history store
//	GET  /healthz          liveness probe
//	GET  /readyz           readiness probe
//	GET  /version          build information
//	GET  /metrics          Prometheus exposition (when metrics are enabled)
//
// Handlers are wrapped in a middleware chain: recovery, request ID,
// logging, and request metrics.
package server
