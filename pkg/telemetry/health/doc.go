// Package health provides liveness and readiness checks for the Zephyr
// decision service.
//
// The Checker aggregates named component checks (catalog source, history
// store) and exposes HTTP handlers suitable for Kubernetes probes. Liveness
// always reports ok while the process is running; readiness runs all
// registered checks concurrently and degrades when any component fails.
package health
