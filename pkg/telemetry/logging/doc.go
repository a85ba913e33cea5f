// Package logging configures structured logging for the Zephyr decision
// service on top of log/slog.
//
// New builds a *slog.Logger from a config.LoggingConfig, selecting the
// output format (JSON or text), the minimum level, and optional source
// locations. Component constructs a child logger tagged with a component
// name so subsystem output can be filtered.
//
// The context helpers attach an evaluation ID to a context.Context so that
// log records emitted while serving a single evaluation can be correlated.
package logging
