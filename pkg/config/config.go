package config

import "time"

// Config is the root configuration structure for the Zephyr decision
// service. It contains all configuration sections for the HTTP server, the
// rule catalog, the control loop, decision history, and telemetry.
type Config struct {
	// Server contains HTTP server configuration including listen address
	// and timeouts.
	Server ServerConfig `yaml:"server"`

	// Catalog contains configuration for the rule catalog source.
	Catalog CatalogConfig `yaml:"catalog"`

	// Sensors contains configuration for the sensor snapshot source used
	// by the control loop.
	Sensors SensorsConfig `yaml:"sensors"`

	// Controller contains configuration for the scheduled control loop.
	Controller ControllerConfig `yaml:"controller"`

	// History contains configuration for the decision history store.
	History HistoryConfig `yaml:"history"`

	// Telemetry contains configuration for observability including logging,
	// metrics, and distributed tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP API server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port". Default: "127.0.0.1:8090"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 15s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out response writes.
	// Default: 15s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// Default: 15s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// CatalogConfig contains configuration for the rule catalog source.
type CatalogConfig struct {
	// Path is the catalog YAML file or directory. When empty, the embedded
	// default catalog is used.
	Path string `yaml:"path"`

	// Watch enables hot reload of the catalog on file changes.
	// Default: true
	Watch bool `yaml:"watch"`
}

// SensorsConfig contains configuration for the sensor snapshot source.
type SensorsConfig struct {
	// SnapshotPath is a YAML file holding the current fact snapshot,
	// maintained by external collectors. Required when the controller is
	// enabled.
	SnapshotPath string `yaml:"snapshot_path"`
}

// ControllerConfig contains configuration for the scheduled control loop.
type ControllerConfig struct {
	// Enabled turns the control loop on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Schedule is the cron expression for periodic evaluation.
	// Default: "* * * * *" (every minute)
	Schedule string `yaml:"schedule"`
}

// HistoryConfig contains configuration for the decision history store.
type HistoryConfig struct {
	// Enabled turns decision recording on.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database file path.
	// Default: "data/decisions.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open database connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// RetentionDays is how long decisions are kept before pruning.
	// Zero disables pruning. Default: 90
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is the cron expression for retention pruning.
	// Default: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains configuration for structured logging.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format ("json", "text").
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log records.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains configuration for Prometheus metrics.
type MetricsConfig struct {
	// Enabled turns the metrics endpoint on.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	// Default: "zephyr"
	Namespace string `yaml:"namespace"`

	// Path is the HTTP path for the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`
}

// TracingConfig contains configuration for OpenTelemetry tracing.
type TracingConfig struct {
	// Enabled turns tracing on. When disabled a noop tracer is used.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// ServiceName identifies this service in traces.
	// Default: "zephyr"
	ServiceName string `yaml:"service_name"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS for the collector connection.
	// Default: true
	Insecure bool `yaml:"insecure"`

	// Sampler selects the sampling strategy ("always", "never", "ratio").
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the sampling ratio for the "ratio" sampler, in (0, 1].
	// Default: 0.1
	SampleRatio float64 `yaml:"sample_ratio"`
}
