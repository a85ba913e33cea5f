// Zephyr is a rule-driven climate decision service.
//
// It evaluates sensor facts (temperature, humidity, occupancy, time of day,
// window state) against a prioritized rule catalog and decides what the air
// conditioner should do. The highest priority matching rule wins; when
// nothing matches, a safe fallback turns the AC off.
//
// Usage:
//
//	# Start the API server with default configuration
//	zephyr run
//
//	# Start with a custom configuration file
//	zephyr run --config /etc/zephyr/config.yaml
//
//	# Evaluate a fact snapshot once and print the decision
//	zephyr evaluate --facts sensors.yaml
//
//	# Validate a rule catalog
//	zephyr lint --file catalog.yaml
//
//	# Show recent decisions
//	zephyr history --limit 20
//
//	# Show version information
//	zephyr version
package main

func main() {
	Execute()
}
