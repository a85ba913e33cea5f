// Package cli provides shared helpers for the zephyr command line: typed
// command errors, output formatting, and signal-aware contexts for graceful
// shutdown.
package cli
