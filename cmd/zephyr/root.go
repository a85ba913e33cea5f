package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "zephyr",
	Short: "Zephyr - rule-driven climate decision service",
	Long: `Zephyr decides what an air conditioner should do based on sensor facts
and a prioritized rule catalog.

It evaluates facts (temperature, humidity, occupancy, time of day, window
state) against the catalog: every rule whose conditions all hold competes,
the highest priority wins, and its action (mode, fan speed, setpoint) is the
decision. When no rule matches, a safe fallback turns the AC off.

The service exposes an HTTP API, records decisions to a local history
database, hot-reloads the catalog on file changes, and can drive the AC on a
schedule from a sensor snapshot file.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
