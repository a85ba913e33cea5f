package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"zephyr-hq/zephyr/pkg/cli"
	"zephyr-hq/zephyr/pkg/history"
	"zephyr-hq/zephyr/pkg/telemetry/logging"
)

var historyFlags struct {
	limit  int
	output string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent decisions",
	Long: `Show recent decisions from the history database, newest first.

Examples:
  zephyr history
  zephyr history --limit 20
  zephyr history --output json`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyFlags.limit, "limit", "n", 20, "maximum number of decisions to show")
	historyCmd.Flags().StringVarP(&historyFlags.output, "output", "o", "text", "output format (text, json)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(historyFlags.output)
	if err != nil {
		return cli.NewCommandError("history", err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return cli.NewCommandError("history", fmt.Errorf("decision history is disabled in configuration"))
	}
	if _, err := os.Stat(cfg.History.Path); os.IsNotExist(err) {
		return cli.NewCommandError("history", fmt.Errorf("history database %q does not exist", cfg.History.Path))
	}

	logger, err := logging.NewWithWriter(&cfg.Telemetry.Logging, os.Stderr)
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	store, err := history.NewStore(&cfg.History, logger)
	if err != nil {
		return cli.NewCommandError("history", err)
	}
	defer store.Close()

	records, err := store.Recent(cmd.Context(), historyFlags.limit)
	if err != nil {
		return cli.NewCommandError("history", err)
	}

	if format == cli.FormatJSON {
		return cli.WriteJSON(os.Stdout, records)
	}

	if len(records) == 0 {
		fmt.Println("No decisions recorded.")
		return nil
	}

	for _, rec := range records {
		rule := rec.RuleName
		if rec.Fallback {
			rule = "(fallback)"
		}
		setpoint := "-"
		if rec.Setpoint != nil {
			setpoint = fmt.Sprintf("%.1f", *rec.Setpoint)
		}
		fmt.Printf("%s  %-5s %-6s setpoint=%-5s %-40s %s\n",
			rec.EvaluatedAt.Format("2006-01-02 15:04:05"),
			rec.Mode, rec.FanSpeed, setpoint, rule, rec.Reason)
	}
	return nil
}
