package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"zephyr-hq/zephyr/pkg/cli"
	"zephyr-hq/zephyr/pkg/controller"
	"zephyr-hq/zephyr/pkg/rules"
	"zephyr-hq/zephyr/pkg/rules/engine"
	"zephyr-hq/zephyr/pkg/rules/source"
)

var evaluateFlags struct {
	factsPath   string
	setFacts    []string
	catalogPath string
	output      string
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a fact snapshot once and print the decision",
	Long: `Evaluate a fact snapshot against the rule catalog and print the
resulting decision without starting the service.

The facts file is a YAML mapping of fact names to scalar values:

  temperature: 27.5
  humidity: 60
  occupancy: OCCUPIED
  time_of_day: EVENING
  windows_open: false

Individual facts can also be supplied (or overridden) on the command line
with repeated --set flags. Values parse as booleans (true/false), then as
numbers, then fall back to strings.

Examples:
  # Evaluate against the built-in catalog
  zephyr evaluate --facts sensors.yaml

  # No facts file at all
  zephyr evaluate --set temperature=31 --set occupancy=OCCUPIED

  # Override one reading from the snapshot
  zephyr evaluate --facts sensors.yaml --set windows_open=true

  # Evaluate against a custom catalog
  zephyr evaluate --facts sensors.yaml --catalog rules/

  # Print the full decision as JSON
  zephyr evaluate --facts sensors.yaml --output json`,
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVarP(&evaluateFlags.factsPath, "facts", "f", "", "facts YAML file")
	evaluateCmd.Flags().StringArrayVar(&evaluateFlags.setFacts, "set", nil, "set a fact as field=value (repeatable)")
	evaluateCmd.Flags().StringVar(&evaluateFlags.catalogPath, "catalog", "", "catalog file or directory (default: built-in catalog)")
	evaluateCmd.Flags().StringVarP(&evaluateFlags.output, "output", "o", "text", "output format (text, json)")
}

// parseFactFlag turns a --set field=value argument into a typed fact.
func parseFactFlag(arg string) (string, rules.Value, error) {
	field, raw, ok := strings.Cut(arg, "=")
	if !ok || field == "" {
		return "", rules.Value{}, fmt.Errorf("invalid --set argument %q: expected field=value", arg)
	}
	switch raw {
	case "true":
		return field, rules.Bool(true), nil
	case "false":
		return field, rules.Bool(false), nil
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return field, rules.Number(n), nil
	}
	return field, rules.Text(raw), nil
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(evaluateFlags.output)
	if err != nil {
		return cli.NewCommandError("evaluate", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	ctx := context.Background()

	if evaluateFlags.factsPath == "" && len(evaluateFlags.setFacts) == 0 {
		return cli.NewCommandError("evaluate", fmt.Errorf("no facts given: use --facts or --set"))
	}

	facts := rules.Facts{}
	if evaluateFlags.factsPath != "" {
		loaded, err := controller.NewFileSensorSource(evaluateFlags.factsPath).Facts(ctx)
		if err != nil {
			return cli.NewCommandError("evaluate", err)
		}
		facts = loaded
	}
	for _, arg := range evaluateFlags.setFacts {
		field, value, err := parseFactFlag(arg)
		if err != nil {
			return cli.NewCommandError("evaluate", err)
		}
		facts[field] = value
	}

	var catalogSource engine.CatalogSource
	if evaluateFlags.catalogPath != "" {
		catalogSource = source.NewFileSource(evaluateFlags.catalogPath, logger)
	} else {
		catalogSource = source.NewDefaultSource()
	}

	eng, err := engine.New(catalogSource, logger)
	if err != nil {
		return cli.NewCommandError("evaluate", err)
	}
	defer eng.Close()

	decision := eng.Evaluate(ctx, facts)

	if format == cli.FormatJSON {
		return cli.WriteJSON(os.Stdout, decision)
	}

	fmt.Printf("Mode:      %s\n", decision.Action.Mode)
	fmt.Printf("Fan Speed: %s\n", decision.Action.FanSpeed)
	if decision.Action.Setpoint != nil {
		fmt.Printf("Setpoint:  %.1f\n", *decision.Action.Setpoint)
	} else {
		fmt.Printf("Setpoint:  -\n")
	}
	fmt.Printf("Reason:    %s\n", decision.Action.Reason)
	if decision.WinningRule != nil {
		fmt.Printf("Rule:      %s (priority %d)\n", decision.WinningRule.Name, decision.WinningRule.Priority)
	} else {
		fmt.Printf("Rule:      fallback\n")
	}
	if len(decision.MatchedRules) > 1 {
		fmt.Printf("\nMatched rules:\n")
		for i, r := range decision.MatchedRules {
			fmt.Printf("  %d. %s (priority %d)\n", i+1, r.Name, r.Priority)
		}
	}
	return nil
}
