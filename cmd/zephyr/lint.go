package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"zephyr-hq/zephyr/pkg/cli"
	"zephyr-hq/zephyr/pkg/rules"
	"zephyr-hq/zephyr/pkg/rules/source"
)

var lintFlags struct {
	file string
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate a rule catalog",
	Long: `Validate a rule catalog file or directory without starting the service.

Every problem in the catalog is reported, not just the first: missing rule
names, unknown operators, malformed condition values, invalid modes or fan
speeds, and empty reasons.

Examples:
  zephyr lint --file catalog.yaml
  zephyr lint --file rules/`,
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "catalog file or directory (required)")
	_ = lintCmd.MarkFlagRequired("file")
}

func runLint(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	catalog, err := source.NewFileSource(lintFlags.file, logger).Load(context.Background())
	if err != nil {
		return cli.NewCommandError("lint", err)
	}

	if err := catalog.Validate(); err != nil {
		var verr *rules.ValidationError
		if errors.As(err, &verr) {
			fmt.Printf("✗ Catalog %q has %d problem(s):\n", verr.Catalog, len(verr.Issues))
			for _, issue := range verr.Issues {
				fmt.Printf("  - %s\n", issue)
			}
			return cli.NewCommandError("lint", fmt.Errorf("catalog is invalid"))
		}
		return cli.NewCommandError("lint", err)
	}

	fmt.Printf("✓ Catalog %q is valid (%d rules)\n", catalog.Name, len(catalog.Rules))
	return nil
}
