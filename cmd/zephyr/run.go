package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"zephyr-hq/zephyr/pkg/cli"
	"zephyr-hq/zephyr/pkg/config"
	"zephyr-hq/zephyr/pkg/controller"
	"zephyr-hq/zephyr/pkg/history"
	"zephyr-hq/zephyr/pkg/rules/engine"
	"zephyr-hq/zephyr/pkg/rules/source"
	"zephyr-hq/zephyr/pkg/server"
	"zephyr-hq/zephyr/pkg/telemetry/health"
	"zephyr-hq/zephyr/pkg/telemetry/logging"
	"zephyr-hq/zephyr/pkg/telemetry/metrics"
	"zephyr-hq/zephyr/pkg/telemetry/tracing"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	catalogPath   string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Zephyr decision service",
	Long: `Start the Zephyr decision service with the specified configuration.

The service loads the rule catalog, opens the decision history database, and
serves the HTTP API. When a catalog file is configured it is watched for
changes and reloaded automatically. With the controller enabled, the sensor
snapshot is evaluated on a schedule and decisions are recorded.

Examples:
  # Start with default config
  zephyr run

  # Start with custom config
  zephyr run --config /etc/zephyr/config.yaml

  # Override listen address
  zephyr run --listen 0.0.0.0:8090

  # Validate config without starting the service
  zephyr run --dry-run`,
	RunE: runService,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().StringVar(&runFlags.catalogPath, "catalog", "", "override catalog file or directory")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the service")
}

// loadConfig loads the configuration file, falling back to defaults when
// the default config file is absent.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		if !cmd.Flags().Changed("config") && !cmd.Root().PersistentFlags().Changed("config") {
			return config.NewDefaultConfig(), nil
		}
		return nil, cli.NewConfigError("", fmt.Sprintf("config file %q not found", cfgFile))
	}

	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("", err.Error())
	}
	return cfg, nil
}

func runService(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if runFlags.catalogPath != "" {
		cfg.Catalog.Path = runFlags.catalogPath
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("", err.Error())
	}

	logger, err := logging.New(&cfg.Telemetry.Logging)
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	ctx := cli.SetupSignalHandler()

	// Metrics
	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	}

	// Tracing
	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to initialize tracing: %w", err))
	}
	defer func() { _ = tracer.Shutdown(context.Background()) }()

	// Catalog source
	catalogSource, err := buildCatalogSource(ctx, cfg, logger)
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	// Engine
	opts := []engine.Option{engine.WithTracer(tracer)}
	if collector != nil {
		opts = append(opts, engine.WithMetrics(collector.Decisions()))
	}
	eng, err := engine.New(catalogSource, logger, opts...)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to initialize engine: %w", err))
	}
	defer eng.Close()
	fmt.Printf("✓ Catalog loaded (%d rules)\n", len(eng.Catalog().Rules))

	// History store
	var store *history.Store
	if cfg.History.Enabled {
		store, err = history.NewStore(&cfg.History, logger)
		if err != nil {
			return cli.NewCommandError("run", fmt.Errorf("failed to open history store: %w", err))
		}
		defer store.Close()
		fmt.Printf("✓ History store opened (%s)\n", cfg.History.Path)
	}

	// Health checks
	checker := health.New(0)
	checker.RegisterCheck("catalog", func(ctx context.Context) error {
		if len(eng.Catalog().Rules) == 0 {
			return fmt.Errorf("catalog is empty")
		}
		return nil
	})
	if store != nil {
		checker.RegisterCheck("history", store.Ping)
	}

	// Controller
	if cfg.Controller.Enabled {
		sensors := controller.NewFileSensorSource(cfg.Sensors.SnapshotPath)
		ctrl := controller.New(eng, sensors, store, cfg, logger)
		if err := ctrl.Start(ctx); err != nil {
			return cli.NewCommandError("run", fmt.Errorf("failed to start controller: %w", err))
		}
		defer ctrl.Stop()
		fmt.Printf("✓ Controller started (schedule %q)\n", cfg.Controller.Schedule)
	}

	srv := server.New(cfg, server.Options{
		Engine:    eng,
		Store:     store,
		Checker:   checker,
		Collector: collector,
		Logger:    logger,
		Version:   Version,
		Commit:    GitCommit,
		BuildTime: BuildDate,
	})

	fmt.Printf("✓ Listening on %s\n", cfg.Server.ListenAddress)
	return srv.Start(ctx)
}

// buildCatalogSource chooses between the configured file source and the
// embedded default catalog. When watching is disabled, the file catalog is
// loaded once into a memory source.
func buildCatalogSource(ctx context.Context, cfg *config.Config, logger *slog.Logger) (engine.CatalogSource, error) {
	if cfg.Catalog.Path == "" {
		return source.NewDefaultSource(), nil
	}

	fileSource := source.NewFileSource(cfg.Catalog.Path, logger)
	if cfg.Catalog.Watch {
		return fileSource, nil
	}

	catalog, err := fileSource.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return source.NewMemorySource(catalog), nil
}
