package main

import (
	"context"
	"fmt"
	"os"

	"github.com/imprakashraghu/way-engine/infrastructure/config"
	"github.com/imprakashraghu/way-engine/pkg/observability"
	"github.com/spf13/cobra"
)

var version = "dev"

// --- Global Command Variables ---
var (
	configPath    string
	enableTrace   bool
	enableMetrics bool

	cfg            *config.Config
	tracerProvider *observability.TracerProvider

	rootCmd = &cobra.Command{
		Use:   "graphctl",
		Short: "Validate, inspect and edit node graphs",
		Long: `graphctl works on node graphs stored as JSON or YAML documents.
It validates graph invariants, prints graph contents and replays
scripted edits with full undo/redo history.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if tracerProvider == nil {
				return nil
			}
			return tracerProvider.Shutdown(context.Background())
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (overrides WAY_CONFIG_FILE)")
	rootCmd.PersistentFlags().BoolVar(&enableTrace, "trace", false, "print command spans to stderr")
	rootCmd.PersistentFlags().BoolVar(&enableMetrics, "metrics", false, "print Prometheus metrics after apply")

	rootCmd.AddCommand(validateCmd, inspectCmd, applyCmd, watchCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfigFile(configPath)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if enableMetrics {
		cfg.EnableMetrics = true
	}
	if enableTrace {
		cfg.EnableTracing = true
	}
	if cfg.EnableTracing {
		tracerProvider, err = observability.InitTracing(observability.TracingConfig{
			ServiceName: "graphctl",
			Environment: cfg.Environment,
			Version:     version,
			Writer:      cmd.ErrOrStderr(),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
