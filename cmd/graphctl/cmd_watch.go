package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imprakashraghu/way-engine/infrastructure/config"
	"github.com/imprakashraghu/way-engine/infrastructure/di"
	"github.com/imprakashraghu/way-engine/infrastructure/persistence"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch [graph file]",
	Short: "Re-validate a graph file every time it changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger, err := di.ProvideLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	watcher, err := config.NewFileWatcher(args[0], logger)
	if err != nil {
		return err
	}
	defer watcher.Close()

	out := cmd.OutOrStdout()
	report := func(path string) {
		_, violations := persistence.SafeReadFile(path)
		if len(violations) == 0 {
			fmt.Fprintf(out, "%s: ok\n", path)
			return
		}
		logger.Warn("Graph file is invalid", zap.String("path", path), zap.Int("violations", len(violations)))
		for _, v := range violations {
			fmt.Fprintf(out, "  - %s\n", v)
		}
	}

	report(watcher.Path())
	watcher.OnChange(report)

	if cfg.ConfigFile != "" {
		cw, err := config.NewConfigWatcher(cfg, logger)
		if err != nil {
			return err
		}
		defer cw.Close()
		cw.OnChange(func(c *config.Config) {
			logger.Info("Configuration reloaded",
				zap.String("environment", c.Environment),
				zap.String("log_level", c.LogLevel))
		})
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	return nil
}
