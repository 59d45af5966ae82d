package main

import (
	"fmt"
	"strings"

	"github.com/imprakashraghu/way-engine/infrastructure/di"
	"github.com/imprakashraghu/way-engine/infrastructure/persistence"
	pkgerrors "github.com/imprakashraghu/way-engine/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	applyOutput string

	applyCmd = &cobra.Command{
		Use:   "apply [graph file] [script file]",
		Short: "Replay a YAML edit script against a graph",
		Long: `apply loads a graph, runs each scripted step through the command
manager (so undo and redo steps behave as they would in an editor) and
writes the resulting graph to --output, or to stdout when no output is set.`,
		Args: cobra.ExactArgs(2),
		RunE: runApply,
	}
)

func init() {
	applyCmd.Flags().StringVarP(&applyOutput, "output", "o", "", "write the result here (format from extension)")
}

func runApply(cmd *cobra.Command, args []string) error {
	g, violations := persistence.SafeReadFile(args[0])
	if len(violations) > 0 {
		return pkgerrors.NewValidationError(fmt.Sprintf("%s is not a valid graph: %s",
			args[0], strings.Join(violations, "; ")))
	}
	script, err := LoadScript(args[1])
	if err != nil {
		return err
	}

	session, err := di.InitializeSession(cfg, g)
	if err != nil {
		return fmt.Errorf("failed to initialize session: %w", err)
	}
	defer session.Close()

	ctx := cmd.Context()
	if err := NewRunner(session, cmd.ErrOrStderr()).Run(ctx, script); err != nil {
		return err
	}

	result := session.Manager.Graph()
	if applyOutput != "" {
		if err := persistence.WriteFile(applyOutput, result); err != nil {
			return err
		}
	} else {
		format, err := persistence.FormatFromPath(args[0])
		if err != nil {
			return err
		}
		data, err := persistence.Marshal(result, format)
		if err != nil {
			return err
		}
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return err
		}
	}

	if session.Metrics != nil {
		return session.Metrics.WriteText(cmd.ErrOrStderr())
	}
	return nil
}
