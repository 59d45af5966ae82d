package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/imprakashraghu/way-engine/application/commands"
	"github.com/imprakashraghu/way-engine/domain/core/entities"
	"github.com/imprakashraghu/way-engine/infrastructure/di"
	pkgerrors "github.com/imprakashraghu/way-engine/pkg/errors"
	"github.com/imprakashraghu/way-engine/pkg/utils"
	"gopkg.in/yaml.v3"
)

// Script is a YAML list of edits replayed against a graph by `apply`
type Script struct {
	Label string `yaml:"label,omitempty"`
	Steps []Step `yaml:"steps" validate:"required,min=1,dive"`
}

// Step is one scripted edit. Which fields are read depends on Op.
type Step struct {
	Op     string             `yaml:"op" validate:"required,oneof=add-node update-node move-node remove-node add-port update-port remove-port add-edge update-edge remove-edge rewire-edge duplicate delete-selection batch undo redo"`
	ID     string             `yaml:"id,omitempty"`
	IDs    []string           `yaml:"ids,omitempty"`
	Label  string             `yaml:"label,omitempty"`
	Node   *entities.Node     `yaml:"node,omitempty"`
	Port   *entities.Port     `yaml:"port,omitempty"`
	Edge   *entities.Edge     `yaml:"edge,omitempty"`
	Patch  map[string]any     `yaml:"patch,omitempty"`
	To     *entities.Position `yaml:"to,omitempty"`
	Source *string            `yaml:"source,omitempty"`
	Target *string            `yaml:"target,omitempty"`
	Steps  []Step             `yaml:"steps,omitempty"`
}

// ParseScript decodes and validates a script
func ParseScript(data []byte) (*Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, pkgerrors.NewMalformedInputError("invalid script").WithCause(err)
	}
	if err := utils.ValidateStruct(&script); err != nil {
		return nil, pkgerrors.NewMalformedInputError(err.Error())
	}
	return &script, nil
}

// LoadScript reads and parses a script file
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return ParseScript(data)
}

// Runner replays scripts through a session's command manager
type Runner struct {
	session *di.Session
	out     io.Writer
}

// NewRunner creates a runner reporting each step to out
func NewRunner(session *di.Session, out io.Writer) *Runner {
	return &Runner{session: session, out: out}
}

// Run executes every step in order and stops at the first failure
func (r *Runner) Run(ctx context.Context, script *Script) error {
	for i, step := range script.Steps {
		if err := r.runStep(ctx, step); err != nil {
			return pkgerrors.Wrapf(err, "step %d (%s)", i+1, step.Op)
		}
	}
	return nil
}

func (r *Runner) runStep(ctx context.Context, step Step) error {
	switch step.Op {
	case "undo":
		if _, ok := r.session.Manager.Undo(ctx); !ok {
			fmt.Fprintln(r.out, "undo: nothing to undo")
			return nil
		}
		fmt.Fprintln(r.out, "undo")
		return nil
	case "redo":
		if _, ok := r.session.Manager.Redo(ctx); !ok {
			fmt.Fprintln(r.out, "redo: nothing to redo")
			return nil
		}
		fmt.Fprintln(r.out, "redo")
		return nil
	}

	cmd, err := r.build(step)
	if err != nil {
		return err
	}
	g, err := r.session.Manager.Execute(ctx, cmd)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%s: %d nodes, %d ports, %d edges\n",
		cmd.Label(), g.NodeCount(), g.PortCount(), g.EdgeCount())

	if dup, ok := cmd.(*commands.DuplicateNode); ok {
		fmt.Fprintf(r.out, "  %s -> %s\n", step.ID, dup.Mapping()[step.ID])
	}
	return nil
}

// build turns a step into a command. undo and redo are not commands and
// are rejected here, so they cannot appear inside a batch.
func (r *Runner) build(step Step) (commands.Command, error) {
	editor := r.session.Editor

	switch step.Op {
	case "add-node":
		if step.Node == nil {
			return nil, missingField(step, "node")
		}
		return commands.NewAddNode(editor, *step.Node), nil
	case "update-node":
		patch, err := entities.ParseNodePatch(step.Patch)
		if err != nil {
			return nil, err
		}
		return commands.NewUpdateNode(editor, step.ID, patch), nil
	case "move-node":
		if step.To == nil {
			return nil, missingField(step, "to")
		}
		return commands.NewMoveNode(editor, step.ID, *step.To), nil
	case "remove-node":
		return commands.NewRemoveNode(editor, step.ID), nil
	case "add-port":
		if step.Port == nil {
			return nil, missingField(step, "port")
		}
		return commands.NewAddPort(editor, *step.Port), nil
	case "update-port":
		patch, err := entities.ParsePortPatch(step.Patch)
		if err != nil {
			return nil, err
		}
		return commands.NewUpdatePort(editor, step.ID, patch), nil
	case "remove-port":
		return commands.NewRemovePort(editor, step.ID), nil
	case "add-edge":
		if step.Edge == nil {
			return nil, missingField(step, "edge")
		}
		return commands.NewAddEdge(editor, *step.Edge), nil
	case "update-edge":
		patch, err := entities.ParseEdgePatch(step.Patch)
		if err != nil {
			return nil, err
		}
		return commands.NewUpdateEdge(editor, step.ID, patch), nil
	case "remove-edge":
		return commands.NewRemoveEdge(editor, step.ID), nil
	case "rewire-edge":
		return commands.NewRewireEdge(editor, step.ID, entities.RewirePatch{
			SourcePortID: step.Source,
			TargetPortID: step.Target,
		}), nil
	case "duplicate":
		return r.session.DuplicateNode(step.ID), nil
	case "delete-selection":
		return commands.NewDeleteSelection(editor, step.IDs), nil
	case "batch":
		cmds := make([]commands.Command, 0, len(step.Steps))
		for _, inner := range step.Steps {
			cmd, err := r.build(inner)
			if err != nil {
				return nil, err
			}
			cmds = append(cmds, cmd)
		}
		return commands.NewBatch(step.Label, cmds...), nil
	default:
		return nil, pkgerrors.NewMalformedInputError(fmt.Sprintf("%s cannot be used here", step.Op))
	}
}

func missingField(step Step, field string) error {
	return pkgerrors.NewMalformedInputError(fmt.Sprintf("%s requires %q", step.Op, field))
}
