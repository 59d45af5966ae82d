package commands

import (
	"github.com/imprakashraghu/way-engine/domain/core/graph"
)

// Batch runs commands in order as a single undo step.
//
// Undo does not reverse the sub-commands one by one; it returns the graph
// the batch started from. That is only correct right after Execute, so
// Undo refuses any graph other than the one Execute returned.
type Batch struct {
	label    string
	commands []Command

	snapshots []*graph.Store
	start     *graph.Store
	result    *graph.Store
}

// NewBatch groups commands so they execute and undo as one step
func NewBatch(label string, commands ...Command) *Batch {
	if label == "" {
		label = "Batch Command"
	}
	return &Batch{label: label, commands: commands}
}

func (b *Batch) Label() string { return b.label }

// Commands returns the sub-commands in execution order
func (b *Batch) Commands() []Command {
	return append([]Command(nil), b.commands...)
}

// Execute runs every sub-command, keeping the graph seen before each one.
// The first failure aborts the batch and is returned as is.
func (b *Batch) Execute(g *graph.Store) (*graph.Store, error) {
	b.snapshots = make([]*graph.Store, 0, len(b.commands))
	b.start, b.result = nil, nil

	current := g
	for _, cmd := range b.commands {
		b.snapshots = append(b.snapshots, current)
		next, err := cmd.Execute(current)
		if err != nil {
			b.snapshots = nil
			return nil, err
		}
		current = next
	}

	b.start, b.result = g, current
	return current, nil
}

// Undo returns the graph from before the first sub-command
func (b *Batch) Undo(g *graph.Store) (*graph.Store, error) {
	if b.result == nil {
		return nil, ErrNotExecuted
	}
	if g != b.result {
		return nil, ErrStaleBatch
	}
	return b.start, nil
}

// Snapshot returns the graph observed before sub-command i ran
func (b *Batch) Snapshot(i int) (*graph.Store, bool) {
	if i < 0 || i >= len(b.snapshots) {
		return nil, false
	}
	return b.snapshots[i], true
}
