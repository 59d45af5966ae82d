package commands

import (
	"github.com/imprakashraghu/way-engine/domain/core/entities"
	"github.com/imprakashraghu/way-engine/domain/core/graph"
	pkgerrors "github.com/imprakashraghu/way-engine/pkg/errors"
)

// AddEdge connects two ports; undo removes the edge
type AddEdge struct {
	mut      Mutator
	edge     entities.Edge
	executed bool
}

// NewAddEdge returns a command that adds edge
func NewAddEdge(mut Mutator, edge entities.Edge) *AddEdge {
	return &AddEdge{mut: mut, edge: edge.Clone()}
}

func (c *AddEdge) Label() string { return "Add Edge" }

func (c *AddEdge) Execute(g *graph.Store) (*graph.Store, error) {
	next, err := c.mut.AddEdge(g, c.edge)
	if err != nil {
		return nil, err
	}
	c.executed = true
	return next, nil
}

func (c *AddEdge) Undo(g *graph.Store) (*graph.Store, error) {
	if !c.executed {
		return nil, ErrNotExecuted
	}
	return c.mut.RemoveEdge(g, c.edge.ID)
}

// UpdateEdge patches an edge payload; undo restores it
type UpdateEdge struct {
	mut      Mutator
	id       string
	patch    entities.EdgePatch
	previous *entities.Edge
}

// NewUpdateEdge returns a command that patches edge id
func NewUpdateEdge(mut Mutator, id string, patch entities.EdgePatch) *UpdateEdge {
	return &UpdateEdge{mut: mut, id: id, patch: patch}
}

func (c *UpdateEdge) Label() string { return "Update Edge" }

func (c *UpdateEdge) Execute(g *graph.Store) (*graph.Store, error) {
	prev, ok := g.Edge(c.id)
	if !ok {
		return nil, pkgerrors.NewNotFoundError("edge", c.id)
	}
	next, err := c.mut.UpdateEdge(g, c.id, c.patch)
	if err != nil {
		return nil, err
	}
	prev = prev.Clone()
	c.previous = &prev
	return next, nil
}

func (c *UpdateEdge) Undo(g *graph.Store) (*graph.Store, error) {
	if c.previous == nil {
		return nil, ErrNotExecuted
	}
	return c.mut.UpdateEdge(g, c.id, entities.RestoreEdge(*c.previous))
}

// RemoveEdge removes an edge; undo adds it back
type RemoveEdge struct {
	mut  Mutator
	id   string
	edge *entities.Edge
}

// NewRemoveEdge removes edge id
func NewRemoveEdge(mut Mutator, id string) *RemoveEdge {
	return &RemoveEdge{mut: mut, id: id}
}

func (c *RemoveEdge) Label() string { return "Remove Edge" }

func (c *RemoveEdge) Execute(g *graph.Store) (*graph.Store, error) {
	edge, ok := g.Edge(c.id)
	next, err := c.mut.RemoveEdge(g, c.id)
	if err != nil {
		return nil, err
	}
	if ok {
		edge = edge.Clone()
		c.edge = &edge
	}
	return next, nil
}

func (c *RemoveEdge) Undo(g *graph.Store) (*graph.Store, error) {
	if c.edge == nil {
		return nil, ErrNotExecuted
	}
	return c.mut.AddEdge(g, *c.edge)
}

// RewireEdge moves the ends of an edge; undo moves them back
type RewireEdge struct {
	mut      Mutator
	id       string
	patch    entities.RewirePatch
	previous *entities.RewirePatch
}

// NewRewireEdge reconnects edge id according to patch
func NewRewireEdge(mut Mutator, id string, patch entities.RewirePatch) *RewireEdge {
	return &RewireEdge{mut: mut, id: id, patch: patch}
}

func (c *RewireEdge) Label() string { return "Rewire Edge" }

func (c *RewireEdge) Execute(g *graph.Store) (*graph.Store, error) {
	edge, ok := g.Edge(c.id)
	if !ok {
		return nil, pkgerrors.NewNotFoundError("edge", c.id)
	}
	next, err := c.mut.RewireEdge(g, c.id, c.patch)
	if err != nil {
		return nil, err
	}
	source, target := edge.SourcePortID, edge.TargetPortID
	c.previous = &entities.RewirePatch{SourcePortID: &source, TargetPortID: &target}
	return next, nil
}

func (c *RewireEdge) Undo(g *graph.Store) (*graph.Store, error) {
	if c.previous == nil {
		return nil, ErrNotExecuted
	}
	return c.mut.RewireEdge(g, c.id, *c.previous)
}
