package commands

import (
	"github.com/imprakashraghu/way-engine/domain/core/entities"
	"github.com/imprakashraghu/way-engine/domain/core/graph"
	pkgerrors "github.com/imprakashraghu/way-engine/pkg/errors"
)

// AddPort adds a port to a node; undo removes it
type AddPort struct {
	mut      Mutator
	port     entities.Port
	executed bool
}

// NewAddPort returns a command that adds port
func NewAddPort(mut Mutator, port entities.Port) *AddPort {
	return &AddPort{mut: mut, port: port.Clone()}
}

func (c *AddPort) Label() string { return "Add Port" }

func (c *AddPort) Execute(g *graph.Store) (*graph.Store, error) {
	next, err := c.mut.AddPort(g, c.port)
	if err != nil {
		return nil, err
	}
	c.executed = true
	return next, nil
}

func (c *AddPort) Undo(g *graph.Store) (*graph.Store, error) {
	if !c.executed {
		return nil, ErrNotExecuted
	}
	return c.mut.RemovePort(g, c.port.ID)
}

// UpdatePort patches a port; undo restores the previous value
type UpdatePort struct {
	mut      Mutator
	id       string
	patch    entities.PortPatch
	previous *entities.Port
}

// NewUpdatePort returns a command that patches port id
func NewUpdatePort(mut Mutator, id string, patch entities.PortPatch) *UpdatePort {
	return &UpdatePort{mut: mut, id: id, patch: patch}
}

func (c *UpdatePort) Label() string { return "Update Port" }

func (c *UpdatePort) Execute(g *graph.Store) (*graph.Store, error) {
	prev, ok := g.Port(c.id)
	if !ok {
		return nil, pkgerrors.NewNotFoundError("port", c.id)
	}
	next, err := c.mut.UpdatePort(g, c.id, c.patch)
	if err != nil {
		return nil, err
	}
	prev = prev.Clone()
	c.previous = &prev
	return next, nil
}

func (c *UpdatePort) Undo(g *graph.Store) (*graph.Store, error) {
	if c.previous == nil {
		return nil, ErrNotExecuted
	}
	return c.mut.UpdatePort(g, c.id, entities.RestorePort(*c.previous))
}

// RemovePort removes a port and the edges touching it; undo re-adds the
// port, then the edges.
type RemovePort struct {
	mut   Mutator
	id    string
	port  *entities.Port
	edges []entities.Edge
}

// NewRemovePort removes port id along with its edges
func NewRemovePort(mut Mutator, id string) *RemovePort {
	return &RemovePort{mut: mut, id: id}
}

func (c *RemovePort) Label() string { return "Remove Port" }

func (c *RemovePort) Execute(g *graph.Store) (*graph.Store, error) {
	port, ok := g.Port(c.id)
	edges := g.EdgesOfPort(c.id)

	next, err := c.mut.RemovePort(g, c.id)
	if err != nil {
		return nil, err
	}
	if ok {
		port = port.Clone()
		c.port = &port
	}
	c.edges = edges
	return next, nil
}

func (c *RemovePort) Undo(g *graph.Store) (*graph.Store, error) {
	if c.port == nil {
		return nil, ErrNotExecuted
	}
	steps := restorePorts(c.mut, []entities.Port{*c.port})
	steps = append(steps, restoreEdges(c.mut, c.edges)...)
	return runSteps(g, steps...)
}
