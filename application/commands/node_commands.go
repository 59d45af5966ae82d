package commands

import (
	"github.com/imprakashraghu/way-engine/domain/core/entities"
	"github.com/imprakashraghu/way-engine/domain/core/graph"
	pkgerrors "github.com/imprakashraghu/way-engine/pkg/errors"
)

// AddNode adds a node; undo removes it again
type AddNode struct {
	mut      Mutator
	node     entities.Node
	executed bool
}

// NewAddNode returns a command that adds node
func NewAddNode(mut Mutator, node entities.Node) *AddNode {
	return &AddNode{mut: mut, node: node.Clone()}
}

func (c *AddNode) Label() string { return "Add Node" }

func (c *AddNode) Execute(g *graph.Store) (*graph.Store, error) {
	next, err := c.mut.AddNode(g, c.node)
	if err != nil {
		return nil, err
	}
	c.executed = true
	return next, nil
}

func (c *AddNode) Undo(g *graph.Store) (*graph.Store, error) {
	if !c.executed {
		return nil, ErrNotExecuted
	}
	return c.mut.RemoveNode(g, c.node.ID)
}

// UpdateNode patches a node. Execute remembers the node as it was so undo
// can restore every field the patch may have touched.
type UpdateNode struct {
	mut      Mutator
	id       string
	patch    entities.NodePatch
	previous *entities.Node
}

// NewUpdateNode returns a command that applies patch to node id
func NewUpdateNode(mut Mutator, id string, patch entities.NodePatch) *UpdateNode {
	return &UpdateNode{mut: mut, id: id, patch: patch}
}

func (c *UpdateNode) Label() string { return "Update Node" }

func (c *UpdateNode) Execute(g *graph.Store) (*graph.Store, error) {
	prev, ok := g.Node(c.id)
	if !ok {
		return nil, pkgerrors.NewNotFoundError("node", c.id)
	}
	next, err := c.mut.UpdateNode(g, c.id, c.patch)
	if err != nil {
		return nil, err
	}
	prev = prev.Clone()
	c.previous = &prev
	return next, nil
}

func (c *UpdateNode) Undo(g *graph.Store) (*graph.Store, error) {
	if c.previous == nil {
		return nil, ErrNotExecuted
	}
	return c.mut.UpdateNode(g, c.id, entities.RestoreNode(*c.previous))
}

// MoveNode sets a node's position; undo puts it back where it was
type MoveNode struct {
	mut      Mutator
	id       string
	to       entities.Position
	from     entities.Position
	executed bool
}

// NewMoveNode moves node id to the given position
func NewMoveNode(mut Mutator, id string, to entities.Position) *MoveNode {
	return &MoveNode{mut: mut, id: id, to: to}
}

func (c *MoveNode) Label() string { return "Move Node" }

func (c *MoveNode) Execute(g *graph.Store) (*graph.Store, error) {
	node, ok := g.Node(c.id)
	if !ok {
		return nil, pkgerrors.NewNotFoundError("node", c.id)
	}
	next, err := c.mut.UpdateNode(g, c.id, entities.NodePatch{Position: entities.To(c.to)})
	if err != nil {
		return nil, err
	}
	c.from = node.Position
	c.executed = true
	return next, nil
}

func (c *MoveNode) Undo(g *graph.Store) (*graph.Store, error) {
	if !c.executed {
		return nil, ErrNotExecuted
	}
	return c.mut.UpdateNode(g, c.id, entities.NodePatch{Position: entities.To(c.from)})
}

// RemoveNode removes a node together with its ports and their edges. Undo
// re-adds the node, then the ports, then the edges.
type RemoveNode struct {
	mut   Mutator
	id    string
	node  *entities.Node
	ports []entities.Port
	edges []entities.Edge
}

// NewRemoveNode removes node id and whatever hangs off it
func NewRemoveNode(mut Mutator, id string) *RemoveNode {
	return &RemoveNode{mut: mut, id: id}
}

func (c *RemoveNode) Label() string { return "Remove Node" }

func (c *RemoveNode) Execute(g *graph.Store) (*graph.Store, error) {
	node, ok := g.Node(c.id)
	ports := g.PortsOfNode(c.id)
	edges := g.EdgesOfNode(c.id)

	next, err := c.mut.RemoveNode(g, c.id)
	if err != nil {
		return nil, err
	}
	if ok {
		node = node.Clone()
		c.node = &node
	}
	c.ports, c.edges = ports, edges
	return next, nil
}

func (c *RemoveNode) Undo(g *graph.Store) (*graph.Store, error) {
	if c.node == nil {
		return nil, ErrNotExecuted
	}
	steps := []step{func(s *graph.Store) (*graph.Store, error) { return c.mut.AddNode(s, *c.node) }}
	steps = append(steps, restorePorts(c.mut, c.ports)...)
	steps = append(steps, restoreEdges(c.mut, c.edges)...)
	return runSteps(g, steps...)
}

func restorePorts(mut Mutator, ports []entities.Port) []step {
	steps := make([]step, 0, len(ports))
	for _, p := range ports {
		steps = append(steps, func(s *graph.Store) (*graph.Store, error) { return mut.AddPort(s, p) })
	}
	return steps
}

func restoreEdges(mut Mutator, edges []entities.Edge) []step {
	steps := make([]step, 0, len(edges))
	for _, e := range edges {
		steps = append(steps, func(s *graph.Store) (*graph.Store, error) { return mut.AddEdge(s, e) })
	}
	return steps
}
