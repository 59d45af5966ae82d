package commands

import (
	"maps"

	"github.com/google/uuid"
	"github.com/imprakashraghu/way-engine/domain/core/graph"
	pkgerrors "github.com/imprakashraghu/way-engine/pkg/errors"
)

// BuildFunc computes the commands a macro runs against g
type BuildFunc func(g *graph.Store) ([]Command, error)

// Macro builds its commands from the graph at Execute time and runs them
// through an internal Batch. Undo goes to that same batch.
type Macro struct {
	label string
	build BuildFunc
	batch *Batch
}

// NewMacro wraps build as a command labelled label
func NewMacro(label string, build BuildFunc) *Macro {
	return &Macro{label: label, build: build}
}

func (m *Macro) Label() string { return m.label }

// Execute builds the batch against g and runs it
func (m *Macro) Execute(g *graph.Store) (*graph.Store, error) {
	cmds, err := m.build(g)
	if err != nil {
		return nil, err
	}
	batch := NewBatch(m.label, cmds...)
	next, err := batch.Execute(g)
	if err != nil {
		return nil, err
	}
	m.batch = batch
	return next, nil
}

// Undo reverts the batch from the last successful Execute
func (m *Macro) Undo(g *graph.Store) (*graph.Store, error) {
	if m.batch == nil {
		return nil, ErrNotExecuted
	}
	return m.batch.Undo(g)
}

// IDGenerator returns a fresh, unused id
type IDGenerator func() string

// DuplicateOption configures a DuplicateNode macro
type DuplicateOption func(*DuplicateNode)

// WithIDGenerator replaces uuid.NewString as the source of fresh ids
func WithIDGenerator(gen IDGenerator) DuplicateOption {
	return func(d *DuplicateNode) {
		if gen != nil {
			d.newID = gen
		}
	}
}

// WithOffset sets how far the copy is moved from the original
func WithOffset(dx, dy float64) DuplicateOption {
	return func(d *DuplicateNode) {
		d.dx, d.dy = dx, dy
	}
}

// DuplicateNode copies a node and its ports under fresh ids, shifted by an
// offset, along with every edge running between two of those ports.
type DuplicateNode struct {
	*Macro

	mut    Mutator
	nodeID string
	newID  IDGenerator
	dx, dy float64

	pending map[string]string
	mapping map[string]string
}

// NewDuplicateNode creates the macro. The default offset is (40, 40).
func NewDuplicateNode(mut Mutator, nodeID string, opts ...DuplicateOption) *DuplicateNode {
	d := &DuplicateNode{
		mut:    mut,
		nodeID: nodeID,
		newID:  uuid.NewString,
		dx:     40,
		dy:     40,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.Macro = NewMacro("Duplicate Node", d.build)
	return d
}

// Mapping returns original id → copy id for the node and each port, as
// built by the last successful Execute.
func (d *DuplicateNode) Mapping() map[string]string {
	return maps.Clone(d.mapping)
}

// Execute runs the duplication. The mapping is only replaced once every
// copy has been added.
func (d *DuplicateNode) Execute(g *graph.Store) (*graph.Store, error) {
	d.pending = nil
	next, err := d.Macro.Execute(g)
	if err != nil {
		return nil, err
	}
	d.mapping = d.pending
	return next, nil
}

func (d *DuplicateNode) build(g *graph.Store) ([]Command, error) {
	node, ok := g.Node(d.nodeID)
	if !ok {
		return nil, pkgerrors.NewNotFoundError("node", d.nodeID)
	}

	mapping := make(map[string]string)
	copyID := d.newID()
	mapping[node.ID] = copyID

	clone := node.Clone()
	clone.ID = copyID
	clone.Position = node.Position.Offset(d.dx, d.dy)
	clone.Ports = nil

	cmds := []Command{NewAddNode(d.mut, clone)}

	for _, port := range g.PortsOfNode(node.ID) {
		portCopy := port.Clone()
		portCopy.ID = d.newID()
		portCopy.NodeID = copyID
		mapping[port.ID] = portCopy.ID
		cmds = append(cmds, NewAddPort(d.mut, portCopy))
	}

	for _, edge := range g.EdgesOfNode(node.ID) {
		source, srcOwned := mapping[edge.SourcePortID]
		target, dstOwned := mapping[edge.TargetPortID]
		if !srcOwned || !dstOwned {
			continue
		}
		edgeCopy := edge.Clone()
		edgeCopy.ID = d.newID()
		edgeCopy.SourcePortID = source
		edgeCopy.TargetPortID = target
		cmds = append(cmds, NewAddEdge(d.mut, edgeCopy))
	}

	d.pending = mapping
	return cmds, nil
}

// NewDeleteSelection removes every node in ids, one RemoveNode per id. Ports
// and edges go with their nodes through cascade deletion.
func NewDeleteSelection(mut Mutator, ids []string) *Macro {
	selected := append([]string(nil), ids...)
	return NewMacro("Delete Selection", func(*graph.Store) ([]Command, error) {
		cmds := make([]Command, 0, len(selected))
		for _, id := range selected {
			cmds = append(cmds, NewRemoveNode(mut, id))
		}
		return cmds, nil
	})
}
