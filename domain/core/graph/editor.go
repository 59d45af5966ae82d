package graph

import (
	"time"

	"github.com/imprakashraghu/way-engine/domain/core/entities"
	"go.uber.org/zap"
)

// Editor is the event-emitting surface over the mutation functions. Each
// successful call publishes the specific event followed by
// EventGraphChanged, both carrying the new snapshot.
type Editor struct {
	bus    *Bus
	logger *zap.Logger
	now    func() time.Time
}

// NewEditor creates an editor publishing on bus. A nil bus is allowed and
// turns the editor into a plain wrapper around the pure functions.
func NewEditor(bus *Bus, logger *zap.Logger) *Editor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Editor{bus: bus, logger: logger, now: time.Now}
}

// Bus returns the bus this editor publishes on
func (e *Editor) Bus() *Bus {
	return e.bus
}

// AddNode adds a node and publishes node:added
func (e *Editor) AddNode(g *Store, node entities.Node) (*Store, error) {
	return e.apply(addNode(g, node))
}

// UpdateNode merges patch into the node
func (e *Editor) UpdateNode(g *Store, id string, patch entities.NodePatch) (*Store, error) {
	return e.apply(updateNode(g, id, patch))
}

// RemoveNode removes a node together with its ports and their edges
func (e *Editor) RemoveNode(g *Store, id string) (*Store, error) {
	return e.apply(removeNode(g, id))
}

// AddPort attaches a port to an existing node
func (e *Editor) AddPort(g *Store, port entities.Port) (*Store, error) {
	return e.apply(addPort(g, port))
}

// UpdatePort patches a port in place
func (e *Editor) UpdatePort(g *Store, id string, patch entities.PortPatch) (*Store, error) {
	return e.apply(updatePort(g, id, patch))
}

// RemovePort removes a port and every edge touching it
func (e *Editor) RemovePort(g *Store, id string) (*Store, error) {
	return e.apply(removePort(g, id))
}

// AddEdge connects two existing ports
func (e *Editor) AddEdge(g *Store, edge entities.Edge) (*Store, error) {
	return e.apply(addEdge(g, edge))
}

// UpdateEdge patches an edge payload
func (e *Editor) UpdateEdge(g *Store, id string, patch entities.EdgePatch) (*Store, error) {
	return e.apply(updateEdge(g, id, patch))
}

// RemoveEdge removes one edge
func (e *Editor) RemoveEdge(g *Store, id string) (*Store, error) {
	return e.apply(removeEdge(g, id))
}

// RewireEdge moves one or both ends of an edge
func (e *Editor) RewireEdge(g *Store, id string, patch entities.RewirePatch) (*Store, error) {
	return e.apply(rewireEdge(g, id, patch))
}

func (e *Editor) apply(next *Store, ev Event, err error) (*Store, error) {
	if err != nil {
		e.logger.Debug("graph mutation rejected", zap.Error(err))
		return nil, err
	}

	ev.Timestamp = e.now()
	ev.Graph = next

	e.logger.Debug("graph mutated",
		zap.String("event", string(ev.Type)),
		zap.String("node_id", ev.NodeID),
		zap.String("port_id", ev.PortID),
		zap.String("edge_id", ev.EdgeID),
		zap.Int("cascaded_ports", len(ev.RemovedPortIDs)),
		zap.Int("cascaded_edges", len(ev.RemovedEdgeIDs)))

	if e.bus != nil {
		e.bus.Emit(ev)
		e.bus.Emit(Event{Type: EventGraphChanged, Timestamp: ev.Timestamp, Graph: next})
	}
	return next, nil
}
