package graph

import (
	"maps"
	"slices"

	"github.com/imprakashraghu/way-engine/domain/core/entities"
	pkgerrors "github.com/imprakashraghu/way-engine/pkg/errors"
)

// The exported functions in this file are the pure mutation API. Each one
// validates fully before building the new store, so an error always means
// nothing was produced. Editor wraps them to publish events.

// AddNode adds a node. Fails with DuplicateId if the id is taken.
func AddNode(g *Store, node entities.Node) (*Store, error) {
	next, _, err := addNode(g, node)
	return next, err
}

// UpdateNode merges patch onto an existing node
func UpdateNode(g *Store, id string, patch entities.NodePatch) (*Store, error) {
	next, _, err := updateNode(g, id, patch)
	return next, err
}

// RemoveNode removes a node, every port it owns and every edge touching
// those ports.
func RemoveNode(g *Store, id string) (*Store, error) {
	next, _, err := removeNode(g, id)
	return next, err
}

// AddPort adds a port to an existing node and lists it on that node
func AddPort(g *Store, port entities.Port) (*Store, error) {
	next, _, err := addPort(g, port)
	return next, err
}

// UpdatePort merges patch onto an existing port
func UpdatePort(g *Store, id string, patch entities.PortPatch) (*Store, error) {
	next, _, err := updatePort(g, id, patch)
	return next, err
}

// RemovePort removes a port and every edge touching it
func RemovePort(g *Store, id string) (*Store, error) {
	next, _, err := removePort(g, id)
	return next, err
}

// AddEdge connects two existing, distinct ports
func AddEdge(g *Store, edge entities.Edge) (*Store, error) {
	next, _, err := addEdge(g, edge)
	return next, err
}

// UpdateEdge merges patch onto an existing edge
func UpdateEdge(g *Store, id string, patch entities.EdgePatch) (*Store, error) {
	next, _, err := updateEdge(g, id, patch)
	return next, err
}

// RemoveEdge removes an edge
func RemoveEdge(g *Store, id string) (*Store, error) {
	next, _, err := removeEdge(g, id)
	return next, err
}

// RewireEdge moves one or both ends of an edge to other existing ports
func RewireEdge(g *Store, id string, patch entities.RewirePatch) (*Store, error) {
	next, _, err := rewireEdge(g, id, patch)
	return next, err
}

func addNode(g *Store, input entities.Node) (*Store, Event, error) {
	node, err := entities.NewNode(input)
	if err != nil {
		return nil, Event{}, err
	}
	if g.HasNode(node.ID) {
		return nil, Event{}, pkgerrors.NewDuplicateIDError("node", node.ID)
	}

	next := g.clone()
	next.nodes = maps.Clone(g.nodes)
	next.nodes[node.ID] = node
	return next, Event{Type: EventNodeAdded, NodeID: node.ID}, nil
}

// updateEntity is the shared lookup-patch-store step of the three update
// operations.
func updateEntity[E any, P entities.Patch[E]](m map[string]E, kind, id string, patch P) (map[string]E, error) {
	existing, ok := m[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError(kind, id)
	}
	updated := maps.Clone(m)
	updated[id] = entities.ApplyPatch(existing, patch)
	return updated, nil
}

func updateNode(g *Store, id string, patch entities.NodePatch) (*Store, Event, error) {
	nodes, err := updateEntity(g.nodes, "node", id, patch)
	if err != nil {
		return nil, Event{}, err
	}
	next := g.clone()
	next.nodes = nodes
	return next, Event{Type: EventNodeUpdated, NodeID: id}, nil
}

func removeNode(g *Store, id string) (*Store, Event, error) {
	if !g.HasNode(id) {
		return nil, Event{}, pkgerrors.NewNotFoundError("node", id)
	}

	portIDs := ownedPortIDs(g, id)
	edgeIDs := touchingEdgeIDs(g, portIDs...)

	next := g.clone()
	next.nodes = maps.Clone(g.nodes)
	delete(next.nodes, id)
	if len(portIDs) > 0 {
		next.ports = maps.Clone(g.ports)
		for _, pid := range portIDs {
			delete(next.ports, pid)
		}
	}
	if len(edgeIDs) > 0 {
		next.edges = maps.Clone(g.edges)
		for _, eid := range edgeIDs {
			delete(next.edges, eid)
		}
	}

	return next, Event{
		Type:           EventNodeRemoved,
		NodeID:         id,
		RemovedPortIDs: portIDs,
		RemovedEdgeIDs: edgeIDs,
	}, nil
}

func addPort(g *Store, input entities.Port) (*Store, Event, error) {
	port, err := entities.NewPort(input)
	if err != nil {
		return nil, Event{}, err
	}
	if g.HasPort(port.ID) {
		return nil, Event{}, pkgerrors.NewDuplicateIDError("port", port.ID)
	}
	owner, ok := g.nodes[port.NodeID]
	if !ok {
		return nil, Event{}, pkgerrors.NewInvalidReferenceError("port "+port.ID, "nodeId", port.NodeID)
	}

	next := g.clone()
	next.ports = maps.Clone(g.ports)
	next.ports[port.ID] = port
	if withPort := owner.WithPort(port.ID); !slices.Equal(withPort.Ports, owner.Ports) {
		next.nodes = maps.Clone(g.nodes)
		next.nodes[owner.ID] = withPort
	}
	return next, Event{Type: EventPortAdded, PortID: port.ID, NodeID: port.NodeID}, nil
}

func updatePort(g *Store, id string, patch entities.PortPatch) (*Store, Event, error) {
	if err := patch.Validate(); err != nil {
		return nil, Event{}, err
	}
	ports, err := updateEntity(g.ports, "port", id, patch)
	if err != nil {
		return nil, Event{}, err
	}
	next := g.clone()
	next.ports = ports
	return next, Event{Type: EventPortUpdated, PortID: id, NodeID: ports[id].NodeID}, nil
}

func removePort(g *Store, id string) (*Store, Event, error) {
	port, ok := g.ports[id]
	if !ok {
		return nil, Event{}, pkgerrors.NewNotFoundError("port", id)
	}

	edgeIDs := touchingEdgeIDs(g, id)

	next := g.clone()
	next.ports = maps.Clone(g.ports)
	delete(next.ports, id)
	if len(edgeIDs) > 0 {
		next.edges = maps.Clone(g.edges)
		for _, eid := range edgeIDs {
			delete(next.edges, eid)
		}
	}
	if owner, ok := g.nodes[port.NodeID]; ok && owner.HasPort(id) {
		next.nodes = maps.Clone(g.nodes)
		next.nodes[owner.ID] = owner.WithoutPorts(id)
	}

	return next, Event{
		Type:           EventPortRemoved,
		PortID:         id,
		NodeID:         port.NodeID,
		RemovedEdgeIDs: edgeIDs,
	}, nil
}

func addEdge(g *Store, input entities.Edge) (*Store, Event, error) {
	edge, err := entities.NewEdge(input)
	if err != nil {
		return nil, Event{}, err
	}
	if g.HasEdge(edge.ID) {
		return nil, Event{}, pkgerrors.NewDuplicateIDError("edge", edge.ID)
	}
	if err := checkEndpoints(g, edge.ID, edge.SourcePortID, edge.TargetPortID); err != nil {
		return nil, Event{}, err
	}

	next := g.clone()
	next.edges = maps.Clone(g.edges)
	next.edges[edge.ID] = edge
	return next, Event{Type: EventEdgeAdded, EdgeID: edge.ID}, nil
}

func updateEdge(g *Store, id string, patch entities.EdgePatch) (*Store, Event, error) {
	edges, err := updateEntity(g.edges, "edge", id, patch)
	if err != nil {
		return nil, Event{}, err
	}
	next := g.clone()
	next.edges = edges
	return next, Event{Type: EventEdgeUpdated, EdgeID: id}, nil
}

func removeEdge(g *Store, id string) (*Store, Event, error) {
	if !g.HasEdge(id) {
		return nil, Event{}, pkgerrors.NewNotFoundError("edge", id)
	}
	next := g.clone()
	next.edges = maps.Clone(g.edges)
	delete(next.edges, id)
	return next, Event{Type: EventEdgeRemoved, EdgeID: id}, nil
}

func rewireEdge(g *Store, id string, patch entities.RewirePatch) (*Store, Event, error) {
	edge, ok := g.edges[id]
	if !ok {
		return nil, Event{}, pkgerrors.NewNotFoundError("edge", id)
	}

	source, target := patch.Resolve(edge)
	if err := checkEndpoints(g, id, source, target); err != nil {
		return nil, Event{}, err
	}

	edge.SourcePortID = source
	edge.TargetPortID = target

	next := g.clone()
	next.edges = maps.Clone(g.edges)
	next.edges[id] = edge
	return next, Event{Type: EventEdgeUpdated, EdgeID: id}, nil
}

// checkEndpoints verifies both ports exist and differ
func checkEndpoints(g *Store, edgeID, source, target string) error {
	if !g.HasPort(source) {
		return pkgerrors.NewInvalidReferenceError("edge "+edgeID, "sourcePortId", source)
	}
	if !g.HasPort(target) {
		return pkgerrors.NewInvalidReferenceError("edge "+edgeID, "targetPortId", target)
	}
	if source == target {
		return pkgerrors.NewSelfLoopError(edgeID, source)
	}
	return nil
}

// ownedPortIDs returns, sorted, the ids of every port whose NodeID is nodeID
func ownedPortIDs(g *Store, nodeID string) []string {
	var ids []string
	for id, p := range g.ports {
		if p.NodeID == nodeID {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// touchingEdgeIDs returns, sorted, the ids of every edge with either end
// on one of portIDs.
func touchingEdgeIDs(g *Store, portIDs ...string) []string {
	if len(portIDs) == 0 {
		return nil
	}
	var ids []string
	for id, e := range g.edges {
		if slices.Contains(portIDs, e.SourcePortID) || slices.Contains(portIDs, e.TargetPortID) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}
