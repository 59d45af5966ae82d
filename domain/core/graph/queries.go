package graph

import (
	"slices"
	"strings"

	"github.com/imprakashraghu/way-engine/domain/core/entities"
)

// PortsOfNode returns the ports whose NodeID is nodeID, ordered by id
func (s *Store) PortsOfNode(nodeID string) []entities.Port {
	var ports []entities.Port
	for _, p := range s.ports {
		if p.NodeID == nodeID {
			ports = append(ports, p.Clone())
		}
	}
	slices.SortFunc(ports, func(a, b entities.Port) int { return strings.Compare(a.ID, b.ID) })
	return ports
}

// EdgesOfPort returns the edges with either end on portID, ordered by id
func (s *Store) EdgesOfPort(portID string) []entities.Edge {
	return s.edgesWhere(func(e entities.Edge) bool { return e.Touches(portID) })
}

// EdgesOfNode returns the edges touching any port of nodeID, ordered by id
func (s *Store) EdgesOfNode(nodeID string) []entities.Edge {
	owned := ownedPortIDs(s, nodeID)
	if len(owned) == 0 {
		return nil
	}
	return s.edgesWhere(func(e entities.Edge) bool {
		return slices.Contains(owned, e.SourcePortID) || slices.Contains(owned, e.TargetPortID)
	})
}

// ConnectedNodes returns the nodes linked to nodeID by at least one edge,
// excluding nodeID itself, ordered by id.
func (s *Store) ConnectedNodes(nodeID string) []entities.Node {
	seen := make(map[string]struct{})
	for _, e := range s.EdgesOfNode(nodeID) {
		for _, end := range []string{e.SourcePortID, e.TargetPortID} {
			port, ok := s.ports[end]
			if !ok || port.NodeID == nodeID {
				continue
			}
			if _, ok := s.nodes[port.NodeID]; ok {
				seen[port.NodeID] = struct{}{}
			}
		}
	}

	nodes := make([]entities.Node, 0, len(seen))
	for id := range seen {
		nodes = append(nodes, s.nodes[id].Clone())
	}
	slices.SortFunc(nodes, func(a, b entities.Node) int { return strings.Compare(a.ID, b.ID) })
	return nodes
}

// SourceNodeID returns the node owning the edge's source port
func (s *Store) SourceNodeID(edgeID string) (string, bool) {
	e, ok := s.edges[edgeID]
	if !ok {
		return "", false
	}
	return s.ownerOf(e.SourcePortID)
}

// TargetNodeID returns the node owning the edge's target port
func (s *Store) TargetNodeID(edgeID string) (string, bool) {
	e, ok := s.edges[edgeID]
	if !ok {
		return "", false
	}
	return s.ownerOf(e.TargetPortID)
}

func (s *Store) ownerOf(portID string) (string, bool) {
	p, ok := s.ports[portID]
	if !ok {
		return "", false
	}
	return p.NodeID, true
}

func (s *Store) edgesWhere(match func(entities.Edge) bool) []entities.Edge {
	var edges []entities.Edge
	for _, e := range s.edges {
		if match(e) {
			edges = append(edges, e.Clone())
		}
	}
	slices.SortFunc(edges, func(a, b entities.Edge) int { return strings.Compare(a.ID, b.ID) })
	return edges
}
