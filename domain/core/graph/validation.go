package graph

import "fmt"

// Validate checks a store built outside the mutation API (typically by a
// loader through FromMaps) and returns one message per violation, in a
// deterministic order. An empty result means the graph is consistent.
func Validate(s *Store) []string {
	var violations []string
	violations = append(violations, validateKeys(s)...)
	violations = append(violations, validatePortOwners(s)...)
	violations = append(violations, validateEdgeEndpoints(s)...)
	violations = append(violations, validatePortOwnership(s)...)
	violations = append(violations, validateSelfLoops(s)...)
	return violations
}

// validateKeys reports entities stored under a key that differs from their id
func validateKeys(s *Store) []string {
	var out []string
	for _, id := range s.NodeIDs() {
		if n := s.nodes[id]; n.ID != id {
			out = append(out, fmt.Sprintf("Node stored under %s has id=%s.", id, n.ID))
		}
	}
	for _, id := range s.PortIDs() {
		if p := s.ports[id]; p.ID != id {
			out = append(out, fmt.Sprintf("Port stored under %s has id=%s.", id, p.ID))
		}
	}
	for _, id := range s.EdgeIDs() {
		if e := s.edges[id]; e.ID != id {
			out = append(out, fmt.Sprintf("Edge stored under %s has id=%s.", id, e.ID))
		}
	}
	return out
}

func validatePortOwners(s *Store) []string {
	var out []string
	for _, id := range s.PortIDs() {
		p := s.ports[id]
		if !s.HasNode(p.NodeID) {
			out = append(out, fmt.Sprintf("Port %s refers to missing nodeId=%s.", id, p.NodeID))
		}
	}
	return out
}

func validateEdgeEndpoints(s *Store) []string {
	var out []string
	for _, id := range s.EdgeIDs() {
		e := s.edges[id]
		if !s.HasPort(e.SourcePortID) {
			out = append(out, fmt.Sprintf("Edge %s refers to missing sourcePortId=%s.", id, e.SourcePortID))
		}
		if !s.HasPort(e.TargetPortID) {
			out = append(out, fmt.Sprintf("Edge %s refers to missing targetPortId=%s.", id, e.TargetPortID))
		}
	}
	return out
}

// validatePortOwnership only applies to nodes that keep a port list at all
func validatePortOwnership(s *Store) []string {
	var out []string
	for _, id := range s.PortIDs() {
		p := s.ports[id]
		node, ok := s.nodes[p.NodeID]
		if !ok || node.Ports == nil {
			continue
		}
		if !node.HasPort(id) {
			out = append(out, fmt.Sprintf(
				"Port %s claims nodeId=%s, but node does not reference this port.", id, p.NodeID))
		}
	}
	return out
}

func validateSelfLoops(s *Store) []string {
	var out []string
	for _, id := range s.EdgeIDs() {
		e := s.edges[id]
		if e.SourcePortID == e.TargetPortID {
			out = append(out, fmt.Sprintf("Edge %s connects port %s to itself.", id, e.SourcePortID))
		}
	}
	return out
}
