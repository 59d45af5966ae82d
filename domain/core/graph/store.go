// Package graph holds the immutable graph snapshot and the mutation API
// that moves from one snapshot to the next.
//
// A *Store is never modified after construction. Every mutation function
// takes a store and returns a new one, copying only the maps it touches, so
// older references (held by history or by a command) stay valid forever.
// Failed mutations return an error and no store; the caller's reference is
// untouched.
//
// Referential integrity rules enforced by every mutation:
//   - every port's NodeID resolves to an existing node
//   - every edge's SourcePortID and TargetPortID resolve to existing ports
//   - an edge's source and target are different ports
//   - removing a node removes its ports and all edges touching them
//   - removing a port removes all edges touching it
//   - ids, and a port's NodeID, never change
package graph

import (
	"maps"
	"slices"

	"github.com/imprakashraghu/way-engine/domain/core/entities"
)

// DefaultVersion is the version tag of a graph created without one
const DefaultVersion = "1.0.0"

// Store is an immutable snapshot of nodes, ports, edges and metadata
type Store struct {
	nodes    map[string]entities.Node
	ports    map[string]entities.Port
	edges    map[string]entities.Edge
	metadata map[string]any
	version  string
}

// Option configures a new Store
type Option func(*Store)

// WithMetadata sets the graph-level metadata
func WithMetadata(metadata map[string]any) Option {
	return func(s *Store) {
		s.metadata = entities.CloneData(metadata)
	}
}

// WithVersion sets the version tag
func WithVersion(version string) Option {
	return func(s *Store) {
		if version != "" {
			s.version = version
		}
	}
}

// New creates an empty graph
func New(opts ...Option) *Store {
	s := &Store{
		nodes:    make(map[string]entities.Node),
		ports:    make(map[string]entities.Port),
		edges:    make(map[string]entities.Edge),
		metadata: make(map[string]any),
		version:  DefaultVersion,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metadata == nil {
		s.metadata = make(map[string]any)
	}
	return s
}

// FromMaps builds a store from raw entity maps without checking any
// invariant. It is meant for loaders that validate separately (see
// Validate); the maps are copied.
func FromMaps(
	nodes map[string]entities.Node,
	ports map[string]entities.Port,
	edges map[string]entities.Edge,
	opts ...Option,
) *Store {
	s := New(opts...)
	for id, n := range nodes {
		s.nodes[id] = n.Clone()
	}
	for id, p := range ports {
		s.ports[id] = p.Clone()
	}
	for id, e := range edges {
		s.edges[id] = e.Clone()
	}
	return s
}

// clone copies the struct so one of its maps can be replaced; the maps
// themselves are still shared until a mutation clones the one it changes.
func (s *Store) clone() *Store {
	c := *s
	return &c
}

// Version returns the version tag
func (s *Store) Version() string {
	return s.version
}

// Metadata returns a copy of the graph-level metadata
func (s *Store) Metadata() map[string]any {
	return entities.CloneData(s.metadata)
}

// Node looks up a node by id. The result is a copy the caller may modify.
func (s *Store) Node(id string) (entities.Node, bool) {
	n, ok := s.nodes[id]
	if !ok {
		return entities.Node{}, false
	}
	return n.Clone(), true
}

// Port looks up a port by id
func (s *Store) Port(id string) (entities.Port, bool) {
	p, ok := s.ports[id]
	if !ok {
		return entities.Port{}, false
	}
	return p.Clone(), true
}

// Edge looks up an edge by id
func (s *Store) Edge(id string) (entities.Edge, bool) {
	e, ok := s.edges[id]
	if !ok {
		return entities.Edge{}, false
	}
	return e.Clone(), true
}

// HasNode reports whether a node exists
func (s *Store) HasNode(id string) bool {
	_, ok := s.nodes[id]
	return ok
}

// HasPort reports whether a port exists
func (s *Store) HasPort(id string) bool {
	_, ok := s.ports[id]
	return ok
}

// HasEdge reports whether an edge exists
func (s *Store) HasEdge(id string) bool {
	_, ok := s.edges[id]
	return ok
}

// NodeCount returns the number of nodes
func (s *Store) NodeCount() int { return len(s.nodes) }

// PortCount returns the number of ports
func (s *Store) PortCount() int { return len(s.ports) }

// EdgeCount returns the number of edges
func (s *Store) EdgeCount() int { return len(s.edges) }

// NodeIDs returns all node ids in sorted order
func (s *Store) NodeIDs() []string {
	return slices.Sorted(maps.Keys(s.nodes))
}

// PortIDs returns all port ids in sorted order
func (s *Store) PortIDs() []string {
	return slices.Sorted(maps.Keys(s.ports))
}

// EdgeIDs returns all edge ids in sorted order
func (s *Store) EdgeIDs() []string {
	return slices.Sorted(maps.Keys(s.edges))
}

// Nodes returns a copy of the id→node mapping; every node is copied too
func (s *Store) Nodes() map[string]entities.Node {
	return cloneEach(s.nodes)
}

// Ports returns a copy of the id→port mapping
func (s *Store) Ports() map[string]entities.Port {
	return cloneEach(s.ports)
}

// Edges returns a copy of the id→edge mapping
func (s *Store) Edges() map[string]entities.Edge {
	return cloneEach(s.edges)
}

func cloneEach[E interface{ Clone() E }](m map[string]E) map[string]E {
	out := make(map[string]E, len(m))
	for id, entity := range m {
		out[id] = entity.Clone()
	}
	return out
}
