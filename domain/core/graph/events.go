package graph

import (
	"time"

	"github.com/imprakashraghu/way-engine/pkg/eventbus"
	"go.uber.org/zap"
)

// EventType identifies what a mutation did
type EventType string

const (
	EventNodeAdded   EventType = "node:added"
	EventNodeUpdated EventType = "node:updated"
	EventNodeRemoved EventType = "node:removed"

	EventPortAdded   EventType = "port:added"
	EventPortUpdated EventType = "port:updated"
	EventPortRemoved EventType = "port:removed"

	EventEdgeAdded   EventType = "edge:added"
	EventEdgeUpdated EventType = "edge:updated"
	EventEdgeRemoved EventType = "edge:removed"

	// EventGraphChanged follows every specific event, once per API call
	EventGraphChanged EventType = "graph:changed"
)

// Event describes one successful mutation. Graph is the snapshot produced
// by that mutation, so subscribers always observe the post-mutation state.
type Event struct {
	Type      EventType `json:"type"`
	NodeID    string    `json:"node_id,omitempty"`
	PortID    string    `json:"port_id,omitempty"`
	EdgeID    string    `json:"edge_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	// Ports and edges removed by cascade, in sorted order
	RemovedPortIDs []string `json:"removed_port_ids,omitempty"`
	RemovedEdgeIDs []string `json:"removed_edge_ids,omitempty"`

	Graph *Store `json:"-"`
}

// GetEventType returns the event type
func (e Event) GetEventType() string { return string(e.Type) }

// GetTimestamp returns when the mutation happened
func (e Event) GetTimestamp() time.Time { return e.Timestamp }

// IsChange reports whether this is the generic graph-changed signal
func (e Event) IsChange() bool { return e.Type == EventGraphChanged }

// Bus is the event bus carrying graph events
type Bus = eventbus.Bus[Event]

// NewBus creates an event bus for graph events
func NewBus(logger *zap.Logger) *Bus {
	return eventbus.New[Event](logger)
}
