// Package history keeps bounded undo/redo stacks of graph snapshots.
//
// A Manager subscribes to EventGraphChanged on the session bus and records
// the snapshot each event carries, so mutations issued through an Editor
// are captured without the caller talking to history. Recording is
// suppressed while the manager moves between its own snapshots and inside
// Suspend.
package history

import (
	"time"

	"github.com/imprakashraghu/way-engine/domain/core/graph"
	"go.uber.org/zap"
)

// DefaultMaxHistory is the undo depth used when none is configured
const DefaultMaxHistory = 200

// Snapshot is one entry of the undo or redo stack
type Snapshot struct {
	Graph     *graph.Store
	Timestamp time.Time
}

// Manager holds past, present and future. It is not safe for concurrent
// use; a host sharing a session across goroutines must serialize access.
type Manager struct {
	past    []Snapshot
	present *graph.Store
	future  []Snapshot

	maxHistory int
	changing   bool

	unsubscribe func()
	logger      *zap.Logger
	now         func() time.Time
}

// Option configures a Manager
type Option func(*Manager)

// WithMaxHistory bounds the undo stack; values below 1 are ignored
func WithMaxHistory(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxHistory = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock overrides the snapshot timestamp source
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// New creates a manager whose present is initial (which may be nil) and,
// when bus is not nil, subscribes it to graph-changed events.
func New(bus *graph.Bus, initial *graph.Store, opts ...Option) *Manager {
	m := &Manager{
		present:    initial,
		maxHistory: DefaultMaxHistory,
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	if bus != nil {
		m.unsubscribe = bus.Subscribe(m.onEvent)
	}
	return m
}

func (m *Manager) onEvent(ev graph.Event) {
	if !ev.IsChange() || m.changing || ev.Graph == nil {
		return
	}
	m.Record(ev.Graph)
}

// Record makes g the present. The previous present goes onto the undo
// stack and the redo stack is cleared. Recording the current present again
// does nothing.
func (m *Manager) Record(g *graph.Store) {
	if g == nil || g == m.present {
		return
	}

	m.future = nil
	if m.present != nil {
		m.pushPast(m.present)
	}
	m.present = g

	m.logger.Debug("history recorded",
		zap.Int("past", len(m.past)),
		zap.Int("nodes", g.NodeCount()),
		zap.Int("edges", g.EdgeCount()))
}

func (m *Manager) pushPast(g *graph.Store) {
	m.past = append(m.past, Snapshot{Graph: g, Timestamp: m.now()})
	if over := len(m.past) - m.maxHistory; over > 0 {
		clear(m.past[:over])
		m.past = m.past[over:]
	}
}

// Undo steps back one snapshot and returns it. It returns false, and
// changes nothing, when there is nothing to undo.
func (m *Manager) Undo() (*graph.Store, bool) {
	if len(m.past) == 0 {
		return nil, false
	}

	m.changing = true
	defer func() { m.changing = false }()

	last := len(m.past) - 1
	snapshot := m.past[last]
	m.past = m.past[:last]

	if m.present != nil {
		m.future = append(m.future, Snapshot{Graph: m.present, Timestamp: m.now()})
	}
	m.present = snapshot.Graph

	m.logger.Debug("history undo", zap.Int("past", len(m.past)), zap.Int("future", len(m.future)))
	return m.present, true
}

// Redo re-applies the most recently undone snapshot
func (m *Manager) Redo() (*graph.Store, bool) {
	if len(m.future) == 0 {
		return nil, false
	}

	m.changing = true
	defer func() { m.changing = false }()

	last := len(m.future) - 1
	snapshot := m.future[last]
	m.future = m.future[:last]

	if m.present != nil {
		m.pushPast(m.present)
	}
	m.present = snapshot.Graph

	m.logger.Debug("history redo", zap.Int("past", len(m.past)), zap.Int("future", len(m.future)))
	return m.present, true
}

// Suspend runs fn with auto-recording turned off. Snapshots announced on
// the bus during fn are ignored; the caller records the outcome itself.
func (m *Manager) Suspend(fn func() error) error {
	if m.changing {
		return fn()
	}
	m.changing = true
	defer func() { m.changing = false }()
	return fn()
}

// Present returns the current snapshot, nil before anything was recorded
func (m *Manager) Present() *graph.Store {
	return m.present
}

// CanUndo reports whether Undo would succeed
func (m *Manager) CanUndo() bool { return len(m.past) > 0 }

// CanRedo reports whether Redo would succeed
func (m *Manager) CanRedo() bool { return len(m.future) > 0 }

// Depth returns the sizes of the undo and redo stacks
func (m *Manager) Depth() (past, future int) {
	return len(m.past), len(m.future)
}

// Past returns a copy of the undo stack, oldest first
func (m *Manager) Past() []Snapshot {
	return append([]Snapshot(nil), m.past...)
}

// Clear drops both stacks and keeps the present
func (m *Manager) Clear() {
	m.past = nil
	m.future = nil
}

// Close detaches the manager from the bus
func (m *Manager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}
