package commands

import (
	"context"

	"github.com/imprakashraghu/way-engine/application/history"
	"github.com/imprakashraghu/way-engine/domain/core/graph"
	"github.com/imprakashraghu/way-engine/pkg/observability"
	"go.uber.org/zap"
)

// Manager owns the current graph of a session and its history. Commands
// run through the middleware pipeline with history auto-recording
// suspended, so every Execute is exactly one undo step however many
// mutations the command performs. Mutations made directly through the
// Editor are recorded by history; the manager picks them up on the next
// Graph or Execute call, so commands always build on the latest graph.
type Manager struct {
	current *graph.Store
	history *history.Manager

	pipeline *Pipeline
	handler  Handler
	metrics  *observability.Collector
	logger   *zap.Logger
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithMiddleware appends middleware to the execution pipeline
func WithMiddleware(middlewares ...Middleware) ManagerOption {
	return func(m *Manager) {
		m.pipeline.Use(middlewares...)
	}
}

// WithManagerLogger sets the logger
func WithManagerLogger(logger *zap.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithMetrics reports undo/redo and history depth to collector. Command
// metrics come from MetricsMiddleware.
func WithMetrics(collector *observability.Collector) ManagerOption {
	return func(m *Manager) {
		m.metrics = collector
	}
}

// NewManager creates a manager starting at initial (an empty graph when
// nil). The initial graph becomes the history's present if it has none.
func NewManager(initial *graph.Store, h *history.Manager, opts ...ManagerOption) *Manager {
	if initial == nil {
		initial = graph.New()
	}
	m := &Manager{
		current:  initial,
		history:  h,
		pipeline: NewPipeline(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.handler = m.pipeline.Then(executeHandler)

	if h.Present() == nil {
		h.Record(initial)
	}
	return m
}

// Execute runs cmd against the current graph. On success the result
// becomes current and is recorded in history; on failure nothing changes.
func (m *Manager) Execute(ctx context.Context, cmd Command) (*graph.Store, error) {
	m.syncWithHistory()

	var next *graph.Store
	err := m.history.Suspend(func() error {
		var err error
		next, err = m.handler.Handle(ctx, cmd, m.current)
		return err
	})
	if err != nil {
		return nil, err
	}

	m.current = next
	m.history.Record(next)
	m.reportDepth()
	return next, nil
}

// Undo moves back one history step. It returns false, leaving the current
// graph alone, when there is nothing to undo.
func (m *Manager) Undo(ctx context.Context) (*graph.Store, bool) {
	_, span := observability.Tracer().Start(ctx, "history.undo")
	defer span.End()

	g, ok := m.history.Undo()
	if m.metrics != nil {
		m.metrics.ObserveUndo(ok)
	}
	if !ok {
		m.logger.Debug("Nothing to undo")
		return nil, false
	}

	m.adopt(g)
	m.logger.Info("Undo", zap.Int("nodes", g.NodeCount()), zap.Int("edges", g.EdgeCount()))
	return g, true
}

// Redo moves forward one history step
func (m *Manager) Redo(ctx context.Context) (*graph.Store, bool) {
	_, span := observability.Tracer().Start(ctx, "history.redo")
	defer span.End()

	g, ok := m.history.Redo()
	if m.metrics != nil {
		m.metrics.ObserveRedo(ok)
	}
	if !ok {
		m.logger.Debug("Nothing to redo")
		return nil, false
	}

	m.adopt(g)
	m.logger.Info("Redo", zap.Int("nodes", g.NodeCount()), zap.Int("edges", g.EdgeCount()))
	return g, true
}

// Graph returns the current graph, including any edit history recorded
// from outside the manager.
func (m *Manager) Graph() *graph.Store {
	m.syncWithHistory()
	return m.current
}

func (m *Manager) syncWithHistory() {
	if present := m.history.Present(); present != nil && present != m.current {
		m.adopt(present)
	}
}

// History returns the history the manager records into
func (m *Manager) History() *history.Manager {
	return m.history
}

func (m *Manager) adopt(g *graph.Store) {
	m.current = g
	if m.metrics != nil {
		m.metrics.SetGraphSize(g.NodeCount(), g.EdgeCount())
	}
	m.reportDepth()
}

func (m *Manager) reportDepth() {
	if m.metrics == nil {
		return
	}
	past, _ := m.history.Depth()
	m.metrics.SetHistoryDepth(past)
}
