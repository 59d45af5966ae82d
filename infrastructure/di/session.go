package di

import (
	"github.com/imprakashraghu/way-engine/application/commands"
	"github.com/imprakashraghu/way-engine/application/history"
	"github.com/imprakashraghu/way-engine/domain/core/graph"
	"github.com/imprakashraghu/way-engine/infrastructure/config"
	"github.com/imprakashraghu/way-engine/pkg/observability"
	"go.uber.org/zap"
)

// Session holds everything one editing session needs. Sessions share
// nothing: each has its own bus, history and manager.
type Session struct {
	Config  *config.Config
	Logger  *zap.Logger
	Bus     *graph.Bus
	Editor  *graph.Editor
	History *history.Manager
	Manager *commands.Manager
	Metrics *observability.Collector
}

// DuplicateNode builds a duplicate macro using the configured offset
func (s *Session) DuplicateNode(nodeID string, opts ...commands.DuplicateOption) *commands.DuplicateNode {
	base := []commands.DuplicateOption{
		commands.WithOffset(s.Config.DuplicateOffsetX, s.Config.DuplicateOffsetY),
	}
	return commands.NewDuplicateNode(s.Editor, nodeID, append(base, opts...)...)
}

// Close detaches history from the bus and flushes the logger
func (s *Session) Close() {
	s.History.Close()
	_ = s.Logger.Sync()
}
