//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"
	"github.com/imprakashraghu/way-engine/domain/core/graph"
	"github.com/imprakashraghu/way-engine/infrastructure/config"
)

// SessionSet is the provider set for one editing session
var SessionSet = wire.NewSet(
	ProvideLogger,
	ProvideEventBus,
	ProvideEditor,
	ProvideHistory,
	ProvideMetrics,
	ProvideMiddleware,
	ProvideCommandManager,
	wire.Struct(new(Session), "*"),
)

// InitializeSession creates a fully wired session starting at initial
func InitializeSession(cfg *config.Config, initial *graph.Store) (*Session, error) {
	wire.Build(SessionSet)
	return nil, nil // Wire will replace this
}
