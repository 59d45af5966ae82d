package di

import (
	"github.com/imprakashraghu/way-engine/application/commands"
	"github.com/imprakashraghu/way-engine/application/history"
	"github.com/imprakashraghu/way-engine/domain/core/graph"
	"github.com/imprakashraghu/way-engine/infrastructure/config"
	"github.com/imprakashraghu/way-engine/pkg/observability"
	"go.uber.org/zap"
)

// ProvideLogger creates a logger for the configured environment and level
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config

	switch cfg.Environment {
	case "test":
		return zap.NewNop(), nil
	case "production":
		zapCfg = zap.NewProductionConfig()
	default:
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(cfg.Level())

	return zapCfg.Build()
}

// ProvideEventBus creates the session event bus
func ProvideEventBus(logger *zap.Logger) *graph.Bus {
	return graph.NewBus(logger.Named("bus"))
}

// ProvideEditor creates the event-emitting graph editor
func ProvideEditor(bus *graph.Bus, logger *zap.Logger) *graph.Editor {
	return graph.NewEditor(bus, logger.Named("editor"))
}

// ProvideHistory creates the history manager subscribed to bus
func ProvideHistory(bus *graph.Bus, initial *graph.Store, cfg *config.Config, logger *zap.Logger) *history.Manager {
	return history.New(bus, initial,
		history.WithMaxHistory(cfg.MaxHistory),
		history.WithLogger(logger.Named("history")),
	)
}

// ProvideMetrics creates the metrics collector, or nil when metrics are off
func ProvideMetrics(cfg *config.Config) *observability.Collector {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewCollector(cfg.MetricsNamespace)
}

// ProvideMiddleware assembles the command pipeline from the feature flags
func ProvideMiddleware(cfg *config.Config, logger *zap.Logger, metrics *observability.Collector) []commands.Middleware {
	middlewares := []commands.Middleware{
		commands.LoggingMiddleware(logger.Named("commands")),
	}
	if metrics != nil {
		middlewares = append(middlewares, commands.MetricsMiddleware(metrics))
	}
	if cfg.EnableTracing {
		middlewares = append(middlewares, commands.TracingMiddleware(observability.Tracer()))
	}
	return middlewares
}

// ProvideCommandManager creates the command manager
func ProvideCommandManager(
	initial *graph.Store,
	h *history.Manager,
	logger *zap.Logger,
	metrics *observability.Collector,
	middlewares []commands.Middleware,
) *commands.Manager {
	return commands.NewManager(initial, h,
		commands.WithManagerLogger(logger.Named("manager")),
		commands.WithMetrics(metrics),
		commands.WithMiddleware(middlewares...),
	)
}
