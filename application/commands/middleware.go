package commands

import (
	"context"
	"time"

	"github.com/imprakashraghu/way-engine/domain/core/graph"
	"github.com/imprakashraghu/way-engine/pkg/observability"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Handler runs a command against a graph
type Handler interface {
	Handle(ctx context.Context, cmd Command, g *graph.Store) (*graph.Store, error)
}

// HandlerFunc is an adapter to allow functions to be used as handlers
type HandlerFunc func(ctx context.Context, cmd Command, g *graph.Store) (*graph.Store, error)

// Handle implements Handler
func (f HandlerFunc) Handle(ctx context.Context, cmd Command, g *graph.Store) (*graph.Store, error) {
	return f(ctx, cmd, g)
}

// Middleware defines command middleware
type Middleware func(next Handler) Handler

// Pipeline chains multiple middleware together
type Pipeline struct {
	middlewares []Middleware
}

// NewPipeline creates a new middleware pipeline
func NewPipeline(middlewares ...Middleware) *Pipeline {
	return &Pipeline{middlewares: middlewares}
}

// Use appends middleware to the pipeline
func (p *Pipeline) Use(middlewares ...Middleware) {
	p.middlewares = append(p.middlewares, middlewares...)
}

// Then wraps handler so the first middleware is the outermost
func (p *Pipeline) Then(handler Handler) Handler {
	for i := len(p.middlewares) - 1; i >= 0; i-- {
		handler = p.middlewares[i](handler)
	}
	return handler
}

// executeHandler is the innermost handler: it just runs the command
var executeHandler = HandlerFunc(func(_ context.Context, cmd Command, g *graph.Store) (*graph.Store, error) {
	return cmd.Execute(g)
})

// LoggingMiddleware logs command execution
func LoggingMiddleware(logger *zap.Logger) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, cmd Command, g *graph.Store) (*graph.Store, error) {
			logger.Debug("Executing command", zap.String("command", cmd.Label()))

			result, err := next.Handle(ctx, cmd, g)
			if err != nil {
				logger.Warn("Command failed", zap.String("command", cmd.Label()), zap.Error(err))
				return nil, err
			}

			logger.Info("Command succeeded",
				zap.String("command", cmd.Label()),
				zap.Int("nodes", result.NodeCount()),
				zap.Int("ports", result.PortCount()),
				zap.Int("edges", result.EdgeCount()))
			return result, nil
		})
	}
}

// MetricsMiddleware counts and times command execution
func MetricsMiddleware(collector *observability.Collector) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, cmd Command, g *graph.Store) (*graph.Store, error) {
			start := time.Now()
			result, err := next.Handle(ctx, cmd, g)
			collector.ObserveCommand(cmd.Label(), time.Since(start), err)
			if err == nil {
				collector.SetGraphSize(result.NodeCount(), result.EdgeCount())
			}
			return result, err
		})
	}
}

// TracingMiddleware wraps each command in a span
func TracingMiddleware(tracer trace.Tracer) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, cmd Command, g *graph.Store) (*graph.Store, error) {
			ctx, span := tracer.Start(ctx, "command.execute",
				trace.WithAttributes(
					attribute.String("command.label", cmd.Label()),
					attribute.Int("graph.nodes", g.NodeCount()),
				))
			defer span.End()

			result, err := next.Handle(ctx, cmd, g)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return nil, err
			}
			span.SetAttributes(attribute.Int("graph.nodes.after", result.NodeCount()))
			return result, nil
		})
	}
}
