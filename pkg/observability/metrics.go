package observability

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Collector holds the Prometheus metrics of an editing session. Each
// collector owns its registry so several sessions (and tests) never
// collide on registration.
type Collector struct {
	registry *prometheus.Registry

	// Command metrics
	Commands        *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec

	// History metrics
	Undos        *prometheus.CounterVec
	Redos        *prometheus.CounterVec
	HistoryDepth prometheus.Gauge

	// Graph size after the last adopted change
	GraphNodes prometheus.Gauge
	GraphEdges prometheus.Gauge
}

// NewCollector creates a collector with its own registry
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		Commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commands_total",
				Help:      "Total number of executed commands",
			},
			[]string{"command", "status"},
		),
		CommandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "command_duration_seconds",
				Help:      "Command execution duration in seconds",
				Buckets:   []float64{.00001, .0001, .001, .01, .1, 1},
			},
			[]string{"command"},
		),
		Undos: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "undo_total",
				Help:      "Total number of undo requests",
			},
			[]string{"result"},
		),
		Redos: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "redo_total",
				Help:      "Total number of redo requests",
			},
			[]string{"result"},
		),
		HistoryDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "history_depth",
				Help:      "Number of snapshots on the undo stack",
			},
		),
		GraphNodes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "graph_nodes",
				Help:      "Number of nodes in the current graph",
			},
		),
		GraphEdges: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "graph_edges",
				Help:      "Number of edges in the current graph",
			},
		),
	}

	registry.MustRegister(
		c.Commands,
		c.CommandDuration,
		c.Undos,
		c.Redos,
		c.HistoryDepth,
		c.GraphNodes,
		c.GraphEdges,
	)
	return c
}

// ObserveCommand records one command execution
func (c *Collector) ObserveCommand(label string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.Commands.WithLabelValues(label, status).Inc()
	c.CommandDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// ObserveUndo records an undo request and whether anything was undone
func (c *Collector) ObserveUndo(applied bool) {
	c.Undos.WithLabelValues(resultLabel(applied)).Inc()
}

// ObserveRedo records a redo request and whether anything was redone
func (c *Collector) ObserveRedo(applied bool) {
	c.Redos.WithLabelValues(resultLabel(applied)).Inc()
}

// SetGraphSize updates the graph size gauges
func (c *Collector) SetGraphSize(nodes, edges int) {
	c.GraphNodes.Set(float64(nodes))
	c.GraphEdges.Set(float64(edges))
}

// SetHistoryDepth updates the undo stack gauge
func (c *Collector) SetHistoryDepth(depth int) {
	c.HistoryDepth.Set(float64(depth))
}

// GetRegistry returns the Prometheus registry
func (c *Collector) GetRegistry() *prometheus.Registry {
	return c.registry
}

// WriteText writes every metric in the Prometheus text exposition format
func (c *Collector) WriteText(w io.Writer) error {
	families, err := c.registry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

func resultLabel(applied bool) string {
	if applied {
		return "applied"
	}
	return "empty"
}
