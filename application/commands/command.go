// Package commands packages graph mutations as undoable commands and runs
// them through the Manager.
//
// A leaf command wraps exactly one call on a Mutator and captures whatever
// it needs during Execute to reverse that call. Batch runs a fixed list of
// commands as one step; a Macro decides its list from the graph it is
// executed against.
package commands

import (
	"github.com/imprakashraghu/way-engine/domain/core/entities"
	"github.com/imprakashraghu/way-engine/domain/core/graph"
	pkgerrors "github.com/imprakashraghu/way-engine/pkg/errors"
)

// Command is an undoable graph transformation
type Command interface {
	// Execute applies the command to g and returns the new graph
	Execute(g *graph.Store) (*graph.Store, error)
	// Undo reverses the last Execute, starting from g
	Undo(g *graph.Store) (*graph.Store, error)
	// Label names the command for logs, metrics and UIs
	Label() string
}

// Mutator is the mutation surface commands call into. *graph.Editor
// satisfies it.
type Mutator interface {
	AddNode(g *graph.Store, node entities.Node) (*graph.Store, error)
	UpdateNode(g *graph.Store, id string, patch entities.NodePatch) (*graph.Store, error)
	RemoveNode(g *graph.Store, id string) (*graph.Store, error)

	AddPort(g *graph.Store, port entities.Port) (*graph.Store, error)
	UpdatePort(g *graph.Store, id string, patch entities.PortPatch) (*graph.Store, error)
	RemovePort(g *graph.Store, id string) (*graph.Store, error)

	AddEdge(g *graph.Store, edge entities.Edge) (*graph.Store, error)
	UpdateEdge(g *graph.Store, id string, patch entities.EdgePatch) (*graph.Store, error)
	RemoveEdge(g *graph.Store, id string) (*graph.Store, error)
	RewireEdge(g *graph.Store, id string, patch entities.RewirePatch) (*graph.Store, error)
}

var _ Mutator = (*graph.Editor)(nil)

// Errors
var (
	ErrNotExecuted = pkgerrors.NewInvalidStateError("command has not been executed")
	ErrStaleBatch  = pkgerrors.NewInvalidStateError("batch can only be undone on the graph its execute returned")
)

type step func(*graph.Store) (*graph.Store, error)

// runSteps applies steps in order and stops at the first error
func runSteps(g *graph.Store, steps ...step) (*graph.Store, error) {
	var err error
	for _, s := range steps {
		if g, err = s(g); err != nil {
			return nil, err
		}
	}
	return g, nil
}
