package commands

import (
	"fmt"
	"testing"

	"github.com/imprakashraghu/way-engine/domain/core/entities"
	"github.com/imprakashraghu/way-engine/domain/core/graph"
	pkgerrors "github.com/imprakashraghu/way-engine/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs(prefix string) IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func TestBatch_UndoReturnsStartGraph(t *testing.T) {
	ed := newEditor()
	g0 := graph.New()

	batch := NewBatch("build",
		NewAddNode(ed, entities.Node{ID: "n1"}),
		NewAddPort(ed, entities.Port{ID: "p1", NodeID: "n1", Kind: entities.PortOutput}),
		NewAddPort(ed, entities.Port{ID: "p2", NodeID: "n1", Kind: entities.PortInput}),
	)
	g3, err := batch.Execute(g0)
	require.NoError(t, err)
	assert.Equal(t, 2, g3.PortCount())

	snap, ok := batch.Snapshot(0)
	require.True(t, ok)
	assert.Same(t, g0, snap)
	_, ok = batch.Snapshot(3)
	assert.False(t, ok)

	undone, err := batch.Undo(g3)
	require.NoError(t, err)
	assert.Same(t, g0, undone)
}

func TestBatch_UndoOnOtherGraphIsStale(t *testing.T) {
	ed := newEditor()
	batch := NewBatch("", NewAddNode(ed, entities.Node{ID: "n1"}))
	assert.Equal(t, "Batch Command", batch.Label())

	g1, err := batch.Execute(graph.New())
	require.NoError(t, err)

	g2, err := ed.AddNode(g1, entities.Node{ID: "n2"})
	require.NoError(t, err)

	_, err = batch.Undo(g2)
	assert.ErrorIs(t, err, ErrStaleBatch)
}

func TestBatch_FailureAborts(t *testing.T) {
	ed := newEditor()
	g := seedGraph(t)

	batch := NewBatch("bad",
		NewAddNode(ed, entities.Node{ID: "n9"}),
		NewAddEdge(ed, entities.Edge{ID: "e9", SourcePortID: "p1", TargetPortID: "p1"}),
	)
	next, err := batch.Execute(g)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsSelfLoop(err))
	assert.Nil(t, next)
	assert.False(t, g.HasNode("n9"))

	_, err = batch.Undo(g)
	assert.ErrorIs(t, err, ErrNotExecuted)
}

func TestBatch_EmptyIsIdentity(t *testing.T) {
	g := graph.New()
	batch := NewBatch("noop")

	next, err := batch.Execute(g)
	require.NoError(t, err)
	assert.Same(t, g, next)

	undone, err := batch.Undo(next)
	require.NoError(t, err)
	assert.Same(t, g, undone)
}

func TestDuplicateNode(t *testing.T) {
	ed := newEditor()
	g0 := graph.New()
	g, err := NewBatch("setup",
		NewAddNode(ed, entities.Node{ID: "n1", Position: entities.Position{X: 10, Y: 20}, Type: "gate", Data: map[string]any{"label": "A"}}),
		NewAddPort(ed, entities.Port{ID: "p1", NodeID: "n1", Kind: entities.PortOutput}),
		NewAddPort(ed, entities.Port{ID: "p2", NodeID: "n1", Kind: entities.PortInput}),
		NewAddEdge(ed, entities.Edge{ID: "e1", SourcePortID: "p1", TargetPortID: "p2"}),
	).Execute(g0)
	require.NoError(t, err)

	dup := NewDuplicateNode(ed, "n1", WithIDGenerator(sequentialIDs("c")))
	assert.Equal(t, "Duplicate Node", dup.Label())

	out, err := dup.Execute(g)
	require.NoError(t, err)

	assert.Equal(t, 2, out.NodeCount())
	assert.Equal(t, 4, out.PortCount())
	assert.Equal(t, 2, out.EdgeCount())

	copyNode, ok := out.Node("c1")
	require.True(t, ok)
	assert.Equal(t, entities.Position{X: 50, Y: 60}, copyNode.Position)
	assert.Equal(t, "gate", copyNode.Type)
	assert.Equal(t, map[string]any{"label": "A"}, copyNode.Data)
	assert.Equal(t, []string{"c2", "c3"}, copyNode.Ports)

	assert.Equal(t, map[string]string{"n1": "c1", "p1": "c2", "p2": "c3"}, dup.Mapping())

	for _, id := range []string{"c2", "c3"} {
		p, ok := out.Port(id)
		require.True(t, ok)
		assert.Equal(t, "c1", p.NodeID)
	}
	e, ok := out.Edge("c4")
	require.True(t, ok)
	assert.Equal(t, "c2", e.SourcePortID)
	assert.Equal(t, "c3", e.TargetPortID)

	// originals untouched
	n1, _ := out.Node("n1")
	assert.Equal(t, entities.Position{X: 10, Y: 20}, n1.Position)
	assert.Equal(t, []string{"p1", "p2"}, n1.Ports)
	orig, _ := out.Edge("e1")
	assert.Equal(t, "p1", orig.SourcePortID)
	assert.Empty(t, graph.Validate(out))

	undone, err := dup.Undo(out)
	require.NoError(t, err)
	assert.Same(t, g, undone)
}

func TestDuplicateNode_SkipsExternalEdges(t *testing.T) {
	ed := newEditor()
	g := seedGraph(t)

	dup := NewDuplicateNode(ed, "n1", WithIDGenerator(sequentialIDs("d")), WithOffset(0, 100))
	out, err := dup.Execute(g)
	require.NoError(t, err)

	// e1 is internal to n1 and gets copied; e2 leaves n1 and does not
	assert.Equal(t, g.EdgeCount()+1, out.EdgeCount())
	copyNode, _ := out.Node("d1")
	assert.Equal(t, entities.Position{X: 0, Y: 100}, copyNode.Position)
}

func TestDuplicateNode_MissingNode(t *testing.T) {
	dup := NewDuplicateNode(newEditor(), "ghost")
	_, err := dup.Execute(graph.New())
	assert.True(t, pkgerrors.IsNotFound(err))

	_, err = dup.Undo(graph.New())
	assert.ErrorIs(t, err, ErrNotExecuted)
}

func TestDuplicateNode_FailureKeepsPreviousMapping(t *testing.T) {
	ed := newEditor()
	g := seedGraph(t)

	ids := []string{"a1", "a2", "a3", "a4", "b1", "p3", "b3"}
	next := 0
	dup := NewDuplicateNode(ed, "n1", WithIDGenerator(func() string {
		id := ids[next]
		next++
		return id
	}))

	out, err := dup.Execute(g)
	require.NoError(t, err)
	first := dup.Mapping()
	assert.Equal(t, "a1", first["n1"])

	// the second run collides with the existing port p3 and adds nothing
	_, err = dup.Execute(out)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsDuplicateID(err))
	assert.Equal(t, first, dup.Mapping())

	undone, err := dup.Undo(out)
	require.NoError(t, err)
	assert.Same(t, g, undone)
}

func TestDuplicateNode_MappingEmptyAfterFirstFailure(t *testing.T) {
	dup := NewDuplicateNode(newEditor(), "n1", WithIDGenerator(func() string { return "p1" }))
	_, err := dup.Execute(seedGraph(t))
	require.Error(t, err)
	assert.Empty(t, dup.Mapping())
}

func TestDeleteSelection(t *testing.T) {
	ed := newEditor()
	g := seedGraph(t)

	del := NewDeleteSelection(ed, []string{"n1", "n2"})
	out, err := del.Execute(g)
	require.NoError(t, err)
	assert.Zero(t, out.NodeCount())
	assert.Zero(t, out.PortCount())
	assert.Zero(t, out.EdgeCount())

	undone, err := del.Undo(out)
	require.NoError(t, err)
	assert.Same(t, g, undone)
}

func TestDeleteSelection_MissingNodeFails(t *testing.T) {
	del := NewDeleteSelection(newEditor(), []string{"n1", "ghost"})
	_, err := del.Execute(seedGraph(t))
	assert.True(t, pkgerrors.IsNotFound(err))
}
