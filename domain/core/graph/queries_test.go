package graph

import (
	"testing"

	"github.com/imprakashraghu/way-engine/domain/core/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, id(it))
	}
	return out
}

func portID(p entities.Port) string { return p.ID }
func edgeID(e entities.Edge) string { return e.ID }
func nodeID(n entities.Node) string { return n.ID }

func TestQueries(t *testing.T) {
	g := buildGraph(t)

	assert.Equal(t, []string{"p1", "p2"}, ids(g.PortsOfNode("n1"), portID))
	assert.Empty(t, g.PortsOfNode("missing"))

	assert.Equal(t, []string{"e1", "e2"}, ids(g.EdgesOfPort("p1"), edgeID))
	assert.Equal(t, []string{"e2"}, ids(g.EdgesOfPort("p3"), edgeID))

	assert.Equal(t, []string{"e1", "e2"}, ids(g.EdgesOfNode("n1"), edgeID))
	assert.Equal(t, []string{"e2"}, ids(g.EdgesOfNode("n2"), edgeID))

	// e1 is internal to n1, so only n2 is a neighbour
	assert.Equal(t, []string{"n2"}, ids(g.ConnectedNodes("n1"), nodeID))
	assert.Equal(t, []string{"n1"}, ids(g.ConnectedNodes("n2"), nodeID))
}

func TestEdgeEndpointNodes(t *testing.T) {
	g := buildGraph(t)

	src, ok := g.SourceNodeID("e2")
	require.True(t, ok)
	assert.Equal(t, "n1", src)

	dst, ok := g.TargetNodeID("e2")
	require.True(t, ok)
	assert.Equal(t, "n2", dst)

	_, ok = g.SourceNodeID("missing")
	assert.False(t, ok)
}

func TestStoreAccessors(t *testing.T) {
	g := New(WithMetadata(map[string]any{"name": "flow"}), WithVersion("2.0.0"))
	assert.Equal(t, "2.0.0", g.Version())
	assert.Equal(t, "flow", g.Metadata()["name"])

	g.Metadata()["name"] = "changed"
	assert.Equal(t, "flow", g.Metadata()["name"])

	assert.Equal(t, DefaultVersion, New().Version())
	assert.Equal(t, DefaultVersion, New(WithVersion("")).Version())
}
