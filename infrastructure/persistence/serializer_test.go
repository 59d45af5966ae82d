package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/imprakashraghu/way-engine/domain/core/entities"
	"github.com/imprakashraghu/way-engine/domain/core/graph"
	pkgerrors "github.com/imprakashraghu/way-engine/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGraph(t *testing.T) *graph.Store {
	t.Helper()
	g := graph.New(graph.WithMetadata(map[string]any{"name": "flow"}))
	var err error
	g, err = graph.AddNode(g, entities.Node{ID: "n1", Position: entities.Position{X: 1.5, Y: 2}, Type: "gate"})
	require.NoError(t, err)
	g, err = graph.AddPort(g, entities.Port{ID: "p1", NodeID: "n1", Kind: entities.PortOutput})
	require.NoError(t, err)
	g, err = graph.AddPort(g, entities.Port{ID: "p2", NodeID: "n1", Kind: entities.PortInput, Position: &entities.Position{X: 4}})
	require.NoError(t, err)
	g, err = graph.AddEdge(g, entities.Edge{ID: "e1", SourcePortID: "p1", TargetPortID: "p2", Data: map[string]any{"weight": 0.5}})
	require.NoError(t, err)
	return g
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			g := sampleGraph(t)

			data, err := Marshal(g, format)
			require.NoError(t, err)

			back, err := Unmarshal(data, format)
			require.NoError(t, err)
			assert.Equal(t, g.Nodes(), back.Nodes())
			assert.Equal(t, g.Ports(), back.Ports())
			assert.Equal(t, g.Edges(), back.Edges())
			assert.Equal(t, g.Metadata(), back.Metadata())
			assert.Equal(t, graph.DefaultVersion, back.Version())
		})
	}
}

func TestUnmarshal_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		data    string
		wantMsg string
	}{
		{name: "not json", format: FormatJSON, data: "{", wantMsg: "invalid json document"},
		{name: "missing edges", format: FormatJSON, data: `{"nodes":{},"ports":{}}`, wantMsg: "missing required fields: edges"},
		{name: "null nodes", format: FormatJSON, data: `{"nodes":null,"ports":{},"edges":{}}`, wantMsg: "nodes"},
		{name: "yaml missing all", format: FormatYAML, data: "version: 2.0.0\n", wantMsg: "nodes, ports, edges"},
		{name: "port without node", format: FormatJSON, data: `{"nodes":{},"ports":{"p1":{"id":"p1","type":"input"}},"edges":{}}`, wantMsg: "port p1"},
		{name: "bad port kind", format: FormatYAML, data: "nodes: {}\nports:\n  p1: {id: p1, nodeId: n1, type: up}\nedges: {}\n", wantMsg: "type must be one of"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Unmarshal([]byte(tt.data), tt.format)
			require.Error(t, err)
			assert.Nil(t, g)
			assert.True(t, pkgerrors.IsMalformedInput(err), err.Error())
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestUnmarshal_DefaultsAndUncheckedReferences(t *testing.T) {
	data := `{"nodes":{},"ports":{"p1":{"id":"p1","nodeId":"ghost","type":"input"}},"edges":{},"version":"3.1.0"}`

	g, err := Unmarshal([]byte(data), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "3.1.0", g.Version())
	assert.Empty(t, g.Metadata())
	assert.True(t, g.HasPort("p1"))
}

func TestSafeUnmarshal(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		data, err := Marshal(sampleGraph(t), FormatJSON)
		require.NoError(t, err)

		g, violations := SafeUnmarshal(data, FormatJSON)
		require.NotNil(t, g)
		assert.Empty(t, violations)
	})

	t.Run("broken invariants", func(t *testing.T) {
		data := `
nodes:
  n1: {id: n1, position: {x: 0, y: 0}}
ports:
  p1: {id: p1, nodeId: n1, type: output}
  p2: {id: p2, nodeId: n9, type: input}
edges:
  e1: {id: e1, sourcePortId: p1, targetPortId: p7}
`
		g, violations := SafeUnmarshal([]byte(data), FormatYAML)
		assert.Nil(t, g)
		assert.Equal(t, []string{
			"Port p2 refers to missing nodeId=n9.",
			"Edge e1 refers to missing targetPortId=p7.",
		}, violations)
	})

	t.Run("parse failure", func(t *testing.T) {
		g, violations := SafeUnmarshal([]byte("[]"), FormatJSON)
		assert.Nil(t, g)
		require.Len(t, violations, 1)
		assert.Contains(t, violations[0], "MALFORMED_INPUT")
	})
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	g := sampleGraph(t)

	for _, name := range []string{"graph.json", "graph.yaml", "graph.yml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, WriteFile(path, g))

		back, err := ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, g.Edges(), back.Edges())

		safe, violations := SafeReadFile(path)
		assert.NotNil(t, safe)
		assert.Empty(t, violations)
	}

	err := WriteFile(filepath.Join(dir, "graph.txt"), g)
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = ReadFile(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, violations := SafeReadFile(filepath.Join(dir, "missing.json"))
	assert.Len(t, violations, 1)
}
