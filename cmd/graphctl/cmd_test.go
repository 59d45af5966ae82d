package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/imprakashraghu/way-engine/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("WAY_ENVIRONMENT", "test")
	t.Setenv("WAY_CONFIG_FILE", "")

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		inspectNode = ""
		applyOutput = ""
		enableMetrics = false
		storePath = ""
		storeOutput = ""
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	good := writeTemp(t, "good.json", fixtureGraph)
	out, err := execute(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "ok")

	bad := writeTemp(t, "bad.yaml", `
nodes: {n1: {id: n1, position: {x: 0, y: 0}}}
ports: {p1: {id: p1, nodeId: ghost, type: input}}
edges: {}
`)
	out, err = execute(t, "validate", bad)
	require.Error(t, err)
	assert.Contains(t, out, "Port p1 refers to missing nodeId=ghost.")
}

func TestInspectCommand(t *testing.T) {
	path := writeTemp(t, "graph.json", fixtureGraph)

	out, err := execute(t, "inspect", path)
	require.NoError(t, err)
	assert.Contains(t, out, "nodes: 2")
	assert.Contains(t, out, "edges: 1")

	out, err = execute(t, "inspect", path, "--node", "n1")
	require.NoError(t, err)
	assert.Contains(t, out, "e1: p1 -> p3")
	assert.Contains(t, out, "connected: n2")

	_, err = execute(t, "inspect", path, "--node", "nope")
	assert.Error(t, err)
}

func TestApplyCommand(t *testing.T) {
	graphPath := writeTemp(t, "graph.json", fixtureGraph)
	scriptPath := writeTemp(t, "edits.yaml", fixtureScript)
	outPath := filepath.Join(t.TempDir(), "result.yaml")

	_, err := execute(t, "apply", graphPath, scriptPath, "-o", outPath, "--metrics")
	require.NoError(t, err)

	g, err := persistence.ReadFile(outPath)
	require.NoError(t, err)
	assert.True(t, g.HasNode("n3"))
	e1, ok := g.Edge("e1")
	require.True(t, ok)
	assert.Equal(t, "p4", e1.TargetPortID)
}

func TestApplyCommand_RejectsInvalidGraph(t *testing.T) {
	graphPath := writeTemp(t, "graph.json", `{"nodes": {}, "ports": {}, "edges": {"e1": {"id": "e1", "sourcePortId": "a", "targetPortId": "b"}}}`)
	scriptPath := writeTemp(t, "edits.yaml", fixtureScript)

	_, err := execute(t, "apply", graphPath, scriptPath)
	assert.Error(t, err)
}

func TestStoreCommands(t *testing.T) {
	graphPath := writeTemp(t, "graph.json", fixtureGraph)
	db := filepath.Join(t.TempDir(), "db")

	out, err := execute(t, "store", "save", "demo", graphPath, "--store", db)
	require.NoError(t, err)
	assert.Contains(t, out, "saved demo (2 nodes, 1 edges)")

	out, err = execute(t, "store", "list", "--store", db)
	require.NoError(t, err)
	assert.Contains(t, out, "demo")

	exported := filepath.Join(t.TempDir(), "demo.yaml")
	_, err = execute(t, "store", "load", "demo", "--store", db, "-o", exported)
	require.NoError(t, err)
	g, err := persistence.ReadFile(exported)
	require.NoError(t, err)
	assert.True(t, g.HasEdge("e1"))

	_, err = execute(t, "store", "delete", "demo", "--store", db)
	require.NoError(t, err)
	_, err = execute(t, "store", "load", "demo", "--store", db)
	assert.Error(t, err)
}
