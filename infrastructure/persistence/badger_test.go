package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/imprakashraghu/way-engine/domain/core/entities"
	"github.com/imprakashraghu/way-engine/domain/core/graph"
	pkgerrors "github.com/imprakashraghu/way-engine/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemoryRepository(t *testing.T) *BadgerRepository {
	t.Helper()
	repo, err := OpenBadgerRepository(BadgerConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func smallGraph(t *testing.T) *graph.Store {
	t.Helper()
	g, err := graph.AddNode(graph.New(), entities.Node{ID: "n1"})
	require.NoError(t, err)
	g, err = graph.AddPort(g, entities.Port{ID: "p1", NodeID: "n1", Kind: entities.PortOutput})
	require.NoError(t, err)
	g, err = graph.AddPort(g, entities.Port{ID: "p2", NodeID: "n1", Kind: entities.PortInput})
	require.NoError(t, err)
	g, err = graph.AddEdge(g, entities.Edge{ID: "e1", SourcePortID: "p1", TargetPortID: "p2"})
	require.NoError(t, err)
	return g
}

func TestBadgerRepository_SaveLoadList(t *testing.T) {
	ctx := context.Background()
	repo := openMemoryRepository(t)
	g := smallGraph(t)

	require.NoError(t, repo.Save(ctx, "beta", g))
	require.NoError(t, repo.Save(ctx, "alpha", graph.New()))

	loaded, err := repo.Load(ctx, "beta")
	require.NoError(t, err)
	assert.Equal(t, g.NodeIDs(), loaded.NodeIDs())
	assert.Equal(t, g.PortIDs(), loaded.PortIDs())
	assert.Equal(t, g.EdgeIDs(), loaded.EdgeIDs())
	assert.Empty(t, graph.Validate(loaded))

	infos, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "alpha", infos[0].Name)
	assert.Equal(t, "beta", infos[1].Name)
	assert.Equal(t, 1, infos[1].Nodes)
	assert.Equal(t, 1, infos[1].Edges)
}

func TestBadgerRepository_Errors(t *testing.T) {
	ctx := context.Background()
	repo := openMemoryRepository(t)

	_, err := repo.Load(ctx, "missing")
	assert.True(t, pkgerrors.IsNotFound(err))

	assert.True(t, pkgerrors.IsNotFound(repo.Delete(ctx, "missing")))
	assert.True(t, pkgerrors.IsValidation(repo.Save(ctx, " ", graph.New())))

	require.NoError(t, repo.Save(ctx, "g", graph.New()))
	require.NoError(t, repo.Delete(ctx, "g"))
	_, err = repo.Load(ctx, "g")
	assert.True(t, pkgerrors.IsNotFound(err))

	_, err = OpenBadgerRepository(BadgerConfig{})
	assert.Error(t, err)
}

func TestBadgerRepository_Persists(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "store")

	repo, err := OpenBadgerRepository(BadgerConfig{Path: dir, SyncWrites: true})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, "g", smallGraph(t)))
	require.NoError(t, repo.Close())

	reopened, err := OpenBadgerRepository(BadgerConfig{Path: dir})
	require.NoError(t, err)
	defer reopened.Close()

	g, err := reopened.Load(ctx, "g")
	require.NoError(t, err)
	assert.True(t, g.HasEdge("e1"))
}
