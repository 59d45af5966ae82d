package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/imprakashraghu/way-engine/domain/core/graph"
	pkgerrors "github.com/imprakashraghu/way-engine/pkg/errors"
	"go.uber.org/zap"
)

const graphKeyPrefix = "GRAPH#"

// BadgerConfig configures the embedded graph store
type BadgerConfig struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string

	InMemory   bool
	SyncWrites bool
	Logger     *zap.Logger
}

// BadgerRepository keeps graph documents in an embedded BadgerDB, one key
// per graph name.
type BadgerRepository struct {
	db     *badger.DB
	logger *zap.Logger
	now    func() time.Time
}

// storedGraph is the value written under each key
type storedGraph struct {
	GraphInfo
	Document json.RawMessage `json:"document"`
}

type badgerLogger struct {
	logger *zap.SugaredLogger
}

func (l *badgerLogger) Errorf(format string, args ...interface{})   { l.logger.Errorf(format, args...) }
func (l *badgerLogger) Warningf(format string, args ...interface{}) { l.logger.Warnf(format, args...) }
func (l *badgerLogger) Infof(format string, args ...interface{})    { l.logger.Debugf(format, args...) }
func (l *badgerLogger) Debugf(format string, args ...interface{})   { l.logger.Debugf(format, args...) }

// OpenBadgerRepository opens (creating if needed) the store described by cfg
func OpenBadgerRepository(cfg BadgerConfig) (*BadgerRepository, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, pkgerrors.NewValidationError("store path is required for a persistent database")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create store directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.
		WithSyncWrites(cfg.SyncWrites).
		WithNumVersionsToKeep(1).
		WithLogger(&badgerLogger{logger: logger.Named("badger").Sugar()})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &BadgerRepository{db: db, logger: logger, now: time.Now}, nil
}

// Save writes g under name, replacing any previous graph of that name
func (r *BadgerRepository) Save(ctx context.Context, name string, g *graph.Store) error {
	if err := checkName(name); err != nil {
		return err
	}
	doc, err := Marshal(g, FormatJSON)
	if err != nil {
		return err
	}
	value, err := json.Marshal(storedGraph{
		GraphInfo: GraphInfo{
			Name:    name,
			SavedAt: r.now().UTC(),
			Nodes:   g.NodeCount(),
			Edges:   g.EdgeCount(),
		},
		Document: doc,
	})
	if err != nil {
		return fmt.Errorf("failed to encode stored graph: %w", err)
	}

	if err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(graphKey(name), value)
	}); err != nil {
		return fmt.Errorf("failed to save graph %s: %w", name, err)
	}

	r.logger.Debug("Graph saved",
		zap.String("name", name),
		zap.Int("nodes", g.NodeCount()),
		zap.Int("edges", g.EdgeCount()))
	return nil
}

// Load returns the graph stored under name
func (r *BadgerRepository) Load(ctx context.Context, name string) (*graph.Store, error) {
	var stored storedGraph
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(graphKey(name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, pkgerrors.NewNotFoundError("graph", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load graph %s: %w", name, err)
	}
	return Unmarshal(stored.Document, FormatJSON)
}

// List describes every stored graph, ordered by name
func (r *BadgerRepository) List(ctx context.Context) ([]GraphInfo, error) {
	infos := make([]GraphInfo, 0)
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(graphKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var stored storedGraph
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &stored)
			}); err != nil {
				return err
			}
			infos = append(infos, stored.GraphInfo)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list graphs: %w", err)
	}
	return infos, nil
}

// Delete removes the graph stored under name
func (r *BadgerRepository) Delete(ctx context.Context, name string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(graphKey(name)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return pkgerrors.NewNotFoundError("graph", name)
			}
			return err
		}
		return txn.Delete(graphKey(name))
	})
}

// Close closes the database
func (r *BadgerRepository) Close() error {
	return r.db.Close()
}

func graphKey(name string) []byte {
	return []byte(graphKeyPrefix + name)
}

func checkName(name string) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.NewValidationError("graph name is required")
	}
	return nil
}

var _ GraphRepository = (*BadgerRepository)(nil)
