package persistence

import (
	"context"
	"time"

	"github.com/imprakashraghu/way-engine/domain/core/graph"
)

// GraphRepository stores named graph documents
type GraphRepository interface {
	Save(ctx context.Context, name string, g *graph.Store) error
	Load(ctx context.Context, name string) (*graph.Store, error)
	List(ctx context.Context) ([]GraphInfo, error)
	Delete(ctx context.Context, name string) error
	Close() error
}

// GraphInfo describes a stored graph without decoding it
type GraphInfo struct {
	Name    string    `json:"name"`
	SavedAt time.Time `json:"savedAt"`
	Nodes   int       `json:"nodes"`
	Edges   int       `json:"edges"`
}
