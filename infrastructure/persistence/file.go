package persistence

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/imprakashraghu/way-engine/domain/core/graph"
)

// ReadFile loads a graph, choosing the format from the extension
func ReadFile(path string) (*graph.Store, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}
	return Unmarshal(data, format)
}

// SafeReadFile is ReadFile followed by full invariant validation
func SafeReadFile(path string) (*graph.Store, []string) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, []string{err.Error()}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []string{fmt.Sprintf("failed to read graph file: %v", err)}
	}
	return SafeUnmarshal(data, format)
}

// WriteFile stores a graph, choosing the format from the extension
func WriteFile(path string, g *graph.Store) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := Marshal(g, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write graph file: %w", err)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
