// Package persistence converts graphs to and from their stored document
// form, in JSON or YAML.
package persistence

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/imprakashraghu/way-engine/domain/core/entities"
	"github.com/imprakashraghu/way-engine/domain/core/graph"
	pkgerrors "github.com/imprakashraghu/way-engine/pkg/errors"
	"github.com/imprakashraghu/way-engine/pkg/utils"
	"gopkg.in/yaml.v3"
)

// Document is the persisted representation of a graph. Nodes, Ports and
// Edges are required; Metadata and Version are optional.
type Document struct {
	Nodes    map[string]entities.Node `json:"nodes" yaml:"nodes"`
	Ports    map[string]entities.Port `json:"ports" yaml:"ports"`
	Edges    map[string]entities.Edge `json:"edges" yaml:"edges"`
	Metadata map[string]any           `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Version  string                   `json:"version,omitempty" yaml:"version,omitempty"`
}

// Format names a document encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Codec encodes and decodes documents in one format
type Codec interface {
	Encode(w io.Writer, doc *Document) error
	Decode(r io.Reader, doc *Document) error
	Format() Format
}

// JSONCodec reads and writes indented JSON
type JSONCodec struct{}

func (JSONCodec) Encode(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func (JSONCodec) Decode(r io.Reader, doc *Document) error {
	return json.NewDecoder(r).Decode(doc)
}

func (JSONCodec) Format() Format { return FormatJSON }

// YAMLCodec reads and writes YAML
type YAMLCodec struct{}

func (YAMLCodec) Encode(w io.Writer, doc *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func (YAMLCodec) Decode(r io.Reader, doc *Document) error {
	return yaml.NewDecoder(r).Decode(doc)
}

func (YAMLCodec) Format() Format { return FormatYAML }

// CodecFor returns the codec of a format
func CodecFor(format Format) (Codec, error) {
	switch format {
	case FormatJSON:
		return JSONCodec{}, nil
	case FormatYAML:
		return YAMLCodec{}, nil
	default:
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("unsupported format %q", format))
	}
}

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", pkgerrors.NewValidationError(fmt.Sprintf("cannot infer graph format from %q", path))
	}
}

// NewDocument captures a graph as a document
func NewDocument(g *graph.Store) *Document {
	return &Document{
		Nodes:    g.Nodes(),
		Ports:    g.Ports(),
		Edges:    g.Edges(),
		Metadata: g.Metadata(),
		Version:  g.Version(),
	}
}

// Store builds a graph from the document without checking invariants
func (d *Document) Store() *graph.Store {
	return graph.FromMaps(d.Nodes, d.Ports, d.Edges,
		graph.WithMetadata(d.Metadata),
		graph.WithVersion(d.Version))
}

// Marshal encodes g in the given format
func Marshal(g *graph.Store, format Format) ([]byte, error) {
	codec, err := CodecFor(format)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := codec.Encode(&buf, NewDocument(g)); err != nil {
		return nil, fmt.Errorf("failed to encode graph as %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a graph. It fails with MalformedInput when the data
// does not parse, a required mapping is missing, or an entity is
// structurally invalid. Referential integrity is not checked; use
// SafeUnmarshal for that.
func Unmarshal(data []byte, format Format) (*graph.Store, error) {
	codec, err := CodecFor(format)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := codec.Decode(bytes.NewReader(data), &doc); err != nil {
		return nil, pkgerrors.NewMalformedInputError(fmt.Sprintf("invalid %s document", format)).WithCause(err)
	}
	if err := doc.check(); err != nil {
		return nil, err
	}
	return doc.Store(), nil
}

// SafeUnmarshal decodes a graph and validates every invariant. It never
// returns an error: any failure is reported as violation messages along
// with a nil graph.
func SafeUnmarshal(data []byte, format Format) (*graph.Store, []string) {
	g, err := Unmarshal(data, format)
	if err != nil {
		return nil, []string{err.Error()}
	}
	if violations := graph.Validate(g); len(violations) > 0 {
		return nil, violations
	}
	return g, nil
}

func (d *Document) check() error {
	var missing []string
	if d.Nodes == nil {
		missing = append(missing, "nodes")
	}
	if d.Ports == nil {
		missing = append(missing, "ports")
	}
	if d.Edges == nil {
		missing = append(missing, "edges")
	}
	if len(missing) > 0 {
		return pkgerrors.NewMalformedInputError("missing required fields: " + strings.Join(missing, ", "))
	}

	for _, id := range sortedKeys(d.Nodes) {
		if err := utils.ValidateStruct(d.Nodes[id]); err != nil {
			return malformedEntity("node", id, err)
		}
	}
	for _, id := range sortedKeys(d.Ports) {
		if err := utils.ValidateStruct(d.Ports[id]); err != nil {
			return malformedEntity("port", id, err)
		}
	}
	for _, id := range sortedKeys(d.Edges) {
		if err := utils.ValidateStruct(d.Edges[id]); err != nil {
			return malformedEntity("edge", id, err)
		}
	}
	return nil
}

func malformedEntity(kind, id string, err error) error {
	return pkgerrors.NewMalformedInputError(fmt.Sprintf("%s %s: %v", kind, id, err)).
		WithDetails(map[string]interface{}{"kind": kind, "id": id})
}
