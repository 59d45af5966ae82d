package entities

import (
	pkgerrors "github.com/imprakashraghu/way-engine/pkg/errors"
	"github.com/imprakashraghu/way-engine/pkg/utils"
)

// Edge connects exactly two distinct ports
type Edge struct {
	ID           string         `json:"id" yaml:"id" validate:"required"`
	SourcePortID string         `json:"sourcePortId" yaml:"sourcePortId" validate:"required"`
	TargetPortID string         `json:"targetPortId" yaml:"targetPortId" validate:"required"`
	Data         map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}

// NewEdge validates e and returns an independent copy. Self-loops are
// rejected here too so an invalid edge never leaves the constructor.
func NewEdge(e Edge) (Edge, error) {
	if err := utils.ValidateStruct(e); err != nil {
		return Edge{}, pkgerrors.NewValidationError("edge: " + err.Error())
	}
	if e.SourcePortID == e.TargetPortID {
		return Edge{}, pkgerrors.NewSelfLoopError(e.ID, e.SourcePortID)
	}
	return e.Clone(), nil
}

// Clone copies the payload
func (e Edge) Clone() Edge {
	e.Data = cloneData(e.Data)
	return e
}

// Touches reports whether portID is either end of the edge
func (e Edge) Touches(portID string) bool {
	return e.SourcePortID == portID || e.TargetPortID == portID
}

// EdgePatch is a partial edge update. Endpoints change only through Rewire.
type EdgePatch struct {
	Data        map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
	ReplaceData bool           `json:"replaceData,omitempty" yaml:"replaceData,omitempty"`
}

// Apply returns existing with the patch merged in
func (p EdgePatch) Apply(existing Edge) Edge {
	updated := existing
	updated.Data = mergeData(existing.Data, p.Data, p.ReplaceData)
	return updated
}

// RestoreEdge returns a patch that restores prev's payload
func RestoreEdge(prev Edge) EdgePatch {
	return EdgePatch{Data: cloneData(prev.Data), ReplaceData: true}
}

// RewirePatch moves one or both ends of an edge. Nil ends are kept.
type RewirePatch struct {
	SourcePortID *string `json:"sourcePortId,omitempty" yaml:"sourcePortId,omitempty"`
	TargetPortID *string `json:"targetPortId,omitempty" yaml:"targetPortId,omitempty"`
}

// Resolve returns the endpoints the edge would have after the rewire
func (p RewirePatch) Resolve(existing Edge) (source, target string) {
	source, target = existing.SourcePortID, existing.TargetPortID
	if p.SourcePortID != nil {
		source = *p.SourcePortID
	}
	if p.TargetPortID != nil {
		target = *p.TargetPortID
	}
	return source, target
}

// ParseEdgePatch converts an untyped patch into an EdgePatch. Identity and
// endpoint fields are rejected; endpoints move through RewireEdge.
func ParseEdgePatch(raw map[string]any) (EdgePatch, error) {
	var patch EdgePatch
	if err := rejectIdentityFields("edge", raw, "id", "sourcePortId", "targetPortId"); err != nil {
		return patch, err
	}
	if err := decodeRaw("edge", raw, &patch); err != nil {
		return EdgePatch{}, err
	}
	return patch, nil
}
