package entities

import (
	pkgerrors "github.com/imprakashraghu/way-engine/pkg/errors"
	"github.com/imprakashraghu/way-engine/pkg/utils"
)

// PortKind is the direction of a port
type PortKind string

const (
	PortInput   PortKind = "input"
	PortOutput  PortKind = "output"
	PortDefault PortKind = "default"
)

// Valid reports whether k is one of the known kinds
func (k PortKind) Valid() bool {
	switch k {
	case PortInput, PortOutput, PortDefault:
		return true
	}
	return false
}

// Port is an attachment point on exactly one node. Edges connect ports,
// never nodes directly. NodeID is fixed at creation.
type Port struct {
	ID       string         `json:"id" yaml:"id" validate:"required"`
	NodeID   string         `json:"nodeId" yaml:"nodeId" validate:"required"`
	Kind     PortKind       `json:"type" yaml:"type" validate:"oneof=input output default"`
	Position *Position      `json:"position,omitempty" yaml:"position,omitempty"`
	Data     map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}

// NewPort validates p and returns an independent copy
func NewPort(p Port) (Port, error) {
	if err := utils.ValidateStruct(p); err != nil {
		return Port{}, pkgerrors.NewValidationError("port: " + err.Error())
	}
	return p.Clone(), nil
}

// Clone copies the payload and position
func (p Port) Clone() Port {
	p.Data = cloneData(p.Data)
	if p.Position != nil {
		pos := *p.Position
		p.Position = &pos
	}
	return p
}

// PortPatch is a partial port update. The owning node cannot be patched.
type PortPatch struct {
	Kind        *PortKind      `json:"type,omitempty" yaml:"type,omitempty"`
	Position    *PositionPatch `json:"position,omitempty" yaml:"position,omitempty"`
	Data        map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
	ReplaceData bool           `json:"replaceData,omitempty" yaml:"replaceData,omitempty"`

	// ClearPosition removes the position entirely; used to restore a port
	// that had none.
	ClearPosition bool `json:"clearPosition,omitempty" yaml:"clearPosition,omitempty"`
}

// Apply returns existing with the patch merged in
func (p PortPatch) Apply(existing Port) Port {
	updated := existing
	if p.Kind != nil {
		updated.Kind = *p.Kind
	}
	switch {
	case p.ClearPosition:
		updated.Position = nil
	case p.Position != nil:
		var base Position
		if existing.Position != nil {
			base = *existing.Position
		}
		pos := p.Position.Apply(base)
		updated.Position = &pos
	}
	updated.Data = mergeData(existing.Data, p.Data, p.ReplaceData)
	return updated
}

// Validate checks values that a patch could set to something invalid
func (p PortPatch) Validate() error {
	if p.Kind != nil && !p.Kind.Valid() {
		return pkgerrors.NewValidationError("port patch: type must be one of: input output default")
	}
	return nil
}

// RestorePort returns a patch that turns any version of the port back into prev
func RestorePort(prev Port) PortPatch {
	kind := prev.Kind
	patch := PortPatch{
		Kind:        &kind,
		Data:        cloneData(prev.Data),
		ReplaceData: true,
	}
	if prev.Position != nil {
		patch.Position = To(*prev.Position)
	} else {
		patch.ClearPosition = true
	}
	return patch
}

// ParsePortPatch converts an untyped patch into a PortPatch, rejecting any
// attempt to change the id or the owning node.
func ParsePortPatch(raw map[string]any) (PortPatch, error) {
	var patch PortPatch
	if err := rejectIdentityFields("port", raw, "id", "nodeId"); err != nil {
		return patch, err
	}
	if err := decodeRaw("port", raw, &patch); err != nil {
		return PortPatch{}, err
	}
	if err := patch.Validate(); err != nil {
		return PortPatch{}, err
	}
	return patch, nil
}
