package entities

import (
	"slices"

	pkgerrors "github.com/imprakashraghu/way-engine/pkg/errors"
	"github.com/imprakashraghu/way-engine/pkg/utils"
)

// Node is a graph vertex with a canvas position and a set of owned ports.
// Values are treated as immutable once stored in a graph: Data and Ports
// are cloned on every write.
type Node struct {
	ID       string         `json:"id" yaml:"id" validate:"required"`
	Position Position       `json:"position" yaml:"position"`
	Type     string         `json:"type,omitempty" yaml:"type,omitempty"`
	Data     map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
	Ports    []string       `json:"ports,omitempty" yaml:"ports,omitempty"`
}

// NewNode validates n and returns a copy that shares no mutable state with
// the input.
func NewNode(n Node) (Node, error) {
	if err := utils.ValidateStruct(n); err != nil {
		return Node{}, pkgerrors.NewValidationError("node: " + err.Error())
	}
	return n.Clone(), nil
}

// Clone returns a deep-enough copy: the payload map and port list are copied
func (n Node) Clone() Node {
	n.Data = cloneData(n.Data)
	n.Ports = slices.Clone(n.Ports)
	return n
}

// HasPort reports whether portID is in the node's owned port list
func (n Node) HasPort(portID string) bool {
	return slices.Contains(n.Ports, portID)
}

// WithPort returns the node with portID inserted into its port list in
// sorted position. Already-listed ids are not duplicated.
func (n Node) WithPort(portID string) Node {
	idx, found := slices.BinarySearch(n.Ports, portID)
	if found || n.HasPort(portID) {
		return n
	}
	n.Ports = slices.Insert(slices.Clone(n.Ports), idx, portID)
	return n
}

// WithoutPorts returns the node with the given ids removed from its port list
func (n Node) WithoutPorts(portIDs ...string) Node {
	if len(portIDs) == 0 || len(n.Ports) == 0 {
		return n
	}
	ports := slices.DeleteFunc(slices.Clone(n.Ports), func(id string) bool {
		return slices.Contains(portIDs, id)
	})
	if len(ports) == 0 {
		ports = nil
	}
	n.Ports = ports
	return n
}

// NodePatch is a partial node update. Position and Data merge field by
// field; Ports replaces the list wholesale. ReplaceData swaps the payload
// instead of merging it.
type NodePatch struct {
	Position    *PositionPatch `json:"position,omitempty" yaml:"position,omitempty"`
	Type        *string        `json:"type,omitempty" yaml:"type,omitempty"`
	Data        map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
	ReplaceData bool           `json:"replaceData,omitempty" yaml:"replaceData,omitempty"`
	Ports       *[]string      `json:"ports,omitempty" yaml:"ports,omitempty"`
}

// Apply returns existing with the patch merged in. The id is never touched.
func (p NodePatch) Apply(existing Node) Node {
	updated := existing
	updated.Position = p.Position.Apply(existing.Position)
	if p.Type != nil {
		updated.Type = *p.Type
	}
	updated.Data = mergeData(existing.Data, p.Data, p.ReplaceData)
	if p.Ports != nil {
		updated.Ports = slices.Clone(*p.Ports)
	}
	return updated
}

// RestoreNode returns a patch that, applied to any version of the node,
// yields prev again.
func RestoreNode(prev Node) NodePatch {
	typ := prev.Type
	ports := slices.Clone(prev.Ports)
	return NodePatch{
		Position:    To(prev.Position),
		Type:        &typ,
		Data:        cloneData(prev.Data),
		ReplaceData: true,
		Ports:       &ports,
	}
}

// ParseNodePatch converts an untyped patch into a NodePatch. It rejects any
// attempt to change the node id.
func ParseNodePatch(raw map[string]any) (NodePatch, error) {
	var patch NodePatch
	if err := rejectIdentityFields("node", raw, "id"); err != nil {
		return patch, err
	}
	if err := decodeRaw("node", raw, &patch); err != nil {
		return NodePatch{}, err
	}
	return patch, nil
}
