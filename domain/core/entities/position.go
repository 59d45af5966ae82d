package entities

// Position is a 2D coordinate in canvas space
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Offset returns the position translated by dx, dy
func (p Position) Offset(dx, dy float64) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// PositionPatch updates a position field by field; nil fields are kept
type PositionPatch struct {
	X *float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Y *float64 `json:"y,omitempty" yaml:"y,omitempty"`
}

// To returns a patch that sets both coordinates
func To(p Position) *PositionPatch {
	x, y := p.X, p.Y
	return &PositionPatch{X: &x, Y: &y}
}

// Apply merges the patch onto p
func (pp *PositionPatch) Apply(p Position) Position {
	if pp == nil {
		return p
	}
	if pp.X != nil {
		p.X = *pp.X
	}
	if pp.Y != nil {
		p.Y = *pp.Y
	}
	return p
}
