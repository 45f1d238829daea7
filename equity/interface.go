package equity

import (
	"github.com/domino14/tetrisbot/features"
	"github.com/domino14/tetrisbot/glass"
	"github.com/domino14/tetrisbot/tetromino"
)

// EquityCalculator is a calculator of equity. Higher is better.
type EquityCalculator interface {
	Equity(v features.Vector) float64
}

// Profile is a complete scoring strategy: the weights, plus the shape of
// the search they were tuned with. One profile is chosen per bot; they are
// never mixed within a decision.
type Profile interface {
	EquityCalculator
	Name() string
	// Rotations is how many rotation passes the search makes.
	Rotations() int
	// RestrictLastColumn keeps placements out of the rightmost column.
	RestrictLastColumn() bool
	Weights() Weights
	// Override is the profile's fixed short-circuit, or nil.
	Override() *Override
}

// Override is a hardcoded placement that skips search entirely. It fires
// when the active piece is of Kind and the glass reports that four lines
// can be cleared at once.
type Override struct {
	Kind     tetromino.Kind
	Rotation int
	// FromRight is the target column counted from the right wall; 0 is
	// the rightmost column.
	FromRight int
}

// Applies reports whether the override should be used for this turn.
func (o *Override) Applies(kind tetromino.Kind, m glass.Model) bool {
	return o != nil && kind == o.Kind && m.FourLinesClearable()
}

// Placement is the fixed target: column FromRight from the right wall,
// with the piece resting on the floor.
func (o *Override) Placement(size int) (rotation, x, y int) {
	p := tetromino.New(o.Kind).Rotated(o.Rotation)
	_, _, _, maxY := p.Extent()
	return o.Rotation, size - 1 - o.FromRight, size - 1 - maxY
}
