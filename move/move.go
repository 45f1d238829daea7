package move

import (
	"fmt"

	"github.com/domino14/tetrisbot/features"
	"github.com/domino14/tetrisbot/tetromino"
)

// MoveType is a type of move: a searched placement, or the fixed
// placement from an override rule.
type MoveType uint8

const (
	MoveTypePlacement MoveType = iota
	MoveTypeOverride
)

// Move is a placement hypothesis: how many quarter turns to apply to the
// piece and where its anchor ends up. It carries the features and equity
// computed for it during search.
type Move struct {
	action   MoveType
	rotation int
	x        int
	y        int
	piece    tetromino.Piece
	features features.Vector
	equity   float64
}

// NewPlacement creates a move for the piece after rotating it rotation
// quarter turns, anchored at (x, y).
func NewPlacement(piece tetromino.Piece, rotation, x, y int) *Move {
	return &Move{
		action:   MoveTypePlacement,
		rotation: rotation,
		x:        x,
		y:        y,
		piece:    piece,
	}
}

// NewOverride creates a fixed placement that bypassed search.
func NewOverride(piece tetromino.Piece, rotation, x, y int) *Move {
	m := NewPlacement(piece, rotation, x, y)
	m.action = MoveTypeOverride
	return m
}

// String provides a string just for debugging purposes.
func (m *Move) String() string {
	return fmt.Sprintf("<%p action: %v piece: %v rot: %d at: %d,%d equity: %.3f>",
		m, m.MoveTypeString(), m.piece, m.rotation, m.x, m.y, m.equity)
}

func (m *Move) MoveTypeString() string {
	switch m.action {
	case MoveTypePlacement:
		return "Placement"
	case MoveTypeOverride:
		return "Override"
	}
	return "UNHANDLED"
}

// ShortDescription provides a short description, useful for logging or
// user display.
func (m *Move) ShortDescription() string {
	return fmt.Sprintf("%v r%d @%d,%d", m.piece.Kind, m.rotation, m.x, m.y)
}

func (m *Move) Action() MoveType { return m.action }

// Rotation is the number of quarter turns relative to the piece's
// orientation at the start of the turn.
func (m *Move) Rotation() int { return m.rotation }

func (m *Move) X() int { return m.x }
func (m *Move) Y() int { return m.y }

// Piece is the piece in its rotated state.
func (m *Move) Piece() tetromino.Piece { return m.piece }

func (m *Move) Features() features.Vector { return m.features }

func (m *Move) SetFeatures(v features.Vector) {
	m.features = v
}

func (m *Move) Equity() float64 {
	return m.equity
}

func (m *Move) SetEquity(e float64) {
	m.equity = e
}

// Command encodes the move for a piece whose anchor is currently at from.
func (m *Move) Command(from tetromino.Cell) string {
	return Encode(m.rotation, m.x-from.X)
}
