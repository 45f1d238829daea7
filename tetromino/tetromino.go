// Package tetromino holds the seven piece kinds and their rotation tables.
// Coordinates grow to the right (x) and downward (y); row 0 is the top of
// the glass.
package tetromino

import (
	"fmt"
	"strings"
)

// Cell is a single square of the glass.
type Cell struct {
	X int
	Y int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Kind is one of the seven tetromino shapes.
type Kind uint8

const (
	I Kind = iota
	J
	L
	O
	S
	T
	Z

	NumKinds = 7
)

var glyphs = [NumKinds]byte{'I', 'J', 'L', 'O', 'S', 'T', 'Z'}

// The game server names pieces by colour in some of its messages.
var colours = [NumKinds]string{"BLUE", "CYAN", "ORANGE", "YELLOW", "GREEN", "PURPLE", "RED"}

func (k Kind) String() string {
	if k >= NumKinds {
		return "?"
	}
	return string(glyphs[k])
}

// Glyph is the character used for this kind in a board layer.
func (k Kind) Glyph() byte {
	return glyphs[k]
}

// Colour returns the server-side colour name for this kind.
func (k Kind) Colour() string {
	return colours[k]
}

// ParseKind accepts either a glyph ("I") or a colour name ("BLUE").
func ParseKind(s string) (Kind, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i := Kind(0); i < NumKinds; i++ {
		if s == i.String() || s == colours[i] {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown piece kind %q", s)
}

// KindFromGlyph maps a board layer character to a kind. ok is false for
// empty or unknown characters.
func KindFromGlyph(b byte) (Kind, bool) {
	for i := Kind(0); i < NumKinds; i++ {
		if glyphs[i] == b {
			return i, true
		}
	}
	return 0, false
}

// Spawn offsets for rotation 0, relative to the anchor.
var baseShapes = [NumKinds][4]Cell{
	I: {{0, -1}, {0, 0}, {0, 1}, {0, 2}},
	J: {{0, -1}, {0, 0}, {0, 1}, {-1, 1}},
	L: {{0, -1}, {0, 0}, {0, 1}, {1, 1}},
	O: {{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	S: {{0, 0}, {1, 0}, {-1, 1}, {0, 1}},
	T: {{-1, 0}, {0, 0}, {1, 0}, {0, 1}},
	Z: {{-1, 0}, {0, 0}, {0, 1}, {1, 1}},
}

// shapes[kind][rotation] holds the anchor-relative offsets.
var shapes [NumKinds][4][4]Cell

func init() {
	for k := Kind(0); k < NumKinds; k++ {
		cur := baseShapes[k]
		for r := 0; r < 4; r++ {
			shapes[k][r] = cur
			if k == O {
				continue
			}
			for i, c := range cur {
				// clockwise quarter turn with y pointing down
				cur[i] = Cell{X: -c.Y, Y: c.X}
			}
		}
	}
}

// Piece is a kind in a particular rotation state. It is a value: rotating
// returns a new Piece rather than mutating the receiver.
type Piece struct {
	Kind     Kind
	Rotation int
}

// New returns a piece of the given kind in its spawn orientation.
func New(k Kind) Piece {
	return Piece{Kind: k}
}

// Rotated returns the piece turned clockwise by the given number of
// quarter turns. Negative values turn counter-clockwise.
func (p Piece) Rotated(quarterTurns int) Piece {
	r := (p.Rotation + quarterTurns) % 4
	if r < 0 {
		r += 4
	}
	return Piece{Kind: p.Kind, Rotation: r}
}

// Offsets returns the anchor-relative cells of the piece.
func (p Piece) Offsets() [4]Cell {
	return shapes[p.Kind][p.Rotation]
}

// Cells returns the absolute cells covered when the anchor sits at (x, y).
func (p Piece) Cells(x, y int) [4]Cell {
	out := shapes[p.Kind][p.Rotation]
	for i := range out {
		out[i].X += x
		out[i].Y += y
	}
	return out
}

// Extent returns the minimum and maximum offsets over the piece cells.
func (p Piece) Extent() (minX, maxX, minY, maxY int) {
	offs := p.Offsets()
	minX, maxX, minY, maxY = offs[0].X, offs[0].X, offs[0].Y, offs[0].Y
	for _, c := range offs[1:] {
		minX = min(minX, c.X)
		maxX = max(maxX, c.X)
		minY = min(minY, c.Y)
		maxY = max(maxY, c.Y)
	}
	return
}

func (p Piece) String() string {
	return fmt.Sprintf("%v/r%d", p.Kind, p.Rotation)
}
