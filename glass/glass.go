// Package glass is the grid engine: it knows how pieces collide, fall,
// and clear lines. The search code only talks to it through Model.
package glass

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/domino14/tetrisbot/tetromino"
)

// Model is everything the placement search needs from a board.
type Model interface {
	Size() int
	// Accept reports whether the piece fits with its anchor at (x, y).
	// With restrictLastColumn set, placements touching the rightmost
	// column are refused.
	Accept(p tetromino.Piece, x, y int, restrictLastColumn bool) bool
	// Drop lets the piece fall from (x, y) until it rests, then clears
	// any full rows. If the piece does not fit at (x, y) the glass is
	// left untouched and the reported metrics are zeroed; callers check
	// Accept first.
	Drop(p tetromino.Piece, x, y int)
	Clone() Model

	SetActiveOverlay(p *tetromino.Piece, x, y int)
	ActiveOverlayCells() []tetromino.Cell
	Vacate(cells []tetromino.Cell)
	DroppedCells() []tetromino.Cell

	LandingHeight() int
	ErodedCells() int
	LinesRemoved() int
	FourLinesClearable() bool
}

// Glass is a square well of side Size. rows[y][x] is true when occupied.
type Glass struct {
	size int
	rows [][]bool

	overlay    *tetromino.Piece
	overlayX   int
	overlayY   int
	hasOverlay bool

	landingHeight int
	erodedCells   int
	linesRemoved  int
}

// New creates an empty glass.
func New(size int) *Glass {
	g := &Glass{size: size}
	g.rows = make([][]bool, size)
	for y := range g.rows {
		g.rows[y] = make([]bool, size)
	}
	return g
}

func (g *Glass) Size() int {
	return g.size
}

// Occupied reports whether (x, y) holds a settled block. Out-of-range
// coordinates count as occupied.
func (g *Glass) Occupied(x, y int) bool {
	if x < 0 || x >= g.size || y < 0 || y >= g.size {
		return true
	}
	return g.rows[y][x]
}

func (g *Glass) fits(p tetromino.Piece, x, y int, restrictLastColumn bool) bool {
	for _, c := range p.Cells(x, y) {
		if g.Occupied(c.X, c.Y) {
			return false
		}
		if restrictLastColumn && c.X == g.size-1 {
			return false
		}
	}
	return true
}

func (g *Glass) Accept(p tetromino.Piece, x, y int, restrictLastColumn bool) bool {
	return g.fits(p, x, y, restrictLastColumn)
}

func (g *Glass) Drop(p tetromino.Piece, x, y int) {
	g.landingHeight, g.erodedCells, g.linesRemoved = 0, 0, 0
	if !g.fits(p, x, y, false) {
		log.Debug().Str("piece", p.Kind.String()).Int("x", x).Int("y", y).Msg("drop-rejected")
		return
	}
	for g.fits(p, x, y+1, false) {
		y++
	}
	cells := p.Cells(x, y)
	top, bottom := cells[0].Y, cells[0].Y
	for _, c := range cells {
		g.rows[c.Y][c.X] = true
		top = min(top, c.Y)
		bottom = max(bottom, c.Y)
	}
	g.landingHeight = (g.size - 1 - bottom) + (bottom-top)/2

	var pieceCellsRemoved int
	kept := make([][]bool, 0, g.size)
	for row, r := range g.rows {
		if !full(r) {
			kept = append(kept, r)
			continue
		}
		g.linesRemoved++
		for _, c := range cells {
			if c.Y == row {
				pieceCellsRemoved++
			}
		}
	}
	if g.linesRemoved == 0 {
		return
	}
	g.erodedCells = g.linesRemoved * pieceCellsRemoved
	fresh := make([][]bool, g.linesRemoved, g.size)
	for i := range fresh {
		fresh[i] = make([]bool, g.size)
	}
	g.rows = append(fresh, kept...)
}

func full(row []bool) bool {
	for _, b := range row {
		if !b {
			return false
		}
	}
	return true
}

// Clone returns a deep copy. The active overlay is not carried over.
func (g *Glass) Clone() Model {
	return g.Copy()
}

// Copy is Clone with the concrete type.
func (g *Glass) Copy() *Glass {
	c := &Glass{
		size:          g.size,
		landingHeight: g.landingHeight,
		erodedCells:   g.erodedCells,
		linesRemoved:  g.linesRemoved,
	}
	c.rows = make([][]bool, g.size)
	for y := range g.rows {
		c.rows[y] = make([]bool, g.size)
		copy(c.rows[y], g.rows[y])
	}
	return c
}

// SetActiveOverlay places the falling piece at (x, y) without settling it.
// A nil piece removes the overlay.
func (g *Glass) SetActiveOverlay(p *tetromino.Piece, x, y int) {
	if p == nil {
		g.overlay, g.hasOverlay = nil, false
		return
	}
	cp := *p
	g.overlay, g.overlayX, g.overlayY, g.hasOverlay = &cp, x, y, true
}

// ActiveOverlayCells returns the in-bounds cells of the overlay piece.
func (g *Glass) ActiveOverlayCells() []tetromino.Cell {
	if !g.hasOverlay {
		return nil
	}
	var out []tetromino.Cell
	for _, c := range g.overlay.Cells(g.overlayX, g.overlayY) {
		if c.X >= 0 && c.X < g.size && c.Y >= 0 && c.Y < g.size {
			out = append(out, c)
		}
	}
	return out
}

// Paint marks cells occupied, ignoring any outside the glass.
func (g *Glass) Paint(cells []tetromino.Cell) {
	g.set(cells, true)
}

// Vacate marks cells empty, ignoring any outside the glass.
func (g *Glass) Vacate(cells []tetromino.Cell) {
	g.set(cells, false)
}

func (g *Glass) set(cells []tetromino.Cell, v bool) {
	for _, c := range cells {
		if c.X >= 0 && c.X < g.size && c.Y >= 0 && c.Y < g.size {
			g.rows[c.Y][c.X] = v
		}
	}
}

// DroppedCells returns every settled cell, top row first.
func (g *Glass) DroppedCells() []tetromino.Cell {
	var out []tetromino.Cell
	for y, r := range g.rows {
		for x, b := range r {
			if b {
				out = append(out, tetromino.Cell{X: x, Y: y})
			}
		}
	}
	return out
}

func (g *Glass) LandingHeight() int { return g.landingHeight }
func (g *Glass) ErodedCells() int   { return g.erodedCells }
func (g *Glass) LinesRemoved() int  { return g.linesRemoved }

// FourLinesClearable is true when the four bottom rows are full except
// for the rightmost column, and that column is open all the way from the
// top. A vertical I dropped there clears four lines.
func (g *Glass) FourLinesClearable() bool {
	if g.size < 4 {
		return false
	}
	last := g.size - 1
	for y := g.size - 1; y >= g.size-4; y-- {
		if g.rows[y][last] || !full(g.rows[y][:last]) {
			return false
		}
	}
	for y := 0; y < g.size-4; y++ {
		if g.rows[y][last] {
			return false
		}
	}
	return true
}

// String renders the glass top row first. Settled cells are '#', the
// active overlay is '*'.
func (g *Glass) String() string {
	overlay := map[tetromino.Cell]bool{}
	for _, c := range g.ActiveOverlayCells() {
		overlay[c] = true
	}
	var sb strings.Builder
	for y, r := range g.rows {
		sb.WriteString("|")
		for x, b := range r {
			switch {
			case overlay[tetromino.Cell{X: x, Y: y}]:
				sb.WriteString("*")
			case b:
				sb.WriteString("#")
			default:
				sb.WriteString(".")
			}
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("+" + strings.Repeat("-", g.size) + "+\n")
	return sb.String()
}
