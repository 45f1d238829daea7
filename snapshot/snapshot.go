// Package snapshot parses the board message the game server sends every
// turn. On the wire, y grows upward from the floor; everything returned
// here uses the glass convention of row 0 at the top.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/domino14/tetrisbot/glass"
	"github.com/domino14/tetrisbot/tetromino"
)

const MessagePrefix = "board="

var ErrMalformed = errors.New("malformed board message")

const emptyGlyph = '.'

type wirePoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type wireLevelProgress struct {
	Current    int `json:"current"`
	LastPassed int `json:"lastPassed"`
	Total      int `json:"total"`
}

type wireBoard struct {
	CurrentFigureType  string            `json:"currentFigureType"`
	CurrentFigurePoint *wirePoint        `json:"currentFigurePoint"`
	FutureFigures      []string          `json:"futureFigures"`
	Layers             []string          `json:"layers"`
	LevelProgress      wireLevelProgress `json:"levelProgress"`
}

// Snapshot is one turn's view of the game. The glass still contains the
// falling piece, exactly as the server drew it.
type Snapshot struct {
	Glass *glass.Glass
	// Piece is nil when nothing is falling.
	Piece  *tetromino.Kind
	Point  tetromino.Cell
	Level  int
	Future []tetromino.Kind
}

// Parse reads a board message, with or without the "board=" prefix.
func Parse(data []byte) (*Snapshot, error) {
	raw := strings.TrimSpace(string(data))
	raw = strings.TrimPrefix(raw, MessagePrefix)

	var wb wireBoard
	if err := json.Unmarshal([]byte(raw), &wb); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if len(wb.Layers) == 0 {
		return nil, fmt.Errorf("%w: no layers", ErrMalformed)
	}
	layer := wb.Layers[0]
	size := int(math.Sqrt(float64(len(layer))))
	if size == 0 || size*size != len(layer) {
		return nil, fmt.Errorf("%w: layer of length %d is not square", ErrMalformed, len(layer))
	}

	g := glass.New(size)
	var cells []tetromino.Cell
	for i := 0; i < len(layer); i++ {
		if layer[i] == emptyGlyph || layer[i] == ' ' {
			continue
		}
		cells = append(cells, tetromino.Cell{X: i % size, Y: i / size})
	}
	g.Paint(cells)

	snap := &Snapshot{Glass: g, Level: wb.LevelProgress.Current}
	for _, f := range wb.FutureFigures {
		k, err := tetromino.ParseKind(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		snap.Future = append(snap.Future, k)
	}

	if wb.CurrentFigureType == "" || wb.CurrentFigurePoint == nil {
		return snap, nil
	}
	k, err := tetromino.ParseKind(wb.CurrentFigureType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	snap.Piece = &k
	snap.Point = tetromino.Cell{
		X: wb.CurrentFigurePoint.X,
		Y: size - 1 - wb.CurrentFigurePoint.Y,
	}
	return snap, nil
}

// New builds a snapshot for a local game: the piece is painted into a copy
// of g at point, as the server would draw it.
func New(g *glass.Glass, kind tetromino.Kind, point tetromino.Cell) *Snapshot {
	drawn := g.Copy()
	cells := tetromino.New(kind).Cells(point.X, point.Y)
	drawn.Paint(cells[:])
	return &Snapshot{Glass: drawn, Piece: &kind, Point: point}
}

// Settled returns a copy of the glass with the falling piece removed, so
// that only settled cells remain.
func (s *Snapshot) Settled() *glass.Glass {
	g := s.Glass.Copy()
	if s.Piece == nil {
		return g
	}
	p := tetromino.New(*s.Piece)
	g.SetActiveOverlay(&p, s.Point.X, s.Point.Y)
	g.Vacate(g.ActiveOverlayCells())
	g.SetActiveOverlay(nil, 0, 0)
	return g
}

// Size is the side of the glass.
func (s *Snapshot) Size() int {
	return s.Glass.Size()
}

// Message renders the snapshot back into the wire format. Settled cells
// are written as '#'; the falling piece uses its own glyph.
func (s *Snapshot) Message() ([]byte, error) {
	size := s.Glass.Size()
	layer := []byte(strings.Repeat(string(emptyGlyph), size*size))
	for _, c := range s.Glass.DroppedCells() {
		layer[c.Y*size+c.X] = '#'
	}
	wb := wireBoard{
		Layers:        []string{string(layer)},
		LevelProgress: wireLevelProgress{Current: s.Level},
	}
	if s.Piece != nil {
		for _, c := range tetromino.New(*s.Piece).Cells(s.Point.X, s.Point.Y) {
			if c.X >= 0 && c.X < size && c.Y >= 0 && c.Y < size {
				layer[c.Y*size+c.X] = s.Piece.Glyph()
			}
		}
		wb.Layers[0] = string(layer)
		wb.CurrentFigureType = s.Piece.String()
		wb.CurrentFigurePoint = &wirePoint{X: s.Point.X, Y: size - 1 - s.Point.Y}
	}
	for _, f := range s.Future {
		wb.FutureFigures = append(wb.FutureFigures, f.String())
	}
	data, err := json.Marshal(wb)
	if err != nil {
		return nil, err
	}
	return append([]byte(MessagePrefix), data...), nil
}
