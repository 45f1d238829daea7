// Package movegen enumerates every legal placement of the active piece.
// It leaves legality and physics to the glass: it only needs a yes/no
// answer for each anchor position and a way to commit a drop on a copy.
package movegen

import (
	"github.com/rs/zerolog/log"

	"github.com/domino14/tetrisbot/equity"
	"github.com/domino14/tetrisbot/features"
	"github.com/domino14/tetrisbot/glass"
	"github.com/domino14/tetrisbot/move"
	"github.com/domino14/tetrisbot/tetromino"
)

// MoveGenerator is the interface the turn player depends on.
type MoveGenerator interface {
	GenAll(m glass.Model, piece tetromino.Piece) []*move.Move
	Plays() []*move.Move
	SetPlayRecorder(pr PlayRecorderFunc)
}

// PlacementGenerator searches rotation, then row, then column. Within one
// search, earlier placements win ties.
type PlacementGenerator struct {
	profile      equity.Profile
	playRecorder PlayRecorderFunc

	plays     []*move.Move
	winner    *move.Move
	evaluated int
}

func NewPlacementGenerator(profile equity.Profile) *PlacementGenerator {
	return &PlacementGenerator{
		profile:      profile,
		playRecorder: AllPlaysRecorder,
	}
}

func (gen *PlacementGenerator) SetPlayRecorder(pr PlayRecorderFunc) {
	gen.playRecorder = pr
}

func (gen *PlacementGenerator) Profile() equity.Profile {
	return gen.profile
}

// GenAll runs the search and returns the recorded plays. The model is
// never modified: every candidate is dropped on its own clone.
//
// The piece is the orientation at the start of the turn. A rotation cursor
// is advanced one quarter turn after each pass; rotation counts in the
// returned moves are relative to the starting orientation.
func (gen *PlacementGenerator) GenAll(m glass.Model, piece tetromino.Piece) []*move.Move {
	gen.plays = nil
	gen.winner = nil
	gen.evaluated = 0

	size := m.Size()
	restrict := gen.profile.RestrictLastColumn()
	cursor := piece
	for r := 0; r < gen.profile.Rotations(); r++ {
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				if !m.Accept(cursor, x, y, restrict) {
					continue
				}
				clone := m.Clone()
				clone.Drop(cursor, x, y)
				play := move.NewPlacement(cursor, r, x, y)
				play.SetFeatures(features.FromModel(clone))
				play.SetEquity(gen.profile.Equity(play.Features()))
				gen.evaluated++
				gen.playRecorder(gen, play)
			}
		}
		cursor = cursor.Rotated(1)
	}
	log.Debug().Str("piece", piece.String()).Int("evaluated", gen.evaluated).
		Str("profile", gen.profile.Name()).Msg("gen-all")
	return gen.Plays()
}

// Plays returns what the play recorder kept from the last search.
func (gen *PlacementGenerator) Plays() []*move.Move {
	if gen.winner != nil {
		return []*move.Move{gen.winner}
	}
	return gen.plays
}

// Evaluated is the number of legal placements scored by the last search.
func (gen *PlacementGenerator) Evaluated() int {
	return gen.evaluated
}
