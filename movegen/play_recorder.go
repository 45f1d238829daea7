package movegen

import "github.com/domino14/tetrisbot/move"

type PlayRecorderFunc func(*PlacementGenerator, *move.Move)

// AllPlaysRecorder keeps every legal placement in search order.
func AllPlaysRecorder(gen *PlacementGenerator, play *move.Move) {
	gen.plays = append(gen.plays, play)
}

// TopPlayOnlyRecorder keeps only the best placement so far. A later play
// must be strictly better to replace it.
func TopPlayOnlyRecorder(gen *PlacementGenerator, play *move.Move) {
	if gen.winner == nil || play.Equity() > gen.winner.Equity() {
		gen.winner = play
	}
}
