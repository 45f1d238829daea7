// Package automatic plays local games against a random piece stream, so
// that weight profiles can be compared without a game server.
package automatic

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/tetrisbot/ai/turnplayer"
	"github.com/domino14/tetrisbot/config"
	"github.com/domino14/tetrisbot/gamelog"
	"github.com/domino14/tetrisbot/glass"
	"github.com/domino14/tetrisbot/move"
	"github.com/domino14/tetrisbot/snapshot"
	"github.com/domino14/tetrisbot/tetromino"
)

// Why a game ended.
const (
	EndMaxPieces   = "max-pieces"
	EndToppedOut   = "topped-out"
	EndNoLegalMove = "no-legal-move"
	EndBlocked     = "blocked"
)

// GameResult summarises one finished game.
type GameResult struct {
	ID     string
	Pieces int
	Lines  int
	Reason string
}

// GameRunner plays one game at a time. It plays the part of the server:
// it spawns pieces, asks the turn player, and carries out the command.
type GameRunner struct {
	config *config.Config
	player *turnplayer.TurnPlayer
	glass  *glass.Glass

	id        string
	size      int
	maxPieces int
	pieces    int
	lines     int
	started   time.Time

	nextPiece func() tetromino.Kind
	gamelog   *gamelog.Log
}

// NewGameRunner instantiates a runner with the profile named in cfg.
func NewGameRunner(cfg *config.Config, maxPieces int) (*GameRunner, error) {
	tp, err := turnplayer.NewTurnPlayerFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	r := &GameRunner{
		config:    cfg,
		player:    tp,
		size:      cfg.GetInt(config.ConfigBoardSize),
		maxPieces: maxPieces,
		nextPiece: randomPiece,
	}
	r.Reset(nil)
	return r, nil
}

func randomPiece() tetromino.Kind {
	return tetromino.Kind(frand.Intn(tetromino.NumKinds))
}

// SetPieceSource replaces the random piece stream.
func (r *GameRunner) SetPieceSource(next func() tetromino.Kind) {
	r.nextPiece = next
}

func (r *GameRunner) SetGameLog(l *gamelog.Log) {
	r.gamelog = l
	r.player.SetRecorder(l, r.id)
}

// Reset starts a new game on g, or on an empty glass if g is nil.
func (r *GameRunner) Reset(g *glass.Glass) {
	if g == nil {
		g = glass.New(r.size)
	}
	r.glass = g
	r.size = g.Size()
	r.id = uuid.NewString()
	r.pieces, r.lines = 0, 0
	r.started = time.Now()
	if r.gamelog != nil {
		r.player.SetRecorder(r.gamelog, r.id)
	}
}

func (r *GameRunner) Glass() *glass.Glass {
	return r.glass
}

// spawn returns where a new piece appears: centred, with its top row at
// the top of the glass.
func (r *GameRunner) spawn(p tetromino.Piece) tetromino.Cell {
	_, _, minY, _ := p.Extent()
	return tetromino.Cell{X: r.size / 2, Y: -minY}
}

// PlayTurn spawns one piece and plays it. It returns a non-empty reason
// once the game is over.
func (r *GameRunner) PlayTurn() (string, error) {
	if r.maxPieces > 0 && r.pieces >= r.maxPieces {
		return EndMaxPieces, nil
	}
	kind := r.nextPiece()
	piece := tetromino.New(kind)
	at := r.spawn(piece)
	if !r.glass.Accept(piece, at.X, at.Y, false) {
		return EndToppedOut, nil
	}

	cmd, err := r.player.Decide(snapshot.New(r.glass, kind, at))
	if errors.Is(err, turnplayer.ErrNoLegalMove) {
		return EndNoLegalMove, nil
	} else if err != nil {
		return "", err
	}
	rotation, dx, _, err := move.Decode(cmd)
	if err != nil {
		return "", fmt.Errorf("decoding %q: %w", cmd, err)
	}

	// rotate in place, pushed down if the new shape would poke out of the
	// top, then shift, then drop
	rotated := piece.Rotated(rotation)
	_, _, minY, _ := rotated.Extent()
	x, y := at.X+dx, max(at.Y, -minY)
	if !r.glass.Accept(rotated, x, y, false) {
		log.Debug().Str("cmd", cmd).Str("piece", kind.String()).Msg("command-blocked")
		return EndBlocked, nil
	}
	r.glass.Drop(rotated, x, y)
	r.pieces++
	r.lines += r.glass.LinesRemoved()
	return "", nil
}

// PlayGame plays from the current position until the game ends.
func (r *GameRunner) PlayGame() (*GameResult, error) {
	var reason string
	var err error
	for reason == "" {
		reason, err = r.PlayTurn()
		if err != nil {
			return nil, err
		}
	}
	res := &GameResult{ID: r.id, Pieces: r.pieces, Lines: r.lines, Reason: reason}
	log.Debug().Str("game", r.id).Int("pieces", r.pieces).Int("lines", r.lines).
		Str("reason", reason).Msg("game-over")
	if r.gamelog != nil {
		err := r.gamelog.SaveGame(gamelog.Game{
			ID:        r.id,
			Profile:   r.player.Profile().Name(),
			Size:      r.size,
			StartedAt: r.started,
			EndedAt:   time.Now(),
			Pieces:    r.pieces,
			Lines:     r.lines,
		})
		if err != nil {
			log.Err(err).Str("game", r.id).Msg("save-game")
		}
	}
	return res, nil
}
