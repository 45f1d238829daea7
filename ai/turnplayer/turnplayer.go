// Package turnplayer makes one decision per turn: it takes a board
// snapshot and returns the command string for the falling piece.
package turnplayer

import (
	"errors"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/domino14/tetrisbot/config"
	"github.com/domino14/tetrisbot/equity"
	"github.com/domino14/tetrisbot/gamelog"
	"github.com/domino14/tetrisbot/glass"
	"github.com/domino14/tetrisbot/move"
	"github.com/domino14/tetrisbot/movegen"
	"github.com/domino14/tetrisbot/snapshot"
	"github.com/domino14/tetrisbot/tetromino"
)

// ErrNoLegalMove means the search found nowhere to put the piece. The
// caller decides what to do about it.
var ErrNoLegalMove = errors.New("no-legal-move")

// TurnRecorder is told about every decision. *gamelog.Log is one.
type TurnRecorder interface {
	SaveTurn(t gamelog.Turn) error
}

// Decision is the full result of a turn.
type Decision struct {
	Move       *move.Move
	Command    string
	Candidates int
	Overridden bool
	Cached     bool
}

// TurnPlayer is not safe for concurrent use. Make one per game.
type TurnPlayer struct {
	cfg     *config.Config
	profile equity.Profile
	gen     *movegen.PlacementGenerator

	decisions *decisionCache

	recorder TurnRecorder
	gameID   string
	turn     int
}

func NewTurnPlayer(cfg *config.Config, profile equity.Profile) *TurnPlayer {
	return &TurnPlayer{
		cfg:       cfg,
		profile:   profile,
		gen:       movegen.NewPlacementGenerator(profile),
		decisions: newDecisionCache(cfg.GetInt(config.ConfigDecisionCacheSize)),
	}
}

// NewTurnPlayerFromConfig uses the profile named in the config, or the
// profile file if one is given.
func NewTurnPlayerFromConfig(cfg *config.Config) (*TurnPlayer, error) {
	profile, err := equity.LoadProfile(cfg)
	if err != nil {
		return nil, err
	}
	return NewTurnPlayer(cfg, profile), nil
}

func (p *TurnPlayer) Profile() equity.Profile {
	return p.profile
}

func (p *TurnPlayer) MoveGenerator() movegen.MoveGenerator {
	return p.gen
}

// SetRecorder starts recording decisions under gameID. A nil recorder
// stops recording.
func (p *TurnPlayer) SetRecorder(r TurnRecorder, gameID string) {
	p.recorder = r
	p.gameID = gameID
	p.turn = 0
}

// Decide returns the command for the falling piece. With no piece falling
// it returns an empty command and no error.
func (p *TurnPlayer) Decide(snap *snapshot.Snapshot) (string, error) {
	d, err := p.DecideMove(snap)
	if err != nil {
		return "", err
	}
	return d.Command, nil
}

// DecideMove is Decide with the chosen move and search statistics.
func (p *TurnPlayer) DecideMove(snap *snapshot.Snapshot) (*Decision, error) {
	if snap.Piece == nil {
		log.Debug().Msg("no-active-piece")
		return &Decision{}, nil
	}
	kind := *snap.Piece
	piece := tetromino.New(kind)
	m := snap.Settled()

	key := decisionKey(m, kind, snap.Point)
	if d, ok := p.decisions.get(key); ok {
		log.Debug().Str("piece", kind.String()).Str("command", d.Command).Msg("decision-cached")
		cached := *d
		cached.Cached = true
		p.record(&cached)
		return &cached, nil
	}

	d, err := p.decide(m, piece, snap.Point)
	if err != nil {
		log.Error().Str("piece", kind.String()).Int("level", snap.Level).
			Str("profile", p.profile.Name()).Msg("no-legal-move")
		return nil, err
	}
	p.decisions.put(key, d)
	log.Debug().Str("piece", kind.String()).Int("level", snap.Level).
		Int("candidates", d.Candidates).Float64("equity", d.Move.Equity()).
		Str("command", d.Command).Msg("decision")
	p.record(d)
	return d, nil
}

func (p *TurnPlayer) decide(m glass.Model, piece tetromino.Piece, point tetromino.Cell) (*Decision, error) {
	if o := p.profile.Override(); o.Applies(piece.Kind, m) {
		rot, x, y := o.Placement(m.Size())
		mv := move.NewOverride(piece.Rotated(rot), rot, x, y)
		log.Debug().Str("piece", piece.String()).Int("x", x).Msg("override-applied")
		return &Decision{Move: mv, Command: mv.Command(point), Overridden: true}, nil
	}

	p.gen.SetPlayRecorder(movegen.TopPlayOnlyRecorder)
	plays := p.gen.GenAll(m, piece)
	if len(plays) == 0 {
		return nil, ErrNoLegalMove
	}
	best := plays[0]
	return &Decision{Move: best, Command: best.Command(point), Candidates: p.gen.Evaluated()}, nil
}

// GenerateMoves returns up to numPlays candidates, best first. Equal
// equities keep search order. The override rule is not consulted.
func (p *TurnPlayer) GenerateMoves(snap *snapshot.Snapshot, numPlays int) []*move.Move {
	if snap.Piece == nil {
		return nil
	}
	piece := tetromino.New(*snap.Piece)
	m := snap.Settled()
	p.gen.SetPlayRecorder(movegen.AllPlaysRecorder)
	return TopPlays(p.gen.GenAll(m, piece), numPlays)
}

// TopPlays sorts plays by equity, keeping search order among ties, and
// returns the first ct.
func TopPlays(plays []*move.Move, ct int) []*move.Move {
	sort.SliceStable(plays, func(i, j int) bool {
		return plays[i].Equity() > plays[j].Equity()
	})
	if ct > len(plays) {
		ct = len(plays)
	}
	return plays[:ct]
}

func (p *TurnPlayer) record(d *Decision) {
	if p.recorder == nil {
		return
	}
	t := gamelog.Turn{
		GameID:   p.gameID,
		Turn:     p.turn,
		Piece:    d.Move.Piece().Kind.String(),
		Rotation: d.Move.Rotation(),
		X:        d.Move.X(),
		Y:        d.Move.Y(),
		Equity:   d.Move.Equity(),
		Command:  d.Command,
	}
	p.turn++
	if err := p.recorder.SaveTurn(t); err != nil {
		log.Err(err).Str("game", p.gameID).Msg("save-turn")
	}
}
