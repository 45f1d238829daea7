package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/aybabtme/uniplot/histogram"

	"github.com/domino14/tetrisbot/ai/turnplayer"
	"github.com/domino14/tetrisbot/automatic"
	"github.com/domino14/tetrisbot/config"
	"github.com/domino14/tetrisbot/equity"
	"github.com/domino14/tetrisbot/gamelog"
	"github.com/domino14/tetrisbot/glass"
	"github.com/domino14/tetrisbot/move"
	"github.com/domino14/tetrisbot/snapshot"
	"github.com/domino14/tetrisbot/tetromino"
)

const defaultGenPlays = 15

var errNoPiece = errors.New("no piece is falling; set one with `piece`")

func (sc *ShellController) snapshot() *snapshot.Snapshot {
	if sc.piece == nil {
		return &snapshot.Snapshot{Glass: sc.glass.Copy(), Level: sc.level, Future: sc.future}
	}
	snap := snapshot.New(sc.glass, *sc.piece, sc.point)
	snap.Level = sc.level
	snap.Future = sc.future
	return snap
}

func (sc *ShellController) newGlass(cmd *shellcmd) (*Response, error) {
	size := sc.config.GetInt(config.ConfigBoardSize)
	if len(cmd.args) > 0 {
		var err error
		size, err = strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
		if size < 4 {
			return nil, errors.New("the glass must be at least 4 wide")
		}
	}
	sc.glass = glass.New(size)
	sc.piece = nil
	sc.curGenPlays = nil
	return msg(sc.glass.String()), nil
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: load <file>")
	}
	data, err := os.ReadFile(cmd.args[0])
	if err != nil {
		return nil, err
	}
	snap, err := snapshot.Parse(data)
	if err != nil {
		return nil, err
	}
	sc.glass = snap.Settled()
	sc.piece = snap.Piece
	sc.point = snap.Point
	sc.level = snap.Level
	sc.future = snap.Future
	sc.curGenPlays = nil
	return sc.show(cmd)
}

func (sc *ShellController) setPiece(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 && len(cmd.args) != 3 {
		return nil, errors.New("usage: piece <kind> [x y]")
	}
	kind, err := tetromino.ParseKind(cmd.args[0])
	if err != nil {
		return nil, err
	}
	p := tetromino.New(kind)
	_, _, minY, _ := p.Extent()
	at := tetromino.Cell{X: sc.glass.Size() / 2, Y: -minY}
	if len(cmd.args) == 3 {
		if at.X, err = strconv.Atoi(cmd.args[1]); err != nil {
			return nil, err
		}
		if at.Y, err = strconv.Atoi(cmd.args[2]); err != nil {
			return nil, err
		}
	}
	if !sc.glass.Accept(p, at.X, at.Y, false) {
		return nil, fmt.Errorf("%v does not fit at %v", kind, at)
	}
	sc.piece = &kind
	sc.point = at
	sc.curGenPlays = nil
	return sc.show(cmd)
}

func (sc *ShellController) profile(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(fmt.Sprint(sc.player.Profile())), nil
	}
	name := cmd.args[0]
	if _, err := equity.Builtin(name); err == nil {
		sc.config.Set(config.ConfigProfile, name)
		sc.config.Set(config.ConfigProfilePath, "")
	} else {
		sc.config.Set(config.ConfigProfilePath, name)
	}
	tp, err := turnplayer.NewTurnPlayerFromConfig(sc.config)
	if err != nil {
		return nil, err
	}
	sc.player = tp
	sc.curGenPlays = nil
	return msg("profile set to " + tp.Profile().Name()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	g := sc.glass.Copy()
	var sb strings.Builder
	if sc.piece != nil {
		p := tetromino.New(*sc.piece)
		g.SetActiveOverlay(&p, sc.point.X, sc.point.Y)
		fmt.Fprintf(&sb, "piece: %v at %v\n", *sc.piece, sc.point)
	} else {
		sb.WriteString("piece: none\n")
	}
	if len(sc.future) > 0 {
		fmt.Fprintf(&sb, "next: %v\n", sc.future)
	}
	fmt.Fprintf(&sb, "profile: %s\n", sc.player.Profile().Name())
	sb.WriteString(g.String())
	return msg(sb.String()), nil
}

func moveTableHeader() string {
	return "     Move                    Rot  X   Y   Equity   Command"
}

func MoveTableRow(idx int, m *move.Move, from tetromino.Cell) string {
	return fmt.Sprintf("%3d: %-24s%-5d%-4d%-4d%-9.3f%s", idx+1,
		m.ShortDescription(), m.Rotation(), m.X(), m.Y(), m.Equity(), m.Command(from))
}

func (sc *ShellController) generate(cmd *shellcmd) (*Response, error) {
	if sc.piece == nil {
		return nil, errNoPiece
	}
	numPlays := defaultGenPlays
	if len(cmd.args) > 0 {
		var err error
		if numPlays, err = strconv.Atoi(cmd.args[0]); err != nil {
			return nil, err
		}
	}
	sc.curGenPlays = sc.player.GenerateMoves(sc.snapshot(), numPlays)
	if len(sc.curGenPlays) == 0 {
		return nil, turnplayer.ErrNoLegalMove
	}
	lines := []string{moveTableHeader()}
	for i, p := range sc.curGenPlays {
		lines = append(lines, MoveTableRow(i, p, sc.point))
	}
	return msg(strings.Join(lines, "\n")), nil
}

func (sc *ShellController) decide(cmd *shellcmd) (*Response, error) {
	if sc.piece == nil {
		return nil, errNoPiece
	}
	d, err := sc.player.DecideMove(sc.snapshot())
	if err != nil {
		return nil, err
	}
	kind := "search"
	if d.Overridden {
		kind = "override"
	}
	return msg(fmt.Sprintf("%s\n%s over %d candidates, equity %.3f",
		d.Command, kind, d.Candidates, d.Move.Equity())), nil
}

// play commits the bot's decision to the glass.
func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if sc.piece == nil {
		return nil, errNoPiece
	}
	d, err := sc.player.DecideMove(sc.snapshot())
	if err != nil {
		return nil, err
	}
	m := d.Move
	sc.glass.Drop(m.Piece(), m.X(), m.Y())
	lines := sc.glass.LinesRemoved()
	sc.piece = nil
	sc.curGenPlays = nil
	if len(sc.future) > 0 {
		next := sc.future[0]
		sc.future = sc.future[1:]
		if _, err := sc.setPiece(&shellcmd{args: []string{next.String()}}); err != nil {
			return nil, err
		}
	}
	resp, _ := sc.show(cmd)
	return msg(fmt.Sprintf("played %s, %d lines\n%s", d.Command, lines, resp.message)), nil
}

func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	games := sc.config.GetInt(config.ConfigAutoplayGames)
	if len(cmd.args) > 0 {
		var err error
		if games, err = strconv.Atoi(cmd.args[0]); err != nil {
			return nil, err
		}
	}
	threads, err := cmd.options.IntDefault("threads", sc.config.GetInt(config.ConfigAutoplayThreads))
	if err != nil {
		return nil, err
	}
	maxPieces, err := cmd.options.IntDefault("maxpieces", sc.config.GetInt(config.ConfigAutoplayMaxPieces))
	if err != nil {
		return nil, err
	}

	var gl *gamelog.Log
	if path := sc.config.GetString(config.ConfigDBPath); path != "" {
		if gl, err = gamelog.Open(path); err != nil {
			return nil, err
		}
		defer gl.Close()
	}
	res, err := automatic.PlayGames(context.Background(), sc.config, games, threads, maxPieces, gl)
	if err != nil {
		return nil, err
	}
	return msg(formatResults(res)), nil
}

func formatResults(res *automatic.Results) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "profile %s, %d games\n", res.Profile, res.Games)
	fmt.Fprintf(&sb, "pieces: %s\n", res.Pieces.String())
	fmt.Fprintf(&sb, "lines:  %s\n", res.Lines.String())
	for reason, n := range res.Reasons {
		fmt.Fprintf(&sb, "  %-14s %d\n", reason, n)
	}
	// a histogram needs a spread of values
	if len(res.LinesPerGame) > 1 && res.Lines.Max() > res.Lines.Min() {
		sb.WriteString("lines per game:\n")
		hist := histogram.Hist(10, res.LinesPerGame)
		if err := histogram.Fprint(&sb, hist, histogram.Linear(40)); err != nil {
			fmt.Fprintf(&sb, "(no histogram: %v)\n", err)
		}
	}
	return sb.String()
}

func (sc *ShellController) games(cmd *shellcmd) (*Response, error) {
	path := sc.config.GetString(config.ConfigDBPath)
	if path == "" {
		return nil, errors.New("no game log; start with --db-path")
	}
	limit := 20
	if len(cmd.args) > 0 {
		var err error
		if limit, err = strconv.Atoi(cmd.args[0]); err != nil {
			return nil, err
		}
	}
	gl, err := gamelog.Open(path)
	if err != nil {
		return nil, err
	}
	defer gl.Close()
	summaries, err := gl.GameSummaries(limit)
	if err != nil {
		return nil, err
	}
	lines := []string{"id                                    profile      pieces lines"}
	for _, g := range summaries {
		lines = append(lines, fmt.Sprintf("%-38s%-13s%-7d%d", g.ID, g.Profile, g.Pieces, g.Lines))
	}
	return msg(strings.Join(lines, "\n")), nil
}
