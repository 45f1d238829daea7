package movegen

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/tetrisbot/equity"
	"github.com/domino14/tetrisbot/glass"
	"github.com/domino14/tetrisbot/testhelpers"
	"github.com/domino14/tetrisbot/tetromino"
)

// spyModel wraps a glass and counts what happens to it directly.
type spyModel struct {
	*glass.Glass
	drops  int
	clones int
}

func (s *spyModel) Drop(p tetromino.Piece, x, y int) {
	s.drops++
	s.Glass.Drop(p, x, y)
}

func (s *spyModel) Clone() glass.Model {
	s.clones++
	return s.Glass.Clone()
}

func TestEmptyGlassCount(t *testing.T) {
	is := is.New(t)
	gen := NewPlacementGenerator(equity.Dellacherie())
	plays := gen.GenAll(glass.New(4), tetromino.New(tetromino.O))
	// a 2x2 piece has 3x3 anchor positions on a 4x4 glass, for each of
	// four rotation passes
	is.Equal(len(plays), 36)
	is.Equal(gen.Evaluated(), 36)
}

func TestSearchOrder(t *testing.T) {
	is := is.New(t)
	gen := NewPlacementGenerator(equity.Dellacherie())
	plays := gen.GenAll(glass.New(4), tetromino.New(tetromino.O))
	for i := 1; i < len(plays); i++ {
		a, b := plays[i-1], plays[i]
		ka := a.Rotation()*100 + a.Y()*10 + a.X()
		kb := b.Rotation()*100 + b.Y()*10 + b.X()
		is.True(ka < kb)
	}
	is.Equal(plays[0].Rotation(), 0)
	is.Equal(plays[len(plays)-1].Rotation(), 3)
}

func TestRotationCursor(t *testing.T) {
	is := is.New(t)
	gen := NewPlacementGenerator(equity.Dellacherie())
	start := tetromino.New(tetromino.T).Rotated(1)
	plays := gen.GenAll(glass.New(6), start)
	for _, p := range plays {
		is.Equal(p.Piece(), start.Rotated(p.Rotation()))
	}
}

func TestSimpleProfileShape(t *testing.T) {
	is := is.New(t)
	gen := NewPlacementGenerator(equity.Simple())
	plays := gen.GenAll(glass.New(6), tetromino.New(tetromino.I))
	seen := map[int]bool{}
	for _, p := range plays {
		seen[p.Rotation()] = true
		for _, c := range p.Piece().Cells(p.X(), p.Y()) {
			is.True(c.X != 5)
		}
	}
	is.Equal(len(seen), 3)
}

func TestEveryPlayIsLegal(t *testing.T) {
	is := is.New(t)
	g := testhelpers.GlassFromRows(8,
		"...#....",
		".#.##...",
		"######.#",
	)
	gen := NewPlacementGenerator(equity.Dellacherie())
	plays := gen.GenAll(g, tetromino.New(tetromino.S))
	is.True(len(plays) > 0)
	for _, p := range plays {
		is.True(g.Accept(p.Piece(), p.X(), p.Y(), false))
	}
}

func TestSearchDoesNotTouchModel(t *testing.T) {
	is := is.New(t)
	g := testhelpers.GlassFromRows(6,
		"#.....",
		"###.##",
	)
	before := g.DroppedCells()
	spy := &spyModel{Glass: g}
	gen := NewPlacementGenerator(equity.Dellacherie())
	plays := gen.GenAll(spy, tetromino.New(tetromino.J))
	is.Equal(spy.drops, 0)
	is.Equal(spy.clones, len(plays))
	is.Equal(g.DroppedCells(), before)
}

func TestFeaturesComeFromClone(t *testing.T) {
	is := is.New(t)
	g := testhelpers.GlassFromRows(6,
		"#####.",
	)
	gen := NewPlacementGenerator(equity.Dellacherie())
	plays := gen.GenAll(g, tetromino.New(tetromino.I))
	var cleared int
	for _, p := range plays {
		if p.Features().LinesRemoved > 0 {
			cleared++
			is.Equal(p.X(), 5)
			is.Equal(p.Rotation()%2, 0)
		}
	}
	is.True(cleared > 0)
	is.Equal(len(g.DroppedCells()), 5)
}

func TestFullGlassHasNoPlays(t *testing.T) {
	is := is.New(t)
	rows := make([]string, 4)
	for i := range rows {
		rows[i] = "####"
	}
	gen := NewPlacementGenerator(equity.Dellacherie())
	plays := gen.GenAll(testhelpers.GlassFromRows(4, rows...), tetromino.New(tetromino.T))
	is.Equal(len(plays), 0)
}

func TestTopPlayOnlyRecorder(t *testing.T) {
	is := is.New(t)
	g := testhelpers.GlassFromRows(8,
		"..#.....",
		"###.##.#",
	)
	profile := equity.Dellacherie()
	gen := NewPlacementGenerator(profile)
	all := gen.GenAll(g, tetromino.New(tetromino.L))

	gen.SetPlayRecorder(TopPlayOnlyRecorder)
	top := gen.GenAll(g, tetromino.New(tetromino.L))
	is.Equal(len(top), 1)

	best := all[0]
	for _, p := range all[1:] {
		if p.Equity() > best.Equity() {
			best = p
		}
	}
	is.Equal(top[0].Rotation(), best.Rotation())
	is.Equal(top[0].X(), best.X())
	is.Equal(top[0].Y(), best.Y())
	is.Equal(top[0].Equity(), profile.Equity(top[0].Features()))
}
