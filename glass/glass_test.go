package glass_test

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/tetrisbot/glass"
	"github.com/domino14/tetrisbot/testhelpers"
	"github.com/domino14/tetrisbot/tetromino"
)

func TestAccept(t *testing.T) {
	is := is.New(t)
	g := testhelpers.GlassFromRows(6,
		"#.....",
		"##....",
	)
	o := tetromino.New(tetromino.O)
	is.True(g.Accept(o, 2, 4, false))
	is.True(!g.Accept(o, 1, 4, false)) // collides at (1,5)
	is.True(!g.Accept(o, 5, 0, false)) // sticks out on the right
	is.True(g.Accept(o, 4, 0, false))
	is.True(!g.Accept(o, 4, 0, true)) // touches the last column
	is.True(!g.Accept(tetromino.New(tetromino.I), 3, 0, false))
}

func TestDropFallsAndSettles(t *testing.T) {
	is := is.New(t)
	g := glass.New(6)
	g.Drop(tetromino.New(tetromino.O), 0, 0)
	is.Equal(g.DroppedCells(), []tetromino.Cell{{X: 0, Y: 4}, {X: 1, Y: 4}, {X: 0, Y: 5}, {X: 1, Y: 5}})
	is.Equal(g.LinesRemoved(), 0)
	is.Equal(g.ErodedCells(), 0)
	is.Equal(g.LandingHeight(), 0)

	g.Drop(tetromino.New(tetromino.O), 1, 0)
	is.Equal(g.LandingHeight(), 2)
	is.True(g.Occupied(2, 2))
	is.True(!g.Occupied(2, 4))
}

func TestDropClearsLines(t *testing.T) {
	is := is.New(t)
	g := testhelpers.GlassFromRows(6,
		"#.....",
		"####..",
		"####..",
	)
	g.Drop(tetromino.New(tetromino.O), 4, 0)
	is.Equal(g.LinesRemoved(), 2)
	is.Equal(g.ErodedCells(), 2*4)
	// the lone block from the top of the stack fell two rows
	is.Equal(g.DroppedCells(), []tetromino.Cell{{X: 0, Y: 5}})
}

func TestCloneIsIndependent(t *testing.T) {
	is := is.New(t)
	g := testhelpers.GlassFromRows(6, "##....")
	c := g.Clone()
	c.Drop(tetromino.New(tetromino.O), 3, 0)
	is.Equal(len(g.DroppedCells()), 2)
	is.Equal(len(c.DroppedCells()), 6)
}

func TestOverlay(t *testing.T) {
	is := is.New(t)
	g := glass.New(6)
	p := tetromino.New(tetromino.T)
	g.SetActiveOverlay(&p, 2, 0)
	is.Equal(g.ActiveOverlayCells(), []tetromino.Cell{{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}, {X: 2, Y: 1}})

	// cells outside the glass are left out
	i := tetromino.New(tetromino.I)
	g.SetActiveOverlay(&i, 0, 0)
	is.Equal(len(g.ActiveOverlayCells()), 3)

	g.SetActiveOverlay(nil, 0, 0)
	is.Equal(len(g.ActiveOverlayCells()), 0)
}

func TestVacate(t *testing.T) {
	is := is.New(t)
	g := testhelpers.GlassFromRows(6, "###...")
	g.Vacate([]tetromino.Cell{{X: 1, Y: 5}, {X: 9, Y: 9}})
	is.Equal(g.DroppedCells(), []tetromino.Cell{{X: 0, Y: 5}, {X: 2, Y: 5}})
}

func TestFourLinesClearable(t *testing.T) {
	is := is.New(t)
	g := testhelpers.GlassFromRows(6,
		"#####.",
		"#####.",
		"#####.",
		"#####.",
	)
	is.True(g.FourLinesClearable())

	covered := testhelpers.GlassFromRows(6,
		".....#",
		"#####.",
		"#####.",
		"#####.",
		"#####.",
	)
	is.True(!covered.FourLinesClearable())

	ragged := testhelpers.GlassFromRows(6,
		"#####.",
		"####.#",
		"#####.",
		"#####.",
	)
	is.True(!ragged.FourLinesClearable())

	// the gap has to be on the right wall
	inside := testhelpers.GlassFromRows(6,
		"###.##",
		"###.##",
		"###.##",
		"###.##",
	)
	is.True(!inside.FourLinesClearable())

	is.True(!glass.New(6).FourLinesClearable())
}

func TestVerticalIClearsFour(t *testing.T) {
	is := is.New(t)
	g := testhelpers.GlassFromRows(6,
		"#####.",
		"#####.",
		"#####.",
		"#####.",
	)
	g.Drop(tetromino.New(tetromino.I), 5, 1)
	is.Equal(g.LinesRemoved(), 4)
	is.Equal(g.ErodedCells(), 16)
	is.Equal(len(g.DroppedCells()), 0)
}

func TestDropThatDoesNotFitIsNoop(t *testing.T) {
	is := is.New(t)
	g := testhelpers.GlassFromRows(6,
		"####..",
	)
	g.Drop(tetromino.New(tetromino.O), 4, 0)
	is.Equal(g.LinesRemoved(), 1)

	before := g.DroppedCells()
	g.Drop(tetromino.New(tetromino.O), 5, 0) // sticks out on the right
	is.Equal(g.DroppedCells(), before)
	is.Equal(g.LinesRemoved(), 0)
	is.Equal(g.ErodedCells(), 0)
	is.Equal(g.LandingHeight(), 0)
}
