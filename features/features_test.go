package features_test

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/tetrisbot/features"
	"github.com/domino14/tetrisbot/glass"
	"github.com/domino14/tetrisbot/testhelpers"
	"github.com/domino14/tetrisbot/tetromino"
)

func extract(g *glass.Glass) features.Vector {
	return features.FromModel(g)
}

func TestEmptyGlass(t *testing.T) {
	is := is.New(t)
	v := extract(glass.New(18))
	is.Equal(v.Holes, 0)
	is.Equal(v.Wells, 0)
	is.Equal(v.Bumpiness, 0)
	is.Equal(v.RowTransitions, 0)
	is.Equal(v.ColTransitions, 0)
	is.Equal(v.SumHeight, 0)
	is.Equal(v.MaxHeight, 0)
	is.Equal(v.RelativeHeight, 0)
	is.Equal(len(v.ColumnHeights), 18)
}

func TestHeightsAndBumpiness(t *testing.T) {
	is := is.New(t)
	g := testhelpers.GlassFromRows(6,
		"#.....",
		"#..#..",
		"##.#..",
	)
	v := extract(g)
	is.Equal(v.ColumnHeights, []int{3, 1, 0, 2, 0, 0})
	is.Equal(v.SumHeight, 6)
	is.Equal(v.MaxHeight, 3)
	is.Equal(v.RelativeHeight, 3)
	is.Equal(v.Bumpiness, 2+1+2+2+0)
	is.Equal(v.Holes, 0)
}

func TestHoles(t *testing.T) {
	is := is.New(t)
	g := testhelpers.GlassFromRows(6,
		"#.....",
		"..#...",
		"#.#...",
		"......",
	)
	v := extract(g)
	// column 0: top at y=2, holes at y=3 and y=5
	// column 2: top at y=3, hole at y=5
	is.Equal(v.Holes, 3)
	is.Equal(v.HoleDepth, (3-2)+(5-2)+(5-3))
	is.Equal(v.RowsWithHoles, 2)
}

func TestRowsWithHolesCountsColumns(t *testing.T) {
	is := is.New(t)
	// one column with holes on two separate rows is counted once
	g := testhelpers.GlassFromRows(6,
		"#.....",
		"......",
		"#.....",
		"......",
	)
	v := extract(g)
	is.Equal(v.Holes, 2)
	is.Equal(v.RowsWithHoles, 1)
}

func TestTransitions(t *testing.T) {
	is := is.New(t)
	g := testhelpers.GlassFromRows(4,
		"#.#.",
	)
	v := extract(g)
	is.Equal(v.RowTransitions, 3)
	// columns 0 and 2 go empty -> full between y=2 and y=3
	is.Equal(v.ColTransitions, 2)
}

func TestWells(t *testing.T) {
	is := is.New(t)
	g := testhelpers.GlassFromRows(6,
		"#.#...",
		"#.#...",
		"###.#.",
	)
	v := extract(g)
	// column 1: depth 2 -> 3; column 3 runs down to the floor -> 0
	is.Equal(v.Wells, 3)
}

func TestFloorWellIsNotCounted(t *testing.T) {
	is := is.New(t)
	g := glass.New(6)
	g.Paint([]tetromino.Cell{{X: 0, Y: 5}, {X: 2, Y: 5}})
	is.Equal(extract(g).Wells, 0)

	// closing the bottom of the same gap makes it a well of depth 1
	closed := testhelpers.GlassFromRows(6,
		"#.#...",
		"###...",
	)
	is.Equal(extract(closed).Wells, 1)
}

func TestReportedPassThrough(t *testing.T) {
	is := is.New(t)
	g := testhelpers.GlassFromRows(6,
		"####..",
	)
	g.Drop(tetromino.New(tetromino.O), 4, 0)
	v := extract(g)
	is.Equal(v.LinesRemoved, 1)
	is.Equal(v.ErodedCells, 2)
	is.Equal(v.Value(features.LinesRemoved), 1.0)
	is.Equal(v.ColumnHeights, []int{0, 0, 0, 0, 1, 1})
}

func TestAddingTopCellRaisesColumn(t *testing.T) {
	is := is.New(t)
	rows := []string{
		"......",
		"......",
		"#.....",
		"#.#...",
		"#.#.#.",
	}
	before := extract(testhelpers.GlassFromRows(6, rows...))
	rows[0] = "..#..."
	after := extract(testhelpers.GlassFromRows(6, rows...))

	// top of column 2 moves from y=4 to y=1
	is.Equal(after.ColumnHeights[2]-before.ColumnHeights[2], 3)
	for x := range before.ColumnHeights {
		if x != 2 {
			is.Equal(after.ColumnHeights[x], before.ColumnHeights[x])
		}
	}
	is.True(after.Holes >= before.Holes)
}

func TestParseFeature(t *testing.T) {
	is := is.New(t)
	for _, f := range features.All() {
		parsed, err := features.ParseFeature(f.String())
		is.NoErr(err)
		is.Equal(parsed, f)
	}
	_, err := features.ParseFeature("nope")
	is.True(err != nil)
}
