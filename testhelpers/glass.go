package testhelpers

import (
	"fmt"

	"github.com/domino14/tetrisbot/config"
	"github.com/domino14/tetrisbot/glass"
	"github.com/domino14/tetrisbot/tetromino"
)

var DefaultConfig = config.DefaultConfig()

// GlassFromRows builds a square glass from rows given top first. '#' is
// an occupied cell and anything else is empty. Missing rows at the top are
// filled in as empty, so callers only need to spell out the bottom of the
// stack.
func GlassFromRows(size int, rows ...string) *glass.Glass {
	if len(rows) > size {
		panic(fmt.Sprintf("%d rows do not fit a glass of size %d", len(rows), size))
	}
	g := glass.New(size)
	offset := size - len(rows)
	var cells []tetromino.Cell
	for y, r := range rows {
		if len(r) != size {
			panic(fmt.Sprintf("row %d has width %d, want %d", y, len(r), size))
		}
		for x := 0; x < size; x++ {
			if r[x] == '#' {
				cells = append(cells, tetromino.Cell{X: x, Y: y + offset})
			}
		}
	}
	g.Paint(cells)
	return g
}
