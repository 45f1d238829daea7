// Package features turns a settled glass into the board-quality metrics
// the weight profiles score.
package features

import (
	"fmt"

	"github.com/domino14/tetrisbot/glass"
	"github.com/domino14/tetrisbot/tetromino"
)

// Feature names one entry of a Vector.
type Feature int

const (
	LandingHeight Feature = iota
	ErodedCells
	LinesRemoved
	RowTransitions
	ColTransitions
	Holes
	HoleDepth
	RowsWithHoles
	Wells
	MaxHeight
	SumHeight
	RelativeHeight
	Bumpiness

	numFeatures
)

var featureNames = [numFeatures]string{
	"landing-height",
	"eroded-cells",
	"lines-removed",
	"row-transitions",
	"col-transitions",
	"holes",
	"hole-depth",
	"rows-with-holes",
	"wells",
	"max-height",
	"sum-height",
	"relative-height",
	"bumpiness",
}

func (f Feature) String() string {
	if f < 0 || f >= numFeatures {
		return fmt.Sprintf("feature(%d)", int(f))
	}
	return featureNames[f]
}

// ParseFeature is the inverse of Feature.String.
func ParseFeature(s string) (Feature, error) {
	for i, n := range featureNames {
		if n == s {
			return Feature(i), nil
		}
	}
	return 0, fmt.Errorf("unknown feature %q", s)
}

// All returns every feature in declaration order.
func All() []Feature {
	out := make([]Feature, numFeatures)
	for i := range out {
		out[i] = Feature(i)
	}
	return out
}

// Reported are the metrics the grid engine computes itself while dropping
// a piece. They are passed through, not recomputed.
type Reported struct {
	LandingHeight int
	ErodedCells   int
	LinesRemoved  int
}

// Vector is the full set of metrics for one simulated placement.
type Vector struct {
	Reported

	RowTransitions int
	ColTransitions int
	Holes          int
	HoleDepth      int
	// RowsWithHoles counts columns, not rows, that contain a hole. The
	// weights were tuned against this definition.
	RowsWithHoles  int
	Wells          int
	MaxHeight      int
	SumHeight      int
	RelativeHeight int
	Bumpiness      int

	ColumnHeights []int
}

// Value returns a single feature as a float.
func (v Vector) Value(f Feature) float64 {
	switch f {
	case LandingHeight:
		return float64(v.LandingHeight)
	case ErodedCells:
		return float64(v.ErodedCells)
	case LinesRemoved:
		return float64(v.LinesRemoved)
	case RowTransitions:
		return float64(v.RowTransitions)
	case ColTransitions:
		return float64(v.ColTransitions)
	case Holes:
		return float64(v.Holes)
	case HoleDepth:
		return float64(v.HoleDepth)
	case RowsWithHoles:
		return float64(v.RowsWithHoles)
	case Wells:
		return float64(v.Wells)
	case MaxHeight:
		return float64(v.MaxHeight)
	case SumHeight:
		return float64(v.SumHeight)
	case RelativeHeight:
		return float64(v.RelativeHeight)
	case Bumpiness:
		return float64(v.Bumpiness)
	}
	return 0
}

// Occupancy builds a column-major matrix: grid[x][y] is true when the cell
// is occupied.
func Occupancy(size int, cells []tetromino.Cell) [][]bool {
	grid := make([][]bool, size)
	for x := range grid {
		grid[x] = make([]bool, size)
	}
	for _, c := range cells {
		grid[c.X][c.Y] = true
	}
	return grid
}

// FromModel extracts features from a glass that has just had a piece
// dropped on it.
func FromModel(m glass.Model) Vector {
	return Extract(Occupancy(m.Size(), m.DroppedCells()), Reported{
		LandingHeight: m.LandingHeight(),
		ErodedCells:   m.ErodedCells(),
		LinesRemoved:  m.LinesRemoved(),
	})
}

// Extract computes the geometric features of grid (column-major, row 0 at
// the top) and attaches the reported metrics.
func Extract(grid [][]bool, rep Reported) Vector {
	size := len(grid)
	v := Vector{Reported: rep, ColumnHeights: make([]int, size)}
	if size == 0 {
		return v
	}

	minHeight := size
	for x := 0; x < size; x++ {
		col := grid[x]
		top := -1
		hasHole := false
		for y := 0; y < size; y++ {
			if y > 0 && col[y-1] != col[y] {
				v.ColTransitions++
			}
			switch {
			case col[y] && top == -1:
				top = y
			case !col[y] && top != -1:
				v.Holes++
				v.HoleDepth += y - top
				hasHole = true
			}
		}
		if hasHole {
			v.RowsWithHoles++
		}
		h := 0
		if top != -1 {
			h = size - top
		}
		v.ColumnHeights[x] = h
		v.SumHeight += h
		v.MaxHeight = max(v.MaxHeight, h)
		minHeight = min(minHeight, h)
		if x > 0 {
			v.Bumpiness += abs(h - v.ColumnHeights[x-1])
		}
	}
	v.RelativeHeight = v.MaxHeight - minHeight

	for y := 0; y < size; y++ {
		for x := 1; x < size; x++ {
			if grid[x-1][y] != grid[x][y] {
				v.RowTransitions++
			}
		}
	}

	for x := 1; x < size-1; x++ {
		depth := 0
		for y := 0; y < size; y++ {
			if grid[x-1][y] && !grid[x][y] && grid[x+1][y] {
				depth++
				continue
			}
			v.Wells += depth * (depth + 1) / 2
			depth = 0
		}
		// a run still open at the floor is not a well
	}
	return v
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
