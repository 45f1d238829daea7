package tetromino

import (
	"testing"

	"github.com/matryer/is"
)

func TestParseKind(t *testing.T) {
	is := is.New(t)
	k, err := ParseKind("blue")
	is.NoErr(err)
	is.Equal(k, I)
	k, err = ParseKind("T")
	is.NoErr(err)
	is.Equal(k, T)
	_, err = ParseKind("X")
	is.True(err != nil)
}

func TestRotatedWraps(t *testing.T) {
	is := is.New(t)
	p := New(L)
	is.Equal(p.Rotated(5).Rotation, 1)
	is.Equal(p.Rotated(-1).Rotation, 3)
	is.Equal(p.Rotation, 0)
}

func TestFourTurnsIsIdentity(t *testing.T) {
	is := is.New(t)
	for k := Kind(0); k < NumKinds; k++ {
		p := New(k)
		is.Equal(p.Offsets(), p.Rotated(4).Offsets())
	}
}

func TestIRotation(t *testing.T) {
	is := is.New(t)
	p := New(I)
	minX, maxX, minY, maxY := p.Extent()
	is.Equal(maxX-minX, 0)
	is.Equal(maxY-minY, 3)

	minX, maxX, minY, maxY = p.Rotated(1).Extent()
	is.Equal(maxX-minX, 3)
	is.Equal(maxY-minY, 0)
}

func TestOIsRotationInvariant(t *testing.T) {
	is := is.New(t)
	p := New(O)
	for r := 1; r < 4; r++ {
		is.Equal(p.Rotated(r).Cells(3, 3), p.Cells(3, 3))
	}
}

func TestCells(t *testing.T) {
	is := is.New(t)
	cells := New(T).Cells(5, 2)
	is.Equal(cells, [4]Cell{{4, 2}, {5, 2}, {6, 2}, {5, 3}})
}
