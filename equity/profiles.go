package equity

import (
	"errors"
	"fmt"

	"github.com/domino14/tetrisbot/features"
	"github.com/domino14/tetrisbot/tetromino"
)

const (
	DellacherieProfileName = "dellacherie"
	SimpleProfileName      = "simple"
)

var ErrUnknownProfile = errors.New("unknown profile")

// StaticProfile is a Profile with fixed values.
type StaticProfile struct {
	name               string
	rotations          int
	restrictLastColumn bool
	weights            Weights
	override           *Override
}

func NewStaticProfile(name string, rotations int, restrictLastColumn bool,
	weights Weights, override *Override) *StaticProfile {
	return &StaticProfile{
		name:               name,
		rotations:          rotations,
		restrictLastColumn: restrictLastColumn,
		weights:            weights,
		override:           override,
	}
}

func (p *StaticProfile) Name() string             { return p.name }
func (p *StaticProfile) Rotations() int           { return p.rotations }
func (p *StaticProfile) RestrictLastColumn() bool { return p.restrictLastColumn }
func (p *StaticProfile) Weights() Weights         { return p.weights }
func (p *StaticProfile) Override() *Override      { return p.override }

func (p *StaticProfile) Equity(v features.Vector) float64 {
	return Score(v, p.weights)
}

func (p *StaticProfile) String() string {
	return fmt.Sprintf("<profile %s rotations=%d restrict-last-column=%v weights=%d>",
		p.name, p.rotations, p.restrictLastColumn, len(p.weights))
}

// Dellacherie returns the eight-feature profile. It searches all four
// rotations over the whole glass.
func Dellacherie() *StaticProfile {
	return NewStaticProfile(DellacherieProfileName, 4, false, Weights{
		{features.LandingHeight, -12.63},
		{features.ErodedCells, 6.60},
		{features.RowTransitions, -9.22},
		{features.ColTransitions, -19.77},
		{features.Holes, -13.08},
		{features.Wells, -10.49},
		{features.HoleDepth, -1.61},
		{features.RowsWithHoles, -24.04},
	}, &Override{Kind: tetromino.I, Rotation: 0, FromRight: 0})
}

// Simple returns the six-feature height/holes profile. It searches three
// rotations and stays out of the last column, matching servers that
// refuse some moves next to the right wall.
func Simple() *StaticProfile {
	return NewStaticProfile(SimpleProfileName, 3, true, Weights{
		{features.LinesRemoved, 0.760666},
		{features.MaxHeight, -0.2},
		{features.SumHeight, -0.510066},
		{features.RelativeHeight, -0.1},
		{features.Holes, -0.35663},
		{features.Bumpiness, -0.184483},
	}, &Override{Kind: tetromino.I, Rotation: 0, FromRight: 0})
}

// Builtin returns one of the compiled-in profiles by name.
func Builtin(name string) (*StaticProfile, error) {
	switch name {
	case DellacherieProfileName:
		return Dellacherie(), nil
	case SimpleProfileName:
		return Simple(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
}
