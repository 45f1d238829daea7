package equity

import (
	"github.com/samber/lo"

	"github.com/domino14/tetrisbot/features"
)

// Weight is the coefficient applied to one feature.
type Weight struct {
	Feature     features.Feature
	Coefficient float64
}

// Weights is an ordered list of feature coefficients.
type Weights []Weight

// Score is the weighted sum of the listed features. Features not listed
// contribute nothing.
func Score(v features.Vector, w Weights) float64 {
	return lo.SumBy(w, func(wt Weight) float64 {
		return wt.Coefficient * v.Value(wt.Feature)
	})
}

// Coefficient looks up the weight of a feature.
func (w Weights) Coefficient(f features.Feature) (float64, bool) {
	wt, ok := lo.Find(w, func(wt Weight) bool { return wt.Feature == f })
	return wt.Coefficient, ok
}
