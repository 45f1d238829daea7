package stats

import "gonum.org/v1/gonum/stat/distuv"

// ZVal is the two-tailed critical value of the standard normal for a
// confidence level in percent, e.g. 1.96 for 95.
func ZVal(confidence float64) float64 {
	return distuv.UnitNormal.Quantile((1 + confidence/100) / 2)
}
