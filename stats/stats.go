// Package stats keeps running summaries of self-play results.
package stats

import (
	"fmt"
	"math"
)

const (
	Epsilon = 1e-6
)

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Statistic is a running mean and variance over pushed values, plus the
// extremes seen.
type Statistic struct {
	n        int
	mean     float64
	sqDiff   float64
	min, max float64
}

// Push adds a value using Welford's update.
func (s *Statistic) Push(val float64) {
	s.n++
	if s.n == 1 {
		s.mean, s.sqDiff = val, 0
		s.min, s.max = val, val
		return
	}
	delta := val - s.mean
	s.mean += delta / float64(s.n)
	s.sqDiff += delta * (val - s.mean)
	s.min = math.Min(s.min, val)
	s.max = math.Max(s.max, val)
}

// Merge folds other into s, as if every value pushed to other had been
// pushed to s.
func (s *Statistic) Merge(other *Statistic) {
	if other.n == 0 {
		return
	}
	if s.n == 0 {
		*s = *other
		return
	}
	n := s.n + other.n
	delta := other.mean - s.mean
	s.sqDiff += other.sqDiff + delta*delta*float64(s.n)*float64(other.n)/float64(n)
	s.mean += delta * float64(other.n) / float64(n)
	s.n = n
	s.min = math.Min(s.min, other.min)
	s.max = math.Max(s.max, other.max)
}

func (s *Statistic) Mean() float64 {
	return s.mean
}

func (s *Statistic) Variance() float64 {
	if s.n <= 1 {
		return 0.0
	}
	return s.sqDiff / float64(s.n-1)
}

func (s *Statistic) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

func (s *Statistic) Min() float64 { return s.min }
func (s *Statistic) Max() float64 { return s.max }

// StandardError returns the standard error of the mean.
func (s *Statistic) StandardError() float64 {
	if s.n == 0 {
		return 0
	}
	return math.Sqrt(s.Variance() / float64(s.n))
}

// ConfidenceInterval returns the bounds around the mean for a confidence
// level given in percent.
func (s *Statistic) ConfidenceInterval(confidence float64) (lo, hi float64) {
	margin := ZVal(confidence) * s.StandardError()
	return s.mean - margin, s.mean + margin
}

func (s *Statistic) Iterations() int {
	return s.n
}

func (s *Statistic) String() string {
	lo, hi := s.ConfidenceInterval(95)
	return fmt.Sprintf("n=%d mean=%.2f sd=%.2f min=%.0f max=%.0f 95%%CI=[%.2f, %.2f]",
		s.n, s.mean, s.Stdev(), s.min, s.max, lo, hi)
}
