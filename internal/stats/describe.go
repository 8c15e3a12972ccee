// Package stats computes the descriptive aggregates and growth comparisons
// used by the analysis reports. Missing values (NaN) are skipped, matching the
// semantics of the cleaned dataset.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary is the descriptive profile of one group of values.
type Summary struct {
	Count  int
	Mean   float64
	Median float64
	// Std is the sample standard deviation (N-1); NaN when Count < 2.
	Std float64
	Min float64
	Max float64
	Q1  float64
	Q3  float64
}

// Describe summarizes values, ignoring NaN entries. With no usable values the
// count is zero and every statistic is NaN.
func Describe(values []float64) Summary {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}

	if len(valid) == 0 {
		nan := math.NaN()
		return Summary{Count: 0, Mean: nan, Median: nan, Std: nan, Min: nan, Max: nan, Q1: nan, Q3: nan}
	}

	sort.Float64s(valid)
	return Summary{
		Count:  len(valid),
		Mean:   stat.Mean(valid, nil),
		Median: stat.Quantile(0.5, stat.LinInterp, valid, nil),
		Std:    stat.StdDev(valid, nil),
		Min:    valid[0],
		Max:    valid[len(valid)-1],
		Q1:     stat.Quantile(0.25, stat.LinInterp, valid, nil),
		Q3:     stat.Quantile(0.75, stat.LinInterp, valid, nil),
	}
}

// MeanOf is Describe restricted to the arithmetic mean; NaN with no usable
// values.
func MeanOf(values []float64) float64 {
	valid := values[:0:0]
	for _, v := range values {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	if len(valid) == 0 {
		return math.NaN()
	}
	return stat.Mean(valid, nil)
}
