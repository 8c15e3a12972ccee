package reshape

import (
	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/clean"
	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/stats"
)

// DisorderCountryMatrix pivots mean values into a country × disorder matrix.
func DisorderCountryMatrix(records []clean.Record) *Matrix {
	return Pivot(records, stats.ByCountry, stats.ByDisorder, stats.ObservedValue)
}

// TemporalTrends aggregates mean/median/std/count per (year, disorder,
// measure), in long form for time-series consumers.
func TemporalTrends(records []clean.Record) []stats.Group {
	return stats.Aggregate(records, stats.ObservedValue, stats.ByYear, stats.ByDisorder, stats.ByMeasure)
}

// DisorderMatrix pairs a disorder with its age × sex demographic matrix.
type DisorderMatrix struct {
	Disorder string
	Matrix   *Matrix
}

// DemographicMatrices builds one age-group × sex matrix per disorder, in
// first-seen disorder order.
func DemographicMatrices(records []clean.Record) []DisorderMatrix {
	var order []string
	byDisorder := make(map[string][]clean.Record)
	for _, rec := range records {
		if _, ok := byDisorder[rec.Disorder]; !ok {
			order = append(order, rec.Disorder)
		}
		byDisorder[rec.Disorder] = append(byDisorder[rec.Disorder], rec)
	}

	out := make([]DisorderMatrix, 0, len(order))
	for _, disorder := range order {
		out = append(out, DisorderMatrix{
			Disorder: disorder,
			Matrix:   Pivot(byDisorder[disorder], stats.ByAgeGroup, stats.BySex, stats.ObservedValue),
		})
	}
	return out
}
