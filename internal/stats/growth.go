package stats

import (
	"encoding/json"
	"math"

	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/clean"
)

// Ratio is a tagged growth outcome. Undefined (rather than infinite or zero)
// when the baseline mean is exactly zero.
type Ratio struct {
	Defined bool
	Percent float64
}

// MarshalJSON renders undefined outcomes as null, never as Inf or 0.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(r.Percent)
}

// UnmarshalJSON accepts null or a number.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Ratio{}
		return nil
	}
	r.Defined = true
	return json.Unmarshal(data, &r.Percent)
}

// Growth compares one key's mean value at a baseline year against a later
// comparison year.
type Growth struct {
	Key            string
	BaselineMean   float64
	LatestMean     float64
	AbsoluteChange float64
	RelativeGrowth Ratio
}

// GrowthBetween computes per-key growth from baselineYear to latestYear over
// the dim attribute. A key absent from either endpoint year, or with no
// usable values at an endpoint, is excluded (inner-join semantics).
func GrowthBetween(records []clean.Record, dim Dimension, value Value, baselineYear, latestYear int) []Growth {
	order := make([]string, 0)
	baseline := make(map[string][]float64)
	latest := make(map[string][]float64)

	for _, rec := range records {
		if rec.Year != baselineYear && rec.Year != latestYear {
			continue
		}
		key := dim.Of(rec)
		if _, b := baseline[key]; !b {
			if _, l := latest[key]; !l {
				order = append(order, key)
			}
		}
		if rec.Year == baselineYear {
			baseline[key] = append(baseline[key], float64(value(rec)))
		} else {
			latest[key] = append(latest[key], float64(value(rec)))
		}
	}

	var out []Growth
	for _, key := range order {
		b := MeanOf(baseline[key])
		l := MeanOf(latest[key])
		if math.IsNaN(b) || math.IsNaN(l) {
			continue
		}
		g := Growth{
			Key:            key,
			BaselineMean:   b,
			LatestMean:     l,
			AbsoluteChange: l - b,
		}
		if b != 0 {
			g.RelativeGrowth = Ratio{Defined: true, Percent: (l - b) / b * 100}
		}
		out = append(out, g)
	}
	return out
}

// TrendCategory buckets a growth outcome the way the exported trend reports
// label it. Undefined outcomes get their own bucket instead of masquerading
// as decline.
func TrendCategory(r Ratio) string {
	switch {
	case !r.Defined:
		return "Undefined"
	case r.Percent > 20:
		return "High Growth"
	case r.Percent > 10:
		return "Moderate Growth"
	case r.Percent > 0:
		return "Low Growth"
	default:
		return "Decline"
	}
}
