package stats

import (
	"strconv"
	"strings"

	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/clean"
)

// Dimension names a grouping attribute and extracts its label from a record.
type Dimension struct {
	Name string
	Of   func(clean.Record) string
}

// Standard dimensions of the cleaned dataset.
var (
	ByMeasure  = Dimension{Name: "measure", Of: func(r clean.Record) string { return r.Measure }}
	ByCountry  = Dimension{Name: "country", Of: func(r clean.Record) string { return r.Country }}
	BySex      = Dimension{Name: "sex", Of: func(r clean.Record) string { return r.Sex }}
	ByAgeGroup = Dimension{Name: "age_group", Of: func(r clean.Record) string { return r.AgeGroup }}
	ByDisorder = Dimension{Name: "disorder", Of: func(r clean.Record) string { return r.Disorder }}
	ByYear     = Dimension{Name: "year", Of: func(r clean.Record) string { return strconv.Itoa(r.Year) }}
)

// Value extracts the measured quantity of a record.
type Value func(clean.Record) clean.Float

// ObservedValue is the default Value: the central estimate.
func ObservedValue(r clean.Record) clean.Float { return r.Value }

// Group is one row of an aggregate result: the label for each grouping
// dimension plus the descriptive summary of the group's values.
type Group struct {
	Parts   []string
	Summary Summary
}

// Key joins the group labels for map lookups and stable test assertions.
func (g Group) Key() string { return strings.Join(g.Parts, "|") }

// Aggregate groups records by the given dimensions and describes each group's
// values. Group order follows the first appearance of each key combination in
// the input, so aggregate content is independent of input order while row
// order is reproducible for a given source.
func Aggregate(records []clean.Record, value Value, dims ...Dimension) []Group {
	if len(dims) == 0 || value == nil {
		return nil
	}

	order := make([]string, 0)
	parts := make(map[string][]string)
	values := make(map[string][]float64)

	for _, rec := range records {
		p := make([]string, len(dims))
		for i, d := range dims {
			p[i] = d.Of(rec)
		}
		key := strings.Join(p, "\x1f")
		if _, ok := values[key]; !ok {
			order = append(order, key)
			parts[key] = p
		}
		values[key] = append(values[key], float64(value(rec)))
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{Parts: parts[key], Summary: Describe(values[key])})
	}
	return groups
}

// Filter returns the records matching pred, preserving order.
func Filter(records []clean.Record, pred func(clean.Record) bool) []clean.Record {
	var out []clean.Record
	for _, rec := range records {
		if pred(rec) {
			out = append(out, rec)
		}
	}
	return out
}
