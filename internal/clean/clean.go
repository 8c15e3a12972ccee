// Package clean turns raw extract rows into typed, deduplicated records under
// the cleaned column names.
package clean

import (
	"strconv"
	"strings"

	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/dataset"
)

// ageSuffix is stripped from age-group labels ("15-19 years" -> "15-19").
const ageSuffix = " years"

// Record is one cleaned observation. CSV tags carry the cleaned column names
// used by every downstream artifact.
type Record struct {
	Measure    string `csv:"measure"`
	Country    string `csv:"country"`
	Sex        string `csv:"sex"`
	AgeGroup   string `csv:"age_group"`
	Disorder   string `csv:"disorder"`
	Year       int    `csv:"year"`
	Metric     string `csv:"metric"`
	Value      Float  `csv:"value"`
	UpperBound Float  `csv:"upper_bound"`
	LowerBound Float  `csv:"lower_bound"`
}

// IntervalWidth is the width of the uncertainty interval.
func (r Record) IntervalWidth() Float {
	return r.UpperBound - r.LowerBound
}

// RelativeUncertainty is the interval width relative to the value. Missing
// when any operand is missing or the value is zero.
func (r Record) RelativeUncertainty() Float {
	if r.Value == 0 {
		return Missing
	}
	return r.IntervalWidth() / r.Value
}

// Report summarizes what cleaning did; the pipeline prints it rather than
// discarding rows silently.
type Report struct {
	RowsIn            int
	RowsOut           int
	DuplicatesRemoved int
	InvalidYears      int
	// Missing counts numeric cells coerced to missing, by cleaned column.
	Missing map[string]int
}

// TotalMissing sums coerced cells across columns.
func (r Report) TotalMissing() int {
	total := 0
	for _, n := range r.Missing {
		total += n
	}
	return total
}

// Clean retypes rows, coerces unparseable numerics to missing, drops exact
// duplicates, and strips the age-label suffix. Row order is preserved for the
// first occurrence of each distinct row. Cleaning is idempotent: cleaning an
// already-clean table changes nothing.
func Clean(rows []dataset.Row) ([]Record, Report) {
	report := Report{
		RowsIn:  len(rows),
		Missing: map[string]int{"value": 0, "upper_bound": 0, "lower_bound": 0},
	}

	pool := newInternPool()
	records := make([]Record, 0, len(rows))
	seen := make(map[string]bool, len(rows))

	for _, row := range rows {
		rec, ok := convert(row, pool)
		if !ok {
			// A row without a usable year has no aggregation key.
			report.InvalidYears++
			continue
		}
		for _, col := range []string{"value", "upper_bound", "lower_bound"} {
			if rec.field(col).Missing() {
				report.Missing[col]++
			}
		}

		key := rec.dedupeKey()
		if seen[key] {
			report.DuplicatesRemoved++
			continue
		}
		seen[key] = true
		records = append(records, rec)
	}

	report.RowsOut = len(records)
	return records, report
}

// ConvertBatch retypes rows without deduplication; the warehouse loader uses
// it to process the full source batch by batch. The second result counts rows
// dropped for an unparseable year.
func ConvertBatch(rows []dataset.Row) ([]Record, int) {
	pool := newInternPool()
	records := make([]Record, 0, len(rows))
	invalid := 0
	for _, row := range rows {
		rec, ok := convert(row, pool)
		if !ok {
			invalid++
			continue
		}
		records = append(records, rec)
	}
	return records, invalid
}

func convert(row dataset.Row, pool internPool) (Record, bool) {
	year, err := strconv.Atoi(strings.TrimSpace(row.Year))
	if err != nil {
		return Record{}, false
	}
	return Record{
		Measure:    pool.get(row.Measure),
		Country:    pool.get(row.Country),
		Sex:        pool.get(row.Sex),
		AgeGroup:   pool.get(strings.ReplaceAll(row.AgeGroup, ageSuffix, "")),
		Disorder:   pool.get(row.Disorder),
		Year:       year,
		Metric:     pool.get(row.Metric),
		Value:      ParseFloat(row.Value),
		UpperBound: ParseFloat(row.Upper),
		LowerBound: ParseFloat(row.Lower),
	}, true
}

func (r Record) field(column string) Float {
	switch column {
	case "value":
		return r.Value
	case "upper_bound":
		return r.UpperBound
	default:
		return r.LowerBound
	}
}

// dedupeKey renders every field, with missing values formatted identically,
// so exact duplicates collapse even when they contain missing cells.
func (r Record) dedupeKey() string {
	var b strings.Builder
	for _, part := range []string{
		r.Measure, r.Country, r.Sex, r.AgeGroup, r.Disorder,
		strconv.Itoa(r.Year), r.Metric,
		r.Value.text(), r.UpperBound.text(), r.LowerBound.text(),
	} {
		b.WriteString(part)
		b.WriteByte('\x1f')
	}
	return b.String()
}

// internPool deduplicates categorical strings so the cleaned slice keeps one
// backing copy per distinct label.
type internPool map[string]string

func newInternPool() internPool { return make(internPool) }

func (p internPool) get(s string) string {
	if v, ok := p[s]; ok {
		return v
	}
	p[s] = s
	return s
}
