package warehouse

import (
	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/clean"
)

// FactRow is an observation with every categorical field resolved to its
// dimension identifier.
type FactRow struct {
	CountryID  int64
	DisorderID int64
	MeasureID  int64
	AgeGroupID int64
	SexID      int64
	Year       int
	Value      clean.Float
	UpperBound clean.Float
	LowerBound clean.Float
}

// DimensionSet is the immutable-after-build lookup from categorical values to
// surrogate identifiers. It is built once per load and threaded through the
// fact-mapping stage; nothing mutates it afterwards.
type DimensionSet struct {
	countries map[string]int64
	disorders map[string]int64
	measures  map[string]int64
	ageGroups map[string]int64
	sexes     map[string]int64
}

// Map resolves a record's categorical values. The second result is false when
// any value is absent from the dimension set; such rows are dropped by the
// loader, not retried.
func (s *DimensionSet) Map(rec clean.Record) (FactRow, bool) {
	countryID, ok1 := s.countries[rec.Country]
	disorderID, ok2 := s.disorders[rec.Disorder]
	measureID, ok3 := s.measures[rec.Measure]
	ageGroupID, ok4 := s.ageGroups[rec.AgeGroup]
	sexID, ok5 := s.sexes[rec.Sex]
	if !(ok1 && ok2 && ok3 && ok4 && ok5) {
		return FactRow{}, false
	}
	return FactRow{
		CountryID:  countryID,
		DisorderID: disorderID,
		MeasureID:  measureID,
		AgeGroupID: ageGroupID,
		SexID:      sexID,
		Year:       rec.Year,
		Value:      rec.Value,
		UpperBound: rec.UpperBound,
		LowerBound: rec.LowerBound,
	}, true
}

// Counts reports the cardinality of each dimension.
func (s *DimensionSet) Counts() DimensionCounts {
	return DimensionCounts{
		Countries: len(s.countries),
		Disorders: len(s.disorders),
		Measures:  len(s.measures),
		AgeGroups: len(s.ageGroups),
		Sexes:     len(s.sexes),
	}
}

// DimensionCounts is the per-dimension cardinality of a DimensionSet.
type DimensionCounts struct {
	Countries int
	Disorders int
	Measures  int
	AgeGroups int
	Sexes     int
}

// distinct accumulates first-seen distinct values per categorical field while
// the bounded dimension scan runs.
type distinct struct {
	countries *orderedSet
	disorders *orderedSet
	measures  *orderedSet
	ageGroups *orderedSet
	sexes     *orderedSet
}

func newDistinct() *distinct {
	return &distinct{
		countries: newOrderedSet(),
		disorders: newOrderedSet(),
		measures:  newOrderedSet(),
		ageGroups: newOrderedSet(),
		sexes:     newOrderedSet(),
	}
}

func (d *distinct) add(rec clean.Record) {
	d.countries.add(rec.Country)
	d.disorders.add(rec.Disorder)
	d.measures.add(rec.Measure)
	d.ageGroups.add(rec.AgeGroup)
	d.sexes.add(rec.Sex)
}

type orderedSet struct {
	seen   map[string]bool
	values []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool)}
}

func (s *orderedSet) add(v string) {
	if v == "" || s.seen[v] {
		return
	}
	s.seen[v] = true
	s.values = append(s.values, v)
}
