package reshape

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/clean"
	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/stats"
)

type PivotSuite struct {
	suite.Suite
}

func TestPivotSuite(t *testing.T) {
	suite.Run(t, new(PivotSuite))
}

func rec(country, disorder string, sex, age string, year int, value clean.Float) clean.Record {
	return clean.Record{
		Measure:  "Prevalence",
		Country:  country,
		Sex:      sex,
		AgeGroup: age,
		Disorder: disorder,
		Year:     year,
		Metric:   "Percent",
		Value:    value,
	}
}

func (s *PivotSuite) TestPivot() {
	records := []clean.Record{
		rec("Japan", "Anxiety disorders", "Both", "All ages", 2021, 0.02),
		rec("Canada", "Anxiety disorders", "Both", "All ages", 2021, 0.04),
		rec("Canada", "Anxiety disorders", "Both", "All ages", 2020, 0.02),
		rec("Canada", "Schizophrenia", "Both", "All ages", 2021, 0.01),
	}
	m := Pivot(records, stats.ByCountry, stats.ByDisorder, stats.ObservedValue)

	s.Run("axes follow first appearance", func() {
		s.Equal([]string{"Japan", "Canada"}, m.Rows())
		s.Equal([]string{"Anxiety disorders", "Schizophrenia"}, m.Cols())
	})

	s.Run("cells hold the mean of observed values", func() {
		s.InDelta(0.03, m.Value("Canada", "Anxiety disorders"), 1e-12)
		s.InDelta(0.02, m.Value("Japan", "Anxiety disorders"), 1e-12)
	})

	s.Run("empty and unknown cells read as zero", func() {
		s.Zero(m.Value("Japan", "Schizophrenia"))
		s.Zero(m.Value("Atlantis", "Anxiety disorders"))
	})

	s.Run("missing values contribute nothing", func() {
		withMissing := Pivot([]clean.Record{
			rec("Canada", "Anxiety disorders", "Both", "All ages", 2021, clean.Missing),
			rec("Canada", "Anxiety disorders", "Both", "All ages", 2021, 0.04),
		}, stats.ByCountry, stats.ByDisorder, stats.ObservedValue)
		s.InDelta(0.04, withMissing.Value("Canada", "Anxiety disorders"), 1e-12)
	})

	s.Run("flatten lists only observed cells, row-major", func() {
		cells := m.Flatten()
		s.Require().Len(cells, 3)
		s.Equal(Cell{Row: "Japan", Col: "Anxiety disorders", Mean: 0.02}, cells[0])
		s.Equal("Canada", cells[1].Row)
	})
}

func (s *PivotSuite) TestSort() {
	m := Pivot([]clean.Record{
		rec("Japan", "Schizophrenia", "Both", "All ages", 2021, 0.01),
		rec("Canada", "Anxiety disorders", "Both", "All ages", 2021, 0.04),
	}, stats.ByCountry, stats.ByDisorder, stats.ObservedValue)
	m.Sort()

	s.Equal([]string{"Canada", "Japan"}, m.Rows())
	s.Equal([]string{"Anxiety disorders", "Schizophrenia"}, m.Cols())
	// Values follow their labels through the sort.
	s.InDelta(0.04, m.Value("Canada", "Anxiety disorders"), 1e-12)
	s.InDelta(0.01, m.Value("Japan", "Schizophrenia"), 1e-12)
	s.Zero(m.Value("Canada", "Schizophrenia"))
}

func (s *PivotSuite) TestWriteCSV() {
	m := Pivot([]clean.Record{
		rec("Canada", "Anxiety disorders", "Both", "All ages", 2021, 0.04),
		rec("Japan", "Schizophrenia", "Both", "All ages", 2021, 0.01),
	}, stats.ByCountry, stats.ByDisorder, stats.ObservedValue)
	m.Sort()

	var buf bytes.Buffer
	s.Require().NoError(m.WriteCSV(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	s.Require().Len(lines, 3)
	s.Equal("country,Anxiety disorders,Schizophrenia", lines[0])
	s.Equal("Canada,0.04,0", lines[1])
	s.Equal("Japan,0,0.01", lines[2])
}

func (s *PivotSuite) TestShapes() {
	records := []clean.Record{
		rec("Canada", "Anxiety disorders", "Male", "15-19", 2021, 0.03),
		rec("Canada", "Anxiety disorders", "Female", "15-19", 2021, 0.05),
		rec("Canada", "Schizophrenia", "Male", "15-19", 2021, 0.01),
	}

	s.Run("disorder-country matrix", func() {
		m := DisorderCountryMatrix(records)
		s.Equal("country", m.RowName)
		s.Equal("disorder", m.ColName)
		s.InDelta(0.04, m.Value("Canada", "Anxiety disorders"), 1e-12)
	})

	s.Run("temporal trends are long-form groups", func() {
		groups := TemporalTrends(records)
		s.Require().Len(groups, 2)
		s.Equal([]string{"2021", "Anxiety disorders", "Prevalence"}, groups[0].Parts)
		s.Equal(2, groups[0].Summary.Count)
	})

	s.Run("one demographic matrix per disorder", func() {
		matrices := DemographicMatrices(records)
		s.Require().Len(matrices, 2)
		s.Equal("Anxiety disorders", matrices[0].Disorder)
		s.InDelta(0.03, matrices[0].Matrix.Value("15-19", "Male"), 1e-12)
		s.InDelta(0.05, matrices[0].Matrix.Value("15-19", "Female"), 1e-12)
		s.Equal("Schizophrenia", matrices[1].Disorder)
	})
}
