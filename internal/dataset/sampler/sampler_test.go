package sampler

import (
	"io"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/dataset"
)

type SamplerSuite struct {
	suite.Suite
	log *zap.SugaredLogger
}

func TestSamplerSuite(t *testing.T) {
	suite.Run(t, new(SamplerSuite))
}

func (s *SamplerSuite) SetupSuite() {
	s.log = zap.NewNop().Sugar()
}

// sliceSource replays a fixed set of rows batch by batch.
type sliceSource struct {
	rows []dataset.Row
	pos  int
}

func (s *sliceSource) ReadBatch(n int) ([]dataset.Row, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	end := s.pos + n
	if end > len(s.rows) {
		end = len(s.rows)
	}
	batch := s.rows[s.pos:end]
	s.pos = end
	return batch, nil
}

func measureRows(measure string, n int) []dataset.Row {
	rows := make([]dataset.Row, n)
	for i := range rows {
		rows[i] = dataset.Row{Measure: measure, Year: "2021"}
	}
	return rows
}

func (s *SamplerSuite) TestStratified() {
	s.Run("draws the quota for each satisfiable measure", func() {
		rows := append(measureRows("Prevalence", 10), measureRows("Incidence", 10)...)
		res, err := Stratified(&sliceSource{rows: rows}, Config{
			TargetMeasures: []string{"Prevalence", "Incidence"},
			PerMeasure:     5,
			BatchSize:      20,
		}, s.log)
		s.Require().NoError(err)

		s.Len(res.Rows, 10)
		s.Equal(5, res.Satisfied["Prevalence"])
		s.Equal(5, res.Satisfied["Incidence"])
		s.Empty(res.Unsatisfied)
		s.False(res.Fallback)
	})

	s.Run("quota must be met within a single batch", func() {
		// Eight matching rows split 4/4 across two batches never satisfy a
		// quota of five.
		rows := measureRows("Prevalence", 8)
		res, err := Stratified(&sliceSource{rows: rows}, Config{
			TargetMeasures: []string{"Prevalence"},
			PerMeasure:     5,
			BatchSize:      4,
			FallbackRows:   3,
		}, s.log)
		s.Require().NoError(err)

		s.Equal([]string{"Prevalence"}, res.Unsatisfied)
		s.True(res.Fallback)
		s.Len(res.Rows, 3)
	})

	s.Run("stops scanning once every measure is satisfied", func() {
		rows := append(measureRows("Prevalence", 10), measureRows("Incidence", 1000)...)
		res, err := Stratified(&sliceSource{rows: rows}, Config{
			TargetMeasures: []string{"Prevalence"},
			PerMeasure:     5,
			BatchSize:      10,
		}, s.log)
		s.Require().NoError(err)
		s.Equal(10, res.RowsScanned)
	})

	s.Run("same seed draws the same sample", func() {
		rows := make([]dataset.Row, 100)
		for i := range rows {
			rows[i] = dataset.Row{Measure: "Prevalence", Year: "2021", Value: string(rune('a' + i%26))}
		}
		cfg := Config{
			TargetMeasures: []string{"Prevalence"},
			PerMeasure:     10,
			BatchSize:      100,
			Seed:           7,
		}

		first, err := Stratified(&sliceSource{rows: rows}, cfg, s.log)
		s.Require().NoError(err)
		second, err := Stratified(&sliceSource{rows: rows}, cfg, s.log)
		s.Require().NoError(err)
		s.Equal(first.Rows, second.Rows)
	})

	s.Run("drawn rows are distinct", func() {
		rows := make([]dataset.Row, 20)
		for i := range rows {
			rows[i] = dataset.Row{Measure: "Prevalence", Year: "2021", Value: string(rune('a' + i))}
		}
		res, err := Stratified(&sliceSource{rows: rows}, Config{
			TargetMeasures: []string{"Prevalence"},
			PerMeasure:     10,
			BatchSize:      20,
		}, s.log)
		s.Require().NoError(err)

		seen := make(map[string]bool)
		for _, row := range res.Rows {
			s.False(seen[row.Value], "row drawn twice: %s", row.Value)
			seen[row.Value] = true
		}
	})

	s.Run("rejects an empty target list", func() {
		_, err := Stratified(&sliceSource{}, Config{PerMeasure: 1, BatchSize: 1}, s.log)
		s.Error(err)
	})

	s.Run("rejects a non-positive quota", func() {
		_, err := Stratified(&sliceSource{}, Config{
			TargetMeasures: []string{"Prevalence"}, BatchSize: 1,
		}, s.log)
		s.Error(err)
	})
}
