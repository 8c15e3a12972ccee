package stats

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/clean"
)

type GrowthSuite struct {
	suite.Suite
}

func TestGrowthSuite(t *testing.T) {
	suite.Run(t, new(GrowthSuite))
}

func (s *GrowthSuite) TestGrowthBetween() {
	s.Run("compares endpoint-year means per key", func() {
		records := []clean.Record{
			rec("Anxiety disorders", "Canada", 1990, 0.03),
			rec("Anxiety disorders", "Japan", 1990, 0.05),
			rec("Anxiety disorders", "Canada", 2021, 0.04),
			rec("Anxiety disorders", "Japan", 2021, 0.06),
			// Intermediate years are ignored.
			rec("Anxiety disorders", "Canada", 2005, 0.2),
		}
		got := GrowthBetween(records, ByDisorder, ObservedValue, 1990, 2021)
		s.Require().Len(got, 1)

		g := got[0]
		s.Equal("Anxiety disorders", g.Key)
		s.InDelta(0.04, g.BaselineMean, 1e-12)
		s.InDelta(0.05, g.LatestMean, 1e-12)
		s.InDelta(0.01, g.AbsoluteChange, 1e-12)
		s.Require().True(g.RelativeGrowth.Defined)
		s.InDelta(25, g.RelativeGrowth.Percent, 1e-9)
	})

	s.Run("keys missing an endpoint year are excluded", func() {
		records := []clean.Record{
			rec("Anxiety disorders", "Canada", 1990, 0.03),
			rec("Anxiety disorders", "Canada", 2021, 0.04),
			rec("Schizophrenia", "Canada", 2021, 0.01),
		}
		got := GrowthBetween(records, ByDisorder, ObservedValue, 1990, 2021)
		s.Require().Len(got, 1)
		s.Equal("Anxiety disorders", got[0].Key)
	})

	s.Run("keys with only missing endpoint values are excluded", func() {
		records := []clean.Record{
			rec("Anxiety disorders", "Canada", 1990, clean.Missing),
			rec("Anxiety disorders", "Canada", 2021, 0.04),
		}
		s.Empty(GrowthBetween(records, ByDisorder, ObservedValue, 1990, 2021))
	})

	s.Run("zero baseline yields an undefined ratio", func() {
		records := []clean.Record{
			rec("Eating disorders", "Canada", 1990, 0),
			rec("Eating disorders", "Canada", 2021, 0.01),
		}
		got := GrowthBetween(records, ByDisorder, ObservedValue, 1990, 2021)
		s.Require().Len(got, 1)
		s.False(got[0].RelativeGrowth.Defined)
		s.InDelta(0.01, got[0].AbsoluteChange, 1e-12)
	})

	s.Run("keys keep first-seen order", func() {
		records := []clean.Record{
			rec("Schizophrenia", "Canada", 1990, 0.01),
			rec("Anxiety disorders", "Canada", 1990, 0.03),
			rec("Schizophrenia", "Canada", 2021, 0.01),
			rec("Anxiety disorders", "Canada", 2021, 0.04),
		}
		got := GrowthBetween(records, ByDisorder, ObservedValue, 1990, 2021)
		s.Require().Len(got, 2)
		s.Equal("Schizophrenia", got[0].Key)
		s.Equal("Anxiety disorders", got[1].Key)
	})
}

func (s *GrowthSuite) TestTrendCategory() {
	tests := []struct {
		name  string
		ratio Ratio
		want  string
	}{
		{"undefined", Ratio{}, "Undefined"},
		{"above twenty", Ratio{Defined: true, Percent: 20.1}, "High Growth"},
		{"exactly twenty", Ratio{Defined: true, Percent: 20}, "Moderate Growth"},
		{"above ten", Ratio{Defined: true, Percent: 10.1}, "Moderate Growth"},
		{"above zero", Ratio{Defined: true, Percent: 0.1}, "Low Growth"},
		{"zero", Ratio{Defined: true, Percent: 0}, "Decline"},
		{"negative", Ratio{Defined: true, Percent: -5}, "Decline"},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.Equal(tt.want, TrendCategory(tt.ratio))
		})
	}
}

func (s *GrowthSuite) TestRatioJSON() {
	s.Run("undefined marshals to null", func() {
		b, err := json.Marshal(Ratio{})
		s.Require().NoError(err)
		s.Equal("null", string(b))
	})

	s.Run("defined round-trips", func() {
		b, err := json.Marshal(Ratio{Defined: true, Percent: 12.5})
		s.Require().NoError(err)
		s.Equal("12.5", string(b))

		var r Ratio
		s.Require().NoError(json.Unmarshal(b, &r))
		s.True(r.Defined)
		s.InDelta(12.5, r.Percent, 1e-12)
	})

	s.Run("null unmarshals to undefined", func() {
		var r Ratio
		s.Require().NoError(json.Unmarshal([]byte("null"), &r))
		s.False(r.Defined)
	})
}
