// Package report produces the fixed analysis artifacts: growth comparisons,
// the data-quality report, and their CSV/console renderings.
package report

import (
	"math"
	"sort"

	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/clean"
	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/stats"
)

// Analysis window shared by every growth artifact.
const (
	BaselineYear = 1990
	LatestYear   = 2021
)

// Metadata columns stamped on exported artifacts.
const (
	analysisPeriod = "1990-2021"
	dataSource     = "Global Burden of Disease Study"
)

// TrackedDisorders are the five disorders followed by the growth analysis.
var TrackedDisorders = []string{
	"Depressive disorders",
	"Anxiety disorders",
	"Schizophrenia",
	"Bipolar disorder",
	"Eating disorders",
}

// GrowthRow is one row of a growth artifact. Percent fields are prevalence
// expressed in percent, pre-rounded the way the exported CSVs expect.
type GrowthRow struct {
	Label          string      `json:"label"`
	BaselinePct    float64     `json:"prevalence_1990_percent"`
	LatestPct      float64     `json:"prevalence_2021_percent"`
	ChangePoints   float64     `json:"change_percentage_points"`
	RelativeGrowth stats.Ratio `json:"relative_growth_percent"`
}

// TrendCategory labels the row's relative growth bucket.
func (g GrowthRow) TrendCategory() string {
	return stats.TrendCategory(g.RelativeGrowth)
}

// DisorderGrowth computes the disorder growth analysis from cleaned records:
// percent-metric, both-sex observations of the tracked disorders, baseline
// year against latest year, ordered by relative growth descending with
// undefined outcomes last.
func DisorderGrowth(records []clean.Record) []GrowthRow {
	tracked := make(map[string]bool, len(TrackedDisorders))
	for _, d := range TrackedDisorders {
		tracked[d] = true
	}
	filtered := stats.Filter(records, func(r clean.Record) bool {
		return r.Metric == "Percent" && r.Sex == "Both" && tracked[r.Disorder]
	})
	return growthRows(stats.GrowthBetween(filtered, stats.ByDisorder, stats.ObservedValue, BaselineYear, LatestYear))
}

// AgeGroupTrends computes the age-group trend analysis over both-sex
// observations, all disorders pooled.
func AgeGroupTrends(records []clean.Record) []GrowthRow {
	filtered := stats.Filter(records, func(r clean.Record) bool {
		return r.Sex == "Both"
	})
	return growthRows(stats.GrowthBetween(filtered, stats.ByAgeGroup, stats.ObservedValue, BaselineYear, LatestYear))
}

func growthRows(growths []stats.Growth) []GrowthRow {
	rows := make([]GrowthRow, 0, len(growths))
	for _, g := range growths {
		row := GrowthRow{
			Label:        g.Key,
			BaselinePct:  round(g.BaselineMean*100, 2),
			LatestPct:    round(g.LatestMean*100, 2),
			ChangePoints: round(g.AbsoluteChange*100, 2),
		}
		if g.RelativeGrowth.Defined {
			row.RelativeGrowth = stats.Ratio{Defined: true, Percent: round(g.RelativeGrowth.Percent, 1)}
		}
		rows = append(rows, row)
	}
	sortByRelativeGrowth(rows)
	return rows
}

// sortByRelativeGrowth orders rows by relative growth descending, undefined
// outcomes last, stable within ties.
func sortByRelativeGrowth(rows []GrowthRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		ri, rj := rows[i].RelativeGrowth, rows[j].RelativeGrowth
		switch {
		case ri.Defined && !rj.Defined:
			return true
		case !ri.Defined:
			return false
		default:
			return ri.Percent > rj.Percent
		}
	})
}

func round(v float64, decimals int) float64 {
	scale := math.Pow10(decimals)
	return math.Round(v*scale) / scale
}
