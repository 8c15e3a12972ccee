package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/stats"
)

// GrowthExport parameterizes the growth CSV layout: the label column header,
// the analysis_type stamp, and whether a trend_category column is appended.
type GrowthExport struct {
	LabelColumn   string
	AnalysisType  string
	TrendCategory bool
}

// Layouts for the two exported growth artifacts.
var (
	DisorderGrowthExport = GrowthExport{LabelColumn: "disorder", AnalysisType: "disorder_growth"}
	AgeTrendExport       = GrowthExport{LabelColumn: "age_group", AnalysisType: "age_group_trends", TrendCategory: true}
)

// WriteGrowth renders a growth artifact as CSV. Undefined relative growth is
// written as an empty cell.
func WriteGrowth(w io.Writer, rows []GrowthRow, layout GrowthExport) error {
	cw := csv.NewWriter(w)

	header := []string{
		layout.LabelColumn,
		"prevalence_1990_percent",
		"prevalence_2021_percent",
		"change_percentage_points",
		"relative_growth_percent",
		"analysis_period",
		"analysis_type",
		"data_source",
	}
	if layout.TrendCategory {
		header = append(header, "trend_category")
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write growth header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.Label,
			formatFloat(r.BaselinePct),
			formatFloat(r.LatestPct),
			formatFloat(r.ChangePoints),
			formatRatio(r.RelativeGrowth),
			analysisPeriod,
			layout.AnalysisType,
			dataSource,
		}
		if layout.TrendCategory {
			record = append(record, r.TrendCategory())
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write growth row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Summary condenses one growth artifact to a single overview row.
type SummaryRow struct {
	AnalysisType      string
	TotalRecords      int
	HighestGrowthItem string
	HighestGrowthPct  stats.Ratio
	AverageGrowthPct  stats.Ratio
}

// Summarize reduces a growth artifact to its overview row. Undefined outcomes
// are excluded from the highest and average figures.
func Summarize(analysisType string, rows []GrowthRow) SummaryRow {
	out := SummaryRow{AnalysisType: analysisType, TotalRecords: len(rows)}

	var sum float64
	var n int
	for _, r := range rows {
		if !r.RelativeGrowth.Defined {
			continue
		}
		if !out.HighestGrowthPct.Defined || r.RelativeGrowth.Percent > out.HighestGrowthPct.Percent {
			out.HighestGrowthItem = r.Label
			out.HighestGrowthPct = r.RelativeGrowth
		}
		sum += r.RelativeGrowth.Percent
		n++
	}
	if n > 0 {
		out.AverageGrowthPct = stats.Ratio{Defined: true, Percent: round(sum/float64(n), 1)}
	}
	return out
}

// WriteSummary renders the overview rows of several analyses as one CSV.
func WriteSummary(w io.Writer, rows []SummaryRow) error {
	cw := csv.NewWriter(w)

	header := []string{"Analysis Type", "Total Records", "Highest Growth Item", "Highest Growth Rate (%)", "Average Growth Rate (%)"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write summary header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.AnalysisType,
			strconv.Itoa(r.TotalRecords),
			r.HighestGrowthItem,
			formatRatio(r.HighestGrowthPct),
			formatRatio(r.AverageGrowthPct),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteGroups renders grouped descriptive statistics as CSV, one key column
// per grouping dimension.
func WriteGroups(w io.Writer, keyColumns []string, groups []stats.Group) error {
	cw := csv.NewWriter(w)

	header := append(append([]string{}, keyColumns...),
		"count", "mean", "median", "std", "min", "max", "q1", "q3")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write group header: %w", err)
	}

	for _, g := range groups {
		if len(g.Parts) != len(keyColumns) {
			return fmt.Errorf("group has %d key parts, header has %d columns", len(g.Parts), len(keyColumns))
		}
		s := g.Summary
		record := append(append([]string{}, g.Parts...),
			strconv.Itoa(s.Count),
			formatFloat(s.Mean),
			formatFloat(s.Median),
			formatFloat(s.Std),
			formatFloat(s.Min),
			formatFloat(s.Max),
			formatFloat(s.Q1),
			formatFloat(s.Q3),
		)
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write group row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatRatio(r stats.Ratio) string {
	if !r.Defined {
		return ""
	}
	return formatFloat(r.Percent)
}
