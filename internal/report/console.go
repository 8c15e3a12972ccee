package report

import (
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// PrintQuality renders the quality report as a colored console table.
func PrintQuality(w io.Writer, q *Quality) {
	color.New(color.FgCyan, color.Bold).Fprintln(w, "Data Quality Report")

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Total records", strconv.FormatInt(q.TotalRecords, 10)})
	table.Append([]string{"Countries", strconv.Itoa(q.Countries)})
	table.Append([]string{"Disorders", strconv.Itoa(q.Disorders)})
	table.Append([]string{"Year range", strconv.Itoa(q.YearMin) + "-" + strconv.Itoa(q.YearMax)})
	table.Append([]string{"Value completeness", formatFloat(q.CompletenessPct) + "%"})
	table.Render()

	if q.LastRun == nil {
		color.New(color.FgYellow).Fprintln(w, "No load runs recorded")
		return
	}

	color.New(color.FgCyan).Fprintln(w, "Last load run")
	run := tablewriter.NewWriter(w)
	run.SetHeader([]string{"Run", "Source", "Read", "Loaded", "Dropped", "Batches", "Finished"})
	run.Append([]string{
		q.LastRun.RunID,
		q.LastRun.SourceFile,
		strconv.FormatInt(q.LastRun.RowsRead, 10),
		strconv.FormatInt(q.LastRun.RowsLoaded, 10),
		strconv.FormatInt(q.LastRun.RowsDropped, 10),
		strconv.Itoa(q.LastRun.Batches),
		q.LastRun.FinishedAt.Format("2006-01-02 15:04:05"),
	})
	run.Render()
}

// PrintGrowth renders a growth artifact as a colored console table, one trend
// color per bucket.
func PrintGrowth(w io.Writer, title string, rows []GrowthRow) {
	color.New(color.FgCyan, color.Bold).Fprintln(w, title)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"", "1990 (%)", "2021 (%)", "Change (pp)", "Growth (%)", "Trend"})
	for _, r := range rows {
		table.Append([]string{
			r.Label,
			formatFloat(r.BaselinePct),
			formatFloat(r.LatestPct),
			formatFloat(r.ChangePoints),
			formatRatio(r.RelativeGrowth),
			trendColor(r.TrendCategory()),
		})
	}
	table.Render()
}

func trendColor(category string) string {
	switch category {
	case "High Growth":
		return color.RedString(category)
	case "Moderate Growth":
		return color.YellowString(category)
	case "Low Growth":
		return color.GreenString(category)
	case "Decline":
		return color.BlueString(category)
	default:
		return category
	}
}
