// Package chart renders the growth and trend artifacts as PNG plots.
package chart

import (
	"fmt"
	"image/color"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/report"
	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/stats"
)

var palette = []color.RGBA{
	{R: 31, G: 119, B: 180, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
	{R: 44, G: 160, B: 44, A: 255},
	{R: 214, G: 39, B: 40, A: 255},
	{R: 148, G: 103, B: 189, A: 255},
	{R: 140, G: 86, B: 75, A: 255},
}

// GrowthBars renders one bar per growth row, relative growth on the Y axis.
// Rows with undefined growth are skipped.
func GrowthBars(rows []report.GrowthRow, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Y.Label.Text = "Relative growth 1990-2021 (%)"

	values := make(plotter.Values, 0, len(rows))
	labels := make([]string, 0, len(rows))
	for _, r := range rows {
		if !r.RelativeGrowth.Defined {
			continue
		}
		values = append(values, r.RelativeGrowth.Percent)
		labels = append(labels, r.Label)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return fmt.Errorf("build bar chart: %w", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = palette[0]

	p.Add(bars, plotter.NewGrid())
	p.NominalX(labels...)

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save bar chart: %w", err)
	}
	return nil
}

// TrendLines renders one line per series label over years. Groups are the
// year/label means produced by the temporal trend aggregation, with the year
// as the first key part and the series label as the second.
func TrendLines(groups []stats.Group, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Mean prevalence"

	series := make(map[string]plotter.XYs)
	var labels []string
	for _, g := range groups {
		if len(g.Parts) < 2 {
			return fmt.Errorf("trend group %q has no series label", g.Key())
		}
		var year float64
		if _, err := fmt.Sscanf(g.Parts[0], "%f", &year); err != nil {
			return fmt.Errorf("trend group %q: non-numeric year: %w", g.Key(), err)
		}
		label := g.Parts[1]
		if _, ok := series[label]; !ok {
			labels = append(labels, label)
		}
		series[label] = append(series[label], plotter.XY{X: year, Y: g.Summary.Mean})
	}

	for i, label := range labels {
		pts := series[label]
		sort.Slice(pts, func(a, b int) bool { return pts[a].X < pts[b].X })

		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("build trend line %q: %w", label, err)
		}
		line.Width = vg.Points(2)
		line.Color = palette[i%len(palette)]

		p.Add(line)
		p.Legend.Add(label, line)
	}
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	if err := p.Save(12*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save trend lines: %w", err)
	}
	return nil
}
