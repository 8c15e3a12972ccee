package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/clean"
	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/dataset"
	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/report"
	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/report/chart"
	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/reshape"
	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/stats"
	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/warehouse"
)

var (
	analyzeOutDir string
	analyzeCharts bool
)

var analyzeCmd = &cobra.Command{
	Use: "analyze <input.csv>",

	Short: "Runs the in-memory analysis over a (sampled) extract and writes the artifacts.",

	Example: `
  $ gmda analyze sampled_dataset.csv --out-dir analysis_output`,

	Args: cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		rows, err := readAll(args[0], cfg.Analysis.ChunkSize)
		if err != nil {
			return err
		}

		records, cleaning := clean.Clean(rows)
		log.Infow("dataset cleaned",
			"rows_in", cleaning.RowsIn,
			"rows_out", cleaning.RowsOut,
			"duplicates_removed", cleaning.DuplicatesRemoved,
			"invalid_years", cleaning.InvalidYears,
			"missing_values", cleaning.TotalMissing(),
		)

		if err := os.MkdirAll(analyzeOutDir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		return runAnalysis(records, log)
	},
}

func init() {
	flags := analyzeCmd.Flags()
	flags.StringVar(&analyzeOutDir, "out-dir", "analysis_output", "Directory the analysis artifacts are written to.")
	flags.BoolVar(&analyzeCharts, "charts", true, "Also render PNG charts.")
}

// readAll streams the whole extract into memory in bounded batches. The
// analyze command is meant for sampled extracts; the full extract goes
// through the warehouse loader instead.
func readAll(path string, batchSize int) ([]dataset.Row, error) {
	src, err := dataset.Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	var rows []dataset.Row
	for {
		batch, err := src.ReadBatch(batchSize)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, batch...)
	}
	return rows, nil
}

func runAnalysis(records []clean.Record, log *zap.SugaredLogger) error {
	// Prevalence as a share of population, both sexes: the slice every
	// comparison artifact is computed over.
	prevalence := stats.Filter(records, func(r clean.Record) bool {
		return r.Measure == "Prevalence" && r.Metric == "Percent" && r.Sex == "Both"
	})

	if err := writeArtifact("cleaned_dataset.csv", func(w io.Writer) error {
		return clean.WriteCSV(w, records)
	}); err != nil {
		return err
	}

	describe := stats.Aggregate(records, stats.ObservedValue, stats.ByDisorder, stats.ByMeasure)
	if err := writeArtifact("descriptive_statistics.csv", func(w io.Writer) error {
		return report.WriteGroups(w, []string{"disorder", "measure"}, describe)
	}); err != nil {
		return err
	}

	matrix := reshape.DisorderCountryMatrix(prevalence)
	matrix.Sort()
	if err := writeArtifact("disorder_country_matrix.csv", matrix.WriteCSV); err != nil {
		return err
	}

	trends := reshape.TemporalTrends(records)
	if err := writeArtifact("temporal_trends.csv", func(w io.Writer) error {
		return report.WriteGroups(w, []string{"year", "disorder", "measure"}, trends)
	}); err != nil {
		return err
	}

	for _, dm := range reshape.DemographicMatrices(prevalence) {
		dm.Matrix.Sort()
		name := "demographics_" + slug(dm.Disorder) + ".csv"
		if err := writeArtifact(name, dm.Matrix.WriteCSV); err != nil {
			return err
		}
	}

	regionDim := stats.Dimension{Name: "region", Of: func(r clean.Record) string {
		return warehouse.RegionOf(r.Country)
	}}
	regional := stats.Aggregate(prevalence, stats.ObservedValue, regionDim, stats.ByDisorder)
	if err := writeArtifact("regional_summary.csv", func(w io.Writer) error {
		return report.WriteGroups(w, []string{"region", "disorder"}, regional)
	}); err != nil {
		return err
	}

	growth := report.DisorderGrowth(records)
	if err := writeArtifact("disorder_growth.csv", func(w io.Writer) error {
		return report.WriteGrowth(w, growth, report.DisorderGrowthExport)
	}); err != nil {
		return err
	}

	ageTrends := report.AgeGroupTrends(records)
	if err := writeArtifact("age_group_trends.csv", func(w io.Writer) error {
		return report.WriteGrowth(w, ageTrends, report.AgeTrendExport)
	}); err != nil {
		return err
	}

	summary := []report.SummaryRow{
		report.Summarize(report.DisorderGrowthExport.AnalysisType, growth),
		report.Summarize(report.AgeTrendExport.AnalysisType, ageTrends),
	}
	if err := writeArtifact("analysis_summary.csv", func(w io.Writer) error {
		return report.WriteSummary(w, summary)
	}); err != nil {
		return err
	}

	if analyzeCharts {
		if err := chart.GrowthBars(growth, "Disorder prevalence growth 1990-2021",
			filepath.Join(analyzeOutDir, "disorder_growth.png")); err != nil {
			return err
		}
		yearly := stats.Aggregate(prevalence, stats.ObservedValue, stats.ByYear, stats.ByDisorder)
		if err := chart.TrendLines(yearly, "Mean prevalence by disorder",
			filepath.Join(analyzeOutDir, "temporal_trends.png")); err != nil {
			return err
		}
	}

	report.PrintGrowth(os.Stdout, "Disorder growth 1990-2021", growth)
	report.PrintGrowth(os.Stdout, "Age-group trends 1990-2021", ageTrends)

	log.Infow("analysis complete", "records", len(records), "out_dir", analyzeOutDir)
	return nil
}

func writeArtifact(name string, write func(io.Writer) error) error {
	path := filepath.Join(analyzeOutDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	return nil
}

// slug turns a disorder name into a filename fragment.
func slug(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('_')
		}
	}
	return strings.Trim(b.String(), "_")
}
