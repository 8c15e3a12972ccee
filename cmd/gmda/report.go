package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/platform/postgres"
	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/platform/redis"
	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/report"
)

var reportFormat string

var reportCmd = &cobra.Command{
	Use: "report",

	Short: "Prints the warehouse quality and growth reports.",

	Args: cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		db, err := postgres.Open(cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		cache, err := redis.New(cfg.Redis)
		if err != nil {
			log.Warnw("report cache unavailable, continuing without it", "error", err)
		}
		if cache != nil {
			defer cache.Close()
		}

		queries := report.NewQueries(db, cache, cfg.Redis.TTL, log)
		ctx := cmd.Context()

		quality, err := queries.DataQuality(ctx)
		if err != nil {
			return err
		}
		growth, err := queries.DisorderGrowth(ctx)
		if err != nil {
			return err
		}
		ageTrends, err := queries.AgeGroupTrends(ctx)
		if err != nil {
			return err
		}

		switch reportFormat {
		case "table":
			report.PrintQuality(os.Stdout, quality)
			report.PrintGrowth(os.Stdout, "Disorder growth 1990-2021", growth)
			report.PrintGrowth(os.Stdout, "Age-group trends 1990-2021", ageTrends)
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"quality":          quality,
				"disorder_growth":  growth,
				"age_group_trends": ageTrends,
			})
		case "csv":
			if err := report.WriteGrowth(os.Stdout, growth, report.DisorderGrowthExport); err != nil {
				return err
			}
			return report.WriteGrowth(os.Stdout, ageTrends, report.AgeTrendExport)
		default:
			return fmt.Errorf("unknown format %q (want table, json, or csv)", reportFormat)
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "table", "Output format: table, json, or csv.")
}
