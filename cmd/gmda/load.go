package main

import (
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/platform/metrics"
	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/platform/postgres"
	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/warehouse"
)

var loadCmd = &cobra.Command{
	Use: "load <input.csv>",

	Short: "Loads the full extract into the warehouse star schema.",

	Example: `
  $ gmda init-schema
  $ gmda load gbd_extract.csv`,

	Args: cobra.ExactArgs(1),

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

		loader := warehouse.New(db, cfg.Analysis, log, metrics.New())
		res, err := loader.Run(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Run", "Rows Read", "Rows Loaded", "Rows Dropped", "Batches", "Duration"})
		table.Append([]string{
			res.RunID.String(),
			strconv.FormatInt(res.Totals.RowsRead, 10),
			strconv.FormatInt(res.Totals.RowsLoaded, 10),
			strconv.FormatInt(res.Totals.RowsDropped, 10),
			strconv.Itoa(res.Totals.Batches),
			res.Duration.Round(time.Millisecond).String(),
		})
		table.Render()
		return nil
	},
}
