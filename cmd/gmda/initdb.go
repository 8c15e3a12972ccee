package main

import (
	"github.com/spf13/cobra"

	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/platform/postgres"
	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/warehouse"
)

var initSchemaCmd = &cobra.Command{
	Use: "init-schema",

	Short: "Creates the warehouse star schema, run log, and materialized views.",

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

		loader := warehouse.New(db, cfg.Analysis, log, nil)
		return loader.InitSchema(cmd.Context())
	},
}
