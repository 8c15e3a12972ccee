// gmda is the command-line entry point for the global mental-disorders
// analysis pipeline: sampling the raw extract, running the in-memory
// analysis, loading the warehouse, and serving the reporting API.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/platform/config"
	"github.com/Qin717/Global-Mental-Disorders-Analysis/internal/platform/logger"
)

var buildVersion = "dev"

var (
	cfgFile string
	debug   bool
)

var mainCmd = &cobra.Command{
	Use: "gmda",

	Short: "Commands for the analysis of the global mental-disorders burden extract.",

	SilenceUsage:  true,
	SilenceErrors: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var versionCmd = &cobra.Command{
	Use: "version",

	Short: "Prints the version of the program.",

	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "%s\n", buildVersion)
	},
}

func main() {
	// A missing .env is fine; explicit configuration still comes from the
	// config file and GMDA_* variables.
	godotenv.Load()

	mainCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to a YAML config file.")
	mainCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enables debug logging.")

	mainCmd.AddCommand(versionCmd)
	mainCmd.AddCommand(sampleCmd)
	mainCmd.AddCommand(analyzeCmd)
	mainCmd.AddCommand(initSchemaCmd)
	mainCmd.AddCommand(loadCmd)
	mainCmd.AddCommand(reportCmd)
	mainCmd.AddCommand(serveCmd)

	if err := mainCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger shared by every command.
func setup() (config.Config, *zap.SugaredLogger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, nil, err
	}
	if debug {
		cfg.Debug = true
	}
	log, err := logger.New(cfg.Debug)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}
