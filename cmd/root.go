package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nominadb/nomina-cli/internal/config"
)

var cfg *config.Config

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "nomina-cli",
	Short: "CFDI payroll employee-base extractor",
	Long:  "Reads CFDI payroll receipts (XML or ZIP batches), extracts one employee record per receipt, resolves SAT catalog codes, collapses duplicates by RFC, and exports the unique-employee table as CSV or XLSX.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default config.yaml in the working directory)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
