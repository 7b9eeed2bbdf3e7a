package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"orders-revenue-pipeline/internal/logging"
	"orders-revenue-pipeline/internal/model"
	"orders-revenue-pipeline/internal/pipeline"
	"orders-revenue-pipeline/internal/store"
	"orders-revenue-pipeline/pkg/utils"
)

var (
	runDate   string
	inputDir  string
	outputDir string
	dbPath    string
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Daily revenue batch pipeline",
	Long:  "Computes daily completed-order revenue from raw order and order-item extracts.",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one pipeline run",
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup(logLevel, logFormat)

		if err := utils.ValidateRunDate(runDate); err != nil {
			return err
		}

		if err := store.InitDB(dbPath); err != nil {
			return fmt.Errorf("open run database: %w", err)
		}
		defer store.Close()

		spec := model.RunSpec{
			RunDate:   runDate,
			InputDir:  inputDir,
			OutputDir: outputDir,
		}

		runID := uuid.New().String()
		if err := store.SaveRun(runID, spec); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		store.UpdateRunStatus(runID, "running")
		slog.Info("pipeline run started", "run_id", runID, "run_date", runDate)

		report, err := pipeline.Run(spec, store.RunRecorder{RunID: runID})
		if err != nil {
			store.UpdateRunStatus(runID, "failed")
			store.SaveRunError(runID, err)
			return fmt.Errorf("pipeline run %s: %w", runID, err)
		}

		store.SaveRunReport(runID, report)
		store.UpdateRunStatus(runID, "completed")
		slog.Info("pipeline run completed",
			"run_id", runID,
			"valid_orders", report.Valid.Orders,
			"valid_items", report.Valid.OrderItems,
			"daily_revenue_rows", report.Output.DailyRevenueRows,
		)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runDate, "run-date", "", "run date to process (YYYY-MM-DD)")
	runCmd.Flags().StringVar(&inputDir, "input-dir", "data", "directory holding the input extracts")
	runCmd.Flags().StringVar(&outputDir, "output-dir", "output", "directory for run outputs")
	runCmd.Flags().StringVar(&dbPath, "db", "pipeline.db", "run-history database file")
	runCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	runCmd.Flags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	runCmd.MarkFlagRequired("run-date")

	rootCmd.AddCommand(runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
