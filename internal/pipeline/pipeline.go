package pipeline

import (
	"log/slog"

	"orders-revenue-pipeline/internal/model"
	"orders-revenue-pipeline/pkg/utils"
)

// Recorder receives stage-completion events so callers can persist run
// progress. A nil Recorder disables recording.
type Recorder interface {
	StageCompleted(stage string, detail map[string]any)
}

// Run executes one pipeline run: load, standardize, deduplicate, validate,
// aggregate, write outputs. Control flow is strictly linear and synchronous;
// given the same inputs and run date the outputs and report counts are
// identical on every rerun. Structural problems (missing file, missing
// columns) abort the run before anything is written; row-level defects never
// fail the run, they are classified and reported.
func Run(spec model.RunSpec, rec Recorder) (*model.QualityReport, error) {
	log := slog.With("run_date", spec.RunDate)
	report := model.NewQualityReport(spec.RunDate)

	ordersPath := utils.OrdersFile(spec.InputDir, spec.RunDate)
	itemsPath := utils.ItemsFile(spec.InputDir, spec.RunDate)

	log.Info("loading input files", "orders", ordersPath, "items", itemsPath)
	ordersFrame, err := LoadCSV(ordersPath, OrderColumns)
	if err != nil {
		return nil, err
	}
	itemsFrame, err := LoadCSV(itemsPath, ItemColumns)
	if err != nil {
		return nil, err
	}
	report.SetInputCounts(len(ordersFrame.Rows), len(itemsFrame.Rows))
	record(rec, "load", map[string]any{
		"orders": len(ordersFrame.Rows), "order_items": len(itemsFrame.Rows),
	})

	log.Info("standardizing data", "orders", len(ordersFrame.Rows), "items", len(itemsFrame.Rows))
	orders := StandardizeOrders(ordersFrame)
	items := StandardizeItems(itemsFrame)
	record(rec, "standardize", map[string]any{
		"orders": len(orders), "order_items": len(items),
	})

	orders = DeduplicateOrders(orders, report)
	log.Info("deduplicated orders", "removed", report.Duplicates.Orders, "remaining", len(orders))
	record(rec, "deduplicate", map[string]any{"duplicates_removed": report.Duplicates.Orders})

	validOrders, rejectedOrders := ValidateOrders(orders, report)
	log.Info("validated orders", "valid", len(validOrders), "rejected", len(rejectedOrders))

	validItems, rejectedItems := ValidateItems(items, ValidOrderIDs(validOrders), report)
	log.Info("validated items",
		"valid", len(validItems),
		"rejected", len(rejectedItems),
		"orphans", report.OrphanItems)
	record(rec, "validate", map[string]any{
		"valid_orders": len(validOrders), "rejected_orders": len(rejectedOrders),
		"valid_items": len(validItems), "rejected_items": len(rejectedItems),
		"orphan_items": report.OrphanItems,
	})

	revenue := ComputeDailyRevenue(validOrders, validItems, report)
	log.Info("computed daily revenue",
		"days", len(revenue),
		"total_revenue", report.Output.TotalRevenue,
		"orders", report.Output.TotalOrdersCount)
	record(rec, "aggregate", map[string]any{
		"daily_revenue_rows": report.Output.DailyRevenueRows,
		"total_revenue":      report.Output.TotalRevenue,
	})

	if err := WriteOutputs(spec.OutputDir, revenue, rejectedOrders, rejectedItems,
		ordersFrame.Columns, itemsFrame.Columns, report); err != nil {
		return nil, err
	}
	log.Info("wrote outputs", "dir", spec.OutputDir)
	record(rec, "export", map[string]any{"output_dir": spec.OutputDir})

	return report, nil
}

func record(rec Recorder, stage string, detail map[string]any) {
	if rec != nil {
		rec.StageCompleted(stage, detail)
	}
}
