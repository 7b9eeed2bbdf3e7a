package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"orders-revenue-pipeline/internal/model"
)

// Output file names, fixed per run directory. Reruns overwrite in place.
const (
	DailyRevenueFile   = "daily_revenue.csv"
	RejectedOrdersFile = "rejected_orders.csv"
	RejectedItemsFile  = "rejected_items.csv"
	QualityReportFile  = "quality_report.json"
)

const dateLayout = "2006-01-02"

// rejectionColumn is appended to the input schema for rejected-row files.
const rejectionColumn = "rejection_reason"

// WriteOutputs writes all run outputs into outDir: the daily revenue table
// (header-only when empty), the rejected-row tables (only when non-empty),
// and the finalized quality report.
func WriteOutputs(
	outDir string,
	revenue []model.DailyRevenue,
	rejectedOrders []model.RejectedOrder,
	rejectedItems []model.RejectedItem,
	orderColumns, itemColumns []string,
	report *model.QualityReport,
) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := writeDailyRevenue(filepath.Join(outDir, DailyRevenueFile), revenue); err != nil {
		return err
	}

	if len(rejectedOrders) > 0 {
		rows := make([]rejectedRow, len(rejectedOrders))
		for i, o := range rejectedOrders {
			rows[i] = rejectedRow{raw: o.Raw, reason: o.Reason}
		}
		if err := writeRejected(filepath.Join(outDir, RejectedOrdersFile), orderColumns, rows); err != nil {
			return err
		}
	}

	if len(rejectedItems) > 0 {
		rows := make([]rejectedRow, len(rejectedItems))
		for i, it := range rejectedItems {
			rows[i] = rejectedRow{raw: it.Raw, reason: it.Reason}
		}
		if err := writeRejected(filepath.Join(outDir, RejectedItemsFile), itemColumns, rows); err != nil {
			return err
		}
	}

	report.Finalize()
	return writeReport(filepath.Join(outDir, QualityReportFile), report)
}

func writeDailyRevenue(path string, revenue []model.DailyRevenue) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"order_date", "total_revenue", "orders_count"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range revenue {
		record := []string{
			row.OrderDate.Format(dateLayout),
			row.TotalRevenue.StringFixed(2),
			strconv.Itoa(row.OrdersCount),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write revenue row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

type rejectedRow struct {
	raw    model.Raw
	reason string
}

func writeRejected(path string, columns []string, rows []rejectedRow) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	header := append(append([]string{}, columns...), rejectionColumn)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		record := make([]string, 0, len(header))
		for _, col := range columns {
			record = append(record, row.raw[col])
		}
		record = append(record, row.reason)
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write rejected row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func writeReport(path string, report *model.QualityReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode quality report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
