package model

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Timestamp format used everywhere in the report: UTC, Z-suffixed ISO-8601.
const reportTimeLayout = "2006-01-02T15:04:05Z"

// EntityCounts carries one counter per input entity.
type EntityCounts struct {
	Orders     int `json:"orders"`
	OrderItems int `json:"order_items"`
}

// RejectionRecord is one rejected row as recorded by the validator. The
// per-reason histograms in the final report are derived from these records,
// not counted separately.
type RejectionRecord struct {
	ItemID  string `json:"item_id,omitempty"`
	OrderID string `json:"order_id"`
	Reason  string `json:"reason"`
}

// OutputMetrics describes the revenue output, populated only by the
// aggregation stage.
type OutputMetrics struct {
	DailyRevenueRows int     `json:"daily_revenue_rows"`
	TotalRevenue     float64 `json:"total_revenue"`
	TotalOrdersCount int     `json:"total_orders_count"`
}

// QualityReport is the run ledger threaded through every pipeline stage.
// Each stage sets its own fields exactly once and never touches another
// stage's fields; the report only ever accumulates. It is created before
// the first stage runs and finalized after outputs are written.
type QualityReport struct {
	RunDate     string
	StartTime   string
	EndTime     string
	Input       EntityCounts
	Duplicates  EntityCounts
	Rejected    EntityCounts
	OrphanItems int
	Valid       EntityCounts
	Output      OutputMetrics

	orderReasons []RejectionRecord
	itemReasons  []RejectionRecord
}

// NewQualityReport creates a report for a run and stamps the start time.
func NewQualityReport(runDate string) *QualityReport {
	return &QualityReport{
		RunDate:   runDate,
		StartTime: time.Now().UTC().Format(reportTimeLayout),
	}
}

// SetInputCounts records the raw row counts, once, by the load stage.
func (r *QualityReport) SetInputCounts(orders, items int) {
	r.Input.Orders = orders
	r.Input.OrderItems = items
}

// SetDuplicateOrders records how many order rows the dedup stage removed.
// Items are never deduplicated, so their counter stays zero.
func (r *QualityReport) SetDuplicateOrders(n int) {
	r.Duplicates.Orders = n
}

// AddOrderRejection records one rejected order row and its reason.
func (r *QualityReport) AddOrderRejection(orderID sql.NullString, reason string) {
	r.orderReasons = append(r.orderReasons, RejectionRecord{
		OrderID: orderID.String,
		Reason:  reason,
	})
}

// AddItemRejection records one rejected item row and its reason.
func (r *QualityReport) AddItemRejection(itemID, orderID sql.NullString, reason string) {
	r.itemReasons = append(r.itemReasons, RejectionRecord{
		ItemID:  itemID.String,
		OrderID: orderID.String,
		Reason:  reason,
	})
}

// SetOrderValidation records the valid/rejected split for orders.
func (r *QualityReport) SetOrderValidation(valid, rejected int) {
	r.Valid.Orders = valid
	r.Rejected.Orders = rejected
}

// SetItemValidation records the valid/rejected split for items plus the raw
// orphan count.
func (r *QualityReport) SetItemValidation(valid, rejected, orphans int) {
	r.Valid.OrderItems = valid
	r.Rejected.OrderItems = rejected
	r.OrphanItems = orphans
}

// SetOutputMetrics records the revenue output shape, once, by the
// aggregation stage.
func (r *QualityReport) SetOutputMetrics(rows int, totalRevenue float64, totalOrders int) {
	r.Output.DailyRevenueRows = rows
	r.Output.TotalRevenue = totalRevenue
	r.Output.TotalOrdersCount = totalOrders
}

// Finalize stamps the end time. Call exactly once, after all outputs exist.
func (r *QualityReport) Finalize() {
	r.EndTime = time.Now().UTC().Format(reportTimeLayout)
}

// OrderRejections returns the recorded per-row order rejections.
func (r *QualityReport) OrderRejections() []RejectionRecord { return r.orderReasons }

// ItemRejections returns the recorded per-row item rejections.
func (r *QualityReport) ItemRejections() []RejectionRecord { return r.itemReasons }

// ReasonHistogram groups recorded rejections by reason.
func ReasonHistogram(records []RejectionRecord) map[string]int {
	hist := make(map[string]int)
	for _, rec := range records {
		hist[rec.Reason]++
	}
	return hist
}

// reportJSON is the serialized shape of the quality report.
type reportJSON struct {
	RunDate          string                    `json:"run_date"`
	StartTime        string                    `json:"pipeline_start_time"`
	EndTime          string                    `json:"pipeline_end_time"`
	Input            EntityCounts              `json:"input"`
	Duplicates       EntityCounts              `json:"duplicates"`
	Rejected         EntityCounts              `json:"rejected"`
	OrphanItems      int                       `json:"orphan_items"`
	Valid            EntityCounts              `json:"valid"`
	RejectionReasons map[string]map[string]int `json:"rejection_reasons"`
	Output           OutputMetrics             `json:"output"`
}

// MarshalJSON serializes the report with the per-entity rejection histograms
// derived from the recorded per-row reasons.
func (r *QualityReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(reportJSON{
		RunDate:     r.RunDate,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Input:       r.Input,
		Duplicates:  r.Duplicates,
		Rejected:    r.Rejected,
		OrphanItems: r.OrphanItems,
		Valid:       r.Valid,
		RejectionReasons: map[string]map[string]int{
			"orders":      ReasonHistogram(r.orderReasons),
			"order_items": ReasonHistogram(r.itemReasons),
		},
		Output: r.Output,
	})
}

// UnmarshalJSON restores a report from its serialized shape. Per-row
// rejection records are not round-tripped; only the histograms survive
// serialization, so a restored report is read-only.
func (r *QualityReport) UnmarshalJSON(data []byte) error {
	var raw reportJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.RunDate = raw.RunDate
	r.StartTime = raw.StartTime
	r.EndTime = raw.EndTime
	r.Input = raw.Input
	r.Duplicates = raw.Duplicates
	r.Rejected = raw.Rejected
	r.OrphanItems = raw.OrphanItems
	r.Valid = raw.Valid
	r.Output = raw.Output
	return nil
}
