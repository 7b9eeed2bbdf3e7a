package pipeline

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"orders-revenue-pipeline/internal/model"
)

// CompletedStatus is the only order status that contributes to revenue.
const CompletedStatus = "completed"

// ComputeDailyRevenue joins valid items to valid completed orders and
// produces one row per calendar date: total revenue and distinct order
// count. Items whose order is valid but not completed are silently excluded;
// that is revenue scoping, not a rejection. Revenue per date is rounded to
// 2 decimal places with half-to-even (banker's) rounding, so reruns are
// bit-for-bit reproducible.
func ComputeDailyRevenue(orders []model.Order, items []model.OrderItem, report *model.QualityReport) []model.DailyRevenue {
	// order_id -> order_date for completed orders only.
	completed := make(map[string]time.Time)
	for _, o := range orders {
		if o.Status.Valid && o.Status.String == CompletedStatus && o.OrderID.Valid && o.OrderDate.Valid {
			completed[o.OrderID.String] = o.OrderDate.Time
		}
	}

	if len(completed) == 0 || len(items) == 0 {
		report.SetOutputMetrics(0, 0, 0)
		return nil
	}

	type dayTotal struct {
		revenue decimal.Decimal
		orders  map[string]struct{}
	}
	days := make(map[time.Time]*dayTotal)

	for _, it := range items {
		if !it.OrderID.Valid {
			continue
		}
		date, ok := completed[it.OrderID.String]
		if !ok {
			continue
		}
		amount := it.Quantity.Decimal.Mul(it.UnitPrice.Decimal)
		day, ok := days[date]
		if !ok {
			day = &dayTotal{orders: make(map[string]struct{})}
			days[date] = day
		}
		day.revenue = day.revenue.Add(amount)
		day.orders[it.OrderID.String] = struct{}{}
	}

	rows := make([]model.DailyRevenue, 0, len(days))
	for date, day := range days {
		rows = append(rows, model.DailyRevenue{
			OrderDate:    date,
			TotalRevenue: day.revenue.RoundBank(2),
			OrdersCount:  len(day.orders),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].OrderDate.Before(rows[j].OrderDate) })

	totalRevenue := decimal.Zero
	totalOrders := 0
	for _, row := range rows {
		totalRevenue = totalRevenue.Add(row.TotalRevenue)
		totalOrders += row.OrdersCount
	}
	report.SetOutputMetrics(len(rows), totalRevenue.InexactFloat64(), totalOrders)

	return rows
}
