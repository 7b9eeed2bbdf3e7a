package pipeline

import (
	"sort"

	"orders-revenue-pipeline/internal/model"
)

// DeduplicateOrders collapses order rows sharing an order_id down to one row
// each: the row with the latest non-null ingested_at wins. The sort is
// stable, so rows with equal or all-null timestamps resolve to the same
// survivor on every rerun with unchanged input order. Rows with a null
// order_id share a single key and collapse to one row; validation rejects
// that survivor afterwards.
func DeduplicateOrders(orders []model.Order, report *model.QualityReport) []model.Order {
	if len(orders) == 0 {
		report.SetDuplicateOrders(0)
		return orders
	}

	sorted := make([]model.Order, len(orders))
	copy(sorted, orders)

	// order_id ascending (nulls last), then ingested_at descending with
	// nulls last, so the first row per key is the keeper.
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.OrderID.Valid != b.OrderID.Valid {
			return a.OrderID.Valid
		}
		if a.OrderID.String != b.OrderID.String {
			return a.OrderID.String < b.OrderID.String
		}
		if a.IngestedAt.Valid != b.IngestedAt.Valid {
			return a.IngestedAt.Valid
		}
		return a.IngestedAt.Time.After(b.IngestedAt.Time)
	})

	seen := make(map[string]bool, len(sorted))
	deduped := sorted[:0]
	for _, o := range sorted {
		key := ""
		if o.OrderID.Valid {
			key = o.OrderID.String
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, o)
	}

	report.SetDuplicateOrders(len(orders) - len(deduped))
	return deduped
}
