package pipeline

import (
	"database/sql"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"orders-revenue-pipeline/internal/model"
)

// Date and timestamp layouts accepted by the standardizer, tried in order.
var (
	dateLayouts = []string{
		"2006-01-02",
		"2006/01/02",
		"01/02/2006",
		time.RFC3339,
	}
	timestampLayouts = []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
)

// StandardizeOrders cleans one loaded orders frame into typed records.
// Every string cell is trimmed, blank cells become null, status is
// lowercased, and date/timestamp fields are parsed. Unparseable values
// become null rather than errors; the validator deals with them. Row count
// and identity are preserved: no row is dropped here.
func StandardizeOrders(frame *Frame) []model.Order {
	orders := make([]model.Order, 0, len(frame.Rows))
	for _, raw := range frame.Rows {
		row := cleanRow(raw)
		if status, ok := row["status"]; ok {
			row["status"] = strings.ToLower(status)
		}
		orders = append(orders, model.Order{
			OrderID:    nullString(row["order_id"]),
			CustomerID: nullString(row["customer_id"]),
			OrderDate:  parseDate(row["order_date"]),
			Status:     nullString(row["status"]),
			IngestedAt: parseTimestamp(row["ingested_at"]),
			Raw:        row,
		})
	}
	return orders
}

// StandardizeItems cleans one loaded order-items frame into typed records.
// Quantity and unit price are parsed as exact decimals; non-numeric text
// becomes null.
func StandardizeItems(frame *Frame) []model.OrderItem {
	items := make([]model.OrderItem, 0, len(frame.Rows))
	for _, raw := range frame.Rows {
		row := cleanRow(raw)
		items = append(items, model.OrderItem{
			ItemID:     nullString(row["item_id"]),
			OrderID:    nullString(row["order_id"]),
			Quantity:   parseDecimal(row["quantity"]),
			UnitPrice:  parseDecimal(row["unit_price"]),
			IngestedAt: parseTimestamp(row["ingested_at"]),
			Raw:        row,
		})
	}
	return items
}

// cleanRow trims every cell. Whitespace-only cells collapse to the empty
// string, which the null* helpers treat as null.
func cleanRow(raw model.Raw) model.Raw {
	row := make(model.Raw, len(raw))
	for col, val := range raw {
		row[col] = strings.TrimSpace(val)
	}
	return row
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func parseDate(s string) sql.NullTime {
	if s == "" {
		return sql.NullTime{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return sql.NullTime{Time: day, Valid: true}
		}
	}
	return sql.NullTime{}
}

func parseTimestamp(s string) sql.NullTime {
	if s == "" {
		return sql.NullTime{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return sql.NullTime{Time: t.UTC(), Valid: true}
		}
	}
	return sql.NullTime{}
}

func parseDecimal(s string) decimal.NullDecimal {
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
