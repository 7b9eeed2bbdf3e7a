package model

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Raw holds one input row keyed by normalized (lowercased, trimmed) column
// name. Cell values are kept as cleaned strings so rejected rows can be
// written back out with the same schema as the input file.
type Raw map[string]string

// Order is a standardized order row. Fields that failed parsing or were
// blank in the input are null, never zero values; the validator decides
// what to do with them.
type Order struct {
	OrderID    sql.NullString
	CustomerID sql.NullString
	OrderDate  sql.NullTime // calendar date, midnight UTC
	Status     sql.NullString
	IngestedAt sql.NullTime
	Raw        Raw
}

// OrderItem is a standardized order-item row.
type OrderItem struct {
	ItemID     sql.NullString
	OrderID    sql.NullString
	Quantity   decimal.NullDecimal
	UnitPrice  decimal.NullDecimal
	IngestedAt sql.NullTime
	Raw        Raw
}

// RejectedOrder is an order that failed validation, tagged with the first
// rule that fired.
type RejectedOrder struct {
	Order
	Reason string
}

// RejectedItem is an order item that failed validation.
type RejectedItem struct {
	OrderItem
	Reason string
}

// DailyRevenue is one output row of the revenue aggregation: completed-order
// revenue for a single calendar date.
type DailyRevenue struct {
	OrderDate    time.Time
	TotalRevenue decimal.Decimal
	OrdersCount  int
}
