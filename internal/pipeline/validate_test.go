package pipeline

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orders-revenue-pipeline/internal/model"
)

func testItem(orderID, quantity, unitPrice string) model.OrderItem {
	it := model.OrderItem{
		OrderID: sql.NullString{String: orderID, Valid: orderID != ""},
		Raw:     model.Raw{"order_id": orderID, "quantity": quantity, "unit_price": unitPrice},
	}
	if quantity != "" {
		if d, err := decimal.NewFromString(quantity); err == nil {
			it.Quantity = decimal.NullDecimal{Decimal: d, Valid: true}
		}
	}
	if unitPrice != "" {
		if d, err := decimal.NewFromString(unitPrice); err == nil {
			it.UnitPrice = decimal.NullDecimal{Decimal: d, Valid: true}
		}
	}
	return it
}

func TestValidateOrdersRuleOrder(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name   string
		order  model.Order
		reason string
	}{
		{"null order id first", testOrder("", "", "", time.Time{}, time.Time{}), ReasonNullOrderID},
		{"null customer before date", testOrder("O1", "", "", time.Time{}, time.Time{}), ReasonNullCustomerID},
		{"null date before status", testOrder("O1", "C1", "", time.Time{}, time.Time{}), ReasonNullOrderDate},
		{"null status last", testOrder("O1", "C1", "", day, time.Time{}), ReasonNullStatus},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			report := model.NewQualityReport("2024-01-01")
			valid, rejected := ValidateOrders([]model.Order{tc.order}, report)
			assert.Empty(t, valid)
			require.Len(t, rejected, 1)
			assert.Equal(t, tc.reason, rejected[0].Reason)
		})
	}
}

func TestValidateOrdersPartition(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	orders := []model.Order{
		testOrder("O1", "C1", "completed", day, time.Time{}),
		testOrder("O2", "", "completed", day, time.Time{}),
		testOrder("O3", "C3", "pending", day, time.Time{}),
		testOrder("", "C4", "completed", day, time.Time{}),
	}

	report := model.NewQualityReport("2024-01-01")
	valid, rejected := ValidateOrders(orders, report)

	assert.Equal(t, len(orders), len(valid)+len(rejected))
	assert.Equal(t, len(valid), report.Valid.Orders)
	assert.Equal(t, len(rejected), report.Rejected.Orders)

	hist := model.ReasonHistogram(report.OrderRejections())
	assert.Equal(t, 1, hist[ReasonNullCustomerID])
	assert.Equal(t, 1, hist[ReasonNullOrderID])
}

func TestValidateItemsRuleOrder(t *testing.T) {
	validIDs := map[string]struct{}{"O1": {}}
	cases := []struct {
		name   string
		item   model.OrderItem
		reason string
	}{
		{"null quantity first", testItem("O1", "", "10.00"), ReasonNullQuantity},
		{"null quantity beats orphan", testItem("OX", "", "10.00"), ReasonNullQuantity},
		{"null price", testItem("O1", "2", ""), ReasonInvalidUnitPrice},
		{"zero price", testItem("O1", "2", "0"), ReasonInvalidUnitPrice},
		{"negative price", testItem("O1", "2", "-5.00"), ReasonInvalidUnitPrice},
		{"price beats orphan", testItem("OX", "2", "0"), ReasonInvalidUnitPrice},
		{"orphan unknown order", testItem("OX", "2", "10.00"), ReasonOrphanItem},
		{"orphan null order id", testItem("", "2", "10.00"), ReasonOrphanItem},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			report := model.NewQualityReport("2024-01-01")
			valid, rejected := ValidateItems([]model.OrderItem{tc.item}, validIDs, report)
			assert.Empty(t, valid)
			require.Len(t, rejected, 1)
			assert.Equal(t, tc.reason, rejected[0].Reason)
		})
	}
}

func TestValidateItemsOrphanCountOnlyCountsOrphanReason(t *testing.T) {
	validIDs := map[string]struct{}{"O1": {}}
	items := []model.OrderItem{
		testItem("OX", "", "10.00"),   // null quantity, also unknown order
		testItem("OX", "2", "10.00"),  // orphan
		testItem("OY", "1", "5.00"),   // orphan
		testItem("O1", "2", "10.00"),  // valid
	}

	report := model.NewQualityReport("2024-01-01")
	valid, rejected := ValidateItems(items, validIDs, report)

	assert.Len(t, valid, 1)
	assert.Len(t, rejected, 3)
	assert.Equal(t, 2, report.OrphanItems)

	hist := model.ReasonHistogram(report.ItemRejections())
	assert.Equal(t, 2, hist[ReasonOrphanItem])
	assert.Equal(t, 1, hist[ReasonNullQuantity])
}

func TestValidateItemsPartition(t *testing.T) {
	validIDs := map[string]struct{}{"O1": {}, "O2": {}}
	items := []model.OrderItem{
		testItem("O1", "1", "2.50"),
		testItem("O2", "3", "1.00"),
		testItem("O3", "1", "1.00"),
		testItem("O1", "", "1.00"),
	}

	report := model.NewQualityReport("2024-01-01")
	valid, rejected := ValidateItems(items, validIDs, report)

	assert.Equal(t, len(items), len(valid)+len(rejected))
	assert.Equal(t, len(valid), report.Valid.OrderItems)
	assert.Equal(t, len(rejected), report.Rejected.OrderItems)
}
