package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orders-revenue-pipeline/internal/model"
)

func TestComputeDailyRevenueSingleCompletedOrder(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	orders := []model.Order{testOrder("O1", "C1", "completed", day, time.Time{})}
	items := []model.OrderItem{testItem("O1", "2", "10.00")}

	report := model.NewQualityReport("2024-01-01")
	rows := ComputeDailyRevenue(orders, items, report)

	require.Len(t, rows, 1)
	assert.Equal(t, day, rows[0].OrderDate)
	assert.Equal(t, "20.00", rows[0].TotalRevenue.StringFixed(2))
	assert.Equal(t, 1, rows[0].OrdersCount)

	assert.Equal(t, 1, report.Output.DailyRevenueRows)
	assert.Equal(t, 20.0, report.Output.TotalRevenue)
	assert.Equal(t, 1, report.Output.TotalOrdersCount)
}

func TestComputeDailyRevenueExcludesNonCompleted(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	orders := []model.Order{
		testOrder("O1", "C1", "completed", day, time.Time{}),
		testOrder("O2", "C2", "pending", day, time.Time{}),
	}
	items := []model.OrderItem{
		testItem("O1", "1", "10.00"),
		testItem("O2", "5", "100.00"), // valid item, non-completed order
	}

	report := model.NewQualityReport("2024-01-01")
	rows := ComputeDailyRevenue(orders, items, report)

	require.Len(t, rows, 1)
	assert.Equal(t, "10.00", rows[0].TotalRevenue.StringFixed(2))
	assert.Equal(t, 1, rows[0].OrdersCount)
}

func TestComputeDailyRevenueGroupsByDate(t *testing.T) {
	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	jan2 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	orders := []model.Order{
		testOrder("O1", "C1", "completed", jan2, time.Time{}),
		testOrder("O2", "C2", "completed", jan1, time.Time{}),
		testOrder("O3", "C3", "completed", jan1, time.Time{}),
	}
	items := []model.OrderItem{
		testItem("O1", "1", "5.00"),
		testItem("O2", "2", "3.00"),
		testItem("O3", "1", "4.00"),
		testItem("O3", "2", "0.50"),
	}

	report := model.NewQualityReport("2024-01-01")
	rows := ComputeDailyRevenue(orders, items, report)

	require.Len(t, rows, 2)
	// Sorted by date ascending.
	assert.Equal(t, jan1, rows[0].OrderDate)
	assert.Equal(t, "11.00", rows[0].TotalRevenue.StringFixed(2))
	assert.Equal(t, 2, rows[0].OrdersCount)
	assert.Equal(t, jan2, rows[1].OrderDate)
	assert.Equal(t, "5.00", rows[1].TotalRevenue.StringFixed(2))
	assert.Equal(t, 3, report.Output.TotalOrdersCount)
}

func TestComputeDailyRevenueBankersRounding(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name      string
		quantity  string
		unitPrice string
		want      string
	}{
		{"half to even down", "1", "10.125", "10.12"},
		{"half to even up", "1", "10.135", "10.14"},
		{"exact", "3", "3.33", "9.99"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			orders := []model.Order{testOrder("O1", "C1", "completed", day, time.Time{})}
			items := []model.OrderItem{testItem("O1", tc.quantity, tc.unitPrice)}

			rows := ComputeDailyRevenue(orders, items, model.NewQualityReport("2024-01-01"))
			require.Len(t, rows, 1)
			assert.Equal(t, tc.want, rows[0].TotalRevenue.StringFixed(2))
		})
	}
}

func TestComputeDailyRevenueEmpty(t *testing.T) {
	report := model.NewQualityReport("2024-01-01")
	rows := ComputeDailyRevenue(nil, nil, report)
	assert.Empty(t, rows)
	assert.Equal(t, 0, report.Output.DailyRevenueRows)
	assert.Equal(t, 0.0, report.Output.TotalRevenue)
}

func TestComputeDailyRevenueNoItemsForCompletedOrders(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	orders := []model.Order{testOrder("O1", "C1", "completed", day, time.Time{})}
	items := []model.OrderItem{testItem("O2", "1", "10.00")}

	report := model.NewQualityReport("2024-01-01")
	rows := ComputeDailyRevenue(orders, items, report)
	assert.Empty(t, rows)
	assert.Equal(t, 0, report.Output.DailyRevenueRows)
}
