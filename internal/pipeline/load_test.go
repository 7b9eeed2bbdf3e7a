package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "orders_2024-01-01.csv"), OrderColumns)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingFile))
}

func TestLoadCSVMissingColumns(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "orders.csv",
		"order_id,customer_id,ingested_at\nO1,C1,2024-01-01T00:00:00Z\n")

	_, err := LoadCSV(path, OrderColumns)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumns))
	assert.Contains(t, err.Error(), "order_date")
	assert.Contains(t, err.Error(), "status")
}

func TestLoadCSVNormalizesHeader(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "orders.csv",
		" Order_ID ,CUSTOMER_ID,order_date,Status,ingested_at\nO1,C1,2024-01-01,completed,2024-01-01T10:00:00Z\n")

	frame, err := LoadCSV(path, OrderColumns)
	require.NoError(t, err)
	assert.Equal(t, []string{"order_id", "customer_id", "order_date", "status", "ingested_at"}, frame.Columns)
	require.Len(t, frame.Rows, 1)
	assert.Equal(t, "O1", frame.Rows[0]["order_id"])
}

func TestLoadCSVPadsShortRows(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "items.csv",
		"order_id,quantity,unit_price,ingested_at\nO1,2\n")

	frame, err := LoadCSV(path, ItemColumns)
	require.NoError(t, err)
	require.Len(t, frame.Rows, 1)
	assert.Equal(t, "2", frame.Rows[0]["quantity"])
	assert.Equal(t, "", frame.Rows[0]["unit_price"])
	assert.Equal(t, "", frame.Rows[0]["ingested_at"])
}

func TestLoadCSVKeepsExtraColumns(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "orders.csv",
		"order_id,customer_id,order_date,status,ingested_at,channel\nO1,C1,2024-01-01,completed,2024-01-01T10:00:00Z,web\n")

	frame, err := LoadCSV(path, OrderColumns)
	require.NoError(t, err)
	assert.Contains(t, frame.Columns, "channel")
	assert.Equal(t, "web", frame.Rows[0]["channel"])
}

func TestLoadCSVEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "orders.csv", "")

	_, err := LoadCSV(path, OrderColumns)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumns))
}
