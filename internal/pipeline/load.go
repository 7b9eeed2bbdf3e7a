package pipeline

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"orders-revenue-pipeline/internal/model"
)

// Structural errors: either one aborts the run before any output is written.
var (
	ErrMissingFile    = errors.New("missing input file")
	ErrMissingColumns = errors.New("missing required columns")
)

// Required column sets for the two input files. Extra columns are carried
// through untouched.
var (
	OrderColumns = []string{"order_id", "customer_id", "order_date", "status", "ingested_at"}
	ItemColumns  = []string{"order_id", "quantity", "unit_price", "ingested_at"}
)

// Frame is a loaded CSV file: every cell is still a string, columns are
// normalized to lowercase. No type coercion happens here; that is the
// standardize stage's job.
type Frame struct {
	Path    string
	Columns []string
	Rows    []model.Raw
}

// LoadCSV reads a CSV file into a Frame and verifies that all required
// columns are present after header normalization. Rows shorter than the
// header are padded with empty cells.
func LoadCSV(path string, required []string) (*Frame, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingFile, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w in %s: %s", ErrMissingColumns, path, strings.Join(required, ", "))
	}

	columns := normalizeColumns(records[0])
	if missing := missingColumns(columns, required); len(missing) > 0 {
		return nil, fmt.Errorf("%w in %s: %s", ErrMissingColumns, path, strings.Join(missing, ", "))
	}

	rows := make([]model.Raw, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(model.Raw, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	return &Frame{Path: path, Columns: columns, Rows: rows}, nil
}

func normalizeColumns(header []string) []string {
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return columns
}

func missingColumns(columns, required []string) []string {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}
	var missing []string
	for _, c := range required {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	sort.Strings(missing)
	return missing
}
