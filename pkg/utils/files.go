package utils

import (
	"fmt"
	"path/filepath"
	"time"
)

const runDateLayout = "2006-01-02"

// ValidateRunDate checks that a run date is a real YYYY-MM-DD calendar date.
func ValidateRunDate(runDate string) error {
	if _, err := time.Parse(runDateLayout, runDate); err != nil {
		return fmt.Errorf("invalid run date %q, expected YYYY-MM-DD", runDate)
	}
	return nil
}

// OrdersFile returns the conventional path of the orders extract for a run.
func OrdersFile(inputDir, runDate string) string {
	return filepath.Join(inputDir, fmt.Sprintf("orders_%s.csv", runDate))
}

// ItemsFile returns the conventional path of the order-items extract for a run.
func ItemsFile(inputDir, runDate string) string {
	return filepath.Join(inputDir, fmt.Sprintf("order_items_%s.csv", runDate))
}

// RunFilePath resolves an output file name inside a run's output directory.
// The name is flattened to its base so a request cannot escape the directory.
func RunFilePath(outputDir, fileName string) string {
	return filepath.Join(outputDir, filepath.Base(fileName))
}
