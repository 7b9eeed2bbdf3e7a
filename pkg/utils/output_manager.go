package utils

import (
	"fmt"
	"path/filepath"
	"strings"
)

// OutputManager organizes per-run output directories under a common base
// directory and maps output files to download URLs.
type OutputManager struct {
	BaseOutputDir string
}

// NewOutputManager creates an output manager rooted at baseOutputDir.
func NewOutputManager(baseOutputDir string) *OutputManager {
	return &OutputManager{BaseOutputDir: baseOutputDir}
}

// RunDir returns the output directory assigned to a run. The directory is
// not created here; the pipeline's export stage creates it when the first
// output is written, so a failed run leaves nothing behind.
func (om *OutputManager) RunDir(runID string) string {
	return filepath.Join(om.BaseOutputDir, runID)
}

// OutputFilePath returns the full path of an output file for a run. The file
// name is flattened to its base to keep lookups inside the run directory.
func (om *OutputManager) OutputFilePath(runID, fileName string) string {
	return filepath.Join(om.BaseOutputDir, runID, filepath.Base(fileName))
}

// DownloadURL returns the API download URL for a run output file.
func (om *OutputManager) DownloadURL(runID, fileName string) string {
	return fmt.Sprintf("/api/v1/runs/%s/files/%s", runID, filepath.Base(fileName))
}

// ContentType maps an output file name to its HTTP content type.
func ContentType(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return "text/csv"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
