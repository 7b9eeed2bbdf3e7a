package model

// RunSpec describes one pipeline run: which day to process and where the
// input and output files live. Input files are located by naming convention
// inside InputDir (orders_<run-date>.csv, order_items_<run-date>.csv).
type RunSpec struct {
	RunDate   string `json:"run_date"`
	InputDir  string `json:"input_dir"`
	OutputDir string `json:"output_dir"`
}
