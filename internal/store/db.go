package store

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"orders-revenue-pipeline/internal/model"
)

var db *sql.DB

// InitDB opens the SQLite run-history database and creates the schema.
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			run_date TEXT,
			input_dir TEXT,
			output_dir TEXT,
			status TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS run_errors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT,
			error_message TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS run_reports (
			run_id TEXT PRIMARY KEY,
			report TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS run_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT,
			stage TEXT,
			detail TEXT,
			created_at DATETIME
		);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the run-history database.
func Close() error {
	if db == nil {
		return nil
	}
	return db.Close()
}

// SaveRun stores a new pipeline run in pending state.
func SaveRun(runID string, spec model.RunSpec) error {
	now := time.Now().UTC()
	_, err := db.Exec(
		`INSERT INTO runs (id, run_date, input_dir, output_dir, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, spec.RunDate, spec.InputDir, spec.OutputDir, "pending", now, now)
	return err
}

// UpdateRunStatus moves a run to a new status.
func UpdateRunStatus(runID, status string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`, status, now, runID)
	return err
}

// SaveRunError records a fatal error for a run.
func SaveRunError(runID string, runErr error) error {
	if runErr == nil {
		return nil
	}
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO run_errors (run_id, error_message, created_at) VALUES (?, ?, ?)`,
		runID, runErr.Error(), now)
	return err
}

// SaveRunReport stores the finalized quality report for a run, overwriting
// any prior report so reruns stay idempotent.
func SaveRunReport(runID string, report *model.QualityReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = db.Exec(
		`INSERT INTO run_reports (run_id, report, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(run_id) DO UPDATE SET report = excluded.report, created_at = excluded.created_at`,
		runID, string(data), now)
	return err
}

// GetRunReport fetches the stored quality report for a run.
func GetRunReport(runID string) (*model.QualityReport, error) {
	var data string
	err := db.QueryRow(`SELECT report FROM run_reports WHERE run_id = ?`, runID).Scan(&data)
	if err != nil {
		return nil, err
	}
	var report model.QualityReport
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// ListRuns returns all runs, newest first.
func ListRuns() ([]map[string]interface{}, error) {
	rows, err := db.Query(
		`SELECT id, run_date, output_dir, status, created_at, updated_at
		 FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []map[string]interface{}
	for rows.Next() {
		var id, runDate, outputDir, status string
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&id, &runDate, &outputDir, &status, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, map[string]interface{}{
			"id":        id,
			"runDate":   runDate,
			"outputDir": outputDir,
			"status":    status,
			"createdAt": createdAt,
			"updatedAt": updatedAt,
		})
	}
	return runs, rows.Err()
}

// GetRun fetches one run with its spec and status.
func GetRun(runID string) (map[string]interface{}, error) {
	var runDate, inputDir, outputDir, status string
	var createdAt, updatedAt time.Time

	err := db.QueryRow(
		`SELECT run_date, input_dir, output_dir, status, created_at, updated_at
		 FROM runs WHERE id = ?`, runID).
		Scan(&runDate, &inputDir, &outputDir, &status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"id":        runID,
		"runDate":   runDate,
		"inputDir":  inputDir,
		"outputDir": outputDir,
		"status":    status,
		"createdAt": createdAt,
		"updatedAt": updatedAt,
	}, nil
}

// ListRunErrors returns the fatal errors recorded for a run.
func ListRunErrors(runID string) ([]map[string]interface{}, error) {
	rows, err := db.Query(
		`SELECT error_message, created_at FROM run_errors WHERE run_id = ? ORDER BY created_at`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var errs []map[string]interface{}
	for rows.Next() {
		var message string
		var createdAt time.Time
		if err := rows.Scan(&message, &createdAt); err != nil {
			return nil, err
		}
		errs = append(errs, map[string]interface{}{
			"message":   message,
			"createdAt": createdAt,
		})
	}
	return errs, rows.Err()
}

// SaveRunLog records one stage-completion entry for a run.
func SaveRunLog(runID, stage string, detail map[string]any) error {
	data, err := json.Marshal(detail)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO run_logs (run_id, stage, detail, created_at) VALUES (?, ?, ?, ?)`,
		runID, stage, string(data), now)
	return err
}

// ListRunLogs returns the stage log for a run in execution order.
func ListRunLogs(runID string) ([]map[string]interface{}, error) {
	rows, err := db.Query(
		`SELECT stage, detail, created_at FROM run_logs WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []map[string]interface{}
	for rows.Next() {
		var stage, detail string
		var createdAt time.Time
		if err := rows.Scan(&stage, &detail, &createdAt); err != nil {
			return nil, err
		}
		var parsed map[string]any
		if err := json.Unmarshal([]byte(detail), &parsed); err != nil {
			parsed = map[string]any{"raw": detail}
		}
		logs = append(logs, map[string]interface{}{
			"stage":     stage,
			"detail":    parsed,
			"createdAt": createdAt,
		})
	}
	return logs, rows.Err()
}

// RunRecorder persists pipeline stage completions for one run. It satisfies
// the pipeline's Recorder interface.
type RunRecorder struct {
	RunID string
}

// StageCompleted writes one stage entry to the run log. Persistence failures
// never interrupt a run.
func (r RunRecorder) StageCompleted(stage string, detail map[string]any) {
	if err := SaveRunLog(r.RunID, stage, detail); err != nil {
		slog.Warn("failed to record stage", "stage", stage, "run_id", r.RunID, "error", err)
	}
}
