package handler

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cast"

	"orders-revenue-pipeline/internal/model"
	"orders-revenue-pipeline/internal/pipeline"
	"orders-revenue-pipeline/internal/store"
	"orders-revenue-pipeline/pkg/router"
	"orders-revenue-pipeline/pkg/utils"
)

var (
	defaultInputDir string
	outputs         *utils.OutputManager
)

// Setup wires the handler package's defaults: where input extracts live and
// where per-run output directories are created.
func Setup(inputDir string, om *utils.OutputManager) {
	defaultInputDir = inputDir
	outputs = om
}

// CreateRun starts a new pipeline run
// @Summary Start a pipeline run
// @Description Create a pipeline run for a given run date and execute it asynchronously
// @Tags runs
// @Accept json
// @Produce json
// @Param run body model.RunSpec true "Run specification"
// @Success 202 {object} map[string]interface{} "Run accepted"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs [post]
func CreateRun(w http.ResponseWriter, r *http.Request) {
	var spec model.RunSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	if err := utils.ValidateRunDate(spec.RunDate); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if spec.InputDir == "" {
		spec.InputDir = defaultInputDir
	}

	runID := uuid.New().String()
	if spec.OutputDir == "" {
		spec.OutputDir = outputs.RunDir(runID)
	}

	if err := store.SaveRun(runID, spec); err != nil {
		http.Error(w, "Failed to save run", http.StatusInternalServerError)
		return
	}

	go executeRun(runID, spec)

	resp := map[string]interface{}{
		"runID":     runID,
		"status":    "pending",
		"createdAt": time.Now().UTC(),
		"outputs": map[string]string{
			"dailyRevenue":  outputs.DownloadURL(runID, pipeline.DailyRevenueFile),
			"qualityReport": outputs.DownloadURL(runID, pipeline.QualityReportFile),
		},
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(resp)
}

// executeRun runs the pipeline for one accepted run and persists the outcome.
func executeRun(runID string, spec model.RunSpec) {
	store.UpdateRunStatus(runID, "running")

	report, err := pipeline.Run(spec, store.RunRecorder{RunID: runID})
	if err != nil {
		store.UpdateRunStatus(runID, "failed")
		store.SaveRunError(runID, err)
		return
	}

	store.SaveRunReport(runID, report)
	store.UpdateRunStatus(runID, "completed")
}

// ListRuns lists pipeline runs
// @Summary List runs
// @Description List pipeline runs, newest first
// @Tags runs
// @Produce json
// @Param limit query int false "Maximum number of runs to return"
// @Success 200 {array} map[string]interface{} "List of runs"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs [get]
func ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := store.ListRuns()
	if err != nil {
		http.Error(w, "Failed to fetch runs", http.StatusInternalServerError)
		return
	}

	if limit := cast.ToInt(r.URL.Query().Get("limit")); limit > 0 && limit < len(runs) {
		runs = runs[:limit]
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runs)
}

// GetRun fetches one run
// @Summary Get run
// @Description Retrieve one pipeline run with its spec and status
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run detail"
// @Failure 404 {object} map[string]interface{} "Run not found"
// @Router /runs/{id} [get]
func GetRun(w http.ResponseWriter, r *http.Request) {
	run, err := store.GetRun(runID(r))
	if err != nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}

// GetRunReport fetches the quality report of a run
// @Summary Get run quality report
// @Description Retrieve the data-quality report produced by a completed run
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} model.QualityReport "Quality report"
// @Failure 404 {object} map[string]interface{} "Report not found"
// @Router /runs/{id}/report [get]
func GetRunReport(w http.ResponseWriter, r *http.Request) {
	report, err := store.GetRunReport(runID(r))
	if err != nil {
		http.Error(w, "Report not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

// GetRunErrors lists the fatal errors of a run
// @Summary Get run errors
// @Description List fatal errors recorded for a run
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {array} map[string]interface{} "Run errors"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs/{id}/errors [get]
func GetRunErrors(w http.ResponseWriter, r *http.Request) {
	errs, err := store.ListRunErrors(runID(r))
	if err != nil {
		http.Error(w, "Failed to fetch run errors", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(errs)
}

// GetRunLogs lists the stage log of a run
// @Summary Get run stage log
// @Description List per-stage progress entries recorded during a run
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {array} map[string]interface{} "Stage log"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs/{id}/logs [get]
func GetRunLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := store.ListRunLogs(runID(r))
	if err != nil {
		http.Error(w, "Failed to fetch run logs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(logs)
}

// DownloadRunFile serves one output file of a run
// @Summary Download run output
// @Description Download an output file (daily revenue, rejected rows, quality report) of a run
// @Tags runs
// @Produce octet-stream
// @Param id path string true "Run ID"
// @Param name path string true "Output file name"
// @Success 200 {file} file "Output file"
// @Failure 404 {object} map[string]interface{} "File not found"
// @Router /runs/{id}/files/{name} [get]
func DownloadRunFile(w http.ResponseWriter, r *http.Request) {
	run, err := store.GetRun(runID(r))
	if err != nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	name := router.PathSegment(r.URL.Path, 5)
	path := utils.RunFilePath(cast.ToString(run["outputDir"]), name)
	if _, err := os.Stat(path); err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", utils.ContentType(path))
	http.ServeFile(w, r, path)
}

// runID extracts the run ID segment from /api/v1/runs/{id}[...] paths.
func runID(r *http.Request) string {
	return router.PathSegment(r.URL.Path, 3)
}
