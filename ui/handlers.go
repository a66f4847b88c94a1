package ui

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"commercepulse/adapters/postgres"
	"commercepulse/adapters/tabular"
	"commercepulse/app"
	"commercepulse/domain/core"
	"commercepulse/domain/table"
	"commercepulse/internal/analysis"
	"commercepulse/internal/testkit"
)

// AnalysisViews bundles the downstream analytical views of one run
type AnalysisViews struct {
	Growth        analysis.GrowthResult        `json:"growth"`
	UnitEconomics analysis.UnitEconomicsResult `json:"unit_economics"`
	Segments      analysis.SegmentsResult      `json:"segments"`
	Cohorts       analysis.CohortResult        `json:"cohorts"`
	Seasonality   analysis.SeasonalityResult   `json:"seasonality"`
	Trend         analysis.TrendResult         `json:"trend"`
}

// RunResponse is the full payload returned for a pipeline run
type RunResponse struct {
	RunID  core.RunID     `json:"run_id"`
	Source string         `json:"source"`
	Result app.Result     `json:"result"`
	Views  *AnalysisViews `json:"views,omitempty"`
}

// handleHealth reports liveness
func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUploadRun accepts a multipart upload and runs the full pipeline
func (a *App) handleUploadRun(w http.ResponseWriter, r *http.Request) {
	log.Printf("[handleUploadRun] Starting file upload process")

	maxBytes := a.cfg.Data.MaxUploadMB * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	file, header, err := r.FormFile("dataset")
	if err != nil {
		log.Printf("[handleUploadRun] FAILED - No file uploaded: %v", err)
		respondError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	filename := header.Filename
	lower := strings.ToLower(filename)
	if !strings.HasSuffix(lower, ".csv") && !strings.HasSuffix(lower, ".xlsx") {
		log.Printf("[handleUploadRun] FAILED - Invalid file extension: %s", filename)
		respondError(w, http.StatusBadRequest, "Only Excel (.xlsx) and CSV (.csv) files are allowed")
		return
	}

	raw, err := tabular.ReadFrom(file, tabular.DetectFormat(filename))
	if err != nil {
		log.Printf("[handleUploadRun] FAILED - Could not decode %s: %v", filename, err)
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Could not read file: %v", err))
		return
	}

	a.runAndRespond(r.Context(), w, raw, filename)
}

// handleSampleRun generates a synthetic dataset and runs the pipeline on it
func (a *App) handleSampleRun(w http.ResponseWriter, r *http.Request) {
	cfg := testkit.DefaultGeneratorConfig()
	cfg.Seed = a.cfg.Data.SampleSeed
	cfg.OrderCount = a.cfg.Data.SampleOrders
	if v := r.URL.Query().Get("orders"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100000 {
			cfg.OrderCount = n
		}
	}

	raw := testkit.NewGenerator(cfg).Generate()
	log.Printf("[handleSampleRun] Generated sample dataset: %d rows", raw.RowCount())

	a.runAndRespond(r.Context(), w, raw, "sample")
}

// runAndRespond executes the pipeline, persists a snapshot when storage is
// configured, and writes the full run payload.
func (a *App) runAndRespond(ctx context.Context, w http.ResponseWriter, raw *table.Table, source string) {
	result := a.pipeline.Run(raw)

	run := &RunResponse{
		RunID:  core.RunID(core.NewID()),
		Source: source,
		Result: result,
	}

	if !result.Halted {
		run.Views = buildViews(result)
		a.setLastRun(run)
		a.saveSnapshot(ctx, run)
	}

	status := http.StatusOK
	if result.Halted {
		status = http.StatusUnprocessableEntity
	}
	respondJSON(w, status, run)
}

// buildViews derives all analytical views from a completed run
func buildViews(result app.Result) *AnalysisViews {
	clean := result.Clean
	monthly := result.Summaries.Monthly
	return &AnalysisViews{
		Growth:        analysis.AnalyzeGrowth(clean, monthly, result.Metrics),
		UnitEconomics: analysis.AnalyzeUnitEconomics(clean, monthly, result.Metrics),
		Segments:      analysis.AnalyzeSegments(clean, monthly, result.Metrics),
		Cohorts:       analysis.AnalyzeCohorts(clean, monthly, result.Metrics),
		Seasonality:   analysis.AnalyzeSeasonality(clean, monthly, result.Metrics),
		Trend:         analysis.AnalyzeTrend(clean, monthly, result.Metrics),
	}
}

// saveSnapshot persists the run when a repository is configured. Failures are
// logged, not surfaced; persistence is best-effort.
func (a *App) saveSnapshot(ctx context.Context, run *RunResponse) {
	if a.snapshots == nil {
		return
	}

	snap := &postgres.RunSnapshot{
		ID:          core.SnapshotID(core.NewID()),
		Source:      run.Source,
		Fingerprint: string(run.Result.Fingerprint),
		Report:      run.Result.Report,
		Metrics:     run.Result.Metrics,
		CreatedAt:   time.Now().UTC(),
	}
	if err := a.snapshots.Save(ctx, snap); err != nil {
		log.Printf("[saveSnapshot] ERROR - Failed to save snapshot: %v", err)
	}
}

// handleListSnapshots returns recent persisted runs
func (a *App) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	if a.snapshots == nil {
		respondError(w, http.StatusNotImplemented, "Snapshot storage is not configured")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	snapshots, err := a.snapshots.List(r.Context(), limit)
	if err != nil {
		log.Printf("[handleListSnapshots] ERROR - %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to list snapshots")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"snapshots": snapshots,
		"count":     len(snapshots),
	})
}

// handleGetSnapshot returns one persisted run
func (a *App) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	if a.snapshots == nil {
		respondError(w, http.StatusNotImplemented, "Snapshot storage is not configured")
		return
	}

	id := chi.URLParam(r, "id")
	snap, err := a.snapshots.GetByID(r.Context(), core.SnapshotID(id))
	if err != nil {
		respondError(w, http.StatusNotFound, fmt.Sprintf("Snapshot not found: %s", id))
		return
	}

	respondJSON(w, http.StatusOK, snap)
}

// handleDeleteSnapshot removes one persisted run
func (a *App) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if a.snapshots == nil {
		respondError(w, http.StatusNotImplemented, "Snapshot storage is not configured")
		return
	}

	id := chi.URLParam(r, "id")
	if err := a.snapshots.Delete(r.Context(), core.SnapshotID(id)); err != nil {
		respondError(w, http.StatusNotFound, fmt.Sprintf("Snapshot not found: %s", id))
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"deleted": id})
}
