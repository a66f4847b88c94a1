// Package ui exposes the pipeline over HTTP: upload a file, get back the
// cleaning report, summaries, KPIs and analytical views as JSON, or download
// the summaries as an Excel workbook.
package ui

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"commercepulse/adapters/postgres"
	"commercepulse/app"
	"commercepulse/internal/config"
)

// App represents the UI application
type App struct {
	router    *chi.Mux
	pipeline  *app.Pipeline
	snapshots *postgres.SnapshotRepository
	cfg       *config.Config

	// Last completed run, kept for the export endpoint
	lastRun   *RunResponse
	lastMutex sync.RWMutex
}

// NewApp creates a new UI application. The snapshot repository may be nil
// when no database is configured; persistence is then skipped.
func NewApp(cfg *config.Config, snapshots *postgres.SnapshotRepository) *App {
	a := &App{
		router:    chi.NewRouter(),
		pipeline:  app.NewDefault(),
		snapshots: snapshots,
		cfg:       cfg,
	}

	a.setupMiddleware()
	a.setupRoutes()

	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/healthz", a.handleHealth)

	a.router.Post("/api/runs", a.handleUploadRun)
	a.router.Get("/api/runs/sample", a.handleSampleRun)
	a.router.Get("/api/export", a.handleExport)

	a.router.Get("/api/snapshots", a.handleListSnapshots)
	a.router.Get("/api/snapshots/{id}", a.handleGetSnapshot)
	a.router.Delete("/api/snapshots/{id}", a.handleDeleteSnapshot)
}

// Router returns the HTTP handler for mounting or serving
func (a *App) Router() http.Handler {
	return a.router
}

// Start runs the HTTP server on the configured port
func (a *App) Start() error {
	addr := ":" + a.cfg.Server.Port
	log.Printf("[UI] Starting server on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

// setLastRun stores the most recent run for export
func (a *App) setLastRun(run *RunResponse) {
	a.lastMutex.Lock()
	a.lastRun = run
	a.lastMutex.Unlock()
}

// getLastRun returns the most recent run, or nil if none yet
func (a *App) getLastRun() *RunResponse {
	a.lastMutex.RLock()
	defer a.lastMutex.RUnlock()
	return a.lastRun
}

// respondJSON writes a JSON response with the given status
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[UI] ERROR - Failed to encode response: %v", err)
	}
}

// respondError writes a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
