// Package postgres persists pipeline run snapshots so past uploads can be
// compared without re-running the pipeline.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"commercepulse/domain/cleaning"
	"commercepulse/domain/core"
	"commercepulse/domain/kpi"
)

// RunSnapshot is the stored record of one pipeline run
type RunSnapshot struct {
	ID          core.SnapshotID `json:"id" db:"id"`
	Source      string          `json:"source" db:"source"`
	Fingerprint string          `json:"fingerprint" db:"fingerprint"`
	Report      cleaning.Report `json:"report"`
	Metrics     kpi.Metrics     `json:"metrics"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// SnapshotRepository handles persistence of run snapshots
type SnapshotRepository struct {
	db *sqlx.DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Connect opens a postgres connection pool and verifies it
func Connect(ctx context.Context, databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("[Postgres] Connected")
	return db, nil
}

// InitSchema creates the snapshots table if it does not exist
func (r *SnapshotRepository) InitSchema(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS run_snapshots (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		report JSONB NOT NULL,
		metrics JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create run_snapshots table: %w", err)
	}
	return nil
}

// Save inserts a new run snapshot
func (r *SnapshotRepository) Save(ctx context.Context, snap *RunSnapshot) error {
	reportJSON, err := json.Marshal(snap.Report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	metricsJSON, err := json.Marshal(snap.Metrics)
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}

	query := `INSERT INTO run_snapshots (
		id, source, fingerprint, report, metrics, created_at
	) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = r.db.ExecContext(ctx, query,
		snap.ID, snap.Source, snap.Fingerprint, reportJSON, metricsJSON, snap.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

// GetByID retrieves one snapshot
func (r *SnapshotRepository) GetByID(ctx context.Context, id core.SnapshotID) (*RunSnapshot, error) {
	query := `SELECT id, source, fingerprint, report, metrics, created_at
	FROM run_snapshots WHERE id = $1`

	var snap RunSnapshot
	var reportJSON, metricsJSON []byte

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&snap.ID, &snap.Source, &snap.Fingerprint, &reportJSON, &metricsJSON, &snap.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("snapshot not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	if err := json.Unmarshal(reportJSON, &snap.Report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	if err := json.Unmarshal(metricsJSON, &snap.Metrics); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metrics: %w", err)
	}

	return &snap, nil
}

// List returns the most recent snapshots, newest first
func (r *SnapshotRepository) List(ctx context.Context, limit int) ([]*RunSnapshot, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, source, fingerprint, report, metrics, created_at
	FROM run_snapshots
	ORDER BY created_at DESC
	LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*RunSnapshot
	for rows.Next() {
		var snap RunSnapshot
		var reportJSON, metricsJSON []byte

		err := rows.Scan(&snap.ID, &snap.Source, &snap.Fingerprint, &reportJSON, &metricsJSON, &snap.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		if err := json.Unmarshal(reportJSON, &snap.Report); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report: %w", err)
		}
		if err := json.Unmarshal(metricsJSON, &snap.Metrics); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metrics: %w", err)
		}

		snapshots = append(snapshots, &snap)
	}

	return snapshots, rows.Err()
}

// Delete removes a snapshot by ID
func (r *SnapshotRepository) Delete(ctx context.Context, id core.SnapshotID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM run_snapshots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("snapshot not found: %s", id)
	}

	return nil
}
