// Package store persists unified snapshot runs so the read API can answer
// history queries without re-parsing CSV files. The CSV snapshot remains the
// collaborator contract; the store is the service-side copy.
package store

import (
	"context"
	"time"

	"github.com/piquique/daybook/internal/dates"
	"github.com/piquique/daybook/internal/model"
)

// Run is the metadata of one unification run.
type Run struct {
	RunID     string    `json:"runId"`
	CreatedAt time.Time `json:"createdAt"`
	RowCount  int       `json:"rowCount"`
	DayCount  int       `json:"dayCount"`
}

// Store holds unified rows keyed by run.
type Store interface {
	// SaveRun records a run and its rows in one transaction.
	SaveRun(ctx context.Context, run Run, rows []model.UnifiedRow) error
	// LatestRun returns the most recent run's metadata, or
	// model.ErrNotFound when no run was ever saved.
	LatestRun(ctx context.Context) (Run, error)
	// ListRuns returns run metadata, newest first.
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	// RowsForDay returns the latest run's rows for one day, slot order.
	RowsForDay(ctx context.Context, day dates.Day) ([]model.UnifiedRow, error)
	HealthCheck(ctx context.Context) error
	Close() error
}
