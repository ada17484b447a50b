// Package pipeline runs one full unification pass: load the four source
// exports, aggregate per day, join, and persist the snapshot. Each run is a
// pure batch transformation; nothing is cached between runs.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/piquique/daybook/internal/config"
	"github.com/piquique/daybook/internal/sources"
	"github.com/piquique/daybook/internal/store"
	"github.com/piquique/daybook/internal/unify"
)

// Run executes one unification run. Missing sources degrade to empty
// contributions; a snapshot write failure is fatal and leaves the previous
// snapshot untouched. When st is non-nil the rows are also recorded there
// under a fresh run id.
func Run(ctx context.Context, cfg *config.Config, st store.Store) (store.Run, error) {
	events, err := sources.LoadEvents(cfg.CalendarCSV)
	if err != nil {
		return store.Run{}, fmt.Errorf("load events: %w", err)
	}
	docs, err := sources.LoadDocuments(cfg.DocumentsCSV)
	if err != nil {
		return store.Run{}, fmt.Errorf("load documents: %w", err)
	}
	export, err := sources.LoadHealthExport(cfg.HealthJSON)
	if err != nil {
		return store.Run{}, fmt.Errorf("load health export: %w", err)
	}
	photos, err := sources.LoadPhotos(cfg.PhotosRoot)
	if err != nil {
		return store.Run{}, fmt.Errorf("scan photos: %w", err)
	}

	in := unify.Inputs{
		Events:    events,
		Documents: docs,
		Health:    sources.AggregateHealth(export),
		Photos:    photos,
	}
	rows := unify.Rows(in)

	if err := unify.WriteSnapshot(cfg.SnapshotCSV, rows); err != nil {
		return store.Run{}, fmt.Errorf("write snapshot: %w", err)
	}

	run := store.Run{
		RunID:     uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		RowCount:  len(rows),
		DayCount:  len(in.Days()),
	}
	if st != nil {
		if err := st.SaveRun(ctx, run, rows); err != nil {
			return store.Run{}, fmt.Errorf("record run: %w", err)
		}
	}

	log.Info().
		Str("run_id", run.RunID).
		Int("rows", run.RowCount).
		Int("days", run.DayCount).
		Str("snapshot", cfg.SnapshotCSV).
		Msg("unification run complete")
	return run, nil
}
