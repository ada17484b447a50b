package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piquique/daybook/internal/model"
	"github.com/piquique/daybook/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "data", "daybook.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleRows() []model.UnifiedRow {
	return []model.UnifiedRow{
		{
			Day: "2025-11-07", Steps: "8542", DistanceKm: "6.34",
			ExerciseMin: "45", SleepHours: "7.50", Calories: "1800",
			PhotoCount: "3", PhotoFirst: "09:00", PhotoLast: "18:00",
			PhotoNames: "a.jpg; b.jpg; c.jpg",
			EventTitle: "Dentista", EventLocation: "Clinica",
			EventDescription: "revision", EventStart: "10:00", EventEnd: "11:00",
			DocID: "12", DocTitle: "Factura", DocFilename: "factura.pdf", DocPages: "2",
		},
		{
			Day: "2025-11-07", Steps: "8542", DistanceKm: "6.34",
			ExerciseMin: "45", SleepHours: "7.50", Calories: "1800",
			PhotoCount: "3", PhotoFirst: "09:00", PhotoLast: "18:00",
			PhotoNames: "a.jpg; b.jpg; c.jpg",
			EventTitle: "Cena", EventStart: "21:00",
		},
		{
			Day: "2025-11-08", Steps: "0", DistanceKm: "0", ExerciseMin: "0",
			SleepHours: "0", Calories: "0", PhotoCount: "0",
			DocID: "13", DocTitle: "Contrato", DocFilename: "contrato.pdf", DocPages: "8",
		},
	}
}

func TestSaveRunAndLatest(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := store.Run{
		RunID:     "run-1",
		CreatedAt: time.Date(2025, 11, 8, 12, 0, 0, 0, time.UTC),
		RowCount:  3,
		DayCount:  2,
	}
	require.NoError(t, s.SaveRun(ctx, run, sampleRows()))

	got, err := s.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, 3, got.RowCount)
	assert.Equal(t, 2, got.DayCount)
}

func TestLatestRunEmptyStore(t *testing.T) {
	s := newTestStore(t)
	_, err := s.LatestRun(context.Background())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRowsForDayServesLatestRunOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 11, 8, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveRun(ctx,
		store.Run{RunID: "run-1", CreatedAt: base, RowCount: 3, DayCount: 2},
		sampleRows()))

	// Second run drops 2025-11-08 entirely.
	newer := sampleRows()[:2]
	require.NoError(t, s.SaveRun(ctx,
		store.Run{RunID: "run-2", CreatedAt: base.Add(time.Minute), RowCount: 2, DayCount: 1},
		newer))

	rows, err := s.RowsForDay(ctx, "2025-11-07")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Dentista", rows[0].EventTitle, "slot order preserved")
	assert.Equal(t, "Cena", rows[1].EventTitle)

	_, err = s.RowsForDay(ctx, "2025-11-08")
	assert.ErrorIs(t, err, model.ErrNotFound, "day only in older run")
}

func TestRowsForDayRoundTripsAllFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := sampleRows()[:1]
	require.NoError(t, s.SaveRun(ctx,
		store.Run{RunID: "run-1", CreatedAt: time.Now().UTC(), RowCount: 1, DayCount: 1}, in))

	out, err := s.RowsForDay(ctx, "2025-11-07")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, in[0], out[0])
}

func TestListRunsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 11, 8, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"run-1", "run-2", "run-3"} {
		require.NoError(t, s.SaveRun(ctx,
			store.Run{RunID: id, CreatedAt: base.Add(time.Duration(i) * time.Minute)}, nil))
	}

	runs, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-3", runs[0].RunID)
	assert.Equal(t, "run-2", runs[1].RunID)
}

func TestHealthCheck(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.HealthCheck(context.Background()))
}
