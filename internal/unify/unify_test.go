package unify

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piquique/daybook/internal/dates"
	"github.com/piquique/daybook/internal/model"
)

func day(s string) dates.Day { return dates.Day(s) }

func TestRowsSingleEventNoDocuments(t *testing.T) {
	in := Inputs{
		Events: map[dates.Day][]model.Event{
			day("2025-11-07"): {{Title: "Dentist", Start: "10:00", End: "11:00", Day: "2025-11-07"}},
		},
	}
	rows := Rows(in)

	require.Len(t, rows, 1)
	assert.Equal(t, day("2025-11-07"), rows[0].Day)
	assert.Equal(t, "Dentist", rows[0].EventTitle)
	assert.Empty(t, rows[0].DocID)
	assert.Empty(t, rows[0].DocTitle)
	assert.Empty(t, rows[0].DocFilename)
	assert.Empty(t, rows[0].DocPages)
}

func TestRowsTwoEventsZeroDocuments(t *testing.T) {
	in := Inputs{
		Events: map[dates.Day][]model.Event{
			day("2025-11-07"): {
				{Title: "Dentist", Start: "10:00"},
				{Title: "Cena", Start: "21:00"},
			},
		},
	}
	rows := Rows(in)

	require.Len(t, rows, 2)
	assert.Equal(t, "Dentist", rows[0].EventTitle)
	assert.Equal(t, "Cena", rows[1].EventTitle)
	for _, r := range rows {
		assert.Empty(t, r.DocTitle)
	}
}

func TestRowsSlotCountIsMaxOfListsOrOne(t *testing.T) {
	in := Inputs{
		Events: map[dates.Day][]model.Event{
			day("2025-11-07"): {{Title: "A"}, {Title: "B"}, {Title: "C"}},
		},
		Documents: map[dates.Day][]model.Document{
			day("2025-11-07"): {{ID: "1", Title: "Doc"}},
			day("2025-11-08"): {{ID: "2", Title: "Only doc"}},
		},
		Health: map[dates.Day]model.HealthDay{
			day("2025-11-09"): {Steps: 100},
		},
	}
	rows := Rows(in)

	byDay := map[dates.Day]int{}
	for _, r := range rows {
		byDay[r.Day]++
	}
	assert.Equal(t, 3, byDay[day("2025-11-07")], "max(3 events, 1 doc)")
	assert.Equal(t, 1, byDay[day("2025-11-08")])
	assert.Equal(t, 1, byDay[day("2025-11-09")], "health-only day still emits one row")

	// Positional padding: doc fields only on slot 0 of 2025-11-07.
	assert.Equal(t, "Doc", rows[0].DocTitle)
	assert.Empty(t, rows[1].DocTitle)
	assert.Empty(t, rows[2].DocTitle)
}

func TestRowsBroadcastInvariant(t *testing.T) {
	in := Inputs{
		Events: map[dates.Day][]model.Event{
			day("2025-11-07"): {{Title: "A"}, {Title: "B"}},
		},
		Health: map[dates.Day]model.HealthDay{
			day("2025-11-07"): {Steps: 8542, DistanceKm: 6.34, SleepHours: 7.5},
		},
		Photos: map[dates.Day]model.PhotoDay{
			day("2025-11-07"): {Count: 3, First: "09:00", Last: "18:00", Names: "a.jpg; b.jpg; c.jpg"},
		},
	}
	rows := Rows(in)
	require.Len(t, rows, 2)

	for _, r := range rows {
		assert.Equal(t, "8542", r.Steps)
		assert.Equal(t, "6.34", r.DistanceKm)
		assert.Equal(t, "7.50", r.SleepHours)
		assert.Equal(t, "3", r.PhotoCount)
		assert.Equal(t, "09:00", r.PhotoFirst)
		assert.Equal(t, "18:00", r.PhotoLast)
		assert.Equal(t, "a.jpg; b.jpg; c.jpg", r.PhotoNames)
	}
}

func TestRowsAscendingDayOrder(t *testing.T) {
	in := Inputs{
		Events: map[dates.Day][]model.Event{
			day("2025-12-01"): {{Title: "late"}},
			day("2025-01-05"): {{Title: "early"}},
			day("2025-06-15"): {{Title: "middle"}},
		},
	}
	rows := Rows(in)
	require.Len(t, rows, 3)
	assert.Equal(t, "early", rows[0].EventTitle)
	assert.Equal(t, "middle", rows[1].EventTitle)
	assert.Equal(t, "late", rows[2].EventTitle)
}

func TestRowsDefaultsForAbsentHealth(t *testing.T) {
	in := Inputs{
		Events: map[dates.Day][]model.Event{day("2025-11-07"): {{Title: "A"}}},
	}
	rows := Rows(in)
	require.Len(t, rows, 1)
	assert.Equal(t, "0", rows[0].Steps)
	assert.Equal(t, "0", rows[0].DistanceKm)
	assert.Equal(t, "0", rows[0].SleepHours)
	assert.Equal(t, "0", rows[0].PhotoCount)
	assert.Empty(t, rows[0].PhotoFirst)
}

func TestSnapshotRoundTrip(t *testing.T) {
	in := Inputs{
		Events: map[dates.Day][]model.Event{
			day("2025-11-07"): {{Title: "Dentist", Location: "Clinic", Description: "checkup", Start: "10:00", End: "11:00"}},
		},
		Documents: map[dates.Day][]model.Document{
			day("2025-11-07"): {{ID: "12", Title: "Factura", Filename: "factura.pdf", PageCount: "2"}},
		},
		Health: map[dates.Day]model.HealthDay{
			day("2025-11-07"): {Steps: 1000, DistanceKm: 1.5},
		},
	}
	rows := Rows(in)

	path := filepath.Join(t.TempDir(), "out", "datos_unificados.csv")
	require.NoError(t, WriteSnapshot(path, rows))

	got, err := ReadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestWriteSnapshotOverwritesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datos.csv")

	first := Rows(Inputs{Events: map[dates.Day][]model.Event{day("2025-11-07"): {{Title: "v1"}}}})
	require.NoError(t, WriteSnapshot(path, first))

	second := Rows(Inputs{Events: map[dates.Day][]model.Event{day("2025-11-08"): {{Title: "v2"}}}})
	require.NoError(t, WriteSnapshot(path, second))

	got, err := ReadSnapshot(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "v2", got[0].EventTitle)

	// No temp litter left next to the snapshot.
	matches, err := filepath.Glob(path + ".tmp-*")
	require.NoError(t, err)
	assert.Empty(t, matches)
}
