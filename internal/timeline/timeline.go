// Package timeline merges a day's event-like entries into one chronological
// sequence for narrative consumption.
package timeline

import (
	"fmt"
	"sort"

	"github.com/piquique/daybook/internal/dates"
	"github.com/piquique/daybook/internal/model"
)

// Build renders one day's events and photo session as a chronologically
// sorted entry list. Sort keys are zero-padded 24-hour HH:MM strings, so
// plain lexicographic order is chronological. The photo summary contributes
// exactly one entry at its start time describing the whole session. Pure
// function of its inputs.
func Build(day dates.Day, events []model.Event, photos model.PhotoDay) []model.TimelineEntry {
	var entries []model.TimelineEntry
	seen := map[string]bool{}

	for _, ev := range events {
		if ev.Title == "" {
			continue
		}
		start := ev.Start
		if start == "" {
			start = "00:00"
		}
		sig := ev.Title + "-" + start
		if seen[sig] {
			continue
		}
		seen[sig] = true
		entries = append(entries, model.TimelineEntry{
			SortKey: start,
			Day:     day,
			Text: fmt.Sprintf("⏰ %s: Asistir al evento '%s' en %s. Nota: %s",
				start, ev.Title, ev.Location, ev.Description),
		})
	}

	if photos.Count > 0 {
		start := photos.First
		if start == "" {
			start = "00:00"
		}
		entries = append(entries, model.TimelineEntry{
			SortKey: start,
			Day:     day,
			Text: fmt.Sprintf("📸 %s: Sesión de fotos (%d imágenes). Archivos: [%s]",
				start, photos.Count, photos.Names),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SortKey < entries[j].SortKey
	})
	return entries
}
