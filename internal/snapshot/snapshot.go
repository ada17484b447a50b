// Package snapshot holds the loaded unified dataset behind an explicit
// handle with a defined reload operation. Read handlers share one Handle;
// nothing in the repo keeps dataset state in package-level variables.
package snapshot

import (
	"os"
	"sort"
	"sync/atomic"

	"github.com/piquique/daybook/internal/dates"
	"github.com/piquique/daybook/internal/model"
	"github.com/piquique/daybook/internal/timeline"
	"github.com/piquique/daybook/internal/unify"
)

// Dataset is one immutable load of the unified snapshot, indexed by day.
type Dataset struct {
	rows  map[dates.Day][]model.UnifiedRow
	days  []dates.Day
	Total int
}

// Handle is the shared access point to the current Dataset. Reload swaps
// the whole dataset atomically; readers always see a complete load.
type Handle struct {
	path string
	cur  atomic.Pointer[Dataset]
}

// Open loads the snapshot at path. A missing snapshot yields an empty
// dataset rather than an error, matching the degrade-to-empty policy of the
// pipeline's inputs.
func Open(path string) (*Handle, error) {
	h := &Handle{path: path}
	if err := h.Reload(); err != nil {
		return nil, err
	}
	return h, nil
}

// Reload re-reads the snapshot file and swaps it in. A missing file loads
// as empty; any other read error leaves the current dataset in place.
func (h *Handle) Reload() error {
	rows, err := unify.ReadSnapshot(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			h.cur.Store(index(nil))
			return nil
		}
		return err
	}
	h.cur.Store(index(rows))
	return nil
}

// Current returns the dataset loaded by the most recent Reload.
func (h *Handle) Current() *Dataset {
	return h.cur.Load()
}

func index(rows []model.UnifiedRow) *Dataset {
	byDay := map[dates.Day][]model.UnifiedRow{}
	for _, r := range rows {
		byDay[r.Day] = append(byDay[r.Day], r)
	}
	days := make([]dates.Day, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return &Dataset{rows: byDay, days: days, Total: len(rows)}
}

// Days lists every day present in the snapshot, ascending.
func (d *Dataset) Days() []dates.Day { return d.days }

// Rows returns the unified rows of one day in slot order.
func (d *Dataset) Rows(day dates.Day) []model.UnifiedRow { return d.rows[day] }

// View assembles the per-day read contract: the day's health aggregate, its
// chronological timeline and its deduplicated document list. Returns
// model.ErrNotFound when the day is absent from the snapshot.
func (d *Dataset) View(day dates.Day) (model.DayView, error) {
	rows, ok := d.rows[day]
	if !ok {
		return model.DayView{}, model.ErrNotFound
	}

	view := model.DayView{Day: day}

	// Broadcast fields are identical on every row; read them once.
	if steps, ok := model.ParseInt(rows[0].Steps); ok {
		dist, _ := model.ParseFloat(rows[0].DistanceKm)
		ex, _ := model.ParseFloat(rows[0].ExerciseMin)
		sleep, _ := model.ParseFloat(rows[0].SleepHours)
		cal, _ := model.ParseFloat(rows[0].Calories)
		view.Health = &model.HealthDay{
			Steps:       steps,
			DistanceKm:  dist,
			ExerciseMin: ex,
			SleepHours:  sleep,
			Calories:    cal,
		}
	}

	var events []model.Event
	photos := model.PhotoDay{}
	seenDoc := map[string]bool{}
	for _, r := range rows {
		if r.EventTitle != "" {
			events = append(events, model.Event{
				Title:       r.EventTitle,
				Location:    r.EventLocation,
				Description: r.EventDescription,
				Start:       r.EventStart,
				End:         r.EventEnd,
				Day:         day,
			})
		}
		if r.DocTitle != "" && !seenDoc[r.DocID] {
			seenDoc[r.DocID] = true
			view.Docs = append(view.Docs, model.Document{
				ID:        r.DocID,
				Title:     r.DocTitle,
				Filename:  r.DocFilename,
				PageCount: r.DocPages,
				Day:       day,
			})
		}
	}
	if n, ok := model.ParseInt(rows[0].PhotoCount); ok && n > 0 {
		photos = model.PhotoDay{
			Count: n,
			First: rows[0].PhotoFirst,
			Last:  rows[0].PhotoLast,
			Names: rows[0].PhotoNames,
		}
	}

	view.Timeline = timeline.Build(day, events, photos)
	return view, nil
}
