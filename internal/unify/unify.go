// Package unify joins the four per-day source collections into the unified
// snapshot the narrative layer consumes.
package unify

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/piquique/daybook/internal/dates"
	"github.com/piquique/daybook/internal/model"
)

// Inputs holds the four per-day collections produced by the source
// aggregators. Events and documents are list-valued; health and photos are
// at most one summary per day.
type Inputs struct {
	Events    map[dates.Day][]model.Event
	Documents map[dates.Day][]model.Document
	Health    map[dates.Day]model.HealthDay
	Photos    map[dates.Day]model.PhotoDay
}

// Days returns the sorted union of days present in any source.
func (in Inputs) Days() []dates.Day {
	set := map[dates.Day]bool{}
	for d := range in.Events {
		set[d] = true
	}
	for d := range in.Documents {
		set[d] = true
	}
	for d := range in.Health {
		set[d] = true
	}
	for d := range in.Photos {
		set[d] = true
	}
	days := make([]dates.Day, 0, len(set))
	for d := range set {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}

// Rows emits the unified rows in ascending day order. Per day the row count
// is max(len(events), len(documents), 1); slot i pairs events[i] with
// documents[i] positionally and pads the shorter list with empty fields,
// while the day's health and photo summaries are broadcast onto every row.
// Slot pairing carries no semantic relation between an event and a document;
// it is a deliberate simplicity tradeoff the downstream prompt text depends
// on.
func Rows(in Inputs) []model.UnifiedRow {
	var rows []model.UnifiedRow

	for _, day := range in.Days() {
		events := in.Events[day]
		docs := in.Documents[day]

		slots := len(events)
		if len(docs) > slots {
			slots = len(docs)
		}
		if slots == 0 {
			slots = 1
		}

		base := model.UnifiedRow{Day: day}
		if h, ok := in.Health[day]; ok {
			fillHealth(&base, h)
		} else {
			base.Steps, base.DistanceKm, base.ExerciseMin = "0", "0", "0"
			base.SleepHours, base.Calories = "0", "0"
		}
		fillPhotos(&base, in.Photos[day])

		for i := 0; i < slots; i++ {
			row := base
			if i < len(events) {
				row.EventTitle = events[i].Title
				row.EventLocation = events[i].Location
				row.EventDescription = events[i].Description
				row.EventStart = events[i].Start
				row.EventEnd = events[i].End
			}
			if i < len(docs) {
				row.DocID = docs[i].ID
				row.DocTitle = docs[i].Title
				row.DocFilename = docs[i].Filename
				row.DocPages = docs[i].PageCount
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// fillHealth renders the broadcast health fields. Absent days keep the
// zero-valued defaults the consumer expects.
func fillHealth(row *model.UnifiedRow, h model.HealthDay) {
	row.Steps = strconv.Itoa(h.Steps)
	row.DistanceKm = fmt.Sprintf("%.2f", h.DistanceKm)
	row.ExerciseMin = strconv.Itoa(int(h.ExerciseMin))
	row.SleepHours = fmt.Sprintf("%.2f", h.SleepHours)
	row.Calories = strconv.Itoa(int(h.Calories))
}

func fillPhotos(row *model.UnifiedRow, p model.PhotoDay) {
	row.PhotoCount = strconv.Itoa(p.Count)
	row.PhotoFirst = p.First
	row.PhotoLast = p.Last
	row.PhotoNames = p.Names
}
