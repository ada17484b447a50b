package model

import "github.com/piquique/daybook/internal/dates"

// Event is one calendar entry already converted to tabular form by the
// calendar collaborator. All-day events carry Start "00:00" and End "24:00".
type Event struct {
	Title       string    `json:"titulo"`
	Location    string    `json:"ubicacion"`
	Description string    `json:"descripcion"`
	Start       string    `json:"inicio"`
	End         string    `json:"fin"`
	Day         dates.Day `json:"fecha"`
}

// Document is one paperless document snapshot row. Day derives from the
// document's modification timestamp, not its creation date.
type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"titulo"`
	Filename  string    `json:"archivo"`
	PageCount string    `json:"paginas"`
	Day       dates.Day `json:"fecha"`
}

// HealthDay is the singleton per-day health aggregate. Days with no
// qualifying samples are absent from the aggregation output entirely.
type HealthDay struct {
	Steps       int     `json:"pasos"`
	DistanceKm  float64 `json:"distancia_km"`
	ExerciseMin float64 `json:"ejercicio_min"`
	SleepHours  float64 `json:"horas_sueno"`
	Calories    float64 `json:"calorias"`
}

// Significant reports whether the day carries enough signal to be emitted.
// The thresholds suppress noise-level entries the wearable produces on idle
// days.
func (h HealthDay) Significant() bool {
	return h.Steps > 0 || h.DistanceKm > 0.1 || h.SleepHours > 0.5 || h.ExerciseMin > 5
}

// PhotoDay summarizes one day directory of the photo tree.
type PhotoDay struct {
	Count int    `json:"count"`
	First string `json:"inicio"`
	Last  string `json:"fin"`
	// Names is the "; "-joined file list, ordered by extracted time-of-day.
	Names string `json:"nombres"`
}

// UnifiedRow is one (day, slot) row of the unified snapshot. Event and
// document fields are positional: slot i pairs events[i] with documents[i]
// and pads the shorter list with empty fields. Health and photo fields are
// broadcast identically onto every row of the same day.
type UnifiedRow struct {
	Day dates.Day

	Steps       string
	DistanceKm  string
	ExerciseMin string
	SleepHours  string
	Calories    string

	PhotoCount string
	PhotoFirst string
	PhotoLast  string
	PhotoNames string

	EventTitle       string
	EventLocation    string
	EventDescription string
	EventStart       string
	EventEnd         string

	DocID       string
	DocTitle    string
	DocFilename string
	DocPages    string
}

// TimelineEntry is produced at read time only; it is never persisted.
// SortKey is a zero-padded 24-hour HH:MM string, so lexicographic order is
// chronological order.
type TimelineEntry struct {
	SortKey string    `json:"hora"`
	Text    string    `json:"texto"`
	Day     dates.Day `json:"fecha"`
}

// DayView is the per-day read contract the narrative layer consumes.
type DayView struct {
	Day      dates.Day       `json:"fecha"`
	Health   *HealthDay      `json:"salud,omitempty"`
	Timeline []TimelineEntry `json:"timeline"`
	Docs     []Document      `json:"documentos"`
}
