package sources

import (
	"encoding/json"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/piquique/daybook/internal/dates"
	"github.com/piquique/daybook/internal/model"
)

// Table names of the five metric families inside the wearable's export.
const (
	tableSteps    = "steps_record_table"
	tableDistance = "distance_record_table"
	tableSleep    = "sleep_session_record_table"
	tableExercise = "exercise_session_record_table"
	tableCalories = "total_calories_burned_record_table"
)

// HealthExport is the raw nested export: table name to sample list. Sample
// fields stay loosely typed because the wearable's schema mixes ints,
// floats and strings across app versions.
type HealthExport map[string][]map[string]any

// LoadHealthExport reads the health collaborator's JSON dump, dropping the
// "_meta" envelope and anything else that is not a sample table.
func LoadHealthExport(path string) (HealthExport, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("path", path).Msg("health export missing, continuing without health data")
			return HealthExport{}, nil
		}
		return nil, err
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	export := HealthExport{}
	for table, body := range doc {
		var samples []map[string]any
		if err := json.Unmarshal(body, &samples); err != nil {
			// The _meta envelope (and any other non-table entry) is not a
			// sample list.
			continue
		}
		export[table] = samples
	}
	return export, nil
}

// AggregateHealth sums the five metric families per day, each family
// independently keyed by its own local_date day count, and keeps only days
// that pass the significance thresholds. Sleep and exercise durations come
// from end_time-start_time millisecond pairs; samples missing either
// endpoint are excluded.
func AggregateHealth(export HealthExport) map[dates.Day]model.HealthDay {
	acc := map[dates.Day]model.HealthDay{}

	for _, rec := range export[tableSteps] {
		day, ok := recordDay(rec)
		if !ok {
			continue
		}
		d := acc[day]
		d.Steps += int(numField(rec, "count"))
		acc[day] = d
	}

	for _, rec := range export[tableDistance] {
		day, ok := recordDay(rec)
		if !ok {
			continue
		}
		d := acc[day]
		d.DistanceKm += numField(rec, "distance") / 1000
		acc[day] = d
	}

	for _, rec := range export[tableSleep] {
		day, ok := recordDay(rec)
		if !ok {
			continue
		}
		ms, ok := sessionMillis(rec)
		if !ok {
			continue
		}
		d := acc[day]
		d.SleepHours += ms / (1000 * 60 * 60)
		acc[day] = d
	}

	for _, rec := range export[tableExercise] {
		day, ok := recordDay(rec)
		if !ok {
			continue
		}
		ms, ok := sessionMillis(rec)
		if !ok {
			continue
		}
		d := acc[day]
		d.ExerciseMin += ms / (1000 * 60)
		acc[day] = d
	}

	for _, rec := range export[tableCalories] {
		day, ok := recordDay(rec)
		if !ok {
			continue
		}
		d := acc[day]
		d.Calories += numField(rec, "energy")
		acc[day] = d
	}

	for day, d := range acc {
		if !d.Significant() {
			delete(acc, day)
		}
	}
	return acc
}

// recordDay resolves a sample's local_date day count to a canonical day.
func recordDay(rec map[string]any) (dates.Day, bool) {
	n, ok := asFloat(rec["local_date"])
	if !ok {
		return "", false
	}
	return dates.FromEpochDays(int(n)), true
}

// sessionMillis returns end_time-start_time for session samples. Both
// endpoints must be present.
func sessionMillis(rec map[string]any) (float64, bool) {
	start, ok := asFloat(rec["start_time"])
	if !ok {
		return 0, false
	}
	end, ok := asFloat(rec["end_time"])
	if !ok {
		return 0, false
	}
	return end - start, true
}

func numField(rec map[string]any, key string) float64 {
	v, _ := asFloat(rec[key])
	return v
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
