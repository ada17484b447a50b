// Package sources loads each collaborator's export and groups its records by
// canonical day. A missing export degrades to an empty contribution with a
// warning; a record whose date cannot be normalized is skipped, never
// propagated as an empty day.
package sources

import (
	"encoding/csv"
	"errors"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/piquique/daybook/internal/dates"
	"github.com/piquique/daybook/internal/model"
)

// LoadEvents reads the calendar collaborator's CSV (Titulo, Ubicacion,
// Descripcion, Dia, Inicio, Fin; Dia in DD-MM-YYYY) and groups events by
// day. Source order is preserved within a day; two events with the same
// title on the same day collapse to one.
func LoadEvents(path string) (map[dates.Day][]model.Event, error) {
	byDay := map[dates.Day][]model.Event{}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("path", path).Msg("calendar export missing, continuing without events")
			return byDay, nil
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()

	rows, err := readCSV(f)
	if err != nil {
		return nil, err
	}

	seen := map[dates.Day]map[string]bool{}
	skipped := 0
	for _, row := range rows {
		day, err := dates.ParseDMY(row["Dia"])
		if err != nil {
			skipped++
			continue
		}
		title := row["Titulo"]
		if seen[day] == nil {
			seen[day] = map[string]bool{}
		}
		if seen[day][title] {
			continue
		}
		seen[day][title] = true
		byDay[day] = append(byDay[day], model.Event{
			Title:       title,
			Location:    row["Ubicacion"],
			Description: row["Descripcion"],
			Start:       row["Inicio"],
			End:         row["Fin"],
			Day:         day,
		})
	}
	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Msg("calendar rows with unparsable dates dropped")
	}
	return byDay, nil
}

// readCSV reads a headered CSV into one map per row. Rows shorter than the
// header are tolerated (trailing fields empty), matching how the exports are
// written.
func readCSV(r io.Reader) ([]map[string]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	var rows []map[string]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(rec) {
				row[name] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
