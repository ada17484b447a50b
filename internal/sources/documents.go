package sources

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/piquique/daybook/internal/dates"
	"github.com/piquique/daybook/internal/model"
)

// LoadDocuments reads the paperless export CSV (id, title, modified,
// filename, page_count) and groups documents by the day of their
// modification timestamp. Same-title-within-day uniqueness applies, as with
// events.
func LoadDocuments(path string) (map[dates.Day][]model.Document, error) {
	byDay := map[dates.Day][]model.Document{}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("path", path).Msg("paperless export missing, continuing without documents")
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
		day, err := dates.ParseISOPrefix(row["modified"])
		if err != nil {
			skipped++
			continue
		}
		title := row["title"]
		if seen[day] == nil {
			seen[day] = map[string]bool{}
		}
		if seen[day][title] {
			continue
		}
		seen[day][title] = true
		byDay[day] = append(byDay[day], model.Document{
			ID:        row["id"],
			Title:     title,
			Filename:  row["filename"],
			PageCount: row["page_count"],
			Day:       day,
		})
	}
	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Msg("document rows with unparsable timestamps dropped")
	}
	return byDay, nil
}
