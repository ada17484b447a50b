package export

import (
	"encoding/csv"
	"io"
	"regexp"
	"strings"
)

// EventBlockSeparator delimits the concatenated iCalendar event blobs the
// calendar store emits.
const EventBlockSeparator = "---EVENTO---"

// missingField is the placeholder for simple fields absent from an event
// blob; the narrative layer renders it verbatim.
const missingField = "no tiene"

var (
	allDayRx    = regexp.MustCompile(`VALUE=DATE:(\d{4})(\d{2})(\d{2})`)
	timedRx     = regexp.MustCompile(`:(\d{4})(\d{2})(\d{2})T(\d{2})(\d{2})(\d{2})`)
	dtStartLine = regexp.MustCompile(`DTSTART(.*?)\r\n`)
	dtEndLine   = regexp.MustCompile(`DTEND(.*?)\r\n`)
)

// ICSRow is one converted calendar row: Titulo, Ubicacion, Descripcion,
// Dia (DD-MM-YYYY), Inicio, Fin. All-day events carry 00:00/24:00.
type ICSRow struct {
	Title       string
	Location    string
	Description string
	Day         string
	Start       string
	End         string
}

// ParseICS converts the calendar store's raw event dump into tabular rows.
// Events without a parseable start date are skipped.
func ParseICS(raw string) []ICSRow {
	var out []ICSRow
	for _, block := range strings.Split(raw, EventBlockSeparator) {
		if strings.TrimSpace(block) == "" {
			continue
		}
		row, ok := parseEvent(block)
		if ok {
			out = append(out, row)
		}
	}
	return out
}

func parseEvent(block string) (ICSRow, bool) {
	start := dtStartLine.FindString(block)
	if start == "" {
		return ICSRow{}, false
	}

	row := ICSRow{
		Title:       icsField(block, "SUMMARY"),
		Location:    icsField(block, "LOCATION"),
		Description: icsField(block, "DESCRIPTION"),
	}

	day, clock, allDay := parseStamp(start)
	if day == "" {
		return ICSRow{}, false
	}
	row.Day = day
	row.Start = clock

	switch {
	case allDay:
		row.End = "24:00"
	default:
		end := dtEndLine.FindString(block)
		if end == "" {
			row.End = missingField
			break
		}
		_, endClock, _ := parseStamp(end)
		if endClock == "" {
			row.End = "Error"
		} else {
			row.End = endClock
		}
	}
	return row, true
}

// parseStamp reads one DTSTART/DTEND line. All-day stamps
// (VALUE=DATE:YYYYMMDD) yield 00:00 with the allDay flag; timed stamps
// yield their HH:MM.
func parseStamp(line string) (day, clock string, allDay bool) {
	if m := allDayRx.FindStringSubmatch(line); m != nil {
		return m[3] + "-" + m[2] + "-" + m[1], "00:00", true
	}
	if m := timedRx.FindStringSubmatch(line); m != nil {
		return m[3] + "-" + m[2] + "-" + m[1], m[4] + ":" + m[5], false
	}
	return "", "", false
}

// icsField extracts a simple property value, unescaping folded newlines.
func icsField(block, name string) string {
	rx := regexp.MustCompile(name + `:(.*?)\r\n`)
	m := rx.FindStringSubmatch(block)
	if m == nil {
		return missingField
	}
	return strings.TrimSpace(strings.ReplaceAll(m[1], `\n`, " "))
}

// WriteICSCSV renders converted rows as the calendar CSV the events
// aggregator reads.
func WriteICSCSV(w io.Writer, rows []ICSRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Titulo", "Ubicacion", "Descripcion", "Dia", "Inicio", "Fin"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.Title, r.Location, r.Description, r.Day, r.Start, r.End}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
