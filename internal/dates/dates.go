// Package dates normalizes every source-specific date encoding to the
// canonical ISO calendar day used as the join key across all sources.
package dates

import (
	"fmt"
	"regexp"
	"time"
)

// Day is a canonical ISO calendar date (YYYY-MM-DD). The zero value is
// invalid; constructors return an error instead of an empty Day so callers
// can skip unparsable records without polluting aggregates.
type Day string

const isoLayout = "2006-01-02"

var filenameStampRx = regexp.MustCompile(`(\d{4})(\d{2})(\d{2})_(\d{2})(\d{2})(\d{2})`)

// epoch is day 0 of the wearable's local_date day-count encoding.
var epoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

func (d Day) String() string { return string(d) }

// Time returns the day as a UTC midnight instant. Only valid on Days built
// by this package's constructors.
func (d Day) Time() time.Time {
	t, _ := time.Parse(isoLayout, string(d))
	return t
}

// ParseISO validates a YYYY-MM-DD string for calendar correctness and
// returns it as a Day. Used for photo day-directory names, which are already
// in canonical form.
func ParseISO(s string) (Day, error) {
	t, err := time.Parse(isoLayout, s)
	if err != nil {
		return "", fmt.Errorf("not a calendar date: %q", s)
	}
	return Day(t.Format(isoLayout)), nil
}

// ParseDMY converts a DD-MM-YYYY calendar token (the calendar collaborator's
// day column) into a Day.
func ParseDMY(s string) (Day, error) {
	t, err := time.Parse("02-01-2006", s)
	if err != nil {
		return "", fmt.Errorf("not a DD-MM-YYYY date: %q", s)
	}
	return Day(t.Format(isoLayout)), nil
}

// FormatDMY renders a Day back in the calendar collaborator's DD-MM-YYYY
// form. ParseDMY and FormatDMY round-trip exactly.
func FormatDMY(d Day) string {
	return d.Time().Format("02-01-2006")
}

// ParseISOPrefix takes the leading YYYY-MM-DD of an ISO-prefixed timestamp
// string, e.g. the paperless "modified" column.
func ParseISOPrefix(s string) (Day, error) {
	if len(s) < 10 {
		return "", fmt.Errorf("timestamp too short: %q", s)
	}
	return ParseISO(s[:10])
}

// FromEpochDays converts a day-count integer (day 0 = 1970-01-01 UTC, no
// timezone shift) into a Day.
func FromEpochDays(n int) Day {
	return Day(epoch.AddDate(0, 0, n).Format(isoLayout))
}

// TimeFromFilename extracts an HH:MM time-of-day from a 14-digit
// YYYYMMDD_HHMMSS fragment embedded in a file name. The boolean is false
// when the name carries no such fragment.
func TimeFromFilename(name string) (string, bool) {
	m := filenameStampRx.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return m[4] + ":" + m[5], true
}

// DayFromFilename extracts the day portion of an embedded YYYYMMDD_HHMMSS
// fragment, validating calendar correctness.
func DayFromFilename(name string) (Day, error) {
	m := filenameStampRx.FindStringSubmatch(name)
	if m == nil {
		return "", fmt.Errorf("no embedded timestamp in %q", name)
	}
	return ParseISO(m[1] + "-" + m[2] + "-" + m[3])
}

// FromTime truncates an instant to its calendar day.
func FromTime(t time.Time) Day {
	return Day(t.Format(isoLayout))
}
