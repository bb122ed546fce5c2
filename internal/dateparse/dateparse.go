// Package dateparse normalizes the free-text date/time strings found in
// reservation spreadsheets into a canonical calendar date and clock time.
package dateparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateTime is the canonical (date, time) pair produced by Parse.
type DateTime struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
}

// DateString renders the date component as "2006-01-02".
func (dt DateTime) DateString() string {
	return fmt.Sprintf("%04d-%02d-%02d", dt.Year, dt.Month, dt.Day)
}

// TimeString renders the time component as "15:04".
func (dt DateTime) TimeString() string {
	return fmt.Sprintf("%02d:%02d", dt.Hour, dt.Minute)
}

// shape describes one recognized structural form of a date/time string.
// Shapes are tried in declaration order; the first structural match wins,
// which resolves strings that would otherwise be ambiguous.
type shape struct {
	pattern *regexp.Regexp
	// build maps the captured digit groups to (year, month, day, hour, minute).
	build func(groups []string) (int, int, int, int, int)
}

var shapes = []shape{
	{
		// YY-MM-DD with an optional decorative weekday annotation, e.g. "25-07-24(목) 11:00".
		pattern: regexp.MustCompile(`^(\d{2})-(\d{1,2})-(\d{1,2})(?:\([^)]*\))?\s+(\d{1,2}):(\d{2})$`),
		build: func(g []string) (int, int, int, int, int) {
			return expandYear(atoi(g[1])), atoi(g[2]), atoi(g[3]), atoi(g[4]), atoi(g[5])
		},
	},
	{
		// YYYY-MM-DD, weekday annotation tolerated here as well.
		pattern: regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})(?:\([^)]*\))?\s+(\d{1,2}):(\d{2})$`),
		build: func(g []string) (int, int, int, int, int) {
			return atoi(g[1]), atoi(g[2]), atoi(g[3]), atoi(g[4]), atoi(g[5])
		},
	},
	{
		// MM/DD/YYYY, month first.
		pattern: regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})\s+(\d{1,2}):(\d{2})$`),
		build: func(g []string) (int, int, int, int, int) {
			return atoi(g[3]), atoi(g[1]), atoi(g[2]), atoi(g[4]), atoi(g[5])
		},
	},
	{
		// DD-MM-YYYY, day first.
		pattern: regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})\s+(\d{1,2}):(\d{2})$`),
		build: func(g []string) (int, int, int, int, int) {
			return atoi(g[3]), atoi(g[2]), atoi(g[1]), atoi(g[4]), atoi(g[5])
		},
	},
}

// Parse converts a human-entered date/time string into its canonical form.
// The second return value is false when the string matches none of the
// recognized shapes, omits the time component, or names a day that does not
// exist on the Gregorian calendar. Failure is an ordinary outcome for blank
// or malformed cells, never an error.
func Parse(value string) (DateTime, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DateTime{}, false
	}

	for _, s := range shapes {
		groups := s.pattern.FindStringSubmatch(value)
		if groups == nil {
			continue
		}
		year, month, day, hour, minute := s.build(groups)
		dt := DateTime{Year: year, Month: month, Day: day, Hour: hour, Minute: minute}
		if !dt.valid() {
			return DateTime{}, false
		}
		return dt, true
	}

	return DateTime{}, false
}

// valid reports whether the parsed components name a real calendar date and
// a 24-hour clock time. time.Date normalizes overflowing components, so a
// round trip that changes any field means the input was not a real date.
func (dt DateTime) valid() bool {
	if dt.Hour < 0 || dt.Hour > 23 || dt.Minute < 0 || dt.Minute > 59 {
		return false
	}
	if dt.Month < 1 || dt.Month > 12 || dt.Day < 1 {
		return false
	}
	normalized := time.Date(dt.Year, time.Month(dt.Month), dt.Day, 0, 0, 0, 0, time.UTC)
	return normalized.Year() == dt.Year &&
		int(normalized.Month()) == dt.Month &&
		normalized.Day() == dt.Day
}

// expandYear applies the fixed two-digit year pivot: 00-69 map to the 2000s,
// 70-99 to the 1900s.
func expandYear(year int) int {
	if year <= 69 {
		return 2000 + year
	}
	return 1900 + year
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
