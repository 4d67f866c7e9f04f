// Package dates parses the date tokens found in OCR text and computes elapsed months.
package dates

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// layouts are tried in order before falling back to dateparse.
// Go's "2" and "1" accept one or two digits, "06" pivots the century like strptime's %y.
var layouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2/1/06",
	"2-1-06",
}

// Parse interprets a day-first date token. It returns false when nothing could parse it.
func Parse(token string) (time.Time, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, token); err == nil {
			return t, true
		}
	}
	t, err := dateparse.ParseAny(token, dateparse.PreferMonthFirst(false))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// MonthsBetween counts whole months from start to end by year/month subtraction.
// The day of month is ignored and inverted ranges clamp to 0.
func MonthsBetween(start, end time.Time) int {
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if months < 0 {
		return 0
	}
	return months
}

// Today truncates t to midnight in its own location.
func Today(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
