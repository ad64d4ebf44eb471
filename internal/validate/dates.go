package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	minYear = 1776
	maxYear = 2199
)

var (
	reOrdinal = regexp.MustCompile(`(?i)(\d)(?:st|nd|rd|th)\b`)
	reSept    = regexp.MustCompile(`(?i)\bsept\b`)
)

// dateLayouts are tried in order after commas and periods have been removed.
var dateLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// ParseDate parses the date forms found in legislative summaries and returns
// the calendar day at UTC midnight.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return checkYear(raw, dayOf(t))
	}

	s = reOrdinal.ReplaceAllString(s, "$1")
	s = strings.NewReplacer(",", " ", ".", " ").Replace(s)
	s = reSept.ReplaceAllString(s, "Sep")
	s = strings.Join(strings.Fields(s), " ")

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return checkYear(raw, dayOf(t))
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func checkYear(raw string, t time.Time) (time.Time, error) {
	if y := t.Year(); y < minYear || y > maxYear {
		return time.Time{}, fmt.Errorf("date %q outside %d-%d", raw, minYear, maxYear)
	}
	return t, nil
}
