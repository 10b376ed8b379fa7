package catalog

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Scrapers emit whatever the site renders: "5 May", "May 5, 2025",
// "3rd January", ISO dates, or placeholders like "Date TBC". ResolveDate
// turns any of them into a concrete timestamp and never fails; the worst
// input resolves to referenceNow.
//
// Missing years are the common failure: a parser default lands the date in
// an epoch-like year, so any result more than one year behind referenceNow
// is treated as year-omitted input and repaired against the current year.
// A resolved date more than 30 days in the past is assumed to mean next
// year's occurrence (listings scraped near a year boundary).

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"2 January, 2006",
	"02/01/2006",
	"2006/01/02",
	"January 2",
	"Jan 2",
	"2 January",
	"2 Jan",
}

var (
	ordinalRe      = regexp.MustCompile(`(?i)(\d{1,2})(st|nd|rd|th)\b`)
	trailingYearRe = regexp.MustCompile(`\b\d{4}\b.*$`)
	placeholderRe  = regexp.MustCompile(`(?i)\b(tba|tbc|tbd)\b`)
)

const rolloverWindow = 30 * 24 * time.Hour

// ResolveDate parses a raw date string against referenceNow.
func ResolveDate(raw string, referenceNow time.Time) time.Time {
	s := strings.TrimSpace(raw)
	if s == "" || placeholderRe.MatchString(s) {
		return referenceNow
	}
	s = ordinalRe.ReplaceAllString(s, "$1")

	t, ok := parseAny(s)
	if !ok || staleYear(t, referenceNow) {
		if repaired, rok := reparseWithYear(s, referenceNow.Year()); rok {
			t, ok = repaired, true
		}
	}
	if !ok {
		return referenceNow
	}

	if staleYear(t, referenceNow) {
		t = time.Date(referenceNow.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
	}

	if referenceNow.Sub(t) > rolloverWindow {
		t = t.AddDate(1, 0, 0)
	}
	return t
}

func parseAny(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// reparseWithYear drops a trailing 4-digit year (and anything after it) and
// retries with the given year appended.
func reparseWithYear(s string, year int) (time.Time, bool) {
	base := strings.TrimSpace(trailingYearRe.ReplaceAllString(s, ""))
	base = strings.TrimRight(base, ",- ")
	if base == "" {
		return time.Time{}, false
	}
	return parseAny(base + " " + strconv.Itoa(year))
}

// staleYear reports a parsed year more than one year behind now, the
// signature of a source that omitted the year entirely.
func staleYear(t, now time.Time) bool {
	return now.Year()-t.Year() > 1
}
