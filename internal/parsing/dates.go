package parsing

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// YearWindow bounds the year-inference heuristic for dates given without a
// year. Requests are occasionally entered a few days after the fact but are
// overwhelmingly forward-looking, hence the asymmetric defaults.
type YearWindow struct {
	PastDays   int
	FutureDays int
}

// DefaultYearWindow returns the operational default of 30 days back and
// 180 days forward.
func DefaultYearWindow() YearWindow {
	return YearWindow{PastDays: 30, FutureDays: 180}
}

// monthNames maps French and English month names and abbreviations
// (accented and unaccented) to the month number.
var monthNames = map[string]time.Month{
	"janvier": time.January, "jan": time.January, "january": time.January,
	"février": time.February, "fevrier": time.February, "fév": time.February,
	"fev": time.February, "feb": time.February, "february": time.February,
	"mars": time.March, "mar": time.March, "march": time.March,
	"avril": time.April, "avr": time.April, "apr": time.April, "april": time.April,
	"mai": time.May, "may": time.May,
	"juin": time.June, "jun": time.June, "june": time.June,
	"juillet": time.July, "juil": time.July, "jul": time.July, "july": time.July,
	"août": time.August, "aout": time.August, "aoû": time.August,
	"aou": time.August, "aug": time.August, "august": time.August,
	"septembre": time.September, "sept": time.September, "sep": time.September,
	"september": time.September,
	"octobre":   time.October, "oct": time.October, "october": time.October,
	"novembre": time.November, "nov": time.November, "november": time.November,
	"décembre": time.December, "decembre": time.December, "déc": time.December,
	"dec": time.December, "december": time.December,
}

// monthAlternation is the regex alternation over every known month name,
// longest first so "juillet" wins over "juil".
var monthAlternation = buildMonthAlternation()

func buildMonthAlternation() string {
	names := make([]string, 0, len(monthNames))
	for name := range monthNames {
		names = append(names, regexp.QuoteMeta(name))
	}
	// Longest-first keeps the alternation greedy enough for full names.
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			if len(names[j]) > len(names[i]) {
				names[i], names[j] = names[j], names[i]
			}
		}
	}
	return strings.Join(names, "|")
}

var (
	// "20 janvier", "1er mars 2026", "3 December"
	dayMonthPattern = regexp.MustCompile(`(?i)\b(\d{1,2})(?:er)?\s+(` + monthAlternation + `)\b(?:\s+(\d{4}))?`)
	// "20-jan", "03-déc"
	dayDashMonthPattern = regexp.MustCompile(`(?i)\b(\d{1,2})-(` + monthAlternation + `)\b(?:-(\d{4}))?`)
	slashDatePattern    = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
)

// LookupMonth resolves a French or English month name or abbreviation.
func LookupMonth(name string) (time.Month, bool) {
	m, ok := monthNames[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

// InferYear resolves a bare day+month to a concrete date. The current-year
// candidate wins if it falls within the window around now; failing that the
// previous-year candidate wins if it is within the backward window (a
// December request entered in early January); failing that the next-year
// candidate wins if it is within the forward window; failing all three,
// whichever of this year and next is numerically closer to now is taken.
func InferYear(day int, month time.Month, now time.Time, window YearWindow) time.Time {
	lastYear := time.Date(now.Year()-1, month, day, 0, 0, 0, 0, now.Location())
	thisYear := time.Date(now.Year(), month, day, 0, 0, 0, 0, now.Location())
	nextYear := time.Date(now.Year()+1, month, day, 0, 0, 0, 0, now.Location())

	diff := daysBetween(now, thisYear)
	if diff >= -window.PastDays && diff <= window.FutureDays {
		return thisYear
	}
	if lastDiff := daysBetween(now, lastYear); lastDiff >= -window.PastDays && lastDiff < 0 {
		return lastYear
	}
	nextDiff := daysBetween(now, nextYear)
	if nextDiff >= 0 && nextDiff <= window.FutureDays {
		return nextYear
	}
	if abs(diff) <= abs(nextDiff) {
		return thisYear
	}
	return nextYear
}

func daysBetween(from, to time.Time) int {
	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	return int(to.Sub(fromDay).Hours() / 24)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// FindDayMonth scans text for a day + month-name phrase (either language,
// "1er" accepted, "20-jan" dash form accepted) and resolves it to a date.
// Returns the resolved date, the matched substring, and whether a match was
// found at all.
func FindDayMonth(text string, now time.Time, window YearWindow) (time.Time, string, bool) {
	for _, pat := range []*regexp.Regexp{dayMonthPattern, dayDashMonthPattern} {
		m := pat.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		day, err := strconv.Atoi(m[1])
		if err != nil || day < 1 || day > 31 {
			continue
		}
		month, ok := LookupMonth(m[2])
		if !ok {
			continue
		}
		if m[3] != "" {
			year, err := strconv.Atoi(m[3])
			if err == nil {
				return time.Date(year, month, day, 0, 0, 0, 0, now.Location()), m[0], true
			}
		}
		return InferYear(day, month, now, window), m[0], true
	}
	return time.Time{}, "", false
}

// ParseFlexibleDate reads a date string in any of the formats that show up
// in pasted requests: ISO, DD/MM/YYYY, "D monthname [YYYY]", "D-mon".
// Bare day+month values get their year inferred. Total failure returns an
// error; detectors treat that as "does not apply", never as fatal.
func ParseFlexibleDate(s string, now time.Time, window YearWindow) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return time.Time{}, &DateError{Input: s, Cause: errors.New("empty date string")}
	}

	for _, layout := range []string{"2006-01-02", "2006/01/02"} {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	if m := slashDatePattern.FindStringSubmatch(trimmed); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location()), nil
		}
	}
	if t, matched, ok := FindDayMonth(trimmed, now, window); ok && matched != "" {
		return t, nil
	}
	return time.Time{}, &DateError{Input: s}
}

// frenchWeekdays gives the locale weekday names used when flagging weekend
// appointments in tabular comments.
var frenchWeekdays = map[time.Weekday]string{
	time.Sunday:    "dimanche",
	time.Monday:    "lundi",
	time.Tuesday:   "mardi",
	time.Wednesday: "mercredi",
	time.Thursday:  "jeudi",
	time.Friday:    "vendredi",
	time.Saturday:  "samedi",
}

// FrenchWeekday returns the French name of t's weekday.
func FrenchWeekday(t time.Time) string {
	return frenchWeekdays[t.Weekday()]
}
