// Package parsing turns free-text scheduling requests from Place des Arts
// into structured records. It layers several format detectors (tabular,
// compact single-line, dash-delimited, natural language, positional
// fallback) over shared field normalization and bilingual date parsing.
package parsing

import (
	"regexp"
	"strings"
	"time"
)

// roomCodes is the closed set of hall codes used by Place des Arts.
var roomCodes = map[string]bool{
	"WP": true, // Salle Wilfrid-Pelletier
	"TM": true, // Théâtre Maisonneuve
	"JD": true, // Théâtre Jean-Duceppe
	"MS": true, // Maison symphonique
	"C5": true, // Cinquième Salle
	"CL": true, // Salle Claude-Léveillée
}

// roomNameLookup maps substrings of verbose hall names (accented and
// unaccented spellings) to the short code. Checked in order so the more
// specific entries win.
var roomNameLookup = []struct {
	fragment string
	code     string
}{
	{"WILFRID-PELLETIER", "WP"},
	{"WILFRID PELLETIER", "WP"},
	{"WILFRID", "WP"},
	{"PELLETIER", "WP"},
	{"MAISONNEUVE", "TM"},
	{"JEAN-DUCEPPE", "JD"},
	{"JEAN DUCEPPE", "JD"},
	{"DUCEPPE", "JD"},
	{"MAISON SYMPHONIQUE", "MS"},
	{"SYMPHONIQUE", "MS"},
	{"CINQUIÈME", "C5"},
	{"CINQUIEME", "C5"},
	{"5E SALLE", "C5"},
	{"CLAUDE-LÉVEILLÉE", "CL"},
	{"CLAUDE-LEVEILLEE", "CL"},
	{"LÉVEILLÉE", "CL"},
	{"LEVEILLEE", "CL"},
	// "SWP" is the abbreviation the house historically used for the salle
	// Wilfrid-Pelletier; it must resolve to WP, never survive as-is.
	{"SWP", "WP"},
}

// pianoBrands are the manufacturer names recognized in piano descriptions.
// Comparison is coarse on purpose: two requests naming the same brand are
// considered the same instrument for duplicate detection.
var pianoBrands = []string{
	"STEINWAY",
	"YAMAHA",
	"BÖSENDORFER",
	"BOSENDORFER",
	"FAZIOLI",
	"KAWAI",
	"BALDWIN",
	"BECHSTEIN",
	"HEINTZMAN",
	"MASON & HAMLIN",
	"PETROF",
}

// requesterNames maps the recurring requesters' full names to their codes.
var requesterNames = map[string]string{
	"annie jenkins":    "AJ",
	"a. jenkins":       "AJ",
	"isabelle caron":   "IC",
	"marie lapointe":   "ML",
	"nathalie roy":     "NR",
	"sylvain bergeron": "SB",
}

// knownRequesterCodes whitelists short codes that are valid on their own.
var knownRequesterCodes = map[string]bool{
	"AJ": true,
	"IC": true,
	"ML": true,
	"NR": true,
	"SB": true,
}

var timePattern = regexp.MustCompile(`(\d{1,2})[:hH](\d{2})?`)

// IsRoomCode reports whether s (after trimming and uppercasing) is one of
// the known hall codes.
func IsRoomCode(s string) bool {
	return roomCodes[strings.ToUpper(strings.TrimSpace(s))]
}

// NormalizeRoom canonicalizes a room reference to its short hall code.
// Unrecognized input is returned trimmed but otherwise unchanged; the
// normalizer never invents a code.
func NormalizeRoom(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	upper := strings.ToUpper(trimmed)
	if roomCodes[upper] {
		return upper
	}
	for _, entry := range roomNameLookup {
		if strings.Contains(upper, entry.fragment) {
			return entry.code
		}
	}
	return trimmed
}

// NormalizePiano reduces a piano description to a comparable key. If a
// known brand appears, the brand alone is the key; model and serial
// differences are deliberately ignored for duplicate detection.
func NormalizePiano(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	upper := strings.ToUpper(trimmed)
	for _, brand := range pianoBrands {
		if strings.Contains(upper, brand) {
			return brand
		}
	}
	return strings.Join(strings.Fields(strings.ToLower(trimmed)), " ")
}

// NormalizeTime extracts an hour[:minute] pattern and returns it as a
// zero-padded HH:MM string, or "" if no time pattern is present.
func NormalizeTime(s string) string {
	m := timePattern.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	hour := m[1]
	if len(hour) == 1 {
		hour = "0" + hour
	}
	minute := m[2]
	if minute == "" {
		minute = "00"
	}
	return hour + ":" + minute
}

// NormalizeDate reduces a date value to its ISO YYYY-MM-DD form.
func NormalizeDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// NormalizeDateString reduces a date string to ISO YYYY-MM-DD, using the
// flexible date parser for anything not already in ISO form. Returns "" if
// the string cannot be read as a date.
func NormalizeDateString(s string, now time.Time, window YearWindow) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	if t, err := time.Parse("2006-01-02", trimmed); err == nil {
		return t.Format("2006-01-02")
	}
	if len(trimmed) >= 10 {
		if t, err := time.Parse("2006-01-02", trimmed[:10]); err == nil {
			return t.Format("2006-01-02")
		}
	}
	t, err := ParseFlexibleDate(trimmed, now, window)
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// NormalizeRequester canonicalizes a requester value. Room codes are never
// valid requesters (the source data sometimes swaps the two columns), and
// short unmapped tokens are cleared rather than kept as garbage codes.
func NormalizeRequester(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	upper := strings.ToUpper(trimmed)
	if roomCodes[upper] {
		return ""
	}
	lower := strings.ToLower(trimmed)
	if code, ok := requesterNames[lower]; ok {
		return code
	}
	if knownRequesterCodes[upper] {
		return upper
	}
	if len([]rune(trimmed)) < 3 {
		return ""
	}
	return trimmed
}

// containsPianoBrand reports whether the line mentions any known brand.
func containsPianoBrand(line string) bool {
	upper := strings.ToUpper(line)
	for _, brand := range pianoBrands {
		if strings.Contains(upper, brand) {
			return true
		}
	}
	return false
}

// containsRoomCodeToken reports whether any whitespace-delimited token of
// the line is a known hall code.
func containsRoomCodeToken(line string) bool {
	for _, tok := range strings.Fields(line) {
		if roomCodes[strings.ToUpper(strings.Trim(tok, ".,;:()"))] {
			return true
		}
	}
	return false
}
