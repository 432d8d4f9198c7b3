// Package alerts scans raw request text for keywords that must be surfaced
// to a human regardless of how the parse went (cancellations, urgencies,
// instrument damage).
package alerts

import "strings"

// DefaultKeywords are the terms watched for when the configuration does
// not override them.
var DefaultKeywords = []string{
	"annulé",
	"annule",
	"annulation",
	"cancelled",
	"canceled",
	"urgent",
	"urgence",
	"asap",
	"bris",
	"brisé",
	"broken",
	"corde cassée",
	"reporté",
	"postponed",
}

// Scan returns the keywords present in the text, case-insensitively, in
// the order they appear in the keyword list. An empty keyword list falls
// back to the defaults.
func Scan(text string, keywords []string) []string {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	lower := strings.ToLower(text)
	var found []string
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			found = append(found, kw)
		}
	}
	return found
}
