package ingestion

import (
	"regexp"
	"strings"
)

var (
	multiSpace      = regexp.MustCompile(`[ ]{2,}`)
	excessBlankLine = regexp.MustCompile(`\n\n\n+`)
	nbsp            = string(rune(0x00A0))
)

// CleanText normalizes raw request text for parsing: line endings, non-
// breaking spaces, runs of spaces, and excessive blank lines. Tabs are
// deliberately left alone — a tab anywhere routes the input through the
// tabular detector, so collapsing them would destroy the format signal.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, nbsp, " ")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, " ")
		line = multiSpace.ReplaceAllString(line, " ")
		cleaned = append(cleaned, line)
	}

	result := strings.Join(cleaned, "\n")
	result = excessBlankLine.ReplaceAllString(result, "\n\n")
	// Trim blank lines only: a leading tab is the first (empty) column of a
	// tabular paste, not junk whitespace.
	return strings.Trim(result, "\n")
}
