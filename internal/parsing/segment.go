package parsing

import (
	"regexp"
	"strings"
	"unicode"
)

// pleasantryPatterns match greeting, sign-off and generic preamble lines in
// either language. Matched lines are dropped before segmentation unless
// they also carry structured data.
var pleasantryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*(bonjour|bonsoir|salut|allo|allô|hello|hi|good morning|good afternoon)\b`),
	regexp.MustCompile(`(?i)^\s*(merci|thanks|thank you|merci beaucoup|merci à l'avance|merci d'avance)\b`),
	regexp.MustCompile(`(?i)^\s*(cordialement|bien à vous|au plaisir|bonne journée|bonne fin de journée|bonne soirée|best regards|regards|sincerely|cheers)\b`),
	regexp.MustCompile(`(?i)^\s*(voici|voici les demandes|here are|please find|svp|s\.v\.p)\b`),
}

// dateLinePattern marks a line that opens a new request block: a day number
// followed by a month name in either language.
var dateLinePattern = regexp.MustCompile(`(?i)^\s*\d{1,2}(?:er)?[\s-](?:` + monthAlternation + `)\b`)

// isPleasantryLine reports whether the line is pure politeness. Lines that
// also contain a piano brand, a hall code or a time pattern are kept: real
// requests sometimes share a line with polite framing.
func isPleasantryLine(line string) bool {
	matched := false
	for _, pat := range pleasantryPatterns {
		if pat.MatchString(line) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	if containsPianoBrand(line) || containsRoomCodeToken(line) || timePattern.MatchString(line) {
		return false
	}
	return true
}

// SplitBlocks segments raw request text into per-request blocks. A line
// matching the date pattern starts a new block, except for the very first
// qualifying line, which never forces a split before any content has
// accumulated.
func SplitBlocks(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var kept []string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if isPleasantryLine(line) {
			continue
		}
		kept = append(kept, line)
	}
	if len(kept) == 0 {
		return nil
	}

	var blocks []string
	var current []string
	for _, line := range kept {
		if dateLinePattern.MatchString(line) && len(current) > 0 {
			blocks = append(blocks, strings.Join(current, "\n"))
			current = nil
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, strings.Join(current, "\n"))
	}
	return blocks
}

// DetectSignature scans the whole input bottom-up for a trailing signature
// line: skipping empties, lines with digits, lines with "@" and pleasantry
// lines, the first remaining line that starts with an uppercase letter, has
// at most 3 words and at most 40 characters is taken as the sender's name.
// Returns "" when no line qualifies.
func DetectSignature(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if strings.ContainsAny(line, "0123456789") || strings.Contains(line, "@") {
			continue
		}
		pleasantry := false
		for _, pat := range pleasantryPatterns {
			if pat.MatchString(line) {
				pleasantry = true
				break
			}
		}
		if pleasantry {
			continue
		}
		runes := []rune(line)
		if !unicode.IsUpper(runes[0]) {
			return ""
		}
		if len(strings.Fields(line)) > 3 || len(runes) > 40 {
			return ""
		}
		return line
	}
	return ""
}
