package parsing

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/marc/gazelle-sync/internal/types"
)

// Per-field confidence weights for natural-language extraction. These were
// tuned against historical requests; the chain's precedence depends on them.
const (
	naturalServiceWeight   = 0.15
	naturalPianoWeight     = 0.20
	naturalDiapasonWeight  = 0.15
	naturalRoomWeight      = 0.15
	naturalDateWeight      = 0.20
	naturalTimeWeight      = 0.15
	naturalSignatureWeight = 0.10
)

// serviceKeywords maps service vocabulary (both languages) to the canonical
// service label. Ordered: the first hit wins.
var serviceKeywords = []struct {
	pattern *regexp.Regexp
	label   string
}{
	{regexp.MustCompile(`(?i)\b(accord(?:age|er|é)?|tuning|tune)\b`), "Accord"},
	{regexp.MustCompile(`(?i)\b(r[ée]paration|repair)\b`), "Réparation"},
	{regexp.MustCompile(`(?i)\b(harmonisation|voicing)\b`), "Harmonisation"},
	{regexp.MustCompile(`(?i)\b(r[ée]glage|regulation)\b`), "Réglage"},
	{regexp.MustCompile(`(?i)\b(entretien|maintenance)\b`), "Entretien"},
}

// brandPhrasePatterns capture a brand plus its trailing size/model phrase
// ("Steinway 9' D", "Yamaha C7", "Bösendorfer 280").
var brandPhrasePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(steinway(?:\s+\d{1,2}')?(?:\s+[A-DOSM]\b)?)`),
	regexp.MustCompile(`(?i)\b(yamaha(?:\s+(?:C\d|S\d|CF(?:X|III)?|U\d))?)`),
	regexp.MustCompile(`(?i)\b(b[öo]sendorfer(?:\s+\d{3})?)`),
	regexp.MustCompile(`(?i)\b(fazioli(?:\s+F\d{3})?)`),
	regexp.MustCompile(`(?i)\b(kawai(?:\s+(?:GX|SK|RX)-?\d)?)`),
	regexp.MustCompile(`(?i)\b(baldwin(?:\s+SD-?\d{1,2})?)`),
	regexp.MustCompile(`(?i)\b(bechstein(?:\s+[A-D]\s*\d{3})?)`),
	regexp.MustCompile(`(?i)\b(heintzman(?:\s+\d{3})?)`),
	regexp.MustCompile(`(?i)\b(mason\s*&\s*hamlin(?:\s+[A-D]{1,2})?)`),
	regexp.MustCompile(`(?i)\b(petrof(?:\s+P\s?\d{3})?)`),
}

var (
	diapasonPhrase = regexp.MustCompile(`(?i)(?:\b(?:à|a|at|au|diapason)\s+|\b)(4\d{2})\s*(?:hz\b)?`)

	roomLetterPhrase = regexp.MustCompile(`(?i)\b(?:salle|room)\s+([A-Za-z]\d?)\b`)

	betweenTimePhrase = regexp.MustCompile(`(?i)\b(?:entre|between)\s+(\d{1,2}[h:]\d{0,2})\s+(?:et|and)\s+(\d{1,2}[h:]\d{0,2})`)
	beforeTimePhrase  = regexp.MustCompile(`(?i)\b(avant|before)\s+(\d{1,2}[h:]\d{0,2})`)
	atTimePhrase      = regexp.MustCompile(`(?i)\b(?:à|at|vers|around)\s+(\d{1,2}[h:]\d{0,2})\b`)
	bareTimePhrase    = regexp.MustCompile(`\b(\d{1,2}[h:]\d{2}|\d{1,2}h)\b`)
)

// sortedRequesterNames returns the known requester full names in a stable
// order, longest first so "annie jenkins" wins over any shorter prefix.
func sortedRequesterNames() []string {
	names := make([]string, 0, len(requesterNames))
	for name := range requesterNames {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return names
}

// parseNatural extracts fields from running prose by independent keyword
// and pattern searches. It refuses the block when none of the three anchor
// fields (date, piano, room) is present, and always flags the result for
// human confirmation: free-form text is never trusted outright, however
// high the per-field confidence.
func parseNatural(block string, now time.Time, window YearWindow) *types.ExtractedRequest {
	if !looksLikeProse(block) {
		return nil
	}

	req := &types.ExtractedRequest{Service: types.ServiceTuning}

	for _, kw := range serviceKeywords {
		if kw.pattern.MatchString(block) {
			req.Service = kw.label
			req.AddConfidence(naturalServiceWeight)
			break
		}
	}

	for _, pat := range brandPhrasePatterns {
		if m := pat.FindStringSubmatch(block); m != nil {
			req.Piano = strings.TrimSpace(m[1])
			req.AddConfidence(naturalPianoWeight)
			break
		}
	}

	if m := diapasonPhrase.FindStringSubmatch(block); m != nil {
		req.Diapason = m[1]
		req.AddConfidence(naturalDiapasonWeight)
	}

	if room := findRoomReference(block); room != "" {
		req.Room = room
		req.AddConfidence(naturalRoomWeight)
	}

	if date, _, ok := FindDayMonth(block, now, window); ok {
		req.Date = &date
		req.AddConfidence(naturalDateWeight)
	}

	if t := findTimePhrase(block); t != "" {
		req.Time = t
		req.AddConfidence(naturalTimeWeight)
	}

	if requester := findKnownRequester(block); requester != "" {
		req.Requester = requester
		req.AddConfidence(naturalSignatureWeight)
	}

	// Date, piano and room are the anchor fields; with none of them this
	// detector has no business claiming the block.
	if req.Date == nil && req.Piano == "" && req.Room == "" {
		return nil
	}

	req.AddWarning(WarnFreeformDetected)
	return req
}

// proseMinWords is the sentence-length threshold for the prose gate.
const proseMinWords = 6

// looksLikeProse reports whether the block reads as running text rather
// than the line-per-field format: a single line, or any line long enough to
// be a sentence. Line-per-field blocks must fall through to the positional
// detector, which understands their bare room-code and diapason lines.
func looksLikeProse(block string) bool {
	lines := strings.Split(block, "\n")
	if len(lines) == 1 {
		return true
	}
	for _, line := range lines {
		if len(strings.Fields(line)) >= proseMinWords {
			return true
		}
	}
	return false
}

// findRoomReference looks for an explicit hall-name phrase first, then for
// a bare letter after "salle"/"room".
func findRoomReference(block string) string {
	upper := strings.ToUpper(block)
	for _, entry := range roomNameLookup {
		if strings.Contains(upper, entry.fragment) {
			return entry.code
		}
	}
	if m := roomLetterPhrase.FindStringSubmatch(block); m != nil {
		return NormalizeRoom(m[1])
	}
	return ""
}

// findTimePhrase extracts the most specific time expression present:
// a range, then a "before" qualifier, then a point time, then a bare time.
func findTimePhrase(block string) string {
	if m := betweenTimePhrase.FindStringSubmatch(block); m != nil {
		return m[1] + "-" + m[2]
	}
	if m := beforeTimePhrase.FindStringSubmatch(block); m != nil {
		return "avant " + m[2]
	}
	if m := atTimePhrase.FindStringSubmatch(block); m != nil {
		return m[1]
	}
	if m := bareTimePhrase.FindStringSubmatch(block); m != nil {
		return m[1]
	}
	return ""
}

// findKnownRequester matches the known requester names anywhere in the
// block (signatures are frequently glued to the request sentence), falling
// back to a trailing-signature scan restricted to the same known names.
func findKnownRequester(block string) string {
	lower := strings.ToLower(block)
	for _, name := range sortedRequesterNames() {
		if strings.Contains(lower, name) {
			return requesterNames[name]
		}
	}
	if sig := DetectSignature(block); sig != "" {
		if code, ok := requesterNames[strings.ToLower(sig)]; ok {
			return code
		}
	}
	return ""
}
