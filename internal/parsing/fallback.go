package parsing

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/marc/gazelle-sync/internal/types"
)

// Per-field confidence weights for the positional fallback detector.
const (
	fallbackDateWeight      = 0.25
	fallbackRoomWeight      = 0.20
	fallbackPianoWeight     = 0.15
	fallbackDiapasonWeight  = 0.10
	fallbackTimeWeight      = 0.10
	fallbackForWhoWeight    = 0.10
	fallbackServiceWeight   = 0.05
	fallbackRequesterWeight = 0.05
)

var (
	bareDiapasonLine  = regexp.MustCompile(`^\s*4\d{2}\s*$`)
	bareCodeLine      = regexp.MustCompile(`^\s*[A-Za-z]{2,3}\s*$`)
	pianoKeywordLine  = regexp.MustCompile(`(?i)\bpiano\b`)
	concertLabelLine  = regexp.MustCompile(`(?i)^\s*concert\b`)
	timeLine          = regexp.MustCompile(`\b\d{1,2}[h:]\d{0,2}\b`)
	signatureWordOnly = regexp.MustCompile(`^[\p{L}.'-]+(?:\s+[\p{L}.'-]+)?$`)
)

// signatureBlocklist holds polite words that look like a short capitalized
// signature but never are one.
var signatureBlocklist = map[string]bool{
	"merci":        true,
	"thanks":       true,
	"cordialement": true,
	"regards":      true,
	"sincerely":    true,
	"bonjour":      true,
	"hello":        true,
}

// parseFallback is the detector of last resort: a sequential best-effort
// classification of a block's lines by whatever structural signal each one
// carries. The positional for-who rule reflects the dominant historical
// format, where the line right after the room names the event or occupant.
func parseFallback(block string, now time.Time, window YearWindow) *types.ExtractedRequest {
	req := &types.ExtractedRequest{Service: types.ServiceTuning}

	var (
		seenDate, seenRoom                bool
		seenDiapason, seenPiano, seenTime bool
		forWhoLines                       []string
		requesterCandidate                string
	)

	for _, rawLine := range strings.Split(block, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		if !seenDate {
			if date, _, ok := FindDayMonth(line, now, window); ok {
				req.Date = &date
				seenDate = true
				req.AddConfidence(fallbackDateWeight)
				continue
			}
		}

		// A room mention can legitimately share a line with a piano
		// description, whether by brand or by the bare word "piano"; in
		// that case the piano reading wins below.
		if !seenRoom && containsRoomCodeToken(line) && !containsPianoBrand(line) && !pianoKeywordLine.MatchString(line) {
			req.Room = NormalizeRoom(roomTokenIn(line))
			seenRoom = true
			req.AddConfidence(fallbackRoomWeight)
			continue
		}

		if bareDiapasonLine.MatchString(line) {
			if !seenDiapason {
				req.Diapason = strings.TrimSpace(line)
				seenDiapason = true
				req.AddConfidence(fallbackDiapasonWeight)
			}
			continue
		}

		if bareCodeLine.MatchString(line) && knownRequesterCodes[strings.ToUpper(strings.TrimSpace(line))] {
			if req.Requester == "" {
				req.Requester = strings.ToUpper(strings.TrimSpace(line))
				req.AddConfidence(fallbackRequesterWeight)
			}
			continue
		}

		if containsPianoBrand(line) || pianoKeywordLine.MatchString(line) {
			if !seenPiano {
				req.Piano = line
				seenPiano = true
				req.AddConfidence(fallbackPianoWeight)
			}
			continue
		}

		if concertLabelLine.MatchString(line) {
			req.Service = line
			req.AddConfidence(fallbackServiceWeight)
			continue
		}

		if timeLine.MatchString(line) {
			if !seenTime {
				req.Time = line
				seenTime = true
				req.AddConfidence(fallbackTimeWeight)
			}
			continue
		}

		// Positional rules for otherwise-unclassified lines.
		detailsStarted := seenDiapason || seenPiano || seenTime
		switch {
		case (seenDate || seenRoom) && !detailsStarted:
			forWhoLines = append(forWhoLines, line)
		case detailsStarted && looksLikeSignature(line):
			requesterCandidate = line
		}
	}

	if len(forWhoLines) > 0 {
		req.ForWho = strings.Join(forWhoLines, " ")
		req.AddConfidence(fallbackForWhoWeight)
	}
	// A name already captured as the occupant must not be double-counted as
	// the requester.
	if requesterCandidate != "" && req.Requester == "" && requesterCandidate != req.ForWho {
		req.Requester = requesterCandidate
		req.AddConfidence(fallbackRequesterWeight)
	}

	if req.Date == nil && req.Room == "" && req.Piano == "" && req.ForWho == "" {
		return nil
	}

	req.Requester = NormalizeRequester(req.Requester)
	return req
}

// roomTokenIn returns the first token of the line that is a known hall
// code, or the whole line if somehow none is (callers check first).
func roomTokenIn(line string) string {
	for _, tok := range strings.Fields(line) {
		cleaned := strings.Trim(tok, ".,;:()")
		if roomCodes[strings.ToUpper(cleaned)] {
			return cleaned
		}
	}
	return line
}

// looksLikeSignature reports whether the line is a short capitalized one-
// or two-word name with no digits and no polite-word hits.
func looksLikeSignature(line string) bool {
	if strings.ContainsAny(line, "0123456789") {
		return false
	}
	runes := []rune(line)
	if len(runes) == 0 || !unicode.IsUpper(runes[0]) {
		return false
	}
	if !signatureWordOnly.MatchString(line) {
		return false
	}
	for _, word := range strings.Fields(strings.ToLower(line)) {
		if signatureBlocklist[strings.Trim(word, ",.!")] {
			return false
		}
	}
	return true
}
