package parsing

import (
	"regexp"
	"strings"
	"time"

	"github.com/marc/gazelle-sync/internal/types"
)

const (
	compactConfidence       = 0.85
	compactLegacyConfidence = 0.6
)

var (
	diapasonToken = regexp.MustCompile(`^4\d{2}$`)
	timeToken     = regexp.MustCompile(`^\d{1,2}[hH:]\d{0,2}$`)
)

// parseCompact reads the single-line compact format:
//
//	<date> <room> <for-who...> <diapason> <requester> Piano <piano...> <time>
//
// The room code in second position anchors the format. Absent anchors
// degrade gracefully: without a diapason the for-who text runs through to
// the "Piano" keyword; without the keyword it runs to the time token or end
// of line. A looser legacy path (no room anchor, but a leading date and a
// diapason somewhere) is kept for old pastes at a reduced confidence.
func parseCompact(line string, now time.Time, window YearWindow) *types.ExtractedRequest {
	if strings.Contains(line, "\n") {
		return nil
	}
	tokens := strings.Fields(line)
	if len(tokens) < 3 {
		return nil
	}

	hasRoomAnchor := IsRoomCode(tokens[1])
	if !hasRoomAnchor && !hasLegacyShape(tokens, now, window) {
		return nil
	}

	date, err := ParseFlexibleDate(tokens[0], now, window)
	if err != nil {
		return nil
	}

	req := &types.ExtractedRequest{
		Date:    &date,
		Room:    NormalizeRoom(tokens[1]),
		Service: types.ServiceTuning,
	}

	// Locate the positional anchors in the remainder of the line.
	rest := tokens[2:]
	diapasonIdx, pianoIdx, timeIdx := -1, -1, -1
	for i, tok := range rest {
		switch {
		case diapasonIdx < 0 && diapasonToken.MatchString(tok):
			diapasonIdx = i
		case pianoIdx < 0 && strings.EqualFold(tok, "piano"):
			pianoIdx = i
		case timeIdx < 0 && timeToken.MatchString(tok):
			timeIdx = i
		}
	}

	forWhoEnd := len(rest)
	if diapasonIdx >= 0 {
		forWhoEnd = diapasonIdx
	} else if pianoIdx >= 0 {
		forWhoEnd = pianoIdx
	} else if timeIdx >= 0 {
		forWhoEnd = timeIdx
	}
	req.ForWho = strings.Join(rest[:forWhoEnd], " ")

	if diapasonIdx >= 0 {
		req.Diapason = rest[diapasonIdx]
		// The token right after the diapason is the requester, unless it is
		// already one of the later anchors.
		if next := diapasonIdx + 1; next < len(rest) && next != pianoIdx && next != timeIdx {
			req.Requester = NormalizeRequester(rest[next])
		}
	}
	if pianoIdx >= 0 {
		pianoEnd := len(rest)
		if timeIdx > pianoIdx {
			pianoEnd = timeIdx
		}
		req.Piano = strings.Join(rest[pianoIdx+1:pianoEnd], " ")
	}
	if timeIdx >= 0 {
		req.Time = rest[timeIdx]
	}

	if hasRoomAnchor {
		req.Confidence = compactConfidence
	} else {
		req.Confidence = compactLegacyConfidence
		req.AddWarning(WarnLegacyCompactForm)
	}
	return req
}

// hasLegacyShape reports whether an anchor-less line still looks like the
// old compact format: a leading date token and a diapason somewhere.
func hasLegacyShape(tokens []string, now time.Time, window YearWindow) bool {
	hasDiapason := false
	for _, tok := range tokens[2:] {
		if diapasonToken.MatchString(tok) {
			hasDiapason = true
			break
		}
	}
	if !hasDiapason {
		return false
	}
	// Cheap shape check on the first token before committing to a parse.
	if _, err := ParseFlexibleDate(tokens[0], now, window); err != nil {
		return false
	}
	return true
}
