package matching

import (
	"regexp"
	"strings"

	"github.com/marc/gazelle-sync/internal/parsing"
	"github.com/marc/gazelle-sync/internal/types"
)

// Scoring weights for appointment matching. The institution-name signal
// dominates because it is a near-certain indicator of relevance; the room
// is the second most reliable spatial signal; keyword and time proximity
// corroborate but are noisy, so they are weighted lower and do not stack
// with themselves.
const (
	sameDayBaseScore      = 1
	institutionTitleScore = 10
	forWhoKeywordScore    = 3
	roomBodyScore         = 5
	roomTitleBonus        = 3
	timeProximityScore    = 4

	// timeProximityHours is the tolerance between the request's loosely
	// parsed hour and the appointment's start hour.
	timeProximityHours = 2

	// minKeywordLength: for-who words this short ("de", "la", "et") match
	// everything and mean nothing.
	minKeywordLength = 3
)

var leadingHourPattern = regexp.MustCompile(`\d{1,2}`)

// ScoreAppointment computes the match score between one request and one
// same-day candidate appointment. Callers are expected to have filtered
// candidates to the request's date already; the base score assumes it.
func ScoreAppointment(req *types.ExtractedRequest, appt *types.CalendarAppointment, institution string) int {
	score := sameDayBaseScore

	titleLower := strings.ToLower(appt.Title)
	if institution != "" && strings.Contains(titleLower, strings.ToLower(institution)) {
		score += institutionTitleScore
	}

	// One keyword hit suffices; multiple word matches must not stack, or a
	// wordy for-who would outscore a strong spatial signal.
	for _, word := range strings.Fields(req.ForWho) {
		if len([]rune(word)) <= minKeywordLength {
			continue
		}
		if strings.Contains(titleLower, strings.ToLower(word)) {
			score += forWhoKeywordScore
			break
		}
	}

	if room := parsing.NormalizeRoom(req.Room); room != "" {
		roomLower := strings.ToLower(room)
		body := strings.ToLower(appt.Location + " " + appt.Description + " " + appt.Notes)
		if strings.Contains(body, roomLower) {
			score += roomBodyScore
			if strings.Contains(titleLower, roomLower) {
				score += roomTitleBonus
			}
		}
	}

	if reqHour, ok := looseHour(req.Time); ok {
		if apptHour, ok := appointmentHour(appt); ok {
			diff := reqHour - apptHour
			if diff < 0 {
				diff = -diff
			}
			if diff <= timeProximityHours {
				score += timeProximityScore
			}
		}
	}

	return score
}

// BestMatch filters candidates to the request's exact date and returns the
// maximum-scoring one. Ties keep the first-seen maximum; no secondary key
// re-resolves them. Returns nil when no candidate shares the date — a
// legitimate outcome, never an error.
func BestMatch(req *types.ExtractedRequest, candidates []types.CalendarAppointment, institution string) *types.MatchResult {
	date := req.DateString()
	if date == "" {
		return nil
	}

	var best *types.MatchResult
	for i := range candidates {
		appt := &candidates[i]
		if appt.DateString() == "" || appt.DateString() != date {
			continue
		}
		score := ScoreAppointment(req, appt, institution)
		if best == nil || score > best.Score {
			best = &types.MatchResult{Request: req, Appointment: appt, Score: score}
		}
	}
	return best
}

// Linkable reports whether a match scored above the bare same-day base and
// may therefore be linked without human review.
func Linkable(m *types.MatchResult) bool {
	return m != nil && m.Score > sameDayBaseScore
}

// looseHour pulls the first 1-2 digit run out of a free-form time string
// ("14h", "avant 10h", "8h00-9h00").
func looseHour(timeText string) (int, bool) {
	m := leadingHourPattern.FindString(timeText)
	if m == "" {
		return 0, false
	}
	hour := 0
	for _, r := range m {
		hour = hour*10 + int(r-'0')
	}
	if hour > 23 {
		return 0, false
	}
	return hour, true
}

// appointmentHour reads the start hour from the appointment's timestamp
// ("2026-02-10T14:00:00Z" or "2026-02-10 14:00").
func appointmentHour(appt *types.CalendarAppointment) (int, bool) {
	if len(appt.Start) < 13 {
		return 0, false
	}
	rest := appt.Start[11:]
	m := leadingHourPattern.FindString(rest)
	if m == "" {
		return 0, false
	}
	hour := 0
	for _, r := range m {
		hour = hour*10 + int(r-'0')
	}
	if hour > 23 {
		return 0, false
	}
	return hour, true
}
