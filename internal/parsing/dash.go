package parsing

import (
	"strings"
	"time"

	"github.com/marc/gazelle-sync/internal/types"
)

// Per-field confidence weights for the dash-delimited format.
const (
	dashDateTimeWeight = 0.4
	dashRoomWeight     = 0.2
	dashPianoWeight    = 0.2
	dashServiceWeight  = 0.2
)

// parseDash reads the dash-delimited block format:
//
//	<day> <month> <time description> - <room> - <piano> - <service>[ - <notes...>]
//
// The block must split on " - " into at least four non-empty parts with no
// newline inside the first four. Anything past the fourth part is joined
// back into the notes field.
func parseDash(block string, now time.Time, window YearWindow) *types.ExtractedRequest {
	parts := strings.Split(block, " - ")
	if len(parts) < 4 {
		return nil
	}
	for i := 0; i < 4; i++ {
		if strings.TrimSpace(parts[i]) == "" || strings.Contains(parts[i], "\n") {
			return nil
		}
	}

	date, matched, ok := FindDayMonth(parts[0], now, window)
	if !ok {
		return nil
	}

	req := &types.ExtractedRequest{
		Date:    &date,
		Service: types.ServiceTuning,
	}

	// Whatever is left of the first part once the date text is removed is
	// the time description ("en soirée", "avant 10h", "14h30"...).
	timeDesc := strings.TrimSpace(strings.Replace(parts[0], matched, "", 1))
	if timeDesc != "" {
		req.Time = timeDesc
	}
	req.AddConfidence(dashDateTimeWeight)

	if room := NormalizeRoom(parts[1]); room != "" {
		req.Room = room
		req.AddConfidence(dashRoomWeight)
	}
	if piano := strings.TrimSpace(parts[2]); piano != "" {
		req.Piano = piano
		req.AddConfidence(dashPianoWeight)
	}
	if service := strings.TrimSpace(parts[3]); service != "" {
		req.Service = service
		req.AddConfidence(dashServiceWeight)
	}
	if len(parts) > 4 {
		req.Notes = strings.TrimSpace(strings.Join(parts[4:], " - "))
	}
	return req
}
