package parsing

import (
	"strings"
	"time"

	"github.com/marc/gazelle-sync/internal/types"
)

// Tabular column order for spreadsheet pastes. Columns beyond colTime are
// optional.
const (
	colRequestDate = iota
	colDate
	colRoom
	colForWho
	colDiapason
	colRequester
	colPiano
	colTime
	colTechnician
	colComment

	minTabularColumns = 8
)

// Per-field confidence weights for tabular rows. A fully populated row sums
// to exactly 1.0.
const (
	tabularDateWeight     = 0.4
	tabularRoomWeight     = 0.2
	tabularForWhoWeight   = 0.1
	tabularDiapasonWeight = 0.1
	tabularPianoWeight    = 0.1
	tabularTimeWeight     = 0.1
)

// technicianIDs maps the technicians' free-text names (as they appear in
// the spreadsheet column) to their Gazelle user ids.
var technicianIDs = map[string]string{
	"nick":     "tech-nick",
	"nicolas":  "tech-nick",
	"philippe": "tech-phil",
	"phil":     "tech-phil",
	"andré":    "tech-andre",
	"andre":    "tech-andre",
}

// HasTabularData reports whether the input contains a tab character on any
// line, which routes the whole input through the tabular detector.
func HasTabularData(text string) bool {
	return strings.Contains(text, "\t")
}

// parseTabular treats the whole input as a spreadsheet paste and maps each
// tab-delimited line positionally. Lines with too few columns or an
// unparseable appointment date are skipped individually; the rest of the
// batch still goes through.
func parseTabular(text string, now time.Time, window YearWindow) []types.ExtractedRequest {
	var requests []types.ExtractedRequest

	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if !strings.Contains(line, "\t") {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < minTabularColumns {
			continue
		}
		for i := range cols {
			cols[i] = strings.TrimSpace(cols[i])
		}

		date, err := ParseFlexibleDate(cols[colDate], now, window)
		if err != nil {
			continue
		}

		req := types.ExtractedRequest{
			Date:    &date,
			Service: types.ServiceTuning,
		}
		req.AddConfidence(tabularDateWeight)

		if cols[colRequestDate] != "" {
			if rd, err := ParseFlexibleDate(cols[colRequestDate], now, window); err == nil {
				req.RequestDate = &rd
			}
		}
		if cols[colRoom] != "" {
			req.Room = NormalizeRoom(cols[colRoom])
			req.AddConfidence(tabularRoomWeight)
		}
		if cols[colForWho] != "" {
			req.ForWho = cols[colForWho]
			req.AddConfidence(tabularForWhoWeight)
		}
		if cols[colDiapason] != "" {
			req.Diapason = cols[colDiapason]
			req.AddConfidence(tabularDiapasonWeight)
		}
		// Room codes occasionally land in the requester column; never treat
		// them as a requester.
		req.Requester = NormalizeRequester(cols[colRequester])
		if cols[colPiano] != "" {
			req.Piano = cols[colPiano]
			req.AddConfidence(tabularPianoWeight)
		}
		if cols[colTime] != "" {
			req.Time = cols[colTime]
			req.AddConfidence(tabularTimeWeight)
		}
		if len(cols) > colTechnician && cols[colTechnician] != "" {
			req.TechnicianID = technicianIDs[strings.ToLower(cols[colTechnician])]
		}
		if len(cols) > colComment {
			req.Notes = cols[colComment]
		}

		// Weekend dates are easy to miss in a flat spreadsheet; surface the
		// weekday name in the comment unless it is already there.
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			name := FrenchWeekday(date)
			if !strings.Contains(strings.ToLower(req.Notes), name) {
				if req.Notes == "" {
					req.Notes = name
				} else {
					req.Notes = name + " - " + req.Notes
				}
			}
		}

		requests = append(requests, req)
	}
	return requests
}
