// Package matching collapses near-duplicate extracted requests and
// reconciles requests against Gazelle calendar appointments by fuzzy,
// weighted scoring.
package matching

import (
	"fmt"

	"github.com/marc/gazelle-sync/internal/parsing"
	"github.com/marc/gazelle-sync/internal/types"
)

// mergeConfidenceBonus is added per absorbed duplicate: two detectors
// agreeing on the same booking is stronger evidence than either alone.
const mergeConfidenceBonus = 0.1

// Merge collapses near-duplicate requests from one parse pass, preserving
// the relative order of the surviving entries.
//
// Two requests are duplicates when their normalized date and room are both
// equal and non-empty, unless their normalized times or pianos are
// non-empty and different: those are genuinely distinct bookings in the
// same room. Conflicting fields resolve deterministically (longer string
// wins; notes concatenate) — there is no reject path.
func Merge(requests []types.ExtractedRequest) []types.MergedRequest {
	absorbed := make([]bool, len(requests))
	merged := make([]types.MergedRequest, 0, len(requests))

	for i := range requests {
		if absorbed[i] {
			continue
		}
		base := requests[i]
		count := 0
		for j := i + 1; j < len(requests); j++ {
			if absorbed[j] {
				continue
			}
			if !sameBooking(&base, &requests[j]) {
				continue
			}
			absorbed[j] = true
			absorb(&base, &requests[j])
			count++
		}
		if count > 0 {
			base.AddWarning(fmt.Sprintf("%d demande(s) en double fusionnée(s)", count))
		}
		// Cleanup pass: requests can reach the merger without going through
		// a detector's finalize (bulk imports, direct API payloads), so a
		// hall code masquerading as the requester is cleared here too.
		base.Requester = parsing.NormalizeRequester(base.Requester)
		merged = append(merged, base)
	}
	return merged
}

// sameBooking applies the duplicate test on normalized fields.
func sameBooking(a, b *types.ExtractedRequest) bool {
	dateA, dateB := a.DateString(), b.DateString()
	if dateA == "" || dateA != dateB {
		return false
	}
	roomA, roomB := parsing.NormalizeRoom(a.Room), parsing.NormalizeRoom(b.Room)
	if roomA == "" || roomA != roomB {
		return false
	}
	timeA, timeB := parsing.NormalizeTime(a.Time), parsing.NormalizeTime(b.Time)
	if timeA != "" && timeB != "" && timeA != timeB {
		return false
	}
	pianoA, pianoB := parsing.NormalizePiano(a.Piano), parsing.NormalizePiano(b.Piano)
	if pianoA != "" && pianoB != "" && pianoA != pianoB {
		return false
	}
	return true
}

// absorb folds dup into base: empty base fields adopt the duplicate's
// value; conflicting notes concatenate; any other conflict keeps the longer
// string, on the assumption that more text carries more information.
func absorb(base, dup *types.ExtractedRequest) {
	base.Room = preferLonger(base.Room, dup.Room)
	base.ForWho = preferLonger(base.ForWho, dup.ForWho)
	base.Diapason = preferLonger(base.Diapason, dup.Diapason)
	base.Piano = preferLonger(base.Piano, dup.Piano)
	base.Time = preferLonger(base.Time, dup.Time)
	base.Service = preferLonger(base.Service, dup.Service)
	base.Requester = preferLonger(base.Requester, dup.Requester)

	switch {
	case base.Notes == "":
		base.Notes = dup.Notes
	case dup.Notes != "" && dup.Notes != base.Notes:
		base.Notes = base.Notes + "; " + dup.Notes
	}

	if base.RequestDate == nil {
		base.RequestDate = dup.RequestDate
	}
	if base.TechnicianID == "" {
		base.TechnicianID = dup.TechnicianID
	}

	higher := base.Confidence
	if dup.Confidence > higher {
		higher = dup.Confidence
	}
	base.Confidence = higher + mergeConfidenceBonus
	if base.Confidence > 1.0 {
		base.Confidence = 1.0
	}

	for _, w := range dup.Warnings {
		base.AddWarning(w)
	}
}

func preferLonger(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" || a == b {
		return a
	}
	if len(b) > len(a) {
		return b
	}
	return a
}
