// Package types provides type definitions for structured data shared across the gazelle-sync system.
package types

import (
	"time"

	"github.com/google/uuid"
)

// ServiceTuning is the default service label for a request that does not
// name a specific service.
const ServiceTuning = "Accord"

// ExtractedRequest is the parser's output unit: one scheduling request
// reconstructed from free text. Confidence accumulates per successfully
// extracted field and is capped at 1.0; downstream code uses it to decide
// whether a human has to confirm the parse.
type ExtractedRequest struct {
	Date        *time.Time `json:"date,omitempty"`
	RequestDate *time.Time `json:"request_date,omitempty"`
	Room        string     `json:"room,omitempty"`
	ForWho      string     `json:"for_who,omitempty"`
	Diapason    string     `json:"diapason,omitempty"`
	Requester   string     `json:"requester,omitempty"`
	Piano       string     `json:"piano,omitempty"`
	Time        string     `json:"time,omitempty"`
	Service     string     `json:"service,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	Confidence  float64    `json:"confidence"`
	Warnings    []string   `json:"warnings,omitempty"`
	// TechnicianID is only populated by the tabular detector, which carries
	// a technician column.
	TechnicianID string `json:"technician_id,omitempty"`
}

// AddWarning appends a warning unless the exact message is already present.
func (r *ExtractedRequest) AddWarning(msg string) {
	for _, w := range r.Warnings {
		if w == msg {
			return
		}
	}
	r.Warnings = append(r.Warnings, msg)
}

// AddConfidence adds w to the confidence score, capping at 1.0.
func (r *ExtractedRequest) AddConfidence(w float64) {
	r.Confidence += w
	if r.Confidence > 1.0 {
		r.Confidence = 1.0
	}
}

// DateString returns the request date as YYYY-MM-DD, or "" if unset.
func (r *ExtractedRequest) DateString() string {
	if r.Date == nil {
		return ""
	}
	return r.Date.Format("2006-01-02")
}

// MergedRequest is an ExtractedRequest whose fields were reconciled from one
// or more near-duplicate extractions in the same parse pass.
type MergedRequest = ExtractedRequest

// TuningRequest is the persisted form of a merged request, as stored in the
// tuning_requests table.
type TuningRequest struct {
	ID                   uuid.UUID  `json:"id"`
	Institution          string     `json:"institution"`
	Date                 *time.Time `json:"date,omitempty"`
	RequestDate          *time.Time `json:"request_date,omitempty"`
	Room                 string     `json:"room,omitempty"`
	ForWho               string     `json:"for_who,omitempty"`
	Diapason             string     `json:"diapason,omitempty"`
	Requester            string     `json:"requester,omitempty"`
	Piano                string     `json:"piano,omitempty"`
	Time                 string     `json:"time,omitempty"`
	Service              string     `json:"service,omitempty"`
	Notes                string     `json:"notes,omitempty"`
	Confidence           float64    `json:"confidence"`
	Warnings             []string   `json:"warnings,omitempty"`
	TechnicianID         string     `json:"technician_id,omitempty"`
	Status               string     `json:"status"`
	GazelleAppointmentID string     `json:"gazelle_appointment_id,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// Extracted returns the request reduced to its parser-level fields, which is
// what the matcher scores against.
func (t *TuningRequest) Extracted() *ExtractedRequest {
	return &ExtractedRequest{
		Date:         t.Date,
		RequestDate:  t.RequestDate,
		Room:         t.Room,
		ForWho:       t.ForWho,
		Diapason:     t.Diapason,
		Requester:    t.Requester,
		Piano:        t.Piano,
		Time:         t.Time,
		Service:      t.Service,
		Notes:        t.Notes,
		Confidence:   t.Confidence,
		Warnings:     t.Warnings,
		TechnicianID: t.TechnicianID,
	}
}
