package types

// CalendarAppointment is an appointment record from the Gazelle CRM. The
// matcher treats it as an opaque scored candidate; only the date, start
// time and the free-text fields participate in scoring.
type CalendarAppointment struct {
	ID           string `json:"id"`
	Start        string `json:"start"` // RFC3339 or "YYYY-MM-DD HH:MM"
	Title        string `json:"title"`
	Location     string `json:"location,omitempty"`
	Description  string `json:"description,omitempty"`
	Notes        string `json:"notes,omitempty"`
	TechnicianID string `json:"technician_id,omitempty"`
	Status       string `json:"status,omitempty"`
}

// DateString returns the YYYY-MM-DD portion of the start timestamp, or ""
// if the appointment has no usable date.
func (a *CalendarAppointment) DateString() string {
	if len(a.Start) < 10 {
		return ""
	}
	return a.Start[:10]
}

// MatchResult ties a request to its best-scoring same-day appointment.
// Score is an unbounded non-negative integer; 1 is the floor for any
// same-day candidate.
type MatchResult struct {
	Request     *ExtractedRequest    `json:"-"`
	Appointment *CalendarAppointment `json:"appointment"`
	Score       int                  `json:"score"`
}
