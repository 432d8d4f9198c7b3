package matching

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/marc/gazelle-sync/internal/types"
)

// RequestStore is the slice of the persistence layer the reconciler needs.
type RequestStore interface {
	ListUnlinkedRequests(ctx context.Context, institution string, from, to time.Time) ([]types.TuningRequest, error)
	LinkAppointment(ctx context.Context, id uuid.UUID, appointmentID, technicianID string) error
}

// AppointmentSource provides the bulk read of calendar appointments for a
// window. One call per run; the reconciler never fans out per request.
type AppointmentSource interface {
	ListAppointments(ctx context.Context, from, to time.Time) ([]types.CalendarAppointment, error)
}

// Reconciler links persisted requests to their Gazelle appointments.
type Reconciler struct {
	store       RequestStore
	source      AppointmentSource
	institution string
}

// NewReconciler builds a reconciler for one institution.
func NewReconciler(store RequestStore, source AppointmentSource, institution string) *Reconciler {
	return &Reconciler{store: store, source: source, institution: institution}
}

// LinkedRequest records one request/appointment link made during a run.
type LinkedRequest struct {
	RequestID     uuid.UUID `json:"request_id"`
	AppointmentID string    `json:"appointment_id"`
	Score         int       `json:"score"`
}

// Report summarizes one reconciliation run.
type Report struct {
	Examined  int             `json:"examined"`
	Linked    []LinkedRequest `json:"linked"`
	Unmatched []uuid.UUID     `json:"unmatched"`
}

// Run loads the unlinked requests and the appointment window concurrently,
// scores every request against its same-day candidates, and links the best
// match. A bare base score of 1 means the day matched but nothing else did;
// that is not confident enough to auto-link and the request stays unmatched
// for human review.
func (r *Reconciler) Run(ctx context.Context, from, to time.Time) (*Report, error) {
	var (
		requests     []types.TuningRequest
		appointments []types.CalendarAppointment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		requests, err = r.store.ListUnlinkedRequests(gctx, r.institution, from, to)
		if err != nil {
			return fmt.Errorf("failed to load unlinked requests: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		appointments, err = r.source.ListAppointments(gctx, from, to)
		if err != nil {
			return fmt.Errorf("failed to fetch appointments: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Examined: len(requests)}
	for i := range requests {
		req := &requests[i]
		match := BestMatch(req.Extracted(), appointments, r.institution)
		if !Linkable(match) {
			report.Unmatched = append(report.Unmatched, req.ID)
			continue
		}
		if err := r.store.LinkAppointment(ctx, req.ID, match.Appointment.ID, match.Appointment.TechnicianID); err != nil {
			return report, fmt.Errorf("failed to link request %s: %w", req.ID, err)
		}
		report.Linked = append(report.Linked, LinkedRequest{
			RequestID:     req.ID,
			AppointmentID: match.Appointment.ID,
			Score:         match.Score,
		})
	}
	return report, nil
}
