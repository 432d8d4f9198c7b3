package matching

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marc/gazelle-sync/internal/types"
)

type fakeStore struct {
	requests []types.TuningRequest
	linked   map[uuid.UUID]string
	linkErr  error
}

func (s *fakeStore) ListUnlinkedRequests(_ context.Context, _ string, _, _ time.Time) ([]types.TuningRequest, error) {
	return s.requests, nil
}

func (s *fakeStore) LinkAppointment(_ context.Context, id uuid.UUID, appointmentID, _ string) error {
	if s.linkErr != nil {
		return s.linkErr
	}
	if s.linked == nil {
		s.linked = make(map[uuid.UUID]string)
	}
	s.linked[id] = appointmentID
	return nil
}

type fakeSource struct {
	appointments []types.CalendarAppointment
	err          error
}

func (s *fakeSource) ListAppointments(_ context.Context, _, _ time.Time) ([]types.CalendarAppointment, error) {
	return s.appointments, s.err
}

func TestReconcilerRun(t *testing.T) {
	date := dateOf(t, "2026-02-10")
	strongID := uuid.New()
	weakID := uuid.New()

	store := &fakeStore{
		requests: []types.TuningRequest{
			{ID: strongID, Date: date, Room: "WP", ForWho: "Concert"},
			{ID: weakID, Date: date},
		},
	}
	source := &fakeSource{
		appointments: []types.CalendarAppointment{
			{ID: "apt-1", Start: "2026-02-10T09:00:00Z", Title: "Place des Arts", Location: "WP", TechnicianID: "tech-nick"},
		},
	}

	report, err := NewReconciler(store, source, testInstitution).Run(context.Background(), *date, *date)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Examined)
	require.Len(t, report.Linked, 1)
	assert.Equal(t, strongID, report.Linked[0].RequestID)
	assert.Equal(t, "apt-1", report.Linked[0].AppointmentID)
	assert.Equal(t, "apt-1", store.linked[strongID])

	// The bare same-day score is not confident enough to auto-link.
	assert.Equal(t, []uuid.UUID{weakID}, report.Unmatched)
}

func TestReconcilerRunNoAppointments(t *testing.T) {
	date := dateOf(t, "2026-02-10")
	reqID := uuid.New()

	store := &fakeStore{requests: []types.TuningRequest{{ID: reqID, Date: date, Room: "WP"}}}
	source := &fakeSource{}

	report, err := NewReconciler(store, source, testInstitution).Run(context.Background(), *date, *date)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Examined)
	assert.Empty(t, report.Linked)
	assert.Equal(t, []uuid.UUID{reqID}, report.Unmatched)
	assert.Empty(t, store.linked)
}

func TestReconcilerRunSourceError(t *testing.T) {
	date := dateOf(t, "2026-02-10")
	store := &fakeStore{}
	source := &fakeSource{err: fmt.Errorf("boom")}

	_, err := NewReconciler(store, source, testInstitution).Run(context.Background(), *date, *date)
	assert.Error(t, err)
}
