package server

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/marc/gazelle-sync/internal/db"
	"github.com/marc/gazelle-sync/internal/matching"
	"github.com/marc/gazelle-sync/internal/parsing"
	"github.com/marc/gazelle-sync/internal/types"
)

// defaultReconcileDays is the window scanned when POST /reconcile gets no
// explicit range.
const defaultReconcileDays = 30

// handleListRequests lists stored requests, optionally filtered by status
// and date range.
func (s *Server) handleListRequests(w http.ResponseWriter, r *http.Request) {
	opts := db.ListRequestsOptions{
		Institution: s.cfg.Institution,
		Status:      r.URL.Query().Get("status"),
	}
	if from, ok := parseDateParam(r, "from"); ok {
		opts.From = &from
	}
	if to, ok := parseDateParam(r, "to"); ok {
		opts.To = &to
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		opts.Limit = limit
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && offset > 0 {
		opts.Offset = offset
	}

	requests, err := s.db.ListRequests(r.Context(), opts)
	if err != nil {
		log.Printf("Error listing requests: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list requests")
		return
	}
	if requests == nil {
		requests = []types.TuningRequest{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"requests": requests})
}

// handleGetRequest fetches one request by id.
func (s *Server) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	req, err := s.db.GetRequest(r.Context(), id)
	if err != nil {
		log.Printf("Error fetching request: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch request")
		return
	}
	if req == nil {
		s.errorResponse(w, http.StatusNotFound, "Request not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, req)
}

// handleCreateRequest stores one request from a structured payload.
func (s *Server) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	var payload types.CreateRequestPayload
	if err := decodeJSON(r, &payload); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := payload.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	date, err := parsing.ParseFlexibleDate(payload.Date, time.Now(), s.yearWindow())
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid date: "+payload.Date)
		return
	}

	req := &types.MergedRequest{
		Date:       &date,
		Room:       parsing.NormalizeRoom(payload.Room),
		ForWho:     payload.ForWho,
		Diapason:   payload.Diapason,
		Requester:  parsing.NormalizeRequester(payload.Requester),
		Piano:      payload.Piano,
		Time:       parsing.NormalizeTime(payload.Time),
		Service:    payload.Service,
		Notes:      payload.Notes,
		Confidence: payload.Confidence,
	}
	if req.Service == "" {
		req.Service = types.ServiceTuning
	}

	id, err := s.db.CreateRequest(r.Context(), s.cfg.Institution, req)
	if err != nil {
		log.Printf("Error creating request: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to create request")
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]any{"id": id})
}

// handleUpdateStatus updates the workflow status of a request.
func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	switch payload.Status {
	case db.StatusNew, db.StatusConfirmed, db.StatusLinked, db.StatusCancelled:
	default:
		s.errorResponse(w, http.StatusBadRequest, "invalid status: "+payload.Status)
		return
	}

	if err := s.db.UpdateRequestStatus(r.Context(), id, payload.Status); err != nil {
		s.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": payload.Status})
}

// handleDeleteRequest removes a request.
func (s *Server) handleDeleteRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.db.DeleteRequest(r.Context(), id); err != nil {
		s.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleMatchRequest is the dry-run matcher: it scores one stored request
// against its same-day calendar appointments and reports the best candidate
// without linking anything.
func (s *Server) handleMatchRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if s.crm == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Gazelle CRM is not configured")
		return
	}

	req, err := s.db.GetRequest(r.Context(), id)
	if err != nil {
		log.Printf("Error fetching request: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch request")
		return
	}
	if req == nil {
		s.errorResponse(w, http.StatusNotFound, "Request not found")
		return
	}
	if req.Date == nil {
		s.errorResponse(w, http.StatusConflict, "Request has no date to match on")
		return
	}

	appointments, err := s.crm.ListAppointments(r.Context(), *req.Date, *req.Date)
	if err != nil {
		s.handleError(w, err)
		return
	}

	match := matching.BestMatch(req.Extracted(), appointments, s.cfg.Institution)
	if match == nil {
		s.jsonResponse(w, http.StatusOK, map[string]any{"match": nil})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"match": match.Appointment,
		"score": match.Score,
	})
}

// handleReconcileRequest links one request to its best-scoring appointment.
func (s *Server) handleReconcileRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if s.crm == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Gazelle CRM is not configured")
		return
	}

	req, err := s.db.GetRequest(r.Context(), id)
	if err != nil {
		log.Printf("Error fetching request: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch request")
		return
	}
	if req == nil {
		s.errorResponse(w, http.StatusNotFound, "Request not found")
		return
	}
	if req.Date == nil {
		s.errorResponse(w, http.StatusConflict, "Request has no date to match on")
		return
	}

	appointments, err := s.crm.ListAppointments(r.Context(), *req.Date, *req.Date)
	if err != nil {
		s.handleError(w, err)
		return
	}

	match := matching.BestMatch(req.Extracted(), appointments, s.cfg.Institution)
	if match == nil || !matching.Linkable(match) {
		s.errorResponse(w, http.StatusConflict, "No appointment matched confidently enough to link")
		return
	}

	if err := s.db.LinkAppointment(r.Context(), id, match.Appointment.ID, match.Appointment.TechnicianID); err != nil {
		log.Printf("Error linking appointment: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to link appointment")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"linked":         true,
		"appointment_id": match.Appointment.ID,
		"score":          match.Score,
	})
}

// handleReconcileRun runs a full reconciliation over a date window
// (?days=N forward from today, default 30).
func (s *Server) handleReconcileRun(w http.ResponseWriter, r *http.Request) {
	if s.crm == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Gazelle CRM is not configured")
		return
	}

	days := defaultReconcileDays
	if v, err := strconv.Atoi(r.URL.Query().Get("days")); err == nil && v > 0 {
		days = v
	}
	from := time.Now().Truncate(24 * time.Hour)
	to := from.AddDate(0, 0, days)

	reconciler := matching.NewReconciler(s.db, s.crm, s.cfg.Institution)
	report, err := reconciler.Run(r.Context(), from, to)
	if err != nil {
		log.Printf("Error running reconciliation: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Reconciliation failed")
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

// pathID parses the {id} path segment as a UUID, writing the error response
// itself on failure.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request id")
		return uuid.Nil, false
	}
	return id, true
}

// parseDateParam reads a YYYY-MM-DD query parameter.
func parseDateParam(r *http.Request, name string) (time.Time, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
