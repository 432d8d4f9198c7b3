package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/marc/gazelle-sync/internal/alerts"
	"github.com/marc/gazelle-sync/internal/ingestion"
	"github.com/marc/gazelle-sync/internal/matching"
	"github.com/marc/gazelle-sync/internal/parsing"
	"github.com/marc/gazelle-sync/internal/schemas"
	"github.com/marc/gazelle-sync/internal/types"
)

// handleParsePreview runs the full parse pipeline on pasted text without
// persisting anything except the audit log: clean, parse, merge, scan for
// alert keywords.
func (s *Server) handleParsePreview(w http.ResponseWriter, r *http.Request) {
	var req types.ParsePreviewRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	text := req.Text
	if req.HTML || ingestion.IsHTML(text) {
		extracted, err := ingestion.ExtractEmailText(text)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		text = extracted
	} else {
		text = ingestion.CleanText(text)
	}

	requests := parsing.Parse(text, &parsing.Options{Window: s.yearWindow()})
	resp := types.ParsePreviewResponse{
		Requests: requests,
		Merged:   matching.Merge(requests),
		Alerts:   alerts.Scan(text, s.cfg.AlertKeywords),
	}

	// Parse logs are best-effort: a preview must not fail because the audit
	// trail is unavailable.
	if _, err := s.db.SaveParseLog(r.Context(), s.cfg.Institution, text, resp); err != nil {
		log.Printf("Error saving parse log: %v", err)
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// importDocument is the decoded shape of a bulk import, validated against
// the JSON Schema before decoding.
type importDocument struct {
	Requests []importItem `json:"requests"`
}

type importItem struct {
	Date        string   `json:"date"`
	RequestDate string   `json:"request_date,omitempty"`
	Room        string   `json:"room,omitempty"`
	ForWho      string   `json:"for_who,omitempty"`
	Diapason    string   `json:"diapason,omitempty"`
	Requester   string   `json:"requester,omitempty"`
	Piano       string   `json:"piano,omitempty"`
	Time        string   `json:"time,omitempty"`
	Service     string   `json:"service,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	Confidence  float64  `json:"confidence,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
}

// handleImportRequests bulk-creates requests from a pre-structured JSON
// document, bypassing the parser. Used for migrating spreadsheets that were
// already cleaned by hand.
func (s *Server) handleImportRequests(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if err := schemas.ValidateImportPayload(body); err != nil {
		s.handleError(w, err)
		return
	}

	var doc importDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ids := make([]uuid.UUID, 0, len(doc.Requests))
	for i := range doc.Requests {
		req, err := doc.Requests[i].toMergedRequest()
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		id, err := s.db.CreateRequest(r.Context(), s.cfg.Institution, req)
		if err != nil {
			log.Printf("Error importing request: %v", err)
			s.errorResponse(w, http.StatusInternalServerError, "Failed to import requests")
			return
		}
		ids = append(ids, id)
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"imported": len(ids),
		"ids":      ids,
	})
}

func (it *importItem) toMergedRequest() (*types.MergedRequest, error) {
	date, err := time.Parse("2006-01-02", it.Date)
	if err != nil {
		return nil, &schemas.ValidationError{Errors: []schemas.FieldError{
			{Field: "date", Message: "invalid date: " + it.Date},
		}}
	}
	req := &types.MergedRequest{
		Date:       &date,
		Room:       parsing.NormalizeRoom(it.Room),
		ForWho:     it.ForWho,
		Diapason:   it.Diapason,
		Requester:  parsing.NormalizeRequester(it.Requester),
		Piano:      it.Piano,
		Time:       parsing.NormalizeTime(it.Time),
		Service:    it.Service,
		Notes:      it.Notes,
		Confidence: it.Confidence,
		Warnings:   it.Warnings,
	}
	if it.RequestDate != "" {
		rd, err := time.Parse("2006-01-02", it.RequestDate)
		if err != nil {
			return nil, &schemas.ValidationError{Errors: []schemas.FieldError{
				{Field: "request_date", Message: "invalid date: " + it.RequestDate},
			}}
		}
		req.RequestDate = &rd
	}
	return req, nil
}
