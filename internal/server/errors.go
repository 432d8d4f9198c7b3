package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/marc/gazelle-sync/internal/gazelle"
	"github.com/marc/gazelle-sync/internal/schemas"
)

// decodeJSON decodes a request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// handleError maps an internal error to an HTTP response. Validation
// problems become 400s with per-field detail, CRM transport failures
// become 502s, everything else is a 500.
func (s *Server) handleError(w http.ResponseWriter, err error) {
	var verr *schemas.ValidationError
	if errors.As(err, &verr) {
		s.jsonResponse(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": verr.Errors,
		})
		return
	}

	var gerr *gazelle.Error
	if errors.As(err, &gerr) {
		s.errorResponse(w, http.StatusBadGateway, gerr.Error())
		return
	}

	s.errorResponse(w, http.StatusInternalServerError, err.Error())
}
