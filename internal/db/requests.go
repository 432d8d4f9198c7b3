package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/marc/gazelle-sync/internal/types"
)

// Request statuses as stored in tuning_requests.status.
const (
	StatusNew       = "new"
	StatusConfirmed = "confirmed"
	StatusLinked    = "linked"
	StatusCancelled = "cancelled"
)

const requestColumns = `id, institution, date, request_date, room, for_who, diapason,
	requester, piano, time_text, service, notes, confidence, warnings,
	technician_id, status, gazelle_appointment_id, created_at, updated_at`

// CreateRequest persists one merged request and returns its id.
func (db *DB) CreateRequest(ctx context.Context, institution string, req *types.MergedRequest) (uuid.UUID, error) {
	warnings, err := json.Marshal(req.Warnings)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal warnings: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO tuning_requests
		   (institution, date, request_date, room, for_who, diapason, requester,
		    piano, time_text, service, notes, confidence, warnings, technician_id, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING id`,
		institution, req.Date, req.RequestDate, req.Room, req.ForWho, req.Diapason,
		req.Requester, req.Piano, req.Time, req.Service, req.Notes, req.Confidence,
		warnings, req.TechnicianID, StatusNew,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create request: %w", err)
	}
	return id, nil
}

// GetRequest retrieves a request by id; (nil, nil) when not found.
func (db *DB) GetRequest(ctx context.Context, id uuid.UUID) (*types.TuningRequest, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+requestColumns+` FROM tuning_requests WHERE id = $1`, id)
	req, err := scanRequest(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return req, nil
}

// ListRequestsOptions filters ListRequests.
type ListRequestsOptions struct {
	Institution string
	From        *time.Time
	To          *time.Time
	Status      string
	Limit       int
	Offset      int
}

// ListRequests lists requests for an institution, newest date first.
func (db *DB) ListRequests(ctx context.Context, opts ListRequestsOptions) ([]types.TuningRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM tuning_requests WHERE institution = $1`
	args := []any{opts.Institution}

	if opts.From != nil {
		args = append(args, *opts.From)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if opts.To != nil {
		args = append(args, *opts.To)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	if opts.Status != "" {
		args = append(args, opts.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY date DESC NULLS LAST, created_at DESC"
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	var requests []types.TuningRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

// ListUnlinkedRequests returns requests in the window that have no Gazelle
// appointment linked yet and are not cancelled.
func (db *DB) ListUnlinkedRequests(ctx context.Context, institution string, from, to time.Time) ([]types.TuningRequest, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+requestColumns+` FROM tuning_requests
		 WHERE institution = $1
		   AND date BETWEEN $2 AND $3
		   AND (gazelle_appointment_id IS NULL OR gazelle_appointment_id = '')
		   AND status <> $4
		 ORDER BY date, created_at`,
		institution, from, to, StatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to list unlinked requests: %w", err)
	}
	defer rows.Close()

	var requests []types.TuningRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

// LinkAppointment records the Gazelle appointment chosen for a request and
// adopts the CRM technician as authoritative.
func (db *DB) LinkAppointment(ctx context.Context, id uuid.UUID, appointmentID, technicianID string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE tuning_requests
		 SET gazelle_appointment_id = $1,
		     technician_id = CASE WHEN $2 <> '' THEN $2 ELSE technician_id END,
		     status = $3,
		     updated_at = NOW()
		 WHERE id = $4`,
		appointmentID, technicianID, StatusLinked, id)
	if err != nil {
		return fmt.Errorf("failed to link appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("request not found: %s", id)
	}
	return nil
}

// UpdateRequestStatus sets the status of a request.
func (db *DB) UpdateRequestStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE tuning_requests SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id)
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("request not found: %s", id)
	}
	return nil
}

// DeleteRequest removes a request.
func (db *DB) DeleteRequest(ctx context.Context, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM tuning_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("request not found: %s", id)
	}
	return nil
}

// SaveParseLog stores the raw text and the parse result of one preview for
// auditing low-confidence decisions later.
func (db *DB) SaveParseLog(ctx context.Context, institution, rawText string, result any) (uuid.UUID, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal parse result: %w", err)
	}
	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO parse_logs (institution, raw_text, result) VALUES ($1, $2, $3) RETURNING id`,
		institution, rawText, resultJSON,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save parse log: %w", err)
	}
	return id, nil
}

// rowScanner lets scanRequest work for both QueryRow and Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*types.TuningRequest, error) {
	var req types.TuningRequest
	var warningsJSON []byte
	err := row.Scan(&req.ID, &req.Institution, &req.Date, &req.RequestDate, &req.Room,
		&req.ForWho, &req.Diapason, &req.Requester, &req.Piano, &req.Time,
		&req.Service, &req.Notes, &req.Confidence, &warningsJSON,
		&req.TechnicianID, &req.Status, &req.GazelleAppointmentID,
		&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if warningsJSON != nil {
		_ = json.Unmarshal(warningsJSON, &req.Warnings)
	}
	return &req, nil
}
