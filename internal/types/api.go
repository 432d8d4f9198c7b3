package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ParsePreviewRequest represents the body of POST /parse/preview.
type ParsePreviewRequest struct {
	Text string `json:"text" validate:"required,min=1"`
	// HTML indicates the text is an HTML email body and must be reduced to
	// plain text before parsing.
	HTML bool `json:"html,omitempty"`
}

// ParsePreviewResponse carries the parsed and merged requests plus any
// alert keywords found in the raw text.
type ParsePreviewResponse struct {
	Requests []ExtractedRequest `json:"requests"`
	Merged   []MergedRequest    `json:"merged"`
	Alerts   []string           `json:"alerts,omitempty"`
}

// CreateRequestPayload represents the body of POST /requests.
type CreateRequestPayload struct {
	Date       string  `json:"date" validate:"required"`
	Room       string  `json:"room,omitempty"`
	ForWho     string  `json:"for_who,omitempty"`
	Diapason   string  `json:"diapason,omitempty" validate:"omitempty,len=3,numeric"`
	Requester  string  `json:"requester,omitempty"`
	Piano      string  `json:"piano,omitempty"`
	Time       string  `json:"time,omitempty"`
	Service    string  `json:"service,omitempty"`
	Notes      string  `json:"notes,omitempty"`
	Confidence float64 `json:"confidence,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// CreateUserRequest represents the request to register a dashboard user.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=1"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest represents the login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// User represents a dashboard user for API responses.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse carries the user record and a signed JWT.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// Validate validates the ParsePreviewRequest using the validator.
func (r *ParsePreviewRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the CreateRequestPayload using the validator.
func (r *CreateRequestPayload) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the CreateUserRequest using the validator.
func (r *CreateUserRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	return validator.New().Struct(r)
}
