// Package gazelle provides the REST client for the Gazelle CRM used by the
// reconciliation runner and the sync commands.
package gazelle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/marc/gazelle-sync/internal/types"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent identifies this integration to the Gazelle API.
const DefaultUserAgent = "gazelle-sync/1.0"

// pageSize is the appointment page size requested per call.
const pageSize = 200

// Error represents an error talking to the Gazelle API.
type Error struct {
	Endpoint string
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("gazelle error for %s: %s: %v", e.Endpoint, e.Message, e.Cause)
	}
	return fmt.Sprintf("gazelle error for %s: %s", e.Endpoint, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the client.
type Options struct {
	Timeout   time.Duration
	UserAgent string
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() *Options {
	return &Options{Timeout: DefaultTimeout, UserAgent: DefaultUserAgent}
}

// Client is a thin JSON client over the Gazelle REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	userAgent  string
}

// NewClient builds a client for the given API base URL and key.
func NewClient(baseURL, apiKey string, opts *Options) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("gazelle base URL is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gazelle API key is required")
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: opts.Timeout},
		userAgent:  opts.UserAgent,
	}, nil
}

// appointmentsPage is the wire shape of the appointment list endpoint.
type appointmentsPage struct {
	Appointments []types.CalendarAppointment `json:"appointments"`
	NextCursor   string                      `json:"next_cursor,omitempty"`
}

// ListAppointments returns every appointment whose start falls inside
// [from, to], following pagination cursors until exhausted. This is the one
// bulk read a reconciliation run performs.
func (c *Client) ListAppointments(ctx context.Context, from, to time.Time) ([]types.CalendarAppointment, error) {
	var all []types.CalendarAppointment
	cursor := ""
	for {
		page, err := c.fetchAppointmentsPage(ctx, from, to, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Appointments...)
		if page.NextCursor == "" {
			return all, nil
		}
		cursor = page.NextCursor
	}
}

func (c *Client) fetchAppointmentsPage(ctx context.Context, from, to time.Time, cursor string) (*appointmentsPage, error) {
	params := url.Values{}
	params.Set("start", from.Format("2006-01-02"))
	params.Set("end", to.Format("2006-01-02"))
	params.Set("limit", fmt.Sprintf("%d", pageSize))
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	var page appointmentsPage
	if err := c.getJSON(ctx, "/v1/appointments?"+params.Encode(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetAppointment fetches a single appointment by id. A 404 returns
// (nil, nil) so callers can distinguish "gone" from transport failure.
func (c *Client) GetAppointment(ctx context.Context, id string) (*types.CalendarAppointment, error) {
	endpoint := "/v1/appointments/" + url.PathEscape(id)

	req, err := c.newRequest(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Endpoint: endpoint, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Endpoint: endpoint, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	var appt types.CalendarAppointment
	if err := json.NewDecoder(resp.Body).Decode(&appt); err != nil {
		return nil, &Error{Endpoint: endpoint, Message: "failed to decode response", Cause: err}
	}
	return &appt, nil
}

func (c *Client) newRequest(ctx context.Context, endpoint string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, &Error{Endpoint: endpoint, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	return req, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := c.newRequest(ctx, endpoint)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Endpoint: endpoint, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Endpoint: endpoint, Message: "failed to read response body", Cause: err}
	}
	if resp.StatusCode != http.StatusOK {
		return &Error{Endpoint: endpoint, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Endpoint: endpoint, Message: "failed to decode response", Cause: err}
	}
	return nil
}
