package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/smartpark/parking-terminal/internal/models"
)

// RESTEventClient implements EventClient. Mutations require an admin token,
// which is read from the token source per request.
type RESTEventClient struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
}

// NewEventClient creates an event client for the given backend base URL
func NewEventClient(baseURL string, timeout time.Duration, token TokenSource) *RESTEventClient {
	return &RESTEventClient{
		baseURL:    baseURL,
		httpClient: newHTTPClient(timeout),
		token:      token,
	}
}

// ListEvents retrieves upcoming city events
func (c *RESTEventClient) ListEvents(ctx context.Context) ([]models.Event, error) {
	req, err := newRequest(ctx, "GET", c.baseURL+apiPrefix+"/events", nil, "")
	if err != nil {
		return nil, err
	}

	var events []models.Event
	if err := doJSON(c.httpClient, req, &events); err != nil {
		return nil, fmt.Errorf("fetching events: %w", err)
	}
	return events, nil
}

// CreateEvent registers a new city event (admin only)
func (c *RESTEventClient) CreateEvent(ctx context.Context, event models.Event) (*models.Event, error) {
	body, err := jsonBody(event)
	if err != nil {
		return nil, err
	}
	req, err := newRequest(ctx, "POST", c.baseURL+apiPrefix+"/events", body, c.token())
	if err != nil {
		return nil, err
	}

	var created models.Event
	if err := doJSON(c.httpClient, req, &created); err != nil {
		return nil, fmt.Errorf("creating event: %w", err)
	}
	return &created, nil
}

// DeleteEvent removes a city event (admin only)
func (c *RESTEventClient) DeleteEvent(ctx context.Context, eventID int) error {
	endpoint := fmt.Sprintf("%s%s/events/%d", c.baseURL, apiPrefix, eventID)
	req, err := newRequest(ctx, "DELETE", endpoint, nil, c.token())
	if err != nil {
		return err
	}

	if err := doJSON(c.httpClient, req, nil); err != nil {
		return fmt.Errorf("deleting event %d: %w", eventID, err)
	}
	return nil
}
